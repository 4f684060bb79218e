package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored conversations, show one or clear them",
	Run: func(cmd *cobra.Command, _ []string) {
		showHistory(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringP("session", "s", "", "show or clear only this session")
	historyCmd.Flags().Bool("clear", false, "delete the stored turns")
}

func showHistory(cmd *cobra.Command) {
	ctx := context.Background()

	config, log := setup()

	if config.History == nil || config.History.Path == "" {
		log.Fatal("history.path is not configured")
	}

	store, err := history.Open(ctx, config.History.Path)
	if err != nil {
		log.Fatal("opening history", zap.Error(err))
	}
	defer store.Close()

	session, _ := cmd.Flags().GetString("session")

	if wipe, _ := cmd.Flags().GetBool("clear"); wipe {
		removed, err := store.Clear(ctx, session)
		if err != nil {
			log.Fatal("clearing history", zap.Error(err))
		}
		log.Info("history cleared", zap.String("session", session), zap.Int64("turns", removed))
		return
	}

	if session != "" {
		turns, err := store.Recent(ctx, session, 0)
		if err != nil {
			log.Fatal("reading history", zap.Error(err))
		}
		if len(turns) == 0 {
			log.Info("no turns stored", zap.String("session", session))
			return
		}
		for _, t := range turns {
			fmt.Printf("[%s] %s:\n%s\n\n", t.CreatedAt.Local().Format(time.DateTime), t.Role, t.Text)
		}
		return
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		log.Fatal("listing sessions", zap.Error(err))
	}
	if len(sessions) == 0 {
		log.Info("no conversations stored")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tTURNS\tLAST ACTIVE")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.ID, s.Turns, humanize.Time(s.LastAt))
	}
	_ = w.Flush()
}
