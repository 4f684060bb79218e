package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/govjobs/internal/logger"
	"github.com/spigell/govjobs/internal/render"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Rank job records for a free-text query without calling the model",
	Long:  "Rank job records for a free-text query without calling the model.\nRecords scoring below search.threshold are left out.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		search(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("limit", "n", 10, "show at most this many records (0 shows all)")
	searchCmd.Flags().Bool("context", false, "print the context block that would be sent to the model")
}

func search(cmd *cobra.Command, text string) {
	ctx := context.Background()

	config, log := setup()

	a, err := newApplication(ctx, config, log, false, false)
	if err != nil {
		log.Fatal("preparing the catalog", zap.Error(err))
	}
	defer a.Close()

	q, result := a.service.Search(text)
	log.Info("search finished", append(logger.SearchFields(q), zap.Int("matched", result.Count))...)

	limit, _ := cmd.Flags().GetInt("limit")
	records := result.Top(limit)

	if showContext, _ := cmd.Flags().GetBool("context"); showContext {
		fmt.Println(render.Context(records, a.resolver.Name))
		return
	}

	if len(records) == 0 {
		fmt.Println(render.NoMatches)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tJURISDICTION\tCODE\tTITLE\tSALARY")
	for i := range records {
		rec := &records[i]
		fmt.Fprintf(w, "%.2f\t%s\t%d\t%s\t%s\n",
			result.Scores[i],
			a.resolver.Name(rec.Jurisdiction),
			rec.JobCode,
			rec.TitleOr("-"),
			salaryOr(render.SalaryRange(rec), "-"),
		)
	}
	_ = w.Flush()

	if limit > 0 && result.Count > limit {
		fmt.Printf("\n%d more record(s) not shown\n", result.Count-limit)
	}
}

func salaryOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

