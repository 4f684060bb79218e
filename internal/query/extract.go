package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/govjobs/internal/normalize"
)

// Resolver finds a jurisdiction mentioned in free text.
type Resolver interface {
	Mention(text string) (code, key string, ok bool)
}

var jobCodePattern = regexp.MustCompile(`\b\d{3,6}\b`)

type intentKeywords struct {
	intent Intent
	words  []string
}

// Earlier entries win when a question mentions several intents.
var intents = []intentKeywords{
	{IntentSalary, []string{"salary", "salaries", "pay", "paid", "earn", "earns", "wage", "wages", "compensation", "grade", "grades", "range", "money"}},
	{IntentDuties, []string{"duties", "duty", "responsibilities", "responsibility", "tasks", "task", "role"}},
	{IntentQualifications, []string{"qualifications", "qualification", "qualify", "qualified", "education", "degree", "certification", "certifications", "experience"}},
	{IntentRequirements, []string{"requirements", "requirement", "required", "require", "requires", "checks", "check", "background", "polygraph", "drug", "license", "exam", "examination", "medical"}},
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "for": true, "in": true, "at": true, "on": true,
	"to": true, "and": true, "or": true, "is": true, "are": true, "was": true, "be": true, "what": true,
	"whats": true, "which": true, "who": true, "how": true, "much": true, "many": true, "does": true,
	"do": true, "did": true, "can": true, "could": true, "would": true, "should": true, "i": true,
	"me": true, "my": true, "you": true, "your": true, "it": true, "its": true, "this": true,
	"that": true, "there": true, "with": true, "as": true, "by": true, "from": true, "about": true,
	"tell": true, "show": true, "give": true, "list": true, "need": true, "get": true, "make": true,
	"job": true, "jobs": true, "position": true, "positions": true, "code": true, "county": true,
	"city": true, "please": true, "any": true, "have": true, "has": true, "they": true, "their": true,
}

var intentWords = func() map[string]bool {
	m := make(map[string]bool)
	for _, entry := range intents {
		for _, w := range entry.words {
			m[w] = true
		}
	}
	return m
}()

// Extract builds a Query from a user utterance without calling a model.
//
// A non-empty preResolved jurisdiction code wins over anything mentioned in
// the text. The first standalone 3-6 digit number is taken as the job code and
// whatever content words remain become the job title.
func Extract(utterance string, resolver Resolver, preResolved string) Query {
	q := Query{Intent: DetectIntent(utterance)}

	rest := strings.ToLower(utterance)

	if code := strings.TrimSpace(preResolved); code != "" {
		q.Jurisdiction = Text(code)
	} else if resolver != nil {
		if code, key, ok := resolver.Mention(rest); ok {
			q.Jurisdiction = Text(code)
			rest = strings.ReplaceAll(rest, key, " ")
		}
	}

	if loc := jobCodePattern.FindStringIndex(rest); loc != nil {
		if code, err := strconv.Atoi(rest[loc[0]:loc[1]]); err == nil {
			q.JobCode = Code(code)
			rest = rest[:loc[0]] + " " + rest[loc[1]:]
		}
	}

	if title := titleWords(rest); title != "" {
		q.JobTitle = Text(title)
	}

	return q
}

// DetectIntent classifies the question by keyword.
func DetectIntent(utterance string) Intent {
	words := normalize.Words(normalize.Text(utterance))
	for _, entry := range intents {
		for _, w := range words {
			for _, keyword := range entry.words {
				if w == keyword {
					return entry.intent
				}
			}
		}
	}
	return IntentGeneral
}

func titleWords(text string) string {
	words := normalize.Words(normalize.Text(text))
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if stopWords[w] || intentWords[w] || isNumber(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func isNumber(w string) bool {
	_, err := strconv.Atoi(w)
	return err == nil
}
