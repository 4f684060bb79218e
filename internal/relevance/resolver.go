package relevance

import (
	"sort"
	"strings"

	"github.com/spigell/govjobs/internal/catalog"
)

type resolverKey struct {
	key  string
	code string
}

// Resolver maps free-text mentions of a jurisdiction to its canonical code.
// Build it once from the reference table and share it; it is read-only.
type Resolver struct {
	keys  []resolverKey
	names map[string]string
	codes map[string]string
}

// NewResolver indexes both codes and display names, case-insensitively.
// Keys are scanned longest first so that "san bernardino" wins over a shorter
// name that happens to be contained in it; equal lengths are ordered by key.
func NewResolver(jurisdictions []catalog.Jurisdiction) *Resolver {
	r := &Resolver{
		names: make(map[string]string, len(jurisdictions)),
		codes: make(map[string]string, len(jurisdictions)),
	}

	lookup := make(map[string]string, 2*len(jurisdictions))
	for _, j := range jurisdictions {
		code := strings.TrimSpace(j.Code)
		if code == "" {
			continue
		}
		r.names[code] = j.Name
		r.codes[strings.ToLower(code)] = code

		for _, k := range []string{code, j.Name} {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			if _, exists := lookup[k]; !exists {
				lookup[k] = code
			}
		}
	}

	for k, code := range lookup {
		r.keys = append(r.keys, resolverKey{key: k, code: code})
	}
	sort.Slice(r.keys, func(i, j int) bool {
		if len(r.keys[i].key) != len(r.keys[j].key) {
			return len(r.keys[i].key) > len(r.keys[j].key)
		}
		return r.keys[i].key < r.keys[j].key
	})

	return r
}

// Resolve returns the code of the first jurisdiction whose code or name appears
// inside text.
func (r *Resolver) Resolve(text string) (string, bool) {
	code, _, ok := r.Mention(text)
	return code, ok
}

// Mention is Resolve that also reports which key matched.
func (r *Resolver) Mention(text string) (code, key string, ok bool) {
	if r == nil {
		return "", "", false
	}

	lower := strings.ToLower(text)
	for _, k := range r.keys {
		if strings.Contains(lower, k.key) {
			return k.code, k.key, true
		}
	}
	return "", "", false
}

// Canonical returns the canonical spelling of code, if it is known.
func (r *Resolver) Canonical(code string) (string, bool) {
	if r == nil {
		return "", false
	}
	c, ok := r.codes[strings.ToLower(strings.TrimSpace(code))]
	return c, ok
}

// Name returns the display name for code, or code itself when unknown.
func (r *Resolver) Name(code string) string {
	if r != nil {
		if name, ok := r.names[code]; ok && name != "" {
			return name
		}
	}
	return code
}

func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}
