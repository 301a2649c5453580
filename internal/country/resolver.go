// Package country resolves free-form country and territory names to ISO 3166-1 alpha-3 codes.
package country

import (
	"sort"
	"strings"
)

// Stage identifies which matching step produced a Match.
type Stage int

const (
	StageExact Stage = iota + 1
	StageCode
	StageTokenSet
	StageJaccard
	StageEditDistance
)

func (s Stage) String() string {
	switch s {
	case StageExact:
		return "exact"
	case StageCode:
		return "code"
	case StageTokenSet:
		return "token-set"
	case StageJaccard:
		return "jaccard"
	case StageEditDistance:
		return "edit-distance"
	default:
		return "unknown"
	}
}

// Thresholds for the similarity stages. A Jaccard candidate must also share
// MinSharedTokens words with the query, so a lone word such as "Africa" or
// "Islands" does not pick one of the many names containing it.
const (
	MinJaccard      = 0.5
	MinSharedTokens = 2
	MinEditRatio    = 0.85
)

// Match is one resolution candidate.
type Match struct {
	ISO3  string
	Name  string
	Score float64
	Stage Stage
}

type form struct {
	text   string
	tokens []string
}

// Resolver maps names to ISO3 codes using a fixed reference list.
//
// When several reference entries score equally at the deciding stage, the
// entry that appears first in the reference list wins (first-match policy).
// A Resolver is safe for concurrent use once constructed.
type Resolver struct {
	entries   []Entry
	forms     [][]form
	exact     map[string]int
	tokenSets map[string]int
	codes     map[string]int
}

// New returns a Resolver over the built-in reference list.
func New() *Resolver {
	return NewWithEntries(reference)
}

// NewWithEntries returns a Resolver over entries, in the given order.
func NewWithEntries(entries []Entry) *Resolver {
	r := &Resolver{
		entries:   entries,
		forms:     make([][]form, len(entries)),
		exact:     make(map[string]int),
		tokenSets: make(map[string]int),
		codes:     make(map[string]int),
	}

	for i, e := range entries {
		code := strings.ToUpper(e.ISO3)
		if _, taken := r.codes[code]; !taken {
			r.codes[code] = i
		}
		names := append([]string{e.Name}, e.Aliases...)
		for _, n := range names {
			tokens := Tokens(n)
			if len(tokens) == 0 {
				continue
			}
			f := form{text: strings.Join(tokens, " "), tokens: uniqueSorted(tokens)}
			r.forms[i] = append(r.forms[i], f)

			if _, taken := r.exact[f.text]; !taken {
				r.exact[f.text] = i
			}
			key := tokenSetKey(tokens)
			if _, taken := r.tokenSets[key]; !taken {
				r.tokenSets[key] = i
			}
		}
	}
	return r
}

// Resolve returns the ISO3 code for name, or ok=false when nothing matches.
func (r *Resolver) Resolve(name string) (iso3 string, ok bool) {
	matches := r.ResolveFuzzy(name)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].ISO3, true
}

// ResolveFuzzy returns the candidates of the first stage that produces any,
// best first. Exact, code and token-set stages yield a single candidate.
func (r *Resolver) ResolveFuzzy(name string) []Match {
	tokens := Tokens(name)
	if len(tokens) == 0 {
		return nil
	}
	text := strings.Join(tokens, " ")

	if i, ok := r.exact[text]; ok {
		return []Match{r.match(i, 1, StageExact)}
	}

	if code := strings.TrimSpace(name); len(code) == 3 && isUpperASCII(code) {
		if i, ok := r.codes[code]; ok {
			return []Match{r.match(i, 1, StageCode)}
		}
	}

	if i, ok := r.tokenSets[tokenSetKey(tokens)]; ok {
		return []Match{r.match(i, 1, StageTokenSet)}
	}

	set := uniqueSorted(tokens)
	overlap := func(f form) float64 {
		score, shared := jaccard(set, f.tokens)
		if shared < MinSharedTokens {
			return 0
		}
		return score
	}
	if m := r.rank(MinJaccard, StageJaccard, overlap); len(m) > 0 {
		return m
	}
	return r.rank(MinEditRatio, StageEditDistance, func(f form) float64 { return editRatio(text, f.text) })
}

// rank scores every entry by its best form and keeps those at or above threshold.
// The stable sort keeps reference order among equal scores.
func (r *Resolver) rank(threshold float64, stage Stage, score func(form) float64) []Match {
	var out []Match
	for i, forms := range r.forms {
		best := 0.0
		for _, f := range forms {
			if s := score(f); s > best {
				best = s
			}
		}
		if best >= threshold {
			out = append(out, r.match(i, best, stage))
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

func (r *Resolver) match(i int, score float64, stage Stage) Match {
	return Match{ISO3: r.entries[i].ISO3, Name: r.entries[i].Name, Score: score, Stage: stage}
}

// Len returns the number of reference entries.
func (r *Resolver) Len() int {
	return len(r.entries)
}

func isUpperASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
