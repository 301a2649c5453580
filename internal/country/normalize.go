package country

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var abbreviations = map[string]string{
	"st":   "saint",
	"ste":  "sainte",
	"dem":  "democratic",
	"rep":  "republic",
	"fed":  "federated",
	"is":   "islands",
	"isl":  "islands",
	"pdr":  "peoples democratic republic",
	"terr": "territory",
}

var stopWords = map[string]bool{
	"of":  true,
	"the": true,
	"and": true,
}

// FoldAccents lowercases s and strips combining marks (Côte -> cote).
func FoldAccents(s string) string {
	result, _, _ := transform.String(stripAccents, strings.ToLower(s))
	return result
}

// Tokens returns the normalized words of a country name: accents folded,
// "Name, Qualifier" inverted to "Qualifier Name", punctuation dropped,
// abbreviations expanded and stop-words removed.
func Tokens(name string) []string {
	s := invertComma(FoldAccents(strings.TrimSpace(name)))

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '’' || r == '`':
		case r == '&':
			b.WriteString(" and ")
		default:
			b.WriteRune(' ')
		}
	}

	var out []string
	for _, w := range strings.Fields(b.String()) {
		if full, ok := abbreviations[w]; ok {
			w = full
		}
		for _, part := range strings.Fields(w) {
			if !stopWords[part] {
				out = append(out, part)
			}
		}
	}
	return out
}

// invertComma turns "congo, democratic republic of the" into
// "democratic republic of the congo". Names with more than one comma are left alone.
func invertComma(s string) string {
	if strings.Count(s, ",") != 1 {
		return s
	}
	head, tail, _ := strings.Cut(s, ",")
	head, tail = strings.TrimSpace(head), strings.TrimSpace(tail)
	if head == "" || tail == "" {
		return s
	}
	return tail + " " + head
}

func tokenSetKey(tokens []string) string {
	set := uniqueSorted(tokens)
	return strings.Join(set, " ")
}

func uniqueSorted(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// jaccard returns |a∩b| / |a∪b| over token sets, and |a∩b|.
func jaccard(a, b []string) (score float64, shared int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	inter := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union), inter
}

// editRatio is 1 - levenshtein(a, b) / max(len(a), len(b)), counted in runes.
func editRatio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
