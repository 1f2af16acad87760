package analyzer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps raw text to lowercase alphanumeric tokens with stopwords removed
// and known abbreviations expanded. The zero value is not usable; use NewNormalizer.
type Normalizer struct {
	abbreviations map[string]string
	stopwords     map[string]struct{}
}

// NewNormalizer creates a Normalizer. extra entries are merged over the built-in
// abbreviation table; keys are matched lowercased.
func NewNormalizer(extra map[string]string) *Normalizer {
	abbr := defaultAbbreviations()
	for k, v := range extra {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		abbr[k] = strings.ToLower(v)
	}
	return &Normalizer{
		abbreviations: abbr,
		stopwords:     defaultStopwords(),
	}
}

// Normalize returns the tokens of raw joined by single spaces.
func (n *Normalizer) Normalize(raw string) string {
	return strings.Join(n.Tokens(raw), " ")
}

// Tokens returns the normalized token sequence of raw.
func (n *Normalizer) Tokens(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	text := strings.ToLower(foldAccents(raw))

	var expanded strings.Builder
	for _, tok := range strings.Fields(text) {
		if expanded.Len() > 0 {
			expanded.WriteByte(' ')
		}
		expanded.WriteString(n.expand(tok))
	}

	words := splitWords(expanded.String())
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if _, isStop := n.stopwords[w]; isStop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// expand looks tok up in the abbreviation table, first as written and then with
// surrounding punctuation removed.
func (n *Normalizer) expand(tok string) string {
	candidates := []string{
		tok,
		strings.TrimRight(tok, sentencePunct),
		strings.Trim(tok, sentencePunct),
		strings.TrimFunc(tok, func(r rune) bool { return !isASCIIAlnum(r) }),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if full, ok := n.abbreviations[c]; ok {
			return full
		}
	}
	return tok
}

const sentencePunct = `,.;:!?"'()[]{}`

// foldAccents decomposes text and drops combining marks, so "café" becomes "cafe".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// splitWords splits lowercase text on every rune outside [a-z0-9].
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if isASCIIAlnum(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func defaultAbbreviations() map[string]string {
	return map[string]string{
		"ml":     "machine learning",
		"ai":     "artificial intelligence",
		"nlp":    "natural language processing",
		"db":     "database",
		"dbs":    "databases",
		"qa":     "quality assurance",
		"hr":     "human resources",
		"js":     "javascript",
		"ts":     "typescript",
		"k8s":    "kubernetes",
		"ui":     "user interface",
		"ux":     "user experience",
		"devops": "development operations",
		"oop":    "object oriented programming",
		"mgr":    "manager",
		"sr":     "senior",
		"jr":     "junior",
		"dev":    "developer",
		"devs":   "developers",
		"eng":    "engineer",
		"c++":    "cplusplus",
		"c#":     "csharp",
		".net":   "dotnet",
	}
}

// defaultStopwords returns a set of common English stopwords.
func defaultStopwords() map[string]struct{} {
	stops := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "he", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "were", "will", "with", "this",
		"have", "had", "but", "not", "you", "your", "we", "our",
		"they", "their", "she", "her", "his", "if", "or", "so",
		"no", "can", "do", "does", "did", "been", "being", "would",
		"could", "should", "may", "might", "must", "shall", "which",
		"who", "whom", "what", "when", "where", "why", "how", "all",
		"each", "every", "both", "few", "more", "most", "other",
		"some", "such", "than", "too", "very", "just", "also",
		"i", "me", "my", "us", "them", "these", "those", "into",
		"about", "over", "under", "up", "down", "out", "then", "there",
		"here", "any", "only", "own", "same", "again", "further", "once",
		"am", "while", "during", "before", "after", "above", "below",
		"between", "through", "against", "nor", "off", "ours", "yours",
		"itself", "themselves", "whose", "because", "until", "per",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
