package summarizer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"titlecluster/internal/domain"
)

// KeywordExtractor labels a cluster with its most frequent member tokens.
// Frequency counts each token once per sentence; stopwords and tokens
// without letters are ignored.
type KeywordExtractor struct {
	stopwords map[string]struct{}
}

// NewKeywordExtractor creates a frequency-based cluster labeler.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{stopwords: defaultStopwords()}
}

// Keywords returns up to n tokens of the given member sentences, most
// frequent first, ties broken lexically.
func (k *KeywordExtractor) Keywords(sentences []domain.Sentence, members []int, n int) []string {
	if n <= 0 {
		return nil
	}
	freq := map[string]int{}
	for _, idx := range members {
		if idx < 0 || idx >= len(sentences) {
			continue
		}
		seen := map[string]struct{}{}
		for _, tok := range sentences[idx].Tokens {
			norm := strings.ToLower(tok)
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			if !k.keep(norm) {
				continue
			}
			freq[norm]++
		}
	}
	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] == freq[words[j]] {
			return words[i] < words[j]
		}
		return freq[words[i]] > freq[words[j]]
	})
	if n > len(words) {
		n = len(words)
	}
	return words[:n]
}

// All labels every ranked cluster.
func (k *KeywordExtractor) All(sentences []domain.Sentence, ranked []domain.ClusterReport, n int) map[int][]string {
	out := make(map[int][]string, len(ranked))
	for _, r := range ranked {
		out[r.ClusterID] = k.Keywords(sentences, r.Members, n)
	}
	return out
}

func (k *KeywordExtractor) keep(tok string) bool {
	if _, stop := k.stopwords[tok]; stop {
		return false
	}
	hasLetter := false
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	// single Latin letters carry no topic
	return utf8.RuneCountInString(tok) > 1 || tok[0] >= utf8.RuneSelf
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"的", "了", "是", "在", "和", "与", "也", "就", "都", "而", "及", "或", "被", "把", "让", "这", "那", "有", "个", "为", "吗", "吧", "呢", "啊",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
