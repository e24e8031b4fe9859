package index

import (
	"regexp"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// filterFalsePositiveRate trades a little wasted scanning for small filters.
const filterFalsePositiveRate = 0.01

var tokenRE = regexp.MustCompile(`[a-z0-9]+`)

// pageFilter is a Bloom filter over one raw page's lower-cased tokens,
// used to skip pages that cannot contain a query during fallback search.
type pageFilter struct {
	f *bloom.BloomFilter
}

func newPageFilter(page string) *pageFilter {
	tokens := tokenize(page)
	if len(tokens) == 0 {
		return nil
	}
	f := bloom.NewWithEstimates(uint(len(tokens)), filterFalsePositiveRate)
	for _, token := range tokens {
		f.AddString(token)
	}
	return &pageFilter{f: f}
}

// mayContainAll returns true if every token might be present on the page.
// False positives are possible; false negatives are not.
func (p *pageFilter) mayContainAll(tokens []string) bool {
	for _, token := range tokens {
		if !p.f.TestString(token) {
			return false
		}
	}
	return true
}

// tokenize splits text into lower-cased alphanumeric tokens.
func tokenize(text string) []string {
	return tokenRE.FindAllString(strings.ToLower(text), -1)
}
