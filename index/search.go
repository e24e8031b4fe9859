package index

import (
	"fmt"
	"strings"

	"github.com/mwalczyk/backstage"
)

// Ensure Searcher implements backstage.KnowledgeService at compile time.
var _ backstage.KnowledgeService = (*Searcher)(nil)

// Searcher answers keyword queries against one built index. The index is
// passed in explicitly; a Searcher constructed over a nil index reports
// EINVALID from every search.
type Searcher struct {
	idx     *backstage.KnowledgeIndex
	filters []*pageFilter
}

// NewSearcher creates a Searcher over the given index. Per-page token
// filters for the raw-page fallback are built up front.
func NewSearcher(idx *backstage.KnowledgeIndex) *Searcher {
	s := &Searcher{idx: idx}
	if idx != nil {
		s.filters = make([]*pageFilter, len(idx.RawPages))
		for i, page := range idx.RawPages {
			s.filters[i] = newPageFilter(page)
		}
	}
	return s
}

// Search lower-cases the query and tests substring containment against
// the index sources in fixed order: equipment names, price labels,
// passage text, restriction keywords, FAQ text. Keyed facts match in
// either direction (query inside key or key inside query) so that
// questions mentioning an item name still hit. If no structured source
// matches, raw page paragraphs are scanned as a last resort.
func (s *Searcher) Search(query string) ([]backstage.SearchHit, error) {
	if s.idx == nil {
		return nil, backstage.Errorf(backstage.EINVALID, "knowledge index has not been built yet")
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var hits []backstage.SearchHit

	for _, key := range sortedKeys(s.idx.Equipment) {
		if !matchesKey(q, key) {
			continue
		}
		fact := s.idx.Equipment[key]
		text := fmt.Sprintf("%d x %s", fact.Quantity, fact.Name)
		if fact.Spec != "" {
			text += fmt.Sprintf(" (%s)", fact.Spec)
		}
		hits = append(hits, backstage.SearchHit{
			Kind: backstage.HitEquipment,
			Text: text,
			Page: firstPage(fact.Pages),
		})
	}

	for _, label := range sortedKeys(s.idx.Prices) {
		if !matchesKey(q, strings.ToLower(label)) {
			continue
		}
		fact := s.idx.Prices[label]
		hits = append(hits, backstage.SearchHit{
			Kind: backstage.HitPrice,
			Text: fmt.Sprintf("%s: £%.2f", fact.Label, fact.Price),
			Page: fact.Page,
		})
	}

	for _, category := range backstage.Categories() {
		for _, passage := range s.idx.Passages[category] {
			if strings.Contains(strings.ToLower(passage.Text), q) {
				hits = append(hits, backstage.SearchHit{
					Kind: backstage.HitPassage,
					Text: passage.Text,
					Page: passage.Page,
				})
			}
		}
	}

	for _, keyword := range restrictionVocabulary {
		fact, ok := s.idx.Restrictions[keyword]
		if !ok || !matchesKey(q, keyword) {
			continue
		}
		for _, occ := range fact.Occurrences {
			hits = append(hits, backstage.SearchHit{
				Kind: backstage.HitRestriction,
				Text: occ.Sentence,
				Page: occ.Page,
			})
		}
	}

	for _, entry := range s.idx.FAQs {
		text := entry.Question + " " + entry.Answer
		if strings.Contains(strings.ToLower(text), q) {
			hits = append(hits, backstage.SearchHit{
				Kind: backstage.HitFAQ,
				Text: text,
			})
		}
	}

	if len(hits) == 0 {
		hits = s.searchRawPages(q)
	}

	return hits, nil
}

// searchRawPages scans raw page paragraphs for the query. The per-page
// Bloom filter is a prefilter only: it has no false negatives, so pages
// it rejects cannot contain every query token and the exact substring
// scan over the remaining pages stays authoritative.
func (s *Searcher) searchRawPages(q string) []backstage.SearchHit {
	tokens := tokenize(q)

	var hits []backstage.SearchHit
	for i, page := range s.idx.RawPages {
		if len(tokens) > 0 && s.filters[i] != nil && !s.filters[i].mayContainAll(tokens) {
			continue
		}
		for _, paragraph := range paragraphSplitRE.Split(page, -1) {
			trimmed := strings.TrimSpace(paragraph)
			if trimmed == "" {
				continue
			}
			if strings.Contains(strings.ToLower(trimmed), q) {
				hits = append(hits, backstage.SearchHit{
					Kind: backstage.HitRawPage,
					Text: trimmed,
					Page: i + 1,
				})
			}
		}
	}
	return hits
}

// matchesKey reports a two-way substring match between the lower-cased
// query and a lower-cased fact key.
func matchesKey(q, key string) bool {
	return strings.Contains(key, q) || strings.Contains(q, key)
}

func firstPage(pages []int) int {
	if len(pages) == 0 {
		return 0
	}
	return pages[0]
}
