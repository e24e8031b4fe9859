package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/mwalczyk/backstage"
)

// Indexer builds knowledge indices from document pages. The zero value is
// ready to use.
type Indexer struct{}

// New returns a new Indexer.
func New() *Indexer {
	return &Indexer{}
}

// Extract builds a fresh index from the ordered page texts.
func (ix *Indexer) Extract(pages []string) *backstage.KnowledgeIndex {
	return ix.Augment(newIndex(), pages)
}

// Augment re-runs extraction over an existing index. Extraction is
// strictly sequential, page by page: later pages may extend equipment
// page-reference lists built from earlier pages.
//
// Augmentation is idempotent for raw pages and passages, but not for
// prices (labels that shift between the two pricing passes can leave
// duplicate entries behind) or restriction occurrences, which are
// append-only; the rebuilt FAQ layer mirrors whatever accumulated.
func (ix *Indexer) Augment(idx *backstage.KnowledgeIndex, pages []string) *backstage.KnowledgeIndex {
	if idx == nil {
		idx = newIndex()
	}
	idx.Generation = uuid.NewString()
	idx.RawPages = append([]string(nil), pages...)

	for i, text := range pages {
		extractPage(idx, text, i+1)
	}

	finalize(idx)
	return idx
}

func newIndex() *backstage.KnowledgeIndex {
	return &backstage.KnowledgeIndex{
		Equipment:    make(map[string]*backstage.EquipmentFact),
		Prices:       make(map[string]*backstage.PriceFact),
		Restrictions: make(map[string]*backstage.RestrictionFact),
		Passages:     make(map[backstage.Category][]backstage.CategorizedPassage),
	}
}

// extractPage runs the four extractors against one page and merges their
// facts into the index.
func extractPage(idx *backstage.KnowledgeIndex, text string, page int) {
	for _, fact := range ExtractEquipment(text, page) {
		key := strings.ToLower(fact.Name)
		if existing, ok := idx.Equipment[key]; ok {
			// First sighting fixes quantity and spec; later sightings
			// only add page references.
			if !containsInt(existing.Pages, page) {
				existing.Pages = append(existing.Pages, page)
			}
			continue
		}
		f := fact
		idx.Equipment[key] = &f
	}

	for _, fact := range ExtractPrices(text, page) {
		// Last write wins by label; the explicit-context pass runs second.
		f := fact
		idx.Prices[f.Label] = &f
	}

	for _, fact := range ExtractRestrictions(text, page) {
		if existing, ok := idx.Restrictions[fact.Keyword]; ok {
			existing.Occurrences = append(existing.Occurrences, fact.Occurrences...)
			continue
		}
		f := fact
		idx.Restrictions[f.Keyword] = &f
	}

	for _, passage := range CategorizePage(text, page) {
		idx.Passages[passage.Category] = append(idx.Passages[passage.Category], passage)
	}
}

// finalize deduplicates passages by exact text within each category and
// rebuilds the FAQ list from scratch.
func finalize(idx *backstage.KnowledgeIndex) {
	for category, passages := range idx.Passages {
		seen := make(map[uint64]struct{}, len(passages))
		deduped := passages[:0]
		for _, p := range passages {
			key := xxhash.Sum64String(p.Text)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			deduped = append(deduped, p)
		}
		idx.Passages[category] = deduped
	}

	idx.FAQs = buildFAQs(idx)
}

// buildFAQs derives the FAQ layer: one entry per equipment fact, one per
// named price fact, one per restriction occurrence. Map-backed facts are
// emitted in sorted key order so regeneration is deterministic.
func buildFAQs(idx *backstage.KnowledgeIndex) []backstage.FAQEntry {
	var faqs []backstage.FAQEntry

	for _, key := range sortedKeys(idx.Equipment) {
		fact := idx.Equipment[key]
		answer := fmt.Sprintf("The venue has %d x %s", fact.Quantity, fact.Name)
		if fact.Spec != "" {
			answer += fmt.Sprintf(" (%s)", fact.Spec)
		}
		answer += fmt.Sprintf(". See page %s.", formatPages(fact.Pages))
		faqs = append(faqs, backstage.FAQEntry{
			Question: fmt.Sprintf("How many %s does the venue have?", fact.Name),
			Answer:   answer,
		})
	}

	for _, label := range sortedKeys(idx.Prices) {
		if label == UnknownItemLabel {
			continue
		}
		fact := idx.Prices[label]
		faqs = append(faqs, backstage.FAQEntry{
			Question: fmt.Sprintf("How much does %s cost to hire?", fact.Label),
			Answer:   fmt.Sprintf("%s costs £%.2f. See page %d.", fact.Label, fact.Price, fact.Page),
		})
	}

	for _, keyword := range restrictionVocabulary {
		fact, ok := idx.Restrictions[keyword]
		if !ok {
			continue
		}
		for _, occ := range fact.Occurrences {
			faqs = append(faqs, backstage.FAQEntry{
				Question: fmt.Sprintf("What are the restrictions regarding %s?", keyword),
				Answer:   fmt.Sprintf("%s (page %d)", occ.Sentence, occ.Page),
			})
		}
	}

	return faqs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
