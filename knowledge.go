package backstage

// Category classifies a passage of the reference document.
type Category string

// Passage categories, in the order they are searched and reported.
const (
	CategorySound        Category = "SOUND"
	CategoryLighting     Category = "LIGHTING"
	CategoryVideo        Category = "VIDEO"
	CategoryStage        Category = "STAGE"
	CategoryPower        Category = "POWER"
	CategorySpecialFX    Category = "SPECIAL_FX"
	CategoryRestrictions Category = "RESTRICTIONS"
)

// Categories lists the fixed passage taxonomy in canonical order.
func Categories() []Category {
	return []Category{
		CategorySound,
		CategoryLighting,
		CategoryVideo,
		CategoryStage,
		CategoryPower,
		CategorySpecialFX,
		CategoryRestrictions,
	}
}

// EquipmentFact records a piece of equipment listed in the document.
// The first sighting fixes quantity and spec; later sightings of the same
// name only append page references.
type EquipmentFact struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Spec     string `json:"spec,omitempty"`
	Pages    []int  `json:"pages"`
}

// PriceFact records a price found in the document. Later facts with the
// same label overwrite earlier ones.
type PriceFact struct {
	Label   string  `json:"label"`
	Price   float64 `json:"price"`
	Page    int     `json:"page"`
	Context string  `json:"context,omitempty"`
}

// RestrictionOccurrence is a single sentence mentioning a restriction
// keyword, with the page it was found on.
type RestrictionOccurrence struct {
	Sentence string `json:"sentence"`
	Page     int    `json:"page"`
}

// RestrictionFact collects every occurrence of one restriction keyword.
// Occurrences are append-only and never deduplicated.
type RestrictionFact struct {
	Keyword     string                  `json:"keyword"`
	Occurrences []RestrictionOccurrence `json:"occurrences"`
}

// CategorizedPassage is a paragraph of the document assigned to a category
// by keyword match. Passages are deduplicated by exact text within a
// category after a full extraction pass.
type CategorizedPassage struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
	Page     int      `json:"page"`
	Keyword  string   `json:"keyword"`
}

// FAQEntry is a derived question/answer record mechanically generated from
// the structured facts. The FAQ list is rebuilt wholesale after every
// extraction pass.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// KnowledgeIndex is the aggregate index built from one document. It is a
// single generation-stamped snapshot: a full extraction pass replaces or
// augments it in place, and there is no partial-update semantics.
type KnowledgeIndex struct {
	// Generation identifies the extraction pass that last touched the index.
	Generation string `json:"generation"`

	// Equipment facts keyed by lower-cased equipment name.
	Equipment map[string]*EquipmentFact `json:"equipment"`

	// Prices keyed by item label.
	Prices map[string]*PriceFact `json:"prices"`

	// Restrictions keyed by restriction keyword.
	Restrictions map[string]*RestrictionFact `json:"restrictions"`

	// Passages grouped by category.
	Passages map[Category][]CategorizedPassage `json:"passages"`

	// FAQs derived from the facts above.
	FAQs []FAQEntry `json:"faqs"`

	// RawPages retains the full page texts (1-based page numbers are
	// indices into this slice plus one) for last-resort substring search.
	RawPages []string `json:"rawPages"`
}

// SearchHitKind identifies which part of the index produced a search hit.
type SearchHitKind string

// Search hit kinds, in the fixed order sources are consulted.
const (
	HitEquipment   SearchHitKind = "equipment"
	HitPrice       SearchHitKind = "price"
	HitPassage     SearchHitKind = "passage"
	HitRestriction SearchHitKind = "restriction"
	HitFAQ         SearchHitKind = "faq"
	HitRawPage     SearchHitKind = "raw_page"
)

// SearchHit is a single typed result of a keyword search over the index.
type SearchHit struct {
	Kind SearchHitKind `json:"kind"`
	Text string        `json:"text"`
	Page int           `json:"page,omitempty"`
}

// KnowledgeService answers keyword queries against a built index.
type KnowledgeService interface {
	// Search returns typed hits for the query in fixed source order.
	// Returns EINVALID if no index has been built yet.
	Search(query string) ([]SearchHit, error)
}
