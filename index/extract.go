// Package index implements the document indexer: typed fact extraction
// from page-by-page document text, a derived FAQ layer, and keyword
// search over the aggregate.
//
// Each extractor is a pure function over a single page's text so it can
// be tested against literal fixture strings independent of any plumbing.
package index

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mwalczyk/backstage"
)

var (
	// equipmentRE matches listings like "6 x Pioneer CDJ 3000 (latest firmware)".
	// The name is captured greedily over alphanumerics, spaces, '&' and '-'.
	equipmentRE = regexp.MustCompile(`(?i)\b(\d+)\s*x\s+([A-Za-z0-9][A-Za-z0-9&\- ]*[A-Za-z0-9])(?:\s*\(([^)]*)\))?`)

	// barePriceRE matches "£500", "£49.99 + VAT" without explicit context.
	barePriceRE = regexp.MustCompile(`£(\d+(?:\.\d{1,2})?)(?:\s*\+\s*VAT)?`)

	// labelledPriceRE matches "Smoke machine hire - £75" explicit-context prices.
	labelledPriceRE = regexp.MustCompile(`([A-Za-z][A-Za-z0-9&' ]{0,60}?)\s*-\s*£(\d+(?:\.\d{1,2})?)`)

	sentenceSplitRE  = regexp.MustCompile(`[.!?]+`)
	paragraphSplitRE = regexp.MustCompile(`\n[ \t]*\n`)
)

// UnknownItemLabel is the price label used when no context could be resolved.
const UnknownItemLabel = "Unknown item"

// maxLabelLen caps the heuristic price label taken from the trailing clause.
const maxLabelLen = 50

// restrictionVocabulary is the fixed set of restriction keywords.
var restrictionVocabulary = []string{
	"noise",
	"curfew",
	"smoking",
	"capacity",
	"fire",
	"alcohol",
	"age limit",
	"licence",
}

// RestrictionVocabulary returns the fixed restriction keyword set in
// canonical order.
func RestrictionVocabulary() []string {
	return append([]string(nil), restrictionVocabulary...)
}

// categoryKeywords maps each passage category to its trigger keywords.
// Order matters twice: categories are scanned in taxonomy order, and the
// first matching keyword wins per category per page.
var categoryKeywords = []struct {
	category backstage.Category
	keywords []string
}{
	{backstage.CategorySound, []string{"sound system", "pa system", "speaker", "mixer", "dj booth", "amplifier"}},
	{backstage.CategoryLighting, []string{"lighting", "moving head", "led", "fixture", "dimmer", "dmx"}},
	{backstage.CategoryVideo, []string{"video", "projector", "screen", "led wall", "camera"}},
	{backstage.CategoryStage, []string{"stage", "riser", "truss", "rigging"}},
	{backstage.CategoryPower, []string{"power", "electricity", "generator", "three phase", "socket"}},
	{backstage.CategorySpecialFX, []string{"pyro", "haze", "smoke machine", "co2", "confetti"}},
	{backstage.CategoryRestrictions, []string{"restriction", "prohibited", "not allowed", "forbidden", "curfew"}},
}

// ExtractEquipment returns the equipment facts found on one page.
// Duplicate names within the page are reported once per sighting; the
// indexer applies the first-sighting-wins merge rule.
func ExtractEquipment(text string, page int) []backstage.EquipmentFact {
	var facts []backstage.EquipmentFact
	for _, m := range equipmentRE.FindAllStringSubmatch(text, -1) {
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty < 0 {
			continue
		}
		name := strings.TrimSpace(m[2])
		if name == "" {
			continue
		}
		facts = append(facts, backstage.EquipmentFact{
			Name:     name,
			Quantity: qty,
			Spec:     strings.TrimSpace(m[3]),
			Pages:    []int{page},
		})
	}
	return facts
}

// ExtractPrices returns the price facts found on one page, in write order:
// first the bare "£N" pass with heuristic labels, then the explicit
// "label - £N" pass. The indexer writes them into one map in this order,
// so explicit labels overwrite heuristic ones.
func ExtractPrices(text string, page int) []backstage.PriceFact {
	var facts []backstage.PriceFact

	for _, loc := range barePriceRE.FindAllStringSubmatchIndex(text, -1) {
		price, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil || price < 0 {
			continue
		}
		clause := trailingClause(text[:loc[0]])
		label := clause
		if label == "" {
			label = UnknownItemLabel
		}
		facts = append(facts, backstage.PriceFact{
			Label:   label,
			Price:   price,
			Page:    page,
			Context: clause,
		})
	}

	for _, m := range labelledPriceRE.FindAllStringSubmatch(text, -1) {
		price, err := strconv.ParseFloat(m[2], 64)
		if err != nil || price < 0 {
			continue
		}
		label := strings.TrimSpace(m[1])
		if label == "" {
			continue
		}
		facts = append(facts, backstage.PriceFact{
			Label:   label,
			Price:   price,
			Page:    page,
			Context: strings.TrimSpace(m[0]),
		})
	}

	return facts
}

// trailingClause returns the last '.'-separated segment of text, trimmed
// and capped at maxLabelLen characters.
func trailingClause(text string) string {
	segments := strings.Split(text, ".")
	clause := strings.TrimSpace(segments[len(segments)-1])
	clause = strings.Join(strings.Fields(clause), " ")
	if runes := []rune(clause); len(runes) > maxLabelLen {
		clause = strings.TrimSpace(string(runes[:maxLabelLen]))
	}
	return clause
}

// ExtractRestrictions returns, for every vocabulary keyword present on the
// page, the sentences mentioning it. Matching is case-insensitive; every
// occurrence is kept, with no cap and no dedup.
func ExtractRestrictions(text string, page int) []backstage.RestrictionFact {
	sentences := sentenceSplitRE.Split(text, -1)
	lower := strings.ToLower(text)

	var facts []backstage.RestrictionFact
	for _, keyword := range restrictionVocabulary {
		if !strings.Contains(lower, keyword) {
			continue
		}
		fact := backstage.RestrictionFact{Keyword: keyword}
		for _, sentence := range sentences {
			trimmed := strings.TrimSpace(sentence)
			if trimmed == "" {
				continue
			}
			if strings.Contains(strings.ToLower(trimmed), keyword) {
				fact.Occurrences = append(fact.Occurrences, backstage.RestrictionOccurrence{
					Sentence: trimmed,
					Page:     page,
				})
			}
		}
		if len(fact.Occurrences) > 0 {
			facts = append(facts, fact)
		}
	}
	return facts
}

// CategorizePage assigns the page's paragraphs to categories. For each
// category the keyword list is scanned in order against the lower-cased
// page text; on the first hit every paragraph containing that keyword is
// recorded and the remaining keywords for that category are skipped.
func CategorizePage(text string, page int) []backstage.CategorizedPassage {
	lower := strings.ToLower(text)
	var paragraphs []string // split lazily, most pages match no category

	var passages []backstage.CategorizedPassage
	for _, ck := range categoryKeywords {
		for _, keyword := range ck.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			if paragraphs == nil {
				paragraphs = paragraphSplitRE.Split(text, -1)
			}
			for _, paragraph := range paragraphs {
				trimmed := strings.TrimSpace(paragraph)
				if trimmed == "" {
					continue
				}
				if strings.Contains(strings.ToLower(trimmed), keyword) {
					passages = append(passages, backstage.CategorizedPassage{
						Category: ck.category,
						Text:     trimmed,
						Page:     page,
						Keyword:  keyword,
					})
				}
			}
			break
		}
	}
	return passages
}
