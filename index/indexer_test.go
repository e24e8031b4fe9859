package index_test

import (
	"testing"

	"github.com/mwalczyk/backstage"
	"github.com/mwalczyk/backstage/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexer_Extract(t *testing.T) {
	t.Parallel()

	t.Run("equipment facts keep the first sighting and accumulate pages", func(t *testing.T) {
		t.Parallel()

		pages := []string{
			"Main room: 6 x Pioneer CDJ 3000 (nexus link)",
			"Terrace backup: 2 x Pioneer CDJ 3000",
		}
		idx := index.New().Extract(pages)

		fact, ok := idx.Equipment["pioneer cdj 3000"]
		require.True(t, ok)
		assert.Equal(t, 6, fact.Quantity, "quantity from first sighting wins")
		assert.Equal(t, "nexus link", fact.Spec)
		assert.Equal(t, []int{1, 2}, fact.Pages)
	})

	t.Run("explicit price labels overwrite heuristic ones", func(t *testing.T) {
		t.Parallel()

		idx := index.New().Extract([]string{"Terrace hire - £400"})

		fact, ok := idx.Prices["Terrace hire"]
		require.True(t, ok)
		assert.Equal(t, 400.0, fact.Price)
	})

	t.Run("generation stamp changes per pass", func(t *testing.T) {
		t.Parallel()

		ix := index.New()
		first := ix.Extract([]string{"one page"})
		second := ix.Extract([]string{"one page"})

		assert.NotEmpty(t, first.Generation)
		assert.NotEqual(t, first.Generation, second.Generation)
	})

	t.Run("raw pages are retained in order", func(t *testing.T) {
		t.Parallel()

		pages := []string{"page one", "page two"}
		idx := index.New().Extract(pages)

		assert.Equal(t, pages, idx.RawPages)
	})
}

func TestIndexer_Augment(t *testing.T) {
	t.Parallel()

	t.Run("passage dedup is idempotent across re-extraction", func(t *testing.T) {
		t.Parallel()

		pages := []string{"The sound system is a Funktion-One install covering both rooms."}
		ix := index.New()

		idx := ix.Extract(pages)
		first := append([]backstage.CategorizedPassage(nil), idx.Passages[backstage.CategorySound]...)

		idx = ix.Augment(idx, pages)

		assert.Equal(t, first, idx.Passages[backstage.CategorySound])
	})

	t.Run("restriction occurrences accumulate across re-extraction", func(t *testing.T) {
		t.Parallel()

		pages := []string{"The curfew is 3am sharp."}
		ix := index.New()

		idx := ix.Extract(pages)
		idx = ix.Augment(idx, pages)

		require.Contains(t, idx.Restrictions, "curfew")
		assert.Len(t, idx.Restrictions["curfew"].Occurrences, 2)
	})

	t.Run("FAQ layer is regenerated wholesale", func(t *testing.T) {
		t.Parallel()

		pages := []string{"4 x d&b V8 (flown). Stage hire - £300"}
		ix := index.New()

		idx := ix.Extract(pages)
		first := append([]backstage.FAQEntry(nil), idx.FAQs...)

		idx = ix.Augment(idx, pages)

		// A second pass over the same pages must not duplicate entries.
		assert.Equal(t, first, idx.FAQs)
	})
}

func TestIndexer_FAQ(t *testing.T) {
	t.Parallel()

	t.Run("one entry per equipment fact", func(t *testing.T) {
		t.Parallel()

		idx := index.New().Extract([]string{"3 x Martin MAC Viper"})

		require.Len(t, idx.FAQs, 1)
		assert.Equal(t, "How many Martin MAC Viper does the venue have?", idx.FAQs[0].Question)
		assert.Contains(t, idx.FAQs[0].Answer, "3 x Martin MAC Viper")
		assert.Contains(t, idx.FAQs[0].Answer, "page 1")
	})

	t.Run("unknown-item prices get no FAQ entry", func(t *testing.T) {
		t.Parallel()

		idx := index.New().Extract([]string{"£150"})

		require.Contains(t, idx.Prices, index.UnknownItemLabel)
		assert.Empty(t, idx.FAQs)
	})

	t.Run("one entry per restriction occurrence", func(t *testing.T) {
		t.Parallel()

		idx := index.New().Extract([]string{"No smoking inside. Smoking is allowed on the terrace."})

		var questions []string
		for _, faq := range idx.FAQs {
			questions = append(questions, faq.Question)
		}
		assert.Equal(t, []string{
			"What are the restrictions regarding smoking?",
			"What are the restrictions regarding smoking?",
		}, questions)
	})
}
