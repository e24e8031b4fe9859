package backstage_test

import (
	"testing"

	"github.com/mwalczyk/backstage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecItem_Validate(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()
		item := &backstage.SpecItem{ID: "cdj-3000", Name: "Pioneer CDJ 3000"}
		assert.NoError(t, item.Validate())
	})

	t.Run("IDRequired", func(t *testing.T) {
		t.Parallel()
		item := &backstage.SpecItem{Name: "Pioneer CDJ 3000"}
		err := item.Validate()
		require.Error(t, err)
		assert.Equal(t, backstage.EINVALID, backstage.ErrorCode(err))
	})

	t.Run("NameRequired", func(t *testing.T) {
		t.Parallel()
		item := &backstage.SpecItem{ID: "cdj-3000"}
		err := item.Validate()
		require.Error(t, err)
		assert.Equal(t, backstage.EINVALID, backstage.ErrorCode(err))
	})
}
