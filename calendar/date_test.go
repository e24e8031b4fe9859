package calendar_test

import (
	"testing"
	"time"

	"github.com/mwalczyk/backstage"
	"github.com/mwalczyk/backstage/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		for _, tt := range []struct {
			name string
			in   string
			want string
		}{
			{"canonical passthrough", "2024-06-15", "2024-06-15"},
			{"slash UK order", "13/6/2024", "2024-06-13"},
			{"slash falls back to US order", "6/13/2024", "2024-06-13"},
			{"ambiguous slash date reads day first", "2/3/2024", "2024-03-02"},
			{"dashes and two-digit year", "15-06-24", "2024-06-15"},
			{"ordinal suffix", "15th June 2024", "2024-06-15"},
			{"month-first textual", "June 15, 2024", "2024-06-15"},
			{"missing year uses the reference year", "15 June", "2024-06-15"},
			{"unconstrained parse as a last resort", "2024/06/15", "2024-06-15"},
		} {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				got, err := calendar.NormalizeDate(tt.in, now)

				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("ErrInvalid", func(t *testing.T) {
		t.Parallel()

		for _, tt := range []struct {
			name string
			in   string
		}{
			{"empty", "   "},
			{"canonical shape but impossible date", "2024-13-40"},
			{"slash date invalid both ways", "31/31/2024"},
			{"prose", "next time the band plays"},
		} {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := calendar.NormalizeDate(tt.in, now)

				require.Error(t, err)
				assert.Equal(t, backstage.EINVALID, backstage.ErrorCode(err))
			})
		}
	})
}
