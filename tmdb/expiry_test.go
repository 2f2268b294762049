package tmdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiresAt(t *testing.T) {
	want := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{"provider format", "2025-12-31 23:59:59 UTC", &want},
		{"bare format", "2025-12-31 23:59:59", &want},
		{"empty", "", nil},
		{"garbage", "not a date", nil},
		{"partial", "2025-12-31", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseExpiresAt(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "got %v, want %v", got, tt.want)
		})
	}
}
