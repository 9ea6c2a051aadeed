package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"name", "name", 0},
		{"", "abc", 3},
		{"a", "ab", 1},
		{"kitten", "sitting", 3},
		{"adress", "address", 1},
		{"ABC", "abc", 3},
		{"orderid", "orderID", 2},
		{"größe", "grosse", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, EditDistance(tt.a, tt.b))
			assert.Equal(t, tt.want, EditDistance(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Similarity("", ""), 0.001)
	assert.InDelta(t, 1.0, Similarity("city", "city"), 0.001)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 0.001)
	assert.InDelta(t, 1.0-3.0/7.0, Similarity("kitten", "sitting"), 0.001)
	assert.InDelta(t, 0.8, Similarity("größe", "grüße"), 0.001)
}

func TestNameSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, NameSimilarity("order_id", "orderID"), 0.001)
	assert.InDelta(t, 1.0, NameSimilarity("FirstName", "first-name"), 0.001)
	assert.Less(t, NameSimilarity("createdAt", "updatedAt"), 1.0)
}
