package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeList(t *testing.T) {
	tests := []struct {
		name  string
		sizes string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "M", []string{"M"}},
		{"multiple", "S,M,L", []string{"S", "M", "L"}},
		{"whitespace trimmed", " S , M , L ", []string{"S", "M", "L"}},
		{"empty segments dropped", "S,,L,", []string{"S", "L"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Sizes: tt.sizes}
			assert.Equal(t, tt.want, p.SizeList())
		})
	}
}

func TestHasSize(t *testing.T) {
	sized := Product{Sizes: "S,M,L"}
	assert.True(t, sized.HasSize("M"))
	assert.True(t, sized.HasSize("m")) // case-insensitive
	assert.False(t, sized.HasSize("XL"))
	assert.False(t, sized.HasSize(""))

	// Products without a size list accept anything, including no size
	unsized := Product{}
	assert.True(t, unsized.HasSize("M"))
	assert.True(t, unsized.HasSize(""))
}

func TestPrimaryImage(t *testing.T) {
	assert.Equal(t, "", (&Product{}).PrimaryImage())

	p := Product{Images: []ProductImage{
		{URL: "https://cdn.example.com/a.jpg", SortOrder: 0},
		{URL: "https://cdn.example.com/b.jpg", SortOrder: 1},
	}}
	assert.Equal(t, "https://cdn.example.com/a.jpg", p.PrimaryImage())
}
