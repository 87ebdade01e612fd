package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportColumns_CategoryVariants(t *testing.T) {
	base := BaseImportColumns()

	tests := []struct {
		category string
		extra    []string
	}{
		{TypeClothing, []string{"materials", "careInstructions", "sizeGuide"}},
		{TypeFootwear, []string{"materials", "careInstructions", "sizeGuide"}},
		{TypeJewelry, []string{"materials", "careInstructions"}},
		{TypeBeauty, []string{"ingredients", "usageInstructions"}},
		{CategoryBridal, []string{"materials", "careInstructions"}},
		{CategoryFestive, []string{"isChristmasSale", "saleDiscount"}},
		{CategorySale, []string{"saleDiscount"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			columns := ImportColumns(tt.category)
			assert.Equal(t, append(append([]string{}, base...), tt.extra...), columns)
		})
	}
}

func TestAutoTag(t *testing.T) {
	assert.Equal(t, "bridal", AutoTag(CategoryBridal))
	assert.Equal(t, "christmas", AutoTag(CategoryFestive))
	assert.Equal(t, "sale", AutoTag(CategorySale))
	assert.Equal(t, "", AutoTag(TypeClothing))
	assert.Equal(t, "", AutoTag(""))
}

func TestImportRow_GetAndHas(t *testing.T) {
	row := ImportRow{
		Index:   3,
		Columns: []string{"name", "price"},
		Values:  map[string]string{"name": "Red Heels", "price": ""},
	}

	assert.Equal(t, "Red Heels", row.Get("name"))
	assert.Equal(t, "", row.Get("price"))
	assert.True(t, row.Has("price"))
	assert.False(t, row.Has("gender"))
	assert.Equal(t, "", row.Get("gender"))
}
