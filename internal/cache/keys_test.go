package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyStrings(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{CarList(), "car_list"},
		{CarDetail(7), "car_detail_7"},
		{CategoryList(), "category_list"},
		{CategoryDetail(2), "category_detail_2"},
		{ProductList(), "product_list"},
		{ProductDetail(12), "product_detail_12"},
		{ProductImages(12), "product_images_12"},
		{ProductsBySlug("suv"), "products_by_slug_suv"},
		{ImageList(), "image_list"},
		{ImageDetail(5), "image_detail_5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.key.String())
	}
}
