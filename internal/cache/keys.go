package cache

import "strconv"

// Key is a cache key split into its family (used as a metrics label) and the
// identifier or filter that makes it unique.
type Key struct {
	Family string
	ID     string
}

func (k Key) String() string {
	if k.ID == "" {
		return k.Family
	}
	return k.Family + "_" + k.ID
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func CarList() Key { return Key{Family: "car_list"} }
func CarDetail(v int64) Key { return Key{Family: "car_detail", ID: id(v)} }
func CategoryList() Key { return Key{Family: "category_list"} }
func CategoryDetail(v int64) Key { return Key{Family: "category_detail", ID: id(v)} }
func ProductList() Key { return Key{Family: "product_list"} }
func ProductDetail(v int64) Key { return Key{Family: "product_detail", ID: id(v)} }
func ProductImages(v int64) Key { return Key{Family: "product_images", ID: id(v)} }
func ImageList() Key { return Key{Family: "image_list"} }
func ImageDetail(v int64) Key { return Key{Family: "image_detail", ID: id(v)} }

// ProductsBySlug keys the products filed directly under the category slug.
func ProductsBySlug(slug string) Key { return Key{Family: "products_by_slug", ID: slug} }
