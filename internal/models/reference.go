package models

// PredefinedSubcategories is the built-in subcategory catalog, keyed by parent
// category. It is configuration data: entries are merged with store-side
// subcategories at session start (store entries win on id collision) and the
// table itself is never mutated. Gender tags are advisory only.
var PredefinedSubcategories = map[string][]Subcategory{
	TypeFootwear: {
		{ID: "heels", Name: "Heels", Gender: "women", ParentCategory: TypeFootwear},
		{ID: "flats", Name: "Flats", Gender: "women", ParentCategory: TypeFootwear},
		{ID: "sneakers", Name: "Sneakers", Gender: "unisex", ParentCategory: TypeFootwear},
		{ID: "boots", Name: "Boots", Gender: "unisex", ParentCategory: TypeFootwear},
		{ID: "sandals", Name: "Sandals", Gender: "unisex", ParentCategory: TypeFootwear},
		{ID: "loafers", Name: "Loafers", Gender: "men", ParentCategory: TypeFootwear},
		{ID: "formal-shoes", Name: "Formal Shoes", Gender: "men", ParentCategory: TypeFootwear},
		{ID: "kids-shoes", Name: "Kids Shoes", Gender: "kids", ParentCategory: TypeFootwear},
	},
	TypeClothing: {
		{ID: "dresses", Name: "Dresses", Gender: "women", ParentCategory: TypeClothing},
		{ID: "tops", Name: "Tops", Gender: "women", ParentCategory: TypeClothing},
		{ID: "t-shirts", Name: "T-Shirts", Gender: "unisex", ParentCategory: TypeClothing},
		{ID: "shirts", Name: "Shirts", Gender: "men", ParentCategory: TypeClothing},
		{ID: "jeans", Name: "Jeans", Gender: "unisex", ParentCategory: TypeClothing},
		{ID: "ethnic-wear", Name: "Ethnic Wear", Gender: "women", ParentCategory: TypeClothing},
		{ID: "kurtas", Name: "Kurtas", Gender: "men", ParentCategory: TypeClothing},
		{ID: "kids-wear", Name: "Kids Wear", Gender: "kids", ParentCategory: TypeClothing},
	},
	TypeJewelry: {
		{ID: "rings", Name: "Rings", Gender: "women", ParentCategory: TypeJewelry},
		{ID: "earrings", Name: "Earrings", Gender: "women", ParentCategory: TypeJewelry},
		{ID: "necklaces", Name: "Necklaces", Gender: "women", ParentCategory: TypeJewelry},
		{ID: "bracelets", Name: "Bracelets", Gender: "unisex", ParentCategory: TypeJewelry},
		{ID: "anklets", Name: "Anklets", Gender: "women", ParentCategory: TypeJewelry},
	},
	TypeBeauty: {
		{ID: "skincare", Name: "Skincare", Gender: "unisex", ParentCategory: TypeBeauty},
		{ID: "makeup", Name: "Makeup", Gender: "women", ParentCategory: TypeBeauty},
		{ID: "haircare", Name: "Haircare", Gender: "unisex", ParentCategory: TypeBeauty},
		{ID: "fragrance", Name: "Fragrance", Gender: "unisex", ParentCategory: TypeBeauty},
		{ID: "bath-body", Name: "Bath & Body", Gender: "unisex", ParentCategory: TypeBeauty},
	},
	TypeAccessories: {
		{ID: "belts", Name: "Belts", Gender: "unisex", ParentCategory: TypeAccessories},
		{ID: "watches", Name: "Watches", Gender: "unisex", ParentCategory: TypeAccessories},
		{ID: "sunglasses", Name: "Sunglasses", Gender: "unisex", ParentCategory: TypeAccessories},
		{ID: "scarves", Name: "Scarves", Gender: "women", ParentCategory: TypeAccessories},
		{ID: "wallets", Name: "Wallets", Gender: "men", ParentCategory: TypeAccessories},
		{ID: "caps", Name: "Caps", Gender: "unisex", ParentCategory: TypeAccessories},
	},
	TypeBags: {
		{ID: "handbags", Name: "Handbags", Gender: "women", ParentCategory: TypeBags},
		{ID: "totes", Name: "Totes", Gender: "women", ParentCategory: TypeBags},
		{ID: "backpacks", Name: "Backpacks", Gender: "unisex", ParentCategory: TypeBags},
		{ID: "clutches", Name: "Clutches", Gender: "women", ParentCategory: TypeBags},
		{ID: "laptop-bags", Name: "Laptop Bags", Gender: "unisex", ParentCategory: TypeBags},
		{ID: "duffels", Name: "Duffels", Gender: "unisex", ParentCategory: TypeBags},
	},
	CategoryBridal: {
		{ID: "bridal-lehengas", Name: "Bridal Lehengas", Gender: "women", ParentCategory: CategoryBridal},
		{ID: "bridal-sarees", Name: "Bridal Sarees", Gender: "women", ParentCategory: CategoryBridal},
		{ID: "bridal-jewelry", Name: "Bridal Jewelry", Gender: "women", ParentCategory: CategoryBridal},
		{ID: "bridal-footwear", Name: "Bridal Footwear", Gender: "women", ParentCategory: CategoryBridal},
	},
	CategoryFestive: {
		{ID: "festive-wear", Name: "Festive Wear", Gender: "unisex", ParentCategory: CategoryFestive},
		{ID: "festive-decor", Name: "Festive Decor", Gender: "unisex", ParentCategory: CategoryFestive},
		{ID: "gift-sets", Name: "Gift Sets", Gender: "unisex", ParentCategory: CategoryFestive},
	},
}
