package models

type Cart struct {
	JsonModel
	UserAccountID uint       `json:"user_id" gorm:"uniqueIndex"`
	Items         []CartItem `json:"items" gorm:"constraint:OnDelete:CASCADE"`
}

type CartItem struct {
	JsonModel
	CartID    uint    `json:"-"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

type WishlistItem struct {
	JsonModel
	UserAccountID uint    `json:"-" gorm:"uniqueIndex:idx_wishlist_user_product"`
	ProductID     uint    `json:"product_id" gorm:"uniqueIndex:idx_wishlist_user_product"`
	Product       Product `json:"product"`
}

type CartAddIn struct {
	ProductID uint     `json:"product_id" validate:"required"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Image     string   `json:"image"`
	Size      string   `json:"size"`
	Color     string   `json:"color"`
	Quantity  int      `json:"quantity" validate:"min=1"`
}

type CartUpdateIn struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"min=0"`
	Size      *string `json:"size"`
	Color     *string `json:"color"`
}

type WishlistAddIn struct {
	ProductID uint `json:"product_id"`
}
