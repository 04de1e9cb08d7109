package models

type ShippingAddress struct {
	FullName     string `json:"full_name" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country" validate:"required"`
}

type Order struct {
	JsonModel
	UserAccountID   uint            `json:"user_id" gorm:"index"`
	Number          string          `json:"orderId" gorm:"uniqueIndex"`
	Items           []OrderItem     `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	Total           float64         `json:"total"`
	Status          OrderStatus     `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
}

type OrderItem struct {
	JsonModel
	OrderID   uint    `json:"-"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// PaymentMethod only ever keeps display details of a card.
type PaymentMethod struct {
	JsonModel
	UserAccountID uint   `json:"-" gorm:"index"`
	Type          string `json:"type"`
	Last4         string `json:"last4"`
	Brand         string `json:"brand"`
	ExpiryMonth   int    `json:"expiry_month"`
	ExpiryYear    int    `json:"expiry_year"`
	IsDefault     bool   `json:"is_default"`
}

type CheckoutItemIn struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price" validate:"min=0"`
	Image     string  `json:"image"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity" validate:"min=1"`
}

type CheckoutIn struct {
	Items           []CheckoutItemIn `json:"items" validate:"required,min=1,dive"`
	Total           float64          `json:"total" validate:"min=0"`
	ShippingAddress ShippingAddress  `json:"shipping_address" validate:"required"`
}

type PaymentMethodIn struct {
	CardNumber     string `json:"card_number" validate:"required,numeric,min=12,max=19"`
	ExpiryMonth    int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear     int    `json:"expiry_year" validate:"required"`
	CVC            string `json:"cvc" validate:"required,numeric,min=3,max=4"`
	CardHolderName string `json:"card_holder_name" validate:"required"`
}
