package models

type Outfit struct {
	JsonModel
	UserAccountID     uint          `json:"user_id" gorm:"index"`
	Name              string        `json:"name"`
	Occasion          string        `json:"occasion"`
	MainProductID     *uint         `json:"main_product_id"`
	StyleAdvice       string        `json:"style_advice"`
	Items             []OutfitItem  `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	PreviewStatus     PreviewStatus `json:"preview_status" gorm:"default:'none'"`
	PreviewImageKey   string        `json:"-"`
	PreviewImageURL   string        `json:"preview_image_url" gorm:"-"`
	PreviewStage      string        `json:"preview_stage"`
	PreviewBlurHash   string        `json:"preview_blurhash"`
	PreviewRetryTimes int           `json:"-"`
}

type OutfitItem struct {
	JsonModel
	OutfitID  uint    `json:"-"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
}

type OutfitItemIn struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
}

type OutfitIn struct {
	Name          string         `json:"name"`
	Items         []OutfitItemIn `json:"items" validate:"required,min=1,dive"`
	Occasion      string         `json:"occasion"`
	MainProductID *uint          `json:"main_product_id"`
	StyleAdvice   string         `json:"style_advice"`
}
