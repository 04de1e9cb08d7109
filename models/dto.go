package models

import "fashionapi/stylist"

type RecommendProductIn struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Colors      []string `json:"colors"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
}

func (p RecommendProductIn) ToGarment() stylist.Garment {
	return stylist.Garment{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Colors:      p.Colors,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Description: p.Description,
	}
}

type RecommendIn struct {
	Product   *RecommendProductIn `json:"product"`
	ProductID *uint               `json:"product_id"`
	Occasion  string              `json:"occasion"`
	Gender    string              `json:"gender"`
}

type LookItemIn struct {
	ID uint `json:"id" validate:"required"`
}

type GenerateLookIn struct {
	Items         []LookItemIn `json:"items"`
	MainProductID *uint        `json:"main_product_id"`
}

type GenerateLookOut struct {
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
	Stage    string `json:"stage"`
	BlurHash string `json:"blurhash"`
}

type SeedOut struct {
	Products    int `json:"products"`
	Collections int `json:"collections"`
	Users       int `json:"users"`
}

type SeedUserIn struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

type SeedIn struct {
	Users       []SeedUserIn `json:"users" validate:"dive"`
	Products    []Product    `json:"products"`
	Collections []Collection `json:"collections"`
}
