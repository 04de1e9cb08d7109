package models

import (
	"fashionapi/stylist"

	"github.com/lib/pq"
)

const DefaultStyle = "Casual Wear"

type Product struct {
	JsonModel
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category" gorm:"index"`
	Brand       string         `json:"brand"`
	Style       string         `json:"style" gorm:"default:'Casual Wear'"`
	ImageURL    string         `json:"imageUrl"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Colors      pq.StringArray `json:"colors" gorm:"type:text[]"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	Stock       int            `json:"stock"`
}

// ToGarment is the view of a product the stylist and look generator work with.
func (p Product) ToGarment() stylist.Garment {
	image := p.ImageURL
	if image == "" && len(p.Images) > 0 {
		image = p.Images[0]
	}
	return stylist.Garment{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Colors:      append([]string(nil), p.Colors...),
		Price:       p.Price,
		ImageURL:    image,
		Description: p.Description,
	}
}

type Collection struct {
	JsonModel
	Name        string `json:"name"`
	Slug        string `json:"slug" gorm:"unique"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Featured    bool   `json:"featured" gorm:"default:false"`
}
