package models

import (
	"database/sql/driver"

	"github.com/go-playground/validator"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

func (s *OrderStatus) Scan(value interface{}) error {
	v, err := scanString(value)
	*s = OrderStatus(v)
	return err
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// PreviewStatus tracks background rendering of an outfit preview image.
type PreviewStatus string

const (
	PreviewNone     PreviewStatus = "none"
	PreviewPending  PreviewStatus = "pending"
	PreviewReady    PreviewStatus = "ready"
	PreviewFailed   PreviewStatus = "failed"
	MaxPreviewRetry               = 3
)

func (s *PreviewStatus) Scan(value interface{}) error {
	v, err := scanString(value)
	*s = PreviewStatus(v)
	return err
}

func (s PreviewStatus) Value() (driver.Value, error) {
	return string(s), nil
}

type Gender string

const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderUnisex Gender = "Unisex"
)

func ValidateGender(fl validator.FieldLevel) bool {
	switch Gender(fl.Field().String()) {
	case "", GenderMen, GenderWomen, GenderUnisex:
		return true
	}
	return false
}
