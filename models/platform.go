package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/go-playground/validator"
)

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

func (l *Platform) Scan(value interface{}) error {
	s, err := scanString(value)
	*l = Platform(s)
	return err
}

func (l Platform) Value() (driver.Value, error) {
	return string(l), nil
}

func ValidatePlatform(fl validator.FieldLevel) bool {
	return ValidatePlatformRaw(fl.Field().String())
}

func ValidatePlatformRaw(value string) bool {
	switch Platform(value) {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	}
	return false
}

func scanString(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into a string enum", value)
	}
}
