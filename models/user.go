package models

type UserAccount struct {
	JsonModel
	Name     string   `json:"name"`
	Email    string   `json:"email" gorm:"unique"`
	Password string   `json:"-"`
	Banned   bool     `gorm:"default:false" json:"-"`
	GoogleID string   `json:"-"`
	AppleID  string   `json:"-"`
	Platform Platform `json:"platform"`
	// Image is either an absolute URL or an object key in the bucket.
	Image          string `json:"image"`
	Gender         Gender `json:"gender"`
	PreferredStyle string `json:"preferred_style"`
}

type UserPushToken struct {
	JsonModel
	UserAccountID uint
	UserAccount   UserAccount `json:"user_account"`
	Platform      Platform    `json:"platform"`
	Token         string      `json:"token"`
	Active        bool        `gorm:"default:false" json:"-"`
}

type UserPushIn struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,platform"`
}

// UserOut is what clients see of an account. Image is always a readable URL.
type UserOut struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Image          string `json:"image"`
	Gender         Gender `json:"gender"`
	PreferredStyle string `json:"preferred_style"`
}

type ProfileUpdateIn struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Image          *string `json:"image"`
	Gender         *string `json:"gender" validate:"omitempty,gender"`
	PreferredStyle *string `json:"preferred_style"`
}

type ChangePasswordIn struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type ProfilePhotoUploadIn struct {
	FileName string `json:"file_name" validate:"required"`
}

type ProfilePhotoUploadOut struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
}
