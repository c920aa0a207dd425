package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// VerifiedUsername is the only account that is marked verified on creation.
const VerifiedUsername = "hgthazh"

// MaxUsernameLength is the width of the username column.
const MaxUsernameLength = 50

type User struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Username    string  `json:"username" gorm:"size:50;index"` // not unique at the storage layer, see handlers.AuthHandler.Register
	Password    string  `json:"-"`                             // bcrypt hash, never serialized
	DisplayName string  `json:"display_name"`
	Bio         string  `json:"bio"`
	AvatarURL   string  `json:"avatar_url"`
	CoverURL    string  `json:"cover_url"`
	IsVerified  bool    `json:"is_verified" gorm:"default:false"`
	FirebaseUID *string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=80"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserUpdate lists the profile fields a user may change. A nil field is left untouched.
type UserUpdate struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=80"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	CoverURL    *string `json:"cover_url,omitempty" validate:"omitempty,url"`
}

// Apply copies the set fields of u onto user.
func (u UserUpdate) Apply(user *User) {
	if u.DisplayName != nil {
		user.DisplayName = *u.DisplayName
	}
	if u.Bio != nil {
		user.Bio = *u.Bio
	}
	if u.AvatarURL != nil {
		user.AvatarURL = *u.AvatarURL
	}
	if u.CoverURL != nil {
		user.CoverURL = *u.CoverURL
	}
}

// Clone returns a copy of the user that shares no pointers with it.
func (u User) Clone() User {
	if u.FirebaseUID != nil {
		uid := *u.FirebaseUID
		u.FirebaseUID = &uid
	}
	return u
}

// SessionClaims are the JWT claims issued at login. The registered ID (jti) is the session ID.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
