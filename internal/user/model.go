package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type User struct {
	ID           int         `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Role         string      `db:"role" json:"role"`
	AvatarURL    string      `db:"avatar_url" json:"avatar_url"`
	Details      RoleDetails `db:"details" json:"details"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// RoleDetails holds the role-specific profile block. At most one of the
// pointers is set, matching the user's role.
type RoleDetails struct {
	Owner   *OwnerDetails   `json:"owner,omitempty"`
	Trainer *TrainerDetails `json:"trainer,omitempty"`
}

type OwnerDetails struct {
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`
}

type TrainerDetails struct {
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
}

func (d RoleDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *RoleDetails) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = RoleDetails{}
		return nil
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return errors.New("user: unsupported details type")
	}
}

type RegisterRequest struct {
	Name      string       `json:"name" binding:"required,min=2,max=255"`
	Email     string       `json:"email" binding:"required,email"`
	Password  string       `json:"password" binding:"required,min=8"`
	Role      string       `json:"role" binding:"required,oneof=goer trainer owner"`
	AvatarURL string       `json:"avatar_url" binding:"omitempty,url"`
	Details   *RoleDetails `json:"details,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
