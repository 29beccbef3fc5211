package model

import (
	"strings"
	"time"
)

// AdminProfile is the one-to-one profile attached to a user account.
// All profile fields may be empty when the user has not saved a profile yet;
// that is a valid state, not an error.
type AdminProfile struct {
	UserID    int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	Title       string `json:"title"`
	Fname       string `json:"fname"`
	Lname       string `json:"lname"`
	AddressLine string `json:"addressline"`
	Town        string `json:"town"`
	Phone       string `json:"phone"`
	ImagePath   string `json:"image_path"`
}

// DisplayName returns the account name, falling back to "Fname Lname",
// then to a generic placeholder. Derived, never persisted.
func (p *AdminProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	full := strings.TrimSpace(p.Fname + " " + p.Lname)
	if full != "" {
		return full
	}
	return "Admin User"
}

// Initials returns the two-letter avatar initials from first and last name,
// falling back to the first letter of the account name, then to "A".
func (p *AdminProfile) Initials() string {
	if p.Fname != "" && p.Lname != "" {
		return strings.ToUpper(p.Fname[:1] + p.Lname[:1])
	}
	if p.Name != "" {
		return strings.ToUpper(p.Name[:1])
	}
	return "A"
}
