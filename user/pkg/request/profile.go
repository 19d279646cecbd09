package request

import "github.com/rs/zerolog"

// UpdateProfile replaces the shopper's profile. Phone number and address may be left
// empty.
type UpdateProfile struct {
	Name        string `validate:"required"               json:"name"`
	Email       string `validate:"required,email"         json:"email"`
	PhoneNumber string `validate:"omitempty,min=7,max=20" json:"phoneNumber"`
	Address     string `validate:"max=250"                json:"address"`
}

func (p UpdateProfile) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", p.Email).Str("name", p.Name)
}
