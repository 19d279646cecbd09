package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

// MarshalJSON masks the password so a logged request never leaks it. Wire encoding goes
// through Body.
func (l Login) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L Login
	return json.Marshal(L(l))
}

// Body is the value sent to the login endpoint.
func (l Login) Body() any {
	type L Login
	return L(l)
}
