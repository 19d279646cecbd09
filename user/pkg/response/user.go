package response

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

type Login struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type Register struct {
	Message string `json:"message"`
}

// Identity is who the shopper is right now. A guest is browsing without an account; only an
// authenticated identity carries a token.
type Identity struct {
	Token         string `json:"-"`
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Authenticated bool   `json:"authenticated"`
	Guest         bool   `json:"guest"`
}

func (i Identity) IsAuthenticated() bool {
	return i.Authenticated && i.Token != ""
}
