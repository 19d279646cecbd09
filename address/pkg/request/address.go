package request

import "github.com/rs/zerolog"

// Address is the body sent when an address is added or updated. Marking it default takes
// the flag away from every other address of the shopper.
type Address struct {
	AddressTitle string `validate:"required,max=50"  json:"addressTitle"`
	FullAddress  string `validate:"required,max=250" json:"fullAddress"`
	City         string `validate:"max=50"           json:"city"`
	District     string `validate:"max=50"           json:"district"`
	ZipCode      string `validate:"max=10"           json:"zipCode"`
	IsDefault    bool   `                            json:"isDefault"`
}

func (a Address) MarshalZerologObject(e *zerolog.Event) {
	e.Str("addressTitle", a.AddressTitle).Str("city", a.City).Bool("isDefault", a.IsDefault)
}
