package response

import (
	"slices"

	"github.com/Alturino/storefront/address/pkg/request"
)

type Address struct {
	ID           string `validate:"required" json:"id"`
	AddressTitle string `                    json:"addressTitle"`
	FullAddress  string `                    json:"fullAddress"`
	City         string `                    json:"city"`
	District     string `                    json:"district"`
	ZipCode      string `                    json:"zipCode"`
	IsDefault    bool   `                    json:"isDefault"`
}

// Request is the body that stores a as it is.
func (a Address) Request() request.Address {
	return request.Address{
		AddressTitle: a.AddressTitle,
		FullAddress:  a.FullAddress,
		City:         a.City,
		District:     a.District,
		ZipCode:      a.ZipCode,
		IsDefault:    a.IsDefault,
	}
}

// AddressState is the shopper's address book as last returned by the server.
type AddressState struct {
	Addresses []Address `json:"addresses"`
	IsSyncing bool      `json:"isSyncing"`
}

func EmptyAddressState() AddressState {
	return AddressState{Addresses: []Address{}}
}

func (s AddressState) Clone() AddressState {
	s.Addresses = slices.Clone(s.Addresses)
	if s.Addresses == nil {
		s.Addresses = []Address{}
	}
	return s
}

func (s AddressState) Find(id string) (Address, bool) {
	i := slices.IndexFunc(s.Addresses, func(a Address) bool { return a.ID == id })
	if i < 0 {
		return Address{}, false
	}
	return s.Addresses[i], true
}

// Default returns the address marked default, if any.
func (s AddressState) Default() (Address, bool) {
	i := slices.IndexFunc(s.Addresses, func(a Address) bool { return a.IsDefault })
	if i < 0 {
		return Address{}, false
	}
	return s.Addresses[i], true
}
