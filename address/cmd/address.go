package cmd

import (
	"github.com/Alturino/storefront/address/internal/remote"
	"github.com/Alturino/storefront/address/internal/session"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/notification/pkg/notifier"
)

func NewAddressSession(
	client *inHttp.Client,
	endpoints config.Endpoints,
	identity session.IdentitySource,
	n notifier.Notifier,
) *session.AddressSession {
	return session.NewAddressSession(remote.NewAddressAPI(client, endpoints), identity, n)
}
