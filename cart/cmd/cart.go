package cmd

import (
	"github.com/Alturino/storefront/cart/internal/remote"
	"github.com/Alturino/storefront/cart/internal/session"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/notification/pkg/notifier"
)

func NewCartAPI(client *inHttp.Client, endpoints config.Endpoints) *remote.CartAPI {
	return remote.NewCartAPI(client, endpoints)
}

// NewCartSession wires a cart session to the storefront API behind client. Orders are
// placed through orders and the bearer token is read from identity on every request.
func NewCartSession(
	client *inHttp.Client,
	cfg config.Config,
	orders session.OrderPlacer,
	identity session.IdentitySource,
	n notifier.Notifier,
) *session.CartSession {
	return session.NewCartSession(NewCartAPI(client, cfg.Api.Endpoints), orders, identity, n, cfg.Display)
}
