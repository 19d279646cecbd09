package cmd

import (
	"github.com/Alturino/storefront/favorite/internal/remote"
	"github.com/Alturino/storefront/favorite/internal/session"
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/notification/pkg/notifier"
)

func NewFavoritesSession(
	client *inHttp.Client,
	endpoints config.Endpoints,
	identity session.IdentitySource,
	n notifier.Notifier,
) *session.FavoritesSession {
	return session.NewFavoritesSession(remote.NewFavoriteAPI(client, endpoints), identity, n)
}
