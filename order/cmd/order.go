package cmd

import (
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/order/internal/remote"
)

func NewOrderAPI(client *inHttp.Client, endpoints config.Endpoints) *remote.OrderAPI {
	return remote.NewOrderAPI(client, endpoints)
}
