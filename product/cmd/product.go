package cmd

import (
	"github.com/Alturino/storefront/internal/config"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/product/internal/remote"
)

func NewProductAPI(client *inHttp.Client, endpoints config.Endpoints) *remote.ProductAPI {
	return remote.NewProductAPI(client, endpoints)
}
