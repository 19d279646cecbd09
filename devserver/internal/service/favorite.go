package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/repository"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/log"
)

type FavoriteService struct {
	queries *repository.Queries
}

func NewFavoriteService(queries *repository.Queries) *FavoriteService {
	return &FavoriteService{queries: queries}
}

func (svc *FavoriteService) List(c context.Context, userID uuid.UUID) []string {
	return svc.queries.FindFavoritesByUserID(c, userID)
}

func (svc *FavoriteService) Add(c context.Context, userID uuid.UUID, productID string) error {
	c, span := otel.Tracer.Start(c, "FavoriteService Add")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "FavoriteService Add").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProductID, productID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product")
	if _, err := svc.queries.FindProductByID(c, productID); err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", productID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("found product")

	svc.queries.InsertFavorite(c, userID, productID)
	logger.Info().Msg("inserted favorite")
	return nil
}

func (svc *FavoriteService) Remove(c context.Context, userID uuid.UUID, productID string) {
	svc.queries.DeleteFavorite(c, userID, productID)
	zerolog.Ctx(c).Info().
		Str(log.KeyTag, "FavoriteService Remove").
		Str(log.KeyProductID, productID).
		Msg("deleted favorite")
}
