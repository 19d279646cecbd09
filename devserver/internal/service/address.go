package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/address/pkg/request"
	"github.com/Alturino/storefront/address/pkg/response"
	inErrors "github.com/Alturino/storefront/devserver/internal/errors"
	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/repository"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/log"
)

// AddressService answers every call with the user's whole address book.
type AddressService struct {
	queries *repository.Queries
}

func NewAddressService(queries *repository.Queries) *AddressService {
	return &AddressService{queries: queries}
}

func (svc *AddressService) List(c context.Context, userID uuid.UUID) []response.Address {
	return addressesResponse(svc.queries.FindAddressesByUserID(c, userID))
}

func (svc *AddressService) Add(c context.Context, userID uuid.UUID, param request.Address) []response.Address {
	c, span := otel.Tracer.Start(c, "AddressService Add")
	defer span.End()

	address := newAddress(uuid.New(), userID, param)
	book := svc.queries.InsertAddress(c, address)
	zerolog.Ctx(c).Info().
		Str(log.KeyTag, "AddressService Add").
		Str(log.KeyAddressID, address.ID.String()).
		Int(log.KeyAddresses, len(book)).
		Msg("inserted address")
	return addressesResponse(book)
}

func (svc *AddressService) Update(c context.Context, userID uuid.UUID, id string, param request.Address) ([]response.Address, error) {
	c, span := otel.Tracer.Start(c, "AddressService Update")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressService Update").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyAddressID, id).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "updating address").Logger()
	logger.Info().Msg("updating address")
	addressID, err := uuid.Parse(id)
	if err != nil {
		err = fmt.Errorf("failed parsing addressId=%s with error=%w", id, inErrors.ErrAddressNotFound)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	book, err := svc.queries.UpdateAddress(c, newAddress(addressID, userID, param))
	if err != nil {
		err = fmt.Errorf("failed updating addressId=%s with error=%w", id, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("updated address")

	return addressesResponse(book), nil
}

func (svc *AddressService) Delete(c context.Context, userID uuid.UUID, id string) ([]response.Address, error) {
	c, span := otel.Tracer.Start(c, "AddressService Delete")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AddressService Delete").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyAddressID, id).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting address").Logger()
	logger.Info().Msg("deleting address")
	addressID, err := uuid.Parse(id)
	if err != nil {
		err = fmt.Errorf("failed parsing addressId=%s with error=%w", id, inErrors.ErrAddressNotFound)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	book, err := svc.queries.DeleteAddress(c, userID, addressID)
	if err != nil {
		err = fmt.Errorf("failed deleting addressId=%s with error=%w", id, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("deleted address")

	return addressesResponse(book), nil
}

func newAddress(id, userID uuid.UUID, param request.Address) repository.Address {
	return repository.Address{
		ID:          id,
		UserID:      userID,
		Title:       param.AddressTitle,
		FullAddress: param.FullAddress,
		City:        param.City,
		District:    param.District,
		ZipCode:     param.ZipCode,
		IsDefault:   param.IsDefault,
	}
}

func addressesResponse(book []repository.Address) []response.Address {
	addresses := make([]response.Address, len(book))
	for i, address := range book {
		addresses[i] = address.Response()
	}
	return addresses
}
