package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	inErrors "github.com/Alturino/storefront/devserver/internal/errors"
	"github.com/Alturino/storefront/devserver/internal/otel"
	"github.com/Alturino/storefront/devserver/internal/repository"
	commonErrors "github.com/Alturino/storefront/internal/common/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/token"
	"github.com/Alturino/storefront/user/pkg/request"
	"github.com/Alturino/storefront/user/pkg/response"
)

type UserService struct {
	queries   *repository.Queries
	now       func() time.Time
	secretKey string
	ttl       time.Duration
}

func NewUserService(queries *repository.Queries, secretKey string, now func() time.Time) *UserService {
	return &UserService{queries: queries, secretKey: secretKey, now: now, ttl: token.DefaultTTL}
}

func (u *UserService) Login(c context.Context, param request.Login) (response.Login, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding user").Logger()
	logger.Info().Msg("finding user by email")
	user, err := u.queries.FindUserByEmail(c, param.Email)
	if err != nil {
		err = fmt.Errorf("failed finding user by email=%s with error=%w", param.Email, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	logger = logger.With().Str(log.KeyUserID, user.ID.String()).Logger()
	logger.Info().Msg("found user by email")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Info().Msg("verifying hashed password with password")
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(param.Password))
	if err != nil {
		err = errors.Join(inErrors.ErrPasswordMismatch, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg("failed verifying hashed password and password is mismatch")
		return response.Login{}, err
	}
	logger.Info().Msg("verified hashed password with password")

	logger = logger.With().Str(log.KeyProcess, "signing token").Logger()
	logger.Info().Msg("signing token")
	signed, err := token.Sign(u.secretKey, user.ID.String(), user.Name, user.Email, u.now(), u.ttl)
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	logger.Info().Msg("signed token")

	resp := user.Response()
	return response.Login{User: &resp, Token: signed}, nil
}

func (u *UserService) Register(c context.Context, param request.Register) (response.Register, error) {
	c, span := otel.Tracer.Start(c, "UserService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Register").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Info().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = errors.Join(commonErrors.ErrFailedHashToken, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Register{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "inserting user").Logger()
	logger.Info().Msg("inserting user")
	user, err := u.queries.InsertUser(c, repository.InsertUserParams{
		Name:     param.Name,
		Email:    param.Email,
		Password: string(hashed),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting user with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Register{}, err
	}
	logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("inserted user")

	return response.Register{Message: "registration completed"}, nil
}

func (u *UserService) UpdateProfile(c context.Context, userID uuid.UUID, param request.UpdateProfile) (response.User, error) {
	c, span := otel.Tracer.Start(c, "UserService UpdateProfile")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService UpdateProfile").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "updating user").Logger()
	logger.Info().Msg("updating user")
	user, err := u.queries.UpdateUser(c, repository.UpdateUserParams{
		ID:          userID,
		Name:        param.Name,
		Email:       param.Email,
		PhoneNumber: param.PhoneNumber,
		Address:     param.Address,
	})
	if err != nil {
		err = fmt.Errorf("failed updating user with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Str(log.KeyEmail, user.Email).Msg("updated user")

	return user.Response(), nil
}
