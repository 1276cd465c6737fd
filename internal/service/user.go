package service

import (
	"context"
	"errors"

	"github.com/deppfellow/userstore/internal/model"
	"github.com/deppfellow/userstore/internal/repository"
	"github.com/deppfellow/userstore/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "internal error"

// UserRepository is the subset of *repository.UserRepository the service needs.
type UserRepository interface {
	GetAll(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, user model.User) (uuid.UUID, error)
	Update(ctx context.Context, user model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService validates ids and maps repository failures onto service errors.
type UserService struct {
	repo   UserRepository
	logger *zerolog.Logger
}

func NewUserService(repo UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.translate("get all users", uuid.Nil, err)
	}
	return users, nil
}

func (s *UserService) GetUserByID(ctx context.Context, rawID string) (*model.User, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate("get user", id, err)
	}
	if user == nil {
		return nil, &NotFoundError{ID: id}
	}
	return user, nil
}

// CreateUser stores a new user and returns its id. dto.ID is ignored.
func (s *UserService) CreateUser(ctx context.Context, dto model.UserDTO) (uuid.UUID, error) {
	id, err := s.repo.Create(ctx, model.User{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
	})
	if err != nil {
		return uuid.Nil, s.translate("create user", uuid.Nil, err)
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user created")
	return id, nil
}

func (s *UserService) UpdateUser(ctx context.Context, dto model.UserDTO) error {
	id, err := parseID(dto.ID)
	if err != nil {
		return err
	}

	err = s.repo.Update(ctx, model.User{
		ID:        id,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
	})
	if err != nil {
		return s.translate("update user", id, err)
	}
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate("delete user", id, err)
	}
	return nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &InvalidIDError{Raw: raw}
	}
	return id, nil
}

// translate maps repository errors. DB causes stop here: they are
// logged and replaced by a generic InternalError.
func (s *UserService) translate(op string, id uuid.UUID, err error) error {
	var (
		notFound *repository.NotFoundError
		conflict *repository.ConflictError
	)

	switch {
	case errors.As(err, &notFound):
		return &NotFoundError{ID: notFound.ID}

	case errors.As(err, &conflict):
		return &ConflictError{Message: conflict.Message}

	default:
		event := s.logger.Error().
			Err(err).
			Str("operation", op).
			Stringer("error_code", sqlerr.ErrCode(err))
		if sqlErr := sqlerr.Classify(err); sqlErr != nil {
			event = event.Str("detail", sqlerr.FriendlyMessage(sqlErr))
		}
		if id != uuid.Nil {
			event = event.Str("user_id", id.String())
		}
		event.Msg("user storage failure")

		return &InternalError{Message: internalErrorMessage}
	}
}
