package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/userstore/internal/dao"
	"github.com/deppfellow/userstore/internal/model"
	"github.com/deppfellow/userstore/internal/sqlerr"
	"github.com/google/uuid"
)

// UserStore is the subset of *dao.UserDAO the repository needs.
type UserStore interface {
	ReadAll(ctx context.Context) ([]dao.UserRecord, error)
	Read(ctx context.Context, id uuid.UUID) (*dao.UserRecord, error)
	Create(ctx context.Context, rec dao.UserRecord) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, rec dao.UserRecord) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// UserRepository turns DAO results into domain values and repository errors.
// It never retries.
type UserRepository struct {
	store UserStore
}

func NewUserRepository(store UserStore) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	records, err := r.store.ReadAll(ctx)
	if err != nil {
		return nil, translate(err)
	}

	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		users = append(users, toModel(rec))
	}
	return users, nil
}

// GetByID returns (nil, nil) when the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	rec, err := r.store.Read(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if rec == nil {
		return nil, nil
	}

	user := toModel(*rec)
	return &user, nil
}

// Create stores user and returns the id assigned by the database.
func (r *UserRepository) Create(ctx context.Context, user model.User) (uuid.UUID, error) {
	id, err := r.store.Create(ctx, toRecord(user))
	if err != nil {
		return uuid.Nil, translate(err)
	}
	return id, nil
}

// Update overwrites the user identified by user.ID.
func (r *UserRepository) Update(ctx context.Context, user model.User) error {
	n, err := r.store.Update(ctx, user.ID, toRecord(user))
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return &NotFoundError{ID: user.ID}
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.store.Delete(ctx, id)
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func translate(err error) error {
	var unique *dao.UniqueViolationError
	if errors.As(err, &unique) {
		return &ConflictError{Message: sqlerr.UniqueViolationMessage(unique.Table, unique.Field)}
	}
	return &DBError{Err: err}
}

func toModel(rec dao.UserRecord) model.User {
	return model.User{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
	}
}

func toRecord(user model.User) dao.UserRecord {
	return dao.UserRecord{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}
