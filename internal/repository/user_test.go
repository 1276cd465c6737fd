package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/userstore/internal/dao"
	"github.com/deppfellow/userstore/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ReadAll(ctx context.Context) ([]dao.UserRecord, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]dao.UserRecord)
	return recs, args.Error(1)
}

func (m *mockStore) Read(ctx context.Context, id uuid.UUID) (*dao.UserRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*dao.UserRecord)
	return rec, args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, rec dao.UserRecord) (uuid.UUID, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id uuid.UUID, rec dao.UserRecord) (int64, error) {
	args := m.Called(ctx, id, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

var ctx = context.Background()

func TestGetAll_ConvertsRecords(t *testing.T) {
	store := &mockStore{}
	id := uuid.New()
	store.On("ReadAll", ctx).Return([]dao.UserRecord{{ID: id, FirstName: "A", LastName: "B", Email: "a@b.c"}}, nil)

	users, err := NewUserRepository(store).GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.User{{ID: id, FirstName: "A", LastName: "B", Email: "a@b.c"}}, users)
	store.AssertExpectations(t)
}

func TestGetAll_EmptyIsNotNil(t *testing.T) {
	store := &mockStore{}
	store.On("ReadAll", ctx).Return([]dao.UserRecord{}, nil)

	users, err := NewUserRepository(store).GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestGetByID_Absent(t *testing.T) {
	store := &mockStore{}
	id := uuid.New()
	store.On("Read", ctx, id).Return(nil, nil)

	repo := NewUserRepository(store)

	user, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdate_RowCounts(t *testing.T) {
	id := uuid.New()
	user := model.User{ID: id, FirstName: "A", LastName: "B", Email: "a@b.c"}
	rec := dao.UserRecord{ID: id, FirstName: "A", LastName: "B", Email: "a@b.c"}

	t.Run("zero rows is not found", func(t *testing.T) {
		store := &mockStore{}
		store.On("Update", ctx, id, rec).Return(int64(0), nil)

		err := NewUserRepository(store).Update(ctx, user)

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, id, notFound.ID)
	})

	t.Run("one row is success", func(t *testing.T) {
		store := &mockStore{}
		store.On("Update", ctx, id, rec).Return(int64(1), nil)

		assert.NoError(t, NewUserRepository(store).Update(ctx, user))
	})
}

func TestDelete_ZeroRowsIsNotFound(t *testing.T) {
	store := &mockStore{}
	id := uuid.New()
	store.On("Delete", ctx, id).Return(int64(0), nil)

	err := NewUserRepository(store).Delete(ctx, id)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	store.AssertNumberOfCalls(t, "Delete", 1)
}

func TestCreate_UniqueViolationIsConflict(t *testing.T) {
	store := &mockStore{}
	store.On("Create", ctx, mock.Anything).Return(uuid.Nil, &dao.UniqueViolationError{Field: "email", Table: "users", Constraint: "users_email_key"})

	_, err := NewUserRepository(store).Create(ctx, model.User{Email: "a@b.c"})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "A user with this Email already exists (unique constraint on email)", conflict.Message)
}

func TestUnexpectedIsDBError(t *testing.T) {
	cause := &dao.UnexpectedError{Op: "delete user", Err: errors.New("connection reset")}
	store := &mockStore{}
	id := uuid.New()
	store.On("Delete", ctx, id).Return(int64(0), cause)

	err := NewUserRepository(store).Delete(ctx, id)

	var dbErr *DBError
	require.ErrorAs(t, err, &dbErr)
	assert.ErrorIs(t, err, cause)

	// A single attempt, no retries.
	store.AssertNumberOfCalls(t, "Delete", 1)
}
