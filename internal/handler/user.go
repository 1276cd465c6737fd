package handler

import (
	"context"
	"net/http"

	"github.com/deppfellow/userstore/internal/model"
	"github.com/deppfellow/userstore/internal/server"
	"github.com/deppfellow/userstore/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UserService is the business surface used by UserHandler.
type UserService interface {
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, rawID string) (*model.User, error)
	CreateUser(ctx context.Context, dto model.UserDTO) (uuid.UUID, error)
	UpdateUser(ctx context.Context, dto model.UserDTO) error
	DeleteUser(ctx context.Context, rawID string) error
}

// Response is the envelope for successful JSON bodies.
type Response[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}

type CreatedUser struct {
	ID uuid.UUID `json:"id"`
}

type ListUsersRequest struct{}

func (r *ListUsersRequest) Validate() error { return nil }

// UserIDRequest carries the :id path segment. It is parsed by the service
// so a malformed id yields INVALID_ID rather than a validation failure.
type UserIDRequest struct {
	ID string `param:"id" json:"-"`
}

func (r *UserIDRequest) Validate() error { return nil }

type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email,max=255"`
}

func (r *CreateUserRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateUserRequest struct {
	ID        string `param:"id" json:"-"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email,max=255"`
}

func (r *UpdateUserRequest) Validate() error {
	return validation.Struct(r)
}

type UserHandler struct {
	Handler
	users UserService
}

func NewUserHandler(s *server.Server, users UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) ListUsers(c echo.Context, _ *ListUsersRequest) (Response[[]model.User], error) {
	users, err := h.users.GetAllUsers(c.Request().Context())
	if err != nil {
		return Response[[]model.User]{}, serviceError(err)
	}
	return Response[[]model.User]{Data: users, Message: "Success"}, nil
}

func (h *UserHandler) GetUser(c echo.Context, req *UserIDRequest) (Response[*model.User], error) {
	user, err := h.users.GetUserByID(c.Request().Context(), req.ID)
	if err != nil {
		return Response[*model.User]{}, serviceError(err)
	}
	return Response[*model.User]{Data: user, Message: "Success"}, nil
}

// CreateUser sets Location to the new resource.
func (h *UserHandler) CreateUser(c echo.Context, req *CreateUserRequest) (Response[CreatedUser], error) {
	id, err := h.users.CreateUser(c.Request().Context(), model.UserDTO{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return Response[CreatedUser]{}, serviceError(err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/users/"+id.String())
	return Response[CreatedUser]{Data: CreatedUser{ID: id}, Message: "User created"}, nil
}

func (h *UserHandler) UpdateUser(c echo.Context, req *UpdateUserRequest) error {
	err := h.users.UpdateUser(c.Request().Context(), model.UserDTO{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	return serviceError(err)
}

func (h *UserHandler) DeleteUser(c echo.Context, req *UserIDRequest) error {
	return serviceError(h.users.DeleteUser(c.Request().Context(), req.ID))
}

// Routes registers the user endpoints on g.
func (h *UserHandler) Routes(g *echo.Group) {
	g.GET("", Handle(h.Handler, h.ListUsers, http.StatusOK, newOf[ListUsersRequest]()))
	g.POST("", Handle(h.Handler, h.CreateUser, http.StatusCreated, newOf[CreateUserRequest]()))
	g.GET("/:id", Handle(h.Handler, h.GetUser, http.StatusOK, newOf[UserIDRequest]()))
	g.PUT("/:id", HandleNoContent(h.Handler, h.UpdateUser, http.StatusNoContent, newOf[UpdateUserRequest]()))
	g.DELETE("/:id", HandleNoContent(h.Handler, h.DeleteUser, http.StatusNoContent, newOf[UserIDRequest]()))
}
