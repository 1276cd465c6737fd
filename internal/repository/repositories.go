// Package repository sits between the services and the DAO.
//
// It converts storage records into domain values and translates
// DAO failures into NotFound, Conflict and DB errors so services
// never see driver details.
package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/userstore/internal/dao"
	"github.com/deppfellow/userstore/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users *UserRepository
}

// NewRepositories provisions the schema and builds every repository on s.DB.
func NewRepositories(ctx context.Context, s *server.Server) (*Repositories, error) {
	users, err := dao.Provision(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("provisioning user storage: %w", err)
	}

	return &Repositories{
		Users: NewUserRepository(users),
	}, nil
}
