// Package model holds the domain types shared by the repository,
// service and handler layers.
package model

import "github.com/google/uuid"

// User is the domain entity.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
}

// UserDTO is the service input for writes.
//
// ID stays unparsed so the service owns id validation. It is ignored on create.
type UserDTO struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}
