// Package dao is the transactional data-access layer over the users table.
//
// Every method runs exactly one statement inside its own read-committed
// transaction and returns either data or one of the error types in
// errors.go. Raw driver errors never leave this package.
package dao

import (
	"context"
	"errors"

	"github.com/deppfellow/userstore/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const usersTable = "users"

// Rows provisioned onto a pre-existing table may lack an email.
const (
	selectAllUsers = `SELECT id, firstname, lastname, COALESCE(email, '') AS email FROM users ORDER BY email, id`
	selectUser     = `SELECT id, firstname, lastname, COALESCE(email, '') AS email FROM users WHERE id = $1`
	insertUser     = `INSERT INTO users (firstname, lastname, email) VALUES ($1, $2, $3) RETURNING id`
	updateUser     = `UPDATE users SET firstname = $1, lastname = $2, email = $3 WHERE id = $4`
	deleteUser     = `DELETE FROM users WHERE id = $1`
)

// UserRecord is the storage shape of a row in users.
type UserRecord struct {
	ID        uuid.UUID `db:"id"`
	FirstName string    `db:"firstname"`
	LastName  string    `db:"lastname"`
	Email     string    `db:"email"`
}

// Store is what the DAO needs from the database layer.
// *database.Database satisfies it.
type Store interface {
	InTx(ctx context.Context, fn database.TxFunc) error
	Migrate(ctx context.Context) error
}

// UserDAO reads and writes user rows.
type UserDAO struct {
	db Store
}

// Provision makes sure the schema exists and returns a ready DAO.
//
// It is the only way to obtain a UserDAO, so no statement can run before
// the table is there. Provisioning is idempotent.
func Provision(ctx context.Context, db Store) (*UserDAO, error) {
	if err := db.Migrate(ctx); err != nil {
		return nil, classify("provision", err)
	}
	return &UserDAO{db: db}, nil
}

// ReadAll returns every user ordered by email. An empty table yields an empty slice.
func (d *UserDAO) ReadAll(ctx context.Context) ([]UserRecord, error) {
	records := []UserRecord{}

	err := d.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectAllUsers)
		if err != nil {
			return err
		}

		collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[UserRecord])
		if err != nil {
			return err
		}
		records = append(records, collected...)
		return nil
	})
	if err != nil {
		return nil, classify("read all users", err)
	}

	return records, nil
}

// Read returns the user with id, or nil when there is none.
func (d *UserDAO) Read(ctx context.Context, id uuid.UUID) (*UserRecord, error) {
	var record *UserRecord

	err := d.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var r UserRecord
		err := tx.QueryRow(ctx, selectUser, id).Scan(&r.ID, &r.FirstName, &r.LastName, &r.Email)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		record = &r
		return nil
	})
	if err != nil {
		return nil, classify("read user", err)
	}

	return record, nil
}

// Create inserts rec and returns the generated id. rec.ID is ignored.
func (d *UserDAO) Create(ctx context.Context, rec UserRecord) (uuid.UUID, error) {
	var id uuid.UUID

	err := d.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, insertUser, rec.FirstName, rec.LastName, rec.Email).Scan(&id)
	})
	if err != nil {
		return uuid.Nil, classify("create user", err)
	}

	return id, nil
}

// Update overwrites the mutable columns of the row with id and reports the
// number of affected rows. The id column itself is never written.
func (d *UserDAO) Update(ctx context.Context, id uuid.UUID, rec UserRecord) (int64, error) {
	var affected int64

	err := d.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateUser, rec.FirstName, rec.LastName, rec.Email, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, classify("update user", err)
	}

	return affected, nil
}

// Delete removes the row with id and reports the number of affected rows.
func (d *UserDAO) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var affected int64

	err := d.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteUser, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, classify("delete user", err)
	}

	return affected, nil
}
