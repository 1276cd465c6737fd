// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic SQLSTATE codes from the PostgreSQL driver
// into a small set of categories and builds user-friendly
// messages from constraint metadata (e.g., turning
// "users_email_key" into "A user with this Email already exists").
package sqlerr
