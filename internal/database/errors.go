package database

import (
	"errors"
	"fmt"
)

// Kind classifies why database configuration could not be turned into a pool.
type Kind int

const (
	// MissingEnv: a required environment variable is absent.
	MissingEnv Kind = iota + 1
	// InvalidManifest: the binding manifest is not the expected JSON shape.
	InvalidManifest
	// MissingServiceEntry: no binding exists under the service label.
	MissingServiceEntry
	// MissingCredential: a required credential field is absent.
	MissingCredential
	// MalformedCredential: a credential field is present but unusable.
	MalformedCredential
	// MalformedConfig: a pool-tuning override is invalid.
	MalformedConfig
	// CertificateIO: the root certificate could not be written.
	CertificateIO
	// PoolConstruction: the pool could not be built or did not answer a ping.
	PoolConstruction
)

func (k Kind) String() string {
	switch k {
	case MissingEnv:
		return "missing environment variable"
	case InvalidManifest:
		return "invalid service manifest"
	case MissingServiceEntry:
		return "missing service entry"
	case MissingCredential:
		return "missing credential"
	case MalformedCredential:
		return "malformed credential"
	case MalformedConfig:
		return "malformed pool configuration"
	case CertificateIO:
		return "certificate io"
	case PoolConstruction:
		return "pool construction"
	default:
		return "unknown"
	}
}

// ConfigError is returned by the credential resolver and the pool factory.
//
// Key names the offending variable or field. Value carries the raw value
// only for malformed inputs; it is never set for passwords.
type ConfigError struct {
	Kind  Kind
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	msg := e.Kind.String()
	if e.Key != "" {
		msg += fmt.Sprintf(" %q", e.Key)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (value %q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is matches another *ConfigError by Kind, so callers can write
// errors.Is(err, &ConfigError{Kind: MissingEnv}).
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Key == "" || t.Key == e.Key)
}

// ErrPoolTimeout is wrapped when no pooled connection became available in time.
var ErrPoolTimeout = errors.New("timed out waiting for a pooled connection")

func configErr(kind Kind, key, value string, err error) *ConfigError {
	return &ConfigError{Kind: kind, Key: key, Value: value, Err: err}
}
