package database

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/deppfellow/userstore/internal/config"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cast"
)

// ManifestEnv is the environment variable carrying the service-binding manifest.
const ManifestEnv = "VCAP_SERVICES"

// Credentials locate and authenticate against one PostgreSQL database.
//
// It is a plain value: resolving the same input twice yields equal values.
// An empty SSLRootCert means no certificate was bound.
type Credentials struct {
	Host        string
	Port        int
	Database    string
	Username    string
	Password    string
	SSLRootCert string
}

// String omits the password so credentials can be logged.
func (c Credentials) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.Username, c.Host, c.Port, c.Database)
}

// ResolveCredentials extracts database credentials for serviceInstanceName.
//
// The manifest in cfg.Manifest holds, under cfg.ServiceLabel, an array of
// bindings. The binding whose "name" equals serviceInstanceName wins,
// otherwise the first binding is used. Without a manifest the discrete
// DB_* settings are used, but only when cfg.LocalFallback is set.
func ResolveCredentials(serviceInstanceName string, cfg config.DatabaseConfig) (Credentials, error) {
	if strings.TrimSpace(cfg.Manifest) == "" {
		if !cfg.LocalFallback {
			return Credentials{}, configErr(MissingEnv, ManifestEnv, "", nil)
		}
		return localCredentials(cfg)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(cfg.Manifest)), json.Parser()); err != nil {
		return Credentials{}, configErr(InvalidManifest, ManifestEnv, "", err)
	}

	if _, ok := k.Get(cfg.ServiceLabel).([]interface{}); !ok {
		return Credentials{}, configErr(MissingServiceEntry, cfg.ServiceLabel, "", nil)
	}

	bindings := k.Slices(cfg.ServiceLabel)
	if len(bindings) == 0 {
		return Credentials{}, configErr(MissingServiceEntry, cfg.ServiceLabel, "", nil)
	}

	binding := bindings[0]
	for _, b := range bindings {
		if b.String("name") == serviceInstanceName {
			binding = b
			break
		}
	}

	if _, ok := binding.Get("credentials").(map[string]interface{}); !ok {
		return Credentials{}, configErr(InvalidManifest, "credentials", "", fmt.Errorf("binding has no credentials object"))
	}
	creds := binding.Cut("credentials")

	var out Credentials
	var err error

	if out.Host, err = requiredString(creds, "hostname"); err != nil {
		return Credentials{}, err
	}
	if !creds.Exists("port") || creds.Get("port") == nil {
		return Credentials{}, configErr(MissingCredential, "port", "", nil)
	}
	if out.Port, err = parsePort("port", creds.Get("port")); err != nil {
		return Credentials{}, err
	}
	if out.Database, err = requiredString(creds, "dbname"); err != nil {
		return Credentials{}, err
	}
	if out.Username, err = requiredString(creds, "username"); err != nil {
		return Credentials{}, err
	}
	if out.Password, err = requiredString(creds, "password"); err != nil {
		return Credentials{}, err
	}

	if raw := creds.Get("sslrootcert"); raw != nil {
		cert, err := cast.ToStringE(raw)
		if err != nil {
			return Credentials{}, configErr(MalformedCredential, "sslrootcert", "", err)
		}
		out.SSLRootCert = cert
	}

	return out, nil
}

func localCredentials(cfg config.DatabaseConfig) (Credentials, error) {
	port, err := parsePort("DB_PORT", cfg.Port)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		Host:     cfg.Host,
		Port:     port,
		Database: cfg.Name,
		Username: cfg.User,
		Password: cfg.Password,
	}, nil
}

func requiredString(k *koanf.Koanf, field string) (string, error) {
	raw := k.Get(field)
	if raw == nil {
		return "", configErr(MissingCredential, field, "", nil)
	}

	v, err := cast.ToStringE(raw)
	if err != nil {
		return "", configErr(MalformedCredential, field, "", err)
	}
	return v, nil
}

// parsePort accepts a quoted or numeric port in 1..65535.
func parsePort(key string, raw any) (int, error) {
	display := cast.ToString(raw)

	var port int
	switch v := raw.(type) {
	case string:
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, configErr(MalformedCredential, key, v, err)
		}
		port = p
	case float64:
		if v != math.Trunc(v) {
			return 0, configErr(MalformedCredential, key, display, fmt.Errorf("port is not an integer"))
		}
		port = int(v)
	default:
		return 0, configErr(MalformedCredential, key, display, fmt.Errorf("port must be a number or a numeric string, got %T", raw))
	}

	if port < 1 || port > 65535 {
		return 0, configErr(MalformedCredential, key, display, fmt.Errorf("port out of range"))
	}
	return port, nil
}
