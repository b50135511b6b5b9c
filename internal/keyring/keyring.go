// Package keyring keeps the Postgres connection string in the OS keyring so
// it never lands in config.yaml.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "st8"
	user    = "postgres-dsn"
)

var (
	// ErrNotFound is returned when nothing is stored.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be used.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString returns the stored DSN.
func GetConnectionString() (string, error) {
	dsn, err := keyring.Get(service, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return dsn, nil
}

// SetConnectionString stores dsn.
func SetConnectionString(dsn string) error {
	if dsn == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(service, user, dsn); err != nil {
		return fmt.Errorf("store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the stored DSN.
func DeleteConnectionString() error {
	if err := keyring.Delete(service, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete credentials from keyring: %w", err)
	}
	return nil
}

// ResolveDSN returns configured when set, otherwise the keyring value.
func ResolveDSN(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	return GetConnectionString()
}
