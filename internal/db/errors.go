package db

import (
	"errors"
	"fmt"

	go_sqlite "github.com/glebarez/go-sqlite"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Store failures are reported to callers wrapped in one of these sentinels so
// that an authorization rejection is never confused with a transient error.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrUnavailable      = errors.New("store unavailable")
)

// MongoDB server error codes that mean the caller lacks rights.
const (
	mongoUnauthorized         = 13
	mongoAuthenticationFailed = 18
	mongoAtlasUnauthorized    = 8000
)

// SQLite primary result codes that mean the write was refused.
const (
	sqlitePerm     = 3
	sqliteReadOnly = 8
	sqliteAuth     = 23
)

// FromMongo classifies an error returned by the mongo driver. It returns nil
// for nil.
func FromMongo(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		if se.HasErrorCode(mongoUnauthorized) || se.HasErrorCode(mongoAuthenticationFailed) || se.HasErrorCode(mongoAtlasUnauthorized) {
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// FromSQL classifies an error returned by gorm on the SQLite driver. It
// returns nil for nil.
func FromSQL(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	var se *go_sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlitePerm, sqliteReadOnly, sqliteAuth:
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// IsPermissionDenied is a shorthand for errors.Is(err, ErrPermissionDenied).
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
