// Package repository contains data access logic separated from HTTP
// handlers. Every repo issues plain SQL through database/sql using `?`
// placeholders so the same queries run on MySQL and SQLite.
package repository

import (
	"errors"
	"strings"
)

// ErrUsernameExists is returned when a user with the same username is
// already registered.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrSessionInvalid covers unknown, expired and revoked sessions.
var ErrSessionInvalid = errors.New("session invalid")

// ErrDealershipNotFound is returned when a dealership cannot be found.
var ErrDealershipNotFound = errors.New("dealership not found")

// isUniqueViolation recognises duplicate-key errors from both MySQL (1062)
// and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
