// Package service implements the administrative use cases on top of the
// repositories: input validation, name resolution and error mapping.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
)

var (
	ErrUsernameRequired      = errors.New("username is required")
	ErrInvalidUsername       = errors.New("invalid username")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("user already exists")
	ErrCollectionNotFound    = errors.New("collection not found")
	ErrCollectionExists      = errors.New("collection already exists")
	ErrInvalidCollectionName = errors.New("invalid collection name")
	ErrNotAGroup             = errors.New("principal is not a group")
	ErrSelfMember            = errors.New("a group cannot be a member of itself")
	ErrNotAMember            = errors.New("principal is not a member of the group")
	ErrPasswordRequired      = errors.New("password is required")
	ErrSelfGrant             = errors.New("cannot grant privileges to the owner")
	ErrPrivilegesRequired    = errors.New("at least one privilege is required")
	ErrGrantNotFound         = errors.New("grant not found")
	ErrRoleNotFound          = errors.New("role not found")
	ErrNotExportable         = errors.New("collection is neither a calendar nor an addressbook")
)

const maxNameLen = 64

// ValidateUsername checks the characters DAViCal accepts in a principal
// name: letters, digits, '.', '_', '-' and '@', not starting with '.'.
func ValidateUsername(name string) error {
	if name == "" {
		return ErrUsernameRequired
	}
	if len(name) > maxNameLen || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-', r == '@':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidUsername, name)
		}
	}
	return nil
}

// ValidateCollectionName checks a single path segment.
func ValidateCollectionName(name string) error {
	if name == "" || name == "." || name == ".." || len(name) > maxNameLen ||
		strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidCollectionName, name)
	}
	return nil
}

// findUser validates the name and maps a missing row to ErrUserNotFound.
func findUser(ctx context.Context, repo repository.UserRepository, username string) (*model.User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	u, err := repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return nil, err
	}
	return u, nil
}

// findCollection resolves /<username>/<name>/ for an already resolved user.
func findCollection(ctx context.Context, repo repository.CollectionRepository, u *model.User, name string) (*model.Collection, error) {
	if err := ValidateCollectionName(name); err != nil {
		return nil, err
	}
	path := model.CollectionPath(u.Username, name)
	c, err := repo.FindByPath(ctx, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, path)
		}
		return nil, err
	}
	return c, nil
}
