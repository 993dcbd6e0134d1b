package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/password"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
)

// Default collections created for every new person or resource.
var defaultCollections = []struct {
	name   string
	kind   model.CollectionKind
	suffix string
}{
	{name: "calendar", kind: model.KindCalendar, suffix: " calendar"},
	{name: "addresses", kind: model.KindAddressbook, suffix: " addressbook"},
}

// AddUserInput describes a principal to create.
type AddUserInput struct {
	Username string
	Fullname string
	Email    string
	Password string
	// Plain stores the password as "**<password>" instead of salted SHA1.
	Plain bool
	// Type defaults to person.
	Type          model.PrincipalType
	Admin         bool
	Inactive      bool
	NoCollections bool
}

// UpdateUserInput holds the fields to change; nil leaves a field as is.
type UpdateUserInput struct {
	Fullname *string
	Email    *string
}

// ListUsersOptions narrows List.
type ListUsersOptions struct {
	All  bool
	Type model.PrincipalType
}

// UserService covers principal administration.
type UserService interface {
	// Add creates the usr and principal rows, the Admin role when asked for,
	// and the default calendar and addressbook unless disabled or the
	// principal is a group. A failure after the principal exists deletes it
	// again.
	Add(ctx context.Context, in AddUserInput) (*model.User, error)

	Get(ctx context.Context, username string) (*model.User, error)

	// Describe returns the user with roles, group memberships and collections.
	Describe(ctx context.Context, username string) (*model.UserDetails, error)

	List(ctx context.Context, opts ListUsersOptions) ([]model.User, error)

	Update(ctx context.Context, username string, in UpdateUserInput) (*model.User, error)

	SetPassword(ctx context.Context, username, pw string, plain bool) error

	// CheckPassword reports whether pw matches the stored password.
	CheckPassword(ctx context.Context, username, pw string) (bool, error)

	// SetActive enables or disables login for the user.
	SetActive(ctx context.Context, username string, active bool) error

	// Delete removes the user; DAViCal cascades to collections, grants and memberships.
	Delete(ctx context.Context, username string) error

	// SetAdmin adds or removes the Admin role.
	SetAdmin(ctx context.Context, username string, admin bool) error
}

type userService struct {
	users       repository.UserRepository
	collections repository.CollectionRepository
	groups      repository.GroupRepository
}

// NewUserService constructs a new UserService.
func NewUserService(users repository.UserRepository, collections repository.CollectionRepository, groups repository.GroupRepository) UserService {
	return &userService{users: users, collections: collections, groups: groups}
}

func encodePassword(pw string, plain bool) (string, error) {
	if plain {
		return password.Plain(pw)
	}
	return password.Hash(pw)
}

func (s *userService) Add(ctx context.Context, in AddUserInput) (*model.User, error) {
	if err := ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if in.Type == 0 {
		in.Type = model.PrincipalPerson
	}
	if in.Type == model.PrincipalPerson && in.Password == "" {
		return nil, ErrPasswordRequired
	}

	_, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrUserExists, in.Username)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	var encoded string
	if in.Password != "" {
		if encoded, err = encodePassword(in.Password, in.Plain); err != nil {
			return nil, err
		}
	}
	fullname := in.Fullname
	if fullname == "" {
		fullname = in.Username
	}

	u, err := s.users.Create(ctx, &model.User{
		Username: in.Username,
		Fullname: fullname,
		Email:    in.Email,
		Password: encoded,
		Active:   !in.Inactive,
		Type:     in.Type,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.provision(ctx, u, in); err != nil {
		// Rollback: the delete cascades to whatever provision created.
		if delErr := s.users.Delete(ctx, u.UserNo); delErr != nil {
			return nil, fmt.Errorf("%v; rollback delete failed: %v", err, delErr)
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) provision(ctx context.Context, u *model.User, in AddUserInput) error {
	if in.Admin {
		if err := s.addAdmin(ctx, u.UserNo); err != nil {
			return fmt.Errorf("add admin role: %w", err)
		}
	}
	if in.NoCollections || u.Type == model.PrincipalGroup {
		return nil
	}
	for _, dc := range defaultCollections {
		_, err := s.collections.Create(ctx, &model.Collection{
			UserNo:          u.UserNo,
			Path:            model.CollectionPath(u.Username, dc.name),
			ParentContainer: model.UserPath(u.Username),
			DisplayName:     u.Fullname + dc.suffix,
			Kind:            dc.kind,
		})
		if err != nil {
			return fmt.Errorf("create default collections: %w", err)
		}
	}
	return nil
}

func (s *userService) Get(ctx context.Context, username string) (*model.User, error) {
	return findUser(ctx, s.users, username)
}

func (s *userService) Describe(ctx context.Context, username string) (*model.UserDetails, error) {
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}
	roles, err := s.users.Roles(ctx, u.UserNo)
	if err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}
	groups, err := s.groups.Memberships(ctx, u.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("memberships: %w", err)
	}
	cols, err := s.collections.ListByUser(ctx, u.UserNo)
	if err != nil {
		return nil, fmt.Errorf("collections: %w", err)
	}
	return &model.UserDetails{User: *u, Roles: roles, Groups: groups, Collections: cols}, nil
}

func (s *userService) List(ctx context.Context, opts ListUsersOptions) ([]model.User, error) {
	return s.users.List(ctx, repository.UserFilter{IncludeInactive: opts.All, Type: opts.Type})
}

func (s *userService) Update(ctx context.Context, username string, in UpdateUserInput) (*model.User, error) {
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}
	if in.Fullname != nil {
		u.Fullname = *in.Fullname
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, s.mapMissing(err, username)
	}
	return u, nil
}

func (s *userService) SetPassword(ctx context.Context, username, pw string, plain bool) error {
	if pw == "" {
		return ErrPasswordRequired
	}
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return err
	}
	encoded, err := encodePassword(pw, plain)
	if err != nil {
		return err
	}
	return s.mapMissing(s.users.SetPassword(ctx, u.UserNo, encoded), username)
}

func (s *userService) CheckPassword(ctx context.Context, username, pw string) (bool, error) {
	if pw == "" {
		return false, ErrPasswordRequired
	}
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return false, err
	}
	if u.Password == "" {
		return false, nil
	}
	return password.Verify(pw, u.Password)
}

func (s *userService) SetActive(ctx context.Context, username string, active bool) error {
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return err
	}
	if u.Active == active {
		return nil
	}
	u.Active = active
	return s.mapMissing(s.users.Update(ctx, u), username)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return err
	}
	return s.mapMissing(s.users.Delete(ctx, u.UserNo), username)
}

func (s *userService) SetAdmin(ctx context.Context, username string, admin bool) error {
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return err
	}
	if admin {
		return s.addAdmin(ctx, u.UserNo)
	}
	if err := s.users.RemoveRole(ctx, u.UserNo, model.RoleAdmin); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

// addAdmin grants the Admin role; a database without that role is ErrRoleNotFound.
func (s *userService) addAdmin(ctx context.Context, userNo int64) error {
	err := s.users.AddRole(ctx, userNo, model.RoleAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, model.RoleAdmin)
	}
	return err
}

// mapMissing turns a row that vanished between lookup and write into ErrUserNotFound.
func (s *userService) mapMissing(err error, username string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return err
}
