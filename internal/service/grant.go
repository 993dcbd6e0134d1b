package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/privilege"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
)

// GrantInput names a grant. An empty Collection means the owner's whole
// principal namespace.
type GrantInput struct {
	To         string
	Owner      string
	Collection string
	Privileges privilege.Mask
}

// GrantList is what a user holds and what others hold on the user's data.
type GrantList struct {
	Held  []model.Grant `json:"held" yaml:"held"`
	Given []model.Grant `json:"given" yaml:"given"`
}

// GrantService manages DAViCal access grants.
type GrantService interface {
	// Grant sets the privileges of To on Owner (or one of Owner's
	// collections), replacing any previous grant.
	Grant(ctx context.Context, in GrantInput) (*model.Grant, error)
	Revoke(ctx context.Context, in GrantInput) error
	List(ctx context.Context, username string) (*GrantList, error)
}

type grantService struct {
	users       repository.UserRepository
	collections repository.CollectionRepository
	grants      repository.GrantRepository
}

// NewGrantService constructs a new GrantService.
func NewGrantService(users repository.UserRepository, collections repository.CollectionRepository, grants repository.GrantRepository) GrantService {
	return &grantService{users: users, collections: collections, grants: grants}
}

// resolve builds the grant row key from names.
func (s *grantService) resolve(ctx context.Context, in GrantInput) (*model.Grant, error) {
	if in.To == in.Owner {
		return nil, ErrSelfGrant
	}
	to, err := findUser(ctx, s.users, in.To)
	if err != nil {
		return nil, err
	}
	owner, err := findUser(ctx, s.users, in.Owner)
	if err != nil {
		return nil, err
	}

	g := &model.Grant{
		ToPrincipal: to.PrincipalID,
		IsGroup:     to.Type == model.PrincipalGroup,
		Owner:       owner.Username,
		Grantee:     to.Username,
	}
	if in.Collection == "" {
		id := owner.PrincipalID
		g.ByPrincipal = &id
		return g, nil
	}
	c, err := findCollection(ctx, s.collections, owner, in.Collection)
	if err != nil {
		return nil, err
	}
	id := c.ID
	g.ByCollection = &id
	g.Collection = c.Path
	return g, nil
}

func (s *grantService) Grant(ctx context.Context, in GrantInput) (*model.Grant, error) {
	if in.Privileges&privilege.All == 0 {
		return nil, ErrPrivilegesRequired
	}
	g, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	g.Privileges = uint32(in.Privileges & privilege.All)
	if err := s.grants.Upsert(ctx, g); err != nil {
		return nil, fmt.Errorf("save grant: %w", err)
	}
	return g, nil
}

func (s *grantService) Revoke(ctx context.Context, in GrantInput) error {
	g, err := s.resolve(ctx, in)
	if err != nil {
		return err
	}
	if err := s.grants.Revoke(ctx, g); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s on %s", ErrGrantNotFound, g.Grantee, g.Target())
		}
		return err
	}
	return nil
}

func (s *grantService) List(ctx context.Context, username string) (*GrantList, error) {
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}
	held, err := s.grants.ListTo(ctx, u.UserNo)
	if err != nil {
		return nil, err
	}
	given, err := s.grants.ListFrom(ctx, u.UserNo)
	if err != nil {
		return nil, err
	}
	return &GrantList{Held: held, Given: given}, nil
}
