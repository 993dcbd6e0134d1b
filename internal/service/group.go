package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
)

// GroupService manages direct group membership.
type GroupService interface {
	AddMember(ctx context.Context, group, member string) error
	RemoveMember(ctx context.Context, group, member string) error
	Members(ctx context.Context, group string) ([]model.User, error)
}

type groupService struct {
	users  repository.UserRepository
	groups repository.GroupRepository
}

// NewGroupService constructs a new GroupService.
func NewGroupService(users repository.UserRepository, groups repository.GroupRepository) GroupService {
	return &groupService{users: users, groups: groups}
}

func (s *groupService) findGroup(ctx context.Context, name string) (*model.User, error) {
	g, err := findUser(ctx, s.users, name)
	if err != nil {
		return nil, err
	}
	if g.Type != model.PrincipalGroup {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotAGroup, name, g.Type)
	}
	return g, nil
}

func (s *groupService) resolve(ctx context.Context, group, member string) (*model.User, *model.User, error) {
	g, err := s.findGroup(ctx, group)
	if err != nil {
		return nil, nil, err
	}
	if group == member {
		return nil, nil, ErrSelfMember
	}
	m, err := findUser(ctx, s.users, member)
	if err != nil {
		return nil, nil, err
	}
	return g, m, nil
}

func (s *groupService) AddMember(ctx context.Context, group, member string) error {
	g, m, err := s.resolve(ctx, group, member)
	if err != nil {
		return err
	}
	return s.groups.AddMember(ctx, g.PrincipalID, m.PrincipalID)
}

func (s *groupService) RemoveMember(ctx context.Context, group, member string) error {
	g, m, err := s.resolve(ctx, group, member)
	if err != nil {
		return err
	}
	if err := s.groups.RemoveMember(ctx, g.PrincipalID, m.PrincipalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s in %s", ErrNotAMember, member, group)
		}
		return err
	}
	return nil
}

func (s *groupService) Members(ctx context.Context, group string) ([]model.User, error) {
	g, err := s.findGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	return s.groups.Members(ctx, g.PrincipalID)
}
