package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	repoMocks "github.com/ledeuns/davical-cmdlnut/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var staff = &model.User{UserNo: 19, PrincipalID: 20, Username: "staff", Type: model.PrincipalGroup, Active: true}

func TestGroupService_AddMember(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		group      string
		member     string
		setupMocks func(users *repoMocks.MockUserRepository, groups *repoMocks.MockGroupRepository)
		wantErr    error
	}{
		{
			name:   "happy path",
			group:  "staff",
			member: "alice",
			setupMocks: func(users *repoMocks.MockUserRepository, groups *repoMocks.MockGroupRepository) {
				users.On("FindByUsername", ctx, "staff").Return(staff, nil)
				users.On("FindByUsername", ctx, "alice").Return(alice, nil)
				groups.On("AddMember", ctx, int64(20), int64(12)).Return(nil)
			},
		},
		{
			name:   "not a group",
			group:  "alice",
			member: "staff",
			setupMocks: func(users *repoMocks.MockUserRepository, groups *repoMocks.MockGroupRepository) {
				users.On("FindByUsername", ctx, "alice").Return(alice, nil)
			},
			wantErr: ErrNotAGroup,
		},
		{
			name:   "self",
			group:  "staff",
			member: "staff",
			setupMocks: func(users *repoMocks.MockUserRepository, groups *repoMocks.MockGroupRepository) {
				users.On("FindByUsername", ctx, "staff").Return(staff, nil)
			},
			wantErr: ErrSelfMember,
		},
		{
			name:   "unknown member",
			group:  "staff",
			member: "ghost",
			setupMocks: func(users *repoMocks.MockUserRepository, groups *repoMocks.MockGroupRepository) {
				users.On("FindByUsername", ctx, "staff").Return(staff, nil)
				users.On("FindByUsername", ctx, "ghost").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(repoMocks.MockUserRepository)
			groups := new(repoMocks.MockGroupRepository)
			svc := NewGroupService(users, groups)
			tt.setupMocks(users, groups)

			err := svc.AddMember(ctx, tt.group, tt.member)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			users.AssertExpectations(t)
			groups.AssertExpectations(t)
		})
	}
}

func TestGroupService_RemoveMember(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	groups := new(repoMocks.MockGroupRepository)
	svc := NewGroupService(users, groups)

	users.On("FindByUsername", ctx, "staff").Return(staff, nil)
	users.On("FindByUsername", ctx, "alice").Return(alice, nil)
	groups.On("RemoveMember", ctx, int64(20), int64(12)).Return(nil).Once()
	groups.On("RemoveMember", ctx, int64(20), int64(12)).Return(sql.ErrNoRows).Once()

	assert.NoError(t, svc.RemoveMember(ctx, "staff", "alice"))
	assert.ErrorIs(t, svc.RemoveMember(ctx, "staff", "alice"), ErrNotAMember)
	groups.AssertExpectations(t)
}

func TestGroupService_Members(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	groups := new(repoMocks.MockGroupRepository)
	svc := NewGroupService(users, groups)

	users.On("FindByUsername", ctx, "staff").Return(staff, nil)
	groups.On("Members", ctx, int64(20)).Return([]model.User{*alice}, nil)

	got, err := svc.Members(ctx, "staff")
	require.NoError(t, err)
	assert.Equal(t, "alice", got[0].Username)
}
