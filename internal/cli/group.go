package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledeuns/davical-cmdlnut/internal/logging"
)

func newGroupCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"groups"},
		Short:   "Manage group membership",
	}
	cmd.AddCommand(
		newGroupMemberCmd(a, "add-member", true),
		newGroupMemberCmd(a, "remove-member", false),
		newGroupMembersCmd(a),
	)
	return cmd
}

func newGroupMemberCmd(a *App, use string, add bool) *cobra.Command {
	short := "Add a principal to a group"
	if !add {
		short = "Remove a principal from a group"
	}
	return &cobra.Command{
		Use:   use + " <group> <member>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, member := args[0], args[1]
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				if add {
					if err := s.Groups.AddMember(ctx, group, member); err != nil {
						return err
					}
					a.logger.Info("member added", logging.Username(member), zap.String("group", group))
					return a.renderer().Message("added %s to %s", member, group)
				}
				if err := s.Groups.RemoveMember(ctx, group, member); err != nil {
					return err
				}
				a.logger.Info("member removed", logging.Username(member), zap.String("group", group))
				return a.renderer().Message("removed %s from %s", member, group)
			})
		},
	}
}

func newGroupMembersCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "members <group>",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				members, err := s.Groups.Members(ctx, args[0])
				if err != nil {
					return err
				}
				return renderMembers(a.renderer(), members)
			})
		},
	}
}
