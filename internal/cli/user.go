package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledeuns/davical-cmdlnut/internal/logging"
	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/service"
)

var errConfirmRequired = errors.New("refusing to delete without --yes")

func newUserCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users", "principal"},
		Short:   "Manage users, resources and groups",
	}
	cmd.AddCommand(
		newUserListCmd(a),
		newUserShowCmd(a),
		newUserAddCmd(a),
		newUserUpdateCmd(a),
		newUserPasswdCmd(a),
		newUserCheckPasswordCmd(a),
		newUserActiveCmd(a, "enable", true),
		newUserActiveCmd(a, "disable", false),
		newUserDeleteCmd(a),
		newUserAdminCmd(a),
	)
	return cmd
}

func newUserListCmd(a *App) *cobra.Command {
	var (
		all      bool
		typeName string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List principals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := service.ListUsersOptions{All: all}
			if typeName != "" {
				t, err := model.ParsePrincipalType(typeName)
				if err != nil {
					return err
				}
				opts.Type = t
			}
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				users, err := s.Users.List(ctx, opts)
				if err != nil {
					return err
				}
				return renderUsers(a.renderer(), users)
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include disabled principals")
	cmd.Flags().StringVar(&typeName, "type", "", "only list this principal type: person, resource or group")
	return cmd
}

func newUserShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show a principal with its roles, groups and collections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				d, err := s.Users.Describe(ctx, args[0])
				if err != nil {
					return err
				}
				return renderUserDetails(a.renderer(), d)
			})
		},
	}
}

func newUserAddCmd(a *App) *cobra.Command {
	var (
		in       service.AddUserInput
		typeName string
		pw       passwordFlags
	)
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a principal with its default calendar and addressbook",
		Long: `Create a user, resource or group.

People need a password. Unless --no-collections is given, persons and
resources get a "calendar" calendar and an "addresses" addressbook.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Username = args[0]
			t, err := model.ParsePrincipalType(typeName)
			if err != nil {
				return err
			}
			in.Type = t
			if in.Password, err = a.readPasswordInput(pw, true); err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				u, err := s.Users.Add(ctx, in)
				if err != nil {
					return err
				}
				a.logger.Info("principal created",
					logging.Username(u.Username),
					zap.String("type", u.Type.String()),
					zap.String("password", logging.SanitizePassword(in.Password)),
				)
				return a.renderer().Message("created %s %s (user_no %d, principal_id %d)", u.Type, u.Username, u.UserNo, u.PrincipalID)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Fullname, "fullname", "", "display name (defaults to the username)")
	f.StringVar(&in.Email, "email", "", "e-mail address")
	f.StringVar(&typeName, "type", "person", "principal type: person, resource or group")
	f.BoolVar(&in.Plain, "plain", false, "store the password as plain text (**password)")
	f.BoolVar(&in.Admin, "admin", false, "grant the Admin role")
	f.BoolVar(&in.Inactive, "inactive", false, "create the principal disabled")
	f.BoolVar(&in.NoCollections, "no-collections", false, "do not create the default collections")
	pw.register(cmd)
	return cmd
}

func newUserUpdateCmd(a *App) *cobra.Command {
	var fullname, email string
	cmd := &cobra.Command{
		Use:   "update <username>",
		Short: "Change a principal's display name or e-mail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in service.UpdateUserInput
			if cmd.Flags().Changed("fullname") {
				in.Fullname = &fullname
			}
			if cmd.Flags().Changed("email") {
				in.Email = &email
			}
			if in.Fullname == nil && in.Email == nil {
				return errors.New("nothing to update: give --fullname and/or --email")
			}
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				u, err := s.Users.Update(ctx, args[0], in)
				if err != nil {
					return err
				}
				return a.renderer().Message("updated %s", u.Username)
			})
		},
	}
	cmd.Flags().StringVar(&fullname, "fullname", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new e-mail address")
	return cmd
}

func newUserPasswdCmd(a *App) *cobra.Command {
	var (
		pw    passwordFlags
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "passwd <username>",
		Short: "Set a principal's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := a.readPasswordInput(pw, true)
			if err != nil {
				return err
			}
			if secret == "" {
				return service.ErrPasswordRequired
			}
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				if err := s.Users.SetPassword(ctx, args[0], secret, plain); err != nil {
					return err
				}
				return a.renderer().Message("password changed for %s", args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "store the password as plain text (**password)")
	pw.register(cmd)
	return cmd
}

func newUserCheckPasswordCmd(a *App) *cobra.Command {
	var pw passwordFlags
	cmd := &cobra.Command{
		Use:   "check-password <username>",
		Short: "Verify a password against the stored one; exits 1 on mismatch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := a.readPasswordInput(pw, false)
			if err != nil {
				return err
			}
			if secret == "" {
				return service.ErrPasswordRequired
			}
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				ok, err := s.Users.CheckPassword(ctx, args[0], secret)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("password does not match for %s", args[0])
				}
				return a.renderer().Message("password matches for %s", args[0])
			})
		},
	}
	pw.register(cmd)
	return cmd
}

func newUserActiveCmd(a *App, use string, active bool) *cobra.Command {
	short := "Allow a principal to log in"
	if !active {
		short = "Stop a principal from logging in"
	}
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				if err := s.Users.SetActive(ctx, args[0], active); err != nil {
					return err
				}
				return a.renderer().Message("%sd %s", use, args[0])
			})
		},
	}
}

func newUserDeleteCmd(a *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a principal and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errConfirmRequired
			}
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				if err := s.Users.Delete(ctx, args[0]); err != nil {
					return err
				}
				a.logger.Info("principal deleted", logging.Username(args[0]))
				return a.renderer().Message("deleted %s", args[0])
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

func newUserAdminCmd(a *App) *cobra.Command {
	var revoke bool
	cmd := &cobra.Command{
		Use:   "admin <username>",
		Short: "Grant or revoke the Admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				if err := s.Users.SetAdmin(ctx, args[0], !revoke); err != nil {
					return err
				}
				if revoke {
					return a.renderer().Message("%s is no longer an administrator", args[0])
				}
				return a.renderer().Message("%s is now an administrator", args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "remove the Admin role instead")
	return cmd
}
