package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledeuns/davical-cmdlnut/internal/logging"
	"github.com/ledeuns/davical-cmdlnut/internal/privilege"
	"github.com/ledeuns/davical-cmdlnut/internal/service"
)

func newGrantCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "grant",
		Aliases: []string{"grants"},
		Short:   "Manage access grants between principals",
	}
	cmd.AddCommand(
		newGrantAddCmd(a),
		newGrantRevokeCmd(a),
		newGrantListCmd(a),
	)
	return cmd
}

type grantTarget struct {
	owner      string
	collection string
}

func (g *grantTarget) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&g.owner, "owner", "", "principal whose namespace is shared")
	cmd.Flags().StringVar(&g.collection, "collection", "", "share only this collection of the owner")
	_ = cmd.MarkFlagRequired("owner")
}

func newGrantAddCmd(a *App) *cobra.Command {
	var (
		target grantTarget
		privs  string
	)
	cmd := &cobra.Command{
		Use:   "add <to-user>",
		Short: "Give a principal privileges on another principal or collection",
		Long: `Grant replaces any existing grant between the same principals.

Privileges are comma separated names: ` + strings.Join(privilege.Known(), ", ") + `.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mask, err := privilege.Parse(privs)
			if err != nil {
				return err
			}
			if mask == 0 {
				return service.ErrPrivilegesRequired
			}
			in := service.GrantInput{To: args[0], Owner: target.owner, Collection: target.collection, Privileges: mask}
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				g, err := s.Grants.Grant(ctx, in)
				if err != nil {
					return err
				}
				a.logger.Info("grant saved",
					logging.Username(in.To),
					zap.String("target", g.Target()),
					zap.String("privileges", mask.Bits()),
				)
				return a.renderer().Message("granted %s on %s to %s", mask, g.Target(), in.To)
			})
		},
	}
	target.register(cmd)
	cmd.Flags().StringVar(&privs, "privileges", "", "comma separated privilege names, e.g. read,write")
	_ = cmd.MarkFlagRequired("privileges")
	return cmd
}

func newGrantRevokeCmd(a *App) *cobra.Command {
	var target grantTarget
	cmd := &cobra.Command{
		Use:   "revoke <to-user>",
		Short: "Remove a grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.GrantInput{To: args[0], Owner: target.owner, Collection: target.collection}
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				if err := s.Grants.Revoke(ctx, in); err != nil {
					return err
				}
				a.logger.Info("grant revoked", logging.Username(in.To), zap.String("owner", in.Owner))
				return a.renderer().Message("revoked grant to %s", in.To)
			})
		},
	}
	target.register(cmd)
	return cmd
}

func newGrantListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <username>",
		Short: "List the grants a principal holds and gives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				l, err := s.Grants.List(ctx, args[0])
				if err != nil {
					return err
				}
				return renderGrants(a.renderer(), l)
			})
		},
	}
}
