// Package cli is the davical-cmdlnutl command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledeuns/davical-cmdlnut/internal/buildinfo"
	"github.com/ledeuns/davical-cmdlnut/internal/logging"
)

func newDocCmd(a *App) *cobra.Command {
	var (
		install bool
		dir     string
	)
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Print the README, or install it with --install",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !install {
				_, err := fmt.Fprint(a.out, buildinfo.README())
				return err
			}
			if dir == "" {
				dir = a.cfg.DocDir
			}
			path, err := buildinfo.InstallDoc(dir)
			if err != nil {
				return err
			}
			a.logger.Info("documentation installed", logging.Component("doc"))
			return a.renderer().Message("installed %s", path)
		},
	}
	cmd.Flags().BoolVar(&install, "install", false, "write the README to the documentation directory")
	cmd.Flags().StringVar(&dir, "dir", "", "documentation directory (env DOC_DIR, default "+buildinfo.DocDir+")")
	return cmd
}
