package cli

import (
	"github.com/spf13/cobra"

	"github.com/ledeuns/davical-cmdlnut/internal/buildinfo"
)

func newVersionCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and packaging information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildinfo.Get()
			return a.renderer().KeyValues([][2]string{
				{"Name", info.Name},
				{"Version", info.Version},
				{"Description", info.Description},
				{"Author", info.Author + " <" + info.AuthorEmail + ">"},
				{"URL", info.URL},
				{"License", info.License},
				{"Platforms", info.Platforms},
			}, info)
		},
	}
}
