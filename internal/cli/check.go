package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the database connection and the DAViCal schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				rep, err := s.Check(ctx)
				if err != nil {
					return err
				}
				db := a.cfg.Database
				return a.renderer().KeyValues([][2]string{
					{"Database", db.Name + "@" + db.Host + ":" + db.Port},
					{"Schema revision", rep.Revision.String()},
					{"Schema name", rep.Revision.Name},
					{"Applied on", formatDate(&rep.Revision.AppliedOn)},
					{"Tables", strings.Join(rep.Tables, ", ")},
					{"Check took", rep.Duration.String()},
				}, rep)
			})
		},
	}
}
