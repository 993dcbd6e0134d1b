package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledeuns/davical-cmdlnut/internal/logging"
	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/service"
)

func newCollectionCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"collections", "col"},
		Short:   "Manage calendars and addressbooks",
	}
	cmd.AddCommand(
		newCollectionListCmd(a),
		newCollectionAddCmd(a, "add-calendar", model.KindCalendar),
		newCollectionAddCmd(a, "add-addressbook", model.KindAddressbook),
		newCollectionDeleteCmd(a),
		newCollectionExportCmd(a),
	)
	return cmd
}

func newCollectionListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <username>",
		Short: "List a principal's collections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				cols, err := s.Collections.List(ctx, args[0])
				if err != nil {
					return err
				}
				return renderCollections(a.renderer(), cols)
			})
		},
	}
}

func newCollectionAddCmd(a *App, use string, kind model.CollectionKind) *cobra.Command {
	var opts service.CollectionOptions
	cmd := &cobra.Command{
		Use:   use + " <username> <name>",
		Short: "Create a " + string(kind) + " for a principal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				add := s.Collections.AddCalendar
				if kind == model.KindAddressbook {
					add = s.Collections.AddAddressbook
				}
				c, err := add(ctx, args[0], args[1], opts)
				if err != nil {
					return err
				}
				a.logger.Info("collection created", logging.Username(args[0]), logging.Collection(c.Path))
				return a.renderer().Message("created %s %s", kind, c.Path)
			})
		},
	}
	cmd.Flags().StringVar(&opts.DisplayName, "displayname", "", "display name (defaults to the collection name)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "description")
	return cmd
}

func newCollectionDeleteCmd(a *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <username> <name>",
		Short: "Delete a collection and every object in it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errConfirmRequired
			}
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				if err := s.Collections.Delete(ctx, args[0], args[1]); err != nil {
					return err
				}
				path := model.CollectionPath(args[0], args[1])
				a.logger.Info("collection deleted", logging.Username(args[0]), logging.Collection(path))
				return a.renderer().Message("deleted %s", path)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

func newCollectionExportCmd(a *App) *cobra.Command {
	var dir, bucket string
	cmd := &cobra.Command{
		Use:   "export <username> <name>",
		Short: "Export a calendar as .ics or an addressbook as .vcf",
		Long: `Export writes the collection as one file named <username>-<name>.ics
(or .vcf). With --dir the file goes to a local directory; otherwise it is
uploaded to the S3-compatible store configured by EXPORT_MINIO_* variables, or to
the working directory when no store is configured. Naming a bucket without
EXPORT_MINIO_ENDPOINT is an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, s *Services) error {
				cfg := a.cfg.Export
				if bucket != "" {
					cfg.Bucket = bucket
				}
				store, err := a.newStorage(ctx, cfg, dir)
				if err != nil {
					return err
				}
				res, err := s.Collections.Export(ctx, args[0], args[1], store)
				if err != nil {
					return err
				}
				a.logger.Info("collection exported",
					logging.Collection(res.Collection.Path),
					zap.String("location", res.Object.Location),
					zap.Int("objects", res.Objects),
				)
				pairs := [][2]string{
					{"Collection", res.Collection.Path},
					{"Objects", strconv.Itoa(res.Objects)},
					{"Location", res.Object.Location},
					{"Size", strconv.FormatInt(res.Object.Size, 10)},
				}
				if res.URL != "" {
					pairs = append(pairs, [2]string{"URL", res.URL})
				}
				return a.renderer().KeyValues(pairs, res)
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "write the export into this local directory")
	cmd.Flags().StringVar(&bucket, "bucket", "", "upload to this bucket instead of EXPORT_MINIO_BUCKET")
	cmd.MarkFlagsMutuallyExclusive("dir", "bucket")
	return cmd
}
