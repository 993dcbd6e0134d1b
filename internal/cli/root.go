package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledeuns/davical-cmdlnut/internal/buildinfo"
)

// SetVersion overrides the version reported by the binary.
func SetVersion(v string) {
	if v != "" && v != "dev" {
		buildinfo.Version = v
	}
}

// Execute is the main entry point for the CLI application.
func Execute() {
	os.Exit(NewApp().Run(context.Background(), os.Args[1:]))
}

func newRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   buildinfo.Name,
		Short: "Administer a DAViCal database from the command line",
		Long: `davical-cmdlnutl manages the principals, collections, group memberships
and access grants stored in a DAViCal CalDAV/CardDAV server's PostgreSQL
database.

Connection settings come from the environment (DB_HOST, DB_PORT, DB_USER,
DB_PASSWORD, DB_NAME, DB_SSLMODE), an optional .env file, or the --db-*
flags, in increasing order of precedence.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "davical-cmdlnutl version %s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.envFile, "env-file", "", "load environment variables from this file")
	pf.StringVar(&a.flags.dbHost, "db-host", "", "database host or Unix socket directory (env DB_HOST)")
	pf.StringVar(&a.flags.dbPort, "db-port", "", "database port (env DB_PORT)")
	pf.StringVar(&a.flags.dbUser, "db-user", "", "database user (env DB_USER)")
	pf.StringVar(&a.flags.dbName, "db-name", "", "database name (env DB_NAME)")
	pf.StringVar(&a.flags.dbPassword, "db-password", "", "database password (env DB_PASSWORD)")
	pf.StringVar(&a.flags.dbSSLMode, "db-sslmode", "", "PostgreSQL sslmode (env DB_SSLMODE)")
	pf.StringVarP(&a.flags.output, "output", "o", "", "output format: table, json or yaml (env OUTPUT_FORMAT)")
	pf.CountVarP(&a.flags.verbose, "verbose", "v", "log more; repeat for debug output")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "diagnostic log format: console or json (env LOG_FORMAT)")
	pf.StringVar(&a.flags.pushgateway, "pushgateway", "", "push run metrics to this Prometheus Pushgateway (env PUSHGATEWAY_URL)")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "abort the command after this long (0 waits forever)")

	root.AddCommand(newUserCmd(a))
	root.AddCommand(newCollectionCmd(a))
	root.AddCommand(newGroupCmd(a))
	root.AddCommand(newGrantCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newDocCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}
