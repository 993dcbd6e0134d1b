package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ledeuns/davical-cmdlnut/internal/config"
	"github.com/ledeuns/davical-cmdlnut/internal/database"
	"github.com/ledeuns/davical-cmdlnut/internal/database/schema"
	"github.com/ledeuns/davical-cmdlnut/internal/logging"
	"github.com/ledeuns/davical-cmdlnut/internal/metrics"
	"github.com/ledeuns/davical-cmdlnut/internal/output"
	"github.com/ledeuns/davical-cmdlnut/internal/repository/postgres"
	"github.com/ledeuns/davical-cmdlnut/internal/service"
	"github.com/ledeuns/davical-cmdlnut/internal/storage"
	"github.com/ledeuns/davical-cmdlnut/internal/telemetry"
)

// Services is what commands work with once the database is open.
type Services struct {
	Users       service.UserService
	Collections service.CollectionService
	Groups      service.GroupService
	Grants      service.GrantService

	// Check verifies the DAViCal schema.
	Check func(ctx context.Context) (*schema.Report, error)
	// Close releases the database handle.
	Close func() error
}

// ConnectFunc opens the database and builds the services.
type ConnectFunc func(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Services, error)

// StorageFunc opens the export sink: a local directory when dir is set,
// otherwise the configured object store.
type StorageFunc func(ctx context.Context, cfg config.MinIOConfig, dir string) (storage.Storage, error)

// App carries the state of one invocation.
type App struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader

	connect    ConnectFunc
	newStorage StorageFunc
	// terminal reports the file descriptor of stdin when it is a terminal.
	terminal     func() (int, bool)
	readPassword func(fd int) ([]byte, error)

	flags    globalFlags
	cfg      *config.AppConfig
	format   output.Format
	logger   *zap.Logger
	runID    string
	metrics  *metrics.Recorder
	shutdown telemetry.ShutdownFunc
	svc      *Services
}

type globalFlags struct {
	envFile     string
	dbHost      string
	dbPort      string
	dbUser      string
	dbName      string
	dbPassword  string
	dbSSLMode   string
	output      string
	verbose     int
	logFormat   string
	pushgateway string
	timeout     time.Duration
}

// Option customises an App.
type Option func(*App)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in, a.out, a.errOut = in, out, errOut
	}
}

// WithConnect replaces the database connection step.
func WithConnect(fn ConnectFunc) Option {
	return func(a *App) { a.connect = fn }
}

// WithStorage replaces the export sink factory.
func WithStorage(fn StorageFunc) Option {
	return func(a *App) { a.newStorage = fn }
}

// NewApp returns an App wired to the process streams and PostgreSQL.
func NewApp(opts ...Option) *App {
	a := &App{
		out:          os.Stdout,
		errOut:       os.Stderr,
		in:           os.Stdin,
		connect:      ConnectPostgres,
		newStorage:   OpenStorage,
		readPassword: term.ReadPassword,
		logger:       zap.NewNop(),
		shutdown:     func(context.Context) error { return nil },
	}
	a.terminal = func() (int, bool) {
		f, ok := a.in.(*os.File)
		if !ok {
			return 0, false
		}
		fd := int(f.Fd())
		return fd, term.IsTerminal(fd)
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// ConnectPostgres opens the DAViCal database with the pgx driver.
func ConnectPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Services, error) {
	db, err := database.NewPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("database connected",
		logging.Component("database"),
		zap.String("db_host", cfg.Host),
		zap.String("db_name", cfg.Name),
	)

	users := postgres.NewUserPostgres(db)
	collections := postgres.NewCollectionPostgres(db)
	groups := postgres.NewGroupPostgres(db)
	grants := postgres.NewGrantPostgres(db)

	return &Services{
		Users:       service.NewUserService(users, collections, groups),
		Collections: service.NewCollectionService(users, collections),
		Groups:      service.NewGroupService(users, groups),
		Grants:      service.NewGrantService(users, collections, grants),
		Check: func(ctx context.Context) (*schema.Report, error) {
			return schema.Verify(ctx, db, logger)
		},
		Close: db.Close,
	}, nil
}

// errBucketWithoutEndpoint is returned when an export bucket is named but
// no object store is configured to hold it.
var errBucketWithoutEndpoint = errors.New("export bucket needs EXPORT_MINIO_ENDPOINT")

// OpenStorage picks the export sink.
func OpenStorage(ctx context.Context, cfg config.MinIOConfig, dir string) (storage.Storage, error) {
	if dir != "" {
		return storage.NewLocal(dir)
	}
	if cfg.Endpoint == "" {
		if cfg.Bucket != "" {
			return nil, fmt.Errorf("%w: bucket %q", errBucketWithoutEndpoint, cfg.Bucket)
		}
		return storage.NewLocal(".")
	}
	return storage.NewMinIO(ctx, cfg)
}

// setup runs before every command: configuration, logging, telemetry and metrics.
func (a *App) setup(cmd *cobra.Command) error {
	if err := config.LoadFile(a.flags.envFile); err != nil {
		return err
	}
	a.cfg = config.Load()
	a.applyFlags(cmd)

	format, err := output.ParseFormat(a.cfg.OutputFormat)
	if err != nil {
		return err
	}
	a.format = format

	level := a.cfg.Log.Level
	switch {
	case a.flags.verbose == 1:
		level = "info"
	case a.flags.verbose > 1:
		level = "debug"
	}
	logger, err := logging.New(level, a.cfg.Log.Format, a.errOut)
	if err != nil {
		return err
	}
	a.runID = uuid.NewString()
	a.logger = logger.With(logging.RunID(a.runID), logging.Command(commandName(cmd)))

	shutdown, err := telemetry.Init(cmd.Context(), a.logger)
	if err != nil {
		return err
	}
	a.shutdown = shutdown

	rec, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	a.metrics = rec
	return nil
}

// applyFlags lets explicitly given flags win over the environment.
func (a *App) applyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}
	set("db-host", &a.cfg.Database.Host, a.flags.dbHost)
	set("db-port", &a.cfg.Database.Port, a.flags.dbPort)
	set("db-user", &a.cfg.Database.User, a.flags.dbUser)
	set("db-name", &a.cfg.Database.Name, a.flags.dbName)
	set("db-password", &a.cfg.Database.Password, a.flags.dbPassword)
	set("db-sslmode", &a.cfg.Database.SSLMode, a.flags.dbSSLMode)
	set("output", &a.cfg.OutputFormat, a.flags.output)
	set("log-format", &a.cfg.Log.Format, a.flags.logFormat)
	set("pushgateway", &a.cfg.PushgatewayURL, a.flags.pushgateway)
}

// services connects on first use.
func (a *App) services(ctx context.Context) (*Services, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	s, err := a.connect(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.svc = s
	return s, nil
}

// run executes fn inside a span, with metrics and a connected database.
func (a *App) run(cmd *cobra.Command, fn func(ctx context.Context, s *Services) error) error {
	name := commandName(cmd)
	ctx := cmd.Context()
	if a.flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.flags.timeout)
		defer cancel()
	}
	ctx, span := telemetry.StartCommand(ctx, name, a.runID)

	start := time.Now()
	err := a.metrics.Observe(name, func() error {
		s, err := a.services(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, s)
	})
	telemetry.EndCommand(span, err)

	if err != nil {
		a.logger.Error("command failed", logging.Status(logging.StatusError), logging.Duration(time.Since(start)), zap.Error(err))
		return err
	}
	a.logger.Info("command finished", logging.Status(logging.StatusSuccess), logging.Duration(time.Since(start)))
	return nil
}

// finish releases what setup and run acquired. Failures here are logged
// and never change the exit status.
func (a *App) finish(ctx context.Context) {
	if a.svc != nil && a.svc.Close != nil {
		if err := a.svc.Close(); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
	if a.metrics != nil && a.cfg != nil && a.cfg.PushgatewayURL != "" {
		if err := a.metrics.Push(ctx, a.cfg.PushgatewayURL); err != nil {
			a.logger.Warn("push metrics", logging.Component("metrics"), zap.Error(err))
		}
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.shutdown(shutdownCtx); err != nil {
		a.logger.Warn("telemetry shutdown", logging.Component("telemetry"), zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *App) renderer() *output.Renderer {
	return output.New(a.out, a.format)
}

// commandName is the command path without the program name, e.g. "user add".
func commandName(cmd *cobra.Command) string {
	path := cmd.CommandPath()
	if i := strings.IndexByte(path, ' '); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Run builds the command tree, executes args and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	a.finish(ctx)
	if err != nil {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintln(a.errOut, "hint: raise --timeout or DB_TIMEOUT_SEC")
		}
		return 1
	}
	return 0
}
