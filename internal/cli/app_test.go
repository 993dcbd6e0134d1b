package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/ledeuns/davical-cmdlnut/internal/buildinfo"
	"github.com/ledeuns/davical-cmdlnut/internal/config"
	"github.com/ledeuns/davical-cmdlnut/internal/database/schema"
	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/storage"
	serviceMocks "github.com/ledeuns/davical-cmdlnut/internal/service/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	app    *App
	out    *bytes.Buffer
	errOut *bytes.Buffer

	users       *serviceMocks.MockUserService
	collections *serviceMocks.MockCollectionService
	groups      *serviceMocks.MockGroupService
	grants      *serviceMocks.MockGrantService

	connects int
	closes   int
	dbConfig config.DatabaseConfig
	report   *schema.Report
}

func newHarness(t *testing.T, stdin string) *harness {
	t.Helper()
	for _, k := range []string{
		"OTEL_SDK_DISABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		"PUSHGATEWAY_URL", "OUTPUT_FORMAT", "LOG_LEVEL", "LOG_FORMAT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_SSLMODE",
		"EXPORT_MINIO_ENDPOINT", "EXPORT_MINIO_BUCKET",
	} {
		t.Setenv(k, "")
	}

	h := &harness{
		out:         new(bytes.Buffer),
		errOut:      new(bytes.Buffer),
		users:       new(serviceMocks.MockUserService),
		collections: new(serviceMocks.MockCollectionService),
		groups:      new(serviceMocks.MockGroupService),
		grants:      new(serviceMocks.MockGrantService),
	}
	connect := func(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Services, error) {
		h.connects++
		h.dbConfig = cfg
		return &Services{
			Users:       h.users,
			Collections: h.collections,
			Groups:      h.groups,
			Grants:      h.grants,
			Check: func(ctx context.Context) (*schema.Report, error) {
				if h.report == nil {
					return nil, schema.ErrSchemaMissing
				}
				return h.report, nil
			},
			Close: func() error {
				h.closes++
				return nil
			},
		}, nil
	}
	h.app = NewApp(WithIO(strings.NewReader(stdin), h.out, h.errOut), WithConnect(connect))
	h.app.terminal = func() (int, bool) { return 0, false }

	t.Cleanup(func() {
		h.users.AssertExpectations(t)
		h.collections.AssertExpectations(t)
		h.groups.AssertExpectations(t)
		h.grants.AssertExpectations(t)
	})
	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Run(context.Background(), args)
}

func TestRun_ErrorExitCode(t *testing.T) {
	h := newHarness(t, "")
	h.users.On("Describe", anyCtx, "ghost").Return(nil, errors.New("user not found: ghost")).Once()

	code := h.run("user", "show", "ghost")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), "Error: user not found: ghost")
	assert.Empty(t, h.out.String())
	assert.Equal(t, 1, h.closes, "database closed after a failed command")
}

func TestRun_ConnectFailure(t *testing.T) {
	h := newHarness(t, "")
	h.app.connect = func(context.Context, config.DatabaseConfig, *zap.Logger) (*Services, error) {
		return nil, errors.New("dial tcp: connection refused")
	}

	code := h.run("user", "list")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), "connect to database: dial tcp: connection refused")
}

func TestRun_UnknownOutputFormat(t *testing.T) {
	h := newHarness(t, "")

	code := h.run("-o", "xml", "user", "list")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), `unknown output format "xml"`)
	assert.Zero(t, h.connects)
}

func TestRun_DatabaseFlagsOverrideEnv(t *testing.T) {
	h := newHarness(t, "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "davical")
	h.report = &schema.Report{
		Tables:   schema.RequiredTables,
		Revision: model.SchemaRevision{Major: 1, Minor: 3, Patch: 5, Name: "Dubious", AppliedOn: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	code := h.run("--db-host", "10.0.0.5", "--db-port", "6432", "check")

	require.Equal(t, 0, code, h.errOut.String())
	assert.Equal(t, "10.0.0.5", h.dbConfig.Host)
	assert.Equal(t, "6432", h.dbConfig.Port)
	assert.Equal(t, "davical", h.dbConfig.Name)
	assert.Contains(t, h.out.String(), "1.3.5")
	assert.Contains(t, h.out.String(), "davical@10.0.0.5:6432")
	assert.Contains(t, h.out.String(), "2024-03-01")
}

func TestRun_CheckSchemaMissing(t *testing.T) {
	h := newHarness(t, "")

	code := h.run("check")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), schema.ErrSchemaMissing.Error())
}

func TestRun_EnvFile(t *testing.T) {
	h := newHarness(t, "")
	os.Unsetenv("DB_NAME")
	path := filepath.Join(t.TempDir(), "admin.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=calendars\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DB_NAME") })
	h.users.On("List", anyCtx, mockListAll).Return([]model.User{}, nil).Once()

	code := h.run("--env-file", path, "user", "list", "--all")

	require.Equal(t, 0, code, h.errOut.String())
	assert.Equal(t, "calendars", h.dbConfig.Name)
}

func TestRun_Timeout(t *testing.T) {
	h := newHarness(t, "")
	h.users.On("List", anyCtx, mockListAll).Return(nil, context.DeadlineExceeded).Once()

	code := h.run("--timeout", "1s", "user", "list", "--all")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), "hint: raise --timeout")
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		s, err := OpenStorage(ctx, config.MinIOConfig{Bucket: "ignored"}, dir)
		require.NoError(t, err)

		info, err := s.Put(ctx, "alice-work.ics", strings.NewReader("BEGIN:VCALENDAR\r\n"), storage.PutObjectOptions{Size: -1})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "alice-work.ics"), info.Location)
	})

	t.Run("working directory without a store", func(t *testing.T) {
		s, err := OpenStorage(ctx, config.MinIOConfig{}, "")
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("bucket without endpoint", func(t *testing.T) {
		s, err := OpenStorage(ctx, config.MinIOConfig{Bucket: "archive"}, "")
		assert.Nil(t, s)
		assert.ErrorIs(t, err, errBucketWithoutEndpoint)
		assert.ErrorContains(t, err, `"archive"`)
	})
}

func TestCollectionExport_BucketWithoutEndpoint(t *testing.T) {
	h := newHarness(t, "")
	dir := t.TempDir()
	t.Chdir(dir)

	code := h.run("collection", "export", "alice", "work", "--bucket", "archive")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), "EXPORT_MINIO_ENDPOINT")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing written to the working directory")
}

func TestVersionCmd(t *testing.T) {
	h := newHarness(t, "")

	code := h.run("version")

	require.Equal(t, 0, code, h.errOut.String())
	assert.Contains(t, h.out.String(), buildinfo.Name)
	assert.Contains(t, h.out.String(), buildinfo.URL)
	assert.Contains(t, h.out.String(), "Jason Alavaliant <alavaliant@gmail.com>")
	assert.Zero(t, h.connects, "version does not need the database")
}

func TestDocCmd(t *testing.T) {
	t.Run("print", func(t *testing.T) {
		h := newHarness(t, "")
		require.Equal(t, 0, h.run("doc"))
		assert.Equal(t, buildinfo.README(), h.out.String())
	})

	t.Run("install", func(t *testing.T) {
		h := newHarness(t, "")
		dir := filepath.Join(t.TempDir(), "doc")

		require.Equal(t, 0, h.run("doc", "--install", "--dir", dir), h.errOut.String())

		b, err := os.ReadFile(filepath.Join(dir, buildinfo.DocFile))
		require.NoError(t, err)
		assert.Equal(t, buildinfo.README(), string(b))
		assert.Contains(t, h.out.String(), "installed ")
	})

	t.Run("install uses DOC_DIR", func(t *testing.T) {
		h := newHarness(t, "")
		dir := t.TempDir()
		t.Setenv("DOC_DIR", dir)

		require.Equal(t, 0, h.run("doc", "--install"), h.errOut.String())
		assert.FileExists(t, filepath.Join(dir, buildinfo.DocFile))
	})
}

func TestSetVersion(t *testing.T) {
	orig := buildinfo.Version
	t.Cleanup(func() { buildinfo.Version = orig })

	SetVersion("dev")
	assert.Equal(t, orig, buildinfo.Version)
	SetVersion("")
	assert.Equal(t, orig, buildinfo.Version)
	SetVersion("1.2.2")
	assert.Equal(t, "1.2.2", buildinfo.Version)
}

func TestCommandName(t *testing.T) {
	a := NewApp()
	root := newRootCmd(a)
	cmd, _, err := root.Find([]string{"user", "add"})
	require.NoError(t, err)

	assert.Equal(t, "user add", commandName(cmd))
	assert.Equal(t, buildinfo.Name, commandName(root))
}

func TestReadPasswordInput(t *testing.T) {
	prompts := func(answers ...string) func(int) ([]byte, error) {
		return func(int) ([]byte, error) {
			a := answers[0]
			answers = answers[1:]
			return []byte(a), nil
		}
	}

	t.Run("flag", func(t *testing.T) {
		a := NewApp(WithIO(strings.NewReader(""), new(bytes.Buffer), new(bytes.Buffer)))
		pw, err := a.readPasswordInput(passwordFlags{value: "s3cret"}, true)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", pw)
	})

	t.Run("stdin", func(t *testing.T) {
		a := NewApp(WithIO(strings.NewReader("s3cret\r\nignored\n"), new(bytes.Buffer), new(bytes.Buffer)))
		pw, err := a.readPasswordInput(passwordFlags{fromStdin: true}, true)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", pw)
	})

	t.Run("stdin without newline", func(t *testing.T) {
		a := NewApp(WithIO(strings.NewReader("s3cret"), new(bytes.Buffer), new(bytes.Buffer)))
		pw, err := a.readPasswordInput(passwordFlags{fromStdin: true}, false)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", pw)
	})

	t.Run("no terminal", func(t *testing.T) {
		a := NewApp(WithIO(strings.NewReader(""), new(bytes.Buffer), new(bytes.Buffer)))
		a.terminal = func() (int, bool) { return 0, false }
		pw, err := a.readPasswordInput(passwordFlags{}, true)
		require.NoError(t, err)
		assert.Empty(t, pw)
	})

	t.Run("prompt confirmed", func(t *testing.T) {
		errOut := new(bytes.Buffer)
		a := NewApp(WithIO(strings.NewReader(""), new(bytes.Buffer), errOut))
		a.terminal = func() (int, bool) { return 3, true }
		a.readPassword = prompts("s3cret", "s3cret")

		pw, err := a.readPasswordInput(passwordFlags{}, true)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", pw)
		assert.Contains(t, errOut.String(), "Retype password: ")
	})

	t.Run("prompt mismatch", func(t *testing.T) {
		a := NewApp(WithIO(strings.NewReader(""), new(bytes.Buffer), new(bytes.Buffer)))
		a.terminal = func() (int, bool) { return 3, true }
		a.readPassword = prompts("s3cret", "secret")

		_, err := a.readPasswordInput(passwordFlags{}, true)
		assert.ErrorIs(t, err, errPasswordMismatch)
	})

	t.Run("prompt without confirmation", func(t *testing.T) {
		a := NewApp(WithIO(strings.NewReader(""), new(bytes.Buffer), new(bytes.Buffer)))
		a.terminal = func() (int, bool) { return 3, true }
		a.readPassword = prompts("s3cret")

		pw, err := a.readPasswordInput(passwordFlags{}, false)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", pw)
	})
}
