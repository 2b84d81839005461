// Package cmd provides the CLI commands for repouri.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
)

// Logger defines the logging interface used by the commands.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Dependencies holds all injectable dependencies for the commands.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger instance. It is called after the
	// log level has been exported to the environment.
	LoggerFactory func() Logger

	// ConfigLoader loads application configuration.
	ConfigLoader func() (*AppConfig, error)

	// GitRepoFactory opens a LocalGitRepository at path, reading the
	// repository path from the given remote.
	GitRepoFactory func(path, remote string, log Logger) (domain.LocalGitRepository, error)

	// ResolverFactory creates a Resolver with the given dependencies.
	ResolverFactory func(
		gitRepo domain.LocalGitRepository,
		cfg *AppConfig,
		log Logger,
	) domain.Resolver

	// OutputWriterFactory creates an OutputWriter.
	OutputWriterFactory func() domain.OutputWriter

	// Stdout is the writer for help and usage text.
	Stdout io.Writer

	// Stderr is the writer for standard error (for warnings/errors).
	Stderr io.Writer
}

// AppConfig holds application configuration loaded by ConfigLoader.
type AppConfig struct {
	// BaseURL is prefixed to pretty blob URLs. May be empty.
	BaseURL string

	// Remote is the git remote that names the repository.
	Remote string

	// LogLevel is the log level setting.
	LogLevel string

	// LogAppName is the application name for logging.
	LogAppName string
}

// Environment variables read by the logger.
const (
	envLogLevel   = "LOG_LEVEL"
	envLogAppName = "LOG_APP_NAME"
)

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	verbose bool
}

// NewRootCmd creates the root command for repouri.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "repouri",
		Short: "Parse, build and resolve repo URIs and blob URL fragments",
		Long: `repouri converts between the textual forms used to address a location in a
repository and their structured form.

Repo URIs name a repository, an optional revision, a file and a position or
range in that file:

  git://github.com/gorilla/mux?master#mux.go:3,5-4,9

Blob URL fragments carry the selected lines and the open panel tab:

  #L3:5-4:9&tab=references

Examples:
  # Show the parts of a repo URI
  repouri parse 'git://github.com/gorilla/mux?master#mux.go:3,5'

  # Build a repo URI
  repouri format --repo github.com/gorilla/mux --rev master --file mux.go --position 3,5

  # Decode a fragment
  repouri hash parse '#L3:5-4:9&tab=references'

  # Turn a repo URI into a web URL
  repouri blob-url 'git://github.com/gorilla/mux?master#mux.go:3'

  # Pin the current checkout's README to HEAD
  repouri resolve --file README.md --position 10`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose/debug logging")

	if deps != nil {
		if deps.Stdout != nil {
			rootCmd.SetOut(deps.Stdout)
		}
		if deps.Stderr != nil {
			rootCmd.SetErr(deps.Stderr)
		}
	}

	rootCmd.AddCommand(
		newParseCmd(opts, deps),
		newFormatCmd(opts, deps),
		newHashCmd(opts, deps),
		newBlobURLCmd(opts, deps),
		newResolveCmd(opts, deps),
	)

	return rootCmd
}

// session carries what every command needs once flags have been parsed.
type session struct {
	ctx context.Context
	log Logger
	cfg *AppConfig
	out domain.OutputWriter
}

// start loads configuration, builds the logger and the output writer.
func (o *rootOptions) start(cmd *cobra.Command, deps *Dependencies) (*session, error) {
	if deps == nil {
		return nil, errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stderr := deps.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, err := deps.ConfigLoader()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	// The logger reads its settings from the environment, so export them
	// before it is built (best-effort).
	level := cfg.LogLevel
	if o.verbose {
		level = "debug"
	}
	exportEnv(stderr, envLogLevel, level)
	exportEnv(stderr, envLogAppName, cfg.LogAppName)

	log := deps.LoggerFactory()

	log.Debug(ctx, "starting repouri", map[string]interface{}{
		"command": cmd.CommandPath(),
		"verbose": o.verbose,
		"remote":  cfg.Remote,
	})

	return &session{
		ctx: ctx,
		log: log,
		cfg: cfg,
		out: deps.OutputWriterFactory(),
	}, nil
}

// exportEnv sets key to value when value is non-empty.
func exportEnv(stderr io.Writer, key, value string) {
	if value == "" {
		return
	}
	if err := os.Setenv(key, value); err != nil {
		writeWarningf(stderr, "warning: could not set %s: %v\n", key, err)
	}
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// writeWarningf writes a warning message to the given writer.
// This is a best-effort operation; errors are intentionally ignored
// because there is no recovery action if stderr writes fail.
func writeWarningf(w io.Writer, format string, args ...any) {
	_, err := fmt.Fprintf(w, format, args...)
	if err != nil {
		// Intentionally ignored: no recovery action for failed stderr writes
		return
	}
}
