// Package main is the entry point for the repouri CLI application.
// repouri parses and builds repo URIs and blob URL fragments, and resolves
// locations in a local Git checkout to commit-pinned repo URIs.
package main

import (
	"os"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/logger"

	"github.com/MyCarrier-DevOps/repouri/cmd"
	"github.com/MyCarrier-DevOps/repouri/internal/adapters/git"
	logadapter "github.com/MyCarrier-DevOps/repouri/internal/adapters/logger"
	"github.com/MyCarrier-DevOps/repouri/internal/adapters/output"
	"github.com/MyCarrier-DevOps/repouri/internal/domain"
	"github.com/MyCarrier-DevOps/repouri/internal/infrastructure/config"
	"github.com/MyCarrier-DevOps/repouri/internal/usecases"
)

func main() {
	cmd.SetDefaultDependencies(newDependencies())
	cmd.Execute()
}

// newDependencies wires the production dependencies.
func newDependencies() *cmd.Dependencies {
	return &cmd.Dependencies{
		// Built lazily so LOG_LEVEL set by --verbose or the config file applies.
		LoggerFactory: func() cmd.Logger {
			return logadapter.NewZapAdapter(logger.NewZapLoggerFromConfig()).WithComponent("cli")
		},

		ConfigLoader: func() (*cmd.AppConfig, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			return toAppConfig(cfg), nil
		},

		GitRepoFactory: func(path, remote string, log cmd.Logger) (domain.LocalGitRepository, error) {
			return git.NewGoGitRepository(path, remote, withComponent(log, "git"))
		},

		ResolverFactory: func(
			gitRepo domain.LocalGitRepository,
			cfg *cmd.AppConfig,
			log cmd.Logger,
		) domain.Resolver {
			return usecases.NewLocationResolver(gitRepo, cfg.BaseURL, withComponent(log, "resolver"))
		},

		OutputWriterFactory: func() domain.OutputWriter {
			return output.NewWriter()
		},

		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func toAppConfig(cfg *config.Config) *cmd.AppConfig {
	return &cmd.AppConfig{
		BaseURL:    cfg.BaseURL,
		Remote:     cfg.Remote,
		LogLevel:   cfg.LogLevel,
		LogAppName: cfg.LogAppName,
	}
}

// withComponent retags the zap adapter for a downstream component.
// Other loggers are returned unchanged.
func withComponent(log cmd.Logger, name string) cmd.Logger {
	if a, ok := log.(*logadapter.ZapAdapter); ok {
		return a.WithComponent(name)
	}
	return log
}
