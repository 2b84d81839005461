package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
)

func newResolveCmd(opts *rootOptions, deps *Dependencies) *cobra.Command {
	var (
		loc        locationFlags
		rev        string
		filePath   string
		verifyFile bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [path]",
		Short: "Print the repo URI of a location in a local checkout",
		Long: `Resolve a location in a local Git checkout to a repo URI pinned to a commit.

The repository path is derived from the configured remote (default 'origin').
The revision defaults to the current branch, or to HEAD when it is detached.
With --json the normalized location and its pretty blob URL are printed too.

Examples:
  # Pin the current checkout
  repouri resolve

  # A line range in a file at a tag
  repouri resolve --rev v1.8.0 --file mux.go --range 3-9

  # Fail if the file does not exist at that revision
  repouri resolve /path/to/repo --file README.md --verify`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.start(cmd, deps)
			if err != nil {
				return err
			}

			repoPath := "."
			if len(args) > 0 {
				repoPath = args[0]
			}

			pos, rng, err := loc.selection()
			if err != nil {
				return userError(err)
			}
			renderMode, err := loc.render()
			if err != nil {
				return userError(err)
			}

			log := s.log
			log.Info(s.ctx, "resolving location", map[string]interface{}{
				"path":   repoPath,
				"rev":    rev,
				"file":   filePath,
				"remote": s.cfg.Remote,
			})

			gitRepo, err := deps.GitRepoFactory(repoPath, s.cfg.Remote, log)
			if err != nil {
				log.Error(s.ctx, "failed to open git repository", err, map[string]interface{}{
					"path": repoPath,
				})
				if errors.Is(err, domain.ErrRepositoryNotFound) {
					return fmt.Errorf("not a git repository: %s", repoPath)
				}
				return err
			}
			defer func() {
				if closeErr := gitRepo.Close(); closeErr != nil {
					log.Warn(s.ctx, "failed to close git repository", map[string]interface{}{
						"error": closeErr.Error(),
					})
				}
			}()

			resolver := deps.ResolverFactory(gitRepo, s.cfg, log)
			result, err := resolver.Resolve(s.ctx, domain.ResolveInput{
				Rev:        rev,
				FilePath:   filePath,
				Position:   pos,
				Range:      rng,
				ViewState:  loc.view(s.ctx, log),
				RenderMode: renderMode,
				VerifyFile: verifyFile,
			})
			if err != nil {
				log.Error(s.ctx, "failed to resolve location", err, nil)
				switch {
				case errors.Is(err, domain.ErrNoRemote):
					return fmt.Errorf("no '%s' remote configured; cannot determine repository path", s.cfg.Remote)
				case errors.Is(err, domain.ErrInvalidRemoteURL):
					return fmt.Errorf("invalid URL: %w", err)
				}
				return err
			}

			if asJSON {
				err = s.out.WriteJSON(result)
			} else {
				err = s.out.WriteLine(result.URI)
			}
			if err != nil {
				log.Error(s.ctx, "failed to write output", err, nil)
				return fmt.Errorf("output error: %w", err)
			}

			log.Info(s.ctx, "resolution complete", map[string]interface{}{
				"uri":       result.URI,
				"commit_id": result.Location.CommitID,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&rev, "rev", "", "Revision to pin (default: current branch or HEAD)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "File path relative to the repository root")
	cmd.Flags().BoolVar(&verifyFile, "verify", false, "Fail if the file does not exist at the revision")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the location, URI and blob URL as JSON")
	loc.register(cmd, true)

	return cmd
}
