package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
	"github.com/MyCarrier-DevOps/repouri/internal/repouri"
)

func newFormatCmd(opts *rootOptions, deps *Dependencies) *cobra.Command {
	var (
		loc    locationFlags
		parsed domain.ParsedRepoURI
	)

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Build a repo URI from its parts",
		Long: `Build a repo URI from its parts. A full commit SHA given with --commit
takes precedence over --rev, and --range takes precedence over --position.

Example:
  repouri format --repo github.com/gorilla/mux --rev master --file mux.go --range 3,5-4,9
  git://github.com/gorilla/mux?master#mux.go:3,5-4,9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.start(cmd, deps)
			if err != nil {
				return err
			}

			if parsed.CommitID != "" && !repouri.IsCommitID(parsed.CommitID) {
				return userError(fmt.Errorf("%w: --commit must be a 40-character SHA: %s",
					domain.ErrInvalidRepoURI, parsed.CommitID))
			}

			parsed.Position, parsed.Range, err = loc.selection()
			if err != nil {
				return userError(err)
			}
			if parsed.FilePath == "" && (parsed.Position != nil || parsed.Range != nil) {
				return fmt.Errorf("--position and --range require --file")
			}

			uri := repouri.MakeRepoURI(parsed)
			s.log.Debug(s.ctx, "formatted repo URI", map[string]interface{}{
				"uri": uri,
			})

			if err := s.out.WriteLine(uri); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&parsed.RepoPath, "repo", "", "Repository path, e.g. github.com/gorilla/mux")
	cmd.Flags().StringVar(&parsed.Rev, "rev", "", "Branch, tag or other revision")
	cmd.Flags().StringVar(&parsed.CommitID, "commit", "", "Full 40-character commit SHA")
	cmd.Flags().StringVarP(&parsed.FilePath, "file", "f", "", "File path within the repository")
	cmd.Flags().StringVarP(&loc.position, "position", "p", "", "Position as line[,character], e.g. 3,5")
	cmd.Flags().StringVarP(&loc.rng, "range", "r", "", "Range as line[,character]-line[,character], e.g. 3,5-4,9")
	cmd.MarkFlagsMutuallyExclusive("position", "range")
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}
