package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
	"github.com/MyCarrier-DevOps/repouri/internal/repouri"
)

// parseOutput is the JSON printed by the parse command.
type parseOutput struct {
	domain.ParsedRepoURI

	// BaseCommit and HeadCommit are set for --commit-range.
	BaseCommit string `json:"baseCommit,omitempty"`
	HeadCommit string `json:"headCommit,omitempty"`
}

func newParseCmd(opts *rootOptions, deps *Dependencies) *cobra.Command {
	var (
		blobURL     bool
		commitRange string
	)

	cmd := &cobra.Command{
		Use:   "parse <uri>",
		Short: "Print the parts of a repo URI as JSON",
		Long: `Parse a repo URI such as git://github.com/gorilla/mux?master#mux.go:3,5
and print its parts as JSON.

With --blob-url the argument is a pretty blob URL instead, either a path
(/github.com/gorilla/mux@master/-/blob/mux.go#L3) or an absolute URL under
the configured base URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.start(cmd, deps)
			if err != nil {
				return err
			}

			var parsed domain.ParsedRepoURI
			if blobURL {
				raw := args[0]
				if s.cfg.BaseURL != "" {
					raw = strings.TrimPrefix(raw, strings.TrimSuffix(s.cfg.BaseURL, "/"))
				}
				parsed, err = repouri.ParseBlobURL(raw)
			} else {
				parsed, err = repouri.ParseRepoURI(args[0])
			}
			if err != nil {
				s.log.Error(s.ctx, "failed to parse URI", err, map[string]interface{}{
					"uri": args[0],
				})
				return userError(err)
			}

			out := parseOutput{ParsedRepoURI: parsed.Normalize()}
			if commitRange != "" {
				base, head, err := repouri.ParseCommitRange(commitRange)
				if err != nil {
					return userError(err)
				}
				out.CommitRange = commitRange
				out.BaseCommit, out.HeadCommit = base, head
			}

			s.log.Debug(s.ctx, "parsed URI", map[string]interface{}{
				"repo_path": out.RepoPath,
				"file_path": out.FilePath,
			})

			if err := s.out.WriteJSON(out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&blobURL, "blob-url", false,
		"Parse a pretty blob URL instead of a repo URI")
	cmd.Flags().StringVar(&commitRange, "commit-range", "",
		"Attach a comparison in base...head form, e.g. v1.7.0...v1.8.0")

	return cmd
}
