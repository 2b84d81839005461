package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
	"github.com/MyCarrier-DevOps/repouri/internal/repouri"
)

func newBlobURLCmd(opts *rootOptions, deps *Dependencies) *cobra.Command {
	var loc locationFlags

	cmd := &cobra.Command{
		Use:   "blob-url <uri>",
		Short: "Convert a repo URI into a pretty blob URL",
		Long: `Convert a repo URI that names a file into the web URL of that file. The
configured base URL (REPOURI_BASE_URL) is prefixed when set.

--position and --range replace the selection carried by the URI.

Example:
  repouri blob-url 'git://github.com/gorilla/mux?v1.8.0#mux.go:3,5' --view-state references
  /github.com/gorilla/mux@v1.8.0/-/blob/mux.go#L3:5&tab=references`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.start(cmd, deps)
			if err != nil {
				return err
			}

			parsed, err := repouri.ParseRepoURI(args[0])
			if err != nil {
				s.log.Error(s.ctx, "failed to parse repo URI", err, map[string]interface{}{
					"uri": args[0],
				})
				return userError(err)
			}
			if parsed.FilePath == "" {
				return userError(fmt.Errorf("%w: no file path in %s", domain.ErrInvalidRepoURI, args[0]))
			}

			pos, rng, err := loc.selection()
			if err != nil {
				return userError(err)
			}
			if pos != nil || rng != nil {
				parsed.Position, parsed.Range = pos, rng
			}
			parsed.ViewState = loc.view(s.ctx, s.log)
			if parsed.RenderMode, err = loc.render(); err != nil {
				return userError(err)
			}

			blobURL := joinBaseURL(s.cfg.BaseURL, repouri.ToPrettyBlobURL(parsed))
			s.log.Debug(s.ctx, "built blob URL", map[string]interface{}{
				"blob_url": blobURL,
			})

			if err := s.out.WriteLine(blobURL); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			return nil
		},
	}
	loc.register(cmd, true)
	return cmd
}
