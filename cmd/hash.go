package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
	"github.com/MyCarrier-DevOps/repouri/internal/repouri"
)

// hashOutput is the JSON printed by "hash parse".
type hashOutput struct {
	domain.HashState

	// Legacy is true for the "$viewState" fragment form.
	Legacy bool `json:"legacy"`

	// Fragment is the input re-encoded in the modern form.
	Fragment string `json:"fragment"`
}

func newHashCmd(opts *rootOptions, deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Parse and build blob URL fragments",
	}
	cmd.AddCommand(newHashParseCmd(opts, deps), newHashFormatCmd(opts, deps))
	return cmd
}

func newHashParseCmd(opts *rootOptions, deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <fragment>",
		Short: "Print the span and view state of a fragment as JSON",
		Long: `Parse a blob URL fragment such as #L3:5-4:9&tab=references, or the legacy
#L3:5-4:9$references form. Malformed fragments print an empty span.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.start(cmd, deps)
			if err != nil {
				return err
			}

			state := repouri.ParseHash(args[0])
			out := hashOutput{
				HashState: state,
				Legacy:    repouri.IsLegacyFragment(args[0]),
				Fragment:  withViewState(repouri.ToSpanHash(state.Span), state.ViewState),
			}

			s.log.Debug(s.ctx, "parsed fragment", map[string]interface{}{
				"span":   state.Span.Kind().String(),
				"legacy": out.Legacy,
			})

			if err := s.out.WriteJSON(out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			return nil
		},
	}
}

func newHashFormatCmd(opts *rootOptions, deps *Dependencies) *cobra.Command {
	var loc locationFlags

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Build a blob URL fragment",
		Long: `Build a blob URL fragment from a position or range and an optional view
state. Positions use the repo URI syntax, line[,character].

Example:
  repouri hash format --range 3,5-4,9 --view-state references
  #L3:5-4:9&tab=references`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.start(cmd, deps)
			if err != nil {
				return err
			}

			pos, rng, err := loc.selection()
			if err != nil {
				return userError(err)
			}

			fragment := withViewState(repouri.ToPositionOrRangeHash(pos, rng), loc.view(s.ctx, s.log))
			if err := s.out.WriteLine(fragment); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			return nil
		},
	}
	loc.register(cmd, false)
	return cmd
}

// withViewState appends the tab parameter to a span fragment, starting the
// fragment when there is no span.
func withViewState(fragment string, viewState domain.ViewState) string {
	if viewState == "" {
		return fragment
	}
	if fragment == "" {
		return "#tab=" + string(viewState)
	}
	return fragment + repouri.ToViewStateHashComponent(viewState)
}
