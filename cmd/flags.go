package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
	"github.com/MyCarrier-DevOps/repouri/internal/repouri"
)

// locationFlags are the flags that select lines within a file.
type locationFlags struct {
	position   string
	rng        string
	viewState  string
	renderMode string
}

func (f *locationFlags) register(cmd *cobra.Command, withRenderMode bool) {
	cmd.Flags().StringVarP(&f.position, "position", "p", "",
		"Position as line[,character], e.g. 3,5")
	cmd.Flags().StringVarP(&f.rng, "range", "r", "",
		"Range as line[,character]-line[,character], e.g. 3,5-4,9")
	cmd.Flags().StringVar(&f.viewState, "view-state", "",
		"Blob panel tab: references, references:external, discussions or impl")
	cmd.MarkFlagsMutuallyExclusive("position", "range")
	if withRenderMode {
		cmd.Flags().StringVar(&f.renderMode, "render-mode", "",
			"Render mode for markup files: code or rendered")
	}
}

// selection converts the position and range flags. A --range without '-'
// is accepted and yields a position.
func (f *locationFlags) selection() (*domain.Position, *domain.Range, error) {
	switch {
	case f.position != "":
		pos, err := repouri.ParsePosition(f.position)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --position: %w", err)
		}
		return &pos, nil, nil
	case f.rng != "":
		pos, rng, err := repouri.ParseRangeOrPosition(f.rng)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --range: %w", err)
		}
		return pos, rng, nil
	}
	return nil, nil, nil
}

// view returns the view state, warning about tabs the blob panel does not know.
func (f *locationFlags) view(ctx context.Context, log Logger) domain.ViewState {
	v := domain.ViewState(f.viewState)
	if v != "" && !v.IsKnown() {
		log.Warn(ctx, "unknown view state", map[string]interface{}{
			"view_state": f.viewState,
		})
	}
	return v
}

func (f *locationFlags) render() (domain.RenderMode, error) {
	mode, err := domain.ParseRenderMode(f.renderMode)
	if err != nil {
		return domain.RenderModeDefault, fmt.Errorf("invalid --render-mode: %w", err)
	}
	return mode, nil
}

// codecErrors are the parse failures reported as an invalid URL.
var codecErrors = []error{
	domain.ErrInvalidRepoURI,
	domain.ErrInvalidFragment,
	domain.ErrInvalidRangeOrPosition,
	domain.ErrInvalidPosition,
	domain.ErrInvalidRenderMode,
	domain.ErrInvalidCommitRange,
}

// userError maps domain errors to the message shown to the user.
func userError(err error) error {
	for _, target := range codecErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("invalid URL: %w", err)
		}
	}
	return err
}

// joinBaseURL prefixes a root-relative blob path with the configured base URL.
func joinBaseURL(baseURL, path string) string {
	return strings.TrimSuffix(baseURL, "/") + path
}
