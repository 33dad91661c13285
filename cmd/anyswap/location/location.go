// Package location holds the cursor flags shared by the commands that act
// on a position in a file.
package location

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/anyswap/pkg/position"
)

type Flags struct {
	Offset int
	Line   int
	Column int
}

func (f *Flags) Register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.Offset, "offset", -1, "byte offset of the cursor")
	cmd.Flags().IntVar(&f.Line, "line", 0, "1-based line of the cursor")
	cmd.Flags().IntVar(&f.Column, "column", 1, "1-based column of the cursor, counted in characters")
	cmd.MarkFlagsMutuallyExclusive("offset", "line")
	cmd.MarkFlagsOneRequired("offset", "line")
}

// Resolve turns the flags into a byte offset into text.
func (f *Flags) Resolve(text string) (int, error) {
	if f.Line > 0 {
		if f.Column < 1 {
			return 0, errors.Errorf("column must be at least 1, got %d", f.Column)
		}
		offset, err := position.OffsetOf(text, position.Place{Line: f.Line - 1, Character: f.Column - 1})
		if err != nil {
			return 0, errors.Errorf("resolving cursor: %w", err)
		}
		return offset, nil
	}

	if f.Offset < 0 || f.Offset > len(text) {
		return 0, errors.Errorf("offset %d is outside the file (length %d)", f.Offset, len(text))
	}
	return f.Offset, nil
}
