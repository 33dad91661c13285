package tree

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/anyswap/cmd/anyswap/location"
	"github.com/walteh/anyswap/pkg/anyswap"
	"github.com/walteh/anyswap/pkg/buffer"
	"github.com/walteh/anyswap/pkg/config"
	"github.com/walteh/anyswap/pkg/navigator"
	ptree "github.com/walteh/anyswap/pkg/tree"
)

type Handler struct {
	fs     afero.Fs
	cursor location.Flags
}

func NewTreeCommand(fs afero.Fs) *cobra.Command {
	me := &Handler{fs: fs}

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "print the operator tree of the cursor's line",
		Args:  cobra.ExactArgs(1),
	}

	me.cursor.Register(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

var focusColor = color.New(color.FgHiYellow, color.Bold)

// Run prints the tree with the node under the cursor highlighted.
func (me *Handler) Run(ctx context.Context, out io.Writer, file string) error {
	data, err := afero.ReadFile(me.fs, file)
	if err != nil {
		return errors.Errorf("reading %s: %w", file, err)
	}
	text := string(data)

	offset, err := me.cursor.Resolve(text)
	if err != nil {
		return err
	}

	s := anyswap.New(config.FromContext(ctx).DialectFor(file))
	t := s.Parse(buffer.NewMemory(text, offset), offset)
	focus := navigator.Locate(t, offset)

	dump := t.DumpWith(func(id ptree.ID, label string) string {
		if id == focus {
			return focusColor.Sprint(label)
		}
		return label
	})

	if _, err := io.WriteString(out, dump); err != nil {
		return errors.Errorf("writing tree: %w", err)
	}
	return nil
}
