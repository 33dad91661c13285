package swap

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/anyswap/cmd/anyswap/location"
	"github.com/walteh/anyswap/pkg/anyswap"
	"github.com/walteh/anyswap/pkg/buffer"
	"github.com/walteh/anyswap/pkg/config"
	"github.com/walteh/anyswap/pkg/element"
	"github.com/walteh/anyswap/pkg/navigator"
	"github.com/walteh/anyswap/pkg/position"
)

const (
	ModeAny     = "any"
	ModeElement = "element"
)

type Handler struct {
	fs       afero.Fs
	cursor   location.Flags
	backward bool
	mode     string
	write    bool
}

func NewSwapCommand(fs afero.Fs) *cobra.Command {
	me := &Handler{fs: fs}

	cmd := &cobra.Command{
		Use:   "swap FILE",
		Short: "swap the element under the cursor with its neighbor",
		Long: `Swap the element under the cursor with the next one, or the previous one
with --backward. The result is printed unless --write is given.

In "any" mode the cursor's line is parsed into an operator tree and the
partner is found on the same level. In "element" mode the nearest
comma separated neighbor is used, across lines if needed.`,
		Args: cobra.ExactArgs(1),
	}

	me.cursor.Register(cmd)
	cmd.Flags().BoolVar(&me.backward, "backward", false, "swap with the previous element")
	cmd.Flags().StringVar(&me.mode, "mode", ModeAny, "swap mode: any or element")
	cmd.Flags().BoolVar(&me.write, "write", false, "rewrite the file instead of printing the result")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, file string) error {
	if me.mode != ModeAny && me.mode != ModeElement {
		return errors.Errorf("unknown mode %q (want %s or %s)", me.mode, ModeAny, ModeElement)
	}

	data, err := afero.ReadFile(me.fs, file)
	if err != nil {
		return errors.Errorf("reading %s: %w", file, err)
	}
	text := string(data)

	offset, err := me.cursor.Resolve(text)
	if err != nil {
		return err
	}

	dir := navigator.Forward
	if me.backward {
		dir = navigator.Backward
	}

	buf := buffer.NewMemory(text, offset)
	var swapped bool
	if me.mode == ModeElement {
		swapped = element.Move(ctx, buf, dir)
	} else {
		swapped = anyswap.New(config.FromContext(ctx).DialectFor(file)).Swap(ctx, buf, dir)
	}

	logger := zerolog.Ctx(ctx)
	if !swapped {
		logger.Info().Str("file", file).Int("offset", offset).Msg("nothing to swap")
	} else {
		place := position.PlaceOf(buf.Text(), buf.Cursor())
		logger.Info().
			Str("file", file).
			Int("cursor", buf.Cursor()).
			Int("line", place.Line+1).
			Int("column", place.Character+1).
			Msg("swapped")
	}

	if me.write {
		if !swapped {
			return nil
		}
		info, err := me.fs.Stat(file)
		if err != nil {
			return errors.Errorf("stat %s: %w", file, err)
		}
		if err := afero.WriteFile(me.fs, file, []byte(buf.Text()), info.Mode().Perm()); err != nil {
			return errors.Errorf("writing %s: %w", file, err)
		}
		return nil
	}

	if _, err := io.WriteString(out, buf.Text()); err != nil {
		return errors.Errorf("writing result: %w", err)
	}
	return nil
}
