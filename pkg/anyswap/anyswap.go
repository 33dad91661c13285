// Package anyswap ties the pieces together: it parses the cursor's line,
// picks the swap partner and edits the buffer.
package anyswap

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/walteh/anyswap/pkg/buffer"
	"github.com/walteh/anyswap/pkg/lexer"
	"github.com/walteh/anyswap/pkg/navigator"
	"github.com/walteh/anyswap/pkg/swap"
	"github.com/walteh/anyswap/pkg/tree"
)

// Swapper runs swaps for one dialect. It holds no per-call state and may be
// shared.
type Swapper struct {
	dialect *lexer.Dialect
}

// New returns a Swapper for d, or for the built-in dialect when d is nil.
func New(d *lexer.Dialect) *Swapper {
	if d == nil {
		d = lexer.Default
	}
	return &Swapper{dialect: d}
}

func (s *Swapper) Dialect() *lexer.Dialect {
	return s.dialect
}

// Parse builds the tree of the line holding offset. Token ranges are offsets
// into the whole buffer.
func (s *Swapper) Parse(buf buffer.Buffer, offset int) *tree.Tree {
	line := buf.LineBounds(offset)
	return tree.Build(s.dialect.Tokenize(buf.Substring(line), line.Begin))
}

// Plan resolves the pair a swap at the cursor would exchange.
func (s *Swapper) Plan(ctx context.Context, buf buffer.Buffer, dir navigator.Direction) (navigator.Pair, bool) {
	cursor := buf.Cursor()
	t := s.Parse(buf, cursor)

	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() <= zerolog.TraceLevel {
		logger.Trace().Str("dialect", s.dialect.Name()).Int("cursor", cursor).Msgf("parsed line\n%s", t.Dump())
	}

	pair, ok := navigator.Resolve(t, cursor, dir)
	if !ok {
		logger.Debug().Int("cursor", cursor).Stringer("direction", dir).Msg("no swap partner")
		return navigator.Pair{}, false
	}

	logger.Debug().
		Int("cursor", cursor).
		Stringer("direction", dir).
		Stringer("left", pair.Left).
		Stringer("right", pair.Right).
		Msg("resolved swap pair")
	return pair, true
}

// Swap exchanges the element under the cursor with its neighbor in dir and
// moves the cursor with it. It reports false when nothing was changed.
func (s *Swapper) Swap(ctx context.Context, buf buffer.Buffer, dir navigator.Direction) bool {
	pair, ok := s.Plan(ctx, buf, dir)
	if !ok {
		return false
	}
	return swap.Apply(buf, pair, dir)
}

func (s *Swapper) Forward(ctx context.Context, buf buffer.Buffer) bool {
	return s.Swap(ctx, buf, navigator.Forward)
}

func (s *Swapper) Backward(ctx context.Context, buf buffer.Buffer) bool {
	return s.Swap(ctx, buf, navigator.Backward)
}
