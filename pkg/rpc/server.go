// Package rpc serves the swap commands over JSON-RPC so an editor can call
// them on the text it holds.
package rpc

import (
	"context"
	"io"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/anyswap/pkg/anyswap"
	"github.com/walteh/anyswap/pkg/buffer"
	"github.com/walteh/anyswap/pkg/config"
	"github.com/walteh/anyswap/pkg/element"
	"github.com/walteh/anyswap/pkg/navigator"
	"github.com/walteh/anyswap/pkg/tree"
)

const (
	MethodSwap        = "anyswap/swap"
	MethodMoveElement = "anyswap/moveElement"
	MethodTree        = "anyswap/tree"
)

// Params carries the editor's text and cursor. Path only selects the dialect
// and is never read.
type Params struct {
	Text     string `json:"text"`
	Offset   int    `json:"offset"`
	Backward bool   `json:"backward,omitempty"`
	Path     string `json:"path,omitempty"`
}

func (p *Params) direction() navigator.Direction {
	if p.Backward {
		return navigator.Backward
	}
	return navigator.Forward
}

type EditResult struct {
	Text    string `json:"text"`
	Cursor  int    `json:"cursor"`
	Swapped bool   `json:"swapped"`
}

type TreeResult struct {
	Tree  string `json:"tree"`
	Focus string `json:"focus,omitempty"`
}

type Server struct {
	id     string
	config *config.Config
}

// NewServer returns a server resolving dialects through cfg. A nil cfg uses
// the built-in dialect everywhere.
func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{
		id:     xid.New().String(),
		config: cfg,
	}
}

func (me *Server) ID() string {
	return me.id
}

func (me *Server) Methods() handler.Map {
	return handler.Map{
		MethodSwap:        createHandler(me.Swap),
		MethodMoveElement: createHandler(me.MoveElement),
		MethodTree:        createHandler(me.Tree),
	}
}

// Instance builds the jrpc2 server. Handlers get ctx, tagged with the server
// id, as their base context.
func (me *Server) Instance(ctx context.Context, opts *jrpc2.ServerOptions) *jrpc2.Server {
	if opts == nil {
		opts = &jrpc2.ServerOptions{}
	}
	if opts.RPCLog == nil {
		opts.RPCLog = &RPCLogger{}
	}

	ctx = zerolog.Ctx(ctx).With().Str("server_id", me.id).Logger().WithContext(ctx)
	opts.NewContext = func() context.Context {
		return ctx
	}

	return jrpc2.NewServer(me.Methods(), opts)
}

// Serve answers header-framed requests on r and w until the client hangs up.
func (me *Server) Serve(ctx context.Context, r io.Reader, w io.WriteCloser) error {
	srv := me.Instance(ctx, nil).Start(channel.LSP(r, w))
	if err := srv.Wait(); err != nil && !errors.Is(err, io.EOF) {
		return errors.Errorf("serving rpc: %w", err)
	}
	return nil
}

func (me *Server) Swap(ctx context.Context, params *Params) (*EditResult, error) {
	buf, err := bufferFor(params)
	if err != nil {
		return nil, err
	}
	swapped := anyswap.New(me.config.DialectFor(params.Path)).Swap(ctx, buf, params.direction())
	return &EditResult{Text: buf.Text(), Cursor: buf.Cursor(), Swapped: swapped}, nil
}

func (me *Server) MoveElement(ctx context.Context, params *Params) (*EditResult, error) {
	buf, err := bufferFor(params)
	if err != nil {
		return nil, err
	}
	moved := element.Move(ctx, buf, params.direction())
	return &EditResult{Text: buf.Text(), Cursor: buf.Cursor(), Swapped: moved}, nil
}

func (me *Server) Tree(ctx context.Context, params *Params) (*TreeResult, error) {
	buf, err := bufferFor(params)
	if err != nil {
		return nil, err
	}

	t := anyswap.New(me.config.DialectFor(params.Path)).Parse(buf, params.Offset)
	res := &TreeResult{Tree: t.Dump()}
	if focus := navigator.Locate(t, params.Offset); focus != tree.None {
		res.Focus = t.Label(focus)
	}
	return res, nil
}

func bufferFor(params *Params) (*buffer.Memory, error) {
	if params.Offset < 0 || params.Offset > len(params.Text) {
		return nil, newInvalidParamsError(errors.Errorf("offset %d is outside the text (length %d)", params.Offset, len(params.Text)))
	}
	return buffer.NewMemory(params.Text, params.Offset), nil
}
