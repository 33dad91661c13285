package serve

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/anyswap/pkg/config"
	"github.com/walteh/anyswap/pkg/rpc"
)

type Handler struct{}

func NewServeCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "answer swap requests as JSON-RPC on stdin and stdout",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	server := rpc.NewServer(config.FromContext(ctx))

	zerolog.Ctx(ctx).Info().Str("server_id", server.ID()).Msg("serving json-rpc on stdio")

	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil {
		return errors.Errorf("error running rpc server: %w", err)
	}

	return nil
}
