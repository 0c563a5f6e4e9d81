package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/mirror/am"
	"github.com/teranos/mirror/logger"
	"github.com/teranos/mirror/lsp"
)

// LspCmd serves editor diagnostics over the Language Server Protocol
var LspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server",
	Long: `Serve diagnostics and module previews to editors.

Without --ws the server speaks LSP over stdin/stdout for a single client.
With --ws it accepts WebSocket clients on the given address, each with its
own document cache.

Examples:
  mirror lsp                    # stdio, for editor integration
  mirror lsp --ws 127.0.0.1:7878`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := Config()
		unfiltered, _ := cmd.Flags().GetBool("unfiltered")
		addr := stringFlag(cmd, "ws", c.LSP.Address)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runLSP(ctx, c, addr, unfiltered || c.Mirror.Unfiltered)
	},
}

func init() {
	LspCmd.Flags().String("ws", "", "Serve WebSocket clients on this address instead of stdio")
	LspCmd.Flags().Bool("unfiltered", false, "Diagnose every class, ignoring the marker")
}

func runLSP(ctx context.Context, c *am.Config, addr string, unfiltered bool) error {
	newHandler := func() *lsp.Handler {
		return lsp.NewHandler(newCompiler(c, ""), lsp.Options{Unfiltered: unfiltered}, nil)
	}
	if addr == "" {
		return lsp.RunStdio(newHandler())
	}
	return lsp.ListenWebSocket(ctx, addr, newHandler, logger.Named("lsp"))
}
