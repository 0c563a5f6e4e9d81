package lsp

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
)

// HandlerFactory creates the handler for one client connection, so each
// client has its own document cache.
type HandlerFactory func() *Handler

// RunStdio serves one client over stdin/stdout until it disconnects
func RunStdio(h *Handler) error {
	srv := glspserver.NewServer(h.Protocol(), ServerName, false)
	return srv.RunStdio()
}

// checkOrigin accepts non-browser clients and pages served from loopback
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

var upgrader = websocket.Upgrader{
	CheckOrigin: checkOrigin,
}

// WebSocketHandler upgrades each request and serves LSP over the connection
func WebSocketHandler(newHandler HandlerFactory, log *zap.SugaredLogger) http.Handler {
	if log == nil {
		log = logger.Named("lsp")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Infow("LSP WebSocket connection request", "remote", r.RemoteAddr)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Errorw("Failed to upgrade WebSocket", logger.FieldError, err)
			return
		}
		defer conn.Close()

		srv := glspserver.NewServer(newHandler().Protocol(), ServerName, false)

		// blocks until the connection closes
		srv.ServeWebSocket(conn)
		log.Infow("LSP WebSocket connection closed", "remote", r.RemoteAddr)
	})
}

// ListenWebSocket serves LSP over WebSocket on addr until ctx is done
func ListenWebSocket(ctx context.Context, addr string, newHandler HandlerFactory, log *zap.SugaredLogger) error {
	if log == nil {
		log = logger.Named("lsp")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}

	server := &http.Server{
		Handler:           WebSocketHandler(newHandler, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warnw("LSP server shutdown", logger.FieldError, err)
		}
	}()

	log.Infow("Serving LSP over WebSocket", "address", listener.Addr().String())
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "LSP WebSocket server failed")
	}
	return nil
}
