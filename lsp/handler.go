// Package lsp serves mirror's findings to editors: parse errors and
// unsupported operators as diagnostics, and the generated module of a class
// on hover over its name.
package lsp

import (
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
	"github.com/teranos/mirror/mirror"
	"github.com/teranos/mirror/syntax"
	"github.com/teranos/mirror/version"
)

const (
	// ServerName is reported to clients and used as the diagnostic source
	ServerName = "mirror"

	// maxDocumentsPerClient bounds the open-document cache of one client
	maxDocumentsPerClient = 100
)

// Options configures a Handler
type Options struct {
	// Unfiltered diagnoses every class instead of marked ones only
	Unfiltered bool
}

type document struct {
	text    string
	version protocol.Integer
}

// Handler implements the LSP methods mirror supports for one client
type Handler struct {
	compiler *mirror.Compiler
	opts     Options
	log      *zap.SugaredLogger

	mu        sync.RWMutex
	documents map[string]document // URI → content
}

// NewHandler creates a handler that diagnoses documents with compiler
func NewHandler(compiler *mirror.Compiler, opts Options, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = logger.Named("lsp")
	}
	return &Handler{
		compiler:  compiler,
		opts:      opts,
		log:       log,
		documents: make(map[string]document),
	}
}

// Protocol returns the glsp handler table for h
func (h *Handler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		SetTrace:              h.SetTrace,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
		TextDocumentHover:     h.TextDocumentHover,
	}
}

// Initialize handles LSP initialize request
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	h.log.Infow("LSP client initializing", "client", clientName)

	syncKind := protocol.TextDocumentSyncKindFull
	openClose := true
	serverVersion := version.Get().Version

	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: &openClose,
				Change:    &syncKind,
			},
			HoverProvider: true,
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &serverVersion,
		},
	}, nil
}

// Initialized is called after client receives InitializeResult
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.log.Debugw("LSP client initialized")
	return nil
}

// Shutdown handles LSP shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	h.log.Infow("LSP client shutting down")
	return nil
}

// SetTrace handles $/setTrace
func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen caches the document and publishes its diagnostics
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	doc := document{text: params.TextDocument.Text, version: params.TextDocument.Version}

	h.mu.Lock()
	if _, exists := h.documents[uri]; !exists && len(h.documents) >= maxDocumentsPerClient {
		h.mu.Unlock()
		h.log.Warnw("Document cache limit reached, rejecting new document",
			"uri", uri,
			logger.FieldCount, maxDocumentsPerClient,
		)
		return errors.Newf("document cache limit reached (%d documents open)", maxDocumentsPerClient)
	}
	h.documents[uri] = doc
	h.mu.Unlock()

	h.log.Debugw("Document opened", "uri", uri, logger.FieldSize, len(doc.text))
	h.publish(ctx, uri, doc)
	return nil
}

// TextDocumentDidChange replaces the document (full sync) and republishes
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	h.mu.Lock()
	doc, ok := h.documents[uri]
	if !ok {
		h.mu.Unlock()
		return errors.Newf("document %s is not open", uri)
	}
	// Full document sync: only whole-document changes are expected
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			doc.text = whole.Text
		}
	}
	doc.version = params.TextDocument.Version
	h.documents[uri] = doc
	h.mu.Unlock()

	h.publish(ctx, uri, doc)
	return nil
}

// TextDocumentDidClose drops the document and clears its diagnostics
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	h.mu.Lock()
	delete(h.documents, uri)
	h.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	h.log.Debugw("Document closed", "uri", uri)
	return nil
}

// TextDocumentHover shows the generated module when hovering a class name
func (h *Handler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	h.mu.RLock()
	doc, ok := h.documents[params.TextDocument.URI]
	h.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	unit, _ := syntax.Parse(doc.text, syntax.Options{Marker: h.compiler.Marker()})
	class := classAt(unit, params.Position)
	if class == nil {
		return nil, nil
	}

	var out strings.Builder
	if _, err := h.compiler.EmitClass(&out, class); err != nil {
		return nil, err
	}

	note := ""
	if !class.Marked && !h.opts.Unfiltered {
		note = "\n\nNot translated by `mirror compile`: the class has no [" + h.compiler.Marker() + "] attribute."
	}

	r := nameRange(class.Pos(), class.Name)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```javascript\n" + out.String() + "```" + note,
		},
		Range: &r,
	}, nil
}

func (h *Handler) publish(ctx *glsp.Context, uri string, doc document) {
	diagnostics := h.Diagnose(doc.text)
	v := protocol.UInteger(doc.version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &v,
		Diagnostics: diagnostics,
	})
	h.log.Debugw("Published diagnostics", "uri", uri, logger.FieldCount, len(diagnostics))
}

// classAt finds the class whose name covers pos
func classAt(unit *syntax.CompilationUnit, pos protocol.Position) *syntax.ClassDecl {
	line := int(pos.Line) + 1
	col := int(pos.Character) + 1
	for _, class := range mirror.AllClasses(unit) {
		p := class.Pos()
		if p.Line == line && col >= p.Column && col < p.Column+len(class.Name) {
			return class
		}
	}
	return nil
}
