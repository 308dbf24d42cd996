// Package lsp serves required-modules diagnostics to editors over the
// Language Server Protocol.
package lsp

import (
	"context"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/modcheck/pkg/lint"
	"github.com/Sumatoshi-tech/modcheck/pkg/version"
)

const (
	serverName       = "modcheck"
	diagnosticSource = "modcheck"
	publishMethod    = "textDocument/publishDiagnostics"
)

// DocumentStore is a thread-safe store for document contents keyed by URI.
type DocumentStore struct {
	documents map[string]string // URI -> content.
	mu        sync.RWMutex
}

// NewDocumentStore creates a new empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]string),
	}
}

// Set stores document content for the given URI.
func (ds *DocumentStore) Set(uri, content string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = content
}

// Get retrieves document content by URI.
func (ds *DocumentStore) Get(uri string) (string, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	content, ok := ds.documents[uri]

	return content, ok
}

// Delete removes document content by URI.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// Len reports how many documents are open.
func (ds *DocumentStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	return len(ds.documents)
}

// Server lints open JavaScript and TypeScript documents.
type Server struct {
	store   *DocumentStore
	linter  *lint.Linter
	logger  *slog.Logger
	handler protocol.Handler
}

// NewServer creates an LSP server that lints with the given linter.
func NewServer(linter *lint.Linter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{store: NewDocumentStore(), linter: linter, logger: logger}

	srv.handler = protocol.Handler{
		Initialize:            srv.initialize,
		Initialized:           srv.initialized,
		Shutdown:              srv.shutdown,
		SetTrace:              srv.setTrace,
		TextDocumentDidOpen:   srv.didOpen,
		TextDocumentDidChange: srv.didChange,
		TextDocumentDidSave:   srv.didSave,
		TextDocumentDidClose:  srv.didClose,
	}

	return srv
}

// Store exposes the open documents.
func (srv *Server) Store() *DocumentStore {
	return srv.store
}

// Run serves the protocol on stdio until the client disconnects.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	return lspServer.RunStdio()
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()
	ver := version.Version

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &ver,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.Set(uri, params.TextDocument.Text)
	srv.publish(ctx.Notify, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// Full sync: the last change carries the whole document.
	for idx := len(params.ContentChanges) - 1; idx >= 0; idx-- {
		if text, ok := changeText(params.ContentChanges[idx]); ok {
			srv.store.Set(uri, text)
			srv.publish(ctx.Notify, uri)

			return nil
		}
	}

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if params.Text != nil {
		srv.store.Set(uri, *params.Text)
	}

	if _, ok := srv.store.Get(uri); ok {
		srv.publish(ctx.Notify, uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	ctx.Notify(publishMethod, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func changeText(change any) (string, bool) {
	switch typed := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return typed.Text, true
	case protocol.TextDocumentContentChangeEvent:
		if typed.Range == nil {
			return typed.Text, true
		}
	case map[string]any:
		if text, ok := typed["text"].(string); ok {
			if _, ranged := typed["range"]; !ranged {
				return text, true
			}
		}
	}

	return "", false
}

func (srv *Server) publish(notify glsp.NotifyFunc, uri string) {
	notify(publishMethod, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: srv.Diagnose(context.Background(), uri),
	})
}

// Diagnose lints the stored document for uri. Unknown documents and files the
// parser cannot handle produce an empty list.
func (srv *Server) Diagnose(ctx context.Context, uri string) []protocol.Diagnostic {
	text, ok := srv.store.Get(uri)
	if !ok {
		return []protocol.Diagnostic{}
	}

	filename := FilenameFromURI(uri)

	result, err := srv.linter.LintSource(ctx, filename, []byte(text))
	if err != nil {
		srv.logger.Debug("lsp lint skipped", "uri", uri, "error", err)

		return []protocol.Diagnostic{}
	}

	return ToProtocol(result.Diagnostics)
}

// FilenameFromURI turns a file:// URI into a local path. Anything that does
// not parse as a URI is returned unchanged.
func FilenameFromURI(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Path == "" {
		return uri
	}

	return filepath.FromSlash(parsed.Path)
}

// ToProtocol converts 1-based lint diagnostics into 0-based LSP diagnostics.
func ToProtocol(diags []lint.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))

	for _, diag := range diags {
		severity := protocol.DiagnosticSeverityError
		if diag.Severity == lint.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}

		source := diagnosticSource
		start := toPosition(diag.Line, diag.Column)
		end := start

		if diag.EndLine > 0 {
			end = toPosition(diag.EndLine, diag.EndColumn)
		}

		out = append(out, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: diag.RuleID},
			Source:   &source,
			Message:  diag.Message,
		})
	}

	return out
}

func toPosition(line, column int) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(line-1, 0)),
		Character: protocol.UInteger(max(column-1, 0)),
	}
}
