// Package lsp serves document formatting over the Language Server Protocol.
package lsp

import (
	"github.com/tidwall/gjson"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/jsvensson/luafmt/internal/config"
)

const serverName = "luafmt-lsp"

var log = commonlog.GetLogger("luafmt.lsp")

type Server struct {
	handler protocol.Handler
	docs    *DocumentStore
	config  *configState
	version string
}

func NewServer(version string) *Server {
	s := &Server{
		docs:    NewDocumentStore(),
		config:  newConfigState(),
		version: version,
	}

	s.handler = protocol.Handler{
		Initialize:                      s.initialize,
		Initialized:                     s.initialized,
		Shutdown:                        s.shutdown,
		SetTrace:                        s.setTrace,
		WorkspaceDidChangeConfiguration: s.workspaceDidChangeConfiguration,
		TextDocumentDidOpen:             s.textDocumentDidOpen,
		TextDocumentDidChange:           s.textDocumentDidChange,
		TextDocumentDidClose:            s.textDocumentDidClose,
		TextDocumentFormatting:          s.textDocumentFormatting,
	}

	return s
}

// Run serves on stdio until the client disconnects. Logging must already
// be configured.
func (s *Server) Run() error {
	srv := server.NewServer(&s.handler, serverName, false)
	return srv.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if root := workspaceRoot(params); root != "" {
		f, err := config.LoadDir(root)
		if err != nil {
			log.Warningf("ignoring workspace configuration: %s", err)
		} else {
			s.config.setFile(f)
		}
	}
	if ctx != nil {
		if err := s.config.setSettings(gjson.GetBytes(ctx.Params, "initializationOptions")); err != nil {
			log.Warningf("ignoring initialization options: %s", err)
		}
	}

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// workspaceDidChangeConfiguration reads the settings from the raw params so
// key order survives for diagnostics.
func (s *Server) workspaceDidChangeConfiguration(ctx *glsp.Context, _ *protocol.DidChangeConfigurationParams) error {
	if err := s.config.setSettings(gjson.GetBytes(ctx.Params, "settings")); err != nil {
		log.Warningf("ignoring settings: %s", err)
		return err
	}
	log.Info("settings updated")
	return nil
}

func (s *Server) textDocumentDidOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	s.docs.Open(doc.URI, doc.Text, doc.Version)
	return nil
}

func (s *Server) textDocumentDidChange(_ *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	for _, change := range params.ContentChanges {
		if c, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.docs.Update(params.TextDocument.URI, c.Text, params.TextDocument.Version)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.Close(params.TextDocument.URI)
	return nil
}

func workspaceRoot(params *protocol.InitializeParams) string {
	if params.RootURI != nil {
		if path := uriPath(*params.RootURI); path != *params.RootURI {
			return path
		}
	}
	if params.RootPath != nil {
		return *params.RootPath
	}
	return ""
}
