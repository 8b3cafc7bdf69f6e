package lsp

import "sync"

// document is the last full text the client sent for a URI.
type document struct {
	text    string
	version int32
}

// DocumentStore holds open document contents keyed by URI.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]document)}
}

func (s *DocumentStore) Open(uri, text string, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = document{text: text, version: version}
}

// Update replaces the text of uri. Changes older than the stored version
// are dropped.
func (s *DocumentStore) Update(uri, text string, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.docs[uri]; ok && version < cur.version {
		return
	}
	s.docs[uri] = document{text: text, version: version}
}

func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *DocumentStore) Get(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc.text, ok
}
