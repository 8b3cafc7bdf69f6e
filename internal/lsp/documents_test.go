package lsp

import (
	"sync"
	"testing"
)

const testURI = "file:///work/main.lua"

func TestDocumentStore_Update(t *testing.T) {
	store := NewDocumentStore()
	store.Open(testURI, "local x=1", 1)

	content, ok := store.Get(testURI)
	if !ok {
		t.Fatal("Document not found after opening")
	}
	if content != "local x=1" {
		t.Errorf("Get() = %q, want %q", content, "local x=1")
	}

	store.Update(testURI, "local x = 1", 2)

	content, ok = store.Get(testURI)
	if !ok {
		t.Fatal("Document not found after update")
	}
	if content != "local x = 1" {
		t.Errorf("Get() = %q, want %q", content, "local x = 1")
	}
}

func TestDocumentStore_StaleUpdateIgnored(t *testing.T) {
	store := NewDocumentStore()
	store.Open(testURI, "version 3", 3)
	store.Update(testURI, "version 2", 2)

	if content, _ := store.Get(testURI); content != "version 3" {
		t.Errorf("Get() = %q, want %q", content, "version 3")
	}
}

func TestDocumentStore_Close(t *testing.T) {
	store := NewDocumentStore()
	store.Open(testURI, "local x = 1", 1)
	store.Close(testURI)

	if _, ok := store.Get(testURI); ok {
		t.Error("Document still present after close")
	}
}

func TestDocumentStore_ConcurrentAccess(t *testing.T) {
	store := NewDocumentStore()
	store.Open(testURI, "initial", 0)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(testURI, string(rune('0'+i)), int32(i))
		}()
	}
	wg.Wait()

	content, ok := store.Get(testURI)
	if !ok {
		t.Fatal("Document not found after concurrent updates")
	}
	if content != "9" {
		t.Errorf("Get() = %q, want the newest version %q", content, "9")
	}
}
