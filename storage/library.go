package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

// ErrUnsupported is returned by LibraryStore.Add for content that is neither
// an executable nor a disc image.
var ErrUnsupported = errors.New("unsupported content")

// LibraryStore reads and writes library.json. It is safe for concurrent use
// within a process; mu serializes each read-modify-write.
type LibraryStore struct {
	path string
	mu   sync.Mutex
}

// NewLibraryStore returns a store backed by the document at path.
func NewLibraryStore(path string) *LibraryStore {
	return &LibraryStore{path: path}
}

// DefaultLibraryStore returns a store at the platform library path.
func DefaultLibraryStore() (*LibraryStore, error) {
	path, err := GetLibraryPath()
	if err != nil {
		return nil, err
	}
	return NewLibraryStore(path), nil
}

// Path returns the document path.
func (l *LibraryStore) Path() string {
	return l.path
}

// List returns the catalog, oldest entry first. A missing, unreadable or
// corrupt document yields an empty list.
func (l *LibraryStore) List() []CatalogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	doc, err := l.load()
	if err != nil {
		log.Warnf("library document %s is unreadable, treating as empty: %v", l.path, err)
		return []CatalogEntry{}
	}
	return doc.Entries
}

// Add classifies locator by its filename and appends it to the catalog.
// An empty title defaults to the filename. A locator already in the catalog
// leaves the document untouched.
func (l *LibraryStore) Add(locator, title string) (AddResult, error) {
	name := emucore.LocatorName(locator)
	kind := emucore.Classify(name)
	if kind == emucore.KindUnsupported {
		return Rejected, fmt.Errorf("%w: %s", ErrUnsupported, emucore.UnsupportedReason(name))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.load()
	if err != nil {
		log.Warnf("library document %s is unreadable, starting fresh: %v", l.path, err)
		doc = &LibraryDocument{Version: libraryVersion}
	}

	for _, e := range doc.Entries {
		if e.Locator == locator {
			return AlreadyPresent, nil
		}
	}

	if strings.TrimSpace(title) == "" {
		title = name
	}
	doc.Entries = append(doc.Entries, CatalogEntry{Title: title, Locator: locator, Kind: kind})

	if err := AtomicWriteJSON(l.path, doc); err != nil {
		log.Errorf("failed to save library: %v", err)
		return Rejected, err
	}
	return Added, nil
}

// Clear removes the document.
func (l *LibraryStore) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete library: %w", err)
	}
	return nil
}

// load reads the document. A missing file is an empty document, not an error.
func (l *LibraryStore) load() (*LibraryDocument, error) {
	doc := &LibraryDocument{Version: libraryVersion, Entries: []CatalogEntry{}}
	if _, err := os.Stat(l.path); errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err := ReadJSON(l.path, doc); err != nil {
		return nil, err
	}
	SanitizeLibraryEntries(doc)
	return doc, nil
}

// Filter returns the entries whose title or locator filename contains text,
// case-insensitively. Empty text returns entries unchanged.
func Filter(entries []CatalogEntry, text string) []CatalogEntry {
	if text == "" {
		return entries
	}
	needle := strings.ToLower(text)
	out := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), needle) ||
			strings.Contains(strings.ToLower(emucore.LocatorName(e.Locator)), needle) {
			out = append(out, e)
		}
	}
	return out
}
