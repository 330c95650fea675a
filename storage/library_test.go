package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

func newTestLibrary(t *testing.T) *LibraryStore {
	t.Helper()
	return NewLibraryStore(filepath.Join(t.TempDir(), "library.json"))
}

func TestLibraryListMissing(t *testing.T) {
	lib := newTestLibrary(t)
	entries := lib.List()
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty non-nil list, got %v", entries)
	}
}

func TestLibraryAddTwice(t *testing.T) {
	lib := newTestLibrary(t)
	locator := "/games/BLUS30001/USRDIR/EBOOT.BIN"

	res, err := lib.Add(locator, "")
	if err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if res != Added {
		t.Errorf("expected Added, got %s", res)
	}
	before := len(lib.List())

	res, err = lib.Add(locator, "Other Title")
	if err != nil {
		t.Fatalf("second Add failed: %v", err)
	}
	if res != AlreadyPresent {
		t.Errorf("expected AlreadyPresent, got %s", res)
	}

	entries := lib.List()
	if len(entries) != before || len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "EBOOT.BIN" {
		t.Errorf("expected title defaulted to filename, got %q", entries[0].Title)
	}
	if entries[0].Kind != emucore.KindExecutable {
		t.Errorf("expected Executable, got %s", entries[0].Kind)
	}
}

func TestLibraryAddClassification(t *testing.T) {
	tests := []struct {
		locator  string
		expected AddResult
		kind     emucore.ContentKind
	}{
		{"/games/EBOOT.BIN", Added, emucore.KindExecutable},
		{"/games/foo.SELF", Added, emucore.KindExecutable},
		{"/games/foo.elf", Added, emucore.KindExecutable},
		{"/games/foo.iso", Added, emucore.KindDiscImage},
		{"content://media/external/file/Game%20One.iso", Added, emucore.KindDiscImage},
		{"/games/foo.pkg", Rejected, emucore.KindUnsupported},
		{"/games/foo.txt", Rejected, emucore.KindUnsupported},
		{"/games/README", Rejected, emucore.KindUnsupported},
	}

	for _, tc := range tests {
		t.Run(tc.locator, func(t *testing.T) {
			lib := newTestLibrary(t)
			res, err := lib.Add(tc.locator, "")
			if res != tc.expected {
				t.Fatalf("expected %s, got %s (err %v)", tc.expected, res, err)
			}
			if tc.expected == Rejected {
				if !errors.Is(err, ErrUnsupported) {
					t.Errorf("expected ErrUnsupported, got %v", err)
				}
				if len(lib.List()) != 0 {
					t.Errorf("rejected content should not be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			entries := lib.List()
			if len(entries) != 1 || entries[0].Kind != tc.kind {
				t.Errorf("expected one %s entry, got %+v", tc.kind, entries)
			}
		})
	}
}

func TestLibraryOrderPreserved(t *testing.T) {
	lib := newTestLibrary(t)
	locators := []string{"/g/c.iso", "/g/a.elf", "/g/b.iso"}
	for _, l := range locators {
		if _, err := lib.Add(l, ""); err != nil {
			t.Fatalf("Add(%s) failed: %v", l, err)
		}
	}

	entries := lib.List()
	if len(entries) != len(locators) {
		t.Fatalf("expected %d entries, got %d", len(locators), len(entries))
	}
	for i, l := range locators {
		if entries[i].Locator != l {
			t.Errorf("entry %d: expected %s, got %s", i, l, entries[i].Locator)
		}
	}
}

func TestLibraryCorruptDocument(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"arbitrary bytes", []byte{0xff, 0x00, 0x13, 0x37}},
		{"truncated json", []byte(`{"version":1,"entries":[{"title":"a"`)},
		{"wrong shape", []byte(`[1,2,3]`)},
		{"empty file", []byte{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lib := newTestLibrary(t)
			if err := os.WriteFile(lib.Path(), tc.content, 0644); err != nil {
				t.Fatal(err)
			}
			entries := lib.List()
			if entries == nil || len(entries) != 0 {
				t.Errorf("expected empty list, got %v", entries)
			}

			// Adding recovers the document.
			if res, err := lib.Add("/g/x.iso", ""); err != nil || res != Added {
				t.Fatalf("expected Added, got %s (err %v)", res, err)
			}
			if len(lib.List()) != 1 {
				t.Errorf("expected 1 entry after recovery")
			}
		})
	}
}

func TestLibrarySanitizeOnLoad(t *testing.T) {
	lib := newTestLibrary(t)
	doc := `{
  "version": 7,
  "entries": [
    {"title": "Good", "locator": "/g/good.iso", "kind": "disc_image"},
    {"title": "Bad kind", "locator": "/g/bad.iso", "kind": "cartridge"},
    {"title": "No locator", "locator": "", "kind": "executable"},
    {"title": "Dup", "locator": "/g/good.iso", "kind": "disc_image"},
    {"title": "", "locator": "/g/EBOOT.BIN", "kind": "executable"}
  ]
}`
	if err := os.WriteFile(lib.Path(), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	entries := lib.List()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after sanitize, got %d: %+v", len(entries), entries)
	}
	if entries[0].Title != "Good" {
		t.Errorf("expected first entry 'Good', got %q", entries[0].Title)
	}
	if entries[1].Title != "EBOOT.BIN" {
		t.Errorf("expected empty title filled from locator, got %q", entries[1].Title)
	}
}

func TestLibraryAddSaveFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory where the document should be makes the rename fail.
	path := filepath.Join(dir, "library.json")
	if err := os.MkdirAll(filepath.Join(path, "child"), 0755); err != nil {
		t.Fatal(err)
	}
	lib := NewLibraryStore(path)

	res, err := lib.Add("/g/a.iso", "")
	if res != Rejected || err == nil {
		t.Errorf("expected Rejected with error, got %s (err %v)", res, err)
	}
}

func TestLibraryAddConcurrent(t *testing.T) {
	lib := newTestLibrary(t)

	const n = 20
	var wg sync.WaitGroup
	results := make([]AddResult, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = lib.Add(fmt.Sprintf("/games/g%d.iso", i), "")
		}()
	}
	wg.Wait()

	for i := range n {
		if errs[i] != nil || results[i] != Added {
			t.Errorf("add %d: got %s (err %v)", i, results[i], errs[i])
		}
	}
	entries := lib.List()
	if len(entries) != n {
		t.Fatalf("expected %d entries, got %d", n, len(entries))
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		seen[e.Locator] = true
	}
	for i := range n {
		if loc := fmt.Sprintf("/games/g%d.iso", i); !seen[loc] {
			t.Errorf("missing %s", loc)
		}
	}
}

func TestLibraryClear(t *testing.T) {
	lib := newTestLibrary(t)
	if _, err := lib.Add("/g/a.iso", ""); err != nil {
		t.Fatal(err)
	}
	if err := lib.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(lib.List()) != 0 {
		t.Error("expected empty library after Clear")
	}
}

func TestFilter(t *testing.T) {
	entries := []CatalogEntry{
		{Title: "Racing Game", Locator: "/g/race.iso", Kind: emucore.KindDiscImage},
		{Title: "Puzzle", Locator: "/g/BLES0001/EBOOT.BIN", Kind: emucore.KindExecutable},
	}

	tests := []struct {
		text     string
		expected int
	}{
		{"", 2},
		{"racing", 1},
		{"eboot", 1},
		{"ISO", 1},
		{"missing", 0},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			if got := Filter(entries, tc.text); len(got) != tc.expected {
				t.Errorf("expected %d matches, got %d", tc.expected, len(got))
			}
		})
	}
}
