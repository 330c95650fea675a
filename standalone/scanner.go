package standalone

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
)

// ScanProgress reports how far a scan has got.
type ScanProgress struct {
	Found      int
	Processed  int
	StatusText string
}

// ScanResult is the outcome of a scan.
type ScanResult struct {
	Added     int
	Present   int
	Errors    []error
	Cancelled bool
}

// Scanner walks directories for loadable content and adds it to the
// library in the background.
type Scanner struct {
	library   *storage.LibraryStore
	dirs      []string
	recursive bool

	cancel   chan struct{}
	progress chan ScanProgress
	done     chan ScanResult

	mu        sync.Mutex
	cancelled bool
	errors    []error
}

// NewScanner creates a scanner over dirs. Run starts it.
func NewScanner(library *storage.LibraryStore, dirs []string, recursive bool) *Scanner {
	return &Scanner{
		library:   library,
		dirs:      dirs,
		recursive: recursive,
		cancel:    make(chan struct{}),
		progress:  make(chan ScanProgress, 10),
		done:      make(chan ScanResult, 1),
	}
}

// Progress returns the progress channel. Updates are dropped when nobody
// is reading.
func (s *Scanner) Progress() <-chan ScanProgress {
	return s.progress
}

// Done receives the result once Run finishes.
func (s *Scanner) Done() <-chan ScanResult {
	return s.done
}

// Cancel stops the scan after the current file.
func (s *Scanner) Cancel() {
	s.mu.Lock()
	if !s.cancelled {
		s.cancelled = true
		close(s.cancel)
	}
	s.mu.Unlock()
}

// Run discovers content and adds it to the library. Entries already present
// are counted, not re-added.
func (s *Scanner) Run() {
	defer close(s.done)
	defer close(s.progress)

	s.sendProgress(ScanProgress{StatusText: "Scanning for games..."})

	var files []string
	for _, dir := range s.dirs {
		if s.isCancelled() {
			s.done <- ScanResult{Errors: s.getErrors(), Cancelled: true}
			return
		}
		found, err := s.scanDirectory(dir)
		if err != nil {
			s.addError(err)
			continue
		}
		files = append(files, found...)
	}

	var result ScanResult
	for i, path := range files {
		if s.isCancelled() {
			break
		}

		res, err := s.library.Add(path, scanTitle(path))
		switch {
		case err != nil:
			s.addError(fmt.Errorf("%s: %w", path, err))
		case res == storage.Added:
			result.Added++
		case res == storage.AlreadyPresent:
			result.Present++
		}

		s.sendProgress(ScanProgress{
			Found:      len(files),
			Processed:  i + 1,
			StatusText: fmt.Sprintf("Scanning for games... %d/%d", i+1, len(files)),
		})
	}

	result.Errors = s.getErrors()
	result.Cancelled = s.isCancelled()
	s.done <- result
}

// scanDirectory returns every file under dir whose name classifies as
// loadable content. Symlinks are not followed.
func (s *Scanner) scanDirectory(dir string) ([]string, error) {
	var files []string

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			s.addError(err)
			return nil
		}
		if s.isCancelled() {
			return filepath.SkipAll
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			if path != dir && !s.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if emucore.Classify(d.Name()) != emucore.KindUnsupported {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(dir, walkFn); err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", dir, err)
	}
	return files, nil
}

// gameDataDirs are the folders between a game's directory and its boot
// executable.
var gameDataDirs = map[string]bool{
	"usrdir":   true,
	"ps3_game": true,
}

// scanTitle names a scanned entry. EBOOT.BIN and BOOT.BIN are named after
// the game folder holding them; anything else keeps the filename default.
func scanTitle(path string) string {
	if !strings.EqualFold(filepath.Ext(path), ".bin") || emucore.Classify(path) != emucore.KindExecutable {
		return ""
	}
	dir := filepath.Dir(path)
	for gameDataDirs[strings.ToLower(filepath.Base(dir))] {
		dir = filepath.Dir(dir)
	}
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

func (s *Scanner) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *Scanner) addError(err error) {
	s.mu.Lock()
	s.errors = append(s.errors, err)
	s.mu.Unlock()
}

func (s *Scanner) getErrors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errors...)
}

func (s *Scanner) sendProgress(p ScanProgress) {
	select {
	case s.progress <- p:
	default:
	}
}
