package staging

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type archiveEntry struct {
	name string
	data []byte
}

func buildZip(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		if strings.HasSuffix(e.name, "/") {
			if _, err := w.Create(e.name); err != nil {
				t.Fatalf("Failed to create dir in zip: %v", err)
			}
			continue
		}
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := fw.Write(e.data); err != nil {
			t.Fatalf("Failed to write to zip: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func buildTar(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0644, Size: int64(len(e.data)), Typeflag: tar.TypeReg}
		if err := w.WriteHeader(hdr); err != nil {
			t.Fatalf("Failed to write tar header: %v", err)
		}
		if _, err := w.Write(e.data); err != nil {
			t.Fatalf("Failed to write to tar: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}
	return buf.Bytes()
}

func gzipBytes(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Name = name
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to write to gzip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("Failed to create zstd writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to write to zstd: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zstd: %v", err)
	}
	return buf.Bytes()
}

func xzBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("Failed to create xz writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to write to xz: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close xz: %v", err)
	}
	return buf.Bytes()
}

func TestStage_Archives(t *testing.T) {
	payload := testPayload(48 * 1024)
	gameTar := []archiveEntry{
		{"README.txt", []byte("read me")},
		{"PS3_GAME/USRDIR/EBOOT.BIN", payload},
	}

	tests := []struct {
		name     string
		source   string
		data     func(t *testing.T) []byte
		expected string
	}{
		{
			name:   "zip with subdirectory",
			source: "/g/game.zip",
			data: func(t *testing.T) []byte {
				return buildZip(t, []archiveEntry{
					{"PS3_GAME/", nil},
					{"PS3_GAME/ICON0.PNG", []byte("png")},
					{"PS3_GAME/USRDIR/EBOOT.BIN", payload},
					{"PS3_GAME/USRDIR/other.elf", []byte("second")},
				})
			},
			expected: "EBOOT.BIN",
		},
		{
			name:   "zip detected by magic without extension",
			source: "/g/download",
			data: func(t *testing.T) []byte {
				return buildZip(t, []archiveEntry{{"game.iso", payload}})
			},
			expected: "game.iso",
		},
		{
			name:   "gzip single file",
			source: "/g/game.iso.gz",
			data: func(t *testing.T) []byte {
				return gzipBytes(t, payload, "")
			},
			expected: "game.iso",
		},
		{
			name:   "gzip header name wins",
			source: "/g/blob.gz",
			data: func(t *testing.T) []byte {
				return gzipBytes(t, payload, "disc.iso")
			},
			expected: "disc.iso",
		},
		{
			name:   "tar.gz",
			source: "/g/game.tar.gz",
			data: func(t *testing.T) []byte {
				return gzipBytes(t, buildTar(t, gameTar), "")
			},
			expected: "EBOOT.BIN",
		},
		{
			name:   "tgz",
			source: "/g/game.tgz",
			data: func(t *testing.T) []byte {
				return gzipBytes(t, buildTar(t, gameTar), "")
			},
			expected: "EBOOT.BIN",
		},
		{
			name:   "zstd single file",
			source: "/g/game.elf.zst",
			data: func(t *testing.T) []byte {
				return zstdBytes(t, payload)
			},
			expected: "game.elf",
		},
		{
			name:   "zstd tar",
			source: "/g/game.tar.zst",
			data: func(t *testing.T) []byte {
				return zstdBytes(t, buildTar(t, gameTar))
			},
			expected: "EBOOT.BIN",
		},
		{
			name:   "xz single file",
			source: "/g/game.iso.xz",
			data: func(t *testing.T) []byte {
				return xzBytes(t, payload)
			},
			expected: "game.iso",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, fs := newTestStager(t)
			writeSource(t, fs, tc.source, tc.data(t))

			path, err := s.Stage(context.Background(), tc.source)
			if err != nil {
				t.Fatalf("Stage failed: %v", err)
			}
			if !strings.HasSuffix(filepath.Base(path), "-"+tc.expected) {
				t.Errorf("expected staged name ending in %s, got %s", tc.expected, filepath.Base(path))
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read staged file: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("staged content mismatch: expected %d bytes, got %d", len(payload), len(got))
			}
			if files := stagedFiles(t, s); len(files) != 1 {
				t.Errorf("expected only the staged file to remain, got %v", files)
			}
		})
	}
}

func TestStage_ArchiveWithoutContent(t *testing.T) {
	tests := []struct {
		name   string
		source string
		data   func(t *testing.T) []byte
	}{
		{
			name:   "zip",
			source: "/g/docs.zip",
			data: func(t *testing.T) []byte {
				return buildZip(t, []archiveEntry{{"manual.pdf", []byte("pdf")}, {"game.pkg", []byte("pkg")}})
			},
		},
		{
			name:   "empty zip",
			source: "/g/empty.zip",
			data: func(t *testing.T) []byte {
				return buildZip(t, nil)
			},
		},
		{
			name:   "tar.gz",
			source: "/g/docs.tar.gz",
			data: func(t *testing.T) []byte {
				return gzipBytes(t, buildTar(t, []archiveEntry{{"notes.txt", []byte("x")}}), "")
			},
		},
		{
			name:   "gzip of unsupported file",
			source: "/g/notes.txt.gz",
			data: func(t *testing.T) []byte {
				return gzipBytes(t, []byte("notes"), "")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, fs := newTestStager(t)
			writeSource(t, fs, tc.source, tc.data(t))

			_, err := s.Stage(context.Background(), tc.source)
			if !errors.Is(err, ErrNoContent) {
				t.Errorf("expected ErrNoContent, got %v", err)
			}
			if files := stagedFiles(t, s); len(files) != 0 {
				t.Errorf("expected no files left behind, got %v", files)
			}
		})
	}
}

func TestStage_CorruptArchives(t *testing.T) {
	tests := []struct {
		name   string
		source string
		data   []byte
	}{
		{"7z valid magic corrupt body", "/g/game.7z", append(append([]byte{}, magic7z...), make([]byte, 100)...)},
		{"7z by extension", "/g/game.7z", []byte("not a 7z file")},
		{"rar by extension", "/g/game.rar", []byte("not a rar file")},
		{"rar partial magic", "/g/game.rar", []byte{0x52, 0x61}},
		{"zip by extension", "/g/game.zip", []byte("not a zip file")},
		{"gzip valid magic corrupt body", "/g/game.iso.gz", append(append([]byte{}, magicGzip...), 0x00, 0x01, 0x02)},
		{"xz by extension", "/g/game.iso.xz", []byte("not xz")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, fs := newTestStager(t)
			writeSource(t, fs, tc.source, tc.data)

			_, err := s.Stage(context.Background(), tc.source)
			if err == nil {
				t.Fatal("expected error for corrupt archive")
			}
			if !errors.Is(err, ErrCopyFailed) && !errors.Is(err, ErrNoContent) {
				t.Errorf("expected ErrCopyFailed or ErrNoContent, got %v", err)
			}
			if files := stagedFiles(t, s); len(files) != 0 {
				t.Errorf("expected no files left behind, got %v", files)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		header   []byte
		file     string
		expected formatType
	}{
		{"zip magic", magicZIP, "x.bin", formatZIP},
		{"empty zip magic", magicZIPEnd, "x", formatZIP},
		{"7z magic", magic7z, "x", format7z},
		{"gzip magic", magicGzip, "x", formatGzip},
		{"rar magic", magicRAR, "x", formatRAR},
		{"zstd magic", magicZstd, "x", formatZstd},
		{"xz magic", magicXz, "x", formatXz},
		{"zip extension", nil, "GAME.ZIP", formatZIP},
		{"7z extension", nil, "game.7z", format7z},
		{"tgz extension", nil, "game.tgz", formatGzip},
		{"tar.gz extension", nil, "game.tar.gz", formatGzip},
		{"rar extension", nil, "game.rar", formatRAR},
		{"zst extension", nil, "game.iso.zst", formatZstd},
		{"xz extension", nil, "game.iso.xz", formatXz},
		{"elf header", []byte{0x7F, 'E', 'L', 'F'}, "game.elf", formatRaw},
		{"iso", make([]byte, 16), "game.iso", formatRaw},
		{"unknown", []byte("hello"), "notes.txt", formatRaw},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectFormat(tc.header, tc.file); got != tc.expected {
				t.Errorf("detectFormat(%s) = %s, want %s", tc.file, got, tc.expected)
			}
		})
	}
}

func TestInnerName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"game.iso.gz", "game.iso"},
		{"game.tar.gz", "game.tar"},
		{"game.TGZ", "game.tar"},
		{"game.elf.zst", "game.elf"},
		{"game.tzst", "game.tar"},
		{"game.iso.xz", "game.iso"},
		{"game.txz", "game.tar"},
		{"game.iso", "game.iso"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := innerName(tc.input); got != tc.expected {
				t.Errorf("innerName(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestIsContent(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"PS3_GAME/USRDIR/EBOOT.BIN", true},
		{`PS3_GAME\USRDIR\boot.bin`, true},
		{"dir/game.self", true},
		{"game.iso", true},
		{"game.pkg", false},
		{"ICON0.PNG", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isContent(tc.name); got != tc.expected {
				t.Errorf("isContent(%q) = %v, want %v", tc.name, got, tc.expected)
			}
		})
	}
}
