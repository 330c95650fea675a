package storage

import (
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

// Settings is the flat user settings document (settings.toml).
type Settings struct {
	TargetFPS        int     `toml:"target_fps"`
	Vsync            bool    `toml:"vsync"`
	ClearR           float64 `toml:"clear_r"`
	ClearG           float64 `toml:"clear_g"`
	ClearB           float64 `toml:"clear_b"`
	ShowOverlay      bool    `toml:"show_overlay"`
	Resolution       int     `toml:"resolution"`
	Anisotropic      int     `toml:"anisotropic"`
	PPUDecoder       int     `toml:"ppu_decoder"`
	SPUDecoder       int     `toml:"spu_decoder"`
	SPUThreads       int     `toml:"spu_threads"`
	AudioBackend     int     `toml:"audio_backend"`
	AudioLatency     int     `toml:"audio_latency"`
	DebugConsole     bool    `toml:"debug_console"`
	AccurateCache    bool    `toml:"accurate_cache"`
	DisableFrameSkip bool    `toml:"disable_frame_skip"`
}

// DefaultSettings returns the settings used when no document exists.
func DefaultSettings() Settings {
	return Settings{
		TargetFPS:        60,
		Vsync:            true,
		ClearR:           0.03,
		ClearG:           0.03,
		ClearB:           0.08,
		ShowOverlay:      true,
		Resolution:       0,
		Anisotropic:      0,
		PPUDecoder:       0,
		SPUDecoder:       0,
		SPUThreads:       6,
		AudioBackend:     0,
		AudioLatency:     60,
		DebugConsole:     false,
		AccurateCache:    true,
		DisableFrameSkip: false,
	}
}

// CatalogEntry is one game in the library. Entries are never edited in place.
type CatalogEntry struct {
	Title   string              `json:"title"`
	Locator string              `json:"locator"`
	Kind    emucore.ContentKind `json:"kind"`
}

// LibraryDocument is the on-disk form of the library (library.json).
type LibraryDocument struct {
	Version int            `json:"version"`
	Entries []CatalogEntry `json:"entries"`
}

const libraryVersion = 1

// AddResult is the outcome of LibraryStore.Add.
type AddResult int

const (
	Added AddResult = iota
	AlreadyPresent
	Rejected
)

func (r AddResult) String() string {
	switch r {
	case Added:
		return "Added"
	case AlreadyPresent:
		return "AlreadyPresent"
	case Rejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}
