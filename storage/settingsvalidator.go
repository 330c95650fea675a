package storage

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// settingsFromDocument builds Settings from a decoded TOML table. Each key is
// defaulted on its own when it is absent, of the wrong type, or out of range.
func settingsFromDocument(doc map[string]any) Settings {
	s := DefaultSettings()
	for _, key := range Keys() {
		v, present := doc[key]
		if !present {
			continue
		}
		if !validSetting(key, v) {
			log.Debugf("settings: ignoring %s = %v", key, v)
			continue
		}
		assignSetting(&s, key, v)
	}
	return s
}

// document returns s as a TOML-shaped table.
func (s Settings) document() map[string]any {
	return map[string]any{
		"target_fps":         int64(s.TargetFPS),
		"vsync":              s.Vsync,
		"clear_r":            s.ClearR,
		"clear_g":            s.ClearG,
		"clear_b":            s.ClearB,
		"show_overlay":       s.ShowOverlay,
		"resolution":         int64(s.Resolution),
		"anisotropic":        int64(s.Anisotropic),
		"ppu_decoder":        int64(s.PPUDecoder),
		"spu_decoder":        int64(s.SPUDecoder),
		"spu_threads":        int64(s.SPUThreads),
		"audio_backend":      int64(s.AudioBackend),
		"audio_latency":      int64(s.AudioLatency),
		"debug_console":      s.DebugConsole,
		"accurate_cache":     s.AccurateCache,
		"disable_frame_skip": s.DisableFrameSkip,
	}
}

func validSetting(key string, v any) bool {
	switch key {
	case "vsync", "show_overlay", "debug_console", "accurate_cache", "disable_frame_skip":
		_, ok := v.(bool)
		return ok
	case "clear_r", "clear_g", "clear_b":
		f, ok := asFloat(v)
		return ok && f >= 0 && f <= 1
	case "target_fps":
		n, ok := asInt(v)
		return ok && (n == 30 || n == 45 || n == 60 || n == 120)
	case "resolution":
		return intInRange(v, 0, 3)
	case "anisotropic":
		return intInRange(v, 0, 5)
	case "ppu_decoder", "spu_decoder":
		return intInRange(v, 0, 1)
	case "spu_threads":
		return intInRange(v, 1, 6)
	case "audio_backend":
		return intInRange(v, 0, 2)
	case "audio_latency":
		n, ok := asInt(v)
		return ok && n >= 20 && n <= 100 && n%20 == 0
	}
	return false
}

func assignSetting(s *Settings, key string, v any) {
	switch key {
	case "vsync":
		s.Vsync = v.(bool)
	case "show_overlay":
		s.ShowOverlay = v.(bool)
	case "debug_console":
		s.DebugConsole = v.(bool)
	case "accurate_cache":
		s.AccurateCache = v.(bool)
	case "disable_frame_skip":
		s.DisableFrameSkip = v.(bool)
	case "clear_r":
		s.ClearR, _ = asFloat(v)
	case "clear_g":
		s.ClearG, _ = asFloat(v)
	case "clear_b":
		s.ClearB, _ = asFloat(v)
	case "target_fps":
		s.TargetFPS, _ = asInt(v)
	case "resolution":
		s.Resolution, _ = asInt(v)
	case "anisotropic":
		s.Anisotropic, _ = asInt(v)
	case "ppu_decoder":
		s.PPUDecoder, _ = asInt(v)
	case "spu_decoder":
		s.SPUDecoder, _ = asInt(v)
	case "spu_threads":
		s.SPUThreads, _ = asInt(v)
	case "audio_backend":
		s.AudioBackend, _ = asInt(v)
	case "audio_latency":
		s.AudioLatency, _ = asInt(v)
	}
}

// ValidateSettings checks every field against its valid range and returns
// human-readable error descriptions. An empty slice means the settings are
// valid.
func ValidateSettings(s Settings) []string {
	var errors []string
	doc := s.document()
	for _, key := range Keys() {
		if !validSetting(key, doc[key]) {
			errors = append(errors, fmt.Sprintf("%s: %v (valid: %s)", key, doc[key], settingRange(key)))
		}
	}
	return errors
}

// CorrectSettings resets any invalid field to its default.
func CorrectSettings(s Settings) Settings {
	return settingsFromDocument(s.document())
}

func settingRange(key string) string {
	switch key {
	case "clear_r", "clear_g", "clear_b":
		return "0.0-1.0"
	case "target_fps":
		return "30, 45, 60, 120"
	case "resolution":
		return "0-3"
	case "anisotropic":
		return "0-5"
	case "ppu_decoder", "spu_decoder":
		return "0-1"
	case "spu_threads":
		return "1-6"
	case "audio_backend":
		return "0-2"
	case "audio_latency":
		return "20-100, step 20"
	}
	return "true, false"
}

func intInRange(v any, lo, hi int) bool {
	n, ok := asInt(v)
	return ok && n >= lo && n <= hi
}

// asInt accepts TOML integers only.
func asInt(v any) (int, bool) {
	n, ok := v.(int64)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// asFloat accepts TOML floats and integers, so "clear_r = 0" is valid.
func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case int64:
		return float64(f), true
	}
	return 0, false
}
