package storage

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownSetting is returned by Settings.Set for a key that is not part of
// the settings document.
var ErrUnknownSetting = errors.New("unknown setting")

// SettingsStore reads and writes settings.toml.
type SettingsStore struct {
	path string
}

// NewSettingsStore returns a store backed by the document at path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// DefaultSettingsStore returns a store at the platform settings path.
func DefaultSettingsStore() (*SettingsStore, error) {
	path, err := GetSettingsPath()
	if err != nil {
		return nil, err
	}
	return NewSettingsStore(path), nil
}

// Path returns the document path.
func (s *SettingsStore) Path() string {
	return s.path
}

// Load returns the current settings. It never fails: a missing or unparsable
// document yields defaults, and each key that is absent, mistyped or out of
// range falls back to its own default.
func (s *SettingsStore) Load() Settings {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("failed to read settings %s: %v", s.path, err)
		}
		return DefaultSettings()
	}

	raw := map[string]any{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		log.Warnf("settings document %s is corrupt, using defaults: %v", s.path, err)
		return DefaultSettings()
	}

	return settingsFromDocument(raw)
}

// Save writes settings atomically. Last write wins.
func (s *SettingsStore) Save(settings Settings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := AtomicWriteFile(s.path, data); err != nil {
		log.Errorf("failed to save settings: %v", err)
		return err
	}
	return nil
}

// Reset removes the document so the next Load yields defaults.
func (s *SettingsStore) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}

// Keys lists the document keys in display order.
func Keys() []string {
	return []string{
		"target_fps", "vsync", "clear_r", "clear_g", "clear_b", "show_overlay",
		"resolution", "anisotropic", "ppu_decoder", "spu_decoder", "spu_threads",
		"audio_backend", "audio_latency", "debug_console", "accurate_cache",
		"disable_frame_skip",
	}
}

// Get returns the value of key formatted as text.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "target_fps":
		return strconv.Itoa(s.TargetFPS), nil
	case "vsync":
		return strconv.FormatBool(s.Vsync), nil
	case "clear_r":
		return strconv.FormatFloat(s.ClearR, 'g', -1, 64), nil
	case "clear_g":
		return strconv.FormatFloat(s.ClearG, 'g', -1, 64), nil
	case "clear_b":
		return strconv.FormatFloat(s.ClearB, 'g', -1, 64), nil
	case "show_overlay":
		return strconv.FormatBool(s.ShowOverlay), nil
	case "resolution":
		return strconv.Itoa(s.Resolution), nil
	case "anisotropic":
		return strconv.Itoa(s.Anisotropic), nil
	case "ppu_decoder":
		return strconv.Itoa(s.PPUDecoder), nil
	case "spu_decoder":
		return strconv.Itoa(s.SPUDecoder), nil
	case "spu_threads":
		return strconv.Itoa(s.SPUThreads), nil
	case "audio_backend":
		return strconv.Itoa(s.AudioBackend), nil
	case "audio_latency":
		return strconv.Itoa(s.AudioLatency), nil
	case "debug_console":
		return strconv.FormatBool(s.DebugConsole), nil
	case "accurate_cache":
		return strconv.FormatBool(s.AccurateCache), nil
	case "disable_frame_skip":
		return strconv.FormatBool(s.DisableFrameSkip), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}

// Set parses value and assigns it to key. The value must also be within the
// key's valid range.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var parsed any
	switch key {
	case "vsync", "show_overlay", "debug_console", "accurate_cache", "disable_frame_skip":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
		}
		parsed = b
	case "clear_r", "clear_g", "clear_b":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
		}
		parsed = f
	case "target_fps", "resolution", "anisotropic", "ppu_decoder", "spu_decoder",
		"spu_threads", "audio_backend", "audio_latency":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
		}
		parsed = n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	if !validSetting(key, parsed) {
		return fmt.Errorf("invalid value %q for %s (valid: %s)", value, key, settingRange(key))
	}
	assignSetting(s, key, parsed)
	return nil
}

var resolutionNames = []string{"1x", "2x", "3x", "4x"}
var anisotropicNames = []string{"auto", "off", "2x", "4x", "8x", "16x"}
var ppuDecoderNames = []string{"interpreter", "llvm"}
var spuDecoderNames = []string{"interpreter", "asmjit"}
var audioBackendNames = []string{"cubeb", "opensl", "null"}

// Options renders the advanced settings as native core option strings.
func (s Settings) Options() map[string]string {
	return map[string]string{
		"resolution_scale":   pick(resolutionNames, s.Resolution),
		"anisotropic_filter": pick(anisotropicNames, s.Anisotropic),
		"ppu_decoder":        pick(ppuDecoderNames, s.PPUDecoder),
		"spu_decoder":        pick(spuDecoderNames, s.SPUDecoder),
		"spu_threads":        strconv.Itoa(s.SPUThreads),
		"audio_backend":      pick(audioBackendNames, s.AudioBackend),
		"audio_latency_ms":   strconv.Itoa(s.AudioLatency),
		"debug_console":      strconv.FormatBool(s.DebugConsole),
		"accurate_cache":     strconv.FormatBool(s.AccurateCache),
		"frame_skip":         strconv.FormatBool(!s.DisableFrameSkip),
	}
}

func pick(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return names[0]
	}
	return names[i]
}

// Choices lists the values key can take as text, in the order a settings
// control cycles through them. Clear colour components are offered in
// coarse steps; Set accepts any value in range.
func Choices(key string) []string {
	switch key {
	case "vsync", "show_overlay", "debug_console", "accurate_cache", "disable_frame_skip":
		return []string{"true", "false"}
	case "clear_r", "clear_g", "clear_b":
		return []string{"0", "0.03", "0.08", "0.15", "0.25", "0.5", "0.75", "1"}
	case "target_fps":
		return []string{"30", "45", "60", "120"}
	case "resolution":
		return intChoices(0, 3, 1)
	case "anisotropic":
		return intChoices(0, 5, 1)
	case "ppu_decoder", "spu_decoder":
		return intChoices(0, 1, 1)
	case "spu_threads":
		return intChoices(1, 6, 1)
	case "audio_backend":
		return intChoices(0, 2, 1)
	case "audio_latency":
		return intChoices(20, 100, 20)
	}
	return nil
}

func intChoices(lo, hi, step int) []string {
	var out []string
	for n := lo; n <= hi; n += step {
		out = append(out, strconv.Itoa(n))
	}
	return out
}

// Next returns the choice following the current value of key, wrapping
// around. A current value that is not one of the choices yields the first.
func (s Settings) Next(key string) (string, error) {
	cur, err := s.Get(key)
	if err != nil {
		return "", err
	}
	choices := Choices(key)
	for i, c := range choices {
		if c == cur {
			return choices[(i+1)%len(choices)], nil
		}
	}
	return choices[0], nil
}

// Display returns the value of key the way a user sees it: enumerated
// settings by name and booleans as On/Off.
func (s Settings) Display(key string) string {
	switch key {
	case "resolution":
		return pick(resolutionNames, s.Resolution)
	case "anisotropic":
		return pick(anisotropicNames, s.Anisotropic)
	case "ppu_decoder":
		return pick(ppuDecoderNames, s.PPUDecoder)
	case "spu_decoder":
		return pick(spuDecoderNames, s.SPUDecoder)
	case "audio_backend":
		return pick(audioBackendNames, s.AudioBackend)
	case "audio_latency":
		return strconv.Itoa(s.AudioLatency) + " ms"
	}
	v, err := s.Get(key)
	if err != nil {
		return ""
	}
	switch v {
	case "true":
		return "On"
	case "false":
		return "Off"
	}
	return v
}
