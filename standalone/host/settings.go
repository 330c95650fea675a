package host

import (
	"github.com/charmbracelet/log"
	euiimage "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/nikitaolenych123-coder/pxs3c/standalone"
	"github.com/nikitaolenych123-coder/pxs3c/standalone/style"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
)

const (
	statusSettingsSaved  = "Settings saved"
	statusSettingsFailed = "Failed to save settings"
)

var settingNames = map[string]string{
	"target_fps":         "Target FPS",
	"vsync":              "VSync",
	"clear_r":            "Clear red",
	"clear_g":            "Clear green",
	"clear_b":            "Clear blue",
	"show_overlay":       "FPS overlay",
	"resolution":         "Resolution scale",
	"anisotropic":        "Anisotropic filter",
	"ppu_decoder":        "PPU decoder",
	"spu_decoder":        "SPU decoder",
	"spu_threads":        "SPU threads",
	"audio_backend":      "Audio backend",
	"audio_latency":      "Audio latency",
	"debug_console":      "Debug console",
	"accurate_cache":     "Accurate cache",
	"disable_frame_skip": "Disable frame skip",
}

// settingsPanel edits a pending copy of the settings. Nothing is persisted
// or pushed to the core until Save.
type settingsPanel struct {
	app     *standalone.App
	onSaved func(storage.Settings)

	pending   storage.Settings
	container *widget.Container
	buttons   map[string]*widget.Button
}

func newSettingsPanel(app *standalone.App, onSaved func(storage.Settings)) *settingsPanel {
	return &settingsPanel{app: app, onSaved: onSaved}
}

func (p *settingsPanel) build() *widget.Container {
	p.pending = p.app.Settings()
	p.buttons = make(map[string]*widget.Button, len(storage.Keys()))

	p.container = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(euiimage.NewNineSliceColor(style.Surface)),
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Stretch([]bool{true}, []bool{false, true, false}),
			widget.GridLayoutOpts.Padding(widget.NewInsetsSimple(style.Spacing)),
			widget.GridLayoutOpts.Spacing(0, style.Spacing),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(style.LibraryWidth, 0),
		),
	)
	p.container.AddChild(style.Label("Settings", style.Text))

	rows := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
		)),
	)
	for i, key := range storage.Keys() {
		btn := style.ListRowButton(settingText(p.pending, key), i, func(*widget.ButtonClickedEventArgs) {
			p.advance(key)
		})
		p.buttons[key] = btn
		rows.AddChild(btn)
	}
	_, wrapper := style.ScrollableList(rows)
	p.container.AddChild(wrapper)

	actions := style.ButtonRow()
	actions.AddChild(style.PrimaryTextButton("Save", func(*widget.ButtonClickedEventArgs) {
		p.save()
	}))
	actions.AddChild(style.TextButton("Revert", func(*widget.ButtonClickedEventArgs) {
		p.reset(p.app.Settings())
	}))
	actions.AddChild(style.TextButton("Defaults", func(*widget.ButtonClickedEventArgs) {
		p.reset(storage.DefaultSettings())
	}))
	p.container.AddChild(actions)

	return p.container
}

// advance moves key to its next choice.
func (p *settingsPanel) advance(key string) {
	next, err := p.pending.Next(key)
	if err == nil {
		err = p.pending.Set(key, next)
	}
	if err != nil {
		log.Warnf("failed to change %s: %v", key, err)
		return
	}
	p.buttons[key].SetText(settingText(p.pending, key))
}

func (p *settingsPanel) reset(s storage.Settings) {
	p.pending = s
	for key, btn := range p.buttons {
		btn.SetText(settingText(s, key))
	}
}

func (p *settingsPanel) save() {
	if err := p.app.ApplySettings(p.pending); err != nil {
		log.Errorf("failed to save settings: %v", err)
		p.app.SetStatus(statusSettingsFailed)
		return
	}
	p.app.SetStatus(statusSettingsSaved)
	if p.onSaved != nil {
		p.onSaved(p.pending)
	}
}

// settingText is the label of a settings row.
func settingText(s storage.Settings, key string) string {
	name, ok := settingNames[key]
	if !ok {
		name = key
	}
	return name + ": " + s.Display(key)
}
