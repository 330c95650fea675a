package host

import (
	"image"

	euiimage "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
	"github.com/nikitaolenych123-coder/pxs3c/standalone"
	"github.com/nikitaolenych123-coder/pxs3c/standalone/style"
	"github.com/nikitaolenych123-coder/pxs3c/storage"
)

const statusClipboardUnavailable = "Clipboard unavailable"

// controls is the control bar, the library and settings panels and the
// status line.
type controls struct {
	app    *standalone.App
	board  *standalone.StatusBoard
	choose func(pickAction)

	inputs style.TextInputGroup

	boot    *widget.Button
	stop    *widget.Button
	status  *widget.Text
	body    *widget.Container
	left    *widget.Container
	right   *widget.Container
	surface *widget.Container
	panel   *widget.Container
	list    *widget.Container
	scroll  *widget.ScrollContainer
	filter  string

	settings     *settingsPanel
	settingsView *widget.Container
	showLibrary  bool
	showSettings bool

	state      standalone.RunState
	applied    bool
	lastStatus uint64
}

func newControls(app *standalone.App, board *standalone.StatusBoard, choose func(pickAction), onSaved func(storage.Settings)) *controls {
	return &controls{
		app:         app,
		board:       board,
		choose:      choose,
		settings:    newSettingsPanel(app, onSaved),
		showLibrary: true,
	}
}

// build creates the widget tree. It is called again after a DPI change.
func (c *controls) build() *widget.Container {
	c.inputs = style.TextInputGroup{}
	c.lastStatus = ^uint64(0)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Stretch([]bool{true}, []bool{false, true, false}),
		)),
	)
	root.AddChild(c.buildBar())
	root.AddChild(c.buildBody())
	root.AddChild(c.buildStatusLine())

	c.applied = false
	c.applyState(c.app.RunState())
	c.refreshLibrary()
	return root
}

func (c *controls) buildBar() *widget.Container {
	bar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(euiimage.NewNineSliceColor(style.Surface)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(style.Spacing)),
			widget.RowLayoutOpts.Spacing(style.Spacing),
		)),
	)

	bar.AddChild(style.PrimaryTextButton("Load Game", func(*widget.ButtonClickedEventArgs) {
		c.choose(pickLoad)
	}))
	bar.AddChild(style.TextButton("Add to Library", func(*widget.ButtonClickedEventArgs) {
		c.choose(pickAdd)
	}))
	bar.AddChild(style.TextButton("Scan Folder", func(*widget.ButtonClickedEventArgs) {
		c.choose(pickScan)
	}))
	c.boot = style.TextButton(bootLabel(standalone.RunState{}), func(*widget.ButtonClickedEventArgs) {
		c.app.Toggle()
	})
	bar.AddChild(c.boot)
	c.stop = style.TextButton("Stop", func(*widget.ButtonClickedEventArgs) {
		c.app.Stop()
	})
	bar.AddChild(c.stop)
	bar.AddChild(style.TextButton("Library", func(*widget.ButtonClickedEventArgs) {
		c.showLibrary = !c.showLibrary
		c.applyPanelVisibility()
	}))
	bar.AddChild(style.TextButton("Settings", func(*widget.ButtonClickedEventArgs) {
		c.showSettings = !c.showSettings
		c.applyPanelVisibility()
	}))
	bar.AddChild(style.TextButton("Copy Status", func(*widget.ButtonClickedEventArgs) {
		if !style.CopyText(c.board.Snapshot().Status) {
			c.app.SetStatus(statusClipboardUnavailable)
		}
	}))
	return bar
}

// buildBody lays out the library panel, the surface area and the settings
// panel in three columns. A hidden panel is removed from its slot so the
// column collapses.
func (c *controls) buildBody() *widget.Container {
	c.body = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(3),
			widget.GridLayoutOpts.Stretch([]bool{false, true, false}, []bool{true}),
		)),
	)
	c.left = panelSlot()
	c.surface = widget.NewContainer()
	c.right = panelSlot()
	c.body.AddChild(c.left)
	c.body.AddChild(c.surface)
	c.body.AddChild(c.right)

	c.panel = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(euiimage.NewNineSliceColor(style.Surface)),
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Stretch([]bool{true}, []bool{false, false, true}),
			widget.GridLayoutOpts.Padding(widget.NewInsetsSimple(style.Spacing)),
			widget.GridLayoutOpts.Spacing(0, style.Spacing),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(style.LibraryWidth, 0),
		),
	)
	c.panel.AddChild(style.Label("Library", style.Text))

	search := style.TextInput("Filter by title or file", func(text string) {
		c.filter = text
		c.refreshLibrary()
	})
	search.SetText(c.filter)
	c.inputs.Add(search)
	c.panel.AddChild(search)

	c.list = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
		)),
	)
	var wrapper widget.PreferredSizeLocateableWidget
	c.scroll, wrapper = style.ScrollableList(c.list)
	c.panel.AddChild(wrapper)

	c.settingsView = c.settings.build()

	c.applyPanelVisibility()
	return c.body
}

// panelSlot holds at most one panel and stretches it to the slot.
func panelSlot() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Stretch([]bool{true}, []bool{true}),
		)),
	)
}

func (c *controls) buildStatusLine() *widget.Container {
	line := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(euiimage.NewNineSliceColor(style.Surface)),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(
			widget.AnchorLayoutOpts.Padding(widget.NewInsetsSimple(style.Spacing)),
		)),
	)
	c.status = style.Label("", style.TextSecondary)
	line.AddChild(c.status)
	return line
}

func (c *controls) applyPanelVisibility() {
	if c.left == nil {
		return
	}
	c.left.RemoveChildren()
	if c.showLibrary {
		c.left.AddChild(c.panel)
	}
	c.right.RemoveChildren()
	if c.showSettings {
		c.right.AddChild(c.settingsView)
	}
	c.body.RequestRelayout()
}

// surfaceArea is the part of the body not covered by a panel.
func (c *controls) surfaceArea() image.Rectangle {
	if c.surface == nil {
		return image.Rectangle{}
	}
	return c.surface.GetWidget().Rect
}

// refreshLibrary rebuilds the list rows from the store and the filter.
func (c *controls) refreshLibrary() {
	if c.list == nil {
		return
	}
	c.list.RemoveChildren()

	entries := storage.Filter(c.app.Library(), c.filter)
	if len(entries) == 0 {
		msg := "No games yet. Use Add to Library."
		if c.filter != "" {
			msg = "No matches"
		}
		c.list.AddChild(style.Label(msg, style.TextSecondary))
	}
	for i, e := range entries {
		locator := e.Locator
		c.list.AddChild(style.ListRowButton(entryLabel(e), i, func(*widget.ButtonClickedEventArgs) {
			c.app.Load(locator)
		}))
	}
	c.scroll.ScrollTop = 0
}

// update refreshes labels from the latest run state and status.
func (c *controls) update(st standalone.RunState) {
	c.applyState(st)

	snap := c.board.Snapshot()
	if snap.Version != c.lastStatus {
		c.lastStatus = snap.Version
		c.status.Label = snap.Status
	}
}

func (c *controls) applyState(st standalone.RunState) {
	if c.applied && st == c.state {
		return
	}
	c.applied = true
	c.state = st
	c.boot.SetText(bootLabel(st))
	c.boot.GetWidget().Disabled = !st.Ready
	c.stop.GetWidget().Disabled = !st.Loaded
}

// bootLabel names what the boot button will do next.
func bootLabel(st standalone.RunState) string {
	switch {
	case !st.Loaded:
		return "Boot Game"
	case st.Running:
		return "Pause"
	default:
		return "Resume"
	}
}

func kindLabel(k emucore.ContentKind) string {
	switch k {
	case emucore.KindExecutable:
		return "Executable"
	case emucore.KindDiscImage:
		return "Disc image"
	default:
		return "Unsupported"
	}
}

// entryLabel is the text of a library row.
func entryLabel(e storage.CatalogEntry) string {
	return e.Title + "  ·  " + kindLabel(e.Kind)
}
