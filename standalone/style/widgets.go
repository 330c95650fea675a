package style

import (
	"image/color"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
)

// ButtonImage is the image set of an ordinary button.
func ButtonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(Surface),
		Hover:    image.NewNineSliceColor(PrimaryHover),
		Pressed:  image.NewNineSliceColor(Primary),
		Disabled: image.NewNineSliceColor(Border),
	}
}

// PrimaryButtonImage is the image set of the main action on a bar.
func PrimaryButtonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(Primary),
		Hover:    image.NewNineSliceColor(PrimaryHover),
		Pressed:  image.NewNineSliceColor(Surface),
		Disabled: image.NewNineSliceColor(Border),
	}
}

// ButtonTextColor is the label colour set for buttons.
func ButtonTextColor() *widget.ButtonTextColor {
	return &widget.ButtonTextColor{
		Idle:     Text,
		Disabled: TextSecondary,
	}
}

// TextButton creates a button with a text label.
func TextButton(label string, handler func(*widget.ButtonClickedEventArgs)) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(ButtonImage()),
		widget.ButtonOpts.Text(label, FontFace(), ButtonTextColor()),
		widget.ButtonOpts.TextPadding(widget.NewInsetsSimple(ButtonPadding)),
		widget.ButtonOpts.ClickedHandler(handler),
	)
}

// PrimaryTextButton creates a prominent button with a text label.
func PrimaryTextButton(label string, handler func(*widget.ButtonClickedEventArgs)) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(PrimaryButtonImage()),
		widget.ButtonOpts.Text(label, FontFace(), ButtonTextColor()),
		widget.ButtonOpts.TextPadding(widget.NewInsetsSimple(ButtonPadding)),
		widget.ButtonOpts.ClickedHandler(handler),
	)
}

// ListRowButton creates a full-width, left-aligned button for a list row.
func ListRowButton(label string, index int, handler func(*widget.ButtonClickedEventArgs)) *widget.Button {
	bg := AlternatingRowColor(index)
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(bg),
			Hover:    image.NewNineSliceColor(PrimaryHover),
			Pressed:  image.NewNineSliceColor(Primary),
			Disabled: image.NewNineSliceColor(Border),
		}),
		widget.ButtonOpts.Text(label, FontFace(), ButtonTextColor()),
		widget.ButtonOpts.TextPosition(widget.TextPositionStart, widget.TextPositionCenter),
		widget.ButtonOpts.TextPadding(widget.NewInsetsSimple(ButtonPadding)),
		widget.ButtonOpts.ClickedHandler(handler),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
			widget.WidgetOpts.MinSize(0, RowHeight),
		),
	)
}

// AlternatingRowColor returns Background for even rows and Surface for odd.
func AlternatingRowColor(index int) color.Color {
	if index%2 == 0 {
		return Background
	}
	return Surface
}

// ButtonRow creates a horizontal container for a bar of buttons.
func ButtonRow() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(Spacing),
		)),
	)
}

// Label creates a single line of text.
func Label(s string, c color.Color) *widget.Text {
	return widget.NewText(
		widget.TextOpts.Text(s, FontFace(), c),
		widget.TextOpts.Position(widget.TextPositionStart, widget.TextPositionCenter),
	)
}

// ScrollableList wraps content in a scroll container with a vertical
// slider and mouse wheel support. It returns the scroll container and the
// widget to place in a layout.
func ScrollableList(content *widget.Container) (*widget.ScrollContainer, widget.PreferredSizeLocateableWidget) {
	sc := widget.NewScrollContainer(
		widget.ScrollContainerOpts.Content(content),
		widget.ScrollContainerOpts.StretchContentWidth(),
		widget.ScrollContainerOpts.Image(&widget.ScrollContainerImage{
			Idle: image.NewNineSliceColor(Background),
			Mask: image.NewNineSliceColor(Background),
		}),
	)

	needsScroll := func() bool {
		content, view := sc.ContentRect().Dy(), sc.ViewRect().Dy()
		return content > 0 && view > 0 && content > view
	}

	slider := widget.NewSlider(
		widget.SliderOpts.Direction(widget.DirectionVertical),
		widget.SliderOpts.MinMax(0, 1000),
		widget.SliderOpts.Images(
			&widget.SliderTrackImage{
				Idle:  image.NewNineSliceColor(Border),
				Hover: image.NewNineSliceColor(Border),
			},
			&widget.ButtonImage{
				Idle:     image.NewNineSliceColor(Primary),
				Hover:    image.NewNineSliceColor(PrimaryHover),
				Pressed:  image.NewNineSliceColor(Primary),
				Disabled: image.NewNineSliceColor(Border),
			},
		),
		widget.SliderOpts.FixedHandleSize(SliderHandle),
		widget.SliderOpts.PageSizeFunc(func() int {
			if !needsScroll() {
				return 1000
			}
			return int(float64(sc.ViewRect().Dy()) / float64(sc.ContentRect().Dy()) * 1000)
		}),
		widget.SliderOpts.ChangedHandler(func(args *widget.SliderChangedEventArgs) {
			if !needsScroll() {
				sc.ScrollTop = 0
				return
			}
			sc.ScrollTop = float64(args.Current) / 1000
		}),
	)

	sc.GetWidget().ScrolledEvent.AddHandler(func(args interface{}) {
		if !needsScroll() {
			sc.ScrollTop = 0
			return
		}
		a := args.(*widget.WidgetScrolledEventArgs)
		p := sc.ScrollTop + a.Y*ScrollWheelSensitivity
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		sc.ScrollTop = p
		slider.Current = int(p * 1000)
	})

	wrapper := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(2),
			widget.GridLayoutOpts.Stretch([]bool{true, false}, []bool{true}),
			widget.GridLayoutOpts.Spacing(Px(4), 0),
		)),
	)
	wrapper.AddChild(sc)
	wrapper.AddChild(slider)
	return sc, wrapper
}

// TextInput creates a single-line text field.
func TextInput(placeholder string, onChange func(string)) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(Surface),
			Disabled: image.NewNineSliceColor(Border),
		}),
		widget.TextInputOpts.Face(FontFace()),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          Text,
			Disabled:      TextSecondary,
			Caret:         Text,
			DisabledCaret: TextSecondary,
		}),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(Spacing)),
		widget.TextInputOpts.Placeholder(placeholder),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			if onChange != nil {
				onChange(args.InputText)
			}
		}),
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
		),
	)
}

var (
	clipboardReady bool
	clipboardTried bool
)

// initClipboard initialises the system clipboard once. It reports whether
// the clipboard can be used.
func initClipboard() bool {
	if !clipboardTried {
		clipboardTried = true
		if err := clipboard.Init(); err != nil {
			log.Warnf("clipboard unavailable: %v", err)
		} else {
			clipboardReady = true
		}
	}
	return clipboardReady
}

// CopyText puts s on the system clipboard. It reports false when no
// clipboard is available.
func CopyText(s string) bool {
	if !initClipboard() {
		return false
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return true
}

// TextInputGroup adds clipboard shortcuts to a set of text inputs. Call
// Update once per frame.
type TextInputGroup struct {
	inputs []*widget.TextInput
}

// Add registers input with the group.
func (g *TextInputGroup) Add(input *widget.TextInput) {
	g.inputs = append(g.inputs, input)
}

// Focused reports whether any input in the group has focus.
func (g *TextInputGroup) Focused() bool {
	return g.focused() != nil
}

func (g *TextInputGroup) focused() *widget.TextInput {
	for _, input := range g.inputs {
		if input != nil && input.IsFocused() {
			return input
		}
	}
	return nil
}

// Update handles Ctrl/Cmd with A, C, V and X for the focused input.
func (g *TextInputGroup) Update() {
	if !ModifierPressed() {
		return
	}
	focused := g.focused()
	if focused == nil {
		return
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		focused.SelectAll()
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		if !initClipboard() {
			return
		}
		if b := clipboard.Read(clipboard.FmtText); b != nil {
			focused.DeleteSelectedText()
			focused.Insert(string(b))
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if selected := focused.SelectedText(); selected != "" {
			CopyText(selected)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		if selected := focused.SelectedText(); selected != "" && CopyText(selected) {
			focused.DeleteSelectedText()
		}
	}
}

// ModifierPressed reports whether the platform shortcut modifier is held,
// Cmd on macOS and Ctrl elsewhere.
func ModifierPressed() bool {
	if runtime.GOOS == "darwin" {
		return ebiten.IsKeyPressed(ebiten.KeyMeta)
	}
	return ebiten.IsKeyPressed(ebiten.KeyControl)
}
