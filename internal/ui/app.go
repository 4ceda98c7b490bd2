package ui

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gioui.org/app"
	gfont "gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/config"
	"github.com/OpenTraceLab/OpenTraceSchem/internal/controller"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuitfile"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

const appTitle = "OpenTraceSchem"

// canvasTag identifies the drawing area for pointer events.
type canvasTag struct{}

// App is the editor window: toolbar, component palette, canvas,
// properties panel and log pane around a single controller.
type App struct {
	window *app.Window
	ops    op.Ops

	ctrl *controller.Controller

	// cfgMu guards cfg, which file pickers update from their goroutines.
	cfgMu sync.Mutex
	cfg   *config.AppConfig

	gvTheme  *theme.Theme
	darkMode bool
	colors   *SceneColors

	explorer    *explorer.Explorer
	fileMenu    *menu.DropdownMenu
	fileMenuBtn widget.Clickable

	paletteTypes  []string
	paletteClicks []widget.Clickable
	paletteIcons  map[string]*widget.Icon

	toolClicks      []widget.Clickable
	toolIcons       []*widget.Icon
	fitBtn          widget.Clickable
	gridBtn         widget.Clickable
	themeBtn        widget.Clickable
	cancelWiringBtn widget.Clickable

	canvas canvasTag

	logText       string
	logSelectable widget.Selectable
	logList       widget.List
	monoShaper    *text.Shaper

	title      string
	windowSize image.Point
	metric     unit.Metric
}

// New creates the editor window around ctrl. A nil window is allocated.
func New(w *app.Window, ctrl *controller.Controller, cfg *config.AppConfig) *App {
	if w == nil {
		w = new(app.Window)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	w.Option(app.Title(appTitle), app.Size(unit.Dp(cfg.WindowWidth), unit.Dp(cfg.WindowHeight)))

	a := &App{
		window:       w,
		ctrl:         ctrl,
		cfg:          cfg,
		gvTheme:      theme.NewTheme("", nil, true),
		darkMode:     cfg.Dark(),
		explorer:     explorer.NewExplorer(w),
		paletteTypes: catalog.Types(),
		paletteIcons: make(map[string]*widget.Icon),
	}
	a.paletteClicks = make([]widget.Clickable, len(a.paletteTypes))
	for _, typ := range a.paletteTypes {
		if icon, err := widget.NewIcon(paletteIconData(typ)); err == nil {
			a.paletteIcons[typ] = icon
		}
	}
	a.toolClicks = make([]widget.Clickable, len(controller.SimulatorActions))
	a.toolIcons = make([]*widget.Icon, len(controller.SimulatorActions))
	for i, action := range controller.SimulatorActions {
		if icon, err := widget.NewIcon(toolIconData(action)); err == nil {
			a.toolIcons[i] = icon
		}
	}

	monoFaces := filterMonoFaces()
	if len(monoFaces) > 0 {
		a.monoShaper = text.NewShaper(text.WithCollection(monoFaces), text.NoSystemFonts())
	}
	a.logSelectable.WrapPolicy = text.WrapGraphemes
	a.logList.Axis = layout.Vertical
	a.logList.ScrollToEnd = true

	a.fileMenu = a.buildFileMenu()
	a.applyPalette()

	ctrl.SetShowGrid(cfg.ShowGrid)
	ctrl.SetInvalidate(w.Invalidate)
	ctrl.Logf("[BOOT] Editor initialized")
	ctrl.Logf("[INFO] Pick a component from the palette and click on the canvas to place it")
	return a
}

// Run blocks processing window events until the window closes.
func (a *App) Run() error {
	for {
		e := a.window.Event()
		a.explorer.ListenEvents(e)
		switch ev := e.(type) {
		case app.DestroyEvent:
			a.saveConfig()
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.windowSize = ev.Size
			a.metric = gtx.Metric
			a.handleShortcuts(gtx)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	snap := a.ctrl.Snapshot()
	a.updateTitle(snap)
	a.updateLog(snap.Logs)

	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutToolbar),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return a.layoutWorkspace(gtx, snap)
		}),
		layout.Rigid(a.layoutLogPane),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.layoutStatusBar(gtx, snap)
		}),
	)
}

func (a *App) layoutWorkspace(gtx layout.Context, snap controller.Snapshot) layout.Dimensions {
	bg := a.gvTheme.Bg2
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			width := gtx.Dp(unit.Dp(190))
			gtx.Constraints.Min.X = width
			gtx.Constraints.Max.X = width
			paint.FillShape(gtx.Ops, bg, clip.Rect{Max: gtx.Constraints.Max}.Op())
			return layout.Inset{Top: unit.Dp(12), Left: unit.Dp(10), Right: unit.Dp(10)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return a.layoutPalette(gtx, snap.Mode)
			})
		}),
		layout.Flexed(1, a.layoutCanvas),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			width := gtx.Dp(unit.Dp(260))
			gtx.Constraints.Min.X = width
			gtx.Constraints.Max.X = width
			paint.FillShape(gtx.Ops, bg, clip.Rect{Max: gtx.Constraints.Max}.Op())
			return layout.UniformInset(unit.Dp(12)).Layout(gtx, a.layoutProperties)
		}),
	)
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	for i := range a.toolClicks {
		if a.toolClicks[i].Clicked(gtx) {
			a.ctrl.Toolbar(controller.SimulatorActions[i])
		}
	}
	if a.fitBtn.Clicked(gtx) {
		a.ctrl.Fit()
	}
	if a.gridBtn.Clicked(gtx) {
		a.toggleGrid()
	}
	if a.themeBtn.Clicked(gtx) {
		a.toggleTheme()
	}
	if a.fileMenuBtn.Clicked(gtx) {
		a.fileMenu.ToggleVisibility(gtx)
	}

	inset := layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6), Left: unit.Dp(8), Right: unit.Dp(8)}
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		children := []layout.FlexChild{
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				dims := material.Button(a.gvTheme.Theme, &a.fileMenuBtn, "File").Layout(gtx)
				a.fileMenu.Layout(gtx, a.gvTheme)
				return dims
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
		}
		for i, action := range controller.SimulatorActions {
			idx := i
			label := string(action)
			children = append(children,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return a.layoutToolButton(gtx, &a.toolClicks[idx], a.toolIcons[idx], label)
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			)
		}
		themeLabel := "Theme: Light"
		if a.darkMode {
			themeLabel = "Theme: Dark"
		}
		children = append(children,
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{Size: image.Pt(gtx.Constraints.Min.X, 0)}
			}),
			layout.Rigid(material.Button(a.gvTheme.Theme, &a.fitBtn, "Fit (F)").Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(material.Button(a.gvTheme.Theme, &a.gridBtn, "Grid").Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(material.Button(a.gvTheme.Theme, &a.themeBtn, themeLabel).Layout),
		)
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
	})
}

func (a *App) layoutToolButton(gtx layout.Context, click *widget.Clickable, icon *widget.Icon, label string) layout.Dimensions {
	return click.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		bg := a.gvTheme.Bg2
		if click.Hovered() {
			bg = a.selectionColor()
		}
		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				rr := gtx.Dp(unit.Dp(4))
				paint.FillShape(gtx.Ops, bg, clip.UniformRRect(image.Rectangle{Max: gtx.Constraints.Min}, rr).Op(gtx.Ops))
				return layout.Dimensions{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				return layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6), Left: unit.Dp(8), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							size := gtx.Dp(unit.Dp(18))
							gtx.Constraints.Min = image.Pt(size, size)
							gtx.Constraints.Max = gtx.Constraints.Min
							if icon == nil {
								return layout.Dimensions{Size: gtx.Constraints.Min}
							}
							return icon.Layout(gtx, a.gvTheme.Palette.Fg)
						}),
						layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
						layout.Rigid(material.Body2(a.gvTheme.Theme, label).Layout),
					)
				})
			}),
		)
	})
}

func (a *App) layoutPalette(gtx layout.Context, mode circuit.Mode) layout.Dimensions {
	pending := ""
	if m, ok := mode.(circuit.PlacementPending); ok {
		pending = m.Type
	}
	children := []layout.FlexChild{
		layout.Rigid(material.H6(a.gvTheme.Theme, "Components").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(10)}.Layout),
	}
	for i, typ := range a.paletteTypes {
		idx := i
		tag := typ
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return a.layoutPaletteItem(gtx, idx, tag, tag == pending)
			})
		}))
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func (a *App) layoutPaletteItem(gtx layout.Context, idx int, typ string, selected bool) layout.Dimensions {
	click := &a.paletteClicks[idx]
	for click.Clicked(gtx) {
		if selected {
			a.ctrl.SelectPaletteType("")
		} else {
			a.ctrl.SelectPaletteType(typ)
		}
	}

	label := typ
	if def, ok := catalog.Lookup(typ); ok {
		label = def.Name
	}
	height := gtx.Dp(unit.Dp(38))
	width := gtx.Constraints.Max.X
	size := image.Pt(width, height)

	return click.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min = size
		gtx.Constraints.Max = size
		bg := a.gvTheme.Palette.Bg
		fg := a.gvTheme.Palette.Fg
		if selected {
			bg = a.gvTheme.Palette.ContrastBg
			fg = a.gvTheme.Palette.ContrastFg
		}
		paint.FillShape(gtx.Ops, bg, clip.UniformRRect(image.Rectangle{Max: size}, gtx.Dp(unit.Dp(6))).Op(gtx.Ops))
		return layout.Inset{Left: unit.Dp(10), Right: unit.Dp(10)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					iconSize := gtx.Dp(unit.Dp(20))
					gtx.Constraints.Min = image.Pt(iconSize, iconSize)
					gtx.Constraints.Max = gtx.Constraints.Min
					icon := a.paletteIcons[typ]
					if icon == nil {
						return layout.Dimensions{Size: gtx.Constraints.Min}
					}
					return icon.Layout(gtx, fg)
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					lbl := material.Body1(a.gvTheme.Theme, label)
					lbl.Color = fg
					return lbl.Layout(gtx)
				}),
			)
		})
	})
}

func (a *App) layoutCanvas(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	a.ctrl.Resize(size.X, size.Y)

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  &a.canvas,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Move | pointer.Scroll | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		pos := geom.Pt(float64(pe.Position.X), float64(pe.Position.Y))
		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonPrimary {
				a.ctrl.PointerDown(pos)
			}
		case pointer.Drag, pointer.Move:
			a.ctrl.PointerMove(pos)
		case pointer.Release, pointer.Cancel:
			a.ctrl.PointerUp(pos)
		case pointer.Scroll:
			a.ctrl.Wheel(pos, float64(pe.Scroll.Y))
		}
	}

	// The snapshot is taken after input so the frame shows its effect.
	snap := a.ctrl.Snapshot()

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, &a.canvas)
	switch {
	case a.ctrl.Dragging():
		pointer.CursorGrabbing.Add(gtx.Ops)
	case isPlacing(snap.Mode):
		pointer.CursorCrosshair.Add(gtx.Ops)
	}
	area.Pop()

	RenderScene(gtx, a.gvTheme.Theme, snap, a.colors)
	return layout.Dimensions{Size: size}
}

func isPlacing(m circuit.Mode) bool {
	_, ok := m.(circuit.PlacementPending)
	return ok
}

func (a *App) layoutProperties(gtx layout.Context) layout.Dimensions {
	if a.cancelWiringBtn.Clicked(gtx) {
		a.ctrl.CancelWiring()
	}
	panel := a.ctrl.Panel()

	children := []layout.FlexChild{
		layout.Rigid(material.H6(a.gvTheme.Theme, panel.Title).Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
	}
	for _, line := range panel.Lines {
		children = append(children, layout.Rigid(material.Body2(a.gvTheme.Theme, line).Layout))
	}
	if panel.Hint != "" {
		children = append(children,
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(material.Caption(a.gvTheme.Theme, panel.Hint).Layout),
		)
	}
	if panel.ShowCancel {
		children = append(children,
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(material.Button(a.gvTheme.Theme, &a.cancelWiringBtn, "Cancel Wiring").Layout),
		)
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func (a *App) layoutLogPane(gtx layout.Context) layout.Dimensions {
	h := gtx.Dp(unit.Dp(140))
	gtx.Constraints.Min.Y = h
	gtx.Constraints.Max.Y = h

	size := image.Pt(gtx.Constraints.Max.X, h)
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: size}.Op())

	return layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(6), Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min = gtx.Constraints.Max
		return a.logList.Layout(gtx, 1, func(gtx layout.Context, _ int) layout.Dimensions {
			label := material.Body2(a.gvTheme.Theme, a.logText)
			label.State = &a.logSelectable
			label.WrapPolicy = text.WrapGraphemes
			label.Alignment = text.Start
			label.Font.Typeface = gfont.Typeface("Go Mono")
			if a.monoShaper != nil {
				label.Shaper = a.monoShaper
			}
			label.Color = a.opaqueFg()
			label.SelectionColor = a.selectionColor()
			return label.Layout(gtx)
		})
	})
}

func (a *App) layoutStatusBar(gtx layout.Context, snap controller.Snapshot) layout.Dimensions {
	inset := layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(6), Bottom: unit.Dp(6)}
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.Body2(a.gvTheme.Theme, statusText(snap)).Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions { return layout.Dimensions{} }),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min.X = gtx.Dp(unit.Dp(120))
				return material.Body2(a.gvTheme.Theme, "Mode: "+snap.Mode.String()).Layout(gtx)
			}),
		)
	})
}

// statusText summarises the circuit for the status bar.
func statusText(snap controller.Snapshot) string {
	return fmt.Sprintf("Components: %d | Wires: %d | Zoom: %d%%",
		len(snap.Circuit.Components), len(snap.Circuit.Wires),
		int(math.Round(snap.Circuit.View.Scale*100)))
}

// handleShortcuts processes window-wide keys.
func (a *App) handleShortcuts(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "S", Required: key.ModShortcut},
			key.Filter{Name: "O", Required: key.ModShortcut},
			key.Filter{Name: "N", Required: key.ModShortcut},
			key.Filter{Name: "T", Required: key.ModShortcut},
			key.Filter{Name: key.NameEscape},
			key.Filter{Name: key.NameDeleteForward},
			key.Filter{Name: key.NameDeleteBackward},
			key.Filter{Name: "F"},
		)
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		if ke.Modifiers.Contain(key.ModShortcut) {
			switch ke.Name {
			case "S":
				a.saveFile(false)
			case "O":
				a.openFile()
			case "N":
				a.ctrl.NewCircuit()
			case "T":
				a.toggleTheme()
			}
			continue
		}
		if name, ok := controllerKey(ke.Name); ok {
			a.ctrl.Key(name)
		}
	}
}

// controllerKey maps toolkit key names to the names the controller handles.
func controllerKey(name key.Name) (string, bool) {
	switch name {
	case key.NameEscape:
		return controller.KeyEscape, true
	case key.NameDeleteForward:
		return controller.KeyDelete, true
	case key.NameDeleteBackward:
		return controller.KeyBackspace, true
	case "F":
		return controller.KeyFit, true
	}
	return "", false
}

func (a *App) buildFileMenu() *menu.DropdownMenu {
	entries := []struct {
		label    string
		shortcut string
		action   func()
	}{
		{"New", "Ctrl+N", a.ctrl.NewCircuit},
		{"Open...", "Ctrl+O", a.openFile},
		{"Save", "Ctrl+S", func() { a.saveFile(false) }},
		{"Save As...", "", func() { a.saveFile(true) }},
	}
	opts := make([]menu.MenuOption, 0, len(entries))
	for _, entry := range entries {
		e := entry
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				e.action()
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
						layout.Flexed(1, material.Body1(th.Theme, e.label).Layout),
						layout.Rigid(material.Caption(th.Theme, e.shortcut).Layout),
					)
				})
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(220)
	return drop
}

func (a *App) openFile() {
	go func() {
		file, err := a.explorer.ChooseFile(strings.TrimPrefix(circuitfile.Extension, "."))
		if err != nil {
			if err != explorer.ErrUserDecline {
				a.ctrl.Logf("[ERROR] File picker failed: %v", err)
			}
			return
		}
		defer file.Close()

		if f, ok := file.(*os.File); ok {
			if err := a.ctrl.OpenFile(f.Name()); err == nil {
				a.rememberFile(f.Name())
			}
			return
		}
		a.ctrl.ReadFrom(file, "circuit"+circuitfile.Extension)
	}()
}

// saveFile writes to the current path, asking for one when the circuit
// has never been saved or when saveAs is set.
func (a *App) saveFile(saveAs bool) {
	if path := a.ctrl.Path(); path != "" && !saveAs {
		if err := a.ctrl.SaveFile(path); err == nil {
			a.rememberFile(path)
		}
		return
	}
	name := "circuit" + circuitfile.Extension
	if path := a.ctrl.Path(); path != "" {
		name = filepath.Base(path)
	}
	go func() {
		w, err := a.explorer.CreateFile(name)
		if err != nil {
			if err != explorer.ErrUserDecline {
				a.ctrl.Logf("[ERROR] File picker failed: %v", err)
			}
			return
		}
		defer w.Close()

		target := name
		if f, ok := w.(*os.File); ok {
			target = f.Name()
		}
		if err := a.ctrl.WriteTo(w, target); err == nil {
			a.rememberFile(target)
		}
	}()
}

func (a *App) rememberFile(path string) {
	if !filepath.IsAbs(path) {
		return
	}
	a.cfgMu.Lock()
	a.cfg.LastFile = path
	a.cfgMu.Unlock()
	a.saveConfig()
}

func (a *App) toggleTheme() {
	a.cfgMu.Lock()
	a.cfg.ToggleTheme()
	a.darkMode = a.cfg.Dark()
	a.cfgMu.Unlock()
	a.applyPalette()
	if a.darkMode {
		a.ctrl.Logf("[INFO] Theme switched to dark mode")
	} else {
		a.ctrl.Logf("[INFO] Theme switched to light mode")
	}
	a.saveConfig()
}

func (a *App) toggleGrid() {
	a.cfgMu.Lock()
	a.cfg.ShowGrid = !a.cfg.ShowGrid
	show := a.cfg.ShowGrid
	a.cfgMu.Unlock()
	a.ctrl.SetShowGrid(show)
	a.saveConfig()
}

func (a *App) saveConfig() {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	if a.windowSize.X > 0 && a.windowSize.Y > 0 && a.metric.PxPerDp > 0 {
		a.cfg.WindowWidth = int(a.metric.PxToDp(a.windowSize.X))
		a.cfg.WindowHeight = int(a.metric.PxToDp(a.windowSize.Y))
	}
	if err := config.Save(a.cfg); err != nil {
		log.Printf("ui: %v", err)
	}
}

func (a *App) applyPalette() {
	if a.darkMode {
		a.colors = GetSceneColors(ThemeDark)
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 18, G: 20, B: 26, A: 255},
			Fg:         color.NRGBA{R: 233, G: 236, B: 245, A: 255},
			ContrastBg: color.NRGBA{R: 120, G: 150, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 12, G: 16, B: 24, A: 255},
			Bg2:        color.NRGBA{R: 34, G: 40, B: 50, A: 255},
		})
	} else {
		a.colors = GetSceneColors(ThemeLight)
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 245, G: 247, B: 253, A: 255},
			Fg:         color.NRGBA{R: 34, G: 37, B: 49, A: 255},
			ContrastBg: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Bg2:        color.NRGBA{R: 225, G: 230, B: 244, A: 255},
		})
	}
	a.window.Invalidate()
}

func (a *App) updateTitle(snap controller.Snapshot) {
	title := appTitle + " - " + snap.Circuit.Name
	if snap.Path != "" {
		title = appTitle + " - " + filepath.Base(snap.Path)
	}
	if snap.Dirty {
		title += " *"
	}
	if title != a.title {
		a.title = title
		a.window.Option(app.Title(title))
	}
}

func (a *App) updateLog(logs []string) {
	txt := strings.Join(logs, "\n")
	if txt != a.logText {
		a.logText = txt
		a.logSelectable.SetText(txt)
	}
}

func (a *App) opaqueFg() color.NRGBA {
	fg := a.gvTheme.Palette.Fg
	fg.A = 0xFF
	return fg
}

func (a *App) selectionColor() color.NRGBA {
	bg := a.gvTheme.Palette.ContrastBg
	return color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 0x88}
}

func paletteIconData(typ string) []byte {
	switch typ {
	case catalog.Resistor:
		return icons.ActionSettingsInputComponent
	case catalog.LED:
		return icons.ActionLightbulbOutline
	case catalog.Capacitor:
		return icons.ActionSettingsInputComposite
	case catalog.Ground:
		return icons.ActionSettingsInputAntenna
	case catalog.VCC:
		return icons.ImageFlashOn
	case catalog.Probe:
		return icons.ActionSearch
	}
	return icons.HardwareMemory
}

func toolIconData(action controller.Action) []byte {
	switch action {
	case controller.ActionLoadHex:
		return icons.FileFileUpload
	case controller.ActionRun:
		return icons.AVPlayArrow
	case controller.ActionPause:
		return icons.AVPause
	case controller.ActionStep:
		return icons.AVSkipNext
	case controller.ActionReset:
		return icons.AVReplay
	}
	return icons.ActionBuild
}

func filterMonoFaces() []gfont.FontFace {
	var mono []gfont.FontFace
	for _, face := range gofont.Collection() {
		if face.Font.Typeface == gfont.Typeface("Go Mono") {
			mono = append(mono, face)
		}
	}
	return mono
}
