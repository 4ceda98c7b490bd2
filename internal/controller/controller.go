// Package controller turns window input into circuit editor operations.
//
// The controller owns the editor, the drag gesture in progress and the log
// shown in the window. It has no dependency on the windowing toolkit so the
// routing rules can be exercised directly from tests.
package controller

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuitfile"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/viewport"
)

// DefaultCircuitName is the name given to new circuits.
const DefaultCircuitName = "Main Circuit"

type dragKind int

const (
	dragNone dragKind = iota
	dragComponent
	dragPan
)

// drag is the gesture between pointer-down and pointer-up.
type drag struct {
	kind dragKind
	id   string     // Component being moved
	grab geom.Point // Pointer position relative to the component origin (model)
	last geom.Point // Last pointer position (screen)
}

// Snapshot is an immutable copy of what the window needs to draw a frame.
type Snapshot struct {
	Circuit  circuit.Circuit
	Mode     circuit.Mode
	Camera   viewport.Camera
	Pointer  geom.Point // Last pointer position in model coordinates
	ShowGrid bool
	Path     string
	Dirty    bool
	Logs     []string
}

// Controller serialises every editor operation behind a mutex. The window's
// event loop calls it on every frame; file pickers call it from their own
// goroutines.
type Controller struct {
	mu sync.Mutex

	editor *circuit.Editor
	screen struct{ w, h int }
	drag   drag

	pointer  geom.Point
	showGrid bool
	path     string
	dirty    bool

	logs     []string
	logLimit int

	invalidate func()
}

// New returns a controller editing c.
func New(c circuit.Circuit) *Controller {
	return &Controller{
		editor:     circuit.NewEditor(c),
		showGrid:   true,
		logLimit:   200,
		invalidate: func() {},
	}
}

// SetInvalidate registers the function used to request a redraw.
func (c *Controller) SetInvalidate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn == nil {
		fn = func() {}
	}
	c.invalidate = fn
}

// Snapshot returns a copy of the state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	logs := make([]string, len(c.logs))
	copy(logs, c.logs)
	return Snapshot{
		Circuit:  c.editor.Circuit(),
		Mode:     c.editor.Mode(),
		Camera:   c.camera(),
		Pointer:  c.pointer,
		ShowGrid: c.showGrid,
		Path:     c.path,
		Dirty:    c.dirty,
		Logs:     logs,
	}
}

// Circuit returns the current circuit snapshot.
func (c *Controller) Circuit() circuit.Circuit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.Circuit()
}

// Mode returns the current interaction mode.
func (c *Controller) Mode() circuit.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.Mode()
}

// Logf appends a timestamped entry to the in-window log.
func (c *Controller) Logf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logf(format, args...)
}

func (c *Controller) logf(format string, args ...any) {
	prefix := time.Now().Format(time.Stamp)
	entry := fmt.Sprintf("[%s] %s", prefix, fmt.Sprintf(format, args...))
	c.logs = append(c.logs, entry)
	if len(c.logs) > c.logLimit {
		c.logs = c.logs[len(c.logs)-c.logLimit:]
	}
	c.invalidate()
}

// Logs returns a copy of the log entries.
func (c *Controller) Logs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.logs))
	copy(out, c.logs)
	return out
}

// Resize updates the canvas size in pixels.
func (c *Controller) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.w, c.screen.h = width, height
}

// SetShowGrid toggles the background grid.
func (c *Controller) SetShowGrid(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showGrid = show
	c.invalidate()
}

func (c *Controller) camera() viewport.Camera {
	return viewport.NewCamera(c.editor.Circuit().View, c.screen.w, c.screen.h)
}

func (c *Controller) setView(v circuit.ViewTransform) {
	c.editor.SetViewTransform(v.Scale, v.Offset)
}

// changed marks the circuit as modified and requests a redraw.
func (c *Controller) changed() {
	c.dirty = true
	c.invalidate()
}

// SelectPaletteType arms placement of typeTag. An empty tag clears it.
func (c *Controller) SelectPaletteType(typeTag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag = drag{}
	c.editor.SelectComponentType(typeTag)
	c.invalidate()
}

// CancelWiring abandons the wire in progress.
func (c *Controller) CancelWiring() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editor.IsWiring() {
		c.editor.CancelWiring()
		c.logf("[INFO] Wiring cancelled")
	}
}

// Fit scales and centers the view on the circuit.
func (c *Controller) Fit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fit()
}

func (c *Controller) fit() {
	bbox := c.editor.Circuit().Bounds()
	if bbox.IsEmpty() {
		return
	}
	c.setView(c.camera().Fit(bbox.Inflate(20)))
	c.invalidate()
}

// Action is a toolbar button without a dedicated editor operation.
type Action string

// Toolbar actions of the simulator controls. None of them is implemented;
// they only log.
const (
	ActionLoadHex Action = "Load HEX"
	ActionRun     Action = "Run"
	ActionPause   Action = "Pause"
	ActionStep    Action = "Step"
	ActionReset   Action = "Reset"
)

// SimulatorActions lists the toolbar actions in display order.
var SimulatorActions = []Action{ActionLoadHex, ActionRun, ActionPause, ActionStep, ActionReset}

// Toolbar handles a simulator toolbar button. It never changes the circuit.
func (c *Controller) Toolbar(a Action) {
	c.Logf("[INFO] %s: not implemented", a)
}

// NewCircuit replaces the circuit with an empty one.
func (c *Controller) NewCircuit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(circuit.New(DefaultCircuitName), "")
	c.logf("[INFO] New circuit")
}

// Load replaces the circuit with one read from path.
func (c *Controller) Load(loaded circuit.Circuit, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(loaded, path)
}

func (c *Controller) load(loaded circuit.Circuit, path string) {
	c.editor.Load(loaded)
	c.drag = drag{}
	c.path = path
	c.dirty = false
	c.invalidate()
}

// OpenFile loads a circuit file from disk.
func (c *Controller) OpenFile(path string) error {
	loaded, err := circuitfile.Load(path)
	if err == nil {
		err = loaded.Validate()
	}
	if err != nil {
		c.Logf("[ERROR] Failed to open %s: %v", path, err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(loaded, path)
	c.logf("[INFO] Loaded %s: %d components, %d wires",
		filepath.Base(path), len(loaded.Components), len(loaded.Wires))
	return nil
}

// ReadFrom loads a circuit from r, recording name as its path.
func (c *Controller) ReadFrom(r io.Reader, name string) error {
	loaded, err := circuitfile.Decode(r)
	if err == nil {
		err = loaded.Validate()
	}
	if err != nil {
		c.Logf("[ERROR] Failed to open %s: %v", name, err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load(loaded, name)
	c.logf("[INFO] Loaded %s: %d components, %d wires",
		filepath.Base(name), len(loaded.Components), len(loaded.Wires))
	return nil
}

// SaveFile writes the circuit to path and remembers it.
func (c *Controller) SaveFile(path string) error {
	snap := c.Circuit()
	if err := circuitfile.Save(path, snap); err != nil {
		c.Logf("[ERROR] Failed to save %s: %v", path, err)
		return err
	}
	c.markSaved(path)
	return nil
}

// WriteTo writes the circuit to w, recording name as its path.
func (c *Controller) WriteTo(w io.Writer, name string) error {
	snap := c.Circuit()
	if err := circuitfile.Encode(w, snap); err != nil {
		c.Logf("[ERROR] Failed to save %s: %v", name, err)
		return err
	}
	c.markSaved(name)
	return nil
}

func (c *Controller) markSaved(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = path
	c.dirty = false
	c.logf("[INFO] Saved %s", filepath.Base(path))
}

// Path returns the file the circuit was loaded from or saved to.
func (c *Controller) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}
