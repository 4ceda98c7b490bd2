package script

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/viewport"
)

// ErrUnknownRef is returned when a reference or pin name does not resolve.
var ErrUnknownRef = errors.New("script: unknown reference")

// Warning records a command the editor rejected. Rejections do not stop a
// script, in the same way they are silent in the editor window.
type Warning struct {
	Line int
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %v", w.Line, w.Err)
}

// Runner executes scripts against an editor.
type Runner struct {
	editor   *circuit.Editor
	aliases  map[string]string
	Warnings []Warning
}

// NewRunner creates a runner that drives e.
func NewRunner(e *circuit.Editor) *Runner {
	return &Runner{editor: e, aliases: make(map[string]string)}
}

// Editor returns the editor driven by the runner.
func (r *Runner) Editor() *circuit.Editor {
	return r.editor
}

// Alias returns the component id bound to an alias.
func (r *Runner) Alias(name string) (string, bool) {
	id, ok := r.aliases[name]
	return id, ok
}

// RunString parses and executes a script.
func (r *Runner) RunString(src string) error {
	p, err := NewParser()
	if err != nil {
		return err
	}
	s, err := p.ParseString(src)
	if err != nil {
		return err
	}
	return r.Run(s)
}

// Run executes every command of s in order. It stops at the first command
// that refers to something that does not exist.
func (r *Runner) Run(s *Script) error {
	for _, cmd := range s.Commands() {
		if err := r.Exec(cmd); err != nil {
			return fmt.Errorf("line %d: %w", cmd.Pos.Line, err)
		}
	}
	return nil
}

// Exec executes a single command.
func (r *Runner) Exec(cmd *Command) error {
	e := r.editor
	switch {
	case cmd.Place != nil:
		id, err := e.AddComponent(cmd.Place.Type, cmd.Place.X, cmd.Place.Y)
		if err != nil {
			r.warn(cmd, err)
			return nil
		}
		if cmd.Place.Alias != "" {
			r.aliases[cmd.Place.Alias] = id
		}

	case cmd.Move != nil:
		r.warn(cmd, e.MoveComponent(r.ref(cmd.Move.Ref), cmd.Move.X, cmd.Move.Y))

	case cmd.Remove != nil:
		e.RemoveComponent(r.ref(cmd.Remove.Ref))

	case cmd.Select != nil:
		if cmd.Select.Ref == "none" {
			e.SelectComponent("")
		} else {
			e.SelectComponent(r.ref(cmd.Select.Ref))
		}

	case cmd.Palette != nil:
		if cmd.Palette.Type == "none" {
			e.SelectComponentType("")
		} else {
			e.SelectComponentType(cmd.Palette.Type)
		}

	case cmd.Click != nil:
		pin, err := r.pin(cmd.Click.Pin)
		if err != nil {
			return err
		}
		_, err = e.ClickPin(pin)
		r.warn(cmd, err)

	case cmd.Wire != nil:
		from, to, err := r.pins(cmd.Wire)
		if err != nil {
			return err
		}
		e.StartWiring(from)
		_, err = e.CompleteWiring(to)
		r.warn(cmd, err)

	case cmd.Unwire != nil:
		from, to, err := r.pins(cmd.Unwire)
		if err != nil {
			return err
		}
		for _, w := range e.Circuit().WiresAt(from) {
			if w.FromPin == to || w.ToPin == to {
				return e.RemoveWire(w.ID)
			}
		}
		r.warn(cmd, fmt.Errorf("%w: no wire between %s and %s", circuit.ErrNotFound, cmd.Unwire.From, cmd.Unwire.To))

	case cmd.Cancel:
		e.CancelWiring()

	case cmd.Zoom != nil:
		delta := 1.0
		if cmd.Zoom.Direction == "out" {
			delta = -1
		}
		cam := viewport.NewCamera(e.Circuit().View, 0, 0)
		v := cam.ZoomAt(geom.Pt(cmd.Zoom.X, cmd.Zoom.Y), delta)
		e.SetViewTransform(v.Scale, v.Offset)

	case cmd.Pan != nil:
		cam := viewport.NewCamera(e.Circuit().View, 0, 0)
		v := cam.Pan(geom.Pt(cmd.Pan.DX, cmd.Pan.DY))
		e.SetViewTransform(v.Scale, v.Offset)

	case cmd.Set != nil:
		r.warn(cmd, e.SetProperty(r.ref(cmd.Set.Ref), cmd.Set.Key, cmd.Set.Value.Any()))

	case cmd.Label != nil:
		r.warn(cmd, e.SetLabel(r.ref(cmd.Label.Ref), cmd.Label.Text))
	}
	return nil
}

func (r *Runner) warn(cmd *Command, err error) {
	if err != nil {
		r.Warnings = append(r.Warnings, Warning{Line: cmd.Pos.Line, Err: err})
	}
}

// ref maps an alias to its component id. Anything else is taken as an id.
func (r *Runner) ref(name string) string {
	if id, ok := r.aliases[name]; ok {
		return id
	}
	return name
}

func (r *Runner) pin(p PinRef) (string, error) {
	comp, ok := r.editor.Circuit().Component(r.ref(p.Ref))
	if !ok {
		return "", fmt.Errorf("%w: component %q", ErrUnknownRef, p.Ref)
	}
	pin, ok := comp.PinByName(p.Pin)
	if !ok {
		return "", fmt.Errorf("%w: pin %s", ErrUnknownRef, p)
	}
	return pin.ID, nil
}

func (r *Runner) pins(w *WirePins) (string, string, error) {
	from, err := r.pin(w.From)
	if err != nil {
		return "", "", err
	}
	to, err := r.pin(w.To)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}
