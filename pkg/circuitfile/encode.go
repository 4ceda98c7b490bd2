package circuitfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// Save writes c to path, replacing the file atomically.
func Save(path string, c circuit.Circuit) error {
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ots-*")
	if err != nil {
		return fmt.Errorf("circuitfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("circuitfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("circuitfile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("circuitfile: %w", err)
	}
	return nil
}

// Encode writes c as a circuit expression.
func Encode(w io.Writer, c circuit.Circuit) error {
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw}

	e.printf("(ots_circuit (version %d) (uuid %s) (name %s) (seq %d)\n",
		Version, quote(c.ID), quote(c.Name), c.Seq)
	e.printf("  (view (scale %s) (offset %s))", num(c.View.Scale), point(c.View.Offset))

	for _, comp := range c.Components {
		e.printf("\n  (component %s (type %s) (at %s) (rotation %s) (label %s)",
			quote(comp.ID), quote(comp.Type), point(comp.Position), num(comp.Rotation), quote(comp.Label))
		for _, p := range comp.Pins {
			e.printf("\n    (pin %s (name %s) (role %s) (at %s) (connected %s))",
				quote(p.ID), quote(p.Name), p.Role, point(p.Position), yesNo(p.Connected))
		}
		for _, key := range comp.PropertyKeys() {
			e.printf("\n    (property %s %s)", quote(key), atom(comp.Properties[key]))
		}
		e.printf(")")
	}

	for _, wire := range c.Wires {
		e.printf("\n  (wire %s (from %s) (to %s))", quote(wire.ID), quote(wire.FromPin), quote(wire.ToPin))
	}
	e.printf(")\n")

	if e.err != nil {
		return fmt.Errorf("circuitfile: %w", e.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("circuitfile: %w", err)
	}
	return nil
}

// encoder remembers the first write error.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func point(p geom.Point) string {
	return num(p.X) + " " + num(p.Y)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// atom renders a property value so that Decode reads back the same Go type.
func atom(v any) string {
	switch val := v.(type) {
	case string:
		return quote(val)
	case bool:
		return yesNo(val)
	case float64:
		return num(val)
	case float32:
		return num(float64(val))
	case int:
		return strconv.Itoa(val)
	default:
		return quote(fmt.Sprint(val))
	}
}
