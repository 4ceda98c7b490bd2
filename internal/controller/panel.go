package controller

import (
	"fmt"
	"math"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
)

// Panel is the read-only content of the properties panel.
type Panel struct {
	Title string
	Lines []string
	Hint  string

	// ShowCancel asks for a Cancel Wiring button.
	ShowCancel bool
}

// Panel describes the current selection or mode for the properties panel.
func (c *Controller) Panel() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildPanel(c.editor.Circuit(), c.editor.Mode())
}

// BuildPanel derives the panel content from a snapshot and a mode.
func BuildPanel(circ circuit.Circuit, mode circuit.Mode) Panel {
	switch m := mode.(type) {
	case circuit.ComponentSelected:
		comp, ok := circ.Component(m.ID)
		if !ok {
			return Panel{Title: "Properties", Lines: []string{"Component not found"}}
		}
		lines := []string{
			"Type: " + comp.Type,
			"ID: " + comp.ID,
			fmt.Sprintf("Position: (%d, %d)", int(math.Round(comp.Position.X)), int(math.Round(comp.Position.Y))),
			fmt.Sprintf("Pins: %d", len(comp.Pins)),
		}
		if comp.Label != "" {
			lines = append(lines, "Label: "+comp.Label)
		}
		for _, key := range comp.PropertyKeys() {
			lines = append(lines, fmt.Sprintf("%s: %v", key, comp.Properties[key]))
		}
		return Panel{Title: "Properties", Lines: lines}

	case circuit.Wiring:
		return Panel{
			Title:      "Wiring Mode",
			Lines:      []string{"Starting from pin: " + lastSegment(m.FirstPin)},
			Hint:       "Click another pin to complete the wire, or press Escape to cancel.",
			ShowCancel: true,
		}

	case circuit.PlacementPending:
		return Panel{
			Title: "Properties",
			Lines: []string{"Placing: " + m.Type},
			Hint:  "Click on the canvas to place the component.",
		}
	}
	return Panel{
		Title: "Properties",
		Hint:  "Select a component from the palette to place it, or click a component to view its properties.",
	}
}

func lastSegment(id string) string {
	if i := strings.LastIndexByte(id, '-'); i >= 0 {
		return id[i+1:]
	}
	return id
}
