// Package netlist groups the pins of a circuit into electrical nets.
//
// Every pin is a node of an undirected graph and every wire an edge. A net is
// a connected component with at least two pins; pins without wires are
// reported separately as unconnected.
package netlist

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
)

// PinRef identifies one pin of a placed component.
type PinRef struct {
	ComponentID string `json:"component"`
	PinID       string `json:"pin_id"`
	PinName     string `json:"pin"`
}

func (p PinRef) String() string {
	return p.ComponentID + "." + p.PinName
}

// Net represents a connected set of pins that share the same electrical net.
type Net struct {
	ID   int      `json:"id"`
	Pins []PinRef `json:"pins"`
}

// Netlist is the connectivity of one circuit snapshot.
type Netlist struct {
	Nets        []*Net
	Unconnected []PinRef

	// order is the position of each pin in component/pin order.
	order map[string]int
}

// Build computes the nets of c. Wires whose endpoints no longer resolve are
// ignored.
func Build(c circuit.Circuit) *Netlist {
	g := simple.NewUndirectedGraph()
	refs := make(map[int64]PinRef)
	ids := make(map[string]int64)
	order := make(map[string]int)

	var n int64
	for _, comp := range c.Components {
		for _, p := range comp.Pins {
			g.AddNode(simple.Node(n))
			refs[n] = PinRef{ComponentID: comp.ID, PinID: p.ID, PinName: p.Name}
			ids[p.ID] = n
			order[p.ID] = int(n)
			n++
		}
	}

	for _, w := range c.Wires {
		from, okFrom := ids[w.FromPin]
		to, okTo := ids[w.ToPin]
		if !okFrom || !okTo || from == to {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
	}

	nl := &Netlist{order: order}
	for _, cc := range topo.ConnectedComponents(g) {
		if len(cc) < 2 {
			for _, node := range cc {
				nl.Unconnected = append(nl.Unconnected, refs[node.ID()])
			}
			continue
		}
		nl.Nets = append(nl.Nets, &Net{Pins: pinsOf(cc, refs)})
	}

	nl.sortPins(nl.Unconnected)
	for _, net := range nl.Nets {
		nl.sortPins(net.Pins)
	}
	sort.Slice(nl.Nets, func(i, j int) bool {
		return order[nl.Nets[i].Pins[0].PinID] < order[nl.Nets[j].Pins[0].PinID]
	})
	for i, net := range nl.Nets {
		net.ID = i + 1
	}
	return nl
}

func pinsOf(nodes []graph.Node, refs map[int64]PinRef) []PinRef {
	pins := make([]PinRef, 0, len(nodes))
	for _, node := range nodes {
		pins = append(pins, refs[node.ID()])
	}
	return pins
}

func (nl *Netlist) sortPins(pins []PinRef) {
	sort.Slice(pins, func(i, j int) bool {
		return nl.order[pins[i].PinID] < nl.order[pins[j].PinID]
	})
}

// NetOf returns the net containing the given pin, or nil if the pin has no
// wires.
func (nl *Netlist) NetOf(pinID string) *Net {
	for _, net := range nl.Nets {
		for _, p := range net.Pins {
			if p.PinID == pinID {
				return net
			}
		}
	}
	return nil
}

// NetCount returns the number of nets.
func (nl *Netlist) NetCount() int {
	return len(nl.Nets)
}

// ExportJSON exports the netlist to JSON format.
func (nl *Netlist) ExportJSON() ([]byte, error) {
	output := struct {
		Version     string   `json:"version"`
		NetCount    int      `json:"net_count"`
		Nets        []*Net   `json:"nets"`
		Unconnected []PinRef `json:"unconnected"`
	}{
		Version:     "1.0",
		NetCount:    nl.NetCount(),
		Nets:        nl.Nets,
		Unconnected: nl.Unconnected,
	}
	if output.Nets == nil {
		output.Nets = []*Net{}
	}
	if output.Unconnected == nil {
		output.Unconnected = []PinRef{}
	}
	return json.MarshalIndent(output, "", "  ")
}

// WriteText writes one line per net, followed by the unconnected pins.
func (nl *Netlist) WriteText(w io.Writer) error {
	for _, net := range nl.Nets {
		if _, err := fmt.Fprintf(w, "N%d:", net.ID); err != nil {
			return err
		}
		for _, p := range net.Pins {
			if _, err := fmt.Fprintf(w, " %s", p); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if len(nl.Unconnected) > 0 {
		if _, err := fmt.Fprintf(w, "unconnected: %d pins\n", len(nl.Unconnected)); err != nil {
			return err
		}
	}
	return nil
}
