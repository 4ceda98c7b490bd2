package circuit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate checks the structural invariants of a circuit loaded from outside
// the editor: unique ids, wires between two live pins on different
// components, and connected flags that match the wire set. All problems are
// reported together.
func (c Circuit) Validate() error {
	var errs []error

	ids := make(map[string]bool)
	for _, comp := range c.Components {
		if comp.ID == "" {
			errs = append(errs, errors.New("component with empty id"))
		} else if ids[comp.ID] {
			errs = append(errs, fmt.Errorf("duplicate id %q", comp.ID))
		}
		ids[comp.ID] = true
		for _, p := range comp.Pins {
			if ids[p.ID] {
				errs = append(errs, fmt.Errorf("duplicate id %q", p.ID))
			}
			ids[p.ID] = true
		}
	}

	used := make(map[string]bool)
	for _, w := range c.Wires {
		if ids[w.ID] {
			errs = append(errs, fmt.Errorf("duplicate id %q", w.ID))
		}
		ids[w.ID] = true

		from, okFrom := c.FindPin(w.FromPin)
		to, okTo := c.FindPin(w.ToPin)
		switch {
		case !okFrom || !okTo:
			errs = append(errs, fmt.Errorf("wire %q: %w: dangling endpoint", w.ID, ErrNotFound))
		case w.FromPin == w.ToPin:
			errs = append(errs, fmt.Errorf("wire %q: %w", w.ID, ErrSamePin))
		case from.Component == to.Component:
			errs = append(errs, fmt.Errorf("wire %q: %w", w.ID, ErrSameComponent))
		}
		used[w.FromPin] = true
		used[w.ToPin] = true
	}

	for _, comp := range c.Components {
		for _, p := range comp.Pins {
			if p.Connected != used[p.ID] {
				errs = append(errs, fmt.Errorf("pin %q: connected=%v but referenced by %d wires",
					p.ID, p.Connected, len(c.WiresAt(p.ID))))
			}
		}
	}

	if c.View.Scale < MinScale || c.View.Scale > MaxScale {
		errs = append(errs, fmt.Errorf("view scale %v out of range", c.View.Scale))
	}
	if highest := c.maxSeqInUse(); c.Seq < highest {
		errs = append(errs, fmt.Errorf("id sequence %d is behind id %d already in use", c.Seq, highest))
	}

	return errors.Join(errs...)
}

// RecomputeSeq returns c with Seq advanced past every numeric id suffix in
// use, so new ids never collide with loaded ones.
func (c Circuit) RecomputeSeq() Circuit {
	if highest := c.maxSeqInUse(); c.Seq < highest {
		c.Seq = highest
	}
	return c
}

func (c Circuit) maxSeqInUse() int {
	highest := 0
	check := func(id string) {
		i := strings.LastIndexByte(id, '-')
		if i < 0 {
			return
		}
		if n, err := strconv.Atoi(id[i+1:]); err == nil && n > highest {
			highest = n
		}
	}
	for _, comp := range c.Components {
		check(comp.ID)
	}
	for _, w := range c.Wires {
		check(w.ID)
	}
	return highest
}
