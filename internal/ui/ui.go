// Package ui is the Gio front end of the schematic editor.
package ui

import (
	"log"
	"os"

	"gioui.org/app"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/config"
	"github.com/OpenTraceLab/OpenTraceSchem/internal/controller"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
)

// Run opens the editor on path, or on a new circuit when path is empty, and
// blocks until the window closes. When no path is given the last file from
// the configuration is reopened if it still exists. A non-empty theme
// overrides the saved one.
func Run(path, theme string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("ui: %v", err)
	}
	if theme != "" {
		cfg.Theme = theme
	}

	ctrl := controller.New(circuit.New(controller.DefaultCircuitName))
	if path != "" {
		if err := ctrl.OpenFile(path); err != nil {
			return err
		}
	} else if cfg.LastFile != "" {
		if _, err := os.Stat(cfg.LastFile); err == nil {
			if err := ctrl.OpenFile(cfg.LastFile); err != nil {
				log.Printf("ui: %v", err)
			}
		}
	}

	go func() {
		w := new(app.Window)
		ui := New(w, ctrl, cfg)
		if err := ui.Run(); err != nil {
			log.Printf("ui: %v", err)
		}
		os.Exit(0)
	}()

	app.Main()
	return nil
}
