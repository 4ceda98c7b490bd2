package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, netlistJSON = false, false
	runOutput, runInput = "", ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

const blinky = `place resistor 0 0 as r1
place led 100 0 as d1
wire r1.B d1.Anode
set r1 value "330"
`

func TestRunCheckNetlist(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "blinky.otscript", blinky)
	out := filepath.Join(dir, "blinky.ots")

	got, err := execute(t, "run", "-o", out, src)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, got)
	}
	if !strings.Contains(got, "2 components, 1 wires") {
		t.Errorf("unexpected run output %q", got)
	}

	got, err = execute(t, "check", out)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, got)
	}
	if !strings.Contains(got, "OK") || !strings.Contains(got, "1 nets") {
		t.Errorf("unexpected check output %q", got)
	}

	got, err = execute(t, "netlist", out)
	if err != nil {
		t.Fatalf("netlist failed: %v", err)
	}
	if !strings.HasPrefix(got, "N1: resistor-1.B led-2.Anode") {
		t.Errorf("unexpected netlist %q", got)
	}

	got, err = execute(t, "netlist", "--json", out)
	if err != nil {
		t.Fatalf("netlist --json failed: %v", err)
	}
	if !strings.Contains(got, `"pin": "Anode"`) {
		t.Errorf("JSON netlist is missing the LED anode: %s", got)
	}

	got, err = execute(t, "info", out)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if !strings.Contains(got, "Components: 2") || !strings.Contains(got, "Wires: 1") {
		t.Errorf("unexpected info %q", got)
	}

	got, err = execute(t, "info", out, "resistor-1")
	if err != nil {
		t.Fatalf("info component failed: %v", err)
	}
	if !strings.Contains(got, "-> led-2-pin-0") || !strings.Contains(got, "value: 330") {
		t.Errorf("unexpected component details %q", got)
	}

	if _, err := execute(t, "info", out, "missing"); err == nil {
		t.Errorf("expected an error for an unknown component")
	}
}

func TestRunWarnings(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "self.otscript", "place resistor 0 0 as r1\nwire r1.A r1.B\n")

	got, err := execute(t, "run", src)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(got, "warning: line 2:") {
		t.Errorf("expected a warning for the self wire, got %q", got)
	}
	if !strings.Contains(got, "(ots_circuit") {
		t.Errorf("expected the circuit on stdout, got %q", got)
	}
}

func TestCheckRejectsDanglingWire(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dangling.ots",
		`(ots_circuit (version 1) (name "x") (wire "wire-1" (from "a-pin-0") (to "b-pin-0")))`)

	if _, err := execute(t, "check", path); err == nil {
		t.Errorf("expected an error for a dangling wire")
	}
}

func TestCatalog(t *testing.T) {
	got, err := execute(t, "catalog")
	if err != nil {
		t.Fatalf("catalog failed: %v", err)
	}
	for _, typ := range []string{"resistor", "led", "pic16", "probe"} {
		if !strings.Contains(got, typ) {
			t.Errorf("catalog listing is missing %s", typ)
		}
	}

	got, err = execute(t, "catalog", "led")
	if err != nil {
		t.Fatalf("catalog led failed: %v", err)
	}
	if !strings.Contains(got, "Anode") || !strings.Contains(got, "Default properties:") {
		t.Errorf("unexpected definition %q", got)
	}

	if _, err := execute(t, "catalog", "transistor"); err == nil {
		t.Errorf("expected an error for an unknown type")
	}
}
