package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter_PlainOutputWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Info("Now let's %s the webapp!", "create")
	p.Success("No new question to ask.")
	p.Warn("careful")
	p.Step("Save configuration")
	p.OK()

	got := buf.String()
	if strings.Contains(got, "\x1b[") {
		t.Errorf("output contains escape codes: %q", got)
	}
	for _, want := range []string{
		"Now let's create the webapp!\n",
		"No new question to ask.\n",
		"careful\n",
		"► Save configuration... [OK]\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrinter_Banner(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Banner("You are going to create a Allons-y! platform (1.0.0).", "", "Please answer the few questions below:")

	got := buf.String()
	if !strings.Contains(got, "You are going to create a Allons-y! platform (1.0.0).") {
		t.Errorf("banner missing text:\n%s", got)
	}
	if !strings.Contains(got, "╭") || !strings.Contains(got, "╯") {
		t.Errorf("banner has no border:\n%s", got)
	}
}

func TestPrinter_Title(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Title("Your app %q is up to date!", "demo")

	if got := buf.String(); got != "\n  Your app \"demo\" is up to date!\n\n" {
		t.Errorf("Title() wrote %q", got)
	}
}
