package prompt

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/mebibou/allons-y/internal/store"
)

// LineCollector asks prompts one line at a time on a reader/writer pair.
// Invalid answers are asked again; a read error (EOF included) aborts.
type LineCollector struct {
	reader *bufio.Reader
	out    io.Writer

	// Terminal, when attached to a TTY, is used to read passwords without echo.
	Terminal *os.File
}

// NewLineCollector returns a collector reading answers from in and writing
// questions to out.
func NewLineCollector(in io.Reader, out io.Writer) *LineCollector {
	return &LineCollector{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Collect implements Collector.
func (c *LineCollector) Collect(ctx context.Context, prompts []Prompt) ([]Answer, error) {
	answers := make([]Answer, 0, len(prompts))
	for _, p := range prompts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := c.ask(p)
		if err != nil {
			return nil, fmt.Errorf("reading answer for %q: %w", p.Name, err)
		}
		answers = append(answers, Answer{Name: p.Name, Value: v})
	}
	return answers, nil
}

func (c *LineCollector) ask(p Prompt) (any, error) {
	switch p.Kind() {
	case TypeConfirm:
		return c.askConfirm(p)
	case TypeNumber:
		return c.askNumber(p)
	case TypeList:
		return c.askList(p)
	case TypePassword:
		return c.askPassword(p)
	default:
		return c.askInput(p)
	}
}

func (c *LineCollector) askInput(p Prompt) (any, error) {
	fmt.Fprintf(c.out, "? %s%s: ", p.Label(), defaultHint(p.Default))
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		return defaultString(p.Default), nil
	}
	return line, nil
}

func (c *LineCollector) askPassword(p Prompt) (any, error) {
	hint := ""
	if p.Default != nil {
		hint = " (leave empty to keep current)"
	}
	fmt.Fprintf(c.out, "? %s%s: ", p.Label(), hint)

	var line string
	if c.Terminal != nil && isatty.IsTerminal(c.Terminal.Fd()) {
		raw, err := term.ReadPassword(int(c.Terminal.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(string(raw))
	} else {
		var err error
		if line, err = c.readLine(); err != nil {
			return nil, err
		}
	}

	if line == "" {
		return defaultString(p.Default), nil
	}
	return line, nil
}

func (c *LineCollector) askConfirm(p Prompt) (any, error) {
	def, _ := p.Default.(bool)
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}

	for {
		fmt.Fprintf(c.out, "? %s %s: ", p.Label(), hint)
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		fmt.Fprintln(c.out, "  Please answer y or n.")
	}
}

func (c *LineCollector) askNumber(p Prompt) (any, error) {
	for {
		fmt.Fprintf(c.out, "? %s%s: ", p.Label(), defaultHint(p.Default))
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" && p.Default != nil {
			return p.Default, nil
		}
		if _, err := strconv.ParseFloat(line, 64); err == nil {
			return json.Number(line), nil
		}
		fmt.Fprintln(c.out, "  Please enter a number.")
	}
}

// askList presents a numbered list, as the catalog menus do, and accepts
// either the number or the choice itself.
func (c *LineCollector) askList(p Prompt) (any, error) {
	if len(p.Choices) == 0 {
		return nil, fmt.Errorf("list prompt has no choices")
	}

	def := -1
	for i, choice := range p.Choices {
		if p.Default != nil && choice == store.FormatValue(p.Default) {
			def = i
		}
	}

	for {
		fmt.Fprintf(c.out, "? %s\n", p.Label())
		for i, choice := range p.Choices {
			marker := " "
			if i == def {
				marker = ">"
			}
			fmt.Fprintf(c.out, " %s %d) %s\n", marker, i+1, choice)
		}
		fmt.Fprintf(c.out, "  Enter number [1-%d]: ", len(p.Choices))

		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" && def >= 0 {
			return p.Choices[def], nil
		}
		if num, err := strconv.Atoi(line); err == nil && num >= 1 && num <= len(p.Choices) {
			return p.Choices[num-1], nil
		}
		for _, choice := range p.Choices {
			if line == choice {
				return choice, nil
			}
		}
		fmt.Fprintf(c.out, "  Invalid selection %q: choose 1-%d.\n", line, len(p.Choices))
	}
}

// readLine reads one trimmed line. A final line without newline is accepted.
func (c *LineCollector) readLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func defaultHint(v any) string {
	if v == nil {
		return ""
	}
	return " (" + store.FormatValue(v) + ")"
}

func defaultString(v any) any {
	if v == nil {
		return ""
	}
	return v
}
