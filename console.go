package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"lg/calorie-tracker-go/internal/models"
)

const (
	headerWidth   = 60
	progressWidth = 30
)

// console wraps the prompt input and colored output of the interactive menu.
type console struct {
	in  *bufio.Reader
	out io.Writer
	now func() time.Time

	cyan, green, red, yellow, blue, magenta *color.Color
}

func newConsole(in io.Reader, out io.Writer, noColor bool) *console {
	c := &console{
		in:      bufio.NewReader(in),
		out:     out,
		now:     time.Now,
		cyan:    color.New(color.FgCyan),
		green:   color.New(color.FgGreen),
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
		blue:    color.New(color.FgBlue),
		magenta: color.New(color.FgMagenta),
	}
	if noColor {
		for _, col := range []*color.Color{c.cyan, c.green, c.red, c.yellow, c.blue, c.magenta} {
			col.DisableColor()
		}
	}
	return c
}

/* ─── Output ─────────────────────────────────────────────────────────── */

func (c *console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *console) header(text string) {
	bar := strings.Repeat("=", headerWidth)
	c.cyan.Fprintf(c.out, "\n%s\n%s\n%s\n", bar, center(text, headerWidth), bar)
}

func (c *console) section(text string) {
	c.cyan.Fprintf(c.out, "\n%s\n", text)
}

func (c *console) success(format string, a ...any) {
	c.green.Fprintf(c.out, "✓ "+format+"\n", a...)
}

func (c *console) error(format string, a ...any) {
	c.red.Fprintf(c.out, "✗ "+format+"\n", a...)
}

func (c *console) warning(format string, a ...any) {
	c.yellow.Fprintf(c.out, "⚠ "+format+"\n", a...)
}

func (c *console) info(format string, a ...any) {
	c.blue.Fprintf(c.out, "ℹ "+format+"\n", a...)
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// progressBar prints "label [█████░░░] 87.5%" for a percentage already
// computed by the caller, clamped to 0..100.
func (c *console) progressBar(label string, pct float64) {
	pct = math.Max(0, math.Min(pct, 100))
	filled := int(progressWidth * pct / 100)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)

	col := c.red
	switch {
	case pct >= 100:
		col = c.green
	case pct >= 75:
		col = c.yellow
	}
	c.printf("%s [%s] %.1f%%\n", label, col.Sprint(bar), pct)
}

/* ─── Prompts ────────────────────────────────────────────────────────── */

// errInputClosed is returned by every prompt once stdin is exhausted.
var errInputClosed = errors.New("input closed")

func (c *console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *console) text(prompt string) (string, error) {
	s, err := c.readLine(prompt)
	return strings.TrimSpace(s), err
}

// positiveFloat re-prompts until the input is a number in (0, max]. A max of
// 0 means unbounded.
func (c *console) positiveFloat(prompt string, max float64) (float64, error) {
	for {
		s, err := c.text(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		switch {
		case err != nil || math.IsNaN(v) || math.IsInf(v, 0):
			c.error("Invalid input. Please enter a number")
		case v <= 0:
			c.error("Please enter a positive number")
		case max > 0 && v > max:
			c.error("Value too large. Maximum: %g", max)
		default:
			return v, nil
		}
	}
}

// positiveInt re-prompts until the input is a whole number in [min, max]. A
// max of 0 means unbounded.
func (c *console) positiveInt(prompt string, min, max int) (int, error) {
	for {
		s, err := c.text(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(s)
		switch {
		case err != nil:
			c.error("Invalid input. Please enter a whole number")
		case v < min:
			c.error("Please enter a number >= %d", min)
		case max > 0 && v > max:
			c.error("Value too large. Maximum: %d", max)
		default:
			return v, nil
		}
	}
}

func (c *console) choice(prompt string, options []string) (string, error) {
	for {
		s, err := c.text(prompt)
		if err != nil {
			return "", err
		}
		for _, o := range options {
			if s == o {
				return s, nil
			}
		}
		c.error("Invalid choice. Please select from: %s", strings.Join(options, ", "))
	}
}

// numberedChoice lists labels as "1. label" and returns the chosen index.
func (c *console) numberedChoice(title, prompt string, labels []string) (int, error) {
	c.printf("\n%s\n", title)
	options := make([]string, len(labels))
	for i, l := range labels {
		options[i] = strconv.Itoa(i + 1)
		c.printf("%d. %s\n", i+1, l)
	}
	s, err := c.choice(prompt, options)
	if err != nil {
		return 0, err
	}
	i, _ := strconv.Atoi(s)
	return i - 1, nil
}

func (c *console) confirm(message string) (bool, error) {
	s, err := c.text(message + " (y/n): ")
	if err != nil {
		return false, err
	}
	s = strings.ToLower(s)
	return s == "y" || s == "yes", nil
}

// date re-prompts until the input is YYYY-MM-DD. Blank input returns today.
func (c *console) date(prompt string) (models.DateOnly, error) {
	for {
		s, err := c.text(prompt)
		if err != nil {
			return models.DateOnly{}, err
		}
		if s == "" {
			return models.NewDateOnly(c.now()), nil
		}
		d, err := models.ParseDate(s)
		if err != nil {
			c.error("Invalid date format. Please use YYYY-MM-DD.")
			continue
		}
		return d, nil
	}
}
