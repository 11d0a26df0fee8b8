package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
)

// canvas composes rendered blocks into a cell buffer so overlays can sit
// on top of the form instead of pushing it around.
type canvas struct {
	screen *cellbuf.Screen
	writer *cellbuf.ScreenWriter
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	screen := cellbuf.NewScreen(io.Discard, width, height, &cellbuf.ScreenOptions{})
	return &canvas{
		screen: screen,
		writer: cellbuf.NewScreenWriter(screen),
		width:  width,
		height: height,
	}
}

// fill blanks every cell so later blocks land on known columns.
func (c *canvas) fill() {
	c.drawStringAt(0, 0, lipgloss.NewStyle().Width(c.width).Height(c.height).Render(""))
}

func (c *canvas) drawStringAt(x, y int, content string) {
	c.drawBlockAt(x, y, splitLines(content))
}

// centerOverlay draws the block in the middle of the canvas.
func (c *canvas) centerOverlay(content string) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return
	}
	x := (c.width - maxLineWidth(lines)) / 2
	y := (c.height - len(lines)) / 2
	c.drawBlockAt(x, y, lines)
}

// bottomRightOverlay anchors the block to the bottom-right corner, padding
// cells in from both edges.
func (c *canvas) bottomRightOverlay(content string, padding int) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return
	}
	if padding < 0 {
		padding = 0
	}
	x := c.width - maxLineWidth(lines) - padding
	y := c.height - len(lines) - padding
	c.drawBlockAt(x, y, lines)
}

func (c *canvas) drawBlockAt(x, y int, lines []string) {
	x, y = max(x, 0), max(y, 0)
	for i, line := range lines {
		row := y + i
		if row >= c.height {
			break
		}
		if line == "" {
			continue
		}
		c.writer.PrintCropAt(x, row, line, "")
	}
}

// render flattens the frame. The canvas is not usable afterwards.
func (c *canvas) render() string {
	out := cellbuf.Render(c.screen)
	_ = c.screen.Close()
	return strings.ReplaceAll(out, "\r\n", "\n")
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

func maxLineWidth(lines []string) int {
	width := 0
	for _, line := range lines {
		width = max(width, ansi.StringWidth(line))
	}
	return width
}
