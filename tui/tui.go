// Package tui is a read-only terminal inspector for a gpt.DiskLabel:
// it never writes to the device, only renders what Read already
// decoded.
package tui

import (
	"fmt"
	"os"

	tcell "github.com/gdamore/tcell/v2"

	"github.com/earentir/gptlabel/gpt"
)

// state holds the inspector's view over a single label.
type state struct {
	label         *gpt.DiskLabel
	diskName      string
	selectedIndex int
}

// Run starts the interactive inspector for label, labelled diskName in
// the title bar. It blocks until the user quits (q, Esc, or Ctrl+C).
func Run(diskName string, label *gpt.DiskLabel) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: init screen: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack))
	screen.Clear()
	screen.Show()

	s := &state{label: label, diskName: diskName}

	for {
		s.render(screen)
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			switch ev.Rune() {
			case 'q', 'Q':
				return nil
			}
			switch ev.Key() {
			case tcell.KeyUp:
				if s.selectedIndex > 0 {
					s.selectedIndex--
				}
			case tcell.KeyDown:
				if s.selectedIndex < len(s.label.Parts)-1 {
					s.selectedIndex++
				}
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

func (s *state) render(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()

	title := fmt.Sprintf("=== %s (%d partitions, %s) ===", s.diskName, s.label.NParts, flagsString(s.label.Flags))
	drawCentered(screen, width, 0, title, tcell.StyleDefault.Bold(true))

	header := fmt.Sprintf(" %-4s %-10s %12s %12s %12s  %-20s %s", "#", "Tag", "Start", "End", "Size(LBA)", "Name", "TypeGUID")
	drawLine(screen, 0, 1, width, header, tcell.StyleDefault.Underline(true))

	y := 2
	for i, p := range s.label.Parts {
		if y >= height-2 {
			break
		}
		style := tcell.StyleDefault
		if i == s.selectedIndex {
			style = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
		}

		name := partitionName(p)
		endLBA := uint64(0)
		if p.SizeLBA > 0 {
			endLBA = p.StartLBA + p.SizeLBA - 1
		}
		line := fmt.Sprintf(" %-4d %-10s %12d %12d %12d  %-20s %s",
			i, tagName(p.Tag), p.StartLBA, endLBA, p.SizeLBA, name, p.TypeGUID.String())
		drawLine(screen, 0, y, width, line, style)
		y++
	}

	statusY := height - 1
	status := "up/down: select   q/Esc: quit"
	drawLine(screen, 0, statusY, width, status, tcell.StyleDefault.Reverse(true))
}

func drawLine(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for i := 0; i < width; i++ {
		screen.SetContent(x+i, y, ' ', nil, style)
	}
	for i, ch := range text {
		if x+i >= width {
			break
		}
		screen.SetContent(x+i, y, ch, nil, style)
	}
}

func drawCentered(screen tcell.Screen, width, y int, text string, style tcell.Style) {
	startX := (width - len(text)) / 2
	if startX < 0 {
		startX = 0
	}
	drawLine(screen, 0, y, width, "", tcell.StyleDefault)
	for i, ch := range text {
		if startX+i >= width {
			break
		}
		screen.SetContent(startX+i, y, ch, nil, style)
	}
}

func partitionName(p gpt.Partition) string {
	n := p.Name
	end := 0
	for end < len(n) && n[end] != 0 {
		end++
	}
	return string(n[:end])
}

func tagName(t gpt.Tag) string {
	if t == gpt.TagUnassigned {
		return "unassigned"
	}
	return fmt.Sprintf("0x%02x", uint16(t))
}

func flagsString(flags uint32) string {
	if flags&gpt.FlagPrimaryCorrupt != 0 {
		return "primary corrupt, reading from backup"
	}
	return "primary ok"
}

// runningInTerminal reports whether stdout is a character device (a
// terminal), i.e. whether Run can plausibly work.
func runningInTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
