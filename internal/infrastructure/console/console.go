// Package console is the command-line surface of the editor.
// Framework/driver layer - outermost circle. It owns stdin/stdout: an
// AutoCAD-style "Command:" prompt that feeds either the command dispatcher
// or, while a point request is active, the GetPoint machine.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/tsao100/AICAD-sub000/internal/domain/ports"
	"github.com/tsao100/AICAD-sub000/internal/domain/usecases"
)

// Console runs the interactive loop. All core state transitions happen on
// this loop; watcher events are drained between lines, so the single
// UI-thread ownership of the document holds.
type Console struct {
	editor  *usecases.Editor
	in      *bufio.Scanner
	out     io.Writer
	watcher ports.SketchWatcher
}

// New builds the console surface around an editor.
func New(editor *usecases.Editor, in io.Reader, out io.Writer, watcher ports.SketchWatcher) *Console {
	return &Console{
		editor:  editor,
		in:      bufio.NewScanner(in),
		out:     out,
		watcher: watcher,
	}
}

// Messenger implements ports.Messenger over a writer. It is built before
// the editor so the editor can surface prompts through the same stream the
// console reads beside.
type Messenger struct {
	Out io.Writer
}

func (m *Messenger) Prompt(msg string) { fmt.Fprint(m.Out, msg) }
func (m *Messenger) Info(msg string)   { fmt.Fprintln(m.Out, msg) }
func (m *Messenger) Error(msg string)  { fmt.Fprintf(m.Out, "Error: %s\n", msg) }

func (c *Console) Prompt(msg string) { fmt.Fprint(c.out, msg) }

// Info prints a line to the console stream.
func (c *Console) Info(msg string) { fmt.Fprintln(c.out, msg) }

// Error prints a recoverable error to the console stream.
func (c *Console) Error(msg string) { fmt.Fprintf(c.out, "Error: %s\n", msg) }

// Run reads lines until EOF or QUIT. An empty line ends the current input
// sequence (Enter), a lone ESC cancels it, anything else goes to the
// active point request or the dispatcher.
func (c *Console) Run(ctx context.Context, sketchDir string) error {
	var fileEvents <-chan ports.FileEvent
	if c.watcher != nil && sketchDir != "" {
		ch, err := c.watcher.Watch(ctx, sketchDir)
		if err != nil {
			log.Printf("[ERROR] watching %s: %v", sketchDir, err)
		} else {
			fileEvents = ch
		}
	}

	c.Prompt("Command: ")
	for c.in.Scan() {
		c.drainFileEvents(fileEvents)

		line := strings.TrimRight(c.in.Text(), "\r\n")
		if c.handleLine(line) {
			return nil
		}

		if !c.editor.Points.Active() {
			c.Prompt("Command: ")
		}
	}
	return c.in.Err()
}

// handleLine processes one input line; true means quit.
func (c *Console) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)

	if c.editor.Points.Active() {
		switch trimmed {
		case "":
			c.editor.EndSequence()
		case "\x1b", "ESC", "esc":
			c.editor.CancelActive()
		default:
			c.editor.TextInput(trimmed)
		}
		return false
	}

	if trimmed == "" {
		return false
	}
	fields := strings.Fields(trimmed)
	name := fields[0]
	if strings.EqualFold(name, "QUIT") || strings.EqualFold(name, "EXIT") {
		return true
	}
	if err := c.editor.Dispatch(name, fields[1:]); err != nil {
		c.Error(err.Error())
	}
	return false
}

// drainFileEvents reports pending external sketch-file changes without
// blocking the input loop.
func (c *Console) drainFileEvents(events <-chan ports.FileEvent) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Operation {
			case ports.FileModified:
				c.Info(fmt.Sprintf("Sketch file %s changed on disk; IMPORT to pick up changes", ev.Path))
			case ports.FileDeleted:
				c.Info(fmt.Sprintf("Sketch file %s removed on disk", ev.Path))
			}
		default:
			return
		}
	}
}
