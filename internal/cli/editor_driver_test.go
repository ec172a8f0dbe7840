package cli

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// editorDriver feeds messages to an editorModel synchronously, running each
// returned Cmd inline and routing its message back through Update.
type editorDriver struct {
	t        *testing.T
	model    *editorModel
	quitting bool
}

const (
	maxDrainDepth = 50
	// Cursor blink Cmds block for ~530ms; real Cmds here finish in
	// microseconds against in-memory SQLite.
	cmdTimeout = 50 * time.Millisecond
)

func newEditorDriver(t *testing.T, m *editorModel) *editorDriver {
	t.Helper()
	d := &editorDriver{t: t, model: m}
	d.send(tea.WindowSizeMsg{Width: 120, Height: 30})
	d.drain(m.Init(), 0)
	return d
}

func (d *editorDriver) send(msg tea.Msg) {
	d.t.Helper()
	if d.quitting {
		return
	}
	updated, cmd := d.model.Update(msg)
	d.model = updated.(*editorModel)
	d.drain(cmd, 0)
}

func (d *editorDriver) press(keys ...string) {
	d.t.Helper()
	for _, k := range keys {
		switch k {
		case "enter":
			d.send(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			d.send(tea.KeyMsg{Type: tea.KeyEsc})
		case "down":
			d.send(tea.KeyMsg{Type: tea.KeyDown})
		case "up":
			d.send(tea.KeyMsg{Type: tea.KeyUp})
		default:
			d.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func (d *editorDriver) view() string {
	return plain(d.model.View())
}

func (d *editorDriver) drain(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDrainDepth {
		d.t.Logf("editorDriver: drain depth limit (%d) reached", maxDrainDepth)
		return
	}

	msg := runCmd(cmd)
	if msg == nil || isBlink(msg) {
		return
	}
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.quitting = true
		return
	}

	updated, next := d.model.Update(msg)
	d.model = updated.(*editorModel)
	d.drain(next, depth+1)
}

func runCmd(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
