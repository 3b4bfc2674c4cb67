package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/noborus/ov/oviewer"

	"cratetui/internal/app"
)

// pagerDoneMsg is sent when the pager exits
type pagerDoneMsg struct {
	err error
}

// pagerCommand runs the ov pager as a tea.ExecCommand, so bubbletea
// releases the terminal while it runs and restores it afterwards
type pagerCommand struct {
	content string
	run     func(io.Reader) error
}

func newPagerCommand(req app.PagerRequest) *pagerCommand {
	return &pagerCommand{content: pagerText(req), run: runOviewer}
}

func (p *pagerCommand) Run() error {
	return p.run(strings.NewReader(p.content))
}

// ov opens the tty itself
func (p *pagerCommand) SetStdin(io.Reader)  {}
func (p *pagerCommand) SetStdout(io.Writer) {}
func (p *pagerCommand) SetStderr(io.Writer) {}

func runOviewer(r io.Reader) error {
	root, err := oviewer.NewRoot(r)
	if err != nil {
		return fmt.Errorf("failed to start pager: %w", err)
	}
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	root.SetConfig(config)
	return root.Run()
}

// pagerText lays the rows out as aligned "label  value" lines
func pagerText(req app.PagerRequest) string {
	labelW := 0
	for _, row := range req.Rows {
		labelW = max(labelW, runewidth.StringWidth(row.Label))
	}

	var b strings.Builder
	b.WriteString(req.Title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", max(runewidth.StringWidth(req.Title), 1)))
	b.WriteString("\n\n")
	for _, row := range req.Rows {
		b.WriteString(runewidth.FillRight(row.Label, labelW))
		b.WriteString("  ")
		b.WriteString(row.Value)
		b.WriteString("\n")
	}
	return b.String()
}

func openPager(req app.PagerRequest) tea.Cmd {
	return tea.Exec(newPagerCommand(req), func(err error) tea.Msg {
		return pagerDoneMsg{err: err}
	})
}
