// Package ui provides the reader screen for the textreader application.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/textreader/internal/speech"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied"
	ellipsis             = "…"
)

// NewProgram returns a new Tea program reading content aloud with engine.
func NewProgram(cfg Config, engine speech.Engine, content string) *tea.Program {
	log.Debug(
		"Starting textreader",
		"engine",
		engine.Info().Name,
		"font_size",
		cfg.FontSize,
		"rate",
		cfg.SpeechRate,
		"stop_on_toggle",
		cfg.StopOnToggle,
	)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if cfg.InputTTY {
		opts = append(opts, tea.WithInputTTY())
	}
	m := newModel(cfg, engine, content)
	return tea.NewProgram(m, opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	width  int
	height int
}

type model struct {
	common   *commonModel
	fatalErr error
	reader   *Screen
}

func newModel(cfg Config, engine speech.Engine, content string) model {
	common := &commonModel{cfg: cfg}
	return model{
		common: common,
		reader: newScreen(common, engine, content),
	}
}

func (m model) Init() tea.Cmd {
	log.Debug("Init() called")
	return m.reader.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.reader.Close()
			return m, tea.Quit
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+z":
			return m, tea.Suspend

		// Ctrl+C always quits no matter where in the application you are.
		case "ctrl+c":
			m.reader.Close()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.reader.setSize(msg.Width, msg.Height)
		return m, nil

	case errMsg:
		m.fatalErr = msg
		return m, nil
	}

	return m, m.reader.update(msg)
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}
	return m.reader.View()
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// COMMANDS

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}

// ETC

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
