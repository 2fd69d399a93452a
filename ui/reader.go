package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/textreader/internal/speech"
	"github.com/dgnsrekt/textreader/internal/textsource"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

const (
	emptyTextMessage = "Please enter some text to read."

	// Font size at which the input uses every available column.
	referenceFontSize = 12
	minInputWidth     = 20
	minInputHeight    = 3

	horizontalPadding = 2
	inputBorderSize   = 2
	statusBarHeight   = 1

	// Lines around the input: title, three spacers, two sliders, the
	// button, the error slot and the status bar.
	chromeHeight = 9
)

type focusArea int

const (
	focusText focusArea = iota
	focusFontSize
	focusSpeechRate
	focusButton
	focusAreaCount
)

func (f focusArea) String() string {
	return [...]string{"text", "font size", "speech rate", "button"}[f]
}

type (
	speechEventMsg          speech.Event
	speechClosedMsg         struct{}
	engineCheckMsg          struct{ err error }
	reloadMsg               struct{ text string }
	statusMessageTimeoutMsg struct{}
)

// Screen is the reader: an editable buffer, font size and speech rate
// sliders, and a play button wired to a speech engine.
type Screen struct {
	common *commonModel
	engine speech.Engine
	keys   keyMap

	// Completion events for the lifetime of the screen.
	events  <-chan speech.Event
	release func()

	text         string
	input        textarea.Model
	inputWidth   int
	fontSize     slider
	speechRate   slider
	focus        focusArea
	isPlaying    bool
	utterance    string
	errorMessage string

	spinner  spinner.Model
	help     help.Model
	showHelp bool

	statusMessage      string
	statusMessageTimer *time.Timer

	watcher    *textsource.Watcher
	watcherErr error
	closed     bool
}

// NewScreen returns a reader screen holding text and subscribed to engine.
// Call Close when done with it.
func NewScreen(cfg Config, engine speech.Engine, text string) *Screen {
	return newScreen(&commonModel{cfg: cfg}, engine, text)
}

func newScreen(common *commonModel, engine speech.Engine, text string) *Screen {
	cfg := common.cfg

	fontSize := cfg.FontSize
	if fontSize == 0 {
		fontSize = defaultFontSize
	}
	rate := cfg.SpeechRate
	if rate == 0 {
		rate = speech.DefaultRate
	}

	ta := textarea.New()
	ta.Placeholder = "Type or paste the text to read aloud…"
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.SetValue(text)
	ta.Focus()

	hm := help.New()
	plain := lipgloss.NewStyle()
	hm.Styles = help.Styles{
		Ellipsis:       plain,
		ShortKey:       plain,
		ShortDesc:      plain,
		ShortSeparator: plain,
		FullKey:        plain,
		FullDesc:       plain,
		FullSeparator:  plain,
	}

	events, release := engine.Subscribe()

	s := &Screen{
		common:  common,
		engine:  engine,
		keys:    newKeyMap(),
		events:  events,
		release: release,
		text:    text,
		input:   ta,
		fontSize: newSlider("Font size", minFontSize, maxFontSize, fontSizeStep, fontSize, func(v float64) string {
			return fmt.Sprintf("%gpt", v)
		}),
		speechRate: newSlider("Speech rate", speech.MinRate, speech.MaxRate, speechRateStep, rate, speech.FormatRate),
		focus:      focusText,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		help:       hm,
	}

	if cfg.Follow && cfg.Path != "" && cfg.Path != textsource.Stdin {
		s.initWatcher()
	}
	return s
}

func (s *Screen) initWatcher() {
	w, err := textsource.NewWatcher(s.common.cfg.Path)
	if err != nil {
		log.Error("unable to follow file", "file", s.common.cfg.Path, "error", err)
		s.watcherErr = err
		return
	}
	s.watcher = w
}

// Init starts listening for speech events and file changes.
func (s *Screen) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, s.waitForEvent(), checkEngine(s.engine)}
	if s.watcherErr != nil {
		err := s.watcherErr
		cmds = append(cmds, func() tea.Msg { return errMsg{err} })
	}
	if s.watcher != nil {
		cmds = append(cmds, s.watchFile())
	}
	return tea.Batch(cmds...)
}

// UpdateText replaces the buffer verbatim.
func (s *Screen) UpdateText(v string) {
	s.text = v
	s.input.SetValue(v)
}

// UpdateFontSize sets the font size. The input is resized immediately.
func (s *Screen) UpdateFontSize(v float64) {
	s.fontSize.value = v
	s.resizeInput()
}

// UpdateSpeechRate sets the rate used by the next playback.
func (s *Screen) UpdateSpeechRate(v float64) {
	s.speechRate.value = v
}

// TogglePlayback starts reading the buffer aloud. While playing it does
// nothing, unless stop-on-toggle is configured, in which case it stops.
func (s *Screen) TogglePlayback() tea.Cmd {
	if s.isPlaying {
		if s.common.cfg.StopOnToggle {
			s.stopPlayback()
		}
		return nil
	}

	trimmed := strings.TrimSpace(s.text)
	if trimmed == "" {
		s.errorMessage = emptyTextMessage
		return nil
	}

	s.errorMessage = ""
	s.isPlaying = true

	if err := s.engine.Stop(); err != nil {
		log.Error("unable to stop previous speech", "error", err)
		s.isPlaying = false
		return nil
	}

	rate := s.speechRate.value
	if err := s.engine.SetRate(rate); err != nil {
		log.Error("unable to set speech rate", "rate", rate, "error", err)
		s.isPlaying = false
		return nil
	}

	id, err := s.engine.Speak(trimmed)
	if err != nil {
		log.Error("unable to start speech", "error", err)
		s.isPlaying = false
		return nil
	}
	s.utterance = id

	log.Debug("playback started",
		"engine", s.engine.Info().Name,
		"utterance", id,
		"rate", rate,
		"chars", len(trimmed))

	return s.spinner.Tick
}

func (s *Screen) stopPlayback() {
	log.Debug("stopping playback", "utterance", s.utterance)
	if err := s.engine.Stop(); err != nil {
		log.Error("unable to stop speech", "error", err)
	}
}

// handleEvent returns the screen to idle when the current utterance ends.
func (s *Screen) handleEvent(ev speech.Event) {
	if !s.isPlaying || ev.UtteranceID != s.utterance {
		log.Debug("ignoring stale speech event", "utterance", ev.UtteranceID, "kind", ev.Kind)
		return
	}

	s.isPlaying = false
	s.utterance = ""

	if ev.Kind == speech.EventFailed {
		log.Error("speech failed", "engine", s.engine.Info().Name, "utterance", ev.UtteranceID, "error", ev.Err)
		return
	}
	log.Debug("playback ended", "utterance", ev.UtteranceID, "kind", ev.Kind)
}

// Close stops playback and releases the engine subscription and file
// watcher. It is safe to call more than once.
func (s *Screen) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if s.isPlaying {
		s.stopPlayback()
	}
	s.release()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			log.Debug("unable to close watcher", "error", err)
		}
	}
	if s.statusMessageTimer != nil {
		s.statusMessageTimer.Stop()
	}
}

// Text returns the buffer.
func (s *Screen) Text() string { return s.text }

// FontSize returns the current font size.
func (s *Screen) FontSize() float64 { return s.fontSize.value }

// SpeechRate returns the current speech rate.
func (s *Screen) SpeechRate() float64 { return s.speechRate.value }

// IsPlaying reports whether an utterance is in flight.
func (s *Screen) IsPlaying() bool { return s.isPlaying }

// ErrorMessage returns the validation message, or "".
func (s *Screen) ErrorMessage() string { return s.errorMessage }

// InputWidth returns the rendered width of the text input in columns.
func (s *Screen) InputWidth() int { return s.inputWidth }

// ButtonLabel returns the play button's label.
func (s *Screen) ButtonLabel() string {
	switch {
	case !s.isPlaying:
		return "Play"
	case s.common.cfg.StopOnToggle:
		return "Stop"
	default:
		return "Playing…"
	}
}

func (s *Screen) setSize(w, h int) {
	s.common.width = w
	s.common.height = h
	s.help.Width = w
	s.resizeInput()
}

// inputWidth scales the input with the font size: a larger font leaves
// room for fewer columns.
func inputWidth(available int, fontSize float64) int {
	if available <= 0 {
		return 0
	}
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	w := int(float64(available) * referenceFontSize / fontSize)
	return min(max(w, minInputWidth), available)
}

func (s *Screen) resizeInput() {
	available := s.common.width - 2*horizontalPadding - inputBorderSize
	s.inputWidth = inputWidth(available, s.fontSize.value)
	s.input.SetWidth(s.inputWidth)

	h := s.common.height - chromeHeight - inputBorderSize
	if s.showHelp {
		h -= lipgloss.Height(s.helpView())
	}
	s.input.SetHeight(max(h, minInputHeight))
}

func (s *Screen) setFocus(f focusArea) tea.Cmd {
	s.focus = f
	log.Debug("focus", "area", f)
	if f == focusText {
		return s.input.Focus()
	}
	s.input.Blur()
	return nil
}

func (s *Screen) toggleHelp() {
	s.showHelp = !s.showHelp
	s.resizeInput()
}

// adjust moves the focused slider by n steps.
func (s *Screen) adjust(n int) {
	switch s.focus { //nolint:exhaustive
	case focusFontSize:
		s.UpdateFontSize(s.fontSize.stepped(n))
	case focusSpeechRate:
		s.UpdateSpeechRate(s.speechRate.stepped(n))
	}
}

func (s *Screen) showStatusMessage(msg string) tea.Cmd {
	s.statusMessage = msg
	if s.statusMessageTimer != nil {
		s.statusMessageTimer.Stop()
	}
	timeout := s.common.cfg.StatusMessageTimeout
	if timeout <= 0 {
		timeout = statusMessageTimeout
	}
	s.statusMessageTimer = time.NewTimer(timeout)
	return waitForStatusMessageTimeout(s.statusMessageTimer)
}

func (s *Screen) copyText() tea.Cmd {
	// Copy using OSC 52
	termenv.Copy(s.text)
	// Copy using native system clipboard
	_ = clipboard.WriteAll(s.text)
	return s.showStatusMessage("Copied text")
}

func (s *Screen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button { //nolint:exhaustive
		case tea.MouseButtonWheelUp:
			s.adjust(1)
		case tea.MouseButtonWheelDown:
			s.adjust(-1)
		}
		return nil

	case speechEventMsg:
		s.handleEvent(speech.Event(msg))
		return s.waitForEvent()

	case speechClosedMsg:
		log.Debug("speech subscription closed")
		s.isPlaying = false
		s.utterance = ""
		return nil

	case engineCheckMsg:
		if msg.err != nil {
			log.Warn("speech engine unavailable", "engine", s.engine.Info().Name, "error", msg.err)
			return s.showStatusMessage("Speech engine unavailable: " + msg.err.Error())
		}
		return nil

	case reloadMsg:
		s.UpdateText(msg.text)
		return tea.Batch(
			s.showStatusMessage("Reloaded "+filepath.Base(s.common.cfg.Path)),
			s.watchFile(),
		)

	case statusMessageTimeoutMsg:
		s.statusMessage = ""
		return nil

	case spinner.TickMsg:
		if !s.isPlaying {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *Screen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Toggle):
		return s.TogglePlayback()
	case key.Matches(msg, s.keys.Copy):
		return s.copyText()
	case key.Matches(msg, s.keys.Next):
		return s.setFocus((s.focus + 1) % focusAreaCount)
	case key.Matches(msg, s.keys.Prev):
		return s.setFocus((s.focus + focusAreaCount - 1) % focusAreaCount)
	}

	if s.focus == focusText {
		if key.Matches(msg, s.keys.Leave) {
			return s.setFocus(focusButton)
		}
		before := s.input.Value()
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		after := s.input.Value()
		if after == before {
			return cmd
		}
		text, ok := applyEdit(s.text, before, after)
		if !ok {
			log.Error("edit does not match the buffer, discarding it")
			s.input.SetValue(s.text)
			return tea.Batch(cmd, s.showStatusMessage("Edit not applied"))
		}
		s.text = text
		return cmd
	}

	switch {
	case key.Matches(msg, s.keys.Quit):
		s.Close()
		return tea.Quit
	case key.Matches(msg, s.keys.Help):
		s.toggleHelp()
	case key.Matches(msg, s.keys.Leave):
		if s.showHelp {
			s.toggleHelp()
		}
	case key.Matches(msg, s.keys.Increase):
		s.adjust(1)
	case key.Matches(msg, s.keys.Decrease):
		s.adjust(-1)
	case key.Matches(msg, s.keys.Press):
		if s.focus == focusButton {
			return s.TogglePlayback()
		}
	}
	return nil
}

// View renders the screen.
func (s *Screen) View() string {
	lines := []string{
		titleStyle("TextReader"),
		"",
		s.inputView(),
		"",
		s.fontSize.view(s.focus == focusFontSize),
		s.speechRate.view(s.focus == focusSpeechRate),
		"",
		s.buttonView(),
	}
	if s.errorMessage != "" {
		lines = append(lines, errorMessageStyle(s.errorMessage))
	}
	body := indent(strings.Join(lines, "\n"), horizontalPadding)

	var b strings.Builder
	b.WriteString(body)

	footer := statusBarHeight
	var helpView string
	if s.showHelp {
		helpView = s.helpView()
		footer += lipgloss.Height(helpView)
	}
	if gap := s.common.height - strings.Count(body, "\n") - footer; gap > 0 {
		b.WriteString(strings.Repeat("\n", gap))
	}

	s.statusBarView(&b)
	if s.showHelp {
		b.WriteString("\n" + helpView)
	}
	return b.String()
}

func (s *Screen) inputView() string {
	style := inputBlurredStyle
	if s.focus == focusText {
		style = inputFocusedStyle
	}
	return style.Render(s.input.View())
}

func (s *Screen) buttonView() string {
	label := "[ " + s.ButtonLabel() + " ]"
	switch {
	case s.isPlaying:
		return buttonPlayingStyle(label)
	case s.focus == focusButton:
		return buttonFocusedStyle(label)
	default:
		return buttonStyle(label)
	}
}

func (s *Screen) statusBarView(b *strings.Builder) {
	showStatusMessage := s.statusMessage != ""

	logo := logoView()

	state := " Idle "
	if s.isPlaying {
		state = " " + s.spinner.View() + " Playing "
	}
	if showStatusMessage {
		state = statusBarMessageStateStyle(state)
	} else {
		state = statusBarStateStyle(state)
	}

	var helpNote string
	if showStatusMessage {
		helpNote = statusBarMessageHelpStyle(" ? Help ")
	} else {
		helpNote = statusBarHelpStyle(" ? Help ")
	}

	note := s.statusMessage
	if !showStatusMessage {
		note = fmt.Sprintf("%s · %s · %gpt",
			s.engine.Info().Name,
			speech.FormatRate(s.speechRate.value),
			s.fontSize.value)
		if s.common.cfg.Path != "" && s.common.cfg.Path != textsource.Stdin {
			note = filepath.Base(s.common.cfg.Path) + " · " + note
		}
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		s.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(state)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	if showStatusMessage {
		note = statusBarMessageStyle(note)
	} else {
		note = statusBarNoteStyle(note)
	}

	padding := max(0,
		s.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(state)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := strings.Repeat(" ", padding)
	if showStatusMessage {
		emptySpace = statusBarMessageStyle(emptySpace)
	} else {
		emptySpace = statusBarNoteStyle(emptySpace)
	}

	fmt.Fprintf(b, "%s%s%s%s%s",
		logo,
		note,
		emptySpace,
		state,
		helpNote,
	)
}

func (s *Screen) helpView() string {
	h := s.help
	h.ShowAll = true
	str := indent("\n"+h.View(s.keys)+"\n", 2)

	// Fill up empty cells with spaces for background coloring
	if s.common.width > 0 {
		lines := strings.Split(str, "\n")
		for i := 0; i < len(lines); i++ {
			l := runewidth.StringWidth(lines[i])
			n := max(s.common.width-l, 0)
			lines[i] += strings.Repeat(" ", n)
		}
		str = strings.Join(lines, "\n")
	}

	return helpViewStyle(str)
}

// COMMANDS

func (s *Screen) waitForEvent() tea.Cmd {
	ch := s.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return speechClosedMsg{}
		}
		return speechEventMsg(ev)
	}
}

func (s *Screen) watchFile() tea.Cmd {
	w := s.watcher
	return func() tea.Msg {
		text, err := w.Next()
		if err != nil {
			log.Debug("stopped following file", "file", w.Path(), "error", err)
			return nil
		}
		return reloadMsg{text}
	}
}

func checkEngine(e speech.Engine) tea.Cmd {
	return func() tea.Msg {
		return engineCheckMsg{e.Validate()}
	}
}
