package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/tracewatch/internal/logging"
	"github.com/abelbrown/tracewatch/internal/tracing"
)

// Source is the consumer side of a collector. *tracing.Collector
// implements it.
type Source interface {
	Events() []tracing.Event
	Buffer() *tracing.RingBuffer
	Evicted() uint64
	Clear()
	Level() tracing.Level
	SetLevel(tracing.Level) bool
	AddTargetPattern(pattern string) error
	RemoveTargetPattern(i int) (string, error)
	TargetPatterns() []string
	MatchesTarget(target string) bool
}

type mode int

const (
	modeEvents mode = iota
	modeTargets
	modeStats
)

// App is the root Bubble Tea model.
// It only ever reads events through snapshots delivered as EventsLoaded.
type App struct {
	src      Source
	interval time.Duration

	toggles LevelToggles
	events  []tracing.Event // last snapshot
	visible []tracing.Event // events after level and target filtering
	evicted uint64

	follow bool // pinned to the newest event
	offset int  // first visible row when not following

	mode     mode
	input    textinput.Model
	selected int // highlighted pattern in the target editor

	status    string
	statusErr bool

	width  int
	height int
	ready  bool
}

// NewApp creates an App that polls src every interval. The level toggles
// start out matching src's current threshold.
func NewApp(src Source, interval time.Duration) App {
	input := textinput.New()
	input.Placeholder = "glob, e.g. net/http* or *::pool"
	input.Prompt = "exclude> "
	input.CharLimit = 200

	return App{
		src:      src,
		interval: interval,
		toggles:  NewLevelToggles(src.Level()),
		follow:   true,
		input:    input,
	}
}

// Init loads the first snapshot and starts the poll loop.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.poll(), a.tick())
}

func (a App) poll() tea.Cmd {
	src := a.src
	return func() tea.Msg {
		return EventsLoaded{Events: src.Events(), Evicted: src.Evicted()}
	}
}

func (a App) tick() tea.Cmd {
	return tea.Tick(a.interval, func(time.Time) tea.Msg {
		return RefreshTick{}
	})
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch a.mode {
		case modeTargets:
			return a.handleTargetKey(msg)
		case modeStats:
			return a.handleStatsKey(msg)
		}
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - len(a.input.Prompt) - 2
		a.ready = true
		return a, nil

	case EventsLoaded:
		a.events = msg.Events
		a.evicted = msg.Evicted
		a.refilter()
		return a, nil

	case RefreshTick:
		return a, tea.Batch(a.poll(), a.tick())
	}

	if a.mode == modeTargets {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleKeyMsg processes keyboard input in the event list.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear any existing status on key press
	a.status, a.statusErr = "", false

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "c":
		a.src.Clear()
		a.events, a.visible, a.offset = nil, nil, 0
		logging.Info("events cleared")
		return a, nil

	case "1", "2", "3", "4", "5":
		a.toggleLevel(tracing.Levels[key[0]-'1'])
		return a, nil

	case "t":
		a.mode = modeTargets
		a.clampSelected()
		cmd := a.input.Focus()
		return a, cmd

	case "?":
		a.mode = modeStats
		return a, nil

	case "k", "up":
		a.scrollUp()
		return a, nil

	case "j", "down":
		a.scrollDown()
		return a, nil

	case "g", "home":
		a.follow, a.offset = false, 0
		return a, nil

	case "G", "end":
		a.follow = true
		return a, nil
	}

	return a, nil
}

// handleTargetKey processes keyboard input in the target editor. Keys it
// does not claim go to the text input.
func (a App) handleTargetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.mode = modeEvents
		a.input.Blur()
		a.input.Reset()
		a.status, a.statusErr = "", false
		return a, nil

	case "enter":
		a.addPattern(strings.TrimSpace(a.input.Value()))
		return a, nil

	case "up":
		if a.selected > 0 {
			a.selected--
		}
		return a, nil

	case "down":
		a.selected++
		a.clampSelected()
		return a, nil

	case "ctrl+d":
		a.removeSelected()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleStatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "?", "esc":
		a.mode = modeEvents
	}
	return a, nil
}

// toggleLevel flips the display of l and narrows or widens the collector's
// threshold to the most verbose level still displayed.
func (a *App) toggleLevel(l tracing.Level) {
	shown := a.toggles.Toggle(l)
	threshold := a.toggles.MaxLevel()
	if a.src.SetLevel(threshold) {
		logging.Info("level threshold changed", "level", threshold)
	}
	logging.Debug("level display toggled", "level", l, "shown", shown)
	a.refilter()
}

func (a *App) addPattern(pattern string) {
	if pattern == "" {
		return
	}
	if err := a.src.AddTargetPattern(pattern); err != nil {
		a.status, a.statusErr = err.Error(), true
		logging.Warn("target pattern rejected", "pattern", pattern, "err", err)
		return
	}
	logging.Info("target pattern added", "pattern", pattern)
	a.input.Reset()
	a.status, a.statusErr = "excluding "+pattern, false
	a.selected = len(a.src.TargetPatterns()) - 1
	a.refilter()
}

func (a *App) removeSelected() {
	if len(a.src.TargetPatterns()) == 0 {
		return
	}
	removed, err := a.src.RemoveTargetPattern(a.selected)
	if err != nil {
		a.status, a.statusErr = err.Error(), true
		return
	}
	logging.Info("target pattern removed", "pattern", removed)
	a.status, a.statusErr = "removed "+removed, false
	a.clampSelected()
	a.refilter()
}

func (a *App) clampSelected() {
	n := len(a.src.TargetPatterns())
	if a.selected >= n {
		a.selected = n - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}
}

// refilter rebuilds the visible list from the last snapshot.
func (a *App) refilter() {
	visible := make([]tracing.Event, 0, len(a.events))
	for _, e := range a.events {
		if a.toggles.Shows(e.Level) && !a.src.MatchesTarget(e.Target) {
			visible = append(visible, e)
		}
	}
	a.visible = visible
}

func (a *App) scrollUp() {
	if a.follow {
		a.follow = false
		a.offset = a.maxOffset()
	}
	if a.offset > 0 {
		a.offset--
	}
}

func (a *App) scrollDown() {
	if a.follow {
		return
	}
	a.offset++
	if a.offset >= a.maxOffset() {
		a.follow = true
	}
}

func (a App) maxOffset() int {
	if n := len(a.visible) - a.bodyHeight(); n > 0 {
		return n
	}
	return 0
}

// window returns the slice of visible events that fits the body.
func (a App) window() []tracing.Event {
	start := a.maxOffset()
	if !a.follow && a.offset < start {
		start = a.offset
	}
	end := start + a.bodyHeight()
	if end > len(a.visible) {
		end = len(a.visible)
	}
	return a.visible[start:end]
}

// bodyHeight is the number of event rows on screen: everything except the
// status bar, the status line and the target editor.
func (a App) bodyHeight() int {
	h := a.height - 1
	if a.status != "" {
		h--
	}
	if a.mode == modeTargets {
		h -= lipgloss.Height(a.targetPanel())
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (a App) targetPanel() string {
	return renderTargetPanel(a.src.TargetPatterns(), a.selected, a.input.View())
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.mode == modeStats {
		overlay := debugOverlay(a.src.Buffer(), a.src.TargetPatterns(), time.Now(), a.width, a.height-1)
		return lipgloss.JoinVertical(lipgloss.Left, overlay, debugStatusBar(a.width))
	}

	parts := []string{RenderEvents(a.window(), a.width, a.bodyHeight())}
	if a.mode == modeTargets {
		parts = append(parts, a.targetPanel())
	}
	if a.status != "" {
		style := NoticeStyle
		if a.statusErr {
			style = ErrorStyle
		}
		parts = append(parts, style.Render(truncateGraphemes(a.status, a.width-2)))
	}
	parts = append(parts, RenderStatusBar(len(a.visible), len(a.events), a.evicted, a.toggles, a.follow, a.width))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Visible returns the filtered events (for testing).
func (a App) Visible() []tracing.Event {
	return a.visible
}

// Following reports whether the view is pinned to the newest event.
func (a App) Following() bool {
	return a.follow
}
