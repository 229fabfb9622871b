package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
	"github.com/vovakirdan/tui-flappy/internal/replay"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// helpRows is the number of terminal rows reserved below the game for the
// short help line.
const helpRows = 1

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for playing flappy in a terminal.
type Model struct {
	game       *flappy.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       KeyMap
	help       help.Model
	hud        *HUD
	journalled bool // Whether the current game has been written to the journal
	lastRunID  int64
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
// store and logger may be nil.
func NewModel(game *flappy.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		game:       game,
		store:      store,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		hud:        NewHUD(),
	}
	gc := m.gameConfig()
	m.screen = core.NewScreen(gc.ScreenW, gc.ScreenH)
	return m
}

// gameConfig returns the runtime config of the game area, which excludes
// the help line.
func (m Model) gameConfig() core.RuntimeConfig {
	gc := m.config
	gc.ScreenH = max(gc.ScreenH-helpRows, 1)
	return gc
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	m.logger.Debug("game started", "seed", m.config.Seed, "width", m.config.ScreenW, "height", m.config.ScreenH)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case DeadMsg:
		// Ignore a dead effect that belongs to a game already restarted
		if m.gameState.GameOver && msg.Frame == m.game.World().Frames() {
			m.hud.ShowDead()
		}
		return m, nil
	}

	return m, nil
}

// handleKey records the key for the next tick. Input is edge-triggered:
// one press sets one action on one frame.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Back) && (m.gameState.GameOver || m.gameState.Paused):
		m.backToMenu = true
		m.journalAbandoned()
		return m, tea.Quit
	}

	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		m.journalAbandoned()
		return m, tea.Quit
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize processes window resize events. A game in progress keeps
// playing; its field is rescaled to the new screen when drawn.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	gc := m.gameConfig()
	m.screen.Resize(gc.ScreenW, gc.ScreenH)
	m.game.Resize(gc.ScreenW, gc.ScreenH)
	m.gameState = m.game.State()
	m.help.Width = msg.Width
	return m, nil
}

// handleTick applies the pending input, steps the simulation and presents
// the effects it raised.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	m.gameState = result.State

	if !m.gameState.GameOver {
		m.journalled = false
	}

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}

	flappy.Dispatch(result.Effects, m.hud, flappy.LogSink{Logger: m.logger})
	for _, e := range result.Effects {
		if e.Kind == flappy.EffectDead {
			cmds = append(cmds, deadCmd(e.Frame, e.Delay))
		}
	}
	m.hud.Tick()

	// Journal on game over (once)
	if m.gameState.GameOver && !m.journalled {
		m.journal()
		m.journalled = true
	}

	return m, tea.Batch(cmds...)
}

// journalAbandoned journals a game that is being left before it ended.
func (m *Model) journalAbandoned() {
	if m.gameState.Started && !m.gameState.GameOver {
		m.journal()
	}
}

// journal writes the current game to the run journal.
func (m *Model) journal() {
	run := replay.Capture(m.game.World())
	if m.store == nil || run.Frames == 0 {
		return
	}

	id, err := m.store.SaveRun(run)
	if err != nil {
		m.logger.Warn("could not journal run", "error", err)
		return
	}
	m.lastRunID = id
	m.logger.Info("run journalled", "id", id, "score", run.Score, "frames", run.Frames, "cause", run.Cause)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot: no home directory", "error", err)
		return
	}
	dir := filepath.Join(home, ".flappy", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot: cannot create directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot: cannot write", "path", path, "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// BackToMenu returns true if user asked to leave the game.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// LastRunID returns the journal ID of the most recent run, or 0.
func (m Model) LastRunID() int64 {
	return m.lastRunID
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	m.hud.Render(m.screen, m.gameState.Score)

	game := RenderScreen(m.screen)
	helpView := helpStyle.Render(m.help.View(m.keys))

	// The full help covers the bottom of the game instead of resizing it
	if extra := lipgloss.Height(helpView) - helpRows; extra > 0 {
		lines := strings.Split(game, "\n")
		game = strings.Join(lines[:max(len(lines)-extra, 0)], "\n")
	}

	return game + "\n" + helpView
}

// Run starts the Bubble Tea program with the given model.
func Run(game *flappy.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(game, store, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
