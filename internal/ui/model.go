package ui

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/atomicstack/tmux-floatdesk/internal/backend"
	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/data/dispatcher"
	"github.com/atomicstack/tmux-floatdesk/internal/desk"
	"github.com/atomicstack/tmux-floatdesk/internal/dispatch"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
	"github.com/atomicstack/tmux-floatdesk/internal/logging/events"
	"github.com/atomicstack/tmux-floatdesk/internal/tabs"
	"github.com/atomicstack/tmux-floatdesk/internal/theme"
	"github.com/atomicstack/tmux-floatdesk/internal/tmux"
)

var styles = theme.Default()

// Rows taken by the tab strip above the desk and the status line below it.
const (
	stripRows  = 1
	statusRows = 1
)

type msgHandler func(tea.Msg) tea.Cmd

// Options wires the model to the pieces app.Run builds. Nil fields get
// private defaults, which is what tests rely on.
type Options struct {
	// Width and Height fix the screen size in cells; zero follows the
	// terminal.
	Width      int
	Height     int
	CellWidth  float64
	CellHeight float64

	Canvas   *desk.Canvas
	Registry *tabs.Registry
	Queue    *dispatch.Queue
	Watcher  *backend.Watcher
	Gauge    *content.Gauge

	TickInterval time.Duration
	// Welcome opens an introductory note once the desk first has a size.
	Welcome bool
}

// pointer tracks the cell a press or drag last reported.
type pointer struct {
	active bool
	x, y   int
}

// Model implements the Bubble Tea model for the desk.
type Model struct {
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	cellWidth   float64
	cellHeight  float64

	canvas     *desk.Canvas
	registry   *tabs.Registry
	queue      *dispatch.Queue
	backend    *backend.Watcher
	dispatcher *dispatcher.Dispatcher
	gauge      *content.Gauge
	sticker    *desk.Sticker

	ctx    context.Context
	cancel context.CancelFunc

	handlers map[reflect.Type]msgHandler
	keys     keyMap
	zones    *zone.Manager
	spans    []tabSpan

	filter    textinput.Model
	filtering bool
	matches   []*tabs.Tab

	pointer      pointer
	tickInterval time.Duration
	welcome      bool
	welcomed     bool
	noteSeq      int

	memory    memoryReading
	tmuxState tmux.Status
	tmuxErr   error
	errMsg    string
	infoMsg   string
	quitting  bool
}

type memoryReading struct {
	current, limit uint64
	ratio          float64
	known          bool
}

// NewModel initialises the UI with the supplied collaborators.
func NewModel(opts Options) *Model {
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 16
	}
	if opts.Canvas == nil {
		opts.Canvas = desk.NewCanvas(0, 0)
	}
	if opts.Queue == nil {
		opts.Queue = dispatch.New(0)
	}
	if opts.Registry == nil {
		tabOpts := tabs.DefaultOptions()
		tabOpts.Window.Dispatcher = opts.Queue
		opts.Registry = tabs.New(opts.Canvas, nil, tabOpts)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		cellWidth:    opts.CellWidth,
		cellHeight:   opts.CellHeight,
		canvas:       opts.Canvas,
		registry:     opts.Registry,
		queue:        opts.Queue,
		backend:      opts.Watcher,
		gauge:        opts.Gauge,
		ctx:          ctx,
		cancel:       cancel,
		keys:         defaultKeyMap(),
		zones:        zone.New(),
		tickInterval: opts.TickInterval,
		welcome:      opts.Welcome,
	}
	m.dispatcher = dispatcher.New(m, m)
	if m.gauge != nil {
		m.sticker = desk.NewSticker(m.gauge, geom.Rect{})
		m.canvas.Add(m.sticker)
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.filter = newFilterInput()
	m.registerHandlers()
	if m.fixedWidth && m.fixedHeight {
		m.resizeDesk()
	}
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForTask(m.ctx, m.queue)}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(taskMsg{}):           m.handleTaskMsg,
		reflect.TypeOf(queueClosedMsg{}):    m.handleQueueClosedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.resizeDesk()
	events.App.Resize(m.width, m.height)
	return nil
}

// resizeDesk converts the screen size into canvas units and places the
// gauge sticker in the top-right corner.
func (m *Model) resizeDesk() {
	cols, rows := m.deskCells()
	m.canvas.Resize(float64(cols)*m.cellWidth, float64(rows)*m.cellHeight)
	if m.sticker != nil {
		width := math.Min(float64(cols), 24)
		m.sticker.Rect = geom.Rect{
			X:      float64(cols)*m.cellWidth - width*m.cellWidth,
			Y:      0,
			Width:  width * m.cellWidth,
			Height: m.cellHeight,
		}
	}
	if m.welcome && !m.welcomed && m.canvas.Ready() {
		m.welcomed = true
		m.registry.OpenTab(content.NewNote("Welcome", welcomeText))
	}
}

// deskCells is the canvas area in cells, between tab strip and status line.
func (m *Model) deskCells() (int, int) {
	rows := m.height - stripRows - statusRows
	if rows < 0 {
		rows = 0
	}
	cols := m.width
	if cols < 0 {
		cols = 0
	}
	return cols, rows
}

// Shutdown tears the registry down and stops background work.
func (m *Model) Shutdown() {
	if m.quitting {
		return
	}
	m.quitting = true
	count := m.registry.Len()
	m.registry.CloseAll()
	m.cancel()
	if m.backend != nil {
		m.backend.Stop()
	}
	m.zones.Close()
	events.App.Shutdown(count)
}

func (m *Model) openNote() {
	m.noteSeq++
	title := fmt.Sprintf("Note %d", m.noteSeq)
	m.open(content.NewNote(title, noteText))
}

func (m *Model) openTicker() {
	m.open(content.NewTicker(m.tickInterval, m.queue))
}

func (m *Model) open(v content.View) {
	if tab := m.registry.OpenTab(v); tab == nil {
		m.setError("desk not ready")
		if d, ok := v.(content.Disposer); ok {
			d.Dispose()
		}
		return
	}
	m.clearStatus()
}

func (m *Model) setError(msg string) {
	m.errMsg = msg
	m.infoMsg = ""
}

func (m *Model) setInfo(msg string) {
	m.infoMsg = msg
	m.errMsg = ""
}

func (m *Model) clearStatus() {
	m.errMsg = ""
	m.infoMsg = ""
}

// Registry exposes the tab registry the model drives.
func (m *Model) Registry() *tabs.Registry {
	return m.registry
}

// Canvas exposes the desk canvas.
func (m *Model) Canvas() *desk.Canvas {
	return m.canvas
}

const welcomeText = `A floating window on a terminal desk.

n  new note        t  new ticker
/  filter tabs     ctrl+w  close tab
alt+1..9  select tab     d  tear out to tmux
drag the title bar to move, the right or
bottom edge to resize. [^] tears out, [x] closes.`

const noteText = `Scratch note.

Drag me around; I stay reachable by my title bar.`
