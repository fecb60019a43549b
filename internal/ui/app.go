// Package ui is the terminal board: notes are drawn on a dotted canvas and
// moved with the mouse.
package ui

import (
	"context"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/calendar"
	"github.com/ramanasai/tripboard/internal/chat"
	"github.com/ramanasai/tripboard/internal/config"
	"github.com/ramanasai/tripboard/internal/drag"
	"github.com/ramanasai/tripboard/internal/focus"
	"github.com/ramanasai/tripboard/internal/geo"
	"github.com/ramanasai/tripboard/internal/itinerary"
	"github.com/ramanasai/tripboard/internal/mapview"
	"github.com/ramanasai/tripboard/internal/notify"
	"github.com/ramanasai/tripboard/internal/schedule"
)

// Trip seeds the welcome note from the command line.
type Trip struct {
	Location string
	Start    *time.Time
	End      *time.Time
}

// Deps is everything the board needs from outside.
type Deps struct {
	Config     config.Config
	ConfigPath string // watched for changes when set
	Clock      schedule.Clock
	Seed       *uint64
	Trip       Trip
	ExportDir  string

	Resolver *geo.Resolver
	Maps     *mapview.Loader
	Chat     chat.Completer
	Notifier *notify.Notifier
	Logger   *slog.Logger

	// Clipboard receives copied notes; the system clipboard when nil.
	Clipboard func(string) error
}

func (d *Deps) defaults() {
	if d.Clock == nil {
		d.Clock = schedule.Real()
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Resolver == nil {
		d.Resolver = geo.NewResolver(geo.NewCache(geo.DefaultLearned), nil, d.Logger)
	}
	if d.Maps == nil {
		d.Maps = mapview.NewLoader("", "", mapview.WithLogger(d.Logger))
	}
	if d.Notifier == nil {
		d.Notifier = notify.New(false, d.Logger)
	}
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	if d.ExportDir == "" {
		d.ExportDir = "."
	}
}

// bridge hands timer callbacks to the program. Callbacks run on timer
// goroutines, some while the engine lock is held, so Send never blocks them.
type bridge struct {
	mu sync.Mutex
	p  *tea.Program
}

func (b *bridge) attach(p *tea.Program) {
	b.mu.Lock()
	b.p = p
	b.mu.Unlock()
}

func (b *bridge) Send(msg tea.Msg) {
	b.mu.Lock()
	p := b.p
	b.mu.Unlock()
	if p != nil {
		go p.Send(msg)
	}
}

// ---------- messages ----------

type hoverMsg struct{ over bool }
type removedMsg struct{ id string }
type discardedMsg struct{ note board.Note }
type configMsg struct{ cfg config.Config }

type geocodedMsg struct {
	id    string
	place string
	res   geo.Resolution
}

type mapMsg struct {
	key string
	img image.Image
	err error
}

type chatMsg struct {
	session *chat.Session
	reply   string
}

type exportedMsg struct {
	path string
	err  error
}

type statusMsg struct {
	text string
	err  bool
}

// mapState is the map panel for one coordinate.
type mapState struct {
	key     string
	loading bool
	img     image.Image
	err     error
}

type Model struct {
	deps   Deps
	send   *bridge
	store  *board.Store
	engine *drag.Engine

	width, height int
	booted        bool

	lastClick struct {
		id string
		at time.Time
	}

	showHelp bool
	help     help.Model

	editor editorState
	cal    calendar.Month
	calFor string
	finder finderState

	// focus mode panels
	tab        int
	pager      *itinerary.Pager
	pagerFor   string
	sessions   map[string]*chat.Session
	chatInput  textinput.Model
	transcript viewport.Model
	spin       spinner.Model
	mapView    mapState
	geocoding  map[string]string // note id -> place being resolved
	origins    map[string]geo.Origin

	status    string
	statusErr bool
}

const doubleClick = 400 * time.Millisecond

// New wires the store and engine. The welcome note is placed once the
// terminal size is known.
func New(deps Deps) Model {
	deps.defaults()
	b := &bridge{}
	cfg := deps.Config

	opts := []board.Option{
		board.WithClock(deps.Clock),
		board.WithLogger(deps.Logger),
		board.WithUndoWindow(cfg.Board.UndoWindow),
		board.WithDiscardHook(func(n board.Note) { b.Send(discardedMsg{note: n}) }),
	}
	if deps.Seed != nil {
		opts = append(opts, board.WithSeed(*deps.Seed))
	}
	store := board.NewStore(opts...)
	if cfg.NightMode {
		store.ToggleNightMode()
	}
	store.SetBackground(cfg.Background())

	engine := drag.New(store, drag.Options{
		Trash:        cfg.Board.Trash,
		CrumpleDelay: cfg.Board.CrumpleDelay,
		FreshWindow:  cfg.Board.FreshNoteWindow,
		Clock:        deps.Clock,
		FocusSlot:    focus.Slot,
		OnHover:      func(over bool) { b.Send(hoverMsg{over: over}) },
		OnRemoved:    func(id string) { b.Send(removedMsg{id: id}) },
		Logger:       deps.Logger,
	})

	ci := textinput.New()
	ci.Placeholder = "Ask about your trip..."
	ci.CharLimit = 500
	ci.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		deps:       deps,
		send:       b,
		store:      store,
		engine:     engine,
		help:       help.New(),
		editor:     newEditor(FuzzyPlaces(deps.Resolver.Cache().Places)),
		finder:     newFinder(),
		sessions:   map[string]*chat.Session{},
		chatInput:  ci,
		transcript: viewport.New(0, 0),
		spin:       sp,
		geocoding:  map[string]string{},
		origins:    map[string]geo.Origin{},
	}
}

// Run opens the board full screen and blocks until the user quits.
func Run(deps Deps) error {
	m := New(deps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	m.send.attach(p)

	if m.deps.ConfigPath != "" {
		_, err := config.Watch(m.deps.ConfigPath, m.deps.Logger, func(c config.Config) {
			m.send.Send(configMsg{cfg: c})
		})
		if err != nil {
			m.deps.Logger.Warn("config watch disabled", "err", err)
		}
	}
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) size() board.Size {
	return board.Size{W: float64(m.width), H: float64(m.height)}
}

func (m Model) view() focus.View {
	return focus.Project(m.store, m.size())
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status, m.statusErr = text, isErr
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.engine.SetViewport(m.size())
		m.help.Width = msg.Width
		if !m.booted {
			m.booted = true
			m.bootstrap()
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m, cmd = m.updateMouse(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.updateKey(msg)
		cmds = append(cmds, cmd)

	case AutocompleteMsg:
		var cmd tea.Cmd
		m.editor.location, cmd = m.editor.location.Update(msg)
		cmds = append(cmds, cmd)

	case hoverMsg, removedMsg:
		// redraw only

	case discardedMsg:
		m.deps.Logger.Info("note discarded", "id", msg.note.ID)
		m.engine.Forget(msg.note.ID)
		n := msg.note
		cmds = append(cmds, func() tea.Msg {
			_ = m.deps.Notifier.Discarded(n)
			return nil
		})

	case configMsg:
		m.applyConfig(msg.cfg)

	case geocodedMsg:
		m.applyGeocode(msg)

	case mapMsg:
		if msg.key == m.mapView.key {
			m.mapView.loading = false
			m.mapView.img, m.mapView.err = msg.img, msg.err
		}

	case chatMsg:
		msg.session.Resolve(msg.reply)
		m.refreshTranscript()

	case exportedMsg:
		if msg.err != nil {
			m.setStatus("export failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("exported "+msg.path, false)
			path := msg.path
			cmds = append(cmds, func() tea.Msg {
				_ = m.deps.Notifier.Done("Board exported to " + path)
				return nil
			})
		}

	case statusMsg:
		m.setStatus(msg.text, msg.err)

	case spinner.TickMsg:
		if m.chatPending() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		cmds = append(cmds, cmd)
		m.editor, cmd = m.editor.passthrough(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m, cmd = m.reconcile()
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// bootstrap places the welcome note, honouring the trip flags.
func (m *Model) bootstrap() {
	n := m.store.Bootstrap(m.size())
	// the welcome note is never auto-edited
	m.engine.Mount(n.ID)

	t := m.deps.Trip
	if t.Location == "" && t.Start == nil && t.End == nil {
		return
	}
	p := board.Patch{}
	if t.Location != "" {
		p.Location = board.Ptr(t.Location)
	}
	if t.Start != nil || t.End != nil {
		start, end := n.StartDate, n.EndDate
		if t.Start != nil {
			start = t.Start
		}
		if t.End != nil {
			end = t.End
		}
		p.Dates = &board.DateRange{Start: start, End: end}
	}
	m.store.UpdateNote(n.ID, p)
}

func (m *Model) applyConfig(cfg config.Config) {
	old := m.deps.Config
	m.deps.Config = cfg
	if cfg.NightMode != m.store.NightMode() {
		m.store.ToggleNightMode()
	}
	if cfg.Theme != old.Theme || cfg.NightMode != old.NightMode {
		m.store.SetBackground(cfg.Background())
	}
	b := cfg.Board
	m.store.SetUndoWindow(b.UndoWindow)
	m.engine.Retune(b.Trash, b.CrumpleDelay, b.FreshNoteWindow)
	m.setStatus("config reloaded", false)
}

// reconcile runs after every message: first draws, the editor, geocoding
// and the map panel follow the store.
func (m Model) reconcile() (Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, n := range m.store.Notes() {
		m.engine.Mount(n.ID)
	}

	var cmd tea.Cmd
	m, cmd = m.syncEditor()
	cmds = append(cmds, cmd)

	v := m.view()
	if v.Mode == focus.Focused {
		cmds = append(cmds, m.ensureGeocode(v.Note), m.ensureMap(v.Note))
		m.ensurePanels(v.Note)
	}
	if id, ok := m.store.EditingDate(); ok && m.calFor != id {
		n, _ := m.store.Note(id)
		m.calFor = id
		m.cal = calendar.MonthOf(n.StartDate, m.deps.Clock.Now())
	} else if !ok {
		m.calFor = ""
	}
	return m, tea.Batch(cmds...)
}

func (m Model) ensureGeocode(n board.Note) tea.Cmd {
	if n.Location == "" || n.GeoLocation != nil {
		return nil
	}
	if m.geocoding[n.ID] == n.Location {
		return nil
	}
	return m.geocode(n.ID, n.Location)
}

func (m Model) geocode(id, place string) tea.Cmd {
	m.geocoding[id] = place
	resolver, timeout := m.deps.Resolver, m.deps.Config.Map.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), max(timeout, time.Second))
		defer cancel()
		return geocodedMsg{id: id, place: place, res: resolver.Resolve(ctx, place)}
	}
}

func (m *Model) applyGeocode(msg geocodedMsg) {
	if m.geocoding[msg.id] == msg.place {
		delete(m.geocoding, msg.id)
	}
	n, ok := m.store.Note(msg.id)
	if !ok || n.Location != msg.place {
		return
	}
	loc := msg.res.Location
	m.origins[msg.id] = msg.res.Origin
	m.store.UpdateNote(msg.id, board.Patch{GeoLocation: &loc})
	if msg.res.Origin == geo.FromFallback && msg.place != "" {
		m.setStatus("could not locate "+msg.place+", showing default map", true)
	}
}

func (m *Model) ensureMap(n board.Note) tea.Cmd {
	if n.GeoLocation == nil || m.width == 0 {
		return nil
	}
	req := m.mapRequest(*n.GeoLocation)
	key := geo.FormatLngLat(req.Center) + "@" + sizeKey(req.Width, req.Height)
	if m.mapView.key == key {
		return nil
	}
	m.mapView = mapState{key: key}
	if !m.deps.Maps.HasCredential() {
		m.mapView.err = mapview.ErrNoCredential
		return nil
	}
	if img, ok := m.deps.Maps.Cached(req); ok {
		m.mapView.img = img
		return nil
	}
	m.mapView.loading = true
	loader := m.deps.Maps
	return func() tea.Msg {
		img, err := loader.Load(context.Background(), req)
		return mapMsg{key: key, img: img, err: err}
	}
}

func (m Model) chatPending() bool {
	s := m.session()
	return s != nil && s.Pending()
}
