package app

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/beacon"
	"signal-link.klederson.com/internal/config"
	"signal-link.klederson.com/internal/radar"
	"signal-link.klederson.com/internal/ui"
)

// Mode is the screen currently shown.
type Mode int

const (
	ModeLanding Mode = iota
	ModeSender
	ModeReceiver
)

func (m Mode) String() string {
	switch m {
	case ModeSender:
		return "sender"
	case ModeReceiver:
		return "receiver"
	default:
		return "landing"
	}
}

var menuItems = []ui.MenuItem{
	{Title: "SENDER", Description: "Broadcast an SOS beacon with your location"},
	{Title: "RECEIVER", Description: "Scan for nearby distress signals"},
}

// Options wires the model to its collaborators.
type Options struct {
	Mode      Mode
	Simulator *beacon.Simulator
	Analyzer  analysis.Analyzer
	Locator   beacon.Locator
	Log       logrus.FieldLogger
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	sim      *beacon.Simulator
	sweep    *radar.Sweep
	sender   *beacon.Sender
	analyzer analysis.Analyzer
	locator  beacon.Locator
	log      logrus.FieldLogger

	ctx       context.Context
	cancel    context.CancelFunc
	gpsCancel context.CancelFunc

	// send delivers messages from background goroutines into the program.
	send func(tea.Msg)
}

// AppModel is the root Bubble Tea model for SIGNAL-LINK.
type AppModel struct {
	width  int
	height int

	mode       Mode
	menuCursor int

	// Receiver
	cursor     int
	selectedID string

	// Sender
	input  string
	notice string

	now    time.Time
	shared *shared

	// Cached snapshot, newest first
	signals []beacon.Signal
}

// New creates a new AppModel. Missing collaborators get stock defaults.
func New(opts Options) AppModel {
	if opts.Simulator == nil {
		opts.Simulator = beacon.NewSimulator(beacon.DefaultSimulatorConfig(), nil)
	}
	if opts.Analyzer == nil {
		opts.Analyzer = analysis.NewLocal()
	}
	if opts.Locator == nil {
		opts.Locator = beacon.NewSimulatedGPS(config.OriginLat, config.OriginLon, config.SignalAccuracy)
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}

	ctx, cancel := context.WithCancel(context.Background())
	return AppModel{
		mode: opts.Mode,
		now:  time.Now(),
		shared: &shared{
			sim:      opts.Simulator,
			sweep:    radar.NewSweep(),
			sender:   beacon.NewSender(),
			analyzer: opts.Analyzer,
			locator:  opts.Locator,
			log:      opts.Log,
			ctx:      ctx,
			cancel:   cancel,
		},
	}
}

// Attach connects background producers to the program. Must be called
// before p.Run().
func (m *AppModel) Attach(p *tea.Program) {
	m.shared.send = p.Send
	m.shared.sim.OnSignal(func(s beacon.Signal) {
		p.Send(SignalMsg(s))
	})
}

func (m AppModel) Init() tea.Cmd {
	if m.mode == ModeSender {
		m.startGPS()
	}
	return tea.Batch(tickCmd(), batteryCmd())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.now = time.Time(msg)
		m.shared.sweep.Update(m.now)
		m.refreshSignals()
		return m, tickCmd()

	case BatteryMsg:
		m.shared.sender.DrainBattery()
		return m, batteryCmd()

	case SignalMsg:
		m.shared.log.WithFields(logrus.Fields{
			"id":       msg.ID,
			"category": msg.Category,
			"priority": msg.Priority,
			"distance": int(msg.Distance),
		}).Debug("signal received")
		m.refreshSignals()
		return m, nil

	case FixMsg:
		m.shared.sender.UpdateLocation(beacon.GeoLocation(msg))
		if m.notice == beacon.ErrNoFix.Error() {
			m.notice = ""
		}
		return m, nil

	case AnalysisDoneMsg:
		m.shared.sender.CompleteAnalysis(msg.Assessment, m.now)
		m.logBroadcast()
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.shutdown()
		return m, tea.Quit
	}

	switch m.mode {
	case ModeSender:
		return m.handleSenderKey(msg)
	case ModeReceiver:
		return m.handleReceiverKey(msg)
	default:
		return m.handleLandingKey(msg)
	}
}

func (m AppModel) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q":
		m.shutdown()
		return m, tea.Quit

	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}

	case "down", "j":
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}

	case "1":
		m.enter(ModeSender)

	case "2":
		m.enter(ModeReceiver)

	case "enter":
		if m.menuCursor == 0 {
			m.enter(ModeSender)
		} else {
			m.enter(ModeReceiver)
		}
	}

	return m, nil
}

func (m AppModel) handleReceiverKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q":
		m.shutdown()
		return m, tea.Quit

	case "esc":
		if m.selectedID != "" {
			m.selectedID = ""
			return m, nil
		}
		m.enter(ModeLanding)

	case "s", "S":
		m.toggleScan()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.signals)-1 {
			m.cursor++
		}

	case "home":
		m.cursor = 0

	case "end":
		if len(m.signals) > 0 {
			m.cursor = len(m.signals) - 1
		}

	case "enter":
		if m.cursor < len(m.signals) {
			m.selectedID = m.signals[m.cursor].ID
		}
	}

	return m, nil
}

func (m AppModel) handleSenderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sender := m.shared.sender

	switch msg.String() {
	case "esc":
		m.enter(ModeLanding)
		return m, nil

	case "enter":
		return m.toggleBeacon()

	case "ctrl+p":
		if sender.State() == beacon.StateIdle {
			m.input = config.PresetMessage
		}
		return m, nil

	case "ctrl+u":
		if sender.State() == beacon.StateIdle {
			m.input = ""
		}
		return m, nil
	}

	// The context is frozen once analysis starts
	if sender.State() != beacon.StateIdle {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	case tea.KeySpace:
		m.input += " "
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	}
	return m, nil
}

func (m AppModel) toggleBeacon() (tea.Model, tea.Cmd) {
	sender := m.shared.sender
	wasBroadcasting := sender.State() == beacon.StateBroadcasting

	analyze, err := sender.Toggle(m.input, m.now)
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""

	if wasBroadcasting {
		m.shared.log.Info("beacon deactivated")
		return m, nil
	}
	if !analyze {
		m.logBroadcast()
		return m, nil
	}
	return m, analyzeCmd(m.shared.ctx, m.shared.analyzer, m.input)
}

func (m *AppModel) toggleScan() {
	sim := m.shared.sim
	if sim.Active() {
		sim.Stop()
		m.shared.sweep.Park()
		m.shared.log.Info("receiver stopped")
	} else {
		sim.Start(m.shared.ctx)
		m.shared.sweep.Resume(m.now)
		m.shared.log.Info("receiver started")
	}
	m.cursor = 0
	m.selectedID = ""
	m.refreshSignals()
}

// enter switches screens, releasing whatever the previous screen held.
func (m *AppModel) enter(mode Mode) {
	switch m.mode {
	case ModeReceiver:
		if m.shared.sim.Active() {
			m.shared.sim.Stop()
			m.shared.sweep.Park()
		}
		m.selectedID = ""
		m.cursor = 0
	case ModeSender:
		m.stopGPS()
		m.notice = ""
	}

	m.mode = mode
	if mode == ModeSender {
		m.startGPS()
	}
	m.refreshSignals()
}

func (m *AppModel) startGPS() {
	if m.shared.gpsCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(m.shared.ctx)
	m.shared.gpsCancel = cancel
	m.shared.locator.Watch(ctx, func(loc beacon.GeoLocation) {
		if send := m.shared.send; send != nil {
			send(FixMsg(loc))
		}
	})
}

func (m *AppModel) stopGPS() {
	if m.shared.gpsCancel != nil {
		m.shared.gpsCancel()
		m.shared.gpsCancel = nil
	}
}

func (m *AppModel) refreshSignals() {
	snap := m.shared.sim.Signals()
	for i, j := 0, len(snap)-1; i < j; i, j = i+1, j-1 {
		snap[i], snap[j] = snap[j], snap[i]
	}
	m.signals = snap

	if m.cursor >= len(m.signals) {
		m.cursor = max(0, len(m.signals)-1)
	}
	if m.selectedID != "" {
		if _, ok := m.shared.sim.Find(m.selectedID); !ok {
			m.selectedID = ""
		}
	}
}

func (m *AppModel) logBroadcast() {
	sos, ok := m.shared.sender.SOS()
	if !ok {
		return
	}
	m.shared.log.WithFields(logrus.Fields{
		"id":       sos.ID,
		"category": sos.Category,
		"priority": sos.Priority,
		"lat":      sos.Location.Latitude,
		"lon":      sos.Location.Longitude,
	}).Info("beacon broadcasting")
}

// Shutdown stops every background producer.
func (m AppModel) Shutdown() {
	m.shutdown()
}

func (m *AppModel) shutdown() {
	m.shared.sim.Stop()
	m.stopGPS()
	m.shared.cancel()
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}

	bodyH := m.height - 2
	if bodyH < 5 {
		bodyH = 5
	}

	switch m.mode {
	case ModeSender:
		return m.senderView(bodyH)
	case ModeReceiver:
		return m.receiverView(bodyH)
	default:
		return m.landingView(bodyH)
	}
}

func (m AppModel) landingView(bodyH int) string {
	menuBar := ui.RenderMenuBar(m.width, "", []ui.KeyHint{
		{Key: "↑↓", Label: "Select"},
		{Key: "ENTER", Label: "Open"},
		{Key: "Q", Label: "Quit"},
	}, "READY", true)
	body := ui.RenderLanding(m.width, bodyH, menuItems, m.menuCursor)
	hint := ui.RenderHintBar(m.width, "1 Sender  2 Receiver")
	return ui.ComposeLayout(menuBar, body, "", hint)
}

func (m AppModel) senderView(bodyH int) string {
	sender := m.shared.sender
	state := sender.State()

	label := "Activate"
	if state == beacon.StateBroadcasting {
		label = "Stop"
	}
	menuBar := ui.RenderMenuBar(m.width, "SENDER", []ui.KeyHint{
		{Key: "ENTER", Label: label},
		{Key: "^P", Label: "Preset"},
		{Key: "ESC", Label: "Back"},
	}, state.String(), state == beacon.StateBroadcasting)

	loc, hasFix := sender.Location()
	body := ui.RenderSenderPanel(m.width, bodyH, ui.SenderView{
		State:      state,
		Battery:    sender.Battery(),
		Location:   loc,
		HasFix:     hasFix,
		Input:      m.input,
		Assessment: sender.Assessment(),
		Notice:     m.notice,
	})
	hint := ui.RenderHintBar(m.width, "Empty description broadcasts a generic beacon  ^U clear")
	return ui.ComposeLayout(menuBar, body, "", hint)
}

func (m AppModel) receiverView(bodyH int) string {
	scanning := m.shared.sim.Active()
	status := "STANDBY"
	if scanning {
		status = "SCANNING"
	}
	scanLabel := "Start Scan"
	if scanning {
		scanLabel = "Stop Scan"
	}
	menuBar := ui.RenderMenuBar(m.width, "RECEIVER", []ui.KeyHint{
		{Key: "S", Label: scanLabel},
		{Key: "↑↓", Label: "Select"},
		{Key: "ENTER", Label: "Lock"},
		{Key: "ESC", Label: "Back"},
		{Key: "Q", Label: "Quit"},
	}, status, scanning)

	radarW := m.width * 3 / 4
	if radarW < 30 {
		radarW = 30
	}
	listW := m.width - radarW
	if listW < 15 {
		listW = 15
		radarW = m.width - listW
	}

	var mainPanel string
	if sig, ok := m.selected(); ok {
		mainPanel = ui.RenderTargetPanel(&sig, radarW, bodyH, m.now)
	} else {
		innerW := radarW - 4
		innerH := bodyH - 4
		if innerW < 5 {
			innerW = 5
		}
		if innerH < 3 {
			innerH = 3
		}
		highlight := ""
		if m.cursor < len(m.signals) {
			highlight = m.signals[m.cursor].ID
		}
		radarContent := radar.Render(innerW, innerH, m.signals, m.shared.sweep, highlight)
		legend := radar.RenderLegend(innerW)
		mainPanel = ui.RenderRadarPanel(radarW, bodyH, radarContent, legend, "")
	}

	list := ui.RenderSignalList(m.signals, listW, bodyH, m.cursor)

	statusBar := ui.RenderStatusBar(m.width, ui.ReceiverStatus{
		Scanning: scanning,
		Signals:  len(m.signals),
		Capacity: m.shared.sim.Capacity(),
		Critical: countCritical(m.signals),
		SweepDeg: m.shared.sweep.Degrees(),
		MaxRange: config.MaxRange,
	})

	return ui.ComposeLayout(menuBar, mainPanel, list, statusBar)
}

func (m AppModel) selected() (beacon.Signal, bool) {
	if m.selectedID == "" {
		return beacon.Signal{}, false
	}
	for _, s := range m.signals {
		if s.ID == m.selectedID {
			return s, true
		}
	}
	return beacon.Signal{}, false
}

func countCritical(signals []beacon.Signal) int {
	n := 0
	for i := range signals {
		if signals[i].Critical() {
			n++
		}
	}
	return n
}

func analyzeCmd(ctx context.Context, a analysis.Analyzer, text string) tea.Cmd {
	return func() tea.Msg {
		return AnalysisDoneMsg{Assessment: a.Analyze(ctx, text)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func batteryCmd() tea.Cmd {
	return tea.Tick(config.BatteryDrainInterval, func(t time.Time) tea.Msg {
		return BatteryMsg(t)
	})
}
