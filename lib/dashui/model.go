// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/slotdeck/lib/clock"
	"github.com/bureau-foundation/slotdeck/lib/logging"
	"github.com/bureau-foundation/slotdeck/lib/scheduler"
	"github.com/bureau-foundation/slotdeck/lib/schema"
	"github.com/bureau-foundation/slotdeck/lib/session"
	"github.com/bureau-foundation/slotdeck/lib/slot"
	"github.com/bureau-foundation/slotdeck/lib/slotapi"
	"github.com/bureau-foundation/slotdeck/lib/snapcache"
)

// Backend is the part of the slot API the dashboard calls.
// *slotapi.Client implements it.
type Backend interface {
	FullDashboard(ctx context.Context) (*schema.Dashboard, error)
	Camera(ctx context.Context, slotNumber int) (*schema.CameraFrame, error)
	Control(ctx context.Context, slotNumber int, on bool) (string, error)
	MarkAlertRead(ctx context.Context, alertID int64) error
}

// noticeDuration is how long a notice stays in the status line.
const noticeDuration = 3 * time.Second

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeWarning
	noticeError
)

type notice struct {
	text    string
	level   noticeLevel
	expires time.Time
}

// startMsg is the first message; it starts polling.
type startMsg struct{}

type dashboardResultMsg struct {
	sequence uint64
	// generation is the cache generation when the fetch was issued.
	generation uint64
	dashboard  *schema.Dashboard
	err        error
}

type cameraResultMsg struct {
	slotNumber int
	frame      FrameState
	err        error
}

type controlResultMsg struct {
	slotNumber int
	desiredOn  bool
	message    string
	err        error
}

type markReadResultMsg struct {
	alertID int64
	err     error
}

type cacheLoadedMsg struct {
	snapshot *snapcache.Snapshot
}

// focusKey identifies the focused action across re-renders.
type focusKey struct {
	kind       ActionKind
	slotNumber int
	alertID    int64
}

func (action Action) focusKey() focusKey {
	return focusKey{kind: action.Kind, slotNumber: action.SlotNumber, alertID: action.AlertID}
}

// Options configures a Model.
type Options struct {
	Backend Backend

	// Guard supplies the current user and privileges. Required.
	Guard *session.Guard

	// Cache, when set, receives every applied snapshot and seeds the
	// first render.
	Cache *snapcache.Cache

	// Clock defaults to the real clock.
	Clock clock.Clock

	// Intervals defaults to scheduler.DefaultIntervals.
	Intervals scheduler.Intervals

	// Sink receives scheduler ticks. It is normally ProgramSink.Tick;
	// nil drops ticks.
	Sink func(scheduler.Tick)

	// RequestTimeout bounds each backend call. Default: 10s.
	RequestTimeout time.Duration

	// AlertLimit is the number of alerts listed. Default: 5.
	AlertLimit int

	Labels *Labels
	Theme  *Theme
	Logger *slog.Logger
}

// Model is the dashboard bubbletea model.
type Model struct {
	backend        Backend
	cache          *snapcache.Cache
	clock          clock.Clock
	scheduler      *scheduler.Scheduler
	logger         *slog.Logger
	labels         Labels
	theme          Theme
	keys           KeyMap
	requestTimeout time.Duration
	alertLimit     int

	user       schema.User
	canControl bool
	isAdmin    bool

	// dashboard is replaced wholesale by every applied fetch.
	dashboard *schema.Dashboard
	cached    bool
	cachedAt  time.Time

	frames     map[int]FrameState
	optimistic map[int]bool

	// issued is the sequence of the newest dashboard fetch sent;
	// applied is the newest one whose result was handled.
	issued  uint64
	applied uint64

	filter FilterModel
	focus  focusKey
	// scrolledTo is the focus last scrolled into view.
	scrolledTo focusKey
	notice     *notice

	current     Screen
	body        string
	viewport    viewport.Model
	width       int
	height      int
	ready       bool
	ended       bool
	endedByAuth bool
}

// NewModel creates the dashboard model. Polling starts when the
// program runs Init.
func NewModel(options Options) Model {
	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	intervals := options.Intervals
	if intervals.Dashboard <= 0 || intervals.Camera <= 0 {
		intervals = scheduler.DefaultIntervals()
	}
	sink := options.Sink
	if sink == nil {
		sink = func(scheduler.Tick) {}
	}
	timeout := options.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	alertLimit := options.AlertLimit
	if alertLimit <= 0 {
		alertLimit = 5
	}
	labels := English
	if options.Labels != nil {
		labels = *options.Labels
	}
	theme := DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	logger := options.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	user, _ := options.Guard.CurrentUser()
	model := Model{
		backend:        options.Backend,
		cache:          options.Cache,
		clock:          clk,
		scheduler:      scheduler.New(clk, intervals, sink),
		logger:         logger,
		labels:         labels,
		theme:          theme,
		keys:           DefaultKeyMap,
		requestTimeout: timeout,
		alertLimit:     alertLimit,
		user:           user,
		canControl:     options.Guard.HasControlPrivilege(),
		isAdmin:        options.Guard.HasAdminPrivilege(),
		frames:         make(map[int]FrameState),
		optimistic:     make(map[int]bool),
	}
	model.syncViewport()
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Ended reports whether the dashboard was left because the session
// ended, as opposed to the user quitting.
func (model Model) Ended() bool {
	return model.endedByAuth
}

// Stop cancels every timer. The caller runs it after the program
// exits, whatever the reason.
func (model Model) Stop() {
	model.scheduler.StopAll()
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	updated, command := model.update(message)
	updated.syncViewport()
	return updated, command
}

func (model Model) update(message tea.Msg) (Model, tea.Cmd) {
	model.expireNotice()
	if model.ended {
		return model, nil
	}

	switch message := message.(type) {
	case startMsg:
		model.scheduler.Start(scheduler.KindDashboard, scheduler.DashboardKey)
		fetch := model.resync()
		return model, tea.Batch(fetch, model.loadCache())

	case TickMsg:
		return model.handleTick(message.Tick)

	case dashboardResultMsg:
		return model.handleDashboardResult(message)

	case cameraResultMsg:
		return model.handleCameraResult(message)

	case controlResultMsg:
		return model.handleControlResult(message)

	case markReadResultMsg:
		return model.handleMarkReadResult(message)

	case cacheLoadedMsg:
		if model.dashboard == nil && message.snapshot != nil {
			model.dashboard = message.snapshot.Dashboard
			model.cached = true
			model.cachedAt = message.snapshot.SavedAt
		}

	case SessionEndedMsg:
		return model.endSession()

	case logging.RecordMsg:
		level := noticeWarning
		if message.Level >= slog.LevelError {
			level = noticeError
		}
		model.showNotice(message.Summary, level)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true

	case tea.KeyMsg:
		return model.handleKey(message)
	}
	return model, nil
}

func (model Model) handleTick(tick scheduler.Tick) (Model, tea.Cmd) {
	if !model.scheduler.Accept(tick) {
		return model, nil
	}
	switch tick.Kind {
	case scheduler.KindDashboard:
		fetch := model.resync()
		return model, fetch
	case scheduler.KindCamera:
		return model, model.fetchCamera(tick.Key)
	}
	return model, nil
}

// resync issues a dashboard fetch. It is the one way state is
// refreshed: by the dashboard timer, the refresh key, a failed
// control command, and a mark-read.
func (model *Model) resync() tea.Cmd {
	model.issued++
	sequence := model.issued
	var generation uint64
	if model.cache != nil {
		generation = model.cache.Generation()
	}
	backend, timeout := model.backend, model.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		dashboard, err := backend.FullDashboard(ctx)
		return dashboardResultMsg{sequence: sequence, generation: generation, dashboard: dashboard, err: err}
	}
}

func (model Model) handleDashboardResult(message dashboardResultMsg) (Model, tea.Cmd) {
	if message.sequence <= model.applied {
		model.logger.Debug("dropping stale dashboard result",
			"sequence", message.sequence, "applied", model.applied)
		return model, nil
	}
	model.applied = message.sequence

	if message.err != nil {
		if slotapi.IsUnauthorized(message.err) {
			return model.endSession()
		}
		// The previous render stays; only the notice changes.
		model.logger.Info("dashboard refresh failed", "error", message.err)
		model.showNotice(model.errorText(message.err, model.labels.LoadFailed), noticeError)
		return model, nil
	}

	model.applySnapshot(message.dashboard)
	commands := model.restartCameras()
	commands = append(commands, model.saveCache(model.dashboard, message.generation))
	return model, tea.Batch(commands...)
}

// applySnapshot replaces the displayed state with dashboard.
func (model *Model) applySnapshot(dashboard *schema.Dashboard) {
	if dashboard == nil {
		dashboard = &schema.Dashboard{}
	}
	unique, duplicates := slot.Dedupe(dashboard.Slots)
	if len(duplicates) > 0 {
		model.logger.Warn("backend sent duplicate slot numbers; keeping the first of each",
			"duplicates", duplicates)
	}
	replaced := *dashboard
	replaced.Slots = unique
	if unknown := slot.Classify(unique).Unknown; len(unknown) > 0 {
		for _, s := range unknown {
			model.logger.Warn("ignoring slot with unknown type",
				"slot", s.SlotNumber, "type", string(s.Type))
		}
	}

	model.dashboard = &replaced
	model.cached = false
	model.optimistic = make(map[int]bool)
}

// restartCameras restarts the timer of every camera in the snapshot,
// fetching each immediately, and stops the timers of cameras that
// are gone.
func (model *Model) restartCameras() []tea.Cmd {
	present := make(map[int]bool)
	var commands []tea.Cmd
	for _, camera := range slot.Classify(model.dashboard.Slots).Camera {
		present[camera.SlotNumber] = true
		model.scheduler.Start(scheduler.KindCamera, camera.SlotNumber)
		commands = append(commands, model.fetchCamera(camera.SlotNumber))
	}
	for _, slotNumber := range model.scheduler.ActiveKeys(scheduler.KindCamera) {
		if !present[slotNumber] {
			model.scheduler.Stop(scheduler.KindCamera, slotNumber)
		}
	}
	for slotNumber := range model.frames {
		if !present[slotNumber] {
			delete(model.frames, slotNumber)
		}
	}
	return commands
}

func (model *Model) fetchCamera(slotNumber int) tea.Cmd {
	backend, timeout := model.backend, model.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		frame, err := backend.Camera(ctx, slotNumber)
		if err != nil {
			return cameraResultMsg{slotNumber: slotNumber, err: err}
		}
		return cameraResultMsg{slotNumber: slotNumber, frame: DecodeFrame(frame)}
	}
}

func (model Model) handleCameraResult(message cameraResultMsg) (Model, tea.Cmd) {
	if message.err != nil && slotapi.IsUnauthorized(message.err) {
		return model.endSession()
	}
	if !model.scheduler.Active(scheduler.KindCamera, message.slotNumber) {
		return model, nil
	}
	if message.err != nil {
		model.logger.Debug("camera fetch failed", "slot", message.slotNumber, "error", message.err)
		model.frames[message.slotNumber] = FrameState{Status: FrameFailed}
		return model, nil
	}
	model.frames[message.slotNumber] = message.frame
	return model, nil
}

// toggleControl shows the desired state at once and sends the command.
// Privileges are checked when the action table is built, not here.
func (model *Model) toggleControl(slotNumber int, desiredOn bool) tea.Cmd {
	model.optimistic[slotNumber] = desiredOn
	backend, timeout := model.backend, model.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		text, err := backend.Control(ctx, slotNumber, desiredOn)
		return controlResultMsg{slotNumber: slotNumber, desiredOn: desiredOn, message: text, err: err}
	}
}

func (model Model) handleControlResult(message controlResultMsg) (Model, tea.Cmd) {
	if message.err == nil {
		model.showNotice(message.message, noticeSuccess)
		return model, nil
	}
	if slotapi.IsUnauthorized(message.err) {
		return model.endSession()
	}
	model.logger.Info("control command failed",
		"slot", message.slotNumber, "on", message.desiredOn, "error", message.err)
	delete(model.optimistic, message.slotNumber)
	model.showNotice(model.errorText(message.err, model.labels.ControlFailed), noticeError)
	fetch := model.resync()
	return model, fetch
}

func (model *Model) markRead(alertID int64) tea.Cmd {
	backend, timeout := model.backend, model.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return markReadResultMsg{alertID: alertID, err: backend.MarkAlertRead(ctx, alertID)}
	}
}

// handleMarkReadResult resyncs whatever the outcome: read state is
// only ever taken from the backend.
func (model Model) handleMarkReadResult(message markReadResultMsg) (Model, tea.Cmd) {
	if message.err != nil {
		if slotapi.IsUnauthorized(message.err) {
			return model.endSession()
		}
		model.logger.Info("mark alert read failed", "alert", message.alertID, "error", message.err)
		model.showNotice(model.errorText(message.err, model.labels.LoadFailed), noticeError)
	}
	fetch := model.resync()
	return model, fetch
}

func (model *Model) loadCache() tea.Cmd {
	if model.cache == nil || model.user.ID == 0 {
		return nil
	}
	cache, userID, logger := model.cache, model.user.ID, model.logger
	return func() tea.Msg {
		snapshot, err := cache.Load(userID)
		if err != nil {
			// A bare ErrNotFound is the normal first run.
			if err != snapcache.ErrNotFound {
				logger.Debug("no usable snapshot cache", "error", err)
			}
			return nil
		}
		return cacheLoadedMsg{snapshot: snapshot}
	}
}

// saveCache writes dashboard unless the cache was purged after
// generation was read, which means the session ended while the fetch
// was in flight.
func (model *Model) saveCache(dashboard *schema.Dashboard, generation uint64) tea.Cmd {
	if model.cache == nil || model.user.ID == 0 {
		return nil
	}
	cache, userID, logger, now := model.cache, model.user.ID, model.logger, model.clock.Now()
	return func() tea.Msg {
		err := cache.SaveAt(generation, userID, dashboard, now)
		if errors.Is(err, snapcache.ErrPurged) {
			logger.Debug("skipping snapshot save after purge")
		} else if err != nil {
			logger.Warn("saving snapshot cache failed", "error", err)
		}
		return nil
	}
}

// endSession leaves the dashboard: every timer stops and the program
// quits. Results still in flight are dropped on arrival.
func (model Model) endSession() (Model, tea.Cmd) {
	model.scheduler.StopAll()
	if model.ended {
		return model, nil
	}
	model.ended = true
	model.endedByAuth = true
	return model, tea.Quit
}

func (model Model) quit() (Model, tea.Cmd) {
	model.scheduler.StopAll()
	model.ended = true
	return model, tea.Quit
}

// errorText is the notice for a failed call: the backend's own text
// for application errors, fallback when it sent none, and the
// connection notice for everything else.
func (model Model) errorText(err error, fallback string) string {
	if slotapi.IsApplication(err) {
		if text := slotapi.Message(err); strings.TrimSpace(text) != "" {
			return text
		}
		return fallback
	}
	return model.labels.CannotReach
}

// showNotice replaces the status-line notice. Blank text is ignored.
func (model *Model) showNotice(text string, level noticeLevel) {
	if strings.TrimSpace(text) == "" {
		return
	}
	model.notice = &notice{text: text, level: level, expires: model.clock.Now().Add(noticeDuration)}
}

func (model *Model) expireNotice() {
	if model.notice != nil && !model.clock.Now().Before(model.notice.expires) {
		model.notice = nil
	}
}

func (model Model) handleKey(message tea.KeyMsg) (Model, tea.Cmd) {
	if model.filter.Active {
		return model.handleFilterKeys(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model.quit()

	case key.Matches(message, model.keys.Up):
		model.moveFocus(-1)

	case key.Matches(message, model.keys.Down):
		model.moveFocus(1)

	case key.Matches(message, model.keys.PageUp):
		model.viewport.HalfViewUp()

	case key.Matches(message, model.keys.PageDown):
		model.viewport.HalfViewDown()

	case key.Matches(message, model.keys.Activate):
		return model.activate()

	case key.Matches(message, model.keys.Refresh):
		fetch := model.resync()
		return model, fetch

	case key.Matches(message, model.keys.FilterActivate):
		model.filter.Active = true

	case key.Matches(message, model.keys.FilterClear):
		model.filter.Clear()

	case key.Matches(message, model.keys.AdminHint):
		if model.isAdmin {
			model.showNotice(model.labels.SlotsHelp, noticeInfo)
		} else {
			model.showNotice(model.labels.AdminOnly, noticeWarning)
		}
	}
	return model, nil
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		model.filter.Clear()
	case tea.KeyEnter:
		model.filter.Active = false
	case tea.KeyBackspace:
		model.filter.HandleBackspace()
	case tea.KeyCtrlC:
		return model.quit()
	case tea.KeySpace:
		model.filter.HandleRune(' ')
	case tea.KeyRunes:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
	}
	return model, nil
}

// focusIndex returns the index of the focused action in the current
// screen, falling back to the first action, or -1 when there are none.
func (model Model) focusIndex() int {
	actions := model.current.Actions
	if len(actions) == 0 {
		return -1
	}
	for index, action := range actions {
		if action.focusKey() == model.focus {
			return index
		}
	}
	return 0
}

func (model *Model) moveFocus(delta int) {
	index := model.focusIndex()
	if index < 0 {
		return
	}
	index = max(0, min(len(model.current.Actions)-1, index+delta))
	model.focus = model.current.Actions[index].focusKey()
}

// activate dispatches the focused action.
func (model Model) activate() (Model, tea.Cmd) {
	index := model.focusIndex()
	if index < 0 {
		return model, nil
	}
	action := model.current.Actions[index]
	model.focus = action.focusKey()
	switch action.Kind {
	case ActionToggle:
		command := model.toggleControl(action.SlotNumber, action.DesiredOn)
		return model, command
	case ActionMarkRead:
		return model, model.markRead(action.AlertID)
	}
	return model, nil
}

// screen renders the current state.
func (model *Model) screen() Screen {
	return BuildScreen(ScreenInput{
		Dashboard:  model.dashboard,
		Frames:     model.frames,
		Optimistic: model.optimistic,
		CanControl: model.canControl,
		IsAdmin:    model.isAdmin,
		Now:        model.clock.Now(),
		AlertLimit: model.alertLimit,
		Filter:     &model.filter,
		Labels:     model.labels,
	})
}

// syncViewport rebuilds the screen and the scrollable body, and
// scrolls the focused row into view when the focus moved.
func (model *Model) syncViewport() {
	model.current = model.screen()
	if index := model.focusIndex(); index >= 0 {
		model.focus = model.current.Actions[index].focusKey()
	}

	body, focusLine := model.renderBody(model.current)
	model.body = body
	model.viewport.Width = model.width
	model.viewport.Height = model.bodyHeight()
	model.viewport.SetContent(body)

	if focusLine < 0 || model.focus == model.scrolledTo || model.viewport.Height <= 0 {
		return
	}
	model.scrolledTo = model.focus
	switch {
	case focusLine < model.viewport.YOffset:
		model.viewport.SetYOffset(focusLine)
	case focusLine >= model.viewport.YOffset+model.viewport.Height:
		model.viewport.SetYOffset(focusLine - model.viewport.Height + 1)
	}
}

// bodyHeight is the terminal height minus the header, filter, notice,
// and help lines.
func (model Model) bodyHeight() int {
	chrome := 3
	if model.filter.Active || model.filter.Input != "" {
		chrome++
	}
	return max(0, model.height-chrome)
}
