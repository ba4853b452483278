package tui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/switcher"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/extractors"
	"github.com/custodia-labs/docchat/internal/logger"
)

// msgFileNotFound is shown when the path typed into the upload prompt
// does not exist.
const msgFileNotFound = "File not found. Check the path and try again."

// ReadFileFunc loads a file from disk for upload.
type ReadFileFunc func(path string) (*domain.RawDocument, error)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Service calls that mutate the session always run inside tea.Cmd
// goroutines, never in Update: session observers deliver changes through
// Program.Send, which blocks until the event loop is free.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// readFile loads upload candidates from disk.
	readFile ReadFileFunc

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// chatView shows the transcript and the question input.
	chatView *chat.View

	// uploadView prompts for a file path.
	uploadView *upload.View

	// switcherView lists documents for selection.
	switcherView *switcher.View

	// statusBar shows progress, banners and hints.
	statusBar *status.Bar

	// session is the last session copy received from the core.
	session domain.Session

	// currentView tracks which view is active.
	currentView messages.ViewType

	// sending is set while a question awaits its answer.
	sending bool

	// uploads counts uploads in progress.
	uploads int

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		readFile:     extractors.ReadFile,
		styles:       s,
		keymap:       km,
		chatView:     chat.NewView(s, km),
		uploadView:   upload.NewView(s, km),
		switcherView: switcher.NewView(s, km),
		statusBar:    status.NewBar(s, km),
		session:      *domain.NewSession(),
		currentView:  messages.ViewUpload, // until a session with documents arrives
	}
	a.chatView.Blur()
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithReadFile replaces the function used to load files for upload.
func (a *App) WithReadFile(fn ReadFileFunc) *App {
	a.readFile = fn
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docchat"),
		a.loadSession(),
		a.uploadView.Init(),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd

	case messages.SessionChanged:
		a.applySession(msg.Session)
		return a, nil

	case messages.UploadRequested:
		a.uploads++
		return a, tea.Batch(a.refreshBusy(), a.upload(msg.Path))

	case messages.DocumentUploaded:
		a.uploads--
		cmds := []tea.Cmd{a.refreshBusy(), a.loadSession()}
		if msg.Err != nil {
			a.err = msg.Err
			cmds = append(cmds, a.showError(msg.Err))
		} else {
			a.switchView(messages.ViewChat)
		}
		return a, tea.Batch(cmds...)

	case messages.AnswerReceived:
		a.sending = false
		cmds := []tea.Cmd{a.refreshBusy(), a.loadSession()}
		if msg.Err != nil {
			a.err = msg.Err
			cmds = append(cmds, a.showError(msg.Err))
		}
		return a, tea.Batch(cmds...)

	case messages.DocumentSelected:
		a.switchView(messages.ViewChat)
		return a, a.selectDocument(msg.ID)

	case messages.SessionReset:
		if msg.Err != nil {
			a.err = msg.Err
			return a, a.showError(msg.Err)
		}
		a.chatView.ResetInput()
		return a, a.loadSession()

	case messages.ViewChanged:
		a.switchView(msg.View)
		return a, nil

	case messages.BannerExpired:
		a.statusBar.ExpireBanner(msg.ID)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.showError(msg.Err)

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink, mouse) to the active view
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewSwitcher:
		a.switcherView, cmd = a.switcherView.Update(msg)
	}
	return a, cmd
}

// handleKey applies global bindings, then forwards the key to the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keymap.Upload):
		a.switchView(messages.ViewUpload)
		return a, a.uploadView.Focus()
	case key.Matches(msg, a.keymap.NewChat):
		return a, a.reset()
	case key.Matches(msg, a.keymap.Switch):
		a.switchView(messages.ViewSwitcher)
		return a, nil
	}

	switch a.currentView {
	case messages.ViewChat:
		if key.Matches(msg, a.keymap.Submit) {
			return a, a.submit()
		}
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewSwitcher:
		a.switcherView, cmd = a.switcherView.Update(msg)
	}
	return a, cmd
}

// submit sends the pending question unless a send is in flight or the
// input is blank.
func (a *App) submit() tea.Cmd {
	if !a.CanSubmit() {
		return nil
	}
	question := a.chatView.Value()
	a.chatView.ResetInput()
	a.sending = true

	chatService, ctx := a.ports.Chat, a.ctx
	send := func() tea.Msg {
		reply, err := chatService.Send(ctx, question)
		return messages.AnswerReceived{Reply: reply, Err: err}
	}
	return tea.Batch(a.refreshBusy(), send)
}

// CanSubmit reports whether enter would send the pending question.
func (a *App) CanSubmit() bool {
	return !a.sending && strings.TrimSpace(a.chatView.Value()) != ""
}

// upload reads and uploads the file at path.
func (a *App) upload(path string) tea.Cmd {
	documentService, ctx, readFile := a.ports.Document, a.ctx, a.readFile
	return func() tea.Msg {
		raw, err := readFile(path)
		if err != nil {
			return messages.DocumentUploaded{Path: path, Err: err}
		}
		doc, err := documentService.Upload(ctx, raw)
		return messages.DocumentUploaded{Path: path, Document: doc, Err: err}
	}
}

// selectDocument makes the document with id active.
func (a *App) selectDocument(id string) tea.Cmd {
	documentService, sessionService, ctx := a.ports.Document, a.ports.Session, a.ctx
	return func() tea.Msg {
		if err := documentService.SetActive(ctx, id); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		sess, err := sessionService.Snapshot(ctx)
		if err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.SessionChanged{Session: *sess}
	}
}

// reset discards the session.
func (a *App) reset() tea.Cmd {
	sessionService, ctx := a.ports.Session, a.ctx
	return func() tea.Msg {
		return messages.SessionReset{Err: sessionService.Reset(ctx)}
	}
}

// loadSession fetches a fresh copy of the session.
func (a *App) loadSession() tea.Cmd {
	sessionService, ctx := a.ports.Session, a.ctx
	return func() tea.Msg {
		sess, err := sessionService.Snapshot(ctx)
		if err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.SessionChanged{Session: *sess}
	}
}

// applySession renders a new session copy. The upload prompt replaces the
// chat while there are no documents, and gives way to it once the first
// document arrives.
func (a *App) applySession(sess domain.Session) {
	forcedUpload := a.currentView == messages.ViewUpload && !a.uploadView.Cancellable()

	a.session = sess
	hasDocuments := len(sess.Documents) > 0
	a.keymap.SetDocumentCount(len(sess.Documents))
	a.statusBar.SetHints(a.keymap.Hints(a.currentView))

	a.chatView.SetSession(sess)
	a.switcherView.SetDocuments(sess.Documents, sess.ActiveID)
	a.uploadView.SetCancellable(hasDocuments)

	label := ""
	if doc, ok := sess.ActiveDocument(); ok {
		label = doc.Name
	}
	a.statusBar.SetDocument(label)

	switch {
	case !hasDocuments:
		a.switchView(messages.ViewUpload)
	case forcedUpload:
		a.switchView(messages.ViewChat)
	case a.currentView == messages.ViewSwitcher && len(sess.Documents) < 2:
		a.switchView(messages.ViewChat)
	}
}

// switchView activates a view, moving focus and hints with it.
func (a *App) switchView(v messages.ViewType) {
	if v != messages.ViewUpload && len(a.session.Documents) == 0 {
		v = messages.ViewUpload
	}
	a.currentView = v
	a.statusBar.SetHints(a.keymap.Hints(v))

	switch v {
	case messages.ViewChat:
		a.chatView.Focus()
	case messages.ViewUpload:
		a.chatView.Blur()
	case messages.ViewSwitcher:
		a.chatView.Blur()
		a.switcherView.SetDocuments(a.session.Documents, a.session.ActiveID)
	}
}

// refreshBusy syncs the status bar spinner with in-flight work.
func (a *App) refreshBusy() tea.Cmd {
	var message string
	switch {
	case a.sending && a.uploads > 0:
		message = "Thinking and processing PDF..."
	case a.sending:
		message = "Thinking..."
	case a.uploads > 0:
		message = "Processing PDF..."
	}
	return a.statusBar.SetBusy(message != "", message)
}

// showError logs err and shows its user-facing text as a banner.
func (a *App) showError(err error) tea.Cmd {
	logger.Warn("tui: %v", err)
	return a.statusBar.ShowBanner(bannerText(err))
}

// bannerText maps an error to the string shown in the status bar.
func bannerText(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return msgFileNotFound
	}
	return domain.UserMessage(err)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewUpload:
		body = a.uploadView.View()
	case messages.ViewSwitcher:
		body = a.switcherView.View()
	}

	body = lipgloss.NewStyle().Height(a.height - 1).MaxHeight(a.height - 1).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar.View())
}

// Run starts the TUI application. Session changes made by any caller are
// streamed into the program for as long as it runs.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))

	unsubscribe := a.ports.Session.Subscribe(func(sess domain.Session) {
		p.Send(messages.SessionChanged{Session: sess})
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Session returns the last session copy received.
func (a *App) Session() domain.Session {
	return a.session
}

// Sending reports whether a question awaits its answer.
func (a *App) Sending() bool {
	return a.sending
}

// Uploads returns the number of uploads in progress.
func (a *App) Uploads() int {
	return a.uploads
}

// Banner returns the status bar banner on display.
func (a *App) Banner() string {
	return a.statusBar.Banner()
}

// Busy reports whether the loading indicator is shown.
func (a *App) Busy() bool {
	return a.statusBar.State() == status.StateBusy
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	body := height - 1 // status bar
	a.chatView.SetDimensions(width, body)
	a.uploadView.SetDimensions(width, body)
	a.switcherView.SetDimensions(width, body)
	a.statusBar.SetWidth(width)
}
