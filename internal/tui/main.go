package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/MuhamedUsman/rmshelf/internal/bgtask"
	"github.com/MuhamedUsman/rmshelf/internal/config"
	"github.com/MuhamedUsman/rmshelf/internal/domain"
	"github.com/MuhamedUsman/rmshelf/internal/file"
	"github.com/MuhamedUsman/rmshelf/internal/session"
	"github.com/MuhamedUsman/rmshelf/internal/tree"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Transport is everything the browser needs from the device API.
type Transport interface {
	List(ctx context.Context, folder domain.FolderID) ([]domain.Entry, error)
	Download(ctx context.Context, id string, w io.Writer) (int64, error)
	Upload(ctx context.Context, localPath string) error
}

type Options struct {
	Transport Transport
	// Tasks runs the background operations, bgtask.Get() when nil
	Tasks *bgtask.BackgroundTask
	UI    config.UIConfig
	// Preflight lists the target folder before every upload
	Preflight bool
	// Home replaces a leading "~" in typed paths
	Home string
	// IsFile reports whether a typed upload path is a regular file, file.IsRegular when nil
	IsFile func(string) bool
}

// MainModel is the browser. Update is the only place its session changes,
// background tasks talk back through the completions channel only.
type MainModel struct {
	st          *session.State
	transport   Transport
	engine      *tree.Engine
	tasks       *bgtask.BackgroundTask
	completions chan completion
	ui          config.UIConfig
	preflight   bool
	home        string
	isFile      func(string) bool

	keys      keyMap
	inputKeys inputKeyMap
	help      help.Model
	spinner   spinner.Model

	termW, termH int
	quitting     bool
}

func InitialMainModel(opts Options) MainModel {
	if opts.Tasks == nil {
		opts.Tasks = bgtask.Get()
	}
	if opts.IsFile == nil {
		opts.IsFile = file.IsRegular
	}
	def := config.Default().UI
	if opts.UI.TickInterval <= 0 {
		opts.UI.TickInterval = def.TickInterval
	}
	if opts.UI.ShutdownTimeout <= 0 {
		opts.UI.ShutdownTimeout = def.ShutdownTimeout
	}
	if opts.UI.ChannelCapacity <= 0 {
		opts.UI.ChannelCapacity = def.ChannelCapacity
	}

	h := help.New()
	h.Styles = customHelpStyles(h.Styles)
	s := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(spinnerStyle))

	return MainModel{
		st:          session.New(),
		transport:   opts.Transport,
		engine:      tree.New(opts.Transport),
		tasks:       opts.Tasks,
		completions: make(chan completion, opts.UI.ChannelCapacity),
		ui:          opts.UI,
		preflight:   opts.Preflight,
		home:        opts.Home,
		isFile:      opts.IsFile,
		keys:        defaultKeyMap(),
		inputKeys:   defaultInputKeyMap(),
		help:        h,
		spinner:     s,
	}
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(msgToCmd(refreshMsg{}), m.tick(), m.spinner.Tick)
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		m.spawn(m.st.Refresh())
		return m, nil

	case tickMsg:
		m.drain()
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case shutdownMsg:
		if msg.err != nil {
			slog.Warn("quitting with background tasks still running", "err", msg.err)
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		if key.Matches(msg, m.keys.ForceQ) {
			return m.quit()
		}
		if m.st.Mode() == session.Normal {
			return m.handleNormalKey(msg)
		}
		return m.handleInputKey(msg)
	}
	return m, nil
}

func (m MainModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.st.MoveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.st.MoveSelection(-1)
	case key.Matches(msg, m.keys.Open):
		m.spawn(m.st.OpenSelected())
	case key.Matches(msg, m.keys.Back):
		m.spawn(m.st.GoBack())
	case key.Matches(msg, m.keys.Download):
		m.st.BeginDownload()
	case key.Matches(msg, m.keys.Upload):
		m.st.BeginUpload()
	case key.Matches(msg, m.keys.Refresh):
		m.spawn(m.st.Refresh())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	}
	return m, nil
}

func (m MainModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyRunes:
		// pasted text arrives here too
		m.st.Insert(msg.Runes...)
	case tea.KeySpace:
		m.st.Insert(' ')
	case tea.KeyBackspace:
		m.st.Backspace()
	case tea.KeyEsc:
		m.st.Cancel()
	case tea.KeyEnter:
		m.confirm()
	}
	return m, nil
}

func (m MainModel) confirm() {
	var (
		effects []session.Effect
		err     error
	)
	switch m.st.Mode() {
	case session.AwaitingDownloadPath:
		effects, err = m.st.ConfirmDownload(m.home)
	case session.AwaitingUploadPath:
		effects, err = m.st.ConfirmUpload(m.home, m.isFile)
	}
	if err != nil {
		slog.Debug("rejected path", "mode", m.st.Mode(), "err", err)
		return
	}
	m.spawn(effects)
}

// drain routes every queued completion without waiting for more.
func (m MainModel) drain() {
	for {
		select {
		case c := <-m.completions:
			m.route(c)
		default:
			return
		}
	}
}

func (m MainModel) route(c completion) {
	switch c := c.(type) {
	case listingReadyMsg:
		if !m.st.ApplyListing(c.folder, c.entries) {
			slog.Debug("discarded stale listing", "folder", c.folder, "current", m.st.Current())
		}
	case downloadDoneMsg:
		slog.Info("download finished", "path", c.path, "documents", c.result.Documents, "bytes", c.result.Bytes)
		m.st.DownloadSucceeded(c.path, c.result)
	case uploadDoneMsg:
		slog.Info("upload finished", "path", c.path)
		m.spawn(m.st.UploadSucceeded(c.path))
	case operationFailedMsg:
		slog.Error("background operation failed", "op", c.op, "folder", c.folder, "err", c.err)
		if c.op == opList {
			m.st.ApplyListingFailure(c.folder, c.err)
			return
		}
		m.st.OperationFailed(c.op, c.err)
	default:
		slog.Error("unknown completion", "type", c)
	}
}

// quit stops the background tasks and waits for them, bounded by the shutdown timeout.
func (m MainModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	tasks, timeout := m.tasks, m.ui.ShutdownTimeout.Std()
	return m, func() tea.Msg {
		return shutdownMsg{err: tasks.Shutdown(timeout)}
	}
}

func (m MainModel) tick() tea.Cmd {
	return tea.Tick(m.ui.TickInterval.Std(), func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
