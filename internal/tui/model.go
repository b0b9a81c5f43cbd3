// Package tui is the interactive session: the task table, the detail
// tabs and the popup overlays, driven by a refresh timer and async
// calls into the Download Station client.
package tui

import (
	"context"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/shantheone/dstui/internal/config"
	"github.com/shantheone/dstui/internal/syno"
	pkgtui "github.com/shantheone/dstui/pkg/tui"
)

const requestTimeout = 30 * time.Second

// detail tabs, cycled with h/l.
const (
	tabGeneral = iota
	tabTransfer
	tabTracker
	tabPeers
	tabFile
	tabCount
)

var tabNames = [tabCount]string{"General", "Transfer", "Tracker", "Peers", "File"}

// Model is the bubbletea model for the whole session.
type Model struct {
	station Station
	cfg     *config.AppConfig
	keys    pkgtui.CommonKeys
	log     zerolog.Logger

	width  int
	height int

	refreshing bool
	tasks      []syno.Task
	extended   []syno.ExtendedTask
	selected   int // index into tasks, -1 when the list is empty
	viewOffset int
	tab        int
	infoScroll int

	popup     popup
	serverCfg *syno.ServerConfig
	status    string
}

// NewModel wires the session over the given client and config.
func NewModel(station Station, cfg *config.AppConfig, log zerolog.Logger) *Model {
	return &Model{
		station:  station,
		cfg:      cfg,
		keys:     pkgtui.NewCommonKeys(),
		log:      log,
		selected: -1,
	}
}

func (m *Model) Init() tea.Cmd {
	m.refreshing = true
	return tea.Batch(
		m.loadTasksCmd(),
		m.fetchServerConfigCmd(false),
		m.tickCmd(),
	)
}

func (m *Model) refreshInterval() time.Duration {
	interval := m.cfg.RefreshInterval
	if interval == 0 {
		interval = 5
	}
	return time.Duration(interval) * time.Second
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) loadTasksCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := m.station.ListTasks(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m *Model) fetchServerConfigCmd(show bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		cfg, err := m.station.GetServerConfig(ctx)
		return serverConfigMsg{cfg: cfg, err: err, show: show}
	}
}

func (m *Model) pauseResumeCmd(task syno.ExtendedTask) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if task.Status.Label() == "paused" {
			return actionDoneMsg{op: "resume", id: task.ID, err: m.station.Resume(ctx, task.ID)}
		}
		return actionDoneMsg{op: "pause", id: task.ID, err: m.station.Pause(ctx, task.ID)}
	}
}

func (m *Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionDoneMsg{op: "delete", id: id, err: m.station.Delete(ctx, id)}
	}
}

func (m *Model) createFromURLCmd(uri string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return createDoneMsg{err: m.station.CreateTaskFromURL(ctx, uri)}
	}
}

func (m *Model) createFromFileCmd(name, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return createDoneMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return createDoneMsg{err: m.station.CreateTaskFromFile(ctx, name, data)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Re-arm the timer first; skip the reload if one is in flight.
		if m.refreshing {
			return m, m.tickCmd()
		}
		m.refreshing = true
		return m, tea.Batch(m.loadTasksCmd(), m.tickCmd())

	case tasksLoadedMsg:
		m.refreshing = false
		m.applyTasks(msg.tasks, msg.err)
		return m, nil

	case serverConfigMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("server config fetch failed")
			if msg.show {
				m.popup.openError(msg.err.Error())
			}
			return m, nil
		}
		m.serverCfg = msg.cfg
		if msg.show {
			m.popup.open(popupServerInfo)
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.popup.openError(msg.op + " failed: " + msg.err.Error())
			return m, nil
		}
		m.status = msg.op + " ok"
		m.refreshing = true
		return m, m.loadTasksCmd()

	case createDoneMsg:
		if msg.err != nil {
			m.popup.openError("add task failed: " + msg.err.Error())
			return m, nil
		}
		m.status = "task added"
		m.refreshing = true
		return m, m.loadTasksCmd()

	case tea.KeyMsg:
		if m.popup.active() {
			return m.handlePopupKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// applyTasks replaces the task snapshot, keeping the selection on the
// same task id when it survived the refresh. A vanished id falls back
// to the top of the list; an empty list clears the selection.
func (m *Model) applyTasks(tasks []syno.Task, err error) {
	if err != nil {
		m.tasks = nil
		m.extended = nil
		m.selected = -1
		m.popup.openError("refreshing tasks failed: " + err.Error())
		return
	}
	prevID := ""
	if m.selected >= 0 && m.selected < len(m.tasks) {
		prevID = m.tasks[m.selected].ID
	}
	m.tasks = tasks
	m.extended = syno.ExtendTasks(tasks)
	if len(tasks) == 0 {
		m.selected = -1
		return
	}
	m.selected = 0
	for i, t := range tasks {
		if t.ID == prevID {
			m.selected = i
			break
		}
	}
}

func (m *Model) selectedTask() *syno.ExtendedTask {
	if m.selected < 0 || m.selected >= len(m.extended) {
		return nil
	}
	return &m.extended[m.selected]
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.popup.open(popupHelp)

	case key.Matches(msg, m.keys.NavDown):
		if m.selected >= 0 && m.selected < len(m.tasks)-1 {
			m.selected++
			m.infoScroll = 0
		}

	case key.Matches(msg, m.keys.NavUp):
		if m.selected > 0 {
			m.selected--
			m.infoScroll = 0
		}

	case key.Matches(msg, m.keys.ScrollDown):
		m.infoScroll++

	case key.Matches(msg, m.keys.ScrollUp):
		if m.infoScroll > 0 {
			m.infoScroll--
		}

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
		m.infoScroll = 0

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.infoScroll = 0

	case key.Matches(msg, m.keys.Refresh):
		if !m.refreshing {
			m.refreshing = true
			return m, m.loadTasksCmd()
		}

	case key.Matches(msg, m.keys.Pause):
		if task := m.selectedTask(); task != nil {
			return m, m.pauseResumeCmd(*task)
		}

	case key.Matches(msg, m.keys.Delete):
		if task := m.selectedTask(); task != nil {
			m.popup.openDeleteConfirm(task.ID, task.Title)
		}

	case key.Matches(msg, m.keys.AddURL):
		initial := ""
		if clip, err := clipboard.ReadAll(); err == nil && validateURL(clip) {
			initial = clip
		}
		m.popup.openAddURL(initial)
		return m, nil

	case key.Matches(msg, m.keys.AddFile):
		dir, err := os.Getwd()
		if err != nil {
			dir = "."
		}
		m.popup.openAddFile(listFiles(dir))

	case key.Matches(msg, m.keys.ServerInfo):
		return m, m.fetchServerConfigCmd(true)
	}
	return m, nil
}

func (m *Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The URL input owns every printable key, so "q" must type a "q".
	if m.popup.kind == popupAddURL {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.popup.close()
			return m, nil
		case key.Matches(msg, m.keys.Confirm):
			uri := m.popup.input.Value()
			if !validateURL(uri) {
				m.popup.openError("not a valid download URL: " + uri)
				return m, nil
			}
			m.popup.close()
			return m, m.createFromURLCmd(uri)
		}
		var cmd tea.Cmd
		m.popup.input, cmd = m.popup.input.Update(msg)
		return m, cmd
	}

	switch m.popup.kind {
	case popupDeleteConfirm:
		switch {
		case key.Matches(msg, m.keys.Yes):
			id := m.popup.targetID
			m.popup.close()
			return m, m.deleteCmd(id)
		case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Back),
			key.Matches(msg, m.keys.Quit):
			m.popup.close()
		}
		return m, nil

	case popupAddFile:
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
			m.popup.close()
		case key.Matches(msg, m.keys.NavDown):
			if m.popup.fileSel < len(m.popup.files)-1 {
				m.popup.fileSel++
			}
		case key.Matches(msg, m.keys.NavUp):
			if m.popup.fileSel > 0 {
				m.popup.fileSel--
			}
		case key.Matches(msg, m.keys.Confirm):
			entry := m.popup.selectedFile()
			if entry == nil {
				return m, nil
			}
			if entry.isDir() {
				m.popup.files = listFiles(entry.Path)
				m.popup.fileSel = 0
				return m, nil
			}
			name, path := entry.Name, entry.Path
			m.popup.close()
			return m, m.createFromFileCmd(name, path)
		}
		return m, nil

	default:
		// Help, server info and error popups: scroll or dismiss.
		switch {
		case key.Matches(msg, m.keys.NavDown), key.Matches(msg, m.keys.ScrollDown):
			m.popup.scroll++
		case key.Matches(msg, m.keys.NavUp), key.Matches(msg, m.keys.ScrollUp):
			if m.popup.scroll > 0 {
				m.popup.scroll--
			}
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit),
			key.Matches(msg, m.keys.Confirm):
			m.popup.close()
		}
		return m, nil
	}
}
