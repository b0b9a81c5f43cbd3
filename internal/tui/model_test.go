package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/shantheone/dstui/internal/config"
	"github.com/shantheone/dstui/internal/syno"
)

// fakeStation records calls and replies from canned data.
type fakeStation struct {
	tasks     []syno.Task
	listErr   error
	paused    []string
	resumed   []string
	deleted   []string
	addedURLs []string
}

func (f *fakeStation) ListTasks(ctx context.Context) ([]syno.Task, error) {
	return f.tasks, f.listErr
}

func (f *fakeStation) GetServerConfig(ctx context.Context) (*syno.ServerConfig, error) {
	return &syno.ServerConfig{BTMaxDownload: 1024}, nil
}

func (f *fakeStation) Pause(ctx context.Context, id string) error {
	f.paused = append(f.paused, id)
	return nil
}

func (f *fakeStation) Resume(ctx context.Context, id string) error {
	f.resumed = append(f.resumed, id)
	return nil
}

func (f *fakeStation) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStation) CreateTaskFromURL(ctx context.Context, uri string) error {
	f.addedURLs = append(f.addedURLs, uri)
	return nil
}

func (f *fakeStation) CreateTaskFromFile(ctx context.Context, name string, data []byte) error {
	return nil
}

func newTestModel(station Station) *Model {
	cfg := &config.AppConfig{ServerURL: "http://nas", Port: 5000, RefreshInterval: 5}
	m := NewModel(station, cfg, zerolog.Nop())
	m.width = 120
	m.height = 40
	return m
}

func tasksWithIDs(ids ...string) []syno.Task {
	out := make([]syno.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, syno.Task{ID: id, Title: "task " + id})
	}
	return out
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestApplyTasksKeepsSelectionByID(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.applyTasks(tasksWithIDs("a", "b", "c"), nil)
	m.selected = 1 // task b

	m.applyTasks(tasksWithIDs("a", "c", "d"), nil)
	if m.selected != 0 {
		t.Errorf("selection after b vanished = %d, want 0", m.selected)
	}

	m.selected = 1 // task c
	m.applyTasks(tasksWithIDs("x", "c", "y"), nil)
	if m.selected != 1 {
		t.Errorf("selection after c moved = %d, want 1", m.selected)
	}
}

func TestApplyTasksEmptyList(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.applyTasks(tasksWithIDs("a"), nil)
	m.applyTasks(nil, nil)
	if m.selected != -1 {
		t.Errorf("selection on empty list = %d, want -1", m.selected)
	}
	if m.selectedTask() != nil {
		t.Error("selectedTask on empty list is not nil")
	}
}

func TestApplyTasksError(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.applyTasks(tasksWithIDs("a", "b"), nil)

	m.applyTasks(nil, errors.New("connection refused"))
	if m.selected != -1 || len(m.tasks) != 0 {
		t.Errorf("state after error: selected=%d tasks=%d", m.selected, len(m.tasks))
	}
	if m.popup.kind != popupError {
		t.Errorf("popup = %v, want error popup", m.popup.kind)
	}
}

func TestActionsNoopWithoutSelection(t *testing.T) {
	station := &fakeStation{}
	m := newTestModel(station)

	if _, cmd := m.handleKey(runeKey('p')); cmd != nil {
		t.Error("pause on empty list produced a command")
	}
	m.handleKey(runeKey('d'))
	if m.popup.active() {
		t.Error("delete on empty list opened a popup")
	}
}

func TestPopupSingleSlot(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.popup.openError("boom")
	m.popup.open(popupHelp)
	if m.popup.kind != popupHelp {
		t.Errorf("popup = %v, want help", m.popup.kind)
	}
	if m.popup.message != "" {
		t.Errorf("stale message %q survived popup switch", m.popup.message)
	}
	m.popup.close()
	if m.popup.active() {
		t.Error("popup still active after close")
	}
}

func TestPopupKeysDoNotReachList(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.applyTasks(tasksWithIDs("a", "b", "c"), nil)
	m.popup.open(popupHelp)

	m.Update(runeKey('j'))
	if m.selected != 0 {
		t.Errorf("list selection moved while popup open: %d", m.selected)
	}
	if m.popup.scroll != 1 {
		t.Errorf("popup scroll = %d, want 1", m.popup.scroll)
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	station := &fakeStation{}
	m := newTestModel(station)
	m.applyTasks(tasksWithIDs("a", "b"), nil)
	m.selected = 1

	m.handleKey(runeKey('d'))
	if m.popup.kind != popupDeleteConfirm || m.popup.targetID != "b" {
		t.Fatalf("confirm popup = %+v", m.popup)
	}

	// n keeps the task.
	m.handlePopupKey(runeKey('n'))
	if m.popup.active() || len(station.deleted) != 0 {
		t.Fatalf("deleted after n: %v", station.deleted)
	}

	// y deletes it.
	m.handleKey(runeKey('d'))
	_, cmd := m.handlePopupKey(runeKey('y'))
	if cmd == nil {
		t.Fatal("no delete command after y")
	}
	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("delete result = %#v", msg)
	}
	if len(station.deleted) != 1 || station.deleted[0] != "b" {
		t.Errorf("deleted = %v, want [b]", station.deleted)
	}
}

func TestPauseResumeByStatus(t *testing.T) {
	station := &fakeStation{}
	m := newTestModel(station)
	tasks := []syno.Task{
		{ID: "run", Status: syno.TaskStatus{Code: 2}},
		{ID: "stop", Status: syno.TaskStatus{Code: 3}},
	}
	m.applyTasks(tasks, nil)

	m.selected = 0
	_, cmd := m.handleKey(runeKey('p'))
	cmd()
	if len(station.paused) != 1 || station.paused[0] != "run" {
		t.Errorf("paused = %v, want [run]", station.paused)
	}

	m.selected = 1
	_, cmd = m.handleKey(runeKey('p'))
	cmd()
	if len(station.resumed) != 1 || station.resumed[0] != "stop" {
		t.Errorf("resumed = %v, want [stop]", station.resumed)
	}
}

func TestAddURLPopupOwnsTyping(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.popup.openAddURL("")

	// q must type into the input, not quit the app.
	_, cmd := m.handlePopupKey(runeKey('q'))
	if !m.popup.active() {
		t.Fatal("popup closed by typing q")
	}
	if got := m.popup.input.Value(); got != "q" {
		t.Errorf("input value = %q, want q", got)
	}
	_ = cmd
}

func TestAddURLRejectsBadScheme(t *testing.T) {
	station := &fakeStation{}
	m := newTestModel(station)
	m.popup.openAddURL("notaurl")

	m.handlePopupKey(tea.KeyMsg{Type: tea.KeyEnter})
	if m.popup.kind != popupError {
		t.Errorf("popup = %v, want error popup", m.popup.kind)
	}
	if len(station.addedURLs) != 0 {
		t.Errorf("bad URL was submitted: %v", station.addedURLs)
	}
}

func TestAddURLSubmits(t *testing.T) {
	station := &fakeStation{}
	m := newTestModel(station)
	m.popup.openAddURL("magnet:?xt=urn:btih:abc")

	_, cmd := m.handlePopupKey(tea.KeyMsg{Type: tea.KeyEnter})
	if m.popup.active() {
		t.Fatal("popup still open after submit")
	}
	if cmd == nil {
		t.Fatal("no create command returned")
	}
	if msg := cmd(); msg.(createDoneMsg).err != nil {
		t.Fatalf("create failed: %v", msg)
	}
	if len(station.addedURLs) != 1 || station.addedURLs[0] != "magnet:?xt=urn:btih:abc" {
		t.Errorf("added = %v", station.addedURLs)
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"http://host/file.iso",
		"https://host/file.iso",
		"ftp://host/file",
		"magnet:?xt=urn:btih:abc",
		"thunder://deadbeef",
	}
	for _, u := range valid {
		if !validateURL(u) {
			t.Errorf("validateURL(%q) = false, want true", u)
		}
	}
	invalid := []string{"", "file:///etc/passwd", "host/file.iso", "htp://typo"}
	for _, u := range invalid {
		if validateURL(u) {
			t.Errorf("validateURL(%q) = true, want false", u)
		}
	}
}

func TestClampViewOffset(t *testing.T) {
	cases := []struct {
		offset, selected, total, visible int
		want                             int
	}{
		{0, 0, 5, 10, 0},   // everything fits
		{0, 9, 20, 5, 5},   // selection below window
		{8, 2, 20, 5, 2},   // selection above window
		{18, 18, 20, 5, 15}, // offset past the end clamps
		{0, -1, 20, 5, 0},  // no selection
	}
	for _, tc := range cases {
		got := clampViewOffset(tc.offset, tc.selected, tc.total, tc.visible)
		if got != tc.want {
			t.Errorf("clampViewOffset(%d,%d,%d,%d) = %d, want %d",
				tc.offset, tc.selected, tc.total, tc.visible, got, tc.want)
		}
	}
}

func TestClampScroll(t *testing.T) {
	if got := clampScroll(99, 10, 4); got != 6 {
		t.Errorf("clampScroll(99,10,4) = %d, want 6", got)
	}
	if got := clampScroll(3, 2, 5); got != 0 {
		t.Errorf("clampScroll(3,2,5) = %d, want 0", got)
	}
	if got := clampScroll(-2, 10, 4); got != 0 {
		t.Errorf("clampScroll(-2,10,4) = %d, want 0", got)
	}
}

func TestTickSkipsWhileRefreshing(t *testing.T) {
	m := newTestModel(&fakeStation{tasks: tasksWithIDs("a")})
	m.refreshing = true

	m.Update(tickMsg{})
	if !m.refreshing {
		t.Error("refreshing flag dropped by tick")
	}

	m.refreshing = false
	m.Update(tickMsg{})
	if !m.refreshing {
		t.Error("tick did not start a refresh")
	}
}

func TestTabChangeResetsScroll(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.infoScroll = 7
	m.handleKey(runeKey('l'))
	if m.tab != tabTransfer || m.infoScroll != 0 {
		t.Errorf("after l: tab=%d scroll=%d", m.tab, m.infoScroll)
	}
	m.handleKey(runeKey('h'))
	if m.tab != tabGeneral {
		t.Errorf("after h: tab=%d", m.tab)
	}
	m.handleKey(runeKey('h'))
	if m.tab != tabFile {
		t.Errorf("tab wrap = %d, want %d", m.tab, tabFile)
	}
}
