package tui

import (
	"strings"
	"testing"

	"github.com/shantheone/dstui/internal/syno"
)

func TestViewRendersTaskTable(t *testing.T) {
	m := newTestModel(&fakeStation{})
	tasks := []syno.Task{
		{ID: "dbid_1", Title: "ubuntu.iso", Size: 1000, Status: syno.TaskStatus{Code: 2},
			Additional: &syno.Additional{Transfer: &syno.Transfer{SizeDownloaded: 500}}},
	}
	m.applyTasks(tasks, nil)

	out := m.View()
	if !strings.Contains(out, "DownloadStation TUI Client") {
		t.Error("header missing")
	}
	if !strings.Contains(out, "ubuntu.iso") {
		t.Error("task row missing")
	}
	if !strings.Contains(out, "downloading") {
		t.Error("status label missing")
	}
	if !strings.Contains(out, "General") || !strings.Contains(out, "Peers") {
		t.Error("detail tabs missing")
	}
}

func TestViewEmptyList(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.applyTasks(nil, nil)
	out := m.View()
	if !strings.Contains(out, "no download tasks") {
		t.Error("empty-list placeholder missing")
	}
}

func TestViewErrorPopupReplacesBody(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.applyTasks(nil, nil)
	m.popup.openError("connection refused")

	out := m.View()
	if !strings.Contains(out, "connection refused") {
		t.Error("error text missing")
	}
	if !strings.Contains(out, "Error") {
		t.Error("error title missing")
	}
}

func TestViewServerInfoPopup(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.serverCfg = &syno.ServerConfig{BTMaxDownload: 1024}
	m.popup.open(popupServerInfo)

	out := m.View()
	if !strings.Contains(out, "1024 KB/s") {
		t.Error("BT limit missing")
	}
	if !strings.Contains(out, "unlimited") {
		t.Error("zero limits should read unlimited")
	}
	if !strings.Contains(out, "http://nas") {
		t.Error("local config missing")
	}
}

func TestPopupScrollClampedOnRender(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.height = 12 // viewport of 4 body lines, help body is longer
	m.popup.open(popupHelp)
	top := m.View()

	for i := 0; i < 500; i++ {
		m.Update(runeKey('j'))
	}
	bottom := m.View()

	lines := len(strings.Split(m.renderHelpBody(), "\n"))
	max := lines - m.popupViewport()
	if m.popup.scroll != max {
		t.Errorf("scroll after render = %d, want clamped to %d", m.popup.scroll, max)
	}
	if top == bottom {
		t.Error("scrolling did not move the popup body")
	}
	if !strings.Contains(bottom, "quit") {
		t.Error("last binding not visible at the bottom of the scroll")
	}
	if strings.Contains(bottom, "refresh") {
		t.Error("early binding still visible after scrolling to the bottom")
	}
}

func TestPopupScrollResetOnReopen(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.height = 12
	m.popup.open(popupHelp)
	for i := 0; i < 10; i++ {
		m.Update(runeKey('j'))
	}
	m.popup.close()
	m.popup.open(popupHelp)
	if m.popup.scroll != 0 {
		t.Errorf("scroll after reopen = %d, want 0", m.popup.scroll)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abc…" {
		t.Errorf("truncation = %q", got)
	}
}
