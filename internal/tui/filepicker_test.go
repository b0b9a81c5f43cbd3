package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListFilesOrdering(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "Zeta.torrent"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"zdir", "Adir"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	got := listFiles(dir)
	want := []string{".", "..", "Adir", "zdir", "a.txt", "b.txt", "Zeta.torrent"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("entry %d = %q, want %q", i, got[i].Name, name)
		}
	}
	if !got[2].isDir() || got[4].isDir() {
		t.Error("entry kinds misclassified")
	}
}

func TestListFilesUnreadableDir(t *testing.T) {
	got := listFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	if len(got) != 2 || got[0].Name != "." || got[1].Name != ".." {
		t.Errorf("unreadable dir listing = %+v", got)
	}
}

func TestFilePickerNavigation(t *testing.T) {
	m := newTestModel(&fakeStation{})
	m.popup.openAddFile([]fileEntry{
		{Name: ".", Kind: "Dir"},
		{Name: "a.torrent", Kind: "File"},
	})

	m.handlePopupKey(runeKey('j'))
	if m.popup.fileSel != 1 {
		t.Errorf("fileSel = %d, want 1", m.popup.fileSel)
	}
	m.handlePopupKey(runeKey('j'))
	if m.popup.fileSel != 1 {
		t.Errorf("fileSel moved past end: %d", m.popup.fileSel)
	}
	m.handlePopupKey(runeKey('k'))
	if m.popup.fileSel != 0 {
		t.Errorf("fileSel = %d, want 0", m.popup.fileSel)
	}

	entry := m.popup.selectedFile()
	if entry == nil || entry.Name != "." {
		t.Errorf("selectedFile = %+v", entry)
	}
}
