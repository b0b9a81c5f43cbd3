package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// popupKind enumerates the mutually exclusive overlays. Exactly one (or
// none) is ever visible; opening a popup replaces whatever was open.
type popupKind int

const (
	popupNone popupKind = iota
	popupHelp
	popupServerInfo
	popupAddURL
	popupAddFile
	popupDeleteConfirm
	popupError
)

// popup is the single overlay slot plus whatever transient state the
// active kind owns: scroll position, the URL input, the file-picker
// cursor, the delete target, the error text. close() drops all of it.
type popup struct {
	kind     popupKind
	scroll   int
	message  string
	input    textinput.Model
	files    []fileEntry
	fileSel  int
	targetID string
}

func (p *popup) active() bool {
	return p.kind != popupNone
}

func (p *popup) open(kind popupKind) {
	p.close()
	p.kind = kind
}

func (p *popup) openError(message string) {
	p.close()
	p.kind = popupError
	p.message = message
}

func (p *popup) openDeleteConfirm(id, title string) {
	p.close()
	p.kind = popupDeleteConfirm
	p.targetID = id
	p.message = title
}

func (p *popup) openAddURL(initial string) {
	p.close()
	p.kind = popupAddURL
	input := textinput.New()
	input.Placeholder = "https://"
	input.SetValue(initial)
	input.CursorEnd()
	input.Focus()
	p.input = input
}

// openAddFile shows the picker over the given listing, defaulting the
// cursor to the first entry.
func (p *popup) openAddFile(files []fileEntry) {
	p.close()
	p.kind = popupAddFile
	p.files = files
	p.fileSel = 0
}

func (p *popup) close() {
	*p = popup{}
}

// selectedFile returns the entry under the picker cursor, nil when the
// listing is empty.
func (p *popup) selectedFile() *fileEntry {
	if p.kind != popupAddFile || len(p.files) == 0 {
		return nil
	}
	if p.fileSel < 0 || p.fileSel >= len(p.files) {
		return nil
	}
	return &p.files[p.fileSel]
}
