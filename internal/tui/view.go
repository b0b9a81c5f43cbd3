package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shantheone/dstui/internal/format"
	"github.com/shantheone/dstui/internal/syno"
	pkgtui "github.com/shantheone/dstui/pkg/tui"
)

var taskColumns = []struct {
	title string
	width int
}{
	{"Title", 36},
	{"Size", 10},
	{"Downloaded", 10},
	{"Uploaded", 10},
	{"Progress", 12},
	{"UL speed", 10},
	{"DL speed", 10},
	{"Ratio", 6},
	{"Status", 14},
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	detailHeight := m.detailHeight()
	tableHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - detailHeight
	if tableHeight < 3 {
		tableHeight = 3
	}
	table := m.renderTable(tableHeight)
	detail := m.renderDetail(detailHeight)

	body := lipgloss.JoinVertical(lipgloss.Left, header, table, detail, footer)
	if m.popup.active() {
		return m.renderPopupOver(body)
	}
	return body
}

func (m *Model) detailHeight() int {
	h := m.height / 3
	if h < 8 {
		h = 8
	}
	return h
}

func (m *Model) renderHeader() string {
	title := " DownloadStation TUI Client"
	if m.refreshing {
		title += "  " + pkgtui.LabelStyle.Render("(refreshing)")
	}
	return pkgtui.TitleStyle.Render(title) + "\n"
}

func (m *Model) renderFooter() string {
	left := pkgtui.HelpDescStyle.Render("?: help  q: quit  r: refresh  a/A: add  p: pause/resume  d: delete  i: server info")
	if m.status != "" {
		return left + "  " + pkgtui.LabelStyle.Render(m.status)
	}
	return left
}

// renderTable draws the windowed task list. The visible window follows
// the selection so it never scrolls off screen.
func (m *Model) renderTable(height int) string {
	var rows []string

	var headerCells []string
	for _, col := range taskColumns {
		headerCells = append(headerCells, padRight(col.title, col.width))
	}
	rows = append(rows, pkgtui.HeaderRowStyle.Render(strings.Join(headerCells, " ")))

	visible := height - 1
	if visible < 1 {
		visible = 1
	}
	m.viewOffset = clampViewOffset(m.viewOffset, m.selected, len(m.extended), visible)

	if len(m.extended) == 0 {
		rows = append(rows, pkgtui.LabelStyle.Render("  no download tasks"))
	}
	end := m.viewOffset + visible
	if end > len(m.extended) {
		end = len(m.extended)
	}
	for i := m.viewOffset; i < end; i++ {
		cells := m.extended[i].RowCells()
		var padded []string
		for c, cell := range cells {
			padded = append(padded, padRight(cell, taskColumns[c].width))
		}
		line := strings.Join(padded, " ")
		if i == m.selected {
			line = pkgtui.SelectedStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

// clampViewOffset keeps the selected row inside the visible window.
func clampViewOffset(offset, selected, total, visible int) int {
	if total <= visible {
		return 0
	}
	if selected >= 0 {
		if selected < offset {
			offset = selected
		}
		if selected >= offset+visible {
			offset = selected - visible + 1
		}
	}
	if offset > total-visible {
		offset = total - visible
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// clampScroll limits a free scroll offset to the renderable range.
func clampScroll(offset, content, viewport int) int {
	max := content - viewport
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (m *Model) renderDetail(height int) string {
	var tabs []string
	for i, name := range tabNames {
		if i == m.tab {
			tabs = append(tabs, pkgtui.ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, pkgtui.TabStyle.Render(name))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	task := m.selectedTask()
	var lines []string
	if task == nil {
		lines = []string{pkgtui.LabelStyle.Render("select a task to see details")}
	} else {
		switch m.tab {
		case tabGeneral:
			lines = generalLines(task)
		case tabTransfer:
			lines = transferLines(task)
		case tabTracker:
			lines = trackerLines(task)
		case tabPeers:
			lines = peerLines(task)
		case tabFile:
			lines = fileLines(task)
		}
	}

	viewport := height - lipgloss.Height(tabBar) - 1
	if viewport < 1 {
		viewport = 1
	}
	m.infoScroll = clampScroll(m.infoScroll, len(lines), viewport)
	end := m.infoScroll + viewport
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[m.infoScroll:end], "\n")
	return tabBar + "\n" + pkgtui.PanelStyle.Render(body)
}

func detailLine(label, value string) string {
	return pkgtui.LabelStyle.Render(padRight(label, 18)) + value
}

func generalLines(t *syno.ExtendedTask) []string {
	return []string{
		detailLine("ID", t.ID),
		detailLine("Title", t.Title),
		detailLine("Type", t.TypeLabel()),
		detailLine("Status", t.Status.Label()),
		detailLine("Size", format.Bytes(t.Size)),
		detailLine("Destination", t.Destination),
		detailLine("Owner", t.Username),
		detailLine("URI", t.URI),
		detailLine("Created", format.Timestamp(t.CreateTime)),
		detailLine("Started", format.Timestamp(t.StartedTime)),
		detailLine("Completed", format.Timestamp(t.CompletedTime)),
		detailLine("Elapsed", format.ElapsedTime(t.StartedTime, t.CompletedTime)),
		detailLine("Seeding for", format.Seconds(t.SeedElapsed)),
		detailLine("Priority", t.Priority),
	}
}

func transferLines(t *syno.ExtendedTask) []string {
	return []string{
		detailLine("Downloaded", format.Bytes(t.SizeDownloaded)),
		detailLine("Uploaded", format.Bytes(t.SizeUploaded)),
		detailLine("Ratio", t.RatioCell()),
		detailLine("Progress", format.ProgressBar(t.ProgressPercent(), 20)),
		detailLine("DL speed", format.Bytes(t.SpeedDownload)+"/s"),
		detailLine("UL speed", format.Bytes(t.SpeedUpload)+"/s"),
		detailLine("Pieces", fmt.Sprintf("%d / %d", t.DownloadedPieces, t.TotalPieces)),
		detailLine("Peers", fmt.Sprintf("%d connected of %d", t.ConnectedPeers, t.TotalPeers)),
		detailLine("Seeders", fmt.Sprintf("%d", t.ConnectedSeeders)),
		detailLine("Leechers", fmt.Sprintf("%d", t.ConnectedLeechers)),
		detailLine("Waiting", format.Seconds(t.WaitingSeconds)),
	}
}

func trackerLines(t *syno.ExtendedTask) []string {
	if len(t.Trackers) == 0 {
		return []string{pkgtui.LabelStyle.Render("no tracker information")}
	}
	lines := []string{pkgtui.HeaderRowStyle.Render(
		padRight("URL", 50) + padRight("Status", 16) + padRight("Update", 10) + padRight("Seeds", 8) + "Peers")}
	for _, tr := range t.Trackers {
		lines = append(lines,
			padRight(tr.URL, 50)+
				padRight(tr.Status, 16)+
				padRight(format.Seconds(tr.UpdateTimer), 10)+
				padRight(fmt.Sprintf("%d", tr.Seeds), 8)+
				fmt.Sprintf("%d", tr.Peers))
	}
	return lines
}

func peerLines(t *syno.ExtendedTask) []string {
	if len(t.Peers) == 0 {
		return []string{pkgtui.LabelStyle.Render("no connected peers")}
	}
	lines := []string{pkgtui.HeaderRowStyle.Render(
		padRight("Address", 24) + padRight("Agent", 28) + padRight("Progress", 10) + padRight("DL speed", 12) + "UL speed")}
	for _, p := range t.Peers {
		lines = append(lines,
			padRight(p.Address, 24)+
				padRight(p.Agent, 28)+
				padRight(fmt.Sprintf("%.0f%%", p.Progress*100), 10)+
				padRight(format.Bytes(p.SpeedDownload)+"/s", 12)+
				format.Bytes(p.SpeedUpload)+"/s")
	}
	return lines
}

func fileLines(t *syno.ExtendedTask) []string {
	if len(t.Files) == 0 {
		return []string{pkgtui.LabelStyle.Render("no file information")}
	}
	lines := []string{pkgtui.HeaderRowStyle.Render(
		padRight("Filename", 50) + padRight("Size", 12) + padRight("Downloaded", 12) + "Priority")}
	for _, f := range t.Files {
		lines = append(lines,
			padRight(f.Filename, 50)+
				padRight(format.Bytes(f.Size), 12)+
				padRight(format.Bytes(f.SizeDownloaded), 12)+
				f.Priority)
	}
	return lines
}

// popupViewport is the number of body lines a text popup can show.
func (m *Model) popupViewport() int {
	v := m.height - 8
	if v < 1 {
		v = 1
	}
	return v
}

// popupBodyWindow clamps the popup scroll offset to the body and
// returns the visible slice of lines.
func (m *Model) popupBodyWindow(body string) string {
	lines := strings.Split(body, "\n")
	viewport := m.popupViewport()
	m.popup.scroll = clampScroll(m.popup.scroll, len(lines), viewport)
	end := m.popup.scroll + viewport
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[m.popup.scroll:end], "\n")
}

// renderPopupOver centers the active popup card over the base view.
func (m *Model) renderPopupOver(base string) string {
	var card string
	switch m.popup.kind {
	case popupHelp:
		card = pkgtui.CardStyle.Render(
			pkgtui.TitleStyle.Render("Keybindings") + "\n\n" + m.popupBodyWindow(m.renderHelpBody()))
	case popupServerInfo:
		card = pkgtui.CardStyle.Render(
			pkgtui.TitleStyle.Render("Server information") + "\n\n" + m.popupBodyWindow(m.renderServerInfoBody()))
	case popupAddURL:
		card = pkgtui.CardFocusedStyle.Render(
			pkgtui.TitleStyle.Render("Add download task") + "\n\n" + m.popup.input.View() +
				"\n\n" + pkgtui.HelpDescStyle.Render("enter: add  esc: cancel"))
	case popupAddFile:
		card = pkgtui.CardFocusedStyle.Render(
			pkgtui.TitleStyle.Render("Select a .torrent file") + "\n\n" + m.renderFilePickerBody() +
				"\n\n" + pkgtui.HelpDescStyle.Render("enter: open/add  esc: cancel"))
	case popupDeleteConfirm:
		card = pkgtui.CardFocusedStyle.Render(
			pkgtui.TitleStyle.Render("Delete task?") + "\n\n" + m.popup.message +
				"\n\n" + pkgtui.HelpDescStyle.Render("y: delete  n: keep"))
	case popupError:
		card = pkgtui.CardErrorStyle.Render(
			pkgtui.StatusError.Render("Error") + "\n\n" + m.popupBodyWindow(m.popup.message) +
				"\n\n" + pkgtui.HelpDescStyle.Render("esc: close"))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func (m *Model) renderHelpBody() string {
	bindings := []pkgtui.HelpBinding{
		pkgtui.HelpBindingFromKey(m.keys.NavUp),
		pkgtui.HelpBindingFromKey(m.keys.NavDown),
		pkgtui.HelpBindingFromKey(m.keys.ScrollUp),
		pkgtui.HelpBindingFromKey(m.keys.ScrollDown),
		pkgtui.HelpBindingFromKey(m.keys.PrevTab),
		pkgtui.HelpBindingFromKey(m.keys.NextTab),
		pkgtui.HelpBindingFromKey(m.keys.Refresh),
		pkgtui.HelpBindingFromKey(m.keys.Pause),
		pkgtui.HelpBindingFromKey(m.keys.Delete),
		pkgtui.HelpBindingFromKey(m.keys.AddURL),
		pkgtui.HelpBindingFromKey(m.keys.AddFile),
		pkgtui.HelpBindingFromKey(m.keys.ServerInfo),
		pkgtui.HelpBindingFromKey(m.keys.Help),
		pkgtui.HelpBindingFromKey(m.keys.Back),
		pkgtui.HelpBindingFromKey(m.keys.Quit),
	}
	return pkgtui.RenderBindings(bindings)
}

func (m *Model) renderServerInfoBody() string {
	lines := []string{
		pkgtui.LabelStyle.Render("Local configuration"),
		detailLine("  Server", m.cfg.ServerURL),
		detailLine("  Port", fmt.Sprintf("%d", m.cfg.Port)),
		detailLine("  User", m.cfg.Username),
		detailLine("  Refresh", fmt.Sprintf("%ds", m.cfg.RefreshInterval)),
	}
	if sc := m.serverCfg; sc != nil {
		lines = append(lines,
			"",
			pkgtui.LabelStyle.Render("Server configuration"),
			detailLine("  BT download", speedLimit(sc.BTMaxDownload)),
			detailLine("  BT upload", speedLimit(sc.BTMaxUpload)),
			detailLine("  HTTP download", speedLimit(sc.HTTPMaxDownload)),
			detailLine("  FTP download", speedLimit(sc.FTPMaxDownload)),
			detailLine("  NZB download", speedLimit(sc.NZBMaxDownload)),
			detailLine("  eMule enabled", fmt.Sprintf("%t", sc.EmuleEnabled)),
			detailLine("  Unzip service", fmt.Sprintf("%t", sc.UnzipServiceEnabled)),
			detailLine("  Destination", optional(sc.DefaultDestination)),
		)
	} else {
		lines = append(lines, "", pkgtui.LabelStyle.Render("server configuration not loaded"))
	}
	return strings.Join(lines, "\n")
}

func speedLimit(kb uint64) string {
	if kb == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d KB/s", kb)
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func (m *Model) renderFilePickerBody() string {
	const visible = 12
	offset := clampViewOffset(0, m.popup.fileSel, len(m.popup.files), visible)
	end := offset + visible
	if end > len(m.popup.files) {
		end = len(m.popup.files)
	}
	var lines []string
	for i := offset; i < end; i++ {
		entry := m.popup.files[i]
		name := entry.Name
		if entry.isDir() {
			name += "/"
		}
		line := padRight(name, 48)
		if i == m.popup.fileSel {
			line = pkgtui.SelectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = []string{pkgtui.LabelStyle.Render("empty directory")}
	}
	return strings.Join(lines, "\n")
}

// padRight pads or truncates s to exactly width display cells.
func padRight(s string, width int) string {
	w := visibleWidth(s)
	if w > width {
		runes := []rune(s)
		if len(runes) > width {
			if width > 1 {
				return string(runes[:width-1]) + "…"
			}
			return string(runes[:width])
		}
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func visibleWidth(s string) int {
	return lipgloss.Width(s)
}
