package syno

import (
	"encoding/json"
	"fmt"

	"github.com/shantheone/dstui/internal/format"
)

// Task is one download job as returned by the task list and getinfo
// endpoints. Additional is only populated when the extra sub-structures
// were requested.
type Task struct {
	ID         string      `json:"id"`
	Size       uint64      `json:"size"`
	Status     TaskStatus  `json:"status"`
	Title      string      `json:"title"`
	Type       string      `json:"type"`
	Username   string      `json:"username"`
	Additional *Additional `json:"additional,omitempty"`
}

type Additional struct {
	Detail   *Detail    `json:"detail,omitempty"`
	Transfer *Transfer  `json:"transfer,omitempty"`
	File     []FileInfo `json:"file,omitempty"`
	Peer     []PeerInfo `json:"peer,omitempty"`
	Tracker  []TrackerInfo `json:"tracker,omitempty"`
}

type Detail struct {
	ConnectedLeechers uint64 `json:"connected_leechers"`
	ConnectedSeeders  uint64 `json:"connected_seeders"`
	ConnectedPeers    uint64 `json:"connected_peers"`
	CreateTime        uint64 `json:"create_time"`
	StartedTime       uint64 `json:"started_time"`
	CompletedTime     uint64 `json:"completed_time"`
	SeedElapsed       uint64 `json:"seedelapsed"`
	Destination       string `json:"destination"`
	Priority          string `json:"priority"`
	TotalPeers        uint64 `json:"total_peers"`
	TotalPieces       uint64 `json:"total_pieces"`
	UnzipPassword     string `json:"unzip_password"`
	WaitingSeconds    uint64 `json:"waiting_seconds"`
	URI               string `json:"uri"`
}

type Transfer struct {
	SizeDownloaded   uint64 `json:"size_downloaded"`
	SizeUploaded     uint64 `json:"size_uploaded"`
	DownloadedPieces uint64 `json:"downloaded_pieces"`
	SpeedDownload    uint64 `json:"speed_download"`
	SpeedUpload      uint64 `json:"speed_upload"`
}

type FileInfo struct {
	Filename       string `json:"filename"`
	Priority       string `json:"priority"`
	Size           uint64 `json:"size"`
	SizeDownloaded uint64 `json:"size_downloaded"`
}

type PeerInfo struct {
	Address       string  `json:"address"`
	Agent         string  `json:"agent"`
	Progress      float64 `json:"progress"`
	SpeedDownload uint64  `json:"speed_download"`
	SpeedUpload   uint64  `json:"speed_upload"`
}

type TrackerInfo struct {
	URL         string `json:"url"`
	Status      string `json:"status"`
	UpdateTimer uint64 `json:"update_timer"`
	Seeds       int64  `json:"seeds"`
	Peers       int64  `json:"peers"`
}

// TaskStatus is either a numeric status code or a free-form status
// string; the API sends both depending on endpoint and server version.
type TaskStatus struct {
	Code uint64
	Name string
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Name)
	}
	return json.Unmarshal(data, &s.Code)
}

func (s TaskStatus) MarshalJSON() ([]byte, error) {
	if s.Name != "" {
		return json.Marshal(s.Name)
	}
	return json.Marshal(s.Code)
}

// Label resolves the status to a human label. String statuses are used
// verbatim; numeric codes go through the fixed table with "unknown" as
// the fallback.
func (s TaskStatus) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return statusLabel(s.Code)
}

// UploadDownloadRatio reports uploaded/downloaded bytes. The ratio is
// undefined (ok == false) when transfer info is missing or nothing has
// been downloaded yet, so callers can render "-" instead of 0.00.
func (t *Task) UploadDownloadRatio() (float64, bool) {
	if t.Additional == nil || t.Additional.Transfer == nil {
		return 0, false
	}
	tr := t.Additional.Transfer
	if tr.SizeDownloaded == 0 {
		return 0, false
	}
	return float64(tr.SizeUploaded) / float64(tr.SizeDownloaded), true
}

// TypeLabel maps the task-type tag to display text.
func (t *Task) TypeLabel() string {
	return typeLabel(t.Type)
}

func typeLabel(kind string) string {
	switch kind {
	case "bt":
		return "Bittorrent"
	case "ftp":
		return "FTP download"
	case "http":
		return "HTTP download"
	case "https":
		return "HTTPS download"
	default:
		return "Other type of download"
	}
}

// ExtendedTask is the flattened projection of a Task used for
// rendering: every optional sub-structure collapsed to zero values so
// the view never has to nil-check.
type ExtendedTask struct {
	ID                string
	Size              uint64
	Status            TaskStatus
	Title             string
	Type              string
	Username          string
	Ratio             float64
	RatioDefined      bool
	ConnectedLeechers uint64
	ConnectedSeeders  uint64
	ConnectedPeers    uint64
	CreateTime        uint64
	StartedTime       uint64
	CompletedTime     uint64
	SeedElapsed       uint64
	Destination       string
	Priority          string
	TotalPeers        uint64
	TotalPieces       uint64
	WaitingSeconds    uint64
	URI               string
	SizeDownloaded    uint64
	SizeUploaded      uint64
	DownloadedPieces  uint64
	SpeedDownload     uint64
	SpeedUpload       uint64
	Files             []FileInfo
	Peers             []PeerInfo
	Trackers          []TrackerInfo
}

// Extend flattens one task. It is total: any combination of absent
// optional fields yields zero values, never a panic.
func ExtendTask(t Task) ExtendedTask {
	out := ExtendedTask{
		ID:       t.ID,
		Size:     t.Size,
		Status:   t.Status,
		Title:    t.Title,
		Type:     t.Type,
		Username: t.Username,
	}
	out.Ratio, out.RatioDefined = t.UploadDownloadRatio()
	add := t.Additional
	if add == nil {
		return out
	}
	if d := add.Detail; d != nil {
		out.ConnectedLeechers = d.ConnectedLeechers
		out.ConnectedSeeders = d.ConnectedSeeders
		out.ConnectedPeers = d.ConnectedPeers
		out.CreateTime = d.CreateTime
		out.StartedTime = d.StartedTime
		out.CompletedTime = d.CompletedTime
		out.SeedElapsed = d.SeedElapsed
		out.Destination = d.Destination
		out.Priority = d.Priority
		out.TotalPeers = d.TotalPeers
		out.TotalPieces = d.TotalPieces
		out.WaitingSeconds = d.WaitingSeconds
		out.URI = d.URI
	}
	if tr := add.Transfer; tr != nil {
		out.SizeDownloaded = tr.SizeDownloaded
		out.SizeUploaded = tr.SizeUploaded
		out.DownloadedPieces = tr.DownloadedPieces
		out.SpeedDownload = tr.SpeedDownload
		out.SpeedUpload = tr.SpeedUpload
	}
	out.Files = add.File
	out.Peers = add.Peer
	out.Trackers = add.Tracker
	return out
}

// ExtendTasks flattens a whole snapshot in list order.
func ExtendTasks(tasks []Task) []ExtendedTask {
	out := make([]ExtendedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ExtendTask(t))
	}
	return out
}

// ProgressPercent is downloaded/total rounded to the nearest whole
// percent, 0 when the total size is unknown.
func (e *ExtendedTask) ProgressPercent() uint64 {
	if e.Size == 0 {
		return 0
	}
	return uint64(float64(e.SizeDownloaded)/float64(e.Size)*100 + 0.5)
}

// TypeLabel maps the task-type tag to display text.
func (e *ExtendedTask) TypeLabel() string {
	return typeLabel(e.Type)
}

// RowCells builds the task-table columns for one task.
func (e *ExtendedTask) RowCells() []string {
	return []string{
		e.Title,
		format.Bytes(e.Size),
		format.Bytes(e.SizeDownloaded),
		format.Bytes(e.SizeUploaded),
		format.ProgressBar(e.ProgressPercent(), 10),
		format.Bytes(e.SpeedUpload),
		format.Bytes(e.SpeedDownload),
		e.RatioCell(),
		e.Status.Label(),
	}
}

// RatioCell renders the ratio column, "-" when undefined.
func (e *ExtendedTask) RatioCell() string {
	if !e.RatioDefined {
		return "-"
	}
	return fmt.Sprintf("%.2f", e.Ratio)
}
