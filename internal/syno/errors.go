package syno

import "fmt"

// AuthError is a failed login/logout, carrying the WebAPI error code.
type AuthError struct {
	Code int
}

func (e *AuthError) Error() string {
	switch e.Code {
	case 400:
		return "No such account or incorrect password"
	case 401:
		return "Account disabled"
	case 402:
		return "Permission denied"
	case 403:
		return "2-step verification code required"
	case 404:
		return "Failed to authenticate 2-step verification code"
	default:
		return fmt.Sprintf("Unknown authentication error (code %d)", e.Code)
	}
}

// Local validation codes for create-from-file, kept out of the WebAPI
// code range so they can never collide with server codes.
const (
	codeEmptyFile      = 700
	codeEmptyFilePath  = 701
	codeNotTorrentFile = 702
)

// TaskError is a failed task operation, carrying the WebAPI error code
// (or one of the local validation codes above).
type TaskError struct {
	Code int
}

// Local validation failures, rejected before any network call.
var (
	ErrEmptyFile      = &TaskError{Code: codeEmptyFile}
	ErrEmptyFilePath  = &TaskError{Code: codeEmptyFilePath}
	ErrNotTorrentFile = &TaskError{Code: codeNotTorrentFile}
)

func taskErrorLabel(code int) string {
	switch code {
	case 400:
		return "File upload failed"
	case 401:
		return "Maximum number of tasks reached"
	case 402:
		return "Destination denied"
	case 403:
		return "Destination does not exist"
	case 404:
		return "Invalid task ID"
	case 405:
		return "Invalid task action"
	case 406:
		return "No default destination configured"
	case 407:
		return "Setting destination failed"
	case 408:
		return "File does not exist"
	case codeEmptyFile:
		return "File is empty"
	case codeEmptyFilePath:
		return "No file path found"
	case codeNotTorrentFile:
		return "Not a .torrent file"
	default:
		return fmt.Sprintf("Unknown error (code %d)", code)
	}
}

func (e *TaskError) Error() string {
	return taskErrorLabel(e.Code)
}

// Is makes the local validation sentinels work with errors.Is.
func (e *TaskError) Is(target error) bool {
	other, ok := target.(*TaskError)
	return ok && other.Code == e.Code
}

// ActionError is a per-task failure inside an otherwise delivered
// pause/resume/delete envelope: the id that failed plus its code. A
// transport or parse failure is reported as a plain error instead, so
// the two are distinguishable with errors.As.
type ActionError struct {
	Op   string
	ID   string
	Code int
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed for task %s: %s", e.Op, e.ID, taskErrorLabel(e.Code))
}
