package tui

import (
	"context"
	"time"

	"github.com/shantheone/dstui/internal/syno"
)

// Station is the slice of the API client the session controller needs.
// The concrete *syno.Client satisfies it; tests substitute a fake.
type Station interface {
	ListTasks(ctx context.Context) ([]syno.Task, error)
	GetServerConfig(ctx context.Context) (*syno.ServerConfig, error)
	Pause(ctx context.Context, id string) error
	Resume(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CreateTaskFromURL(ctx context.Context, uri string) error
	CreateTaskFromFile(ctx context.Context, name string, data []byte) error
}

// Messages delivered back into the event loop by async commands.
type (
	tickMsg time.Time

	tasksLoadedMsg struct {
		tasks []syno.Task
		err   error
	}

	serverConfigMsg struct {
		cfg  *syno.ServerConfig
		err  error
		show bool
	}

	actionDoneMsg struct {
		op  string
		id  string
		err error
	}

	createDoneMsg struct {
		err error
	}
)
