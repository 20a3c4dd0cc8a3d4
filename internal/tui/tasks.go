package tui

import "context"

// Task names used with the registry. One live task per name; starting a
// successor cancels its predecessor.
const (
	taskLogFollow      = "logFollow"
	taskLogHistory     = "logHistory"
	taskClipboardClear = "clipboardClear"
	taskShellPump      = "shellPump"
)

// taskRegistry tracks cancellation handles for transient background work.
// Cancelling a task that already finished is a harmless no-op, which is
// exactly context.CancelFunc's contract.
type taskRegistry struct {
	tasks map[string]context.CancelFunc
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{tasks: map[string]context.CancelFunc{}}
}

// start cancels any running task under the name and returns a fresh
// context for the new one.
func (r *taskRegistry) start(name string) context.Context {
	r.cancel(name)
	ctx, cancel := context.WithCancel(context.Background())
	r.tasks[name] = cancel
	return ctx
}

func (r *taskRegistry) cancel(name string) {
	if cancel, ok := r.tasks[name]; ok {
		cancel()
		delete(r.tasks, name)
	}
}

func (r *taskRegistry) cancelAll() {
	for name, cancel := range r.tasks {
		cancel()
		delete(r.tasks, name)
	}
}
