package formation

import "context"

// Task is the handle of an asynchronous load or save. It completes exactly once.
type Task struct {
	done chan struct{}
	err  error
}

func runTask(fn func() error) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = fn()
	}()
	return t
}

func completedTask(err error) *Task {
	t := &Task{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

// Done is closed when the task has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the task result, or nil while it is still running
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx is done
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
