package notify

import (
	"go.uber.org/zap"
)

// TaskPool runs fire-and-forget side effects (notification fan-out,
// live pushes) off the request path. A full queue degrades to running
// the task synchronously rather than dropping it.
type TaskPool struct {
	tasks chan func()
}

func NewTaskPool(workers, buffer int) *TaskPool {
	p := &TaskPool{tasks: make(chan func(), buffer)}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *TaskPool) worker() {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("notify worker panic", zap.Any("recover", r))
			go p.worker()
		}
	}()
	for task := range p.tasks {
		if task != nil {
			task()
		}
	}
}

func (p *TaskPool) Submit(task func()) {
	select {
	case p.tasks <- task:
	default:
		zap.L().Warn("notify task queue full, executing synchronously")
		task()
	}
}

// Close stops the workers after the queued tasks drain. Submitting
// after Close panics; call only during shutdown.
func (p *TaskPool) Close() {
	close(p.tasks)
}
