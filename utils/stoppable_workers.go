package utils

import (
	"context"
	"sync"

	goutils "go.viam.com/utils"
)

// StoppableWorkers is a collection of goroutines sharing a context that is cancelled by Stop.
type StoppableWorkers struct {
	mu         sync.Mutex
	cancelCtx  context.Context
	cancelFunc func()
	workers    sync.WaitGroup
}

// NewStoppableWorkers runs the functions in separate goroutines with a context derived from
// parent. They can be stopped later.
func NewStoppableWorkers(parent context.Context, funcs ...func(context.Context)) *StoppableWorkers {
	cancelCtx, cancelFunc := context.WithCancel(parent)
	sw := &StoppableWorkers{cancelCtx: cancelCtx, cancelFunc: cancelFunc}
	sw.Add(funcs...)
	return sw
}

// Add starts a goroutine for each function. Once the workers are stopped it does nothing.
func (sw *StoppableWorkers) Add(funcs ...func(context.Context)) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.cancelCtx.Err() != nil {
		return
	}

	sw.workers.Add(len(funcs))
	for _, f := range funcs {
		goutils.PanicCapturingGo(func() {
			defer sw.workers.Done()
			f(sw.cancelCtx)
		})
	}
}

// Stop cancels the shared context and waits for every goroutine to return.
func (sw *StoppableWorkers) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.cancelFunc()
	sw.workers.Wait()
}

// Context returns the context handed to the workers.
func (sw *StoppableWorkers) Context() context.Context {
	return sw.cancelCtx
}
