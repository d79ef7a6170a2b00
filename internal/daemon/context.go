package daemon

import (
	"context"
	"sync"
)

// daemonCtx is a cancelable context that remembers why it was canceled.
type daemonCtx struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// Cancel stops the context. Only the first reason is kept.
func (dc *daemonCtx) Cancel(err error) {
	dc.mu.Lock()
	if dc.err == nil {
		dc.err = err
	}
	dc.mu.Unlock()
	dc.cancel()
}

func (dc *daemonCtx) Done() <-chan struct{} { return dc.ctx.Done() }

// Err is the Cancel reason, or the context's own error.
func (dc *daemonCtx) Err() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if dc.err != nil {
		return dc.err
	}
	return dc.ctx.Err()
}

func newDaemonCtx(parent context.Context) *daemonCtx {
	ctx, cancel := context.WithCancel(parent)
	return &daemonCtx{ctx: ctx, cancel: cancel}
}
