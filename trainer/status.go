package trainer

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// statusBoard refreshes one terminal line per worker plus a header line
// through a single uilive writer.
type statusBoard struct {
	mu    sync.Mutex
	lines []string

	ctx    context.Context
	cancel context.CancelFunc

	writer  *uilive.Writer
	writers []io.Writer
}

func newStatusBoard(workers int) *statusBoard {
	ctx, cancel := context.WithCancel(context.Background())
	writer := uilive.New()
	writers := make([]io.Writer, workers)
	for i := 0; i < workers; i++ {
		writers[i] = writer.Newline()
	}
	return &statusBoard{
		lines:   make([]string, workers+1),
		ctx:     ctx,
		cancel:  cancel,
		writer:  writer,
		writers: writers,
	}
}

func (b *statusBoard) Start() {
	go func() {
		for {
			select {
			case <-b.ctx.Done():
				return
			case <-time.After(time.Second):
				b.print()
			}
		}
	}()
}

// Stop halts the refresher and renders the final state
func (b *statusBoard) Stop() {
	b.cancel()
	b.print()
}

// SetHeader updates the iteration summary line
func (b *statusBoard) SetHeader(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines[0] = s
}

// SetWorker updates the line of one worker
func (b *statusBoard) SetWorker(worker int, s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines[worker+1] = s
}

func (b *statusBoard) print() {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprint(b.writer, b.lines[0]+"\n")
	for i, w := range b.writers {
		fmt.Fprint(w, b.lines[i+1]+"\n")
	}
	b.writer.Flush()
}
