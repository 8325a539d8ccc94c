package tailer

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"
)

// Options control tailing behavior.
type Options struct {
	Path      string        // log file path
	FromStart bool          // if true, read existing content, else start at the end
	Interval  time.Duration // how often to poll for new data
	ChunkSize int           // read buffer size per iteration
}

// Tailer follows a single file with simple polling, surviving rotation,
// truncation and the file not existing yet. Cross-platform.
type Tailer struct {
	opt Options

	mu     sync.Mutex
	file   *os.File
	info   os.FileInfo
	offset int64
	cancel context.CancelFunc

	pending []byte // partial line carried between reads
}

func New(opt Options) *Tailer {
	if opt.Interval <= 0 {
		opt.Interval = 300 * time.Millisecond
	}
	if opt.ChunkSize <= 0 {
		opt.ChunkSize = 64 * 1024
	}
	return &Tailer{opt: opt}
}

// Follow tails the file, sending complete lines on out. It blocks until ctx
// is done. If the file does not exist yet it waits for it to appear.
func (t *Tailer) Follow(ctx context.Context, out chan<- string) error {
	if t.opt.Path == "" {
		return errors.New("tailer: empty path")
	}
	ctx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()
	defer cancel()

	if err := t.waitOpen(ctx, t.opt.FromStart); err != nil {
		return err
	}

	buf := make([]byte, t.opt.ChunkSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.opt.Interval):
		}

		if t.rotated() {
			t.close()
			// After rotation the replacement is read from the top.
			if err := t.waitOpen(ctx, true); err != nil {
				return err
			}
			t.pending = t.pending[:0]
			continue
		}

		f := t.current()
		if f == nil {
			if err := t.waitOpen(ctx, true); err != nil {
				return err
			}
			continue
		}

		n, err := f.Read(buf)
		if n > 0 {
			t.emit(buf[:n], out)
			t.mu.Lock()
			t.offset += int64(n)
			t.mu.Unlock()
		}
		if err != nil && !errors.Is(err, io.EOF) {
			// transient read error, reopen on the next tick
			t.close()
		}
	}
}

// Stop cancels an in-progress Follow.
func (t *Tailer) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// waitOpen opens the file, retrying until ctx is done.
func (t *Tailer) waitOpen(ctx context.Context, fromStart bool) error {
	const retry = 500 * time.Millisecond
	for {
		if err := t.open(fromStart); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}

func (t *Tailer) open(fromStart bool) error {
	f, err := os.Open(t.opt.Path)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	var pos int64
	if !fromStart {
		pos = info.Size()
	}
	if _, err := f.Seek(pos, io.SeekStart); err != nil {
		f.Close()
		return err
	}
	t.mu.Lock()
	t.file = f
	t.info = info
	t.offset = pos
	t.mu.Unlock()
	return nil
}

func (t *Tailer) current() *os.File {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file
}

// rotated reports whether the path now refers to a different file, or the
// file shrank below our read offset (truncation).
func (t *Tailer) rotated() bool {
	t.mu.Lock()
	info := t.info
	offset := t.offset
	t.mu.Unlock()

	cur, err := os.Stat(t.opt.Path)
	if err != nil {
		return true // temporarily missing, reopen later
	}
	if info == nil || !os.SameFile(info, cur) {
		return true
	}
	return cur.Size() < offset
}

func (t *Tailer) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file != nil {
		_ = t.file.Close()
	}
	t.file = nil
	t.info = nil
	t.offset = 0
}

// emit splits b into lines, joining with any pending partial line, and sends
// complete lines on out. Handles \r\n endings.
func (t *Tailer) emit(b []byte, out chan<- string) {
	data := append(t.pending, b...)
	start := 0
	for i := 0; i < len(data); i++ {
		if data[i] != '\n' {
			continue
		}
		line := data[start:i]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		out <- string(line)
		start = i + 1
	}
	t.pending = append(t.pending[:0], data[start:]...)
}
