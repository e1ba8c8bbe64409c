package symbolsearch

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a query is sent.
const DefaultDebounce = 300 * time.Millisecond

// Result is delivered for the latest query only.
type Result struct {
	Query   string
	Symbols []Symbol
	Seq     uint64
}

// Debouncer coalesces rapid queries into one search and drops responses
// that arrive after a newer query was issued.
type Debouncer struct {
	searcher Searcher
	deliver  func(Result)
	wait     time.Duration
	limit    int

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	root   context.Context
	stop   context.CancelFunc
	closed bool

	// deliverMu spans the staleness check and the delivery, so a result that
	// passed the check is delivered before any newer one.
	deliverMu sync.Mutex
	onChecked func()
}

// DebounceOption customises a Debouncer.
type DebounceOption func(*Debouncer)

// WithWait sets the debounce window.
func WithWait(wait time.Duration) DebounceOption {
	return func(d *Debouncer) {
		if wait > 0 {
			d.wait = wait
		}
	}
}

// WithLimit sets the result limit passed to the searcher.
func WithLimit(limit int) DebounceOption {
	return func(d *Debouncer) {
		d.limit = limit
	}
}

// NewDebouncer wraps searcher. deliver runs on a timer goroutine, or on the
// caller's goroutine for a blank query, and must not call back into the
// Debouncer.
func NewDebouncer(searcher Searcher, deliver func(Result), options ...DebounceOption) *Debouncer {
	root, stop := context.WithCancel(context.Background())
	d := &Debouncer{
		searcher: searcher,
		deliver:  deliver,
		wait:     DefaultDebounce,
		root:     root,
		stop:     stop,
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Query supersedes any pending or in-flight query. A blank query clears the
// results immediately.
func (d *Debouncer) Query(query string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	d.supersedeLocked()

	query = strings.TrimSpace(query)
	if query == "" {
		d.mu.Unlock()
		d.deliverMu.Lock()
		defer d.deliverMu.Unlock()
		if d.current(seq) {
			d.emit(Result{Query: query, Symbols: []Symbol{}, Seq: seq})
		}
		return
	}

	ctx, cancel := context.WithCancel(d.root)
	d.cancel = cancel
	d.timer = time.AfterFunc(d.wait, func() {
		symbols := d.searcher.Search(ctx, query, d.limit)
		d.deliverMu.Lock()
		defer d.deliverMu.Unlock()
		ok := d.current(seq)
		if d.onChecked != nil {
			d.onChecked()
		}
		if ok {
			d.emit(Result{Query: query, Symbols: symbols, Seq: seq})
		}
	})
	d.mu.Unlock()
}

// Close stops the pending timer and cancels any in-flight search. It waits
// for a delivery already under way; none starts afterwards.
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.supersedeLocked()
	d.stop()
	d.mu.Unlock()

	d.deliverMu.Lock()
	d.deliverMu.Unlock()
}

func (d *Debouncer) supersedeLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer) current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && seq == d.seq
}

func (d *Debouncer) emit(result Result) {
	if d.deliver != nil {
		d.deliver(result)
	}
}
