package resources

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Faultbox/experience/internal/events"
)

// Lifecycle errors.
var (
	ErrAlreadyStarted = errors.New("loader already started")
	ErrNotStarted     = errors.New("loader not started")
	ErrNotFailed      = errors.New("source has not failed")
	ErrUnknownSource  = errors.New("unknown source")
)

// DefaultMaxConcurrent bounds simultaneous decodes.
const DefaultMaxConcurrent = 4

// Asset is a decoded resource. Its concrete type depends on the decoder.
type Asset any

// Decoder loads one asset from a resolved path.
type Decoder interface {
	Decode(ctx context.Context, path string) (Asset, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, path string) (Asset, error)

// Decode calls f.
func (f DecoderFunc) Decode(ctx context.Context, path string) (Asset, error) {
	return f(ctx, path)
}

// Decoders maps each source type to its loading strategy.
type Decoders map[Type]Decoder

type completion struct {
	source Source
	asset  Asset
	err    error
}

// Loader decodes sources on worker goroutines and applies the results on
// the goroutine that calls Poll. Events ("progress", "ready", "error") are
// emitted from Poll only.
type Loader struct {
	events.Emitter

	sources  []Source
	byName   map[string]Source
	skipped  error
	decoders Decoders
	baseDir  string
	strict   bool
	maxConc  int64
	log      *zap.Logger

	sem     *semaphore.Weighted
	results chan completion
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	started  bool
	items    map[string]Asset
	failed   map[string]error
	inflight map[string]bool
	loaded   int
	ready    bool
	done     chan struct{}
}

// Option configures a Loader.
type Option func(*Loader)

// WithBaseDir resolves relative source paths against dir.
func WithBaseDir(dir string) Option {
	return func(l *Loader) { l.baseDir = dir }
}

// WithMaxConcurrent bounds the number of decodes in flight.
func WithMaxConcurrent(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxConc = int64(n)
		}
	}
}

// WithStrict makes New reject any invalid source instead of excluding it
// from the load set.
func WithStrict(strict bool) Option {
	return func(l *Loader) { l.strict = strict }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New validates sources and prepares a loader. Invalid sources (unknown type,
// duplicate or empty name, empty path) are excluded from the completion target
// and reported by Skipped, or rejected outright in strict mode. Every type
// left in the load set must have a decoder.
func New(sources []Source, decoders Decoders, opts ...Option) (*Loader, error) {
	l := &Loader{
		decoders: decoders,
		maxConc:  DefaultMaxConcurrent,
		log:      zap.NewNop(),
		items:    make(map[string]Asset),
		failed:   make(map[string]error),
		inflight: make(map[string]bool),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	valid, invalid := partition(sources)
	if invalid != nil {
		if l.strict {
			return nil, fmt.Errorf("invalid sources: %w", invalid)
		}
		for _, err := range multierr.Errors(invalid) {
			l.log.Error("source excluded", zap.Error(err))
		}
	}
	l.skipped = invalid

	var missing error
	for _, src := range valid {
		if l.decoders[src.Type] == nil {
			missing = multierr.Append(missing, fmt.Errorf("source %q: %w %s", src.Name, ErrNoDecoder, src.Type))
		}
	}
	if missing != nil {
		return nil, missing
	}

	l.sources = valid
	l.byName = make(map[string]Source, len(valid))
	for _, src := range valid {
		l.byName[src.Name] = src
	}
	l.results = make(chan completion, len(valid))
	l.sem = semaphore.NewWeighted(l.maxConc)
	return l, nil
}

// Sources returns the sources that count toward readiness.
func (l *Loader) Sources() []Source {
	return append([]Source(nil), l.sources...)
}

// Skipped returns the combined validation error for excluded sources, or nil.
func (l *Loader) Skipped() error { return l.skipped }

// ToLoad returns the number of sources that must load before "ready".
func (l *Loader) ToLoad() int { return len(l.sources) }

// Loaded returns the number of sources stored so far.
func (l *Loader) Loaded() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// IsReady reports whether every source has loaded.
func (l *Loader) IsReady() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Done is closed when the loader becomes ready.
func (l *Loader) Done() <-chan struct{} { return l.done }

// Get returns the asset stored under name.
func (l *Loader) Get(name string) (Asset, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.items[name]
	return a, ok
}

// Items returns a copy of the registry.
func (l *Loader) Items() map[string]Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]Asset, len(l.items))
	for k, v := range l.items {
		out[k] = v
	}
	return out
}

// Failed returns the sources whose last attempt failed, keyed by name.
func (l *Loader) Failed() map[string]error {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]error, len(l.failed))
	for k, v := range l.failed {
		out[k] = v
	}
	return out
}

// Start dispatches every source. Loads stop when ctx is cancelled or Close
// is called.
func (l *Loader) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	l.started = true
	l.ctx, l.cancel = context.WithCancel(ctx)
	for _, src := range l.sources {
		l.dispatchLocked(src)
	}
	l.mu.Unlock()

	l.log.Info("loading sources", zap.Int("count", len(l.sources)), zap.Int64("max_concurrent", l.maxConc))
	return nil
}

// dispatchLocked starts one decode. At most one decode per source is in
// flight, so the results buffer never fills.
func (l *Loader) dispatchLocked(src Source) {
	l.inflight[src.Name] = true
	decoder := l.decoders[src.Type]
	path := l.resolve(src.Path)
	ctx := l.ctx

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.sem.Acquire(ctx, 1); err != nil {
			l.results <- completion{source: src, err: err}
			return
		}
		defer l.sem.Release(1)

		asset, err := safeDecode(ctx, decoder, path)
		if err == nil && asset == nil {
			err = errors.New("decoder returned no asset")
		}
		l.results <- completion{source: src, asset: asset, err: err}
	}()
}

// safeDecode reports a decoder panic as a load error for that source.
func safeDecode(ctx context.Context, d Decoder, path string) (asset Asset, err error) {
	defer func() {
		if r := recover(); r != nil {
			asset, err = nil, fmt.Errorf("decoder panicked: %v", r)
		}
	}()
	return d.Decode(ctx, path)
}

func (l *Loader) resolve(path string) string {
	if l.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.baseDir, path)
}

// Poll applies every completion that has arrived and returns how many were
// applied. It never blocks. With no sources, the first Poll after Start
// emits "ready".
func (l *Loader) Poll() int {
	n := 0
	for {
		select {
		case c := <-l.results:
			l.apply(c)
			n++
		default:
			l.readyIfEmpty()
			return n
		}
	}
}

func (l *Loader) readyIfEmpty() {
	l.mu.Lock()
	fire := l.started && !l.ready && len(l.sources) == 0
	if fire {
		l.ready = true
		close(l.done)
	}
	l.mu.Unlock()
	if fire {
		l.log.Info("all sources loaded", zap.Int("count", 0))
		l.Trigger(events.EventReady)
	}
}

// apply stores one completion. The counter update and the ready latch happen
// under the lock; events fire after it is released so handlers may read the
// registry.
func (l *Loader) apply(c completion) {
	name := c.source.Name

	l.mu.Lock()
	delete(l.inflight, name)

	if c.err != nil {
		l.failed[name] = c.err
		l.mu.Unlock()

		srcErr := &SourceError{Source: c.source, Err: c.err}
		l.log.Warn("source failed", zap.String("name", name), zap.String("path", c.source.Path), zap.Error(c.err))
		l.Trigger(events.EventError, srcErr)
		return
	}

	if _, exists := l.items[name]; exists {
		l.mu.Unlock()
		return
	}
	l.items[name] = c.asset
	delete(l.failed, name)
	l.loaded++
	loaded, toLoad := l.loaded, len(l.sources)
	fire := loaded == toLoad && !l.ready
	if fire {
		l.ready = true
		close(l.done)
	}
	l.mu.Unlock()

	l.log.Debug("source loaded",
		zap.String("name", name),
		zap.Stringer("type", c.source.Type),
		zap.Int("loaded", loaded),
		zap.Int("to_load", toLoad),
	)
	l.Trigger(events.EventProgress, loaded, toLoad)
	if fire {
		l.log.Info("all sources loaded", zap.Int("count", toLoad))
		l.Trigger(events.EventReady)
	}
}

// Retry re-dispatches a source whose last attempt failed.
func (l *Loader) Retry(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}
	src, ok := l.byName[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownSource, name)
	}
	if l.inflight[name] {
		return nil
	}
	if _, failed := l.failed[name]; !failed {
		return fmt.Errorf("%w: %q", ErrNotFailed, name)
	}
	delete(l.failed, name)
	l.log.Info("retrying source", zap.String("name", name))
	l.dispatchLocked(src)
	return nil
}

// Wait polls until the loader is ready, ctx is done, or every remaining
// source has failed. In the last case the combined load errors are returned.
func (l *Loader) Wait(ctx context.Context) error {
	for {
		l.Poll()

		l.mu.Lock()
		if l.ready {
			l.mu.Unlock()
			return nil
		}
		if !l.started {
			l.mu.Unlock()
			return ErrNotStarted
		}
		var failures error
		if len(l.inflight) == 0 {
			for _, src := range l.sources {
				if err, ok := l.failed[src.Name]; ok {
					failures = multierr.Append(failures, &SourceError{Source: src, Err: err})
				}
			}
		}
		l.mu.Unlock()
		if failures != nil {
			return failures
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-l.results:
			l.apply(c)
		}
	}
}

// Close cancels outstanding loads and waits for the workers to exit.
// Completions that arrive during Close are discarded.
func (l *Loader) Close() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}
