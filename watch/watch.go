// Package watch rebuilds generated modules whenever their source changes.
//
// Events are debounced so an editor's save burst triggers one build, and
// builds are rate limited so a file rewritten in a loop cannot pin the CPU.
// After each successful build an optional shell hook runs.
package watch

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
)

// BuildFunc regenerates output. It runs on the watcher's goroutine, never concurrently.
type BuildFunc func(ctx context.Context) error

// Options configures a Watcher
type Options struct {
	// Paths are the files whose changes trigger a build
	Paths []string

	// Debounce is the quiet period after the last event before building. 0 builds immediately.
	Debounce time.Duration

	// MaxRunsPerMinute limits builds; 0 = unlimited
	MaxRunsPerMinute int

	// Exec is a shell-quoted command run after each successful build
	Exec string

	// Env is appended to the hook's environment
	Env []string

	// Stdout and Stderr receive the hook's output (default: os.Stdout, os.Stderr)
	Stdout io.Writer
	Stderr io.Writer
}

// Watcher runs a BuildFunc whenever one of its paths changes
type Watcher struct {
	opts    Options
	build   BuildFunc
	hook    []string
	files   map[string]bool
	fsw     *fsnotify.Watcher
	limiter *rate.Limiter
	log     *zap.SugaredLogger

	mu            sync.Mutex
	debounceTimer *time.Timer
	trigger       chan struct{}
}

// New creates a watcher for opts.Paths. Directories containing the paths are
// watched rather than the files, so editors that save by rename are seen.
func New(build BuildFunc, opts Options, log *zap.SugaredLogger) (*Watcher, error) {
	if len(opts.Paths) == 0 {
		return nil, errors.NewInvalidRequestError("nothing to watch")
	}
	if opts.Debounce < 0 {
		return nil, errors.NewInvalidRequestError("debounce must be >= 0, got %s", opts.Debounce)
	}
	if opts.MaxRunsPerMinute < 0 {
		return nil, errors.NewInvalidRequestError("max runs per minute must be >= 0, got %d", opts.MaxRunsPerMinute)
	}
	if log == nil {
		log = logger.Named("watch")
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	var hook []string
	if strings.TrimSpace(opts.Exec) != "" {
		args, err := shellquote.Split(opts.Exec)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidRequest, "invalid exec hook %q: %s", opts.Exec, err)
		}
		hook = args
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		opts:    opts,
		build:   build,
		hook:    hook,
		files:   make(map[string]bool, len(opts.Paths)),
		fsw:     fsw,
		log:     log,
		trigger: make(chan struct{}, 1),
	}
	if opts.MaxRunsPerMinute > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(float64(opts.MaxRunsPerMinute)/60.0), 1)
	}

	dirs := map[string]bool{}
	for _, p := range opts.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	return w, nil
}

// Run builds once, then rebuilds on every change until ctx is done.
// It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	w.runBuild(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Source changed",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.schedule(w.opts.Debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)

		case <-w.trigger:
			w.rebuild(ctx)
		}
	}
}

// relevant reports writes and creations of a watched file
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// schedule (re)arms the debounce timer
func (w *Watcher) schedule(after time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(after, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
			// a build is already pending
		}
	})
}

// rebuild builds now, or defers until the limiter allows it
func (w *Watcher) rebuild(ctx context.Context) {
	if w.limiter != nil {
		res := w.limiter.Reserve()
		if d := res.Delay(); d > 0 {
			res.Cancel()
			w.log.Infow("Rebuild rate limited", "retry_in_ms", d.Milliseconds())
			w.schedule(d)
			return
		}
	}
	w.runBuild(ctx)
}

func (w *Watcher) runBuild(ctx context.Context) {
	start := time.Now()
	if err := w.build(ctx); err != nil {
		w.log.Errorw("Build failed", logger.FieldError, err)
		return
	}
	w.log.Infow("Build finished", logger.FieldDurationMS, time.Since(start).Milliseconds())

	if len(w.hook) == 0 {
		return
	}
	if err := w.runHook(ctx); err != nil {
		w.log.Errorw("Exec hook failed", "exec", w.opts.Exec, logger.FieldError, err)
	}
}

func (w *Watcher) runHook(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, w.hook[0], w.hook[1:]...)
	cmd.Env = append(os.Environ(), w.opts.Env...)
	cmd.Stdout = w.opts.Stdout
	cmd.Stderr = w.opts.Stderr
	return cmd.Run()
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	if err := w.fsw.Close(); err != nil {
		w.log.Debugw("Failed to close watcher", logger.FieldError, err)
	}
}
