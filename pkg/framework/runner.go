package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Wait when a second stop signal arrives
// before all Runnables returned.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// NameOf returns the name of v if it is Named, otherwise fallback.
func NameOf(v interface{}, fallback string) string {
	if named, ok := v.(Named); ok {
		if name := named.Name(); name != "" {
			return name
		}
	}
	return fallback
}

type runResult struct {
	name string
	err  error
}

type shutdownHook struct {
	name string
	fn   func() error
}

// Runner runs Runnables until they all return, then runs the shutdown
// hooks in reverse registration order. Errors are tagged with the name
// of the Runnable or hook.
type Runner struct {
	Context context.Context
	Runners []Runnable

	hooks    []shutdownHook
	resultCh chan runResult
	exitCh   chan struct{}
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner with a specified context.
func NewRunnerWith(ctx context.Context) *Runner {
	return &Runner{
		Context:  ctx,
		resultCh: make(chan runResult, 1),
		exitCh:   make(chan struct{}),
	}
}

// HandleSignals handles CtrlC and SIGTERM from the system.
func (r *Runner) HandleSignals() *Runner {
	ctx, cancel := context.WithCancel(r.Context)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	r.Context = ctx
	go func() {
		<-sigCh
		glog.Info("stop requested")
		cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// OnShutdown registers fn to release a resource the Runnables share,
// e.g. the hardware they drive. Hooks run once every Runnable returned,
// also after a forced exit.
func (r *Runner) OnShutdown(name string, fn func() error) *Runner {
	r.hooks = append(r.hooks, shutdownHook{name: name, fn: fn})
	return r
}

// OnShutdownClose is OnShutdown with an io.Closer.
func (r *Runner) OnShutdownClose(name string, closer io.Closer) *Runner {
	return r.OnShutdown(name, closer.Close)
}

// Go spawns a Runnable with default context.
func (r *Runner) Go(runners ...Runnable) *Runner {
	return r.GoWith(r.Context, runners...)
}

// GoWith spawns a Runnable with a specified context.
func (r *Runner) GoWith(ctx context.Context, runners ...Runnable) *Runner {
	for _, runner := range runners {
		name := NameOf(runner, strconv.Itoa(len(r.Runners)))
		r.Runners = append(r.Runners, runner)
		glog.V(4).Infof("start Runner[%s]", name)
		go func(runner Runnable, name string) {
			glog.V(4).Infof("Runner[%s] started", name)
			err := runner.Run(ctx)
			glog.V(4).Infof("Runner[%s] stopped: %v", name, err)
			r.resultCh <- runResult{name: name, err: err}
		}(runner, name)
	}
	return r
}

// Wait waits until all Runnables stop, runs the shutdown hooks and
// aggregates errors. Cancellation is not an error.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for range r.Runners {
		select {
		case <-r.exitCh:
			errs.Add(ErrForcedExit)
			errs.Add(r.shutdown())
			return errs.Aggregate()
		case res := <-r.resultCh:
			if !errors.Is(res.err, context.Canceled) {
				errs.AddFrom(res.name, res.err)
			}
		}
	}
	if err := r.shutdown(); err != nil {
		errs.Errors = append(errs.Errors, err.(*AggregatedError).Errors...)
	}
	return errs.Aggregate()
}

func (r *Runner) shutdown() error {
	var errs AggregatedError
	hooks := r.hooks
	r.hooks = nil
	for n := len(hooks) - 1; n >= 0; n-- {
		glog.V(4).Infof("shutdown %s", hooks[n].name)
		errs.AddFrom(hooks[n].name, hooks[n].fn())
	}
	return errs.Aggregate()
}

// RunWithContextCancel runs a func with doesn't accept a context.
// cancel is called only when the context is canceled.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return context.Canceled
	case err := <-errCh:
		return err
	}
}

// RunWithContext is simplified form with no cancel callback.
func RunWithContext(ctx context.Context, fn func() error) error {
	return RunWithContextCancel(ctx, nil, fn)
}

// RunWithContextCloser is a convinient wrapper for RunWithContextCancel and
// ensures closer.Close is either called on cancel or exit of fn.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var closed bool
	err := RunWithContextCancel(ctx, func() {
		closer.Close()
		closed = true
	}, fn)
	if !closed {
		closer.Close()
	}
	return err
}
