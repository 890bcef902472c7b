package framework

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	id int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

func TestRunOncePriorities(t *testing.T) {
	var order []int
	loop := NewLoop()
	for _, lv := range []int{PrLvIdle, PrLvSense, PrLvPostProc, PrLvControl} {
		lv := lv
		loop.AddController(lv, ControlFunc(func(cc ControlContext) error {
			require.Equal(t, lv, cc.PriorityLevel())
			order = append(order, lv)
			return nil
		}))
	}
	loop.RunOnce(context.Background())
	require.Equal(t, []int{PrLvSense, PrLvControl, PrLvPostProc, PrLvIdle}, order)
}

func TestMessageProcessing(t *testing.T) {
	var taken, left []int
	loop := NewLoop()
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			if m := mctx.CurrentMessage().(*testMsg); m.id%2 == 0 {
				mctx.MessageTaken()
				taken = append(taken, m.id)
			}
		}))
		return nil
	}))
	loop.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			mctx.MessageTaken()
			left = append(left, mctx.CurrentMessage().(*testMsg).id)
		}))
		return nil
	}))
	for id := 1; id <= 4; id++ {
		loop.PostMessage(&testMsg{id: id})
	}
	loop.RunOnce(context.Background())
	require.Equal(t, []int{2, 4}, taken)
	require.Equal(t, []int{1, 3}, left)

	taken, left = nil, nil
	loop.RunOnce(context.Background())
	require.Empty(t, taken)
	require.Empty(t, left)
}

func TestLoopCtlInIteration(t *testing.T) {
	var seen []int
	loop := NewLoop()
	loop.AddController(PrLvSense, ControlFunc(func(cc ControlContext) error {
		LoopCtlFrom(cc.Context()).PostMessage(&testMsg{id: 7})
		return nil
	}))
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			mctx.MessageTaken()
			seen = append(seen, mctx.CurrentMessage().(*testMsg).id)
		}))
		return nil
	}))
	loop.RunOnce(context.Background())
	require.Empty(t, seen)
	loop.RunOnce(context.Background())
	require.Equal(t, []int{7}, seen)
}

func TestRunWithContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	cancel()
	err := RunWithContextCancel(ctx, func() { close(unblock) }, func() error {
		<-unblock
		return errors.New("unblocked")
	})
	require.Equal(t, context.Canceled, err)

	err = RunWithContext(context.Background(), func() error { return errors.New("done") })
	require.EqualError(t, err, "done")
}

func TestStopProcessingKeepsOrder(t *testing.T) {
	var seen, left []int
	loop := NewLoop()
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			id := mctx.CurrentMessage().(*testMsg).id
			seen = append(seen, id)
			if id == 1 {
				mctx.MessageTaken()
				mctx.AddMessages(&testMsg{id: 9})
			}
			if id == 2 {
				mctx.StopProcessing()
			}
		}))
		return nil
	}))
	loop.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			left = append(left, mctx.CurrentMessage().(*testMsg).id)
		}))
		return nil
	}))
	for id := 1; id <= 4; id++ {
		loop.PostMessage(&testMsg{id: id})
	}
	require.NoError(t, loop.RunOnce(context.Background()))
	require.Equal(t, []int{1, 2}, seen)
	require.Equal(t, []int{2, 3, 4, 9}, left)
}

func TestRunOnceControllerErrors(t *testing.T) {
	broken := errors.New("broken")
	loop := NewLoop()
	loop.AddController(PrLvSense, ControlFunc(func(cc ControlContext) error { return nil }))
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error { return broken }))
	loop.PostRunAt(PrLvIdle, ControlFunc(func(cc ControlContext) error { return broken }))

	err := loop.RunOnce(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, broken))
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.Equal(t, []string{
		fmt.Sprintf("controller %d/0", PrLvControl),
		fmt.Sprintf("post-run %d/0", PrLvIdle),
	}, agg.Sources())

	err = loop.RunOnce(context.Background())
	require.Error(t, err)
	require.Len(t, err.(*AggregatedError).Errors, 1)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())
	errs.Add(errors.New("a"), nil)
	require.EqualError(t, errs.Aggregate(), "a")

	lost := errors.New("link lost")
	errs.AddFrom("stream 10.0.0.7:4001", lost, nil)
	require.EqualError(t, errs.Aggregate(), "2 errors:\n  a\n  stream 10.0.0.7:4001: link lost")
	require.Equal(t, []string{"stream 10.0.0.7:4001"}, errs.Sources())
	require.True(t, errors.Is(errs.Aggregate(), lost))
	var se *SourceError
	require.True(t, errors.As(errs.Aggregate(), &se))
	require.Equal(t, "stream 10.0.0.7:4001", se.Source)
}

func TestRunnerWait(t *testing.T) {
	boom := errors.New("boom")
	r := NewRunner().Go(
		RunnableFunc(func(ctx context.Context) error { return nil }),
		NamedRun("poller", RunnableFunc(func(ctx context.Context) error { return boom })),
		NamedRun("canceled", RunnableFunc(func(ctx context.Context) error { return context.Canceled })),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.Equal(t, []error{&SourceError{Source: "poller", Err: boom}}, agg.Errors)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunnerShutdownHooks(t *testing.T) {
	stuck := errors.New("stuck")
	testCases := []struct {
		name    string
		run     error
		close   error
		sources []string
	}{
		{"clean", nil, nil, nil},
		{"canceled", context.Canceled, nil, nil},
		{"close fails", nil, stuck, []string{"board"}},
		{"both fail", stuck, stuck, []string{"loop", "board"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var order []string
			running := true
			r := NewRunner().
				OnShutdown("bus", func() error {
					order = append(order, "bus")
					return nil
				}).
				OnShutdownClose("board", closerFunc(func() error {
					require.False(t, running)
					order = append(order, "board")
					return tc.close
				})).
				Go(NamedRun("loop", RunnableFunc(func(ctx context.Context) error {
					running = false
					return tc.run
				})))
			err := r.Wait()
			require.Equal(t, []string{"board", "bus"}, order)
			if tc.sources == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tc.sources, err.(*AggregatedError).Sources())
		})
	}
}
