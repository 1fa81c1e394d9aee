package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/warp-contracts/escrow/src/utils/config"
	"go.uber.org/atomic"
)

func TestTaskTestSuite(t *testing.T) {
	suite.Run(t, new(TaskTestSuite))
}

type TaskTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *TaskTestSuite) SetupSuite() {
	s.config = config.Default()
	s.config.StopTimeout = 5 * time.Second
}

func (s *TaskTestSuite) TestPeriodicSubtaskRunsImmediately() {
	var calls atomic.Int64
	task := NewTask(s.config, "periodic").
		WithPeriodicSubtaskFunc(time.Hour, func() error {
			calls.Inc()
			return nil
		})

	require.NoError(s.T(), task.Start())
	require.Eventually(s.T(), func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	task.StopWait()
	require.Error(s.T(), task.CtxRunning.Err())
	require.Equal(s.T(), int64(1), calls.Load())
}

func (s *TaskTestSuite) TestSubtasksAndHooks() {
	var stopped, afterStopped atomic.Bool
	child := NewTask(s.config, "child").
		WithSubtaskFunc(func() error {
			<-time.After(10 * time.Millisecond)
			return nil
		}).
		WithOnStop(func() { stopped.Store(true) })

	parent := NewTask(s.config, "parent").
		WithSubtask(child).
		WithOnAfterStop(func() { afterStopped.Store(true) })

	require.NoError(s.T(), parent.Start())
	parent.StopWait()

	require.True(s.T(), stopped.Load())
	require.True(s.T(), afterStopped.Load())
	require.True(s.T(), child.IsStopping.Load())
}

func (s *TaskTestSuite) TestBeforeStartError() {
	task := NewTask(s.config, "failing").
		WithOnBeforeStart(func() error { return errors.New("boom") })
	require.Error(s.T(), task.Start())
}

func (s *TaskTestSuite) TestWorkerPool() {
	var done atomic.Int64
	task := NewTask(s.config, "workers").
		WithWorkerPool(2, 1)
	task.WithSubtaskFunc(func() error {
		<-task.StopChannel
		return nil
	})

	require.NoError(s.T(), task.Start())
	for i := 0; i < 10; i++ {
		task.SubmitToWorker(func() { done.Inc() })
	}
	task.StopWait()
	require.Equal(s.T(), int64(10), done.Load())
}

func (s *TaskTestSuite) TestParentContext() {
	parent, cancel := context.WithCancel(context.Background())
	task := NewTask(s.config, "merged").WithContext(parent)

	require.NoError(s.T(), task.Ctx.Err())
	cancel()
	require.Eventually(s.T(), func() bool { return task.Ctx.Err() != nil }, time.Second, 5*time.Millisecond)
}

func (s *TaskTestSuite) TestRetryPermanent() {
	var attempts atomic.Int64
	err := NewRetry().
		WithMaxElapsedTime(time.Second).
		WithMaxInterval(10 * time.Millisecond).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			if attempts.Load() >= 3 {
				return backoff.Permanent(err)
			}
			return err
		}).
		Run(func() error {
			attempts.Inc()
			return errors.New("fail")
		})

	require.Error(s.T(), err)
	require.Equal(s.T(), int64(3), attempts.Load())
}

func (s *TaskTestSuite) TestRetrySucceeds() {
	var attempts atomic.Int64
	err := NewRetry().
		WithMaxElapsedTime(time.Second).
		WithMaxInterval(10 * time.Millisecond).
		Run(func() error {
			if attempts.Inc() < 2 {
				return errors.New("fail")
			}
			return nil
		})

	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(2), attempts.Load())
}
