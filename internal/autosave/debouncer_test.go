package autosave

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebouncer_CollapsesBurstIntoOneSave(t *testing.T) {
	var calls int32
	d := NewDebouncer(30*time.Millisecond, time.Second, func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, logger.NewNop())

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, d.Pending())
}

func TestDebouncer_CancelDropsPendingSave(t *testing.T) {
	var calls int32
	d := NewDebouncer(20*time.Millisecond, time.Second, func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, logger.NewNop())

	d.Trigger()
	assert.True(t, d.Pending())
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestDebouncer_FailureIsOnlyLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	d := NewDebouncer(10*time.Millisecond, time.Second, func(context.Context) error {
		return errors.New("store down")
	}, logger.New(zap.New(core)))

	d.Trigger()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("auto-save failed").Len() == 1
	}, time.Second, 5*time.Millisecond)
}
