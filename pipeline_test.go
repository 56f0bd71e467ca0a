package quiteok

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaitForPipeline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := errors.New("first")
	fast := make(chan error, 1)
	fast <- first
	close(fast)

	// This stage only finishes once the first error has cancelled it
	var finished int32
	slow := make(chan error, 1)
	go func() {
		<-ctx.Done()
		atomic.StoreInt32(&finished, 1)
		slow <- errors.New("second")
		close(slow)
	}()

	idle := make(chan error)
	close(idle)

	err := waitForPipeline(cancel, fast, slow, idle)
	assert.Equal(t, first, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
	assert.NotNil(t, ctx.Err())
}

func TestWaitForPipelineNoErrors(t *testing.T) {
	cancelled := false

	a := make(chan error, 1)
	a <- nil
	close(a)
	b := make(chan error)
	close(b)

	assert.Nil(t, waitForPipeline(func() { cancelled = true }, a, b))
	assert.False(t, cancelled)
}
