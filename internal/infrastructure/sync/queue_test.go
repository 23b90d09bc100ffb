package sync_test

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	infrasync "github.com/jhoicas/moda-retail/internal/infrastructure/sync"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

// flakySink falla las primeras n llamadas.
type flakySink struct {
	mu    gosync.Mutex
	fails int
	calls int
	saved []string
}

func (s *flakySink) Save(_ context.Context, rec ports.SyncRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fails > 0 {
		s.fails--
		return errors.New("db caída")
	}
	s.saved = append(s.saved, rec.Key())
	return nil
}

func (s *flakySink) setFails(n int) {
	s.mu.Lock()
	s.fails = n
	s.mu.Unlock()
}

func (s *flakySink) savedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.saved...)
}

// blockingSink espera hasta que vence el contexto del intento.
type blockingSink struct{}

func (blockingSink) Save(ctx context.Context, _ ports.SyncRecord) error {
	<-ctx.Done()
	return ctx.Err()
}

func rec(id string) ports.SyncRecord {
	return ports.SyncRecord{Kind: ports.KindSale, CompanyID: "c-1", ID: id, Payload: map[string]string{"id": id}}
}

func cfg() infrasync.Config {
	return infrasync.Config{Workers: 2, QueueSize: 16, MaxAttempts: 3, Timeout: 100 * time.Millisecond, Backoff: time.Millisecond}
}

func closeQueue(t *testing.T, q *infrasync.Queue) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Close(ctx))
}

func TestQueue_DeliversAndRetries(t *testing.T) {
	sink := &flakySink{fails: 2}
	q := infrasync.NewQueue(sink, infrasync.Config{Workers: 1, QueueSize: 4, MaxAttempts: 3, Backoff: time.Millisecond}, logger.Nop())
	require.NoError(t, q.Enqueue(rec("v-1")))
	closeQueue(t, q)

	st := q.Status()
	assert.Equal(t, 1, st.Succeeded)
	assert.Equal(t, 2, st.Retries)
	assert.Equal(t, 0, st.Failed)
	assert.Equal(t, []string{"sale:c-1:v-1"}, sink.savedKeys())
}

func TestQueue_ExhaustedRecordsKeptForReconciliation(t *testing.T) {
	sink := &flakySink{fails: 100}
	q := infrasync.NewQueue(sink, cfg(), logger.Nop())
	require.NoError(t, q.Enqueue(rec("v-1")))
	require.NoError(t, q.Enqueue(rec("v-2")))

	assert.Eventually(t, func() bool { return q.Status().Failed == 2 }, time.Second, 5*time.Millisecond)
	failed := q.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, 3, failed[0].Attempts)
	assert.Equal(t, "db caída", failed[0].Err)

	sink.setFails(0)
	assert.Equal(t, 2, q.RetryFailed())
	assert.Eventually(t, func() bool { return q.Status().Succeeded == 2 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, q.Failed())
	closeQueue(t, q)
}

func TestQueue_PerAttemptTimeout(t *testing.T) {
	q := infrasync.NewQueue(blockingSink{}, infrasync.Config{Workers: 1, QueueSize: 1, MaxAttempts: 1, Timeout: 10 * time.Millisecond}, logger.Nop())
	require.NoError(t, q.Enqueue(rec("v-1")))
	closeQueue(t, q)
	failed := q.Failed()
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Err, context.DeadlineExceeded.Error())
}

func TestQueue_FullQueueDoesNotBlock(t *testing.T) {
	q := infrasync.NewQueue(blockingSink{}, infrasync.Config{Workers: 1, QueueSize: 1, MaxAttempts: 1, Timeout: 50 * time.Millisecond}, logger.Nop())
	var full int
	for i := 0; i < 5; i++ {
		if err := q.Enqueue(rec(string(rune('a' + i)))); errors.Is(err, infrasync.ErrQueueFull) {
			full++
		}
	}
	assert.GreaterOrEqual(t, full, 3)
	assert.GreaterOrEqual(t, q.Status().Failed, 3)
	closeQueue(t, q)
}

func TestQueue_ClosedRejectsAndCloseHonorsContext(t *testing.T) {
	sink := &flakySink{fails: 100}
	q := infrasync.NewQueue(sink, infrasync.Config{Workers: 1, QueueSize: 4, MaxAttempts: 5, Backoff: time.Hour}, logger.Nop())
	require.NoError(t, q.Enqueue(rec("v-1")))
	assert.Eventually(t, func() bool { return q.Status().Retries == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Close(ctx), context.DeadlineExceeded)
	assert.ErrorIs(t, q.Enqueue(rec("v-2")), infrasync.ErrQueueClosed)
	assert.Eventually(t, func() bool { return q.Status().Failed == 1 }, time.Second, 5*time.Millisecond)
}

func TestLogSink(t *testing.T) {
	assert.NoError(t, infrasync.NewLogSink(logger.Nop()).Save(context.Background(), rec("v-1")))
}
