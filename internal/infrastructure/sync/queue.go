// Package sync persiste en segundo plano las copias de las entidades confirmadas en memoria.
// La cola es write-ahead: el llamador nunca espera al almacenamiento durable; los fallos se
// reintentan con backoff exponencial y, agotados los intentos, quedan para reconciliación.
package sync

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

var (
	ErrQueueClosed = errors.New("sync: cola cerrada")
	ErrQueueFull   = errors.New("sync: cola llena, registro pendiente de reconciliación")
)

// maxBackoff tope de espera entre intentos.
const maxBackoff = 30 * time.Second

// Sink destino durable de los registros.
type Sink interface {
	Save(ctx context.Context, rec ports.SyncRecord) error
}

// Config parámetros de la cola.
type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Timeout     time.Duration // por intento
	Backoff     time.Duration // base; se duplica en cada reintento
}

// Failure registro que agotó sus intentos.
type Failure struct {
	Record   ports.SyncRecord
	Attempts int
	Err      string
	At       time.Time
}

// Queue cola de persistencia con workers.
type Queue struct {
	sink Sink
	cfg  Config
	log  *logger.Logger

	ch   chan ports.SyncRecord
	stop chan struct{}
	wg   sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	inFlight  int
	succeeded int
	retries   int
	failed    map[string]Failure
}

// NewQueue arranca los workers.
func NewQueue(sink Sink, cfg Config, log *logger.Logger) *Queue {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	q := &Queue{
		sink:   sink,
		cfg:    cfg,
		log:    log.Component("sync"),
		ch:     make(chan ports.SyncRecord, cfg.QueueSize),
		stop:   make(chan struct{}),
		failed: map[string]Failure{},
	}
	for i := 0; i < cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue encola sin bloquear. Con la cola llena el registro queda como fallido
// (pendiente de RetryFailed) y se devuelve ErrQueueFull.
func (q *Queue) Enqueue(rec ports.SyncRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- rec:
		return nil
	default:
		q.failed[rec.Key()] = Failure{Record: rec, Err: ErrQueueFull.Error(), At: time.Now()}
		return ErrQueueFull
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for rec := range q.ch {
		q.mu.Lock()
		q.inFlight++
		q.mu.Unlock()

		attempts, err := q.deliver(rec)

		q.mu.Lock()
		q.inFlight--
		if err == nil {
			q.succeeded++
			delete(q.failed, rec.Key())
		} else {
			q.failed[rec.Key()] = Failure{Record: rec, Attempts: attempts, Err: err.Error(), At: time.Now()}
		}
		q.mu.Unlock()

		if err != nil {
			q.log.Error().Err(err).
				Str("key", rec.Key()).
				Int("attempts", attempts).
				Msg("sync: registro no persistido, queda para reconciliación")
		}
	}
}

// deliver intenta hasta MaxAttempts con timeout por intento y backoff exponencial.
func (q *Queue) deliver(rec ports.SyncRecord) (int, error) {
	var err error
	wait := q.cfg.Backoff
	for attempt := 1; attempt <= q.cfg.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), q.cfg.Timeout)
		err = q.sink.Save(ctx, rec)
		cancel()
		if err == nil {
			return attempt, nil
		}
		if attempt == q.cfg.MaxAttempts {
			return attempt, err
		}
		q.mu.Lock()
		q.retries++
		q.mu.Unlock()
		q.log.Warn().Err(err).Str("key", rec.Key()).Int("attempt", attempt).Dur("backoff", wait).Msg("sync: reintentando")
		select {
		case <-time.After(wait):
		case <-q.stop:
			return attempt, err
		}
		wait *= 2
		if wait > maxBackoff {
			wait = maxBackoff
		}
	}
	return q.cfg.MaxAttempts, err
}

// Status estado de reconciliación.
func (q *Queue) Status() ports.SyncStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return ports.SyncStatus{
		Pending:   len(q.ch),
		InFlight:  q.inFlight,
		Failed:    len(q.failed),
		Succeeded: q.succeeded,
		Retries:   q.retries,
	}
}

// Failed registros pendientes de reconciliación, del más antiguo al más nuevo.
func (q *Queue) Failed() []Failure {
	q.mu.Lock()
	out := make([]Failure, 0, len(q.failed))
	for _, f := range q.failed {
		out = append(out, f)
	}
	q.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// RetryFailed vuelve a encolar los fallidos; devuelve cuántos entraron a la cola.
func (q *Queue) RetryFailed() int {
	n := 0
	for _, f := range q.Failed() {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			break
		}
		select {
		case q.ch <- f.Record:
			delete(q.failed, f.Record.Key())
			n++
		default:
		}
		q.mu.Unlock()
	}
	return n
}

// Close deja de aceptar registros y espera a que los workers vacíen la cola.
// Si ctx vence antes, corta los backoffs en curso y devuelve ctx.Err().
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		close(q.stop)
		return ctx.Err()
	}
}

// LogSink destino que solo registra (PERSISTENCE_DRIVER=log).
type LogSink struct {
	log *logger.Logger
}

// NewLogSink construye el sink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.Component("sync-log")}
}

// Save implementa Sink.
func (s *LogSink) Save(_ context.Context, rec ports.SyncRecord) error {
	s.log.Debug().Str("kind", rec.Kind).Str("company_id", rec.CompanyID).Str("id", rec.ID).Msg("registro persistido")
	return nil
}
