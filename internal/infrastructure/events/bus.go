// Package events reparte en proceso los eventos de mutaciones ya confirmadas.
package events

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

// AllKinds suscripción a todos los eventos.
const AllKinds = "*"

// Handler observador de eventos. Corre en la goroutine del publicador.
type Handler func(ctx context.Context, ev entity.Event)

// Bus observador en memoria.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
	log    *logger.Logger
}

// NewBus crea el bus.
func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{subs: map[string]map[int]Handler{}, log: log.Component("events")}
}

// Subscribe registra h para kind (o AllKinds) y devuelve la función para darse de baja.
func (b *Bus) Subscribe(kind string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.subs[kind] == nil {
		b.subs[kind] = map[int]Handler{}
	}
	b.subs[kind][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[kind], id)
	}
}

// Publish implementa ports.EventPublisher. Un observador que entra en pánico no afecta a los demás.
func (b *Bus) Publish(ctx context.Context, ev entity.Event) error {
	for _, h := range b.handlers(ev.Kind) {
		b.call(ctx, h, ev)
	}
	return nil
}

func (b *Bus) handlers(kind string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	type entry struct {
		id int
		h  Handler
	}
	var list []entry
	for _, k := range []string{kind, AllKinds} {
		for id, h := range b.subs[k] {
			list = append(list, entry{id, h})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })
	out := make([]Handler, len(list))
	for i, e := range list {
		out[i] = e.h
	}
	return out
}

func (b *Bus) call(ctx context.Context, h Handler, ev entity.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Str("kind", ev.Kind).Msg("events: observador falló")
		}
	}()
	h(ctx, ev)
}

// Fanout publica en todos los destinos; un destino caído no impide los demás.
type Fanout []ports.EventPublisher

// Publish implementa ports.EventPublisher.
func (f Fanout) Publish(ctx context.Context, ev entity.Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
