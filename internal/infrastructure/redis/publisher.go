// Package redis publica los eventos de cada tenant en su canal de Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// Channel canal de eventos del tenant.
func Channel(companyID string) string {
	return fmt.Sprintf("tenant:%s:events", companyID)
}

// Publisher implementa ports.EventPublisher con PUBLISH.
type Publisher struct {
	client *goredis.Client
}

// NewPublisher crea el cliente.
func NewPublisher(addr, password string, db int) *Publisher {
	return &Publisher{client: goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Ping verifica la conexión.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Publish serializa el evento en JSON y lo publica en el canal del tenant.
func (p *Publisher) Publish(ctx context.Context, ev entity.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis: serializar evento: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(ev.CompanyID), payload).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", ev.Kind, err)
	}
	return nil
}
