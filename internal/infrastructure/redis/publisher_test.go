package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/infrastructure/redis"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "tenant:c-1:events", redis.Channel("c-1"))
}

func TestPublish_UnreachableServerReturnsError(t *testing.T) {
	p := redis.NewPublisher("127.0.0.1:1", "", 0)
	defer p.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := p.Publish(ctx, entity.Event{CompanyID: "c-1", Kind: "sale.finalized"})
	assert.ErrorContains(t, err, "redis: publish sale.finalized")
}
