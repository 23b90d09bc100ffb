package audit_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/infrastructure/audit"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

type recorder struct {
	err  error
	seen []string
}

func (r *recorder) Record(_ context.Context, ev entity.AuditEvent) error {
	r.seen = append(r.seen, ev.Action)
	return r.err
}

func TestComposite_PrimaryErrorReturnedSecondaryLogged(t *testing.T) {
	primary, secondary := &recorder{}, &recorder{err: errors.New("pg down")}
	c := audit.NewComposite(logger.Nop(), primary, secondary)

	assert.NoError(t, c.Record(context.Background(), entity.AuditEvent{Action: "sale.finalize"}))
	assert.Equal(t, []string{"sale.finalize"}, secondary.seen)

	primary.err = errors.New("memoria")
	assert.EqualError(t, c.Record(context.Background(), entity.AuditEvent{Action: "cash.open"}), "memoria")
	assert.Len(t, secondary.seen, 2)
}

func TestZerolog_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	z := audit.NewZerolog(logger.New(logger.Config{Env: "production", Output: &buf}))
	err := z.Record(context.Background(), entity.AuditEvent{CompanyID: "c-1", Action: entity.AuditAccessDenied, EntityID: "caixa.abrir"})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"entity_id":"caixa.abrir"`)
	assert.Contains(t, buf.String(), `"component":"audit"`)
}
