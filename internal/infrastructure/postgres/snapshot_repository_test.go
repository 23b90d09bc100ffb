package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/infrastructure/memory"
)

func TestEncodePayload(t *testing.T) {
	b, err := encodePayload(ports.SyncRecord{Kind: ports.KindSale, CompanyID: "c-1", ID: "v-1", Payload: map[string]int{"total": 10}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":10}`, string(b))

	_, err = encodePayload(ports.SyncRecord{Kind: ports.KindSale, CompanyID: "c-1"})
	assert.Error(t, err)
}

func TestNullJSON(t *testing.T) {
	assert.Nil(t, nullJSON(nil))
	assert.Equal(t, []byte(`{}`), nullJSON([]byte(`{}`)))
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: codeUniqueViolation}
	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert audit event: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no basta")))
}

func TestAuditPayload_HydratesMemoryLog(t *testing.T) {
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	store := memory.New()
	for _, ev := range []entity.AuditEvent{
		{ID: "a-1", CompanyID: "c-1", Actor: "ana", Action: entity.AuditAccessDenied, Entity: "capability", EntityID: "caixa.abrir", Reason: "module_not_granted", Timestamp: at},
		{ID: "a-2", CompanyID: "c-1", Actor: "admin", Action: "user.created", Entity: "user", EntityID: "u-9", After: []byte(`{"id":"u-9"}`), Timestamp: at.Add(time.Minute)},
		{ID: "a-3", CompanyID: "c-2", Actor: "root", Action: "company.created", Entity: "company", EntityID: "c-2", Timestamp: at},
	} {
		b, err := auditPayload(ev)
		require.NoError(t, err)
		require.NoError(t, store.Hydrate(ports.KindAudit, b))
	}

	log := store.AuditLog("c-1")
	require.Len(t, log, 2)
	assert.Equal(t, "a-1", log[0].ID)
	assert.Equal(t, "module_not_granted", log[0].Reason)
	assert.True(t, at.Equal(log[0].Timestamp))
	assert.JSONEq(t, `{"id":"u-9"}`, string(log[1].After))
}
