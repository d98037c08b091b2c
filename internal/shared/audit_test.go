package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditLogValidation(t *testing.T) {
	assert.Error(t, AuditLog{Action: "create", Entity: "suppliers"}.validate())
	assert.NoError(t, AuditLog{Action: "create", Entity: "suppliers", EntityID: "3"}.validate())
}

func TestNilStoresAreSafe(t *testing.T) {
	var audit *AuditLogger
	assert.Error(t, audit.Record(context.Background(), AuditLog{Action: "a", Entity: "b", EntityID: "c"}))

	var idem *IdempotencyStore
	assert.Error(t, idem.CheckAndInsert(context.Background(), "k", "m"))
	assert.NoError(t, idem.Cleanup(context.Background(), 0))
	assert.NoError(t, idem.Delete(context.Background(), "k", "m"))
}
