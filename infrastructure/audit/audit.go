package audit

import (
	"context"
	"encoding/json"

	"github.com/uptrace/bun"

	"proptrack/models"
)

// Service writes audit records inside the caller transaction, so a
// failed mutation never leaves a stray audit row.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Write records one mutation. Pass nil for before on creates and nil
// for after on deletes.
func (s *Service) Write(ctx context.Context, tx bun.Tx, action, entityType, entityID string, before, after any) error {
	beforeJSON, err := marshal(before)
	if err != nil {
		return err
	}
	afterJSON, err := marshal(after)
	if err != nil {
		return err
	}
	log := &models.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}
	_, err = tx.NewInsert().Model(log).Exec(ctx)
	return err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
