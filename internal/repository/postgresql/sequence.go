package postgresql

import (
	"context"
	"fmt"

	"github.com/tempohq/tempo-backend-go/internal/domain/timesheet"
	"github.com/tempohq/tempo-backend-go/internal/pkg/database"
)

type sequenceRepositoryImpl struct {
	db *database.DB
}

func NewSequenceRepository(db *database.DB) timesheet.SequenceRepository {
	return &sequenceRepositoryImpl{db: db}
}

// NextEntryCode allocates the next tenant-scoped entry code. The upsert
// increments a dedicated counter row atomically, so concurrent creates in
// the same company can never observe the same value.
func (r *sequenceRepositoryImpl) NextEntryCode(ctx context.Context, companyID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entry_sequences (company_id, last_value)
		VALUES ($1, 1)
		ON CONFLICT (company_id)
		DO UPDATE SET last_value = time_entry_sequences.last_value + 1
		RETURNING last_value
	`

	var lastValue int64
	if err := q.QueryRow(ctx, query, companyID).Scan(&lastValue); err != nil {
		return "", fmt.Errorf("failed to allocate entry code for company %s: %w", companyID, err)
	}

	return fmt.Sprintf("%s%04d", timesheet.EntryCodePrefix, lastValue), nil
}
