package interaction

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadFromPG reads all active rows from the drug_interaction table into an
// immutable in-memory repository. The table is small (reference data), so
// the whole thing is held in memory and shared lock-free; a process restart
// picks up edits.
func LoadFromPG(ctx context.Context, pool *pgxpool.Pool) (Repository, int, error) {
	rows, err := pool.Query(ctx, `
		SELECT drug_a, drug_b, severity, description, mechanism, management,
			separation_hours, monitoring_required, avoid_combination
		FROM drug_interaction WHERE active = TRUE`)
	if err != nil {
		return nil, 0, fmt.Errorf("query drug_interaction: %w", err)
	}
	defer rows.Close()

	var interactions []DrugInteraction
	for rows.Next() {
		var in DrugInteraction
		var sev string
		if err := rows.Scan(&in.DrugA, &in.DrugB, &sev, &in.Description,
			&in.Mechanism, &in.Management, &in.SeparationHours,
			&in.MonitoringRequired, &in.AvoidCombination); err != nil {
			return nil, 0, fmt.Errorf("scan drug_interaction: %w", err)
		}
		parsed, err := ParseSeverity(sev)
		if err != nil {
			return nil, 0, fmt.Errorf("row %s+%s: %w", in.DrugA, in.DrugB, err)
		}
		in.Severity = parsed
		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return NewStaticRepository(interactions), len(interactions), nil
}
