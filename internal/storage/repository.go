package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

// Repository archives broadcast alerts. It is a durability collaborator of
// the pipeline, not part of the core: the in-memory history ring stays
// authoritative and the archive mirrors whatever was broadcast.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ArchiveAlert(ctx context.Context, alert contracts.Alert) error {
	disruption, err := json.Marshal(alert.Disruption)
	if err != nil {
		return fmt.Errorf("marshal disruption: %w", err)
	}
	plan, err := json.Marshal(alert.Plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	stakeholders, err := json.Marshal(alert.Stakeholders)
	if err != nil {
		return fmt.Errorf("marshal stakeholders: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
        INSERT INTO alert_archive
            (id, identity, disruption, plan, severity, stakeholders, status, notifications_sent, created_at, resolved_at)
        VALUES
            ($1, $2, $3::jsonb, $4::jsonb, $5, $6::jsonb, $7, $8, $9, $10)
        ON CONFLICT (id) DO NOTHING
    `, alert.ID, alert.Identity, string(disruption), string(plan), alert.Severity,
		string(stakeholders), alert.Status, alert.NotificationsSent, alert.CreatedAt, nullableTime(alert.ResolvedAt))
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}

	return nil
}

func (r *Repository) GetAlert(ctx context.Context, id string) (contracts.Alert, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, identity, disruption, plan, severity, stakeholders, status, notifications_sent, created_at, COALESCE(resolved_at, 'epoch'::timestamptz)
        FROM alert_archive
        WHERE id = $1
    `, id)

	alert, err := scanAlert(row)
	if err != nil {
		return contracts.Alert{}, fmt.Errorf("get alert: %w", err)
	}
	return alert, nil
}

func (r *Repository) ListAlerts(ctx context.Context, severity string, limit int) ([]contracts.Alert, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, identity, disruption, plan, severity, stakeholders, status, notifications_sent, created_at, COALESCE(resolved_at, 'epoch'::timestamptz)
        FROM alert_archive
        WHERE ($1 = '' OR severity = $1)
        ORDER BY created_at DESC
        LIMIT $2
    `, severity, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]contracts.Alert, 0, limit)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}

func (r *Repository) UpdateAlertStatus(ctx context.Context, id string, status contracts.AlertStatus) error {
	cmd, err := r.pool.Exec(ctx, `
        UPDATE alert_archive
        SET status = $2,
            resolved_at = CASE WHEN $2 = 'resolved' THEN NOW() ELSE resolved_at END
        WHERE id = $1
    `, id, status)
	if err != nil {
		return fmt.Errorf("update alert status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAlert(row pgx.Row) (contracts.Alert, error) {
	var alert contracts.Alert
	var disruptionRaw, planRaw, stakeholdersRaw []byte
	var resolvedAt time.Time

	if err := row.Scan(
		&alert.ID,
		&alert.Identity,
		&disruptionRaw,
		&planRaw,
		&alert.Severity,
		&stakeholdersRaw,
		&alert.Status,
		&alert.NotificationsSent,
		&alert.CreatedAt,
		&resolvedAt,
	); err != nil {
		return contracts.Alert{}, err
	}

	if err := json.Unmarshal(disruptionRaw, &alert.Disruption); err != nil {
		return contracts.Alert{}, fmt.Errorf("unmarshal disruption: %w", err)
	}
	if err := json.Unmarshal(planRaw, &alert.Plan); err != nil {
		return contracts.Alert{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	_ = json.Unmarshal(stakeholdersRaw, &alert.Stakeholders)
	alert.RecommendedActions = alert.Plan.AlternativeRoutes

	if resolvedAt.Unix() > 0 {
		alert.ResolvedAt = resolvedAt
	}
	return alert, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
