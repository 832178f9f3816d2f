package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	"github.com/hoteliq/billing_backend/internal/utils/pagination"
)

type PgxWebhookRepository struct {
	BaseRepository
}

// newPgxWebhookRepository creates a new repository for the webhook audit log.
func newPgxWebhookRepository(pool *pgxpool.Pool) portsrepo.WebhookRepositoryFacade {
	return &PgxWebhookRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WebhookRepositoryFacade = (*PgxWebhookRepository)(nil)

const webhookColumns = `webhook_event_id, source, event_type, payload, status, processed_at, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanWebhookEvent(row pgx.Row) (domain.WebhookEvent, error) {
	var e domain.WebhookEvent
	err := row.Scan(
		&e.WebhookEventID,
		&e.Source,
		&e.EventType,
		&e.Payload,
		&e.Status,
		&e.ProcessedAt,
		&e.Notes,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

func (r *PgxWebhookRepository) SaveWebhookEvent(ctx context.Context, event domain.WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (` + webhookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		event.WebhookEventID,
		event.Source,
		event.EventType,
		event.Payload,
		event.Status,
		event.ProcessedAt,
		event.Notes,
		event.CreatedAt,
		event.CreatedBy,
		event.LastUpdatedAt,
		event.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert webhook event "+event.WebhookEventID, err)
	}
	return nil
}

func (r *PgxWebhookRepository) FindWebhookEventByID(ctx context.Context, eventID string) (*domain.WebhookEvent, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhook_events WHERE webhook_event_id = $1;`
	event, err := scanWebhookEvent(r.Pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find webhook event by ID "+eventID, err)
	}
	return &event, nil
}

func (r *PgxWebhookRepository) ListWebhookEvents(ctx context.Context, source *domain.WebhookSource, limit int, nextToken *string) ([]domain.WebhookEvent, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + webhookColumns + ` FROM webhook_events`
	conditions := ""
	args := []interface{}{}
	if source != nil {
		args = append(args, *source)
		conditions = ` WHERE source = $1`
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		connector := ` WHERE `
		if conditions != "" {
			connector = ` AND `
		}
		conditions += connector + `(created_at, webhook_event_id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + conditions + ` ORDER BY created_at DESC, webhook_event_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query webhook events", err)
	}
	defer rows.Close()

	events := []domain.WebhookEvent{}
	for rows.Next() {
		e, err := scanWebhookEvent(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan webhook event row", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating webhook event rows", err)
	}

	var next *string
	if len(events) > limit {
		events = events[:limit]
		last := events[len(events)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.WebhookEventID)
		next = &token
	}
	return events, next, nil
}
