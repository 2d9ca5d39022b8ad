package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"review360/internal/platform/querier"
)

const (
	ActionCompensationRecommend = "compensation.recommend"
	ActionPeriodSnapshot        = "period.snapshot"

	EntityPeriod = "evaluation_period"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

// Entry is what a caller records; the store fills id and timestamp.
type Entry struct {
	OrganizationID string
	ActorID        string
	Action         string
	EntityType     string
	EntityID       string
	RequestID      string
	IP             string
	Before         any
	After          any
}

type Filter struct {
	Action     string
	EntityType string
	ActorUser  string
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, e Entry) error {
	beforeJSON, err := marshalOptional(e.Before)
	if err != nil {
		return fmt.Errorf("audit before payload: %w", err)
	}
	afterJSON, err := marshalOptional(e.After)
	if err != nil {
		return fmt.Errorf("audit after payload: %w", err)
	}

	var actor any
	if e.ActorID != "" {
		actor = e.ActorID
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (organization_id, actor_id, action, entity_type, entity_id, before_json, after_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, e.OrganizationID, actor, e.Action, e.EntityType, e.EntityID, beforeJSON, afterJSON, e.RequestID, e.IP)
	return err
}

func marshalOptional(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (s *Service) Count(ctx context.Context, orgID string, filter Filter) (int, error) {
	where, args := filter.where(orgID)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM audit_events"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, orgID string, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	selectCols := "id::text, COALESCE(actor_id::text, ''), action, entity_type, entity_id, request_id, ip, created_at"
	if includeDetails {
		selectCols += ", before_json, after_json"
	}
	where, args := filter.where(orgID)
	query := "SELECT " + selectCols + " FROM audit_events" + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt}
		if includeDetails {
			dest = append(dest, &evt.Before, &evt.After)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

// where renders the filter as a WHERE clause scoped to orgID. Column names
// come from a fixed table so only values are parameterised.
func (f Filter) where(orgID string) (string, []any) {
	clauses := []string{"organization_id = $1"}
	args := []any{orgID}
	for _, c := range []struct{ column, value string }{
		{"action", f.Action},
		{"entity_type", f.EntityType},
		{"actor_id::text", f.ActorUser},
	} {
		if c.value == "" {
			continue
		}
		args = append(args, c.value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", c.column, len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
