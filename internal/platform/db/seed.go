package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"review360/internal/domain/scoring"
)

// Seed ensures the named organization exists with organization-level rows for
// every evaluator level, so admins have something to edit. It returns the
// organization id.
func Seed(ctx context.Context, pool *pgxpool.Pool, orgName string, defaults scoring.Defaults) (string, error) {
	orgName = strings.TrimSpace(orgName)
	if orgName == "" {
		return "", errors.New("seed organization name is required")
	}
	orgID, err := ensureOrganization(ctx, pool, orgName)
	if err != nil {
		return "", err
	}
	if err := ensureEvaluatorWeights(ctx, pool, orgID, defaults); err != nil {
		return "", err
	}
	return orgID, nil
}

func ensureOrganization(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id::text FROM organizations WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	if err := pool.QueryRow(ctx, "INSERT INTO organizations (name) VALUES ($1) RETURNING id::text", name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureEvaluatorWeights(ctx context.Context, pool *pgxpool.Pool, orgID string, defaults scoring.Defaults) error {
	for _, level := range scoring.Levels {
		weight := defaults.EvaluatorWeight
		if level == scoring.LevelSelf {
			weight = defaults.SelfWeight
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO evaluator_weights (organization_id, position_level, weight)
      VALUES ($1, $2, $3)
      ON CONFLICT DO NOTHING
    `, orgID, level, weight); err != nil {
			return err
		}
	}
	return nil
}
