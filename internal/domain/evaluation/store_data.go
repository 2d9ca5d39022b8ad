package evaluation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"review360/internal/domain/scoring"
)

func (s *Store) Period(ctx context.Context, orgID, periodID string) (Period, error) {
	var p Period
	var snapshotted *time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT p.id::text, p.organization_id::text, p.name, p.start_date, p.end_date, ps.snapshotted_at
    FROM evaluation_periods p
    LEFT JOIN period_snapshots ps ON ps.period_id = p.id
    WHERE p.organization_id = $1 AND p.id = $2
  `, orgID, periodID).Scan(&p.ID, &p.OrganizationID, &p.Name, &p.StartDate, &p.EndDate, &snapshotted)
	if err != nil {
		return Period{}, classify(err, "evaluation period")
	}
	p.SnapshottedAt = snapshotted
	return p, nil
}

func (s *Store) ListCompletedAssignments(ctx context.Context, periodID, targetID string) ([]scoring.Assignment, error) {
	query := `
    SELECT a.id::text, a.period_id::text, a.evaluator_id::text, a.target_id::text, a.status, a.completed_at,
           COALESCE(ev.position_level, ''), t.name, COALESCE(t.department, ''), COALESCE(t.manager_id::text, '')
    FROM evaluation_assignments a
    JOIN users ev ON ev.id = a.evaluator_id
    JOIN users t ON t.id = a.target_id
    WHERE a.period_id = $1 AND a.status = $2
  `
	args := []any{periodID, scoring.AssignmentStatusCompleted}
	if targetID != "" {
		query += " AND a.target_id = $3"
		args = append(args, targetID)
	}
	query += " ORDER BY t.name, a.target_id, a.id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "evaluation assignments")
	}
	defer rows.Close()

	var out []scoring.Assignment
	for rows.Next() {
		var a scoring.Assignment
		if err := rows.Scan(&a.ID, &a.PeriodID, &a.EvaluatorID, &a.TargetID, &a.Status, &a.CompletedAt,
			&a.EvaluatorLevel, &a.TargetName, &a.Department, &a.ManagerID); err != nil {
			return nil, classify(err, "evaluation assignments")
		}
		out = append(out, a)
	}
	return out, classify(rows.Err(), "evaluation assignments")
}

func (s *Store) ListResponses(ctx context.Context, assignmentIDs []string) ([]scoring.Response, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT assignment_id::text, COALESCE(question_id::text, ''), COALESCE(category, ''), COALESCE(category_id::text, ''),
           std_score::float8, reel_score::float8
    FROM evaluation_responses
    WHERE assignment_id = ANY($1::uuid[])
    ORDER BY assignment_id, created_at, id
  `, assignmentIDs)
	if err != nil {
		return nil, classify(err, "evaluation responses")
	}
	defer rows.Close()

	var out []scoring.Response
	for rows.Next() {
		var r scoring.Response
		if err := rows.Scan(&r.AssignmentID, &r.QuestionID, &r.CategoryName, &r.CategoryID, &r.StdScore, &r.ReelScore); err != nil {
			return nil, classify(err, "evaluation responses")
		}
		out = append(out, r)
	}
	return out, classify(rows.Err(), "evaluation responses")
}

// CategoryCatalog maps questions and categories to their main category name.
func (s *Store) CategoryCatalog(ctx context.Context, orgID string) (scoring.Catalog, error) {
	catalog := scoring.Catalog{ByQuestion: map[string]string{}, ByID: map[string]string{}}

	rows, err := s.DB.Query(ctx, `
    SELECT c.id::text, COALESCE(q.id::text, ''), COALESCE(m.name, c.name)
    FROM categories c
    LEFT JOIN main_categories m ON m.id = c.main_category_id
    LEFT JOIN questions q ON q.category_id = c.id
    WHERE c.organization_id = $1 OR c.organization_id IS NULL
  `, orgID)
	if err != nil {
		return scoring.Catalog{}, classify(err, "category catalog")
	}
	defer rows.Close()

	for rows.Next() {
		var categoryID, questionID, name string
		if err := rows.Scan(&categoryID, &questionID, &name); err != nil {
			return scoring.Catalog{}, classify(err, "category catalog")
		}
		catalog.ByID[categoryID] = name
		if questionID != "" {
			catalog.ByQuestion[questionID] = name
		}
	}
	return catalog, classify(rows.Err(), "category catalog")
}

func (s *Store) CategoryLabels(ctx context.Context, orgID, lang string) (map[string]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT ON (COALESCE(m.name, c.name)) COALESCE(m.name, c.name), t.label
    FROM category_translations t
    JOIN categories c ON c.id = t.category_id
    LEFT JOIN main_categories m ON m.id = c.main_category_id
    WHERE t.lang = $2 AND (c.organization_id = $1 OR c.organization_id IS NULL)
    ORDER BY COALESCE(m.name, c.name), c.organization_id NULLS LAST
  `, orgID, lang)
	if err != nil {
		return nil, classify(err, "category labels")
	}
	defer rows.Close()

	labels := map[string]string{}
	for rows.Next() {
		var name, label string
		if err := rows.Scan(&name, &label); err != nil {
			return nil, classify(err, "category labels")
		}
		labels[name] = label
	}
	return labels, classify(rows.Err(), "category labels")
}

func (s *Store) SystemTier(ctx context.Context) (scoring.Tier, error) {
	return s.scopedTier(ctx, "organization_id IS NULL")
}

func (s *Store) OrganizationTier(ctx context.Context, orgID string) (scoring.Tier, error) {
	return s.scopedTier(ctx, "organization_id = $1", orgID)
}

func (s *Store) scopedTier(ctx context.Context, where string, args ...any) (scoring.Tier, error) {
	tier := scoring.Tier{}
	var err error

	tier.EvaluatorWeights, err = s.weights(ctx, "SELECT position_level, weight::float8 FROM evaluator_weights WHERE "+where, args...)
	if err != nil {
		return scoring.Tier{}, classify(err, "evaluator weights")
	}
	tier.CategoryWeights, err = s.weights(ctx, "SELECT category_name, weight::float8 FROM category_weights WHERE "+where, args...)
	if err != nil {
		return scoring.Tier{}, classify(err, "category weights")
	}

	var minHigh int
	err = s.DB.QueryRow(ctx, "SELECT min_high_confidence_evaluator_count FROM confidence_settings WHERE "+where+" ORDER BY id LIMIT 1", args...).Scan(&minHigh)
	switch {
	case err == nil:
		tier.Confidence = &scoring.ConfidenceSettings{MinHighConfidenceEvaluatorCount: minHigh}
	case !errors.Is(err, pgx.ErrNoRows):
		return scoring.Tier{}, classify(err, "confidence settings")
	}

	var d scoring.DeviationSettings
	err = s.DB.QueryRow(ctx, `
    SELECT lenient_diff_threshold::float8, harsh_diff_threshold::float8, lenient_multiplier::float8, harsh_multiplier::float8
    FROM deviation_settings WHERE `+where+" ORDER BY id LIMIT 1", args...).Scan(&d.LenientDiffThreshold, &d.HarshDiffThreshold, &d.LenientMultiplier, &d.HarshMultiplier)
	switch {
	case err == nil:
		tier.Deviation = &d
	case !errors.Is(err, pgx.ErrNoRows):
		return scoring.Tier{}, classify(err, "deviation settings")
	}
	return tier, nil
}

func (s *Store) weights(ctx context.Context, query string, args ...any) (map[string]float64, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var key string
		var weight float64
		if err := rows.Scan(&key, &weight); err != nil {
			return nil, err
		}
		out[key] = weight
	}
	return out, rows.Err()
}

func (s *Store) PeriodSnapshot(ctx context.Context, orgID, periodID string) (scoring.Tier, bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM period_snapshots WHERE organization_id = $1 AND period_id = $2", orgID, periodID).Scan(&count); err != nil {
		return scoring.Tier{}, false, classify(err, "period snapshot")
	}
	if count == 0 {
		return scoring.Tier{}, false, nil
	}

	tier := scoring.Tier{}
	var err error
	tier.EvaluatorWeights, err = s.weights(ctx, "SELECT position_level, weight::float8 FROM period_evaluator_weights WHERE period_id = $1", periodID)
	if err != nil {
		return scoring.Tier{}, false, classify(err, "period evaluator weights")
	}
	tier.CategoryWeights, err = s.weights(ctx, "SELECT category_name, weight::float8 FROM period_category_weights WHERE period_id = $1", periodID)
	if err != nil {
		return scoring.Tier{}, false, classify(err, "period category weights")
	}

	var c scoring.ConfidenceSettings
	var d scoring.DeviationSettings
	err = s.DB.QueryRow(ctx, `
    SELECT min_high_confidence_evaluator_count, lenient_diff_threshold::float8, harsh_diff_threshold::float8,
           lenient_multiplier::float8, harsh_multiplier::float8
    FROM period_settings WHERE period_id = $1
  `, periodID).Scan(&c.MinHighConfidenceEvaluatorCount, &d.LenientDiffThreshold, &d.HarshDiffThreshold, &d.LenientMultiplier, &d.HarshMultiplier)
	switch {
	case err == nil:
		tier.Confidence = &c
		tier.Deviation = &d
	case !errors.Is(err, pgx.ErrNoRows):
		return scoring.Tier{}, false, classify(err, "period settings")
	}
	return tier, true, nil
}

// SnapshotPeriod replaces the period's frozen coefficients in one transaction.
func (s *Store) SnapshotPeriod(ctx context.Context, orgID, periodID string, coeffs scoring.Coefficients) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return classify(err, "period snapshot")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO period_snapshots (period_id, organization_id, snapshotted_at)
    VALUES ($1, $2, now())
    ON CONFLICT (period_id) DO UPDATE SET snapshotted_at = now()
  `, periodID, orgID); err != nil {
		return classify(err, "period snapshot")
	}
	for _, table := range []string{"period_evaluator_weights", "period_category_weights"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE period_id = $1", periodID); err != nil {
			return classify(err, "period snapshot")
		}
	}
	for level, w := range coeffs.EvaluatorWeights {
		if _, err := tx.Exec(ctx, "INSERT INTO period_evaluator_weights (period_id, position_level, weight) VALUES ($1, $2, $3)", periodID, level, w); err != nil {
			return classify(err, "period snapshot")
		}
	}
	for name, w := range coeffs.CategoryWeights {
		if _, err := tx.Exec(ctx, "INSERT INTO period_category_weights (period_id, category_name, weight) VALUES ($1, $2, $3)", periodID, name, w); err != nil {
			return classify(err, "period snapshot")
		}
	}
	d := coeffs.Deviation
	if _, err := tx.Exec(ctx, `
    INSERT INTO period_settings (period_id, min_high_confidence_evaluator_count, lenient_diff_threshold, harsh_diff_threshold, lenient_multiplier, harsh_multiplier)
    VALUES ($1, $2, $3, $4, $5, $6)
    ON CONFLICT (period_id) DO UPDATE SET
      min_high_confidence_evaluator_count = EXCLUDED.min_high_confidence_evaluator_count,
      lenient_diff_threshold = EXCLUDED.lenient_diff_threshold,
      harsh_diff_threshold = EXCLUDED.harsh_diff_threshold,
      lenient_multiplier = EXCLUDED.lenient_multiplier,
      harsh_multiplier = EXCLUDED.harsh_multiplier
  `, periodID, coeffs.Confidence.MinHighConfidenceEvaluatorCount, d.LenientDiffThreshold, d.HarshDiffThreshold, d.LenientMultiplier, d.HarshMultiplier); err != nil {
		return classify(err, "period snapshot")
	}

	return classify(tx.Commit(ctx), "period snapshot")
}
