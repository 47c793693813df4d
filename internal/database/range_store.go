package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/belphemur/opening-hours/internal/logging"
	"github.com/belphemur/opening-hours/internal/openinghours"
	appSignals "github.com/belphemur/opening-hours/internal/signals"
)

var (
	// ErrEmptyRuleName is returned when a rule has no name
	ErrEmptyRuleName = errors.New("rule name cannot be empty")
	// ErrNilDatabase is returned when a store is created without a connection
	ErrNilDatabase = errors.New("database connection is required")
)

// StoreStats counts what Save did over the store's lifetime
type StoreStats struct {
	Inserted   int64
	Duplicates int64
}

// RangeStore persists named rules as ordered lists of distinct weekday ranges
type RangeStore struct {
	db         *DB
	logger     zerolog.Logger
	inserted   atomic.Int64
	duplicates atomic.Int64
}

// NewRangeStore creates a new range store
func NewRangeStore(db *DB) (*RangeStore, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}
	return &RangeStore{db: db, logger: logging.GetLogger("range-store")}, nil
}

// Save appends to rule every range not already stored for it. Equality is
// structural: a fingerprint lookup narrows the candidates, Equal decides.
// It returns the number of inserted ranges.
func (s *RangeStore) Save(ctx context.Context, rule string, ranges []*openinghours.WeekDayRange) (int, error) {
	if rule == "" {
		return 0, ErrEmptyRuleName
	}
	// Only ranges List can rebuild are written
	for i, r := range ranges {
		if r == nil {
			return 0, fmt.Errorf("range %d of rule %q is nil: %w", i, rule, openinghours.ErrInvalidWeekDay)
		}
		if err := r.Validate(); err != nil {
			return 0, fmt.Errorf("range %d of rule %q: %w", i, rule, err)
		}
	}

	logger := s.logger.With().Str("rule", rule).Logger()
	logger.Debug().Int("ranges", len(ranges)).Msg("Saving weekday ranges")

	var stored []appSignals.RangeStoredData
	duplicates := 0
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		ruleID, err := upsertRule(ctx, tx, rule)
		if err != nil {
			return err
		}

		var next int
		if err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(position) + 1, 0) FROM weekday_ranges WHERE rule_id = ?
		`, ruleID).Scan(&next); err != nil {
			return fmt.Errorf("failed to read next position: %w", err)
		}

		for _, r := range ranges {
			fingerprint := fingerprintHex(r)
			exists, err := containsRange(ctx, tx, ruleID, fingerprint, r)
			if err != nil {
				return err
			}
			if exists {
				logger.Debug().Str("range", r.String()).Msg("Skipping duplicate weekday range")
				duplicates++
				continue
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO weekday_ranges (rule_id, position, canonical, start_day, end_day, nths, fingerprint)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, ruleID, next, r.String(), r.StartDay().String(), endDayValue(r),
				openinghours.FormatNthList(r.Nths()), fingerprint); err != nil {
				return fmt.Errorf("failed to insert weekday range %s: %w", r, err)
			}
			stored = append(stored, appSignals.RangeStoredData{Rule: rule, Canonical: r.String(), Position: next})
			next++
		}
		return nil
	})
	if err != nil {
		logger.Error().Stack().Err(err).Msg("Failed to save weekday ranges")
		return 0, fmt.Errorf("failed to save rule %q: %w", rule, err)
	}

	s.inserted.Add(int64(len(stored)))
	s.duplicates.Add(int64(duplicates))
	for _, data := range stored {
		appSignals.EmitRangeStored(ctx, data)
	}

	logger.Info().Int("inserted", len(stored)).Int("duplicates", duplicates).Msg("Weekday ranges saved")
	return len(stored), nil
}

// List returns the ranges of rule in position order; an unknown rule has none
func (s *RangeStore) List(ctx context.Context, rule string) ([]*openinghours.WeekDayRange, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT w.start_day, w.end_day, w.nths
		FROM weekday_ranges w
		JOIN rules r ON r.id = w.rule_id
		WHERE r.name = ?
		ORDER BY w.position
	`, rule)
	if err != nil {
		s.logger.Error().Err(err).Str("rule", rule).Msg("Failed to query weekday ranges")
		return nil, fmt.Errorf("failed to query weekday ranges: %w", err)
	}
	defer rows.Close()

	var ranges []*openinghours.WeekDayRange
	for rows.Next() {
		r, err := scanRange(rows)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weekday ranges: %w", err)
	}

	return ranges, nil
}

// Rules returns the stored rule names in alphabetical order
func (s *RangeStore) Rules(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `SELECT name FROM rules ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes rule and its ranges, reporting whether it existed
func (s *RangeStore) Delete(ctx context.Context, rule string) (bool, error) {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM rules WHERE name = ?`, rule)
	if err != nil {
		s.logger.Error().Err(err).Str("rule", rule).Msg("Failed to delete rule")
		return false, fmt.Errorf("failed to delete rule %q: %w", rule, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	s.logger.Info().Str("rule", rule).Bool("deleted", n > 0).Msg("Rule deleted")
	return n > 0, nil
}

// Stats returns the lifetime insert and duplicate counters
func (s *RangeStore) Stats() StoreStats {
	return StoreStats{
		Inserted:   s.inserted.Load(),
		Duplicates: s.duplicates.Load(),
	}
}

func upsertRule(ctx context.Context, tx *sql.Tx, rule string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO rules (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, rule).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert rule: %w", err)
	}
	return id, nil
}

func containsRange(ctx context.Context, tx *sql.Tx, ruleID int64, fingerprint string, r *openinghours.WeekDayRange) (bool, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT start_day, end_day, nths FROM weekday_ranges
		WHERE rule_id = ? AND fingerprint = ?
	`, ruleID, fingerprint)
	if err != nil {
		return false, fmt.Errorf("failed to look up fingerprint: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		candidate, err := scanRange(rows)
		if err != nil {
			return false, err
		}
		if candidate.Equal(r) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// scanRange rebuilds a range through the text setters so corrupt rows fail
func scanRange(rows *sql.Rows) (*openinghours.WeekDayRange, error) {
	var startDay, nths string
	var endDay sql.NullString
	if err := rows.Scan(&startDay, &endDay, &nths); err != nil {
		return nil, fmt.Errorf("failed to scan weekday range: %w", err)
	}

	r := &openinghours.WeekDayRange{}
	if err := r.SetStartDayFromText(startDay); err != nil {
		return nil, fmt.Errorf("stored start day: %w", err)
	}
	if endDay.Valid {
		if err := r.SetEndDayFromText(endDay.String); err != nil {
			return nil, fmt.Errorf("stored end day: %w", err)
		}
	}
	list, err := openinghours.ParseNthList(nths)
	if err != nil {
		return nil, fmt.Errorf("stored nths %q: %w", nths, err)
	}
	r.SetNths(list)
	return r, nil
}

func endDayValue(r *openinghours.WeekDayRange) any {
	if !r.HasEndDay() {
		return nil
	}
	return r.EndDay().String()
}

func fingerprintHex(r *openinghours.WeekDayRange) string {
	return fmt.Sprintf("%016x", r.Fingerprint())
}
