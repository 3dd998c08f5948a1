package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"pressroom/pkg/metrics"
)

type Outcome string

const (
	OutcomeApplied        Outcome = "applied"
	OutcomeAlreadyPresent Outcome = "already-present"
	OutcomeFailed         Outcome = "failed"
)

type StepResult struct {
	Step    Step
	Outcome Outcome
	Err     error
}

// Report is the ordered per-step outcome of one Apply run.
type Report []StepResult

// Failed reports whether any step hit a real error. already-present is
// success by definition.
func (r Report) Failed() bool {
	for _, res := range r {
		if res.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

func (r Report) Lines() []string {
	lines := make([]string, len(r))
	for i, res := range r {
		if res.Err != nil && res.Outcome == OutcomeFailed {
			lines[i] = fmt.Sprintf("%s: %s (%v)", res.Step.Name(), res.Outcome, res.Err)
			continue
		}
		lines[i] = fmt.Sprintf("%s: %s", res.Step.Name(), res.Outcome)
	}
	return lines
}

// Execer is the single persistence call the migrator needs. *pgxpool.Pool
// satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Migrator struct {
	db     Execer
	logger *zap.Logger
}

func NewMigrator(db Execer, logger *zap.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// Apply runs every step in order and classifies each outcome. No
// transaction wraps the batch: each step is independently atomic, and a
// re-run after a partial failure collapses already-applied steps to
// already-present. A failed step never stops the remaining steps.
func (m *Migrator) Apply(ctx context.Context, steps []Step) Report {
	report := make(Report, 0, len(steps))

	for _, step := range steps {
		_, err := m.db.Exec(ctx, step.SQL())
		outcome := Classify(err)
		metrics.IncrementMigrationStep(string(outcome))

		switch outcome {
		case OutcomeApplied:
			m.logger.Info("migration step applied",
				zap.String("step", step.Name()))
		case OutcomeAlreadyPresent:
			m.logger.Debug("migration step already present",
				zap.String("step", step.Name()))
			err = nil
		case OutcomeFailed:
			m.logger.Error("migration step failed",
				zap.String("step", step.Name()),
				zap.Error(err))
		}

		report = append(report, StepResult{Step: step, Outcome: outcome, Err: err})
	}

	return report
}

// Bootstrap creates the base tables the steps and repositories assume.
// Every statement is IF NOT EXISTS, so it shares Apply's re-run safety.
func (m *Migrator) Bootstrap(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sites (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			id SERIAL PRIMARY KEY,
			site_id INTEGER NOT NULL REFERENCES sites(id),
			slug TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			widgets JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (site_id, slug)
		)`,
		`CREATE TABLE IF NOT EXISTS subscribers (
			site_id INTEGER NOT NULL REFERENCES sites(id),
			email TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			unsubscribed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (site_id, email)
		)`,
		`CREATE TABLE IF NOT EXISTS admin_users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'admin',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := m.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap tables: %w", err)
		}
	}
	return nil
}
