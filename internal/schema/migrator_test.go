package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeExecer behaves like a database that remembers applied DDL: a
// repeated statement fails with a duplicate-column error.
type fakeExecer struct {
	applied map[string]bool
	failOn  map[string]error
	execs   []string
}

func newFakeExecer() *fakeExecer {
	return &fakeExecer{
		applied: make(map[string]bool),
		failOn:  make(map[string]error),
	}
}

func (f *fakeExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if err, ok := f.failOn[sql]; ok {
		return pgconn.CommandTag{}, err
	}
	if f.applied[sql] {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "42701", Message: "column already exists"}
	}
	f.applied[sql] = true
	return pgconn.NewCommandTag("ALTER TABLE"), nil
}

func TestApplyReportsInStepOrder(t *testing.T) {
	db := newFakeExecer()
	m := NewMigrator(db, zap.NewNop())

	steps := ArticleFieldSteps()
	report := m.Apply(context.Background(), steps)

	require.Len(t, report, len(steps))
	for i, res := range report {
		assert.Equal(t, steps[i], res.Step)
		assert.Equal(t, OutcomeApplied, res.Outcome)
		assert.NoError(t, res.Err)
	}
	assert.False(t, report.Failed())
}

func TestApplyTwiceIsIdempotent(t *testing.T) {
	db := newFakeExecer()
	m := NewMigrator(db, zap.NewNop())
	steps := ArticleFieldSteps()

	first := m.Apply(context.Background(), steps)
	require.False(t, first.Failed())

	appliedAfterFirst := len(db.applied)

	second := m.Apply(context.Background(), steps)
	require.Len(t, second, len(steps))
	for _, res := range second {
		assert.Equal(t, OutcomeAlreadyPresent, res.Outcome)
		assert.NoError(t, res.Err, "already-present must not surface an error")
	}
	assert.False(t, second.Failed())

	// no additional DDL side effects on the re-run
	assert.Equal(t, appliedAfterFirst, len(db.applied))
}

func TestApplyContinuesPastFailures(t *testing.T) {
	db := newFakeExecer()
	steps := ArticleFieldSteps()
	db.failOn[steps[1].SQL()] = errors.New("connection reset")

	m := NewMigrator(db, zap.NewNop())
	report := m.Apply(context.Background(), steps)

	require.Len(t, report, len(steps))
	assert.Equal(t, OutcomeApplied, report[0].Outcome)
	assert.Equal(t, OutcomeFailed, report[1].Outcome)
	assert.Error(t, report[1].Err)
	for _, res := range report[2:] {
		assert.Equal(t, OutcomeApplied, res.Outcome)
	}
	assert.True(t, report.Failed())

	// the failed batch was attempted in full
	assert.Len(t, db.execs, len(steps))
}

func TestStepSQL(t *testing.T) {
	withDefault := Step{Table: "articles", Column: "display_views", Type: "integer", Default: "0"}
	assert.Equal(t, "ALTER TABLE articles ADD COLUMN display_views integer DEFAULT 0", withDefault.SQL())

	noDefault := Step{Table: "articles", Column: "author_name", Type: "text"}
	assert.Equal(t, "ALTER TABLE articles ADD COLUMN author_name text", noDefault.SQL())
	assert.Equal(t, "articles.author_name", noDefault.Name())
}

func TestReportLines(t *testing.T) {
	report := Report{
		{Step: Step{Table: "articles", Column: "a", Type: "text"}, Outcome: OutcomeApplied},
		{Step: Step{Table: "articles", Column: "b", Type: "text"}, Outcome: OutcomeAlreadyPresent},
		{Step: Step{Table: "articles", Column: "c", Type: "text"}, Outcome: OutcomeFailed, Err: errors.New("boom")},
	}

	lines := report.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "articles.a: applied", lines[0])
	assert.Equal(t, "articles.b: already-present", lines[1])
	assert.Equal(t, "articles.c: failed (boom)", lines[2])
}
