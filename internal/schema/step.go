// Package schema applies additive, idempotent schema changes to the
// tenant-shared table set. The whole bootstrap path depends on Apply being
// safely re-runnable on every process start, without a separate "have we
// migrated" flag.
package schema

import "fmt"

// Step is one additive column change. Applying the same step twice must
// not error and must not duplicate the effect.
type Step struct {
	Table   string
	Column  string
	Type    string
	Default string
}

func (s Step) Name() string {
	return fmt.Sprintf("%s.%s", s.Table, s.Column)
}

func (s Step) SQL() string {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", s.Table, s.Column, s.Type)
	if s.Default != "" {
		stmt += " DEFAULT " + s.Default
	}
	return stmt
}

// ArticleFieldSteps is the fixed, versioned step list the article table
// needs before the content store can assume its shape. Order matters only
// for the report; every step is independent.
func ArticleFieldSteps() []Step {
	return []Step{
		{Table: "articles", Column: "tracking_config", Type: "jsonb", Default: "'{}'"},
		{Table: "articles", Column: "author_name", Type: "text"},
		{Table: "articles", Column: "author_image", Type: "text"},
		{Table: "articles", Column: "display_views", Type: "integer", Default: "0"},
		{Table: "articles", Column: "display_likes", Type: "integer", Default: "0"},
	}
}
