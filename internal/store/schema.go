package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableScores      = "scores"
	tableAttempts    = "attempts"
	tableLLMRequests = "llm_requests"
)

// builder renders SQL for the SQLite dialect.
var builder = entsql.Dialect(dialect.SQLite)

// column is a name plus its SQLite type and constraints.
type column struct {
	name, def string
}

func createTable(name string, cols ...column) entsql.Querier {
	return builder.Expr(func(b *entsql.Builder) {
		b.WriteString("CREATE TABLE IF NOT EXISTS ").Ident(name).Pad()
		b.Wrap(func(b *entsql.Builder) {
			for i, c := range cols {
				if i > 0 {
					b.Comma()
				}
				b.Ident(c.name).Pad().WriteString(c.def)
			}
		})
	})
}

func createIndex(name, table string, cols ...string) entsql.Querier {
	return builder.Expr(func(b *entsql.Builder) {
		b.WriteString("CREATE INDEX IF NOT EXISTS ").Ident(name).
			WriteString(" ON ").Ident(table).Pad()
		b.Wrap(func(b *entsql.Builder) { b.IdentComma(cols...) })
	})
}

func schema() []entsql.Querier {
	return []entsql.Querier{
		createTable(tableScores,
			column{"id", "INTEGER PRIMARY KEY AUTOINCREMENT"},
			column{"name", "TEXT NOT NULL"},
			column{"drill_id", "TEXT NOT NULL"},
			column{"score", "INTEGER NOT NULL"},
			column{"elapsed_seconds", "INTEGER NOT NULL"},
			column{"created_at", "INTEGER NOT NULL"},
		),
		createIndex("scores_drill_rank", tableScores, "drill_id", "score", "elapsed_seconds"),

		createTable(tableAttempts,
			column{"id", "TEXT PRIMARY KEY"},
			column{"sequence", "INTEGER NOT NULL"},
			column{"session_id", "TEXT NOT NULL"},
			column{"drill_id", "TEXT NOT NULL"},
			column{"player", "TEXT NOT NULL DEFAULT ''"},
			column{"family", "TEXT NOT NULL"},
			column{"question_id", "TEXT NOT NULL"},
			column{"penalty", "INTEGER NOT NULL"},
			column{"correct", "INTEGER NOT NULL"},
			column{"delta", "INTEGER NOT NULL"},
			column{"score", "INTEGER NOT NULL"},
			column{"mismatched", "TEXT NOT NULL DEFAULT '[]'"},
			column{"created_at", "INTEGER NOT NULL"},
		),
		createIndex("attempts_session", tableAttempts, "session_id"),

		createTable(tableLLMRequests,
			column{"id", "INTEGER PRIMARY KEY AUTOINCREMENT"},
			column{"sequence", "INTEGER NOT NULL"},
			column{"provider", "TEXT NOT NULL"},
			column{"model", "TEXT NOT NULL"},
			column{"purpose", "TEXT NOT NULL DEFAULT ''"},
			column{"input_tokens", "INTEGER NOT NULL DEFAULT 0"},
			column{"output_tokens", "INTEGER NOT NULL DEFAULT 0"},
			column{"latency_ms", "INTEGER NOT NULL DEFAULT 0"},
			column{"success", "INTEGER NOT NULL"},
			column{"error_message", "TEXT NOT NULL DEFAULT ''"},
			column{"request_body", "TEXT NOT NULL DEFAULT ''"},
			column{"response_body", "TEXT NOT NULL DEFAULT ''"},
			column{"created_at", "INTEGER NOT NULL"},
		),
	}
}

// migrate creates every table and index that does not exist yet.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema() {
		query, args := stmt.Query()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: %w", query, err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
