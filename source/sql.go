package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/etnz/snapdiff"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// isQuery reports whether a selector is a query rather than a table name.
func isQuery(selector string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(selector), " ")
	switch strings.ToUpper(first) {
	case "SELECT", "WITH", "VALUES":
		return true
	}
	return strings.ContainsAny(selector, " \t\n")
}

func openSQLite(ctx context.Context, r Ref) (*snapdiff.Table, error) {
	db, err := sql.Open("sqlite", r.Location)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := r.Selector
	if query == "" {
		// a database holding a single table needs no selector.
		var name string
		row := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
		if err := row.Scan(&name); err != nil {
			return nil, fmt.Errorf("cannot find a table: %w", err)
		}
		var count int
		if err := db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'").Scan(&count); err != nil {
			return nil, err
		}
		if count > 1 {
			return nil, fmt.Errorf("database has %d tables, select one with %s#<table>", count, r.Location)
		}
		query = name
	}
	if !isQuery(query) {
		query = "SELECT * FROM " + quoteIdent(query)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	defer rows.Close()
	return scanSQL(r.String(), rows)
}

// quoteIdent quotes an SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// scanSQL reads every row of a database/sql result set.
func scanSQL(name string, rows *sql.Rows) (*snapdiff.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	t, err := snapdiff.NewTable(name, columns...)
	if err != nil {
		return nil, err
	}
	cells := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		values := make([]snapdiff.Value, len(columns))
		for i, c := range cells {
			values[i] = snapdiff.FromAny(c)
		}
		if err := t.Append(values...); err != nil {
			return nil, err
		}
	}
	return t, rows.Err()
}

func openPostgres(ctx context.Context, r Ref) (*snapdiff.Table, error) {
	if r.Selector == "" {
		return nil, fmt.Errorf("a table or a query is required: %s#<query>", r.Location)
	}
	query := r.Selector
	if !isQuery(query) {
		query = "SELECT * FROM " + pgx.Identifier(strings.Split(query, ".")).Sanitize()
	}

	conn, err := pgx.Connect(ctx, r.Location)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}
	t, err := snapdiff.NewTable(r.String(), columns...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		cells, err := rows.Values()
		if err != nil {
			return nil, err
		}
		values := make([]snapdiff.Value, len(cells))
		for i, c := range cells {
			values[i] = pgValue(c)
		}
		if err := t.Append(values...); err != nil {
			return nil, err
		}
	}
	return t, rows.Err()
}

// pgValue converts the pgx types snapdiff.FromAny does not know.
func pgValue(v any) snapdiff.Value {
	switch x := v.(type) {
	case pgtype.Numeric:
		if !x.Valid {
			return snapdiff.Missing()
		}
		if x.NaN || x.InfinityModifier != pgtype.Finite {
			return snapdiff.Text("NaN")
		}
		if x.Int == nil {
			return snapdiff.N(0)
		}
		return snapdiff.Num(decimal.NewFromBigInt(x.Int, x.Exp))
	case [16]byte:
		return snapdiff.Text(uuid.UUID(x).String())
	default:
		return snapdiff.FromAny(v)
	}
}
