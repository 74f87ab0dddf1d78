package store

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/radieske/bet-tracker/internal/ledger"
)

// Dialect diferencia Postgres (placeholders $N) de SQLite (placeholders ?)
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// SQL implementa LedgerStore sobre uma tabela ledger_rows.
// A posição de cada linha é a sua ordem por id (ordem de inserção).
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQL retorna o store; chame Migrate antes do primeiro uso
func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

// Migrate cria a tabela ledger_rows se ela não existir
func (s *SQL) Migrate(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS ledger_rows (
			id        BIGSERIAL PRIMARY KEY,
			bet_date  TEXT NOT NULL,
			sport     TEXT NOT NULL,
			bet_type  TEXT NOT NULL,
			bet_line  TEXT NOT NULL DEFAULT '',
			odds      TEXT NOT NULL,
			units     DOUBLE PRECISION NOT NULL,
			result    TEXT NOT NULL,
			profit    DOUBLE PRECISION NOT NULL DEFAULT 0
		)`
	if s.dialect == DialectSQLite {
		ddl = `
		CREATE TABLE IF NOT EXISTS ledger_rows (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			bet_date  TEXT NOT NULL,
			sport     TEXT NOT NULL,
			bet_type  TEXT NOT NULL,
			bet_line  TEXT NOT NULL DEFAULT '',
			odds      TEXT NOT NULL,
			units     REAL NOT NULL,
			result    TEXT NOT NULL,
			profit    REAL NOT NULL DEFAULT 0
		)`
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return unavailable("migrate", err)
	}
	return nil
}

func (s *SQL) LoadAll(ctx context.Context) ([]ledger.Bet, error) {
	const q = `
		SELECT bet_date, sport, bet_type, bet_line, odds, units, result, profit
		FROM ledger_rows
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, unavailable("load_all", err)
	}
	defer rows.Close()

	var recs []record
	for rows.Next() {
		var r record
		if err := rows.Scan(&r.Date, &r.Sport, &r.BetType, &r.BetLine, &r.Odds, &r.Units, &r.Result, &r.Profit); err != nil {
			return nil, corrupt("scan ledger row", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("load_all", err)
	}

	return decodeRecords(recs)
}

func (s *SQL) Append(ctx context.Context, b ledger.Bet) error {
	r := toRecord(b)
	q := s.rebind(`
		INSERT INTO ledger_rows (bet_date, sport, bet_type, bet_line, odds, units, result, profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, q, r.Date, r.Sport, r.BetType, r.BetLine, r.Odds, r.Units, r.Result, r.Profit); err != nil {
		return unavailable("append", err)
	}
	return nil
}

// UpdateAt substitui o registro inteiro na posição index
func (s *SQL) UpdateAt(ctx context.Context, index int, b ledger.Bet) error {
	if index < 0 {
		return outOfRange(index)
	}
	r := toRecord(b)
	q := s.rebind(`
		UPDATE ledger_rows
		SET bet_date = ?, sport = ?, bet_type = ?, bet_line = ?, odds = ?, units = ?, result = ?, profit = ?
		WHERE id = (SELECT id FROM ledger_rows ORDER BY id LIMIT 1 OFFSET ?)`)
	res, err := s.db.ExecContext(ctx, q, r.Date, r.Sport, r.BetType, r.BetLine, r.Odds, r.Units, r.Result, r.Profit, index)
	if err != nil {
		return unavailable("update_at", err)
	}
	return checkAffected(res, index)
}

func (s *SQL) DeleteAt(ctx context.Context, index int) error {
	if index < 0 {
		return outOfRange(index)
	}
	q := s.rebind(`DELETE FROM ledger_rows WHERE id = (SELECT id FROM ledger_rows ORDER BY id LIMIT 1 OFFSET ?)`)
	res, err := s.db.ExecContext(ctx, q, index)
	if err != nil {
		return unavailable("delete_at", err)
	}
	return checkAffected(res, index)
}

func (s *SQL) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func checkAffected(res sql.Result, index int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("rows_affected", err)
	}
	if n == 0 {
		return outOfRange(index)
	}
	return nil
}

// rebind converte placeholders ? para $N quando o dialeto é Postgres
func (s *SQL) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
