package sheet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists tabs in the sheet_rows table (tab, row_num, cells) and
// reproduces worksheet semantics on top of it: 1-based row numbers, header at
// row 1, delete shifting subsequent rows up. The (tab, row_num) uniqueness
// constraint is deferred so the shift update cannot collide transiently.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) GetAllRows(ctx context.Context, tab string) ([][]string, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT cells FROM sheet_rows WHERE tab = $1 ORDER BY row_num", tab)
	if err != nil {
		return nil, fmt.Errorf("read tab %q: %w", tab, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scan tab %q: %w", tab, err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tab %q: %w", tab, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("tab %q does not exist", tab)
	}
	return out, nil
}

func (p *Postgres) AppendRows(ctx context.Context, tab string, newRows [][]string) error {
	if len(newRows) == 0 {
		return nil
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("append to tab %q: %w", tab, err)
	}
	defer tx.Rollback(ctx)

	var last int
	err = tx.QueryRow(ctx,
		"SELECT COALESCE(MAX(row_num), 0) FROM sheet_rows WHERE tab = $1", tab).Scan(&last)
	if err != nil {
		return fmt.Errorf("append to tab %q: %w", tab, err)
	}
	if last == 0 {
		return fmt.Errorf("tab %q does not exist", tab)
	}
	for i, cells := range newRows {
		_, err = tx.Exec(ctx,
			"INSERT INTO sheet_rows (tab, row_num, cells) VALUES ($1, $2, $3)",
			tab, last+1+i, cells)
		if err != nil {
			return fmt.Errorf("append to tab %q: %w", tab, err)
		}
	}
	return tx.Commit(ctx)
}

func (p *Postgres) UpdateRange(ctx context.Context, tab string, startRow, startCol int, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	updates := make([]CellUpdate, len(rows))
	for i, vals := range rows {
		updates[i] = CellUpdate{Row: startRow + i, Col: startCol, Values: vals}
	}
	return p.BatchUpdate(ctx, tab, updates)
}

func (p *Postgres) BatchUpdate(ctx context.Context, tab string, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("update tab %q: %w", tab, err)
	}
	defer tx.Rollback(ctx)

	for _, u := range updates {
		if err := patchRowTx(ctx, tx, tab, u); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func patchRowTx(ctx context.Context, tx pgx.Tx, tab string, u CellUpdate) error {
	var cells []string
	err := tx.QueryRow(ctx,
		"SELECT cells FROM sheet_rows WHERE tab = $1 AND row_num = $2 FOR UPDATE",
		tab, u.Row).Scan(&cells)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("tab %q: row %d out of bounds", tab, u.Row)
		}
		return fmt.Errorf("update tab %q row %d: %w", tab, u.Row, err)
	}

	need := u.Col - 1 + len(u.Values)
	for len(cells) < need {
		cells = append(cells, "")
	}
	copy(cells[u.Col-1:], u.Values)

	_, err = tx.Exec(ctx,
		"UPDATE sheet_rows SET cells = $3 WHERE tab = $1 AND row_num = $2",
		tab, u.Row, cells)
	if err != nil {
		return fmt.Errorf("update tab %q row %d: %w", tab, u.Row, err)
	}
	return nil
}

func (p *Postgres) DeleteRows(ctx context.Context, tab string, startRow, endRow int) error {
	if startRow < 2 || endRow < startRow {
		return fmt.Errorf("tab %q: row range %d..%d out of bounds", tab, startRow, endRow)
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete from tab %q: %w", tab, err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"DELETE FROM sheet_rows WHERE tab = $1 AND row_num BETWEEN $2 AND $3",
		tab, startRow, endRow)
	if err != nil {
		return fmt.Errorf("delete from tab %q: %w", tab, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tab %q: row range %d..%d out of bounds", tab, startRow, endRow)
	}

	// Shift everything after the deleted range up, keeping row numbers dense.
	_, err = tx.Exec(ctx,
		"UPDATE sheet_rows SET row_num = row_num - $3 WHERE tab = $1 AND row_num > $2",
		tab, endRow, endRow-startRow+1)
	if err != nil {
		return fmt.Errorf("delete from tab %q: %w", tab, err)
	}
	return tx.Commit(ctx)
}
