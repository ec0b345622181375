package sheet

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Store used by tests and STORE_DRIVER=memory dev runs.
// It reproduces the worksheet row semantics exactly, including delete
// shifting, and counts write operations so tests can assert that a no-op
// recomputation issued no store traffic.
type Memory struct {
	mu       sync.Mutex
	tabs     map[string][][]string
	writeOps int
}

// NewMemory returns an empty in-memory store. Seed tabs (header row included)
// before handing it to services.
func NewMemory() *Memory {
	return &Memory{tabs: make(map[string][][]string)}
}

// Seed replaces the full contents of a tab, header row included.
func (m *Memory) Seed(tab string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	m.tabs[tab] = cp
}

// WriteOps returns how many mutating store calls have been applied.
func (m *Memory) WriteOps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeOps
}

func (m *Memory) GetAllRows(_ context.Context, tab string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tabs[tab]
	if !ok {
		return nil, fmt.Errorf("tab %q does not exist", tab)
	}
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	return cp, nil
}

func (m *Memory) AppendRows(_ context.Context, tab string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tabs[tab]; !ok {
		return fmt.Errorf("tab %q does not exist", tab)
	}
	for _, r := range rows {
		m.tabs[tab] = append(m.tabs[tab], append([]string(nil), r...))
	}
	m.writeOps++
	return nil
}

func (m *Memory) UpdateRange(_ context.Context, tab string, startRow, startCol int, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, vals := range rows {
		if err := m.patchRowLocked(tab, startRow+i, startCol, vals); err != nil {
			return err
		}
	}
	m.writeOps++
	return nil
}

func (m *Memory) BatchUpdate(_ context.Context, tab string, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		if err := m.patchRowLocked(tab, u.Row, u.Col, u.Values); err != nil {
			return err
		}
	}
	m.writeOps++
	return nil
}

func (m *Memory) DeleteRows(_ context.Context, tab string, startRow, endRow int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tabs[tab]
	if !ok {
		return fmt.Errorf("tab %q does not exist", tab)
	}
	if startRow < 2 || endRow < startRow || endRow > len(rows) {
		return fmt.Errorf("tab %q: row range %d..%d out of bounds", tab, startRow, endRow)
	}
	m.tabs[tab] = append(rows[:startRow-1], rows[endRow:]...)
	m.writeOps++
	return nil
}

func (m *Memory) patchRowLocked(tab string, row, col int, vals []string) error {
	rows, ok := m.tabs[tab]
	if !ok {
		return fmt.Errorf("tab %q does not exist", tab)
	}
	if row < 1 || row > len(rows) {
		return fmt.Errorf("tab %q: row %d out of bounds", tab, row)
	}
	cells := rows[row-1]
	need := col - 1 + len(vals)
	for len(cells) < need {
		cells = append(cells, "")
	}
	copy(cells[col-1:], vals)
	rows[row-1] = cells
	return nil
}
