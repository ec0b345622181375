// Package sheet is the boundary to the tabular record store the order desk
// persists into. A store holds named tabs; each tab is an ordered list of rows
// of text cells. Rows are addressed 1-based and row 1 is reserved for the
// header, mirroring worksheet conventions. Deleting a row range shifts every
// subsequent row index down, so callers deleting several ranges must process
// them highest-index-first (see ConsecutiveRuns).
package sheet

import (
	"context"
	"sort"
)

// Store is the record-store client injected into every service. Implementations
// must be safe for use from a single writer at a time per tab; no stronger
// concurrency guarantee is offered.
type Store interface {
	// GetAllRows returns every row of the tab including the header row.
	GetAllRows(ctx context.Context, tab string) ([][]string, error)

	// AppendRows adds rows after the current last row of the tab.
	AppendRows(ctx context.Context, tab string, rows [][]string) error

	// UpdateRange overwrites cells starting at (startRow, startCol), both
	// 1-based. rows[i] is written left to right into row startRow+i; cells
	// outside the written range are left untouched.
	UpdateRange(ctx context.Context, tab string, startRow, startCol int, rows [][]string) error

	// BatchUpdate applies several independent cell-range writes in one store
	// round trip. Each update writes update.Values left to right starting at
	// (update.Row, update.Col).
	BatchUpdate(ctx context.Context, tab string, updates []CellUpdate) error

	// DeleteRows removes rows startRow..endRow inclusive and shifts all
	// subsequent rows up.
	DeleteRows(ctx context.Context, tab string, startRow, endRow int) error
}

// CellUpdate is one horizontal cell-range write within a BatchUpdate call.
type CellUpdate struct {
	Row    int // 1-based row
	Col    int // 1-based column of the first value
	Values []string
}

// Run is an inclusive range of consecutive row indices.
type Run struct {
	Start int
	End   int
}

// ConsecutiveRuns groups row indices into inclusive runs of consecutive
// numbers, e.g. [2 3 4 7 8] -> [{2 4} {7 8}]. Input order does not matter and
// duplicates are ignored. Callers deleting the runs must iterate the result in
// reverse so earlier deletions do not shift the indices of later ones.
func ConsecutiveRuns(indices []int) []Run {
	if len(indices) == 0 {
		return nil
	}
	uniq := make([]int, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if !seen[i] {
			seen[i] = true
			uniq = append(uniq, i)
		}
	}
	sort.Ints(uniq)

	runs := []Run{{Start: uniq[0], End: uniq[0]}}
	for _, i := range uniq[1:] {
		last := &runs[len(runs)-1]
		if i == last.End+1 {
			last.End = i
			continue
		}
		runs = append(runs, Run{Start: i, End: i})
	}
	return runs
}

// Cell returns cells[i] or "" when the row is shorter than i+1, so ragged rows
// read as blank-padded.
func Cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}
