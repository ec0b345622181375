package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"orderdesk/internal/sheet"
)

// Catalog reads the status catalog tab: the controlled vocabulary of
// lifecycle labels and their per-label flags. It is re-read on every call,
// consistent with the recompute-from-source strategy used everywhere else.
type Catalog struct {
	store sheet.Store
}

func NewCatalog(store sheet.Store) *Catalog {
	return &Catalog{store: store}
}

// Options returns all catalog entries sorted by display order, then label.
func (c *Catalog) Options(ctx context.Context) ([]StatusOption, error) {
	rows, err := c.store.GetAllRows(ctx, TabStatusCatalog)
	if err != nil {
		return nil, fmt.Errorf("%w: read status catalog: %v", ErrStoreUnavailable, err)
	}

	var options []StatusOption
	for _, cells := range rows[1:] {
		opt := decodeStatusOption(cells)
		if opt.Status == "" {
			continue
		}
		options = append(options, opt)
	}
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].DisplayOrder != options[j].DisplayOrder {
			return options[i].DisplayOrder < options[j].DisplayOrder
		}
		return strings.ToLower(options[i].Status) < strings.ToLower(options[j].Status)
	})
	return options, nil
}

// Lookup finds the catalog entry for a label, case-insensitively.
func (c *Catalog) Lookup(ctx context.Context, label string) (StatusOption, bool, error) {
	options, err := c.Options(ctx)
	if err != nil {
		return StatusOption{}, false, err
	}
	for _, opt := range options {
		if strings.EqualFold(opt.Status, label) {
			return opt, true, nil
		}
	}
	return StatusOption{}, false, nil
}

// DeadlineRequired reports whether the catalog flags the label as requiring a
// deadline in days. Labels missing from the catalog require none.
func (c *Catalog) DeadlineRequired(ctx context.Context, label string) (bool, error) {
	opt, ok, err := c.Lookup(ctx, label)
	if err != nil {
		return false, err
	}
	return ok && opt.DeadlineRequired, nil
}
