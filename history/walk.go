package history

import (
	"context"
	"encoding/json"
	"fmt"
)

// MorePage is one response of the load-more endpoint.
type MorePage struct {
	HTML   string          `json:"html"`
	Cursor json.RawMessage `json:"cursor"`
}

// Source fetches history pages for one account.
type Source interface {
	// FirstPage returns the markup of the complete history page.
	FirstPage(ctx context.Context) (string, error)
	// NextPage loads the rows following cursor. A nil or empty page means
	// there is nothing more to load.
	NextPage(ctx context.Context, cursor Cursor) (*MorePage, error)
}

// Stats describes one Walk.
type Stats struct {
	Pages    int
	Rows     int
	Warnings int
}

// Walk loads every history page from src and merges their totals. Pages are
// fetched one after another since each cursor is only known once the
// previous page has been read.
//
// A failure to fetch any page, or a first page without the history table,
// aborts the walk. An unreadable cursor ends it normally.
func Walk(ctx context.Context, src Source, agg *Aggregator) (Aggregate, Stats, error) {
	var stats Stats

	markup, err := src.FirstPage(ctx)
	if err != nil {
		return Aggregate{}, stats, fmt.Errorf("fetch first history page: %w", err)
	}

	rows, err := ParseDocument(markup)
	if err != nil {
		return Aggregate{}, stats, err
	}

	total := agg.Aggregate(rows)
	stats.Pages, stats.Rows = 1, len(rows)

	cursor := ExtractCursor(markup)
	for cursor != nil {
		page, err := src.NextPage(ctx, *cursor)
		if err != nil {
			return Aggregate{}, stats, fmt.Errorf("fetch history page %d: %w", stats.Pages+1, err)
		}
		if page == nil || page.HTML == "" {
			break
		}

		rows, err := ParseFragment(page.HTML)
		if err != nil {
			return Aggregate{}, stats, err
		}

		total = total.Merge(agg.Aggregate(rows))
		stats.Pages++
		stats.Rows += len(rows)

		next := DecodeCursor(page.Cursor)
		if next != nil && *next == *cursor {
			agg.logger.Warn("history cursor did not advance, stopping", "page", stats.Pages)
			break
		}
		cursor = next
	}

	stats.Warnings = agg.Warnings()
	return total, stats, nil
}
