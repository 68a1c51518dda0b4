// Package query serves large transaction collections to table UIs one page at
// a time: server-side filter composition, opaque cursors bound to the
// filter/sort that produced them, and a per-view loading state machine.
// Page results are deliberately not cached; only aggregates are.
package query

import (
	"context"
	"log/slog"

	"github.com/clubledger/backend/internal/common/utils"
	"github.com/clubledger/backend/internal/domain/transaction"
)

// Recognized filter keys. Anything else in the incoming filter map is
// ignored rather than erroring.
const (
	FilterStatus        = "status"
	FilterStartDate     = "startDate"
	FilterEndDate       = "endDate"
	FilterSearch        = "search"
	FilterProjectID     = "projectId"
	FilterBankAccountID = "bankAccountId"
	FilterCategory      = "category"
)

// Page is one slice of a paginated query as served to presentation code.
// Total is best-effort: the backing store cannot cheaply count under filter
// expressions, so it stays nil rather than being wrong.
type Page struct {
	Items      []transaction.Transaction `json:"items"`
	NextCursor string                    `json:"nextCursor,omitempty"`
	HasMore    bool                      `json:"hasMore"`
	Total      *int                      `json:"total,omitempty"`
}

// Pager is the paginated query facade over the transaction store
type Pager struct {
	repo            transaction.Repository
	logger          *slog.Logger
	defaultPageSize int
	maxPageSize     int
}

// NewPager creates a pager with the given page size bounds
func NewPager(repo transaction.Repository, logger *slog.Logger, defaultPageSize, maxPageSize int) *Pager {
	return &Pager{
		repo:            repo,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// ParseFilters converts a raw filter map into a typed filter, dropping
// unrecognized keys and malformed values silently. A dropped filter is never
// fatal; the worst outcome is a broader result set.
func (p *Pager) ParseFilters(raw map[string]string) *transaction.Filter {
	filter := &transaction.Filter{}
	for key, value := range raw {
		if value == "" {
			continue
		}
		switch key {
		case FilterStatus:
			if status := transaction.Status(value); transaction.ValidStatus(status) {
				filter.Status = status
			} else {
				p.logger.Info("dropping malformed status filter", "value", value)
			}
		case FilterStartDate:
			if utils.ValidateISODate(value) == nil {
				filter.StartDate = value
			} else {
				p.logger.Info("dropping malformed startDate filter", "value", value)
			}
		case FilterEndDate:
			if utils.ValidateISODate(value) == nil {
				filter.EndDate = value
			} else {
				p.logger.Info("dropping malformed endDate filter", "value", value)
			}
		case FilterSearch:
			filter.Search = value
		case FilterProjectID:
			filter.ProjectID = value
		case FilterBankAccountID:
			filter.BankAccountID = value
		case FilterCategory:
			filter.Category = value
		default:
			p.logger.Info("ignoring unrecognized filter key", "key", key)
		}
	}
	return filter
}

// FetchPage returns one page of transactions. A cursor is honored only when
// its signature matches the current filter/sort combination; a cursor issued
// under different filters silently resets to the first page instead of
// surfacing an error.
func (p *Pager) FetchPage(
	ctx context.Context,
	bookID string,
	filter *transaction.Filter,
	sort transaction.Sort,
	pageSize int,
	cursorToken string,
) (*Page, error) {
	if pageSize <= 0 {
		pageSize = p.defaultPageSize
	}
	if pageSize > p.maxPageSize {
		pageSize = p.maxPageSize
	}
	if sort.Field == "" {
		sort = transaction.DefaultSort()
	}

	sig := Signature(filter, sort)

	startKey := ""
	if cursorToken != "" {
		cursor, err := Decode(cursorToken)
		switch {
		case err != nil:
			p.logger.Info("malformed cursor, resetting to first page", "error", err)
		case cursor.Signature != sig:
			p.logger.Info("stale cursor for changed filters, resetting to first page")
		default:
			startKey = cursor.StartKey
		}
	}

	result, err := p.repo.Page(ctx, bookID, filter, sort, pageSize, startKey)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Items:   result.Items,
		HasMore: result.HasMore,
	}
	if result.HasMore && result.LastKey != "" {
		page.NextCursor = Encode(Cursor{StartKey: result.LastKey, Signature: sig})
	}
	return page, nil
}
