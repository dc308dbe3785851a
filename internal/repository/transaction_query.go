package repository

import (
	"strconv"
	"strings"
	"time"

	"go-construction-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TypeFilters selects which movement types a listing includes. A filter
// with both sides off means "no results", not "all results"; the service
// short-circuits that case before the store is touched.
type TypeFilters struct {
	Deposits    bool `json:"deposits"`
	Withdrawals bool `json:"withdrawals"`
}

func (tf TypeFilters) types() []model.TransactionType {
	var types []model.TransactionType
	if tf.Deposits {
		types = append(types, model.TxDeposit)
	}
	if tf.Withdrawals {
		types = append(types, model.TxWithdrawal)
	}
	return types
}

// DateRange bounds the business date, inclusive on both ends. A nil side
// leaves that end open.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// ListFilters is the full caller-supplied filter set for a transaction
// listing. Everything is AND'd together; only the type set and the search
// term expand to internal ORs.
type ListFilters struct {
	TransactionOrigin model.Origin
	BankID            *uuid.UUID
	SiteID            *uuid.UUID
	Category          model.Category
	SubCategory       string
	TypeFilters       *TypeFilters
	SearchTerm        string
	DateRange         *DateRange
	PendingOnly       bool
	Page              int
	PageSize          int
	SortBy            string
	SortDirection     string
}

// sortFieldMap remaps caller-facing sort names onto columns. Sorting by
// deposits or withdrawals actually sorts by (type, amount) since the
// display columns are derived from those two.
var sortFieldMap = map[string][]string{
	"concept":        {"concept"},
	"check":          {"check_number"},
	"key":            {"key"},
	"deposits":       {"type", "amount"},
	"withdrawals":    {"type", "amount"},
	"amount":         {"amount"},
	"status":         {"status"},
	"bankName":       {"bank_name"},
	"bank":           {"bank_id"},
	"site":           {"site_id"},
	"corporate_name": {"corporate_name"},
}

// sortClause resolves the caller's sort spec to a total order. Date sorts
// (and any unknown field, which falls back to date) carry a secondary
// descending created_at tie-break.
func sortClause(sortBy, direction string) string {
	dir := "DESC"
	if strings.EqualFold(direction, "asc") {
		dir = "ASC"
	}

	cols, ok := sortFieldMap[sortBy]
	if sortBy == "" || sortBy == "date" || !ok {
		return "transactions.date " + dir + ", transactions.created_at DESC"
	}

	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = "transactions." + col + " " + dir
	}
	return strings.Join(parts, ", ")
}

// apply turns the filter set into a conjunction of WHERE clauses. The query
// is expected to carry LEFT JOINs on banks and sites so the search term can
// match their display names.
func (f ListFilters) apply(q *gorm.DB) *gorm.DB {
	if f.TransactionOrigin != "" {
		q = q.Where("transactions.transaction_origin = ?", f.TransactionOrigin)
	}

	// Entity scoping is only meaningful inside its matching partition.
	switch f.TransactionOrigin {
	case model.OriginGeneralBanks:
		if f.BankID != nil {
			q = q.Where("transactions.bank_id = ?", *f.BankID)
		}
	case model.OriginSites:
		if f.SiteID != nil {
			q = q.Where("transactions.site_id = ?", *f.SiteID)
		}
		if f.Category != "" {
			q = q.Where("transactions.category = ?", f.Category)
		}
		if f.SubCategory != "" {
			q = q.Where("transactions.sub_category = ?", f.SubCategory)
		}
	}

	if f.PendingOnly {
		q = q.Where("transactions.status = ?", model.StatusPending)
	}

	if f.DateRange != nil {
		if f.DateRange.Start != nil {
			q = q.Where("transactions.date >= ?", *f.DateRange.Start)
		}
		if f.DateRange.End != nil {
			q = q.Where("transactions.date <= ?", *f.DateRange.End)
		}
	}

	if f.TypeFilters != nil {
		q = q.Where("transactions.type IN ?", f.TypeFilters.types())
	}

	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		cond, args := searchCondition(term)
		q = q.Where(cond, args...)
	}

	return q
}

// searchCondition matches the term case-insensitively against concept, the
// free-text bank identity fields and the joined bank/site display names.
// A numeric term additionally matches the exact amount.
func searchCondition(term string) (string, []interface{}) {
	pattern := "%" + term + "%"
	cond := "transactions.concept ILIKE ? OR transactions.bank_name ILIKE ? OR transactions.corporate_name ILIKE ? OR banks.name ILIKE ? OR sites.name ILIKE ?"
	args := []interface{}{pattern, pattern, pattern, pattern, pattern}

	if amount, err := strconv.ParseFloat(term, 64); err == nil {
		cond += " OR transactions.amount = ?"
		args = append(args, amount)
	}

	return "(" + cond + ")", args
}
