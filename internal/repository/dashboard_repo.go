package repository

import (
	"time"

	"go-construction-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryTotal is one overview facet row: money movement per category.
type CategoryTotal struct {
	Category    model.Category `json:"category"`
	Deposits    float64        `json:"deposits"`
	Withdrawals float64        `json:"withdrawals"`
	Count       int64          `json:"count"`
}

// EntityTotals is one by-bank or by-site facet row.
type EntityTotals struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	TotalDeposits    float64   `json:"total_deposits"`
	TotalWithdrawals float64   `json:"total_withdrawals"`
}

// FlowRow is a single-row cash-flow aggregate.
type FlowRow struct {
	Deposits    float64 `json:"deposits"`
	Withdrawals float64 `json:"withdrawals"`
}

// MonthlyFlow is cash movement bucketed by calendar month.
type MonthlyFlow struct {
	Month       string  `json:"month"`
	Deposits    float64 `json:"deposits"`
	Withdrawals float64 `json:"withdrawals"`
	Net         float64 `json:"net"`
}

// TransactionSummary is a projected transaction row for recent-movement
// lists, with the deposit/withdrawal split precomputed.
type TransactionSummary struct {
	ID          uuid.UUID             `json:"id"`
	Date        time.Time             `json:"date"`
	Concept     string                `json:"concept"`
	Type        model.TransactionType `json:"type"`
	Amount      float64               `json:"amount"`
	Deposits    float64               `json:"deposits"`
	Withdrawals float64               `json:"withdrawals"`
}

const depositSplit = `
	COALESCE(SUM(CASE WHEN transactions.type = 'deposit' THEN transactions.amount ELSE 0 END), 0) AS deposits,
	COALESCE(SUM(CASE WHEN transactions.type = 'withdrawal' THEN transactions.amount ELSE 0 END), 0) AS withdrawals`

// DashboardRepository runs the aggregation facets of the dashboard report.
// Each facet is an independent SQL aggregation over the same date-filtered
// input set; the service layer joins and reshapes the rows.
type DashboardRepository interface {
	OverviewByCategory(dr *DateRange) ([]CategoryTotal, error)
	BankTotals(dr *DateRange) ([]EntityTotals, error)
	SiteTotals(dr *DateRange) ([]EntityTotals, error)
	RecentBankTransactions(bankID uuid.UUID, dr *DateRange, limit int) ([]TransactionSummary, error)
	RecentSiteTransactions(siteID uuid.UUID, dr *DateRange, limit int) ([]TransactionSummary, error)
	CashFlowTotals(dr *DateRange, since *time.Time) (FlowRow, error)
	CashFlowByMonth(dr *DateRange) ([]MonthlyFlow, error)
	RecentCashTransactions(dr *DateRange, limit int) ([]TransactionSummary, error)
	RecentTransactions(dr *DateRange, limit int) ([]model.Transaction, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db}
}

func dateScoped(q *gorm.DB, dr *DateRange) *gorm.DB {
	if dr == nil {
		return q
	}
	if dr.Start != nil {
		q = q.Where("transactions.date >= ?", *dr.Start)
	}
	if dr.End != nil {
		q = q.Where("transactions.date <= ?", *dr.End)
	}
	return q
}

func (r *dashboardRepo) OverviewByCategory(dr *DateRange) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := dateScoped(r.db.Model(&model.Transaction{}), dr).
		Select("transactions.category AS category," + depositSplit + ", COUNT(*) AS count").
		Group("transactions.category").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) BankTotals(dr *DateRange) ([]EntityTotals, error) {
	var rows []EntityTotals
	err := dateScoped(r.db.Model(&model.Transaction{}), dr).
		Select("transactions.bank_id AS id, banks.name AS name," +
			" COALESCE(SUM(CASE WHEN transactions.type = 'deposit' THEN transactions.amount ELSE 0 END), 0) AS total_deposits," +
			" COALESCE(SUM(CASE WHEN transactions.type = 'withdrawal' THEN transactions.amount ELSE 0 END), 0) AS total_withdrawals").
		Joins("JOIN banks ON banks.id = transactions.bank_id").
		Where("transactions.category = ?", model.CategoryBanks).
		Where("transactions.bank_id IS NOT NULL").
		Group("transactions.bank_id, banks.name").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) SiteTotals(dr *DateRange) ([]EntityTotals, error) {
	var rows []EntityTotals
	err := dateScoped(r.db.Model(&model.Transaction{}), dr).
		Select("transactions.site_id AS id, sites.name AS name," +
			" COALESCE(SUM(CASE WHEN transactions.type = 'deposit' THEN transactions.amount ELSE 0 END), 0) AS total_deposits," +
			" COALESCE(SUM(CASE WHEN transactions.type = 'withdrawal' THEN transactions.amount ELSE 0 END), 0) AS total_withdrawals").
		Joins("JOIN sites ON sites.id = transactions.site_id").
		Where("transactions.site_id IS NOT NULL").
		Group("transactions.site_id, sites.name").
		Scan(&rows).Error
	return rows, err
}

const summarySelect = `
	transactions.id AS id,
	transactions.date AS date,
	transactions.concept AS concept,
	transactions.type AS type,
	transactions.amount AS amount,
	CASE WHEN transactions.type = 'deposit' THEN transactions.amount ELSE 0 END AS deposits,
	CASE WHEN transactions.type = 'withdrawal' THEN transactions.amount ELSE 0 END AS withdrawals`

func (r *dashboardRepo) RecentBankTransactions(bankID uuid.UUID, dr *DateRange, limit int) ([]TransactionSummary, error) {
	var rows []TransactionSummary
	err := dateScoped(r.db.Model(&model.Transaction{}), dr).
		Select(summarySelect).
		Where("transactions.category = ?", model.CategoryBanks).
		Where("transactions.bank_id = ?", bankID).
		Order("transactions.date DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) RecentSiteTransactions(siteID uuid.UUID, dr *DateRange, limit int) ([]TransactionSummary, error) {
	var rows []TransactionSummary
	err := dateScoped(r.db.Model(&model.Transaction{}), dr).
		Select(summarySelect).
		Where("transactions.site_id = ?", siteID).
		Order("transactions.date DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CashFlowTotals sums cash movement, optionally restricted to dates at or
// after a period start (today, Monday of this week, first of this month).
func (r *dashboardRepo) CashFlowTotals(dr *DateRange, since *time.Time) (FlowRow, error) {
	var row FlowRow
	q := dateScoped(r.db.Model(&model.Transaction{}), dr).
		Where("transactions.category = ?", model.CategoryCash)
	if since != nil {
		q = q.Where("transactions.date >= ?", *since)
	}
	err := q.Select(depositSplit).Scan(&row).Error
	return row, err
}

func (r *dashboardRepo) CashFlowByMonth(dr *DateRange) ([]MonthlyFlow, error) {
	var rows []MonthlyFlow
	err := dateScoped(r.db.Model(&model.Transaction{}), dr).
		Select("to_char(transactions.date, 'YYYY-MM') AS month," + depositSplit).
		Where("transactions.category = ?", model.CategoryCash).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Net = rows[i].Deposits - rows[i].Withdrawals
	}
	return rows, nil
}

func (r *dashboardRepo) RecentCashTransactions(dr *DateRange, limit int) ([]TransactionSummary, error) {
	var rows []TransactionSummary
	err := dateScoped(r.db.Model(&model.Transaction{}), dr).
		Select(summarySelect).
		Where("transactions.category = ?", model.CategoryCash).
		Order("transactions.date DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) RecentTransactions(dr *DateRange, limit int) ([]model.Transaction, error) {
	var items []model.Transaction
	err := dateScoped(r.db.Model(&model.Transaction{}), dr).
		Preload("Bank").Preload("Site").
		Order("transactions.date DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
