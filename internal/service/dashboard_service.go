package service

import (
	"math"
	"time"

	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/model"
	"go-construction-ledger/internal/repository"
)

const (
	recentPerEntity   = 5
	recentCashLimit   = 5
	recentOverallSize = 50
)

// Flow is a deposits/withdrawals/net triple, rounded to two decimals.
type Flow struct {
	Deposits    float64 `json:"deposits"`
	Withdrawals float64 `json:"withdrawals"`
	Net         float64 `json:"net"`
}

// OverviewEntry is a Flow plus the number of movements behind it.
type OverviewEntry struct {
	Flow
	Count int64 `json:"count"`
}

// EntityReport is the per-bank or per-site rollup.
type EntityReport struct {
	ID                 string                          `json:"id"`
	Name               string                          `json:"name"`
	TotalDeposits      float64                         `json:"totalDeposits"`
	TotalWithdrawals   float64                         `json:"totalWithdrawals"`
	Net                float64                         `json:"net"`
	RecentTransactions []repository.TransactionSummary `json:"recentTransactions"`
}

// CashFlowReport groups the cash facets: running total, period buckets,
// monthly series and the latest movements.
type CashFlowReport struct {
	Total              Flow                            `json:"total"`
	Daily              Flow                            `json:"daily"`
	Weekly             Flow                            `json:"weekly"`
	Monthly            Flow                            `json:"monthly"`
	ByMonth            []repository.MonthlyFlow        `json:"byMonth"`
	RecentTransactions []repository.TransactionSummary `json:"recentTransactions"`
}

// ReportTotals combines the bank and cash partitions into a global figure.
type ReportTotals struct {
	Banks  OverviewEntry `json:"banks"`
	Cash   OverviewEntry `json:"cash"`
	Global Flow          `json:"global"`
}

// ReportMetrics is the aggregate half of the dashboard payload. ByBank and
// BySite are keyed by entity id for O(1) lookup by callers.
type ReportMetrics struct {
	Overview struct {
		Banks OverviewEntry `json:"banks"`
		Cash  OverviewEntry `json:"cash"`
	} `json:"overview"`
	ByBank   map[string]EntityReport `json:"byBank"`
	BySite   map[string]EntityReport `json:"bySite"`
	CashFlow CashFlowReport          `json:"cashFlow"`
	Totals   ReportTotals            `json:"totals"`
}

// Report is the full dashboard payload: the facet metrics plus the most
// recent transactions matching the same date filter.
type Report struct {
	Metrics      ReportMetrics       `json:"metrics"`
	Transactions []model.Transaction `json:"transactions"`
}

type DashboardService interface {
	BuildReport(dr *repository.DateRange) (*Report, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundedFlow(deposits, withdrawals float64) Flow {
	return Flow{
		Deposits:    round2(deposits),
		Withdrawals: round2(withdrawals),
		Net:         round2(deposits - withdrawals),
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek is Monday-anchored.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// BuildReport runs every aggregation facet over the same date-filtered
// input set and reshapes the rows into the dashboard payload. Facets are
// independent statements against the live table, not one snapshot; under
// concurrent writes two facets may observe adjacent states.
func (s *dashboardService) BuildReport(dr *repository.DateRange) (*Report, error) {
	overview, err := s.repo.OverviewByCategory(dr)
	if err != nil {
		return nil, apperr.Store("dashboard overview", err)
	}

	report := &Report{}
	report.Metrics.ByBank = map[string]EntityReport{}
	report.Metrics.BySite = map[string]EntityReport{}

	for _, row := range overview {
		entry := OverviewEntry{Flow: roundedFlow(row.Deposits, row.Withdrawals), Count: row.Count}
		switch row.Category {
		case model.CategoryBanks:
			report.Metrics.Overview.Banks = entry
		case model.CategoryCash:
			report.Metrics.Overview.Cash = entry
		}
	}

	bankRows, err := s.repo.BankTotals(dr)
	if err != nil {
		return nil, apperr.Store("dashboard bank totals", err)
	}
	for _, row := range bankRows {
		recent, err := s.repo.RecentBankTransactions(row.ID, dr, recentPerEntity)
		if err != nil {
			return nil, apperr.Store("dashboard bank recents", err)
		}
		report.Metrics.ByBank[row.ID.String()] = entityReport(row, recent)
	}

	siteRows, err := s.repo.SiteTotals(dr)
	if err != nil {
		return nil, apperr.Store("dashboard site totals", err)
	}
	for _, row := range siteRows {
		recent, err := s.repo.RecentSiteTransactions(row.ID, dr, recentPerEntity)
		if err != nil {
			return nil, apperr.Store("dashboard site recents", err)
		}
		report.Metrics.BySite[row.ID.String()] = entityReport(row, recent)
	}

	now := s.now()
	periods := []struct {
		since *time.Time
		dest  *Flow
	}{
		{nil, &report.Metrics.CashFlow.Total},
		{timePtr(startOfDay(now)), &report.Metrics.CashFlow.Daily},
		{timePtr(startOfWeek(now)), &report.Metrics.CashFlow.Weekly},
		{timePtr(startOfMonth(now)), &report.Metrics.CashFlow.Monthly},
	}
	for _, p := range periods {
		row, err := s.repo.CashFlowTotals(dr, p.since)
		if err != nil {
			return nil, apperr.Store("dashboard cash flow", err)
		}
		*p.dest = roundedFlow(row.Deposits, row.Withdrawals)
	}

	byMonth, err := s.repo.CashFlowByMonth(dr)
	if err != nil {
		return nil, apperr.Store("dashboard cash flow by month", err)
	}
	for i := range byMonth {
		byMonth[i].Deposits = round2(byMonth[i].Deposits)
		byMonth[i].Withdrawals = round2(byMonth[i].Withdrawals)
		byMonth[i].Net = round2(byMonth[i].Net)
	}
	if byMonth == nil {
		byMonth = []repository.MonthlyFlow{}
	}
	report.Metrics.CashFlow.ByMonth = byMonth

	recentCash, err := s.repo.RecentCashTransactions(dr, recentCashLimit)
	if err != nil {
		return nil, apperr.Store("dashboard recent cash", err)
	}
	if recentCash == nil {
		recentCash = []repository.TransactionSummary{}
	}
	report.Metrics.CashFlow.RecentTransactions = recentCash

	banks := report.Metrics.Overview.Banks
	cash := report.Metrics.Overview.Cash
	report.Metrics.Totals = ReportTotals{
		Banks:  banks,
		Cash:   cash,
		Global: roundedFlow(banks.Deposits+cash.Deposits, banks.Withdrawals+cash.Withdrawals),
	}

	recent, err := s.repo.RecentTransactions(dr, recentOverallSize)
	if err != nil {
		return nil, apperr.Store("dashboard recent transactions", err)
	}
	if recent == nil {
		recent = []model.Transaction{}
	}
	report.Transactions = recent

	return report, nil
}

func entityReport(row repository.EntityTotals, recent []repository.TransactionSummary) EntityReport {
	if recent == nil {
		recent = []repository.TransactionSummary{}
	}
	return EntityReport{
		ID:                 row.ID.String(),
		Name:               row.Name,
		TotalDeposits:      round2(row.TotalDeposits),
		TotalWithdrawals:   round2(row.TotalWithdrawals),
		Net:                round2(row.TotalDeposits - row.TotalWithdrawals),
		RecentTransactions: recent,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
