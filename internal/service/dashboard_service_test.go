package service

import (
	"testing"
	"time"

	"go-construction-ledger/internal/model"
	"go-construction-ledger/internal/repository"

	"github.com/google/uuid"
)

type mockDashboardRepo struct {
	overview []repository.CategoryTotal
	banks    []repository.EntityTotals
	sites    []repository.EntityTotals
	recents  map[uuid.UUID][]repository.TransactionSummary
	cashFlow map[string]repository.FlowRow // keyed by since, "" for all-time
	byMonth  []repository.MonthlyFlow
	cashTxs  []repository.TransactionSummary
	allTxs   []model.Transaction

	sinceSeen []*time.Time
}

func (m *mockDashboardRepo) OverviewByCategory(dr *repository.DateRange) ([]repository.CategoryTotal, error) {
	return m.overview, nil
}

func (m *mockDashboardRepo) BankTotals(dr *repository.DateRange) ([]repository.EntityTotals, error) {
	return m.banks, nil
}

func (m *mockDashboardRepo) SiteTotals(dr *repository.DateRange) ([]repository.EntityTotals, error) {
	return m.sites, nil
}

func (m *mockDashboardRepo) RecentBankTransactions(bankID uuid.UUID, dr *repository.DateRange, limit int) ([]repository.TransactionSummary, error) {
	return m.recents[bankID], nil
}

func (m *mockDashboardRepo) RecentSiteTransactions(siteID uuid.UUID, dr *repository.DateRange, limit int) ([]repository.TransactionSummary, error) {
	return m.recents[siteID], nil
}

func (m *mockDashboardRepo) CashFlowTotals(dr *repository.DateRange, since *time.Time) (repository.FlowRow, error) {
	m.sinceSeen = append(m.sinceSeen, since)
	key := ""
	if since != nil {
		key = since.Format("2006-01-02")
	}
	return m.cashFlow[key], nil
}

func (m *mockDashboardRepo) CashFlowByMonth(dr *repository.DateRange) ([]repository.MonthlyFlow, error) {
	return m.byMonth, nil
}

func (m *mockDashboardRepo) RecentCashTransactions(dr *repository.DateRange, limit int) ([]repository.TransactionSummary, error) {
	return m.cashTxs, nil
}

func (m *mockDashboardRepo) RecentTransactions(dr *repository.DateRange, limit int) ([]model.Transaction, error) {
	return m.allTxs, nil
}

func fixedNow() time.Time {
	// Thursday 2024-03-14
	return time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)
}

func TestBuildReport_OverviewAndGlobalTotals(t *testing.T) {
	repo := &mockDashboardRepo{
		overview: []repository.CategoryTotal{
			{Category: model.CategoryBanks, Deposits: 1000.004, Withdrawals: 250, Count: 7},
			{Category: model.CategoryCash, Deposits: 300, Withdrawals: 120.006, Count: 3},
			{Category: model.CategoryMachinery, Deposits: 0, Withdrawals: 999, Count: 2},
		},
	}
	svc := &dashboardService{repo: repo, now: fixedNow}

	report, err := svc.BuildReport(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	banks := report.Metrics.Overview.Banks
	if banks.Deposits != 1000.00 || banks.Withdrawals != 250 || banks.Net != 750 || banks.Count != 7 {
		t.Errorf("banks overview = %+v", banks)
	}
	cash := report.Metrics.Overview.Cash
	if cash.Deposits != 300 || cash.Withdrawals != 120.01 || cash.Count != 3 {
		t.Errorf("cash overview = %+v", cash)
	}

	// Global combines the two cash-position partitions only; other
	// categories never leak in.
	global := report.Metrics.Totals.Global
	if global.Deposits != 1300.00 {
		t.Errorf("global deposits = %v, want 1300.00", global.Deposits)
	}
	if global.Withdrawals != 370.01 {
		t.Errorf("global withdrawals = %v, want 370.01", global.Withdrawals)
	}
	if global.Net != 929.99 {
		t.Errorf("global net = %v, want 929.99", global.Net)
	}
}

func TestBuildReport_EntityRollups(t *testing.T) {
	bankID := uuid.New()
	siteID := uuid.New()
	repo := &mockDashboardRepo{
		banks: []repository.EntityTotals{
			{ID: bankID, Name: "Banco Norte", TotalDeposits: 500.006, TotalWithdrawals: 200},
		},
		sites: []repository.EntityTotals{
			{ID: siteID, Name: "Obra Central", TotalDeposits: 0, TotalWithdrawals: 75.5},
		},
		recents: map[uuid.UUID][]repository.TransactionSummary{
			bankID: {{Concept: "pago proveedor", Type: model.TxWithdrawal, Amount: 200}},
		},
	}
	svc := &dashboardService{repo: repo, now: fixedNow}

	report, err := svc.BuildReport(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bank, ok := report.Metrics.ByBank[bankID.String()]
	if !ok {
		t.Fatalf("bank %s missing from ByBank map", bankID)
	}
	if bank.Name != "Banco Norte" || bank.TotalDeposits != 500.01 || bank.Net != 300.01 {
		t.Errorf("bank rollup = %+v", bank)
	}
	if len(bank.RecentTransactions) != 1 {
		t.Errorf("bank recents = %d, want 1", len(bank.RecentTransactions))
	}

	site, ok := report.Metrics.BySite[siteID.String()]
	if !ok {
		t.Fatalf("site %s missing from BySite map", siteID)
	}
	if site.Net != -75.5 {
		t.Errorf("site net = %v, want -75.5", site.Net)
	}
	// No recents for the site: JSON must carry [], not null.
	if site.RecentTransactions == nil {
		t.Error("site recents should be an empty slice, not nil")
	}
}

func TestBuildReport_CashFlowPeriods(t *testing.T) {
	repo := &mockDashboardRepo{
		cashFlow: map[string]repository.FlowRow{
			"":           {Deposits: 900, Withdrawals: 400},
			"2024-03-14": {Deposits: 50, Withdrawals: 10},  // start of day
			"2024-03-11": {Deposits: 120, Withdrawals: 40}, // Monday of that week
			"2024-03-01": {Deposits: 300, Withdrawals: 90}, // first of month
		},
	}
	svc := &dashboardService{repo: repo, now: fixedNow}

	report, err := svc.BuildReport(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cf := report.Metrics.CashFlow
	if cf.Total.Net != 500 {
		t.Errorf("total net = %v, want 500", cf.Total.Net)
	}
	if cf.Daily.Deposits != 50 {
		t.Errorf("daily deposits = %v, want 50", cf.Daily.Deposits)
	}
	if cf.Weekly.Net != 80 {
		t.Errorf("weekly net = %v, want 80", cf.Weekly.Net)
	}
	if cf.Monthly.Net != 210 {
		t.Errorf("monthly net = %v, want 210", cf.Monthly.Net)
	}

	// Period starts derive from the injected clock.
	if len(repo.sinceSeen) != 4 {
		t.Fatalf("cash flow queried %d times, want 4", len(repo.sinceSeen))
	}
	if repo.sinceSeen[0] != nil {
		t.Error("first period should be unbounded")
	}
	wantStarts := []string{"2024-03-14", "2024-03-11", "2024-03-01"}
	for i, want := range wantStarts {
		got := repo.sinceSeen[i+1]
		if got == nil || got.Format("2006-01-02") != want {
			t.Errorf("period %d start = %v, want %s", i+1, got, want)
		}
	}
}

func TestBuildReport_CashFlowByMonth(t *testing.T) {
	repo := &mockDashboardRepo{
		byMonth: []repository.MonthlyFlow{
			{Month: "2024-01", Deposits: 200, Withdrawals: 0, Net: 200},
			{Month: "2024-02", Deposits: 0, Withdrawals: 80.004, Net: -80.004},
		},
	}
	svc := &dashboardService{repo: repo, now: fixedNow}

	report, err := svc.BuildReport(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := report.Metrics.CashFlow.ByMonth
	if len(rows) != 2 {
		t.Fatalf("byMonth rows = %d, want 2", len(rows))
	}
	if rows[0].Month != "2024-01" || rows[0].Net != 200 {
		t.Errorf("first month = %+v", rows[0])
	}
	if rows[1].Withdrawals != 80.00 || rows[1].Net != -80.00 {
		t.Errorf("second month not rounded: %+v", rows[1])
	}
}

func TestBuildReport_EmptyStore(t *testing.T) {
	svc := &dashboardService{repo: &mockDashboardRepo{}, now: fixedNow}

	report, err := svc.BuildReport(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Metrics.ByBank == nil || report.Metrics.BySite == nil {
		t.Error("entity maps must be non-nil")
	}
	if len(report.Metrics.ByBank) != 0 {
		t.Errorf("ByBank has %d entries, want 0", len(report.Metrics.ByBank))
	}
	if report.Metrics.CashFlow.ByMonth == nil {
		t.Error("byMonth must be an empty slice, not nil")
	}
	if report.Metrics.CashFlow.RecentTransactions == nil {
		t.Error("cash recents must be an empty slice, not nil")
	}
	if report.Transactions == nil {
		t.Error("transactions must be an empty slice, not nil")
	}
	if report.Metrics.Totals.Global.Net != 0 {
		t.Errorf("global net = %v, want 0", report.Metrics.Totals.Global.Net)
	}
}

func TestStartOfWeek_MondayAnchored(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"thursday", time.Date(2024, 3, 14, 23, 59, 0, 0, time.UTC), "2024-03-11"},
		{"monday", time.Date(2024, 3, 11, 0, 0, 1, 0, time.UTC), "2024-03-11"},
		{"sunday", time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC), "2024-03-11"},
		{"across month", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), "2024-04-29"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := startOfWeek(tc.in)
			if got.Format("2006-01-02") != tc.want {
				t.Errorf("startOfWeek(%v) = %v, want %s", tc.in, got, tc.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("startOfWeek(%v) not truncated to midnight: %v", tc.in, got)
			}
		})
	}
}
