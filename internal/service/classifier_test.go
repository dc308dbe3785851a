package service

import (
	"testing"
	"time"

	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/model"

	"github.com/google/uuid"
)

func baseTransaction() model.Transaction {
	return model.Transaction{
		Concept:  "test movement",
		Amount:   100,
		Type:     model.TxDeposit,
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Category: model.CategoryCash,
	}
}

func originOf(t *testing.T, tx *model.Transaction) model.Origin {
	t.Helper()
	if tx.TransactionOrigin == nil {
		t.Fatal("expected a derived transaction origin, got nil")
	}
	return *tx.TransactionOrigin
}

func TestClassify_DerivesOrigin(t *testing.T) {
	siteID := uuid.New()
	legacyOrigin := model.OriginGeneralCash

	tests := []struct {
		name       string
		mutate     func(*model.Transaction)
		wantOrigin model.Origin
	}{
		{
			name:       "cash category without site goes to general cash",
			mutate:     func(tx *model.Transaction) {},
			wantOrigin: model.OriginGeneralCash,
		},
		{
			name: "banks category without site goes to general banks",
			mutate: func(tx *model.Transaction) {
				tx.Category = model.CategoryBanks
			},
			wantOrigin: model.OriginGeneralBanks,
		},
		{
			name: "site reference wins over banks category",
			mutate: func(tx *model.Transaction) {
				tx.Category = model.CategoryBanks
				tx.SiteID = &siteID
			},
			wantOrigin: model.OriginSites,
		},
		{
			name: "payroll category without site goes to general cash",
			mutate: func(tx *model.Transaction) {
				tx.Category = model.CategoryPayroll
			},
			wantOrigin: model.OriginGeneralCash,
		},
		{
			name: "existing origin is never overwritten",
			mutate: func(tx *model.Transaction) {
				tx.Category = model.CategoryBanks
				tx.SiteID = &siteID
				tx.TransactionOrigin = &legacyOrigin
			},
			wantOrigin: model.OriginGeneralCash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := baseTransaction()
			tt.mutate(&tx)
			Classify(&tx)
			if got := originOf(t, &tx); got != tt.wantOrigin {
				t.Errorf("origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestClassify_DepositWithdrawalSplit(t *testing.T) {
	tests := []struct {
		name            string
		txType          model.TransactionType
		amount          float64
		wantDeposits    float64
		wantWithdrawals float64
	}{
		{"deposit of 100", model.TxDeposit, 100, 100, 0},
		{"withdrawal of 50", model.TxWithdrawal, 50, 0, 50},
		{"zero amount deposit", model.TxDeposit, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := baseTransaction()
			tx.Type = tt.txType
			tx.Amount = tt.amount
			// Derived fields are never caller-settable; seed garbage to prove it
			tx.Deposits = 999
			tx.Withdrawals = 999

			Classify(&tx)

			if tx.Deposits != tt.wantDeposits || tx.Withdrawals != tt.wantWithdrawals {
				t.Errorf("split = (%v, %v), want (%v, %v)",
					tx.Deposits, tx.Withdrawals, tt.wantDeposits, tt.wantWithdrawals)
			}
		})
	}
}

func TestClassify_SiteWinsOverCategoryScenario(t *testing.T) {
	siteID := uuid.New()
	tx := baseTransaction()
	tx.Type = model.TxWithdrawal
	tx.Amount = 50
	tx.Category = model.CategoryBanks
	tx.SiteID = &siteID

	Classify(&tx)

	if got := originOf(t, &tx); got != model.OriginSites {
		t.Errorf("origin = %q, want %q", got, model.OriginSites)
	}
	if tx.Deposits != 0 || tx.Withdrawals != 50 {
		t.Errorf("split = (%v, %v), want (0, 50)", tx.Deposits, tx.Withdrawals)
	}
}

func TestClassify_StripsMetadataOutsideSites(t *testing.T) {
	tx := baseTransaction()
	tx.SubCategory = "payroll"
	tx.Metadata = model.NewMetadata(model.TransactionMetadata{
		Payroll: &model.PayrollMetadata{EmployeeName: "J. Obrero"},
	})

	Classify(&tx)

	if got := originOf(t, &tx); got != model.OriginGeneralCash {
		t.Fatalf("origin = %q, want %q", got, model.OriginGeneralCash)
	}
	if tx.SubCategory != "" {
		t.Errorf("sub category survived on non-sites origin: %q", tx.SubCategory)
	}
	if tx.Metadata != nil {
		t.Error("metadata survived on non-sites origin")
	}
}

func TestClassify_KeepsMetadataOnSites(t *testing.T) {
	siteID := uuid.New()
	tx := baseTransaction()
	tx.Category = model.CategoryFuel
	tx.SiteID = &siteID
	tx.SubCategory = "fuel"
	tx.Metadata = model.NewMetadata(model.TransactionMetadata{
		Fuel: &model.FuelMetadata{Liters: 40, Vehicle: "truck-2"},
	})

	Classify(&tx)

	if tx.SubCategory != "fuel" {
		t.Errorf("sub category = %q, want %q", tx.SubCategory, "fuel")
	}
	md := tx.MetadataValue()
	if md == nil || md.Fuel == nil || md.Fuel.Liters != 40 {
		t.Error("fuel metadata was lost on sites origin")
	}
}

func TestClassify_Idempotent(t *testing.T) {
	siteID := uuid.New()

	inputs := []model.Transaction{
		baseTransaction(),
		func() model.Transaction {
			tx := baseTransaction()
			tx.Category = model.CategoryBanks
			return tx
		}(),
		func() model.Transaction {
			tx := baseTransaction()
			tx.Type = model.TxWithdrawal
			tx.SiteID = &siteID
			tx.SubCategory = "machinery"
			return tx
		}(),
	}

	for _, tx := range inputs {
		once := tx
		Classify(&once)
		twice := once
		Classify(&twice)

		if *once.TransactionOrigin != *twice.TransactionOrigin {
			t.Errorf("origin changed on second pass: %q -> %q",
				*once.TransactionOrigin, *twice.TransactionOrigin)
		}
		if once.Deposits != twice.Deposits || once.Withdrawals != twice.Withdrawals {
			t.Error("deposit/withdrawal split changed on second pass")
		}
		if once.SubCategory != twice.SubCategory {
			t.Error("sub category changed on second pass")
		}
	}
}

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Transaction)
		wantErr bool
	}{
		{"valid record", func(tx *model.Transaction) {}, false},
		{"missing concept", func(tx *model.Transaction) { tx.Concept = "" }, true},
		{"missing type", func(tx *model.Transaction) { tx.Type = "" }, true},
		{"type outside enum", func(tx *model.Transaction) { tx.Type = "transfer" }, true},
		{"category outside enum", func(tx *model.Transaction) { tx.Category = "misc" }, true},
		{"negative amount", func(tx *model.Transaction) { tx.Amount = -10 }, true},
		{"missing date", func(tx *model.Transaction) { tx.Date = time.Time{} }, true},
		{"legacy record without origin is fine", func(tx *model.Transaction) { tx.TransactionOrigin = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := baseTransaction()
			tt.mutate(&tx)

			err := ValidateTransaction(&tx)
			if tt.wantErr && err == nil {
				t.Fatal("expected a validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr {
				var ve *apperr.ValidationError
				if !asValidation(err, &ve) {
					t.Errorf("error is not a ValidationError: %v", err)
				} else if ve.Field == "" {
					t.Error("validation error does not name the offending field")
				}
			}
		})
	}
}

func asValidation(err error, target **apperr.ValidationError) bool {
	ve, ok := err.(*apperr.ValidationError)
	if ok {
		*target = ve
	}
	return ok
}
