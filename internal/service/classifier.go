package service

import (
	"fmt"

	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/model"
	"go-construction-ledger/pkg/validator"
)

// Classify recomputes the derived classification fields of a transaction.
// It runs synchronously before every persist of a create or field-changing
// update, and is idempotent: applying it to its own output changes nothing.
//
// Rules, in order:
//   - Deposits/Withdrawals mirror Amount on the side selected by Type.
//   - A nil TransactionOrigin is derived: site reference wins, then the
//     banks category, then general cash. A non-nil origin is never
//     overwritten, so caller- and migration-set overrides survive, even
//     when a site reference is present.
//   - SubCategory and Metadata only exist on the sites origin; any other
//     origin clears them.
func Classify(t *model.Transaction) {
	if t.Type == model.TxDeposit {
		t.Deposits, t.Withdrawals = t.Amount, 0
	} else {
		t.Deposits, t.Withdrawals = 0, t.Amount
	}

	if t.TransactionOrigin == nil {
		var origin model.Origin
		switch {
		case t.SiteID != nil:
			origin = model.OriginSites
		case t.Category == model.CategoryBanks:
			origin = model.OriginGeneralBanks
		default:
			origin = model.OriginGeneralCash
		}
		t.TransactionOrigin = &origin
	}

	if *t.TransactionOrigin != model.OriginSites {
		t.SubCategory = ""
		t.Metadata = nil
	}
}

// ValidateTransaction checks the raw field set and reports the first
// offending field. Purely a check, no side effects.
func ValidateTransaction(t *model.Transaction) error {
	if errs := validator.ValidateStruct(t); len(errs) > 0 {
		first := errs[0]
		return &apperr.ValidationError{
			Field:  first.FailedField,
			Reason: fmt.Sprintf("failed on '%s' rule", first.Tag),
		}
	}
	return nil
}
