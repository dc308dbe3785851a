package repository

import (
	"go-construction-ledger/internal/model"

	"gorm.io/gorm"
)

// MigrationCounts snapshots the classification state of the whole
// transaction log before the backfill runs.
type MigrationCounts struct {
	Total      int64 `json:"total"`
	Banks      int64 `json:"banks"`
	Cash       int64 `json:"cash"`
	Sites      int64 `json:"sites"`
	Unassigned int64 `json:"unassigned"`
}

// OriginCounts counts transactions per assigned origin after the backfill.
type OriginCounts struct {
	Total        int64 `json:"total"`
	GeneralBanks int64 `json:"generalBanks"`
	GeneralCash  int64 `json:"generalCash"`
	Sites        int64 `json:"sites"`
}

// OriginCategoryStat is one row of the per-(origin, category) breakdown.
type OriginCategoryStat struct {
	Origin      *model.Origin  `json:"origin"`
	Category    model.Category `json:"category"`
	Count       int64          `json:"count"`
	TotalAmount float64        `json:"total_amount"`
}

// MigrationStore exposes the individual counting and backfill steps of the
// consistency migration. The Assign* steps only ever touch rows whose
// origin is still NULL, so re-running them is a no-op.
type MigrationStore interface {
	Counts() (MigrationCounts, error)
	AssignSites() (int64, error)
	AssignGeneralBanks() (int64, error)
	AssignGeneralCash() (int64, error)
	OriginCounts() (OriginCounts, error)
	ClearOrigins() (int64, error)
	Stats() ([]OriginCategoryStat, error)
}

// MigrationRepository adds the unit-of-work wrapper: everything inside
// WithinTransaction commits together or not at all.
type MigrationRepository interface {
	MigrationStore
	WithinTransaction(fn func(MigrationStore) error) error
}

type migrationRepo struct {
	db *gorm.DB
}

func NewMigrationRepo(db *gorm.DB) MigrationRepository {
	return &migrationRepo{db}
}

func (r *migrationRepo) WithinTransaction(fn func(MigrationStore) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&migrationRepo{db: tx})
	})
}

func (r *migrationRepo) Counts() (MigrationCounts, error) {
	var counts MigrationCounts
	err := r.db.Model(&model.Transaction{}).
		Select(`
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN category = 'banks' THEN 1 ELSE 0 END), 0) AS banks,
			COALESCE(SUM(CASE WHEN category = 'cash' THEN 1 ELSE 0 END), 0) AS cash,
			COALESCE(SUM(CASE WHEN site_id IS NOT NULL THEN 1 ELSE 0 END), 0) AS sites,
			COALESCE(SUM(CASE WHEN transaction_origin IS NULL THEN 1 ELSE 0 END), 0) AS unassigned
		`).
		Scan(&counts).Error
	return counts, err
}

// AssignSites runs first: site presence always wins over category in the
// origin precedence, so site-scoped bank/cash rows must be claimed before
// the category-driven steps see them.
func (r *migrationRepo) AssignSites() (int64, error) {
	res := r.db.Model(&model.Transaction{}).
		Where("transaction_origin IS NULL").
		Where("site_id IS NOT NULL").
		Update("transaction_origin", model.OriginSites)
	return res.RowsAffected, res.Error
}

func (r *migrationRepo) AssignGeneralBanks() (int64, error) {
	res := r.db.Model(&model.Transaction{}).
		Where("transaction_origin IS NULL").
		Where("site_id IS NULL").
		Where("category = ?", model.CategoryBanks).
		Update("transaction_origin", model.OriginGeneralBanks)
	return res.RowsAffected, res.Error
}

func (r *migrationRepo) AssignGeneralCash() (int64, error) {
	res := r.db.Model(&model.Transaction{}).
		Where("transaction_origin IS NULL").
		Where("site_id IS NULL").
		Where("category = ?", model.CategoryCash).
		Update("transaction_origin", model.OriginGeneralCash)
	return res.RowsAffected, res.Error
}

func (r *migrationRepo) OriginCounts() (OriginCounts, error) {
	var counts OriginCounts
	err := r.db.Model(&model.Transaction{}).
		Select(`
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN transaction_origin = 'generalBanks' THEN 1 ELSE 0 END), 0) AS general_banks,
			COALESCE(SUM(CASE WHEN transaction_origin = 'generalCash' THEN 1 ELSE 0 END), 0) AS general_cash,
			COALESCE(SUM(CASE WHEN transaction_origin = 'sites' THEN 1 ELSE 0 END), 0) AS sites
		`).
		Scan(&counts).Error
	return counts, err
}

// ClearOrigins unsets every assigned origin. Test/repair path only; it does
// not restore the category/site inference.
func (r *migrationRepo) ClearOrigins() (int64, error) {
	res := r.db.Model(&model.Transaction{}).
		Where("transaction_origin IS NOT NULL").
		Update("transaction_origin", nil)
	return res.RowsAffected, res.Error
}

func (r *migrationRepo) Stats() ([]OriginCategoryStat, error) {
	var rows []OriginCategoryStat
	err := r.db.Model(&model.Transaction{}).
		Select("transaction_origin AS origin, category, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Group("transaction_origin, category").
		Scan(&rows).Error
	return rows, err
}
