package repository

import (
	"errors"

	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Totals is the money summary over a filtered listing. Pending movements
// count toward items and total but are excluded from the money sums.
type Totals struct {
	Deposits    float64 `json:"deposits"`
	Withdrawals float64 `json:"withdrawals"`
	Net         float64 `json:"net"`
}

// ListResult is one page of a filtered listing plus whole-set summaries.
type ListResult struct {
	Items    []model.Transaction `json:"items"`
	Total    int64               `json:"total"`
	Totals   Totals              `json:"totals"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
}

type TransactionRepository interface {
	Create(tx *model.Transaction) error
	CreateBatch(txs []model.Transaction) error
	FindByID(id uuid.UUID) (*model.Transaction, error)
	Save(tx *model.Transaction) error
	Delete(id uuid.UUID) error
	List(f ListFilters) (*ListResult, error)
	FindInitialBalance(bankID *uuid.UUID, category model.Category) (*model.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *model.Transaction) error {
	return r.db.Create(tx).Error
}

// CreateBatch inserts an imported batch atomically: either every row lands
// or none does.
func (r *transactionRepo) CreateBatch(txs []model.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&txs).Error
	})
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Bank").Preload("Site").Preload("CreatedByUser").
		First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "transaction"}
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Save(tx *model.Transaction) error {
	return r.db.Save(tx).Error
}

func (r *transactionRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Resource: "transaction"}
	}
	return nil
}

// filtered builds a fresh filtered query. The joins are needed so search
// terms can match bank/site display names; a fresh query per use keeps
// GORM's statement builder from leaking state between count, sum and find.
func (r *transactionRepo) filtered(f ListFilters) *gorm.DB {
	q := r.db.Model(&model.Transaction{}).
		Joins("LEFT JOIN banks ON banks.id = transactions.bank_id").
		Joins("LEFT JOIN sites ON sites.id = transactions.site_id")
	return f.apply(q)
}

func (r *transactionRepo) List(f ListFilters) (*ListResult, error) {
	if f.PageSize <= 0 {
		f.PageSize = 25
	}
	if f.Page < 0 {
		f.Page = 0
	}

	var total int64
	if err := r.filtered(f).Count(&total).Error; err != nil {
		return nil, err
	}

	var totals Totals
	err := r.filtered(f).
		Select(`
			COALESCE(SUM(CASE WHEN transactions.type = 'deposit' AND transactions.status <> 'pending' THEN transactions.amount ELSE 0 END), 0) AS deposits,
			COALESCE(SUM(CASE WHEN transactions.type = 'withdrawal' AND transactions.status <> 'pending' THEN transactions.amount ELSE 0 END), 0) AS withdrawals
		`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	totals.Net = totals.Deposits - totals.Withdrawals

	var items []model.Transaction
	err = r.filtered(f).
		Preload("Bank").Preload("Site").Preload("CreatedByUser").
		Order(sortClause(f.SortBy, f.SortDirection)).
		Offset(f.Page * f.PageSize).
		Limit(f.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items:    items,
		Total:    total,
		Totals:   totals,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// FindInitialBalance locates the earliest opening-balance entry, identified
// by its concept. Bank scoping only applies to the banks category.
func (r *transactionRepo) FindInitialBalance(bankID *uuid.UUID, category model.Category) (*model.Transaction, error) {
	q := r.db.Where("concept ILIKE ?", "%saldo inicial%")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if category == model.CategoryBanks && bankID != nil {
		q = q.Where("bank_id = ?", *bankID)
	}

	var transaction model.Transaction
	err := q.Preload("Bank").Order("date ASC").First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}
