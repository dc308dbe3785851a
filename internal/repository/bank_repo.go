package repository

import (
	"errors"

	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankRepository interface {
	Create(bank *model.Bank) error
	FindAllActive() ([]model.Bank, error)
	FindByID(id uuid.UUID) (*model.Bank, error)
	FindByName(name string) (*model.Bank, error)
	Update(bank *model.Bank) error
}

type bankRepo struct {
	db *gorm.DB
}

func NewBankRepo(db *gorm.DB) BankRepository {
	return &bankRepo{db}
}

func (r *bankRepo) Create(bank *model.Bank) error {
	return r.db.Create(bank).Error
}

func (r *bankRepo) FindAllActive() ([]model.Bank, error) {
	var banks []model.Bank
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&banks).Error
	return banks, err
}

func (r *bankRepo) FindByID(id uuid.UUID) (*model.Bank, error) {
	var bank model.Bank
	err := r.db.First(&bank, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "bank"}
	}
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *bankRepo) FindByName(name string) (*model.Bank, error) {
	var bank model.Bank
	err := r.db.First(&bank, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *bankRepo) Update(bank *model.Bank) error {
	return r.db.Save(bank).Error
}
