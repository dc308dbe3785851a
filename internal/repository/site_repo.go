package repository

import (
	"errors"

	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SiteRepository interface {
	Create(site *model.Site) error
	FindAllActive() ([]model.Site, error)
	FindByID(id uuid.UUID) (*model.Site, error)
	FindByName(name string) (*model.Site, error)
	Update(site *model.Site) error
}

type siteRepo struct {
	db *gorm.DB
}

func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db}
}

func (r *siteRepo) Create(site *model.Site) error {
	return r.db.Create(site).Error
}

func (r *siteRepo) FindAllActive() ([]model.Site, error) {
	var sites []model.Site
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&sites).Error
	return sites, err
}

func (r *siteRepo) FindByID(id uuid.UUID) (*model.Site, error) {
	var site model.Site
	err := r.db.First(&site, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "site"}
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) FindByName(name string) (*model.Site, error) {
	var site model.Site
	err := r.db.First(&site, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) Update(site *model.Site) error {
	return r.db.Save(site).Error
}
