package service

import (
	"errors"

	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/model"
	"go-construction-ledger/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrBankNameTaken = errors.New("a bank with this name already exists")
	ErrSiteNameTaken = errors.New("a site with this name already exists")
)

// BankService owns the bank directory lifecycle: create, rename, soft
// deactivate. Banks referenced by transactions are never hard-deleted.
type BankService interface {
	GetAll() ([]model.Bank, error)
	GetByID(id uuid.UUID) (*model.Bank, error)
	Create(req *model.Bank, actor Actor) error
	Update(id uuid.UUID, req *model.Bank, actor Actor) (*model.Bank, error)
	Deactivate(id uuid.UUID, actor Actor) error
}

type bankService struct {
	repo repository.BankRepository
}

func NewBankService(repo repository.BankRepository) BankService {
	return &bankService{repo: repo}
}

func (s *bankService) GetAll() ([]model.Bank, error) {
	return s.repo.FindAllActive()
}

func (s *bankService) GetByID(id uuid.UUID) (*model.Bank, error) {
	return s.repo.FindByID(id)
}

func (s *bankService) Create(req *model.Bank, actor Actor) error {
	if req.Name == "" {
		return &apperr.ValidationError{Field: "name", Reason: "is required"}
	}

	existing, err := s.repo.FindByName(req.Name)
	if err != nil {
		return apperr.Store("create bank", err)
	}
	if existing != nil {
		return ErrBankNameTaken
	}

	req.IsActive = true
	req.CreatedBy = actor.ID
	req.LastModifiedBy = actor.ID
	return s.repo.Create(req)
}

func (s *bankService) Update(id uuid.UUID, req *model.Bank, actor Actor) (*model.Bank, error) {
	bank, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != bank.Name {
		existing, err := s.repo.FindByName(req.Name)
		if err != nil {
			return nil, apperr.Store("update bank", err)
		}
		if existing != nil && existing.ID != id {
			return nil, ErrBankNameTaken
		}
		bank.Name = req.Name
	}

	bank.LastModifiedBy = actor.ID
	if err := s.repo.Update(bank); err != nil {
		return nil, apperr.Store("update bank", err)
	}
	return bank, nil
}

func (s *bankService) Deactivate(id uuid.UUID, actor Actor) error {
	bank, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	bank.IsActive = false
	bank.LastModifiedBy = actor.ID
	return s.repo.Update(bank)
}

// SiteService mirrors BankService for construction sites.
type SiteService interface {
	GetAll() ([]model.Site, error)
	GetByID(id uuid.UUID) (*model.Site, error)
	Create(req *model.Site, actor Actor) error
	Update(id uuid.UUID, req *model.Site, actor Actor) (*model.Site, error)
	Deactivate(id uuid.UUID, actor Actor) error
}

type siteService struct {
	repo repository.SiteRepository
}

func NewSiteService(repo repository.SiteRepository) SiteService {
	return &siteService{repo: repo}
}

func (s *siteService) GetAll() ([]model.Site, error) {
	return s.repo.FindAllActive()
}

func (s *siteService) GetByID(id uuid.UUID) (*model.Site, error) {
	return s.repo.FindByID(id)
}

func (s *siteService) Create(req *model.Site, actor Actor) error {
	if req.Name == "" {
		return &apperr.ValidationError{Field: "name", Reason: "is required"}
	}

	existing, err := s.repo.FindByName(req.Name)
	if err != nil {
		return apperr.Store("create site", err)
	}
	if existing != nil {
		return ErrSiteNameTaken
	}

	req.IsActive = true
	req.CreatedBy = actor.ID
	req.LastModifiedBy = actor.ID
	return s.repo.Create(req)
}

func (s *siteService) Update(id uuid.UUID, req *model.Site, actor Actor) (*model.Site, error) {
	site, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != site.Name {
		existing, err := s.repo.FindByName(req.Name)
		if err != nil {
			return nil, apperr.Store("update site", err)
		}
		if existing != nil && existing.ID != id {
			return nil, ErrSiteNameTaken
		}
		site.Name = req.Name
	}

	site.LastModifiedBy = actor.ID
	if err := s.repo.Update(site); err != nil {
		return nil, apperr.Store("update site", err)
	}
	return site, nil
}

func (s *siteService) Deactivate(id uuid.UUID, actor Actor) error {
	site, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	site.IsActive = false
	site.LastModifiedBy = actor.ID
	return s.repo.Update(site)
}
