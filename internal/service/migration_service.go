package service

import (
	"log"

	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/repository"
)

// MigrationStatus reports how far the origin backfill has progressed.
type MigrationStatus struct {
	Status string                     `json:"status"` // "completed" or "pending"
	Counts repository.MigrationCounts `json:"counts"`
}

// StepCounts holds how many rows each backfill step touched.
type StepCounts struct {
	Sites        int64 `json:"sites"`
	GeneralBanks int64 `json:"generalBanks"`
	GeneralCash  int64 `json:"generalCash"`
}

// MigrationResult is the outcome of a migration run.
type MigrationResult struct {
	AlreadyComplete bool                    `json:"alreadyComplete"`
	Results         StepCounts              `json:"results"`
	Counts          repository.OriginCounts `json:"counts"`
}

// RevertResult reports how many rows the reversal unset.
type RevertResult struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

// MigrationService runs the one-shot origin backfill over legacy
// transactions. Safe to re-run: a log with no unassigned rows is a no-op.
type MigrationService interface {
	Status() (*MigrationStatus, error)
	Run() (*MigrationResult, error)
	Revert() (*RevertResult, error)
	Stats() ([]repository.OriginCategoryStat, error)
}

type migrationService struct {
	repo repository.MigrationRepository
}

func NewMigrationService(repo repository.MigrationRepository) MigrationService {
	return &migrationService{repo: repo}
}

func (s *migrationService) Status() (*MigrationStatus, error) {
	counts, err := s.repo.Counts()
	if err != nil {
		return nil, apperr.Store("migration status", err)
	}

	status := "pending"
	if counts.Unassigned == 0 {
		status = "completed"
	}
	return &MigrationStatus{Status: status, Counts: counts}, nil
}

// Run executes the three backfill steps inside one atomic unit of work and
// verifies the result before committing. Step order matters: site presence
// wins over category, so site-scoped rows must be claimed first. A failed
// post-check rolls the whole unit back and surfaces a
// FatalInconsistencyError; no partial writes survive.
func (s *migrationService) Run() (*MigrationResult, error) {
	before, err := s.repo.Counts()
	if err != nil {
		return nil, apperr.Store("migration pre-check", err)
	}
	log.Printf("migration: initial state total=%d banks=%d cash=%d sites=%d unassigned=%d",
		before.Total, before.Banks, before.Cash, before.Sites, before.Unassigned)

	if before.Unassigned == 0 {
		after, err := s.repo.OriginCounts()
		if err != nil {
			return nil, apperr.Store("migration pre-check", err)
		}
		return &MigrationResult{AlreadyComplete: true, Counts: after}, nil
	}

	var result MigrationResult
	err = s.repo.WithinTransaction(func(store repository.MigrationStore) error {
		sites, err := store.AssignSites()
		if err != nil {
			return err
		}
		banks, err := store.AssignGeneralBanks()
		if err != nil {
			return err
		}
		cash, err := store.AssignGeneralCash()
		if err != nil {
			return err
		}

		after, err := store.OriginCounts()
		if err != nil {
			return err
		}

		assigned := after.GeneralBanks + after.GeneralCash + after.Sites
		if assigned != after.Total {
			return &apperr.FatalInconsistencyError{Unassigned: after.Total - assigned}
		}

		result.Results = StepCounts{Sites: sites, GeneralBanks: banks, GeneralCash: cash}
		result.Counts = after
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("migration: completed sites=%d generalBanks=%d generalCash=%d",
		result.Results.Sites, result.Results.GeneralBanks, result.Results.GeneralCash)
	return &result, nil
}

// Revert unsets every assigned origin, atomically. Test/repair only.
func (s *migrationService) Revert() (*RevertResult, error) {
	var modified int64
	err := s.repo.WithinTransaction(func(store repository.MigrationStore) error {
		var err error
		modified, err = store.ClearOrigins()
		return err
	})
	if err != nil {
		return nil, apperr.Store("migration revert", err)
	}
	return &RevertResult{ModifiedCount: modified}, nil
}

func (s *migrationService) Stats() ([]repository.OriginCategoryStat, error) {
	stats, err := s.repo.Stats()
	if err != nil {
		return nil, apperr.Store("migration stats", err)
	}
	return stats, nil
}
