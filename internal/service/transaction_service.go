package service

import (
	"go-construction-ledger/internal/apperr"
	"go-construction-ledger/internal/model"
	"go-construction-ledger/internal/repository"
	"go-construction-ledger/internal/ws"

	"github.com/google/uuid"
)

// Actor identifies the authenticated user a write is attributed to.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// InitialBalanceResult reports whether an opening-balance entry exists for
// a bank/category scope, and its details when it does.
type InitialBalanceResult struct {
	HasInitialBalance bool                `json:"hasInitialBalance"`
	InitialBalance    *InitialBalanceInfo `json:"initialBalance"`
}

type InitialBalanceInfo struct {
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	BankName string  `json:"bankName,omitempty"`
}

type TransactionService interface {
	Create(req *model.Transaction, actor Actor) error
	CreateBulk(items []model.Transaction, actor Actor) (int, error)
	Update(id uuid.UUID, req *model.Transaction, actor Actor) (*model.Transaction, error)
	Delete(id uuid.UUID, actor Actor) error
	GetByID(id uuid.UUID) (*model.Transaction, error)
	List(f repository.ListFilters) (*repository.ListResult, error)
	InitialBalance(bankID *uuid.UUID, category model.Category) (*InitialBalanceResult, error)
}

type transactionService struct {
	txRepo repository.TransactionRepository
	wsHub  *ws.Hub
}

func NewTransactionService(txRepo repository.TransactionRepository, hub *ws.Hub) TransactionService {
	return &transactionService{txRepo: txRepo, wsHub: hub}
}

func (s *transactionService) notify(action, actor string, data interface{}) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.Notify(ws.Event{Type: "ledger_update", Action: action, Actor: actor, Data: data})
}

func (s *transactionService) Create(req *model.Transaction, actor Actor) error {
	if err := ValidateTransaction(req); err != nil {
		return err
	}

	Classify(req)

	req.CreatedBy = actor.ID
	req.LastModifiedBy = actor.ID
	if actor.ID != "" {
		req.CreatedByUserID = &actor.ID
	}

	if err := s.txRepo.Create(req); err != nil {
		return apperr.Store("create transaction", err)
	}

	s.notify("transaction_created", actor.Name, req)
	return nil
}

// CreateBulk imports a batch of transactions in one atomic insert. Legacy
// import payloads carry a bare "banks" origin which is coerced to
// generalBanks; site-scoped bank spending keeps its free-text bank name and
// drops the formal bank reference.
func (s *transactionService) CreateBulk(items []model.Transaction, actor Actor) (int, error) {
	const legacyBanksOrigin = model.Origin("banks")

	for i := range items {
		item := &items[i]

		if item.TransactionOrigin != nil && *item.TransactionOrigin == legacyBanksOrigin {
			origin := model.OriginGeneralBanks
			item.TransactionOrigin = &origin
		}

		if item.TransactionOrigin != nil && *item.TransactionOrigin == model.OriginSites &&
			item.Category == model.CategoryBanks {
			item.BankID = nil
			item.Bank = nil
		}

		if err := ValidateTransaction(item); err != nil {
			return 0, err
		}
		Classify(item)

		item.CreatedBy = actor.ID
		item.LastModifiedBy = actor.ID
		if actor.ID != "" {
			item.CreatedByUserID = &actor.ID
		}
	}

	if err := s.txRepo.CreateBatch(items); err != nil {
		return 0, apperr.Store("bulk create transactions", err)
	}

	s.notify("transactions_imported", actor.Name, map[string]interface{}{"count": len(items)})
	return len(items), nil
}

func (s *transactionService) Update(id uuid.UUID, req *model.Transaction, actor Actor) (*model.Transaction, error) {
	existing, err := s.txRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	existing.Concept = req.Concept
	existing.Amount = req.Amount
	existing.Type = req.Type
	existing.Date = req.Date
	existing.Category = req.Category
	existing.SubCategory = req.SubCategory
	existing.Metadata = req.Metadata
	existing.BankID = req.BankID
	existing.BankName = req.BankName
	existing.CorporateName = req.CorporateName
	existing.SiteID = req.SiteID
	existing.Key = req.Key
	existing.Check = req.Check
	if req.Status != "" {
		existing.Status = req.Status
	}
	// Explicit origin override; an already-assigned origin is kept otherwise.
	if req.TransactionOrigin != nil {
		existing.TransactionOrigin = req.TransactionOrigin
	}

	existing.Bank = nil
	existing.Site = nil
	existing.CreatedByUser = nil

	if err := ValidateTransaction(existing); err != nil {
		return nil, err
	}

	Classify(existing)
	existing.LastModifiedBy = actor.ID

	if err := s.txRepo.Save(existing); err != nil {
		return nil, apperr.Store("update transaction", err)
	}

	s.notify("transaction_updated", actor.Name, existing)
	return existing, nil
}

func (s *transactionService) Delete(id uuid.UUID, actor Actor) error {
	if err := s.txRepo.Delete(id); err != nil {
		return err
	}
	s.notify("transaction_deleted", actor.Name, map[string]interface{}{"id": id})
	return nil
}

func (s *transactionService) GetByID(id uuid.UUID) (*model.Transaction, error) {
	return s.txRepo.FindByID(id)
}

// List answers a filtered, paginated query. An explicitly empty type filter
// is defined as "no results": the page comes back empty with zero totals
// and the store is never touched.
func (s *transactionService) List(f repository.ListFilters) (*repository.ListResult, error) {
	if f.TypeFilters != nil && !f.TypeFilters.Deposits && !f.TypeFilters.Withdrawals {
		if f.PageSize <= 0 {
			f.PageSize = 25
		}
		return &repository.ListResult{
			Items:    []model.Transaction{},
			Total:    0,
			Totals:   repository.Totals{},
			Page:     f.Page,
			PageSize: f.PageSize,
		}, nil
	}

	result, err := s.txRepo.List(f)
	if err != nil {
		return nil, apperr.Store("list transactions", err)
	}
	result.Totals.Deposits = round2(result.Totals.Deposits)
	result.Totals.Withdrawals = round2(result.Totals.Withdrawals)
	result.Totals.Net = round2(result.Totals.Net)
	return result, nil
}

func (s *transactionService) InitialBalance(bankID *uuid.UUID, category model.Category) (*InitialBalanceResult, error) {
	tx, err := s.txRepo.FindInitialBalance(bankID, category)
	if err != nil {
		return nil, apperr.Store("find initial balance", err)
	}
	if tx == nil {
		return &InitialBalanceResult{HasInitialBalance: false}, nil
	}

	info := &InitialBalanceInfo{
		Amount: tx.Amount,
		Date:   tx.Date.Format("2006-01-02"),
	}
	if tx.Bank != nil {
		info.BankName = tx.Bank.Name
	}
	return &InitialBalanceResult{HasInitialBalance: true, InitialBalance: info}, nil
}
