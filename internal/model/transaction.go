package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
)

// Origin is the top-level partition of a transaction. It drives which
// ledger view (general banks, general cash or per-site) a movement
// belongs to.
type Origin string

const (
	OriginGeneralBanks Origin = "generalBanks"
	OriginGeneralCash  Origin = "generalCash"
	OriginSites        Origin = "sites"
)

type Category string

const (
	CategoryBanks          Category = "banks"
	CategoryCash           Category = "cash"
	CategoryPayroll        Category = "payroll"
	CategoryMachinery      Category = "machinery"
	CategoryFuel           Category = "fuel"
	CategoryInvoices       Category = "invoices"
	CategoryMaterials      Category = "materials"
	CategoryServices       Category = "services"
	CategoryAdministrative Category = "administrative"
	CategoryTaxes          Category = "taxes"
	CategoryOther          Category = "other"
)

type TransactionStatus string

const (
	StatusPaid    TransactionStatus = "paid"
	StatusPending TransactionStatus = "pending"
)

// PayrollMetadata describes a payroll payment on a site.
type PayrollMetadata struct {
	EmployeeName string     `json:"employee_name"`
	Position     string     `json:"position,omitempty"`
	PeriodStart  *time.Time `json:"period_start,omitempty"`
	PeriodEnd    *time.Time `json:"period_end,omitempty"`
}

// MachineryMetadata describes equipment usage billed to a site.
type MachineryMetadata struct {
	EquipmentID   string  `json:"equipment_id"`
	EquipmentType string  `json:"equipment_type,omitempty"`
	Hours         float64 `json:"hours,omitempty"`
	Operator      string  `json:"operator,omitempty"`
}

// FuelMetadata describes a fuel purchase for a site vehicle.
type FuelMetadata struct {
	Liters    float64 `json:"liters"`
	UnitPrice float64 `json:"unit_price,omitempty"`
	Vehicle   string  `json:"vehicle,omitempty"`
}

// InvoiceMetadata describes a provider invoice charged to a site.
type InvoiceMetadata struct {
	InvoiceNumber string     `json:"invoice_number"`
	Provider      string     `json:"provider,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	TaxAmount     float64    `json:"tax_amount,omitempty"`
}

// TransactionMetadata is a tagged union keyed by subcategory: at most one
// branch is set per transaction. Only meaningful for the sites origin.
type TransactionMetadata struct {
	Payroll   *PayrollMetadata   `json:"payroll,omitempty"`
	Machinery *MachineryMetadata `json:"machinery,omitempty"`
	Fuel      *FuelMetadata      `json:"fuel,omitempty"`
	Invoice   *InvoiceMetadata   `json:"invoice,omitempty"`
}

// Transaction is the central ledger entity. Deposits, Withdrawals and a
// missing TransactionOrigin are derived fields; the write path recomputes
// them through service.Classify before every persist.
type Transaction struct {
	BaseModel
	Concept string          `gorm:"type:varchar(500);not null" json:"concept" validate:"required"`
	Amount  float64         `gorm:"not null;default:0" json:"amount" validate:"gte=0"`
	Type    TransactionType `gorm:"type:varchar(20);not null;index" json:"type" validate:"required,oneof=deposit withdrawal"`
	Date    time.Time       `gorm:"type:date;not null;index:idx_tx_date" json:"date" validate:"required"`

	// Classification. TransactionOrigin is nullable on purpose: NULL marks a
	// legacy record the consistency migration has not repaired yet.
	TransactionOrigin *Origin  `gorm:"type:varchar(20);index" json:"transaction_origin,omitempty" validate:"omitempty,oneof=generalBanks generalCash sites"`
	Category          Category `gorm:"type:varchar(20);not null;index" json:"category" validate:"required,oneof=banks cash payroll machinery fuel invoices materials services administrative taxes other"`
	SubCategory       string   `gorm:"type:varchar(50)" json:"sub_category,omitempty"`
	Metadata          *datatypes.JSONType[TransactionMetadata] `gorm:"type:jsonb" json:"metadata,omitempty"`

	// References. BankName/CorporateName carry free-text bank identity for
	// site-scoped bank spending that has no formal Bank row.
	BankID        *uuid.UUID `gorm:"type:uuid;index" json:"bank_id,omitempty"`
	Bank          *Bank      `gorm:"foreignKey:BankID" json:"bank,omitempty" validate:"-"`
	BankName      string     `gorm:"type:varchar(255)" json:"bank_name,omitempty"`
	CorporateName string     `gorm:"column:corporate_name;type:varchar(255)" json:"corporate_name,omitempty"`
	SiteID        *uuid.UUID `gorm:"type:uuid;index" json:"site_id,omitempty"`
	Site          *Site      `gorm:"foreignKey:SiteID" json:"site,omitempty" validate:"-"`

	// Derived display fields, mechanically equal to Amount on the side
	// selected by Type. Never independently settable.
	Deposits    float64 `gorm:"not null;default:0" json:"deposits"`
	Withdrawals float64 `gorm:"not null;default:0" json:"withdrawals"`

	// Bookkeeping
	Key    string            `gorm:"type:varchar(50)" json:"key,omitempty"`
	Check  string            `gorm:"column:check_number;type:varchar(50)" json:"check,omitempty"`
	Status TransactionStatus `gorm:"type:varchar(10);not null;default:'pending'" json:"status" validate:"omitempty,oneof=paid pending"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// MetadataValue unwraps the stored JSONB union, nil-safe.
func (t *Transaction) MetadataValue() *TransactionMetadata {
	if t.Metadata == nil {
		return nil
	}
	data := t.Metadata.Data()
	return &data
}

// NewMetadata wraps a metadata union for storage.
func NewMetadata(m TransactionMetadata) *datatypes.JSONType[TransactionMetadata] {
	wrapped := datatypes.NewJSONType(m)
	return &wrapped
}
