package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Counterparty is a phone-identified party seen in transactions.
type Counterparty struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	Phone     string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name      string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Counterparty model.
func (Counterparty) TableName() string { return "counterparties" }

// BeforeCreate assigns a UUID primary key.
func (c *Counterparty) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Category is a business category referenced by transactions.
type Category struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	Name      string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Code      string `gorm:"type:varchar(8);not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string { return "categories" }

// BeforeCreate assigns a UUID primary key.
func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Transaction is one stored mobile-money transaction. DedupKey is unique
// and makes inserts idempotent.
type Transaction struct {
	ID       string `gorm:"type:varchar(36);primaryKey"`
	DedupKey string `gorm:"type:varchar(255);uniqueIndex;not null"`
	RunID    string `gorm:"type:varchar(36);index"`

	Kind      string              `gorm:"type:varchar(32);index;not null"`
	Direction string              `gorm:"type:varchar(8);not null"`
	Status    string              `gorm:"type:varchar(16);not null"`
	Amount    decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Currency  string              `gorm:"type:varchar(3);not null;default:'RWF'"`
	Fee       decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Balance   decimal.NullDecimal `gorm:"type:decimal(18,2)"`

	FineCategory       string  `gorm:"type:varchar(32)"`
	CategoryID         *string `gorm:"type:varchar(36);index"`
	CategoryConfidence float64
	Category           *Category `gorm:"foreignKey:CategoryID"`

	CounterpartyID    *string       `gorm:"type:varchar(36);index"`
	Counterparty      *Counterparty `gorm:"foreignKey:CounterpartyID"`
	CounterpartyName  *string       `gorm:"type:varchar(255)"`
	AgentOrBusinessID *string       `gorm:"type:varchar(64)"`

	TransactionID          *string `gorm:"type:varchar(64)"`
	FinancialTransactionID *string `gorm:"type:varchar(64)"`
	ExternalTransactionID  *string `gorm:"type:varchar(64);index"`

	OccurredAt   *time.Time `gorm:"index"`
	Confidence   float64
	OriginalText string `gorm:"type:text"`
	SourceFile   string `gorm:"type:varchar(1024)"`
	CreatedAt    time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string { return "transactions" }

// BeforeCreate assigns a UUID primary key.
func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// RunLog records the outcome of one archive-file run.
type RunLog struct {
	ID            string `gorm:"type:varchar(36);primaryKey"`
	RunID         string `gorm:"type:varchar(36);uniqueIndex;not null"`
	FilePath      string `gorm:"type:varchar(1024);index"`
	Status        string `gorm:"type:varchar(16);not null"`
	TotalMessages int
	Filtered      int
	Processed     int
	Written       int
	Duplicates    int
	Failed        int
	Unrecognized  int
	ErrorMessage  string `gorm:"type:text"`
	// ErrorSamples holds the first sampled per-message errors of the run.
	ErrorSamples datatypes.JSONSlice[string]
	StartedAt    time.Time
	FinishedAt   time.Time
	DurationMs   int64
}

// TableName specifies the table name for the RunLog model.
func (RunLog) TableName() string { return "run_logs" }

// BeforeCreate assigns a UUID primary key.
func (r *RunLog) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// FileRecord is the stored fingerprint of an archive file, keyed by
// (file name, absolute path).
type FileRecord struct {
	ID               string `gorm:"type:varchar(36);primaryKey"`
	FileName         string `gorm:"type:varchar(255);not null;uniqueIndex:idx_file_identity"`
	FilePath         string `gorm:"type:varchar(1024);not null;uniqueIndex:idx_file_identity"`
	FileSize         int64
	ContentHash      string `gorm:"type:varchar(64)"`
	RecordsProcessed int
	Status           string `gorm:"type:varchar(16);index"`
	ErrorMessage     string `gorm:"type:text"`
	LastProcessedAt  time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for the FileRecord model.
func (FileRecord) TableName() string { return "file_records" }

// BeforeCreate assigns a UUID primary key.
func (f *FileRecord) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// AllModels lists the tables in migration order.
func AllModels() []interface{} {
	return []interface{}{&Counterparty{}, &Category{}, &Transaction{}, &RunLog{}, &FileRecord{}}
}
