package transaction

import (
	"strconv"
	"time"
)

// Status represents the posting status of a transaction
type Status string

const (
	// StatusDraft marks a transaction that is still being edited
	StatusDraft Status = "DRAFT"
	// StatusPending marks a transaction awaiting confirmation (e.g. bank clearing)
	StatusPending Status = "PENDING"
	// StatusCompleted marks a posted, immutable-by-convention transaction
	StatusCompleted Status = "COMPLETED"
)

// ValidStatus reports whether s is one of the known posting statuses
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPending, StatusCompleted:
		return true
	}
	return false
}

// Transaction represents a financial event in a book. Amounts are split into
// non-negative expense and income legs rather than one signed number; by
// convention only one leg is nonzero, but consumers must net the two when both
// are present.
type Transaction struct {
	TransactionID string    `json:"transactionId" dynamodbav:"transactionId"`
	BookID        string    `json:"bookId" dynamodbav:"bookId"`
	Date          string    `json:"date" dynamodbav:"date"` //YYYY-MM-DD
	Description   string    `json:"description" dynamodbav:"description"`
	Expense       float64   `json:"expense" dynamodbav:"expense"`
	Income        float64   `json:"income" dynamodbav:"income"`
	Status        Status    `json:"status" dynamodbav:"status"`
	BankAccountID string    `json:"bankAccountId,omitempty" dynamodbav:"bankAccountId,omitempty"`
	AccountID     string    `json:"accountId,omitempty" dynamodbav:"accountId,omitempty"`
	ProjectID     string    `json:"projectId,omitempty" dynamodbav:"projectId,omitempty"`
	ProjectName   string    `json:"projectName,omitempty" dynamodbav:"projectName,omitempty"`
	Category      string    `json:"category,omitempty" dynamodbav:"category,omitempty"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Net returns the signed amount of the transaction (income minus expense)
func (t *Transaction) Net() float64 {
	return t.Income - t.Expense
}

func (t *Transaction) Year() string {
	if len(t.Date) < 4 {
		return ""
	}
	year, _ := strconv.Atoi(t.Date[:4])
	return strconv.Itoa(year)
}

// CreateTransactionRequest represents the data needed to create a transaction
type CreateTransactionRequest struct {
	TransactionID string  `json:"transactionId"`
	BookID        string  `json:"bookId"`
	Date          string  `json:"date"` //YYYY-MM-DD
	Description   string  `json:"description"`
	Expense       float64 `json:"expense"`
	Income        float64 `json:"income"`
	Status        Status  `json:"status"`
	BankAccountID string  `json:"bankAccountId,omitempty"`
	AccountID     string  `json:"accountId,omitempty"`
	ProjectID     string  `json:"projectId,omitempty"`
	ProjectName   string  `json:"projectName,omitempty"`
	Category      string  `json:"category,omitempty"`
}

// UpdateTransactionRequest represents a partial update to a transaction.
// Nil pointer fields are left unchanged.
type UpdateTransactionRequest struct {
	Date          *string  `json:"date,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Expense       *float64 `json:"expense,omitempty"`
	Income        *float64 `json:"income,omitempty"`
	Status        *Status  `json:"status,omitempty"`
	BankAccountID *string  `json:"bankAccountId,omitempty"`
	AccountID     *string  `json:"accountId,omitempty"`
	ProjectID     *string  `json:"projectId,omitempty"`
	ProjectName   *string  `json:"projectName,omitempty"`
	Category      *string  `json:"category,omitempty"`
}

// Filter represents the server-side filtering criteria for transaction queries.
// Zero values mean "no constraint on this field".
type Filter struct {
	Status        Status
	StartDate     string // YYYY-MM-DD inclusive
	EndDate       string // YYYY-MM-DD inclusive
	Search        string // case-insensitive substring of the description
	ProjectID     string
	BankAccountID string
	Category      string
}

// IsZero reports whether the filter constrains anything
func (f *Filter) IsZero() bool {
	return f == nil || *f == Filter{}
}

// Sort describes the requested ordering of a transaction query
type Sort struct {
	Field     string // only "date" is recognized
	Ascending bool
}

// DefaultSort is chronological ascending, the order running balances are defined over
func DefaultSort() Sort {
	return Sort{Field: "date", Ascending: true}
}
