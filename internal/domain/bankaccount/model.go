package bankaccount

import (
	"time"
)

// BankAccount represents a real-world bank account tracked by a book.
// InitialBalance is the only user-set number; the current balance is always
// recomputed as InitialBalance plus the net of the account's transactions and
// is never stored as ground truth.
type BankAccount struct {
	BookID         string  `json:"bookId" dynamodbav:"bookId"`
	BankAccountID  string  `json:"bankAccountId" dynamodbav:"bankAccountId"`
	Name           string  `json:"name" dynamodbav:"name"`
	InitialBalance float64 `json:"initialBalance" dynamodbav:"initialBalance"`
	Currency       string  `json:"currency" dynamodbav:"currency"`
	IsActive       bool    `json:"isActive" dynamodbav:"isActive"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`

	// DynamoDB specific attributes
	PK string `json:"-" dynamodbav:"-"`
	SK string `json:"-" dynamodbav:"-"`
}

// CreateBankAccountRequest represents the request to create a bank account
type CreateBankAccountRequest struct {
	Name           string  `json:"name" validate:"required"`
	InitialBalance float64 `json:"initialBalance"`
	Currency       string  `json:"currency" validate:"required"`
}

// UpdateBankAccountRequest represents the request to update a bank account
type UpdateBankAccountRequest struct {
	Name           *string  `json:"name,omitempty"`
	InitialBalance *float64 `json:"initialBalance,omitempty"`
	Currency       *string  `json:"currency,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
}
