package account

import (
	"time"
)

// Type represents the type of a ledger account
type Type string

const (
	// Asset represents an asset account
	Asset Type = "asset"
	// Liability represents a liability account
	Liability Type = "liability"
	// Equity represents an equity account
	Equity Type = "equity"
	// Revenue represents a revenue account
	Revenue Type = "revenue"
	// Expense represents an expense account
	Expense Type = "expense"
)

// ValidType reports whether t is a known account type
func ValidType(t Type) bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a chart-of-accounts entry.
//
// Balance is a materialized aggregate, not a source of truth: it must always
// equal InitialBalance plus the fold of the account's transactions. Once a
// book has transactions referencing an account, direct balance edits are
// rejected by the service; the stored value only exists so list views render
// without a fold per row.
type Account struct {
	BookID      string  `json:"bookId" dynamodbav:"bookId"`
	AccountID   string  `json:"accountId" dynamodbav:"accountId"`
	Code        string  `json:"code" dynamodbav:"code"`
	Name        string  `json:"name" dynamodbav:"name"`
	AccountType Type    `json:"accountType" dynamodbav:"accountType"`
	Balance     float64 `json:"balance" dynamodbav:"balance"`
	// InitialBalance is the manual adjustment baseline for accounts opened
	// with an existing balance
	InitialBalance float64 `json:"initialBalance,omitempty" dynamodbav:"initialBalance"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`

	// DynamoDB specific attributes
	PK string `json:"-" dynamodbav:"-"`
	SK string `json:"-" dynamodbav:"-"`
}

// CreateAccountRequest represents the request to create a new account
type CreateAccountRequest struct {
	Code           string  `json:"code" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	AccountType    Type    `json:"accountType" validate:"required,oneof=asset liability equity revenue expense"`
	InitialBalance float64 `json:"initialBalance,omitempty"`
}

// UpdateAccountRequest represents the request to update an existing account.
// Balance is deliberately absent: it is derived.
type UpdateAccountRequest struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}
