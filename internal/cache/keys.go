package cache

import "fmt"

// Key builders. Every key is scoped by book so one tenant's writes never
// invalidate another's aggregates. Derived-aggregate keys share per-concern
// prefixes so coarse invalidation can sweep them without knowing which
// projects or accounts a transaction matched.

// TransactionsKey addresses the raw transaction list of a book
func TransactionsKey(bookID string) string {
	return fmt.Sprintf("transactions:%s", bookID)
}

// AccountsKey addresses the raw account list of a book
func AccountsKey(bookID string) string {
	return fmt.Sprintf("accounts:%s", bookID)
}

// ProjectsKey addresses the raw project list of a book
func ProjectsKey(bookID string) string {
	return fmt.Sprintf("projects:%s", bookID)
}

// BankAccountsKey addresses the raw bank account list of a book
func BankAccountsKey(bookID string) string {
	return fmt.Sprintf("bankaccounts:%s", bookID)
}

// ProjectStatsPrefix covers every per-project aggregate of a book
func ProjectStatsPrefix(bookID string) string {
	return fmt.Sprintf("projectstats:%s:", bookID)
}

// ProjectStatsKey addresses the aggregate of one project
func ProjectStatsKey(bookID, projectID string) string {
	return ProjectStatsPrefix(bookID) + projectID
}

// BankBalancePrefix covers every per-bank-account balance of a book
func BankBalancePrefix(bookID string) string {
	return fmt.Sprintf("bankbalance:%s:", bookID)
}

// BankBalanceKey addresses the reconciled balance of one bank account
func BankBalanceKey(bookID, bankAccountID string) string {
	return BankBalancePrefix(bookID) + bankAccountID
}

// AccountBalancePrefix covers every per-ledger-account balance of a book
func AccountBalancePrefix(bookID string) string {
	return fmt.Sprintf("acctbalance:%s:", bookID)
}

// AccountBalanceKey addresses the derived balance of one ledger account
func AccountBalanceKey(bookID, accountID string) string {
	return AccountBalancePrefix(bookID) + accountID
}

// ReportPrefix covers every composed report of a book
func ReportPrefix(bookID string) string {
	return fmt.Sprintf("report:%s:", bookID)
}

// ReportKey addresses one composed report (trial balance, P&L, ...)
func ReportKey(bookID, name string) string {
	return ReportPrefix(bookID) + name
}

// InvalidateTransactionWrite sweeps everything a transaction write can have
// touched. Project matching is data-dependent (fuzzy name and code-fragment
// rules), so the safe policy is coarse: the raw list plus every derived
// aggregate of the book.
func InvalidateTransactionWrite(c *Cache, bookID string) {
	c.Invalidate(TransactionsKey(bookID))
	c.InvalidatePrefix(ProjectStatsPrefix(bookID))
	c.InvalidatePrefix(BankBalancePrefix(bookID))
	c.InvalidatePrefix(AccountBalancePrefix(bookID))
	c.InvalidatePrefix(ReportPrefix(bookID))
}

// InvalidateAccountWrite sweeps caches derived from the account chart
func InvalidateAccountWrite(c *Cache, bookID string) {
	c.Invalidate(AccountsKey(bookID))
	c.InvalidatePrefix(AccountBalancePrefix(bookID))
	c.InvalidatePrefix(ReportPrefix(bookID))
}

// InvalidateProjectWrite sweeps caches derived from project definitions
func InvalidateProjectWrite(c *Cache, bookID string) {
	c.Invalidate(ProjectsKey(bookID))
	c.InvalidatePrefix(ProjectStatsPrefix(bookID))
	c.InvalidatePrefix(ReportPrefix(bookID))
}

// InvalidateBankAccountWrite sweeps caches derived from bank account settings
// (the initial balance feeds every reconciled balance)
func InvalidateBankAccountWrite(c *Cache, bookID string) {
	c.Invalidate(BankAccountsKey(bookID))
	c.InvalidatePrefix(BankBalancePrefix(bookID))
	c.InvalidatePrefix(ReportPrefix(bookID))
}
