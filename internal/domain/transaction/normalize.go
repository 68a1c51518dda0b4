package transaction

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// EpochDate is the fallback for records missing a usable calendar date
const EpochDate = "1970-01-01"

// Record is a raw, loosely-typed transaction document as persisted by older
// clients of the store: amounts may be strings or numbers, fields may be
// missing entirely. Records are normalized exactly once, at the store-adapter
// boundary, so the aggregation engine only ever sees well-typed values.
type Record map[string]any

// Anomaly describes a field that could not be taken at face value during
// normalization. Anomalies never fail a read; they feed the data-quality
// surface so dashboards can flag malformed history while still rendering.
type Anomaly struct {
	TransactionID string `json:"transactionId"`
	Field         string `json:"field"`
	Reason        string `json:"reason"`
}

// Normalize converts a raw store record into a well-typed Transaction,
// defaulting every malformed or absent numeric field to 0 and a missing date
// to the epoch. The returned anomalies list what was coerced.
func Normalize(rec Record) (Transaction, []Anomaly) {
	var anomalies []Anomaly

	tx := Transaction{
		TransactionID: str(rec, "transactionId"),
		BookID:        str(rec, "bookId"),
		Description:   str(rec, "description"),
		BankAccountID: str(rec, "bankAccountId"),
		AccountID:     str(rec, "accountId"),
		ProjectID:     str(rec, "projectId"),
		ProjectName:   str(rec, "projectName"),
		Category:      str(rec, "category"),
	}

	report := func(field, reason string) {
		anomalies = append(anomalies, Anomaly{
			TransactionID: tx.TransactionID,
			Field:         field,
			Reason:        reason,
		})
	}

	var ok bool
	if tx.Expense, ok = coerceAmount(rec["expense"]); !ok {
		report("expense", fmt.Sprintf("non-numeric amount %v coerced to 0", rec["expense"]))
	}
	if tx.Income, ok = coerceAmount(rec["income"]); !ok {
		report("income", fmt.Sprintf("non-numeric amount %v coerced to 0", rec["income"]))
	}
	if tx.Expense < 0 {
		report("expense", "negative expense folded into income")
		tx.Income += -tx.Expense
		tx.Expense = 0
	}
	if tx.Income < 0 {
		report("income", "negative income folded into expense")
		tx.Expense += -tx.Income
		tx.Income = 0
	}

	tx.Date = str(rec, "date")
	if !validISODate(tx.Date) {
		if tx.Date != "" {
			report("date", fmt.Sprintf("unparseable date %q defaulted to epoch", tx.Date))
		} else {
			report("date", "missing date defaulted to epoch")
		}
		tx.Date = EpochDate
	}

	status := Status(strings.ToUpper(str(rec, "status")))
	if !ValidStatus(status) {
		if status != "" {
			report("status", fmt.Sprintf("unknown status %q defaulted to DRAFT", status))
		}
		status = StatusDraft
	}
	tx.Status = status

	// Timestamps are metadata; unparseable ones stay zero without an anomaly
	tx.CreatedAt = parseTimestamp(str(rec, "createdAt"))
	tx.UpdatedAt = parseTimestamp(str(rec, "updatedAt"))

	return tx, anomalies
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NormalizeAll normalizes a batch of records, concatenating their anomalies
func NormalizeAll(recs []Record) ([]Transaction, []Anomaly) {
	txs := make([]Transaction, 0, len(recs))
	var anomalies []Anomaly
	for _, rec := range recs {
		tx, a := Normalize(rec)
		txs = append(txs, tx)
		anomalies = append(anomalies, a...)
	}
	return txs, anomalies
}

// coerceAmount converts a loosely-typed amount to float64. The second return
// is false when the value was present but unusable.
func coerceAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, true
		}
		// Tolerate comma decimal separators from imported data
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func str(rec Record, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}

func validISODate(date string) bool {
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return false
	}
	for i, c := range date {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
