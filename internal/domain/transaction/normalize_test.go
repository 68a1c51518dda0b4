package transaction

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWellFormedRecord(t *testing.T) {
	tx, anomalies := Normalize(Record{
		"transactionId": "tx-1",
		"bookId":        "book1",
		"date":          "2025-03-14",
		"description":   "Vereinsheim Miete",
		"income":        0.0,
		"expense":       450.0,
		"status":        "COMPLETED",
		"accountId":     "a1",
		"projectId":     "p1",
		"category":      "rent",
		"createdAt":     "2025-03-14T09:30:00Z",
	})

	assert.Empty(t, anomalies)
	assert.Equal(t, "tx-1", tx.TransactionID)
	assert.Equal(t, "2025-03-14", tx.Date)
	assert.Equal(t, 450.0, tx.Expense)
	assert.Equal(t, StatusCompleted, tx.Status)
	assert.Equal(t, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), tx.CreatedAt)
}

func TestNormalizeStringAmounts(t *testing.T) {
	t.Run("plain numeric string", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"income": "120.50"})
		assert.Equal(t, 120.50, tx.Income)
		assertNoAnomalyFor(t, anomalies, "income")
	})

	t.Run("comma decimal separator from imports", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"expense": "12,50"})
		assert.Equal(t, 12.50, tx.Expense)
		assertNoAnomalyFor(t, anomalies, "expense")
	})

	t.Run("whitespace-only counts as absent", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"income": "   "})
		assert.Zero(t, tx.Income)
		assertNoAnomalyFor(t, anomalies, "income")
	})

	t.Run("garbage string is coerced to zero with an anomaly", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"transactionId": "tx-9", "income": "a lot"})
		assert.Zero(t, tx.Income)
		a := findAnomaly(t, anomalies, "income")
		assert.Equal(t, "tx-9", a.TransactionID)
		assert.Contains(t, a.Reason, "coerced to 0")
	})
}

func TestNormalizeNegativeLegFolding(t *testing.T) {
	t.Run("negative expense becomes income", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"expense": -30.0, "income": 100.0})
		assert.Equal(t, 130.0, tx.Income)
		assert.Zero(t, tx.Expense)
		findAnomaly(t, anomalies, "expense")
	})

	t.Run("negative income becomes expense", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"income": -25.0})
		assert.Equal(t, 25.0, tx.Expense)
		assert.Zero(t, tx.Income)
		findAnomaly(t, anomalies, "income")
	})
}

func TestNormalizeDate(t *testing.T) {
	t.Run("missing date defaults to epoch", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"transactionId": "tx-2"})
		assert.Equal(t, EpochDate, tx.Date)
		a := findAnomaly(t, anomalies, "date")
		assert.Contains(t, a.Reason, "missing date")
	})

	t.Run("unparseable date defaults to epoch", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"date": "14.03.2025"})
		assert.Equal(t, EpochDate, tx.Date)
		a := findAnomaly(t, anomalies, "date")
		assert.Contains(t, a.Reason, "unparseable")
	})

	t.Run("non-string date defaults to epoch", func(t *testing.T) {
		tx, _ := Normalize(Record{"date": 20250314})
		assert.Equal(t, EpochDate, tx.Date)
	})
}

func TestNormalizeStatus(t *testing.T) {
	t.Run("lowercase legacy status is upcased", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"status": "completed"})
		assert.Equal(t, StatusCompleted, tx.Status)
		assertNoAnomalyFor(t, anomalies, "status")
	})

	t.Run("unknown status defaults to draft with an anomaly", func(t *testing.T) {
		tx, anomalies := Normalize(Record{"status": "archived"})
		assert.Equal(t, StatusDraft, tx.Status)
		findAnomaly(t, anomalies, "status")
	})

	t.Run("absent status defaults to draft silently", func(t *testing.T) {
		tx, anomalies := Normalize(Record{})
		assert.Equal(t, StatusDraft, tx.Status)
		assertNoAnomalyFor(t, anomalies, "status")
	})
}

func TestNormalizeTimestamps(t *testing.T) {
	// Unparseable timestamps are metadata, not data quality issues
	tx, anomalies := Normalize(Record{
		"date":      "2025-01-01",
		"createdAt": "yesterday",
		"updatedAt": "2025-01-02T10:00:00.000000001Z",
	})
	assert.True(t, tx.CreatedAt.IsZero())
	assert.Equal(t, 1, tx.UpdatedAt.Nanosecond())
	assertNoAnomalyFor(t, anomalies, "createdAt")
	assertNoAnomalyFor(t, anomalies, "updatedAt")
}

func TestNormalizeAll(t *testing.T) {
	txs, anomalies := NormalizeAll([]Record{
		{"transactionId": "t1", "date": "2025-01-01", "income": 10.0},
		{"transactionId": "t2", "income": "broken"},
		{"transactionId": "t3", "date": "2025-01-03", "expense": "5,00"},
	})

	require.Len(t, txs, 3)
	assert.Equal(t, 10.0, txs[0].Income)
	assert.Zero(t, txs[1].Income)
	assert.Equal(t, 5.0, txs[2].Expense)

	// t2 contributes two anomalies: bad amount and missing date
	var forT2 int
	for _, a := range anomalies {
		if a.TransactionID == "t2" {
			forT2++
		}
	}
	assert.Equal(t, 2, forT2)
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"nil", nil, 0, true},
		{"float64", 99.5, 99.5, true},
		{"int", 7, 7, true},
		{"int64", int64(8), 8, true},
		{"empty string", "", 0, true},
		{"numeric string", "3.25", 3.25, true},
		{"comma string", "3,25", 3.25, true},
		{"garbage string", "abc", 0, false},
		{"NaN", math.NaN(), 0, false},
		{"positive infinity", math.Inf(1), 0, false},
		{"bool", true, 0, false},
		{"map", map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerceAmount(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func findAnomaly(t *testing.T, anomalies []Anomaly, field string) Anomaly {
	t.Helper()
	for _, a := range anomalies {
		if a.Field == field {
			return a
		}
	}
	t.Fatalf("expected an anomaly for field %q, got %v", field, anomalies)
	return Anomaly{}
}

func assertNoAnomalyFor(t *testing.T, anomalies []Anomaly, field string) {
	t.Helper()
	for _, a := range anomalies {
		if a.Field == field {
			t.Fatalf("unexpected anomaly for field %q: %v", field, a)
		}
	}
}
