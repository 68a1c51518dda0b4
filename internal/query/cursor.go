package query

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clubledger/backend/internal/domain/transaction"
)

// Cursor is the decoded form of a pagination token: the store position to
// resume from, plus the signature of the filter/sort combination it was
// produced under. A cursor is only honored when the signature of the next
// request matches; anything else resets to the first page.
type Cursor struct {
	StartKey  string `json:"k"`
	Signature string `json:"s"`
}

// Encode serializes a cursor into an opaque token
func Encode(c Cursor) string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses an opaque token back into a cursor
func Decode(token string) (Cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("malformed cursor token: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("malformed cursor token: %w", err)
	}
	return c, nil
}

// Signature produces the canonical fingerprint of a filter/sort combination.
// Two requests share a signature exactly when a cursor may flow between them.
func Signature(filter *transaction.Filter, sort transaction.Sort) string {
	f := filter
	if f == nil {
		f = &transaction.Filter{}
	}
	dir := "desc"
	if sort.Ascending {
		dir = "asc"
	}
	return strings.Join([]string{
		string(f.Status),
		f.StartDate,
		f.EndDate,
		f.Search,
		f.ProjectID,
		f.BankAccountID,
		f.Category,
		sort.Field,
		dir,
	}, "|")
}
