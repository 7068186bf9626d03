package core

import (
	"errors"
	"strings"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type (
	// Kind classifies a transaction. The lowercase form is canonical and is
	// what the record store persists; ParseKind normalizes at the boundary.
	Kind string

	// Transaction is one ledger entry. ID is assigned by the store at append
	// time and is stable for the lifetime of the backing file; it is not part
	// of the persisted CSV schema.
	Transaction struct {
		ID          int64
		Kind        Kind
		Category    string
		Amount      Money
		Date        Date
		Description string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingKind     = errors.New("missing transaction kind")
	ErrMissingCategory = errors.New("missing category")
	ErrInvalidDate     = errors.New("invalid date")
)

// ParseKind canonicalizes a kind label. The source variants disagree on
// casing ("Income" vs "income"), so any case is accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return KindIncome, nil
	case "expense":
		return KindExpense, nil
	case "":
		return "", ErrMissingKind
	default:
		return "", errors.New("unknown transaction kind: " + s)
	}
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Title returns the display form of the kind ("Income"/"Expense").
func (k Kind) Title() string {
	if len(k) == 0 {
		return ""
	}
	return strings.ToUpper(string(k[0])) + string(k[1:])
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrMissingKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrMissingCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// FieldMatcher selects transactions by full field equality, the legacy
// deletion rule. It matches every duplicate, which is the documented
// behavior of the original record format, not something to paper over.
type FieldMatcher struct {
	Kind        Kind
	Category    string
	Amount      Money
	Date        Date
	Description string
}

func (m FieldMatcher) Matches(t Transaction) bool {
	return t.Kind == m.Kind &&
		t.Category == m.Category &&
		t.Amount.Cents == m.Amount.Cents &&
		t.Date.SameDay(m.Date) &&
		t.Description == m.Description
}

// MatcherFor builds the matcher that selects records equal to t.
func MatcherFor(t Transaction) FieldMatcher {
	return FieldMatcher{
		Kind:        t.Kind,
		Category:    t.Category,
		Amount:      t.Amount,
		Date:        t.Date,
		Description: t.Description,
	}
}
