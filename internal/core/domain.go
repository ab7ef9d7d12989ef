package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

type (
	// Kind tags a transaction as an expense or an income. It determines
	// the amount sign, the endpoint used for create/delete, and how the
	// category field is interpreted.
	Kind string

	// Transaction is the normalized, display-ready union of the two
	// backend record kinds. ID is prefixed with the kind so that the
	// merged expense+income set never contains duplicates; OriginalID
	// keeps the backend id needed for kind-specific delete calls.
	Transaction struct {
		ID          string
		OriginalID  int64
		Kind        Kind
		Date        time.Time
		Description string
		Category    string
		Amount      Money // expenses negative, incomes positive
		Icon        string
	}

	// Category as served by the categories endpoint. IsMine distinguishes
	// a user's own category from a global/shared one.
	Category struct {
		ID     int64
		Name   string
		Color  string
		Icon   string
		IsMine bool
	}

	// Budget is created via form submission and never edited client-side.
	Budget struct {
		MonthName string
		Month     int
		Year      int
		Amount    Money
	}

	// Credentials are transient and never persisted.
	Credentials struct {
		Email    string
		Password string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrEmptyCategory = errors.New("category cannot be empty")
	ErrInvalidKind   = errors.New("invalid transaction kind")

	ErrMissingCredentials = errors.New("please enter both email and password")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Normalize trims both fields. The backend also trims, but validation has
// to see the same values that go over the wire.
func (c Credentials) Normalize() Credentials {
	return Credentials{
		Email:    strings.TrimSpace(c.Email),
		Password: strings.TrimSpace(c.Password),
	}
}

// Validate fails fast before any network call is made.
func (c Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	if !emailRe.MatchString(c.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func (k Kind) Validate() error {
	switch k {
	case KindExpense, KindIncome:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidKind, k)
}

// NormalizedID builds the merged-list id for a backend record.
func NormalizedID(kind Kind, originalID int64) string {
	return fmt.Sprintf("%s-%d", kind, originalID)
}

// SplitNormalizedID is the inverse of NormalizedID. Delete calls hit
// kind-specific endpoints with the unprefixed backend id, so the merged id
// must never be sent to the server.
func SplitNormalizedID(id string) (Kind, int64, error) {
	idx := strings.LastIndex(id, "-")
	if idx <= 0 || idx == len(id)-1 {
		return "", 0, fmt.Errorf("malformed transaction id %q", id)
	}
	kind := Kind(id[:idx])
	if err := kind.Validate(); err != nil {
		return "", 0, err
	}
	n, err := strconv.ParseInt(id[idx+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed transaction id %q", id)
	}
	return kind, n, nil
}

func (b Budget) Validate() error {
	if b.Month < 1 || b.Month > 12 {
		return fmt.Errorf("invalid month: %d", b.Month)
	}
	if b.Year < 1900 || b.Year > 3000 {
		return fmt.Errorf("invalid year: %d", b.Year)
	}
	if b.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseDate parses the API's YYYY-MM-DD date format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// Capitalize upper-cases the first rune only, matching how income
// categories are displayed ("salary" -> "Salary").
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
