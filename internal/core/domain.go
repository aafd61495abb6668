package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO 8601 calendar date layout used for every stored date.
const DateLayout = "2006-01-02"

// Categories offered by the presentation layer. The ledger only ever sees the
// resolved category string.
const (
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
	CategoryEntertainment  = "Entertainment"
	CategoryOther          = "Other"
)

// Categories lists the fixed choices in display order.
var Categories = []string{CategoryFood, CategoryTransportation, CategoryEntertainment, CategoryOther}

// IsCategory reports whether name is one of the fixed choices.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a committed ledger record. It is never mutated in place.
	Expense struct {
		ID       string
		Date     Date
		Category string
		Amount   Money
	}

	// Draft is a candidate expense as entered by the user, before validation.
	Draft struct {
		Date     string
		Category string
		Amount   float64
	}
)

var (
	ErrEmptyDate     = errors.New("empty date")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrOtherCategory = errors.New("custom category required when Other is selected")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "YYYY-MM-DD" string. Out of range values such as
// "2024-02-30" are rejected.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrEmptyDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrEmptyDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxCents {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// NewDraft returns an empty draft dated today.
func NewDraft(now time.Time) Draft {
	return Draft{Date: Today(now).String()}
}

// ResolveCategory maps a selected category and the free-text override to the
// category stored on the record. The override is used only for Other.
func ResolveCategory(selected, other string) (string, error) {
	selected = strings.TrimSpace(selected)
	if selected != CategoryOther {
		return selected, nil
	}
	other = strings.TrimSpace(other)
	if other == "" {
		return "", ErrOtherCategory
	}
	return other, nil
}

// Expense validates the draft and converts it into a record with a fresh id.
func (d Draft) Expense() (Expense, error) {
	date, err := ParseDate(d.Date)
	if err != nil {
		return Expense{}, err
	}
	e := Expense{
		ID:       uuid.NewString(),
		Date:     date,
		Category: strings.TrimSpace(d.Category),
		Amount:   FromFloat(d.Amount),
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}
