package domain

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/planner/planner-web/internal/util"
	"github.com/shopspring/decimal"
)

// Date is a calendar date with no time of day.
// It decodes any ISO date or date-time (keeping the UTC day) and encodes as YYYY-MM-DD.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its parts
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the UTC calendar date of t
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{t: util.TruncateToUTCDate(t)}
}

// ParseDate parses an ISO date or date-time. An empty string yields the zero Date.
func ParseDate(value string) (Date, error) {
	if strings.TrimSpace(value) == "" {
		return Date{}, nil
	}
	t, err := util.ParseISODate(value)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %s", ErrInvalidDate, value)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) Year() int {
	return d.t.Year()
}

// String returns YYYY-MM-DD, or "" for the zero Date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalParam implements echo.BindUnmarshaler for form values
func (d *Date) UnmarshalParam(param string) error {
	parsed, err := ParseDate(param)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Amount is a monetary value or rate exchanged with the planner API as a JSON number.
// A JSON null decodes to zero.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps an integer value
func NewAmount(value int64) Amount {
	return Amount{Decimal: decimal.NewFromInt(value)}
}

// MustAmount parses value and panics on error. Intended for literals.
func MustAmount(value string) Amount {
	a, err := ParseAmount(value)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAmount parses a number typed by a user. A comma is accepted as the
// decimal separator, in which case dots are read as thousands separators.
func ParseAmount(value string) (Amount, error) {
	value = strings.TrimSpace(value)
	if strings.Contains(value, ",") {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.Replace(value, ",", ".", 1)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %s", ErrInvalidValue, value)
	}
	return Amount{Decimal: d}, nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

// UnmarshalParam implements echo.BindUnmarshaler for form values
func (a *Amount) UnmarshalParam(param string) error {
	parsed, err := ParseAmount(param)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// FormValue renders the amount for a number input
func (a Amount) FormValue() string {
	return a.Decimal.String()
}
