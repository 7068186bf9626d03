package core

import "time"

// ISODate is the canonical serialization for dates. The source variants
// disagreed (ISO vs day-first); everything is normalized to ISO at the
// store boundary and legacy day-first values are still accepted on read.
const (
	ISODate        = "2006-01-02"
	legacyDayFirst = "02/01/2006"
)

// Date is a calendar date with no time component.
type Date struct {
	time.Time
}

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date, the default for blank entry dates.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate accepts the canonical ISO form, the legacy day-first form, and
// ISO values carrying a time component (the GUI variant wrote those).
func ParseDate(s string) (Date, error) {
	for _, layout := range []string{ISODate, legacyDayFirst, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return Date{}, ErrInvalidDate
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the canonical ISO form.
func (d Date) String() string {
	return d.Format(ISODate)
}

func (d Date) Year() int  { return d.Time.Year() }
func (d Date) Month() int { return int(d.Time.Month()) }
func (d Date) Day() int   { return d.Time.Day() }

func (d Date) SameDay(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month() && d.Day() == o.Day()
}
