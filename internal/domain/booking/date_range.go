package booking

import (
	"fmt"
	"time"

	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

// DateLayout is the wire and display format of check-in/check-out dates.
const DateLayout = "2006-01-02"

// DateRange is a half-open stay [CheckIn, CheckOut). A check-out on day D and a
// check-in on day D do not overlap.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewDateRange truncates both ends to calendar dates (UTC) and rejects empty or inverted ranges.
func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	r := DateRange{CheckIn: DateOf(checkIn), CheckOut: DateOf(checkOut)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// ParseDateRange parses two YYYY-MM-DD dates into a DateRange.
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return DateRange{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(in, out)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return t, nil
}

// Validate enforces check_in < check_out.
func (r DateRange) Validate() error {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return apperror.NewValidationError("check_in and check_out are required")
	}
	if !r.CheckIn.Before(r.CheckOut) {
		return apperror.NewValidationError(fmt.Sprintf(
			"check_in (%s) must be before check_out (%s)",
			r.CheckIn.Format(DateLayout), r.CheckOut.Format(DateLayout)))
	}
	return nil
}

// Equal reports whether both ends fall on the same calendar dates.
func (r DateRange) Equal(other DateRange) bool {
	return DateOf(r.CheckIn).Equal(DateOf(other.CheckIn)) && DateOf(r.CheckOut).Equal(DateOf(other.CheckOut))
}

// Nights returns the number of nights covered by the stay.
func (r DateRange) Nights() int {
	return int(DateOf(r.CheckOut).Sub(DateOf(r.CheckIn)).Hours() / 24)
}

// String renders the range as "2024-05-01 to 2024-05-03".
func (r DateRange) String() string {
	return r.CheckIn.Format(DateLayout) + " to " + r.CheckOut.Format(DateLayout)
}

// Overlaps reports whether two half-open ranges share at least one night.
func Overlaps(a, b DateRange) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
