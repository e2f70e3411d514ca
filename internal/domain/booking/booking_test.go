package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

func persisted(id, roomID int64, r DateRange, status BookingStatus) *Booking {
	now := time.Now().UTC()
	return ReconstructBooking(id, 1, roomID, r, status, ArrivalNotArrived, now, now)
}

func TestNewBooking_Defaults(t *testing.T) {
	b, err := NewBooking(3, 101, rng("2024-05-01", "2024-05-03"), "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.ID())
	assert.Equal(t, StatusPending, b.Status())
	assert.Equal(t, ArrivalNotArrived, b.ArrivalStatus())
	assert.True(t, b.IsActive())

	arrived, err := NewBooking(3, 101, rng("2024-05-01", "2024-05-03"), StatusPending, ArrivalArrived)
	require.NoError(t, err)
	assert.Equal(t, ArrivalArrived, arrived.ArrivalStatus())
}

func TestNewBooking_Validation(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		roomID  int64
		dates   DateRange
		status  BookingStatus
		arrival ArrivalStatus
		kind    apperror.Kind
	}{
		{"missing user", 0, 101, rng("2024-05-01", "2024-05-03"), "", "", apperror.KindValidation},
		{"missing room", 3, 0, rng("2024-05-01", "2024-05-03"), "", "", apperror.KindValidation},
		{"inverted range", 3, 101, rng("2024-05-03", "2024-05-01"), "", "", apperror.KindValidation},
		{"created cancelled", 3, 101, rng("2024-05-01", "2024-05-03"), StatusCancelled, "", apperror.KindValidation},
		{"unknown status", 3, 101, rng("2024-05-01", "2024-05-03"), "Booked", "", apperror.KindValidation},
		{"unknown arrival", 3, 101, rng("2024-05-01", "2024-05-03"), StatusPending, "Checked In", apperror.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBooking(tt.userID, tt.roomID, tt.dates, tt.status, tt.arrival)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusPending))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())

	_, err := ParseBookingStatus("Booked")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	s, err := ParseBookingStatus("Confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	a, err := ParseArrivalStatus("Not Arrived")
	require.NoError(t, err)
	assert.Equal(t, ArrivalNotArrived, a)
}

func TestApply_StatusTransitions(t *testing.T) {
	r := rng("2024-05-01", "2024-05-03")

	confirmed, err := persisted(1, 101, r, StatusPending).Apply(StatusPatch(StatusConfirmed))
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status())

	_, err = confirmed.Apply(StatusPatch(StatusPending))
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))

	cancelled, err := confirmed.Apply(CancelPatch())
	require.NoError(t, err)
	assert.False(t, cancelled.IsActive())

	_, err = cancelled.Apply(StatusPatch(StatusConfirmed))
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))

	again, err := cancelled.Apply(CancelPatch())
	require.NoError(t, err, "repeating the current status is not a transition")
	assert.Equal(t, StatusCancelled, again.Status())
}

func TestApply_LeavesReceiverUntouched(t *testing.T) {
	current := persisted(1, 101, rng("2024-05-01", "2024-05-03"), StatusPending)
	room := int64(202)
	next, err := current.Apply(Patch{RoomID: &room})
	require.NoError(t, err)
	assert.Equal(t, int64(101), current.RoomID())
	assert.Equal(t, int64(202), next.RoomID())
	assert.True(t, current.NeedsConflictCheck(next))
}

func TestApply_RangeValidation(t *testing.T) {
	current := persisted(1, 101, rng("2024-05-01", "2024-05-03"), StatusPending)
	in := day("2024-05-05")
	_, err := current.Apply(Patch{CheckIn: &in})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestApply_Arrival(t *testing.T) {
	arrived := ArrivalArrived
	r := rng("2024-05-01", "2024-05-03")

	notArrived := ArrivalNotArrived

	pending := persisted(1, 101, r, StatusPending)
	arrivedPending, err := pending.Apply(Patch{ArrivalStatus: &arrived})
	require.NoError(t, err)
	assert.Equal(t, ArrivalArrived, arrivedPending.ArrivalStatus())
	assert.Equal(t, StatusPending, arrivedPending.Status())

	back, err := arrivedPending.Apply(Patch{ArrivalStatus: &notArrived})
	require.NoError(t, err)
	assert.Equal(t, ArrivalNotArrived, back.ArrivalStatus())

	current := persisted(1, 101, r, StatusConfirmed)
	next, err := current.Apply(Patch{ArrivalStatus: &arrived})
	require.NoError(t, err)
	assert.Equal(t, ArrivalArrived, next.ArrivalStatus())
	assert.False(t, current.NeedsConflictCheck(next), "arrival-only change never re-checks")

	cancelled, err := next.Apply(CancelPatch())
	require.NoError(t, err)
	assert.Equal(t, ArrivalArrived, cancelled.ArrivalStatus())
}

func TestNeedsConflictCheck(t *testing.T) {
	r := rng("2024-05-01", "2024-05-03")
	current := persisted(1, 101, r, StatusPending)

	same, err := current.Apply(Patch{CheckIn: &r.CheckIn, CheckOut: &r.CheckOut})
	require.NoError(t, err)
	assert.False(t, current.NeedsConflictCheck(same))

	out := day("2024-05-04")
	longer, err := current.Apply(Patch{CheckOut: &out})
	require.NoError(t, err)
	assert.True(t, current.NeedsConflictCheck(longer))

	cancelled := StatusCancelled
	movedAndCancelled, err := current.Apply(Patch{CheckOut: &out, BookingStatus: &cancelled})
	require.NoError(t, err)
	assert.False(t, current.NeedsConflictCheck(movedAndCancelled))
}

func TestChange(t *testing.T) {
	r := rng("2024-05-01", "2024-05-03")
	cancelled := StatusCancelled
	arrived := ArrivalArrived
	current := persisted(1, 101, r, StatusCancelled)

	again, err := current.Apply(Patch{BookingStatus: &cancelled})
	require.NoError(t, err)
	c := Change{Before: current, After: again}
	assert.False(t, c.StatusChanged())
	assert.False(t, c.Changed())

	checkedIn, err := current.Apply(Patch{ArrivalStatus: &arrived})
	require.NoError(t, err)
	c = Change{Before: current, After: checkedIn}
	assert.False(t, c.StatusChanged())
	assert.True(t, c.Changed())

	pending := persisted(1, 101, r, StatusPending)
	c = Change{Before: pending, After: current}
	assert.True(t, c.StatusChanged())
	assert.True(t, c.Changed())
}

func TestDetectConflicts(t *testing.T) {
	existing := []*Booking{
		persisted(9, 101, rng("2024-05-02", "2024-05-04"), StatusConfirmed),
		persisted(7, 101, rng("2024-05-01", "2024-05-03"), StatusPending),
		persisted(8, 101, rng("2024-05-01", "2024-05-03"), StatusCancelled),
		persisted(10, 101, rng("2024-05-03", "2024-05-05"), StatusPending),
	}
	candidate := rng("2024-05-01", "2024-05-03")

	conflicts := DetectConflicts(candidate, existing, 0)
	require.Len(t, conflicts, 2)
	assert.Equal(t, int64(7), conflicts[0].ID())
	assert.Equal(t, int64(9), conflicts[1].ID())

	conflicts = DetectConflicts(candidate, existing, 7)
	require.Len(t, conflicts, 1)
	assert.Equal(t, int64(9), conflicts[0].ID())

	assert.Empty(t, DetectConflicts(rng("2024-06-01", "2024-06-02"), existing, 0))
}

func TestConflictError_Details(t *testing.T) {
	err := NewConflictError(101, rng("2024-05-02", "2024-05-03"), []*Booking{
		persisted(7, 101, rng("2024-05-01", "2024-05-03"), StatusPending),
		persisted(9, 101, rng("2024-05-02", "2024-05-04"), StatusConfirmed),
	})

	assert.Equal(t, "room already booked for these dates", err.Error())
	assert.Equal(t,
		"Conflicts with: Booking #7 (2024-05-01 to 2024-05-03), Booking #9 (2024-05-02 to 2024-05-04)",
		err.Details())
	assert.Equal(t, []int64{7, 9}, err.BookingIDs())
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, err.Details(), apperror.DetailsOf(err))
}
