package booking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotel-booking/service-booking/internal/platform/apperror"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rng(in, out string) DateRange {
	return DateRange{CheckIn: day(in), CheckOut: day(out)}
}

func TestNewDateRange_RejectsEmptyAndInverted(t *testing.T) {
	_, err := NewDateRange(day("2024-05-03"), day("2024-05-03"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = NewDateRange(day("2024-05-04"), day("2024-05-03"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = NewDateRange(time.Time{}, day("2024-05-03"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestNewDateRange_TruncatesToDate(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	r, err := NewDateRange(
		time.Date(2024, 5, 1, 18, 30, 0, 0, loc),
		time.Date(2024, 5, 3, 9, 0, 0, 0, loc),
	)
	require.NoError(t, err)
	assert.Equal(t, day("2024-05-01"), r.CheckIn)
	assert.Equal(t, day("2024-05-03"), r.CheckOut)
	assert.Equal(t, 2, r.Nights())
	assert.Equal(t, "2024-05-01 to 2024-05-03", r.String())
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-05-01", "2024-05-03")
	require.NoError(t, err)
	assert.True(t, r.Equal(rng("2024-05-01", "2024-05-03")))

	_, err = ParseDateRange("05/01/2024", "2024-05-03")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestOverlaps_Cases(t *testing.T) {
	tests := []struct {
		name string
		a, b DateRange
		want bool
	}{
		{"same range", rng("2024-05-01", "2024-05-03"), rng("2024-05-01", "2024-05-03"), true},
		{"partial tail", rng("2024-05-01", "2024-05-03"), rng("2024-05-02", "2024-05-04"), true},
		{"containment", rng("2024-05-01", "2024-05-10"), rng("2024-05-03", "2024-05-04"), true},
		{"same-day turnover", rng("2024-05-01", "2024-05-03"), rng("2024-05-03", "2024-05-05"), false},
		{"disjoint", rng("2024-05-01", "2024-05-03"), rng("2024-06-01", "2024-06-03"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
		})
	}
}

func randomRange(r *rand.Rand) DateRange {
	base := day("2024-01-01")
	start := r.Intn(60)
	length := 1 + r.Intn(10)
	return DateRange{
		CheckIn:  base.AddDate(0, 0, start),
		CheckOut: base.AddDate(0, 0, start+length),
	}
}

func TestOverlaps_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		a, b := randomRange(r), randomRange(r)

		assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "symmetry %s / %s", a, b)
		assert.True(t, Overlaps(a, a), "reflexivity %s", a)

		adjacent := DateRange{CheckIn: a.CheckOut, CheckOut: a.CheckOut.AddDate(0, 0, 1+r.Intn(5))}
		assert.False(t, Overlaps(a, adjacent), "adjacency %s / %s", a, adjacent)

		if a.Nights() > 2 {
			inner := DateRange{CheckIn: a.CheckIn.AddDate(0, 0, 1), CheckOut: a.CheckOut.AddDate(0, 0, -1)}
			assert.True(t, Overlaps(a, inner), "containment %s / %s", a, inner)
		}
	}
}
