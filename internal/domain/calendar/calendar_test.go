package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYM(t *testing.T) {
	assert.Equal(t, "2024-03", YM(Date(2024, time.March, 9)))
	assert.Equal(t, "0999-12", YM(Date(999, time.December, 31)))
}

func TestParseYM(t *testing.T) {
	tests := []struct {
		in        string
		wantYear  int
		wantMonth int
		wantOK    bool
	}{
		{"2024-01", 2024, 1, true},
		{"2024-12", 2024, 12, true},
		{"2024-13", 0, 0, false},
		{"2024-00", 0, 0, false},
		{"2024-1", 0, 0, false},
		{"2024/01", 0, 0, false},
		{"2024-01-05", 0, 0, false},
		{"", 0, 0, false},
		{"garbage", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			y, m, ok := ParseYM(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantMonth, m)
		})
	}
}

func TestParseYMD(t *testing.T) {
	t.Run("valid date with surrounding whitespace", func(t *testing.T) {
		d, ok := ParseYMD("  2024-02-29\n")
		require.True(t, ok)
		assert.Equal(t, Date(2024, time.February, 29), d)
	})

	t.Run("rejects impossible calendar dates", func(t *testing.T) {
		for _, s := range []string{"2024-02-30", "2023-02-29", "2024-04-31", "2024-13-01", "2024-00-10"} {
			_, ok := ParseYMD(s)
			assert.False(t, ok, s)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "   ", "2024-1-5", "01/02/2024", "2024-01-01T00:00:00Z", "tomorrow"} {
			_, ok := ParseYMD(s)
			assert.False(t, ok, s)
		}
	})

	t.Run("left inverse of formatting", func(t *testing.T) {
		d := Date(2020, time.January, 1)
		for i := 0; i < 1500; i++ {
			parsed, ok := ParseYMD(FormatYMD(d))
			require.True(t, ok)
			require.Equal(t, d, parsed)
			d = d.AddDate(0, 0, 1)
		}
	})
}

func TestParseOptionalYMD(t *testing.T) {
	_, ok := ParseOptionalYMD(nil)
	assert.False(t, ok)

	blank := "  "
	_, ok = ParseOptionalYMD(&blank)
	assert.False(t, ok)

	s := "2025-06-30"
	d, ok := ParseOptionalYMD(&s)
	require.True(t, ok)
	assert.Equal(t, Date(2025, time.June, 30), d)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name              string
		year, month, dlt  int
		wantYear, wantMon int
	}{
		{"forward across year", 2024, 12, 1, 2025, 1},
		{"backward across year", 2024, 1, -1, 2023, 12},
		{"zero delta", 2024, 6, 0, 2024, 6},
		{"many years forward", 2024, 5, 25, 2026, 6},
		{"many years backward", 2024, 5, -29, 2021, 12},
		{"exact multiple backward", 2024, 3, -12, 2023, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, m := AddMonths(tt.year, tt.month, tt.dlt)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantMon, m)
		})
	}

	t.Run("round trip", func(t *testing.T) {
		for month := 1; month <= 12; month++ {
			for delta := -40; delta <= 40; delta++ {
				y, m := AddMonths(2024, month, delta)
				y, m = AddMonths(y, m, -delta)
				require.Equal(t, 2024, y)
				require.Equal(t, month, m)
			}
		}
	})
}

func TestLastDayOfMonth(t *testing.T) {
	assert.Equal(t, 29, LastDayOfMonth(2024, 2))
	assert.Equal(t, 28, LastDayOfMonth(2023, 2))
	assert.Equal(t, 30, LastDayOfMonth(2024, 4))
	assert.Equal(t, 31, LastDayOfMonth(2024, 12))
}

func TestClampedDate(t *testing.T) {
	assert.Equal(t, Date(2024, time.February, 29), ClampedDate(2024, 2, 31))
	assert.Equal(t, Date(2023, time.February, 28), ClampedDate(2023, 2, 30))
	assert.Equal(t, Date(2024, time.March, 15), ClampedDate(2024, 3, 15))
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, 2)
	assert.Equal(t, Date(2024, time.February, 1), first)
	assert.Equal(t, Date(2024, time.February, 29), last)
}

func TestElapsedMonthsInclusive(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same day", Date(2024, time.January, 15), Date(2024, time.January, 15), 1},
		{"later in first month", Date(2024, time.January, 15), Date(2024, time.January, 20), 1},
		{"before anniversary", Date(2024, time.January, 15), Date(2024, time.February, 14), 1},
		{"on anniversary", Date(2024, time.January, 15), Date(2024, time.February, 15), 2},
		{"across year", Date(2024, time.November, 1), Date(2025, time.February, 1), 4},
		{"end before start", Date(2024, time.March, 1), Date(2024, time.February, 28), 0},
		{"short month anniversary", Date(2024, time.January, 31), Date(2024, time.February, 29), 1},
		{"three months capped", Date(2024, time.January, 1), Date(2024, time.March, 1), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ElapsedMonthsInclusive(tt.start, tt.end))
		})
	}

	t.Run("same day is always one", func(t *testing.T) {
		d := Date(2023, time.December, 25)
		for i := 0; i < 800; i++ {
			require.Equal(t, 1, ElapsedMonthsInclusive(d, d))
			d = d.AddDate(0, 0, 1)
		}
	})

	t.Run("monotonic as end advances", func(t *testing.T) {
		start := Date(2024, time.January, 31)
		prev := 0
		end := start
		for i := 0; i < 900; i++ {
			got := ElapsedMonthsInclusive(start, end)
			require.GreaterOrEqual(t, got, prev)
			prev = got
			end = end.AddDate(0, 0, 1)
		}
	})

	t.Run("zero whenever end precedes start", func(t *testing.T) {
		start := Date(2024, time.June, 10)
		for i := 1; i < 400; i++ {
			require.Equal(t, 0, ElapsedMonthsInclusive(start, start.AddDate(0, 0, -i)))
		}
	})
}

func TestMin(t *testing.T) {
	a := Date(2024, time.January, 1)
	b := Date(2024, time.January, 2)
	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, a, Min(b, a))
}
