package period_test

import (
	"strconv"
	"testing"

	. "icreport/internal/period"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearOf(t *testing.T) {
	cases := []struct {
		in   string
		year int
		ok   bool
	}{
		{"2021-05-01", 2021, true},
		{"2019", 2019, true},
		{"2020-02", 2020, true},
		{"2018-12-31T23:00:00Z", 2018, true},
		{"2017-01-01 08:00:00", 2017, true},
		{"2016/03/04", 2016, true},
		{"15/03/2018", 2018, true},
		{"5/3/2017", 2017, true},
		{"15-03-2016", 2016, true},
		{"15.03.2015", 2015, true},
		{"3/15/2014", 2014, true},
		{"March 5, 2013", 2013, true},
		{"", 0, false},
		{"  ", 0, false},
		{"soon", 0, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			year, ok := YearOf(c.in)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.year, year)
		})
	}
}

func TestIncludes(t *testing.T) {
	w := Window{Start: 2019, End: 2024}
	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"undated", "", "", true},
		{"start only inside", "2020-01-01", "", true},
		{"start only before", "2018-06-01", "", false},
		{"end only inside", "", "2024-12-31", true},
		{"end only after", "", "2025-01-01", false},
		{"spans start boundary", "2017-01-01", "2019-03-01", true},
		{"spans end boundary", "2024-11-01", "2026-01-01", true},
		{"covers window", "2010", "2030", true},
		{"entirely before", "2015", "2018", false},
		{"entirely after", "2025", "2027", false},
		{"reversed dates", "2026", "2023", true},
		{"garbage treated as absent", "n/a", "2018", false},
		{"day-first before window", "15/03/2018", "", false},
		{"day-first inside window", "15/03/2021", "", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, w.Includes(c.start, c.end))
		})
	}
}

func TestIncludesSingleYearRoundTrip(t *testing.T) {
	for y := 2015; y <= 2028; y++ {
		date := strconv.Itoa(y) + "-06-15"
		for start := 2016; start <= 2026; start++ {
			for end := start; end <= 2026; end++ {
				w := Window{Start: start, End: end}
				want := start <= y && y <= end
				assert.Equal(t, want, w.Includes(date, date), "y=%d window=%v", y, w)
			}
		}
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Window{Start: 2020, End: 2020}.Valid())
	assert.False(t, Window{Start: 2021, End: 2020}.Valid())
}

func TestYearOfWarnsOnUnparseableDate(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	_, ok := YearOf("")
	assert.False(t, ok)
	assert.Empty(t, hook.AllEntries())

	_, ok = YearOf("2020-01-01")
	assert.True(t, ok)
	assert.Empty(t, hook.AllEntries())

	_, ok = YearOf("soon")
	assert.False(t, ok)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "soon", hook.LastEntry().Data["date"])
}
