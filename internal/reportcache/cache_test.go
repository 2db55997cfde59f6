package reportcache_test

import (
	"testing"

	"icreport/internal/logic/report"
	"icreport/internal/mode"
	. "icreport/internal/reportcache"
	"icreport/internal/rollup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph(generation uint64) *mode.Graph {
	return &mode.Graph{
		Generation:  generation,
		Departments: []mode.Department{{ID: "A", Title: "Accounting"}},
		Persons:     []mode.Person{{ID: "u1", DepartmentIDs: []string{"A"}}},
		Projects: []mode.Project{{ID: "P1", Participants: mode.NewParticipants(
			mode.Participant{PersonID: "u1", IsInternal: true, Share: 1},
		)}},
		Publications: []mode.Output{{ID: "o1", ProjectIDs: []string{"P1"}, Level: mode.LevelNational}},
	}
}

func TestKey(t *testing.T) {
	req := report.Request{Variant: "standards_single", StartYear: 2019, EndYear: 2024}
	assert.Equal(t, Key(1, req), Key(1, req))
	assert.NotEqual(t, Key(1, req), Key(2, req))

	explicit := req
	explicit.Kinds = []mode.OutputKind{mode.KindPublication}
	assert.Equal(t, Key(1, req), Key(1, explicit))

	repeated := req
	repeated.Kinds = []mode.OutputKind{mode.KindPublication, mode.KindPublication}
	assert.Equal(t, Key(1, explicit), Key(1, repeated))

	mixed := req
	mixed.Kinds = []mode.OutputKind{mode.KindBook, mode.KindPublication, mode.KindBook}
	both := req
	both.Kinds = []mode.OutputKind{mode.KindBook, mode.KindPublication}
	assert.Equal(t, Key(1, both), Key(1, mixed))

	other := req
	other.DepartmentID = "A"
	assert.NotEqual(t, Key(1, req), Key(1, other))
	other = req
	other.EndYear = 2025
	assert.NotEqual(t, Key(1, req), Key(1, other))
}

func TestCacheHitsAndGenerations(t *testing.T) {
	c, err := New(8, report.Engine{Workers: 2})
	require.NoError(t, err)
	req := report.Request{Variant: "standards_multi", StartYear: 2019, EndYear: 2024}

	first, err := c.Report(graph(1), req)
	require.NoError(t, err)
	again, err := c.Report(graph(1), req)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, c.Len())

	next, err := c.Report(graph(2), req)
	require.NoError(t, err)
	assert.NotSame(t, first, next)
	assert.Equal(t, uint64(2), next.Generation)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestCacheErrors(t *testing.T) {
	_, err := New(0, report.Engine{})
	assert.Error(t, err)

	c, err := New(1, report.Engine{})
	require.NoError(t, err)
	_, err = c.Report(graph(1), report.Request{Variant: "nope"})
	assert.Error(t, err)
	assert.Zero(t, c.Len())
}

type computeFunc func(g *mode.Graph, req report.Request) (*rollup.Report, error)

func (f computeFunc) Compute(g *mode.Graph, req report.Request) (*rollup.Report, error) {
	return f(g, req)
}

// interleaved computes prime first, then runs inner through the cache while
// the outer computation is in flight, and returns both outcomes.
func interleaved(t *testing.T, outer, inner report.Request, prime ...report.Request) (outerErr, innerErr error, c *Cache) {
	t.Helper()
	started := false
	engine := report.Engine{Workers: 1}
	c, err := New(8, computeFunc(func(g *mode.Graph, req report.Request) (*rollup.Report, error) {
		if started {
			return engine.Compute(g, req)
		}
		started = true
		_, innerErr = c.Report(g, inner)
		return engine.Compute(g, req)
	}))
	require.NoError(t, err)
	started = true
	for _, req := range prime {
		_, err := c.Report(graph(1), req)
		require.NoError(t, err)
	}
	started = false
	_, outerErr = c.Report(graph(1), outer)
	return outerErr, innerErr, c
}

func TestCacheSupersededOnlyBySameView(t *testing.T) {
	base := report.Request{Variant: "standards_multi", StartYear: 2019, EndYear: 2024}

	t.Run("other variant", func(t *testing.T) {
		other := base
		other.Variant = "impact"
		outerErr, innerErr, _ := interleaved(t, base, other)
		assert.NoError(t, outerErr)
		assert.NoError(t, innerErr)
	})

	t.Run("other department filter", func(t *testing.T) {
		other := base
		other.DepartmentID = "A"
		outerErr, innerErr, _ := interleaved(t, base, other)
		assert.NoError(t, outerErr)
		assert.NoError(t, innerErr)
	})

	t.Run("same view newer window", func(t *testing.T) {
		newer := base
		newer.StartYear = 2020
		outerErr, innerErr, c := interleaved(t, base, newer)
		assert.ErrorIs(t, outerErr, report.ErrSuperseded)
		assert.NoError(t, innerErr)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("cache hit on same view", func(t *testing.T) {
		cached := base
		cached.StartYear = 2020
		outerErr, innerErr, c := interleaved(t, base, cached, cached)
		assert.NoError(t, outerErr)
		assert.NoError(t, innerErr)
		assert.Equal(t, 2, c.Len())
	})
}
