package attribution_test

import (
	"testing"

	. "icreport/internal/attribution"
	"icreport/internal/mode"
	"icreport/internal/participant"

	"github.com/stretchr/testify/assert"
)

func internal(person string, share float64, departments ...string) mode.Participant {
	return mode.Participant{PersonID: person, IsInternal: true, Share: share, DepartmentIDs: departments}
}

func newAllocator(projects ...mode.Project) *Allocator {
	g := &mode.Graph{
		Departments: []mode.Department{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		Persons: []mode.Person{
			{ID: "u1", DepartmentIDs: []string{"A"}},
			{ID: "u2", DepartmentIDs: []string{"B"}},
			{ID: "u3", DepartmentIDs: []string{"A", "B"}},
		},
		Projects: projects,
	}
	s := g.Index()
	resolved, _ := participant.ResolveAll(s)
	return New(s, resolved)
}

func TestAllocateSplitsAcrossDepartments(t *testing.T) {
	a := newAllocator(mode.Project{ID: "P1", Participants: mode.NewParticipants(
		mode.Participant{PersonID: "u1", IsInternal: true, Share: 0.5},
		mode.Participant{PersonID: "u2", IsInternal: true, Share: 0.5},
	)})
	alloc := a.Allocate(mode.Output{ID: "o1", ProjectIDs: []string{"P1"}})
	assert.Equal(t, map[string]float64{"A": 0.5, "B": 0.5}, alloc.Credit)
	assert.Equal(t, []string{"A", "B"}, alloc.Order)
	assert.Equal(t, 1.0, alloc.Total())
	assert.True(t, alloc.Attributed())
}

func TestAllocateMultiMembershipNotSplit(t *testing.T) {
	a := newAllocator(mode.Project{ID: "P1", Participants: mode.NewParticipants(
		mode.Participant{PersonID: "u3", IsInternal: true, Share: 0.6},
		mode.Participant{PersonID: "u1", IsInternal: true, Share: 0.4},
	)})
	alloc := a.Allocate(mode.Output{ID: "o1", ProjectIDs: []string{"P1"}})
	assert.InDelta(t, 1.0, alloc.Credit["A"], 1e-12)
	assert.Equal(t, 0.6, alloc.Credit["B"])
}

func TestAllocateSumsLinkedProjects(t *testing.T) {
	a := newAllocator(
		mode.Project{ID: "P1", Participants: mode.NewParticipants(internal("x", 1, "A"))},
		mode.Project{ID: "P2", Participants: mode.NewParticipants(internal("y", 0.5, "A"), internal("z", 0.5, "C"))},
	)
	alloc := a.Allocate(mode.Output{ID: "o1", ProjectIDs: []string{"P1", "P2", "P1"}})
	assert.Equal(t, 2, alloc.Projects)
	assert.Equal(t, 1.5, alloc.Credit["A"])
	assert.Equal(t, 0.5, alloc.Credit["C"])
	assert.Equal(t, 2.0, alloc.Total())
}

func TestAllocateOrphanDepartment(t *testing.T) {
	a := newAllocator(mode.Project{ID: "P1", Participants: mode.NewParticipants(
		internal("x", 0.5, "A"), internal("y", 0.5, "ZZ"),
	)})
	alloc := a.Allocate(mode.Output{ID: "o1", ProjectIDs: []string{"P1"}})
	assert.Equal(t, map[string]float64{"A": 0.5}, alloc.Credit)
	assert.Equal(t, []string{"ZZ"}, a.Orphans())
}

func TestAllocateUnattributed(t *testing.T) {
	a := newAllocator(
		mode.Project{ID: "ext", DepartmentIDs: []string{"C"}, Participants: mode.NewParticipants(
			mode.Participant{PersonID: "outsider", Share: 1},
		)},
		mode.Project{ID: "zero", Participants: mode.NewParticipants(internal("x", 0, "A"))},
	)
	cases := []struct {
		name     string
		projects []string
		touched  []string
	}{
		{"no projects", nil, nil},
		{"unknown project", []string{"nope"}, nil},
		{"external only, hint touches C", []string{"ext"}, []string{"C"}},
		{"zero shares", []string{"zero"}, []string{"A"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			alloc := a.Allocate(mode.Output{ID: "o", ProjectIDs: c.projects})
			assert.False(t, alloc.Attributed())
			assert.Zero(t, alloc.Total())
			assert.ElementsMatch(t, c.touched, alloc.Touched.ToSlice())
		})
	}
}

func TestAllocateSingleProjectSharesSumToOne(t *testing.T) {
	shares := [][]float64{
		{1},
		{0.5, 0.5},
		{0.25, 0.25, 0.5},
		{0.125, 0.375, 0.5},
	}
	departments := []string{"A", "B", "C"}
	for _, set := range shares {
		var list []mode.Participant
		for i, s := range set {
			list = append(list, internal("p", s, departments[i%len(departments)]))
		}
		a := newAllocator(mode.Project{ID: "P", Participants: mode.NewParticipants(list...)})
		alloc := a.Allocate(mode.Output{ID: "o", ProjectIDs: []string{"P"}})
		assert.Equal(t, 1.0, alloc.Total(), "shares %v", set)
	}
}
