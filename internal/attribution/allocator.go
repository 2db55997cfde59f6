// Package attribution splits an output's credit across the departments of
// its contributors.
package attribution

import (
	"sync"

	"icreport/internal/mode"
	"icreport/internal/participant"

	mapset "github.com/deckarep/golang-set/v2"
	log "github.com/sirupsen/logrus"
)

// Allocation is the departmental credit of one output. Order lists the
// credited departments in first-seen order so sums over it are stable.
type Allocation struct {
	Credit   map[string]float64
	Order    []string
	Touched  mapset.Set[string]
	Projects int
}

// Total is the department-attributable credit of the output.
func (a Allocation) Total() float64 {
	var total float64
	for _, id := range a.Order {
		total += a.Credit[id]
	}
	return total
}

// Attributed reports whether any department holds credit. Unattributed
// outputs stay out of every department-scoped total.
func (a Allocation) Attributed() bool {
	return a.Total() > 0
}

// Allocator is built once per report computation. Allocate is safe for
// concurrent use.
type Allocator struct {
	snapshot *mode.Snapshot
	resolved participant.Resolved
	orphans  sync.Map
}

func New(s *mode.Snapshot, resolved participant.Resolved) *Allocator {
	return &Allocator{snapshot: s, resolved: resolved}
}

// Allocate sums, per department d, the shares of every internal participant
// of every linked project whose departments include d. Departments missing
// from the department list get nothing.
func (a *Allocator) Allocate(o mode.Output) Allocation {
	alloc := Allocation{
		Credit:  make(map[string]float64),
		Touched: mapset.NewThreadUnsafeSet[string](),
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, projectID := range o.ProjectIDs {
		if seen.Contains(projectID) {
			continue
		}
		seen.Add(projectID)
		project, ok := a.snapshot.Projects[projectID]
		if !ok {
			log.WithFields(log.Fields{"output": o.ID, "project": projectID}).Debug("output links unknown project")
			continue
		}
		alloc.Projects++
		for _, departmentID := range project.DepartmentIDs {
			if a.known(departmentID) {
				alloc.Touched.Add(departmentID)
			}
		}
		for _, share := range a.resolved[projectID] {
			for _, departmentID := range share.DepartmentIDs {
				if !a.known(departmentID) {
					continue
				}
				alloc.Touched.Add(departmentID)
				if _, ok := alloc.Credit[departmentID]; !ok {
					alloc.Order = append(alloc.Order, departmentID)
				}
				alloc.Credit[departmentID] += share.Share
			}
		}
	}
	return alloc
}

func (a *Allocator) known(departmentID string) bool {
	if _, ok := a.snapshot.Departments[departmentID]; ok {
		return true
	}
	if _, loaded := a.orphans.LoadOrStore(departmentID, true); !loaded {
		log.WithField("department", departmentID).Warn("department referenced but not in department list, ignoring")
	}
	return false
}

// Orphans returns the unknown department ids seen so far.
func (a *Allocator) Orphans() []string {
	var ret []string
	a.orphans.Range(func(key, _ any) bool {
		ret = append(ret, key.(string))
		return true
	})
	return ret
}
