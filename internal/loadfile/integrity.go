package loadfile

import (
	"fmt"

	"icreport/internal/mode"

	"github.com/monitor1379/yagods/sets/hashset"
	log "github.com/sirupsen/logrus"
)

// Issue is one dangling or malformed reference found in a snapshot. None of
// them stop a report; they explain why totals come out smaller.
type Issue struct {
	Collection string
	ID         string
	Problem    string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Collection, i.ID, i.Problem)
}

type idSets struct {
	departments *hashset.Set[string]
	persons     *hashset.Set[string]
	projects    *hashset.Set[string]
}

// Check walks every reference in g and reports what does not resolve.
func Check(g *mode.Graph) (issues []Issue) {
	ids := idSets{
		departments: hashset.New[string](),
		persons:     hashset.New[string](),
		projects:    hashset.New[string](),
	}
	add := func(collection, id string, set *hashset.Set[string]) {
		if set.Contains(id) {
			issues = append(issues, Issue{collection, id, "duplicate id"})
		}
		set.Add(id)
	}
	for _, d := range g.Departments {
		add(Departments, d.ID, ids.departments)
	}
	for _, p := range g.Persons {
		add(Persons, p.ID, ids.persons)
	}
	for _, p := range g.Projects {
		add(Projects, p.ID, ids.projects)
	}

	for _, p := range g.Persons {
		for _, d := range p.DepartmentIDs {
			if !ids.departments.Contains(d) {
				issues = append(issues, Issue{Persons, p.ID, "unknown department " + d})
			}
		}
	}
	for _, p := range g.Projects {
		if err := p.Participants.Err(); err != nil {
			issues = append(issues, Issue{Projects, p.ID, "malformed participants: " + err.Error()})
		}
		for _, item := range p.Participants.List {
			if item.IsInternal && !ids.persons.Contains(item.PersonID) {
				issues = append(issues, Issue{Projects, p.ID, "unknown participant " + item.PersonID})
			}
			for _, d := range item.DepartmentIDs {
				if !ids.departments.Contains(d) {
					issues = append(issues, Issue{Projects, p.ID, "unknown participant department " + d})
				}
			}
		}
		for _, d := range p.DepartmentIDs {
			if !ids.departments.Contains(d) {
				issues = append(issues, Issue{Projects, p.ID, "unknown department " + d})
			}
		}
	}
	for _, f := range g.Funds {
		for _, id := range f.PersonIDs {
			if !ids.persons.Contains(id) {
				issues = append(issues, Issue{Funds, f.ID, "unknown person " + id})
			}
		}
		for _, id := range f.ProjectIDs {
			if !ids.projects.Contains(id) {
				issues = append(issues, Issue{Funds, f.ID, "unknown project " + id})
			}
		}
	}
	for _, o := range g.Outputs(mode.AllKinds...) {
		collection := string(o.Kind) + "s"
		if len(o.ProjectIDs) == 0 {
			issues = append(issues, Issue{collection, o.ID, "no project"})
		}
		for _, id := range o.ProjectIDs {
			if !ids.projects.Contains(id) {
				issues = append(issues, Issue{collection, o.ID, "unknown project " + id})
			}
		}
	}

	log.Infof("integrity statistic: departments %d, persons %d, projects %d, issues %d",
		ids.departments.Size(), ids.persons.Size(), ids.projects.Size(), len(issues))
	return issues
}
