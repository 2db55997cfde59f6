package rollup

import (
	"strings"

	"icreport/internal/mode"
	"icreport/internal/participant"
	"icreport/internal/period"

	"github.com/emirpasic/gods/sets/hashset"
)

// QualifyingClassifications are the academic qualification codes that make a
// member eligible to count as "with outputs".
var QualifyingClassifications = hashset.New("SA", "PA", "SP", "IP")

// Membership holds the head counts of one department.
type Membership struct {
	Total         int
	WithOutputs   int
	Participating int
	Supporting    int
}

func (m Membership) WithoutOutputs() int {
	return m.Total - m.WithOutputs
}

func qualified(p *mode.Person) bool {
	for _, c := range p.Classifications {
		if QualifyingClassifications.Contains(strings.ToUpper(strings.TrimSpace(c))) {
			return true
		}
	}
	return false
}

// Members counts the people of each known department. A member is "with
// outputs" when they hold a qualifying classification and are an internal
// participant of a project, or listed on a fund, dated inside the window.
// This is independent of output credit allocation.
func Members(s *mode.Snapshot, resolved participant.Resolved, w period.Window) map[string]Membership {
	var projectIDs []string
	for _, p := range s.Graph.Projects {
		if w.Includes(p.PeriodStart, p.PeriodEnd) {
			projectIDs = append(projectIDs, p.ID)
		}
	}
	withProject := participant.ProjectPersons(resolved, projectIDs)

	withFund := hashset.New()
	for _, f := range s.Graph.Funds {
		if !w.Includes(f.PeriodStart, f.PeriodEnd) {
			continue
		}
		for _, id := range f.PersonIDs {
			withFund.Add(id)
		}
	}

	ret := make(map[string]Membership, len(s.Departments))
	for i := range s.Graph.Persons {
		person := &s.Graph.Persons[i]
		if s.Persons[person.ID] != person {
			// duplicate id, already counted
			continue
		}
		active := qualified(person) && (withProject.Contains(person.ID) || withFund.Contains(person.ID))
		participation := strings.ToLower(strings.TrimSpace(person.Participation))
		counted := hashset.New()
		for _, departmentID := range person.DepartmentIDs {
			if _, ok := s.Departments[departmentID]; !ok || counted.Contains(departmentID) {
				continue
			}
			counted.Add(departmentID)
			m := ret[departmentID]
			m.Total++
			if active {
				m.WithOutputs++
			}
			switch participation {
			case mode.Participating:
				m.Participating++
			case mode.Supporting:
				m.Supporting++
			}
			ret[departmentID] = m
		}
	}
	return ret
}

// SetMembers writes the membership counts into the builder's rows.
func (b *Builder) SetMembers(members map[string]Membership) {
	for _, key := range b.rows.Keys() {
		id := key.(string)
		m := members[id]
		b.SetCount(id, TotalMembers, m.Total)
		b.SetCount(id, MembersWithOutputs, m.WithOutputs)
		b.SetCount(id, MembersWithoutOutputs, m.WithoutOutputs())
		b.SetCount(id, ParticipatingCount, m.Participating)
		b.SetCount(id, SupportingCount, m.Supporting)
	}
}
