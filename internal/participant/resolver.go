// Package participant normalises project participant lists into canonical
// (person, departments, share) tuples.
package participant

import (
	"strings"

	"icreport/internal/mode"

	mapset "github.com/deckarep/golang-set/v2"
	log "github.com/sirupsen/logrus"
)

// Share is one internal participant placed into its departments. The full
// share is credited to every department listed.
type Share struct {
	PersonID      string
	DepartmentIDs []string
	Share         float64
}

type Stats struct {
	Projects  int
	Malformed int
	External  int
	Unplaced  int
}

// Resolved maps project id to its canonical participant tuples.
type Resolved map[string][]Share

// ResolveAll resolves every project of the snapshot once. The result is
// read-only and safe to share between workers.
func ResolveAll(s *mode.Snapshot) (Resolved, Stats) {
	ret := make(Resolved, len(s.Projects))
	var stats Stats
	for id, project := range s.Projects {
		shares, st := Resolve(project, s.Persons)
		ret[id] = shares
		stats.Projects++
		stats.Malformed += st.Malformed
		stats.External += st.External
		stats.Unplaced += st.Unplaced
	}
	return ret, stats
}

// Resolve turns a project's participant list into Shares. A project whose
// list failed to decode resolves to nothing.
func Resolve(p *mode.Project, persons map[string]*mode.Person) ([]Share, Stats) {
	var stats Stats
	if err := p.Participants.Err(); err != nil {
		log.WithFields(log.Fields{"project": p.ID, "error": err}).Warn("malformed participants, treating as empty")
		stats.Malformed++
		return nil, stats
	}
	var ret []Share
	for _, item := range p.Participants.List {
		if !item.IsInternal {
			stats.External++
			continue
		}
		departments := item.DepartmentIDs
		if len(departments) == 0 {
			if person, ok := persons[item.PersonID]; ok {
				departments = person.DepartmentIDs
			}
		}
		departments = unique(departments)
		if len(departments) == 0 {
			log.WithFields(log.Fields{"project": p.ID, "person": item.PersonID}).Debug("internal participant without department")
			stats.Unplaced++
			continue
		}
		share := item.Share
		if share < 0 {
			log.WithFields(log.Fields{"project": p.ID, "person": item.PersonID, "share": share}).Warn("negative contribution share, using 0")
			share = 0
		}
		ret = append(ret, Share{PersonID: item.PersonID, DepartmentIDs: departments, Share: share})
	}
	return ret, stats
}

func unique(ids []string) []string {
	var ret []string
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen.Contains(id) {
			continue
		}
		seen.Add(id)
		ret = append(ret, id)
	}
	return ret
}

// ProjectPersons returns the ids of people who are internal participants of
// at least one of the given projects.
func ProjectPersons(resolved Resolved, projectIDs []string) mapset.Set[string] {
	ret := mapset.NewThreadUnsafeSet[string]()
	for _, id := range projectIDs {
		for _, share := range resolved[id] {
			if share.PersonID != "" {
				ret.Add(share.PersonID)
			}
		}
	}
	return ret
}
