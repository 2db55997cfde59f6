package mode

import (
	log "github.com/sirupsen/logrus"
)

type Department struct {
	ID    string `json:"id" bson:"_id"`
	Title string `json:"title" bson:"title"`
}

// Person is a researcher. A person may sit in several departments; each
// membership is credited independently.
type Person struct {
	ID              string   `json:"id" bson:"_id"`
	Name            string   `json:"name,omitempty" bson:"name,omitempty"`
	DepartmentIDs   []string `json:"departmentIds" bson:"department_ids"`
	Classifications []string `json:"classifications,omitempty" bson:"classifications,omitempty"`
	Participation   string   `json:"participation,omitempty" bson:"participation,omitempty"`
}

const (
	Participating = "participating"
	Supporting    = "supporting"
)

type Project struct {
	ID           string          `json:"id" bson:"_id"`
	Title        string          `json:"title,omitempty" bson:"title,omitempty"`
	Participants RawParticipants `json:"participants" bson:"participants"`
	// DepartmentIDs is a hint for which departments the project's outputs
	// touch. It never carries credit.
	DepartmentIDs []string `json:"departmentIds,omitempty" bson:"department_ids,omitempty"`
	PeriodStart   string   `json:"periodStart,omitempty" bson:"period_start,omitempty"`
	PeriodEnd     string   `json:"periodEnd,omitempty" bson:"period_end,omitempty"`
}

type Fund struct {
	ID          string   `json:"id" bson:"_id"`
	Title       string   `json:"title,omitempty" bson:"title,omitempty"`
	PersonIDs   []string `json:"personIds" bson:"person_ids"`
	ProjectIDs  []string `json:"projectIds,omitempty" bson:"project_ids,omitempty"`
	PeriodStart string   `json:"periodStart,omitempty" bson:"period_start,omitempty"`
	PeriodEnd   string   `json:"periodEnd,omitempty" bson:"period_end,omitempty"`
}

// Graph is one immutable snapshot handed over by a loader. Generation is a
// stamp the loader bumps whenever the content changes.
type Graph struct {
	Generation   uint64       `json:"generation" bson:"generation"`
	Departments  []Department `json:"departments" bson:"departments"`
	Persons      []Person     `json:"persons" bson:"persons"`
	Projects     []Project    `json:"projects" bson:"projects"`
	Funds        []Fund       `json:"funds,omitempty" bson:"funds,omitempty"`
	Publications []Output     `json:"publications" bson:"publications"`
	Conferences  []Output     `json:"conferences" bson:"conferences"`
	Books        []Output     `json:"books" bson:"books"`
}

// Outputs returns copies of the outputs of the given kinds, in kind order,
// with Kind set on each one.
func (g *Graph) Outputs(kinds ...OutputKind) []Output {
	var ret []Output
	for _, kind := range kinds {
		var src []Output
		switch kind {
		case KindPublication:
			src = g.Publications
		case KindConference:
			src = g.Conferences
		case KindBook:
			src = g.Books
		}
		for _, item := range src {
			item.Kind = kind
			ret = append(ret, item)
		}
	}
	return ret
}

// Snapshot holds id lookups over a Graph. It is read-only once built.
type Snapshot struct {
	Graph       *Graph
	Departments map[string]*Department
	Persons     map[string]*Person
	Projects    map[string]*Project
}

func (g *Graph) Index() *Snapshot {
	s := &Snapshot{
		Graph:       g,
		Departments: make(map[string]*Department, len(g.Departments)),
		Persons:     make(map[string]*Person, len(g.Persons)),
		Projects:    make(map[string]*Project, len(g.Projects)),
	}
	for i := range g.Departments {
		item := &g.Departments[i]
		if _, ok := s.Departments[item.ID]; ok {
			log.WithField("department", item.ID).Warn("duplicate department id, keeping first")
			continue
		}
		s.Departments[item.ID] = item
	}
	for i := range g.Persons {
		item := &g.Persons[i]
		if _, ok := s.Persons[item.ID]; ok {
			log.WithField("person", item.ID).Warn("duplicate person id, keeping first")
			continue
		}
		s.Persons[item.ID] = item
	}
	for i := range g.Projects {
		item := &g.Projects[i]
		if _, ok := s.Projects[item.ID]; ok {
			log.WithField("project", item.ID).Warn("duplicate project id, keeping first")
			continue
		}
		s.Projects[item.ID] = item
	}
	return s
}
