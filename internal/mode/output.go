package mode

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type OutputKind string

const (
	KindPublication OutputKind = "publication"
	KindConference  OutputKind = "conference"
	KindBook        OutputKind = "book"
)

var AllKinds = []OutputKind{KindPublication, KindConference, KindBook}

type Level string

const (
	LevelNational      Level = "national"
	LevelInternational Level = "international"
)

// Standards carries the raw index membership flags and sub-type codes of an
// output. Codes are kept raw; mapping to buckets happens in classify.
type Standards struct {
	TCITier        int  `json:"tciTier,omitempty" bson:"tci_tier,omitempty"`
	IsACI          bool `json:"isACI,omitempty" bson:"is_aci,omitempty"`
	IsScopus       bool `json:"isScopus,omitempty" bson:"is_scopus,omitempty"`
	ScopusQuartile int  `json:"scopusQuartile,omitempty" bson:"scopus_quartile,omitempty"`
	IsWOS          bool `json:"isWOS,omitempty" bson:"is_wos,omitempty"`
	WOSCategory    int  `json:"wosCategory,omitempty" bson:"wos_category,omitempty"`
	IsABDC         bool `json:"isABDC,omitempty" bson:"is_abdc,omitempty"`
	ABDCRank       int  `json:"abdcRank,omitempty" bson:"abdc_rank,omitempty"`
	IsAJG          bool `json:"isAJG,omitempty" bson:"is_ajg,omitempty"`
	AJGRank        int  `json:"ajgRank,omitempty" bson:"ajg_rank,omitempty"`
}

// Output is a publication, conference presentation or book.
type Output struct {
	ID          string     `json:"id" bson:"_id"`
	Kind        OutputKind `json:"kind,omitempty" bson:"kind,omitempty"`
	Title       string     `json:"title,omitempty" bson:"title,omitempty"`
	ProjectIDs  []string   `json:"projectIds" bson:"project_ids"`
	Level       Level      `json:"level" bson:"level"`
	IsIndexed   bool       `json:"isIndexed" bson:"is_indexed"`
	Standards   Standards  `json:"standards" bson:"standards"`
	Impact      []string   `json:"impact,omitempty" bson:"impact,omitempty"`
	PeriodStart string     `json:"periodStart,omitempty" bson:"period_start,omitempty"`
	PeriodEnd   string     `json:"periodEnd,omitempty" bson:"period_end,omitempty"`
}

// UniqueKinds drops repeated kinds, keeping first-seen order.
func UniqueKinds(kinds []OutputKind) []OutputKind {
	var ret []OutputKind
	seen := mapset.NewThreadUnsafeSet[OutputKind]()
	for _, kind := range kinds {
		if seen.Add(kind) {
			ret = append(ret, kind)
		}
	}
	return ret
}
