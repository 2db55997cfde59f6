// Package classify maps an output's raw index flags and sub-type codes onto
// taxonomy buckets.
package classify

import (
	"strings"

	"icreport/internal/mode"
)

type Mode int

const (
	// Single credits exactly one international standard per output, chosen
	// by rule order.
	Single Mode = iota
	// Multi credits every standard an output satisfies.
	Multi
)

func (m Mode) String() string {
	if m == Multi {
		return "multi"
	}
	return "single"
}

var (
	quartiles     = map[int]Bucket{1: ScopusQ1, 2: ScopusQ2, 3: ScopusQ3, 4: ScopusQ4, 5: ScopusDelisted}
	wosCategories = map[int]Bucket{1: WOSSCIE, 2: WOSSSCI, 3: WOSAHCI, 4: WOSESCI}
	abdcRanks     = map[int]Bucket{1: ABDCAStar, 2: ABDCA, 3: ABDCB, 4: ABDCC}
	ajgRanks      = map[int]Bucket{1: AJG1, 2: AJG2, 3: AJG3, 4: AJG4, 5: AJG4Star}
)

// Rule is one international standard: when Match holds the Parent bucket is
// credited, plus the sub-type bucket Code resolves to through Table. Codes
// missing from Table credit the parent only.
type Rule struct {
	Parent Bucket
	Match  func(mode.Standards) bool
	Code   func(mode.Standards) int
	Table  map[int]Bucket
}

func (r Rule) Sub(s mode.Standards) (Bucket, bool) {
	b, ok := r.Table[r.Code(s)]
	return b, ok
}

// InternationalRules is ordered by precedence.
var InternationalRules = []Rule{
	{
		Parent: Scopus,
		Match:  func(s mode.Standards) bool { return s.IsScopus },
		Code:   func(s mode.Standards) int { return s.ScopusQuartile },
		Table:  quartiles,
	},
	{
		Parent: WOS,
		Match:  func(s mode.Standards) bool { return s.IsWOS },
		Code:   func(s mode.Standards) int { return s.WOSCategory },
		Table:  wosCategories,
	},
	{
		Parent: ABDC,
		Match:  func(s mode.Standards) bool { return s.IsABDC },
		Code:   func(s mode.Standards) int { return s.ABDCRank },
		Table:  abdcRanks,
	},
	{
		Parent: AJG,
		Match:  func(s mode.Standards) bool { return s.IsAJG },
		Code:   func(s mode.Standards) int { return s.AJGRank },
		Table:  ajgRanks,
	},
}

// InternationalParents lists the parent buckets whose sum is the
// international total, OtherPJR included.
var InternationalParents = []Bucket{Scopus, WOS, ABDC, AJG, OtherPJR}

type NationalRule struct {
	Bucket Bucket
	Match  func(mode.Standards) bool
}

// NationalRules is ordered by precedence; first match wins in both modes.
var NationalRules = []NationalRule{
	{TCI1, func(s mode.Standards) bool { return s.TCITier == 1 }},
	{TCI2, func(s mode.Standards) bool { return s.TCITier == 2 }},
	{ACI, func(s mode.Standards) bool { return s.IsACI }},
}

var NationalBuckets = []Bucket{TCI1, TCI2, ACI, NationalNonListed}

// International returns the buckets credited for an international output.
// Each matching standard yields its parent followed by its sub-type when the
// code is known. Outputs matching no standard fall into OtherPJR.
func International(s mode.Standards, m Mode) []Bucket {
	var ret []Bucket
	for _, rule := range InternationalRules {
		if !rule.Match(s) {
			continue
		}
		ret = append(ret, rule.Parent)
		if sub, ok := rule.Sub(s); ok {
			ret = append(ret, sub)
		}
		if m == Single {
			return ret
		}
	}
	if len(ret) == 0 {
		ret = append(ret, OtherPJR)
	}
	return ret
}

// National returns the single national bucket. Only indexed outputs are
// tested against the rules.
func National(o mode.Output) Bucket {
	if o.IsIndexed {
		for _, rule := range NationalRules {
			if rule.Match(o.Standards) {
				return rule.Bucket
			}
		}
	}
	return NationalNonListed
}

// LevelOf normalises the free-form level field.
func LevelOf(o mode.Output) mode.Level {
	return mode.Level(strings.ToLower(strings.TrimSpace(string(o.Level))))
}

// Standards classifies an output into the national or international
// taxonomy according to its level. Unknown levels yield nothing.
func Standards(o mode.Output, m Mode) []Bucket {
	switch LevelOf(o) {
	case mode.LevelNational:
		return []Bucket{National(o)}
	case mode.LevelInternational:
		return International(o.Standards, m)
	}
	return nil
}

var impactCodes = map[string]Bucket{
	"academic":           ImpactAcademic,
	"teaching":           ImpactTeaching,
	"teaching_learning":  ImpactTeaching,
	"practice":           ImpactPractice,
	"practice_community": ImpactPractice,
	"societal":           ImpactSocietal,
	"society":            ImpactSocietal,
}

var ImpactBuckets = []Bucket{ImpactAcademic, ImpactTeaching, ImpactPractice, ImpactSocietal}

// Impact returns each distinct recognised impact category, in ImpactBuckets
// order. Unknown codes are ignored.
func Impact(o mode.Output) []Bucket {
	seen := make(map[Bucket]bool, len(o.Impact))
	for _, code := range o.Impact {
		if b, ok := impactCodes[strings.ToLower(strings.TrimSpace(code))]; ok {
			seen[b] = true
		}
	}
	var ret []Bucket
	for _, b := range ImpactBuckets {
		if seen[b] {
			ret = append(ret, b)
		}
	}
	return ret
}

var kindBuckets = map[mode.OutputKind]Bucket{
	mode.KindPublication: KindPublication,
	mode.KindConference:  KindConference,
	mode.KindBook:        KindBook,
}

var KindBuckets = []Bucket{KindPublication, KindConference, KindBook}

func Kind(o mode.Output) (Bucket, bool) {
	b, ok := kindBuckets[o.Kind]
	return b, ok
}

// Levels returns the level bucket plus Indexed when the output is flagged.
func Levels(o mode.Output) []Bucket {
	var ret []Bucket
	switch LevelOf(o) {
	case mode.LevelNational:
		ret = append(ret, LevelNational)
	case mode.LevelInternational:
		ret = append(ret, LevelInternational)
	}
	if o.IsIndexed {
		ret = append(ret, Indexed)
	}
	return ret
}

// Describe renders the single-count classification of an output, e.g.
// "Scopus Q1" or "TCI Tier 2".
func Describe(o mode.Output) string {
	buckets := Standards(o, Single)
	if len(buckets) == 0 {
		return "Unclassified"
	}
	parts := make([]string, len(buckets))
	for i, b := range buckets {
		parts[i] = Label(b)
	}
	return strings.Join(parts, " ")
}
