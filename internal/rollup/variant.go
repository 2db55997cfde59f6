package rollup

import (
	"sort"

	"icreport/internal/classify"
	"icreport/internal/mode"
)

// Source tells where a column's value comes from.
type Source int

const (
	// Credit columns accumulate allocated credit for a bucket.
	Credit Source = iota
	// Count columns hold membership head counts.
	Count
	// Sum columns add up other columns of the same row.
	Sum
	// Percent columns are 100 * Of[0] / Of[1], recomputed on every row.
	Percent
)

type Column struct {
	Key    string
	Label  string
	Source Source
	Of     []string
}

// Variant is one report shape: which outputs it reads, how it classifies
// them and which columns it emits.
type Variant struct {
	Name     string
	Title    string
	Kinds    []mode.OutputKind
	Mode     classify.Mode
	Members  bool
	Detail   bool
	Columns  []Column
	Classify func(o mode.Output, m classify.Mode) []classify.Bucket

	index map[string]int
}

func (v *Variant) Column(key string) (Column, bool) {
	if v.index == nil {
		v.index = make(map[string]int, len(v.Columns))
		for i, col := range v.Columns {
			v.index[col.Key] = i
		}
	}
	i, ok := v.index[key]
	if !ok {
		return Column{}, false
	}
	return v.Columns[i], true
}

func creditColumn(b classify.Bucket) Column {
	return Column{Key: string(b), Label: classify.Label(b), Source: Credit}
}

func credits(buckets ...classify.Bucket) []Column {
	ret := make([]Column, len(buckets))
	for i, b := range buckets {
		ret[i] = creditColumn(b)
	}
	return ret
}

func sumColumn(key, label string, of ...string) Column {
	return Column{Key: key, Label: label, Source: Sum, Of: of}
}

func keys(buckets ...classify.Bucket) []string {
	ret := make([]string, len(buckets))
	for i, b := range buckets {
		ret[i] = string(b)
	}
	return ret
}

const (
	TotalMembers          = "total_members"
	MembersWithOutputs    = "members_with_outputs"
	MembersWithoutOutputs = "members_without_outputs"
	ParticipatingCount    = "participating"
	SupportingCount       = "supporting"
	ParticipatingPct      = "participating_pct"
	SupportingPct         = "supporting_pct"
	PortfolioTotal        = "portfolio_total"
	ImpactTotal           = "impact_total"
	NationalTotal         = "national_total"
	InternationalTotal    = "international_total"
	GrandTotal            = "grand_total"
	DetailTotal           = "detail_total"
)

func standardsColumns() []Column {
	cols := credits(classify.NationalBuckets...)
	cols = append(cols, sumColumn(NationalTotal, "National Total", keys(classify.NationalBuckets...)...))
	cols = append(cols, credits(
		classify.Scopus, classify.ScopusQ1, classify.ScopusQ2, classify.ScopusQ3, classify.ScopusQ4, classify.ScopusDelisted,
		classify.WOS, classify.WOSSCIE, classify.WOSSSCI, classify.WOSAHCI, classify.WOSESCI,
		classify.ABDC, classify.ABDCAStar, classify.ABDCA, classify.ABDCB, classify.ABDCC,
		classify.AJG, classify.AJG1, classify.AJG2, classify.AJG3, classify.AJG4, classify.AJG4Star,
		classify.OtherPJR,
	)...)
	for i := range cols {
		switch classify.Bucket(cols[i].Key) {
		case classify.Scopus, classify.WOS, classify.ABDC, classify.AJG:
			cols[i].Label += " Total"
		}
	}
	cols = append(cols,
		sumColumn(InternationalTotal, "International Total", keys(classify.InternationalParents...)...),
		sumColumn(GrandTotal, "Grand Total", NationalTotal, InternationalTotal),
	)
	return cols
}

func detailColumns() []Column {
	return append(credits(classify.LevelNational, classify.LevelInternational, classify.Indexed),
		sumColumn(DetailTotal, "Total", string(classify.LevelNational), string(classify.LevelInternational)))
}

func kindOnly(o mode.Output, _ classify.Mode) []classify.Bucket {
	if b, ok := classify.Kind(o); ok {
		return []classify.Bucket{b}
	}
	return nil
}

var variants = []*Variant{
	{
		Name:    "membership",
		Title:   "Membership and portfolio",
		Kinds:   mode.AllKinds,
		Mode:    classify.Multi,
		Members: true,
		Columns: append([]Column{
			{Key: TotalMembers, Label: "Total Members", Source: Count},
			{Key: MembersWithOutputs, Label: "Members With ICs", Source: Count},
			{Key: MembersWithoutOutputs, Label: "Members Without ICs", Source: Count},
			{Key: ParticipatingCount, Label: "Participating", Source: Count},
			{Key: SupportingCount, Label: "Supporting", Source: Count},
			{Key: ParticipatingPct, Label: "Participating %", Source: Percent, Of: []string{ParticipatingCount, TotalMembers}},
			{Key: SupportingPct, Label: "Supporting %", Source: Percent, Of: []string{SupportingCount, TotalMembers}},
		}, append(credits(classify.KindBuckets...),
			sumColumn(PortfolioTotal, "Portfolio Total", keys(classify.KindBuckets...)...))...),
		Classify: kindOnly,
	},
	{
		Name:  "impact",
		Title: "Impact categories",
		Kinds: mode.AllKinds,
		Mode:  classify.Multi,
		Columns: append(credits(classify.ImpactBuckets...),
			sumColumn(ImpactTotal, "Total", keys(classify.ImpactBuckets...)...)),
		Classify: func(o mode.Output, _ classify.Mode) []classify.Bucket { return classify.Impact(o) },
	},
	{
		Name:     "standards_multi",
		Title:    "National and international standards (multi-count)",
		Kinds:    []mode.OutputKind{mode.KindPublication},
		Mode:     classify.Multi,
		Columns:  standardsColumns(),
		Classify: classify.Standards,
	},
	{
		Name:     "standards_single",
		Title:    "National and international standards (single-count)",
		Kinds:    []mode.OutputKind{mode.KindPublication},
		Mode:     classify.Single,
		Columns:  standardsColumns(),
		Classify: classify.Standards,
	},
	{
		Name:     "publication_detail",
		Title:    "Publication listing",
		Kinds:    []mode.OutputKind{mode.KindPublication},
		Mode:     classify.Single,
		Detail:   true,
		Columns:  detailColumns(),
		Classify: func(o mode.Output, _ classify.Mode) []classify.Bucket { return classify.Levels(o) },
	},
	{
		Name:     "conference_detail",
		Title:    "Conference listing",
		Kinds:    []mode.OutputKind{mode.KindConference},
		Mode:     classify.Single,
		Detail:   true,
		Columns:  detailColumns(),
		Classify: func(o mode.Output, _ classify.Mode) []classify.Bucket { return classify.Levels(o) },
	},
}

func init() {
	for _, v := range variants {
		v.Column("")
	}
}

// Variants returns the report shapes in their canonical order.
func Variants() []*Variant {
	return append([]*Variant(nil), variants...)
}

func Lookup(name string) (*Variant, bool) {
	for _, v := range variants {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

func Names() []string {
	ret := make([]string, len(variants))
	for i, v := range variants {
		ret[i] = v.Name
	}
	sort.Strings(ret)
	return ret
}
