package classify

// Bucket is one category of a classification taxonomy. Buckets are derived
// from an output's flags and never stored.
type Bucket string

// national
const (
	TCI1              Bucket = "tci1"
	TCI2              Bucket = "tci2"
	ACI               Bucket = "aci"
	NationalNonListed Bucket = "national_nonlisted"
)

// international parents
const (
	Scopus   Bucket = "scopus"
	WOS      Bucket = "wos"
	ABDC     Bucket = "abdc"
	AJG      Bucket = "ajg"
	OtherPJR Bucket = "other_pjr"
)

// international sub-types
const (
	ScopusQ1       Bucket = "scopus_q1"
	ScopusQ2       Bucket = "scopus_q2"
	ScopusQ3       Bucket = "scopus_q3"
	ScopusQ4       Bucket = "scopus_q4"
	ScopusDelisted Bucket = "scopus_delisted"
	WOSSCIE        Bucket = "wos_scie"
	WOSSSCI        Bucket = "wos_ssci"
	WOSAHCI        Bucket = "wos_ahci"
	WOSESCI        Bucket = "wos_esci"
	ABDCAStar      Bucket = "abdc_astar"
	ABDCA          Bucket = "abdc_a"
	ABDCB          Bucket = "abdc_b"
	ABDCC          Bucket = "abdc_c"
	AJG1           Bucket = "ajg_1"
	AJG2           Bucket = "ajg_2"
	AJG3           Bucket = "ajg_3"
	AJG4           Bucket = "ajg_4"
	AJG4Star       Bucket = "ajg_4star"
)

// impact categories
const (
	ImpactAcademic Bucket = "impact_academic"
	ImpactTeaching Bucket = "impact_teaching"
	ImpactPractice Bucket = "impact_practice"
	ImpactSocietal Bucket = "impact_societal"
)

// output kind and level
const (
	KindPublication    Bucket = "kind_publication"
	KindConference     Bucket = "kind_conference"
	KindBook           Bucket = "kind_book"
	LevelNational      Bucket = "level_national"
	LevelInternational Bucket = "level_international"
	Indexed            Bucket = "indexed"
)

var labels = map[Bucket]string{
	TCI1:               "TCI Tier 1",
	TCI2:               "TCI Tier 2",
	ACI:                "ACI",
	NationalNonListed:  "Non-listed",
	Scopus:             "Scopus",
	WOS:                "WoS",
	ABDC:               "ABDC",
	AJG:                "AJG",
	OtherPJR:           "Other PJR",
	ScopusQ1:           "Q1",
	ScopusQ2:           "Q2",
	ScopusQ3:           "Q3",
	ScopusQ4:           "Q4",
	ScopusDelisted:     "Delisted",
	WOSSCIE:            "SCIE",
	WOSSSCI:            "SSCI",
	WOSAHCI:            "AHCI",
	WOSESCI:            "ESCI",
	ABDCAStar:          "A*",
	ABDCA:              "A",
	ABDCB:              "B",
	ABDCC:              "C",
	AJG1:               "AJG 1",
	AJG2:               "AJG 2",
	AJG3:               "AJG 3",
	AJG4:               "AJG 4",
	AJG4Star:           "AJG 4*",
	ImpactAcademic:     "Academic",
	ImpactTeaching:     "Teaching & Learning",
	ImpactPractice:     "Practice & Community",
	ImpactSocietal:     "Societal",
	KindPublication:    "Publications",
	KindConference:     "Conferences",
	KindBook:           "Books",
	LevelNational:      "National",
	LevelInternational: "International",
	Indexed:            "Indexed",
}

// Label returns the column label of a bucket, or the raw key when unknown.
func Label(b Bucket) string {
	if l, ok := labels[b]; ok {
		return l
	}
	return string(b)
}
