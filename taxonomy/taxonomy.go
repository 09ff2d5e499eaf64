// Package taxonomy holds the controlled vocabularies used to classify
// articles. Each vocabulary is a single ordered list of value/label pairs
// consumed both by validation helpers and by the public /taxonomy feed, so
// stored values and UI labels cannot drift apart.
package taxonomy

// Term is one controlled-vocabulary entry. Value is what gets stored on
// articles and sent in filters, Label is the Slovak display text.
type Term struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Kind names a vocabulary.
type Kind string

const (
	KindCancerType    Kind = "cancerType"
	KindStage         Kind = "stage"
	KindCategory      Kind = "category"
	KindTreatmentType Kind = "treatmentType"
)

// CancerTypes are stored by their Slovak name directly.
var CancerTypes = selfLabeled(
	"Rakovina prsníka",
	"Rakovina prostaty",
	"Rakovina pľúc",
	"Rakovina hrubého čreva a konečníka",
	"Rakovina krčka maternice",
	"Rakovina vaječníkov",
	"Rakovina kože (melanóm)",
	"Rakovina pankreasu",
	"Leukémia",
	"Lymfóm",
)

// Stages are stored as stable codes with Slovak labels.
var Stages = []Term{
	{Value: "STAGE_0", Label: "Štádium 0"},
	{Value: "STAGE_I", Label: "Štádium I"},
	{Value: "STAGE_II", Label: "Štádium II"},
	{Value: "STAGE_III", Label: "Štádium III"},
	{Value: "STAGE_IV", Label: "Štádium IV"},
	{Value: "UNKNOWN", Label: "Neviem"},
}

var Categories = []Term{
	{Value: "DIAGNOSTICS", Label: "Diagnostika"},
	{Value: "TREATMENT", Label: "Liečba"},
	{Value: "SIDE_EFFECTS", Label: "Vedľajšie účinky"},
	{Value: "LIFE_DURING_TREATMENT", Label: "Život počas liečby"},
	{Value: "PREVENTION", Label: "Prevencia"},
	{Value: "MENTAL_SUPPORT", Label: "Psychická podpora"},
	{Value: "SOCIAL_SUPPORT", Label: "Sociálna pomoc"},
	{Value: "GENERAL_INFO", Label: "Základné informácie"},
	{Value: "STAGE_SPECIFIC", Label: "Informácie podľa štádia"},
	{Value: "CLINICAL_TRIALS", Label: "Klinické štúdie"},
	{Value: "FAQ", Label: "Často kladené otázky"},
	{Value: "SUPPORT_SERVICES", Label: "Pomoc a podpora"},
}

var TreatmentTypes = selfLabeled(
	"Diagnostika",
	"Biopsia",
	"Operácia",
	"Chemoterapia",
	"Rádioterapia",
	"Imunoterapia",
	"Cielená liečba",
	"Hormonálna liečba",
	"Kontrolné vyšetrenia",
	"Remisia a sledovanie",
)

// SuspicionSymptoms drive the "podozrenie" guided-navigation chips.
var SuspicionSymptoms = selfLabeled(
	"Nevysvetliteľné chudnutie",
	"Dlhodobý kašeľ alebo chrapot",
	"Krv v stolici alebo moči",
	"Zmeny na znamienkach alebo koži",
	"Hrčka alebo opuch na tele",
	"Dlhodobá únava",
)

// PreventionTopics drive the "prevencia" page chips.
var PreventionTopics = selfLabeled(
	"Zdravý životný štýl",
	"Fajčenie",
	"Alkohol",
	"Strava",
	"Pohyb",
	"Ochrana pred slnkom",
	"Očkovanie (HPV, hepatitída B)",
	"Pravidelné kontroly u lekára",
)

// SupportCategories drive the "podpora" page chips.
var SupportCategories = selfLabeled(
	"Pacientske organizácie",
	"Psychologická pomoc",
	"Finančná pomoc",
	"Sociálne dávky",
	"Právne informácie",
	"Pomoc pre rodinu",
	"Paliatívna starostlivosť",
	"Krízové kontakty",
)

var byKind = map[Kind][]Term{
	KindCancerType:    CancerTypes,
	KindStage:         Stages,
	KindCategory:      Categories,
	KindTreatmentType: TreatmentTypes,
}

// Terms returns the vocabulary for the given kind, or nil for unknown kinds.
func Terms(kind Kind) []Term {
	return byKind[kind]
}

// Valid reports whether value belongs to the vocabulary of the given kind.
// Article classification is not rejected on unknown values; callers use this
// only to log drift between authored content and the vocabulary.
func Valid(kind Kind, value string) bool {
	for _, term := range byKind[kind] {
		if term.Value == value {
			return true
		}
	}
	return false
}

// Label resolves the display label for a stored value. Unknown values come
// back unchanged so stale content still renders.
func Label(kind Kind, value string) string {
	for _, term := range byKind[kind] {
		if term.Value == value {
			return term.Label
		}
	}
	return value
}

func selfLabeled(values ...string) []Term {
	terms := make([]Term, 0, len(values))
	for _, v := range values {
		terms = append(terms, Term{Value: v, Label: v})
	}
	return terms
}
