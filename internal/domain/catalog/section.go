package catalog

// SectionID is one of the five fixed questionnaire sections.
// The enumeration is closed: an unknown id is always a validation error.
type SectionID string

const (
	SectionPersonalInfo    SectionID = "personal_info"
	SectionFamilyStatus    SectionID = "family_status"
	SectionHousing         SectionID = "housing"
	SectionEmployment      SectionID = "employment"
	SectionSocialSituation SectionID = "social_situation"
)

// Section is a static definition: fixed title and position.
type Section struct {
	ID    SectionID `json:"id" yaml:"id"`
	Title string    `json:"title" yaml:"title"`
	Order int       `json:"order" yaml:"order"`
}

var sections = []Section{
	{ID: SectionPersonalInfo, Title: "Informations Personnelles", Order: 1},
	{ID: SectionFamilyStatus, Title: "Situation Familiale", Order: 2},
	{ID: SectionHousing, Title: "Logement", Order: 3},
	{ID: SectionEmployment, Title: "Emploi et Revenus", Order: 4},
	{ID: SectionSocialSituation, Title: "Situation Sociale", Order: 5},
}

// Sections returns the five sections in display order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// SectionByID resolves a section id against the closed enum.
func SectionByID(id SectionID) (Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// KnownSection reports whether id belongs to the closed enum.
func KnownSection(id SectionID) bool {
	_, ok := SectionByID(id)
	return ok
}
