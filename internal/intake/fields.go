package intake

import (
	"formdesk-backend/internal/validation"
)

// ── Section Tree ─────────────────────────────────────────────────
// Each section is a typed struct. Field lookups go through the field table
// below, whose accessors point at struct fields, so a misspelt field is a
// compile error rather than a silent no-op.

// SectionID identifies one of the three toggleable sections.
type SectionID string

const (
	Education        SectionID = "education"
	Employer         SectionID = "employer"
	PreviousEmployer SectionID = "previousEmployer"
)

// Sections lists every section in display order.
var Sections = []SectionID{Education, Employer, PreviousEmployer}

// Toggle is a section's yes/no selection. The zero value means unset.
type Toggle string

const (
	ToggleUnset Toggle = ""
	ToggleYes   Toggle = "yes"
	ToggleNo    Toggle = "no"
)

// Address is the embedded address group shared by all three sections.
type Address struct {
	Street1 string `json:"street1"`
	Street2 string `json:"street2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// EducationDetails is the education section.
type EducationDetails struct {
	InstituteName string  `json:"instituteName"`
	Address       Address `json:"address"`
	CourseName    string  `json:"courseName"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	Description   string  `json:"description"`
}

// EmployerDetails is the current-employment section.
type EmployerDetails struct {
	CompanyName    string  `json:"companyName"`
	Address        Address `json:"address"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	Salary         string  `json:"salary"`
	JobTitle       string  `json:"jobTitle"`
	JobDescription string  `json:"jobDescription"`
	WorkPhone      string  `json:"workPhone"`
	Description    string  `json:"description"`
}

// PreviousEmployerDetails is the previous-employment section.
type PreviousEmployerDetails struct {
	CompanyName    string  `json:"companyName"`
	Address        Address `json:"address"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	JobTitle       string  `json:"jobTitle"`
	JobDescription string  `json:"jobDescription"`
	ContactNo      string  `json:"contactNo"`
	SupervisorName string  `json:"supervisorName"`
	Description    string  `json:"description"`
}

// Values is the full set of entered data. It doubles as the read-only
// summary shown after a successful submit.
type Values struct {
	PANCard string `json:"panCard"`

	HasEducation Toggle           `json:"hasEducation"`
	Education    EducationDetails `json:"education"`

	HasEmployment Toggle          `json:"hasEmployment"`
	Employer      EmployerDetails `json:"employer"`

	HasPreviousEmployment Toggle                  `json:"hasPreviousEmployment"`
	PreviousEmployer      PreviousEmployerDetails `json:"previousEmployer"`
}

// toggle returns a pointer to the toggle gating the given section.
func (v *Values) toggle(id SectionID) *Toggle {
	switch id {
	case Education:
		return &v.HasEducation
	case Employer:
		return &v.HasEmployment
	case PreviousEmployer:
		return &v.HasPreviousEmployment
	}
	return nil
}

// Toggle returns the answer recorded for a section's toggle.
func (v Values) Toggle(id SectionID) Toggle {
	if t := v.toggle(id); t != nil {
		return *t
	}
	return ToggleUnset
}

// ── Field Table ──────────────────────────────────────────────────

// FieldPath is a dotted path into the form, e.g. "employer.address.pincode".
type FieldPath string

type field struct {
	path    FieldPath
	label   string
	section SectionID // empty for top-level fields
	class   validation.Class
	ref     func(v *Values) *string
}

var (
	fieldTable []field
	fieldIndex = map[FieldPath]int{}
)

func register(f field) {
	fieldIndex[f.path] = len(fieldTable)
	fieldTable = append(fieldTable, f)
}

func registerAddress(section SectionID, addr func(v *Values) *Address) {
	prefix := string(section) + ".address."
	fields := []struct {
		name  string
		label string
		class validation.Class
		ref   func(a *Address) *string
	}{
		{"street1", "Street 1", validation.ClassRequired, func(a *Address) *string { return &a.Street1 }},
		{"street2", "Street 2", validation.ClassOptional, func(a *Address) *string { return &a.Street2 }},
		{"city", "City", validation.ClassRequired, func(a *Address) *string { return &a.City }},
		{"state", "State", validation.ClassRequired, func(a *Address) *string { return &a.State }},
		{"pincode", "Pincode", validation.ClassPincode, func(a *Address) *string { return &a.Pincode }},
	}
	for _, af := range fields {
		ref := af.ref
		register(field{
			path:    FieldPath(prefix + af.name),
			label:   af.label,
			section: section,
			class:   af.class,
			ref:     func(v *Values) *string { return ref(addr(v)) },
		})
	}
}

func init() {
	register(field{path: "panCard", label: "PAN card", class: validation.ClassPAN,
		ref: func(v *Values) *string { return &v.PANCard }})

	for _, id := range Sections {
		id := id
		register(field{path: togglePath(id), label: sectionLabel(id), class: validation.ClassToggle,
			ref: func(v *Values) *string { return (*string)(v.toggle(id)) }})
	}

	edu := func(v *Values) *EducationDetails { return &v.Education }
	register(field{path: "education.instituteName", label: "Institute name", section: Education, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &edu(v).InstituteName }})
	registerAddress(Education, func(v *Values) *Address { return &edu(v).Address })
	register(field{path: "education.courseName", label: "Course name", section: Education, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &edu(v).CourseName }})
	register(field{path: "education.startDate", label: "Start date", section: Education, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &edu(v).StartDate }})
	register(field{path: "education.endDate", label: "End date", section: Education, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &edu(v).EndDate }})
	register(field{path: "education.description", label: "Description", section: Education, class: validation.ClassOptional,
		ref: func(v *Values) *string { return &edu(v).Description }})

	emp := func(v *Values) *EmployerDetails { return &v.Employer }
	register(field{path: "employer.companyName", label: "Company name", section: Employer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &emp(v).CompanyName }})
	registerAddress(Employer, func(v *Values) *Address { return &emp(v).Address })
	register(field{path: "employer.startDate", label: "Start date", section: Employer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &emp(v).StartDate }})
	register(field{path: "employer.endDate", label: "End date", section: Employer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &emp(v).EndDate }})
	register(field{path: "employer.salary", label: "Salary", section: Employer, class: validation.ClassSalary,
		ref: func(v *Values) *string { return &emp(v).Salary }})
	register(field{path: "employer.jobTitle", label: "Job title", section: Employer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &emp(v).JobTitle }})
	register(field{path: "employer.jobDescription", label: "Job description", section: Employer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &emp(v).JobDescription }})
	register(field{path: "employer.workPhone", label: "Work phone", section: Employer, class: validation.ClassPhone,
		ref: func(v *Values) *string { return &emp(v).WorkPhone }})
	register(field{path: "employer.description", label: "Description", section: Employer, class: validation.ClassOptional,
		ref: func(v *Values) *string { return &emp(v).Description }})

	prev := func(v *Values) *PreviousEmployerDetails { return &v.PreviousEmployer }
	register(field{path: "previousEmployer.companyName", label: "Company name", section: PreviousEmployer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &prev(v).CompanyName }})
	registerAddress(PreviousEmployer, func(v *Values) *Address { return &prev(v).Address })
	register(field{path: "previousEmployer.startDate", label: "Start date", section: PreviousEmployer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &prev(v).StartDate }})
	register(field{path: "previousEmployer.endDate", label: "End date", section: PreviousEmployer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &prev(v).EndDate }})
	register(field{path: "previousEmployer.jobTitle", label: "Job title", section: PreviousEmployer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &prev(v).JobTitle }})
	register(field{path: "previousEmployer.jobDescription", label: "Job description", section: PreviousEmployer, class: validation.ClassRequired,
		ref: func(v *Values) *string { return &prev(v).JobDescription }})
	register(field{path: "previousEmployer.contactNo", label: "Contact number", section: PreviousEmployer, class: validation.ClassPhone,
		ref: func(v *Values) *string { return &prev(v).ContactNo }})
	register(field{path: "previousEmployer.supervisorName", label: "Supervisor name", section: PreviousEmployer, class: validation.ClassOptional,
		ref: func(v *Values) *string { return &prev(v).SupervisorName }})
	register(field{path: "previousEmployer.description", label: "Description", section: PreviousEmployer, class: validation.ClassOptional,
		ref: func(v *Values) *string { return &prev(v).Description }})
}

func togglePath(id SectionID) FieldPath {
	switch id {
	case Education:
		return "hasEducation"
	case Employer:
		return "hasEmployment"
	default:
		return "hasPreviousEmployment"
	}
}

func sectionLabel(id SectionID) string {
	switch id {
	case Education:
		return "Education"
	case Employer:
		return "Current employment"
	default:
		return "Previous employment"
	}
}

// ParseSection maps a URL segment to a SectionID.
func ParseSection(s string) (SectionID, error) {
	for _, id := range Sections {
		if string(id) == s {
			return id, nil
		}
	}
	return "", ErrUnknownSection
}

// ParseFieldPath validates a dotted path against the field table.
func ParseFieldPath(s string) (FieldPath, error) {
	if _, ok := fieldIndex[FieldPath(s)]; !ok {
		return "", ErrUnknownField
	}
	return FieldPath(s), nil
}

// SectionFields returns the paths belonging to a section, in table order.
func SectionFields(id SectionID) []FieldPath {
	var paths []FieldPath
	for _, f := range fieldTable {
		if f.section == id {
			paths = append(paths, f.path)
		}
	}
	return paths
}
