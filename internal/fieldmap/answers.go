package fieldmap

// Answers are the literal screening answers embedded into generated scripts.
// They are fixed heuristics rather than profile values; any empty field falls
// back to its default.
type Answers struct {
	NoticePeriod   string   `json:"noticePeriod,omitempty"`
	StartDate      string   `json:"startDate,omitempty"`
	Salary         string   `json:"salary,omitempty"`
	HowDidYouHear  string   `json:"howDidYouHear,omitempty"`
	VisaStatus     string   `json:"visaStatus,omitempty"`
	VisaType       string   `json:"visaType,omitempty"`
	OpenToWorking  string   `json:"openToWorking,omitempty"`
	CodingLanguage string   `json:"codingLanguage,omitempty"`
	Languages      []string `json:"languages,omitempty"`
}

// DefaultAnswers returns the built-in screening answers.
func DefaultAnswers() Answers {
	return Answers{
		NoticePeriod:   "2 weeks",
		StartDate:      "Immediately available",
		Salary:         "$75,000 - $85,000",
		HowDidYouHear:  "Online Job Board",
		VisaStatus:     "american citizen",
		VisaType:       "N/A - US Citizen",
		OpenToWorking:  "yes",
		CodingLanguage: "python",
		Languages:      []string{"english"},
	}
}

// WithDefaults returns a copy of a with every empty answer replaced by its default.
func (a Answers) WithDefaults() Answers {
	d := DefaultAnswers()
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	out := Answers{
		NoticePeriod:   pick(a.NoticePeriod, d.NoticePeriod),
		StartDate:      pick(a.StartDate, d.StartDate),
		Salary:         pick(a.Salary, d.Salary),
		HowDidYouHear:  pick(a.HowDidYouHear, d.HowDidYouHear),
		VisaStatus:     pick(a.VisaStatus, d.VisaStatus),
		VisaType:       pick(a.VisaType, d.VisaType),
		OpenToWorking:  pick(a.OpenToWorking, d.OpenToWorking),
		CodingLanguage: pick(a.CodingLanguage, d.CodingLanguage),
		Languages:      d.Languages,
	}
	if len(a.Languages) > 0 {
		out.Languages = append([]string(nil), a.Languages...)
	}
	return out
}
