package fieldmap

import "strings"

// Canonical screening question fields.
const (
	FieldWorkAuthorized      = "workAuthorized"
	FieldRequiresSponsorship = "requiresSponsorship"
	FieldYearsExperience     = "yearsExperience"
	FieldDesiredSalary       = "desiredSalary"
	FieldStartDate           = "startDate"
	FieldHowDidYouHear       = "howDidYouHear"
	FieldWillingToRelocate   = "willingToRelocate"
	FieldWorkLocation        = "workLocation"
	FieldHighestDegree       = "highestDegree"
	FieldGender              = "gender"
	FieldVeteranStatus       = "veteranStatus"
	FieldDisabilityStatus    = "disabilityStatus"
)

type questionPattern struct {
	phrase string
	field  string
}

// questionPatterns is checked in order; the first contained phrase wins.
var questionPatterns = []questionPattern{
	{"authorized to work", FieldWorkAuthorized},
	{"legally authorized", FieldWorkAuthorized},
	{"work eligibility", FieldWorkAuthorized},
	{"right to work", FieldWorkAuthorized},

	{"visa sponsorship", FieldRequiresSponsorship},
	{"require sponsorship", FieldRequiresSponsorship},
	{"immigration sponsorship", FieldRequiresSponsorship},
	{"work visa", FieldRequiresSponsorship},

	{"years of experience", FieldYearsExperience},
	{"how many years", FieldYearsExperience},
	{"experience in", FieldYearsExperience},

	{"salary expectation", FieldDesiredSalary},
	{"compensation expectation", FieldDesiredSalary},
	{"salary requirement", FieldDesiredSalary},
	{"expected salary", FieldDesiredSalary},

	{"start date", FieldStartDate},
	{"when can you start", FieldStartDate},
	{"available to start", FieldStartDate},
	{"earliest start", FieldStartDate},

	{"how did you hear", FieldHowDidYouHear},
	{"where did you find", FieldHowDidYouHear},
	{"referral source", FieldHowDidYouHear},

	{"willing to relocate", FieldWillingToRelocate},
	{"open to relocation", FieldWillingToRelocate},
	{"work location", FieldWorkLocation},

	{"highest degree", FieldHighestDegree},
	{"education level", FieldHighestDegree},

	{"gender", FieldGender},
	{"veteran status", FieldVeteranStatus},
	{"disability", FieldDisabilityStatus},
}

var defaultQuestionAnswers = map[string]string{
	FieldWorkAuthorized:      "Yes",
	FieldRequiresSponsorship: "No",
	FieldHowDidYouHear:       "Job Board",
	FieldWillingToRelocate:   "Yes",
	FieldGender:              "Prefer not to say",
	FieldVeteranStatus:       "I am not a protected veteran",
	FieldDisabilityStatus:    "I do not wish to answer",
}

// ClassifyQuestion maps free question text to a canonical field.
func ClassifyQuestion(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range questionPatterns {
		if strings.Contains(lower, p.phrase) {
			return p.field, true
		}
	}
	return "", false
}

// DefaultAnswerFor returns the stock answer for a canonical field, if it has one.
func DefaultAnswerFor(field string) (string, bool) {
	answer, ok := defaultQuestionAnswers[field]
	return answer, ok
}
