package fieldmap

import (
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// workdayContainer wraps each Workday form widget; IDs are generated per page load.
const workdayContainer = "[data-automation-id]"

func leverSpec(a Answers) Spec {
	return Spec{
		Platform: platform.Lever,
		Mappings: []Mapping{
			Map(Selector(`input[name="name"]`), types.KeyFirstName, types.KeyLastName),
			Map(Selector(`input[name="email"]`), types.KeyEmail),
			Map(Selector(`input[name="phone"]`), types.KeyPhone),
			Map(Selector(`input[name="location"]`), types.KeyLocation),
			Map(Selector(`input[name="org"]`), types.KeyCurrentCompany),
			Map(Selector(`input[name="urls[LinkedIn]"]`), types.KeyLinkedIn),
			Map(Selector(`input[name="urls[Portfolio]"]`), types.KeyPortfolio),
			Map(Selector(`input[name="urls[GitHub]"]`), types.KeyPortfolio),
		},
		// "visa" also matches the "what visa" question; the later rule overwrites.
		Rules: []Rule{
			{Name: "Notice period", Keywords: []string{"notice period"}, Strategy: FillLiteralText(a.NoticePeriod)},
			{Name: "Start date", Keywords: []string{"start date"}, Strategy: FillLiteralText(a.StartDate)},
			{Name: "Salary", Keywords: []string{"salary"}, Strategy: FillLiteralText(a.Salary)},
			{Name: "Languages", Keywords: []string{"languages"}, Strategy: SelectCheckboxContaining(a.Languages...)},
			{Name: "How did you hear", Keywords: []string{"hear about"}, Strategy: FillLiteralText(a.HowDidYouHear)},
			{Name: "Visa status", Keywords: []string{"visa", "require a visa"}, Strategy: SelectRadioContaining(a.VisaStatus)},
			{Name: "Visa type", Keywords: []string{"what visa"}, Strategy: FillLiteralText(a.VisaType)},
			{Name: "Open to working in office", Keywords: []string{"open to working"}, Strategy: SelectRadioContaining(a.OpenToWorking)},
			{Name: "Coding language", Keywords: []string{"coding language", "python or r"}, Strategy: SelectRadioContaining(a.CodingLanguage)},
			{Name: "Consent", Keywords: []string{"consent", "retain"}, Strategy: SetCheckboxIfUnchecked()},
			{Name: "Years of experience", Keywords: []string{"years of experience"}, Strategy: FillProfileText(types.KeyYearsExperience)},
		},
	}
}

func greenhouseSpec() Spec {
	return Spec{
		Platform: platform.Greenhouse,
		Mappings: []Mapping{
			Map(Selector("#first_name"), types.KeyFirstName),
			Map(Selector("#last_name"), types.KeyLastName),
			Map(Selector("#email"), types.KeyEmail),
			Map(Selector("#phone"), types.KeyPhone),
			Map(Selector(`input[autocomplete="url"]`), types.KeyLinkedIn),
		},
		Rules: []Rule{
			{Name: "LinkedIn profile", Keywords: []string{"linkedin"}, Strategy: FillProfileText(types.KeyLinkedIn)},
			{Name: "Website", Keywords: []string{"website"}, Strategy: FillProfileText(types.KeyPortfolio)},
		},
		Notes: []string{"Greenhouse uses Select2 for some dropdowns; answer those manually."},
	}
}

func workdaySpec() Spec {
	return Spec{
		Platform: platform.Workday,
		Mappings: []Mapping{
			Map(Label("first name", workdayContainer), types.KeyFirstName),
			Map(Label("last name", workdayContainer), types.KeyLastName),
			Map(Label("email", workdayContainer), types.KeyEmail),
			Map(Label("phone", workdayContainer), types.KeyPhone),
		},
		RequiresLogin: true,
		MultiPage:     true,
		Notes: []string{
			"Workday applications span several pages with dynamic content; run the script again on each page.",
			"Workday usually requires signing in before the form is shown.",
		},
	}
}

func glassdoorSpec() Spec {
	return Spec{
		Platform: platform.Glassdoor,
		Mappings: []Mapping{
			Map(Selector(`input[name="firstName"]`), types.KeyFirstName),
			Map(Selector(`input[name="lastName"]`), types.KeyLastName),
			Map(Selector(`input[name="email"]`), types.KeyEmail),
			Map(Selector(`input[name="phone"]`), types.KeyPhone),
		},
		RequiresLogin: true,
	}
}
