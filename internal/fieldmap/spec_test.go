package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

func TestLookup_MatchesPlatformSupport(t *testing.T) {
	for _, id := range platform.All() {
		t.Run(id.String(), func(t *testing.T) {
			spec, ok := Lookup(id)
			assert.Equal(t, id.Supported(), ok)
			if ok {
				assert.Equal(t, id, spec.Platform)
				assert.NotEmpty(t, spec.Mappings)
			}
		})
	}
	assert.Equal(t, []platform.ID{platform.Lever, platform.Greenhouse, platform.Workday, platform.Glassdoor}, Supported())
}

func TestSpecs_OnlyReadFixedProfileKeys(t *testing.T) {
	for _, id := range Supported() {
		spec, _ := Lookup(id)
		for _, key := range spec.ProfileKeys() {
			assert.True(t, types.IsProfileKey(key), "%s reads unknown key %q", id, key)
		}
	}
}

func TestLeverSpec(t *testing.T) {
	spec, ok := Lookup(platform.Lever)
	require.True(t, ok)

	require.Len(t, spec.Mappings, 8)
	assert.Equal(t, Map(Selector(`input[name="name"]`), types.KeyFirstName, types.KeyLastName), spec.Mappings[0])
	assert.Equal(t, `input[name="urls[GitHub]"]`, spec.Mappings[7].Locator.Selector)
	assert.Equal(t, []string{types.KeyPortfolio}, spec.Mappings[7].ProfileKeys)

	names := make([]string, 0, len(spec.Rules))
	for _, r := range spec.Rules {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"Notice period", "Start date", "Salary", "Languages", "How did you hear",
		"Visa status", "Visa type", "Open to working in office", "Coding language",
		"Consent", "Years of experience",
	}, names)

	assert.Equal(t, FillLiteralText("2 weeks"), spec.Rules[0].Strategy)
	assert.Equal(t, FillLiteralText("Immediately available"), spec.Rules[1].Strategy)
	assert.Equal(t, FillLiteralText("$75,000 - $85,000"), spec.Rules[2].Strategy)
	assert.Equal(t, SelectCheckboxContaining("english"), spec.Rules[3].Strategy)
	assert.Equal(t, FillLiteralText("Online Job Board"), spec.Rules[4].Strategy)
	assert.Equal(t, []string{"visa", "require a visa"}, spec.Rules[5].Keywords)
	assert.Equal(t, SelectRadioContaining("american citizen"), spec.Rules[5].Strategy)
	assert.Equal(t, FillLiteralText("N/A - US Citizen"), spec.Rules[6].Strategy)
	assert.Equal(t, SelectRadioContaining("yes"), spec.Rules[7].Strategy)
	assert.Equal(t, SelectRadioContaining("python"), spec.Rules[8].Strategy)
	assert.Equal(t, SetCheckboxIfUnchecked(), spec.Rules[9].Strategy)
	assert.Equal(t, FillProfileText(types.KeyYearsExperience), spec.Rules[10].Strategy)

	assert.False(t, spec.RequiresLogin)
	assert.False(t, spec.UsesLabels())
}

func TestWorkdaySpec_UsesLabels(t *testing.T) {
	spec, ok := Lookup(platform.Workday)
	require.True(t, ok)

	assert.True(t, spec.UsesLabels())
	assert.True(t, spec.MultiPage)
	assert.True(t, spec.RequiresLogin)
	for _, m := range spec.Mappings {
		assert.Equal(t, ByLabel, m.Locator.Kind)
		assert.Equal(t, "[data-automation-id]", m.Locator.Container)
	}
}

func TestGreenhouseAndGlassdoorSpecs(t *testing.T) {
	greenhouse, ok := Lookup(platform.Greenhouse)
	require.True(t, ok)
	assert.Equal(t, []string{"#first_name", "#last_name", "#email", "#phone", `input[autocomplete="url"]`},
		selectors(greenhouse))
	assert.NotEmpty(t, greenhouse.Notes)

	glassdoor, ok := Lookup(platform.Glassdoor)
	require.True(t, ok)
	assert.Equal(t, []string{
		`input[name="firstName"]`, `input[name="lastName"]`, `input[name="email"]`, `input[name="phone"]`,
	}, selectors(glassdoor))
	assert.Empty(t, glassdoor.Rules)
}

func TestBuild_OverridesAnswers(t *testing.T) {
	spec, ok := Build(platform.Lever, Answers{Salary: "$120,000", Languages: []string{"english", "french"}})
	require.True(t, ok)

	assert.Equal(t, FillLiteralText("$120,000"), spec.Rules[2].Strategy)
	assert.Equal(t, SelectCheckboxContaining("english", "french"), spec.Rules[3].Strategy)
	assert.Equal(t, FillLiteralText("2 weeks"), spec.Rules[0].Strategy, "unset answers keep their default")

	_, ok = Build(platform.Indeed, DefaultAnswers())
	assert.False(t, ok)
}

func TestAnswers_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultAnswers(), Answers{}.WithDefaults())

	custom := Answers{NoticePeriod: "1 month"}.WithDefaults()
	assert.Equal(t, "1 month", custom.NoticePeriod)
	assert.Equal(t, "Immediately available", custom.StartDate)
}

func selectors(spec Spec) []string {
	out := make([]string, 0, len(spec.Mappings))
	for _, m := range spec.Mappings {
		out = append(out, m.Locator.Selector)
	}
	return out
}
