package rendering

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/fieldmap"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// UnsupportedScript is returned for platforms that have no field map.
const UnsupportedScript = "// Platform not supported for auto-fill"

//go:embed templates/autofill.js.tmpl
var defaultTemplate string

// TemplateData represents the data structure passed to the script template.
// Every string is already escaped for the position it is written to.
type TemplateData struct {
	Platform   string
	JobURL     string
	Notes      []string
	Profile    string
	UsesLabels bool
	Mappings   []string
	Rules      []RuleData
}

// RuleData is one rendered screening rule.
type RuleData struct {
	Name     string
	Keywords string
	Action   string
}

// Generator renders auto-fill scripts. It holds no per-call state and is safe
// for concurrent use.
type Generator struct {
	tmpl    *template.Template
	answers fieldmap.Answers
}

var defaultGenerator = NewGenerator(fieldmap.DefaultAnswers())

// NewGenerator returns a generator using the built-in template and the given
// screening answers.
func NewGenerator(answers fieldmap.Answers) *Generator {
	tmpl := template.Must(template.New("autofill").Parse(defaultTemplate))
	return &Generator{tmpl: tmpl, answers: answers.WithDefaults()}
}

// NewGeneratorFromFile returns a generator using a template read from disk.
func NewGeneratorFromFile(templatePath string, answers fieldmap.Answers) (*Generator, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	return &Generator{tmpl: tmpl, answers: answers.WithDefaults()}, nil
}

// GenerateScript renders a script with the built-in template and default answers.
func GenerateScript(id platform.ID, profile *types.Profile, jobURL string) (string, error) {
	return defaultGenerator.Generate(id, profile, jobURL)
}

// IsUnsupported reports whether script is the unsupported-platform sentinel.
func IsUnsupported(script string) bool {
	return script == UnsupportedScript
}

// Generate renders the auto-fill script for a platform. Platforms without a
// field map yield UnsupportedScript. Identical inputs produce identical output.
// A nil profile is treated as an empty one.
func (g *Generator) Generate(id platform.ID, profile *types.Profile, jobURL string) (string, error) {
	spec, ok := fieldmap.Build(id, g.answers)
	if !ok {
		return UnsupportedScript, nil
	}
	if profile == nil {
		profile = types.NewProfile()
	}

	data, err := buildTemplateData(spec, profile, jobURL)
	if err != nil {
		return "", &RenderError{
			Message: "failed to build template data",
			Cause:   err,
		}
	}

	var result strings.Builder
	if err := g.tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// parseTemplate reads and parses a script template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	tmpl, err := template.New("autofill").Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}

func buildTemplateData(spec fieldmap.Spec, profile *types.Profile, jobURL string) (*TemplateData, error) {
	data := &TemplateData{
		Platform:   CommentText(spec.Platform.String()),
		JobURL:     CommentText(jobURL),
		Profile:    profileLiteral(profile),
		UsesLabels: spec.UsesLabels(),
	}
	for _, note := range spec.Notes {
		data.Notes = append(data.Notes, CommentText(note))
	}

	for _, m := range spec.Mappings {
		stmt, err := mappingStatement(m)
		if err != nil {
			return nil, err
		}
		data.Mappings = append(data.Mappings, stmt)
	}

	for _, r := range spec.Rules {
		action, err := ruleAction(r.Strategy)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		data.Rules = append(data.Rules, RuleData{
			Name:     CommentText(r.Name),
			Keywords: JSStrings(r.Keywords),
			Action:   action,
		})
	}
	return data, nil
}

// profileLiteral renders the fixed profile keys, in order, as a JS object literal.
func profileLiteral(profile *types.Profile) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	fields := profile.Snapshot()
	for i, field := range fields {
		sb.WriteString("        ")
		sb.WriteString(field.Key)
		sb.WriteString(": ")
		sb.WriteString(JSString(field.Value))
		if i < len(fields)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("    }")
	return sb.String()
}

// profileExpr is the JS expression reading keys from the embedded profile.
func profileExpr(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", fmt.Errorf("mapping has no profile keys")
	}
	refs := make([]string, len(keys))
	for i, key := range keys {
		if !types.IsProfileKey(key) {
			return "", fmt.Errorf("%w: %s", types.ErrUnknownProfileKey, key)
		}
		refs[i] = "profile." + key
	}
	if len(refs) == 1 {
		return refs[0], nil
	}
	return "[" + strings.Join(refs, ", ") + "].filter(Boolean).join(' ')", nil
}

func mappingStatement(m fieldmap.Mapping) (string, error) {
	value, err := profileExpr(m.ProfileKeys)
	if err != nil {
		return "", err
	}
	switch m.Locator.Kind {
	case fieldmap.BySelector:
		return fmt.Sprintf("await fillField(%s, %s)", JSString(m.Locator.Selector), value), nil
	case fieldmap.ByLabel:
		return fmt.Sprintf("await fillByLabel(%s, %s, %s)",
			JSString(m.Locator.Label), JSString(m.Locator.Container), value), nil
	}
	return "", fmt.Errorf("unknown locator kind %q", m.Locator.Kind)
}

func ruleAction(s fieldmap.Strategy) (string, error) {
	switch s.Kind {
	case fieldmap.KindFillText:
		return fmt.Sprintf("await fillQuestionText(q, %s)", JSString(s.Text)), nil
	case fieldmap.KindFillProfile:
		value, err := profileExpr([]string{s.ProfileKey})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("await fillQuestionText(q, %s)", value), nil
	case fieldmap.KindSelectRadio:
		return fmt.Sprintf("await selectRadioByText(q, %s)", JSString(s.Text)), nil
	case fieldmap.KindSelectCheckbox:
		return fmt.Sprintf("await selectCheckboxByText(q, [%s])", JSStrings(s.Texts)), nil
	case fieldmap.KindCheckIfUnchecked:
		return "await checkIfUnchecked(q)", nil
	}
	return "", fmt.Errorf("unknown strategy kind %q", s.Kind)
}
