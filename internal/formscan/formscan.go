// Package formscan checks a saved application page against a platform field
// map, reporting which fields and screening questions a generated script would
// reach. It only reads static HTML; forms rendered by client-side code after
// load will show up as missing.
package formscan

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/fieldmap"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
)

// Selectors the generated script queries; kept in step with the script helpers.
const (
	questionLabelSelector     = "label, h3, h4, legend"
	questionContainerSelector = "li, fieldset, .application-question, div"
	labelInputSelector        = "input, textarea"
	textInputSelector         = `input[type="text"], textarea`
	radioSelector             = `input[type="radio"]`
	checkboxSelector          = `input[type="checkbox"]`
	formControlSelector       = "input, textarea, select"
)

// FieldResult reports whether one mapping's locator resolves.
type FieldResult struct {
	Locator     fieldmap.Locator `json:"locator"`
	ProfileKeys []string         `json:"profileKeys"`
	Found       bool             `json:"found"`
	Matches     int              `json:"matches"`
}

// RuleResult reports whether a screening rule finds its question and a control to act on.
type RuleResult struct {
	Name        string `json:"name"`
	Keyword     string `json:"keyword,omitempty"`
	Found       bool   `json:"found"`
	HasControls bool   `json:"hasControls"`
}

// Question is a label-like element classified into a canonical question field.
type Question struct {
	Text          string `json:"text"`
	Field         string `json:"field"`
	DefaultAnswer string `json:"defaultAnswer,omitempty"`
}

// Report is the result of scanning one page.
type Report struct {
	Platform  platform.ID   `json:"platform"`
	Controls  int           `json:"controls"`
	Fields    []FieldResult `json:"fields"`
	Rules     []RuleResult  `json:"rules"`
	Questions []Question    `json:"questions"`
}

// FieldsFound returns how many mappings resolved.
func (r Report) FieldsFound() int {
	n := 0
	for _, f := range r.Fields {
		if f.Found {
			n++
		}
	}
	return n
}

// RulesFound returns how many rules found their question container.
func (r Report) RulesFound() int {
	n := 0
	for _, rr := range r.Rules {
		if rr.Found {
			n++
		}
	}
	return n
}

// Scan parses html and checks it against spec.
func Scan(html string, spec fieldmap.Spec) (Report, error) {
	return ScanReader(strings.NewReader(html), spec)
}

// ScanReader is Scan over a reader.
func ScanReader(r io.Reader, spec fieldmap.Spec) (Report, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Report{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	report := Report{
		Platform:  spec.Platform,
		Controls:  doc.Find(formControlSelector).Length(),
		Fields:    make([]FieldResult, 0, len(spec.Mappings)),
		Rules:     make([]RuleResult, 0, len(spec.Rules)),
		Questions: classifyQuestions(doc),
	}

	for _, m := range spec.Mappings {
		matches := locate(doc, m.Locator)
		report.Fields = append(report.Fields, FieldResult{
			Locator:     m.Locator,
			ProfileKeys: m.ProfileKeys,
			Found:       matches > 0,
			Matches:     matches,
		})
	}

	for _, rule := range spec.Rules {
		report.Rules = append(report.Rules, scanRule(doc, rule))
	}

	return report, nil
}

// locate returns the number of candidate elements for a locator.
func locate(doc *goquery.Document, loc fieldmap.Locator) int {
	switch loc.Kind {
	case fieldmap.BySelector:
		return doc.Find(loc.Selector).Length()
	case fieldmap.ByLabel:
		matches := 0
		doc.Find("label").Each(func(_ int, label *goquery.Selection) {
			if !containsFold(label.Text(), loc.Label) {
				return
			}
			if label.Closest(loc.Container).Find(labelInputSelector).Length() > 0 {
				matches++
			}
		})
		return matches
	}
	return 0
}

func scanRule(doc *goquery.Document, rule fieldmap.Rule) RuleResult {
	result := RuleResult{Name: rule.Name}
	for _, keyword := range rule.Keywords {
		container, ok := findQuestion(doc, keyword)
		if !ok {
			continue
		}
		result.Keyword = keyword
		result.Found = true
		result.HasControls = container.Find(controlSelector(rule.Strategy.Kind)).Length() > 0
		break
	}
	return result
}

// findQuestion mirrors the script: the first label-like element containing
// the keyword decides, even when it has no enclosing container.
func findQuestion(doc *goquery.Document, keyword string) (*goquery.Selection, bool) {
	var container *goquery.Selection
	doc.Find(questionLabelSelector).EachWithBreak(func(_ int, label *goquery.Selection) bool {
		if containsFold(label.Text(), keyword) {
			container = label.Closest(questionContainerSelector)
			return false
		}
		return true
	})
	if container == nil || container.Length() == 0 {
		return nil, false
	}
	return container, true
}

func controlSelector(kind fieldmap.StrategyKind) string {
	switch kind {
	case fieldmap.KindSelectRadio:
		return radioSelector
	case fieldmap.KindSelectCheckbox, fieldmap.KindCheckIfUnchecked:
		return checkboxSelector
	default:
		return textInputSelector
	}
}

func classifyQuestions(doc *goquery.Document) []Question {
	seen := make(map[string]bool)
	questions := []Question{}
	doc.Find(questionLabelSelector).Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" || seen[text] {
			return
		}
		field, ok := fieldmap.ClassifyQuestion(text)
		if !ok {
			return
		}
		seen[text] = true
		answer, _ := fieldmap.DefaultAnswerFor(field)
		questions = append(questions, Question{Text: text, Field: field, DefaultAnswer: answer})
	})
	return questions
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
