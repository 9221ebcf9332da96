package fieldmap

// StrategyKind is the action applied to a matched screening question.
type StrategyKind string

const (
	// KindFillText writes a literal answer into the question's text input.
	KindFillText StrategyKind = "fill_text"
	// KindFillProfile writes a profile value into the question's text input.
	KindFillProfile StrategyKind = "fill_profile"
	// KindSelectRadio clicks the radio whose label contains the target text.
	KindSelectRadio StrategyKind = "select_radio"
	// KindSelectCheckbox clicks every unchecked checkbox whose label contains any target text.
	KindSelectCheckbox StrategyKind = "select_checkbox"
	// KindCheckIfUnchecked checks the question's checkbox if it is not yet checked.
	KindCheckIfUnchecked StrategyKind = "check_if_unchecked"
)

// Strategy is a tagged union over the screening-question actions.
// Only the fields relevant to Kind are set.
type Strategy struct {
	Kind       StrategyKind `json:"kind"`
	Text       string       `json:"text,omitempty"`
	Texts      []string     `json:"texts,omitempty"`
	ProfileKey string       `json:"profileKey,omitempty"`
}

// FillLiteralText answers a question with a fixed string.
func FillLiteralText(value string) Strategy {
	return Strategy{Kind: KindFillText, Text: value}
}

// FillProfileText answers a question with the profile value under key.
func FillProfileText(key string) Strategy {
	return Strategy{Kind: KindFillProfile, ProfileKey: key}
}

// SelectRadioContaining picks the radio option whose label contains text.
func SelectRadioContaining(text string) Strategy {
	return Strategy{Kind: KindSelectRadio, Text: text}
}

// SelectCheckboxContaining ticks every option whose label contains one of texts.
func SelectCheckboxContaining(texts ...string) Strategy {
	return Strategy{Kind: KindSelectCheckbox, Texts: texts}
}

// SetCheckboxIfUnchecked ticks the question's checkbox unless it already is.
func SetCheckboxIfUnchecked() Strategy {
	return Strategy{Kind: KindCheckIfUnchecked}
}
