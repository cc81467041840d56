// Package prompt renders the prompts sent to the model and cleans up what
// comes back.
package prompt

import (
	"fmt"
	"strings"
)

// Placeholders recognised in custom templates.
const (
	Content      = "${content}"
	TargetLang   = "${targetLang}"
	VariableName = "${variableName}"
	LanguageID   = "${languageId}"
	Paragraph    = "${paragraph}"
	NamingRules  = "${namingRules}"
)

// DefaultNamingRules selects the language's standard naming convention.
const DefaultNamingRules = "default"

// Kind identifies which operation a template is for.
type Kind string

const (
	KindTranslate Kind = "translate"
	KindNaming    Kind = "naming"
)

// required lists the placeholders a custom template of each kind must carry.
var required = map[Kind][]string{
	KindTranslate: {Content},
	KindNaming:    {VariableName},
}

const translateTemplate = `Act as a translator. Check whether the sentence or word is accurate, ` +
	`translate it naturally, fluently and idiomatically, and use professional ` +
	`software terminology to translate comments or function names precisely. ` +
	`Do not add anything else. Translate the following text into ${targetLang}:
"${content}"`

const namingTemplate = `Based on ${languageId}, decide whether "${variableName}" in ` +
	`"${paragraph}" is a class name, a method name, a function name or something else. ` +
	`Then, following the standard naming conventions of ${languageId}, translate ` +
	`"${variableName}" into English using professional wording. Return only the ` +
	`translated "${variableName}" with no explanation and no special symbols.`

const namingRulesTemplate = `Based on ${languageId}, decide whether "${variableName}" in ` +
	`"${paragraph}" is a class name, a method name, a function name or something else. ` +
	`Then, following the standard conventions of ${languageId} and the "${namingRules}" ` +
	`naming rule, translate "${variableName}" into English using professional wording. ` +
	`Return only the translated "${variableName}" with no explanation and no special symbols.`

// TemplateError reports a custom template that lacks a required placeholder.
type TemplateError struct {
	Kind    Kind
	Missing string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("custom %s prompt must contain the %s placeholder", e.Kind, e.Missing)
}

// Vars are the values substituted into a template.
type Vars struct {
	Content      string
	TargetLang   string
	VariableName string
	LanguageID   string
	Paragraph    string
	NamingRules  string
}

// Validate checks that a custom template of the given kind contains every
// required placeholder. An empty template is valid and means "use the
// built-in prompt".
func Validate(kind Kind, tmpl string) error {
	if tmpl == "" {
		return nil
	}
	for _, p := range required[kind] {
		if !strings.Contains(tmpl, p) {
			return &TemplateError{Kind: kind, Missing: p}
		}
	}
	return nil
}

// Render substitutes every known placeholder in tmpl. Unknown ${...}
// sequences are left untouched.
func Render(tmpl string, v Vars) string {
	return strings.NewReplacer(
		Content, v.Content,
		TargetLang, v.TargetLang,
		VariableName, v.VariableName,
		LanguageID, v.LanguageID,
		Paragraph, v.Paragraph,
		NamingRules, v.NamingRules,
	).Replace(tmpl)
}

// Translation renders the translation prompt, using custom when set.
func Translation(custom string, v Vars) (string, error) {
	if err := Validate(KindTranslate, custom); err != nil {
		return "", err
	}
	tmpl := translateTemplate
	if custom != "" {
		tmpl = custom
	}
	return Render(tmpl, v), nil
}

// Naming renders the identifier naming prompt. Without a custom template the
// built-in prompt is chosen by v.NamingRules: empty or "default" uses the
// language's own conventions, anything else is quoted as the rule to follow.
func Naming(custom string, v Vars) (string, error) {
	if err := Validate(KindNaming, custom); err != nil {
		return "", err
	}
	if v.NamingRules == "" {
		v.NamingRules = DefaultNamingRules
	}

	tmpl := custom
	if tmpl == "" {
		tmpl = namingTemplate
		if v.NamingRules != DefaultNamingRules {
			tmpl = namingRulesTemplate
		}
	}
	return Render(tmpl, v), nil
}
