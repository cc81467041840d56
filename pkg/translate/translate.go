// Package translate implements the comment translation engine and the
// identifier naming operation on top of a model backend.
package translate

import "context"

// Engine identity reported to the host that registers translation sources.
const (
	ID     = "ai-powered-comment-translate-extension"
	Name   = "AI translate"
	MaxLen = 3000
)

// AutoLang is the "let the engine decide" target language.
const AutoLang = "auto"

// DefaultTargetLang is used when the target language is empty or AutoLang.
const DefaultTargetLang = "zh-CN"

// Options are the per-call translation options supplied by the host.
type Options struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TargetLang resolves To, mapping AutoLang and the empty string to
// DefaultTargetLang.
func (o Options) TargetLang() string {
	if o.To == "" || o.To == AutoLang {
		return DefaultTargetLang
	}
	return o.To
}

// NamingRequest describes an identifier to rename.
type NamingRequest struct {
	// Identifier is the selected text to turn into an English name.
	Identifier string `json:"identifier"`

	// LanguageID is the editor language of the document, e.g. "go".
	LanguageID string `json:"language_id"`

	// Paragraph is the source line the identifier was selected on.
	Paragraph string `json:"paragraph"`
}

// Translator is the capability set a translation source exposes to its host.
type Translator interface {
	Translate(ctx context.Context, content string, opts Options) (string, error)
	Link(content string, opts Options) string
	IsSupported(src string) bool
}

// Namer turns a selected identifier into a conventional English name.
type Namer interface {
	Name(ctx context.Context, req NamingRequest) (string, error)
}
