package prompt

import (
	"regexp"
	"strings"
)

var (
	// closed <think>...</think> or <thinking>...</thinking> blocks
	thinkBlock = regexp.MustCompile(`(?is)<think(?:ing)?>.*?</think(?:ing)?>`)

	// a leading opening tag that is never closed swallows the rest of the text
	thinkOpen = regexp.MustCompile(`(?is)^\s*<think(?:ing)?>.*$`)

	// some reasoning models omit the opening tag and only emit the closing one
	thinkOrphanClose = regexp.MustCompile(`(?is)^.*?</think(?:ing)?>`)
)

// StripThinking removes model reasoning blocks from text and trims the result.
func StripThinking(text string) string {
	text = thinkBlock.ReplaceAllString(text, "")
	text = thinkOrphanClose.ReplaceAllString(text, "")
	text = thinkOpen.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
