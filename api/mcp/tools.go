package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/aitranslate/pkg/translate"
)

var (
	translateToolName    = "translate"
	translateDescription = "Translate a source-code comment or short text into the target language using the configured model. The target defaults to Simplified Chinese (zh-CN) when empty or \"auto\"."

	nameToolName    = "name"
	nameDescription = "Turn a selected identifier, typically written in a natural language, into an English identifier that follows the naming conventions of the given programming language."
)

// TranslateInput represents the input arguments for the translate tool.
type TranslateInput struct {
	Content string `json:"content" jsonschema:"the text to translate"`
	From    string `json:"from,omitempty" jsonschema:"the source language, informational only"`
	To      string `json:"to,omitempty" jsonschema:"the target language (default: zh-CN)"`
}

// NameInput represents the input arguments for the name tool.
type NameInput struct {
	Identifier string `json:"identifier" jsonschema:"the selected identifier to rename"`
	LanguageID string `json:"language_id,omitempty" jsonschema:"the programming language of the document, e.g. go or python"`
	Paragraph  string `json:"paragraph,omitempty" jsonschema:"the source line containing the identifier"`
}

// TextOutput is the structured output of both tools.
type TextOutput struct {
	Text string `json:"text"`
}

func (s *Server) handleTranslate(ctx context.Context, _ *mcp.CallToolRequest, input TranslateInput) (*mcp.CallToolResult, TextOutput, error) {
	s.config.Logger.Debug("MCP translate request",
		"to", input.To,
		"content_length", len(input.Content),
	)

	text, err := s.config.Translator.Translate(ctx, input.Content, translate.Options{From: input.From, To: input.To})
	if err != nil {
		s.config.Logger.Error("MCP translate failed", "error", err)
		return toolError(err), TextOutput{}, nil
	}

	return toolText(text), TextOutput{Text: text}, nil
}

func (s *Server) handleName(ctx context.Context, _ *mcp.CallToolRequest, input NameInput) (*mcp.CallToolResult, TextOutput, error) {
	s.config.Logger.Debug("MCP name request",
		"identifier", input.Identifier,
		"language_id", input.LanguageID,
	)

	text, err := s.config.Namer.Name(ctx, translate.NamingRequest{
		Identifier: input.Identifier,
		LanguageID: input.LanguageID,
		Paragraph:  input.Paragraph,
	})
	if err != nil {
		s.config.Logger.Error("MCP name failed", "error", err)
		return toolError(err), TextOutput{}, nil
	}

	return toolText(text), TextOutput{Text: text}, nil
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
	}
}
