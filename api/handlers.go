package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/history"
	"github.com/papercomputeco/aitranslate/pkg/llm"
	"github.com/papercomputeco/aitranslate/pkg/prompt"
	"github.com/papercomputeco/aitranslate/pkg/translate"
)

const defaultHistoryLimit = 20

// TranslateRequest is the body of POST /translate and POST /link.
type TranslateRequest struct {
	Content string `json:"content"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// TextResponse carries the engine output.
type TextResponse struct {
	Text string `json:"text"`
}

// EngineResponse describes the translation source to its host.
type EngineResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	MaxLen  int    `json:"max_len"`
	Backend string `json:"backend"`
	Model   string `json:"model"`
}

// HistoryResponse lists recorded operations, newest first.
type HistoryResponse struct {
	Count   int               `json:"count"`
	Records []*history.Record `json:"records"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

func (s *Server) handleEngine(c *fiber.Ctx) error {
	resp := EngineResponse{
		ID:     translate.ID,
		Name:   translate.Name,
		MaxLen: translate.MaxLen,
	}
	if e := s.engine.Engine(); e != nil {
		resp.Backend = e.Config().Model.Backend
		resp.Model = e.Config().Model.Name
	}
	return c.JSON(resp)
}

func (s *Server) handleTranslate(c *fiber.Ctx) error {
	var req TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	text, err := s.engine.Translate(c.Context(), req.Content, translate.Options{From: req.From, To: req.To})
	if err != nil {
		s.logger.Debug("translate request failed", "error", err)
		return c.Status(statusFor(err)).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(TextResponse{Text: text})
}

func (s *Server) handleLink(c *fiber.Ctx) error {
	var req TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	return c.JSON(TextResponse{Text: s.engine.Link(req.Content, translate.Options{From: req.From, To: req.To})})
}

func (s *Server) handleSupported(c *fiber.Ctx) error {
	return c.JSON(map[string]bool{
		"supported": s.engine.IsSupported(c.Query("src")),
	})
}

func (s *Server) handleNaming(c *fiber.Ctx) error {
	var req translate.NamingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	text, err := s.engine.Name(c.Context(), req)
	if err != nil {
		s.logger.Debug("naming request failed", "error", err)
		return c.Status(statusFor(err)).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(TextResponse{Text: text})
}

func (s *Server) handleReload(c *fiber.Ctx) error {
	cfg, err := s.Reload()
	if err != nil {
		s.logger.Warn("config reload failed", "error", err)
		status := fiber.StatusInternalServerError
		if config.IsConfigError(err) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(map[string]string{
		"status":  "reloaded",
		"backend": cfg.Model.Backend,
		"model":   cfg.Model.Name,
	})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	if s.config.History == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(llm.ErrorResponse{
			Error: "history is not enabled",
		})
	}

	limit := defaultHistoryLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{
				Error: "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	records, err := s.config.History.List(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list history"})
	}
	if records == nil {
		records = []*history.Record{}
	}

	return c.JSON(HistoryResponse{Count: len(records), Records: records})
}

// statusFor maps an engine error onto an HTTP status: caller mistakes are
// 400, everything that went wrong talking to the model is 502.
func statusFor(err error) int {
	var tmplErr *prompt.TemplateError
	switch {
	case errors.Is(err, translate.ErrEmptyInput),
		errors.Is(err, translate.ErrNoEngine),
		config.IsConfigError(err),
		errors.As(err, &tmplErr):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusBadGateway
	}
}
