package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/history"
	"github.com/papercomputeco/aitranslate/pkg/history/inmemory"
	"github.com/papercomputeco/aitranslate/pkg/llm"
	"github.com/papercomputeco/aitranslate/pkg/logger"
	"github.com/papercomputeco/aitranslate/pkg/translate"
	testutils "github.com/papercomputeco/aitranslate/pkg/utils/test"
)

func apiTestConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Model.API = "http://localhost/v1/chat/completions"
	cfg.Model.Key = "sk-test"
	cfg.Model.Name = "test-model"
	return cfg
}

// doJSON sends body (marshalled unless nil) and decodes the response into out.
func doJSON(server *Server, method, path string, body, out any) int {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	Expect(err).NotTo(HaveOccurred())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.app.Test(req)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	if out != nil {
		respBody, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(respBody, out)).To(Succeed())
	}
	return resp.StatusCode
}

var _ = Describe("Server", func() {
	var (
		server  *Server
		backend *testutils.MockBackend
		cfg     *config.Config
		store   *config.Store
		driver  *inmemory.Driver
	)

	BeforeEach(func() {
		backend = testutils.NewMockBackend("你好")
		cfg = apiTestConfig()
		driver = inmemory.NewDriver()
	})

	JustBeforeEach(func() {
		current := cfg
		var err error
		store, err = config.NewStore(func() (*config.Config, error) { return current, nil })
		Expect(err).NotTo(HaveOccurred())

		server, err = NewServer(Config{
			ListenAddr:    ":0",
			Store:         store,
			History:       driver,
			EngineOptions: []translate.Option{translate.WithBackend(backend)},
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("requires a store", func() {
			_, err := NewServer(Config{}, logger.Nop())
			Expect(err).To(MatchError(ContainSubstring("config store is required")))
		})

		It("requires a logger", func() {
			_, err := NewServer(Config{Store: config.NewStaticStore(apiTestConfig())}, nil)
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("fails for an unknown backend", func() {
			bad := apiTestConfig()
			bad.Model.Backend = "telegraph"
			_, err := NewServer(Config{Store: config.NewStaticStore(bad)}, logger.Nop())
			Expect(err).To(MatchError(config.ErrUnknownBackend))
		})
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			var out string
			Expect(doJSON(server, http.MethodGet, "/ping", nil, &out)).To(Equal(fiber.StatusOK))
			Expect(out).To(Equal("pong"))
		})
	})

	Describe("GET /engine", func() {
		It("describes the translation source", func() {
			var out EngineResponse
			Expect(doJSON(server, http.MethodGet, "/engine", nil, &out)).To(Equal(fiber.StatusOK))
			Expect(out.ID).To(Equal(translate.ID))
			Expect(out.Name).To(Equal("AI translate"))
			Expect(out.MaxLen).To(Equal(3000))
			Expect(out.Backend).To(Equal(config.BackendChat))
			Expect(out.Model).To(Equal("test-model"))
		})
	})

	Describe("POST /translate", func() {
		It("returns the translated text", func() {
			var out TextResponse
			status := doJSON(server, http.MethodPost, "/translate", TranslateRequest{Content: "hello", To: "auto"}, &out)
			Expect(status).To(Equal(fiber.StatusOK))
			Expect(out.Text).To(Equal("你好"))
			Expect(backend.LastPrompt()).To(ContainSubstring("zh-CN"))
		})

		It("returns 400 for an invalid body", func() {
			req, err := http.NewRequest(http.MethodPost, "/translate", bytes.NewReader([]byte("{not json")))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 400 for empty content", func() {
			var out llm.ErrorResponse
			status := doJSON(server, http.MethodPost, "/translate", TranslateRequest{}, &out)
			Expect(status).To(Equal(fiber.StatusBadRequest))
			Expect(out.Error).To(ContainSubstring("input is empty"))
		})

		Context("when the configuration is incomplete", func() {
			BeforeEach(func() {
				cfg.Model.Key = ""
			})

			It("returns 400 with the configuration error", func() {
				var out llm.ErrorResponse
				status := doJSON(server, http.MethodPost, "/translate", TranslateRequest{Content: "hello"}, &out)
				Expect(status).To(Equal(fiber.StatusBadRequest))
				Expect(out.Error).To(Equal("translation failed: model.key is not configured"))
				Expect(backend.Requests()).To(BeEmpty())
			})
		})

		Context("when the custom prompt lacks a placeholder", func() {
			BeforeEach(func() {
				cfg.Prompt.Translate = "Translate please"
			})

			It("returns 400", func() {
				var out llm.ErrorResponse
				status := doJSON(server, http.MethodPost, "/translate", TranslateRequest{Content: "hello"}, &out)
				Expect(status).To(Equal(fiber.StatusBadRequest))
				Expect(out.Error).To(ContainSubstring("${content}"))
			})
		})

		Context("when the backend fails", func() {
			BeforeEach(func() {
				backend.Err = &llm.APIError{Backend: "mock", StatusCode: 429, Message: "rate limited"}
			})

			It("returns 502 with the upstream message", func() {
				var out llm.ErrorResponse
				status := doJSON(server, http.MethodPost, "/translate", TranslateRequest{Content: "hello"}, &out)
				Expect(status).To(Equal(fiber.StatusBadGateway))
				Expect(out.Error).To(ContainSubstring("rate limited"))
			})
		})

		Context("when the backend returns no text", func() {
			BeforeEach(func() {
				backend.Err = llm.ErrResponseShape
			})

			It("returns 502", func() {
				status := doJSON(server, http.MethodPost, "/translate", TranslateRequest{Content: "hello"}, &llm.ErrorResponse{})
				Expect(status).To(Equal(fiber.StatusBadGateway))
			})
		})
	})

	Describe("POST /link", func() {
		It("returns the content unchanged", func() {
			var out TextResponse
			status := doJSON(server, http.MethodPost, "/link", TranslateRequest{Content: "see docs", To: "en"}, &out)
			Expect(status).To(Equal(fiber.StatusOK))
			Expect(out.Text).To(Equal("see docs"))
			Expect(backend.Requests()).To(BeEmpty())
		})
	})

	Describe("GET /supported", func() {
		It("supports every source", func() {
			var out map[string]bool
			Expect(doJSON(server, http.MethodGet, "/supported?src=ja", nil, &out)).To(Equal(fiber.StatusOK))
			Expect(out["supported"]).To(BeTrue())
		})
	})

	Describe("POST /naming", func() {
		BeforeEach(func() {
			backend.Reply = "userCount"
		})

		It("returns the generated identifier", func() {
			var out TextResponse
			status := doJSON(server, http.MethodPost, "/naming", translate.NamingRequest{
				Identifier: "用户数量",
				LanguageID: "go",
				Paragraph:  "var 用户数量 int",
			}, &out)
			Expect(status).To(Equal(fiber.StatusOK))
			Expect(out.Text).To(Equal("userCount"))
			Expect(backend.LastPrompt()).To(ContainSubstring("var 用户数量 int"))
		})

		It("returns 400 without an identifier", func() {
			status := doJSON(server, http.MethodPost, "/naming", translate.NamingRequest{}, &llm.ErrorResponse{})
			Expect(status).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("POST /config/reload", func() {
		It("rebuilds the engine from the reloaded configuration", func() {
			cfg.Model.Name = "reloaded-model"

			var out map[string]string
			Expect(doJSON(server, http.MethodPost, "/config/reload", nil, &out)).To(Equal(fiber.StatusOK))
			Expect(out["status"]).To(Equal("reloaded"))
			Expect(out["model"]).To(Equal("reloaded-model"))

			_, err := server.Engine().Translate(context.Background(), "hello", translate.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.Requests()[0].Model).To(Equal("reloaded-model"))
		})
	})

	Describe("POST /config/reload with a rejected configuration", func() {
		It("keeps both the store and the engine on the previous configuration", func() {
			next := apiTestConfig()
			rejecting, err := config.NewStore(func() (*config.Config, error) {
				loaded := *next
				return &loaded, nil
			})
			Expect(err).NotTo(HaveOccurred())

			srv, err := NewServer(Config{ListenAddr: ":0", Store: rejecting}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())

			next.Model.Backend = "nope"
			Expect(doJSON(srv, http.MethodPost, "/config/reload", nil, &llm.ErrorResponse{})).To(Equal(fiber.StatusBadRequest))

			Expect(rejecting.Current().Model.Backend).To(Equal(config.BackendChat))
			Expect(srv.Engine().Engine().Config().Model.Backend).To(Equal(config.BackendChat))
		})
	})

	Describe("GET /history", func() {
		BeforeEach(func() {
			base := time.Now().UTC()
			for i, input := range []string{"a", "b", "c"} {
				rec := history.NewRecord(history.KindTranslate)
				rec.Input = input
				rec.CreatedAt = base.Add(time.Duration(i) * time.Second)
				Expect(driver.Put(context.Background(), rec)).To(Succeed())
			}
		})

		It("lists newest first", func() {
			var out HistoryResponse
			Expect(doJSON(server, http.MethodGet, "/history", nil, &out)).To(Equal(fiber.StatusOK))
			Expect(out.Count).To(Equal(3))
			Expect(out.Records[0].Input).To(Equal("c"))
		})

		It("honors the limit", func() {
			var out HistoryResponse
			Expect(doJSON(server, http.MethodGet, "/history?limit=2", nil, &out)).To(Equal(fiber.StatusOK))
			Expect(out.Records).To(HaveLen(2))
		})

		It("rejects an invalid limit", func() {
			Expect(doJSON(server, http.MethodGet, "/history?limit=zero", nil, &llm.ErrorResponse{})).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("statusFor", func() {
		DescribeTable("maps errors to HTTP statuses",
			func(err error, expected int) {
				Expect(statusFor(err)).To(Equal(expected))
			},
			Entry("empty input", translate.ErrEmptyInput, fiber.StatusBadRequest),
			Entry("no engine", translate.ErrNoEngine, fiber.StatusBadRequest),
			Entry("missing endpoint", config.ErrMissingEndpoint, fiber.StatusBadRequest),
			Entry("api error", &llm.APIError{Backend: "chat", StatusCode: 500, Message: "boom"}, fiber.StatusBadGateway),
			Entry("response shape", llm.ErrResponseShape, fiber.StatusBadGateway),
			Entry("timeout", context.DeadlineExceeded, fiber.StatusBadGateway),
		)
	})
})

var _ = Describe("Server without history", func() {
	It("returns 503 for GET /history", func() {
		server, err := NewServer(Config{
			Store:         config.NewStaticStore(apiTestConfig()),
			EngineOptions: []translate.Option{translate.WithBackend(testutils.NewMockBackend("x"))},
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		Expect(doJSON(server, http.MethodGet, "/history", nil, &llm.ErrorResponse{})).To(Equal(fiber.StatusServiceUnavailable))
	})
})
