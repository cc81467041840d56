package translate_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/history"
	"github.com/papercomputeco/aitranslate/pkg/llm"
	"github.com/papercomputeco/aitranslate/pkg/prompt"
	"github.com/papercomputeco/aitranslate/pkg/translate"
	testutils "github.com/papercomputeco/aitranslate/pkg/utils/test"
)

type fakeRecorder struct {
	records []*history.Record
}

func (r *fakeRecorder) Enqueue(rec *history.Record) bool {
	r.records = append(r.records, rec)
	return true
}

func validConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Model.API = "http://localhost/v1/chat/completions"
	cfg.Model.Key = "sk-test"
	cfg.Model.Name = "test-model"
	return cfg
}

var _ = Describe("Engine", func() {
	var (
		cfg      *config.Config
		backend  *testutils.MockBackend
		recorder *fakeRecorder
		engine   *translate.Engine
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = validConfig()
		backend = testutils.NewMockBackend("  你好  ")
		recorder = &fakeRecorder{}
	})

	JustBeforeEach(func() {
		var err error
		engine, err = translate.New(cfg,
			translate.WithBackend(backend),
			translate.WithRecorder(recorder),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("identity", func() {
		It("exposes the registration constants", func() {
			Expect(translate.ID).To(Equal("ai-powered-comment-translate-extension"))
			Expect(translate.Name).To(Equal("AI translate"))
			Expect(translate.MaxLen).To(Equal(3000))
		})

		It("returns link content unchanged and supports every source", func() {
			Expect(engine.Link("some text", translate.Options{To: "en"})).To(Equal("some text"))
			Expect(engine.IsSupported("anything")).To(BeTrue())
			Expect(engine.IsSupported("")).To(BeTrue())
		})
	})

	Describe("Translate", func() {
		It("returns the trimmed model output", func() {
			text, err := engine.Translate(ctx, "hello", translate.Options{To: "zh-CN"})
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("你好"))
		})

		It("maps auto and empty targets to zh-CN", func() {
			_, err := engine.Translate(ctx, "hello", translate.Options{To: "auto"})
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.LastPrompt()).To(ContainSubstring("into zh-CN"))

			_, err = engine.Translate(ctx, "hello", translate.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.LastPrompt()).To(ContainSubstring("into zh-CN"))
		})

		It("sends model parameters from the configuration", func() {
			cfg.Model.Streaming = true
			_, err := engine.Translate(ctx, "hello", translate.Options{To: "ja"})
			Expect(err).NotTo(HaveOccurred())

			req := backend.Requests()[0]
			Expect(req.Model).To(Equal("test-model"))
			Expect(req.Stream).To(BeTrue())
			Expect(req.Messages).To(HaveLen(1))
			Expect(req.Messages[0].Role).To(Equal("user"))
			Expect(*req.MaxTokens).To(Equal(config.DefaultMaxTokens))
			Expect(*req.Temperature).To(Equal(config.DefaultTemperature))
		})

		It("omits max tokens when configured as zero", func() {
			zero := 0
			cfg.Model.MaxTokens = &zero
			_, err := engine.Translate(ctx, "hello", translate.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.Requests()[0].MaxTokens).To(BeNil())
		})

		It("renders a custom template", func() {
			cfg.Prompt.Translate = "To ${targetLang}: ${content}"
			_, err := engine.Translate(ctx, "hello", translate.Options{To: "fr"})
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.LastPrompt()).To(Equal("To fr: hello"))
		})

		It("rejects a custom template without the content placeholder before calling the backend", func() {
			cfg.Prompt.Translate = "Translate into ${targetLang}"
			_, err := engine.Translate(ctx, "hello", translate.Options{})

			var tmplErr *prompt.TemplateError
			Expect(errors.As(err, &tmplErr)).To(BeTrue())
			Expect(err.Error()).To(HavePrefix("translation failed: "))
			Expect(backend.Requests()).To(BeEmpty())
		})

		It("reports configuration errors before calling the backend", func() {
			cfg.Model.Key = ""
			_, err := engine.Translate(ctx, "hello", translate.Options{})
			Expect(err).To(MatchError(config.ErrMissingKey))
			Expect(config.IsConfigError(err)).To(BeTrue())
			Expect(backend.Requests()).To(BeEmpty())
		})

		It("rejects empty content", func() {
			_, err := engine.Translate(ctx, "   ", translate.Options{})
			Expect(err).To(MatchError(translate.ErrEmptyInput))
		})

		It("strips thinking blocks by default", func() {
			backend.Reply = "<think>the user wants chinese</think>\n你好"
			text, err := engine.Translate(ctx, "hello", translate.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("你好"))
		})

		It("keeps thinking blocks when stripping is disabled", func() {
			off := false
			cfg.Output.StripThinking = &off
			backend.Reply = "<think>x</think>你好"
			text, err := engine.Translate(ctx, "hello", translate.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("<think>x</think>你好"))
		})

		It("treats an output that is only thinking as a shape error", func() {
			backend.Reply = "<think>nothing else</think>"
			_, err := engine.Translate(ctx, "hello", translate.Options{})
			Expect(err).To(MatchError(llm.ErrResponseShape))
		})

		It("wraps backend errors", func() {
			backend.Err = &llm.APIError{Backend: "fake", StatusCode: 401, Message: "invalid key"}
			_, err := engine.Translate(ctx, "hello", translate.Options{})
			Expect(err).To(MatchError("translation failed: fake api error 401: invalid key"))
			Expect(llm.IsAPIError(err)).To(BeTrue())
		})

		It("records successful translations", func() {
			_, err := engine.Translate(ctx, "hello", translate.Options{To: "de"})
			Expect(err).NotTo(HaveOccurred())

			Expect(recorder.records).To(HaveLen(1))
			rec := recorder.records[0]
			Expect(rec.Kind).To(Equal(history.KindTranslate))
			Expect(rec.Backend).To(Equal("mock"))
			Expect(rec.Model).To(Equal("test-model"))
			Expect(rec.Input).To(Equal("hello"))
			Expect(rec.Output).To(Equal("你好"))
			Expect(rec.TargetLang).To(Equal("de"))
		})

		It("does not record failures", func() {
			backend.Err = errors.New("boom")
			_, err := engine.Translate(ctx, "hello", translate.Options{})
			Expect(err).To(HaveOccurred())
			Expect(recorder.records).To(BeEmpty())
		})
	})

	Describe("Name", func() {
		BeforeEach(func() {
			backend.Reply = "userCount\n"
		})

		It("returns the trimmed identifier and never streams", func() {
			cfg.Model.Streaming = true
			name, err := engine.Name(ctx, translate.NamingRequest{
				Identifier: "用户数量",
				LanguageID: "go",
				Paragraph:  "var 用户数量 int",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("userCount"))
			Expect(backend.Requests()[0].Stream).To(BeFalse())
		})

		It("uses the default naming prompt", func() {
			_, err := engine.Name(ctx, translate.NamingRequest{Identifier: "x", LanguageID: "go", Paragraph: "x := 1"})
			Expect(err).NotTo(HaveOccurred())
			p := backend.LastPrompt()
			Expect(p).To(ContainSubstring(`"x := 1"`))
			Expect(p).To(ContainSubstring("standard naming conventions of go"))
		})

		It("quotes custom naming rules", func() {
			cfg.Naming.Rules = "snake_case"
			_, err := engine.Name(ctx, translate.NamingRequest{Identifier: "x", LanguageID: "python"})
			Expect(err).NotTo(HaveOccurred())
			Expect(backend.LastPrompt()).To(ContainSubstring(`"snake_case" naming rule`))
		})

		It("rejects a custom template without the identifier placeholder", func() {
			cfg.Prompt.Naming = "Name this in ${languageId}"
			_, err := engine.Name(ctx, translate.NamingRequest{Identifier: "x"})

			var tmplErr *prompt.TemplateError
			Expect(errors.As(err, &tmplErr)).To(BeTrue())
			Expect(tmplErr.Kind).To(Equal(prompt.KindNaming))
			Expect(err.Error()).To(HavePrefix("naming failed: "))
			Expect(backend.Requests()).To(BeEmpty())
		})

		It("records successful namings", func() {
			_, err := engine.Name(ctx, translate.NamingRequest{Identifier: "用户"})
			Expect(err).NotTo(HaveOccurred())
			Expect(recorder.records).To(HaveLen(1))
			Expect(recorder.records[0].Kind).To(Equal(history.KindNaming))
			Expect(recorder.records[0].Output).To(Equal("userCount"))
		})
	})

	Describe("New", func() {
		It("requires a configuration", func() {
			_, err := translate.New(nil)
			Expect(err).To(HaveOccurred())
		})

		It("fails on an unknown backend", func() {
			bad := validConfig()
			bad.Model.Backend = "carrier-pigeon"
			_, err := translate.New(bad)
			Expect(err).To(MatchError(config.ErrUnknownBackend))
		})

		It("builds a chat backend from the configuration", func() {
			e, err := translate.New(validConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Config().Model.Name).To(Equal("test-model"))
		})
	})
})
