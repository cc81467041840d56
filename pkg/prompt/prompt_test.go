package prompt_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aitranslate/pkg/prompt"
)

var _ = Describe("Translation", func() {
	It("renders the built-in prompt", func() {
		out, err := prompt.Translation("", prompt.Vars{Content: "// open the file", TargetLang: "zh-CN"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("into zh-CN"))
		Expect(out).To(HaveSuffix(`"// open the file"`))
		Expect(out).NotTo(ContainSubstring("${"))
	})

	It("renders a custom template", func() {
		out, err := prompt.Translation("To ${targetLang}: ${content}", prompt.Vars{Content: "hi", TargetLang: "fr"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("To fr: hi"))
	})

	It("substitutes repeated placeholders", func() {
		out, err := prompt.Translation("${content}|${content}", prompt.Vars{Content: "x"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("x|x"))
	})

	It("rejects a custom template without ${content}", func() {
		_, err := prompt.Translation("Translate to ${targetLang}", prompt.Vars{Content: "x"})
		Expect(err).To(HaveOccurred())

		var tmplErr *prompt.TemplateError
		Expect(errors.As(err, &tmplErr)).To(BeTrue())
		Expect(tmplErr.Kind).To(Equal(prompt.KindTranslate))
		Expect(tmplErr.Missing).To(Equal(prompt.Content))
	})
})

var _ = Describe("Naming", func() {
	vars := prompt.Vars{
		VariableName: "用户列表",
		LanguageID:   "go",
		Paragraph:    "用户列表 := load()",
	}

	It("uses the default rules prompt", func() {
		out, err := prompt.Naming("", vars)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`"用户列表" in "用户列表 := load()"`))
		Expect(out).To(ContainSubstring("standard naming conventions of go"))
		Expect(out).NotTo(ContainSubstring("naming rule,"))
	})

	It("uses the custom rules prompt", func() {
		v := vars
		v.NamingRules = "camelCase"
		out, err := prompt.Naming("", v)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`the "camelCase" naming rule`))
	})

	It("renders a custom naming template", func() {
		out, err := prompt.Naming("name ${variableName} (${languageId}) rules=${namingRules}", vars)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("name 用户列表 (go) rules=default"))
	})

	It("rejects a custom template without ${variableName}", func() {
		_, err := prompt.Naming("name ${paragraph}", vars)

		var tmplErr *prompt.TemplateError
		Expect(errors.As(err, &tmplErr)).To(BeTrue())
		Expect(tmplErr.Missing).To(Equal(prompt.VariableName))
		Expect(err.Error()).To(ContainSubstring("${variableName}"))
	})
})

var _ = Describe("Validate", func() {
	It("accepts an empty template", func() {
		Expect(prompt.Validate(prompt.KindTranslate, "")).To(Succeed())
		Expect(prompt.Validate(prompt.KindNaming, "")).To(Succeed())
	})
})

var _ = Describe("Render", func() {
	It("leaves unknown placeholders alone", func() {
		Expect(prompt.Render("${content} ${unknown}", prompt.Vars{Content: "a"})).To(Equal("a ${unknown}"))
	})
})
