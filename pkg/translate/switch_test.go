package translate_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aitranslate/pkg/translate"
	testutils "github.com/papercomputeco/aitranslate/pkg/utils/test"
)

var _ = Describe("Switch", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	newEngine := func(reply string) *translate.Engine {
		e, err := translate.New(validConfig(), translate.WithBackend(testutils.NewMockBackend(reply)))
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	It("reports ErrNoEngine when empty", func() {
		s := &translate.Switch{}
		_, err := s.Translate(ctx, "hi", translate.Options{})
		Expect(err).To(MatchError(translate.ErrNoEngine))
		_, err = s.Name(ctx, translate.NamingRequest{Identifier: "x"})
		Expect(err).To(MatchError(translate.ErrNoEngine))
		Expect(s.Link("hi", translate.Options{})).To(Equal("hi"))
		Expect(s.IsSupported("en")).To(BeFalse())
	})

	It("forwards to the installed engine and picks up replacements", func() {
		s := translate.NewSwitch(newEngine("first"))
		text, err := s.Translate(ctx, "hi", translate.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("first"))

		s.Set(newEngine("second"))
		text, err = s.Translate(ctx, "hi", translate.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("second"))

		name, err := s.Name(ctx, translate.NamingRequest{Identifier: "x"})
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("second"))
		Expect(s.IsSupported("en")).To(BeTrue())
	})
})
