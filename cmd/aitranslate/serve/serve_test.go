package servecmder

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aitranslate/pkg/config"
	"github.com/papercomputeco/aitranslate/pkg/history/inmemory"
	"github.com/papercomputeco/aitranslate/pkg/history/sqlite"
	"github.com/papercomputeco/aitranslate/pkg/logger"
)

var _ = Describe("NewServeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})

	It("registers the serve and model flags", func() {
		cmd := NewServeCmd()
		for _, name := range []string{"listen", "history", "sqlite", "backend", "api", "model", "stream", "mcp", "watch"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
		Expect(cmd.Flags().Lookup("mcp").DefValue).To(Equal("true"))
		Expect(cmd.Flags().Lookup("watch").DefValue).To(Equal("true"))
	})
})

var _ = Describe("newHistoryDriver", func() {
	var (
		cmder *ServeCommander
		cfg   *config.Config
	)

	BeforeEach(func() {
		cmder = &ServeCommander{
			configDir: GinkgoT().TempDir(),
			logger:    logger.Nop(),
		}
		cfg = config.NewDefaultConfig()
		cfg.History.Enabled = true
	})

	It("uses the in-memory driver for :memory:", func() {
		cfg.History.SQLitePath = ":memory:"
		driver, err := cmder.newHistoryDriver(cfg)
		Expect(err).NotTo(HaveOccurred())
		defer driver.Close()
		Expect(driver).To(BeAssignableToTypeOf(&inmemory.Driver{}))
	})

	It("opens the configured SQLite path", func() {
		cfg.History.SQLitePath = filepath.Join(GinkgoT().TempDir(), "h.db")
		driver, err := cmder.newHistoryDriver(cfg)
		Expect(err).NotTo(HaveOccurred())
		defer driver.Close()
		Expect(driver).To(BeAssignableToTypeOf(&sqlite.Driver{}))
		Expect(cfg.History.SQLitePath).To(BeAnExistingFile())
	})

	It("defaults to history.db in the config directory", func() {
		driver, err := cmder.newHistoryDriver(cfg)
		Expect(err).NotTo(HaveOccurred())
		defer driver.Close()
		Expect(filepath.Join(cmder.configDir, "history.db")).To(BeAnExistingFile())
	})
})
