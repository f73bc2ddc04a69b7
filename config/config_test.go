package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/env-resolver/config"
)

var _ = Describe("Config", func() {
	var tempDir string

	writeConfig := func(content string) {
		configPath := filepath.Join(tempDir, "environments.yaml")
		err := os.WriteFile(configPath, []byte(content), 0644)
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
		os.Unsetenv("KARATE_ENV")
		os.Unsetenv("DEFAULT_URL")
		os.Unsetenv("LOGGING_LEVEL")
		os.Unsetenv("DOTENV_ONLY")
	})

	Describe("Load", func() {
		Context("without config file", func() {
			It("should use defaults", func() {
				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Selector()).To(BeEmpty())
				Expect(cfg.DefaultURL).To(Equal(config.DefaultAppURL))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelInfo))
				Expect(cfg.Logging.Format).To(Equal(config.LogFormatText))
				Expect(cfg.Environments).To(BeEmpty())
			})

			It("should read the selector from KARATE_ENV", func() {
				os.Setenv("KARATE_ENV", "karate-admin")

				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Selector()).To(Equal("karate-admin"))
			})

			It("should read overrides from environment variables", func() {
				os.Setenv("DEFAULT_URL", "https://fallback.example.com/api")
				os.Setenv("LOGGING_LEVEL", "debug")

				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.DefaultURL).To(Equal("https://fallback.example.com/api"))
				Expect(cfg.Logging.Level).To(Equal("debug"))
			})

			It("should reject an invalid default URL from the environment", func() {
				os.Setenv("DEFAULT_URL", "localhost:8080")

				_, err := config.Load(tempDir)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with valid config file", func() {
			BeforeEach(func() {
				writeConfig(`
karate:
  env: "karate"

default_url: "http://localhost:9090/api"

environments:
  - name: "test"
    url: "http://qa.internal:8080/api"
  - name: "staging"
    url: "https://staging.example.com/api"

logging:
  level: "warn"
  format: "json"
`)
			})

			It("should load configuration successfully", func() {
				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg).NotTo(BeNil())
				Expect(cfg.Selector()).To(Equal("karate"))
				Expect(cfg.Environments).To(HaveLen(2))
				Expect(cfg.Logging.Format).To(Equal(config.LogFormatJSON))
			})

			It("should let KARATE_ENV win over the file", func() {
				os.Setenv("KARATE_ENV", "test")

				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Selector()).To(Equal("test"))
			})

			It("should build the effective table", func() {
				cfg, err := config.Load(tempDir)
				Expect(err).NotTo(HaveOccurred())

				table := cfg.Table()
				Expect(table.Validate()).To(Succeed())
				Expect(table.Default()).To(Equal("http://localhost:9090/api"))
				Expect(table.URLFor("dev")).To(Equal("http://localhost:8080/api"))
				Expect(table.URLFor("test")).To(Equal("http://qa.internal:8080/api"))
				Expect(table.URLFor("staging")).To(Equal("https://staging.example.com/api"))
				Expect(table.URLFor("karate-admin")).To(Equal("http://localhost:8081/api"))
				Expect(table.URLFor("unknown")).To(Equal("http://localhost:9090/api"))
			})
		})

		Context("with invalid config file", func() {
			It("should fail on malformed YAML", func() {
				writeConfig("environments: [unterminated")

				_, err := config.Load(tempDir)
				Expect(err).To(HaveOccurred())
			})

			It("should fail on an invalid environment URL", func() {
				writeConfig(`
environments:
  - name: "qa"
    url: "not a url"
`)
				_, err := config.Load(tempDir)
				Expect(err).To(HaveOccurred())
			})

			It("should fail on duplicate environment names", func() {
				writeConfig(`
environments:
  - name: "qa"
    url: "http://a:1/api"
  - name: "qa"
    url: "http://b:2/api"
`)
				_, err := config.Load(tempDir)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("more than once"))
			})

			It("should fail on an unknown log level", func() {
				writeConfig(`
logging:
  level: "verbose"
`)
				_, err := config.Load(tempDir)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("LoadDotEnv", func() {
		It("should ignore a missing file", func() {
			Expect(config.LoadDotEnv(filepath.Join(tempDir, ".env"))).To(Succeed())
		})

		It("should set variables from the file", func() {
			path := filepath.Join(tempDir, ".env")
			Expect(os.WriteFile(path, []byte("KARATE_ENV=karate\nDOTENV_ONLY=yes\n"), 0644)).To(Succeed())

			Expect(config.LoadDotEnv(path)).To(Succeed())
			Expect(os.Getenv("DOTENV_ONLY")).To(Equal("yes"))

			cfg, err := config.Load(tempDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Selector()).To(Equal("karate"))
		})

		It("should not override variables set by the harness", func() {
			os.Setenv("KARATE_ENV", "karate-admin")
			path := filepath.Join(tempDir, ".env")
			Expect(os.WriteFile(path, []byte("KARATE_ENV=karate\n"), 0644)).To(Succeed())

			Expect(config.LoadDotEnv(path)).To(Succeed())
			Expect(os.Getenv("KARATE_ENV")).To(Equal("karate-admin"))
		})
	})
})
