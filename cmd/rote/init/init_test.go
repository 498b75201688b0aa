package initcmder_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	initcmder "github.com/quizfolkco/rote/cmd/rote/init"
	"github.com/quizfolkco/rote/pkg/config"
)

var _ = Describe("NewInitCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := initcmder.NewInitCmd()
		Expect(cmd.Use).To(Equal("init"))
	})

	It("accepts zero arguments", func() {
		cmd := initcmder.NewInitCmd()
		err := cmd.Args(cmd, []string{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects any arguments", func() {
		cmd := initcmder.NewInitCmd()
		err := cmd.Args(cmd, []string{"extra"})
		Expect(err).To(HaveOccurred())
	})

	It("has a --preset flag", func() {
		cmd := initcmder.NewInitCmd()
		f := cmd.Flags().Lookup("preset")
		Expect(f).NotTo(BeNil())
		Expect(f.DefValue).To(Equal(""))
	})
})

var _ = Describe("Init command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "rote-init-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	It("creates a .rote directory in the current directory", func() {
		cmd := initcmder.NewInitCmd()
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		info, err := os.Stat(filepath.Join(tmpDir, ".rote"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("creates the knowledge and engines directories", func() {
		cmd := initcmder.NewInitCmd()
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		for _, sub := range []string{"knowledge", "engines"} {
			info, err := os.Stat(filepath.Join(tmpDir, ".rote", sub))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		}
	})

	It("creates a config.toml with default values", func() {
		cmd := initcmder.NewInitCmd()
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		cfg := loadConfig(tmpDir)
		Expect(cfg.Version).To(Equal(config.CurrentV))
		Expect(cfg.Storage.Driver).To(Equal("file"))
		Expect(cfg.API.Listen).To(Equal(":1200"))
		Expect(cfg.Client.APITarget).To(Equal("http://localhost:1200"))
		Expect(cfg.Events.Backend).To(Equal("nop"))
		Expect(cfg.Events.Topic).To(Equal("rote.reviews"))
		Expect(cfg.Review.DefaultEase).To(Equal(2.5))
		Expect(cfg.Review.MasteryStreak).To(Equal(7))
		Expect(cfg.Review.Watch).To(BeTrue())
	})

	It("succeeds when .rote directory already exists", func() {
		err := os.MkdirAll(filepath.Join(tmpDir, ".rote"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		cmd := initcmder.NewInitCmd()
		cmd.SetArgs([]string{})
		err = cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		cfg := loadConfig(tmpDir)
		Expect(cfg.Storage.Driver).To(Equal("file"))
	})

	It("does not overwrite existing contents when already initialized", func() {
		roteDir := filepath.Join(tmpDir, ".rote")
		err := os.MkdirAll(roteDir, 0o755)
		Expect(err).NotTo(HaveOccurred())

		// Write a file into the existing .rote dir
		testFile := filepath.Join(roteDir, "session.json")
		err = os.WriteFile(testFile, []byte(`{"knowledgeBase":"demo"}`), 0o644)
		Expect(err).NotTo(HaveOccurred())

		cmd := initcmder.NewInitCmd()
		cmd.SetArgs([]string{})
		err = cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		// Verify the existing file is still there
		data, err := os.ReadFile(testFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"knowledgeBase":"demo"}`))
	})

	It("leaves an edited config.toml alone on bare re-init", func() {
		roteDir := filepath.Join(tmpDir, ".rote")
		err := os.MkdirAll(roteDir, 0o755)
		Expect(err).NotTo(HaveOccurred())

		edited := "version = 0\n\n[api]\nlisten = \":7777\"\n"
		err = os.WriteFile(filepath.Join(roteDir, "config.toml"), []byte(edited), 0o600)
		Expect(err).NotTo(HaveOccurred())

		cmd := initcmder.NewInitCmd()
		cmd.SetArgs([]string{})
		err = cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		cfg := loadConfig(tmpDir)
		Expect(cfg.API.Listen).To(Equal(":7777"))
	})

	Describe("--preset with named presets", func() {
		It("creates config.toml with the sqlite preset", func() {
			cmd := initcmder.NewInitCmd()
			cmd.SetArgs([]string{"--preset", "sqlite"})
			err := cmd.Execute()
			Expect(err).NotTo(HaveOccurred())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Version).To(Equal(config.CurrentV))
			Expect(cfg.Storage.Driver).To(Equal("sqlite"))
			Expect(cfg.API.Listen).To(Equal(":1200"))
		})

		It("creates config.toml with the kafka preset", func() {
			cmd := initcmder.NewInitCmd()
			cmd.SetArgs([]string{"--preset", "kafka"})
			err := cmd.Execute()
			Expect(err).NotTo(HaveOccurred())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Version).To(Equal(config.CurrentV))
			Expect(cfg.Events.Backend).To(Equal("kafka"))
			Expect(cfg.Events.Brokers).To(Equal("localhost:9092"))
			Expect(cfg.Events.Topic).To(Equal("rote.reviews"))
		})

		It("creates config.toml with the file preset", func() {
			cmd := initcmder.NewInitCmd()
			cmd.SetArgs([]string{"--preset", "file"})
			err := cmd.Execute()
			Expect(err).NotTo(HaveOccurred())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Storage.Driver).To(Equal("file"))
			Expect(cfg.Events.Backend).To(Equal("nop"))
		})

		It("rejects unknown preset names", func() {
			cmd := initcmder.NewInitCmd()
			cmd.SetArgs([]string{"--preset", "redis"})
			err := cmd.Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unknown preset"))
		})
	})

	Describe("--preset with remote URL", func() {
		It("fetches and writes remote config.toml", func() {
			remoteCfg := `version = 0

[storage]
driver = "sqlite"
sqlite_path = "./team.db"

[api]
listen = ":9090"

[review]
mastery_streak = 5
`
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				fmt.Fprint(w, remoteCfg)
			}))
			defer server.Close()

			cmd := initcmder.NewInitCmd()
			cmd.SetArgs([]string{"--preset", server.URL})
			err := cmd.Execute()
			Expect(err).NotTo(HaveOccurred())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Version).To(Equal(0))
			Expect(cfg.Storage.Driver).To(Equal("sqlite"))
			Expect(cfg.Storage.SQLitePath).To(Equal("./team.db"))
			Expect(cfg.API.Listen).To(Equal(":9090"))
			Expect(cfg.Review.MasteryStreak).To(Equal(5))
		})

		It("returns error for non-200 HTTP response", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			cmd := initcmder.NewInitCmd()
			cmd.SetArgs([]string{"--preset", server.URL})
			err := cmd.Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("HTTP 404"))
		})

		It("returns error for invalid TOML from URL", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "this is not valid toml [[[")
			}))
			defer server.Close()

			cmd := initcmder.NewInitCmd()
			cmd.SetArgs([]string{"--preset", server.URL})
			err := cmd.Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("parsing"))
		})

		It("returns error for an unsupported config version", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "version = 99\n")
			}))
			defer server.Close()

			cmd := initcmder.NewInitCmd()
			cmd.SetArgs([]string{"--preset", server.URL})
			err := cmd.Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported config version"))
		})

		It("returns error for unreachable URL", func() {
			cmd := initcmder.NewInitCmd()
			cmd.SetArgs([]string{"--preset", "http://127.0.0.1:1"})
			err := cmd.Execute()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("fetching remote config"))
		})
	})

	Describe("--preset overwrites config on re-init", func() {
		It("overwrites existing config.toml when re-running with a different preset", func() {
			// First init with sqlite
			cmd1 := initcmder.NewInitCmd()
			cmd1.SetArgs([]string{"--preset", "sqlite"})
			err := cmd1.Execute()
			Expect(err).NotTo(HaveOccurred())

			cfg := loadConfig(tmpDir)
			Expect(cfg.Storage.Driver).To(Equal("sqlite"))

			// Re-init with kafka
			cmd2 := initcmder.NewInitCmd()
			cmd2.SetArgs([]string{"--preset", "kafka"})
			err = cmd2.Execute()
			Expect(err).NotTo(HaveOccurred())

			cfg = loadConfig(tmpDir)
			Expect(cfg.Storage.Driver).To(Equal("file"))
			Expect(cfg.Events.Backend).To(Equal("kafka"))
		})
	})
})

// loadConfig is a test helper that reads and parses the config.toml from the
// .rote directory within the given base directory.
func loadConfig(baseDir string) *config.Config {
	configPath := filepath.Join(baseDir, ".rote", "config.toml")
	data, err := os.ReadFile(configPath)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	cfg := &config.Config{}
	err = toml.Unmarshal(data, cfg)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return cfg
}
