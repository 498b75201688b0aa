package seedcmder

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quizfolkco/rote/pkg/kb"
)

var _ = Describe("seed command", func() {
	var origCwd string

	BeforeEach(func() {
		var err error
		origCwd, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.Chdir(origCwd)).To(Succeed())
	})

	runSeed := func(args ...string) error {
		cmd := NewSeedCmd()
		buf := &bytes.Buffer{}
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	It("seeds the demo knowledge base into an explicit directory", func() {
		dir, err := os.MkdirTemp("", "rote-seed-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(dir)
		})

		Expect(runSeed("--knowledge-dir", dir)).To(Succeed())

		catalog, err := kb.NewCatalog(dir)
		Expect(err).NotTo(HaveOccurred())
		items, err := catalog.Load(kb.DefaultDemoName)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(12))
	})

	It("seeds under a custom name", func() {
		dir, err := os.MkdirTemp("", "rote-seed-name-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(dir)
		})

		Expect(runSeed("--knowledge-dir", dir, "--name", "capitals")).To(Succeed())

		catalog, err := kb.NewCatalog(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.Exists("capitals")).To(BeTrue())
		Expect(catalog.Exists(kb.DefaultDemoName)).To(BeFalse())
	})

	It("errors when the knowledge base already exists", func() {
		dir, err := os.MkdirTemp("", "rote-seed-exists-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(dir)
		})

		Expect(runSeed("--knowledge-dir", dir)).To(Succeed())

		err = runSeed("--knowledge-dir", dir)
		Expect(err).To(MatchError(ContainSubstring("already exists")))
	})

	It("replaces an existing knowledge base with --overwrite", func() {
		dir, err := os.MkdirTemp("", "rote-seed-overwrite-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(dir)
		})

		catalog, err := kb.NewCatalog(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog.Save(kb.DefaultDemoName, []kb.Item{
			{Question: "only one", Answer: "item"},
		})).To(Succeed())

		Expect(runSeed("--knowledge-dir", dir, "--overwrite")).To(Succeed())

		items, err := catalog.Load(kb.DefaultDemoName)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(12))
	})

	It("falls back to knowledge/ under a local .rote directory", func() {
		baseDir, err := os.MkdirTemp("", "rote-seed-default-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = os.RemoveAll(baseDir)
		})

		Expect(os.MkdirAll(filepath.Join(baseDir, ".rote"), 0o755)).To(Succeed())
		Expect(os.Chdir(baseDir)).To(Succeed())

		Expect(runSeed()).To(Succeed())

		seeded := filepath.Join(baseDir, ".rote", "knowledge", kb.DefaultDemoName+".json")
		_, err = os.Stat(seeded)
		Expect(err).NotTo(HaveOccurred())
	})
})
