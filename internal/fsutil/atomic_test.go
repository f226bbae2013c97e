package fsutil_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/slack-code/internal/fsutil"
)

var _ = Describe("AtomicWriteFile", func() {
	var (
		dir  string
		path string
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		path = filepath.Join(dir, "nested", "settings.json")
	})

	It("creates parent directories and writes with 0600", func() {
		backup, err := fsutil.AtomicWriteFile(path, []byte("{}"))
		Expect(err).NotTo(HaveOccurred())
		Expect(backup).To(BeEmpty())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("{}"))

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
	})

	It("honours WithPerm for new files", func() {
		_, err := fsutil.AtomicWriteFile(path, []byte("1\n"), fsutil.WithPerm(0o644))
		Expect(err).NotTo(HaveOccurred())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o644)))
	})

	It("keeps permissions of an existing file", func() {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte("old"), 0o640)).To(Succeed())

		_, err := fsutil.AtomicWriteFile(path, []byte("new"))
		Expect(err).NotTo(HaveOccurred())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o640)))
	})

	It("backs up the previous content when asked", func() {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte("old"), 0o600)).To(Succeed())

		fixed := time.Date(2025, 12, 4, 10, 30, 0, 0, time.UTC)

		backup, err := fsutil.AtomicWriteFile(path, []byte("new"),
			fsutil.WithBackup(), fsutil.WithTimeFunc(func() time.Time { return fixed }))
		Expect(err).NotTo(HaveOccurred())
		Expect(backup).To(HaveSuffix(".backup.1764844200"))

		old, err := os.ReadFile(backup)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(old)).To(Equal("old"))

		current, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(current)).To(Equal("new"))
	})

	It("skips the backup when the file is new", func() {
		backup, err := fsutil.AtomicWriteFile(path, []byte("x"), fsutil.WithBackup())
		Expect(err).NotTo(HaveOccurred())
		Expect(backup).To(BeEmpty())
	})

	It("leaves no temp files behind", func() {
		_, err := fsutil.AtomicWriteFile(path, []byte("x"))
		Expect(err).NotTo(HaveOccurred())

		entries, err := os.ReadDir(filepath.Dir(path))
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})
})
