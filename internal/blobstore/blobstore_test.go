package blobstore_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"checklist/internal/blobstore"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	var (
		dir   string
		store *blobstore.Store
	)

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "uploads")

		var err error
		store, err = blobstore.New(dir)
		Expect(err).NotTo(HaveOccurred())
		store.SetClock(func() time.Time { return time.UnixMilli(1700000000000) })
	})

	It("creates the upload directory", func() {
		info, err := os.Stat(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("saves under a unique name and reads back the same bytes", func() {
		first, err := store.Save("signed ack.pdf", strings.NewReader("%PDF-1.4 signed"))
		Expect(err).NotTo(HaveOccurred())
		second, err := store.Save("signed ack.pdf", strings.NewReader("other"))
		Expect(err).NotTo(HaveOccurred())

		Expect(first.Name).To(HavePrefix("1700000000000-"))
		Expect(first.Name).To(HaveSuffix("-signed_ack.pdf"))
		Expect(first.OriginalName).To(Equal("signed_ack.pdf"))
		Expect(first.Path).To(Equal(filepath.Join(dir, first.Name)))
		Expect(first.Size).To(Equal(int64(len("%PDF-1.4 signed"))))
		Expect(second.Name).NotTo(Equal(first.Name))

		f, info, err := store.Open(first.Name)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		Expect(info.Size()).To(Equal(first.Size))
		data, err := io.ReadAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("%PDF-1.4 signed"))
	})

	It("strips directories from the original name", func() {
		blob, err := store.Save("../../etc/passwd", strings.NewReader("x"))
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Dir(blob.Path)).To(Equal(dir))
		Expect(blob.OriginalName).To(Equal("passwd"))
	})

	DescribeTable("reports unknown or unsafe names as not found",
		func(name string) {
			_, _, err := store.Open(name)
			Expect(err).To(MatchError(blobstore.ErrNotFound))
		},
		Entry("never uploaded", "123-abc-missing.pdf"),
		Entry("parent directory", ".."),
		Entry("traversal", "../secret"),
		Entry("empty", ""),
	)

	It("lists and removes blobs", func() {
		blob, err := store.Save("a.txt", strings.NewReader("a"))
		Expect(err).NotTo(HaveOccurred())

		blobs, err := store.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(blobs).To(HaveLen(1))
		Expect(blobs[0].Name).To(Equal(blob.Name))
		Expect(blobs[0].Path).To(Equal(blob.Path))

		Expect(store.Remove(blob.Name)).To(Succeed())
		Expect(store.Remove(blob.Name)).To(Succeed())

		blobs, err = store.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(blobs).To(BeEmpty())
	})
})
