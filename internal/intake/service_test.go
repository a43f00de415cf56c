package intake_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"checklist/internal/apperrors"
	"checklist/internal/archive"
	"checklist/internal/blobstore"
	"checklist/internal/intake"
	"checklist/internal/models"
	"checklist/internal/testhelpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ = Describe("ParseAnswers", func() {
	It("decodes an ordered list", func() {
		answers, err := intake.ParseAnswers(`[{"question":"a","response":"1"},{"question":"b","response":"2"}]`)
		Expect(err).NotTo(HaveOccurred())
		Expect(answers).To(HaveLen(2))
		Expect(answers[1].Question).To(Equal("b"))
	})

	DescribeTable("rejects anything but a list",
		func(raw string) {
			_, err := intake.ParseAnswers(raw)
			Expect(apperrors.StatusCode(err)).To(Equal(http.StatusBadRequest))
		},
		Entry("empty", ""),
		Entry("not json", "not json"),
		Entry("object", `{"question":"a"}`),
		Entry("null", "null"),
		Entry("list of numbers", "[1,2]"),
	)
})

var _ = Describe("Service", func() {
	var (
		dbConn *gorm.DB
		blobs  *blobstore.Store
		svc    *intake.Service
		store  *archive.Store
		ctx    context.Context
		at     time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir := GinkgoT().TempDir()
		dbConn = testhelpers.NewTestDB(dir)

		var err error
		blobs, err = blobstore.New(filepath.Join(dir, "uploads"))
		Expect(err).NotTo(HaveOccurred())

		store = archive.NewStore(dbConn)
		svc = intake.NewService(store, blobs, zap.NewNop())
		at = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
		svc.SetClock(func() time.Time { return at })
	})

	It("stores the file and points every row at it", func() {
		ack, err := svc.Submit(ctx, intake.Request{
			Process: "onboarding",
			Answers: `[{"question":"upload","response":"ack.pdf"},{"question":"survey","response":"done"}]`,
			File:    &intake.Upload{Name: "ack.pdf", Content: strings.NewReader("signed")},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ack.Count).To(Equal(2))
		Expect(ack.FilePath).NotTo(BeNil())
		Expect(ack.FileName).NotTo(BeNil())

		data, err := os.ReadFile(*ack.FilePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("signed"))

		records, err := store.ListAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))
		for _, r := range records {
			Expect(*r.FilePath).To(Equal(*ack.FilePath))
			Expect(r.Timestamp).To(BeTemporally("==", at))
		}
	})

	It("trims the process but keeps it opaque", func() {
		_, err := svc.Submit(ctx, intake.Request{Process: " Custom ", Answers: `[{"question":"q","response":"r"}]`})
		Expect(err).NotTo(HaveOccurred())

		records, err := store.ListAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(records[0].Process).To(Equal("Custom"))
	})

	It("does not write the file when validation fails", func() {
		_, err := svc.Submit(ctx, intake.Request{
			Answers: `[]`,
			File:    &intake.Upload{Name: "ack.pdf", Content: strings.NewReader("signed")},
		})
		Expect(apperrors.StatusCode(err)).To(Equal(http.StatusBadRequest))

		stored, err := blobs.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(BeEmpty())
	})

	It("rejects a file sent without any answer and keeps nothing", func() {
		ack, err := svc.Submit(ctx, intake.Request{
			Process: "onboarding",
			Answers: `[]`,
			File:    &intake.Upload{Name: "ack.pdf", Content: strings.NewReader("signed")},
		})
		Expect(ack).To(BeNil())
		Expect(apperrors.StatusCode(err)).To(Equal(http.StatusBadRequest))

		stored, err := blobs.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(BeEmpty())
	})

	It("accepts an empty answer list without a file", func() {
		ack, err := svc.Submit(ctx, intake.Request{Process: "onboarding", Answers: `[]`})
		Expect(err).NotTo(HaveOccurred())
		Expect(ack.Count).To(BeZero())
		Expect(ack.FilePath).To(BeNil())
	})

	It("removes the file and reports a store error when the insert fails", func() {
		Expect(dbConn.Migrator().DropTable(&models.ResponseRecord{})).To(Succeed())

		_, err := svc.Submit(ctx, intake.Request{
			Process: "onboarding",
			Answers: `[{"question":"q","response":"r"}]`,
			File:    &intake.Upload{Name: "ack.pdf", Content: strings.NewReader("signed")},
		})
		Expect(apperrors.StatusCode(err)).To(Equal(http.StatusInternalServerError))
		var storeErr *apperrors.StoreError
		Expect(err).To(BeAssignableToTypeOf(storeErr))

		stored, err := blobs.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(BeEmpty())
	})
})
