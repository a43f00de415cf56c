package archive_test

import (
	"context"
	"time"

	"checklist/internal/archive"
	"checklist/internal/checklist"
	"checklist/internal/models"
	"checklist/internal/testhelpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Store", func() {
	var (
		dbConn *gorm.DB
		store  *archive.Store
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		dbConn = testhelpers.NewTestDB(GinkgoT().TempDir())
		testhelpers.CleanupDB(dbConn)
		store = archive.NewStore(dbConn)
	})

	It("inserts one row per answer with shared path and timestamp", func() {
		path := "uploads/1700000000000-abcd1234-ack.pdf"
		at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
		answers := []checklist.Answer{
			{Question: "Please download, sign, and upload the onboarding acknowledgment.", Response: "ack.pdf"},
			{Question: "Complete the onboarding survey.", Response: "done"},
		}

		records, err := store.InsertBatch(ctx, "onboarding", answers, &path, at)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))

		all, err := store.ListAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
		for i, r := range all {
			Expect(r.Question).To(Equal(answers[i].Question))
			Expect(r.Response).To(Equal(answers[i].Response))
			Expect(*r.FilePath).To(Equal(path))
			Expect(r.Timestamp).To(BeTemporally("==", at))
		}
	})

	It("accepts any process text", func() {
		_, err := store.InsertBatch(ctx, "relocation", []checklist.Answer{{Question: "q", Response: "r"}}, nil, time.Now())
		Expect(err).NotTo(HaveOccurred())

		all, err := store.ListAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all[0].Process).To(Equal("relocation"))
		Expect(all[0].FilePath).To(BeNil())
	})

	It("writes nothing for an empty batch", func() {
		records, err := store.InsertBatch(ctx, "onboarding", nil, nil, time.Now())
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(BeEmpty())

		n, err := store.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
	})

	It("rolls the whole batch back when one row fails", func() {
		Expect(dbConn.Exec(`CREATE TRIGGER reject_poison BEFORE INSERT ON responses
			WHEN NEW.response = 'poison'
			BEGIN SELECT RAISE(ABORT, 'rejected'); END`).Error).To(Succeed())

		answers := []checklist.Answer{
			{Question: "a", Response: "fine"},
			{Question: "b", Response: "poison"},
		}
		_, err := store.InsertBatch(ctx, "onboarding", answers, nil, time.Now())
		Expect(err).To(HaveOccurred())

		n, err := store.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
	})

	It("reports the distinct referenced file paths", func() {
		a, b := "uploads/a", "uploads/b"
		testhelpers.CreateRecord(dbConn, &models.ResponseRecord{Question: "1", FilePath: &a})
		testhelpers.CreateRecord(dbConn, &models.ResponseRecord{Question: "2", FilePath: &a})
		testhelpers.CreateRecord(dbConn, &models.ResponseRecord{Question: "3", FilePath: &b})
		testhelpers.CreateRecord(dbConn, &models.ResponseRecord{Question: "4"})

		paths, err := store.ReferencedPaths(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(HaveLen(2))
		Expect(paths).To(HaveKey(a))
		Expect(paths).To(HaveKey(b))
	})
})
