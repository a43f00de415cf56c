package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"

	"checklist/internal/apperrors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StatusCode", func() {
	DescribeTable("maps the taxonomy onto HTTP",
		func(err error, status int) {
			Expect(apperrors.StatusCode(err)).To(Equal(status))
		},
		Entry("nil", nil, http.StatusOK),
		Entry("validation", apperrors.Validation("bad %s", "input"), http.StatusBadRequest),
		Entry("wrapped validation", fmt.Errorf("submit: %w", apperrors.Validation("bad")), http.StatusBadRequest),
		Entry("not found", apperrors.NotFound("gone"), http.StatusNotFound),
		Entry("store", apperrors.Store("insert", errors.New("disk full")), http.StatusInternalServerError),
		Entry("unknown", errors.New("boom"), http.StatusInternalServerError),
	)
})

var _ = Describe("PublicMessage", func() {
	It("hides the cause of store errors", func() {
		cause := errors.New("database is locked")
		err := apperrors.Store("insert responses", cause)

		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("database is locked"))
		Expect(apperrors.PublicMessage(err)).NotTo(ContainSubstring("locked"))
	})

	It("passes validation messages through", func() {
		Expect(apperrors.PublicMessage(apperrors.Validation("Missing process or responses."))).
			To(Equal("Missing process or responses."))
	})
})
