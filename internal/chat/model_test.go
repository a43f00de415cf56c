package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"checklist/internal/checklist"
	"checklist/internal/client"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeSubmitter struct {
	calls int
	got   checklist.Submission
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, sub checklist.Submission) (*client.Ack, error) {
	f.calls++
	f.got = sub
	if f.err != nil {
		return nil, f.err
	}
	return &client.Ack{Message: "ok", Count: len(sub.Answers)}, nil
}

func enter(m Model, text string) (Model, tea.Cmd) {
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func transcriptText(m Model) string {
	var b strings.Builder
	for _, l := range m.transcript {
		b.WriteString(l.text)
		b.WriteString("\n")
	}
	return b.String()
}

var _ = Describe("Model", func() {
	var (
		sub  *fakeSubmitter
		m    Model
		file string
	)

	BeforeEach(func() {
		sub = &fakeSubmitter{}
		m = New(sub)

		file = filepath.Join(GinkgoT().TempDir(), "signed.pdf")
		Expect(os.WriteFile(file, []byte("signed"), 0o644)).To(Succeed())
	})

	walkToCompletion := func() (Model, tea.Cmd) {
		var cmd tea.Cmd
		m, _ = enter(m, "Ada")
		m, _ = enter(m, "2")
		m, _ = enter(m, "ready to upload")
		m, _ = enter(m, file)
		m, _ = enter(m, "laptop returned")
		m, cmd = enter(m, "interview done")
		return m, cmd
	}

	It("greets and asks for the process after the name", func() {
		m, _ = enter(m, "Ada")
		Expect(m.State().Phase).To(Equal(checklist.PhaseChooseProcess))
		Expect(transcriptText(m)).To(ContainSubstring("Nice to meet you, Ada!"))
	})

	It("shows the reference document before the first step", func() {
		m, _ = enter(m, "Ada")
		m, _ = enter(m, "onboarding")
		text := transcriptText(m)
		Expect(text).To(ContainSubstring("Download Onboarding Acknowledgment"))
		Expect(text).To(ContainSubstring(checklist.Steps(checklist.Onboarding)[0].Prompt))
	})

	It("re-asks on an unknown process", func() {
		m, _ = enter(m, "Ada")
		m, _ = enter(m, "transfer")
		Expect(m.State().Phase).To(Equal(checklist.PhaseChooseProcess))
		Expect(transcriptText(m)).To(ContainSubstring("Please choose"))
	})

	It("keeps waiting for a file that exists", func() {
		m, _ = enter(m, "Ada")
		m, _ = enter(m, "1")
		m, _ = enter(m, "ok")
		Expect(m.State().Phase).To(Equal(checklist.PhaseAwaitingUpload))

		m, _ = enter(m, filepath.Join(filepath.Dir(file), "nope.pdf"))
		Expect(m.State().Phase).To(Equal(checklist.PhaseAwaitingUpload))
		Expect(m.State().Answers).To(BeEmpty())
	})

	It("submits exactly once when the checklist completes", func() {
		m, cmd := walkToCompletion()
		Expect(m.State().Phase).To(Equal(checklist.PhaseCompleted))
		Expect(m.State().Submitted).To(BeTrue())
		Expect(cmd).NotTo(BeNil())

		next, _ := m.Update(cmd())
		m = next.(Model)
		Expect(sub.calls).To(Equal(1))
		Expect(sub.got.Process).To(Equal(checklist.Offboarding))
		Expect(sub.got.FilePath).To(Equal(file))
		Expect(sub.got.Answers).To(Equal([]checklist.Answer{
			{Question: "Please download, sign, and upload the offboarding acknowledgment.", Response: "signed.pdf"},
			{Question: "Return company equipment.", Response: "laptop returned"},
			{Question: "Complete the exit interview survey.", Response: "interview done"},
		}))
		Expect(transcriptText(m)).To(ContainSubstring("Your 3 responses were saved."))

		m, cmd = enter(m, "again")
		Expect(cmd).To(BeNil())
		_, cmd = m.submit()
		Expect(cmd).To(BeNil())
		Expect(sub.calls).To(Equal(1))
	})

	It("reports a failed submission without retrying", func() {
		sub.err = errors.New("server answered 500")
		m, cmd := walkToCompletion()

		next, _ := m.Update(cmd())
		m = next.(Model)
		Expect(m.Failed()).To(BeTrue())
		Expect(transcriptText(m)).To(ContainSubstring("Please try again"))

		_, cmd = m.submit()
		Expect(cmd).To(BeNil())
		Expect(sub.calls).To(Equal(1))
	})

	It("quits on esc", func() {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(tea.Quit()))
	})

	It("renders the transcript and the input", func() {
		m, _ = enter(m, "Ada")
		view := m.View()
		Expect(view).To(ContainSubstring("IT Process Checklist"))
		Expect(view).To(ContainSubstring("Ada"))
		Expect(view).To(ContainSubstring("1 onboarding"))
	})
})
