package checklist

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Phase is the tag of the chat state.
type Phase int

const (
	PhaseAwaitingName Phase = iota
	PhaseChooseProcess
	PhaseAskingStep
	PhaseAwaitingUpload
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingName:
		return "AwaitingName"
	case PhaseChooseProcess:
		return "ChooseProcess"
	case PhaseAskingStep:
		return "AskingStep"
	case PhaseAwaitingUpload:
		return "AwaitingUpload"
	case PhaseCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

var (
	ErrWrongPhase           = errors.New("checklist: action not allowed in current phase")
	ErrProcessAlreadyChosen = errors.New("checklist: process already chosen")
	ErrEmptyAnswer          = errors.New("checklist: empty answer")
	ErrNotCompleted         = errors.New("checklist: checklist not completed")
	ErrAlreadySubmitted     = errors.New("checklist: already submitted")
)

// State is one immutable snapshot of a chat session. Transitions return a
// new State and never modify the receiver's slices.
type State struct {
	Phase     Phase
	Name      string
	Process   Process
	Steps     []Step
	Index     int
	Answers   []Answer
	FilePath  string
	Submitted bool
}

// Submission is what a completed checklist sends to the backend.
type Submission struct {
	Process  Process
	Answers  []Answer
	FilePath string // local path of the uploaded file, empty when none
}

// Sender delivers a submission. It is called at most once per State.
type Sender func(ctx context.Context, sub Submission) error

// Start returns the initial state.
func Start() State {
	return State{Phase: PhaseAwaitingName}
}

// Current returns the step being asked, if any.
func (s State) Current() (Step, bool) {
	if s.Phase != PhaseAskingStep && s.Phase != PhaseAwaitingUpload {
		return Step{}, false
	}
	return s.Steps[s.Index], true
}

func (s State) EnterName(name string) (State, error) {
	if s.Phase != PhaseAwaitingName {
		return s, ErrWrongPhase
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrEmptyAnswer
	}
	s.Name = name
	s.Phase = PhaseChooseProcess
	return s, nil
}

// ChooseProcess is a one-time action: once a process is chosen every later
// call is rejected and the state is returned unchanged.
func (s State) ChooseProcess(p Process) (State, error) {
	switch {
	case s.Process != "":
		return s, ErrProcessAlreadyChosen
	case s.Phase != PhaseChooseProcess:
		return s, ErrWrongPhase
	}
	steps := Steps(p)
	if len(steps) == 0 {
		return s, fmt.Errorf("checklist: unknown process %q", p)
	}
	s.Process = p
	s.Steps = steps
	s.Index = 0
	s.Answers = nil
	s.Phase = PhaseAskingStep
	return s, nil
}

// AnswerText handles a typed reply. On an upload step the reply only moves
// the chat to AwaitingUpload; on a text step it is recorded verbatim.
func (s State) AnswerText(text string) (State, error) {
	if s.Phase != PhaseAskingStep {
		return s, ErrWrongPhase
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return s, ErrEmptyAnswer
	}
	step := s.Steps[s.Index]
	if step.Kind == KindUpload {
		s.Phase = PhaseAwaitingUpload
		return s, nil
	}
	return s.record(Answer{Question: step.Prompt, Response: text}), nil
}

// SupplyFile records the uploaded file for the pending upload step. The
// answer carries the file's base name; the full path is kept for sending.
func (s State) SupplyFile(path string) (State, error) {
	if s.Phase != PhaseAwaitingUpload {
		return s, ErrWrongPhase
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return s, ErrEmptyAnswer
	}
	s.FilePath = path
	return s.record(Answer{Question: s.Steps[s.Index].Prompt, Response: filepath.Base(path)}), nil
}

func (s State) record(a Answer) State {
	answers := make([]Answer, len(s.Answers), len(s.Answers)+1)
	copy(answers, s.Answers)
	s.Answers = append(answers, a)

	if s.Index+1 < len(s.Steps) {
		s.Index++
		s.Phase = PhaseAskingStep
	} else {
		s.Phase = PhaseCompleted
	}
	return s
}

// Submission packages a completed checklist.
func (s State) Submission() (Submission, error) {
	if s.Phase != PhaseCompleted {
		return Submission{}, ErrNotCompleted
	}
	answers := make([]Answer, len(s.Answers))
	copy(answers, s.Answers)
	return Submission{Process: s.Process, Answers: answers, FilePath: s.FilePath}, nil
}

// Latch sets the submitted latch and hands back the submission to deliver.
// It succeeds once; the caller must keep the returned state before doing
// any network work.
func (s State) Latch() (State, Submission, error) {
	if s.Phase != PhaseCompleted {
		return s, Submission{}, ErrNotCompleted
	}
	if s.Submitted {
		return s, Submission{}, ErrAlreadySubmitted
	}
	sub, err := s.Submission()
	if err != nil {
		return s, Submission{}, err
	}
	s.Submitted = true
	return s, sub, nil
}

// Send latches the state and then calls send exactly once. The returned
// state keeps the latch even when send fails: there is no retry, the user
// restarts the checklist.
func (s State) Send(ctx context.Context, send Sender) (State, error) {
	s, sub, err := s.Latch()
	if err != nil {
		return s, err
	}
	return s, send(ctx, sub)
}
