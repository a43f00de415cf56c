package checklist

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Process selects which checklist applies.
type Process string

const (
	Onboarding  Process = "onboarding"
	Offboarding Process = "offboarding"
)

// Kind tells the chat how a step is answered.
type Kind string

const (
	KindText   Kind = "text"
	KindUpload Kind = "upload"
)

// Step is one prompt of a checklist.
type Step struct {
	Prompt       string `yaml:"prompt" json:"prompt"`
	Kind         Kind   `yaml:"kind" json:"kind"`
	ReferenceURL string `yaml:"referenceUrl,omitempty" json:"referenceUrl,omitempty"`
}

// Answer is the recorded outcome of one step.
type Answer struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

//go:embed checklists.yaml
var checklistsYAML []byte

var loadTable = sync.OnceValues(func() (map[Process][]Step, error) {
	return parseTable(checklistsYAML)
})

func parseTable(data []byte) (map[Process][]Step, error) {
	var table map[Process][]Step
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("checklist: parse definitions: %w", err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("checklist: no processes defined")
	}
	for p, steps := range table {
		if len(steps) == 0 {
			return nil, fmt.Errorf("checklist: process %q has no steps", p)
		}
		for i, s := range steps {
			if strings.TrimSpace(s.Prompt) == "" {
				return nil, fmt.Errorf("checklist: %s step %d has no prompt", p, i)
			}
			if s.Kind != KindText && s.Kind != KindUpload {
				return nil, fmt.Errorf("checklist: %s step %d has unknown kind %q", p, i, s.Kind)
			}
		}
	}
	return table, nil
}

func mustTable() map[Process][]Step {
	table, err := loadTable()
	if err != nil {
		// the table is embedded at build time; a broken one is a build defect
		panic(err)
	}
	return table
}

// ParseProcess resolves a user supplied process name, ignoring case and
// surrounding whitespace.
func ParseProcess(s string) (Process, error) {
	p := Process(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := mustTable()[p]; !ok {
		return "", fmt.Errorf("invalid process %q: use 'onboarding' or 'offboarding'", s)
	}
	return p, nil
}

// Steps returns a copy of the ordered steps for p, or nil if p is unknown.
func Steps(p Process) []Step {
	steps, ok := mustTable()[p]
	if !ok {
		return nil
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// Processes lists the known processes in a stable order.
func Processes() []Process {
	table := mustTable()
	out := make([]Process, 0, len(table))
	for p := range table {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
