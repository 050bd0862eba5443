// Package scenario replays YAML scripts of buffer operations and checks the
// buffer state after each step.
//
//	name: overwrite
//	capacity: 3
//	steps:
//	  - op: insert
//	    values: [1, 2, 3, 4]
//	    expect: {dropped: 1, contents: [2, 3, 4]}
//	  - op: resize
//	    capacity: 2
//	    expect: {contents: [3, 4], reversed: [4, 3]}
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	OpPush    = "push"
	OpPop     = "pop"
	OpInsert  = "insert"
	OpReplace = "replace"
	OpResize  = "resize"
	OpClear   = "clear"
	OpSafe    = "safe"
	OpCheck   = "check"
)

var ErrInvalidScenario = errors.New("invalid scenario")

type Scenario struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
	Safe     bool   `yaml:"safe"`
	Steps    []Step `yaml:"steps"`
}

type Step struct {
	Op       string  `yaml:"op"`
	Value    int     `yaml:"value"`
	Values   []int   `yaml:"values"`
	Position int     `yaml:"position"`
	Capacity int     `yaml:"capacity"`
	Safe     bool    `yaml:"safe"`
	Expect   *Expect `yaml:"expect"`
}

// Expect lists the checks run after a step. Unset fields are not checked.
type Expect struct {
	Size     *int   `yaml:"size"`
	Contents *[]int `yaml:"contents"`
	Reversed *[]int `yaml:"reversed"`
	Value    *int   `yaml:"value"`
	Dropped  *int   `yaml:"dropped"`
	Error    string `yaml:"error"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Scenario) Validate() error {
	if s.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidScenario, s.Capacity)
	}

	for i, step := range s.Steps {
		switch step.Op {
		case OpPush, OpPop, OpInsert, OpReplace, OpClear, OpSafe, OpCheck:
		case OpResize:
			if step.Capacity <= 0 && (step.Expect == nil || step.Expect.Error == "") {
				return fmt.Errorf("%w: step %d: resize needs a positive capacity", ErrInvalidScenario, i)
			}
		case "":
			return fmt.Errorf("%w: step %d: missing op", ErrInvalidScenario, i)
		default:
			return fmt.Errorf("%w: step %d: unknown op %q", ErrInvalidScenario, i, step.Op)
		}

		if step.Expect != nil && step.Expect.Error != "" {
			if _, ok := errorsByName[step.Expect.Error]; !ok {
				return fmt.Errorf("%w: step %d: unknown error %q", ErrInvalidScenario, i, step.Expect.Error)
			}
		}
	}

	return nil
}
