package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/dragsort/internal/errors"
)

// Scenario is a scripted drag session run by the replay command.
//
//	name: move to empty column
//	containers:
//	  - name: todo
//	    items: [a, b]
//	  - name: done
//	    top: 200
//	steps:
//	  - {action: dragstart, container: todo, item: a}
//	  - {action: emptyover, container: done}
//	  - {action: dragend}
type Scenario struct {
	Name string `yaml:"name"`

	// ThrottleWindow rate limits dragover steps (default "0s"). Use the
	// advance field of a step to move the replay clock.
	ThrottleWindow string `yaml:"throttleWindow"`

	// RowHeight is the height of every item box (default 40).
	RowHeight float64 `yaml:"rowHeight"`

	Containers []ScenarioContainer `yaml:"containers"`
	Steps      []Step              `yaml:"steps"`

	window time.Duration
}

// ScenarioContainer is one container and its initial items, stacked from
// Top downwards.
type ScenarioContainer struct {
	Name  string   `yaml:"name"`
	Top   float64  `yaml:"top"`
	Items []string `yaml:"items"`
}

// Step is one input event.
type Step struct {
	Action    string  `yaml:"action"`
	Container string  `yaml:"container,omitempty"`
	Item      string  `yaml:"item,omitempty"`
	Y         float64 `yaml:"y,omitempty"`

	// Advance moves the replay clock before the step runs (e.g., "60ms").
	Advance string `yaml:"advance,omitempty"`

	advance time.Duration
}

// Step actions.
const (
	actionDragStart       = "dragstart"
	actionDragOver        = "dragover"
	actionDragEnd         = "dragend"
	actionEmptyOver       = "emptyover"
	actionTransitionStart = "transitionstart"
	actionTransitionEnd   = "transitionend"
	actionReset           = "reset"
	actionWait            = "wait"
)

// loadScenario reads and validates a scenario file.
func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E501").WithDetail(err.Error()).Wrap(err)
	}
	sc, err := parseScenario(data)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// parseScenario decodes YAML, applies defaults and validates.
func parseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.New("E501").WithDetail(err.Error()).Wrap(err)
	}

	if sc.RowHeight == 0 {
		sc.RowHeight = 40
	}
	if sc.RowHeight < 0 {
		return nil, errors.New("E501").WithDetail("rowHeight must be positive")
	}
	if sc.ThrottleWindow != "" {
		d, err := time.ParseDuration(sc.ThrottleWindow)
		if err != nil || d < 0 {
			return nil, errors.New("E501").WithDetailf("throttleWindow %q is not a duration", sc.ThrottleWindow)
		}
		sc.window = d
	}

	if len(sc.Containers) == 0 {
		return nil, errors.New("E501").WithDetail("scenario has no containers")
	}
	names := make(map[string]struct{}, len(sc.Containers))
	for _, c := range sc.Containers {
		if c.Name == "" {
			return nil, errors.New("E501").WithDetail("every container needs a name")
		}
		if _, dup := names[c.Name]; dup {
			return nil, errors.New("E501").WithDetailf("container %q is defined twice", c.Name)
		}
		names[c.Name] = struct{}{}
	}

	for i := range sc.Steps {
		st := &sc.Steps[i]
		if err := st.validate(names); err != nil {
			return nil, errors.New("E501").WithDetailf("step %d: %v", i+1, err)
		}
	}
	return &sc, nil
}

func (st *Step) validate(containers map[string]struct{}) error {
	if st.Advance != "" {
		d, err := time.ParseDuration(st.Advance)
		if err != nil || d < 0 {
			return errors.Newf(errors.CategoryCLI, "advance %q is not a duration", st.Advance)
		}
		st.advance = d
	}

	needContainer, needItem := false, false
	switch st.Action {
	case actionDragStart, actionDragOver:
		needContainer, needItem = true, true
	case actionEmptyOver:
		needContainer = true
	case actionDragEnd, actionTransitionStart, actionTransitionEnd, actionReset, actionWait:
	case "":
		return errors.Newf(errors.CategoryCLI, "missing action")
	default:
		return errors.Newf(errors.CategoryCLI, "unknown action %q", st.Action)
	}

	if needContainer {
		if _, ok := containers[st.Container]; !ok {
			return errors.Newf(errors.CategoryCLI, "%s: unknown container %q", st.Action, st.Container)
		}
	}
	if needItem && st.Item == "" {
		return errors.Newf(errors.CategoryCLI, "%s: missing item", st.Action)
	}
	return nil
}
