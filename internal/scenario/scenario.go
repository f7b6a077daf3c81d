// Package scenario loads offline layout scenarios from YAML and runs them
// through the layout engine.
//
// A scenario file looks like:
//
//	desktop: [0, 0, 1920, 1080]
//	profile: compact
//	tasks:
//	  - id: 1
//	    bounds: [100, 100, 800, 600]
//	  - id: 2
//	    bounds: {left: 0, top: 0, right: 640, bottom: 480}
//	dismiss: 1
//	stack:
//	  - id: 2
//	    bounds: [0, 0, 640, 480]
//	    minimized: false
package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/geom"
)

// Bounds is a rectangle written either as a four-element [x, y, width,
// height] sequence or as a left/top/right/bottom mapping.
type Bounds geom.Rect

func (b *Bounds) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xywh []int
		if err := value.Decode(&xywh); err != nil {
			return fmt.Errorf("line %d: bounds: %w", value.Line, err)
		}
		if len(xywh) != 4 {
			return fmt.Errorf("line %d: bounds must be [x, y, width, height]", value.Line)
		}
		*b = Bounds(geom.XYWH(xywh[0], xywh[1], xywh[2], xywh[3]))
		return nil
	case yaml.MappingNode:
		var r struct {
			Left   int `yaml:"left"`
			Top    int `yaml:"top"`
			Right  int `yaml:"right"`
			Bottom int `yaml:"bottom"`
		}
		if err := value.Decode(&r); err != nil {
			return fmt.Errorf("line %d: bounds: %w", value.Line, err)
		}
		*b = Bounds(geom.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom})
		return nil
	default:
		return fmt.Errorf("line %d: bounds must be a sequence or a mapping", value.Line)
	}
}

func (b Bounds) MarshalYAML() (any, error) {
	r := geom.Rect(b)
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []int{r.Left, r.Top, r.Width(), r.Height()} {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)})
	}
	return node, nil
}

// Rect returns b as a geom.Rect.
func (b Bounds) Rect() geom.Rect { return geom.Rect(b) }

// Task is a window with its natural geometry.
type Task struct {
	ID     int    `yaml:"id"`
	Bounds Bounds `yaml:"bounds"`
}

// StackEntry is a window as seen by occlusion detection. Entries are listed
// front to back.
type StackEntry struct {
	ID        int    `yaml:"id"`
	Bounds    Bounds `yaml:"bounds"`
	Minimized bool   `yaml:"minimized,omitempty"`
}

// Scenario is one offline layout problem.
type Scenario struct {
	Name    string          `yaml:"name,omitempty"`
	Desktop Bounds          `yaml:"desktop"`
	Profile string          `yaml:"profile,omitempty"`
	Layout  *config.Profile `yaml:"layout,omitempty"`
	Tasks   []Task          `yaml:"tasks"`
	Dismiss *int            `yaml:"dismiss,omitempty"`
	Stack   []StackEntry    `yaml:"stack,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("scenario is empty")
		}
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks that the scenario can be run.
func (s *Scenario) Validate() error {
	if s.Desktop.Rect().Empty() {
		return fmt.Errorf("desktop must have a positive size")
	}
	if s.Profile != "" && s.Layout != nil {
		return fmt.Errorf("profile and layout are mutually exclusive")
	}

	seen := make(map[int]bool, len(s.Tasks))
	for i, t := range s.Tasks {
		if seen[t.ID] {
			return fmt.Errorf("tasks[%d]: duplicate id %d", i, t.ID)
		}
		seen[t.ID] = true
	}
	if s.Dismiss != nil && !seen[*s.Dismiss] {
		return fmt.Errorf("dismiss: task %d is not in tasks", *s.Dismiss)
	}

	seenStack := make(map[int]bool, len(s.Stack))
	for i, e := range s.Stack {
		if seenStack[e.ID] {
			return fmt.Errorf("stack[%d]: duplicate id %d", i, e.ID)
		}
		seenStack[e.ID] = true
	}
	return nil
}

// Save writes the scenario to path as YAML.
func (s *Scenario) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Title returns the scenario name, or a short description when unnamed.
func (s *Scenario) Title() string {
	if strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	d := s.Desktop.Rect()
	return fmt.Sprintf("%d window(s) on %dx%d", len(s.Tasks), d.Width(), d.Height())
}
