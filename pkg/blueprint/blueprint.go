package blueprint

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Blueprint is the declarative form of one owner type's machines.
//
//	type: Document
//	machines:
//	  - name: default
//	    initial: pending
//	    states:
//	      - name: rejected
//	        enter: [notify_author]
//	    events:
//	      - name: approve
//	        transitions:
//	          - from: pending
//	            to: approved
//	            guards: [has_reviewer]
type Blueprint struct {
	Type     string    `yaml:"type,omitempty" json:"type,omitempty"`
	Machines []Machine `yaml:"machines" json:"machines"`
}

type Machine struct {
	Name    string  `yaml:"name,omitempty" json:"name,omitempty"`
	Initial string  `yaml:"initial,omitempty" json:"initial,omitempty"`
	States  []State `yaml:"states,omitempty" json:"states,omitempty"`
	Events  []Event `yaml:"events,omitempty" json:"events,omitempty"`
}

type State struct {
	Name        string   `yaml:"name" json:"name"`
	DisplayName string   `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Enter       []string `yaml:"enter,omitempty" json:"enter,omitempty"`
	Exit        []string `yaml:"exit,omitempty" json:"exit,omitempty"`
}

type Event struct {
	Name        string       `yaml:"name" json:"name"`
	Timestamp   bool         `yaml:"timestamp,omitempty" json:"timestamp,omitempty"`
	OnSuccess   []string     `yaml:"on_success,omitempty" json:"on_success,omitempty"`
	Transitions []Transition `yaml:"transitions" json:"transitions"`
}

// Transition is one guarded edge. Guarded is set on exported transitions whose
// guards exist only in code; Apply refuses a guarded transition until its guards
// are named.
type Transition struct {
	From      Names    `yaml:"from" json:"from"`
	To        string   `yaml:"to" json:"to"`
	Guards    []string `yaml:"guards,omitempty" json:"guards,omitempty"`
	Callbacks []string `yaml:"callbacks,omitempty" json:"callbacks,omitempty"`
	Guarded   bool     `yaml:"guarded,omitempty" json:"guarded,omitempty"`
}

// Names is a list of state names that may be written as a single scalar
// ("from: pending") or a sequence ("from: [pending, draft]").
type Names []string

func (n *Names) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*n = Names{value.Value}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*n = names
		return nil
	default:
		return fmt.Errorf("line %d: state names must be a string or a list", value.Line)
	}
}

// MarshalYAML writes a single name as a scalar.
func (n Names) MarshalYAML() (any, error) {
	if len(n) == 1 {
		return n[0], nil
	}
	return []string(n), nil
}

// Parse decodes a YAML blueprint. Unknown fields are rejected.
func Parse(data []byte) (*Blueprint, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a YAML blueprint from r.
func Decode(r io.Reader) (*Blueprint, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var bp Blueprint
	if err := dec.Decode(&bp); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidBlueprint)
		}
		return nil, errors.Join(ErrInvalidBlueprint, err)
	}
	if err := bp.validate(); err != nil {
		return nil, err
	}
	return &bp, nil
}

// Marshal encodes bp as YAML.
func Marshal(bp *Blueprint) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(bp); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (bp *Blueprint) validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, m := range bp.Machines {
		name := m.Name
		if name == "" {
			name = "default"
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("machine %q is declared twice", name))
		}
		seen[name] = true
		for _, e := range m.Events {
			if len(e.Transitions) == 0 {
				errs = append(errs, fmt.Errorf("machines[%d]: event %q has no transitions", i, e.Name))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(ErrInvalidBlueprint, errors.Join(errs...))
	}
	return nil
}
