package graphmodel

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"sync"

	"github.com/google/uuid"
)

// UIDField is the property that identifies a node across saves.
const UIDField = "uid"

var labelPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Model describes the nodes stored under one label.
type Model struct {
	Label string
	// Fields lists the properties a node may carry and how each is validated.
	// The uid field is always allowed.
	Fields map[string]Validator
	// OnCreate and OnMatch are SET clauses applied by a merging save,
	// e.g. "node.created = timestamp()". The node is always bound as `node`.
	OnCreate string
	OnMatch  string
}

// New returns an empty node of this model.
func (m *Model) New() *Node {
	return &Node{model: m, props: make(map[string]any)}
}

// FromMap builds a node from a property map, validating every value.
func (m *Model) FromMap(props map[string]any) (*Node, error) {
	n := m.New()
	for k, v := range props {
		if err := n.Set(k, v); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (m *Model) validator(field string) (Validator, bool) {
	if field == UIDField {
		return UUID{}, true
	}
	v, ok := m.Fields[field]
	return v, ok
}

func validateLabel(label string) error {
	if !labelPattern.MatchString(label) {
		return errors.Join(ErrInvalidLabel, fmt.Errorf("%q", label))
	}
	return nil
}

// Registry maps labels to models.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
}

// NewRegistry returns a registry holding models.
func NewRegistry(models ...*Model) (*Registry, error) {
	r := &Registry{models: make(map[string]*Model, len(models))}
	for _, m := range models {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds m to the registry.
func (r *Registry) Register(m *Model) error {
	if err := validateLabel(m.Label); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[m.Label]; ok {
		return errors.Join(ErrDuplicateModel, fmt.Errorf("%q", m.Label))
	}
	r.models[m.Label] = m
	return nil
}

// Lookup returns the model registered for label, or a model without declared
// fields when none is registered.
func (r *Registry) Lookup(label string) *Model {
	if r != nil {
		r.mu.RLock()
		m, ok := r.models[label]
		r.mu.RUnlock()
		if ok {
			return m
		}
	}
	return &Model{Label: label}
}

func (r *Registry) has(label string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.models[label]
	return ok
}

// Node is a single graph node of a model.
type Node struct {
	// ElementID is assigned by the database. It is empty until the node is saved or loaded.
	ElementID string

	model *Model
	props map[string]any
}

// Label returns the label of the node's model.
func (n *Node) Label() string { return n.model.Label }

// Model returns the node's model.
func (n *Node) Model() *Model { return n.model }

// Set validates v and stores it under field.
// Fields not declared by the model are rejected with ErrUnknownField.
func (n *Node) Set(field string, v any) error {
	validator, ok := n.model.validator(field)
	if !ok {
		return errors.Join(ErrUnknownField, fmt.Errorf("%s.%s", n.model.Label, field))
	}
	if validator != nil {
		if err := validator.Validate(v); err != nil {
			return errors.Join(ErrInvalidValue, fmt.Errorf("%s.%s: %w", n.model.Label, field, err))
		}
	}
	n.props[field] = v
	return nil
}

// Get returns the value stored under field.
func (n *Node) Get(field string) (any, bool) {
	v, ok := n.props[field]
	return v, ok
}

// UID returns the node's uid, generating one on first use.
func (n *Node) UID() string {
	if uid, ok := n.props[UIDField].(string); ok && uid != "" {
		return uid
	}
	uid := uuid.NewString()
	n.props[UIDField] = uid
	return uid
}

// Properties returns a copy of the node's properties.
func (n *Node) Properties() map[string]any {
	return maps.Clone(n.props)
}

// ToMap returns the node as {label: properties}. It assigns a uid if missing.
func (n *Node) ToMap() map[string]any {
	n.UID()
	return map[string]any{n.model.Label: n.Properties()}
}

func (n *Node) String() string {
	uid, _ := n.props[UIDField].(string)
	return fmt.Sprintf("<%s: %s>", n.model.Label, uid)
}

func (n *Node) load(props map[string]any, validate bool) error {
	if !validate {
		maps.Copy(n.props, props)
		return nil
	}
	for k, v := range props {
		if err := n.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
