package twin

import (
	"sort"
	"time"
)

// Component enumerates the four resource kinds a twin state is made of.
type Component string

// all twin state component kinds
const (
	ComponentProperty     Component = "property"
	ComponentAction       Component = "action"
	ComponentEvent        Component = "event"
	ComponentRelationship Component = "relationship"
)

// Property is a typed value exposed by the twin state.
type Property struct {
	Key   string      `json:"key"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// Action is a command surface the twin exposes. SchemaID optionally names a
// JSON schema the payload of an invocation must validate against.
type Action struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	ContentType string `json:"content_type"`
	SchemaID    string `json:"schema_id,omitempty"`
}

// Event describes a named event the twin can fire.
type Event struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

// RelationshipInstance is one concrete edge of a named relationship.
type RelationshipInstance struct {
	Key      string `json:"key"`
	TargetID string `json:"target_id"`
}

// Relationship is a named link from the twin to other assets.
type Relationship struct {
	Name      string                 `json:"name"`
	Instances []RelationshipInstance `json:"instances"`
}

// Snapshot is the state of the twin at one evaluation instant. A snapshot is
// never modified after construction; a state change produces a new snapshot.
// Keys are unique within each component kind, lists are ordered by key.
type Snapshot struct {
	evaluatedAt time.Time

	properties    map[string]Property
	actions       map[string]Action
	events        map[string]Event
	relationships map[string]Relationship

	propertyKeys     []string
	actionKeys       []string
	eventKeys        []string
	relationshipKeys []string
}

// NewSnapshot builds an immutable snapshot from component lists. Duplicate
// keys within a list are collapsed, the last entry wins.
func NewSnapshot(evaluatedAt time.Time, properties []Property, actions []Action,
	events []Event, relationships []Relationship) *Snapshot {

	s := &Snapshot{
		evaluatedAt:   evaluatedAt,
		properties:    make(map[string]Property),
		actions:       make(map[string]Action),
		events:        make(map[string]Event),
		relationships: make(map[string]Relationship),
	}
	for _, p := range properties {
		s.properties[p.Key] = p
	}
	for _, a := range actions {
		s.actions[a.Key] = a
	}
	for _, e := range events {
		s.events[e.Key] = e
	}
	for _, r := range relationships {
		s.relationships[r.Name] = r
	}
	for k := range s.properties {
		s.propertyKeys = append(s.propertyKeys, k)
	}
	for k := range s.actions {
		s.actionKeys = append(s.actionKeys, k)
	}
	for k := range s.events {
		s.eventKeys = append(s.eventKeys, k)
	}
	for k := range s.relationships {
		s.relationshipKeys = append(s.relationshipKeys, k)
	}
	sort.Strings(s.propertyKeys)
	sort.Strings(s.actionKeys)
	sort.Strings(s.eventKeys)
	sort.Strings(s.relationshipKeys)
	return s
}

// EvaluatedAt returns the evaluation instant of this snapshot.
func (s *Snapshot) EvaluatedAt() time.Time {
	return s.evaluatedAt
}

// Property looks up a single property by key.
func (s *Snapshot) Property(key string) (Property, bool) {
	p, ok := s.properties[key]
	return p, ok
}

// Properties returns all properties ordered by key. The returned slice is a
// copy and never nil.
func (s *Snapshot) Properties() []Property {
	list := make([]Property, 0, len(s.propertyKeys))
	for _, k := range s.propertyKeys {
		list = append(list, s.properties[k])
	}
	return list
}

// Action looks up a single action by key.
func (s *Snapshot) Action(key string) (Action, bool) {
	a, ok := s.actions[key]
	return a, ok
}

// ContainsAction reports whether the snapshot declares the action key.
func (s *Snapshot) ContainsAction(key string) bool {
	_, ok := s.actions[key]
	return ok
}

// Actions returns all actions ordered by key. The returned slice is a copy
// and never nil.
func (s *Snapshot) Actions() []Action {
	list := make([]Action, 0, len(s.actionKeys))
	for _, k := range s.actionKeys {
		list = append(list, s.actions[k])
	}
	return list
}

// Event looks up a single event descriptor by key.
func (s *Snapshot) Event(key string) (Event, bool) {
	e, ok := s.events[key]
	return e, ok
}

// Events returns all event descriptors ordered by key. The returned slice is
// a copy and never nil.
func (s *Snapshot) Events() []Event {
	list := make([]Event, 0, len(s.eventKeys))
	for _, k := range s.eventKeys {
		list = append(list, s.events[k])
	}
	return list
}

// Relationship looks up a single relationship by name.
func (s *Snapshot) Relationship(name string) (Relationship, bool) {
	r, ok := s.relationships[name]
	return r, ok
}

// Relationships returns all relationships ordered by name. The returned
// slice is a copy and never nil.
func (s *Snapshot) Relationships() []Relationship {
	list := make([]Relationship, 0, len(s.relationshipKeys))
	for _, k := range s.relationshipKeys {
		list = append(list, s.relationships[k])
	}
	return list
}
