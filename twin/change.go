package twin

import "strings"

// ChangeKind names the kind of delta between two consecutive snapshots.
type ChangeKind string

// all state change kinds
const (
	ChangePropertyAdded   ChangeKind = "property-added"
	ChangePropertyUpdated ChangeKind = "property-updated"
	ChangePropertyRemoved ChangeKind = "property-removed"

	ChangeActionEnabled  ChangeKind = "action-enabled"
	ChangeActionUpdated  ChangeKind = "action-updated"
	ChangeActionDisabled ChangeKind = "action-disabled"

	ChangeEventRegistered   ChangeKind = "event-registered"
	ChangeEventUnregistered ChangeKind = "event-unregistered"

	ChangeRelationshipAdded           ChangeKind = "relationship-added"
	ChangeRelationshipRemoved         ChangeKind = "relationship-removed"
	ChangeRelationshipInstanceAdded   ChangeKind = "relationship-instance-added"
	ChangeRelationshipInstanceRemoved ChangeKind = "relationship-instance-removed"
)

// Component returns the resource kind a change kind refers to.
func (k ChangeKind) Component() Component {
	s := string(k)
	switch {
	case strings.HasPrefix(s, "property"):
		return ComponentProperty
	case strings.HasPrefix(s, "action"):
		return ComponentAction
	case strings.HasPrefix(s, "event"):
		return ComponentEvent
	default:
		return ComponentRelationship
	}
}

// Change describes one delta between two consecutive snapshots. A state
// update always carries the ordered change list that produced it.
type Change struct {
	Kind   ChangeKind  `json:"kind"`
	Key    string      `json:"key"`
	Before interface{} `json:"before,omitempty"`
	After  interface{} `json:"after,omitempty"`
}
