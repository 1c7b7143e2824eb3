package twin

import (
	"testing"
	"time"
)

// TestSnapshotOrdering verifies that list accessors return components
// ordered by key, regardless of construction order
func TestSnapshotOrdering(t *testing.T) {
	now := time.Now()
	snapshot := NewSnapshot(now,
		[]Property{
			{Key: "humidity", Value: 40.0},
			{Key: "temperature", Value: 21.0},
			{Key: "co2", Value: 600},
		},
		[]Action{
			{Key: "ventilate"},
			{Key: "heat"},
		},
		[]Event{
			{Key: "overheating"},
		},
		[]Relationship{
			{Name: "contains"},
		},
	)

	if !snapshot.EvaluatedAt().Equal(now) {
		t.Fatal("unexpected evaluation instant:", snapshot.EvaluatedAt())
	}

	properties := snapshot.Properties()
	if len(properties) != 3 {
		t.Fatal("unexpected number of properties:", len(properties))
	}
	for i, key := range []string{"co2", "humidity", "temperature"} {
		if properties[i].Key != key {
			t.Fatal("unexpected property order:", properties)
		}
	}

	actions := snapshot.Actions()
	if len(actions) != 2 || actions[0].Key != "heat" || actions[1].Key != "ventilate" {
		t.Fatal("unexpected action order:", actions)
	}
}

// TestSnapshotLookup verifies single-component lookup and absence reporting
func TestSnapshotLookup(t *testing.T) {
	snapshot := NewSnapshot(time.Now(),
		[]Property{{Key: "temperature", Type: "measurement", Value: 21.0}},
		[]Action{{Key: "heat", ContentType: "application/json"}},
		[]Event{{Key: "overheating", Type: "alert"}},
		[]Relationship{{Name: "contains", Instances: []RelationshipInstance{
			{Key: "contains-1", TargetID: "sensor-1"},
		}}},
	)

	property, ok := snapshot.Property("temperature")
	if !ok || property.Value != 21.0 {
		t.Fatal("unexpected property:", property)
	}
	if _, ok := snapshot.Property("pressure"); ok {
		t.Fatal("found property that was never declared")
	}

	if !snapshot.ContainsAction("heat") || snapshot.ContainsAction("cool") {
		t.Fatal("unexpected action containment")
	}

	if _, ok := snapshot.Event("overheating"); !ok {
		t.Fatal("event not found")
	}

	relationship, ok := snapshot.Relationship("contains")
	if !ok || len(relationship.Instances) != 1 || relationship.Instances[0].TargetID != "sensor-1" {
		t.Fatal("unexpected relationship:", relationship)
	}
}

// TestSnapshotEmpty verifies that accessors of an empty snapshot return
// empty non-nil lists
func TestSnapshotEmpty(t *testing.T) {
	snapshot := NewSnapshot(time.Now(), nil, nil, nil, nil)
	if snapshot.Properties() == nil || len(snapshot.Properties()) != 0 {
		t.Fatal("expected empty property list")
	}
	if snapshot.Actions() == nil || snapshot.Events() == nil || snapshot.Relationships() == nil {
		t.Fatal("expected empty non-nil lists")
	}
}

// TestSnapshotDuplicateKeys verifies that the last entry wins for
// duplicate keys
func TestSnapshotDuplicateKeys(t *testing.T) {
	snapshot := NewSnapshot(time.Now(),
		[]Property{
			{Key: "temperature", Value: 20.0},
			{Key: "temperature", Value: 23.0},
		}, nil, nil, nil)

	if len(snapshot.Properties()) != 1 {
		t.Fatal("duplicate keys were not collapsed")
	}
	property, _ := snapshot.Property("temperature")
	if property.Value != 23.0 {
		t.Fatal("expected last duplicate to win, got:", property.Value)
	}
}

// TestChangeKindComponent verifies the mapping from change kinds to
// resource kinds
func TestChangeKindComponent(t *testing.T) {
	cases := map[ChangeKind]Component{
		ChangePropertyAdded:               ComponentProperty,
		ChangePropertyUpdated:             ComponentProperty,
		ChangePropertyRemoved:             ComponentProperty,
		ChangeActionEnabled:               ComponentAction,
		ChangeActionDisabled:              ComponentAction,
		ChangeEventRegistered:             ComponentEvent,
		ChangeEventUnregistered:           ComponentEvent,
		ChangeRelationshipAdded:           ComponentRelationship,
		ChangeRelationshipInstanceRemoved: ComponentRelationship,
	}
	for kind, component := range cases {
		if kind.Component() != component {
			t.Fatalf("change kind %s mapped to %s", kind, kind.Component())
		}
	}
}
