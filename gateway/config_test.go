package gateway

import (
	"testing"

	"github.com/twinbridge/twinbridge/twin"
)

// TestConfigEmptyFilters verifies that empty filters include every key
func TestConfigEmptyFilters(t *testing.T) {
	config := NewConfig("test", "localhost", 3000)

	if !config.Unrestricted() {
		t.Fatal("fresh config must be unrestricted")
	}
	for _, kind := range []twin.Component{
		twin.ComponentProperty, twin.ComponentAction,
		twin.ComponentEvent, twin.ComponentRelationship,
	} {
		if !config.Included(kind, "anything") {
			t.Fatal("empty filter must include every key, kind:", kind)
		}
	}
}

// TestConfigWhitelist verifies that a non-empty filter includes only the
// listed keys and leaves the other kinds unrestricted
func TestConfigWhitelist(t *testing.T) {
	config := NewConfig("test", "localhost", 3000)
	if err := config.AddPropertyFilters("temperature", "humidity"); err != nil {
		t.Fatal(err)
	}
	if err := config.AddEventFilter("overheating"); err != nil {
		t.Fatal(err)
	}

	if config.Unrestricted() {
		t.Fatal("config with filters must not be unrestricted")
	}
	if !config.Included(twin.ComponentProperty, "temperature") ||
		!config.Included(twin.ComponentProperty, "humidity") {
		t.Fatal("whitelisted properties must be included")
	}
	if config.Included(twin.ComponentProperty, "co2") {
		t.Fatal("unlisted property must be excluded")
	}
	if config.Included(twin.ComponentEvent, "freezing") {
		t.Fatal("unlisted event must be excluded")
	}
	if !config.Included(twin.ComponentAction, "anything") {
		t.Fatal("kinds without filter must stay unrestricted")
	}
}

// TestConfigFilterErrors verifies rejection of empty keys and empty lists
func TestConfigFilterErrors(t *testing.T) {
	config := NewConfig("test", "localhost", 3000)

	if err := config.AddPropertyFilter(""); err == nil {
		t.Fatal("empty key must be rejected")
	}
	if err := config.AddActionFilters(); err == nil {
		t.Fatal("empty key list must be rejected")
	}
	if err := config.AddRelationshipFilters("contains", ""); err == nil {
		t.Fatal("empty key in list must be rejected")
	}
	if !config.Included(twin.ComponentProperty, "anything") {
		t.Fatal("rejected filter must not restrict anything")
	}
}
