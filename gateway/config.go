package gateway

import (
	"fmt"

	"github.com/twinbridge/twinbridge/twin"
)

// Config holds the static configuration of a gateway: its adapter id, the
// bind address, and one whitelist filter per resource kind.
//
// A filter that is empty means "no restriction, include all"; a non-empty
// filter includes only the listed keys. Filters are set once before the
// gateway starts and are immutable afterwards.
type Config struct {
	ID   string
	Host string
	Port int

	propertyFilter     []string
	actionFilter       []string
	eventFilter        []string
	relationshipFilter []string
}

// NewConfig creates a gateway configuration with empty filters.
func NewConfig(id, host string, port int) *Config {
	return &Config{ID: id, Host: host, Port: port}
}

// AddPropertyFilter adds a single property key to the property whitelist.
func (c *Config) AddPropertyFilter(key string) error {
	return c.addFilter(&c.propertyFilter, twin.ComponentProperty, key)
}

// AddPropertyFilters adds property keys to the property whitelist.
func (c *Config) AddPropertyFilters(keys ...string) error {
	return c.addFilters(&c.propertyFilter, twin.ComponentProperty, keys)
}

// AddActionFilter adds a single action key to the action whitelist.
func (c *Config) AddActionFilter(key string) error {
	return c.addFilter(&c.actionFilter, twin.ComponentAction, key)
}

// AddActionFilters adds action keys to the action whitelist.
func (c *Config) AddActionFilters(keys ...string) error {
	return c.addFilters(&c.actionFilter, twin.ComponentAction, keys)
}

// AddEventFilter adds a single event key to the event whitelist.
func (c *Config) AddEventFilter(key string) error {
	return c.addFilter(&c.eventFilter, twin.ComponentEvent, key)
}

// AddEventFilters adds event keys to the event whitelist.
func (c *Config) AddEventFilters(keys ...string) error {
	return c.addFilters(&c.eventFilter, twin.ComponentEvent, keys)
}

// AddRelationshipFilter adds a single relationship name to the relationship
// whitelist.
func (c *Config) AddRelationshipFilter(name string) error {
	return c.addFilter(&c.relationshipFilter, twin.ComponentRelationship, name)
}

// AddRelationshipFilters adds relationship names to the relationship
// whitelist.
func (c *Config) AddRelationshipFilters(names ...string) error {
	return c.addFilters(&c.relationshipFilter, twin.ComponentRelationship, names)
}

func (c *Config) addFilter(filter *[]string, kind twin.Component, key string) error {
	if key == "" {
		return fmt.Errorf("cannot use empty %s key as filter", kind)
	}
	*filter = append(*filter, key)
	return nil
}

func (c *Config) addFilters(filter *[]string, kind twin.Component, keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("cannot use empty list of %s keys as filter", kind)
	}
	for _, key := range keys {
		if err := c.addFilter(filter, kind, key); err != nil {
			return err
		}
	}
	return nil
}

// Included reports whether key passes the whitelist for the given resource
// kind. An empty whitelist includes every key.
func (c *Config) Included(kind twin.Component, key string) bool {
	var filter []string
	switch kind {
	case twin.ComponentProperty:
		filter = c.propertyFilter
	case twin.ComponentAction:
		filter = c.actionFilter
	case twin.ComponentEvent:
		filter = c.eventFilter
	case twin.ComponentRelationship:
		filter = c.relationshipFilter
	}
	if len(filter) == 0 {
		return true
	}
	for _, k := range filter {
		if k == key {
			return true
		}
	}
	return false
}

// Unrestricted reports whether all four filters are empty.
func (c *Config) Unrestricted() bool {
	return len(c.propertyFilter) == 0 && len(c.actionFilter) == 0 &&
		len(c.eventFilter) == 0 && len(c.relationshipFilter) == 0
}
