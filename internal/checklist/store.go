package checklist

import (
	"encoding/json"

	"github.com/bwmarrin/snowflake"
)

// Store holds in-progress equipment check results for a visit, keyed by
// equipment instance and property name. Updates merge at the property
// level so unrelated instances and properties are never clobbered.
type Store struct {
	values map[snowflake.ID]map[string]Value
}

func NewStore() *Store {
	return &Store{values: make(map[snowflake.ID]map[string]Value)}
}

// Set records one property value for one instance, leaving everything
// else in the store untouched.
func (s *Store) Set(instanceID snowflake.ID, key string, value Value) {
	props, ok := s.values[instanceID]
	if !ok {
		props = make(map[string]Value)
		s.values[instanceID] = props
	}
	props[key] = value
}

// Get returns the stored value for an instance property. Absent keys are
// not an error; callers treat them as the kind default.
func (s *Store) Get(instanceID snowflake.ID, key string) (Value, bool) {
	props, ok := s.values[instanceID]
	if !ok {
		return Value{}, false
	}
	value, ok := props[key]
	return value, ok
}

// SetDefault seeds a value only when the property is not already present.
// Safe to call repeatedly; in-progress edits survive re-hydration.
func (s *Store) SetDefault(instanceID snowflake.ID, key string, value Value) {
	if _, ok := s.Get(instanceID, key); ok {
		return
	}
	s.Set(instanceID, key, value)
}

// Snapshot returns a deep copy of the store contents.
func (s *Store) Snapshot() map[snowflake.ID]map[string]Value {
	out := make(map[snowflake.ID]map[string]Value, len(s.values))
	for id, props := range s.values {
		copied := make(map[string]Value, len(props))
		for k, v := range props {
			copied[k] = v
		}
		out[id] = copied
	}
	return out
}

// MarshalJSON serializes the store keyed by the instance ID string form.
func (s *Store) MarshalJSON() ([]byte, error) {
	wire := make(map[string]map[string]Value, len(s.values))
	for id, props := range s.values {
		wire[id.String()] = props
	}
	return json.Marshal(wire)
}

func (s *Store) UnmarshalJSON(data []byte) error {
	var wire map[string]map[string]Value
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.values = make(map[snowflake.ID]map[string]Value, len(wire))
	for raw, props := range wire {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return err
		}
		s.values[id] = props
	}
	return nil
}
