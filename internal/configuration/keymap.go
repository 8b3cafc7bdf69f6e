package configuration

// ConfigKeyMap is an insertion-ordered map of configuration keys to values.
//
// Resolution reads it with Take, which removes the entry, so whatever is
// left afterwards is exactly the set of keys nobody recognized.
type ConfigKeyMap struct {
	entries []entry
}

type entry struct {
	key   string
	value ConfigKeyValue
}

func NewConfigKeyMap() *ConfigKeyMap {
	return &ConfigKeyMap{}
}

// Set stores value under key. An existing key keeps its position.
func (m *ConfigKeyMap) Set(key string, value ConfigKeyValue) {
	for i := range m.entries {
		if m.entries[i].key == key {
			m.entries[i].value = value
			return
		}
	}
	m.entries = append(m.entries, entry{key: key, value: value})
}

// Get returns the value for key without removing it.
func (m *ConfigKeyMap) Get(key string) (ConfigKeyValue, bool) {
	if m == nil {
		return ConfigKeyValue{}, false
	}
	for _, e := range m.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return ConfigKeyValue{}, false
}

// Take removes key from the map and returns its value.
func (m *ConfigKeyMap) Take(key string) (ConfigKeyValue, bool) {
	if m == nil {
		return ConfigKeyValue{}, false
	}
	for i, e := range m.entries {
		if e.key == key {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return e.value, true
		}
	}
	return ConfigKeyValue{}, false
}

// Keys returns the keys in insertion order.
func (m *ConfigKeyMap) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

func (m *ConfigKeyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Clone returns an independent copy, for callers that need to resolve the
// same input more than once.
func (m *ConfigKeyMap) Clone() *ConfigKeyMap {
	if m == nil {
		return NewConfigKeyMap()
	}
	c := &ConfigKeyMap{entries: make([]entry, len(m.entries))}
	copy(c.entries, m.entries)
	return c
}

// Merge sets every entry of other on m, in other's order.
func (m *ConfigKeyMap) Merge(other *ConfigKeyMap) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		m.Set(e.key, e.value)
	}
}
