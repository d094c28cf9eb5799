package gguf

// Store is the typed key/value metadata extracted from one parse pass.
// Keys keep their first-seen order; a repeated key silently overwrites the
// earlier value (this matches what llama.cpp writers produce and is not an
// error). A Store is built by Parse and read-only afterwards.
type Store struct {
	keys []string
	vals map[string]Value
}

func newStore(capacity int) *Store {
	return &Store{
		keys: make([]string, 0, capacity),
		vals: make(map[string]Value, capacity),
	}
}

func (s *Store) set(key string, v Value) {
	if _, seen := s.vals[key]; !seen {
		s.keys = append(s.keys, key)
	}
	s.vals[key] = v
}

// Get returns the value for key and whether it is present.
func (s *Store) Get(key string) (Value, bool) {
	v, ok := s.vals[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (s *Store) Len() int { return len(s.keys) }

// Keys returns the keys in first-seen order.
func (s *Store) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}
