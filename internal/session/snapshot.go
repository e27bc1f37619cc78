package session

import "github.com/studiowebux/dbedit/internal/types"

// Snapshot is a read-only view of all records in canonical form
type Snapshot struct {
	records []types.Record
	index   map[string]int
}

func newSnapshot(records []types.Record) Snapshot {
	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.Key] = i
	}
	return Snapshot{records: records, index: index}
}

// Get returns the value stored for key
func (s Snapshot) Get(key string) (string, bool) {
	i, ok := s.index[key]
	if !ok {
		return "", false
	}
	return s.records[i].Value, true
}

// Len returns the number of records
func (s Snapshot) Len() int {
	return len(s.records)
}

// Records returns a copy of the records in load order
func (s Snapshot) Records() []types.Record {
	result := make([]types.Record, len(s.records))
	copy(result, s.records)
	return result
}

// Map returns the records as a key to value map
func (s Snapshot) Map() map[string]string {
	result := make(map[string]string, len(s.records))
	for _, r := range s.records {
		result[r.Key] = r.Value
	}
	return result
}
