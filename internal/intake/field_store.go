package intake

import "go-job-intake/internal/domain"

// FieldStore holds the single authoritative ApplicationRecord.
// It performs no validation; any value is stored as given.
type FieldStore struct {
	record domain.ApplicationRecord
}

func NewFieldStore() *FieldStore {
	return &FieldStore{record: domain.NewApplicationRecord()}
}

// Get returns a snapshot that the caller may freely modify
func (s *FieldStore) Get() domain.ApplicationRecord {
	return s.record.Clone()
}

func (s *FieldStore) Merge(patch domain.RecordPatch) {
	patch.Apply(&s.record)
}

func (s *FieldStore) Reset() {
	s.record = domain.NewApplicationRecord()
}
