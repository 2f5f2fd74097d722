package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithExpectedSize pre-sizes the store for n records.
func WithExpectedSize(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.expected = n
		}
	}
}

// WithoutUnreportedProfiles drops the coverage profile of records that will
// not be written, keeping memory proportional to the reported rows.
func WithoutUnreportedProfiles() Option {
	return func(s *MemoryStore) {
		s.dropUnreportedProfiles = true
	}
}
