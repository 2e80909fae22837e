package aggregates

import "github.com/google/uuid"

// Contract describes how an aggregate guards its writes: which rows it owns,
// what key writes are serialised on, and which column carries the version.
type Contract struct {
	Name string

	// Table holds the rows the aggregate owns.
	Table string
	// VersionColumn is compared and bumped by every changing write.
	VersionColumn string
	// LockPrefix scopes the per-owner write lock.
	LockPrefix string

	Notes string
}

// Aggregate is implemented by every write boundary.
type Aggregate interface {
	Contract() Contract
}

// LockKey is the lock that serialises writes for one owner.
func (c Contract) LockKey(owner uuid.UUID) string {
	return c.LockPrefix + ":" + owner.String()
}
