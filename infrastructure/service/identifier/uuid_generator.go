package identifier

import (
	"github.com/google/uuid"
)

// UUIDGenerator yields v4 UUIDs, used both as account ids and as
// confirmation handles.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
