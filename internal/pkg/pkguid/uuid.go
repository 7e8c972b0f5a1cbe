package pkguid

import "github.com/google/uuid"

// UUID hands out time-ordered UUIDv7 strings, so batch ids sort by creation.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (*UUID) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsUUID reports whether id is a canonical UUID string. Handlers use it to
// reject malformed batch ids before touching the store.
func IsUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
