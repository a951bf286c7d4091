package testutil

// FixedPassID hands out the same pass ID on every call. It satisfies
// pipeline.PassIDGenerator.
type FixedPassID string

// DefaultPassID is used when a scenario does not pin one.
const DefaultPassID FixedPassID = "00000000-0000-7000-8000-000000000001"

// Generate returns the fixed ID, or DefaultPassID when empty.
func (id FixedPassID) Generate() string {
	if id == "" {
		return string(DefaultPassID)
	}
	return string(id)
}
