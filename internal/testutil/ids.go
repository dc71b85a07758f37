package testutil

// FixedIDGenerator returns the same save id every time.
//
// This keeps save rows and golden output byte-identical across runs.
// If id is empty, Generate() returns "test-save-default".
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a new fixed id generator.
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-save-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
//
// Implements store.IDGenerator interface.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
