package testutil

// FixedFlowGenerator generates the same flow token every time.
//
// Scenario runs use it so every delivery of a scenario carries the token
// named in its YAML and golden snapshots stay byte-identical.
//
// Thread-safety: FixedFlowGenerator is stateless and safe for concurrent use.
type FixedFlowGenerator struct {
	token string
}

// NewFixedFlowGenerator creates a fixed flow token generator.
// If token is empty, Generate() returns "test-flow-default".
func NewFixedFlowGenerator(token string) *FixedFlowGenerator {
	if token == "" {
		token = "test-flow-default"
	}
	return &FixedFlowGenerator{token: token}
}

// Generate returns the fixed flow token.
//
// Implements engine.FlowTokenGenerator interface.
func (g *FixedFlowGenerator) Generate() string {
	return g.token
}
