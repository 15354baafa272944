package engine

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	seen := make(map[string]bool)

	for i := 0; i < 500; i++ {
		token := gen.Generate()
		parsed, err := uuid.Parse(token)
		require.NoError(t, err)
		require.Equal(t, uuid.Version(7), parsed.Version())
		require.False(t, seen[token], "token %s generated twice", token)
		seen[token] = true
	}
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, gen.Generate())
}

func TestUUIDv7Generator_Concurrent(t *testing.T) {
	gen := UUIDv7Generator{}
	const goroutines = 100

	tokens := make(chan string, goroutines)
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens <- gen.Generate()
		}()
	}

	wg.Wait()
	close(tokens)

	seen := make(map[string]bool)
	for token := range tokens {
		require.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}

	assert.Equal(t, goroutines, len(seen))
}

func TestFixedGenerator_Sequential(t *testing.T) {
	gen := NewFixedGenerator("flow-1", "flow-2", "flow-3")

	assert.Equal(t, "flow-1", gen.Generate())
	assert.Equal(t, "flow-2", gen.Generate())
	assert.Equal(t, "flow-3", gen.Generate())
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	gen := NewFixedGenerator("flow-1")

	assert.Equal(t, "flow-1", gen.Generate())

	assert.Panics(t, func() {
		gen.Generate()
	}, "should panic when all tokens exhausted")
}

func TestEngine_NewFlow_WithFixedGenerator(t *testing.T) {
	e := createTestEngine(t, WithFlowGenerator(NewFixedGenerator("test-flow-1", "test-flow-2")))

	assert.Equal(t, "test-flow-1", e.NewFlow())
	assert.Equal(t, "test-flow-2", e.NewFlow())
}

func TestEngine_NewFlow_DefaultsToUUIDv7(t *testing.T) {
	e := createTestEngine(t)

	parsed, err := uuid.Parse(e.NewFlow())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
