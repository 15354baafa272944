package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedFlowGenerator_ReturnsSameToken(t *testing.T) {
	gen := NewFixedFlowGenerator("scenario-flow")

	assert.Equal(t, "scenario-flow", gen.Generate())
	assert.Equal(t, "scenario-flow", gen.Generate())
}

func TestFixedFlowGenerator_EmptyTokenDefault(t *testing.T) {
	gen := NewFixedFlowGenerator("")

	assert.Equal(t, "test-flow-default", gen.Generate())
}

func TestFixedFlowGenerator_Concurrent(t *testing.T) {
	gen := NewFixedFlowGenerator("shared")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "shared", gen.Generate())
			}
		}()
	}
	wg.Wait()
}
