package id

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratorStartsAtZero(t *testing.T) {
	var g Generator

	assert.Equal(t, ID(0), g.Next())
	assert.Equal(t, ID(1), g.Next())
	assert.Equal(t, ID(2), g.Next())
}

func TestGeneratorUniqueUnderConcurrency(t *testing.T) {
	const workers = 8
	const perWorker = 1000

	var g Generator
	var mu sync.Mutex
	seen := make(map[ID]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]ID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, g.Next())
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestDefaultIsMonotonic(t *testing.T) {
	a := Next()
	b := Next()

	assert.Less(t, a, b)
	assert.NotEqual(t, a, b)
}

func TestString(t *testing.T) {
	assert.Equal(t, "layer#42", ID(42).String())
}
