package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/situations/internal/upstream"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	assert.NoError(t, c.Err())
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Messages())

	c.Add(nil)
	c.Add(errors.New("could not download data for 220"))
	c.Add(&upstream.FetchError{SourceID: "259", Err: errors.New("HTTP 500")})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{
		"could not download data for 220",
		"could not download data for 259: HTTP 500",
	}, c.Messages())

	joined := c.Err()
	require.Error(t, joined)
	var fe *upstream.FetchError
	require.ErrorAs(t, joined, &fe)
	assert.Equal(t, "259", fe.SourceID)

	errs := c.Errors()
	errs[0] = nil
	assert.NotNil(t, c.Errors()[0], "Errors returns a copy")
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(fmt.Errorf("error %d", i))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
	assert.Len(t, c.Messages(), 50)
}
