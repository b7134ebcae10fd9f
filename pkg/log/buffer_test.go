package log_test

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/leads/pkg/log"
)

func TestCircularBufferDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, log.NewCircularBuffer(0).Capacity())
	assert.Equal(t, 100, log.NewCircularBuffer(-3).Capacity())
	assert.Equal(t, 4, log.NewCircularBuffer(4).Capacity())
}

func TestCircularBufferWrap(t *testing.T) {
	t.Parallel()

	b := log.NewCircularBuffer(3)

	n, err := b.Write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, b.Size())

	for i := range 5 {
		_, err := fmt.Fprintf(b, "line %d\n", i)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, b.Size())
	assert.Equal(t, 2, b.Dropped())

	out := &bytes.Buffer{}
	_, err = b.WriteTo(out)
	require.NoError(t, err)
	assert.Equal(t, "line 2\nline 3\nline 4\n", out.String())

	b.Reset()
	assert.Zero(t, b.Size())
	assert.Empty(t, b.Entries())
}

func TestCircularBufferEntriesAreCopies(t *testing.T) {
	t.Parallel()

	b := log.NewCircularBuffer(2)

	p := []byte("abc")
	_, err := b.Write(p)
	require.NoError(t, err)

	p[0] = 'x'

	entries := b.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", string(entries[0]))

	entries[0][0] = 'y'
	assert.Equal(t, "abc", string(b.Entries()[0]))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCircularBufferWriteToError(t *testing.T) {
	t.Parallel()

	b := log.NewCircularBuffer(2)
	_, err := b.Write([]byte("x"))
	require.NoError(t, err)

	_, err = b.WriteTo(failingWriter{})
	require.ErrorContains(t, err, "disk full")
}

func TestCircularBufferConcurrent(t *testing.T) {
	t.Parallel()

	b := log.NewCircularBuffer(50)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			for j := range 20 {
				_, _ = fmt.Fprintf(b, "%d-%d", i, j)
			}
		})
	}

	wg.Wait()

	assert.Equal(t, 50, b.Size())
	assert.Equal(t, 150, b.Dropped())
}
