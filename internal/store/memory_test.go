package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mktodo/internal/todo"
)

func TestMemoryStore_CopiesData(t *testing.T) {
	m := NewMemory()
	data := []byte(`{"todos":[]}`)
	require.NoError(t, m.Save("k", todo.Record{Version: 1, Data: data}))

	data[0] = 'X'
	rec, ok, err := m.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"todos":[]}`, string(rec.Data))

	rec.Data[0] = 'Y'
	again, _, _ := m.Load("k")
	assert.Equal(t, `{"todos":[]}`, string(again.Data))
}

func TestMemoryStore_Put(t *testing.T) {
	m := NewMemory()
	m.Put("legacy", 0, `{"todos":[]}`)

	rec, ok, err := m.Load("legacy")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, rec.Version)
}
