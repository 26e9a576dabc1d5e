package store_test

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mktodo/internal/store"
	"github.com/MihkelHunter/mktodo/internal/todo"
)

func openTestStore(t *testing.T) (*store.SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")
	st, err := store.New(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st, path
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	st, _ := openTestStore(t)

	_, ok, err := st.Load("nothing-here")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	st, _ := openTestStore(t)
	saved := time.Date(2026, 10, 19, 8, 30, 0, 500, time.UTC)

	require.NoError(t, st.Save("k", todo.Record{Version: 0, Data: []byte(`{"todos":[]}`), SavedAt: saved}))
	require.NoError(t, st.Save("k", todo.Record{Version: 1, Data: []byte(`{"todos":[],"nextId":4}`), SavedAt: saved.Add(time.Minute)}))

	rec, ok, err := st.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, rec.Version)
	assert.Equal(t, `{"todos":[],"nextId":4}`, string(rec.Data))
	assert.True(t, rec.SavedAt.Equal(saved.Add(time.Minute)))
}

func TestSQLiteStore_ServiceSurvivesReopen(t *testing.T) {
	st, path := openTestStore(t)
	quiet := todo.WithLogger(log.New(io.Discard))

	svc := todo.NewService(st, quiet)
	_, err := svc.Add("buy milk")
	require.NoError(t, err)
	_, err = svc.Add("walk dog")
	require.NoError(t, err)
	require.NoError(t, svc.Toggle(2))
	require.NoError(t, svc.SetFilter(todo.FilterCompleted))
	require.NoError(t, svc.Close())

	reopened, err := store.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	again := todo.NewService(reopened, quiet)
	assert.Equal(t, svc.Tasks(), again.Tasks())
	assert.Equal(t, todo.FilterCompleted, again.Filter())
	assert.Equal(t, int64(3), again.NextID())
	assert.Len(t, again.Filtered(), 1)
}
