package assets

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	Store
	calls  atomic.Int32
	ctxErr atomic.Value
	err    error
}

func (s *failingStore) Delete(ctx context.Context, key string) (bool, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		s.ctxErr.Store(err)
		return false, err
	}
	return false, s.err
}

func TestJanitor_RetireDeletesInBackground(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "old.png", strings.NewReader("x"), ""))

	j := NewJanitor(store, logging.Nop(), time.Second)
	j.Retire(context.Background(), "old.png")
	j.Wait()

	_, _, err = store.Open(context.Background(), "old.png")
	assert.Error(t, err)
}

func TestJanitor_SurvivesCanceledRequest(t *testing.T) {
	store := &failingStore{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	j := NewJanitor(store, logging.Nop(), time.Second)
	j.Retire(ctx, "k")
	j.Wait()

	assert.EqualValues(t, 1, store.calls.Load())
	assert.Nil(t, store.ctxErr.Load(), "deletion must not inherit request cancellation")
}

func TestJanitor_FailureIsSwallowed(t *testing.T) {
	store := &failingStore{err: errors.New("bucket gone")}

	j := NewJanitor(store, logging.Nop(), 0)
	assert.Equal(t, defaultRetireTimeout, j.timeout)

	j.Retire(context.Background(), "k")
	j.Retire(context.Background(), "")
	j.Wait()

	assert.EqualValues(t, 1, store.calls.Load(), "empty keys are ignored")
}

