package cellar

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicStoreBorrowDiscipline(t *testing.T) {
	reg := Factory.NewRegistry()
	handle, err := AtomicStoreFor(reg, FactoryNewComponent[Position]())
	require.NoError(t, err)

	write, err := handle.BorrowMut()
	require.NoError(t, err)

	// No other guard may coexist with a writer
	_, err = handle.Borrow()
	require.ErrorAs(t, err, &BorrowConflictError{})
	_, err = handle.BorrowMut()
	require.ErrorAs(t, err, &BorrowConflictError{})

	write.Release()

	// Released claims are available again
	read, err := handle.Borrow()
	require.NoError(t, err)

	// Readers may coexist with readers but not with a writer
	read2, err := handle.Borrow()
	require.NoError(t, err)
	_, err = handle.BorrowMut()
	require.ErrorAs(t, err, &BorrowConflictError{})

	read.Release()
	read.Release() // idempotent
	_, err = handle.BorrowMut()
	require.ErrorAs(t, err, &BorrowConflictError{})

	read2.Release()
	write, err = handle.BorrowMut()
	require.NoError(t, err)
	write.Release()
}

func TestAtomicStoreCloneSharesStorage(t *testing.T) {
	reg := Factory.NewRegistry()
	handle, err := AtomicStoreFor(reg, FactoryNewComponent[Health]())
	require.NoError(t, err)

	clone := handle.Clone()
	e := NewEntity(4, 0)

	write, err := clone.BorrowMut()
	require.NoError(t, err)
	write.Insert(e, Health{Value: 77})

	// A clone's write guard blocks borrows on the original too
	_, err = handle.Borrow()
	require.ErrorAs(t, err, &BorrowConflictError{})
	write.Release()

	read, err := handle.Borrow()
	require.NoError(t, err)
	defer read.Release()

	got, ok := read.Get(e)
	require.True(t, ok, "value inserted through clone is missing")
	assert.Equal(t, int32(77), got.Value)
}

func TestAtomicStoreHandlesShareBorrowState(t *testing.T) {
	reg := Factory.NewRegistry()
	comp := FactoryNewComponent[Position]()

	a, err := AtomicStoreFor(reg, comp)
	require.NoError(t, err)
	b, err := AtomicStoreFor(reg, comp)
	require.NoError(t, err)

	write, err := a.BorrowMut()
	require.NoError(t, err)
	defer write.Release()

	_, err = b.BorrowMut()
	require.ErrorAs(t, err, &BorrowConflictError{},
		"independently obtained handles must share one borrow state")
}

func TestAtomicStoreConcurrentReaders(t *testing.T) {
	reg := Factory.NewRegistry()
	handle, err := AtomicStoreFor(reg, FactoryNewComponent[Health]())
	require.NoError(t, err)

	write, err := handle.BorrowMut()
	require.NoError(t, err)
	write.Insert(NewEntity(0, 0), Health{Value: 5})
	write.Release()

	const readers = 16
	var wg sync.WaitGroup
	errs := make(chan error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			guard, err := handle.Clone().Borrow()
			if err != nil {
				errs <- err
				return
			}
			defer guard.Release()
			if _, ok := guard.Get(NewEntity(0, 0)); !ok {
				errs <- BorrowConflictError{}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent read failed: %v", err)
	}
}

func TestAtomicStoreConcurrentWriterExclusion(t *testing.T) {
	reg := Factory.NewRegistry()
	handle, err := AtomicStoreFor(reg, FactoryNewComponent[Health]())
	require.NoError(t, err)

	const attempts = 32
	var wg sync.WaitGroup
	granted := make(chan *WriteGuard[Health], attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard, err := handle.Clone().BorrowMut(); err == nil {
				granted <- guard
			}
		}()
	}
	wg.Wait()
	close(granted)

	// Guards are only released after every attempt resolved, so at most
	// one write claim can ever have been granted.
	count := 0
	for guard := range granted {
		count++
		guard.Release()
	}
	assert.Equal(t, 1, count, "write exclusivity violated")
}
