package waithandle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestResolve_SettlesAndRemoves(t *testing.T) {
	var table Table[string]
	f := table.Create("q1")

	if !table.Pending("q1") {
		t.Fatal("q1 not pending after Create")
	}
	if !table.Resolve("q1") {
		t.Fatal("Resolve returned false for pending key")
	}
	if err := f.Wait(context.Background()); err != nil {
		t.Errorf("Wait = %v, want nil", err)
	}
	if table.Pending("q1") {
		t.Error("q1 still pending after Resolve")
	}
}

func TestReject_CarriesError(t *testing.T) {
	var table Table[string]
	f := table.Create("q1")
	want := errors.New("relation does not exist")

	table.Reject("q1", want)

	if err := f.Wait(context.Background()); !errors.Is(err, want) {
		t.Errorf("Wait = %v, want %v", err, want)
	}
}

func TestSettleTwice_IsNoOp(t *testing.T) {
	var table Table[string]
	f := table.Create("q1")

	table.Resolve("q1")
	if table.Reject("q1", errors.New("late")) {
		t.Error("Reject after Resolve reported a pending entry")
	}
	if table.Resolve("q1") {
		t.Error("second Resolve reported a pending entry")
	}
	if err := f.Wait(context.Background()); err != nil {
		t.Errorf("Wait = %v, want nil (first settlement wins)", err)
	}
}

func TestSettleUnknownKey(t *testing.T) {
	var table Table[int]
	if table.Resolve(42) {
		t.Error("Resolve of unknown key returned true")
	}
	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
}

func TestCreate_ReturnsExistingFuture(t *testing.T) {
	var table Table[string]
	a := table.Create("q1")
	b := table.Create("q1")
	if a != b {
		t.Error("Create returned a new future for a pending key")
	}
	if table.Len() != 1 {
		t.Errorf("Len = %d, want 1", table.Len())
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	var table Table[string]
	f := table.Create("q1")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want DeadlineExceeded", err)
	}
	if !table.Pending("q1") {
		t.Error("cancelled wait removed the entry")
	}
}

func TestDiscard(t *testing.T) {
	var table Table[string]
	f := table.Create("q1")

	table.Discard("q1")

	if err := f.Wait(context.Background()); !errors.Is(err, ErrDiscarded) {
		t.Errorf("Wait = %v, want ErrDiscarded", err)
	}
}

func TestConcurrentSettle_ExactlyOneWins(t *testing.T) {
	var table Table[string]
	table.Create("q1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var ok bool
			if i%2 == 0 {
				ok = table.Resolve("q1")
			} else {
				ok = table.Reject("q1", errors.New("x"))
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d settlements succeeded, want 1", wins)
	}
}
