package ticket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/synapseql/synapse/internal/planexec"
)

func emptySchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{{Name: "a", Type: arrow.PrimitiveTypes.Int32}}, nil)
}

func TestTakeRedeemsExactlyOnce(t *testing.T) {
	tr := New(time.Hour)
	defer tr.Close()

	tk, _ := tr.Put(emptySchema(), true, nil, nil, func(ctx context.Context) (planexec.RecordStream, error) {
		return nil, nil
	})

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, ok := tr.Take(tk)
			results[n] = ok
		}(i)
	}
	wg.Wait()

	hits := 0
	for _, ok := range results {
		if ok {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("expected exactly one redemption among concurrent Take calls, got %d", hits)
	}
	if tr.Pending() != 0 {
		t.Fatalf("expected 0 pending after redemption, got %d", tr.Pending())
	}
}

func TestTakeUnknownTicketFails(t *testing.T) {
	tr := New(time.Hour)
	defer tr.Close()

	_, ok := tr.Take(T("bogus"))
	if ok {
		t.Fatal("expected Take on an unknown ticket to fail")
	}
}

func TestTaskStreamConsumedOnce(t *testing.T) {
	opens := 0
	task := newTask(emptySchema(), true, nil, nil, func(ctx context.Context) (planexec.RecordStream, error) {
		opens++
		return nil, nil
	})

	if _, err := task.Stream(context.Background()); err != nil {
		t.Fatalf("first Stream: %v", err)
	}
	if _, err := task.Stream(context.Background()); err == nil {
		t.Fatal("expected second Stream call to fail")
	}
	if opens != 1 {
		t.Fatalf("expected open() called once, got %d", opens)
	}
}

func TestExpiredTicketIsNotRedeemable(t *testing.T) {
	tr := New(time.Minute)
	defer tr.Close()

	fakeNow := time.Now()
	tr.now = func() time.Time { return fakeNow }

	tk, _ := tr.Put(emptySchema(), true, nil, nil, func(ctx context.Context) (planexec.RecordStream, error) {
		return nil, nil
	})

	fakeNow = fakeNow.Add(2 * time.Minute)

	if _, ok := tr.Take(tk); ok {
		t.Fatal("expected an expired ticket to not be redeemable")
	}
}
