package prepared

import (
	"testing"
	"time"
)

func TestCreateAndQueryRoundTrip(t *testing.T) {
	tbl := NewTable(0)
	h := tbl.Create("SELECT * FROM t")
	got, err := tbl.Query(h)
	if err != nil {
		t.Fatal(err)
	}
	if got != "SELECT * FROM t" {
		t.Fatalf("got %q", got)
	}
}

func TestQueryUnknownHandleFails(t *testing.T) {
	tbl := NewTable(0)
	if _, err := tbl.Query(Handle("bogus")); err == nil {
		t.Fatal("expected an error for an unknown handle")
	}
}

func TestCloseRemovesHandle(t *testing.T) {
	tbl := NewTable(0)
	h := tbl.Create("SELECT 1")
	tbl.Close(h)
	if _, err := tbl.Query(h); err == nil {
		t.Fatal("expected Query after Close to fail")
	}
}

func TestExpiredHandleIsEvicted(t *testing.T) {
	tbl := NewTable(time.Minute)
	fakeNow := time.Now()
	tbl.now = func() time.Time { return fakeNow }

	h := tbl.Create("SELECT 1")
	fakeNow = fakeNow.Add(2 * time.Minute)

	if _, err := tbl.Query(h); err == nil {
		t.Fatal("expected an expired handle to fail Query")
	}
	if tbl.Len() != 0 {
		t.Fatalf("expected the expired handle to be evicted, Len()=%d", tbl.Len())
	}
}
