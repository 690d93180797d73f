package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func newSQLiteAdapter(t *testing.T) Adapter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boss_data.db")
	a, err := openSQLite(context.Background(), path, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestSQLiteRoundTrip(t *testing.T) {
	a := newSQLiteAdapter(t)
	ctx := context.Background()

	want := sampleDoc()
	if err := a.SaveAll(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := a.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestSQLiteSaveReplacesSnapshot(t *testing.T) {
	a := newSQLiteAdapter(t)
	ctx := context.Background()

	if err := a.SaveAll(ctx, sampleDoc()); err != nil {
		t.Fatalf("save: %v", err)
	}

	smaller := Document{
		"100": {
			"Venatus": Record{
				KilledAt:     "2025-05-06T10:00:00+09:00",
				SpawnsAt:     "2025-05-06T14:00:00+09:00",
				NotifyTarget: 100,
			},
		},
	}
	if err := a.SaveAll(ctx, smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := a.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, smaller) {
		t.Fatalf("old snapshot rows survived:\nwant %+v\ngot  %+v", smaller, got)
	}
}

func TestSQLiteEmptyDatabase(t *testing.T) {
	a := newSQLiteAdapter(t)

	got, err := a.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty document, got %+v", got)
	}
}
