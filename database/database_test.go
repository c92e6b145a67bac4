package database

import (
	"context"
	"errors"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	name, err := s.Save(ctx, "ni_unit.xsf", "xsf", []byte("CRYSTAL\n"), "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if name != "ni_unit.xsf" {
		t.Errorf("saved name = %s", name)
	}

	a, err := s.Get(ctx, "ni_unit.xsf")
	if err != nil {
		t.Fatal(err)
	}
	if string(a.Data) != "CRYSTAL\n" {
		t.Errorf("data = %q", a.Data)
	}
	if a.Format != "XSF" {
		t.Errorf("format = %s, want XSF", a.Format)
	}
	if a.SHA256 != "abc123" {
		t.Errorf("sha256 = %s", a.SHA256)
	}
	if a.ID == "" {
		t.Error("missing artifact id")
	}

	if _, err := s.Get(ctx, "missing.xsf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestSaveRejectsEmptyData(t *testing.T) {
	s := testStore(t)
	if _, err := s.Save(context.Background(), "empty.xsf", "xsf", nil, ""); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestUniqueFilenameAutoIncrements(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i, want := range []string{"twin.cif", "twin_1.cif", "twin_2.cif"} {
		name, err := s.Save(ctx, "twin.cif", "cif", []byte("data"), "")
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if name != want {
			t.Errorf("save %d name = %s, want %s", i, name, want)
		}
	}
}

func TestListDeleteClear(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	s.Save(ctx, "a.xsf", "xsf", []byte("a"), "")
	s.Save(ctx, "b.cif", "cif", []byte("b"), "")

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("list has %d entries, want 2", len(list))
	}

	if err := s.Delete(ctx, "a.xsf"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "a.xsf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	list, err = s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("store not empty after Clear: %d entries", len(list))
	}
}

func TestClean(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	s.Save(ctx, "good.xsf", "xsf", []byte("data"), "")
	// Force an empty row past Save's guard, as a crashed writer would leave
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO structures (id, filename, format, data, created_at) VALUES ('x', 'bad.xsf', 'XSF', '', 0)`); err != nil {
		t.Fatal(err)
	}

	n, err := s.Clean(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Clean removed %d rows, want 1", n)
	}
	if _, err := s.Get(ctx, "good.xsf"); err != nil {
		t.Errorf("Clean removed a good row: %v", err)
	}
}

func TestAttributes(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SetAttribute(ctx, "nope.xsf", "k", []byte{0x01}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetAttribute on missing artifact = %v, want ErrNotFound", err)
	}

	s.Save(ctx, "twin.xsf", "xsf", []byte("data"), "")
	if err := s.SetAttribute(ctx, "twin.xsf", "note", []byte{0x61}); err != nil {
		t.Fatal(err)
	}
	// Overwrite
	if err := s.SetAttribute(ctx, "twin.xsf", "note", []byte{0x62}); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetAttribute(ctx, "twin.xsf", "note")
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 1 || v[0] != 0x62 {
		t.Errorf("attribute value = %v", v)
	}

	all, err := s.Attributes(ctx, "twin.xsf")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("got %d attributes, want 1", len(all))
	}

	if _, err := s.GetAttribute(ctx, "twin.xsf", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAttribute(missing) = %v, want ErrNotFound", err)
	}

	// Delete removes attributes too
	if err := s.Delete(ctx, "twin.xsf"); err != nil {
		t.Fatal(err)
	}
	all, err = s.Attributes(ctx, "twin.xsf")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Error("attributes survived artifact deletion")
	}
}
