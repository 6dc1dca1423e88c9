package storage

import (
	"bytes"
	"testing"
)

func TestMemKV_RoundTrip(t *testing.T) {
	kv := NewMemKV()

	if _, ok, err := kv.Get(KeyInventory); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v, want absent", ok, err)
	}

	want := []byte(`[{"id":"1","nome":"pão","quantidade":10,"categoria":"Pães"}]`)
	if err := kv.Set(KeyInventory, want); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := kv.Get(KeyInventory)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("get = %s, want %s", got, want)
	}
}

func TestMemKV_ReturnsCopy(t *testing.T) {
	kv := NewMemKV()
	if err := kv.Set("k", []byte("abc")); err != nil {
		t.Fatal(err)
	}

	got, _, _ := kv.Get("k")
	got[0] = 'x'

	again, _, _ := kv.Get("k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through returned slice: %s", again)
	}
}

func TestPebbleKV_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	kv, err := NewPebbleKV(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, ok, err := kv.Get(KeyOrders); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v, want absent", ok, err)
	}

	want := []byte(`[{"id":"1","cliente":"Ana","produto":"bolo","quantidade":2,"entregue":false}]`)
	if err := kv.Set(KeyOrders, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen: the write must have survived.
	kv, err = NewPebbleKV(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()

	got, ok, err := kv.Get(KeyOrders)
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("get = %s, want %s", got, want)
	}
}
