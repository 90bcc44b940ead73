package main

import "testing"

func TestReadVarintSingleByte(t *testing.T) {
	value, n := readVarint([]byte{0x05}, 0)
	if value != 5 || n != 1 {
		t.Fatalf("got (%d, %d), want (5, 1)", value, n)
	}
}

func TestReadVarintMultiByte(t *testing.T) {
	// 0x81 0x00 -> continuation bit set then terminator: (1<<7)|0 = 128
	value, n := readVarint([]byte{0x81, 0x00}, 0)
	if value != 128 || n != 2 {
		t.Fatalf("got (%d, %d), want (128, 2)", value, n)
	}
}

func TestReadVarintNineBytes(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	value, n := readVarint(data, 0)
	if n != 9 {
		t.Fatalf("expected 9 bytes consumed, got %d", n)
	}
	// Bytes 1-8 contribute 7 bits each (all set), byte 9 contributes all 8 bits.
	want := uint64(0)
	for i := 0; i < 8; i++ {
		want = (want << 7) | 0x7F
	}
	want = (want << 8) | 0xFF
	if value != want {
		t.Fatalf("got %d, want %d", value, want)
	}
}

func TestReadVarintTruncated(t *testing.T) {
	// High bit set but buffer ends before a terminating byte.
	_, n := readVarint([]byte{0x81}, 0)
	if n != 0 {
		t.Fatalf("expected truncated varint to report 0 bytes consumed, got %d", n)
	}
}

func TestReadVarintAtOffset(t *testing.T) {
	data := []byte{0xFF, 0x02}
	value, n := readVarint(data, 1)
	if value != 2 || n != 1 {
		t.Fatalf("got (%d, %d), want (2, 1)", value, n)
	}
}

func TestVarintReaderSequence(t *testing.T) {
	// Two single-byte varints back to back: 3, then 10.
	vr := NewVarintReader([]byte{0x03, 0x0A})
	first, err := vr.ReadVarint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 3 {
		t.Fatalf("got %d, want 3", first)
	}
	second, err := vr.ReadVarint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != 10 {
		t.Fatalf("got %d, want 10", second)
	}
	if vr.Offset() != 2 {
		t.Fatalf("got offset %d, want 2", vr.Offset())
	}
}

func TestVarintReaderCorrupt(t *testing.T) {
	vr := NewVarintReader([]byte{0x80})
	if _, err := vr.ReadVarint(); err == nil {
		t.Fatal("expected error for unterminated varint")
	}
}
