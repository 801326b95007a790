package ksero

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestGetHashAlgorithm(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		typeID   uint16
		hasError bool
	}{
		{"xxh64", "xxh64", HashTypeXXH64, false},
		{"XXHASH", "xxh64", HashTypeXXH64, false},
		{"blake3", "blake3", HashTypeBlake3, false},
		{"fnv1a", "fnv1a", HashTypeFNV1a, false},
		{"fnv", "fnv1a", HashTypeFNV1a, false},
		{"sha256", "", 0, true},
		{"", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			alg, err := GetHashAlgorithm(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if alg.Name != tt.name || alg.TypeID != tt.typeID {
				t.Errorf("Expected %s/%d, got %s/%d", tt.name, tt.typeID, alg.Name, alg.TypeID)
			}
			if HashTypeName(alg.TypeID) != tt.name {
				t.Errorf("HashTypeName(%d) = %s", alg.TypeID, HashTypeName(alg.TypeID))
			}
		})
	}

	if HashTypeName(99) != "unknown" {
		t.Error("Expected unknown for an unregistered type")
	}
}

func TestHashAlgorithms_DeterministicAndSeeded(t *testing.T) {
	data := []byte("the quick brown fox")

	for _, name := range SupportedAlgorithms {
		t.Run(name, func(t *testing.T) {
			alg, err := GetHashAlgorithm(name)
			if err != nil {
				t.Fatalf("GetHashAlgorithm failed: %v", err)
			}

			sum := func(seed uint64, chunks ...[]byte) uint64 {
				h := alg.NewFunc(seed)
				for _, c := range chunks {
					h.Write(c)
				}
				return h.Sum64()
			}

			if sum(0, data) != sum(0, data) {
				t.Error("Same input and seed gave different hashes")
			}
			if sum(0, data) != sum(0, data[:4], data[4:]) {
				t.Error("Split writes changed the hash")
			}
			if sum(0, data) == sum(1, data) {
				t.Error("Seed did not change the hash")
			}
			if sum(0, data) == sum(0, []byte("the quick brown fix")) {
				t.Error("Different inputs collided")
			}
		})
	}
}

func TestXXH64MatchesReference(t *testing.T) {
	alg, _ := GetHashAlgorithm("xxh64")
	h := alg.NewFunc(0)
	h.Write([]byte("hello"))
	if h.Sum64() != xxhash.Sum64String("hello") {
		t.Error("Seed 0 xxh64 should match the unseeded reference")
	}
}

func TestHashPrefix(t *testing.T) {
	dir := t.TempDir()
	alg, _ := GetHashAlgorithm(DefaultAlgorithm)

	short := filepath.Join(dir, "short")
	longA := filepath.Join(dir, "longA")
	longB := filepath.Join(dir, "longB")
	writeFiles(t, dir, map[string]string{
		"short": "0123456789",
		"longA": strings.Repeat("0123456789", 10) + "A",
		"longB": strings.Repeat("0123456789", 10) + "B",
	})

	hash := func(path string, n int) uint64 {
		t.Helper()
		sum, err := HashPrefix(path, alg, 0, make([]byte, n))
		if err != nil {
			t.Fatalf("HashPrefix(%s) failed: %v", path, err)
		}
		return sum
	}

	if hash(longA, 100) != hash(longB, 100) {
		t.Error("Files with the same first 100 bytes should share a 100-byte prefix hash")
	}
	if hash(longA, 101) == hash(longB, 101) {
		t.Error("Files differing at byte 101 should not share a 101-byte prefix hash")
	}
	if hash(short, 64) == hash(longA, 64) {
		t.Error("A short file should only hash the bytes it has")
	}
	if hash(short, 10) != hash(longA, 10) {
		t.Error("Equal 10-byte prefixes should hash equally")
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatalf("Failed to write empty file: %v", err)
	}
	if _, err := HashPrefix(empty, alg, 0, make([]byte, 16)); err != nil {
		t.Errorf("Zero-byte read should not be an error: %v", err)
	}

	if _, err := HashPrefix(filepath.Join(dir, "missing"), alg, 0, make([]byte, 16)); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestHashStream_IndependentOfBufferSize(t *testing.T) {
	dir := t.TempDir()
	content := strings.Repeat("streaming content ", 1000)
	writeFiles(t, dir, map[string]string{"f": content})
	path := filepath.Join(dir, "f")

	for _, name := range SupportedAlgorithms {
		alg, _ := GetHashAlgorithm(name)

		reference := alg.NewFunc(7)
		reference.Write([]byte(content))
		want := reference.Sum64()

		for _, size := range []int{1, 7, 4096, 1 << 20} {
			got, err := HashStream(path, alg, 7, make([]byte, size))
			if err != nil {
				t.Fatalf("%s: HashStream failed: %v", name, err)
			}
			if got != want {
				t.Errorf("%s: buffer size %d gave %x, expected %x", name, size, got, want)
			}
		}
	}
}
