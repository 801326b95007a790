package ksero

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"lukechampine.com/blake3"
)

// HashAlgorithm represents a 64-bit content hash configuration.
// NewFunc must return a fresh instance for every file; instances are never shared
// between workers.
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	NewFunc func(seed uint64) hash.Hash64
}

// SupportedAlgorithms lists the algorithm names accepted by GetHashAlgorithm
var SupportedAlgorithms = []string{"xxh64", "blake3", "fnv1a"}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "xxh64", "xxhash":
		return &HashAlgorithm{
			Name:    "xxh64",
			TypeID:  HashTypeXXH64,
			NewFunc: func(seed uint64) hash.Hash64 { return xxhash.NewWithSeed(seed) },
		}, nil
	case "blake3":
		return &HashAlgorithm{
			Name:    "blake3",
			TypeID:  HashTypeBlake3,
			NewFunc: newBlake3,
		}, nil
	case "fnv1a", "fnv":
		return &HashAlgorithm{
			Name:    "fnv1a",
			TypeID:  HashTypeFNV1a,
			NewFunc: newFNV1a,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	switch typeID {
	case HashTypeXXH64:
		return GetHashAlgorithm("xxh64")
	case HashTypeBlake3:
		return GetHashAlgorithm("blake3")
	case HashTypeFNV1a:
		return GetHashAlgorithm("fnv1a")
	default:
		return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
	}
}

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	if alg, err := GetHashAlgorithmByType(hashType); err == nil {
		return alg.Name
	}
	return "unknown"
}

// blake3Hash64 exposes the first 8 bytes of an 8-byte BLAKE3 digest as a uint64
type blake3Hash64 struct {
	*blake3.Hasher
}

func (b blake3Hash64) Sum64() uint64 {
	return binary.LittleEndian.Uint64(b.Sum(nil))
}

// newBlake3 uses keyed mode when a seed is set; the key is the seed in little-endian
// order followed by zero bytes.
func newBlake3(seed uint64) hash.Hash64 {
	var key []byte
	if seed != 0 {
		key = make([]byte, 32)
		binary.LittleEndian.PutUint64(key, seed)
	}
	return blake3Hash64{blake3.New(8, key)}
}

// newFNV1a prefixes the stream with the seed bytes when a seed is set
func newFNV1a(seed uint64) hash.Hash64 {
	h := fnv.New64a()
	if seed != 0 {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], seed)
		h.Write(b[:])
	}
	return h
}
