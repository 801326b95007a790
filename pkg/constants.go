package ksero

// Stage names, used as skiplist contexts and in debug output
const (
	ChunkStage = "chunk"
	FullStage  = "full"
)

// Hashing defaults
const (
	DefaultChunkSize  = 1024       // Prefix length hashed by the ChunkHasher
	DefaultHashBuffer = 128 * 1024 // Read buffer for the FullHasher
	DefaultSeed       = 0          // Seed for every hash instance
	DefaultAlgorithm  = "xxh64"
)

// Hash type constants
const (
	HashTypeXXH64  uint16 = 1 // XXH64
	HashTypeBlake3 uint16 = 2 // BLAKE3 truncated to 64 bits
	HashTypeFNV1a  uint16 = 3 // FNV-1a 64
)

// Symlink modes
const (
	SymlinkModeNone   = "none"   // Symlinks are neither traversed nor hashed
	SymlinkModeFollow = "follow" // Symlinks are resolved, directory loops are skipped
)

// Output formats
const (
	FormatNative = "native" // "<hash> <count> <bytes>" then tab-indented quoted paths
	FormatFdupes = "fdupes" // one path per line, blank line between groups
	FormatJSON   = "json"
)

// fallbackIOVMax is the conservative iovec limit per writev call, see golang/go#58623
const fallbackIOVMax = 1024
