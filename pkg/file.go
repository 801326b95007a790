package ksero

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// HashPrefix hashes at most len(buf) leading bytes of a file.
// Files shorter than the buffer are hashed over what is available, including nothing.
func HashPrefix(filePath string, algorithm *HashAlgorithm, seed uint64, buf []byte) (uint64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("failed to read prefix of %s: %w", filePath, err)
	}

	hasher := algorithm.NewFunc(seed)
	hasher.Write(buf[:n])
	return hasher.Sum64(), nil
}

// HashStream hashes the whole file, feeding buf-sized chunks to a running hash state
func HashStream(filePath string, algorithm *HashAlgorithm, seed uint64, buf []byte) (uint64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	adviseSequential(file)
	defer adviseDone(file)

	hasher := algorithm.NewFunc(seed)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
	}

	return hasher.Sum64(), nil
}
