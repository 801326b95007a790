//go:build !linux

package ksero

import (
	"fmt"
	"os"
)

func writeChunksFile(file *os.File, chunks [][]byte) error {
	for _, c := range chunks {
		if _, err := file.Write(c); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
