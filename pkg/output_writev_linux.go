//go:build linux

package ksero

import (
	"fmt"
	"os"
	"syscall"

	"github.com/google/vectorio"
)

// writeChunksFile writes the chunks with writev, at most fallbackIOVMax iovecs per
// call. A short write is finished with plain writes of the remainder.
func writeChunksFile(file *os.File, chunks [][]byte) error {
	bufs := make([][]byte, 0, len(chunks))
	for _, c := range chunks {
		if len(c) > 0 {
			bufs = append(bufs, c)
		}
	}

	for offset := 0; offset < len(bufs); offset += fallbackIOVMax {
		end := offset + fallbackIOVMax
		if end > len(bufs) {
			end = len(bufs)
		}
		batch := bufs[offset:end]

		iovecs := make([]syscall.Iovec, len(batch))
		want := 0
		for i, b := range batch {
			iovecs[i].Base = &b[0]
			iovecs[i].SetLen(len(b))
			want += len(b)
		}

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs)
		if err != nil {
			return fmt.Errorf("failed to write output with vectorio: %w", err)
		}
		if nw < want {
			DebugLog("output", "short writev: %d of %d bytes", nw, want)
			if err := writeRemainder(file, batch, nw); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeRemainder writes whatever of bufs lies beyond the first done bytes
func writeRemainder(file *os.File, bufs [][]byte, done int) error {
	for _, b := range bufs {
		if done >= len(b) {
			done -= len(b)
			continue
		}
		if _, err := file.Write(b[done:]); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		done = 0
	}
	return nil
}
