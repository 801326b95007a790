//go:build !linux

package ksero

import "os"

func adviseSequential(*os.File) {}

func adviseDone(*os.File) {}
