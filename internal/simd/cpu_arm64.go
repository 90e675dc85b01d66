//go:build arm64

package simd

import "golang.org/x/sys/cpu"

func detect() string {
	if cpu.ARM64.HasASIMD {
		return "w128"
	}
	return "scalar"
}
