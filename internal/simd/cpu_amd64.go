//go:build amd64

package simd

import (
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

func detect() string {
	switch {
	case cpuid.CPU.Has(cpuid.AVX512BW):
		return "w512"
	case cpu.X86.HasAVX2:
		return "w256"
	case cpu.X86.HasSSE42 || cpu.X86.HasAVX:
		return "w128"
	}
	return "scalar"
}
