package simd

import (
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// Describe reports the CPU and the kernel in use, for logs.
func Describe() string {
	var sb strings.Builder
	sb.WriteString(Active().Name)
	if brand := cpuid.CPU.BrandName; brand != "" {
		sb.WriteString(" on ")
		sb.WriteString(brand)
	}
	if feats := cpuid.CPU.FeatureSet(); len(feats) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(feats, " "))
		sb.WriteString("]")
	}
	return sb.String()
}
