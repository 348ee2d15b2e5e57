package model

import "github.com/klauspost/cpuid/v2"

// dot is the inner-product kernel used on the frozen forward path. The
// unroll width is picked once at startup from the CPU feature set so the
// compiler's vectorizer has lanes to fill on AVX2/FMA machines.
var dot func(a, b []float64) float64

func init() {
	if cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3) {
		dot = dotUnroll8
	} else {
		dot = dotUnroll4
	}
}

func dotUnroll8(a, b []float64) float64 {
	var s0, s1, s2, s3, s4, s5, s6, s7 float64
	n := len(a) &^ 7
	for i := 0; i < n; i += 8 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
		s4 += a[i+4] * b[i+4]
		s5 += a[i+5] * b[i+5]
		s6 += a[i+6] * b[i+6]
		s7 += a[i+7] * b[i+7]
	}
	s := s0 + s1 + s2 + s3 + s4 + s5 + s6 + s7
	for i := n; i < len(a); i++ {
		s += a[i] * b[i]
	}
	return s
}

func dotUnroll4(a, b []float64) float64 {
	var s0, s1, s2, s3 float64
	n := len(a) &^ 3
	for i := 0; i < n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	s := s0 + s1 + s2 + s3
	for i := n; i < len(a); i++ {
		s += a[i] * b[i]
	}
	return s
}
