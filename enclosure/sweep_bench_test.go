package enclosure

import (
	"strconv"
	"testing"
)

func BenchmarkSweep(b *testing.B) {
	s := newHornSystem(b)

	for _, n := range []int{64, 512, 4096} {
		freqs, err := LogFrequencies(10, 20000, n)
		if err != nil {
			b.Fatal(err)
		}

		for _, workers := range []int{1, 0} {
			b.Run("points="+strconv.Itoa(n)+"/workers="+strconv.Itoa(workers), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := Sweep(s, freqs, WithWorkers(workers)); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkAt(b *testing.B) {
	s := newHornSystem(b)
	cond := DefaultConditions()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := s.At(250, cond); err != nil {
			b.Fatal(err)
		}
	}
}
