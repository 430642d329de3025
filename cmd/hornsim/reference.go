package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"strconv"
	"strings"
)

// readReference reads an impedance curve exported by another simulator:
// one point per line as "frequency magnitude phase_degrees", separated by
// whitespace, commas or semicolons. Lines starting with '#', '*' or '"'
// and blank lines are skipped.
func readReference(path string) (freqs []float64, z []complex128, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return parseReference(f)
}

func parseReference(r io.Reader) (freqs []float64, z []complex128, err error) {
	sc := bufio.NewScanner(r)
	line := 0

	for sc.Scan() {
		line++

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.ContainsAny(text[:1], "#*\"") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ',' || r == ';'
		})
		if len(fields) < 3 {
			return nil, nil, fmt.Errorf("reference line %d: want frequency, magnitude and phase", line)
		}

		var v [3]float64
		for i := range v {
			if v[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
				return nil, nil, fmt.Errorf("reference line %d: %w", line, err)
			}
		}

		freqs = append(freqs, v[0])
		z = append(z, cmplx.Rect(v[1], v[2]*math.Pi/180))
	}

	if err := sc.Err(); err != nil {
		return nil, nil, err
	}

	return freqs, z, nil
}
