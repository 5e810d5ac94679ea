package band_test

import (
	"fmt"

	"github.com/cwbudde/algo-spectral/spectral/band"
)

func ExampleResolve() {
	bands, err := band.Resolve(band.DefaultBands(band.IntervalDaily), band.IntervalDaily)
	if err != nil {
		panic(err)
	}
	for _, b := range bands {
		fmt.Println(b)
	}
	// Output:
	// short: period [5, 42] samples, cutoff (0.023810, 0.500000]
	// medium: period [42, 504] samples, cutoff (0.001984, 0.023810]
	// cycle: period [504, 1008] samples, cutoff (0.000992, 0.001984]
	// trend: period 1008+ samples, cutoff (0.000000, 0.000992]
}
