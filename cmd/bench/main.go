// Command bench drives a Map[int64, int64] through a fixed insert/probe
// workload and reports timing and memory overhead, for quick manual
// comparisons across Mode values from the command line.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/go-swiss/simdhash"
)

func main() {
	mode := flag.String("mode", "fast", "capacity mode: fast|fastdivmod|savememoryfast|savememoryopt|savememorymax|resizeonlyempty")
	capacityHint := flag.Int("capacity", 1_000_000, "initial capacity hint")
	count := flag.Int("count", 1_000_000, "number of keys to insert")
	seed := flag.Int64("seed", 1, "PRNG seed for the key sequence")
	bFix := flag.Bool("bfix", false, "set the bFix flag instead of BMI1 auto-detection (informational; the trailing-zero routine is the same either way)")
	flag.Parse()

	m, err := parseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}

	opts := []simdhash.Option[int64]{
		simdhash.WithMode[int64](m),
		simdhash.WithCapacityHint[int64](*count),
		simdhash.WithBFix[int64](*bFix),
	}
	if *capacityHint > 0 {
		opts = append(opts, simdhash.WithCapacityHint[int64](*capacityHint))
	}

	r := rand.New(rand.NewSource(*seed))
	keys := make([]int64, *count)
	for i := range keys {
		keys[i] = r.Int63()
	}

	start := time.Now()
	table := simdhash.New[int64, int64](opts...)
	for _, k := range keys {
		table.AddUnique(k, k)
	}
	elapsed := time.Since(start)

	var hits int
	probeStart := time.Now()
	for _, k := range keys {
		if _, ok := table.TryGetValue(k); ok {
			hits++
		}
	}
	probeElapsed := time.Since(probeStart)

	runtime.GC()
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fmt.Printf("mode=%s count=%d capacity=%d load_factor=%.4f\n", m, table.Count(), table.Capacity(), table.LoadFactor())
	fmt.Printf("insert: %v (%.1f ns/op)\n", elapsed, float64(elapsed.Nanoseconds())/float64(*count))
	fmt.Printf("probe:  %v (%.1f ns/op), hits=%d\n", probeElapsed, float64(probeElapsed.Nanoseconds())/float64(*count), hits)
	fmt.Printf("heap:   %d bytes (%.2f bytes/entry)\n", memStats.HeapAlloc, float64(memStats.HeapAlloc)/float64(*count))
}

func parseMode(s string) (simdhash.Mode, error) {
	switch s {
	case "fast":
		return simdhash.Fast, nil
	case "fastdivmod":
		return simdhash.FastDivMod, nil
	case "savememoryfast":
		return simdhash.SaveMemoryFast, nil
	case "savememoryopt":
		return simdhash.SaveMemoryOpt, nil
	case "savememorymax":
		return simdhash.SaveMemoryMax, nil
	case "resizeonlyempty":
		return simdhash.ResizeOnlyEmpty, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}
