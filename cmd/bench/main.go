// Bench measures header map build, encode, decode and lookup performance.
//
// Usage:
//
//	go run ./cmd/bench --keys 100000 --dirs 64
//
// Flags:
//
//	--keys        Number of entries (default: 100,000)
//	--dirs        Number of distinct directories values are spread over (default: 64)
//	--queries     Number of lookups to time (default: 1,000,000)
//	--cpuprofile  Write a CPU profile of the build phase
package main

import (
	"fmt"
	mrand "math/rand/v2"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/spaolacci/murmur3"
	"github.com/spf13/pflag"

	"github.com/tamirms/headermap"
)

func main() {
	keysFlag := pflag.Int("keys", 100_000, "number of entries")
	dirsFlag := pflag.Int("dirs", 64, "number of distinct value directories")
	queriesFlag := pflag.Int("queries", 1_000_000, "number of lookups to time")
	cpuprofile := pflag.String("cpuprofile", "", "write cpu profile to file (build phase only)")
	pflag.Parse()

	numKeys := max(*keysFlag, 1)
	numDirs := max(*dirsFlag, 1)

	fmt.Println("Generating keys...")
	keys, values := generateEntries(numKeys, numDirs)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
	}

	fmt.Println("Building map...")
	buildStart := time.Now()
	builder := headermap.NewBuilder(headermap.WithCapacity(numKeys))
	for i := range keys {
		if !builder.Add(keys[i], values[i]) {
			fmt.Printf("Add rejected key %q\n", keys[i])
			return
		}
	}
	hmap, err := builder.Finish()
	buildDuration := time.Since(buildStart)

	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}
	if err != nil {
		fmt.Printf("Finish failed: %v\n", err)
		return
	}

	tmpDir, err := os.MkdirTemp("", "hmap-bench-")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()
	path := filepath.Join(tmpDir, "bench.hmap")

	fmt.Println("Writing map...")
	writeStart := time.Now()
	if _, err := headermap.WriteFile(path, hmap, 0o644); err != nil {
		fmt.Printf("WriteFile failed: %v\n", err)
		return
	}
	writeDuration := time.Since(writeStart)

	fmt.Println("Opening map...")
	openStart := time.Now()
	opened, err := headermap.Open(path)
	if err != nil {
		fmt.Printf("Open failed: %v\n", err)
		return
	}
	openDuration := time.Since(openStart)

	// Randomize query order and case so lookups exercise case folding and
	// touch buckets in no particular order.
	queryOrder := mrand.Perm(numKeys)
	queryKeys := make([]string, numKeys)
	for i, k := range queryOrder {
		queryKeys[i] = keys[k]
		if i%2 == 1 {
			queryKeys[i] = upper(keys[k])
		}
	}

	fmt.Println("Benchmarking lookups...")
	numQueries := *queriesFlag
	misses := 0
	queryStart := time.Now()
	for i := 0; i < numQueries; i++ {
		if _, ok := opened.Lookup(queryKeys[i%numKeys]); !ok {
			misses++
		}
	}
	queryDuration := time.Since(queryStart)
	if misses > 0 {
		fmt.Printf("Lookup missed %d keys\n", misses)
		return
	}
	avgLatency := float64(queryDuration.Nanoseconds()) / float64(numQueries)
	loadFactor := float64(hmap.NumEntries()) / float64(hmap.NumBuckets())

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦════════════════╗\n")
	fmt.Printf("║ Metric              ║ Value          ║\n")
	fmt.Printf("╠═════════════════════╬════════════════╣\n")
	fmt.Printf("║ Entries             ║ %10d     ║\n", hmap.NumEntries())
	fmt.Printf("║ Buckets             ║ %10d     ║\n", hmap.NumBuckets())
	fmt.Printf("║ Load factor         ║ %6.3f         ║\n", loadFactor)
	fmt.Printf("║ File size           ║ %6.2f MB      ║\n", float64(hmap.Size())/1_000_000)
	fmt.Printf("║ Build time          ║ %6.2f ms      ║\n", float64(buildDuration.Microseconds())/1000)
	fmt.Printf("║ Build throughput    ║ %6.2f M/sec   ║\n", float64(numKeys)/buildDuration.Seconds()/1_000_000)
	fmt.Printf("║ Write time          ║ %6.2f ms      ║\n", float64(writeDuration.Microseconds())/1000)
	fmt.Printf("║ Open time           ║ %6.2f ms      ║\n", float64(openDuration.Microseconds())/1000)
	fmt.Printf("║ Lookup latency      ║ %6.1f ns      ║\n", avgLatency)
	fmt.Printf("╚═════════════════════╩════════════════╝\n")
}

// generateEntries derives deterministic, include-like key names and values
// from murmur3 hashes of the entry index.
func generateEntries(numKeys, numDirs int) (keys, values []string) {
	keys = make([]string, numKeys)
	values = make([]string, numKeys)
	var buf [8]byte
	for i := range numKeys {
		for b := range buf {
			buf[b] = byte(uint64(i) >> (8 * b))
		}
		h1, h2 := murmur3.Sum128WithSeed(buf[:], 0x1234)
		module := fmt.Sprintf("Module%02x", h1%uint64(numDirs))
		name := fmt.Sprintf("Header%016x_%d.h", h2, i)
		keys[i] = module + "/" + name
		values[i] = fmt.Sprintf("/src/%s/include/%s", module, name)
	}
	return keys, values
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
