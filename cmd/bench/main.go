// Command bench runs a synthetic Zipfian workload against the cache and
// exposes a Prometheus /metrics endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nvkdev/rcache/cache"
	pmet "github.com/nvkdev/rcache/metrics/prom"
	"github.com/nvkdev/rcache/policy"
	"github.com/nvkdev/rcache/policy/arc"
	"github.com/nvkdev/rcache/policy/lfu"
	"github.com/nvkdev/rcache/policy/lru"
	"github.com/nvkdev/rcache/policy/lruk"
	"github.com/nvkdev/rcache/policy/twoq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// ---- Flags ----
	var (
		capacity   = flag.Int("cap", 100_000, "cache capacity (entries)")
		shards     = flag.Int("shards", 0, "number of shards (0=auto)")
		policyName = flag.String("policy", "lru", "eviction policy: lru | lruk | lfu | arc | 2q")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		arcThreshold = flag.Int("arc_threshold", 2, "arc: hit count at which an entry transforms from the LRU half into the LFU half")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "rcache", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	opt := cache.Options[string, string]{
		Capacity: *capacity,
		Shards:   *shards,
		Metrics:  metrics,
	}
	opt.Policy = selectPolicy(*policyName, *capacity, *arcThreshold)
	c := cache.New[string, string](opt)
	defer func() { _ = c.Close() }()

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Set(k, "v"+strconv.Itoa(i))
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, hits, misses, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < readPctVal {
					atomic.AddUint64(&reads, 1)
					if _, ok := c.Get(keyByZipf()); ok {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					k := keyByZipf()
					c.Set(k, "v"+strconv.Itoa(localR.Int()))
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("policy=%s cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		*policyName, *capacity, *shards, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)
	fmt.Printf("Len()=%d\n", c.Len())
}

// selectPolicy builds the requested policy's Factory. nil (lru's zero
// value is never returned) falls back to the package default in cache.New.
func selectPolicy(name string, capacity, arcThreshold int) policy.Factory[string, string] {
	switch name {
	case "lru":
		return lru.NewFactory[string, string]()
	case "lruk":
		historyCap := capacity / 2
		return lruk.NewFactory[string, string](historyCap, 2)
	case "lfu":
		return lfu.NewFactory[string, string](10)
	case "arc":
		return arc.NewFactory[string, string](arcThreshold)
	case "2q":
		return twoq.NewFactory[string, string]()
	default:
		log.Fatalf("unknown policy: %q (use lru, lruk, lfu, arc, or 2q)", name)
		return nil
	}
}
