// Benchmark tool for load testing the portal's read endpoints.
//
// Usage:
//
//	go run ./cmd/benchmark -url http://localhost:8080 -requests 5000
//	go run ./cmd/benchmark -csv searches.csv -workers 20
//
// This tool:
//  1. Builds a request mix: food searches (from a CSV of filters, if given),
//     the dashboard, and every report in the catalogue
//  2. Sends the mix round-robin from concurrent workers
//  3. Reports errors, average and tail latency per endpoint, and throughput
//
// The CSV needs a header row naming any of: location, provider, food_type.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foodwaste/portal/internal/domain"
)

// Target is one request in the mix.
type Target struct {
	Endpoint string // grouping key for results
	Path     string
}

// EndpointStats collects latencies for one endpoint.
type EndpointStats struct {
	mu        sync.Mutex
	latencies []time.Duration
	errors    int64
}

func (s *EndpointStats) record(d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errors++
		return
	}
	s.latencies = append(s.latencies, d)
}

// Metrics tracks benchmark results
type Metrics struct {
	TotalProcessed int64
	TotalErrors    int64

	mu        sync.Mutex
	endpoints map[string]*EndpointStats
}

func newMetrics() *Metrics {
	return &Metrics{endpoints: make(map[string]*EndpointStats)}
}

func (m *Metrics) stats(endpoint string) *EndpointStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.endpoints[endpoint]
	if !ok {
		s = &EndpointStats{}
		m.endpoints[endpoint] = s
	}
	return s
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Portal base URL")
	csvPath := flag.String("csv", "", "Optional CSV of food search filters")
	requests := flag.Int("requests", 1000, "Total requests to send")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	verbose := flag.Bool("verbose", false, "Print each failed request")
	flag.Parse()

	fmt.Println("  ==============================================")
	fmt.Println("           PORTAL BENCHMARK - read endpoints")
	fmt.Println("  ==============================================")
	fmt.Printf("\nPortal URL:  %s\n", *baseURL)
	fmt.Printf("Requests:    %d\n", *requests)
	fmt.Printf("Workers:     %d\n", *workers)
	fmt.Println()

	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: portal not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure the portal is running:")
		fmt.Println("  go run ./cmd/portal")
		os.Exit(1)
	}
	fmt.Println("OK portal is healthy")

	var filters []domain.FoodFilter
	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			fmt.Printf("ERROR: failed to open CSV: %v\n", err)
			os.Exit(1)
		}
		filters, err = readFilters(f)
		f.Close()
		if err != nil {
			fmt.Printf("ERROR: failed to read CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK loaded %d search filters\n", len(filters))
	}

	targets := buildTargets(filters)
	fmt.Printf("\nRunning %d requests over %d targets...\n", *requests, len(targets))

	startTime := time.Now()
	metrics := runBenchmark(targets, *baseURL, *requests, *workers, *verbose)
	duration := time.Since(startTime)

	printResults(metrics, duration)
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// readFilters reads search filters from CSV. Columns are matched by header
// name, case-insensitively; missing columns leave that criterion empty.
func readFilters(r io.Reader) ([]domain.FoodFilter, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	field := func(record []string, name string) string {
		i, ok := colIndex[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var filters []domain.FoodFilter
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // Skip malformed rows
		}

		filters = append(filters, domain.FoodFilter{
			Location:     field(record, "location"),
			ProviderName: field(record, "provider"),
			FoodType:     field(record, "food_type"),
		})
	}

	return filters, nil
}

// buildTargets returns the request mix. Without filters, one unfiltered
// search stands in for them.
func buildTargets(filters []domain.FoodFilter) []Target {
	if len(filters) == 0 {
		filters = []domain.FoodFilter{{}}
	}

	targets := make([]Target, 0, len(filters)+len(domain.Reports())+1)
	for _, f := range filters {
		q := url.Values{}
		if f.Location != "" {
			q.Set("location", f.Location)
		}
		if f.ProviderName != "" {
			q.Set("provider", f.ProviderName)
		}
		if f.FoodType != "" {
			q.Set("food_type", f.FoodType)
		}
		path := "/food"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
		targets = append(targets, Target{Endpoint: "/food", Path: path})
	}

	targets = append(targets, Target{Endpoint: "/dashboard", Path: "/dashboard"})
	for _, rep := range domain.Reports() {
		targets = append(targets, Target{Endpoint: "/reports/" + string(rep), Path: "/reports/" + string(rep)})
	}

	return targets
}

func runBenchmark(targets []Target, baseURL string, total, numWorkers int, verbose bool) *Metrics {
	metrics := newMetrics()

	work := make(chan Target, 100)
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 10 * time.Second}

			for target := range work {
				start := time.Now()
				err := fetch(client, baseURL+target.Path)
				elapsed := time.Since(start)

				atomic.AddInt64(&metrics.TotalProcessed, 1)
				if err != nil {
					atomic.AddInt64(&metrics.TotalErrors, 1)
					if verbose {
						fmt.Printf("ERROR: %s -> %v\n", target.Path, err)
					}
				}
				metrics.stats(target.Endpoint).record(elapsed, err)
			}
		}()
	}

	for i := 0; i < total; i++ {
		work <- targets[i%len(targets)]
	}
	close(work)

	wg.Wait()

	return metrics
}

func fetch(client *http.Client, u string) error {
	resp, err := client.Get(u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection is reused.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// percentile returns the p-th percentile (0-100) of sorted latencies.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p / 100)
	return sorted[idx]
}

func average(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println("\n  ==============================================")
	fmt.Println("                 BENCHMARK RESULTS")
	fmt.Println("  ==============================================")

	fmt.Printf("\nREQUESTS\n")
	fmt.Printf("   Total Processed:  %d\n", m.TotalProcessed)
	fmt.Printf("   Errors:           %d\n", m.TotalErrors)

	names := make([]string, 0, len(m.endpoints))
	for name := range m.endpoints {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Printf("\nLATENCY BY ENDPOINT\n")
	fmt.Printf("   %-40s %6s %6s %10s %10s %10s\n", "endpoint", "ok", "err", "avg", "p50", "p95")
	for _, name := range names {
		s := m.endpoints[name]
		lat := slices.Clone(s.latencies)
		slices.Sort(lat)
		fmt.Printf("   %-40s %6d %6d %10v %10v %10v\n",
			name,
			len(lat),
			s.errors,
			average(lat).Round(time.Microsecond),
			percentile(lat, 50).Round(time.Microsecond),
			percentile(lat, 95).Round(time.Microsecond),
		)
	}

	fmt.Printf("\nPERFORMANCE\n")
	fmt.Printf("   Total Duration:   %v\n", duration.Round(time.Millisecond))
	if m.TotalProcessed > 0 {
		fmt.Printf("   Throughput:       %.2f req/sec\n", float64(m.TotalProcessed)/duration.Seconds())
	}

	fmt.Println()
}
