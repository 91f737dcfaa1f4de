package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/punchamoorthee/gashawk/internal/models"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
)

// Metrics
var (
	totalRequests uint64
	reports       uint64 // Report screens
	errorScreens  uint64 // Resolution/calculation/fallback screens
	otherScreens  uint64
	limited       uint64 // 429s
	failOther     uint64
)

// steps is one pass through the flow a user clicking around would make.
var steps = []models.InteractionRequest{
	{Initial: true},
	{PreviousAction: "learn"},
	{PreviousAction: "learn_2"},
	{PreviousAction: "calculate"},
	{PreviousAction: "example"},
	{PreviousAction: "reset"},
}

var badInputs = []string{"not-an-address", "0x1234", "hello world"}

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "flow", "Workload type: flow | invalid")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 30 * time.Second}

	for i := 0; time.Since(start) < duration; i++ {
		req := nextRequest(i)
		body, _ := json.Marshal(req)

		resp, err := client.Post(targetURL+"/api/v1/interactions", "application/json", bytes.NewBuffer(body))
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch resp.StatusCode {
		case http.StatusOK:
			var out models.InteractionResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				atomic.AddUint64(&failOther, 1)
				break
			}
			countScreen(out.Screen.State)
		case http.StatusTooManyRequests:
			atomic.AddUint64(&limited, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func nextRequest(i int) models.InteractionRequest {
	if workload == "invalid" {
		return models.InteractionRequest{
			PreviousAction: "check",
			InputText:      badInputs[rand.Intn(len(badInputs))],
		}
	}
	return steps[i%len(steps)]
}

func countScreen(state domain.State) {
	switch state {
	case domain.StateReport:
		atomic.AddUint64(&reports, 1)
	case domain.StateErrorResolution, domain.StateErrorCalculation, domain.StateFallback:
		atomic.AddUint64(&errorScreens, 1)
	default:
		atomic.AddUint64(&otherScreens, 1)
	}
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)

	results := map[string]interface{}{
		"workload":       workload,
		"duration_sec":   d.Seconds(),
		"total_requests": total,
		"throughput_rps": float64(total) / d.Seconds(),
		"report_screens": atomic.LoadUint64(&reports),
		"error_screens":  atomic.LoadUint64(&errorScreens),
		"other_screens":  atomic.LoadUint64(&otherScreens),
		"rate_limited":   atomic.LoadUint64(&limited),
		"errors":         atomic.LoadUint64(&failOther),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, err := os.Create(filename)
	if err != nil {
		log.Printf("could not write %s: %v", filename, err)
		return
	}
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
