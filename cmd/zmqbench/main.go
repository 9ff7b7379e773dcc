package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"TSDB/internal/domain"
	"TSDB/internal/platform/api/zmq"
	"github.com/go-zeromq/zmq4"
	json "github.com/json-iterator/go"
)

var errTimeout = errors.New("request timeout")

type requestResult struct {
	action   string
	duration time.Duration
	success  bool
	timedOut bool
}

type benchmarkStats struct {
	mu        sync.Mutex
	total     int64
	succeeded int64
	timeouts  int64
	failed    int64
	byAction  map[string]int64
	latencies []time.Duration
	start     time.Time
	end       time.Time
}

func newBenchmarkStats() *benchmarkStats {
	return &benchmarkStats{byAction: make(map[string]int64), start: time.Now()}
}

func (b *benchmarkStats) add(r requestResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.total++
	b.byAction[r.action]++
	switch {
	case r.timedOut:
		b.timeouts++
	case r.success:
		b.succeeded++
	default:
		b.failed++
	}
	b.latencies = append(b.latencies, r.duration)
}

func (b *benchmarkStats) snapshot() (total int64, rate float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.total == 0 {
		return 0, 0
	}
	return b.total, float64(b.succeeded) / float64(b.total) * 100
}

func (b *benchmarkStats) percentile(p float64) time.Duration {
	idx := int(float64(len(b.latencies)) * p)
	if idx >= len(b.latencies) {
		idx = len(b.latencies) - 1
	}
	return b.latencies[idx]
}

type zmqClient struct {
	socket  zmq4.Socket
	timeout time.Duration
}

func newZmqClient(ctx context.Context, address string, timeout time.Duration) (*zmqClient, error) {
	socket := zmq4.NewReq(ctx)
	if err := socket.Dial(address); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return &zmqClient{socket: socket, timeout: timeout}, nil
}

func (c *zmqClient) send(req zmq.ApiRequest) (zmq.ApiResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return zmq.ApiResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := c.socket.Send(zmq4.NewMsg(payload)); err != nil {
		return zmq.ApiResponse{}, fmt.Errorf("failed to send request: %w", err)
	}

	type reply struct {
		msg zmq4.Msg
		err error
	}
	replies := make(chan reply, 1)
	go func() {
		msg, err := c.socket.Recv()
		replies <- reply{msg, err}
	}()

	select {
	case r := <-replies:
		if r.err != nil {
			return zmq.ApiResponse{}, r.err
		}
		var resp zmq.ApiResponse
		if err := json.Unmarshal(r.msg.Bytes(), &resp); err != nil {
			return zmq.ApiResponse{}, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return resp, nil
	case <-time.After(c.timeout):
		return zmq.ApiResponse{}, errTimeout
	}
}

func (c *zmqClient) close() error {
	return c.socket.Close()
}

// randomRequest mixes inserts with range queries over one series per worker.
func randomRequest(worker int, seq int, insertRatio float64) zmq.ApiRequest {
	series := fmt.Sprintf("bench-%d", worker)
	if rand.Float64() < insertRatio {
		return zmq.ApiRequest{
			Action: zmq.INSERT,
			Record: &domain.Record{
				SensorName: "Sa_FanSpeed",
				Timestamp:  fmt.Sprintf("2024-08-28T12:%08d", seq),
				Value:      rand.Float64() * 1.2,
				SeriesID:   series,
			},
		}
	}
	return zmq.ApiRequest{
		Action:    zmq.QUERY,
		SeriesID:  series,
		StartTime: "2024-08-28T12:00000000",
		EndTime:   "2024-08-28T12:99999999",
	}
}

func worker(ctx context.Context, id int, address string, timeout time.Duration,
	insertRatio float64, stats *benchmarkStats, wg *sync.WaitGroup) {
	defer wg.Done()

	client, err := newZmqClient(ctx, address, timeout)
	if err != nil {
		log.Printf("worker %d: %v", id, err)
		return
	}
	defer client.close()

	for seq := 0; ctx.Err() == nil; seq++ {
		req := randomRequest(id, seq, insertRatio)

		start := time.Now()
		resp, err := client.send(req)
		stats.add(requestResult{
			action:   req.Action,
			duration: time.Since(start),
			success:  err == nil && resp.Success,
			timedOut: errors.Is(err, errTimeout),
		})
		if errors.Is(err, errTimeout) {
			// A REQ socket cannot send again before it has received.
			log.Printf("worker %d: timed out, stopping", id)
			return
		}
	}
}

func printResults(stats *benchmarkStats) {
	stats.mu.Lock()
	defer stats.mu.Unlock()

	fmt.Println("\n" + strings.Repeat("=", 60))
	elapsed := stats.end.Sub(stats.start)
	fmt.Printf("Duration:   %v\n", elapsed)
	fmt.Printf("Requests:   %d (ok %d, failed %d, timeouts %d)\n",
		stats.total, stats.succeeded, stats.failed, stats.timeouts)
	for action, n := range stats.byAction {
		fmt.Printf("  %-7s %d\n", action, n)
	}
	if elapsed > 0 {
		fmt.Printf("RPS:        %.2f\n", float64(stats.total)/elapsed.Seconds())
	}
	if len(stats.latencies) > 0 {
		sort.Slice(stats.latencies, func(i, j int) bool { return stats.latencies[i] < stats.latencies[j] })
		for _, p := range []float64{0.5, 0.9, 0.99} {
			fmt.Printf("p%-3.0f        %v\n", p*100, stats.percentile(p))
		}
	}
	fmt.Println(strings.Repeat("=", 60))
}

func main() {
	var (
		address     = flag.String("address", "tcp://localhost:5555", "ZMQ api address")
		workers     = flag.Int("workers", 4, "Number of concurrent clients")
		duration    = flag.Duration("duration", 10*time.Second, "Test duration")
		timeout     = flag.Duration("timeout", 5*time.Second, "Request timeout")
		insertRatio = flag.Float64("inserts", 0.2, "Share of INSERT requests")
		report      = flag.Duration("report", 2*time.Second, "Progress report interval")
	)
	flag.Parse()

	fmt.Printf("Benchmarking %s with %d workers for %v\n", *address, *workers, *duration)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	stats := newBenchmarkStats()
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go worker(ctx, i, *address, *timeout, *insertRatio, stats, &wg)
	}

	go func() {
		ticker := time.NewTicker(*report)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				total, rate := stats.snapshot()
				fmt.Printf("[%.0fs] requests %d, success %.1f%%\n",
					time.Since(stats.start).Seconds(), total, rate)
			}
		}
	}()

	wg.Wait()
	stats.end = time.Now()
	printResults(stats)
}
