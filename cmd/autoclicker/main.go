// Package main - autoclicker
// Load generator: a swarm of renderers spamming bakery actions over the
// websocket bridge.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/network"
)

// Config for the autoclicker
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
	OutFile        string
}

// Stats tracks performance metrics
type Stats struct {
	MessagesSent     int64
	MessagesReceived int64
	Accepted         int64
	Rejected         int64
	Errors           int64
	Latencies        []time.Duration // action to result round trips
	mu               sync.Mutex
}

func (s *Stats) addLatency(d time.Duration) {
	s.mu.Lock()
	s.Latencies = append(s.Latencies, d)
	s.mu.Unlock()
}

// weightedAction pairs an action type with its share of the traffic.
type weightedAction struct {
	action network.ActionType
	weight int
}

var actionMix = []weightedAction{
	{network.ActionClick, 80},
	{network.ActionBuyBuilding, 12},
	{network.ActionBuyUpgrade, 5},
	{network.ActionClickGolden, 3},
}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	numClients := flag.Int("clients", 4, "Number of concurrent renderers")
	interval := flag.Duration("interval", 50*time.Millisecond, "Action interval per client")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	out := flag.String("out", "autoclicker_results.json", "Where to write the JSON results")
	flag.Parse()

	config := Config{
		ServerURL:      *serverURL,
		NumClients:     *numClients,
		ActionInterval: *interval,
		TestDuration:   *duration,
		OutFile:        *out,
	}

	fmt.Println("=========================================")
	fmt.Println("AUTOCLICKER - Bakery load generator")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", config.ServerURL)
	fmt.Printf("Clients: %d\n", config.NumClients)
	fmt.Printf("Interval: %v\n", config.ActionInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Println("=========================================")

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	stats := runLoad(ctx, config)
	printResults(stats, config)
}

func runLoad(ctx context.Context, config Config) *Stats {
	stats := &Stats{Latencies: make([]time.Duration, 0, 10000)}
	var wg sync.WaitGroup

	fmt.Println("\nStarting clients...")
	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)
		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}
	fmt.Printf("All %d clients started\n\n", config.NumClients)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Printf("Progress: Sent=%d Recv=%d Accepted=%d Errors=%d\n",
					atomic.LoadInt64(&stats.MessagesSent), atomic.LoadInt64(&stats.MessagesReceived),
					atomic.LoadInt64(&stats.Accepted), atomic.LoadInt64(&stats.Errors))
			}
		}
	}()

	wg.Wait()
	return stats
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		log.Printf("Client %d: Connection failed: %v", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	var pending sync.Map // action id -> send time
	go func() {
		for {
			var msg struct {
				Type    network.MessageType  `json:"type"`
				Payload network.ActionResult `json:"payload"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			atomic.AddInt64(&stats.MessagesReceived, 1)
			switch msg.Type {
			case network.MsgTypeResult:
				if msg.Payload.OK {
					atomic.AddInt64(&stats.Accepted, 1)
				} else {
					atomic.AddInt64(&stats.Rejected, 1)
				}
			case network.MsgTypeError:
				atomic.AddInt64(&stats.Errors, 1)
			default:
				// state and event frames carry other payloads
				continue
			}
			if sent, ok := pending.LoadAndDelete(msg.Payload.ID); ok {
				stats.addLatency(time.Since(sent.(time.Time)))
			}
		}
	}()

	rng := rand.New(rand.NewPCG(uint64(clientID), uint64(time.Now().UnixNano())))
	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			action := generateRandomAction(rng)
			pending.Store(action.ID, time.Now())
			if err := conn.WriteJSON(action); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}
			atomic.AddInt64(&stats.MessagesSent, 1)
		}
	}
}

func generateRandomAction(rng *rand.Rand) network.PlayerAction {
	action := network.PlayerAction{Type: pickAction(rng), ID: uuid.NewString()}

	var payload network.ActionPayload
	cat := catalog.Default()
	switch action.Type {
	case network.ActionBuyBuilding:
		b := cat.Buildings[rng.IntN(min(3, len(cat.Buildings)))]
		payload.BuildingID = string(b.ID)
		payload.Quantity = []int{1, 10}[rng.IntN(2)]
	case network.ActionBuyUpgrade:
		payload.UpgradeID = string(cat.Upgrades[rng.IntN(len(cat.Upgrades))].ID)
	default:
		return action
	}
	action.Payload, _ = json.Marshal(payload)
	return action
}

func pickAction(rng *rand.Rand) network.ActionType {
	total := 0
	for _, w := range actionMix {
		total += w.weight
	}
	n := rng.IntN(total)
	for _, w := range actionMix {
		if n < w.weight {
			return w.action
		}
		n -= w.weight
	}
	return network.ActionClick
}

func printResults(stats *Stats, config Config) {
	fmt.Println("\n=========================================")
	fmt.Println("AUTOCLICKER RESULTS")
	fmt.Println("=========================================")

	sent := atomic.LoadInt64(&stats.MessagesSent)
	recv := atomic.LoadInt64(&stats.MessagesReceived)
	accepted := atomic.LoadInt64(&stats.Accepted)
	rejected := atomic.LoadInt64(&stats.Rejected)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Printf("Actions Sent:      %d\n", sent)
	fmt.Printf("Frames Received:   %d\n", recv)
	fmt.Printf("Accepted:          %d\n", accepted)
	fmt.Printf("Rejected:          %d\n", rejected)
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(sent+1)*100)

	throughput := float64(sent) / config.TestDuration.Seconds()
	fmt.Printf("Throughput:        %.2f actions/sec\n", throughput)

	stats.mu.Lock()
	latencies := slices.Clone(stats.Latencies)
	stats.mu.Unlock()
	var p50, p99 time.Duration
	if len(latencies) > 0 {
		slices.Sort(latencies)
		p50 = latencies[len(latencies)/2]
		p99 = latencies[len(latencies)*99/100]
		fmt.Printf("\nRound trip:\n")
		fmt.Printf("  Min: %v\n", latencies[0])
		fmt.Printf("  P50: %v\n", p50)
		fmt.Printf("  P99: %v\n", p99)
		fmt.Printf("  Max: %v\n", latencies[len(latencies)-1])
	}

	fmt.Println("\n-----------------------------------------")
	switch rate := float64(errs) / float64(sent+1); {
	case errs == 0:
		fmt.Println("PASSED: the bakery kept up")
	case rate < 0.05:
		fmt.Println("WARNING: some actions errored or were rate limited")
	default:
		fmt.Println("FAILED: high error rate")
	}
	fmt.Println("=========================================")

	results := map[string]any{
		"actions_sent":       sent,
		"frames_received":    recv,
		"accepted":           accepted,
		"rejected":           rejected,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"p50_ms":             p50.Seconds() * 1000,
		"p99_ms":             p99.Seconds() * 1000,
		"config": map[string]any{
			"clients":  config.NumClients,
			"interval": config.ActionInterval.String(),
			"duration": config.TestDuration.String(),
		},
	}
	jsonData, _ := json.MarshalIndent(results, "", "  ")
	if err := os.WriteFile(config.OutFile, jsonData, 0644); err != nil {
		log.Printf("Failed to write results: %v", err)
		return
	}
	fmt.Printf("\nResults saved to %s\n", config.OutFile)
}
