// Command bargainsim runs buyer/seller price negotiations between LLM or
// scripted agents and scores the outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"

	"github.com/talgya/bargain-sim/internal/agents"
	"github.com/talgya/bargain-sim/internal/config"
	"github.com/talgya/bargain-sim/internal/dynamics"
	"github.com/talgya/bargain-sim/internal/engine"
	"github.com/talgya/bargain-sim/internal/evaluation"
	"github.com/talgya/bargain-sim/internal/negotiation"
	"github.com/talgya/bargain-sim/internal/persistence"
	"github.com/talgya/bargain-sim/internal/scenario"
)

type runResult struct {
	id    string
	state negotiation.State
	m     evaluation.Metrics
	err   error
}

func main() {
	scenarioName := flag.String("scenario", "", "scenario name from the product catalog (required)")
	buyerName := flag.String("buyer", "", "buyer profile name (required)")
	sellerName := flag.String("seller", "", "seller profile name (required)")
	maxRounds := flag.Int("max-rounds", 10, "maximum number of negotiation rounds")
	seed := flag.Int64("seed", 42, "base seed for the seller dynamics model")
	runs := flag.Int("runs", 1, "number of independent negotiations to run")
	parallel := flag.Int("parallel", 1, "worker count for batch runs")
	offline := flag.Bool("offline", false, "use scripted agents instead of LLM agents")
	inference := flag.Bool("inference", false, "let the buyer infer seller private values")
	sellerStatic := flag.String("seller-static", "", "comma-separated seller attributes held static (emotion,discount)")
	buyerStatic := flag.String("buyer-static", "emotion,discount", "comma-separated buyer attributes held static")
	noSave := flag.Bool("no-save", false, "skip writing transcripts to the database")
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile for the batch")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if *scenarioName == "" || *buyerName == "" || *sellerName == "" {
		slog.Error("missing required flags: -scenario, -buyer, -seller")
		os.Exit(1)
	}

	if *cpuProfile {
		defer profile.Start(profile.ProfilePath("data")).Stop()
	}

	// ── Catalogs ─────────────────────────────────────────────────────
	catalog, err := scenario.Load(cfg.ScenariosPath, cfg.PersonasPath)
	if err != nil {
		slog.Error("failed to load catalogs", "error", err)
		os.Exit(1)
	}

	product, err := catalog.Product(*scenarioName)
	if err != nil {
		slog.Error("unknown scenario", "error", err)
		os.Exit(1)
	}
	buyer, err := catalog.Persona(*buyerName)
	if err != nil {
		slog.Error("unknown buyer profile", "error", err)
		os.Exit(1)
	}
	seller, err := catalog.Persona(*sellerName)
	if err != nil {
		slog.Error("unknown seller profile", "error", err)
		os.Exit(1)
	}

	opts := negotiation.Options{
		MaxRounds:    *maxRounds,
		SellerStatic: splitAttrs(*sellerStatic),
		BuyerStatic:  splitAttrs(*buyerStatic),
		Inference:    *inference,
	}

	// ── LLM client (shared across runs; agents themselves are per-run) ─
	var llm *agents.Client
	if !*offline {
		llm, err = agents.NewClient(agents.ClientConfig{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Temperature:       cfg.Temperature,
			RequestsPerMinute: cfg.RPM,
		})
		if err != nil {
			slog.Error("LLM client unavailable, pass -offline for scripted agents", "error", err)
			os.Exit(1)
		}
	}

	// ── Database ─────────────────────────────────────────────────────
	var db *persistence.DB
	if !*noSave {
		os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	// ── Run negotiations ─────────────────────────────────────────────
	// Runs are independent: each owns its state, agents, and seeded
	// dynamics model, so batches parallelize without any locking.
	results := make([]runResult, *runs)
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := *parallel
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runOne(llm, *offline, product, *buyerName, buyer, *sellerName, seller, opts, *seed+int64(i))
			}
		}()
	}
	for i := 0; i < *runs; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// ── Report & save ────────────────────────────────────────────────
	failures := 0
	for i, res := range results {
		if res.err != nil {
			slog.Error("run failed", "run", i, "error", res.err)
			failures++
			continue
		}
		if db != nil {
			id, err := db.SaveRun(*scenarioName, res.state, res.m)
			if err != nil {
				slog.Error("failed to save run", "run", i, "error", err)
			} else {
				results[i].id = id
			}
		}
	}

	if *runs == 1 && results[0].err == nil {
		printReport(*scenarioName, *buyerName, *sellerName, results[0])
	} else {
		printSummary(results)
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// runOne plays a single negotiation from scratch.
func runOne(llm *agents.Client, offline bool, product scenario.Product, buyerName string, buyer scenario.Persona, sellerName string, seller scenario.Persona, opts negotiation.Options, seed int64) runResult {
	st, err := negotiation.NewState(product, buyerName, buyer, sellerName, seller, opts)
	if err != nil {
		return runResult{err: err}
	}

	var sellerAgent, buyerAgent engine.Agent
	if offline {
		sellerAgent = agents.NewScriptedSeller()
		buyerAgent = agents.NewScriptedBuyer()
	} else {
		dyn := dynamics.NewSeededModel(seed)
		sellerAgent = agents.NewSeller(llm, dyn)
		buyerAgent = agents.NewBuyer(llm)
	}

	runner, err := engine.NewRunner(sellerAgent, buyerAgent)
	if err != nil {
		return runResult{err: err}
	}

	final, err := runner.Run(context.Background(), st)
	if err != nil {
		return runResult{err: err}
	}

	m, err := evaluation.Evaluate(final)
	if err != nil {
		return runResult{err: err}
	}
	return runResult{state: final, m: m}
}

func printReport(scenarioName, buyerName, sellerName string, res runResult) {
	fmt.Println("\n=== Bargaining finished ===")
	fmt.Printf("Scenario: %s\n", scenarioName)
	fmt.Printf("Buyer: %s | Seller: %s\n", buyerName, sellerName)

	if res.state.AgreedPrice != nil {
		fmt.Printf("Final agreed price: $%s\n", humanize.CommafWithDigits(*res.state.AgreedPrice, 2))
	} else if res.state.Breakdown {
		fmt.Println("Negotiation broke down — no deal.")
	} else {
		fmt.Println("No agreement within the round limit.")
	}

	fmt.Println("\nMetrics:")
	fmt.Printf("Rounds taken: %d\n", res.m.Turns)
	fmt.Printf("Agreement reached: %v\n", res.m.Success)
	fmt.Printf("Buyer savings: %.1f%%\n", res.m.BuyerSavingsPct*100)
	if res.m.Success {
		fmt.Printf("Rubinstein equilibrium price: $%s\n", humanize.CommafWithDigits(res.m.EquilibriumPrice, 2))
		fmt.Printf("Agreed price vs equilibrium: %+.1f%%\n", res.m.AboveEqPct*100)
	}

	fmt.Println("\nConversation:")
	for _, e := range res.state.History {
		if e.Price != nil {
			fmt.Printf("[%s/%s $%s] %s\n", e.Role, e.Action, humanize.CommafWithDigits(*e.Price, 2), e.Message)
		} else {
			fmt.Printf("[%s/%s] %s\n", e.Role, e.Action, e.Message)
		}
	}

	if res.id != "" {
		fmt.Printf("\nTranscript saved as run %s\n", res.id)
	}
}

func printSummary(results []runResult) {
	agreed := 0
	var totalSavings, totalRounds float64
	completed := 0
	for _, res := range results {
		if res.err != nil {
			continue
		}
		completed++
		totalRounds += float64(res.m.Turns)
		if res.m.Success {
			agreed++
			totalSavings += res.m.BuyerSavingsPct
		}
	}

	fmt.Println("\n=== Batch summary ===")
	fmt.Printf("Completed runs: %d/%d\n", completed, len(results))
	if completed == 0 {
		return
	}
	fmt.Printf("Agreements: %d (%.0f%%)\n", agreed, 100*float64(agreed)/float64(completed))
	fmt.Printf("Avg rounds: %.1f\n", totalRounds/float64(completed))
	if agreed > 0 {
		fmt.Printf("Avg buyer savings (agreed runs): %.1f%%\n", 100*totalSavings/float64(agreed))
	}
}

func splitAttrs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
