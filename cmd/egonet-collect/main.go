package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/graphio"
	"github.com/egonetlab/egonet/pkg/logging"
	"github.com/egonetlab/egonet/pkg/pubsub"
	"github.com/egonetlab/egonet/pkg/vkapi"
)

func main() {
	user := flag.Int64("user", 0, "VK user id to crawl (required)")
	tokens := flag.String("tokens", "", "Comma separated VK access tokens (or set EGONET_VK_TOKENS)")
	accountsPath := flag.String("accounts", "", "YAML accounts file listing VK tokens")
	output := flag.String("output", "friends.json", "Friend list output path")
	namesPath := flag.String("names", "names.csv", "Display name output path (empty to skip)")
	workers := flag.Int("workers", 6, "Concurrent profile fetches")
	interval := flag.Duration("interval", 350*time.Millisecond, "Minimum spacing between API requests")
	flag.Parse()

	if *user <= 0 {
		fmt.Fprintln(os.Stderr, "egonet-collect: -user is required")
		flag.Usage()
		os.Exit(2)
	}

	tokenList := splitTokens(*tokens)
	if len(tokenList) == 0 && *accountsPath != "" {
		accounts, err := vkapi.LoadAccounts(*accountsPath)
		if err != nil {
			log.Fatalf("Failed to load accounts: %v", err)
		}
		tokenList = accounts.Tokens
	}
	if len(tokenList) == 0 {
		tokenList = splitTokens(os.Getenv("EGONET_VK_TOKENS"))
	}
	if len(tokenList) == 0 {
		fmt.Fprintln(os.Stderr, "egonet-collect: no tokens given, use -tokens, -accounts or EGONET_VK_TOKENS")
		os.Exit(2)
	}

	logger := logging.DefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("🚀 egonet-collect - VK Ego Network Crawler")
	fmt.Printf("  Root user %d, %d tokens, %d workers\n", *user, len(tokenList), *workers)

	clientOpts := vkapi.DefaultClientOptions(tokenList...)
	clientOpts.RequestInterval = *interval
	clientOpts.Logger = logger
	client, err := vkapi.NewClient(clientOpts)
	if err != nil {
		log.Fatalf("Failed to create VK client: %v", err)
	}
	defer client.Close()

	// Progress events overwrite a single console line
	bus := pubsub.NewBus()
	sub := bus.Subscribe(vkapi.TopicProgress, 64)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for event := range sub.Events() {
			if p, ok := event.(vkapi.Progress); ok {
				fmt.Printf("\r  Fetching friend lists... %d/%d", p.Fetched, p.Total)
			}
		}
	}()

	crawler := vkapi.NewCrawler(client, vkapi.CrawlOptions{
		Workers: *workers,
		Bus:     bus,
		Logger:  logger,
	})

	start := time.Now()
	result, err := crawler.CrawlEgoNet(ctx, *user)
	bus.Close()
	<-drained
	fmt.Println()
	if err != nil {
		log.Fatalf("Crawl failed: %v", err)
	}

	fmt.Printf("\n✅ Crawled %d profiles in %s\n",
		len(result.Adjacency), time.Since(start).Round(time.Second))
	printSkips(result.Skipped)

	if err := graphio.SaveAdjacency(*output, result.Adjacency); err != nil {
		log.Fatalf("Failed to save friend lists: %v", err)
	}
	fmt.Printf("\n💾 Friend lists saved to %s\n", *output)

	if *namesPath != "" {
		if err := graphio.SaveNames(*namesPath, result.Names); err != nil {
			log.Fatalf("Failed to save names: %v", err)
		}
		fmt.Printf("💾 Display names saved to %s\n", *namesPath)
	}

	// The crawl is already on disk; Build only feeds the stats line.
	if model, err := graph.Build(result.Adjacency.Induced()); err != nil {
		logger.Warn("crawled graph will not build as-is", logging.Error(err))
	} else {
		fmt.Printf("📊 Ego network: %d vertices, %d edges\n", model.Size(), model.EdgeCount())
	}

	fmt.Println("\n✨ Done")
}

func splitTokens(s string) []string {
	var tokens []string
	for _, token := range strings.Split(s, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func printSkips(skipped map[int64]string) {
	if len(skipped) == 0 {
		return
	}

	byReason := make(map[string]int)
	for _, reason := range skipped {
		byReason[reason]++
	}
	fmt.Printf("⚠️  Skipped %d unreadable profiles:", len(skipped))
	for _, reason := range []string{"private", "deleted", "denied", "error"} {
		if n := byReason[reason]; n > 0 {
			fmt.Printf(" %s=%d", reason, n)
		}
	}
	fmt.Println()
}
