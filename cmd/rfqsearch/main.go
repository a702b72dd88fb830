// Command rfqsearch searches the auctions of the stored session interactively.
// Each line read from stdin replaces the query; results print once typing pauses.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"procurement/internal/api"
	"procurement/internal/app"
	"procurement/internal/auction"
	"procurement/internal/comparison"
	"procurement/internal/config"
	"procurement/internal/logger"
	"procurement/internal/models"
	"procurement/internal/search"
)

func main() {
	sortKey := flag.String("sort", string(search.CreatedDesc), "sort key: created_at, -created_at, bid_count, -bid_count")
	flag.Parse()
	os.Exit(run(*sortKey))
}

// run returns the process exit code so deferred cleanup happens before exit.
func run(sortKey string) int {

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log := logger.New(cfg.LogLevel)

	key := search.SortKey(sortKey)
	if !search.ValidSortKey(key) {
		log.Errorf("unknown sort key %q", sortKey)
		return 2
	}

	store, closer, err := app.OpenStore(cfg)
	if err != nil {
		log.Errorf("%s", err)
		return 1
	}
	if closer != nil {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := api.NewClient(cfg.BaseURL, store, api.WithLogger(log), api.WithRetry(cfg.MaxRetries, cfg.RetryDelay))

	auctions, err := client.Auctions(ctx)
	if err != nil {
		log.Errorf("could not load auctions: %s", err)
		return 1
	}
	orders, err := client.PurchaseOrders(ctx)
	if err != nil {
		log.Warnf("purchase orders unavailable, statuses may be stale: %s", err)
	}
	completed := auction.CompletedIds(orders)

	results := make(chan string, 1)
	debouncer := search.NewDebouncer(cfg.Debounce, func(query string) {
		select {
		case results <- query:
		case <-ctx.Done():
		}
	})
	defer debouncer.Stop()

	// the last query is answered right away once stdin ends
	final := make(chan string, 1)
	go func() {
		var last string
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			last = scanner.Text()
			debouncer.Trigger(last)
		}
		debouncer.Stop()
		final <- last
	}()

	show := func(query string) {
		found := search.Filter(auctions, query, models.AuctionSearchFields)
		found, err := search.Sort(found, key)
		if err != nil {
			log.Errorf("%s", err)
			return
		}
		printBuckets(auction.Classify(found, completed))
	}

	for {
		select {
		case <-ctx.Done():
			return 130
		case query := <-results:
			show(query)
		case query := <-final:
			show(query)
			return 0
		}
	}
}

func printBuckets(b auction.Buckets) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%d auctions\n", b.Len())
	for _, group := range []struct {
		name  string
		items []models.Auction
	}{
		{"IN PROGRESS", b.InProgress},
		{"DRAFT", b.Draft},
		{"COMPLETED", b.Completed},
	} {
		if len(group.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", group.name)
		for _, a := range group.items {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%d bids\t%s\n",
				a.Id, a.Title, a.OrganisationName, a.BidTotal(), lowestTotal(a))
		}
	}
}

// lowestTotal shows the best bid total when the listing carries bids.
func lowestTotal(a models.Auction) string {
	ranked := comparison.Rank(a.Bids)
	if len(ranked) == 0 {
		return comparison.Display(nil)
	}
	total, ok := ranked[0].Total()
	if !ok {
		return comparison.Display(nil)
	}
	return comparison.Display(&total)
}
