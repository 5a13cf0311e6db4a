package vkapi

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/logging"
	"github.com/egonetlab/egonet/pkg/metrics"
	"github.com/egonetlab/egonet/pkg/parallel"
	"github.com/egonetlab/egonet/pkg/pubsub"
)

// TopicProgress is the event bus topic carrying crawl progress updates.
const TopicProgress = "collector.progress"

// Progress reports how far a crawl has advanced.
type Progress struct {
	RootID  int64 `json:"root_id"`
	UserID  int64 `json:"user_id"`
	Fetched int   `json:"fetched"`
	Total   int   `json:"total"`
}

// CrawlOptions configures a Crawler.
type CrawlOptions struct {
	// Workers is the number of concurrent profile fetches.
	Workers int

	// Bus receives Progress events on TopicProgress. Optional.
	Bus *pubsub.Bus

	// Logger receives crawl diagnostics. Defaults to a no-op logger.
	Logger logging.Logger

	// Metrics receives crawl counters. Defaults to the shared registry.
	Metrics *metrics.Registry
}

// DefaultCrawlOptions returns the concurrency the VK pacing supports.
func DefaultCrawlOptions() CrawlOptions {
	return CrawlOptions{Workers: 6}
}

// CrawlResult is the ego network assembled around a root profile.
type CrawlResult struct {
	// RootID is the profile the crawl started from.
	RootID int64

	// Adjacency maps each reachable profile to its full friend list.
	// Neighbor entries may reference profiles outside the crawl. Use
	// Adjacency.Induced before building a model.
	Adjacency graph.AdjacencyList

	// Names maps crawled profile ids to display names.
	Names map[int64]string

	// Skipped maps unreadable profiles to the reason they were skipped.
	Skipped map[int64]string
}

// Crawler assembles depth-one ego networks over a worker pool.
// The client must be non-nil.
type Crawler struct {
	client  *Client
	workers int
	bus     *pubsub.Bus
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewCrawler builds a Crawler around an API client.
func NewCrawler(client *Client, opts CrawlOptions) *Crawler {
	if opts.Workers <= 0 {
		opts.Workers = DefaultCrawlOptions().Workers
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry()
	}
	return &Crawler{
		client:  client,
		workers: opts.Workers,
		bus:     opts.Bus,
		logger:  opts.Logger.With(logging.Component("crawler")),
		metrics: opts.Metrics,
	}
}

// memberSlot holds the outcome of one profile fetch. Each worker writes
// only its own slot.
type memberSlot struct {
	id      int64
	friends []int64
	err     error
}

// CrawlEgoNet fetches the friend list of the root profile and of every
// friend, returning the raw friendship listing together with display
// names. Profiles whose lists cannot be read are skipped and counted.
// A failure on the root profile itself is fatal.
func (c *Crawler) CrawlEgoNet(ctx context.Context, rootID int64) (*CrawlResult, error) {
	c.logger.Info("starting crawl",
		logging.UserID(rootID),
		logging.Int("workers", c.workers))

	rootFriends, err := c.client.Friends(ctx, rootID)
	if err != nil {
		return nil, err
	}
	c.metrics.AddFriendsFetched(len(rootFriends))

	total := len(rootFriends)
	slots := make([]memberSlot, total)
	var fetched int64

	pool := parallel.NewWorkerPool(c.workers, c.logger)
	for i, id := range rootFriends {
		slot := &slots[i]
		memberID := id
		pool.Submit(func() {
			friends, err := c.client.Friends(ctx, memberID)
			slot.id = memberID
			slot.friends = friends
			slot.err = err

			done := int(atomic.AddInt64(&fetched, 1))
			c.metrics.CollectorQueueDepth.Set(float64(total - done))
			c.publishProgress(Progress{
				RootID:  rootID,
				UserID:  memberID,
				Fetched: done,
				Total:   total,
			})
		})
	}
	pool.Close()

	adjacency := graph.AdjacencyList{rootID: rootFriends}
	skipped := make(map[int64]string)
	for _, slot := range slots {
		if slot.err != nil {
			if errors.Is(slot.err, ErrAccessDenied) {
				reason := SkipReason(slot.err)
				skipped[slot.id] = reason
				c.metrics.RecordProfileSkip(reason)
				c.logger.Debug("profile skipped",
					logging.UserID(slot.id),
					logging.String("reason", reason))
				continue
			}
			return nil, slot.err
		}
		adjacency[slot.id] = slot.friends
		c.metrics.AddFriendsFetched(len(slot.friends))
	}

	members := make([]int64, 0, total+1)
	members = append(members, rootID)
	members = append(members, rootFriends...)
	names, err := c.client.Names(ctx, members)
	if err != nil {
		return nil, err
	}

	c.logger.Info("crawl complete",
		logging.UserID(rootID),
		logging.Count(len(adjacency)),
		logging.Int("skipped", len(skipped)))

	return &CrawlResult{
		RootID:    rootID,
		Adjacency: adjacency,
		Names:     names,
		Skipped:   skipped,
	}, nil
}

func (c *Crawler) publishProgress(p Progress) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(TopicProgress, p)
}
