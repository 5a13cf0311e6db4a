package vkapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/pubsub"
)

// egoNetHandler serves a fixed ego network: profile 1 is friends with
// 2, 3 and 4, profiles 2 and 3 are friends with each other, and
// profile 4 is private.
func egoNetHandler(t *testing.T) http.HandlerFunc {
	t.Helper()

	friends := map[string][]int64{
		"1": {2, 3, 4},
		"2": {1, 3, 77},
		"3": {1, 2},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/friends.get":
			userID := r.URL.Query().Get("user_id")
			if userID == "4" {
				writeError(w, 30, "This profile is private")
				return
			}
			items, ok := friends[userID]
			if !ok {
				writeError(w, 18, "User was deleted or banned")
				return
			}
			writeFriends(w, len(items), items)
		case "/users.get":
			ids := strings.Split(r.URL.Query().Get("user_ids"), ",")
			parts := make([]string, 0, len(ids))
			for _, raw := range ids {
				id, _ := strconv.ParseInt(raw, 10, 64)
				parts = append(parts, fmt.Sprintf(
					`{"id":%d,"first_name":"User","last_name":"%d"}`, id, id))
			}
			fmt.Fprintf(w, `{"response":[%s]}`, strings.Join(parts, ","))
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}
}

func TestCrawlEgoNet(t *testing.T) {
	client := newTestClient(t, egoNetHandler(t))
	crawler := NewCrawler(client, CrawlOptions{Workers: 3})

	result, err := crawler.CrawlEgoNet(context.Background(), 1)
	if err != nil {
		t.Fatalf("CrawlEgoNet failed: %v", err)
	}

	if result.RootID != 1 {
		t.Errorf("Expected root 1, got %d", result.RootID)
	}
	if !reflect.DeepEqual(result.Adjacency[1], []int64{2, 3, 4}) {
		t.Errorf("Expected root friends [2 3 4], got %v", result.Adjacency[1])
	}
	if !reflect.DeepEqual(result.Adjacency[2], []int64{1, 3, 77}) {
		t.Errorf("Expected raw friend list for 2, got %v", result.Adjacency[2])
	}
	if _, ok := result.Adjacency[4]; ok {
		t.Error("Expected private profile 4 to be absent from the listing")
	}
	if result.Skipped[4] != "private" {
		t.Errorf("Expected profile 4 skipped as private, got %q", result.Skipped[4])
	}
	if result.Names[2] != "User 2" {
		t.Errorf("Expected name for profile 2, got %q", result.Names[2])
	}
}

func TestCrawlResultBuildsAfterInduction(t *testing.T) {
	client := newTestClient(t, egoNetHandler(t))
	crawler := NewCrawler(client, CrawlOptions{Workers: 2})

	result, err := crawler.CrawlEgoNet(context.Background(), 1)
	if err != nil {
		t.Fatalf("CrawlEgoNet failed: %v", err)
	}

	m, err := graph.Build(result.Adjacency.Induced())
	if err != nil {
		t.Fatalf("Build failed on induced listing: %v", err)
	}
	if m.Size() != 3 {
		t.Errorf("Expected 3 vertices after induction, got %d", m.Size())
	}
	if m.EdgeCount() != 3 {
		t.Errorf("Expected a triangle, got %d edges", m.EdgeCount())
	}
}

func TestCrawlRootDeniedIsFatal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, 15, "Access denied")
	})
	crawler := NewCrawler(client, CrawlOptions{})

	_, err := crawler.CrawlEgoNet(context.Background(), 1)
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("Expected ErrAccessDenied for the root, got %v", err)
	}
}

func TestCrawlPublishesProgress(t *testing.T) {
	client := newTestClient(t, egoNetHandler(t))

	bus := pubsub.NewBus()
	defer bus.Close()
	sub := bus.Subscribe(TopicProgress, 16)

	crawler := NewCrawler(client, CrawlOptions{Workers: 2, Bus: bus})
	if _, err := crawler.CrawlEgoNet(context.Background(), 1); err != nil {
		t.Fatalf("CrawlEgoNet failed: %v", err)
	}

	var fetched []int
	for len(fetched) < 3 {
		select {
		case event := <-sub.Events():
			progress, ok := event.(Progress)
			if !ok {
				t.Fatalf("Expected a Progress event, got %T", event)
			}
			if progress.Total != 3 {
				t.Errorf("Expected total 3, got %d", progress.Total)
			}
			fetched = append(fetched, progress.Fetched)
		default:
			t.Fatalf("Expected 3 progress events, got %d", len(fetched))
		}
	}

	sort.Ints(fetched)
	if !reflect.DeepEqual(fetched, []int{1, 2, 3}) {
		t.Errorf("Expected fetched counts [1 2 3], got %v", fetched)
	}
}

func TestCrawlTransportErrorIsFatal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if r.URL.Path == "/friends.get" && userID == "1" {
			writeFriends(w, 2, []int64{2, 3})
			return
		}
		http.Error(w, "boom", http.StatusBadGateway)
	})
	crawler := NewCrawler(client, CrawlOptions{Workers: 2})

	_, err := crawler.CrawlEgoNet(context.Background(), 1)
	if err == nil {
		t.Fatal("Expected an error when a friend fetch fails")
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Errorf("Expected status in error, got %v", err)
	}
}

func TestSkipReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deleted", &APIError{Code: 18}, "deleted"},
		{"private", &APIError{Code: 30}, "private"},
		{"denied", &APIError{Code: 15}, "denied"},
		{"other api error", &APIError{Code: 100}, "error"},
		{"plain error", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SkipReason(tt.err); got != tt.want {
				t.Errorf("Expected reason %q, got %q", tt.want, got)
			}
		})
	}
}
