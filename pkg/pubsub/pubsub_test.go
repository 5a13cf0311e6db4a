package pubsub

import (
	"sync"
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe("sweep.progress", 4)
	defer sub.Close()

	if n := bus.Publish("sweep.progress", "task-1"); n != 1 {
		t.Fatalf("Expected 1 delivery, got %d", n)
	}

	select {
	case event := <-sub.Events():
		if event != "task-1" {
			t.Errorf("Expected task-1, got %v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestPublishIsTopicScoped(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe("collector.progress", 4)
	defer sub.Close()

	if n := bus.Publish("sweep.progress", "wrong topic"); n != 0 {
		t.Errorf("Expected 0 deliveries, got %d", n)
	}

	select {
	case event := <-sub.Events():
		t.Errorf("Unexpected event %v", event)
	default:
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe("t", 1)
	defer sub.Close()

	if n := bus.Publish("t", 1); n != 1 {
		t.Fatalf("Expected first publish delivered, got %d", n)
	}
	if n := bus.Publish("t", 2); n != 0 {
		t.Errorf("Expected second publish dropped, got %d deliveries", n)
	}

	if got := <-sub.Events(); got != 1 {
		t.Errorf("Expected buffered event 1, got %v", got)
	}
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe("t", 4)
	sub.Close()

	if n := bus.SubscriberCount("t"); n != 0 {
		t.Errorf("Expected 0 subscribers after close, got %d", n)
	}
	if n := bus.Publish("t", "late"); n != 0 {
		t.Errorf("Expected no deliveries after close, got %d", n)
	}

	if _, open := <-sub.Events(); open {
		t.Error("Expected closed events channel")
	}
}

func TestBusCloseClosesSubscriptions(t *testing.T) {
	bus := NewBus()

	first := bus.Subscribe("a", 4)
	second := bus.Subscribe("b", 4)
	bus.Close()

	if _, open := <-first.Events(); open {
		t.Error("Expected first channel closed")
	}
	if _, open := <-second.Events(); open {
		t.Error("Expected second channel closed")
	}

	// Late subscribers get an already-closed channel.
	late := bus.Subscribe("a", 4)
	if _, open := <-late.Events(); open {
		t.Error("Expected closed channel from a closed bus")
	}
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bus.Publish("t", j)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe("t", 16)
			for j := 0; j < 10; j++ {
				select {
				case <-sub.Events():
				case <-time.After(10 * time.Millisecond):
				}
			}
			sub.Close()
		}()
	}

	wg.Wait()
}
