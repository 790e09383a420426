package app

import (
	"testing"
	"time"

	"github.com/vovakirdan/sprite-arena/internal/stats"
)

func TestBusSubscribeUnsubscribe(t *testing.T) {
	b := NewBus()

	ch := b.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}
	if got := b.Len(); got != 1 {
		t.Errorf("Len() = %d, expected 1", got)
	}

	b.Unsubscribe(ch)
	if got := b.Len(); got != 0 {
		t.Errorf("Len() after unsubscribe = %d, expected 0", got)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}

	// A second unsubscribe is ignored
	b.Unsubscribe(ch)
}

func TestBusPublishFansOut(t *testing.T) {
	b := NewBus()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	want := stats.Unlock{PlayerID: "p1", AchievementID: stats.Unstoppable}
	b.Publish(want)

	for i, ch := range []chan stats.Unlock{ch1, ch2} {
		select {
		case got := <-ch:
			if got != want {
				t.Errorf("ch%d got %+v, expected %+v", i+1, got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("ch%d timed out", i+1)
		}
	}
}

func TestBusSkipsFullSubscribers(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < busBuffer; i++ {
		b.Publish(stats.Unlock{PlayerID: "fill"})
	}

	done := make(chan struct{})
	go func() {
		b.Publish(stats.Unlock{PlayerID: "overflow"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	if got := len(ch); got != busBuffer {
		t.Errorf("queued = %d, expected %d", got, busBuffer)
	}
}
