package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fedadmin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesTypedSubscriber(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(domain.EventExportSaved, func(e DomainEvent) { got <- e })

	b.Publish(domain.ExportSavedEvent{Domain: "users", Format: "csv", Location: "/tmp/x.csv"})

	select {
	case e := <-got:
		saved, ok := e.(domain.ExportSavedEvent)
		require.True(t, ok)
		assert.Equal(t, "users", saved.Domain)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSubscriberOnlySeesItsType(t *testing.T) {
	b := New()

	var exports, all atomic.Int32
	b.Subscribe(domain.EventExportSaved, func(DomainEvent) { exports.Add(1) })
	b.SubscribeAll(func(DomainEvent) { all.Add(1) })

	b.Publish(domain.FetchCompletedEvent{Domain: "courts"})
	b.Publish(domain.ExportSavedEvent{Domain: "courts"})

	assert.Eventually(t, func() bool { return all.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	b.Close()
	assert.Equal(t, int32(1), exports.Load())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	var first, second atomic.Int32
	unsubscribe := b.Subscribe(domain.EventFetchCompleted, func(DomainEvent) { first.Add(1) })
	b.Subscribe(domain.EventFetchCompleted, func(DomainEvent) { second.Add(1) })
	unsubscribe()

	b.Publish(domain.FetchCompletedEvent{Domain: "users"})

	assert.Eventually(t, func() bool { return second.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestHandlerPanicDoesNotStopBus(t *testing.T) {
	b := New()
	defer b.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	b.Subscribe(domain.EventFetchFailed, func(DomainEvent) { panic("boom") })
	b.Subscribe(domain.EventFetchFailed, func(DomainEvent) { wg.Done() })

	b.Publish(domain.FetchFailedEvent{Domain: "users"})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("healthy handler did not run")
	}
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	b := New()
	b.Close()
	b.Close()

	assert.NotPanics(t, func() { b.Publish(domain.FetchCompletedEvent{}) })
}
