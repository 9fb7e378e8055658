// Package sse implements a Server-Sent Events broker for dataset change notifications.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// event is one SSE message.
type event struct {
	Type string
	Data any
}

// Change kinds accepted by PublishChange.
const (
	KindNode    = "node"
	KindFlow    = "flow"
	KindDataset = "dataset"
)

// EventViewUpdated tells clients to recompute filtered views.
const EventViewUpdated = "view.updated"

const (
	clientBuffer     = 64
	retryMillis      = 3000
	defaultKeepAlive = 25 * time.Second
)

type changeReq struct {
	kind    string
	action  string
	id      string
	version string
}

// Broker fans dataset changes out to SSE clients.
//
// One goroutine owns the client set, the event sequence and the view
// throttle. view.updated goes out at most once per throttle window; a
// change arriving inside the window is announced when the window closes,
// carrying the latest version.
type Broker struct {
	viewMin   time.Duration
	keepAlive time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	changeCh      chan changeReq
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker that emits view.updated at most once per viewThrottle.
func NewBroker(viewThrottle time.Duration) *Broker {
	if viewThrottle <= 0 {
		viewThrottle = 2 * time.Second
	}

	b := &Broker{
		viewMin:       viewThrottle,
		keepAlive:     defaultKeepAlive,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		changeCh:      make(chan changeReq, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func frame(seq uint64, ev event) ([]byte, error) {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, ev.Type, payload)), nil
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var (
		seq         uint64
		lastView    time.Time
		pendingView string
		viewTimer   *time.Timer
		viewDue     <-chan time.Time
	)

	broadcast := func(ev event) {
		raw, err := frame(seq+1, ev)
		if err != nil {
			return
		}
		seq++
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Slow client misses this event.
			}
		}
	}

	emitView := func(version string) {
		lastView = time.Now()
		pendingView = ""
		broadcast(event{Type: EventViewUpdated, Data: map[string]string{"version": version}})
	}

	for {
		select {
		case <-b.stopCh:
			if viewTimer != nil {
				viewTimer.Stop()
			}
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case req := <-b.changeCh:
			data := map[string]string{"version": req.version}
			if req.id != "" {
				data["id"] = req.id
			}
			broadcast(event{Type: req.kind + "." + req.action, Data: data})

			wait := b.viewMin - time.Since(lastView)
			switch {
			case wait <= 0:
				emitView(req.version)
			case viewDue == nil:
				pendingView = req.version
				viewTimer = time.NewTimer(wait)
				viewDue = viewTimer.C
			default:
				pendingView = req.version
			}

		case <-viewDue:
			viewDue, viewTimer = nil, nil
			if pendingView != "" {
				emitView(pendingView)
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// PublishChange broadcasts "<kind>.<action>" for one entity (or the whole
// dataset when id is empty) followed by a throttled view.updated.
func (b *Broker) PublishChange(kind, action, id, version string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.changeCh <- changeReq{kind: kind, action: action, id: id, version: version}:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events). Idle streams
// get a comment line every keepAlive.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", retryMillis)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(b.keepAlive)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
