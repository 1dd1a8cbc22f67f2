package api

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	subscriberBuffer = 16
	writeTimeout     = 10 * time.Second
)

// HistoryEvent is pushed to websocket clients whenever a history record is stored.
type HistoryEvent struct {
	Type      string      `json:"type"`
	Record    *HistoryDTO `json:"record,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventConn is the part of *websocket.Conn the notifier writes through.
type EventConn interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Subscriber is one live history client. Events are queued and written by a
// dedicated goroutine so a slow peer never holds up a broadcaster.
type Subscriber struct {
	conn EventConn
	send chan HistoryEvent
}

// HistoryNotifier tracks live history subscribers and fans events out to them.
type HistoryNotifier struct {
	mu      sync.Mutex
	clients map[*Subscriber]struct{}
	last    *HistoryEvent
}

// NewHistoryNotifier constructs a notifier instance.
func NewHistoryNotifier() *HistoryNotifier {
	return &HistoryNotifier{clients: make(map[*Subscriber]struct{})}
}

// Register attaches a connection and starts its writer. The most recent
// event, if any, is queued first.
func (n *HistoryNotifier) Register(conn EventConn) *Subscriber {
	sub := &Subscriber{conn: conn, send: make(chan HistoryEvent, subscriberBuffer)}
	n.mu.Lock()
	if n.last != nil {
		sub.send <- *n.last
	}
	n.clients[sub] = struct{}{}
	n.mu.Unlock()

	go n.writeLoop(sub)
	return sub
}

// Unregister removes the subscriber and closes its connection.
func (n *HistoryNotifier) Unregister(sub *Subscriber) {
	if sub == nil {
		return
	}
	n.remove(sub)
	_ = sub.conn.Close()
}

// Broadcast stamps the event and queues it for every subscriber without
// blocking. Subscribers whose queue is full are dropped.
func (n *HistoryNotifier) Broadcast(event HistoryEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	defer n.mu.Unlock()
	snapshot := event
	n.last = &snapshot
	for sub := range n.clients {
		select {
		case sub.send <- event:
		default:
			delete(n.clients, sub)
			close(sub.send)
			_ = sub.conn.Close()
			logrus.Warn("history subscriber too slow; dropped")
		}
	}
}

// Clients reports the number of connected subscribers.
func (n *HistoryNotifier) Clients() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}

// Last returns a copy of the most recent event.
func (n *HistoryNotifier) Last() *HistoryEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil {
		return nil
	}
	copied := *n.last
	return &copied
}

// remove deletes sub and closes its queue. The queue is only closed while
// holding n.mu, the same lock senders hold.
func (n *HistoryNotifier) remove(sub *Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.clients[sub]; ok {
		delete(n.clients, sub)
		close(sub.send)
	}
}

func (n *HistoryNotifier) writeLoop(sub *Subscriber) {
	defer sub.conn.Close()
	for event := range sub.send {
		_ = sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := sub.conn.WriteJSON(event); err != nil {
			logrus.WithError(err).Debug("history subscriber write failed")
			n.remove(sub)
			return
		}
	}
}
