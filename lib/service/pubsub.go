package service

import (
	"sync"

	"github.com/digikhata/khata.go/common"
)

// BroadcastTopic receives every ledger event regardless of owning user.
// Background publishers (webhook, rabbitmq) subscribe to it.
const BroadcastTopic int64 = 0

type Pubsub struct {
	mu   sync.RWMutex
	subs map[int64]map[string]chan common.TxEvent
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[int64]map[string]chan common.TxEvent)
	return ps
}

func (ps *Pubsub) Subscribe(topic int64, ch chan common.TxEvent) (subId string, err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan common.TxEvent)
	}
	subIdBytes, err := randBytesFromStr(32, alphaNumBytes)
	if err != nil {
		return "", err
	}
	subId = string(subIdBytes)
	ps.subs[topic][subId] = ch
	return subId, nil
}

func (ps *Pubsub) Unsubscribe(id string, topic int64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

// Publish delivers the event to the owning user's subscribers and to the
// broadcast topic.
func (ps *Pubsub) Publish(event common.TxEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, topic := range []int64{event.Transaction.UserID, BroadcastTopic} {
		for _, ch := range ps.subs[topic] {
			ch <- event
		}
	}
}

// SubscribeLedgerEvents subscribes to every ledger mutation. The returned
// function unsubscribes and closes the channel.
func (svc *KhataService) SubscribeLedgerEvents() (chan common.TxEvent, func(), error) {
	events := make(chan common.TxEvent)
	subId, err := svc.TxPubSub.Subscribe(BroadcastTopic, events)
	if err != nil {
		return nil, nil, err
	}
	return events, func() { svc.TxPubSub.Unsubscribe(subId, BroadcastTopic) }, nil
}
