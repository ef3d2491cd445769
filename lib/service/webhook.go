package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/digikhata/khata.go/common"
)

// StartWebhookSubscription POSTs every ledger mutation to the configured
// webhook url until the context is cancelled.
func (svc *KhataService) StartWebhookSubscription(ctx context.Context, url string) {

	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	events := make(chan common.TxEvent)
	subId, err := svc.TxPubSub.Subscribe(BroadcastTopic, events)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer svc.TxPubSub.Unsubscribe(subId, BroadcastTopic)

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			svc.postToWebhook(url, event)
		}
	}
}

func (svc *KhataService) postToWebhook(url string, event common.TxEvent) {

	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	resp, err := http.Post(url, "application/json", payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
