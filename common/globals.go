package common

import "github.com/digikhata/khata.go/db/models"

const (
	TxEventCreated = "transaction_created"
	TxEventUpdated = "transaction_updated"
	TxEventDeleted = "transaction_deleted"
)

// TxEvent is published on every ledger mutation, in-process and to the
// optional external publishers (webhook, rabbitmq).
type TxEvent struct {
	Type        string             `json:"type"`
	Transaction models.Transaction `json:"transaction"`
}
