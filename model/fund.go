package model

import "time"

// Fund documents are keyed by the payment transaction id, so a confirmed
// payment can be recorded at most once.
type Fund struct {
	Name          string    `firestore:"name" json:"name"`
	Email         string    `firestore:"email" json:"email"`
	Amount        float64   `firestore:"amount" json:"amount"`
	TransactionID string    `firestore:"transactionId" json:"transactionId"`
	FundAt        time.Time `firestore:"fundAt" json:"fundAt"`
}
