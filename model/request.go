package model

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "inprogress"
	StatusDone       = "done"
	StatusCanceled   = "canceled"
)

// Donor identifies the user who accepted a donation request. It is set
// when the request moves to inprogress and never before.
type Donor struct {
	Name  string `firestore:"name" json:"name"`
	Email string `firestore:"email" json:"email"`
}

type DonationRequest struct {
	ID             string    `firestore:"id" json:"id"`
	RequesterName  string    `firestore:"requesterName" json:"requesterName"`
	RequesterEmail string    `firestore:"requesterEmail" json:"requesterEmail"`
	RecipientName  string    `firestore:"recipientName" json:"recipientName"`
	District       string    `firestore:"district" json:"district"`
	Upazila        string    `firestore:"upazila" json:"upazila"`
	HospitalName   string    `firestore:"hospitalName" json:"hospitalName"`
	FullAddress    string    `firestore:"fullAddress" json:"fullAddress"`
	BloodGroup     string    `firestore:"bloodGroup" json:"bloodGroup"`
	DonationDate   string    `firestore:"donationDate" json:"donationDate"`
	DonationTime   string    `firestore:"donationTime" json:"donationTime"`
	RequestMessage string    `firestore:"requestMessage" json:"requestMessage"`
	Status         string    `firestore:"status" json:"status"`
	Donor          *Donor    `firestore:"donor,omitempty" json:"donor,omitempty"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
}

// CanTransition reports whether a request may move from one status to
// another. done and canceled are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusCanceled
	case StatusInProgress:
		return to == StatusDone || to == StatusCanceled
	}
	return false
}
