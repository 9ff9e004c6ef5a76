package model

import "time"

const (
	RoleDonor     = "donor"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"

	UserActive  = "active"
	UserBlocked = "blocked"
)

// User documents are keyed by email in the users collection, which makes
// email the enforced unique key.
type User struct {
	Email       string    `firestore:"email" json:"email"`
	DisplayName string    `firestore:"displayName" json:"displayName"`
	Role        string    `firestore:"role" json:"role"`
	Status      string    `firestore:"status" json:"status"`
	BloodGroup  string    `firestore:"bloodGroup,omitempty" json:"bloodGroup,omitempty"`
	District    string    `firestore:"district,omitempty" json:"district,omitempty"`
	Upazila     string    `firestore:"upazila,omitempty" json:"upazila,omitempty"`
	PhotoURL    string    `firestore:"photoURL,omitempty" json:"photoURL,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
}
