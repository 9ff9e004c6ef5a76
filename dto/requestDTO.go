package dto

type CreateDonationRequest struct {
	RequesterName  string `json:"requesterName" binding:"required"`
	RequesterEmail string `json:"requesterEmail" binding:"required,email"`
	RecipientName  string `json:"recipientName" binding:"required"`
	District       string `json:"district"`
	Upazila        string `json:"upazila"`
	HospitalName   string `json:"hospitalName"`
	FullAddress    string `json:"fullAddress"`
	BloodGroup     string `json:"bloodGroup" binding:"required"`
	DonationDate   string `json:"donationDate"`
	DonationTime   string `json:"donationTime"`
	RequestMessage string `json:"requestMessage"`
}

// EditDonationRequest carries the only fields a requester may change after
// creation. Status is deliberately absent; it moves through the status
// endpoint only. Pointers distinguish omitted fields from empty strings.
type EditDonationRequest struct {
	RecipientName  *string `json:"recipientName"`
	HospitalName   *string `json:"hospitalName"`
	District       *string `json:"district"`
	Upazila        *string `json:"upazila"`
	FullAddress    *string `json:"fullAddress"`
	BloodGroup     *string `json:"bloodGroup"`
	DonationDate   *string `json:"donationDate"`
	DonationTime   *string `json:"donationTime"`
	RequestMessage *string `json:"requestMessage"`
}

type DonorPayload struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type UpdateStatusRequest struct {
	Status string        `json:"status" binding:"required,oneof=pending inprogress done canceled"`
	Donor  *DonorPayload `json:"donor"`
}
