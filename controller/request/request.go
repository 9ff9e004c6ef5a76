package request

import (
	"context"
	"errors"
	"net/http"
	"time"

	"reddrop/dto"
	"reddrop/middleware"
	"reddrop/model"
	"reddrop/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store is the donation-request persistence capability.
// services.RequestService implements it.
type Store interface {
	Create(ctx context.Context, request model.DonationRequest) (string, error)
	Get(ctx context.Context, id string) (*model.DonationRequest, error)
	ListPending(ctx context.Context) ([]model.DonationRequest, error)
	ListByRequester(ctx context.Context, email string) ([]model.DonationRequest, error)
	ListAll(ctx context.Context) ([]model.DonationRequest, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, id, status string, donor *model.Donor) error
	Delete(ctx context.Context, id string) error
}

// Users is the slice of the user directory the lifecycle needs for
// ownership, role and donor-eligibility checks.
type Users interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

func RequestController(router *gin.Engine, verifier middleware.TokenVerifier, users Users, requests Store) {
	authn := middleware.AccessTokenMiddleware(verifier)
	staff := middleware.StaffMiddleware(users)

	router.POST("/donationRequests", func(c *gin.Context) {
		CreateRequest(c, requests)
	})
	router.GET("/donationRequests/pending", func(c *gin.Context) {
		ListPending(c, requests)
	})
	router.GET("/donationRequests/my", authn, func(c *gin.Context) {
		ListMine(c, requests)
	})
	router.GET("/donationRequests", authn, staff, func(c *gin.Context) {
		ListAll(c, requests)
	})
	router.GET("/donationRequests/:id", authn, func(c *gin.Context) {
		GetRequest(c, users, requests)
	})
	router.PATCH("/donationRequests/:id", authn, func(c *gin.Context) {
		EditRequest(c, users, requests)
	})
	router.PATCH("/donationRequests/:id/status", authn, func(c *gin.Context) {
		UpdateRequestStatus(c, users, requests)
	})
	router.DELETE("/donationRequests/:id", authn, func(c *gin.Context) {
		DeleteRequest(c, users, requests)
	})
}

// CreateRequest is public. Status, donor and createdAt are server
// controlled; anything outside the bound fields is dropped.
func CreateRequest(c *gin.Context, requests Store) {
	var request dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	newRequest := model.DonationRequest{
		RequesterName:  request.RequesterName,
		RequesterEmail: request.RequesterEmail,
		RecipientName:  request.RecipientName,
		District:       request.District,
		Upazila:        request.Upazila,
		HospitalName:   request.HospitalName,
		FullAddress:    request.FullAddress,
		BloodGroup:     request.BloodGroup,
		DonationDate:   request.DonationDate,
		DonationTime:   request.DonationTime,
		RequestMessage: request.RequestMessage,
		Status:         model.StatusPending,
		CreatedAt:      time.Now(),
	}

	id, err := requests.Create(c.Request.Context(), newRequest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Donation request created", "id": id})
}

func ListPending(c *gin.Context, requests Store) {
	pending, err := requests.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, pending)
}

func ListMine(c *gin.Context, requests Store) {
	mine, err := requests.ListByRequester(c.Request.Context(), c.GetString("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, mine)
}

func ListAll(c *gin.Context, requests Store) {
	all, err := requests.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, all)
}

func GetRequest(c *gin.Context, users Users, requests Store) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	request, err := requests.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	if !isOwnerOrStaff(c, users, request) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}
	c.JSON(http.StatusOK, request)
}

// EditRequest updates the allow-listed fields only; status never moves
// through this path.
func EditRequest(c *gin.Context, users Users, requests Store) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var request dto.EditDonationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	existing, err := requests.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	if !isOwnerOrStaff(c, users, existing) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}

	fields := editFields(request)
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No valid fields to update"})
		return
	}

	if err := requests.UpdateFields(c.Request.Context(), id, fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Donation request updated"})
}

// UpdateRequestStatus is the single status-transition path. The status value
// is enum-validated, the lifecycle is enforced, and a transition to
// inprogress must name an eligible donor.
func UpdateRequestStatus(c *gin.Context, users Users, requests Store) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	var request dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status value"})
		return
	}

	existing, err := requests.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	if !model.CanTransition(existing.Status, request.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status transition"})
		return
	}

	email := c.GetString("email")
	allowed := isOwnerOrStaff(c, users, existing)
	// A donor may accept a pending request themselves.
	if !allowed && request.Status == model.StatusInProgress && request.Donor != nil && request.Donor.Email == email {
		allowed = true
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}

	var donor *model.Donor
	if request.Status == model.StatusInProgress {
		if request.Donor == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Donor info required"})
			return
		}
		donorUser, err := users.FindByEmail(c.Request.Context(), request.Donor.Email)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Donor is not a registered user"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		if donorUser.Role != model.RoleDonor || donorUser.Status != model.UserActive {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Donor is not an eligible donor"})
			return
		}
		donor = &model.Donor{Name: request.Donor.Name, Email: request.Donor.Email}
	}

	if err := requests.UpdateStatus(c.Request.Context(), id, request.Status, donor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

func DeleteRequest(c *gin.Context, users Users, requests Store) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	existing, err := requests.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	if !isOwnerOrStaff(c, users, existing) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}

	if err := requests.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Donation request deleted"})
}

// isOwnerOrStaff fails closed: a caller without a user record who does not
// own the request is not allowed through.
func isOwnerOrStaff(c *gin.Context, users Users, request *model.DonationRequest) bool {
	email := c.GetString("email")
	if request.RequesterEmail == email {
		return true
	}
	role, err := users.RoleByEmail(c.Request.Context(), email)
	return err == nil && role != model.RoleDonor
}

func editFields(request dto.EditDonationRequest) map[string]interface{} {
	fields := map[string]interface{}{}
	if request.RecipientName != nil {
		fields["recipientName"] = *request.RecipientName
	}
	if request.HospitalName != nil {
		fields["hospitalName"] = *request.HospitalName
	}
	if request.District != nil {
		fields["district"] = *request.District
	}
	if request.Upazila != nil {
		fields["upazila"] = *request.Upazila
	}
	if request.FullAddress != nil {
		fields["fullAddress"] = *request.FullAddress
	}
	if request.BloodGroup != nil {
		fields["bloodGroup"] = *request.BloodGroup
	}
	if request.DonationDate != nil {
		fields["donationDate"] = *request.DonationDate
	}
	if request.DonationTime != nil {
		fields["donationTime"] = *request.DonationTime
	}
	if request.RequestMessage != nil {
		fields["requestMessage"] = *request.RequestMessage
	}
	return fields
}
