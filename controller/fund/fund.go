package fund

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
)

// Ledger is the fund persistence capability. services.FundService
// implements it.
type Ledger interface {
	FindByTransaction(ctx context.Context, transactionID string) (*model.Fund, error)
	Record(ctx context.Context, fund model.Fund) error
	List(ctx context.Context) ([]model.Fund, error)
	Total(ctx context.Context) (float64, error)
}

// Checkout is the payment-processor capability. services.StripeCheckout
// implements it.
type Checkout interface {
	CreateSession(ctx context.Context, amount float64, email, displayName string) (string, error)
	RetrieveSession(ctx context.Context, id string) (*services.CheckoutSession, error)
}

func FundController(router *gin.Engine, verifier middleware.TokenVerifier, funds Ledger, checkout Checkout) {
	authn := middleware.AccessTokenMiddleware(verifier)

	router.POST("/create-checkout-session", func(c *gin.Context) {
		CreateCheckoutSession(c, checkout)
	})
	router.POST("/funds", func(c *gin.Context) {
		ConfirmFund(c, checkout, funds)
	})
	router.GET("/funds", authn, func(c *gin.Context) {
		ListFunds(c, funds)
	})
	router.GET("/funds/total", func(c *gin.Context) {
		TotalFunds(c, funds)
	})
}

func CreateCheckoutSession(c *gin.Context, checkout Checkout) {
	var request dto.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	url, err := checkout.CreateSession(c.Request.Context(), request.Amount, request.Email, request.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ConfirmFund verifies a completed checkout session and records the fund
// exactly once per payment transaction.
func ConfirmFund(c *gin.Context, checkout Checkout, funds Ledger) {
	var request dto.ConfirmFundRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "sessionId required"})
		return
	}

	session, err := checkout.RetrieveSession(c.Request.Context(), request.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if session.PaymentStatus != "paid" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment not completed"})
		return
	}

	if _, err := funds.FindByTransaction(c.Request.Context(), session.TransactionID); err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Fund already recorded"})
		return
	} else if !errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	fund := model.Fund{
		Name:          session.Metadata["displayName"],
		Email:         session.Metadata["email"],
		Amount:        float64(session.AmountTotal) / 100,
		TransactionID: session.TransactionID,
		FundAt:        time.Now(),
	}

	if err := funds.Record(c.Request.Context(), fund); err != nil {
		// A concurrent confirmation may win the insert between the
		// existence check and here; the store's unique key settles it.
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusOK, gin.H{"message": "Fund already recorded"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "fundInfo": fund})
}

func ListFunds(c *gin.Context, funds Ledger) {
	all, err := funds.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, all)
}

func TotalFunds(c *gin.Context, funds Ledger) {
	total, err := funds.Total(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalAmount": total})
}
