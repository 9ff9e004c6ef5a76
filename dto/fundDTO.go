package dto

type CheckoutSessionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Email       string  `json:"email" binding:"required,email"`
	DisplayName string  `json:"displayName" binding:"required"`
}

type ConfirmFundRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}
