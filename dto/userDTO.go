package dto

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName" binding:"required"`
	BloodGroup  string `json:"bloodGroup"`
	District    string `json:"district"`
	Upazila     string `json:"upazila"`
	PhotoURL    string `json:"photoURL"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	District    string `json:"district"`
	Upazila     string `json:"upazila"`
	BloodGroup  string `json:"bloodGroup"`
	PhotoURL    string `json:"photoURL"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active blocked"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=donor volunteer admin"`
}
