package user

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

// Directory is the user-store capability the controller and the role gates
// depend on. services.UserService implements it.
type Directory interface {
	List(ctx context.Context, email string) ([]model.User, error)
	ListDonors(ctx context.Context, bloodGroup, district, upazila string) ([]model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	RoleByEmail(ctx context.Context, email string) (string, error)
	Create(ctx context.Context, user model.User) error
	UpdateProfile(ctx context.Context, email string, fields map[string]interface{}) (*model.User, error)
	SetStatus(ctx context.Context, id, status string) (*model.User, error)
	SetRole(ctx context.Context, id, role string) (*model.User, error)
}

func UserController(router *gin.Engine, verifier middleware.TokenVerifier, users Directory) {
	authn := middleware.AccessTokenMiddleware(verifier)
	admin := middleware.AdminMiddleware(users)

	router.GET("/donors", func(c *gin.Context) {
		ListDonors(c, users)
	})
	router.GET("/users", authn, admin, func(c *gin.Context) {
		ListUsers(c, users)
	})
	router.GET("/users/:email/role", func(c *gin.Context) {
		GetUserRole(c, users)
	})
	router.GET("/users/:email/status", func(c *gin.Context) {
		GetUserStatus(c, users)
	})
	router.POST("/users", func(c *gin.Context) {
		CreateUser(c, users)
	})
	router.PATCH("/users/profile", authn, func(c *gin.Context) {
		UpdateProfile(c, users)
	})
	router.PATCH("/users/:id/status", authn, admin, func(c *gin.Context) {
		UpdateUserStatus(c, users)
	})
	router.PATCH("/users/:id/role", authn, admin, func(c *gin.Context) {
		UpdateUserRole(c, users)
	})
}

func ListDonors(c *gin.Context, users Directory) {
	donors, err := users.ListDonors(c.Request.Context(), c.Query("bloodGroup"), c.Query("district"), c.Query("upazila"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, donors)
}

func ListUsers(c *gin.Context, users Directory) {
	all, err := users.List(c.Request.Context(), c.Query("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, all)
}

// GetUserRole never fails for an unknown email; absent users default to
// donor.
func GetUserRole(c *gin.Context, users Directory) {
	role, err := users.RoleByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"role": model.RoleDonor})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

func GetUserStatus(c *gin.Context, users Directory) {
	user, err := users.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	userStatus := user.Status
	if userStatus == "" {
		userStatus = model.UserActive
	}
	c.JSON(http.StatusOK, gin.H{"status": userStatus})
}

// CreateUser registers a profile after external sign-up. Role and status
// are server-controlled regardless of the payload.
func CreateUser(c *gin.Context, users Directory) {
	var request dto.CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	newUser := model.User{
		Email:       request.Email,
		DisplayName: request.DisplayName,
		BloodGroup:  request.BloodGroup,
		District:    request.District,
		Upazila:     request.Upazila,
		PhotoURL:    request.PhotoURL,
		Role:        model.RoleDonor,
		Status:      model.UserActive,
		CreatedAt:   time.Now(),
	}

	if err := users.Create(c.Request.Context(), newUser); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "id": newUser.Email})
}

func UpdateProfile(c *gin.Context, users Directory) {
	var request dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	fields := map[string]interface{}{}
	if request.DisplayName != "" {
		fields["displayName"] = request.DisplayName
	}
	if request.District != "" {
		fields["district"] = request.District
	}
	if request.Upazila != "" {
		fields["upazila"] = request.Upazila
	}
	if request.BloodGroup != "" {
		fields["bloodGroup"] = request.BloodGroup
	}
	if request.PhotoURL != "" {
		fields["photoURL"] = request.PhotoURL
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No data to update"})
		return
	}

	updated, err := users.UpdateProfile(c.Request.Context(), c.GetString("email"), fields)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found or unchanged"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func UpdateUserStatus(c *gin.Context, users Directory) {
	var request dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status value"})
		return
	}

	updated, err := users.SetStatus(c.Request.Context(), c.Param("id"), request.Status)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func UpdateUserRole(c *gin.Context, users Directory) {
	var request dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role value"})
		return
	}

	updated, err := users.SetRole(c.Request.Context(), c.Param("id"), request.Role)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}
