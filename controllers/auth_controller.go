package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikelGMatos/NutriSense/models"
	"github.com/MikelGMatos/NutriSense/services"
)

type AuthController struct {
	auth   *services.AuthService
	users  *services.UserService
	tokens *services.TokenStore
	log    *zap.Logger
	dev    bool
}

func NewAuthController(auth *services.AuthService, users *services.UserService, tokens *services.TokenStore, log *zap.Logger, dev bool) *AuthController {
	return &AuthController{auth: auth, users: users, tokens: tokens, log: log, dev: dev}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	userID, err := ac.auth.Register(input.Email, input.Password, input.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		ac.log.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, serverError(ac.dev, "failed to register user", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user created", "userId": userID})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, token, err := ac.auth.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		ac.log.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, serverError(ac.dev, "failed to log in", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Logout revokes the presented token until its natural expiry. Without a
// configured revocation store this only acknowledges the request.
func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetString("token")
	ttl := time.Duration(0)
	if exp, ok := c.Get("tokenExpiresAt"); ok {
		ttl = time.Until(time.Unix(exp.(int64), 0))
	}

	if err := ac.tokens.Revoke(c.Request.Context(), token, ttl); err != nil {
		ac.log.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, serverError(ac.dev, "failed to log out", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	user, err := ac.users.GetProfile(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profileView(user)})
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("userID")

	var patch services.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.users.UpdateProfile(userID, patch)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
			return
		}
		ac.log.Error("profile update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, serverError(ac.dev, "failed to update profile", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "profile updated",
		"data":    profileView(user),
	})
}

func profileView(u *models.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"email":          u.Email,
		"name":           u.Name,
		"age":            u.Age,
		"height":         u.Height,
		"weight":         u.Weight,
		"gender":         u.Gender,
		"activity_level": u.ActivityLevel,
		"goal":           u.Goal,
		"daily_calories": u.DailyCalories,
		"daily_protein":  u.DailyProtein,
		"daily_carbs":    u.DailyCarbs,
		"daily_fat":      u.DailyFat,
		"created_at":     u.CreatedAt,
	}
}
