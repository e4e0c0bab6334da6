package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/db"
	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/types"
	"github.com/taskhive/taskhive/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	AdminCode string `json:"adminCode"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func Signup(ctx *gin.Context) {
	var body SignupRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var existing models.User

	err := db.DB.Where("email = ?", body.Email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("checking existing user failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Error("hashing password failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Default role is user. Admin self-signup needs the matching signup code;
	// a configured admin email is promoted regardless.
	role := types.RoleUser
	if body.Role == types.RoleAdmin && adminCfg.SignupCode != "" && body.AdminCode == adminCfg.SignupCode {
		role = types.RoleAdmin
	}
	if adminCfg.Email != "" && body.Email == adminCfg.Email {
		role = types.RoleAdmin
	}

	user := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: string(passwordHash),
		Phone:        body.Phone,
		Role:         role,
		NotifyEmail:  true,
		Badges:       []byte("[]"),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		// Concurrent signups can slip past the pre-check; the unique index on
		// email still wins the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
			return
		}
		log.Error("creating user failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Error("generating token failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	})
}

func Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var user models.User

	err := db.DB.Where("email = ?", body.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Error("fetching user failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	// Keep the role in sync with ADMIN_EMAIL in case it was configured after signup.
	if adminCfg.Email != "" && user.Email == adminCfg.Email && user.Role != types.RoleAdmin {
		user.Role = types.RoleAdmin
		if err := db.DB.Model(&user).Update("role", user.Role).Error; err != nil {
			log.Error("promoting admin failed", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Error("generating token failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": UserResponse{
			ID:    currentUser.ID,
			Name:  currentUser.Name,
			Email: currentUser.Email,
			Role:  currentUser.Role,
		},
	})
}
