package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-logistics/logger"
	"go-logistics/middleware"
	"go-logistics/models"
	"go-logistics/utils"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

// UserController handles accounts and login
type UserController struct {
	Users  UserStore
	Riders RiderStore
}

func NewUserController(users UserStore, riders RiderStore) *UserController {
	return &UserController{Users: users, Riders: riders}
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	RiderID  string `json:"rider_id"`
}

// CreateUser lets an admin add an admin, rider or customer account
func (uc *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decode(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user := models.User{
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch req.Role {
	case models.RoleAdmin, models.RoleUser:
	case models.RoleRider:
		riderID, err := primitive.ObjectIDFromHex(req.RiderID)
		if err != nil {
			http.Error(w, "Rider accounts need a valid rider ID", http.StatusBadRequest)
			return
		}
		rider, err := uc.Riders.FindByID(ctx, riderID)
		if err != nil {
			logger.Log.Error("failed to load rider", zap.Error(err))
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if rider == nil {
			http.Error(w, "Rider not found", http.StatusBadRequest)
			return
		}
		user.RiderID = &riderID
	default:
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	existing, err := uc.Users.FindByEmail(ctx, user.Email)
	if err != nil {
		logger.Log.Error("failed to look up user", zap.Error(err))
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	user.Password = string(hashedPassword)

	if err := uc.Users.Insert(ctx, &user); err != nil {
		logger.Log.Error("failed to create user", zap.Error(err))
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &creds) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		logger.Log.Error("failed to look up user", zap.Error(err))
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	riderID := ""
	if user.RiderID != nil {
		riderID = user.RiderID.Hex()
	}
	token, err := utils.GenerateJWT(user.Email, user.Role, riderID)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		http.Error(w, "Could not parse user from context", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, claims.Email)
	if err != nil {
		logger.Log.Error("failed to look up user", zap.Error(err))
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
