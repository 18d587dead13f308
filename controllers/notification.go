package controllers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"go-logistics/logger"
	"go-logistics/models"
)

type NotificationStore interface {
	Latest(ctx context.Context, limit int64) ([]models.Notification, error)
}

// SweepRunner runs the Delivered Pending sweep on demand
type SweepRunner interface {
	RunOnce(ctx context.Context) (int64, error)
}

// AdminController serves the notification feed and admin maintenance actions
type AdminController struct {
	Notifications NotificationStore
	Sweeper       SweepRunner
}

func NewAdminController(notifications NotificationStore, sweeper SweepRunner) *AdminController {
	return &AdminController{Notifications: notifications, Sweeper: sweeper}
}

// GetNotifications lists the latest notifications
func (ac *AdminController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, 50)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	notifications, err := ac.Notifications.Latest(ctx, limit)
	if err != nil {
		logger.Log.Error("failed to list notifications", zap.Error(err))
		http.Error(w, "Failed to retrieve notifications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// RunSweep promotes stale Delivered Pending orders now
func (ac *AdminController) RunSweep(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	promoted, err := ac.Sweeper.RunOnce(ctx)
	if err != nil {
		logger.Log.Error("manual sweep failed", zap.Error(err))
		http.Error(w, "Failed to run sweep", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"promoted": promoted})
}
