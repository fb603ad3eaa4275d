package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerwise-ai/careerwise/internal/db"
	"github.com/careerwise-ai/careerwise/internal/models"
)

type createProfileRequest struct {
	FullName          string   `json:"full_name"`
	Email             string   `json:"email"`
	UserType          string   `json:"user_type"`
	ExperienceLevel   string   `json:"experience_level"`
	IndustryInterests []string `json:"industry_interests"`
	CareerGoals       []string `json:"career_goals"`
	Skills            []string `json:"skills"`
	Location          string   `json:"location"`
	Bio               string   `json:"bio"`
}

func (h *Handler) handleCreateProfile(c *gin.Context) {
	identity := callerIdentity(c)

	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	email := req.Email
	if email == "" {
		email = identity.Email
	}

	profile := &models.UserProfile{
		UserID:            identity.ID,
		FullName:          req.FullName,
		Email:             email,
		UserType:          models.ParseUserType(req.UserType),
		ExperienceLevel:   models.ExperienceLevel(req.ExperienceLevel),
		IndustryInterests: req.IndustryInterests,
		CareerGoals:       req.CareerGoals,
		Skills:            req.Skills,
		Location:          req.Location,
		Bio:               req.Bio,
	}

	ctx := c.Request.Context()
	created, err := h.store.CreateProfile(ctx, profile)
	if err != nil {
		if errors.Is(err, db.ErrProfileExists) {
			writeError(c, http.StatusBadRequest, "profile already exists", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to create profile", err)
		return
	}

	h.cache.SetProfile(ctx, identity.ID, created)
	c.JSON(http.StatusOK, created)
}

func (h *Handler) handleGetProfile(c *gin.Context) {
	identity := callerIdentity(c)
	ctx := c.Request.Context()

	if profile, ok := h.cache.GetProfile(ctx, identity.ID); ok {
		c.JSON(http.StatusOK, profile)
		return
	}

	profile, err := h.store.GetProfile(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(c, http.StatusNotFound, "profile not found", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to load profile", err)
		return
	}

	h.cache.SetProfile(ctx, identity.ID, profile)
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) handleUpdateProfile(c *gin.Context) {
	identity := callerIdentity(c)

	var update models.UserProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		writeError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	ctx := c.Request.Context()
	profile, err := h.store.UpdateProfile(ctx, identity.ID, update)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(c, http.StatusNotFound, "profile not found", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to update profile", err)
		return
	}

	h.cache.SetProfile(ctx, identity.ID, profile)
	c.JSON(http.StatusOK, profile)
}

// handleDeleteProfile removes the store row first; the cache entry goes
// second so a failure cannot leave a profile that exists only in cache.
func (h *Handler) handleDeleteProfile(c *gin.Context) {
	identity := callerIdentity(c)
	ctx := c.Request.Context()

	if err := h.store.DeleteProfile(ctx, identity.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(c, http.StatusNotFound, "profile not found", err)
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to delete profile", err)
		return
	}

	h.cache.DeleteProfile(ctx, identity.ID)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
