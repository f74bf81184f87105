package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/database"
	"github.com/thereayou/campus-hub/internal/handlers/dto"
	"github.com/thereayou/campus-hub/internal/membership"
	"github.com/thereayou/campus-hub/internal/middleware"
	"github.com/thereayou/campus-hub/internal/models"
)

type ClubHandler struct {
	clubs      ClubStore
	membership Membership
	online     OnlineLister
	log        *zap.Logger
}

func NewClubHandler(clubs ClubStore, m Membership, online OnlineLister, log *zap.Logger) *ClubHandler {
	return &ClubHandler{clubs: clubs, membership: m, online: online, log: log}
}

// CreateClub создает клуб; создатель становится владельцем и участником
func (h *ClubHandler) CreateClub(c *gin.Context) {
	var req dto.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	privacy := models.PrivacyPublic
	if req.Privacy != "" {
		privacy = models.Privacy(req.Privacy)
	}

	club := &models.Club{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     middleware.UserID(c),
		Privacy:     privacy,
	}
	if err := h.clubs.CreateClub(c.Request.Context(), club); err != nil {
		internalError(c, h.log, "failed to create club", err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewClubResponse(club))
}

func (h *ClubHandler) GetClub(c *gin.Context) {
	club, err := h.clubs.GetClubWithMembers(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
		return
	}
	if err != nil {
		internalError(c, h.log, "failed to load club", err)
		return
	}

	resp := dto.NewClubResponse(club)
	resp.OnlineUsers = h.online.Users(club.ID)
	c.JSON(http.StatusOK, resp)
}

// JoinClub вступает в открытый клуб или создает заявку в закрытый
func (h *ClubHandler) JoinClub(c *gin.Context) {
	outcome, err := h.membership.RequestJoin(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		workflowError(c, h.log, err)
		return
	}

	status := http.StatusOK
	if outcome == membership.OutcomePending {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{"status": outcome})
}

func (h *ClubHandler) LeaveClub(c *gin.Context) {
	if err := h.membership.Leave(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		workflowError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRequests - pending-заявки клуба, только для владельца
func (h *ClubHandler) ListRequests(c *gin.Context) {
	reqs, err := h.membership.PendingRequests(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		workflowError(c, h.log, err)
		return
	}

	out := make([]dto.JoinRequestResponse, len(reqs))
	for i, r := range reqs {
		out[i] = dto.JoinRequestResponse{
			UserID:    r.UserID,
			User:      dto.NewUserInfo(r.User),
			Status:    string(r.Status),
			CreatedAt: r.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"requests": out})
}

func (h *ClubHandler) ApproveRequest(c *gin.Context) {
	err := h.membership.Approve(c.Request.Context(), c.Param("id"), c.Param("userId"), middleware.UserID(c))
	if err != nil {
		workflowError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.RequestApproved})
}

func (h *ClubHandler) RejectRequest(c *gin.Context) {
	err := h.membership.Reject(c.Request.Context(), c.Param("id"), c.Param("userId"), middleware.UserID(c))
	if err != nil {
		workflowError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.RequestRejected})
}

func (h *ClubHandler) OnlineUsers(c *gin.Context) {
	users := h.online.Users(c.Param("id"))
	if users == nil {
		users = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
