package handlers

import (
	"net/http"

	"github.com/paymybuddy/backend/internal/models"
	"github.com/paymybuddy/backend/internal/services"
)

// AddRelationRequest names the account the caller wants to be able to pay
// @Description Add relation request
type AddRelationRequest struct {
	Identifier string `json:"identifier" validate:"required,max=100" example:"bob@example.com"` // Email or username, depending on RELATION_FRIEND_LOOKUP
}

type RelationHandler struct {
	relations *services.RelationshipService
	invites   *services.InviteService
	validator *services.ValidationHelper
}

func NewRelationHandler(relations *services.RelationshipService, invites *services.InviteService) *RelationHandler {
	return &RelationHandler{
		relations: relations,
		invites:   invites,
		validator: services.NewValidationHelper(),
	}
}

// ListRelations lists the accounts the caller may pay
// @Summary List relations
// @Description List the accounts the authenticated user may send money to, ordered by username
// @Tags relations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AccountSummary
// @Failure 401 {object} services.ErrorResponse
// @Router /relations [get]
func (h *RelationHandler) ListRelations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	friends, err := h.relations.ListFriends(r.Context(), userID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	summaries := make([]models.AccountSummary, 0, len(friends))
	for i := range friends {
		summaries = append(summaries, friends[i].Summary())
	}
	writeJSON(w, http.StatusOK, summaries)
}

// AddRelation authorizes the caller to pay another account
// @Summary Add relation
// @Description Allow the authenticated user to send money to another account. The relation is one-directional.
// @Tags relations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddRelationRequest true "Relation request"
// @Success 201 {object} models.AccountSummary
// @Failure 400 {object} services.ErrorResponse "Self relation or invalid identifier"
// @Failure 404 {object} services.ErrorResponse "Account not found"
// @Failure 409 {object} services.ErrorResponse "Relation already exists"
// @Router /relations [post]
func (h *RelationHandler) AddRelation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req AddRelationRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	friend, err := h.relations.AddRelation(r.Context(), userID, req.Identifier)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, friend.Summary())
}

// CreateInvite generates a QR invite code
// @Summary Create invite
// @Description Generate a short-lived invite code and QR image. Whoever accepts it may pay the inviter.
// @Tags relations
// @Produce json
// @Security BearerAuth
// @Success 201 {object} services.Invite
// @Failure 400 {object} services.ErrorResponse "Rate limit exceeded"
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse "Invites unavailable"
// @Router /relations/invites [post]
func (h *RelationHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	invite, err := h.invites.GenerateInvite(r.Context(), userID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, invite)
}

// AcceptInvite redeems an invite code
// @Summary Accept invite
// @Description Redeem an invite code; the caller becomes able to pay the inviter
// @Tags relations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{code=string} true "Invite code"
// @Success 201 {object} models.AccountSummary
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse "Unknown or expired code"
// @Failure 409 {object} services.ErrorResponse "Relation already exists"
// @Router /relations/invites/accept [post]
func (h *RelationHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code" validate:"required,max=32"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	inviter, err := h.invites.AcceptInvite(r.Context(), userID, req.Code)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, inviter.Summary())
}
