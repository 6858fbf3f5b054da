package http

import (
	"time"

	"github.com/pastoragenda/backend/internal/delegation"
	"github.com/pastoragenda/backend/internal/pkg/request"
)

// InviteRequest is the payload for POST /delegations.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ListInvitationsRequest defines query parameters for invitation listings.
type ListInvitationsRequest struct {
	request.ListParams
}

// InvitationResponse is the API shape of a delegation invitation.
type InvitationResponse struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	OwnerUsername string     `json:"owner_username"`
	InviteeEmail  string     `json:"invitee_email"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	RespondedAt   *time.Time `json:"responded_at"`
}

func NewInvitationResponse(inv *delegation.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:            inv.ID,
		OwnerID:       inv.OwnerID,
		OwnerUsername: inv.OwnerUsername,
		InviteeEmail:  inv.InviteeEmail,
		Status:        string(inv.Status),
		CreatedAt:     inv.CreatedAt,
		RespondedAt:   inv.RespondedAt,
	}
}
