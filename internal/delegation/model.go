package delegation

import (
	"net/http"
	"time"

	"github.com/pastoragenda/backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "invitation not found")
	ErrSelfInvite       = apperror.New(http.StatusBadRequest, "cannot invite yourself")
	ErrDuplicate        = apperror.New(http.StatusConflict, "an invitation for this email already exists")
	ErrAlreadyResponded = apperror.New(http.StatusConflict, "invitation has already been responded to")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
	StatusRevoked  Status = "revoked"
)

// Invitation grants another pastor read access to the owner's agenda
// once accepted ("master pastor" access).
type Invitation struct {
	ID            string
	OwnerID       string
	OwnerUsername string // joined on read
	InviteeEmail  string
	Status        Status
	CreatedAt     time.Time
	RespondedAt   *time.Time
}

// Filter defines parameters for listing invitations.
type Filter struct {
	Page     int
	PageSize int
}
