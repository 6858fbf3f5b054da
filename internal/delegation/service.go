package delegation

import (
	"context"
	"strings"
	"time"

	"github.com/pastoragenda/backend/internal/pastor"
)

type Service interface {
	// Invite creates a pending invitation from the owner to another
	// pastor's email address.
	Invite(ctx context.Context, ownerID, inviteeEmail string) (*Invitation, error)
	ListSent(ctx context.Context, ownerID string, filter Filter) ([]*Invitation, int, error)
	ListReceived(ctx context.Context, inviteeEmail string, filter Filter) ([]*Invitation, int, error)
	// Respond accepts or declines a pending invitation addressed to the
	// requester's account email.
	Respond(ctx context.Context, id, requesterEmail string, accept bool) (*Invitation, error)
	// Revoke withdraws an invitation; only the owner may revoke.
	Revoke(ctx context.Context, id, ownerID string) error
	// CanAccess reports whether requesterID may read ownerID's agenda:
	// true for the owner themselves and for accepted delegates.
	CanAccess(ctx context.Context, ownerID, requesterID string) (bool, error)
}

type service struct {
	repo          Repository
	pastorService pastor.Service
}

func NewService(repo Repository, pastorService pastor.Service) Service {
	return &service{repo: repo, pastorService: pastorService}
}

func (s *service) Invite(ctx context.Context, ownerID, inviteeEmail string) (*Invitation, error) {
	email := strings.ToLower(strings.TrimSpace(inviteeEmail))

	owner, err := s.pastorService.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Email == email {
		return nil, ErrSelfInvite
	}

	open, err := s.repo.HasOpenInvitation(ctx, ownerID, email)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrDuplicate
	}

	inv := &Invitation{
		OwnerID:       ownerID,
		OwnerUsername: owner.Username,
		InviteeEmail:  email,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *service) ListSent(ctx context.Context, ownerID string, filter Filter) ([]*Invitation, int, error) {
	return s.repo.ListByOwner(ctx, ownerID, filter)
}

func (s *service) ListReceived(ctx context.Context, inviteeEmail string, filter Filter) ([]*Invitation, int, error) {
	return s.repo.ListByInvitee(ctx, strings.ToLower(strings.TrimSpace(inviteeEmail)), filter)
}

func (s *service) Respond(ctx context.Context, id, requesterEmail string, accept bool) (*Invitation, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.InviteeEmail != strings.ToLower(strings.TrimSpace(requesterEmail)) {
		return nil, ErrPermissionDenied
	}
	if inv.Status != StatusPending {
		return nil, ErrAlreadyResponded
	}

	now := time.Now().UTC()
	inv.RespondedAt = &now
	if accept {
		inv.Status = StatusAccepted
	} else {
		inv.Status = StatusDeclined
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *service) Revoke(ctx context.Context, id, ownerID string) error {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.OwnerID != ownerID {
		return ErrPermissionDenied
	}
	if inv.Status == StatusRevoked {
		return nil
	}

	now := time.Now().UTC()
	inv.Status = StatusRevoked
	inv.RespondedAt = &now
	return s.repo.Update(ctx, inv)
}

func (s *service) CanAccess(ctx context.Context, ownerID, requesterID string) (bool, error) {
	if ownerID == requesterID {
		return true, nil
	}

	requester, err := s.pastorService.GetByID(ctx, requesterID)
	if err != nil {
		return false, err
	}

	return s.repo.HasAcceptedAccess(ctx, ownerID, requester.Email)
}
