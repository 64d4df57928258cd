package services

import (
	"context"
	"errors"
	"time"

	"coachdesk/internal/actor"
	"coachdesk/internal/domain/account"
	"coachdesk/internal/domain/contact"
	"coachdesk/internal/repository"
	coachdesk_errors "coachdesk/pkg/errors"

	"github.com/google/uuid"
)

// ContactService runs the coach-contact opt-in lifecycle: request,
// accept, reject. An accepted request becomes a symmetric CoachContact
// row that the access rules consult at write time.
type ContactService struct {
	contactRepo repository.ContactRepository
	profileRepo repository.ProfileRepository
}

func NewContactService(contactRepo repository.ContactRepository, profileRepo repository.ProfileRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo, profileRepo: profileRepo}
}

// Request creates a pending opt-in toward the coach behind the given
// email address.
func (s *ContactService) Request(ctx context.Context, act *actor.Context, email string) (contact.CoachContactRequest, error) {
	if !act.IsCoachLike() {
		return contact.CoachContactRequest{}, coachdesk_errors.ErrForbidden
	}

	recipient, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return contact.CoachContactRequest{}, err
	}
	if recipient.UserID == act.UserID || !account.IsCoachLike(recipient.Role) {
		return contact.CoachContactRequest{}, coachdesk_errors.ErrInvalidInput
	}

	if _, err := s.contactRepo.GetContactForPair(ctx, act.UserID, recipient.UserID); err == nil {
		return contact.CoachContactRequest{}, coachdesk_errors.ErrAlreadyExists
	} else if !errors.Is(err, coachdesk_errors.ErrNotFound) {
		return contact.CoachContactRequest{}, err
	}

	pending, err := s.contactRepo.HasPendingForPair(ctx, act.UserID, recipient.UserID)
	if err != nil {
		return contact.CoachContactRequest{}, err
	}
	if pending {
		return contact.CoachContactRequest{}, coachdesk_errors.ErrConflict
	}

	req := contact.CoachContactRequest{
		ID:              uuid.New(),
		RequesterUserID: act.UserID,
		RecipientUserID: recipient.UserID,
		Status:          contact.RequestStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.contactRepo.CreateRequest(ctx, &req); err != nil {
		return contact.CoachContactRequest{}, err
	}
	return req, nil
}

// Accept turns a pending request into an accepted contact. Only the
// recipient may respond.
func (s *ContactService) Accept(ctx context.Context, act *actor.Context, requestID uuid.UUID) error {
	req, err := s.respondable(ctx, act, requestID)
	if err != nil {
		return err
	}

	err = s.contactRepo.CreateContact(ctx, &contact.CoachContact{
		ID:        uuid.New(),
		UserAID:   req.RequesterUserID,
		UserBID:   req.RecipientUserID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil && !errors.Is(err, coachdesk_errors.ErrAlreadyExists) {
		return err
	}

	req.Status = contact.RequestStatusAccepted
	req.RespondedAt.Time = time.Now().UTC()
	req.RespondedAt.Valid = true
	return s.contactRepo.UpdateRequest(ctx, req)
}

// Reject declines a pending request.
func (s *ContactService) Reject(ctx context.Context, act *actor.Context, requestID uuid.UUID) error {
	req, err := s.respondable(ctx, act, requestID)
	if err != nil {
		return err
	}
	req.Status = contact.RequestStatusRejected
	req.RespondedAt.Time = time.Now().UTC()
	req.RespondedAt.Valid = true
	return s.contactRepo.UpdateRequest(ctx, req)
}

func (s *ContactService) respondable(ctx context.Context, act *actor.Context, requestID uuid.UUID) (contact.CoachContactRequest, error) {
	req, err := s.contactRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return contact.CoachContactRequest{}, err
	}
	if req.RecipientUserID != act.UserID {
		return contact.CoachContactRequest{}, coachdesk_errors.ErrForbidden
	}
	if req.Status != contact.RequestStatusPending {
		return contact.CoachContactRequest{}, coachdesk_errors.ErrConflict
	}
	return req, nil
}
