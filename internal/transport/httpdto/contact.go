package httpdto

import "coachdesk/internal/contacts"

type CoachContactDTO struct {
	UserID    string `json:"userId"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Source    string `json:"source"`
}

type StudentTargetDTO struct {
	StudentID string `json:"studentId"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type GroupTargetDTO struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

type PendingRequestDTO struct {
	RequestID string `json:"requestId"`
	UserID    string `json:"userId"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type ContactsResponse struct {
	CoachContacts                      []CoachContactDTO   `json:"coachContacts"`
	StudentTargets                     []StudentTargetDTO  `json:"studentTargets"`
	GroupTargets                       []GroupTargetDTO    `json:"groupTargets"`
	PendingIncomingCoachContactRequests []PendingRequestDTO `json:"pendingIncomingCoachContactRequests"`
	PendingOutgoingCoachContactRequests []PendingRequestDTO `json:"pendingOutgoingCoachContactRequests"`
}

func NewContactsResponse(r *contacts.Result) ContactsResponse {
	out := ContactsResponse{
		CoachContacts:                      []CoachContactDTO{},
		StudentTargets:                     []StudentTargetDTO{},
		GroupTargets:                       []GroupTargetDTO{},
		PendingIncomingCoachContactRequests: []PendingRequestDTO{},
		PendingOutgoingCoachContactRequests: []PendingRequestDTO{},
	}
	for _, c := range r.CoachContacts {
		out.CoachContacts = append(out.CoachContacts, CoachContactDTO{
			UserID:    c.UserID.String(),
			FullName:  c.FullName,
			AvatarURL: c.AvatarURL,
			Source:    c.Source,
		})
	}
	for _, s := range r.StudentTargets {
		out.StudentTargets = append(out.StudentTargets, StudentTargetDTO{
			StudentID: s.StudentID.String(),
			FullName:  s.FullName,
			AvatarURL: s.AvatarURL,
		})
	}
	for _, g := range r.GroupTargets {
		out.GroupTargets = append(out.GroupTargets, GroupTargetDTO{
			GroupID: g.GroupID.String(),
			Name:    g.Name,
		})
	}
	for _, p := range r.PendingIncoming {
		out.PendingIncomingCoachContactRequests = append(out.PendingIncomingCoachContactRequests, newPendingDTO(p))
	}
	for _, p := range r.PendingOutgoing {
		out.PendingOutgoingCoachContactRequests = append(out.PendingOutgoingCoachContactRequests, newPendingDTO(p))
	}
	return out
}

func newPendingDTO(p contacts.PendingRequest) PendingRequestDTO {
	return PendingRequestDTO{
		RequestID: p.RequestID.String(),
		UserID:    p.UserID.String(),
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
	}
}

type CreateContactRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ContactRequestDTO struct {
	ID              string `json:"id"`
	RequesterUserID string `json:"requesterUserId"`
	RecipientUserID string `json:"recipientUserId"`
	Status          string `json:"status"`
}
