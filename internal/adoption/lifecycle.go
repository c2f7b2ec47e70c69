package adoption

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawhaven/pawhaven-backend/internal/models"
)

// Notice is an outbound notification produced by a lifecycle transition.
// Transitions only return notices; persisting and pushing them is the
// notifier's job, and a delivery failure never rolls back the transition.
type Notice struct {
	RecipientID primitive.ObjectID
	Message     string
	PetID       primitive.ObjectID
	Type        models.NotificationType
}

// The lifecycle is a pure state machine over records the caller has already
// loaded: under review -> meet scheduled -> adopted. Rejection deletes the
// record instead of adding a status. Every operation takes the acting user's
// id explicitly; nothing is read from ambient context.
//
// Confirming one request deliberately leaves sibling requests for the same
// listing untouched; rejecting them stays a separate owner action.

type CreateRequestInput struct {
	Post          models.AdoptionPost
	Pet           models.Pet
	RequesterID   primitive.ObjectID
	RequesterName string
	HasExisting   bool // a request by this requester for this post already exists
	Now           time.Time
}

// CreateRequest opens a new adoption request in the under-review state and
// notifies the listing owner. Owners cannot request their own pets, and a
// second request for the same (requester, post) pair is a conflict. The
// HasExisting flag only gives a friendly early answer; the authoritative
// duplicate guard is the unique (adoption_id, requester_id) index, which
// stays atomic under concurrent creates.
func CreateRequest(in CreateRequestInput) (models.AdoptionRequest, []Notice, error) {
	if in.Pet.OwnerID == in.RequesterID {
		return models.AdoptionRequest{}, nil, fmt.Errorf("%w: you cannot request adoption of your own pet", ErrConflict)
	}
	if in.HasExisting {
		return models.AdoptionRequest{}, nil, fmt.Errorf("%w: adoption request already sent for this pet", ErrConflict)
	}

	request := models.AdoptionRequest{
		AdoptionID:  in.Post.ID,
		RequesterID: in.RequesterID,
		Status:      models.RequestUnderReview,
		CreatedAt:   in.Now,
		UpdatedAt:   in.Now,
	}

	notices := []Notice{{
		RecipientID: in.Pet.OwnerID,
		Message:     fmt.Sprintf("New adoption request for %s from %s", in.Pet.Name, in.RequesterName),
		PetID:       in.Pet.ID,
		Type:        models.NotificationAdoptionRequest,
	}}

	return request, notices, nil
}

type ScheduleMeetingInput struct {
	Request     models.AdoptionRequest
	Pet         models.Pet
	ActorID     primitive.ObjectID
	OwnerPhone  string // owner contact passed along to the requester
	MeetingDate time.Time
	Notes       string
	Now         time.Time
}

// ScheduleMeeting moves a request to meet-scheduled. Calling it again while
// already scheduled is an edit: the date and notes are replaced and the
// requester is re-notified.
func ScheduleMeeting(in ScheduleMeetingInput) (models.AdoptionRequest, []Notice, error) {
	if in.Pet.OwnerID != in.ActorID {
		return in.Request, nil, fmt.Errorf("%w: only the listing owner can schedule a meeting", ErrNotAuthorized)
	}
	if in.MeetingDate.IsZero() {
		return in.Request, nil, fmt.Errorf("%w: meeting date is required", ErrValidation)
	}

	switch in.Request.Status {
	case models.RequestUnderReview, models.RequestMeetingScheduled:
		// allowed
	case models.RequestAdopted:
		return in.Request, nil, fmt.Errorf("%w: request is already completed", ErrConflict)
	default:
		return in.Request, nil, fmt.Errorf("%w: unknown request status %q", ErrConflict, in.Request.Status)
	}

	updated := in.Request
	meetingDate := in.MeetingDate
	updated.MeetingDate = &meetingDate
	updated.Notes = in.Notes
	updated.Status = models.RequestMeetingScheduled
	updated.UpdatedAt = in.Now

	contact := " Please check your adoption posts for contact details."
	if in.OwnerPhone != "" {
		contact = fmt.Sprintf(" Please contact %s for further details.", in.OwnerPhone)
	}

	notices := []Notice{{
		RecipientID: in.Request.RequesterID,
		Message: fmt.Sprintf("Great news! A meeting has been scheduled for your adoption request for %s on %s.%s",
			in.Pet.Name, in.MeetingDate.Format("Monday, January 2, 2006 at 3:04 PM"), contact),
		PetID: in.Pet.ID,
		Type:  models.NotificationMeetingScheduled,
	}}

	return updated, notices, nil
}

type ConfirmAdoptionInput struct {
	Request models.AdoptionRequest
	Pet     models.Pet
	ActorID primitive.ObjectID
	Now     time.Time
}

// ConfirmAdoptionResult carries both records changed by a confirmation.
type ConfirmAdoptionResult struct {
	Request models.AdoptionRequest
	Pet     models.Pet
}

// ConfirmAdoption completes a request: the pet's ownership transfers to the
// requester, the pet is marked adopted, and the requester is congratulated.
func ConfirmAdoption(in ConfirmAdoptionInput) (ConfirmAdoptionResult, []Notice, error) {
	if in.Pet.OwnerID != in.ActorID {
		return ConfirmAdoptionResult{}, nil, fmt.Errorf("%w: only the listing owner can confirm an adoption", ErrNotAuthorized)
	}

	switch in.Request.Status {
	case models.RequestUnderReview, models.RequestMeetingScheduled:
		// allowed
	case models.RequestAdopted:
		return ConfirmAdoptionResult{}, nil, fmt.Errorf("%w: request is already completed", ErrConflict)
	default:
		return ConfirmAdoptionResult{}, nil, fmt.Errorf("%w: unknown request status %q", ErrConflict, in.Request.Status)
	}

	request := in.Request
	request.Status = models.RequestAdopted
	request.UpdatedAt = in.Now

	pet := in.Pet
	pet.OwnerID = in.Request.RequesterID
	pet.Status = models.PetAdopted

	notices := []Notice{{
		RecipientID: in.Request.RequesterID,
		Message:     fmt.Sprintf("Congratulations! Your adoption request for %s has been accepted. You are now the proud owner!", in.Pet.Name),
		PetID:       in.Pet.ID,
		Type:        models.NotificationAdoptionAccepted,
	}}

	return ConfirmAdoptionResult{Request: request, Pet: pet}, notices, nil
}

type RejectRequestInput struct {
	Request models.AdoptionRequest
	Pet     models.Pet
	ActorID primitive.ObjectID
}

// RejectRequest validates a rejection. The caller deletes the record once
// this returns; the notices inform the requester.
func RejectRequest(in RejectRequestInput) ([]Notice, error) {
	if in.Pet.OwnerID != in.ActorID {
		return nil, fmt.Errorf("%w: only the listing owner can reject a request", ErrNotAuthorized)
	}
	if in.Request.Status == models.RequestAdopted {
		return nil, fmt.Errorf("%w: a completed adoption cannot be rejected", ErrConflict)
	}

	return []Notice{{
		RecipientID: in.Request.RequesterID,
		Message:     fmt.Sprintf("Your adoption request for %s has been rejected.", in.Pet.Name),
		PetID:       in.Pet.ID,
		Type:        models.NotificationAdoptionRejected,
	}}, nil
}

// LikeNotice builds the one-shot notification sent when someone likes an
// adoption post. Not part of the request lifecycle; owners liking their own
// posts produce no notice.
func LikeNotice(pet models.Pet, likerID primitive.ObjectID, likerName string, totalLikes int) (Notice, bool) {
	if pet.OwnerID == likerID {
		return Notice{}, false
	}
	return Notice{
		RecipientID: pet.OwnerID,
		Message:     fmt.Sprintf("%s liked your adoption post for %s! (%d likes)", likerName, pet.Name, totalLikes),
		PetID:       pet.ID,
		Type:        models.NotificationPostLiked,
	}, true
}
