package adoption

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pawhaven/pawhaven-backend/internal/models"
)

type lifecycleFixture struct {
	owner     primitive.ObjectID
	requester primitive.ObjectID
	pet       models.Pet
	post      models.AdoptionPost
	now       time.Time
}

func newLifecycleFixture() lifecycleFixture {
	owner := primitive.NewObjectID()
	pet := models.Pet{
		ID:      primitive.NewObjectID(),
		OwnerID: owner,
		Name:    "Biscuit",
		Status:  models.PetAvailable,
	}
	return lifecycleFixture{
		owner:     owner,
		requester: primitive.NewObjectID(),
		pet:       pet,
		post: models.AdoptionPost{
			ID:    primitive.NewObjectID(),
			PetID: pet.ID,
			Type:  models.AdoptionPermanent,
		},
		now: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateRequest(t *testing.T) {
	f := newLifecycleFixture()

	t.Run("creates an under-review request and notifies the owner", func(t *testing.T) {
		request, notices, err := CreateRequest(CreateRequestInput{
			Post:          f.post,
			Pet:           f.pet,
			RequesterID:   f.requester,
			RequesterName: "Maya",
			Now:           f.now,
		})

		require.NoError(t, err)
		assert.Equal(t, models.RequestUnderReview, request.Status)
		assert.Equal(t, f.post.ID, request.AdoptionID)
		assert.Equal(t, f.requester, request.RequesterID)
		assert.Equal(t, f.now, request.CreatedAt)

		require.Len(t, notices, 1)
		assert.Equal(t, f.owner, notices[0].RecipientID)
		assert.Equal(t, models.NotificationAdoptionRequest, notices[0].Type)
		assert.Contains(t, notices[0].Message, "Biscuit")
		assert.Contains(t, notices[0].Message, "Maya")
	})

	t.Run("duplicate request is a conflict", func(t *testing.T) {
		_, _, err := CreateRequest(CreateRequestInput{
			Post:        f.post,
			Pet:         f.pet,
			RequesterID: f.requester,
			HasExisting: true,
			Now:         f.now,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("owner cannot request their own pet", func(t *testing.T) {
		_, _, err := CreateRequest(CreateRequestInput{
			Post:        f.post,
			Pet:         f.pet,
			RequesterID: f.owner,
			Now:         f.now,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestScheduleMeeting(t *testing.T) {
	f := newLifecycleFixture()
	request := models.AdoptionRequest{
		ID:          primitive.NewObjectID(),
		AdoptionID:  f.post.ID,
		RequesterID: f.requester,
		Status:      models.RequestUnderReview,
	}
	meeting := time.Date(2025, 1, 15, 14, 0, 0, 0, time.UTC)

	t.Run("owner schedules a meeting", func(t *testing.T) {
		updated, notices, err := ScheduleMeeting(ScheduleMeetingInput{
			Request:     request,
			Pet:         f.pet,
			ActorID:     f.owner,
			OwnerPhone:  "555-0101",
			MeetingDate: meeting,
			Notes:       "bring leash",
			Now:         f.now,
		})

		require.NoError(t, err)
		assert.Equal(t, models.RequestMeetingScheduled, updated.Status)
		require.NotNil(t, updated.MeetingDate)
		assert.Equal(t, meeting, *updated.MeetingDate)
		assert.Equal(t, "bring leash", updated.Notes)

		require.Len(t, notices, 1)
		assert.Equal(t, f.requester, notices[0].RecipientID)
		assert.Equal(t, models.NotificationMeetingScheduled, notices[0].Type)
		assert.Contains(t, notices[0].Message, "555-0101")
	})

	t.Run("rescheduling edits date and notes", func(t *testing.T) {
		scheduled := request
		scheduled.Status = models.RequestMeetingScheduled
		earlier := meeting
		scheduled.MeetingDate = &earlier

		later := meeting.Add(48 * time.Hour)
		updated, notices, err := ScheduleMeeting(ScheduleMeetingInput{
			Request:     scheduled,
			Pet:         f.pet,
			ActorID:     f.owner,
			MeetingDate: later,
			Notes:       "side entrance",
			Now:         f.now,
		})

		require.NoError(t, err)
		assert.Equal(t, models.RequestMeetingScheduled, updated.Status)
		assert.Equal(t, later, *updated.MeetingDate)
		assert.Equal(t, "side entrance", updated.Notes)
		assert.Len(t, notices, 1)
	})

	t.Run("missing meeting date fails validation", func(t *testing.T) {
		_, _, err := ScheduleMeeting(ScheduleMeetingInput{
			Request: request,
			Pet:     f.pet,
			ActorID: f.owner,
			Now:     f.now,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("non-owner is rejected without state change", func(t *testing.T) {
		unchanged, _, err := ScheduleMeeting(ScheduleMeetingInput{
			Request:     request,
			Pet:         f.pet,
			ActorID:     f.requester,
			MeetingDate: meeting,
			Now:         f.now,
		})
		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Equal(t, models.RequestUnderReview, unchanged.Status)
		assert.Nil(t, unchanged.MeetingDate)
	})

	t.Run("completed request cannot be rescheduled", func(t *testing.T) {
		done := request
		done.Status = models.RequestAdopted
		_, _, err := ScheduleMeeting(ScheduleMeetingInput{
			Request:     done,
			Pet:         f.pet,
			ActorID:     f.owner,
			MeetingDate: meeting,
			Now:         f.now,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestConfirmAdoption(t *testing.T) {
	f := newLifecycleFixture()
	request := models.AdoptionRequest{
		ID:          primitive.NewObjectID(),
		AdoptionID:  f.post.ID,
		RequesterID: f.requester,
		Status:      models.RequestMeetingScheduled,
	}

	t.Run("happy path transfers ownership", func(t *testing.T) {
		result, notices, err := ConfirmAdoption(ConfirmAdoptionInput{
			Request: request,
			Pet:     f.pet,
			ActorID: f.owner,
			Now:     f.now,
		})

		require.NoError(t, err)
		assert.Equal(t, models.RequestAdopted, result.Request.Status)
		assert.Equal(t, f.requester, result.Pet.OwnerID)
		assert.Equal(t, models.PetAdopted, result.Pet.Status)

		require.Len(t, notices, 1)
		assert.Equal(t, f.requester, notices[0].RecipientID)
		assert.Equal(t, models.NotificationAdoptionAccepted, notices[0].Type)
	})

	t.Run("confirm straight from under review is allowed", func(t *testing.T) {
		fresh := request
		fresh.Status = models.RequestUnderReview
		result, _, err := ConfirmAdoption(ConfirmAdoptionInput{
			Request: fresh,
			Pet:     f.pet,
			ActorID: f.owner,
			Now:     f.now,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RequestAdopted, result.Request.Status)
	})

	t.Run("non-owner cannot confirm", func(t *testing.T) {
		_, _, err := ConfirmAdoption(ConfirmAdoptionInput{
			Request: request,
			Pet:     f.pet,
			ActorID: f.requester,
			Now:     f.now,
		})
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("double confirmation is a conflict", func(t *testing.T) {
		done := request
		done.Status = models.RequestAdopted
		_, _, err := ConfirmAdoption(ConfirmAdoptionInput{
			Request: done,
			Pet:     f.pet,
			ActorID: f.owner,
			Now:     f.now,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("confirmation produces no effects for sibling requests", func(t *testing.T) {
		_, notices, err := ConfirmAdoption(ConfirmAdoptionInput{
			Request: request,
			Pet:     f.pet,
			ActorID: f.owner,
			Now:     f.now,
		})
		require.NoError(t, err)
		// Only the accepted requester hears about it; siblings stay pending
		// until the owner rejects them explicitly.
		require.Len(t, notices, 1)
		assert.Equal(t, request.RequesterID, notices[0].RecipientID)
	})
}

func TestRejectRequest(t *testing.T) {
	f := newLifecycleFixture()
	request := models.AdoptionRequest{
		ID:          primitive.NewObjectID(),
		AdoptionID:  f.post.ID,
		RequesterID: f.requester,
		Status:      models.RequestUnderReview,
	}

	t.Run("owner rejects and requester is notified", func(t *testing.T) {
		notices, err := RejectRequest(RejectRequestInput{
			Request: request,
			Pet:     f.pet,
			ActorID: f.owner,
		})
		require.NoError(t, err)
		require.Len(t, notices, 1)
		assert.Equal(t, f.requester, notices[0].RecipientID)
		assert.Equal(t, models.NotificationAdoptionRejected, notices[0].Type)
	})

	t.Run("non-owner cannot reject", func(t *testing.T) {
		_, err := RejectRequest(RejectRequestInput{
			Request: request,
			Pet:     f.pet,
			ActorID: f.requester,
		})
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("completed adoption cannot be rejected", func(t *testing.T) {
		done := request
		done.Status = models.RequestAdopted
		_, err := RejectRequest(RejectRequestInput{
			Request: done,
			Pet:     f.pet,
			ActorID: f.owner,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestLikeNotice(t *testing.T) {
	f := newLifecycleFixture()

	t.Run("liker notifies the owner", func(t *testing.T) {
		notice, ok := LikeNotice(f.pet, f.requester, "Maya", 3)
		require.True(t, ok)
		assert.Equal(t, f.owner, notice.RecipientID)
		assert.Equal(t, models.NotificationPostLiked, notice.Type)
		assert.Contains(t, notice.Message, "3 likes")
	})

	t.Run("owner liking their own post is silent", func(t *testing.T) {
		_, ok := LikeNotice(f.pet, f.owner, "Self", 1)
		assert.False(t, ok)
	})
}
