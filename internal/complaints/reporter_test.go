package complaints

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed01061/Naafe/internal/api"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
)

type fakeSubmitter struct {
	err  error
	reqs []api.ComplaintRequest
}

func (f *fakeSubmitter) SubmitComplaint(ctx context.Context, req api.ComplaintRequest) error {
	f.reqs = append(f.reqs, req)
	return f.err
}

func conversation() domain.Conversation {
	return domain.Conversation{
		ID:         "c1",
		JobRequest: domain.JobRequest{ID: "jr1"},
		Participants: domain.Participants{
			Seeker:   domain.Participant{ID: "s1"},
			Provider: domain.Participant{ID: "p1"},
		},
	}
}

func TestSubmitReportsOtherParticipant(t *testing.T) {
	sub := &fakeSubmitter{}
	rec := &notify.Recorder{}
	r := NewReporter(sub, rec, zerolog.Nop())

	require.NoError(t, r.Submit(context.Background(), conversation(), "p1", Report{ProblemType: "payment", Description: "late"}))
	require.Len(t, sub.reqs, 1)
	assert.Equal(t, api.ComplaintRequest{ReportedUserID: "s1", JobRequestID: "jr1", ProblemType: "payment", Description: "late"}, sub.reqs[0])

	toast, _ := rec.Last()
	assert.Equal(t, notify.LevelSuccess, toast.Level)
}

func TestSubmitOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		level   notify.Level
		title   string
		message string
	}{
		{
			name:    "duplicate",
			err:     domain.NewRejectedError(400, "", "لديك بلاغ قيد المعالجة لهذا الطلب"),
			level:   notify.LevelWarning,
			title:   notify.TitleComplaintDuplicate,
			message: notify.MsgComplaintDuplicate,
		},
		{
			name:    "server message",
			err:     domain.NewRejectedError(400, "", "نوع المشكلة غير صالح"),
			level:   notify.LevelError,
			title:   notify.TitleComplaintFailed,
			message: "نوع المشكلة غير صالح",
		},
		{
			name:    "transport",
			err:     domain.NewTransportError(errors.New("refused")),
			level:   notify.LevelError,
			title:   notify.TitleComplaintFailed,
			message: notify.MsgComplaintFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &notify.Recorder{}
			r := NewReporter(&fakeSubmitter{err: tt.err}, rec, zerolog.Nop())

			assert.Error(t, r.Submit(context.Background(), conversation(), "s1", Report{ProblemType: "quality", Description: "bad"}))
			toast, ok := rec.Last()
			require.True(t, ok)
			assert.Equal(t, tt.level, toast.Level)
			assert.Equal(t, tt.title, toast.Title)
			assert.Equal(t, tt.message, toast.Message)
		})
	}
}

func TestSubmitValidatesBeforeSending(t *testing.T) {
	sub := &fakeSubmitter{}
	r := NewReporter(sub, &notify.Recorder{}, zerolog.Nop())

	err := r.Submit(context.Background(), conversation(), "s1", Report{ProblemType: "quality", Description: "   "})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Empty(t, sub.reqs)
}
