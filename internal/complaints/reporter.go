// Package complaints files problem reports against the other side of a job.
package complaints

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/api"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
)

// Submitter posts a complaint.
type Submitter interface {
	SubmitComplaint(ctx context.Context, req api.ComplaintRequest) error
}

// Report is what the user filled in.
type Report struct {
	ProblemType string `validate:"required"`
	Description string `validate:"required,max=2000"`
}

// Reporter submits reports and tells the user how it went.
type Reporter struct {
	api      Submitter
	notifier notify.Notifier
	validate *validator.Validate
	log      zerolog.Logger
}

func NewReporter(sub Submitter, notifier notify.Notifier, log zerolog.Logger) *Reporter {
	return &Reporter{
		api:      sub,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "complaints").Logger(),
	}
}

// Submit reports the participant userID is talking to in conv.
// A pending complaint on the same job is reported as a warning.
func (r *Reporter) Submit(ctx context.Context, conv domain.Conversation, userID string, report Report) error {
	report.ProblemType = strings.TrimSpace(report.ProblemType)
	report.Description = strings.TrimSpace(report.Description)
	if err := r.validate.Struct(report); err != nil {
		r.notifier.Error(notify.TitleComplaintFailed, notify.AlertRequiredFields)
		return domain.NewValidationError("report", err.Error())
	}

	req := api.ComplaintRequest{
		ReportedUserID: conv.OtherParticipant(userID).ID,
		JobRequestID:   conv.JobRequest.ID,
		ProblemType:    report.ProblemType,
		Description:    report.Description,
	}
	if err := r.api.SubmitComplaint(ctx, req); err != nil {
		msg := domain.MessageOf(err)
		if strings.Contains(msg, notify.ComplaintPendingMarker) {
			r.notifier.Warning(notify.TitleComplaintDuplicate, notify.MsgComplaintDuplicate)
			return err
		}
		r.log.Error().Err(err).Str("job_request_id", req.JobRequestID).Msg("submit complaint failed")
		if msg == "" {
			msg = notify.MsgComplaintFailed
		}
		r.notifier.Error(notify.TitleComplaintFailed, msg)
		return err
	}

	r.log.Info().Str("job_request_id", req.JobRequestID).Str("problem_type", req.ProblemType).Msg("complaint submitted")
	r.notifier.Success(notify.TitleComplaintSent, notify.MsgComplaintSent)
	return nil
}
