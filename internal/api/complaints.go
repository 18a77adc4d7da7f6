package api

import (
	"context"
	"net/http"
)

// ComplaintRequest reports a problem with the other side of a job.
type ComplaintRequest struct {
	ReportedUserID string `json:"reportedUserId"`
	JobRequestID   string `json:"jobRequestId"`
	ProblemType    string `json:"problemType"`
	Description    string `json:"description"`
}

// SubmitComplaint files a complaint for admin review.
func (c *Client) SubmitComplaint(ctx context.Context, req ComplaintRequest) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/complaints",
		path:   "/api/complaints",
		auth:   true,
		body:   req,
	}, nil)
}
