package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
)

const (
	MaxImageBytes       = 5 * 1024 * 1024
	DefaultUploadURL    = "https://api.imgbb.com/1/upload"
	PlaceholderImageURL = "https://via.placeholder.com/300x200/2D5D4F/FFFFFF?text=صورة+الإعلان"
)

// UploaderConfig configures the image host.
type UploaderConfig struct {
	// APIKey is the image host key; without it uploads resolve to a placeholder.
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// ImageUploader hosts ad images.
type ImageUploader struct {
	http     *resty.Client
	apiKey   string
	endpoint string
	notifier notify.Notifier
	log      zerolog.Logger
}

func NewImageUploader(cfg UploaderConfig, notifier notify.Notifier, log zerolog.Logger) *ImageUploader {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultUploadURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ImageUploader{
		http:     resty.New().SetTimeout(cfg.Timeout),
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		notifier: notifier,
		log:      log.With().Str("component", "ads.upload").Logger(),
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload checks and hosts an image, returning its public URL.
// Every failure is alerted to the user.
func (u *ImageUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	url, err := u.upload(ctx, filename, data)
	if err != nil {
		u.log.Error().Err(err).Str("file", filename).Msg("image upload failed")
		u.notifier.Error(notify.TitleGenericError, domain.MessageOf(err))
		return "", err
	}
	return url, nil
}

func (u *ImageUploader) upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) > MaxImageBytes {
		return "", domain.NewValidationError("image", notify.AlertImageTooLarge)
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", domain.NewValidationError("image", notify.AlertImageInvalid)
	}

	if u.apiKey == "" {
		u.log.Info().Msg("image host key not set, using placeholder image")
		return PlaceholderImageURL, nil
	}

	resp, err := u.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("key", u.apiKey).
		SetMultipartField("image", filename, mtype.String(), bytes.NewReader(data)).
		Post(u.endpoint)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindTransport, Message: notify.AlertImageUploadFailed, Cause: err}
	}
	if resp.IsError() {
		return "", domain.NewRejectedError(resp.StatusCode(), "", fmt.Sprintf(notify.AlertImageServerFmt, resp.StatusCode()))
	}

	var out uploadResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", &domain.Error{Kind: domain.KindTransport, Message: notify.AlertImageUploadFailed, Cause: err}
	}
	if !out.Success || out.Data.URL == "" {
		msg := out.Error.Message
		if msg == "" {
			msg = notify.AlertImageUploadFailed
		}
		return "", domain.NewRejectedError(resp.StatusCode(), "", msg)
	}
	return out.Data.URL, nil
}
