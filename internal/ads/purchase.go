package ads

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/api"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
)

const (
	defaultImageURL  = "https://via.placeholder.com/300x200"
	defaultTargetURL = "/categories"
)

var ErrLoginRequired = &domain.Error{Kind: domain.KindPrecondition, Message: "login required"}

// Form is what the advertiser fills in.
type Form struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	ImageURL    string
	TargetURL   string
}

// API is the subset of the REST client a purchase needs.
type API interface {
	HasToken() bool
	CreateAd(ctx context.Context, req api.AdRequest) (*api.Ad, error)
	PromotionCheckout(ctx context.Context, adID string) (*api.Checkout, error)
}

// Purchaser creates an ad and opens its promotion checkout.
type Purchaser struct {
	api      API
	notifier notify.Notifier
	validate *validator.Validate
	log      zerolog.Logger
}

func NewPurchaser(client API, notifier notify.Notifier, log zerolog.Logger) *Purchaser {
	return &Purchaser{
		api:      client,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "ads").Logger(),
	}
}

// Purchase creates the ad and returns the checkout URL to send the user to.
// Nothing is sent unless the user is logged in, the plan exists and the form is valid.
func (p *Purchaser) Purchase(ctx context.Context, planID string, duration Duration, form Form) (string, error) {
	plan, ok := FindPlan(planID)
	if !ok || !p.api.HasToken() {
		p.notifier.Error(notify.TitleGenericError, notify.AlertLoginFirst)
		return "", ErrLoginRequired
	}
	if duration == "" {
		duration = Daily
	}

	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	if err := p.validate.Struct(form); err != nil || !duration.Valid() {
		p.notifier.Error(notify.TitleGenericError, notify.AlertRequiredFields)
		return "", domain.NewValidationError("form", notify.AlertRequiredFields)
	}

	req := api.AdRequest{
		Type:        plan.ID,
		Title:       form.Title,
		Description: form.Description,
		ImageURL:    orDefault(form.ImageURL, defaultImageURL),
		TargetURL:   orDefault(form.TargetURL, defaultTargetURL),
		Duration:    string(duration),
		Targeting: api.AdTargeting{
			Locations:  []string{},
			Categories: []string{},
			Keywords:   []string{},
		},
	}

	ad, err := p.api.CreateAd(ctx, req)
	if err == nil && ad.ID == "" {
		err = domain.NewRejectedError(0, "", "ad id missing")
	}
	if err != nil {
		p.log.Error().Err(err).Str("plan", plan.ID).Msg("create ad failed")
		p.notifier.Error(notify.TitleGenericError, notify.AlertPurchaseFailed)
		return "", err
	}

	checkout, err := p.api.PromotionCheckout(ctx, ad.ID)
	if err != nil {
		p.log.Error().Err(err).Str("ad_id", ad.ID).Msg("promotion checkout failed")
		p.notifier.Error(notify.TitleGenericError, notify.AlertPurchaseFailed)
		return "", err
	}

	price, _ := plan.Price(duration)
	p.log.Info().
		Str("ad_id", ad.ID).
		Str("plan", plan.ID).
		Str("duration", string(duration)).
		Str("price", price.String()).
		Msg("promotion checkout created")
	return checkout.URL, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
