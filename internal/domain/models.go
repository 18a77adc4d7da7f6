package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownUserName is displayed when a provider has no usable name.
const UnknownUserName = "مستخدم غير معروف"

// PersonName is a first/last name pair.
type PersonName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// Full joins the name parts, skipping empty ones.
func (n PersonName) Full() string {
	return strings.TrimSpace(strings.TrimSpace(n.First) + " " + strings.TrimSpace(n.Last))
}

// DisplayName is a name that arrives either as {first,last} or as a plain string.
type DisplayName struct {
	PersonName
	Text string `json:"-"`
}

// UnmarshalJSON accepts both wire shapes.
func (d *DisplayName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &d.Text)
	}
	return json.Unmarshal(data, &d.PersonName)
}

// MarshalJSON writes the structured form when present.
func (d DisplayName) MarshalJSON() ([]byte, error) {
	if d.Text != "" && d.PersonName == (PersonName{}) {
		return json.Marshal(d.Text)
	}
	return json.Marshal(d.PersonName)
}

// String renders the name, falling back to UnknownUserName.
func (d DisplayName) String() string {
	if full := d.Full(); full != "" {
		return full
	}
	if t := strings.TrimSpace(d.Text); t != "" {
		return t
	}
	return UnknownUserName
}

// Participant is one side of a conversation.
type Participant struct {
	ID     string     `json:"_id"`
	Name   PersonName `json:"name"`
	Email  string     `json:"email,omitempty"`
	Avatar string     `json:"avatarUrl,omitempty"`
}

// Participants holds both sides of a conversation.
type Participants struct {
	Seeker   Participant `json:"seeker"`
	Provider Participant `json:"provider"`
}

// Budget is the price range of a job request or offer.
type Budget struct {
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Currency string          `json:"currency,omitempty"`
}

// Location is where the service is delivered.
type Location struct {
	Address               string `json:"address,omitempty"`
	Government            string `json:"government,omitempty"`
	City                  string `json:"city,omitempty"`
	Street                string `json:"street,omitempty"`
	ApartmentNumber       string `json:"apartmentNumber,omitempty"`
	AdditionalInformation string `json:"additionalInformation,omitempty"`
}

// JobRequest is the seeker's posted request a conversation belongs to.
type JobRequest struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Budget      Budget     `json:"budget"`
	Location    Location   `json:"location"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LastMessage is the conversation preview line.
type LastMessage struct {
	Content   string    `json:"content"`
	SenderID  string    `json:"senderId"`
	Timestamp time.Time `json:"timestamp"`
}

// UnreadCount is tracked per side.
type UnreadCount struct {
	Seeker   int `json:"seeker"`
	Provider int `json:"provider"`
}

// Conversation is a chat thread between a seeker and a provider about one job request.
type Conversation struct {
	ID           string       `json:"_id"`
	JobRequest   JobRequest   `json:"jobRequestId"`
	Participants Participants `json:"participants"`
	LastMessage  *LastMessage `json:"lastMessage,omitempty"`
	UnreadCount  UnreadCount  `json:"unreadCount"`
	IsActive     bool         `json:"isActive"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// RoleOf returns the role userID plays, or false when userID is not a participant.
func (c *Conversation) RoleOf(userID string) (Role, bool) {
	switch userID {
	case "":
		return "", false
	case c.Participants.Seeker.ID:
		return RoleSeeker, true
	case c.Participants.Provider.ID:
		return RoleProvider, true
	}
	return "", false
}

// OtherParticipant returns the side userID is talking to.
func (c *Conversation) OtherParticipant(userID string) Participant {
	if userID == c.Participants.Seeker.ID {
		return c.Participants.Provider
	}
	return c.Participants.Seeker
}

// ReceiverFor returns the id messages from userID are addressed to.
func (c *Conversation) ReceiverFor(userID string) string {
	return c.OtherParticipant(userID).ID
}

// Message is one chat line.
type Message struct {
	ID             string     `json:"_id"`
	ConversationID string     `json:"conversationId"`
	SenderID       string     `json:"senderId"`
	ReceiverID     string     `json:"receiverId,omitempty"`
	Content        string     `json:"content"`
	Timestamp      time.Time  `json:"timestamp"`
	Read           bool       `json:"read"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
}

// ProviderProfile carries the provider's marketplace reputation.
type ProviderProfile struct {
	Rating float64  `json:"rating"`
	Skills []string `json:"skills"`
}

// OfferProvider is the provider as embedded in an offer.
type OfferProvider struct {
	ID              string          `json:"_id"`
	Name            DisplayName     `json:"name"`
	AvatarURL       string          `json:"avatarUrl,omitempty"`
	IsVerified      bool            `json:"isVerified"`
	ProviderProfile ProviderProfile `json:"providerProfile"`
}

// Offer is a provider's proposal on a job request.
type Offer struct {
	ID                string        `json:"_id"`
	Status            OfferStatus   `json:"status"`
	JobRequestID      string        `json:"jobRequest,omitempty"`
	Provider          OfferProvider `json:"provider"`
	Budget            Budget        `json:"budget"`
	Message           string        `json:"message,omitempty"`
	EstimatedTimeDays int           `json:"estimatedTimeDays,omitempty"`
	AvailableDates    []string      `json:"availableDates,omitempty"`
	TimePreferences   []string      `json:"timePreferences,omitempty"`
	Negotiation       *Negotiation  `json:"negotiation,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// EstimatedDays defaults a missing estimate to one day.
func (o *Offer) EstimatedDays() int {
	if o.EstimatedTimeDays <= 0 {
		return 1
	}
	return o.EstimatedTimeDays
}

// Provider is an entry in the featured providers listing.
type Provider struct {
	ID          string      `json:"_id"`
	AltID       string      `json:"id,omitempty"`
	Name        DisplayName `json:"name"`
	Avatar      string      `json:"avatarUrl,omitempty"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"reviewCount,omitempty"`
	Specialties []string    `json:"specialties,omitempty"`
	Category    string      `json:"category,omitempty"`
	Location    string      `json:"location,omitempty"`
	Verified    bool        `json:"isVerified"`
	Featured    bool        `json:"isFeatured,omitempty"`
}

// Key returns whichever identifier the server sent.
func (p Provider) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.AltID
}
