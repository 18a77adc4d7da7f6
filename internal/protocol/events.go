// Package protocol defines the socket event protocol between the client and the chat server.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

// Events from client to server
const (
	EventJoinConversation = "join-conversation"
	EventMarkRead         = "mark-read"
	EventSendMessage      = "send-message"
)

// Events from server to client
const (
	EventReceiveMessage   = "receive-message"
	EventMessageSent      = "message-sent"
	EventPaymentCompleted = "payment:completed"
	EventServiceCompleted = "service:completed"
	EventError            = "error"
)

var (
	ErrUnknownEvent   = errors.New("unknown event")
	ErrInvalidPayload = errors.New("invalid event payload")
)

// Frame is the wire envelope of every socket event.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound is a validated server event.
type Inbound interface {
	EventName() string
}

// ReceiveMessage carries a message sent by the other participant.
type ReceiveMessage struct {
	Message domain.Message
}

func (ReceiveMessage) EventName() string { return EventReceiveMessage }

// MessageSent echoes a message this user sent.
type MessageSent struct {
	Message domain.Message
}

func (MessageSent) EventName() string { return EventMessageSent }

// PaymentCompleted signals that escrow was funded for an offer.
type PaymentCompleted struct {
	OfferID string `json:"offerId"`
}

func (PaymentCompleted) EventName() string { return EventPaymentCompleted }

// ServiceCompleted signals that the escrow was released to the provider.
type ServiceCompleted struct {
	OfferID string `json:"offerId"`
}

func (ServiceCompleted) EventName() string { return EventServiceCompleted }

// ServerError is an error pushed by the chat server.
type ServerError struct {
	Message string `json:"message"`
}

func (ServerError) EventName() string { return EventError }

// DecodeInbound parses a raw frame into a validated event.
func DecodeInbound(raw []byte) (Inbound, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch frame.Event {
	case EventReceiveMessage, EventMessageSent:
		var msg domain.Message
		if err := decodeData(frame, &msg); err != nil {
			return nil, err
		}
		if msg.ID == "" || msg.ConversationID == "" {
			return nil, fmt.Errorf("%w: %s needs _id and conversationId", ErrInvalidPayload, frame.Event)
		}
		if frame.Event == EventReceiveMessage {
			return ReceiveMessage{Message: msg}, nil
		}
		return MessageSent{Message: msg}, nil

	case EventPaymentCompleted:
		var ev PaymentCompleted
		if err := decodeData(frame, &ev); err != nil {
			return nil, err
		}
		if ev.OfferID == "" {
			return nil, fmt.Errorf("%w: %s needs offerId", ErrInvalidPayload, frame.Event)
		}
		return ev, nil

	case EventServiceCompleted:
		var ev ServiceCompleted
		if err := decodeData(frame, &ev); err != nil {
			return nil, err
		}
		if ev.OfferID == "" {
			return nil, fmt.Errorf("%w: %s needs offerId", ErrInvalidPayload, frame.Event)
		}
		return ev, nil

	case EventError:
		var ev ServerError
		if err := decodeData(frame, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, frame.Event)
}

func decodeData(frame Frame, v interface{}) error {
	if len(frame.Data) == 0 {
		return fmt.Errorf("%w: %s has no data", ErrInvalidPayload, frame.Event)
	}
	if err := json.Unmarshal(frame.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, frame.Event, err)
	}
	return nil
}

// ConversationRef addresses a conversation room.
type ConversationRef struct {
	ConversationID string `json:"conversationId"`
}

// OutgoingMessage is the payload of send-message.
type OutgoingMessage struct {
	ConversationID string `json:"conversationId"`
	ReceiverID     string `json:"receiverId"`
	Content        string `json:"content"`
}

// Encode builds the wire frame for an outbound event.
func Encode(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return json.Marshal(Frame{Event: event, Data: data})
}
