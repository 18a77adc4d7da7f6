package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{
			name: "receive message",
			raw:  `{"event":"receive-message","data":{"_id":"m1","conversationId":"c1","senderId":"p1","content":"hi"}}`,
			want: EventReceiveMessage,
		},
		{
			name: "message sent",
			raw:  `{"event":"message-sent","data":{"_id":"m2","conversationId":"c1","senderId":"s1","content":"yo"}}`,
			want: EventMessageSent,
		},
		{
			name: "payment completed",
			raw:  `{"event":"payment:completed","data":{"offerId":"o1"}}`,
			want: EventPaymentCompleted,
		},
		{
			name: "service completed",
			raw:  `{"event":"service:completed","data":{"offerId":"o1"}}`,
			want: EventServiceCompleted,
		},
		{
			name:    "message without conversation",
			raw:     `{"event":"receive-message","data":{"_id":"m1","content":"hi"}}`,
			wantErr: ErrInvalidPayload,
		},
		{
			name:    "payment without offer",
			raw:     `{"event":"payment:completed","data":{}}`,
			wantErr: ErrInvalidPayload,
		},
		{
			name:    "missing data",
			raw:     `{"event":"service:completed"}`,
			wantErr: ErrInvalidPayload,
		},
		{
			name:    "unknown event",
			raw:     `{"event":"typing","data":{}}`,
			wantErr: ErrUnknownEvent,
		},
		{
			name:    "not json",
			raw:     `nope`,
			wantErr: ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeInbound([]byte(tt.raw))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.EventName())
		})
	}
}

func TestDecodeInboundMessageFields(t *testing.T) {
	ev, err := DecodeInbound([]byte(`{"event":"receive-message","data":{"_id":"m1","conversationId":"c1","senderId":"p1","content":"hi"}}`))
	require.NoError(t, err)
	msg, ok := ev.(ReceiveMessage)
	require.True(t, ok)
	assert.Equal(t, "m1", msg.Message.ID)
	assert.Equal(t, "c1", msg.Message.ConversationID)
}

func TestEncode(t *testing.T) {
	raw, err := Encode(EventSendMessage, OutgoingMessage{ConversationID: "c1", ReceiverID: "p1", Content: "hello"})
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, EventSendMessage, frame.Event)
	assert.JSONEq(t, `{"conversationId":"c1","receiverId":"p1","content":"hello"}`, string(frame.Data))
}
