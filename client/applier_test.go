package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hekoh99/meta-library/domain"
	"github.com/hekoh99/meta-library/protocol"
)

type recordedCall struct {
	handler string
	payload any
}

func recordingApplier() (*Applier, *[]recordedCall) {
	var calls []recordedCall
	record := func(handler string, payload any) {
		calls = append(calls, recordedCall{handler: handler, payload: payload})
	}

	applier := NewApplier(Handlers{
		OnWelcome: func(id string, users []domain.UserState, doors []domain.DoorState) {
			record("welcome", id)
		},
		OnUserJoined: func(user domain.UserState) { record("user_joined", user.ID) },
		OnUserLeft:   func(id string) { record("user_left", id) },
		OnState:      func(id string, x, y float64) { record("state", [3]any{id, x, y}) },
		OnDoorState:  func(key string, isOpen bool) { record("door_state", [2]any{key, isOpen}) },
	})
	return applier, &calls
}

func TestApplier_Dispatch(t *testing.T) {
	tests := []struct {
		name        string
		msg         protocol.ServerMessage
		wantHandler string
		wantPayload any
	}{
		{
			name:        "welcome",
			msg:         protocol.ServerMessage{Type: protocol.TypeWelcome, ID: "me"},
			wantHandler: "welcome",
			wantPayload: "me",
		},
		{
			name:        "user_joined",
			msg:         protocol.ServerMessage{Type: protocol.TypeUserJoined, User: &domain.UserState{ID: "p1"}},
			wantHandler: "user_joined",
			wantPayload: "p1",
		},
		{
			name:        "user_left",
			msg:         protocol.ServerMessage{Type: protocol.TypeUserLeft, ID: "p1"},
			wantHandler: "user_left",
			wantPayload: "p1",
		},
		{
			name:        "state",
			msg:         protocol.ServerMessage{Type: protocol.TypeState, ID: "p1", X: 5, Y: 6},
			wantHandler: "state",
			wantPayload: [3]any{"p1", 5.0, 6.0},
		},
		{
			name:        "door_state",
			msg:         protocol.ServerMessage{Type: protocol.TypeDoorState, Key: "k", IsOpen: true},
			wantHandler: "door_state",
			wantPayload: [2]any{"k", true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applier, calls := recordingApplier()

			applier.Apply(tt.msg)

			require.Len(t, *calls, 1, "exactly one handler fires")
			assert.Equal(t, tt.wantHandler, (*calls)[0].handler)
			assert.Equal(t, tt.wantPayload, (*calls)[0].payload)
		})
	}
}

func TestApplier_UnknownTypeIgnored(t *testing.T) {
	applier, calls := recordingApplier()
	applier.Apply(protocol.ServerMessage{Type: "surprise"})
	assert.Empty(t, *calls)
}

func TestApplier_NilHandlersTolerated(t *testing.T) {
	applier := NewApplier(Handlers{})
	assert.NotPanics(t, func() {
		applier.Apply(protocol.ServerMessage{Type: protocol.TypeWelcome})
		applier.Apply(protocol.ServerMessage{Type: protocol.TypeUserJoined})
		applier.Apply(protocol.ServerMessage{Type: protocol.TypeState})
	})
}
