package main

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	kindJoin   = "join"
	kindJoined = "joined"
	kindText   = "text"
)

var validate = validator.New()

// roomIDRule bounds a requested room id, counted in runes.
const roomIDRule = "max=256"

// inboundMessage is anything a client may send. ID is only read on join;
// a text message carries it too but the room the hub tracks wins.
type inboundMessage struct {
	Type string `json:"type" validate:"required"`
	ID   string `json:"id"`
	Data string `json:"data"`
}

type joinedMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type textMessage struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

func decodeMessage(raw []byte) (inboundMessage, error) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return inboundMessage{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if err := validate.Struct(msg); err != nil {
		return inboundMessage{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return msg, nil
}

// validRoomID reports whether a client may name a room id.
func validRoomID(id string) bool {
	return validate.Var(id, roomIDRule) == nil
}

func encodeJoined(id string) []byte {
	b, _ := json.Marshal(joinedMessage{Type: kindJoined, ID: id})
	return b
}

func encodeText(data string) []byte {
	b, _ := json.Marshal(textMessage{Type: kindText, Data: data})
	return b
}
