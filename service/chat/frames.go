package chat

import (
	"encoding/json"
	"strings"

	"Projease/tools/decode"
	"Projease/tools/errs"
)

// Event names, client -> server.
const (
	EventRegister      = "register"
	EventJoinGroup     = "joinGroup"
	EventGroupMessage  = "groupMessage"
	EventDeleteMessage = "deleteMessage"
)

// Event names, server -> client.
const (
	EventRegisterResponse      = "registerResponse"
	EventGroupJoinResponse     = "groupJoinResponse"
	EventGroupMessageReceived  = "groupMessageReceived"
	EventDeleteMessageResponse = "deleteMessageResponse"
	EventError                 = "error"
)

// Frame is the JSON envelope every socket event travels in:
// {"event": "<name>", "data": <payload>}.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errs.ErrInvalidInput.WrapMsg("malformed frame: " + err.Error())
	}
	if strings.TrimSpace(f.Event) == "" {
		return nil, errs.ErrInvalidInput.WrapMsg("frame has no event")
	}
	return &f, nil
}

// ---- typed payloads ----

type RegisterPayload struct {
	UserID  string
	Profile map[string]any // full registration blob, userId included
}

// DecodeRegister accepts the register blob {userId, ...profile}.
func DecodeRegister(data json.RawMessage) (*RegisterPayload, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return nil, errs.ErrInvalidInput.WrapMsg("register payload must be an object")
	}
	idPart, err := decode.DecodeMap[struct {
		UserID string `json:"userId"`
	}](m)
	if err != nil {
		return nil, errs.ErrInvalidInput.WrapMsg(err.Error())
	}
	if strings.TrimSpace(idPart.UserID) == "" {
		return nil, errs.ErrInvalidInput.WrapMsg("userId is required")
	}
	return &RegisterPayload{UserID: idPart.UserID, Profile: m}, nil
}

// DecodeStringArg accepts the two shapes clients send for single-value
// events: a bare JSON string, or an object with the named key
// (e.g. "g1" and {"groupId": "g1"}).
func DecodeStringArg(data json.RawMessage, key string) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err == nil {
		if v, ok := m[key].(string); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

type Recipient struct {
	UserID string `json:"userId"`
}

type GroupMessagePayload struct {
	GroupID string         `json:"groupId"`
	Message map[string]any `json:"message"`
	Members []Recipient    `json:"members"`
}

func DecodeGroupMessage(data json.RawMessage) (*GroupMessagePayload, error) {
	var p GroupMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errs.ErrInvalidInput.WrapMsg("groupMessage payload: " + err.Error())
	}
	if strings.TrimSpace(p.GroupID) == "" || len(p.Message) == 0 {
		return nil, errs.ErrInvalidInput.WrapMsg("Group name and message are required.")
	}
	return &p, nil
}

// ---- server acks ----

func marshalFrame(event string, data any) []byte {
	raw, _ := json.Marshal(data)
	out, _ := json.Marshal(Frame{Event: event, Data: raw})
	return out
}

type registerResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

func BuildRegisterResponse(status RegisterStatus, userID string) []byte {
	return marshalFrame(EventRegisterResponse, registerResponse{
		Success: true,
		Status:  string(status),
		Message: "User " + userID + " registered successfully.",
	})
}

type groupJoinResponse struct {
	Success bool   `json:"success"`
	GroupID string `json:"groupId"`
	Message string `json:"message"`
}

func BuildGroupJoinResponse(groupID string, alreadyJoined bool) []byte {
	msg := "You joined group: " + groupID
	if alreadyJoined {
		msg = "Already in group: " + groupID
	}
	return marshalFrame(EventGroupJoinResponse, groupJoinResponse{
		Success: true,
		GroupID: groupID,
		Message: msg,
	})
}

type groupMessageReceived struct {
	Sender map[string]any `json:"sender"`
	MsgObj map[string]any `json:"msgObj"`
	ID     string         `json:"_id"`
}

func BuildGroupMessageReceived(sender, msgObj map[string]any, id string) []byte {
	return marshalFrame(EventGroupMessageReceived, groupMessageReceived{
		Sender: sender,
		MsgObj: msgObj,
		ID:     id,
	})
}

type deleteMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func BuildDeleteMessageResponse(success bool, message string) []byte {
	return marshalFrame(EventDeleteMessageResponse, deleteMessageResponse{
		Success: success,
		Message: message,
	})
}

type errorEvent struct {
	Message string `json:"message"`
}

func BuildError(message string) []byte {
	return marshalFrame(EventError, errorEvent{Message: message})
}
