package chat

import (
	"encoding/json"
	"testing"

	"Projease/tools/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`{"event":"register","data":{"userId":"u1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "register", f.Event)
	assert.JSONEq(t, `{"userId":"u1"}`, string(f.Data))
}

func TestParseFrameRejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{"event":`},
		{"missing event", `{"data":{}}`},
		{"blank event", `{"event":"  "}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFrame([]byte(tc.raw))
			require.Error(t, err)
			assert.True(t, errs.ErrInvalidInput.Is(err))
		})
	}
}

func TestDecodeRegister(t *testing.T) {
	p, err := DecodeRegister(json.RawMessage(`{"userId":"u1","name":"Ann","avatar":"a.png"}`))
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	// The whole blob survives as the presence profile.
	assert.Equal(t, "Ann", p.Profile["name"])
	assert.Equal(t, "a.png", p.Profile["avatar"])
}

func TestDecodeRegisterRequiresUserID(t *testing.T) {
	for _, raw := range []string{`{}`, `{"userId":""}`, `{"userId":"  "}`, `"just-a-string"`} {
		_, err := DecodeRegister(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestDecodeStringArg(t *testing.T) {
	assert.Equal(t, "g1", DecodeStringArg(json.RawMessage(`"g1"`), "groupId"))
	assert.Equal(t, "g1", DecodeStringArg(json.RawMessage(`{"groupId":" g1 "}`), "groupId"))
	assert.Equal(t, "", DecodeStringArg(json.RawMessage(`{"other":"g1"}`), "groupId"))
	assert.Equal(t, "", DecodeStringArg(json.RawMessage(`42`), "groupId"))
}

func TestDecodeGroupMessage(t *testing.T) {
	raw := json.RawMessage(`{
		"groupId": "g1",
		"message": {"groupChatId": "g1", "text": "hi"},
		"members": [{"userId":"u1"},{"userId":"u2"}]
	}`)
	p, err := DecodeGroupMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, "g1", p.GroupID)
	assert.Equal(t, "hi", p.Message["text"])
	require.Len(t, p.Members, 2)
	assert.Equal(t, "u2", p.Members[1].UserID)
}

func TestDecodeGroupMessageRejectsIncomplete(t *testing.T) {
	for _, raw := range []string{
		`{"message":{"text":"hi"}}`,
		`{"groupId":"g1"}`,
		`{"groupId":"g1","message":{}}`,
	} {
		_, err := DecodeGroupMessage(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestBuildFramesRoundTrip(t *testing.T) {
	var f Frame
	require.NoError(t, json.Unmarshal(BuildRegisterResponse(StatusReconnected, "u1"), &f))
	assert.Equal(t, EventRegisterResponse, f.Event)
	assert.JSONEq(t,
		`{"success":true,"status":"reconnected","message":"User u1 registered successfully."}`,
		string(f.Data))

	require.NoError(t, json.Unmarshal(BuildGroupJoinResponse("g1", true), &f))
	assert.Equal(t, EventGroupJoinResponse, f.Event)
	assert.Contains(t, string(f.Data), "Already in group: g1")

	require.NoError(t, json.Unmarshal(BuildError("nope"), &f))
	assert.Equal(t, EventError, f.Event)
	assert.JSONEq(t, `{"message":"nope"}`, string(f.Data))
}
