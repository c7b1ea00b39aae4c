package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"Projease/module/chat/model"
	"Projease/tools/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOnline map[string]bool

func (s stubOnline) IsOnline(userID string) bool { return s[userID] }

type stubMirror map[string]string

func (s stubMirror) Lookup(_ context.Context, userID string) (string, bool, error) {
	conn, ok := s[userID]
	return conn, ok, nil
}

type stubUnseen struct {
	counts map[string]int64 // "group/user" -> count
	resets []string         // "group/user"
}

func (s *stubUnseen) Read(_ context.Context, groupID, userID string) (int64, error) {
	n, ok := s.counts[groupID+"/"+userID]
	if !ok {
		return 0, errs.ErrNotFound.Wrap()
	}
	return n, nil
}

func (s *stubUnseen) Reset(_ context.Context, groupID, userID string) error {
	s.resets = append(s.resets, groupID+"/"+userID)
	return nil
}

func (s *stubUnseen) GetGroup(_ context.Context, projectID string) (*model.ChatGroup, error) {
	return nil, errs.ErrNotFound.Wrap()
}

func (s *stubUnseen) EnsureGroup(_ context.Context, projectID, name string) (*model.ChatGroup, error) {
	return &model.ChatGroup{ProjectID: projectID, Name: name}, nil
}

type stubMessages struct{ msgs []model.Message }

func (s stubMessages) ListByGroup(context.Context, string) ([]model.Message, error) {
	return s.msgs, nil
}

func newChatRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/presence/:userId", h.HandlePresence)
	r.GET("/unseenMessageCount/:projectId/:userId", h.HandleUnseenCount)
	r.POST("/unseenMessageCount/:projectId/:userId/reset", h.HandleResetUnseen)
	r.GET("/messages/:groupId", h.HandleListMessages)
	return r
}

func do(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHandlePresenceLocal(t *testing.T) {
	r := newChatRouter(NewHandler(nil, nil, stubOnline{"u1": true}, nil))

	w := do(r, http.MethodGet, "/presence/u1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"online":true`)

	w = do(r, http.MethodGet, "/presence/u2")
	assert.Contains(t, w.Body.String(), `"online":false`)
}

func TestHandlePresenceFallsBackToMirror(t *testing.T) {
	r := newChatRouter(NewHandler(nil, nil, stubOnline{}, stubMirror{"u1": "conn-remote"}))

	w := do(r, http.MethodGet, "/presence/u1")
	assert.Contains(t, w.Body.String(), `"online":true`)

	w = do(r, http.MethodGet, "/presence/u2")
	assert.Contains(t, w.Body.String(), `"online":false`)
}

func TestHandleUnseenCount(t *testing.T) {
	unseen := &stubUnseen{counts: map[string]int64{"p1/u1": 4}}
	r := newChatRouter(NewHandler(nil, unseen, stubOnline{}, nil))

	w := do(r, http.MethodGet, "/unseenMessageCount/p1/u1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unseenCount":4`)

	w = do(r, http.MethodGet, "/unseenMessageCount/p2/u1")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Chat group not found")
}

func TestHandleResetUnseen(t *testing.T) {
	unseen := &stubUnseen{counts: map[string]int64{"p1/u1": 4}}
	r := newChatRouter(NewHandler(nil, unseen, stubOnline{}, nil))

	w := do(r, http.MethodPost, "/unseenMessageCount/p1/u1/reset")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Equal(t, []string{"p1/u1"}, unseen.resets)
}

func TestHandleListMessagesEmpty(t *testing.T) {
	r := newChatRouter(NewHandler(stubMessages{}, nil, stubOnline{}, nil))

	w := do(r, http.MethodGet, "/messages/g1")
	require.Equal(t, http.StatusOK, w.Code)
	// Empty history serializes as [], never null.
	assert.Equal(t, "[]", w.Body.String())
}
