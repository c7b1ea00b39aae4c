package project

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Projease/module/project/gate"
	"Projease/module/project/model"
	"Projease/tools/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProjects struct {
	proj     *model.Project
	attempts map[string]int
}

func (s *stubProjects) GetJoinInfo(_ context.Context, projectID string) (*model.Project, error) {
	if s.proj == nil {
		return nil, errs.ErrNotFound.WrapMsg("project " + projectID)
	}
	return s.proj, nil
}

func (s *stubProjects) RecordFailure(_ context.Context, _, userID string, at time.Time) (int, error) {
	if s.attempts == nil {
		s.attempts = make(map[string]int)
	}
	s.attempts[userID]++
	if s.proj.AttemptTracker == nil {
		s.proj.AttemptTracker = make(map[string]model.AttemptEntry)
	}
	s.proj.AttemptTracker[userID] = model.AttemptEntry{Attempts: s.attempts[userID], LastAttempt: &at}
	return s.attempts[userID], nil
}

func (s *stubProjects) GrantMembership(_ context.Context, _, userID string) error {
	s.proj.Members = append(s.proj.Members, model.Member{UserID: userID, Role: model.RoleMember})
	return nil
}

type stubUsers struct{}

func (stubUsers) SetActiveProject(context.Context, string, string) error { return nil }

func newRouter(projects *stubProjects) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gate.New(projects, stubUsers{}, gate.Options{MaxAttempts: 3, Window: 3 * time.Hour})
	h := NewHandler(g)
	r := gin.New()
	r.POST("/join-project", h.HandleJoinProject)
	return r
}

func postJoin(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/join-project", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleJoinProjectSuccess(t *testing.T) {
	r := newRouter(&stubProjects{proj: &model.Project{ProjectPassword: "secret", IsPrivate: true}})

	w := postJoin(t, r, `{"projId":"p1","userId":"u1","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), "Successfully joined the project.")
}

func TestHandleJoinProjectWrongPassword(t *testing.T) {
	r := newRouter(&stubProjects{proj: &model.Project{ProjectPassword: "secret", IsPrivate: true}})

	w := postJoin(t, r, `{"projId":"p1","userId":"u1","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid password. You have 2 attempt(s) left.")
}

func TestHandleJoinProjectLocked(t *testing.T) {
	r := newRouter(&stubProjects{proj: &model.Project{ProjectPassword: "secret", IsPrivate: true}})

	for i := 0; i < 3; i++ {
		postJoin(t, r, `{"projId":"p1","userId":"u1","password":"nope"}`)
	}
	w := postJoin(t, r, `{"projId":"p1","userId":"u1","password":"secret"}`)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "temporarily locked out")
}

func TestHandleJoinProjectNotFound(t *testing.T) {
	r := newRouter(&stubProjects{})

	w := postJoin(t, r, `{"projId":"missing","userId":"u1"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Project do not exist.")
}

func TestHandleJoinProjectValidation(t *testing.T) {
	r := newRouter(&stubProjects{})

	for _, body := range []string{`{}`, `{"projId":"p1"}`, `not json`} {
		w := postJoin(t, r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}
