package gate

import (
	"context"
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	"Projease/logger"
	"Projease/module/project/model"
	"Projease/tools/errs"

	"golang.org/x/crypto/bcrypt"
)

// ProjectStore is the durable side of the gate: the project document
// holding the password and the per-user attempt tracker. The failed-
// attempt path must be atomic at the storage layer ($inc), never a
// read-modify-write in process.
type ProjectStore interface {
	GetJoinInfo(ctx context.Context, projectID string) (*model.Project, error)
	// RecordFailure atomically increments the user's attempt counter,
	// stamps lastAttempt and returns the post-increment count.
	RecordFailure(ctx context.Context, projectID, userID string, at time.Time) (int, error)
	// GrantMembership resets the user's tracker to {0, null} and
	// appends the user to the member list.
	GrantMembership(ctx context.Context, projectID, userID string) error
}

// UserStore updates the joining user's project list.
type UserStore interface {
	// SetActiveProject flips any active entry to passive and appends
	// the new project as active.
	SetActiveProject(ctx context.Context, userID, projectID string) error
}

type Status int

const (
	StatusJoined Status = iota
	StatusNotFound
	StatusLocked
	StatusPasswordMismatch
)

type Request struct {
	ProjectID string
	UserID    string
	Password  string
	Invited   bool
}

type Result struct {
	Status       Status
	Message      string
	AttemptsLeft int
}

type Options struct {
	MaxAttempts int
	Window      time.Duration
	Clock       func() time.Time // injectable for tests; nil => time.Now
}

func (o *Options) norm() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Window <= 0 {
		o.Window = 3 * time.Hour
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// Gate enforces the password-attempt lockout for joining a project.
type Gate struct {
	projects ProjectStore
	users    UserStore
	opts     Options
}

func New(projects ProjectStore, users UserStore, opts Options) *Gate {
	opts.norm()
	return &Gate{projects: projects, users: users, opts: opts}
}

// Join runs the full state machine:
// lockout check -> (invited bypass | password compare) -> membership grant.
// A locked user is refused before any password comparison happens.
func (g *Gate) Join(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.ProjectID) == "" || strings.TrimSpace(req.UserID) == "" {
		return nil, errs.ErrInvalidInput.WrapMsg("projectId and userId are required")
	}

	proj, err := g.projects.GetJoinInfo(ctx, req.ProjectID)
	if err != nil {
		if errs.ErrNotFound.Is(err) {
			return &Result{Status: StatusNotFound, Message: "Project do not exist."}, nil
		}
		return nil, err
	}

	now := g.opts.Clock()
	tracker := proj.TrackerFor(req.UserID)
	if tracker.Attempts >= g.opts.MaxAttempts &&
		tracker.LastAttempt != nil &&
		now.Sub(*tracker.LastAttempt) < g.opts.Window {
		return &Result{
			Status:  StatusLocked,
			Message: "You are temporarily locked out. Try again after 3 hours.",
		}, nil
	}

	// Invited users join public projects without a password.
	if req.Invited && !proj.IsPrivate {
		return g.grant(ctx, req)
	}

	if verr := verifyPassword(proj.ProjectPassword, req.Password); verr != nil {
		if !errs.ErrPasswordMismatch.Is(verr) {
			return nil, verr
		}
		attempts, rerr := g.projects.RecordFailure(ctx, req.ProjectID, req.UserID, now)
		if rerr != nil {
			return nil, rerr
		}
		left := g.opts.MaxAttempts - attempts
		if left < 0 {
			left = 0
		}
		return &Result{
			Status:       StatusPasswordMismatch,
			Message:      mismatchMessage(left),
			AttemptsLeft: left,
		}, nil
	}

	return g.grant(ctx, req)
}

func (g *Gate) grant(ctx context.Context, req Request) (*Result, error) {
	if err := g.projects.GrantMembership(ctx, req.ProjectID, req.UserID); err != nil {
		return nil, err
	}
	if err := g.users.SetActiveProject(ctx, req.UserID, req.ProjectID); err != nil {
		// Membership is already granted; the project list is eventually
		// repairable on the next join, so report and keep the success.
		logger.Errorf("[gate] set active project failed user=%s proj=%s: %v", req.UserID, req.ProjectID, err)
	}
	return &Result{Status: StatusJoined, Message: "Successfully joined the project."}, nil
}

func mismatchMessage(left int) string {
	return "Invalid password. You have " + strconv.Itoa(left) + " attempt(s) left."
}

// verifyPassword accepts a bcrypt hash, falling back to a constant-time
// byte comparison for legacy documents that still store plaintext.
// A wrong password yields ErrPasswordMismatch; anything else from the
// bcrypt layer (malformed hash, cost out of range) comes back as-is.
func verifyPassword(stored, supplied string) error {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied))
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return errs.ErrPasswordMismatch.Wrap()
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return errs.ErrPasswordMismatch.Wrap()
	}
	return nil
}

// HashPassword is used when creating/updating a project password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
