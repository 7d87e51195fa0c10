package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-cal/internal/models"
	"github.com/noah-isme/campus-cal/internal/service"
	appErrors "github.com/noah-isme/campus-cal/pkg/errors"
)

type fakeAuth struct {
	user *models.User
}

func (f *fakeAuth) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if f.user != nil && f.user.Username == username {
		return f.user, nil
	}
	return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
}

type fakeUsers struct {
	created  []service.CreateUserRequest
	actor    *models.User
	roster   []models.User
	createFn func(actor *models.User) error
}

func (f *fakeUsers) Create(ctx context.Context, actor *models.User, req service.CreateUserRequest) (*models.User, error) {
	f.actor = actor
	if f.createFn != nil {
		if err := f.createFn(actor); err != nil {
			return nil, err
		}
	}
	f.created = append(f.created, req)
	return &models.User{ID: "new-id", Username: req.Username, IsAdmin: req.IsAdmin}, nil
}

func (f *fakeUsers) Delete(ctx context.Context, actor *models.User, username string) error {
	if !service.AuthorizeAdmin(actor) {
		return appErrors.Clone(appErrors.ErrPermissionDenied, "admin privileges required")
	}
	return nil
}

func (f *fakeUsers) Modify(ctx context.Context, actor *models.User, username string, req service.UpdateUserRequest) error {
	return nil
}

func (f *fakeUsers) List(ctx context.Context, actor *models.User) ([]models.User, error) {
	return f.roster, nil
}

type fakeEvents struct {
	deleted   []string
	deleteErr error
}

func (f *fakeEvents) CreatePersonal(ctx context.Context, actor *models.User, req service.CreateEventRequest) (*models.Event, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrPermissionDenied, "must be logged in to add events")
	}
	return &models.Event{ID: "e1", Title: req.Title}, nil
}

func (f *fakeEvents) Delete(ctx context.Context, actor *models.User, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeEvents) List(ctx context.Context, actor *models.User) ([]models.Event, error) {
	return nil, nil
}

func (f *fakeEvents) ListAcademic(ctx context.Context, actor *models.User) ([]models.AcademicEventDetail, error) {
	return nil, nil
}

type fakeImporter struct {
	url   string
	token string
}

func (f *fakeImporter) ImportCanvas(ctx context.Context, url, token string) (*models.ImportSummary, error) {
	f.url = url
	f.token = token
	return &models.ImportSummary{CoursesCreated: 1, EventsCreated: 2}, nil
}

func runScript(t *testing.T, script string) (string, *fakeAuth, *fakeUsers, *fakeEvents, *fakeImporter) {
	t.Helper()
	auth := &fakeAuth{user: &models.User{ID: "a1", Username: "alice", IsAdmin: true}}
	users := &fakeUsers{}
	events := &fakeEvents{}
	importer := &fakeImporter{}

	out := &bytes.Buffer{}
	repl := New(strings.NewReader(script), out, auth, users, events, importer, zap.NewNop())
	require.NoError(t, repl.Run(context.Background()))
	return out.String(), auth, users, events, importer
}

func TestUnknownCommandReprompts(t *testing.T) {
	out, _, _, _, _ := runScript(t, "frobnicate\nexit\n")
	assert.Contains(t, out, "Unknown command")
	// The loop must survive the unknown input and show the prompt again.
	assert.GreaterOrEqual(t, strings.Count(out, "cmd> "), 2)
}

func TestEOFTerminatesLoop(t *testing.T) {
	out, _, _, _, _ := runScript(t, "list\n")
	assert.Contains(t, out, "-- Events --")
}

func TestLoginLogout(t *testing.T) {
	out, _, _, _, _ := runScript(t, "login\nalice\npw\nlogout\nexit\n")
	assert.Contains(t, out, "Logged in")
	assert.Contains(t, out, "Logged out")
}

func TestLoginFailureKeepsSessionEmpty(t *testing.T) {
	script := "login\nmallory\npw\nadd_event\nx\n\n\n\n\nexit\n"
	out, _, _, _, _ := runScript(t, script)
	assert.Contains(t, out, "incorrect username and password")
	assert.Contains(t, out, "must be logged in to add events")
}

func TestAddUserPassesSessionActor(t *testing.T) {
	script := "login\nalice\npw\nadd_user\ny\ncarol\nsecret\nexit\n"
	out, _, users, _, _ := runScript(t, script)
	assert.Contains(t, out, "Created user carol")
	require.Len(t, users.created, 1)
	assert.Equal(t, "carol", users.created[0].Username)
	assert.True(t, users.created[0].IsAdmin)
	require.NotNil(t, users.actor)
	assert.Equal(t, "alice", users.actor.Username)
}

func TestDelUserWithoutLoginIsRejected(t *testing.T) {
	out, _, _, _, _ := runScript(t, "del_user\nbob\nexit\n")
	assert.Contains(t, out, "admin privileges required")
}

func TestDelEventReportsPermissionError(t *testing.T) {
	auth := &fakeAuth{}
	events := &fakeEvents{deleteErr: appErrors.Clone(appErrors.ErrPermissionDenied, "cannot delete others' events")}
	out := &bytes.Buffer{}
	repl := New(strings.NewReader("del_event\ne1\nexit\n"), out, auth, &fakeUsers{}, events, &fakeImporter{}, zap.NewNop())
	require.NoError(t, repl.Run(context.Background()))
	assert.Contains(t, out.String(), "cannot delete others' events")
	assert.Empty(t, events.deleted)
}

func TestImportCanvasPromptsAndReportsSummary(t *testing.T) {
	script := "import_canvas\nhttps://canvas.example/api/v1/courses\ntok123\nexit\n"
	out, _, _, _, importer := runScript(t, script)
	assert.Equal(t, "https://canvas.example/api/v1/courses", importer.url)
	assert.Equal(t, "tok123", importer.token)
	assert.Contains(t, out, "Imported 2 events")
}

func TestListShowsRosterForAdmins(t *testing.T) {
	auth := &fakeAuth{user: &models.User{ID: "a1", Username: "alice", IsAdmin: true}}
	users := &fakeUsers{roster: []models.User{{ID: "a1", Username: "alice", IsAdmin: true}}}
	out := &bytes.Buffer{}
	repl := New(strings.NewReader("login\nalice\npw\nlist\nexit\n"), out, auth, users, &fakeEvents{}, &fakeImporter{}, zap.NewNop())
	require.NoError(t, repl.Run(context.Background()))
	assert.Contains(t, out.String(), "-- Users --")
	assert.Contains(t, out.String(), "alice\tadmin=true")
}
