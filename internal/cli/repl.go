// Package cli implements the interactive command loop. All state the
// commands need for authorization lives in the loop's session variable
// and is passed explicitly into every service call.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-cal/internal/models"
	"github.com/noah-isme/campus-cal/internal/service"
)

type authService interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type userService interface {
	Create(ctx context.Context, actor *models.User, req service.CreateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor *models.User, username string) error
	Modify(ctx context.Context, actor *models.User, username string, req service.UpdateUserRequest) error
	List(ctx context.Context, actor *models.User) ([]models.User, error)
}

type eventService interface {
	CreatePersonal(ctx context.Context, actor *models.User, req service.CreateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, actor *models.User, id string) error
	List(ctx context.Context, actor *models.User) ([]models.Event, error)
	ListAcademic(ctx context.Context, actor *models.User) ([]models.AcademicEventDetail, error)
}

type importService interface {
	ImportCanvas(ctx context.Context, url, token string) (*models.ImportSummary, error)
}

const optionsLine = "Options: login, logout, add_user, del_user, mod_user, import_canvas, add_event, del_event, list, exit"

// REPL is the interactive command loop.
type REPL struct {
	in       *bufio.Scanner
	out      io.Writer
	auth     authService
	users    userService
	events   eventService
	importer importService
	logger   *zap.Logger

	session *models.User
}

// New builds a REPL over the given input and output streams.
func New(in io.Reader, out io.Writer, auth authService, users userService, events eventService, importer importService, logger *zap.Logger) *REPL {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &REPL{
		in:       bufio.NewScanner(in),
		out:      out,
		auth:     auth,
		users:    users,
		events:   events,
		importer: importer,
		logger:   logger,
	}
}

// Run executes commands until exit, EOF or context cancellation. Command
// failures are reported to the operator and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "campus-cal interactive calendar")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, optionsLine)
		line, ok := r.prompt("cmd> ")
		if !ok {
			return nil
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "login":
			r.login(ctx)
		case "logout":
			r.session = nil
			fmt.Fprintln(r.out, "Logged out")
		case "add_user":
			r.addUser(ctx)
		case "del_user":
			r.delUser(ctx)
		case "mod_user":
			r.modUser(ctx)
		case "import_canvas":
			r.importCanvas(ctx)
		case "add_event":
			r.addEvent(ctx)
		case "del_event":
			r.delEvent(ctx)
		case "list":
			r.list(ctx)
		case "exit":
			return nil
		case "":
			// blank input re-prompts
		default:
			fmt.Fprintln(r.out, "Unknown command")
		}
	}
}

func (r *REPL) prompt(label string) (string, bool) {
	fmt.Fprint(r.out, label)
	if !r.in.Scan() {
		return "", false
	}
	return r.in.Text(), true
}

func (r *REPL) promptTrim(label string) (string, bool) {
	line, ok := r.prompt(label)
	return strings.TrimSpace(line), ok
}

func yes(raw string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "y")
}

func (r *REPL) login(ctx context.Context) {
	username, ok := r.promptTrim("Username: ")
	if !ok {
		return
	}
	password, ok := r.prompt("Password: ")
	if !ok {
		return
	}

	user, err := r.auth.Authenticate(ctx, username, password)
	if err != nil {
		fmt.Fprintln(r.out, err.Error())
		return
	}
	r.session = user
	fmt.Fprintln(r.out, "Logged in")
}

func (r *REPL) addUser(ctx context.Context) {
	isAdmin, ok := r.prompt("Is admin? (y/N): ")
	if !ok {
		return
	}
	username, ok := r.promptTrim("New username: ")
	if !ok {
		return
	}
	password, ok := r.prompt("New password: ")
	if !ok {
		return
	}

	user, err := r.users.Create(ctx, r.session, service.CreateUserRequest{
		Username: username,
		Password: password,
		IsAdmin:  yes(isAdmin),
	})
	if err != nil {
		fmt.Fprintln(r.out, "Failed to create user:", err.Error())
		return
	}
	fmt.Fprintf(r.out, "Created user %s (id=%s)\n", user.Username, user.ID)
}

func (r *REPL) delUser(ctx context.Context) {
	username, ok := r.promptTrim("Username to delete: ")
	if !ok {
		return
	}
	if err := r.users.Delete(ctx, r.session, username); err != nil {
		fmt.Fprintln(r.out, "Failed to delete user:", err.Error())
		return
	}
	fmt.Fprintf(r.out, "Deleted user %s\n", username)
}

func (r *REPL) modUser(ctx context.Context) {
	username, ok := r.promptTrim("Username to modify: ")
	if !ok {
		return
	}

	req := service.UpdateUserRequest{}

	newUsername, ok := r.promptTrim("New username (blank to keep): ")
	if !ok {
		return
	}
	if newUsername != "" {
		req.Username = &newUsername
	}

	changePw, ok := r.prompt("Change password? (y/N): ")
	if !ok {
		return
	}
	if yes(changePw) {
		newPw, ok := r.prompt("New password: ")
		if !ok {
			return
		}
		req.Password = &newPw
	}

	adminInput, ok := r.promptTrim("Is admin? (y/N, blank to keep): ")
	if !ok {
		return
	}
	if adminInput != "" {
		isAdmin := yes(adminInput)
		req.IsAdmin = &isAdmin
	}

	if err := r.users.Modify(ctx, r.session, username, req); err != nil {
		fmt.Fprintln(r.out, "Failed to modify user:", err.Error())
		return
	}
	fmt.Fprintln(r.out, "User updated")
}

func (r *REPL) importCanvas(ctx context.Context) {
	fmt.Fprintln(r.out, "Canvas API URL format: https://your-canvas-instance.instructure.com/api/v1/courses")
	url, ok := r.promptTrim("Canvas API URL: ")
	if !ok {
		return
	}
	token, ok := r.promptTrim("Canvas API token (get from Account > Settings > Approved Integrations): ")
	if !ok {
		return
	}

	summary, err := r.importer.ImportCanvas(ctx, url, token)
	if err != nil {
		fmt.Fprintln(r.out, "Failed to import canvas data:", err.Error())
		return
	}
	fmt.Fprintf(r.out, "Imported %d events across %d courses (%d new, %d existing)\n",
		summary.EventsCreated, summary.CoursesCreated+summary.CoursesReused, summary.CoursesCreated, summary.CoursesReused)
}

func (r *REPL) addEvent(ctx context.Context) {
	title, ok := r.promptTrim("Title: ")
	if !ok {
		return
	}
	start, ok := r.promptTrim("Start datetime (YYYY-MM-DD HH:MM) or blank: ")
	if !ok {
		return
	}
	end, ok := r.promptTrim("End datetime (YYYY-MM-DD HH:MM) or blank: ")
	if !ok {
		return
	}
	status, ok := r.promptTrim("Status (optional): ")
	if !ok {
		return
	}
	priority, ok := r.promptTrim("Priority (optional): ")
	if !ok {
		return
	}

	event, err := r.events.CreatePersonal(ctx, r.session, service.CreateEventRequest{
		Title:    title,
		Start:    start,
		End:      end,
		Status:   status,
		Priority: priority,
	})
	if err != nil {
		fmt.Fprintln(r.out, "Failed to create event:", err.Error())
		return
	}
	fmt.Fprintf(r.out, "Event created (id=%s)\n", event.ID)
}

func (r *REPL) delEvent(ctx context.Context) {
	id, ok := r.promptTrim("Event id to delete: ")
	if !ok {
		return
	}
	if err := r.events.Delete(ctx, r.session, id); err != nil {
		fmt.Fprintln(r.out, "Failed to delete event:", err.Error())
		return
	}
	fmt.Fprintln(r.out, "Event deleted")
}

func (r *REPL) list(ctx context.Context) {
	if r.session != nil && r.session.IsAdmin {
		users, err := r.users.List(ctx, r.session)
		if err != nil {
			fmt.Fprintln(r.out, "Failed to list users:", err.Error())
		} else {
			fmt.Fprintln(r.out, "-- Users --")
			for _, u := range users {
				fmt.Fprintf(r.out, "%s\t%s\tadmin=%t\n", u.ID, u.Username, u.IsAdmin)
			}
		}
	}

	events, err := r.events.List(ctx, r.session)
	if err != nil {
		fmt.Fprintln(r.out, "Failed to list events:", err.Error())
		return
	}
	fmt.Fprintln(r.out, "-- Events --")
	for _, e := range events {
		fmt.Fprintf(r.out, "%s\t%s\t%s\t%s\towner=%s\n",
			e.ID, e.Title, fmtTime(e.StartAt), fmtTime(e.EndAt), strValue(e.UserID))
	}

	academic, err := r.events.ListAcademic(ctx, r.session)
	if err != nil {
		fmt.Fprintln(r.out, "Failed to list academic events:", err.Error())
		return
	}
	fmt.Fprintln(r.out, "-- Academic Events --")
	for _, ae := range academic {
		fmt.Fprintf(r.out, "%s\t%s\t%s\t%s\tcourse=%s\n",
			ae.EventID, ae.Title, fmtTime(ae.DueAt), strValue(ae.AcademicType), strValue(ae.CourseID))
	}
}

func fmtTime(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.Format("2006-01-02 15:04")
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
