// Package canvas fetches course and assignment data from a Canvas-style
// HTTP API and normalizes the payload shape at the boundary.
package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client performs authenticated GETs against the external API. The
// underlying http.Client timeout bounds every fetch; expiry surfaces as a
// normal error, never a hang.
type Client struct {
	http *http.Client
}

// NewClient creates a client with the given fetch timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Course is a raw course object as the API returns it. Alternate field
// names observed in the wild are carried side by side and resolved later
// by the reconciler's fallback chains.
type Course struct {
	ID          FlexID  `json:"id"`
	Name        string  `json:"name"`
	CourseName  string  `json:"course_name"`
	Department  *string `json:"department"`
	Events      []Event `json:"events"`
	Assignments []Event `json:"assignments"`
}

// Event is a raw nested event/assignment object.
type Event struct {
	Title        string `json:"title"`
	Name         string `json:"name"`
	Start        string `json:"start"`
	StartAt      string `json:"start_at"`
	End          string `json:"end"`
	EndAt        string `json:"end_at"`
	Due          string `json:"due"`
	DueAt        string `json:"due_at"`
	DueDt        string `json:"due_dt"`
	AcademicType string `json:"academic_type"`
	Type         string `json:"type"`
}

// FlexID accepts a JSON number or string and carries the stringified form,
// which is the import dedup key.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n.String())
		return nil
	}
	return fmt.Errorf("course id must be a string or number, got %s", data)
}

func (f FlexID) String() string {
	return string(f)
}

// FetchCourses GETs the URL and decodes the course list. A non-empty token
// is sent as a bearer header.
func (c *Client) FetchCourses(ctx context.Context, url, token string) ([]Course, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch courses: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch courses: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return decodeCourses(body)
}

// decodeCourses resolves the payload's tagged union once: either a bare
// list of courses or an object wrapping a "courses" list.
func decodeCourses(body []byte) ([]Course, error) {
	var list []Course
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var wrapper struct {
		Courses []Course `json:"courses"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Courses != nil {
		return wrapper.Courses, nil
	}

	return nil, errors.New(`unexpected payload shape: want a course list or an object with a "courses" field`)
}
