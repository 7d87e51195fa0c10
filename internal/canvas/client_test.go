package canvas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCoursesBareList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":7,"name":"CS101","events":[{"title":"HW1","due_at":"2024-05-01T00:00:00Z"}]}]`))
	}))
	defer srv.Close()

	courses, err := NewClient(time.Second).FetchCourses(context.Background(), srv.URL, "tok123")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "7", courses[0].ID.String())
	assert.Equal(t, "CS101", courses[0].Name)
	require.Len(t, courses[0].Events, 1)
	assert.Equal(t, "2024-05-01T00:00:00Z", courses[0].Events[0].DueAt)
}

func TestFetchCoursesWrappedObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"courses":[{"id":"MATH-2","course_name":"Calculus"}]}`))
	}))
	defer srv.Close()

	courses, err := NewClient(time.Second).FetchCourses(context.Background(), srv.URL, "")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "MATH-2", courses[0].ID.String())
	assert.Equal(t, "Calculus", courses[0].CourseName)
}

func TestFetchCoursesNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).FetchCourses(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchCoursesUnexpectedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"things":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).FetchCourses(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected payload shape")
}

func TestFetchCoursesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient(20 * time.Millisecond).FetchCourses(context.Background(), srv.URL, "")
	require.Error(t, err)
}
