package asana

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

var testFields = FieldMap{
	Fields: map[models.FieldRole]string{
		models.FieldPullRequest: "f-pr",
		models.FieldStatus:      "f-status",
		models.FieldLive:        "f-live",
	},
	StatusValues: map[models.TaskStatus]string{
		models.StatusInProgress: "o-progress",
		models.StatusInReview:   "o-review",
		models.StatusApproved:   "o-approved",
		models.StatusRejected:   "o-rejected",
		models.StatusMerged:     "o-merged",
	},
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "pat", testFields, nil, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := NewClient("https://app.asana.com/api/1.0", " ", testFields, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/tasks/123", r.URL.Path)
		assert.Equal(t, "memberships.project.gid,memberships.section.gid,completed,created_by.gid", r.URL.Query().Get("opt_fields"))
		assert.Equal(t, "Bearer pat", r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `{"data":{"gid":"123","completed":true,
			"memberships":[{"project":{"gid":"p1"},"section":{"gid":"s1"}},{"project":{"gid":"p2"}}],
			"created_by":{"gid":"u9"}}}`)
	})

	task, err := c.GetTask(context.Background(), "123", "memberships", "completed", "created_by")
	require.NoError(t, err)

	assert.Equal(t, models.Task{
		ID:        "123",
		Completed: true,
		Memberships: []models.Membership{
			{ProjectID: "p1", SectionID: "s1"},
			{ProjectID: "p2"},
		},
		CreatorID: "u9",
	}, task)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		update *models.TaskUpdate
		want   string
	}{
		{
			name:   "fields and status",
			update: models.NewTaskUpdate().Set(models.FieldPullRequest, "https://github.com/o/r/pull/1").SetStatus(models.StatusInReview),
			want:   `{"data":{"custom_fields":{"f-pr":"https://github.com/o/r/pull/1","f-status":"o-review"}}}`,
		},
		{
			name:   "clear assignee",
			update: models.NewTaskUpdate().ClearAssignee(),
			want:   `{"data":{"assignee":null,"custom_fields":{}}}`,
		},
		{
			name:   "assign and skip unconfigured field",
			update: models.NewTaskUpdate().Set(models.FieldStorybook, "x").AssignTo("u9"),
			want:   `{"data":{"assignee":"u9","custom_fields":{}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/tasks/123", r.URL.Path)
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.JSONEq(t, tt.want, string(body))
				_, _ = io.WriteString(w, `{"data":{}}`)
			})

			require.NoError(t, c.UpdateTask(context.Background(), "123", *tt.update))
		})
	}
}

func TestNewClientRequiresStatusOptions(t *testing.T) {
	t.Parallel()

	missingOption := FieldMap{
		Fields:       testFields.Fields,
		StatusValues: map[models.TaskStatus]string{models.StatusInReview: "o-review"},
	}
	_, err := NewClient("https://app.asana.com/api/1.0", "pat", missingOption, nil)
	assert.ErrorContains(t, err, "in_progress")

	missingField := FieldMap{StatusValues: testFields.StatusValues}
	_, err = NewClient("https://app.asana.com/api/1.0", "pat", missingField, nil)
	assert.ErrorContains(t, err, "status custom field")
}

func TestMoveTaskToSection(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tasks/123/addProject", r.URL.Path)

		var body struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"project": "p1", "section": "s2"}, body.Data)
		_, _ = io.WriteString(w, `{"data":{}}`)
	})

	require.NoError(t, c.MoveTaskToSection(context.Background(), "123", "p1", "s2"))
}

func TestGetSectionsForProject(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1/sections", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":[{"gid":"s1","name":"Design"},{"gid":"s2","name":"Ready"}]}`)
	})

	sections, err := c.GetSectionsForProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []models.BoardSection{{ID: "s1", Name: "Design"}, {ID: "s2", Name: "Ready"}}, sections)
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"errors":[{"message":"not authorized"}]}`)
	})

	_, err := c.GetTask(context.Background(), "123")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, []string{"not authorized"}, apiErr.Messages)
	assert.Contains(t, err.Error(), "not authorized")
}

func TestAPIErrorOnWrite(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"errors":[{"message":"try again later"}]}`)
	})

	err := c.MoveTaskToSection(context.Background(), "123", "p1", "s2")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, []string{"try again later"}, apiErr.Messages)
}

func TestAPIErrorWithoutBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.GetSectionsForProject(context.Background(), "p1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Empty(t, apiErr.Messages)
}

func TestBaseURLWithPathPrefix(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/1.0/projects/p1/sections", r.URL.Path)
		assert.Equal(t, "name", r.URL.Query().Get("opt_fields"))
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/api/1.0/", "pat", testFields, nil, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.GetSectionsForProject(context.Background(), "p1")
	require.NoError(t, err)
}
