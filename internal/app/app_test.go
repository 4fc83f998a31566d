package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobsuccess-devops/github-actions-asana/internal/asana"
	"github.com/mobsuccess-devops/github-actions-asana/internal/config"
	"github.com/mobsuccess-devops/github-actions-asana/internal/github"
	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

const (
	taskID = "1200114477821446"
	body   = "ticket https://app.asana.com/0/1200114135468212/1200114477821446/f"
)

type fakeGitHub struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeGitHub) run(_ context.Context, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := strings.Join(args, " ")
	f.calls = append(f.calls, call)
	switch {
	case strings.HasSuffix(call, "pulls/7/reviews"):
		return []byte("[]\n"), nil
	case strings.Contains(call, "contents/.mobsuccess.yml"):
		return []byte("asana:\n  accept_ms_testers_without_closed_task: true\n"), nil
	default:
		return []byte("{}"), nil
	}
}

type fakeAsana struct {
	mu      sync.Mutex
	moves   []string
	updates []map[string]any
}

func (f *fakeAsana) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer pat", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{
			"gid":"` + taskID + `",
			"completed":false,
			"memberships":[
				{"project":{"gid":"1200175269622723"},"section":{"gid":"1200175269622815"}},
				{"project":{"gid":"999"},"section":{"gid":"a"}}
			],
			"created_by":{"gid":"creator"}
		}}`))
	})
	mux.HandleFunc("GET /projects/999/sections", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"gid":"a","name":"Backlog"},{"gid":"b","name":"To test"}]}`))
	})
	mux.HandleFunc("POST /tasks/{id}/addProject", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Data struct {
				Project string `json:"project"`
				Section string `json:"section"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.moves = append(f.moves, req.Data.Project+"/"+req.Data.Section)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"data":{}}`))
	})
	mux.HandleFunc("PUT /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.updates = append(f.updates, req.Data)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"data":{}}`))
	})
	return mux
}

func setup(t *testing.T, token string) (*App, *fakeGitHub, *fakeAsana) {
	t.Helper()

	tracker := &fakeAsana{}
	srv := httptest.NewServer(tracker.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Asana.BaseURL = srv.URL

	gh := &fakeGitHub{}
	a := New(cfg, Settings{TriggerPhrase: "ticket", AsanaToken: token}, gh.run, nil)
	return a, gh, tracker
}

func pullRequestEvent() *github.Event {
	return &github.Event{
		Name:       "pull_request",
		Repository: models.RepoRef{Owner: "mobsuccess-devops", Name: "web"},
		PullRequest: &models.ChangeRequest{
			Number:             7,
			HTMLURL:            "https://github.com/mobsuccess-devops/web/pull/7",
			Body:               body,
			HeadRef:            "feature",
			RequestedReviewers: []models.Identity{{ID: 1, Login: "ms-testers"}},
		},
	}
}

func TestSynchronizeTesterHandoff(t *testing.T) {
	t.Parallel()

	a, gh, tracker := setup(t, "pat")

	res, err := a.Synchronize(context.Background(), pullRequestEvent())
	require.NoError(t, err)

	assert.Equal(t, taskID, res.TaskID)
	assert.True(t, res.Corrected)
	assert.True(t, res.Bypassed)
	assert.Equal(t, 2, res.Moves)

	assert.Equal(t, []string{
		"api --paginate repos/mobsuccess-devops/web/pulls/7/reviews",
		"api --method DELETE repos/mobsuccess-devops/web/pulls/7/requested_reviewers -f reviewers[]=ms-testers",
		"api --method POST repos/mobsuccess-devops/web/issues/7/assignees -f assignees[]=ms-testers",
		"api -H Accept: application/vnd.github.raw repos/mobsuccess-devops/web/contents/.mobsuccess.yml?ref=feature",
	}, gh.calls)

	assert.Equal(t, []string{"1200175269622723/1200175269622816", "999/b"}, tracker.moves)

	require.Len(t, tracker.updates, 1)
	update := tracker.updates[0]
	assert.Equal(t, "creator", update["assignee"])
	assert.Equal(t, map[string]any{
		"1200114403104483": "https://github.com/mobsuccess-devops/web/pull/7",
		"1200114505696486": "1200114505696487",
	}, update["custom_fields"])
}

func TestSynchronizeSkipsMergeGroup(t *testing.T) {
	t.Parallel()

	a, gh, tracker := setup(t, "pat")
	res, err := a.Synchronize(context.Background(), &github.Event{Name: "merge_group", MergeGroup: true})
	require.NoError(t, err)

	assert.Empty(t, res.TaskID)
	assert.Empty(t, gh.calls)
	assert.Empty(t, tracker.updates)
}

func TestSynchronizeErrors(t *testing.T) {
	t.Parallel()

	a, _, _ := setup(t, "pat")
	_, err := a.Synchronize(context.Background(), &github.Event{Name: "push"})
	assert.ErrorIs(t, err, ErrNoPullRequest)

	a, _, _ = setup(t, "")
	_, err = a.Synchronize(context.Background(), pullRequestEvent())
	assert.ErrorIs(t, err, asana.ErrUnauthorized)
}

func TestDebug(t *testing.T) {
	t.Parallel()

	a, gh, tracker := setup(t, "")
	out, err := a.Debug(context.Background(), pullRequestEvent())
	require.NoError(t, err)

	assert.Contains(t, out, taskID)
	assert.Contains(t, out, "mobsuccess-devops/web")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "approved:")
	assert.Equal(t, []string{"api --paginate repos/mobsuccess-devops/web/pulls/7/reviews"}, gh.calls)
	assert.Empty(t, tracker.updates)
	assert.Empty(t, tracker.moves)
}

func TestDebugWithoutPullRequest(t *testing.T) {
	t.Parallel()

	a, gh, _ := setup(t, "")
	out, err := a.Debug(context.Background(), &github.Event{Name: "push"})
	require.NoError(t, err)

	assert.Contains(t, out, "no pull request to synchronize")
	assert.Empty(t, gh.calls)
}
