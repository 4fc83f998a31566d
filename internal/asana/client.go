// Package asana talks to the Asana REST API.
package asana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	goasana "github.com/tambet/go-asana/asana"
	"go.uber.org/zap"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// ErrUnauthorized is returned when the client has no usable token
var ErrUnauthorized = errors.New("asana client authorization failed")

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("asana api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("asana api: status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// FieldMap translates field roles and statuses to Asana ids
type FieldMap struct {
	Fields       map[models.FieldRole]string
	StatusValues map[models.TaskStatus]string
}

// validate checks that every status can be written, so a missing option
// fails before any mutation is attempted
func (f FieldMap) validate() error {
	if f.Fields[models.FieldStatus] == "" {
		return errors.New("no status custom field configured")
	}
	for _, s := range []models.TaskStatus{
		models.StatusInProgress,
		models.StatusInReview,
		models.StatusApproved,
		models.StatusRejected,
		models.StatusMerged,
	} {
		if f.StatusValues[s] == "" {
			return fmt.Errorf("no status field option configured for %s", s)
		}
	}
	return nil
}

// Client is one authenticated Asana session
type Client struct {
	baseURL *url.URL
	token   string
	fields  FieldMap
	http    *http.Client
	log     *zap.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a session using a personal access token
func NewClient(baseURL, token string, fields FieldMap, log *zap.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrUnauthorized
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}
	// go-asana resolves paths relative to the base, which needs a trailing slash
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid asana base url %q: %w", baseURL, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL: base,
		token:   token,
		fields:  fields,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type gidRef struct {
	GID string `json:"gid"`
}

type taskData struct {
	GID         string `json:"gid"`
	Completed   bool   `json:"completed"`
	Memberships []struct {
		Project gidRef  `json:"project"`
		Section *gidRef `json:"section"`
	} `json:"memberships"`
	CreatedBy *gidRef `json:"created_by"`
}

// optFields expands the short field names to the nested fields Asana needs
var optFields = map[string][]string{
	"memberships": {"memberships.project.gid", "memberships.section.gid"},
	"completed":   {"completed"},
	"created_by":  {"created_by.gid"},
}

// GetTask reads a task. fields limits the returned data (memberships,
// completed, created_by).
func (c *Client) GetTask(ctx context.Context, taskID string, fields ...string) (models.Task, error) {
	var expanded []string
	for _, f := range fields {
		if opt, ok := optFields[f]; ok {
			expanded = append(expanded, opt...)
		} else {
			expanded = append(expanded, f)
		}
	}

	var data taskData
	if err := c.get(ctx, "tasks/"+url.PathEscape(taskID), expanded, &data); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:        data.GID,
		Completed: data.Completed,
	}
	if task.ID == "" {
		task.ID = taskID
	}
	for _, m := range data.Memberships {
		membership := models.Membership{ProjectID: m.Project.GID}
		if m.Section != nil {
			membership.SectionID = m.Section.GID
		}
		task.Memberships = append(task.Memberships, membership)
	}
	if data.CreatedBy != nil {
		task.CreatorID = data.CreatedBy.GID
	}
	return task, nil
}

// UpdateTask writes custom fields and the assignee
func (c *Client) UpdateTask(ctx context.Context, taskID string, update models.TaskUpdate) error {
	payload, err := c.updatePayload(update)
	if err != nil {
		return err
	}
	return c.write(ctx, http.MethodPut, "tasks/"+url.PathEscape(taskID), payload)
}

func (c *Client) updatePayload(update models.TaskUpdate) (map[string]any, error) {
	customFields := make(map[string]string)
	for role, value := range update.Fields {
		gid := c.fields.Fields[role]
		if gid == "" {
			c.log.Debug("no custom field configured, skipping", zap.Stringer("field", role))
			continue
		}
		customFields[gid] = value
	}
	if update.Status != nil {
		gid := c.fields.Fields[models.FieldStatus]
		option := c.fields.StatusValues[*update.Status]
		if gid == "" || option == "" {
			return nil, fmt.Errorf("no status field option configured for %s", *update.Status)
		}
		customFields[gid] = option
	}

	payload := map[string]any{"custom_fields": customFields}
	switch update.Assignee {
	case models.AssigneeClear:
		payload["assignee"] = nil
	case models.AssigneeSet:
		payload["assignee"] = update.AssigneeID
	}
	return payload, nil
}

// MoveTaskToSection adds the task to a project section, moving it when it
// already belongs to the project
func (c *Client) MoveTaskToSection(ctx context.Context, taskID, projectID, sectionID string) error {
	data := map[string]string{
		"project": projectID,
		"section": sectionID,
	}
	return c.write(ctx, http.MethodPost, "tasks/"+url.PathEscape(taskID)+"/addProject", data)
}

// GetSectionsForProject lists the sections of a project
func (c *Client) GetSectionsForProject(ctx context.Context, projectID string) ([]models.BoardSection, error) {
	var sections []models.BoardSection
	if err := c.get(ctx, "projects/"+url.PathEscape(projectID)+"/sections", []string{"name"}, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// get reads path through the go-asana client, decoding the data envelope
// into out
func (c *Client) get(ctx context.Context, path string, fields []string, out any) error {
	status := 0
	api := goasana.NewClient(goasana.DoerFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := c.send(req)
		if resp != nil {
			status = resp.StatusCode
		}
		return resp, err
	}))
	api.BaseURL = c.baseURL

	err := api.Request(ctx, path, &goasana.Filter{OptFields: fields}, out)
	if status != 0 && (status < 200 || status >= 300) {
		return newAPIError(status, err)
	}
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return nil
}

// write sends a JSON body. go-asana only updates notes and cannot add a task
// to a project section, so mutations are built here and share its envelope
// types.
func (c *Client) write(ctx context.Context, method, path string, data any) error {
	body, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.send(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var envelope goasana.Response
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)
	if decodeErr == nil && len(envelope.Errors) > 0 {
		return newAPIError(resp.StatusCode, envelope.Errors)
	}
	return newAPIError(resp.StatusCode, nil)
}

// send authenticates and runs one request
func (c *Client) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("asana request", zap.String("method", req.Method), zap.String("path", req.URL.Path))
	return c.http.Do(req)
}

func newAPIError(status int, err error) *APIError {
	apiErr := &APIError{StatusCode: status}
	var errs goasana.Errors
	if errors.As(err, &errs) {
		for _, e := range errs {
			apiErr.Messages = append(apiErr.Messages, e.Message)
		}
	}
	return apiErr
}
