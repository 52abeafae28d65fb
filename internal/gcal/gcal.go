package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tackle-cli/internal/model"
	"tackle-cli/internal/taskapi"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Client pushes tasks into a Google Calendar using a pre-provisioned OAuth
// access token stored on disk. Obtaining and refreshing the token is out of
// scope here; `tackle doctor` tells the user when the token is missing or
// expired.
type Client struct {
	tokenPath  string
	calendarID string
	baseURL    string
	http       *http.Client
	now        func() time.Time
}

type Opts struct {
	// TokenPath overrides the default token location
	// (<user config dir>/tackle/gcal_token.json).
	TokenPath string
	// CalendarID defaults to "primary".
	CalendarID string
	// BaseURL overrides the API endpoint (tests).
	BaseURL string
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	// Now overrides the clock (tests).
	Now func() time.Time
}

func New(opts Opts) *Client {
	c := &Client{
		tokenPath:  opts.TokenPath,
		calendarID: opts.CalendarID,
		baseURL:    opts.BaseURL,
		http:       opts.HTTPClient,
		now:        opts.Now,
	}
	if c.tokenPath == "" {
		c.tokenPath = DefaultTokenPath()
	}
	if c.calendarID == "" {
		c.calendarID = "primary"
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// DefaultTokenPath is where the auth helper drops the token.
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tackle", "gcal_token.json")
}

type token struct {
	AccessToken string    `json:"access_token"`
	Expiry      time.Time `json:"expiry,omitempty"`
}

func (c *Client) loadToken() (*token, error) {
	b, err := os.ReadFile(c.tokenPath)
	if err != nil {
		return nil, err
	}
	var tok token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, err
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return nil, errors.New("gcal: token file has no access_token")
	}
	if !tok.Expiry.IsZero() && !tok.Expiry.After(c.now()) {
		return nil, errors.New("gcal: token expired")
	}
	return &tok, nil
}

// Authenticated reports whether a usable token is on disk.
func (c *Client) Authenticated() bool {
	_, err := c.loadToken()
	return err == nil
}

type eventBody struct {
	Summary     string         `json:"summary"`
	Description string         `json:"description,omitempty"`
	Start       eventTime      `json:"start"`
	End         eventTime      `json:"end"`
	Source      map[string]any `json:"source,omitempty"`
}

type eventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type eventResponse struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

// SyncTask creates a calendar event for the task. Tasks with a due time
// become a timed block of durationHours; tasks with a date-only due become
// all-day events. Auth problems come back as data on the result.
func (c *Client) SyncTask(ctx context.Context, task model.TaskDetail, durationHours float64) (*taskapi.CalendarSyncResult, error) {
	tok, err := c.loadToken()
	if err != nil {
		return &taskapi.CalendarSyncResult{Success: false, Error: "not authenticated with calendar"}, nil
	}
	if task.Due == nil {
		return &taskapi.CalendarSyncResult{Success: false, Error: "task has no due date"}, nil
	}
	if durationHours <= 0 {
		durationHours = 1
	}

	body, err := buildEvent(task, durationHours)
	if err != nil {
		return &taskapi.CalendarSyncResult{Success: false, Error: err.Error()}, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, c.calendarID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &taskapi.CalendarSyncResult{Success: false, Error: "not authenticated with calendar"}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &taskapi.CalendarSyncResult{
			Success: false,
			Error:   fmt.Sprintf("calendar API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}, nil
	}

	var ev eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
		return nil, err
	}
	return &taskapi.CalendarSyncResult{
		Success:  true,
		EventID:  ev.ID,
		EventURL: ev.HTMLLink,
		Action:   "created",
	}, nil
}

func buildEvent(task model.TaskDetail, durationHours float64) (*eventBody, error) {
	ev := &eventBody{
		Summary:     task.Title,
		Description: task.Description,
	}

	if task.Due.Time == nil {
		// All-day event: end date is exclusive.
		start, err := time.Parse("2006-01-02", task.Due.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q", task.Due.Date)
		}
		ev.Start = eventTime{Date: task.Due.Date}
		ev.End = eventTime{Date: start.AddDate(0, 0, 1).Format("2006-01-02")}
		return ev, nil
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", task.Due.Date+" "+*task.Due.Time, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid due time %q %q", task.Due.Date, *task.Due.Time)
	}
	end := start.Add(time.Duration(durationHours * float64(time.Hour)))
	tz := time.Local.String()
	ev.Start = eventTime{DateTime: start.Format(time.RFC3339), TimeZone: tz}
	ev.End = eventTime{DateTime: end.Format(time.RFC3339), TimeZone: tz}
	return ev, nil
}

var _ taskapi.Calendar = (*Client)(nil)
