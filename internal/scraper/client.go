package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Kreger51/mcgill-schedule/internal/course"
	"github.com/Kreger51/mcgill-schedule/internal/logger"
)

const (
	BaseURL   = "https://horizon.mcgill.ca/pban1"
	UserAgent = "mcgill-schedule/1.0 (github.com/Kreger51/mcgill-schedule)"
	Timeout   = 30 * time.Second

	loginPath    = "/twbkwbis.P_ValLogin"
	schedulePath = "/bwskfshd.P_CrseSchdDetl"

	authFailureMarker   = "Authorization Failure"
	notRegisteredMarker = "You are not currently registered for the term."
)

// Seasons lists the valid season names, in term order within a year.
var Seasons = []string{"fall", "winter", "summer"}

// seasonCodes maps a season to the month code Minerva uses in term ids.
var seasonCodes = map[string]string{
	"fall":   "09",
	"winter": "01",
	"summer": "05",
}

// Term builds the Minerva term id (e.g. "201401" for winter 2014). The
// season is case-insensitive; an unknown season returns UnknownSeasonError.
func Term(season string, year int) (string, error) {
	code, ok := seasonCodes[strings.ToLower(season)]
	if !ok {
		return "", &UnknownSeasonError{Season: season}
	}
	return fmt.Sprintf("%d%s", year, code), nil
}

// Client logs into Minerva and fetches schedule pages. It performs a single
// synchronous call per fetch and no retries; retry policy belongs to the
// caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client with a cookie-backed session, as Minerva's
// login flow requires.
func NewClient() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{
			Timeout: Timeout,
			Jar:     jar,
		},
		baseURL: BaseURL,
	}
}

// FetchSchedule logs in and returns the raw "Schedule by Course Section"
// HTML for the given term. It fails with ErrLoginFailed, ErrNotRegistered
// or UnknownSeasonError; any other error is a transport problem.
func (c *Client) FetchSchedule(ctx context.Context, user, secret, season string, year int) (string, error) {
	term, err := Term(season, year)
	if err != nil {
		return "", err
	}

	// Prime the session cookie before posting credentials.
	if _, err := c.get(ctx, loginPath); err != nil {
		return "", fmt.Errorf("opening login page: %w", err)
	}

	loginForm := url.Values{"sid": {user}, "PIN": {secret}}
	body, err := c.postForm(ctx, loginPath, loginForm)
	if err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	if strings.Contains(body, authFailureMarker) {
		return "", ErrLoginFailed
	}

	termForm := url.Values{"term_in": {term}}
	body, err = c.postForm(ctx, schedulePath, termForm)
	if err != nil {
		return "", fmt.Errorf("selecting term: %w", err)
	}
	if strings.Contains(body, notRegisteredMarker) {
		return "", ErrNotRegistered
	}

	html, err := c.get(ctx, schedulePath)
	if err != nil {
		return "", fmt.Errorf("fetching schedule: %w", err)
	}

	logger.Info("Fetched schedule", logger.Fields{
		"term":  term,
		"bytes": len(html),
	})
	return html, nil
}

// FetchCourses fetches the schedule for the term and parses it with p.
func (c *Client) FetchCourses(ctx context.Context, p *Parser, user, secret, season string, year int) ([]course.Course, error) {
	html, err := c.FetchSchedule(ctx, user, secret, season, year)
	if err != nil {
		return nil, err
	}
	return p.Parse(strings.NewReader(html))
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	return c.do(req)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (string, error) {
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}
