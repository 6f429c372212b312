package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/cucumber/godog"
)

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	saved        map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:    tc,
		saved: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset(ctx)
	})

	// Background steps
	sc.Step(`^a NetOps server is running$`, s.aNetOpsServerIsRunning)

	// Request steps
	sc.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (POST|PATCH) request to "([^"]*)" with:$`, s.iSendARequestWithBody)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, s.theJSONFieldShouldBe)
	sc.Step(`^the error message should be "([^"]*)"$`, s.theErrorMessageShouldBe)
	sc.Step(`^I save the JSON field "([^"]*)" as "([^"]*)"$`, s.iSaveTheJSONFieldAs)

	// Audit steps
	sc.Step(`^the audit log should contain (\d+) "([^"]*)" entr(?:y|ies)$`, s.theAuditLogShouldContainEntries)
	sc.Step(`^the audit log should record "([^"]*)" by "([^"]*)"$`, s.theAuditLogShouldRecordBy)

	s.registerTokenSteps(sc)
}

func (s *StepsContext) aNetOpsServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

// expand replaces {{name}} with values saved by earlier steps
func (s *StepsContext) expand(text string) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if v, ok := s.saved[name]; ok {
			return v
		}
		return m
	})
}

func (s *StepsContext) do(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, s.tc.ServerURL()+s.expand(path), body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.do(method, path, nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, path, strings.NewReader(s.expand(body.Content)))
}

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), s.expand(expected)) {
		return fmt.Errorf("expected response to contain %q, got %s", expected, string(s.responseBody))
	}
	return nil
}

// jsonField looks up a dotted path in the response body
func (s *StepsContext) jsonField(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(s.responseBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: %s is not an object", path, key)
		}
		if doc, ok = obj[key]; !ok {
			return nil, fmt.Errorf("field %q not found in %s", path, string(s.responseBody))
		}
	}
	return doc, nil
}

func (s *StepsContext) theJSONFieldShouldBe(path, expected string) error {
	v, err := s.jsonField(path)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != s.expand(expected) {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, got)
	}
	return nil
}

func (s *StepsContext) theErrorMessageShouldBe(expected string) error {
	return s.theJSONFieldShouldBe("error.message", expected)
}

func (s *StepsContext) iSaveTheJSONFieldAs(path, name string) error {
	v, err := s.jsonField(path)
	if err != nil {
		return err
	}
	s.saved[name] = fmt.Sprint(v)
	return nil
}

func (s *StepsContext) theAuditLogShouldContainEntries(ctx context.Context, count int, action string) error {
	n, err := s.tc.CountAudit(ctx, action, "")
	if err != nil {
		return err
	}
	if n != count {
		return fmt.Errorf("expected %d %q audit entries, found %d", count, action, n)
	}
	return nil
}

func (s *StepsContext) theAuditLogShouldRecordBy(ctx context.Context, action, userID string) error {
	n, err := s.tc.CountAudit(ctx, action, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no %q audit entry recorded for %s", action, userID)
	}
	return nil
}
