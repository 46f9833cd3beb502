package completion

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockClient is a scriptable backend for tests: responses are keyed by a
// substring of the prompt, with an optional fallback and error injection.
type MockClient struct {
	mu sync.Mutex
	// responses maps a prompt substring to the canned response.
	responses map[string]string
	// fallback is returned when no substring matches.
	fallback string
	// err, when set, fails every call.
	err error
	// prompts records every prompt received, in order.
	prompts []string
}

// NewMockClient creates a mock with an empty script.
func NewMockClient() *MockClient {
	return &MockClient{responses: make(map[string]string)}
}

// Respond registers a canned response for prompts containing match.
func (m *MockClient) Respond(match, response string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[match] = response
	return m
}

// Fallback sets the response for unmatched prompts.
func (m *MockClient) Fallback(response string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = response
	return m
}

// Fail makes every subsequent call return err.
func (m *MockClient) Fail(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Prompts returns the prompts received so far.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Complete implements Client.
func (m *MockClient) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	for match, response := range m.responses {
		if strings.Contains(prompt, match) {
			return response, nil
		}
	}
	if m.fallback != "" {
		return m.fallback, nil
	}
	return "", fmt.Errorf("mock: no scripted response for prompt %q", prompt)
}
