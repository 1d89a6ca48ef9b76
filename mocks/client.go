// Package mocks provides test doubles for the pizzagpt packages.
package mocks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/teilomillet/pizzagpt/client"
)

// MockClient implements client.Client. SendFunc decides the result of
// each call; without it Send returns a response echoing the prompt.
type MockClient struct {
	SendFunc func(ctx context.Context, prompt string) (client.Response, error)

	calls   atomic.Int64
	mu      sync.Mutex
	prompts []string
}

// Verify at compile time that MockClient implements client.Client
var _ client.Client = (*MockClient)(nil)

// NewMockClient creates a MockClient driven by sendFunc.
func NewMockClient(sendFunc func(ctx context.Context, prompt string) (client.Response, error)) *MockClient {
	return &MockClient{SendFunc: sendFunc}
}

// NewMockClientWithAnswer creates a MockClient that answers every prompt with answer.
func NewMockClientWithAnswer(answer string) *MockClient {
	return NewMockClient(func(ctx context.Context, prompt string) (client.Response, error) {
		return client.Response{StatusCode: 200, Answer: answer}, nil
	})
}

// NewMockClientWithError creates a MockClient that fails every call with err.
func NewMockClientWithError(err error) *MockClient {
	return NewMockClient(func(ctx context.Context, prompt string) (client.Response, error) {
		return client.Response{}, err
	})
}

// Send implements client.Client
func (m *MockClient) Send(ctx context.Context, prompt string) (client.Response, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, prompt)
	}
	return client.Response{StatusCode: 200, Answer: prompt}, nil
}

// Calls returns how many times Send was invoked.
func (m *MockClient) Calls() int {
	return int(m.calls.Load())
}

// Prompts returns the prompts received so far, in call order.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
