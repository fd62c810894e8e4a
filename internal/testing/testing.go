// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
)

// FetchCall records one request made through a [MockFetcher].
type FetchCall struct {
	Method string
	Path   string
	Params map[string]string
	Body   any
}

// MockFetcher is a canned-payload test double for services.Fetcher.
//
// Responses are keyed by path. A path present in Errs fails with that
// error; Err, when set, fails every call. Calls records request order.
type MockFetcher struct {
	Responses map[string][]byte
	Errs      map[string]error
	Err       error
	Calls     []FetchCall
}

func (m *MockFetcher) Get(_ context.Context, path string, params map[string]string) ([]byte, error) {
	m.Calls = append(m.Calls, FetchCall{Method: "GET", Path: path, Params: params})
	return m.respond(path)
}

func (m *MockFetcher) Post(_ context.Context, path string, body any) ([]byte, error) {
	m.Calls = append(m.Calls, FetchCall{Method: "POST", Path: path, Body: body})
	return m.respond(path)
}

func (m *MockFetcher) respond(path string) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if err, ok := m.Errs[path]; ok {
		return nil, err
	}
	if body, ok := m.Responses[path]; ok {
		return body, nil
	}
	return nil, fmt.Errorf("no canned response for %s", path)
}

// CallCount returns how many requests hit the given path.
func (m *MockFetcher) CallCount(path string) int {
	n := 0
	for _, call := range m.Calls {
		if call.Path == path {
			n++
		}
	}
	return n
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
