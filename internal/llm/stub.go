package llm

import "context"

// StubClient is a canned-response Client for tests. Responses are consumed
// in order; when exhausted the last one repeats. A non-nil Err is returned
// on every call instead.
type StubClient struct {
	Responses []string
	Err       error

	calls int
	// Prompts records every user prompt seen, for assertions.
	Prompts []string
}

var _ Client = (*StubClient)(nil)

func (s *StubClient) next(userPrompt string) (string, error) {
	s.Prompts = append(s.Prompts, userPrompt)
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Responses) == 0 {
		return "", ErrNoStructuredOutput
	}
	i := s.calls
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	s.calls++
	return s.Responses[i], nil
}

func (s *StubClient) Complete(_ context.Context, prompt string) (string, error) {
	return s.next(prompt)
}

func (s *StubClient) CompleteWithSystem(_ context.Context, _, userPrompt string) (string, error) {
	return s.next(userPrompt)
}

func (s *StubClient) CompleteWithSchema(_ context.Context, _, userPrompt, _ string) (string, error) {
	return s.next(userPrompt)
}

// CallCount returns how many completions were requested.
func (s *StubClient) CallCount() int {
	return s.calls
}
