package auth

import "sync"

// Session is per-client server-side state, looked up by a signed
// cookie. It moves through three states: anonymous (zero value),
// pending callback (State set by the login redirect) and authenticated
// (Subject and Name populated from a verified identity token).
//
// Sessions are shared between concurrent requests carrying the same
// cookie, mutation goes through the methods below.
type Session struct {
	mu sync.Mutex

	ID string

	// State is the anti-forgery token round-tripped through the
	// identity provider. Consumed once on callback.
	State string

	Subject string
	Name    string
}

// IssueState generates a fresh anti-forgery token and stores it,
// replacing any pending one.
func (s *Session) IssueState() string {
	state := randomState()
	s.mu.Lock()
	s.State = state
	s.mu.Unlock()
	return state
}

// ConsumeState checks the echoed token against the pending one and
// clears it on a match, so a token never validates twice.
func (s *Session) ConsumeState(echoed string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State == "" || echoed != s.State {
		return false
	}
	s.State = ""
	return true
}

func (s *Session) Authenticate(subject, name string) {
	s.mu.Lock()
	s.Subject = subject
	s.Name = name
	s.mu.Unlock()
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Subject != ""
}

// DisplayName returns the name claim captured at authentication.
func (s *Session) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Name
}
