// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/mailer"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// memoryUsers is an in-memory [UserRepository].
type memoryUsers struct {
	mu   sync.Mutex
	byID map[string]*User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]*User{}}
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.byID[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, ErrUserNotFound
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryUsers) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
		if existing.Username == user.Username {
			return ErrUsernameTaken
		}
	}
	clone := *user
	m.byID[user.ID] = &clone
	return nil
}

func (m *memoryUsers) SetCodeHash(_ context.Context, userID, codeHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.CodeHash = codeHash
	return nil
}

func (m *memoryUsers) MarkVerified(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.IsVerified = true
	return nil
}

func (m *memoryUsers) add(user *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[user.ID] = user
}

func (m *memoryUsers) get(id string) User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.byID[id]
}

// memorySessions is an in-memory [SessionRepository].
type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]*Session{}}
}

func (m *memorySessions) Create(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *session
	m.sessions[session.TokenHash] = &clone
	return nil
}

func (m *memorySessions) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[tokenHash]
	if !ok || session.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (m *memorySessions) Delete(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, session.TokenHash)
	return nil
}

func (m *memorySessions) DeleteAllForUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, session := range m.sessions {
		if session.UserID == userID {
			delete(m.sessions, hash)
		}
	}
	return nil
}

func (m *memorySessions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// outbox records every mail instead of sending it.
type outbox struct {
	mu    sync.Mutex
	codes map[string][]string
	fail  bool
}

func newOutbox() *outbox {
	return &outbox{codes: map[string][]string{}}
}

func (o *outbox) Send(_ context.Context, recipient, templateName string, data any) error {
	if o.fail {
		return errors.New("smtp: connection refused")
	}
	payload, ok := data.(mailer.ConfirmationCodeData)
	if !ok || templateName != mailer.TemplateConfirmationCode {
		return errors.New("unexpected template")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codes[recipient] = append(o.codes[recipient], payload.Code)
	return nil
}

func (o *outbox) lastCode(recipient string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	codes := o.codes[recipient]
	if len(codes) == 0 {
		return ""
	}
	return codes[len(codes)-1]
}

// staticTokens signs nothing; it encodes the subject for assertions.
type staticTokens struct{}

func (staticTokens) GenerateAccessToken(userID, username string, role sec.UserRole, _ time.Duration) (string, error) {
	return "access:" + userID + ":" + username + ":" + string(role), nil
}

type harness struct {
	service  *Service
	users    *memoryUsers
	sessions *memorySessions
	outbox   *outbox
}

func newHarness(options Options) *harness {
	if options.AccessTokenTTL == 0 {
		options.AccessTokenTTL = time.Hour
	}
	if options.RefreshTokenTTL == 0 {
		options.RefreshTokenTTL = 24 * time.Hour
	}

	h := &harness{
		users:    newMemoryUsers(),
		sessions: newMemorySessions(),
		outbox:   newOutbox(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.service = NewService(h.users, h.sessions, h.outbox, staticTokens{}, options, logger)
	return h
}
