package app

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"sprout/api/internal/googleid"
	"sprout/api/internal/store"
)

// fakeData is an in-memory dataStore and sessionStore for tests
type fakeData struct {
	nextID   int64
	users    map[string]store.User // by email
	sessions map[string]fakeSession
	spaces   map[string]store.Space // by slug
	ideas    map[string]store.Idea  // by public id
	comments []store.Comment
	waitlist map[string]bool
	pingErr  error
}

type fakeSession struct {
	user      store.SessionUser
	expiresAt time.Time
}

func newFakeData() *fakeData {
	return &fakeData{
		users:    make(map[string]store.User),
		sessions: make(map[string]fakeSession),
		spaces:   make(map[string]store.Space),
		ideas:    make(map[string]store.Idea),
		waitlist: make(map[string]bool),
	}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

func (f *fakeData) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeData) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	user, ok := f.users[email]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeData) GetUserByGoogleIDOrEmail(_ context.Context, googleID, email string) (store.User, error) {
	for _, user := range f.users {
		if (googleID != "" && user.GoogleID == googleID) || user.Email == email {
			return user, nil
		}
	}
	return store.User{}, sql.ErrNoRows
}

func (f *fakeData) CreateUserWithSpace(_ context.Context, user store.User, space store.Space) (store.User, store.Space, error) {
	if _, exists := f.users[user.Email]; exists {
		return store.User{}, store.Space{}, uniqueViolation()
	}
	if _, exists := f.spaces[space.Slug]; exists {
		return store.User{}, store.Space{}, uniqueViolation()
	}
	user.ID = f.id()
	user.CreatedAt = time.Now()
	f.users[user.Email] = user
	space.OwnerID = user.PublicID
	space.ID = f.id()
	space.CreatedAt = time.Now()
	f.spaces[space.Slug] = space
	return user, space, nil
}

func (f *fakeData) CreateGoogleUser(_ context.Context, user store.User) (store.User, error) {
	if _, exists := f.users[user.Email]; exists {
		return store.User{}, uniqueViolation()
	}
	user.ID = f.id()
	user.IsVerified = true
	user.CreatedAt = time.Now()
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeData) LinkGoogleID(_ context.Context, userID int64, googleID string) error {
	for email, user := range f.users {
		if user.ID == userID {
			user.GoogleID = googleID
			user.IsVerified = true
			f.users[email] = user
		}
	}
	return nil
}

func (f *fakeData) GetSpaceBySlug(_ context.Context, slug string) (store.Space, error) {
	space, ok := f.spaces[slug]
	if !ok {
		return store.Space{}, sql.ErrNoRows
	}
	return space, nil
}

func (f *fakeData) InsertSpace(_ context.Context, space store.Space) (store.Space, error) {
	if _, exists := f.spaces[space.Slug]; exists {
		return store.Space{}, uniqueViolation()
	}
	space.ID = f.id()
	space.CreatedAt = time.Now()
	f.spaces[space.Slug] = space
	return space, nil
}

func (f *fakeData) ListSpacesByOwner(_ context.Context, ownerPublicID string) ([]store.Space, error) {
	items := make([]store.Space, 0)
	for _, space := range f.spaces {
		if space.OwnerID == ownerPublicID {
			items = append(items, space)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (f *fakeData) DeleteSpaceCascade(_ context.Context, slug string) error {
	ideaIDs := make(map[string]bool)
	for publicID, idea := range f.ideas {
		if idea.SpaceSlug == slug {
			ideaIDs[publicID] = true
			delete(f.ideas, publicID)
		}
	}
	kept := f.comments[:0]
	for _, comment := range f.comments {
		if !ideaIDs[comment.IdeaID] {
			kept = append(kept, comment)
		}
	}
	f.comments = kept
	delete(f.spaces, slug)
	return nil
}

func (f *fakeData) InsertIdea(_ context.Context, idea store.Idea) (store.Idea, error) {
	idea.ID = f.id()
	idea.CreatedAt = time.Now()
	f.ideas[idea.PublicID] = idea
	return idea, nil
}

func (f *fakeData) GetIdeaByPublicID(_ context.Context, publicID string) (store.Idea, error) {
	idea, ok := f.ideas[publicID]
	if !ok {
		return store.Idea{}, sql.ErrNoRows
	}
	return idea, nil
}

func (f *fakeData) ListIdeasBySpace(_ context.Context, slug string) ([]store.Idea, error) {
	items := make([]store.Idea, 0)
	for _, idea := range f.ideas {
		if idea.SpaceSlug == slug {
			items = append(items, idea)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (f *fakeData) ListCommentsBySpace(_ context.Context, slug string) ([]store.Comment, error) {
	items := make([]store.Comment, 0)
	for _, comment := range f.comments {
		if idea, ok := f.ideas[comment.IdeaID]; ok && idea.SpaceSlug == slug {
			items = append(items, comment)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

func (f *fakeData) IncrementVote(_ context.Context, publicID string) (int, bool, error) {
	idea, ok := f.ideas[publicID]
	if !ok || idea.Status != store.IdeaStatusNew {
		return 0, false, nil
	}
	idea.VoteCount++
	f.ideas[publicID] = idea
	return idea.VoteCount, true, nil
}

func (f *fakeData) UpdateIdeaStatus(_ context.Context, publicID, status string) error {
	idea, ok := f.ideas[publicID]
	if !ok {
		return sql.ErrNoRows
	}
	idea.Status = status
	f.ideas[publicID] = idea
	return nil
}

func (f *fakeData) GetIdeaOwner(_ context.Context, publicID string) (string, error) {
	idea, ok := f.ideas[publicID]
	if !ok {
		return "", sql.ErrNoRows
	}
	space, ok := f.spaces[idea.SpaceSlug]
	if !ok {
		return "", sql.ErrNoRows
	}
	return space.OwnerID, nil
}

func (f *fakeData) SetIdeaIssueKey(_ context.Context, publicID, issueKey string) error {
	idea, ok := f.ideas[publicID]
	if !ok {
		return sql.ErrNoRows
	}
	idea.JiraIssueKey = issueKey
	f.ideas[publicID] = idea
	return nil
}

func (f *fakeData) InsertComment(_ context.Context, comment store.Comment) (store.Comment, error) {
	comment.ID = f.id()
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, comment)
	return comment, nil
}

func (f *fakeData) AddToWaitlist(_ context.Context, email string) error {
	if f.waitlist[email] {
		return uniqueViolation()
	}
	f.waitlist[email] = true
	return nil
}

func (f *fakeData) ConsumeVerificationToken(_ context.Context, token string) (bool, error) {
	for email, user := range f.users {
		if user.VerificationToken == token {
			user.VerificationToken = ""
			user.IsVerified = true
			f.users[email] = user
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeData) SetResetToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	for email, user := range f.users {
		if user.ID == userID {
			user.ResetToken = token
			user.ResetTokenExpires = &expiresAt
			f.users[email] = user
		}
	}
	return nil
}

func (f *fakeData) ConsumeResetToken(_ context.Context, token, passwordHash string) (bool, error) {
	for email, user := range f.users {
		if user.ResetToken == token && user.ResetTokenExpires != nil && time.Now().Before(*user.ResetTokenExpires) {
			user.PasswordHash = passwordHash
			user.ResetToken = ""
			user.ResetTokenExpires = nil
			f.users[email] = user
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeData) Ping(_ context.Context) error {
	return f.pingErr
}

func (f *fakeData) CreateSession(_ context.Context, sessionID string, user store.SessionUser, expiresAt time.Time) error {
	f.sessions[sessionID] = fakeSession{user: user, expiresAt: expiresAt}
	return nil
}

func (f *fakeData) LookupSession(_ context.Context, sessionID string) (store.SessionUser, error) {
	session, ok := f.sessions[sessionID]
	if !ok || time.Now().After(session.expiresAt) {
		return store.SessionUser{}, sql.ErrNoRows
	}
	return session.user, nil
}

// fakeMailer records sent emails
type fakeMailer struct {
	configured    bool
	verifications []string
	resets        []string
}

func (m *fakeMailer) IsConfigured() bool { return m.configured }

func (m *fakeMailer) SendVerificationEmail(to, _ string) error {
	m.verifications = append(m.verifications, to)
	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(to, _ string) error {
	m.resets = append(m.resets, to)
	return nil
}

// fakeVerifier resolves fixed tokens to claims
type fakeVerifier struct {
	configured bool
	tokens     map[string]googleid.Claims
}

func (v *fakeVerifier) IsConfigured() bool { return v.configured }

func (v *fakeVerifier) Verify(_ context.Context, idToken string) (googleid.Claims, error) {
	claims, ok := v.tokens[idToken]
	if !ok {
		return googleid.Claims{}, googleid.ErrInvalidToken
	}
	return claims, nil
}

// fakeTracker hands out sequential issue keys
type fakeTracker struct {
	configured bool
	failing    bool
	created    int
}

func (tr *fakeTracker) IsConfigured() bool { return tr.configured }

func (tr *fakeTracker) CreateIssue(_ context.Context, _, _ string) (string, error) {
	if tr.failing {
		return "", fmt.Errorf("tracker unreachable")
	}
	tr.created++
	return fmt.Sprintf("SPROUT-%d", tr.created), nil
}
