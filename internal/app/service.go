// Package app wires the HTTP surface to the feedback board domain logic.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"sprout/api/internal/authpw"
	"sprout/api/internal/export"
	"sprout/api/internal/googleid"
	"sprout/api/internal/store"
	"sprout/api/internal/util"
)

// dataStore defines the persistence operations the service needs
type dataStore interface {
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByGoogleIDOrEmail(ctx context.Context, googleID, email string) (store.User, error)
	CreateUserWithSpace(ctx context.Context, user store.User, space store.Space) (store.User, store.Space, error)
	CreateGoogleUser(ctx context.Context, user store.User) (store.User, error)
	LinkGoogleID(ctx context.Context, userID int64, googleID string) error

	GetSpaceBySlug(ctx context.Context, slug string) (store.Space, error)
	InsertSpace(ctx context.Context, space store.Space) (store.Space, error)
	ListSpacesByOwner(ctx context.Context, ownerPublicID string) ([]store.Space, error)
	DeleteSpaceCascade(ctx context.Context, slug string) error

	InsertIdea(ctx context.Context, idea store.Idea) (store.Idea, error)
	GetIdeaByPublicID(ctx context.Context, publicID string) (store.Idea, error)
	ListIdeasBySpace(ctx context.Context, slug string) ([]store.Idea, error)
	ListCommentsBySpace(ctx context.Context, slug string) ([]store.Comment, error)
	IncrementVote(ctx context.Context, publicID string) (int, bool, error)
	UpdateIdeaStatus(ctx context.Context, publicID, status string) error
	GetIdeaOwner(ctx context.Context, publicID string) (string, error)
	SetIdeaIssueKey(ctx context.Context, publicID, issueKey string) error
	InsertComment(ctx context.Context, comment store.Comment) (store.Comment, error)

	AddToWaitlist(ctx context.Context, email string) error
	Ping(ctx context.Context) error
}

// SessionStore defines the session backend. Postgres and Redis both satisfy it.
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, user store.SessionUser, expiresAt time.Time) error
	LookupSession(ctx context.Context, sessionID string) (store.SessionUser, error)
}

// mailer sends account emails
type mailer interface {
	IsConfigured() bool
	SendVerificationEmail(to, verificationURL string) error
	SendPasswordResetEmail(to, resetURL string) error
}

// tokenVerifier validates Google ID tokens
type tokenVerifier interface {
	IsConfigured() bool
	Verify(ctx context.Context, idToken string) (googleid.Claims, error)
}

// issueTracker files ideas in an external tracker
type issueTracker interface {
	IsConfigured() bool
	CreateIssue(ctx context.Context, summary, description string) (string, error)
}

// Service implements the feedback board operations
type Service struct {
	store      dataStore
	sessions   SessionStore
	creds      *authpw.Service
	exporter   *export.Service
	mail       mailer
	google     tokenVerifier
	tracker    issueTracker
	baseURL    string
	sessionTTL time.Duration
}

// NewService creates the application service
func NewService(
	data dataStore,
	sessions SessionStore,
	creds *authpw.Service,
	exporter *export.Service,
	mail mailer,
	google tokenVerifier,
	issues issueTracker,
	baseURL string,
	sessionTTL time.Duration,
) *Service {
	return &Service{
		store:      data,
		sessions:   sessions,
		creds:      creds,
		exporter:   exporter,
		mail:       mail,
		google:     google,
		tracker:    issues,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessionTTL: sessionTTL,
	}
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

var ideaStatuses = map[string]bool{
	store.IdeaStatusNew:        true,
	store.IdeaStatusInProgress: true,
	store.IdeaStatusRejected:   true,
	store.IdeaStatusDone:       true,
}

// StartedSession holds a freshly minted session
type StartedSession struct {
	ID        string
	ExpiresAt time.Time
	TTL       time.Duration
}

// SessionFromID resolves a session cookie value to the user it belongs to.
func (s *Service) SessionFromID(ctx context.Context, sessionID string) (store.SessionUser, error) {
	if sessionID == "" {
		return store.SessionUser{}, fmt.Errorf("empty session id")
	}
	return s.sessions.LookupSession(ctx, sessionID)
}

func (s *Service) startSession(ctx context.Context, user store.SessionUser) (StartedSession, error) {
	session := StartedSession{
		ID:        util.NewToken(),
		ExpiresAt: time.Now().Add(s.sessionTTL),
		TTL:       s.sessionTTL,
	}
	if err := s.sessions.CreateSession(ctx, session.ID, user, session.ExpiresAt); err != nil {
		return StartedSession{}, fmt.Errorf("start session: %w", err)
	}
	return session, nil
}

func sessionUserOf(user store.User) store.SessionUser {
	return store.SessionUser{UserID: user.ID, PublicID: user.PublicID, Email: user.Email}
}

// SMTPConfigured reports whether account emails can be sent
func (s *Service) SMTPConfigured() bool {
	return s.mail != nil && s.mail.IsConfigured()
}

// Ping checks the backing store
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ── Auth ──

// SignUp registers a user together with their first space.
func (s *Service) SignUp(ctx context.Context, email, password, spaceName, spaceSlug string) (map[string]any, StartedSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	spaceName = strings.TrimSpace(spaceName)
	spaceSlug = strings.ToLower(strings.TrimSpace(spaceSlug))

	if email == "" || password == "" || spaceName == "" || spaceSlug == "" {
		return nil, StartedSession{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email, password, spaceName and spaceSlug are required", nil)
	}
	if !emailPattern.MatchString(email) {
		return nil, StartedSession{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email is not valid", nil)
	}
	if !slugPattern.MatchString(spaceSlug) {
		return nil, StartedSession{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "spaceSlug may only contain lowercase letters, digits and hyphens", nil)
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		if errors.Is(err, authpw.ErrPasswordTooShort) {
			return nil, StartedSession{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
		}
		return nil, StartedSession{}, err
	}

	// Advisory pre-checks; the unique constraints decide under concurrency.
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, StartedSession{}, domainError(http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
	}
	if _, err := s.store.GetSpaceBySlug(ctx, spaceSlug); err == nil {
		return nil, StartedSession{}, domainError(http.StatusConflict, "SLUG_TAKEN", "Space slug is already taken", nil)
	}

	user := store.User{
		PublicID:          util.NewPublicID(),
		Email:             email,
		PasswordHash:      hash,
		VerificationToken: util.NewToken(),
	}
	space := store.Space{
		PublicID: util.NewPublicID(),
		Slug:     spaceSlug,
		Name:     spaceName,
	}

	user, space, err = s.store.CreateUserWithSpace(ctx, user, space)
	if err != nil {
		if store.IsUniqueViolation(err) {
			if _, lookupErr := s.store.GetUserByEmail(ctx, email); lookupErr == nil {
				return nil, StartedSession{}, domainError(http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
			}
			return nil, StartedSession{}, domainError(http.StatusConflict, "SLUG_TAKEN", "Space slug is already taken", nil)
		}
		return nil, StartedSession{}, err
	}

	// Verification email is best effort; signup succeeds without it.
	if s.SMTPConfigured() {
		verifyURL := s.baseURL + "/api/auth/verify?token=" + user.VerificationToken
		if err := s.mail.SendVerificationEmail(user.Email, verifyURL); err != nil {
			log.Printf("send verification email to %s: %v", user.Email, err)
		}
	}

	session, err := s.startSession(ctx, sessionUserOf(user))
	if err != nil {
		return nil, StartedSession{}, err
	}

	payload := map[string]any{
		"user":  userPayload(user),
		"space": spacePayload(space, true),
	}
	return payload, session, nil
}

// SignIn authenticates with email and password and starts a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (map[string]any, StartedSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, StartedSession{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email and password are required", nil)
	}

	user, err := s.creds.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, authpw.ErrInvalidCredentials) {
			return nil, StartedSession{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
		}
		return nil, StartedSession{}, err
	}

	session, err := s.startSession(ctx, sessionUserOf(user))
	if err != nil {
		return nil, StartedSession{}, err
	}
	return map[string]any{"user": userPayload(user)}, session, nil
}

// GoogleSignIn exchanges a Google ID token for a session. An existing
// account with the same email is linked to the Google identity; otherwise a
// pre-verified account is created.
func (s *Service) GoogleSignIn(ctx context.Context, idToken string) (map[string]any, StartedSession, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return nil, StartedSession{}, domainError(http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Google sign-in is not configured", nil)
	}

	claims, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, StartedSession{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid Google token", nil)
	}

	email := strings.ToLower(claims.Email)
	user, err := s.store.GetUserByGoogleIDOrEmail(ctx, claims.Subject, email)
	switch {
	case err == nil:
		if user.GoogleID == "" {
			if err := s.store.LinkGoogleID(ctx, user.ID, claims.Subject); err != nil {
				return nil, StartedSession{}, err
			}
			user.GoogleID = claims.Subject
			user.IsVerified = true
		}
	case errors.Is(err, sql.ErrNoRows):
		user, err = s.store.CreateGoogleUser(ctx, store.User{
			PublicID: util.NewPublicID(),
			Email:    email,
			GoogleID: claims.Subject,
		})
		if err != nil {
			return nil, StartedSession{}, err
		}
	default:
		return nil, StartedSession{}, err
	}

	session, err := s.startSession(ctx, sessionUserOf(user))
	if err != nil {
		return nil, StartedSession{}, err
	}
	return map[string]any{"user": userPayload(user)}, session, nil
}

// Me reports whether the request carries a live session. Anonymous callers
// get a 200 with authenticated=false; a missing, unknown or expired session
// is never an error here.
func (s *Service) Me(ctx context.Context, sessionID string) map[string]any {
	user, err := s.SessionFromID(ctx, sessionID)
	if err != nil {
		return map[string]any{"authenticated": false}
	}
	return map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    user.PublicID,
			"email": user.Email,
		},
	}
}

// Profile returns the signed-in user's account with their spaces.
func (s *Service) Profile(ctx context.Context, user store.SessionUser) (map[string]any, error) {
	account, err := s.store.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	spaces, err := s.store.ListSpacesByOwner(ctx, user.PublicID)
	if err != nil {
		return nil, err
	}
	spaceList := make([]map[string]any, 0, len(spaces))
	for _, space := range spaces {
		spaceList = append(spaceList, spacePayload(space, true))
	}
	payload := userPayload(account)
	payload["spaces"] = spaceList
	return payload, nil
}

// VerifyEmail spends an email verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) (bool, error) {
	return s.creds.VerifyEmail(ctx, token)
}

// ForgotPassword starts a password reset. The result never reveals whether
// the email exists; the dev token is surfaced only when SMTP is unset.
func (s *Service) ForgotPassword(ctx context.Context, email string) (devToken string, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email is required", nil)
	}

	token, user, ok, err := s.creds.RequestPasswordReset(ctx, email)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	if s.SMTPConfigured() {
		resetURL := s.baseURL + "/reset-password?token=" + token
		if err := s.mail.SendPasswordResetEmail(user.Email, resetURL); err != nil {
			log.Printf("send reset email to %s: %v", user.Email, err)
		}
		return "", nil
	}
	return token, nil
}

// ResetPassword completes a password reset with a token.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	ok, err := s.creds.ResetPassword(ctx, token, newPassword)
	if err != nil {
		if errors.Is(err, authpw.ErrPasswordTooShort) {
			return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
		}
		return err
	}
	if !ok {
		return domainError(http.StatusBadRequest, "RESET_FAILED", "Invalid or expired reset token", nil)
	}
	return nil
}

// ── Spaces ──

// CreateSpace adds another board for the signed-in user.
func (s *Service) CreateSpace(ctx context.Context, user store.SessionUser, name, slug string) (map[string]any, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" || slug == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name and slug are required", nil)
	}
	if !slugPattern.MatchString(slug) {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "slug may only contain lowercase letters, digits and hyphens", nil)
	}

	if _, err := s.store.GetSpaceBySlug(ctx, slug); err == nil {
		return nil, domainError(http.StatusConflict, "SLUG_TAKEN", "Space slug is already taken", nil)
	}

	space, err := s.store.InsertSpace(ctx, store.Space{
		PublicID: util.NewPublicID(),
		Slug:     slug,
		Name:     name,
		OwnerID:  user.PublicID,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, domainError(http.StatusConflict, "SLUG_TAKEN", "Space slug is already taken", nil)
		}
		return nil, err
	}
	return spacePayload(space, true), nil
}

// GetSpace returns a space for any viewer; isOwner is computed against the
// optional session.
func (s *Service) GetSpace(ctx context.Context, viewer *store.SessionUser, slug string) (map[string]any, error) {
	space, err := s.store.GetSpaceBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	isOwner := viewer != nil && viewer.PublicID == space.OwnerID
	return spacePayload(space, isOwner), nil
}

// ListMySpaces returns the spaces owned by the signed-in user.
func (s *Service) ListMySpaces(ctx context.Context, user store.SessionUser) (map[string]any, error) {
	spaces, err := s.store.ListSpacesByOwner(ctx, user.PublicID)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(spaces))
	for _, space := range spaces {
		items = append(items, spacePayload(space, true))
	}
	return map[string]any{"spaces": items}, nil
}

// DeleteSpace removes a space with all its ideas and comments. Owner only.
func (s *Service) DeleteSpace(ctx context.Context, user store.SessionUser, slug string) error {
	space, err := s.store.GetSpaceBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if space.OwnerID != user.PublicID {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Only the space owner can delete it", nil)
	}
	return s.store.DeleteSpaceCascade(ctx, slug)
}

// ExportSpace renders the space's ideas as a CSV download. Owner only.
func (s *Service) ExportSpace(ctx context.Context, user store.SessionUser, slug string) (*export.Result, error) {
	space, err := s.store.GetSpaceBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if space.OwnerID != user.PublicID {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Only the space owner can export it", nil)
	}
	return s.exporter.ExportCSV(ctx, slug)
}

// ── Ideas ──

// ListIdeas returns a space's board, newest ideas first with their comments.
func (s *Service) ListIdeas(ctx context.Context, slug string) (map[string]any, error) {
	if _, err := s.store.GetSpaceBySlug(ctx, slug); err != nil {
		return nil, err
	}

	ideas, err := s.store.ListIdeasBySpace(ctx, slug)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.ListCommentsBySpace(ctx, slug)
	if err != nil {
		return nil, err
	}

	commentsByIdea := make(map[string][]map[string]any)
	for _, comment := range comments {
		commentsByIdea[comment.IdeaID] = append(commentsByIdea[comment.IdeaID], commentPayload(comment))
	}

	items := make([]map[string]any, 0, len(ideas))
	for _, idea := range ideas {
		payload := ideaPayload(idea)
		attached := commentsByIdea[idea.PublicID]
		if attached == nil {
			attached = []map[string]any{}
		}
		payload["comments"] = attached
		items = append(items, payload)
	}
	return map[string]any{"ideas": items}, nil
}

// CreateIdea adds an idea to a space. No session required; boards accept
// anonymous submissions. A new idea starts open with the author's own vote.
func (s *Service) CreateIdea(ctx context.Context, slug, title, description string) (map[string]any, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}
	if _, err := s.store.GetSpaceBySlug(ctx, slug); err != nil {
		return nil, err
	}

	idea, err := s.store.InsertIdea(ctx, store.Idea{
		PublicID:    util.NewPublicID(),
		SpaceSlug:   slug,
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      store.IdeaStatusNew,
		VoteCount:   1,
	})
	if err != nil {
		return nil, err
	}
	payload := ideaPayload(idea)
	payload["comments"] = []map[string]any{}
	return payload, nil
}

// Vote adds a vote to an open idea.
func (s *Service) Vote(ctx context.Context, ideaID string) (map[string]any, error) {
	if _, err := s.store.GetIdeaByPublicID(ctx, ideaID); err != nil {
		return nil, err
	}
	votes, open, err := s.store.IncrementVote(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, domainError(http.StatusConflict, "IDEA_CLOSED", "Voting is closed for this idea", nil)
	}
	return map[string]any{"id": ideaID, "votes": votes}, nil
}

// Comment adds a comment to an open idea. Anonymous like voting.
func (s *Service) Comment(ctx context.Context, ideaID, text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "text is required", nil)
	}

	idea, err := s.store.GetIdeaByPublicID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.Status != store.IdeaStatusNew {
		return nil, domainError(http.StatusConflict, "IDEA_CLOSED", "Commenting is closed for this idea", nil)
	}

	comment, err := s.store.InsertComment(ctx, store.Comment{
		PublicID: util.NewPublicID(),
		IdeaID:   ideaID,
		Text:     text,
	})
	if err != nil {
		return nil, err
	}
	return commentPayload(comment), nil
}

// SetIdeaStatus moves an idea between workflow states. Space owner only.
func (s *Service) SetIdeaStatus(ctx context.Context, user store.SessionUser, ideaID, status string) (map[string]any, error) {
	if !ideaStatuses[status] {
		return nil, domainError(http.StatusUnprocessableEntity, "INVALID_STATUS", "status must be one of new, in-progress, rejected, done", nil)
	}

	idea, err := s.store.GetIdeaByPublicID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.store.GetIdeaOwner(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if ownerID != user.PublicID {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Only the space owner can change idea status", nil)
	}

	if err := s.store.UpdateIdeaStatus(ctx, ideaID, status); err != nil {
		return nil, err
	}
	idea.Status = status
	return ideaPayload(idea), nil
}

// SyncIdeaToTracker files the idea in the configured issue tracker and
// records the issue key. Space owner only.
func (s *Service) SyncIdeaToTracker(ctx context.Context, user store.SessionUser, ideaID string) (map[string]any, error) {
	if s.tracker == nil || !s.tracker.IsConfigured() {
		return nil, domainError(http.StatusServiceUnavailable, "TRACKER_UNAVAILABLE", "Issue tracker is not configured", nil)
	}

	idea, err := s.store.GetIdeaByPublicID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.store.GetIdeaOwner(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if ownerID != user.PublicID {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Only the space owner can sync ideas", nil)
	}
	if idea.JiraIssueKey != "" {
		return map[string]any{"id": idea.PublicID, "issueKey": idea.JiraIssueKey}, nil
	}

	issueKey, err := s.tracker.CreateIssue(ctx, idea.Title, idea.Description)
	if err != nil {
		return nil, domainError(http.StatusBadGateway, "TRACKER_ERROR", "Could not create tracker issue", nil)
	}
	if err := s.store.SetIdeaIssueKey(ctx, ideaID, issueKey); err != nil {
		return nil, err
	}
	return map[string]any{"id": idea.PublicID, "issueKey": issueKey}, nil
}

// ── Waitlist ──

// JoinWaitlist records an interested email. Duplicates succeed quietly.
func (s *Service) JoinWaitlist(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !emailPattern.MatchString(email) {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "a valid email is required", nil)
	}
	if err := s.store.AddToWaitlist(ctx, email); err != nil {
		if store.IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

// ── Payloads ──

func userPayload(user store.User) map[string]any {
	return map[string]any{
		"id":         user.PublicID,
		"email":      user.Email,
		"isVerified": user.IsVerified,
		"createdAt":  user.CreatedAt,
	}
}

func spacePayload(space store.Space, isOwner bool) map[string]any {
	payload := map[string]any{
		"id":        space.PublicID,
		"slug":      space.Slug,
		"name":      space.Name,
		"ownerId":   space.OwnerID,
		"isOwner":   isOwner,
		"createdAt": space.CreatedAt,
	}
	if space.LogoURL != "" {
		payload["logoUrl"] = space.LogoURL
	}
	return payload
}

func ideaPayload(idea store.Idea) map[string]any {
	payload := map[string]any{
		"id":          idea.PublicID,
		"title":       idea.Title,
		"description": idea.Description,
		"status":      idea.Status,
		"votes":       idea.VoteCount,
		"createdAt":   idea.CreatedAt,
	}
	if idea.JiraIssueKey != "" {
		payload["issueKey"] = idea.JiraIssueKey
	}
	return payload
}

func commentPayload(comment store.Comment) map[string]any {
	return map[string]any{
		"id":        comment.PublicID,
		"text":      comment.Text,
		"createdAt": comment.CreatedAt,
	}
}
