package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

const userColumns = `id, public_id, email, COALESCE(password_hash, ''), COALESCE(google_id, ''), is_verified, COALESCE(verification_token, ''), COALESCE(reset_token, ''), reset_token_expires, created_at`

func scanUser(row *sql.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.PublicID,
		&user.Email,
		&user.PasswordHash,
		&user.GoogleID,
		&user.IsVerified,
		&user.VerificationToken,
		&user.ResetToken,
		&user.ResetTokenExpires,
		&user.CreatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	return scanUser(row)
}

func (s *PostgresStore) GetUserByGoogleIDOrEmail(ctx context.Context, googleID, email string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE google_id=$1 OR email=$2`, googleID, email)
	return scanUser(row)
}

// CreateUserWithSpace inserts the signup user and their first space in one
// transaction so a duplicate slug cannot leave an orphaned user row behind.
func (s *PostgresStore) CreateUserWithSpace(ctx context.Context, user User, space Space) (User, Space, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, Space{}, fmt.Errorf("begin signup tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (public_id, email, password_hash, verification_token, is_verified)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at
	`, user.PublicID, user.Email, user.PasswordHash, user.VerificationToken).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return User{}, Space{}, fmt.Errorf("insert user: %w", err)
	}

	space.OwnerID = user.PublicID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO spaces (public_id, slug, name, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, space.PublicID, space.Slug, space.Name, space.OwnerID).Scan(&space.ID, &space.CreatedAt)
	if err != nil {
		return User{}, Space{}, fmt.Errorf("insert space: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return User{}, Space{}, fmt.Errorf("commit signup tx: %w", err)
	}
	return user, space, nil
}

// CreateGoogleUser inserts a federated-identity-only user. These accounts
// arrive pre-verified and carry no password hash.
func (s *PostgresStore) CreateGoogleUser(ctx context.Context, user User) (User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (public_id, email, google_id, is_verified)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, created_at
	`, user.PublicID, user.Email, user.GoogleID).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("insert google user: %w", err)
	}
	user.IsVerified = true
	return user, nil
}

func (s *PostgresStore) LinkGoogleID(ctx context.Context, userID int64, googleID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET google_id=$2, is_verified=TRUE WHERE id=$1
	`, userID, googleID)
	if err != nil {
		return fmt.Errorf("link google id: %w", err)
	}
	return nil
}

// ConsumeVerificationToken marks the email verified and clears the token in
// one statement, so a token can only be spent once.
func (s *PostgresStore) ConsumeVerificationToken(ctx context.Context, token string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_verified=TRUE, verification_token=NULL
		WHERE verification_token=$1
	`, token)
	if err != nil {
		return false, fmt.Errorf("consume verification token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("verification token rows: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) SetResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET reset_token=$2, reset_token_expires=$3 WHERE id=$1
	`, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken sets the new password hash and clears the token in one
// statement; the expiry check lives in the WHERE clause so an expired token
// is indistinguishable from a spent one.
func (s *PostgresStore) ConsumeResetToken(ctx context.Context, token, passwordHash string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash=$2, reset_token=NULL, reset_token_expires=NULL
		WHERE reset_token=$1 AND reset_token_expires > NOW()
	`, token, passwordHash)
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reset token rows: %w", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, sessionID string, user SessionUser, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, sessionID, user.UserID, expiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupSession(ctx context.Context, sessionID string) (SessionUser, error) {
	const query = `
		SELECT u.id, u.public_id, u.email
		FROM sessions se
		JOIN users u ON u.id = se.user_id
		WHERE se.id = $1
			AND se.expires_at > NOW()
	`
	var user SessionUser
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&user.UserID, &user.PublicID, &user.Email)
	if err != nil {
		return SessionUser{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetSpaceBySlug(ctx context.Context, slug string) (Space, error) {
	var item Space
	err := s.db.QueryRowContext(ctx, `
		SELECT id, public_id, slug, name, owner_id, COALESCE(logo_url, ''), created_at
		FROM spaces
		WHERE slug=$1
	`, slug).Scan(&item.ID, &item.PublicID, &item.Slug, &item.Name, &item.OwnerID, &item.LogoURL, &item.CreatedAt)
	if err != nil {
		return Space{}, err
	}
	return item, nil
}

func (s *PostgresStore) InsertSpace(ctx context.Context, space Space) (Space, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO spaces (public_id, slug, name, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, space.PublicID, space.Slug, space.Name, space.OwnerID).Scan(&space.ID, &space.CreatedAt)
	if err != nil {
		return Space{}, fmt.Errorf("insert space: %w", err)
	}
	return space, nil
}

func (s *PostgresStore) ListSpacesByOwner(ctx context.Context, ownerPublicID string) ([]Space, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, public_id, slug, name, owner_id, COALESCE(logo_url, ''), created_at
		FROM spaces
		WHERE owner_id=$1
		ORDER BY created_at DESC
	`, ownerPublicID)
	if err != nil {
		return nil, fmt.Errorf("list spaces by owner: %w", err)
	}
	defer rows.Close()

	items := make([]Space, 0)
	for rows.Next() {
		var item Space
		if err := rows.Scan(&item.ID, &item.PublicID, &item.Slug, &item.Name, &item.OwnerID, &item.LogoURL, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan space: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spaces: %w", err)
	}
	return items, nil
}

// DeleteSpaceCascade removes a space and everything scoped to it. The store
// has no referential integrity between these tables, so deletion must run in
// reverse dependency order: comments reference ideas by public id and ideas
// reference the space by slug. The whole batch runs in one transaction.
func (s *PostgresStore) DeleteSpaceCascade(ctx context.Context, slug string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM comments
		WHERE idea_id IN (SELECT public_id FROM ideas WHERE space_slug=$1)
	`, slug); err != nil {
		return fmt.Errorf("delete space comments: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ideas WHERE space_slug=$1`, slug); err != nil {
		return fmt.Errorf("delete space ideas: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM spaces WHERE slug=$1`, slug); err != nil {
		return fmt.Errorf("delete space: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cascade tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertIdea(ctx context.Context, idea Idea) (Idea, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ideas (public_id, space_slug, title, description, status, vote_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, idea.PublicID, idea.SpaceSlug, idea.Title, idea.Description, idea.Status, idea.VoteCount).Scan(&idea.ID, &idea.CreatedAt)
	if err != nil {
		return Idea{}, fmt.Errorf("insert idea: %w", err)
	}
	return idea, nil
}

func (s *PostgresStore) GetIdeaByPublicID(ctx context.Context, publicID string) (Idea, error) {
	var item Idea
	err := s.db.QueryRowContext(ctx, `
		SELECT id, public_id, space_slug, title, COALESCE(description, ''), status, vote_count, COALESCE(jira_issue_key, ''), created_at
		FROM ideas
		WHERE public_id=$1
	`, publicID).Scan(&item.ID, &item.PublicID, &item.SpaceSlug, &item.Title, &item.Description, &item.Status, &item.VoteCount, &item.JiraIssueKey, &item.CreatedAt)
	if err != nil {
		return Idea{}, err
	}
	return item, nil
}

func (s *PostgresStore) ListIdeasBySpace(ctx context.Context, slug string) ([]Idea, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, public_id, space_slug, title, COALESCE(description, ''), status, vote_count, COALESCE(jira_issue_key, ''), created_at
		FROM ideas
		WHERE space_slug=$1
		ORDER BY created_at DESC
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	items := make([]Idea, 0)
	for rows.Next() {
		var item Idea
		if err := rows.Scan(&item.ID, &item.PublicID, &item.SpaceSlug, &item.Title, &item.Description, &item.Status, &item.VoteCount, &item.JiraIssueKey, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ideas: %w", err)
	}
	return items, nil
}

// IncrementVote bumps the vote count in a single conditional UPDATE so
// concurrent votes cannot lose updates and closed ideas cannot gain votes.
// The bool result reports whether the idea was still open.
func (s *PostgresStore) IncrementVote(ctx context.Context, publicID string) (int, bool, error) {
	var voteCount int
	err := s.db.QueryRowContext(ctx, `
		UPDATE ideas SET vote_count = vote_count + 1
		WHERE public_id=$1 AND status=$2
		RETURNING vote_count
	`, publicID, IdeaStatusNew).Scan(&voteCount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("increment vote: %w", err)
	}
	return voteCount, true, nil
}

func (s *PostgresStore) UpdateIdeaStatus(ctx context.Context, publicID, status string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE ideas SET status=$2 WHERE public_id=$1`, publicID, status)
	if err != nil {
		return fmt.Errorf("update idea status: %w", err)
	}
	return nil
}

// GetIdeaOwner resolves the public id of the owner of the space an idea
// belongs to, via the idea -> space slug join.
func (s *PostgresStore) GetIdeaOwner(ctx context.Context, publicID string) (string, error) {
	var ownerID string
	err := s.db.QueryRowContext(ctx, `
		SELECT sp.owner_id
		FROM ideas i
		JOIN spaces sp ON sp.slug = i.space_slug
		WHERE i.public_id=$1
	`, publicID).Scan(&ownerID)
	if err != nil {
		return "", err
	}
	return ownerID, nil
}

func (s *PostgresStore) SetIdeaIssueKey(ctx context.Context, publicID, issueKey string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE ideas SET jira_issue_key=$2 WHERE public_id=$1`, publicID, issueKey)
	if err != nil {
		return fmt.Errorf("set idea issue key: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertComment(ctx context.Context, comment Comment) (Comment, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (public_id, idea_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, comment.PublicID, comment.IdeaID, comment.Text).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}

// ListCommentsBySpace fetches the comments for every idea in a space in one
// query; the service fans them out onto their ideas.
func (s *PostgresStore) ListCommentsBySpace(ctx context.Context, slug string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.public_id, c.idea_id, c.text, c.created_at
		FROM comments c
		JOIN ideas i ON i.public_id = c.idea_id
		WHERE i.space_slug=$1
		ORDER BY c.created_at DESC
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	items := make([]Comment, 0)
	for rows.Next() {
		var item Comment
		if err := rows.Scan(&item.ID, &item.PublicID, &item.IdeaID, &item.Text, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) AddToWaitlist(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO waitlist (email) VALUES ($1)`, email)
	if err != nil {
		return fmt.Errorf("insert waitlist entry: %w", err)
	}
	return nil
}

// Ping verifies the database connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
