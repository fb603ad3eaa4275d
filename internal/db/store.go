package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/careerwise-ai/careerwise/internal/models"
)

var (
	ErrNotFound      = errors.New("db: record not found")
	ErrProfileExists = errors.New("db: user profile already exists")
)

const uniqueViolation = "23505"

// CreateConversation inserts a new active conversation owned by userID.
func (p *Postgres) CreateConversation(ctx context.Context, userID, title, userType string) (*models.Conversation, error) {
	if title == "" {
		title = "New Conversation"
	}

	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Status:    models.ConversationActive,
		UserType:  userType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO conversations (id, user_id, title, status, user_type, message_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $6)`
	if _, err := p.Pool.Exec(ctx, query, conv.ID, conv.UserID, conv.Title, conv.Status, conv.UserType, now); err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	return conv, nil
}

// GetConversation fetches a conversation only if it is owned by userID.
// Missing and not-owned are both ErrNotFound; ownership failures must not
// leak the conversation's existence.
func (p *Postgres) GetConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	query := `SELECT id, user_id, title, status, user_type, message_count, created_at, updated_at
		FROM conversations WHERE id = $1 AND user_id = $2`

	var conv models.Conversation
	err := p.Pool.QueryRow(ctx, query, conversationID, userID).Scan(
		&conv.ID, &conv.UserID, &conv.Title, &conv.Status, &conv.UserType,
		&conv.MessageCount, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query conversation: %w", err)
	}

	return &conv, nil
}

// ListConversations returns the caller's active conversations, most
// recently updated first.
func (p *Postgres) ListConversations(ctx context.Context, userID string, limit int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, user_id, title, status, user_type, message_count, created_at, updated_at
		FROM conversations WHERE user_id = $1 AND status = 'active'
		ORDER BY updated_at DESC LIMIT $2`

	rows, err := p.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(
			&conv.ID, &conv.UserID, &conv.Title, &conv.Status, &conv.UserType,
			&conv.MessageCount, &conv.CreatedAt, &conv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	return conversations, rows.Err()
}

// CreateMessage appends a message to a conversation and refreshes the
// conversation's denormalized message count and timestamp.
func (p *Postgres) CreateMessage(ctx context.Context, conversationID, content string, messageType models.MessageType, metadata map[string]any) (*models.Message, error) {
	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Content:        content,
		MessageType:    messageType,
		Metadata:       metadata,
		CreatedAt:      time.Now().UTC(),
	}

	query := `INSERT INTO chat_messages (id, conversation_id, content, message_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := p.Pool.Exec(ctx, query, msg.ID, msg.ConversationID, msg.Content, msg.MessageType, msg.Metadata, msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	// Recount rather than increment so concurrent turns converge.
	statsQuery := `UPDATE conversations
		SET message_count = (SELECT COUNT(*) FROM chat_messages WHERE conversation_id = $1),
		    updated_at = $2
		WHERE id = $1`
	if _, err := p.Pool.Exec(ctx, statsQuery, conversationID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("update conversation stats: %w", err)
	}

	return msg, nil
}

// ListMessages returns a conversation's messages ordered by creation time.
func (p *Postgres) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, conversation_id, content, message_type, metadata, created_at
		FROM chat_messages WHERE conversation_id = $1
		ORDER BY created_at ASC LIMIT $2`

	rows, err := p.Pool.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Content, &msg.MessageType, &msg.Metadata, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// CreateProfile inserts a profile; at most one exists per user id.
func (p *Postgres) CreateProfile(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	now := time.Now().UTC()
	stored := *profile
	stored.ID = uuid.NewString()
	stored.UserType = models.ParseUserType(string(stored.UserType))
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.IndustryInterests == nil {
		stored.IndustryInterests = []string{}
	}
	if stored.CareerGoals == nil {
		stored.CareerGoals = []string{}
	}
	if stored.Skills == nil {
		stored.Skills = []string{}
	}

	query := `INSERT INTO user_profiles
		(id, user_id, full_name, email, user_type, experience_level, industry_interests, career_goals, skills, location, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`
	_, err := p.Pool.Exec(ctx, query,
		stored.ID, stored.UserID, stored.FullName, stored.Email, stored.UserType, stored.ExperienceLevel,
		stored.IndustryInterests, stored.CareerGoals, stored.Skills, stored.Location, stored.Bio, now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	return &stored, nil
}

// GetProfile fetches the profile owned by userID; ErrNotFound when absent.
func (p *Postgres) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `SELECT id, user_id, full_name, email, user_type, experience_level, industry_interests, career_goals, skills, location, bio, created_at, updated_at
		FROM user_profiles WHERE user_id = $1`

	var profile models.UserProfile
	err := p.Pool.QueryRow(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.FullName, &profile.Email, &profile.UserType,
		&profile.ExperienceLevel, &profile.IndustryInterests, &profile.CareerGoals, &profile.Skills,
		&profile.Location, &profile.Bio, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	return &profile, nil
}

// UpdateProfile applies a partial merge: only the update's non-nil fields
// overwrite stored values.
func (p *Postgres) UpdateProfile(ctx context.Context, userID string, update models.UserProfileUpdate) (*models.UserProfile, error) {
	profile, err := p.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	update.Apply(profile)

	query := `UPDATE user_profiles
		SET full_name = $2, user_type = $3, experience_level = $4, industry_interests = $5,
		    career_goals = $6, skills = $7, location = $8, bio = $9, updated_at = $10
		WHERE user_id = $1`
	_, err = p.Pool.Exec(ctx, query,
		userID, profile.FullName, profile.UserType, profile.ExperienceLevel, profile.IndustryInterests,
		profile.CareerGoals, profile.Skills, profile.Location, profile.Bio, profile.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return profile, nil
}

// DeleteProfile removes the store row; the caller is responsible for
// clearing the cached copy afterwards.
func (p *Postgres) DeleteProfile(ctx context.Context, userID string) error {
	tag, err := p.Pool.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
