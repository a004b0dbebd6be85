package store

import (
	"context"
	"time"

	"github.com/dev-surajtapkeer/voxora/internal/errs"
	"github.com/dev-surajtapkeer/voxora/internal/model"
)

type conversationRow struct {
	ID           string            `gorm:"primaryKey"`
	Participants []string          `gorm:"serializer:json"`
	Subject      string            `gorm:"size:200"`
	Status       string            `gorm:"index:idx_conversations_status_priority"`
	Priority     string            `gorm:"index:idx_conversations_status_priority"`
	AssignedTo   *string           `gorm:"index"`
	Tags         []string          `gorm:"serializer:json"`
	CreatedBy    string            `gorm:"index"`
	ClosedAt     *time.Time
	ClosedBy     *string
	Metadata     map[string]string `gorm:"serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
}

func (conversationRow) TableName() string { return "conversations" }

func toConversationRow(c *model.Conversation) *conversationRow {
	return &conversationRow{
		ID:           c.ID,
		Participants: c.Participants,
		Subject:      c.Subject,
		Status:       string(c.Status),
		Priority:     string(c.Priority),
		AssignedTo:   c.AssignedTo,
		Tags:         c.Tags,
		CreatedBy:    c.CreatedBy,
		ClosedAt:     c.ClosedAt,
		ClosedBy:     c.ClosedBy,
		Metadata:     c.Metadata,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}

func (r *conversationRow) toModel() model.Conversation {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Conversation{
		ID:           r.ID,
		Participants: r.Participants,
		Subject:      r.Subject,
		Status:       model.Status(r.Status),
		Priority:     model.Priority(r.Priority),
		AssignedTo:   r.AssignedTo,
		Tags:         tags,
		CreatedBy:    r.CreatedBy,
		ClosedAt:     r.ClosedAt,
		ClosedBy:     r.ClosedBy,
		Metadata:     r.Metadata,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// CreateConversation persists a new conversation.
func (s *Store) CreateConversation(ctx context.Context, c *model.Conversation) error {
	return s.db.WithContext(ctx).Create(toConversationRow(c)).Error
}

// GetConversation retrieves a conversation by ID.
func (s *Store) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	var row conversationRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "conversation", id)
	}
	c := row.toModel()
	return &c, nil
}

// UpdateConversation writes a conversation back, guarded by the version the
// caller read. A concurrent write in between surfaces as ConflictError; the
// caller re-reads and retries.
func (s *Store) UpdateConversation(ctx context.Context, c *model.Conversation, expectedVersion int64) error {
	row := toConversationRow(c)
	res := s.db.WithContext(ctx).
		Model(&conversationRow{}).
		Where("id = ? AND version = ?", c.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the record is gone or someone got there first.
		var exists int64
		if err := s.db.WithContext(ctx).Model(&conversationRow{}).
			Where("id = ?", c.ID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return errs.NotFound("conversation", c.ID)
		}
		return errs.Conflict("conversation", "concurrent modification")
	}
	return nil
}

// DeleteConversation removes a conversation. Administrative use only; normal
// closure is a status, not a deletion.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&conversationRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("conversation", id)
	}
	return nil
}

// ListConversations retrieves conversations matching the filter, newest first.
func (s *Store) ListConversations(ctx context.Context, f model.ConversationFilter) ([]model.Conversation, int, error) {
	q := s.db.WithContext(ctx).Model(&conversationRow{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", string(f.Priority))
	}
	if f.AssignedTo != "" {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("updated_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var rows []conversationRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	convs := make([]model.Conversation, 0, len(rows))
	for i := range rows {
		convs = append(convs, rows[i].toModel())
	}
	return convs, int(total), nil
}

// TouchConversation refreshes updated_at, e.g. when a message arrives.
func (s *Store) TouchConversation(ctx context.Context, id string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&conversationRow{}).
		Where("id = ?", id).
		Update("updated_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("conversation", id)
	}
	return nil
}
