package outbox

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
)

const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

const (
	TypeStatusChanged = "post.status_changed"
	TypeReviewAdded   = "post.review_added"
	TypePostUpdated   = "post.updated"
)

// Message is a domain event waiting to be relayed to the message bus. It is
// written in the same transaction as the change it describes.
type Message struct {
	ID          uuid.UUID  `gorm:"primaryKey;type:char(36)"`
	PostID      uuid.UUID  `gorm:"type:char(36);not null;index"`
	Type        string     `gorm:"type:varchar(50);not null"`
	Payload     string     `gorm:"type:text;not null"`
	Seq         int64      `gorm:"not null;default:0;index"` // relay order
	Status      string     `gorm:"type:varchar(20);not null;index"` // pending, done, failed
	Attempts    int        `gorm:"not null;default:0"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index"`
	ProcessedAt *time.Time `gorm:"index"`
}

func (Message) TableName() string {
	return "outbox"
}

// Event is the JSON body published for every outbox message.
type Event struct {
	Type       string    `json:"type"`
	PostID     string    `json:"post_id"`
	Status     string    `json:"status,omitempty"`
	ReviewID   string    `json:"review_id,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

var lastSeq atomic.Int64

// nextSeq is wall-clock nanoseconds, bumped past the previous value so
// messages built in the same instant still sort in creation order.
func nextSeq() int64 {
	for {
		prev := lastSeq.Load()
		next := time.Now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if lastSeq.CompareAndSwap(prev, next) {
			return next
		}
	}
}

func New(postID uuid.UUID, ev Event) (*Message, error) {
	ev.PostID = postID.String()
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:        uuid.Must(uuid.NewV4()),
		PostID:    postID,
		Type:      ev.Type,
		Payload:   string(payload),
		Seq:       nextSeq(),
		Status:    StatusPending,
		CreatedAt: ev.OccurredAt,
	}, nil
}
