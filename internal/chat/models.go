package chat

import "time"

// Turn roles form a closed set.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a user's transcript. Ascending ID is the
// conversation order.
type Turn struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    uint64    `gorm:"index;not null" json:"-"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"-"`
}

func (Turn) TableName() string { return "chat_turns" }
