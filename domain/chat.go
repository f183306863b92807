package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is an immutable message of the driver chat.
type ChatMessage struct {
	ID            uuid.UUID `json:"id"`
	AuthorID      string    `json:"authorId"`
	Author        string    `json:"author"`
	Content       string    `json:"content"`
	Lang          string    `json:"lang,omitempty"`
	CensoredWords []string  `json:"censoredWords,omitempty"`
	At            time.Time `json:"at"`
}

// PostChatCommand is what a driver sends, over REST or over the socket.
type PostChatCommand struct {
	AuthorID string `json:"authorId"`
	Author   string `json:"author" validate:"required,max=64"`
	Content  string `json:"content" validate:"required"`
}
