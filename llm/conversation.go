package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

// Conversation is an append-only chat history owned by the caller and
// threaded through every cycle. It is not safe for concurrent use.
type Conversation struct {
	messages []openai.ChatCompletionMessage
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

func (c *Conversation) AppendSystem(text string) {
	c.messages = append(c.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: text,
	})
}

// AppendUserImage adds a user message carrying text and an inline JPEG.
func (c *Conversation) AppendUserImage(text, jpegBase64 string) {
	c.messages = append(c.messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: text},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: "data:image/jpeg;base64," + jpegBase64,
				},
			},
		},
	})
}

func (c *Conversation) AppendAssistant(text string) {
	c.messages = append(c.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: text,
	})
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int { return len(c.messages) }
