// Package lineutil builds LINE reply messages within the Messaging API limits.
package lineutil

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// QuickReplyItem represents an item in a quick reply.
type QuickReplyItem struct {
	ImageURL string
	Action   messaging_api.ActionInterface
}

// NewTextMessage creates a text message, truncated to the LINE limit.
func NewTextMessage(text string) *messaging_api.TextMessage {
	return &messaging_api.TextMessage{
		Text: TruncateRunes(text, MaxTextMessageLength),
	}
}

// NewTextMessageWithQuickReply creates a text message with quick reply buttons.
func NewTextMessageWithQuickReply(text string, items ...QuickReplyItem) *messaging_api.TextMessage {
	msg := NewTextMessage(text)
	if len(items) > 0 {
		msg.QuickReply = NewQuickReply(items)
	}
	return msg
}

// NewQuickReply creates a quick reply, dropping items beyond the LINE limit.
func NewQuickReply(items []QuickReplyItem) *messaging_api.QuickReply {
	if len(items) > MaxQuickReplyItemCount {
		items = items[:MaxQuickReplyItemCount]
	}

	quickReplyItems := make([]messaging_api.QuickReplyItem, len(items))
	for i, item := range items {
		quickReplyItems[i] = messaging_api.QuickReplyItem{
			Action:   item.Action,
			ImageUrl: item.ImageURL,
		}
	}
	return &messaging_api.QuickReply{Items: quickReplyItems}
}

// NewMessageAction creates an action that sends text as the user when tapped.
// Labels longer than the LINE limit are truncated.
func NewMessageAction(label, text string) messaging_api.ActionInterface {
	return &messaging_api.MessageAction{
		Label: TruncateRunes(label, MaxQuickReplyLabel),
		Text:  text,
	}
}

// TopicQuickReplies suggests one question per fact topic the bot answers.
func TopicQuickReplies() []QuickReplyItem {
	return []QuickReplyItem{
		{Action: NewMessageAction("Courses", "What B.Tech courses are offered?")},
		{Action: NewMessageAction("Hostel fees", "What is the hostel fee?")},
		{Action: NewMessageAction("Placements", "How many students were placed?")},
		{Action: NewMessageAction("Scholarships", "Merit scholarship for EAPCET rank")},
		{Action: NewMessageAction("Partners", "Who are the industry partners?")},
	}
}

// TruncateRunes truncates text by rune count (not byte count) to properly handle UTF-8.
// The result ends in "..." when text was longer than maxRunes.
func TruncateRunes(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
