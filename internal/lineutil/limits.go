package lineutil

// LINE API limits, counted in runes.
// References: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength   = 5000 // Text message max content length
	MaxQuickReplyItemCount = 13   // Max items in a quick reply
	MaxQuickReplyLabel     = 20   // Max label length for quick reply item
)
