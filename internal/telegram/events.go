package telegram

import "strings"

// EventKind tags what an inbound message is. The decision is made exactly
// once here at the transport boundary; handlers dispatch on the tag instead
// of re-inspecting the raw text.
type EventKind int

const (
	EventNone EventKind = iota
	EventCommand
	EventText
	EventVoice
)

type Event struct {
	Kind        EventKind
	Command     string // normalized, e.g. "/password"
	Args        string
	Text        string
	VoiceFileID string
}

// ClassifyMessage turns a raw message into a tagged event. Unsupported
// content (stickers, photos, empty text) classifies as EventNone.
func ClassifyMessage(msg *Message) Event {
	if msg == nil {
		return Event{}
	}
	if msg.Voice != nil && msg.Voice.FileID != "" {
		return Event{Kind: EventVoice, VoiceFileID: msg.Voice.FileID}
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return Event{}
	}
	if strings.HasPrefix(text, "/") {
		word, rest := splitCommand(text)
		cmd := normalizeSlashCommand(word)
		if cmd == "" {
			return Event{}
		}
		return Event{Kind: EventCommand, Command: cmd, Args: rest}
	}
	return Event{Kind: EventText, Text: text}
}

func splitCommand(text string) (cmd string, rest string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	i := strings.IndexAny(text, " \n\t")
	if i == -1 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

func normalizeSlashCommand(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" || !strings.HasPrefix(cmd, "/") {
		return ""
	}
	// Allow "/cmd@BotName" variants by stripping "@...".
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}
