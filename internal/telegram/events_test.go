package telegram

import "testing"

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want Event
	}{
		{
			name: "nil message",
			msg:  nil,
			want: Event{},
		},
		{
			name: "empty text",
			msg:  &Message{Text: "   "},
			want: Event{},
		},
		{
			name: "plain text",
			msg:  &Message{Text: " Hello there "},
			want: Event{Kind: EventText, Text: "Hello there"},
		},
		{
			name: "command without args",
			msg:  &Message{Text: "/reset_context"},
			want: Event{Kind: EventCommand, Command: "/reset_context"},
		},
		{
			name: "command with args",
			msg:  &Message{Text: "/password  s3cr3t"},
			want: Event{Kind: EventCommand, Command: "/password", Args: "s3cr3t"},
		},
		{
			name: "command with bot suffix",
			msg:  &Message{Text: "/Help@MyBot"},
			want: Event{Kind: EventCommand, Command: "/help"},
		},
		{
			name: "voice wins over text",
			msg:  &Message{Text: "caption", Voice: &Voice{FileID: "f123"}},
			want: Event{Kind: EventVoice, VoiceFileID: "f123"},
		},
		{
			name: "bare slash",
			msg:  &Message{Text: "/"},
			want: Event{Kind: EventCommand, Command: "/"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyMessage(tt.msg); got != tt.want {
				t.Fatalf("ClassifyMessage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSplitCommand(t *testing.T) {
	cmd, rest := splitCommand("/create_user 12345")
	if cmd != "/create_user" || rest != "12345" {
		t.Fatalf("splitCommand() = (%q, %q)", cmd, rest)
	}
	cmd, rest = splitCommand("/users")
	if cmd != "/users" || rest != "" {
		t.Fatalf("splitCommand() = (%q, %q)", cmd, rest)
	}
}
