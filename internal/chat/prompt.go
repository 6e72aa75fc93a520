package chat

import "strings"

// BuildPrompt serializes a transcript for a stateless completion gateway:
// alternating "User:"/"Assistant:" lines in conversation order, terminated
// by a bare "Assistant:" cue so the model continues from there.
func BuildPrompt(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case RoleUser:
			b.WriteString("User: ")
		case RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			continue
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	b.WriteString("Assistant:")
	return b.String()
}

// ExtractReply pulls the newly generated continuation out of the gateway
// output. Completion models usually echo the prompt, so the echoed prefix is
// stripped (by exact prefix when present, otherwise everything up to the
// last "Assistant:" marker), and the result is truncated at the first
// "User:" marker — text past that is the model inventing the next turn, not
// part of this one.
func ExtractReply(generated, prompt string) string {
	reply := generated
	if prompt != "" && strings.HasPrefix(reply, prompt) {
		reply = reply[len(prompt):]
	} else if i := strings.LastIndex(reply, "Assistant:"); i >= 0 {
		reply = reply[i+len("Assistant:"):]
	}
	if i := strings.Index(reply, "User:"); i >= 0 {
		reply = reply[:i]
	}
	return strings.TrimSpace(reply)
}
