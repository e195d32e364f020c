package app

import (
	"fmt"
	"os"
	"strings"
)

// LoadMessages reads the queue file: messages are separated by one or
// more blank lines, line breaks inside a message are preserved, and
// whitespace-only blocks are dropped. CRLF input is normalized to LF.
func LoadMessages(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")

	var out []string
	var block []string
	flush := func() {
		if len(block) == 0 {
			return
		}
		msg := strings.Join(block, "\n")
		block = block[:0]
		if strings.TrimSpace(msg) != "" {
			out = append(out, msg)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()
	return out, nil
}
