package channels

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxIDLen = 255

// ValidateID trims and checks a channel id. Ids end up as map keys and as
// fragments of file or resource names elsewhere in the gateway, so anything
// that smells like path traversal is rejected: any run of two or more of
// '.', '/' or '\'.
func ValidateID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", &Error{Code: EInvalid, Msg: "channel id is empty"}
	}
	if utf8.RuneCountInString(trimmed) > maxIDLen {
		return "", &Error{Code: EInvalid, Msg: fmt.Sprintf("channel id exceeds %d characters", maxIDLen)}
	}
	prev := false
	for _, r := range trimmed {
		cur := r == '.' || r == '/' || r == '\\'
		if cur && prev {
			return "", &Error{Code: EInvalid, Msg: "channel id contains a path traversal sequence"}
		}
		prev = cur
	}
	return trimmed, nil
}
