package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseEntryNumber extracts the 1-based entry number users see in /all and
// converts it to a zero-based catalog index. max is the current catalog
// length.
func ParseEntryNumber(args string, max int) (int, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, fmt.Errorf("entry number is required")
	}
	n, err := strconv.Atoi(strings.Fields(s)[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("number must be between 1 and %d", max)
	}
	return n - 1, nil
}
