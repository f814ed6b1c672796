package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/andrewpaige1/autoquiz-api/models"
)

var untitledPattern = regexp.MustCompile(`Untitled (\d+)`)

// NextUntitledTitle picks the default title for a new note by scanning the
// user's existing notes for "Untitled N" and taking the next free number.
// This numbering is presentation policy and deliberately lives with the
// caller, not in the store.
func NextUntitledTitle(notes []models.Note) string {
	max := 0
	for _, note := range notes {
		if !strings.HasPrefix(note.Title, "Untitled") {
			continue
		}
		match := untitledPattern.FindStringSubmatch(note.Title)
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("Untitled %d", max+1)
}
