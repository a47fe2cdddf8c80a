package bot

import (
	"errors"
	"fmt"

	"homework_bot/internal/model"
)

// Sentinel errors returned by FormatStatus.
var (
	ErrUnknownStatus     = errors.New("unknown homework status")
	ErrMalformedHomework = errors.New("malformed homework")
)

var verdicts = map[model.Status]string{
	model.StatusApproved:  "Work reviewed: reviewer liked everything. Hooray!",
	model.StatusReviewing: "Work has been taken up for review.",
	model.StatusRejected:  "Work reviewed: reviewer has comments.",
}

// FormatStatus formats a homework's review status as a notification message.
func FormatStatus(hw model.Homework) (string, error) {
	if hw.LessonName == "" {
		return "", fmt.Errorf("%w: missing lesson_name", ErrMalformedHomework)
	}
	if hw.Status == "" {
		return "", fmt.Errorf("%w: missing status", ErrMalformedHomework)
	}
	verdict, ok := verdicts[hw.Status]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownStatus, hw.Status)
	}
	return fmt.Sprintf("Changed review status for work \"%s\". %s", hw.LessonName, verdict), nil
}

// FormatFailure formats an unexpected error for the chat.
func FormatFailure(err error) string {
	return fmt.Sprintf("Program failure: %v", err)
}
