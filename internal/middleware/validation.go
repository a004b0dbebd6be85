package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dev-surajtapkeer/voxora/internal/model"
)

// ValidateID validates an entity ID path parameter.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid ID format")
	}
	return nil
}

// ValidateSubject validates a conversation subject. The limit counts
// characters, not bytes.
func ValidateSubject(subject string) error {
	if !utf8.ValidString(subject) {
		return errors.New("subject must be valid UTF-8")
	}
	if utf8.RuneCountInString(subject) > model.MaxSubjectLength {
		return errors.New("subject exceeds maximum length")
	}
	return nil
}

// ValidateTags validates a tag list request.
func ValidateTags(tags []string) error {
	if len(tags) == 0 {
		return errors.New("tags cannot be empty")
	}
	if len(tags) > 50 {
		return errors.New("too many tags")
	}
	for _, tag := range tags {
		if len(tag) > 64 {
			return errors.New("tag exceeds maximum length")
		}
		if !utf8.ValidString(tag) {
			return errors.New("tags must be valid UTF-8")
		}
	}
	return nil
}
