package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips markup that user-generated content is not allowed to carry.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
