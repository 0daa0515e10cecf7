package bill

import (
	"regexp"
	"strings"

	"github.com/Iron-Ham/solarsizer/internal/errors"
)

const (
	minReferenceLen = 4
	maxReferenceLen = 32
)

var referencePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// NormalizeReference trims and upper-cases ref, then checks it looks like a
// bill reference. Invalid input yields a MalformedReference ResolutionError.
func NormalizeReference(ref string) (string, error) {
	norm := strings.ToUpper(strings.TrimSpace(ref))
	if len(norm) < minReferenceLen || len(norm) > maxReferenceLen || !referencePattern.MatchString(norm) {
		return "", errors.NewResolutionError(errors.MalformedReference, strings.TrimSpace(ref), nil)
	}
	return norm, nil
}
