package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates an event name from its result in an event string.
const Delimiter = ","

// ErrMalformedKey is returned by ParseKey for strings that are not "name,int".
var ErrMalformedKey = errors.New("malformed event string")

// FormatKey builds the canonical event string for name and result.
func FormatKey(name string, result int) string {
	return name + Delimiter + strconv.Itoa(result)
}

// ParseKey is the inverse of FormatKey. It splits on the first delimiter;
// the right part must parse as an int.
func ParseKey(key string) (name string, result int, err error) {
	name, raw, ok := strings.Cut(key, Delimiter)
	if !ok {
		return "", 0, fmt.Errorf("%w: %q has no %q", ErrMalformedKey, key, Delimiter)
	}
	result, err = strconv.Atoi(raw)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %v", ErrMalformedKey, key, err)
	}
	return name, result, nil
}
