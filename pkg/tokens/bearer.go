package tokens

import "strings"

const bearerPrefix = "Bearer "

// FromBearer extracts the token from an Authorization header value.
func FromBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
