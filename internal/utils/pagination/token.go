package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeCursor creates an opaque token pointing at a (createdAt, id) position in a
// newest-first listing. The next page starts strictly after that position.
func EncodeCursor(createdAt time.Time, id int64) string {
	return EncodeMultiFieldToken(createdAt.UTC().Format(timeFormat), strconv.FormatInt(id, 10))
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (time.Time, int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return time.Time{}, 0, err
	}
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (id parse): %w", err)
	}
	return createdAt, id, nil
}

// IsBefore reports whether (at, id) sorts after the cursor (cursorAt, cursorID) in a
// newest-first listing, i.e. it is older, or equally old with a smaller id.
func IsBefore(at time.Time, id int64, cursorAt time.Time, cursorID int64) bool {
	if at.Equal(cursorAt) {
		return id < cursorID
	}
	return at.Before(cursorAt)
}

// EncodeMultiFieldToken creates a token with any number of string fields
// This provides flexibility for different pagination strategies
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
