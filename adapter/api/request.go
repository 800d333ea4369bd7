package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
)

// UserHeader identifies the caller.
const UserHeader = "X-User-ID"

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON body. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s", errBadBody, err)
	}
	return nil
}

// callerID takes the user from X-User-ID and falls back to the given body
// value.
func callerID(r *http.Request, fromBody string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.Header.Get(UserHeader))
	if raw == "" {
		raw = strings.TrimSpace(fromBody)
	}
	return parseUserID(raw)
}

// pathUserID takes the user from the {uid} segment. A differing
// X-User-ID is rejected.
func pathUserID(r *http.Request) (uuid.UUID, error) {
	id, err := parseUserID(r.PathValue("uid"))
	if err != nil {
		return uuid.Nil, err
	}
	if header := strings.TrimSpace(r.Header.Get(UserHeader)); header != "" && header != id.String() {
		return uuid.Nil, errUnauthenticated
	}
	return id, nil
}

func parseUserID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, errUnauthenticated
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errUnauthenticated
	}
	return id, nil
}

// pathDate parses the {date} segment. "today" resolves in server time.
func pathDate(r *http.Request) (sharedDomain.Date, error) {
	raw := r.PathValue("date")
	if raw == "today" {
		return sharedDomain.Today(time.Local), nil
	}
	return sharedDomain.ParseDate(raw)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
