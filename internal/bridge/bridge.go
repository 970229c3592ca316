// Package bridge carries messages from the isolated preview frame to the host.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// MessageType is the closed set of messages the preview may send.
type MessageType string

const (
	TypeImageSelected MessageType = "image-selected"
)

// GeneratedImageLabel stands in for a data URI so the payload is never shown
// to the user.
const GeneratedImageLabel = "data:image/... (generated)"

var (
	ErrUnknownType    = errors.New("unknown bridge message type")
	ErrInvalidMessage = errors.New("invalid bridge message")
	ErrOriginRejected = errors.New("bridge message origin rejected")
)

// Message is one preview-to-host message.
type Message struct {
	Type MessageType `json:"type"`
	Src  string      `json:"src"`
	ID   *string     `json:"id"`
}

// Decode parses and validates a raw message.
func Decode(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := msg.Validate(); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// Validate checks the message against its type's contract.
func (m Message) Validate() error {
	switch m.Type {
	case TypeImageSelected:
		if strings.TrimSpace(m.Src) == "" {
			return fmt.Errorf("%w: image-selected without src", ErrInvalidMessage)
		}
		if m.ID != nil && *m.ID == "" {
			return fmt.Errorf("%w: empty marker id", ErrInvalidMessage)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
}

// IsGeneratedImage reports whether src is an embedded data URI, i.e. an image
// produced by the image model rather than a remote placeholder.
func IsGeneratedImage(src string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(src)), "data:")
}

// NormalizeImageSource keeps scheme, host, path and query of a URL reported by
// the preview and drops anything else the frame may have attached.
func NormalizeImageSource(src string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return "", fmt.Errorf("%w: bad image url: %v", ErrInvalidMessage, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: image url %q is not absolute", ErrInvalidMessage, src)
	}
	clean := url.URL{
		Scheme:   u.Scheme,
		Host:     u.Host,
		Path:     u.Path,
		RawPath:  u.RawPath,
		RawQuery: u.RawQuery,
	}
	return clean.String(), nil
}

// Label is the short name shown for a selected image: the last path segment
// without the query, or the generated-image label.
func Label(src string) string {
	if IsGeneratedImage(src) {
		return GeneratedImageLabel
	}
	path := strings.SplitN(src, "?", 2)[0]
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// OriginChecker decides whether a forwarded message came from the host page.
type OriginChecker struct {
	allowed string
}

// NewOriginChecker accepts only allowedOrigin. With an empty allowedOrigin the
// request's own host is required instead.
func NewOriginChecker(allowedOrigin string) *OriginChecker {
	return &OriginChecker{allowed: strings.TrimRight(allowedOrigin, "/")}
}

// Check compares the Origin header of a forwarded message with the allowed
// origin. requestHost is the Host the request was sent to.
func (c *OriginChecker) Check(origin, requestHost string) error {
	if origin == "" {
		return fmt.Errorf("%w: missing origin", ErrOriginRejected)
	}
	if c.allowed != "" {
		if origin != c.allowed {
			return fmt.Errorf("%w: %s", ErrOriginRejected, origin)
		}
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host != requestHost {
		return fmt.Errorf("%w: %s", ErrOriginRejected, origin)
	}
	return nil
}
