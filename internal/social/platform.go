// Package social shapes job postings for external networks and publishes them.
package social

import (
	"encoding/json"
	"errors"
)

// Platform identifies one external publishing destination.
type Platform string

const (
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
)

// Platforms is the closed set in attempt order.
var Platforms = []Platform{Facebook, Twitter, Instagram}

func (p Platform) Valid() bool {
	switch p {
	case Facebook, Twitter, Instagram:
		return true
	}
	return false
}

// DisplayName is the label used in error messages.
func (p Platform) DisplayName() string {
	switch p {
	case Facebook:
		return "Facebook"
	case Twitter:
		return "Twitter"
	case Instagram:
		return "Instagram"
	}
	return string(p)
}

// Outcome is the result of one platform publish attempt. Exactly one of
// PostID and Error is set.
type Outcome struct {
	Platform Platform `json:"platform"`
	Success  bool     `json:"success"`
	PostID   string   `json:"postId,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func Succeeded(p Platform, postID string) Outcome {
	return Outcome{Platform: p, Success: true, PostID: postID}
}

func Failed(p Platform, err error) Outcome {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Outcome{Platform: p, Success: false, Error: msg}
}

// Result holds one Outcome per attempted platform, in attempt order.
type Result []Outcome

// Platforms lists the attempted platform names.
func (r Result) Platforms() []string {
	names := make([]string, len(r))
	for i, o := range r {
		names[i] = string(o.Platform)
	}
	return names
}

func (r Result) SuccessCount() int {
	n := 0
	for _, o := range r {
		if o.Success {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares nothing with r.
func (r Result) Clone() Result {
	if r == nil {
		return nil
	}
	out := make(Result, len(r))
	copy(out, r)
	return out
}

// MarshalJSON keeps an empty result as [] rather than null.
func (r Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Outcome(r))
}

var errEmptyResult = errors.New("empty result")

// ParseResult decodes a stored result column.
func ParseResult(data string) (Result, error) {
	if data == "" {
		return nil, errEmptyResult
	}
	var r []Outcome
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, err
	}
	return Result(r), nil
}
