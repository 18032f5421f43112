package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
)

var ErrUnexpectedShape = errors.New("unexpected instagram response shape")

// AppIDHeader carries the web application id the profile endpoint insists on.
const AppIDHeader = "x-ig-app-id"

// Client talks to the platform's private web API and hands back bodies untouched.
//
//go:generate go run go.uber.org/mock/mockgen -source=instagram.go -destination=mocks/mock.go
type Client interface {
	ProfileInfo(ctx context.Context, username string) (json.RawMessage, error)
	TimelineMedia(ctx context.Context, vars MediaVariables) (json.RawMessage, error)
}

// Image is an open upstream media response. The caller closes Body.
type Image struct {
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

type ImageFetcher interface {
	FetchImage(ctx context.Context, rawURL string) (*Image, error)
}
