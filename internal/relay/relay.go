package relay

import (
	"context"
	"errors"

	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/instagram"
)

// ErrStatus is wrapped by every non-2xx relay response.
var ErrStatus = errors.New("relay returned an error status")

// Client is the viewer's side of the relay HTTP surface.
//
//go:generate go run go.uber.org/mock/mockgen -source=relay.go -destination=mocks/mock.go
type Client interface {
	Profile(ctx context.Context, username string) (domain.ProfileResult, error)
	Media(ctx context.Context, vars instagram.MediaVariables) (domain.FeedPage, error)
	// ImageURL rewrites a platform media URL to go through the relay's image proxy.
	ImageURL(raw string) string
}
