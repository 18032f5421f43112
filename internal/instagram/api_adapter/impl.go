package api_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/orgball2608/insta-viewer/internal/instagram"
	"github.com/orgball2608/insta-viewer/pkg/config"
	apperrors "github.com/orgball2608/insta-viewer/pkg/errors"
	"github.com/orgball2608/insta-viewer/pkg/logger"
	"go.uber.org/fx"
)

const (
	profilePath = "/api/v1/users/web_profile_info/"
	graphqlPath = "/graphql/query/"
)

// HTTPClient is the subset of *http.Client the adapter uses.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Opts struct {
	fx.In
	Config *config.Config
	Logger logger.Logger
}

type APIAdapter struct {
	baseURL    string
	appID      string
	docID      string
	httpClient HTTPClient
	logger     logger.Logger
}

var (
	_ instagram.Client       = (*APIAdapter)(nil)
	_ instagram.ImageFetcher = (*APIAdapter)(nil)
)

func New(opts Opts) *APIAdapter {
	return NewWithClient(opts, &http.Client{Timeout: opts.Config.Instagram.Timeout})
}

// NewWithClient is New with an injected transport.
func NewWithClient(opts Opts, httpClient HTTPClient) *APIAdapter {
	return &APIAdapter{
		baseURL:    strings.TrimRight(opts.Config.Instagram.BaseURL, "/"),
		appID:      opts.Config.Instagram.AppID,
		docID:      opts.Config.Instagram.MediaDocID,
		httpClient: httpClient,
		logger:     opts.Logger.WithComponent("instagram"),
	}
}

func (a *APIAdapter) ProfileInfo(ctx context.Context, username string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("username", username)
	endpoint := a.baseURL + profilePath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUpstreamRequest, "build profile request")
	}
	req.Header.Set(instagram.AppIDHeader, a.appID)

	a.logger.Debug("Requesting profile", "username", username)
	return a.doJSON(req)
}

func (a *APIAdapter) TimelineMedia(ctx context.Context, vars instagram.MediaVariables) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("doc_id", a.docID)
	q.Set("variables", vars.Encode())
	endpoint := a.baseURL + graphqlPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUpstreamRequest, "build media request")
	}

	a.logger.Debug("Requesting timeline page", "user_id", vars.ID, "after", vars.After)
	return a.doJSON(req)
}

// FetchImage opens an arbitrary http(s) URL for streaming back to a client.
func (a *APIAdapter) FetchImage(ctx context.Context, rawURL string) (*instagram.Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperrors.WrapWithCode(apperrors.ErrInvalidInput, apperrors.CodeInvalidInput, "image url must be absolute http(s)")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUpstreamRequest, "build image request")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUpstreamRequest, "image request failed")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, apperrors.WrapWithCode(fmt.Errorf("status %d", resp.StatusCode), apperrors.CodeUpstreamStatus, "image request rejected")
	}

	return &instagram.Image{
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}

func (a *APIAdapter) doJSON(req *http.Request) (json.RawMessage, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUpstreamRequest, "instagram request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeUpstreamRequest, "read instagram response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.WrapWithCode(fmt.Errorf("status %d", resp.StatusCode), apperrors.CodeUpstreamStatus, "instagram returned an error status")
	}
	if !json.Valid(body) {
		return nil, apperrors.WrapWithCode(instagram.ErrUnexpectedShape, apperrors.CodeUpstreamDecode, "instagram returned invalid json")
	}

	return json.RawMessage(body), nil
}
