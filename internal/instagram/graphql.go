package instagram

import (
	"encoding/json"
	"fmt"

	"github.com/orgball2608/insta-viewer/internal/domain"
)

// Wire shapes of the web_profile_info and graphql timeline responses.
// Only the fields the viewer needs are declared.
type userEnvelope struct {
	Data *struct {
		User *user `json:"user"`
	} `json:"data"`
}

type user struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Username        string    `json:"username"`
	Biography       string    `json:"biography"`
	ProfilePicURLHD string    `json:"profile_pic_url_hd"`
	IsPrivate       bool      `json:"is_private"`
	IsVerified      bool      `json:"is_verified"`
	FollowedBy      countEdge `json:"edge_followed_by"`
	Follow          countEdge `json:"edge_follow"`
	Timeline        *timeline `json:"edge_owner_to_timeline_media"`
}

type countEdge struct {
	Count int `json:"count"`
}

type timeline struct {
	Count    int      `json:"count"`
	PageInfo pageInfo `json:"page_info"`
	Edges    []edge   `json:"edges"`
}

type pageInfo struct {
	HasNextPage bool    `json:"has_next_page"`
	EndCursor   *string `json:"end_cursor"`
}

type edge struct {
	Node node `json:"node"`
}

type node struct {
	ID         string `json:"id"`
	DisplayURL string `json:"display_url"`
	IsVideo    bool   `json:"is_video"`
	VideoURL   string `json:"video_url"`
	Sidecar    *struct {
		Edges []struct {
			Node node `json:"node"`
		} `json:"edges"`
	} `json:"edge_sidecar_to_children"`
}

// DecodeProfile turns a web_profile_info body into a profile and its first timeline page.
func DecodeProfile(body []byte) (domain.ProfileResult, error) {
	u, err := decodeUser(body)
	if err != nil {
		return domain.ProfileResult{}, err
	}

	return domain.ProfileResult{
		Profile: domain.Profile{
			ID:             u.ID,
			FullName:       u.FullName,
			Username:       u.Username,
			Biography:      u.Biography,
			AvatarURL:      u.ProfilePicURLHD,
			PostCount:      u.Timeline.Count,
			FollowerCount:  u.FollowedBy.Count,
			FollowingCount: u.Follow.Count,
			IsPrivate:      u.IsPrivate,
			IsVerified:     u.IsVerified,
		},
		FirstPage: u.Timeline.page(),
	}, nil
}

// DecodeTimeline turns a graphql timeline body into a feed page.
func DecodeTimeline(body []byte) (domain.FeedPage, error) {
	u, err := decodeUser(body)
	if err != nil {
		return domain.FeedPage{}, err
	}
	return u.Timeline.page(), nil
}

// PeekUserID returns data.user.id of a body, or "" when it cannot be found.
func PeekUserID(body []byte) string {
	var env userEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Data == nil || env.Data.User == nil {
		return ""
	}
	return env.Data.User.ID
}

func decodeUser(body []byte) (*user, error) {
	var env userEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if env.Data == nil || env.Data.User == nil {
		return nil, fmt.Errorf("%w: data.user is missing", ErrUnexpectedShape)
	}
	if env.Data.User.Timeline == nil || env.Data.User.Timeline.Edges == nil {
		return nil, fmt.Errorf("%w: timeline edges are missing", ErrUnexpectedShape)
	}
	return env.Data.User, nil
}

func (t *timeline) page() domain.FeedPage {
	entries := make([]domain.MediaEntry, 0, len(t.Edges))
	for _, e := range t.Edges {
		entries = append(entries, e.Node.entry())
	}

	cursor := ""
	if t.PageInfo.EndCursor != nil {
		cursor = *t.PageInfo.EndCursor
	}
	return domain.NewFeedPage(entries, cursor, t.PageInfo.HasNextPage)
}

func (n node) item() domain.MediaItem {
	return domain.MediaItem{
		DisplayURL: n.DisplayURL,
		IsVideo:    n.IsVideo,
		VideoURL:   n.VideoURL,
	}
}

func (n node) entry() domain.MediaEntry {
	var children []domain.MediaItem
	if n.Sidecar != nil {
		for _, child := range n.Sidecar.Edges {
			children = append(children, child.Node.item())
		}
	}
	return domain.NewEntry(n.ID, n.item(), children)
}
