// Package backend implements [reel.API] and [reel.Transport] against the
// reel HTTP backend.
//
// Every JSON endpoint answers with an envelope of the form
// {"success": bool, "data": {...}, "message": "..."}. Requests carry the
// bearer token from a [reel.TokenStore]; a 401 triggers one token refresh
// and a replay of the request.
package backend

import (
	"encoding/json"
	"time"

	"github.com/fwojciec/reel"
)

const (
	defaultBaseURL = "http://localhost:8080"

	signInPath   = "/api/v1/auth/google"
	refreshPath  = "/api/v1/auth/refresh"
	userPath     = "/api/v1/auth/user"
	onboardPath  = "/api/v1/auth/onboard"
	projectPath  = "/api/v1/project/create"
	storiesPath  = "/api/v1/story/prompt"
	streamPath   = "/api/v1/story/stream"
	trendsPath   = "/api/v1/trends"
	contentType  = "application/json"
	streamAccept = "text/event-stream"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type apiTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type apiUser struct {
	UID            string `json:"uid"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	PhoneNumber    string `json:"phoneNumber"`
}

type apiProject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Frequency int    `json:"frequency"`
	Category  string `json:"category"`
	CreatedAt int64  `json:"createdAt"` // unix millis
}

type apiProjectInput struct {
	Frequency int    `json:"frequency"`
	Category  string `json:"category"`
	Name      string `json:"name"`
}

type apiPromptRequest struct {
	ProjectID       string `json:"projectId"`
	ProjectCategory string `json:"projectCategory,omitempty"`
	Prompt          string `json:"prompt"`
}

type apiHook struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type apiCoreMessage struct {
	MainMessage string `json:"main_message"`
	Problem     string `json:"problem"`
	Resolution  string `json:"resolution"`
	Takeaway    string `json:"takeaway"`
}

type apiSegment struct {
	Order           int    `json:"order"`
	Narration       string `json:"narration"`
	VisualIdea      string `json:"visual_idea"`
	ImagePromptSeed string `json:"image_prompt_seed"`
}

type apiScript struct {
	Title                  string         `json:"title"`
	Intent                 string         `json:"intent"`
	Hook                   apiHook        `json:"hook"`
	Message                apiCoreMessage `json:"message"`
	Segments               []apiSegment   `json:"segments"`
	Hashtags               []string       `json:"hashtags"`
	EstimatedTotalDuration float64        `json:"estimated_total_duration"`
}

type apiStory struct {
	ID     string    `json:"id"`
	Script apiScript `json:"script"`
}

type apiTrendsRequest struct {
	RegionCode string  `json:"regionCode"`
	MaxResults int     `json:"maxResults"`
	CategoryID *string `json:"categoryId"`
}

type apiVideoMetrics struct {
	Views int64 `json:"views"`
	Likes int64 `json:"likes"`
}

type apiVideo struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Channel   string          `json:"channel"`
	Thumbnail string          `json:"thumbnail"`
	Category  string          `json:"category"`
	Metrics   apiVideoMetrics `json:"metrics"`
	Script    *string         `json:"script"`
}

func convertUser(u apiUser) reel.User {
	return reel.User{
		UID:            u.UID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		PhoneNumber:    u.PhoneNumber,
	}
}

func convertProject(p apiProject) reel.Project {
	out := reel.Project{
		ID:        p.ID,
		Name:      p.Name,
		Frequency: p.Frequency,
		Category:  reel.Category(p.Category),
	}
	if p.CreatedAt != 0 {
		out.CreatedAt = time.UnixMilli(p.CreatedAt).UTC()
	}
	return out
}

func convertStory(s apiStory) reel.Story {
	sc := s.Script
	segments := make([]reel.ScriptSegment, len(sc.Segments))
	for i, seg := range sc.Segments {
		segments[i] = reel.ScriptSegment{
			Order:           seg.Order,
			Narration:       seg.Narration,
			VisualIdea:      seg.VisualIdea,
			ImagePromptSeed: seg.ImagePromptSeed,
		}
	}
	return reel.Story{
		ID: s.ID,
		Script: reel.Script{
			Title:  sc.Title,
			Intent: sc.Intent,
			Hook:   reel.Hook{Text: sc.Hook.Text, Type: reel.HookType(sc.Hook.Type)},
			Message: reel.CoreMessage{
				MainMessage: sc.Message.MainMessage,
				Problem:     sc.Message.Problem,
				Resolution:  sc.Message.Resolution,
				Takeaway:    sc.Message.Takeaway,
			},
			Segments:               segments,
			Hashtags:               sc.Hashtags,
			EstimatedTotalDuration: sc.EstimatedTotalDuration,
		},
	}
}

func convertVideo(v apiVideo) reel.Video {
	return reel.Video{
		ID:        v.ID,
		Title:     v.Title,
		Channel:   v.Channel,
		Views:     v.Metrics.Views,
		Likes:     v.Metrics.Likes,
		Category:  reel.VideoCategory(v.Category),
		Thumbnail: v.Thumbnail,
		Script:    v.Script,
	}
}

func convertPromptRequest(req reel.GenerateRequest) apiPromptRequest {
	return apiPromptRequest{
		ProjectID:       req.ProjectID,
		ProjectCategory: string(req.ProjectCategory),
		Prompt:          req.Prompt,
	}
}
