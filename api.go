package reel

import "context"

// API is the backend surface used outside of streaming generation.
type API interface {
	SignIn(ctx context.Context, idToken string) (Tokens, error)
	CurrentUser(ctx context.Context) (User, error)
	Onboard(ctx context.Context, frequency int) error
	CreateProject(ctx context.Context, in ProjectInput) (Project, error)
	ListStories(ctx context.Context, projectID string) ([]Story, error)
	CreateStory(ctx context.Context, req GenerateRequest) error
	Trends(ctx context.Context, q TrendsQuery) (Trends, error)
}

// TokenSource supplies the bearer token for outgoing requests. An empty
// token with a nil error means the user is signed out.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenStore persists the token pair between runs.
type TokenStore interface {
	TokenSource
	RefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, t Tokens) error
	Clear(ctx context.Context) error
}

// ScriptArchive stores generation results locally.
type ScriptArchive interface {
	Save(ctx context.Context, r *ScriptRecord) error
	Get(ctx context.Context, id string) (*ScriptRecord, error)
	List(ctx context.Context, f ArchiveFilter) ([]ScriptRecord, error)
	Delete(ctx context.Context, id string) error
}

// ArchiveFilter narrows ScriptArchive.List. Match is a glob matched
// against record titles; empty fields match everything.
type ArchiveFilter struct {
	ProjectID string
	Match     string
}
