package mock

import (
	"context"

	"github.com/fwojciec/reel"
)

// Interface compliance check.
var _ reel.ScriptArchive = (*ScriptArchive)(nil)

// ScriptArchive is a test double for reel.ScriptArchive.
type ScriptArchive struct {
	SaveFn   func(ctx context.Context, r *reel.ScriptRecord) error
	GetFn    func(ctx context.Context, id string) (*reel.ScriptRecord, error)
	ListFn   func(ctx context.Context, f reel.ArchiveFilter) ([]reel.ScriptRecord, error)
	DeleteFn func(ctx context.Context, id string) error
}

// Save delegates to SaveFn.
func (a *ScriptArchive) Save(ctx context.Context, r *reel.ScriptRecord) error {
	return a.SaveFn(ctx, r)
}

// Get delegates to GetFn.
func (a *ScriptArchive) Get(ctx context.Context, id string) (*reel.ScriptRecord, error) {
	return a.GetFn(ctx, id)
}

// List delegates to ListFn.
func (a *ScriptArchive) List(ctx context.Context, f reel.ArchiveFilter) ([]reel.ScriptRecord, error) {
	return a.ListFn(ctx, f)
}

// Delete delegates to DeleteFn.
func (a *ScriptArchive) Delete(ctx context.Context, id string) error {
	return a.DeleteFn(ctx, id)
}
