package profile

import (
	"context"
	"sync"
	"sync/atomic"

	"mypage/internal/pkg/errs"
	"mypage/internal/pkg/logx"
)

// UpdateCoordinator serializes profile submissions for one form instance.
// It is the sole admission-control point for profile writes: a second Submit
// issued while one is pending is rejected locally with ErrUpdateInProgress
// before any collaborator is contacted.
type UpdateCoordinator struct {
	repo     Repository
	inFlight atomic.Bool
}

// NewUpdateCoordinator constructs a coordinator over the given repository.
func NewUpdateCoordinator(repo Repository) *UpdateCoordinator {
	return &UpdateCoordinator{repo: repo}
}

// Submit validates the form and persists {name, introduce, avatar_url} for
// userID. newAvatarURL is nil when no new avatar was uploaded, in which case
// the stored avatar reference is left untouched. On success it returns the
// fully resolved profile for the caller to feed into Store.Set.
//
// Submission walks Validating -> Persisting -> done; the optional Uploading
// step happens before Submit, in the avatar manager, and its result arrives
// here as newAvatarURL.
func (c *UpdateCoordinator) Submit(ctx context.Context, userID string, form FormFields, newAvatarURL *string) (*Profile, *errs.CustomError) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, errs.NewError(errs.ErrUpdateInProgress)
	}
	defer c.inFlight.Store(false)

	if customErr := ValidateForm(form); customErr != nil {
		return nil, customErr
	}

	updated, err := c.repo.Update(ctx, userID, UpdateFields{
		Name:      form.Name,
		Introduce: form.Introduce,
		AvatarURL: newAvatarURL,
	})
	if err != nil {
		logx.Error(err, "profile update rejected by persistence", "user_id", userID)
		return nil, errs.NewError(errs.ErrProfileUpdateFailed, err.Error())
	}

	return updated, nil
}

// CoordinatorRegistry hands out one UpdateCoordinator per user, so the
// in-flight flag spans every request a user's form instance may issue.
type CoordinatorRegistry struct {
	repo Repository

	mu     sync.Mutex
	byUser map[string]*UpdateCoordinator
}

// NewCoordinatorRegistry constructs a registry over the given repository.
func NewCoordinatorRegistry(repo Repository) *CoordinatorRegistry {
	return &CoordinatorRegistry{
		repo:   repo,
		byUser: make(map[string]*UpdateCoordinator),
	}
}

// ForUser returns the coordinator for the given user, creating it on first use.
func (r *CoordinatorRegistry) ForUser(userID string) *UpdateCoordinator {
	r.mu.Lock()
	defer r.mu.Unlock()

	coord, ok := r.byUser[userID]
	if !ok {
		coord = NewUpdateCoordinator(r.repo)
		r.byUser[userID] = coord
	}

	return coord
}
