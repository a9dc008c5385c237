package memory

import (
	"context"
	"sort"
	"sync"

	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

type UploadRepo struct {
	mu      sync.RWMutex
	uploads map[string]model.Upload
	// likedBy tracks which users have liked each upload, uploadID -> userID set.
	likedBy map[string]map[string]bool
}

func NewUploadRepo() *UploadRepo {
	return &UploadRepo{
		uploads: map[string]model.Upload{},
		likedBy: map[string]map[string]bool{},
	}
}

func (r *UploadRepo) Create(_ context.Context, u *model.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads[u.ID] = *u
	return nil
}

func (r *UploadRepo) GetByID(_ context.Context, id string) (*model.Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.uploads[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

func (r *UploadRepo) ListByCounty(_ context.Context, countyID int) ([]model.Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	relevant := make([]model.Upload, 0, len(r.uploads))
	for _, u := range r.uploads {
		if u.CountyID == countyID {
			relevant = append(relevant, u)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Timestamp.After(relevant[j].Timestamp)
	})
	return relevant, nil
}

func (r *UploadRepo) ListMostLiked(_ context.Context, countyID, limit int) ([]model.Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	relevant := make([]model.Upload, 0, len(r.uploads))
	for _, u := range r.uploads {
		if u.CountyID == countyID {
			relevant = append(relevant, u)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Likes > relevant[j].Likes
	})
	if limit > 0 && len(relevant) > limit {
		relevant = relevant[:limit]
	}
	return relevant, nil
}

func (r *UploadRepo) ToggleLike(_ context.Context, uploadID, userID string) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[uploadID]
	if !ok {
		return false, 0, errs.ErrNotFound
	}
	likes := r.likedBy[uploadID]
	if likes == nil {
		likes = map[string]bool{}
		r.likedBy[uploadID] = likes
	}
	if likes[userID] {
		delete(likes, userID)
		if u.Likes > 0 {
			u.Likes--
		}
		r.uploads[uploadID] = u
		return false, u.Likes, nil
	}
	likes[userID] = true
	u.Likes++
	r.uploads[uploadID] = u
	return true, u.Likes, nil
}

func (r *UploadRepo) CountByCounty(_ context.Context, countyID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, u := range r.uploads {
		if u.CountyID == countyID {
			count++
		}
	}
	return count, nil
}
