package service

import (
	"context"

	"regen-insight/server/internal/county"
	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

// CreateUploadInput carries one new image upload record.
type CreateUploadInput struct {
	UserID    string
	CountyID  int
	Location  string
	Comment   string
	ObjectKey string
}

// CreateUpload records an image upload for a county gallery.
func (s *Service) CreateUpload(ctx context.Context, in CreateUploadInput) (*model.Upload, error) {
	if !county.Valid(in.CountyID) {
		return nil, errs.ErrInvalidCounty
	}
	u, err := s.repos.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	up := &model.Upload{
		ID:         s.newID(),
		UserID:     u.ID,
		UserName:   u.Name,
		CountyID:   in.CountyID,
		CountyName: county.Name(in.CountyID),
		Location:   in.Location,
		Comment:    in.Comment,
		ObjectKey:  in.ObjectKey,
		Timestamp:  s.now(),
	}
	if err := s.repos.Uploads.Create(ctx, up); err != nil {
		return nil, err
	}
	return up, nil
}

// ListUploads returns a county's uploads, newest first.
func (s *Service) ListUploads(ctx context.Context, countyID int) ([]model.Upload, error) {
	if !county.Valid(countyID) {
		return nil, errs.ErrInvalidCounty
	}
	return s.repos.Uploads.ListByCounty(ctx, countyID)
}

// MostLikedUploads returns up to limit uploads for a county by like count.
func (s *Service) MostLikedUploads(ctx context.Context, countyID, limit int) ([]model.Upload, error) {
	if !county.Valid(countyID) {
		return nil, errs.ErrInvalidCounty
	}
	if limit <= 0 {
		limit = 5
	}
	return s.repos.Uploads.ListMostLiked(ctx, countyID, limit)
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// ToggleLike flips the user's like on the upload. A second like from the same
// user removes the first.
func (s *Service) ToggleLike(ctx context.Context, uploadID, userID string) (*LikeResult, error) {
	liked, likes, err := s.repos.Uploads.ToggleLike(ctx, uploadID, userID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Likes: likes}, nil
}
