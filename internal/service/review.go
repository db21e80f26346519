package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/media"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

type ReviewService struct {
	server   *server.Server
	reviews  *repository.ReviewRepository
	bookings *repository.BookingRepository
}

func NewReviewService(s *server.Server, repos *repository.Repositories) *ReviewService {
	return &ReviewService{server: s, reviews: repos.Review, bookings: repos.Booking}
}

var errReviewAccess = errs.NewForbiddenError("You can only change your own reviews", true)

func (s *ReviewService) List(ctx context.Context, userID string, page model.PageQuery) (model.Page[model.Review], error) {
	return s.reviews.ListByUser(ctx, userID, page)
}

type CreateReviewInput struct {
	BookingID string
	Rating    int
	Comment   *string
}

// Create reviews a completed booking of the caller. Each booking takes
// one review, which stays hidden until an admin publishes it.
func (s *ReviewService) Create(ctx context.Context, userID string, in CreateReviewInput) (model.Review, error) {
	booking, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return model.Review{}, err
	}
	if booking.UserID != userID {
		return model.Review{}, errBookingAccess
	}
	if booking.Status != model.BookingCompleted {
		return model.Review{}, errs.NewBadRequestError("Only completed trips can be reviewed", true, errs.Code("BOOKING_NOT_COMPLETED"), nil, nil)
	}

	exists, err := s.reviews.ExistsForBooking(ctx, in.BookingID)
	if err != nil {
		return model.Review{}, err
	}
	if exists {
		return model.Review{}, errs.NewBadRequestError("This booking has already been reviewed", true, errs.Code("REVIEW_ALREADY_EXISTS"), nil, nil)
	}

	return s.reviews.Create(ctx, repository.CreateReviewParams{
		UserID:    userID,
		BookingID: booking.ID,
		PackageID: booking.PackageID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	})
}

func (s *ReviewService) Update(ctx context.Context, userID, id string, rating *int, comment *string) (model.Review, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return model.Review{}, err
	}

	set := database.NewUpdateSet()
	database.SetIfNotNil(set, "rating", rating)
	database.SetIfNotNil(set, "comment", comment)
	return s.reviews.Update(ctx, id, set)
}

func (s *ReviewService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, id)
}

// AddMedia uploads photos or videos and attaches them all at once. The
// per-review limit counts media already attached.
func (s *ReviewService) AddMedia(ctx context.Context, userID, id string, files []*multipart.FileHeader) (model.Review, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return model.Review{}, err
	}

	cfg := s.server.Config.Media
	if len(files) == 0 {
		return model.Review{}, errs.NewBadRequestError("No media files provided", true, errs.Code("NO_FILES"), nil, nil)
	}

	existing, err := s.reviews.MediaCount(ctx, id)
	if err != nil {
		return model.Review{}, err
	}
	if existing+len(files) > cfg.MaxReviewMedia {
		return model.Review{}, errs.NewBadRequestError(
			fmt.Sprintf("A review can have at most %d media files", cfg.MaxReviewMedia),
			true, errs.Code("TOO_MANY_FILES"), nil, nil)
	}

	allowed := append(append([]string{}, media.ImageTypes...), media.VideoTypes...)
	read := make([]*media.File, 0, len(files))
	for _, fh := range files {
		f, err := media.Read(fh, cfg.MaxReviewFile, allowed...)
		if err != nil {
			return model.Review{}, err
		}
		read = append(read, f)
	}

	items := make([]repository.ReviewMediaParams, 0, len(read))
	for _, f := range read {
		uploaded, err := s.server.Media.Upload(ctx, media.FolderReviews, f)
		if err != nil {
			return model.Review{}, err
		}
		items = append(items, repository.ReviewMediaParams{URL: uploaded.URL, Type: f.Category})
	}

	if _, err := s.reviews.AddMedia(ctx, id, items); err != nil {
		return model.Review{}, err
	}
	return s.reviews.GetByID(ctx, id)
}

func (s *ReviewService) owned(ctx context.Context, userID, id string) (model.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return model.Review{}, err
	}
	if review.UserID != userID {
		return model.Review{}, errReviewAccess
	}
	return review, nil
}
