package service

import (
	"context"
	"mime/multipart"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/media"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MinNewPasswordLength applies when a signed-in user changes their password.
const MinNewPasswordLength = 8

type UserService struct {
	server *server.Server
	users  *repository.UserRepository
}

func NewUserService(s *server.Server, repos *repository.Repositories) *UserService {
	return &UserService{server: s, users: repos.User}
}

func (s *UserService) Profile(ctx context.Context, userID string) (model.User, error) {
	return s.users.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name        *string
	Email       *string
	PhoneNumber *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (model.User, error) {
	if in.Email != nil {
		taken, err := s.users.EmailTaken(ctx, *in.Email, userID)
		if err != nil {
			return model.User{}, err
		}
		if taken {
			return model.User{}, errEmailTaken
		}
	}

	set := database.NewUpdateSet()
	database.SetIfNotNil(set, "full_name", in.Name)
	database.SetIfNotNil(set, "email", in.Email)
	database.SetIfNotNil(set, "phone_number", in.PhoneNumber)

	return s.users.Update(ctx, userID, set)
}

// UpdateAvatar uploads the image and replaces the stored avatar. The old
// image is destroyed only after the row points at the new one.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, fh *multipart.FileHeader) (model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	file, err := media.Read(fh, s.server.Config.Media.MaxImageBytes, media.ImageTypes...)
	if err != nil {
		return model.User{}, err
	}

	uploaded, err := s.server.Media.Upload(ctx, media.FolderAvatars, file)
	if err != nil {
		return model.User{}, err
	}

	updated, err := s.users.SetAvatar(ctx, userID, &uploaded.URL, &uploaded.PublicID)
	if err != nil {
		s.destroy(ctx, uploaded.PublicID)
		return model.User{}, err
	}

	if user.AvatarPublicID != nil {
		s.destroy(ctx, *user.AvatarPublicID)
	}
	return updated, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID string) (model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if user.AvatarURL == nil {
		return model.User{}, errs.NewBadRequestError("No avatar to delete", true, errs.Code("NO_AVATAR"), nil, nil)
	}

	updated, err := s.users.SetAvatar(ctx, userID, nil, nil)
	if err != nil {
		return model.User{}, err
	}
	if user.AvatarPublicID != nil {
		s.destroy(ctx, *user.AvatarPublicID)
	}
	return updated, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := checkPassword(user.PasswordHash, current); err != nil {
		return errs.NewBadRequestError("Current password is incorrect", true, errs.Code("INVALID_CURRENT_PASSWORD"),
			[]errs.FieldError{{Field: "current_password", Error: "is incorrect"}}, nil)
	}
	if current == next {
		return errs.NewBadRequestError("New password must differ from the current one", true, nil,
			[]errs.FieldError{{Field: "new_password", Error: "must differ from current_password"}}, nil)
	}

	hash, err := hashPassword(s.server.Config.Auth.BcryptCost, next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// destroy removes an orphaned upload. Failures only leave a stray file,
// so they are logged and dropped.
func (s *UserService) destroy(ctx context.Context, publicID string) {
	if err := s.server.Media.Destroy(ctx, publicID); err != nil {
		loggerFrom(ctx, s.server.Logger).Warn().
			Err(errors.WithStack(err)).
			Str("public_id", publicID).
			Msg("failed to destroy media")
	}
}

// loggerFrom prefers the request logger stored by the context middleware.
func loggerFrom(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return fallback
}
