package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
)

type ProfileService struct {
	Store store.Store
	Now   func() time.Time
}

// ProfileView joins the user's name and email onto the profile extras.
type ProfileView struct {
	User    domain.User
	Profile domain.Profile
}

// ProfileInput is a partial update; nil fields are left alone.
type ProfileInput struct {
	Name          *string `validate:"omitempty,min=2,max=100"`
	Bio           *string `validate:"omitempty,max=1000"`
	Location      *string `validate:"omitempty,max=100"`
	FavoriteGenre *string `validate:"omitempty,max=64"`
	YearlyGoal    *int    `validate:"omitempty,gte=0,lte=1000"`
}

func (s *ProfileService) Get(ctx context.Context, userID string) (ProfileView, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return ProfileView{}, mapStoreErr(err, "user")
	}

	profile, err := s.Store.Profiles().GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		profile = domain.Profile{UserID: userID}
	} else if err != nil {
		return ProfileView{}, fmt.Errorf("failed to load profile: %w", err)
	}

	return ProfileView{User: user, Profile: profile}, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) (ProfileView, error) {
	for _, f := range []*string{in.Name, in.Bio, in.Location, in.FavoriteGenre} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if err := check(in); err != nil {
		return ProfileView{}, err
	}

	var view ProfileView
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return mapStoreErr(err, "user")
		}

		profile, err := tx.Profiles().GetProfile(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			profile = domain.Profile{UserID: userID}
		} else if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		if in.Name != nil && *in.Name != user.Name {
			if err := tx.Users().UpdateName(ctx, userID, *in.Name); err != nil {
				return fmt.Errorf("failed to update name: %w", err)
			}
			user.Name = *in.Name
		}

		if in.Bio != nil {
			profile.Bio = *in.Bio
		}
		if in.Location != nil {
			profile.Location = *in.Location
		}
		if in.FavoriteGenre != nil {
			profile.FavoriteGenre = *in.FavoriteGenre
		}
		if in.YearlyGoal != nil {
			profile.YearlyGoal = *in.YearlyGoal
		}
		profile.UpdatedAt = clock(s.Now)

		if err := tx.Profiles().UpsertProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		view = ProfileView{User: user, Profile: profile}
		return nil
	})
	return view, err
}
