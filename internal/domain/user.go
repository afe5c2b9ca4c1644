package domain

import (
	"context"

	"github.com/campusnex/backend/internal/entity"
	"github.com/campusnex/backend/internal/model"
	"github.com/campusnex/backend/internal/repository"
	"github.com/campusnex/backend/pkg/errorx"
	"github.com/campusnex/backend/pkg/xcontext"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	UpdateMe(context.Context, *model.UpdateMeRequest) (*model.UpdateMeResponse, error)
}

type userDomain struct {
	userRepo        repository.UserRepository
	statisticDomain StatisticDomain
}

func NewUserDomain(
	userRepo repository.UserRepository,
	statisticDomain StatisticDomain,
) *userDomain {
	return &userDomain{
		userRepo:        userRepo,
		statisticDomain: statisticDomain,
	}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) UpdateMe(
	ctx context.Context, req *model.UpdateMeRequest,
) (*model.UpdateMeResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}

	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}

	if req.Interests != nil {
		updates["interests"] = entity.Array[string](req.Interests)
	}

	if len(updates) > 0 {
		if err := d.userRepo.Update(ctx, userID, updates); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
			return nil, errorx.Unknown
		}
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	// A filled out profile earns points once. The update already succeeded,
	// so a failed award must not fail the request.
	if user.Name != "" && user.AvatarURL != "" && len(user.Interests) > 0 {
		if err := d.statisticDomain.AwardProfileCompleted(ctx, userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot award profile completed points: %v", err)
		}
	}

	return &model.UpdateMeResponse{User: model.ConvertUser(user, true)}, nil
}
