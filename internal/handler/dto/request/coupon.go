package request

import (
	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type RedeemCouponRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	ItemKind string    `json:"item_kind" binding:"required,oneof=image video music"`
}

func (r *RedeemCouponRequest) ToCommand(couponID, ownerID uuid.UUID) (commands.RedeemRequest, error) {
	kind, err := content.ParseKind(r.ItemKind)
	if err != nil {
		return commands.RedeemRequest{}, err
	}
	return commands.RedeemRequest{
		CouponID: couponID,
		OwnerID:  ownerID,
		ItemID:   r.ItemID,
		ItemKind: kind,
	}, nil
}

type IssueCouponRequest struct {
	OwnerID uuid.UUID `json:"owner_id" binding:"required"`
	Kind    string    `json:"kind" binding:"required,oneof=7day 30day rare"`
	Source  string    `json:"source" binding:"omitempty,oneof=purchase grant"`
}

func (r *IssueCouponRequest) ToCommand() (commands.IssueRequest, error) {
	kind, err := boost.ParseKind(r.Kind)
	if err != nil {
		return commands.IssueRequest{}, err
	}
	source, err := coupon.ParseSource(r.Source)
	if err != nil {
		return commands.IssueRequest{}, err
	}
	return commands.IssueRequest{OwnerID: r.OwnerID, Kind: kind, Source: source}, nil
}
