package usecase

import (
	"context"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	cartdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/cart"
)

// AddItem adds quantity to the project's line, creating it when absent.
func (uc *DefaultCartUsecase) AddItem(ctx context.Context, input *cartdto.AddItemInput) (*cartdto.CartOutput, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if input.UnitPrice <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var cart *domain.Cart
	err := uc.withCartLock(ctx, input.UserID, func() error {
		if _, err := uc.repos.Projects.GetProjectByID(ctx, input.ProjectID); err != nil {
			return err
		}
		return uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			current, err := uc.repos.Carts.GetCart(ctx, input.UserID)
			if err != nil {
				return err
			}
			quantity := input.Quantity
			for _, item := range current.Items {
				if item.ProjectID == input.ProjectID {
					if quantity, err = domain.AddAmounts(item.Quantity, input.Quantity); err != nil {
						return err
					}
				}
			}
			err = uc.repos.Carts.UpsertItem(ctx, input.UserID, domain.CartItem{
				ProjectID: input.ProjectID,
				Quantity:  quantity,
				UnitPrice: input.UnitPrice,
				AddedAt:   uc.now(),
			})
			if err != nil {
				return err
			}
			cart, err = uc.repos.Carts.GetCart(ctx, input.UserID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.output(cart)
}

// UpdateItem sets the line quantity; zero removes the line.
func (uc *DefaultCartUsecase) UpdateItem(ctx context.Context, input *cartdto.UpdateItemInput) (*cartdto.CartOutput, error) {
	if input.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var cart *domain.Cart
	err := uc.withCartLock(ctx, input.UserID, func() error {
		return uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if input.Quantity == 0 {
				if err := uc.repos.Carts.DeleteItem(ctx, input.UserID, input.ProjectID); err != nil {
					return err
				}
			} else {
				current, err := uc.repos.Carts.GetCart(ctx, input.UserID)
				if err != nil {
					return err
				}
				line, ok := findItem(current.Items, input.ProjectID)
				if !ok {
					return domain.ErrCartItemNotFound
				}
				line.Quantity = input.Quantity
				if err := uc.repos.Carts.UpsertItem(ctx, input.UserID, line); err != nil {
					return err
				}
			}
			var err error
			cart, err = uc.repos.Carts.GetCart(ctx, input.UserID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.output(cart)
}

func (uc *DefaultCartUsecase) RemoveItem(ctx context.Context, userID, projectID string) (*cartdto.CartOutput, error) {
	return uc.UpdateItem(ctx, &cartdto.UpdateItemInput{UserID: userID, ProjectID: projectID})
}

func (uc *DefaultCartUsecase) GetCart(ctx context.Context, userID string) (*cartdto.CartOutput, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	cart, err := uc.repos.Carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.output(cart)
}

func findItem(items []domain.CartItem, projectID string) (domain.CartItem, bool) {
	for _, item := range items {
		if item.ProjectID == projectID {
			return item, true
		}
	}
	return domain.CartItem{}, false
}
