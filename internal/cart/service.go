package cart

import (
	"context"
	"fmt"
)

// Service applies snapshot operations and persists the result after
// every mutation.
type Service struct {
	repo SnapshotRepository
}

func NewService(repo SnapshotRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, cartID string) (Snapshot, error) {
	return s.repo.Load(ctx, cartID)
}

func (s *Service) Add(ctx context.Context, cartID string, l Line) (Snapshot, error) {
	return s.mutate(ctx, cartID, func(snap Snapshot) Snapshot {
		return snap.Add(l)
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (Snapshot, error) {
	return s.mutate(ctx, cartID, func(snap Snapshot) Snapshot {
		return snap.UpdateQuantity(itemID, quantity)
	})
}

func (s *Service) Remove(ctx context.Context, cartID, itemID string) (Snapshot, error) {
	return s.mutate(ctx, cartID, func(snap Snapshot) Snapshot {
		return snap.Remove(itemID)
	})
}

// Clear empties the cart, or only one store's lines when storeID is
// non-empty.
func (s *Service) Clear(ctx context.Context, cartID, storeID string) (Snapshot, error) {
	if storeID == "" {
		if err := s.repo.Delete(ctx, cartID); err != nil {
			return Snapshot{}, fmt.Errorf("delete cart: %w", err)
		}
		return Snapshot{}, nil
	}
	return s.mutate(ctx, cartID, func(snap Snapshot) Snapshot {
		return snap.ClearStore(storeID)
	})
}

func (s *Service) mutate(ctx context.Context, cartID string, op func(Snapshot) Snapshot) (Snapshot, error) {
	snap, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load cart: %w", err)
	}
	next := op(snap)
	if err := s.repo.Save(ctx, cartID, next); err != nil {
		return Snapshot{}, fmt.Errorf("save cart: %w", err)
	}
	return next, nil
}
