package localstore

import "context"

func (s *Store) Wishlist(ctx context.Context, sessionID string) ([]string, error) {
	var ids []string
	if err := load(ctx, s, sessionID, keyWishlist, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *Store) InWishlist(ctx context.Context, sessionID, productID string) (bool, error) {
	ids, err := s.Wishlist(ctx, sessionID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

// ToggleWishlist adds productID if absent, removes it otherwise, and reports
// whether it is now present.
func (s *Store) ToggleWishlist(ctx context.Context, sessionID, productID string) (bool, error) {
	ids, err := s.Wishlist(ctx, sessionID)
	if err != nil {
		return false, err
	}
	out := make([]string, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == productID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	if !removed {
		out = append(out, productID)
	}
	if err := save(ctx, s, sessionID, keyWishlist, out); err != nil {
		return false, err
	}
	s.notify(sessionID, WishlistUpdated)
	return !removed, nil
}
