package response

import "slices"

// FavoritesState is the set of favorite product ids in the order they were added.
type FavoritesState struct {
	ProductIDs []string `json:"productIds"`
	IsSyncing  bool     `json:"isSyncing"`
}

func EmptyFavoritesState() FavoritesState {
	return FavoritesState{ProductIDs: []string{}}
}

func (s FavoritesState) Clone() FavoritesState {
	s.ProductIDs = slices.Clone(s.ProductIDs)
	if s.ProductIDs == nil {
		s.ProductIDs = []string{}
	}
	return s
}

func (s FavoritesState) Contains(productID string) bool {
	return slices.Contains(s.ProductIDs, productID)
}

// Toggled adds productID when absent and removes it otherwise.
func (s FavoritesState) Toggled(productID string) FavoritesState {
	if s.Contains(productID) {
		s.ProductIDs = slices.DeleteFunc(s.ProductIDs, func(id string) bool { return id == productID })
		return s
	}
	s.ProductIDs = append(s.ProductIDs, productID)
	return s
}
