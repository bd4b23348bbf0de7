package services

import (
	"fmt"

	"tableserve/entity"
	"tableserve/repository"
)

// MenuService resolves client-submitted lines into authoritative,
// server-priced snapshots. Client prices are never trusted or echoed.
type MenuService struct {
	Repo *repository.MenuRepository
}

func NewMenuService(repo *repository.MenuRepository) *MenuService {
	return &MenuService{Repo: repo}
}

// ModifierSelectionIn is the client's choice; only title and option
// name are read, any price field is ignored.
type ModifierSelectionIn struct {
	Title      string `json:"title"`
	OptionName string `json:"optionName"`
}

// ResolveItem returns the menu item only if it exists, belongs to the
// restaurant and is currently available. A wrong-tenant id is
// indistinguishable from a missing one.
func (s *MenuService) ResolveItem(itemID, restID uint) (*entity.MenuItem, error) {
	m, err := s.Repo.GetItem(itemID)
	if err != nil || m.RestaurantID != restID || !m.IsAvailable {
		return nil, fmt.Errorf("menu item %d: %w", itemID, ErrNotFound)
	}
	return m, nil
}

// ResolveModifiers re-prices every requested selection from the
// server-held menu data. Unmatched selections are dropped, not
// rejected, so a stale client menu cannot block an order over a
// just-removed option.
func (s *MenuService) ResolveModifiers(item *entity.MenuItem, requested []ModifierSelectionIn) []entity.OrderItemSelection {
	var out []entity.OrderItemSelection
	for _, sel := range requested {
		group := findGroup(item.Modifiers, sel.Title)
		if group == nil {
			continue
		}
		option := findOption(group.Options, sel.OptionName)
		if option == nil {
			continue
		}
		out = append(out, entity.OrderItemSelection{
			Title:      group.Title,
			OptionName: option.Name,
			Price:      option.Price,
		})
	}
	return out
}

func (s *MenuService) ListMenu(restID uint) ([]entity.MenuItem, error) {
	if _, err := s.Repo.GetRestaurant(restID); err != nil {
		return nil, fmt.Errorf("restaurant %d: %w", restID, ErrNotFound)
	}
	return s.Repo.ListAvailable(restID)
}

func findGroup(groups []entity.ModifierGroup, title string) *entity.ModifierGroup {
	for i := range groups {
		if groups[i].Title == title {
			return &groups[i]
		}
	}
	return nil
}

func findOption(options []entity.ModifierOption, name string) *entity.ModifierOption {
	for i := range options {
		if options[i].Name == name {
			return &options[i]
		}
	}
	return nil
}
