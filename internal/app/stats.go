package app

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"squido/pkg/domain"
)

const topListSize = 5

// GetStats assembles the dashboard summary. The independent aggregates are
// loaded concurrently; the first failure aborts the rest.
func (a *App) GetStats() (domain.StatsSummary, error) {
	var (
		books  []domain.Book
		users  []domain.User
		orders []domain.Order
		cats   []domain.Category
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		books, err = a.store.ListBooks()
		return err
	})
	g.Go(func() (err error) {
		users, err = a.store.ListUsers()
		return err
	})
	g.Go(func() (err error) {
		orders, err = a.store.ListOrders()
		return err
	})
	g.Go(func() (err error) {
		cats, err = a.store.ListCategories()
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.StatsSummary{}, fmt.Errorf("load stats: %w", err)
	}

	visible := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if !b.IsDeleted {
			visible = append(visible, b)
		}
	}
	summary := domain.StatsSummary{
		TotalBooks:    len(visible),
		TopBooks:      topBooks(visible),
		TopCategories: topCategories(cats, visible),
	}
	for _, c := range cats {
		if !c.IsDeleted {
			summary.TotalCategories++
		}
	}
	for _, u := range users {
		if !u.IsDeleted && u.Role == domain.RoleCustomer {
			summary.TotalCustomers++
		}
	}
	// Revenue counts completed orders only; pending and cancelled ones are
	// not money in the bank.
	for _, o := range orders {
		if o.Status != domain.OrderCompleted {
			continue
		}
		for _, item := range o.Items {
			summary.TotalRevenues += item.UnitPrice * float64(item.Quantity)
		}
	}
	return summary, nil
}

// topBooks ranks by units sold, most recently added first on ties.
func topBooks(books []domain.Book) []domain.Book {
	ranked := make([]domain.Book, len(books))
	copy(ranked, books)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].BuyCount != ranked[j].BuyCount {
			return ranked[i].BuyCount > ranked[j].BuyCount
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})
	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}
	return ranked
}

// topCategories ranks categories by how many visible books they hold.
func topCategories(cats []domain.Category, books []domain.Book) []domain.TopCategory {
	counts := make(map[int]int, len(cats))
	for _, b := range books {
		counts[b.CategoryID]++
	}
	ranked := make([]domain.TopCategory, 0, len(cats))
	for _, c := range cats {
		if c.IsDeleted {
			continue
		}
		ranked = append(ranked, domain.TopCategory{Category: c, BookCount: counts[c.ID]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BookCount > ranked[j].BookCount
	})
	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}
	return ranked
}
