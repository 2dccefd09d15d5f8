package app

import (
	"context"
	"errors"
	"testing"

	"squido/pkg/domain"
)

func TestListBooksKeywordAndPaging(t *testing.T) {
	a := newTestApp(t)
	category, author := seedCatalog(t, a)
	titles := []string{"Go in Practice", "The Go Programming Language", "Clean Architecture"}
	for _, title := range titles {
		seedBook(t, a, category, author, title, 10.00, 5)
	}

	page, err := a.ListBooks("go", 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("matches = %d, want 2", page.TotalCount)
	}

	all, err := a.ListBooks("", 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.TotalCount != 3 || all.PageCount != 2 || len(all.Items) != 2 {
		t.Fatalf("page = %+v", all)
	}
}

func TestBooksByCategoryIDs(t *testing.T) {
	a := newTestApp(t)
	fiction, author := seedCatalog(t, a)
	tech, err := a.CreateCategory(CategoryInput{Name: "Tech"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	seedBook(t, a, fiction, author, "Novel", 10.00, 5)
	seedBook(t, a, tech, author, "Manual", 10.00, 5)

	page, err := a.BooksByCategoryIDs([]int{tech.ID}, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].Title != "Manual" {
		t.Fatalf("page = %+v", page)
	}

	both, err := a.BooksByCategoryIDs([]int{fiction.ID, tech.ID}, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if both.TotalCount != 2 {
		t.Fatalf("union = %d, want 2", both.TotalCount)
	}
}

func TestUpdateBookPreservesBuyCount(t *testing.T) {
	a := newTestApp(t)
	category, author := seedCatalog(t, a)
	book := seedBook(t, a, category, author, "Jackson's Dilemma", 10.00, 5)
	customer := seedCustomer(t, a, "shopper@example.com")

	if _, err := a.CreateOrder(context.Background(), OrderInput{CustomerID: customer.ID},
		[]domain.CartItem{{BookID: book.ID, Quantity: 2}}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	updated, err := a.UpdateBook(book.ID, BookInput{
		Title: "Jackson's Dilemma", Price: 12.00, Quantity: 3,
		CategoryID: category.ID, AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.BuyCount != 2 {
		t.Fatalf("buy count = %d, want 2", updated.BuyCount)
	}

	if _, err := a.UpdateBook(book.ID, BookInput{Title: "x", Price: 1, CategoryID: 999, AuthorID: author.ID}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("bad category: got %v, want ErrNotFound", err)
	}
}

func TestDeleteBookHidesItFromListing(t *testing.T) {
	a := newTestApp(t)
	category, author := seedCatalog(t, a)
	book := seedBook(t, a, category, author, "Henry and Cato", 10.00, 5)

	if err := a.DeleteBook(book.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := a.GetBookDetail(book.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted: got %v, want ErrNotFound", err)
	}
	page, err := a.ListBooks("", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalCount != 0 {
		t.Fatalf("listed = %d, want 0", page.TotalCount)
	}
}
