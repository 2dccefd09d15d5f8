package app

import (
	"errors"
	"testing"
)

func TestAuthorLifecycle(t *testing.T) {
	a := newTestApp(t)

	author, err := a.CreateAuthor(AuthorInput{FullName: "Ursula K. Le Guin", Bio: "Sci-fi and fantasy."})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	if _, err := a.CreateAuthor(AuthorInput{FullName: "   "}); err == nil {
		t.Fatal("blank name accepted")
	}

	updated, err := a.UpdateAuthor(author.ID, AuthorInput{FullName: "Ursula Le Guin", Bio: author.Bio})
	if err != nil {
		t.Fatalf("update author: %v", err)
	}
	if updated.FullName != "Ursula Le Guin" {
		t.Fatalf("name = %q", updated.FullName)
	}

	if err := a.DeleteAuthor(author.ID); err != nil {
		t.Fatalf("delete author: %v", err)
	}
	if _, err := a.GetAuthor(author.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted author: got %v, want ErrNotFound", err)
	}
	if err := a.DeleteAuthor(author.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete twice: got %v, want ErrNotFound", err)
	}

	// The delete is soft: listings exclude the author but the row stays.
	page, err := a.ListAuthors("", 0, 0)
	if err != nil {
		t.Fatalf("list authors: %v", err)
	}
	for _, listed := range page.Items {
		if listed.ID == author.ID {
			t.Fatal("deleted author still listed")
		}
	}
	stored, ok, err := a.store.GetAuthor(author.ID)
	if err != nil {
		t.Fatalf("get stored author: %v", err)
	}
	if !ok || !stored.IsDeleted {
		t.Fatalf("stored row = %+v, ok = %v, want soft-deleted row to remain", stored, ok)
	}
}

func TestListAuthorsKeywordSearch(t *testing.T) {
	a := newTestApp(t)
	names := []string{"Iris Murdoch", "Irene Adler", "Terry Pratchett"}
	for _, name := range names {
		if _, err := a.CreateAuthor(AuthorInput{FullName: name}); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}

	page, err := a.ListAuthors("ir", 1, 10)
	if err != nil {
		t.Fatalf("list authors: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("matches = %d, want 2", page.TotalCount)
	}
	for _, author := range page.Items {
		if author.FullName == "Terry Pratchett" {
			t.Fatal("keyword filter leaked a non-match")
		}
	}

	all, err := a.ListAuthors("", 0, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.TotalCount != 3 {
		t.Fatalf("all = %d, want 3", all.TotalCount)
	}
}
