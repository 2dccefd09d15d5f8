package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"squido/pkg/domain"
)

func TestRedisCartStoreRoundTrip(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisCartStore(redis.Addr(), "", time.Hour)

	cart := domain.Cart{
		SessionID: "sess-1",
		Items: []domain.CartItem{
			{BookID: "b-1", Quantity: 2},
			{BookID: "b-2", Quantity: 1},
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.PutCart(cart); err != nil {
		t.Fatalf("put cart: %v", err)
	}

	got, ok, err := s.GetCart("sess-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if !ok {
		t.Fatalf("expected cart to exist")
	}
	if len(got.Items) != 2 || got.Items[0].BookID != "b-1" || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart contents: %+v", got)
	}
}

func TestRedisCartStoreMissingSession(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisCartStore(redis.Addr(), "", time.Hour)

	_, ok, err := s.GetCart("nope")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if ok {
		t.Fatalf("expected no cart")
	}
}

func TestRedisCartStoreDeleteAndExpiry(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisCartStore(redis.Addr(), "", time.Minute)

	cart := domain.Cart{SessionID: "sess-2", Items: []domain.CartItem{{BookID: "b-1", Quantity: 1}}}
	if err := s.PutCart(cart); err != nil {
		t.Fatalf("put cart: %v", err)
	}
	if err := s.DeleteCart("sess-2"); err != nil {
		t.Fatalf("delete cart: %v", err)
	}
	if _, ok, _ := s.GetCart("sess-2"); ok {
		t.Fatalf("expected cart gone after delete")
	}

	if err := s.PutCart(cart); err != nil {
		t.Fatalf("put cart: %v", err)
	}
	redis.FastForward(2 * time.Minute)
	if _, ok, _ := s.GetCart("sess-2"); ok {
		t.Fatalf("expected cart expired after TTL")
	}
}
