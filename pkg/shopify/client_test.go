package shopify

import (
	"testing"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/shopspring/decimal"
)

func TestSnapshotFromProduct(t *testing.T) {
	price := decimal.RequireFromString("19.99")
	compareAt := decimal.RequireFromString("29.99")
	product := &goshopify.Product{
		Id:    111,
		Title: "Travel Mug",
		Image: goshopify.Image{Src: "https://cdn.example.com/mug.png"},
		Variants: []goshopify.Variant{
			{Id: 222, Price: &price, CompareAtPrice: &compareAt},
			{Id: 333},
		},
	}

	snapshot := snapshotFromProduct(product)
	if snapshot.ProductID != 111 {
		t.Fatalf("unexpected product id %d", snapshot.ProductID)
	}
	if snapshot.Title != "Travel Mug" {
		t.Fatalf("unexpected title %q", snapshot.Title)
	}
	if snapshot.Image == nil || *snapshot.Image != "https://cdn.example.com/mug.png" {
		t.Fatalf("unexpected image %v", snapshot.Image)
	}
	if snapshot.VariantID != 222 {
		t.Fatalf("expected first variant, got %d", snapshot.VariantID)
	}
	if !snapshot.Price.Equal(price) {
		t.Fatalf("unexpected price %s", snapshot.Price)
	}
	if snapshot.CompareAtPrice == nil || !snapshot.CompareAtPrice.Equal(compareAt) {
		t.Fatalf("unexpected compare-at price %v", snapshot.CompareAtPrice)
	}
}

func TestSnapshotFromProductFallbacks(t *testing.T) {
	product := &goshopify.Product{
		Id:     111,
		Title:  "Travel Mug",
		Images: []goshopify.Image{{Src: "https://cdn.example.com/gallery.png"}},
	}

	snapshot := snapshotFromProduct(product)
	if snapshot.Image == nil || *snapshot.Image != "https://cdn.example.com/gallery.png" {
		t.Fatalf("expected gallery image fallback, got %v", snapshot.Image)
	}
	if snapshot.VariantID != 0 {
		t.Fatalf("expected no variant, got %d", snapshot.VariantID)
	}
	if !snapshot.Price.IsZero() {
		t.Fatalf("expected zero price, got %s", snapshot.Price)
	}
	if snapshot.CompareAtPrice != nil {
		t.Fatal("expected no compare-at price")
	}

	bare := snapshotFromProduct(&goshopify.Product{Id: 111, Title: "Travel Mug"})
	if bare.Image != nil {
		t.Fatalf("expected no image, got %v", bare.Image)
	}

	zeroCompare := decimal.Zero
	price := decimal.RequireFromString("19.99")
	discounted := snapshotFromProduct(&goshopify.Product{
		Id:       111,
		Variants: []goshopify.Variant{{Id: 222, Price: &price, CompareAtPrice: &zeroCompare}},
	})
	if discounted.CompareAtPrice != nil {
		t.Fatal("expected zero compare-at price to be dropped")
	}
}
