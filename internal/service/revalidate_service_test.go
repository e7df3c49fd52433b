package service

import (
	"testing"
	"time"

	"github.com/devfolio/internal/cache"
	"github.com/devfolio/internal/db"
	"github.com/rs/zerolog"
)

func TestRouteForPage(t *testing.T) {
	if route := RouteForPage(db.PageSlugHome); route != "/" {
		t.Fatalf("home must map to root, got %q", route)
	}
	if route := RouteForPage(db.PageSlugAbout); route != "/about" {
		t.Fatalf("unexpected about route: %q", route)
	}
}

func TestInvalidatePageDropsOnlyItsRoute(t *testing.T) {
	routes := cache.NewRouteCache()
	routes.Set("/", []byte("home"), time.Minute)
	routes.Set("/about", []byte("about"), time.Minute)

	NewRevalidator(routes, zerolog.Nop()).Invalidate(RevalidateKindPage, db.PageSlugAbout)

	if _, ok := routes.Get("/about"); ok {
		t.Fatal("about route must be invalidated")
	}
	if _, ok := routes.Get("/"); !ok {
		t.Fatal("home route must survive an about invalidation")
	}
}

func TestInvalidateProjectDropsDetailAndListing(t *testing.T) {
	routes := cache.NewRouteCache()
	routes.Set("/projects", []byte("list"), time.Minute)
	routes.Set("/projects/alpha", []byte("detail"), time.Minute)
	routes.Set("/projects/beta", []byte("other"), time.Minute)

	NewRevalidator(routes, zerolog.Nop()).Invalidate(RevalidateKindProject, "alpha")

	if _, ok := routes.Get("/projects/alpha"); ok {
		t.Fatal("project detail must be invalidated")
	}
	if _, ok := routes.Get("/projects"); ok {
		t.Fatal("project listing must be invalidated alongside the detail")
	}
	if _, ok := routes.Get("/projects/beta"); !ok {
		t.Fatal("sibling project must survive")
	}
}

func TestInvalidateUnknownKindIsIgnored(t *testing.T) {
	routes := cache.NewRouteCache()
	routes.Set("/", []byte("home"), time.Minute)

	NewRevalidator(routes, zerolog.Nop()).Invalidate("post", "alpha")

	if _, ok := routes.Get("/"); !ok {
		t.Fatal("unknown kinds must not touch the cache")
	}
}

func TestInvalidateAllClearsEverything(t *testing.T) {
	routes := cache.NewRouteCache()
	routes.Set("/", []byte("home"), time.Minute)
	routes.Set("/projects", []byte("list"), time.Minute)

	NewRevalidator(routes, zerolog.Nop()).InvalidateAll()

	if _, ok := routes.Get("/"); ok {
		t.Fatal("invalidate-all must clear the cache")
	}
	if _, ok := routes.Get("/projects"); ok {
		t.Fatal("invalidate-all must clear the cache")
	}
}
