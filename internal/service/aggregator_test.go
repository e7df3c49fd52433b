package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/devfolio/internal/db"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAggregatorTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:aggregator-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := NewPageService(gdb).EnsureDefaults(); err != nil {
		t.Fatalf("failed to seed default pages: %v", err)
	}
	return gdb
}

func pageIDBySlug(t *testing.T, gdb *gorm.DB, slug string) uint {
	t.Helper()
	page, err := NewPageService(gdb).GetBySlug(slug)
	if err != nil {
		t.Fatalf("get page %q: %v", slug, err)
	}
	return page.ID
}

func TestAggregateUnknownSlugReturnsNotFound(t *testing.T) {
	gdb := setupAggregatorTestDB(t)
	agg := NewAggregator(gdb, zerolog.Nop())

	if _, err := agg.Aggregate(context.Background(), "no-such-page"); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestAggregateAboutOrdersChildrenAndNeverReturnsNil(t *testing.T) {
	gdb := setupAggregatorTestDB(t)
	aboutID := pageIDBySlug(t, gdb, db.PageSlugAbout)

	sections := NewSectionService(gdb)
	second, first := 2, 1
	if _, err := sections.CreateExperience(aboutID, ExperienceInput{Role: "Senior Engineer", Company: "Later Co", Sort: &second}); err != nil {
		t.Fatalf("create experience: %v", err)
	}
	if _, err := sections.CreateExperience(aboutID, ExperienceInput{Role: "Engineer", Company: "First Co", Sort: &first}); err != nil {
		t.Fatalf("create experience: %v", err)
	}
	if _, err := sections.CreateEducation(aboutID, EducationInput{Degree: "BSc", School: "State University"}); err != nil {
		t.Fatalf("create education: %v", err)
	}

	doc, err := NewAggregator(gdb, zerolog.Nop()).Aggregate(context.Background(), db.PageSlugAbout)
	if err != nil {
		t.Fatalf("aggregate about: %v", err)
	}

	if len(doc.Experience) != 2 {
		t.Fatalf("expected 2 experience items, got %d", len(doc.Experience))
	}
	if doc.Experience[0].Company != "First Co" || doc.Experience[1].Company != "Later Co" {
		t.Fatalf("experience not ordered by sort: %q then %q", doc.Experience[0].Company, doc.Experience[1].Company)
	}
	if len(doc.Education) != 1 {
		t.Fatalf("expected 1 education item, got %d", len(doc.Education))
	}
	// 没有数据的子集合必须是空切片而不是 nil，前端才能放心 range
	if doc.Certifications == nil {
		t.Fatal("certifications must be an empty slice, not nil")
	}
	if len(doc.Certifications) != 0 {
		t.Fatalf("expected no certifications, got %d", len(doc.Certifications))
	}
}

func TestAggregateHomeOnlyFeaturedContent(t *testing.T) {
	gdb := setupAggregatorTestDB(t)

	projects := NewProjectService(gdb)
	featured := true
	if _, err := projects.Save(0, ProjectInput{
		Slug: "alpha", Title: "Alpha", Featured: &featured, Status: db.ProjectStatusPublished,
	}); err != nil {
		t.Fatalf("save featured project: %v", err)
	}
	if _, err := projects.Save(0, ProjectInput{
		Slug: "beta", Title: "Beta", Status: db.ProjectStatusPublished,
	}); err != nil {
		t.Fatalf("save plain project: %v", err)
	}

	testimonials := NewTestimonialService(gdb)
	if _, err := testimonials.Save(0, TestimonialInput{Author: "Ada", Quote: "Great work", Featured: &featured}); err != nil {
		t.Fatalf("save featured testimonial: %v", err)
	}
	if _, err := testimonials.Save(0, TestimonialInput{Author: "Bob", Quote: "Fine work"}); err != nil {
		t.Fatalf("save plain testimonial: %v", err)
	}

	doc, err := NewAggregator(gdb, zerolog.Nop()).Aggregate(context.Background(), db.PageSlugHome)
	if err != nil {
		t.Fatalf("aggregate home: %v", err)
	}

	if len(doc.FeaturedProjects) != 1 || doc.FeaturedProjects[0].Slug != "alpha" {
		t.Fatalf("expected only featured project alpha, got %+v", doc.FeaturedProjects)
	}
	if len(doc.Testimonials) != 1 || doc.Testimonials[0].Author != "Ada" {
		t.Fatalf("expected only featured testimonial from Ada, got %+v", doc.Testimonials)
	}
}

func TestAggregateContactFiltersHiddenMethods(t *testing.T) {
	gdb := setupAggregatorTestDB(t)
	contactID := pageIDBySlug(t, gdb, db.PageSlugContact)

	contacts := NewContactService(gdb)
	hidden := false
	if _, err := contacts.CreateMethod(contactID, ContactMethodInput{Platform: "email", Label: "Email", Value: "me@example.com"}); err != nil {
		t.Fatalf("create visible method: %v", err)
	}
	if _, err := contacts.CreateMethod(contactID, ContactMethodInput{Platform: "phone", Label: "Phone", Value: "123", Visible: &hidden}); err != nil {
		t.Fatalf("create hidden method: %v", err)
	}

	doc, err := NewAggregator(gdb, zerolog.Nop()).Aggregate(context.Background(), db.PageSlugContact)
	if err != nil {
		t.Fatalf("aggregate contact: %v", err)
	}

	if len(doc.ContactMethods) != 1 || doc.ContactMethods[0].Platform != "email" {
		t.Fatalf("hidden methods must not leak into the public document: %+v", doc.ContactMethods)
	}
}

func TestAggregateProjectCollectsGalleryTechAndTestimonials(t *testing.T) {
	gdb := setupAggregatorTestDB(t)

	projects := NewProjectService(gdb)
	project, err := projects.Save(0, ProjectInput{Slug: "gamma", Title: "Gamma", Status: db.ProjectStatusPublished})
	if err != nil {
		t.Fatalf("save project: %v", err)
	}

	if _, err := projects.AddImage(project.ID, ProjectImageInput{ImageURL: "/static/uploads/one.png"}); err != nil {
		t.Fatalf("add image: %v", err)
	}
	if _, err := projects.ReplaceTech(project.ID, []TechInput{{Name: "Go"}, {Name: "PostgreSQL"}}); err != nil {
		t.Fatalf("replace tech: %v", err)
	}
	if _, err := NewTestimonialService(gdb).Save(0, TestimonialInput{ProjectID: &project.ID, Author: "Cara", Quote: "Shipped fast"}); err != nil {
		t.Fatalf("save testimonial: %v", err)
	}

	doc, err := NewAggregator(gdb, zerolog.Nop()).AggregateProject(context.Background(), "gamma")
	if err != nil {
		t.Fatalf("aggregate project: %v", err)
	}

	if len(doc.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(doc.Images))
	}
	if len(doc.Tech) != 2 || doc.Tech[0].Name != "Go" {
		t.Fatalf("tech stack order must follow input order: %+v", doc.Tech)
	}
	if len(doc.Testimonials) != 1 || doc.Testimonials[0].Author != "Cara" {
		t.Fatalf("expected project testimonial from Cara, got %+v", doc.Testimonials)
	}
}
