package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/devfolio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupProjectTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:project-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func TestProjectSaveRejectsDuplicateSlug(t *testing.T) {
	gdb := setupProjectTestDB(t)
	svc := NewProjectService(gdb)

	if _, err := svc.Save(0, ProjectInput{Slug: "alpha", Title: "Alpha"}); err != nil {
		t.Fatalf("save first project: %v", err)
	}
	if _, err := svc.Save(0, ProjectInput{Slug: "alpha", Title: "Alpha Clone"}); !errors.Is(err, ErrProjectSlugTaken) {
		t.Fatalf("expected ErrProjectSlugTaken, got %v", err)
	}

	// 更新自己时同名不算冲突
	existing, err := svc.GetBySlug("alpha")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if _, err := svc.Save(existing.ID, ProjectInput{Slug: "alpha", Title: "Alpha v2"}); err != nil {
		t.Fatalf("updating a project with its own slug must succeed: %v", err)
	}
}

func TestProjectListPublishedExcludesDrafts(t *testing.T) {
	gdb := setupProjectTestDB(t)
	svc := NewProjectService(gdb)

	second, first := 2, 1
	if _, err := svc.Save(0, ProjectInput{Slug: "later", Title: "Later", Status: db.ProjectStatusPublished, Sort: &second}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.Save(0, ProjectInput{Slug: "earlier", Title: "Earlier", Status: db.ProjectStatusPublished, Sort: &first}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.Save(0, ProjectInput{Slug: "wip", Title: "WIP", Status: db.ProjectStatusDraft}); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	items, err := svc.ListPublished()
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("drafts must be excluded, got %d items", len(items))
	}
	if items[0].Slug != "earlier" || items[1].Slug != "later" {
		t.Fatalf("published list must be ordered by sort: %q then %q", items[0].Slug, items[1].Slug)
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	gdb := setupProjectTestDB(t)
	svc := NewProjectService(gdb)

	project, err := svc.Save(0, ProjectInput{Slug: "gamma", Title: "Gamma"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.AddImage(project.ID, ProjectImageInput{ImageURL: "/static/uploads/a.png"}); err != nil {
		t.Fatalf("add image: %v", err)
	}
	if _, err := svc.ReplaceTech(project.ID, []TechInput{{Name: "Go"}}); err != nil {
		t.Fatalf("replace tech: %v", err)
	}
	if _, err := NewTestimonialService(gdb).Save(0, TestimonialInput{ProjectID: &project.ID, Author: "Cara", Quote: "Nice"}); err != nil {
		t.Fatalf("save testimonial: %v", err)
	}

	if err := svc.Delete(project.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var images, tech, testimonials int64
	gdb.Model(&db.ProjectImage{}).Where("project_id = ?", project.ID).Count(&images)
	gdb.Model(&db.ProjectTech{}).Where("project_id = ?", project.ID).Count(&tech)
	gdb.Model(&db.Testimonial{}).Where("project_id = ?", project.ID).Count(&testimonials)
	if images != 0 || tech != 0 || testimonials != 0 {
		t.Fatalf("delete must cascade: images=%d tech=%d testimonials=%d", images, tech, testimonials)
	}
}

func TestProjectReplaceTechKeepsInputOrder(t *testing.T) {
	gdb := setupProjectTestDB(t)
	svc := NewProjectService(gdb)

	project, err := svc.Save(0, ProjectInput{Slug: "delta", Title: "Delta"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := svc.ReplaceTech(project.ID, []TechInput{{Name: "Old"}}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	tech, err := svc.ReplaceTech(project.ID, []TechInput{{Name: "Go"}, {Name: "Gin"}, {Name: "GORM"}})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}

	if len(tech) != 3 {
		t.Fatalf("replace must be wholesale, got %d rows", len(tech))
	}
	for i, want := range []string{"Go", "Gin", "GORM"} {
		if tech[i].Name != want {
			t.Fatalf("tech order lost at %d: got %q want %q", i, tech[i].Name, want)
		}
	}
}

func TestTestimonialSaveValidatesProjectReference(t *testing.T) {
	gdb := setupProjectTestDB(t)
	svc := NewTestimonialService(gdb)

	missing := uint(999)
	if _, err := svc.Save(0, TestimonialInput{ProjectID: &missing, Author: "Cara", Quote: "Nice"}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound for dangling reference, got %v", err)
	}

	// 评分超出范围时收敛到边界
	high := 9
	item, err := svc.Save(0, TestimonialInput{Author: "Cara", Quote: "Nice", Rating: &high})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if item.Rating != 5 {
		t.Fatalf("rating must clamp to 5, got %d", item.Rating)
	}
}
