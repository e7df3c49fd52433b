package service

import (
	"context"
	"sync"
	"time"

	"github.com/devfolio/internal/db"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// defaultChildTimeout 限制单个子集合查询的耗时，超时按空集合降级。
const defaultChildTimeout = 5 * time.Second

// PageDocument 是一次页面聚合的结果：基础页面行加上该页面需要的全部子集合。
// 子集合字段永远是非 nil 的有序切片，没有数据时为空切片。
type PageDocument struct {
	Page             db.Page               `json:"page"`
	BodyHTML         string                `json:"bodyHtml"`
	Experience       []db.ExperienceItem   `json:"experience"`
	Education        []db.EducationItem    `json:"education"`
	Certifications   []db.Certification    `json:"certifications"`
	Services         []ServiceWithBenefits `json:"services"`
	ProcessSteps     []db.ProcessStep      `json:"processSteps"`
	ContactMethods   []db.ContactMethod    `json:"contactMethods"`
	ContactFeatures  []db.ContactFeature   `json:"contactFeatures"`
	FeaturedProjects []db.Project          `json:"featuredProjects"`
	Testimonials     []db.Testimonial      `json:"testimonials"`
	Projects         []db.Project          `json:"projects"`
}

// ProjectDocument 是单个项目的聚合结果。
type ProjectDocument struct {
	Project      db.Project        `json:"project"`
	BodyHTML     string            `json:"bodyHtml"`
	Images       []db.ProjectImage `json:"images"`
	Tech         []db.ProjectTech  `json:"tech"`
	Testimonials []db.Testimonial  `json:"testimonials"`
}

// Aggregator 为一个页面请求并发收集基础行与子集合并合并为单一文档。
// 基础行缺失时聚合失败（NotFound）；任何子集合查询失败只降级为空集合。
type Aggregator struct {
	gdb          *gorm.DB
	childTimeout time.Duration
	logger       zerolog.Logger
}

// NewAggregator 构造 Aggregator。
func NewAggregator(gdb *gorm.DB, logger zerolog.Logger) *Aggregator {
	return &Aggregator{gdb: gdb, childTimeout: defaultChildTimeout, logger: logger}
}

// WithChildTimeout 允许在测试或特定场景下调整子集合超时。
func (a *Aggregator) WithChildTimeout(d time.Duration) *Aggregator {
	if d > 0 {
		a.childTimeout = d
	}
	return a
}

func newPageDocument(page db.Page) *PageDocument {
	return &PageDocument{
		Page:             page,
		Experience:       []db.ExperienceItem{},
		Education:        []db.EducationItem{},
		Certifications:   []db.Certification{},
		Services:         []ServiceWithBenefits{},
		ProcessSteps:     []db.ProcessStep{},
		ContactMethods:   []db.ContactMethod{},
		ContactFeatures:  []db.ContactFeature{},
		FeaturedProjects: []db.Project{},
		Testimonials:     []db.Testimonial{},
		Projects:         []db.Project{},
	}
}

// Aggregate 聚合指定 slug 的页面文档。
// slug 决定需要哪些子集合：about 带经历/教育/认证，services 带服务/流程，
// contact 带联系方式/卖点，home 带精选项目/精选评价，projects 带项目列表。
func (a *Aggregator) Aggregate(ctx context.Context, slug string) (*PageDocument, error) {
	page, err := NewPageService(a.gdb.WithContext(ctx)).GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	doc := newPageDocument(*page)

	children := map[string]func(context.Context) error{}
	switch page.Slug {
	case db.PageSlugAbout:
		children["experience"] = func(ctx context.Context) error {
			items, err := NewSectionService(a.gdb.WithContext(ctx)).ListExperience(page.ID)
			if err != nil {
				return err
			}
			doc.Experience = items
			return nil
		}
		children["education"] = func(ctx context.Context) error {
			items, err := NewSectionService(a.gdb.WithContext(ctx)).ListEducation(page.ID)
			if err != nil {
				return err
			}
			doc.Education = items
			return nil
		}
		children["certifications"] = func(ctx context.Context) error {
			items, err := NewSectionService(a.gdb.WithContext(ctx)).ListCertifications(page.ID)
			if err != nil {
				return err
			}
			doc.Certifications = items
			return nil
		}
	case db.PageSlugServices:
		children["services"] = func(ctx context.Context) error {
			items, err := NewCatalogService(a.gdb.WithContext(ctx)).ListServices(page.ID)
			if err != nil {
				return err
			}
			doc.Services = items
			return nil
		}
		children["processSteps"] = func(ctx context.Context) error {
			items, err := NewCatalogService(a.gdb.WithContext(ctx)).ListProcessSteps(page.ID)
			if err != nil {
				return err
			}
			doc.ProcessSteps = items
			return nil
		}
	case db.PageSlugContact:
		children["contactMethods"] = func(ctx context.Context) error {
			items, err := NewContactService(a.gdb.WithContext(ctx)).ListMethods(page.ID, false)
			if err != nil {
				return err
			}
			doc.ContactMethods = items
			return nil
		}
		children["contactFeatures"] = func(ctx context.Context) error {
			items, err := NewContactService(a.gdb.WithContext(ctx)).ListFeatures(page.ID)
			if err != nil {
				return err
			}
			doc.ContactFeatures = items
			return nil
		}
	case db.PageSlugHome:
		children["featuredProjects"] = func(ctx context.Context) error {
			items, err := NewProjectService(a.gdb.WithContext(ctx)).ListFeatured(0)
			if err != nil {
				return err
			}
			doc.FeaturedProjects = items
			return nil
		}
		children["testimonials"] = func(ctx context.Context) error {
			items, err := NewTestimonialService(a.gdb.WithContext(ctx)).ListFeatured(0)
			if err != nil {
				return err
			}
			doc.Testimonials = items
			return nil
		}
	case db.PageSlugProjects:
		children["projects"] = func(ctx context.Context) error {
			items, err := NewProjectService(a.gdb.WithContext(ctx)).ListPublished()
			if err != nil {
				return err
			}
			doc.Projects = items
			return nil
		}
	}

	a.runChildren(ctx, page.Slug, children)

	return doc, nil
}

// AggregateProject 聚合单个项目的文档：图库、技术栈与关联评价。
func (a *Aggregator) AggregateProject(ctx context.Context, slug string) (*ProjectDocument, error) {
	project, err := NewProjectService(a.gdb.WithContext(ctx)).GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	doc := &ProjectDocument{
		Project:      *project,
		Images:       []db.ProjectImage{},
		Tech:         []db.ProjectTech{},
		Testimonials: []db.Testimonial{},
	}

	children := map[string]func(context.Context) error{
		"images": func(ctx context.Context) error {
			items, err := NewProjectService(a.gdb.WithContext(ctx)).ListImages(project.ID)
			if err != nil {
				return err
			}
			doc.Images = items
			return nil
		},
		"tech": func(ctx context.Context) error {
			items, err := NewProjectService(a.gdb.WithContext(ctx)).ListTech(project.ID)
			if err != nil {
				return err
			}
			doc.Tech = items
			return nil
		},
		"testimonials": func(ctx context.Context) error {
			items, err := NewTestimonialService(a.gdb.WithContext(ctx)).ListForProject(project.ID)
			if err != nil {
				return err
			}
			doc.Testimonials = items
			return nil
		},
	}

	a.runChildren(ctx, project.Slug, children)

	return doc, nil
}

// runChildren 并发执行所有子集合查询并等待全部完成。
// 每个查询写入文档中互不重叠的字段，完成顺序不影响结果。
func (a *Aggregator) runChildren(parent context.Context, slug string, children map[string]func(context.Context) error) {
	var wg sync.WaitGroup
	for name, fetch := range children {
		wg.Add(1)
		go func(name string, fetch func(context.Context) error) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(parent, a.childTimeout)
			defer cancel()

			if err := fetch(ctx); err != nil {
				a.logger.Warn().
					Err(err).
					Str("slug", slug).
					Str("collection", name).
					Msg("child collection degraded to empty")
			}
		}(name, fetch)
	}
	wg.Wait()
}
