package router

import (
	"time"

	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Setup 配置 Gin 引擎和全部路由。
func Setup(api *handler.API, cfg config.AppConfig, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("devfolio_session", store))

	// 上传的静态文件
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 公开内容接口，供前台渲染层消费
	public := r.Group("/api")
	{
		public.GET("/pages/:slug", api.GetPage)
		public.GET("/projects", api.ListProjects)
		public.GET("/projects/:slug", api.GetProject)
		public.GET("/testimonials", api.ListTestimonials)
		public.GET("/icons/:key", api.GetIconSVG)
		public.POST("/contact", api.SubmitContact)
		public.POST("/revalidate", api.Revalidate)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)

		// 需要认证的后台接口
		auth := admin.Group("/api")
		auth.Use(api.AuthRequired())
		{
			auth.GET("/dashboard", api.Dashboard)
			auth.GET("/icons", api.ListIcons)

			auth.GET("/pages/:slug", api.GetPageAdmin)
			auth.PUT("/pages/:slug/hero", api.UpdateHero)
			auth.PUT("/pages/:slug/seo", api.UpdatePageSEO)
			auth.PUT("/pages/:slug/body", api.UpdatePageBody)
			auth.PUT("/pages/:slug/title", api.UpdatePageTitle)

			auth.GET("/experience", api.ListExperienceAdmin)
			auth.POST("/experience", api.CreateExperience)
			auth.PUT("/experience/:id", api.UpdateExperience)
			auth.DELETE("/experience/:id", api.DeleteExperience)

			auth.GET("/education", api.ListEducationAdmin)
			auth.POST("/education", api.CreateEducation)
			auth.PUT("/education/:id", api.UpdateEducation)
			auth.DELETE("/education/:id", api.DeleteEducation)

			auth.GET("/certifications", api.ListCertificationsAdmin)
			auth.POST("/certifications", api.CreateCertification)
			auth.PUT("/certifications/:id", api.UpdateCertification)
			auth.DELETE("/certifications/:id", api.DeleteCertification)

			auth.GET("/services", api.ListServicesAdmin)
			auth.POST("/services", api.CreateServiceItem)
			auth.PUT("/services/:id", api.UpdateServiceItem)
			auth.DELETE("/services/:id", api.DeleteServiceItem)

			auth.GET("/process-steps", api.ListProcessStepsAdmin)
			auth.POST("/process-steps", api.CreateProcessStep)
			auth.PUT("/process-steps/:id", api.UpdateProcessStep)
			auth.DELETE("/process-steps/:id", api.DeleteProcessStep)

			auth.GET("/contact-methods", api.ListContactMethodsAdmin)
			auth.POST("/contact-methods", api.CreateContactMethod)
			auth.PUT("/contact-methods/:id", api.UpdateContactMethod)
			auth.DELETE("/contact-methods/:id", api.DeleteContactMethod)

			auth.GET("/contact-features", api.ListContactFeaturesAdmin)
			auth.POST("/contact-features", api.CreateContactFeature)
			auth.PUT("/contact-features/:id", api.UpdateContactFeature)
			auth.DELETE("/contact-features/:id", api.DeleteContactFeature)

			auth.GET("/projects", api.ListProjectsAdmin)
			auth.POST("/projects", api.CreateProject)
			auth.GET("/projects/:id", api.GetProjectAdmin)
			auth.PUT("/projects/:id", api.UpdateProject)
			auth.DELETE("/projects/:id", api.DeleteProject)
			auth.POST("/projects/:id/images", api.AddProjectImage)
			auth.DELETE("/projects/:id/images/:imageId", api.DeleteProjectImage)
			auth.PUT("/projects/:id/tech", api.ReplaceProjectTech)

			auth.GET("/testimonials", api.ListTestimonialsAdmin)
			auth.POST("/testimonials", api.CreateTestimonial)
			auth.PUT("/testimonials/:id", api.UpdateTestimonial)
			auth.DELETE("/testimonials/:id", api.DeleteTestimonial)

			auth.GET("/leads", api.ListLeads)
			auth.GET("/leads/:id", api.GetLead)
			auth.PUT("/leads/:id/read", api.MarkLeadRead)
			auth.POST("/leads/:id/reply", api.ReplyLead)

			auth.GET("/settings", api.GetSettings)
			auth.PUT("/settings", api.UpdateSettings)

			auth.GET("/analytics/overview", api.AnalyticsOverview)
			auth.GET("/analytics/security-events", api.ListSecurityEvents)

			auth.POST("/upload/image", api.UploadImage)
		}
	}

	return r
}

// requestLogger 用 zerolog 记录每个请求的耗时与状态码。
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
