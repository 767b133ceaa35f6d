package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MaximusTitan/cms-api/internal/middleware"
	"github.com/MaximusTitan/cms-api/internal/models"
	"github.com/MaximusTitan/cms-api/internal/service"
)

// Handlers bundles every route handler the API mounts.
type Handlers struct {
	Auth          *service.AuthService
	Metrics       *MetricsHandler
	Batches       *BatchHandler
	Students      *StudentHandler
	Teachers      *TeacherHandler
	Managers      *DeliveryManagerHandler
	Subjects      *SubjectHandler
	Lessons       *LessonHandler
	Events        *EventHandler
	Announcements *AnnouncementHandler
	Recordings    *RecordingHandler
	Calendar      *CalendarHandler
	RefData       *RefDataHandler
}

// Register mounts all API routes under the given prefix. Every route
// behind the prefix requires a valid token; mutations are admin only,
// reads are open to staff roles, and person detail additionally allows
// the person themselves.
func (h *Handlers) Register(r *gin.Engine, prefix string) {
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleStudent, models.RoleDeliveryManager)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleDeliveryManager)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staffOrSelf := middleware.RBAC(
		string(models.RoleAdmin), string(models.RoleTeacher), string(models.RoleDeliveryManager),
		middleware.RoleSelf,
	)

	api := r.Group(prefix)
	api.Use(middleware.JWT(h.Auth))

	batches := api.Group("/batches")
	batches.GET("", staff, h.Batches.List)
	batches.GET("/:id", staff, h.Batches.Get)
	batches.POST("", adminOnly, h.Batches.Create)
	batches.PUT("/:id", adminOnly, h.Batches.Update)
	batches.DELETE("/:id", adminOnly, h.Batches.Delete)
	batches.GET("/:id/roster/export", staff, h.Batches.ExportRoster)

	students := api.Group("/students")
	students.GET("", staff, h.Students.List)
	students.GET("/:id", staffOrSelf, h.Students.Get)
	students.POST("", adminOnly, h.Students.Create)
	students.PUT("/:id", adminOnly, h.Students.Update)
	students.DELETE("/:id", adminOnly, h.Students.Delete)

	teachers := api.Group("/teachers")
	teachers.GET("", staff, h.Teachers.List)
	teachers.GET("/:id", staffOrSelf, h.Teachers.Get)
	teachers.POST("", adminOnly, h.Teachers.Create)
	teachers.PUT("/:id", adminOnly, h.Teachers.Update)
	teachers.DELETE("/:id", adminOnly, h.Teachers.Delete)

	managers := api.Group("/delivery-managers")
	managers.GET("", staff, h.Managers.List)
	managers.GET("/:id", staffOrSelf, h.Managers.Get)
	managers.POST("", adminOnly, h.Managers.Create)
	managers.PUT("/:id", adminOnly, h.Managers.Update)
	managers.DELETE("/:id", adminOnly, h.Managers.Delete)

	subjects := api.Group("/subjects")
	subjects.GET("", staff, h.Subjects.List)
	subjects.GET("/:id", staff, h.Subjects.Get)
	subjects.POST("", adminOnly, h.Subjects.Create)
	subjects.PUT("/:id", adminOnly, h.Subjects.Update)
	subjects.DELETE("/:id", adminOnly, h.Subjects.Delete)

	lessons := api.Group("/lessons")
	lessons.GET("", anyRole, h.Lessons.List)
	lessons.GET("/:id", anyRole, h.Lessons.Get)
	lessons.POST("", adminOnly, h.Lessons.Create)
	lessons.PUT("/:id", adminOnly, h.Lessons.Update)
	lessons.DELETE("/:id", adminOnly, h.Lessons.Delete)

	events := api.Group("/events")
	events.GET("", anyRole, h.Events.List)
	events.GET("/:id", anyRole, h.Events.Get)
	events.POST("", adminOnly, h.Events.Create)
	events.PUT("/:id", adminOnly, h.Events.Update)
	events.DELETE("/:id", adminOnly, h.Events.Delete)

	announcements := api.Group("/announcements")
	announcements.GET("", anyRole, h.Announcements.List)
	announcements.GET("/:id", anyRole, h.Announcements.Get)
	announcements.POST("", adminOnly, h.Announcements.Create)
	announcements.PUT("/:id", adminOnly, h.Announcements.Update)
	announcements.DELETE("/:id", adminOnly, h.Announcements.Delete)

	recordings := api.Group("/class-recordings")
	recordings.GET("", anyRole, h.Recordings.List)
	recordings.GET("/:id", anyRole, h.Recordings.Get)
	recordings.POST("", adminOnly, h.Recordings.Create)
	recordings.PUT("/:id", adminOnly, h.Recordings.Update)
	recordings.DELETE("/:id", adminOnly, h.Recordings.Delete)

	api.GET("/calendar", anyRole, h.Calendar.Week)
	api.GET("/forms/:entity/refs", adminOnly, h.RefData.FormRefs)
}
