package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
	"github.com/yadoya-dev/shift-board/backend/internal/config"
	"github.com/yadoya-dev/shift-board/backend/internal/repository"
	"github.com/yadoya-dev/shift-board/backend/internal/snapshot"
	"github.com/yadoya-dev/shift-board/backend/internal/store"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	translator ut.Translator
	staffStore *store.StaffStore
	taskStore  *store.TaskStore
	snapshots  *snapshot.Publisher
	repository *repository.Repository

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, staffStore *store.StaffStore, taskStore *store.TaskStore, snapshots *snapshot.Publisher, repo *repository.Repository) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ja := ja.New()
	uni := ut.New(ja, ja)
	trans, _ := uni.GetTranslator("ja")
	if err := ja_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		translator: trans,
		staffStore: staffStore,
		taskStore:  taskStore,
		snapshots:  snapshots,
		repository: repo,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 認証関連
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下の API はログイン後でないと呼び出せない
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/staff", func(r chi.Router) {
			r.Post("/", h.AddStaff)
			r.Get("/", h.GetAllStaff)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffInfo)
				r.Get("/", h.GetStaff)
				r.Patch("/", h.UpdateStaff)
				r.Delete("/", h.DeleteStaff)
				r.Route("/holidays", func(r chi.Router) {
					r.Get("/", h.GetStaffHolidays)
					r.Put("/", h.SetStaffHoliday)
					r.Delete("/", h.RemoveStaffHoliday)
				})
			})
		})

		r.Route("/task-templates", func(r chi.Router) {
			r.Post("/", h.AddTaskTemplate)
			r.Get("/", h.GetAllTaskTemplates)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.taskTemplate)
				r.Get("/", h.GetTaskTemplate)
				r.Patch("/", h.UpdateTaskTemplate)
				r.Delete("/", h.DeleteTaskTemplate)
			})
		})

		r.Route("/assigned-tasks", func(r chi.Router) {
			r.Post("/", h.AssignTask)
			r.Get("/", h.GetAssignedTasks)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.assignedTask)
				r.Get("/", h.GetAssignedTask)
				r.Patch("/", h.UpdateAssignedTask)
				r.Delete("/", h.DeleteAssignedTask)
			})
		})

		r.Route("/io", func(r chi.Router) {
			r.Route("/csv", func(r chi.Router) {
				r.Post("/import", h.ImportCSV)
				r.Get("/export", h.ExportCSV)
			})
			r.Route("/backup", func(r chi.Router) {
				r.Get("/export", h.ExportBackup)
				r.Post("/import", h.ImportBackup)
				r.Get("/archive", h.ListSnapshotArchive)
				r.Get("/archive/{id}", h.GetArchivedSnapshot)
			})
		})
	})
}
