// Handler — HTTP-слой модуля задач.
package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	appMiddleware "task-tracker/internal/middleware"
)

// Handler связывает форму, коллекцию и представление с HTTP.
//
// Здесь лежит всё, что относится к HTTP:
// роуты, разбор формы и JSON, коды ответов, middleware.
// Состояние живёт в Service: handler -> form -> service.
type Handler struct {
	svc     *Service
	view    *View
	catalog Catalog
	logger  zerolog.Logger
	now     func() time.Time
	timeout time.Duration
}

// Option настраивает Handler.
type Option func(*Handler)

// WithClock подменяет источник текущего времени (дата создания по умолчанию).
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithRequestTimeout задаёт таймаут на обработку одного запроса.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

func NewHandler(svc *Service, catalog Catalog, logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		svc:     svc,
		view:    NewView(catalog),
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router собирает HTTP-роутер для задач.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(appMiddleware.RequestTimeoutMiddleware(h.timeout))

	// HTML: форма и список.
	r.Get("/", h.index)
	r.Post("/tasks", h.submitForm)
	r.Post("/tasks/{id}/delete", h.deleteFromForm)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.JSONHeaderMiddleware)

		r.Get("/catalog", h.getCatalog)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.getAllTasks)
			r.Post("/", h.createTask)
			r.Delete("/{id}", h.deleteTask)
		})
	})
	return r
}

// index обрабатывает GET /
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	form := NewForm(h.catalog, h.now)
	h.renderPage(w, r, http.StatusOK, form.Draft(), "")
}

// submitForm обрабатывает POST /tasks (HTML-форма).
//
// При ошибке проверки страница отрисовывается заново с введёнными значениями
// и уведомлением, коллекция не меняется.
func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := NewForm(h.catalog, h.now)
	for _, name := range []string{
		FieldProyecto, FieldTipoTarea, FieldPersonaAsignada,
		FieldStoryPoints, FieldPrioridad, FieldFechaCreacion, FieldResumen,
	} {
		if _, ok := r.PostForm[name]; !ok {
			continue
		}
		// Список имён фиксирован, ErrUnknownField здесь невозможна.
		_ = form.SetField(name, r.PostForm.Get(name))
	}

	if _, err := h.submit(r.Context(), form); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			h.renderPage(w, r, http.StatusUnprocessableEntity, form.Draft(), MsgRequiredFields)
			return
		}
		if h.handleContextError(w, err) {
			return
		}
		http.Error(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// deleteFromForm обрабатывает POST /tasks/{id}/delete
func (h *Handler) deleteFromForm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		if h.handleContextError(w, err) {
			return
		}
		http.Error(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// getCatalog обрабатывает GET /api/v1/catalog
func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(h.catalog)
}

// getAllTasks обрабатывает GET /api/v1/tasks/
func (h *Handler) getAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.List(r.Context())
	if err != nil {
		if h.handleContextError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	_ = json.NewEncoder(w).Encode(tasks)
}

// createTaskRequest — JSON-черновик. Не переданные поля берутся из формы по умолчанию.
type createTaskRequest struct {
	Proyecto        *string `json:"proyecto,omitempty"`
	TipoTarea       *string `json:"tipoTarea,omitempty"`
	PersonaAsignada *string `json:"personaAsignada,omitempty"`
	StoryPoints     *int    `json:"storyPoints,omitempty"`
	Prioridad       *string `json:"prioridad,omitempty"`
	FechaCreacion   *string `json:"fechaCreacion,omitempty"`
	Resumen         *string `json:"resumen,omitempty"`
}

func (req createTaskRequest) apply(form *Form) {
	set := func(name string, v *string) {
		if v != nil {
			_ = form.SetField(name, *v)
		}
	}
	set(FieldProyecto, req.Proyecto)
	set(FieldTipoTarea, req.TipoTarea)
	set(FieldPersonaAsignada, req.PersonaAsignada)
	if req.StoryPoints != nil {
		_ = form.SetField(FieldStoryPoints, strconv.Itoa(*req.StoryPoints))
	}
	set(FieldPrioridad, req.Prioridad)
	set(FieldFechaCreacion, req.FechaCreacion)
	set(FieldResumen, req.Resumen)
}

// createTask обрабатывает POST /api/v1/tasks/
func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	form := NewForm(h.catalog, h.now)
	req.apply(form)

	created, err := h.submit(r.Context(), form)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(validationResponse{
				Error:  MsgRequiredFields,
				Fields: verr.Fields,
			})
			return
		}
		if h.handleContextError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// deleteTask обрабатывает DELETE /api/v1/tasks/{id}
//
// Отвечает 204 и когда задача была, и когда её не было.
func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		if h.handleContextError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// submit отправляет форму в коллекцию (onSubmit) и учитывает отказ проверки.
func (h *Handler) submit(ctx context.Context, form *Form) (Task, error) {
	var created Task
	err := form.Submit(func(d Draft) error {
		var err error
		created, err = h.svc.Add(ctx, d)
		return err
	})

	var verr *ValidationError
	if errors.As(err, &verr) {
		validationFailures.Inc()
		h.logger.Warn().
			Strs("fields", verr.Fields).
			Msg("task form rejected")
	}
	return created, err
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, draft Draft, alert string) {
	tasks, err := h.svc.List(r.Context())
	if err != nil {
		if h.handleContextError(w, err) {
			return
		}
		http.Error(w, "Failed to load tasks", http.StatusInternalServerError)
		return
	}

	// Сначала рендерим в буфер, чтобы не отдать наполовину записанную страницу.
	var buf bytes.Buffer
	if err := h.view.Render(&buf, Page{
		Catalog: h.catalog,
		Draft:   draft,
		Tasks:   tasks,
		Alert:   alert,
	}); err != nil {
		h.logger.Error().Err(err).Msg("failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// handleContextError обрабатывает отмену и таймаут запроса.
func (h *Handler) handleContextError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, context.Canceled):
		// Клиент ушёл или сервер завершается: отвечать уже некому.
		return true
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "Request timeout", http.StatusRequestTimeout)
		return true
	default:
		return false
	}
}
