package tasks

import (
	"slices"

	"task-tracker/internal/config"
)

// Имена полей — те же, что в JSON и в HTML-форме.
const (
	FieldProyecto        = "proyecto"
	FieldTipoTarea       = "tipoTarea"
	FieldPersonaAsignada = "personaAsignada"
	FieldStoryPoints     = "storyPoints"
	FieldPrioridad       = "prioridad"
	FieldFechaCreacion   = "fechaCreacion"
	FieldResumen         = "resumen"
)

// DateLayout — формат fechaCreacion.
const DateLayout = "2006-01-02"

// Task — зафиксированная запись коллекции.
//
// После создания не меняется: её можно только удалить.
type Task struct {
	ID string `json:"id"`
	Draft
}

// Draft — черновик задачи из формы: та же запись, но без id.
//
// Теги validate проверяются в Form.Submit.
type Draft struct {
	Proyecto        string `json:"proyecto" validate:"required,notblank"`
	TipoTarea       string `json:"tipoTarea" validate:"required,tipo_tarea"`
	PersonaAsignada string `json:"personaAsignada" validate:"required,notblank"`
	StoryPoints     int    `json:"storyPoints" validate:"required,story_points"`
	Prioridad       string `json:"prioridad" validate:"required,prioridad"`
	FechaCreacion   string `json:"fechaCreacion" validate:"required,datetime=2006-01-02"`
	Resumen         string `json:"resumen" validate:"required,notblank"`
}

// Catalog — допустимые значения перечислений и значения по умолчанию.
type Catalog struct {
	Types           []string `json:"types"`
	Priorities      []string `json:"priorities"`
	DefaultAssignee string   `json:"defaultAssignee"`
	MinStoryPoints  int      `json:"minStoryPoints"`
	MaxStoryPoints  int      `json:"maxStoryPoints"`
}

// DefaultCatalog совпадает со значениями по умолчанию из config.
func DefaultCatalog() Catalog {
	return Catalog{
		Types:           []string{"Bug", "Feature", "Mejora", "Documentación"},
		Priorities:      []string{"Alta", "Media", "Baja"},
		DefaultAssignee: "Fernando Hirschfeld",
		MinStoryPoints:  1,
		MaxStoryPoints:  13,
	}
}

func CatalogFromConfig(cfg config.TasksConfig) Catalog {
	return Catalog{
		Types:           slices.Clone(cfg.Types),
		Priorities:      slices.Clone(cfg.Priorities),
		DefaultAssignee: cfg.DefaultAssignee,
		MinStoryPoints:  cfg.MinStoryPoints,
		MaxStoryPoints:  cfg.MaxStoryPoints,
	}
}

func (c Catalog) HasType(v string) bool {
	return slices.Contains(c.Types, v)
}

func (c Catalog) HasPriority(v string) bool {
	return slices.Contains(c.Priorities, v)
}

// Priority categories for rendering.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// PriorityCategory возвращает визуальную категорию приоритета:
// первый приоритет каталога — high, второй — medium, всё остальное — low.
func (c Catalog) PriorityCategory(prioridad string) string {
	switch idx := slices.Index(c.Priorities, prioridad); idx {
	case 0:
		return PriorityHigh
	case 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
