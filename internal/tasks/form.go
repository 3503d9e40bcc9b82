package tasks

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	// ErrValidation — единственный вид ошибки формы: не заполнено обязательное поле.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownField возвращает SetField для имени, которого нет в черновике.
	ErrUnknownField = errors.New("unknown field")
)

// MsgRequiredFields показывается пользователю при неудачной отправке формы.
const MsgRequiredFields = "Todos los campos son obligatorios"

// ValidationError перечисляет поля, не прошедшие проверку.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return MsgRequiredFields + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Form хранит черновик задачи, который ещё не попал в коллекцию.
//
// Form не потокобезопасна: один экземпляр на один сеанс редактирования.
type Form struct {
	catalog  Catalog
	now      func() time.Time
	validate *validator.Validate
	draft    Draft
}

// NewForm создаёт форму с начальным черновиком.
// now нужен для даты создания; nil означает time.Now.
func NewForm(catalog Catalog, now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	f := &Form{
		catalog:  catalog,
		now:      now,
		validate: newValidator(catalog),
	}
	f.draft = f.initialDraft()
	return f
}

func (f *Form) initialDraft() Draft {
	return Draft{
		PersonaAsignada: f.catalog.DefaultAssignee,
		StoryPoints:     f.catalog.MinStoryPoints,
		FechaCreacion:   f.now().Format(DateLayout),
	}
}

// Draft возвращает копию текущего черновика.
func (f *Form) Draft() Draft {
	return f.draft
}

// SetField меняет ровно одно поле черновика. Перекрёстных проверок нет.
//
// Нечисловое значение storyPoints сохраняется как 0 и всплывёт при Submit.
func (f *Form) SetField(name, value string) error {
	switch name {
	case FieldProyecto:
		f.draft.Proyecto = value
	case FieldTipoTarea:
		f.draft.TipoTarea = value
	case FieldPersonaAsignada:
		f.draft.PersonaAsignada = value
	case FieldStoryPoints:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			n = 0
		}
		f.draft.StoryPoints = n
	case FieldPrioridad:
		f.draft.Prioridad = value
	case FieldFechaCreacion:
		f.draft.FechaCreacion = value
	case FieldResumen:
		f.draft.Resumen = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Submit проверяет черновик и передаёт его владельцу коллекции.
//
// При ошибке проверки onSubmit не вызывается, черновик не меняется.
// Если onSubmit вернул ошибку, черновик тоже сохраняется.
// После успешной отправки черновик сбрасывается (см. Reset).
func (f *Form) Submit(onSubmit func(Draft) error) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if err := onSubmit(f.draft); err != nil {
		return err
	}
	f.Reset()
	return nil
}

// Validate проверяет текущий черновик без отправки.
func (f *Form) Validate() error {
	err := f.validate.Struct(f.draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}

// Reset очищает черновик. Исполнитель и дата создания сохраняются.
func (f *Form) Reset() {
	next := f.initialDraft()
	next.PersonaAsignada = f.draft.PersonaAsignada
	next.FechaCreacion = f.draft.FechaCreacion
	f.draft = next
}

// newValidator регистрирует правила, завязанные на каталог.
// Имена полей в ошибках берутся из json-тегов.
func newValidator(catalog Catalog) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Ошибки регистрации возможны только при пустом имени тега.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("tipo_tarea", func(fl validator.FieldLevel) bool {
		return catalog.HasType(fl.Field().String())
	})
	_ = v.RegisterValidation("prioridad", func(fl validator.FieldLevel) bool {
		return catalog.HasPriority(fl.Field().String())
	})
	_ = v.RegisterValidation("story_points", func(fl validator.FieldLevel) bool {
		n := int(fl.Field().Int())
		return n >= catalog.MinStoryPoints && n <= catalog.MaxStoryPoints
	})

	return v
}
