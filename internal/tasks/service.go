package tasks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service — владелец коллекции задач.
//
// Единственное место, где коллекция меняется: handler -> service.
// Данные живут только в памяти процесса.
// Мьютекс нужен потому, что HTTP-сервер обрабатывает запросы параллельно.
type Service struct {
	logger zerolog.Logger
	newID  func() string

	mu    sync.RWMutex
	tasks []Task // новые задачи в начале
}

// NewService создаёт пустую коллекцию.
func NewService(logger zerolog.Logger) *Service {
	return &Service{
		logger: logger,
		newID:  uuid.NewString,
	}
}

// List возвращает снимок коллекции в её порядке.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// Len — текущий размер коллекции.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Add выдаёт черновику новый id и вставляет запись в начало коллекции.
func (s *Service) Add(ctx context.Context, d Draft) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) != -1 {
		id = s.newID()
	}

	created := Task{ID: id, Draft: d}

	candidate := make([]Task, 0, len(s.tasks)+1)
	candidate = append(candidate, created)
	candidate = append(candidate, s.tasks...)
	s.tasks = candidate

	tasksCreated.Inc()
	tasksInCollection.Set(float64(len(s.tasks)))

	s.logger.Info().
		Str("task_id", created.ID).
		Str("proyecto", created.Proyecto).
		Int("count", len(s.tasks)).
		Msg("created task")
	return created, nil
}

// Remove удаляет запись с данным id.
//
// Отсутствующий id — не ошибка: возвращается false.
func (s *Service) Remove(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("task not found, nothing to delete")
		return false, nil
	}

	candidate := make([]Task, 0, len(s.tasks)-1)
	candidate = append(candidate, s.tasks[:idx]...)
	candidate = append(candidate, s.tasks[idx+1:]...)
	s.tasks = candidate

	tasksDeleted.Inc()
	tasksInCollection.Set(float64(len(s.tasks)))

	s.logger.Info().
		Str("task_id", id).
		Int("count", len(s.tasks)).
		Msg("deleted task")
	return true, nil
}

// indexOf вызывается под мьютексом.
func (s *Service) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
