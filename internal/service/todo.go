package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func (s *Service) CreateTodo(ctx context.Context, title, description string) (*Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	todo := Todo{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
	}
	if err := s.todos.InsertTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("%w: failed to insert todo: %v", ErrInternal, err)
	}
	return &todo, nil
}

func (s *Service) ListTodos(ctx context.Context) ([]Todo, error) {
	todos, err := s.todos.ListTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list todos: %v", ErrInternal, err)
	}
	return todos, nil
}

func (s *Service) GetTodo(ctx context.Context, id string) (*Todo, error) {
	todo, err := s.todos.GetTodo(ctx, id)
	if err != nil {
		return nil, storeErr(err, "todo", id)
	}
	return todo, nil
}

func (s *Service) UpdateTodo(ctx context.Context, id, title, description string) (*Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	todo := Todo{ID: id, Title: title, Description: description}
	if err := s.todos.UpdateTodo(ctx, todo); err != nil {
		return nil, storeErr(err, "todo", id)
	}
	return &todo, nil
}

func (s *Service) DeleteTodo(ctx context.Context, id string) error {
	if err := s.todos.DeleteTodo(ctx, id); err != nil {
		return storeErr(err, "todo", id)
	}
	return nil
}

// storeErr keeps ErrNotFound visible and folds everything else into
// ErrInternal.
func storeErr(err error, kind, id string) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return fmt.Errorf("%w: %s %s: %v", ErrInternal, kind, id, err)
}
