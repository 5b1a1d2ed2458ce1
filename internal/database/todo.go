package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"git.sr.ht/~jakintosh/tally/internal/service"
)

func (s *SQLiteStore) InsertTodo(
	ctx context.Context,
	todo service.Todo,
) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todo (id, title, description)
		VALUES (?1, ?2, ?3);`,
		todo.ID,
		todo.Title,
		todo.Description,
	)
	if err != nil {
		return fmt.Errorf("couldn't insert into todo: %v", err)
	}
	return nil
}

func (s *SQLiteStore) ListTodos(
	ctx context.Context,
) (
	[]service.Todo,
	error,
) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description
		FROM todo
		ORDER BY created, rowid;`,
	)
	if err != nil {
		return nil, fmt.Errorf("couldn't query todo: %v", err)
	}
	defer rows.Close()

	todos := []service.Todo{}
	for rows.Next() {
		var todo service.Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description); err != nil {
			return nil, fmt.Errorf("couldn't scan todo: %v", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("couldn't iterate todo: %v", err)
	}
	return todos, nil
}

func (s *SQLiteStore) GetTodo(
	ctx context.Context,
	id string,
) (
	*service.Todo,
	error,
) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description
		FROM todo t
		WHERE t.id=?1;`,
		id,
	)

	var todo service.Todo
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("couldn't scan todo: %v", err)
	}
	return &todo, nil
}

func (s *SQLiteStore) UpdateTodo(
	ctx context.Context,
	todo service.Todo,
) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE todo
		SET title=?2, description=?3
		WHERE id=?1;`,
		todo.ID,
		todo.Title,
		todo.Description,
	)
	if err != nil {
		return fmt.Errorf("couldn't update todo: %v", err)
	}
	if resultsEmpty(result) {
		return service.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteTodo(
	ctx context.Context,
	id string,
) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM todo
		WHERE id=?1;`,
		id,
	)
	if err != nil {
		return fmt.Errorf("couldn't delete from todo: %v", err)
	}
	if resultsEmpty(result) {
		return service.ErrNotFound
	}
	return nil
}
