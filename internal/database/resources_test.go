package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/tally/internal/service"
)

func TestTodo_CRUD(t *testing.T) {
	t.Parallel()
	store := setupStore(t)
	ctx := context.Background()

	// insert two and list in insertion order
	for _, todo := range []service.Todo{
		{ID: "t1", Title: "first", Description: "one"},
		{ID: "t2", Title: "second", Description: "two"},
	} {
		if err := store.InsertTodo(ctx, todo); err != nil {
			t.Fatalf("InsertTodo failed: %v", err)
		}
	}
	todos, err := store.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != "t1" || todos[1].ID != "t2" {
		t.Fatalf("unexpected list: %+v", todos)
	}

	// update changes the stored row
	if err := store.UpdateTodo(ctx, service.Todo{ID: "t1", Title: "changed", Description: "x"}); err != nil {
		t.Fatalf("UpdateTodo failed: %v", err)
	}
	todo, err := store.GetTodo(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}
	if todo.Title != "changed" || todo.Description != "x" {
		t.Errorf("unexpected todo after update: %+v", todo)
	}

	// delete removes it
	if err := store.DeleteTodo(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}
	if _, err := store.GetTodo(ctx, "t1"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTodo_MissingID(t *testing.T) {
	t.Parallel()
	store := setupStore(t)
	ctx := context.Background()

	// every by-id operation on a missing row reports ErrNotFound
	if _, err := store.GetTodo(ctx, "nope"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("GetTodo: expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateTodo(ctx, service.Todo{ID: "nope", Title: "x"}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("UpdateTodo: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteTodo(ctx, "nope"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("DeleteTodo: expected ErrNotFound, got %v", err)
	}
}

func TestTodo_ListEmpty(t *testing.T) {
	t.Parallel()
	store := setupStore(t)

	// empty table lists as an empty, non-nil slice
	todos, err := store.ListTodos(context.Background())
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Errorf("expected empty slice, got %#v", todos)
	}
}

func TestBooking_CRUD(t *testing.T) {
	t.Parallel()
	store := setupStore(t)
	ctx := context.Background()
	when := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	// insert and read back
	booking := service.Booking{ID: "b1", CustomerID: "c1", AppointmentDate: when, Details: "cut"}
	if err := store.InsertBooking(ctx, booking); err != nil {
		t.Fatalf("InsertBooking failed: %v", err)
	}
	got, err := store.GetBooking(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got.CustomerID != "c1" || !got.AppointmentDate.Equal(when) || got.Details != "cut" {
		t.Errorf("unexpected booking: %+v", got)
	}

	// update then list
	booking.Details = "colour"
	if err := store.UpdateBooking(ctx, booking); err != nil {
		t.Fatalf("UpdateBooking failed: %v", err)
	}
	list, err := store.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings failed: %v", err)
	}
	if len(list) != 1 || list[0].Details != "colour" {
		t.Errorf("unexpected list: %+v", list)
	}

	// delete twice: second reports ErrNotFound
	if err := store.DeleteBooking(ctx, "b1"); err != nil {
		t.Fatalf("DeleteBooking failed: %v", err)
	}
	if err := store.DeleteBooking(ctx, "b1"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBooking_MissingID(t *testing.T) {
	t.Parallel()
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.GetBooking(ctx, "nope"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("GetBooking: expected ErrNotFound, got %v", err)
	}
	err := store.UpdateBooking(ctx, service.Booking{ID: "nope", CustomerID: "c", AppointmentDate: time.Now()})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("UpdateBooking: expected ErrNotFound, got %v", err)
	}
}
