package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Store is the postgres backed store of users, workouts and meals.
type Store struct {
	db *pgxpool.Pool
	// Now is the store clock; workout timestamps and meal dates come from it.
	Now func() time.Time
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db:  db,
		Now: time.Now,
	}
}

// Init creates the tables if they do not exist yet.
func (s *Store) Init(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.init")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Register creates a new user. It returns false (and no error) if the handle is taken.
func (s *Store) Register(ctx context.Context, params RegisterParams) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.users.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if strings.TrimSpace(params.Handle) == "" {
		return false, ErrHandleMissing
	}

	var id int
	err = s.db.QueryRow(
		ctx,
		`INSERT INTO users (handle, credential, name, age, height, weight, goal_weight)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
		params.Handle, params.Credential, params.Name, params.Age,
		params.Height, params.Weight, params.GoalWeight,
	).Scan(&id)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			span.SetAttributes(attribute.Bool("handle_taken", true))
			return false, nil
		}
		return false, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(attribute.Int("user.id", id))
	return true, nil
}

// Authenticate returns the user with the exact handle and credential, or ErrUserNotFound.
func (s *Store) Authenticate(ctx context.Context, handle, credential string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.users.authenticate")
	defer func() {
		if errors.Is(err, ErrUserNotFound) {
			span.End()
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(
		ctx,
		`SELECT id, handle, credential, name, age, height, weight, goal_weight
			FROM users
			WHERE handle = $1 AND credential = $2;`,
		handle, credential,
	)
	if err != nil {
		return nil, err
	}
	return s.collectUser(rows)
}

func (s *Store) GetUser(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", id))

	rows, err := s.db.Query(
		ctx,
		`SELECT id, handle, credential, name, age, height, weight, goal_weight
			FROM users
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	return s.collectUser(rows)
}

// UpdateProfile overwrites name, age, height, weight and goal weight of the user with user.ID.
func (s *Store) UpdateProfile(ctx context.Context, user User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.users.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", user.ID))

	tag, err := s.db.Exec(
		ctx,
		`UPDATE users SET name = $1, age = $2, height = $3, weight = $4, goal_weight = $5 WHERE id = $6;`,
		user.Name, user.Age, user.Height, user.Weight, user.GoalWeight, user.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (s *Store) collectUser(rows pgx.Rows) (*User, error) {
	user, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (User, error) {
		var u User
		err := row.Scan(&u.ID, &u.Handle, &u.Credential, &u.Name, &u.Age, &u.Height, &u.Weight, &u.GoalWeight)
		return u, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("collect user: %w", err)
	}
	return &user, nil
}
