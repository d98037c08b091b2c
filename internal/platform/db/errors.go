package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

// Postgres SQLSTATE codes translated by MapError.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// MapError converts driver errors into the httpx error taxonomy.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return httpx.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: duplicate value violates %s", httpx.ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return &httpx.ValidationError{Message: "referenced record does not exist"}
		case codeCheckViolation, codeInvalidText:
			return &httpx.ValidationError{Message: pgErr.Message}
		}
	}
	return err
}
