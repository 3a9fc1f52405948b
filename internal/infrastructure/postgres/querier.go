package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier est le sous-ensemble commun à pgxpool.Pool et pgx.Tx : les adaptateurs
// l'acceptent pour fonctionner indifféremment sur le pool ou dans une transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// nullableID convertit un ID optionnel en paramètre SQL : NULL quand vide.
// Les colonnes UUID refusent la chaîne vide, le NULL se décide côté Go.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// isUniqueViolation vérifie si une erreur est une violation de contrainte unique (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
