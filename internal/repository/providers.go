package repository

import (
	"context"
	"database/sql"

	"github.com/foodwaste/portal/internal/domain"
)

// ListProviders returns every provider in store order.
func (r *SQLRepository) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	query := `
		SELECT Provider_ID, Name, Type, Address, City, Contact
		FROM providers
	`

	providers, err := queryAll(ctx, r, query, nil, func(rows *sql.Rows, p *domain.Provider) error {
		return rows.Scan(&p.ID, &p.Name, &p.Type, &p.Address, &p.City, &p.Contact)
	})
	if err != nil {
		return nil, storeErr("list providers", err)
	}
	return providers, nil
}

// AddProvider inserts a provider. The store assigns the identifier.
func (r *SQLRepository) AddProvider(ctx context.Context, in domain.ProviderInput) error {
	query := `
		INSERT INTO providers (Name, Type, Address, City, Contact)
		VALUES (?, ?, ?, ?, ?)
	`

	return r.exec(ctx, "add provider", query, in.Name, in.Type, in.Address, in.City, in.Contact)
}

// UpdateProvider replaces every mutable field of the provider with the given id.
//
// No existence check is made: an unknown id updates zero rows and returns nil.
func (r *SQLRepository) UpdateProvider(ctx context.Context, id int64, in domain.ProviderInput) error {
	query := `
		UPDATE providers
		SET Name = ?, Type = ?, Address = ?, City = ?, Contact = ?
		WHERE Provider_ID = ?
	`

	return r.exec(ctx, "update provider", query, in.Name, in.Type, in.Address, in.City, in.Contact, id)
}

// DeleteProvider removes the provider with the given id.
// An unknown id deletes zero rows and returns nil.
func (r *SQLRepository) DeleteProvider(ctx context.Context, id int64) error {
	return r.exec(ctx, "delete provider", `DELETE FROM providers WHERE Provider_ID = ?`, id)
}
