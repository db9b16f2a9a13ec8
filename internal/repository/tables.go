package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodwaste/portal/internal/domain"
)

// ListFoodListings returns every food listing in store order.
func (r *SQLRepository) ListFoodListings(ctx context.Context) ([]domain.FoodListing, error) {
	query := `
		SELECT Food_ID, Food_Name, Quantity, Expiry_Date, Location,
		       Food_Type, Meal_Type, Provider_ID
		FROM food_listings
	`

	listings, err := queryAll(ctx, r, query, nil, func(rows *sql.Rows, f *domain.FoodListing) error {
		return rows.Scan(
			&f.ID, &f.FoodName, &f.Quantity, &f.ExpiryDate, &f.Location,
			&f.FoodType, &f.MealType, &f.ProviderID,
		)
	})
	if err != nil {
		return nil, storeErr("list food listings", err)
	}
	return listings, nil
}

// ListClaims returns every claim in store order.
func (r *SQLRepository) ListClaims(ctx context.Context) ([]domain.Claim, error) {
	query := `
		SELECT Claim_ID, Receiver_ID, Food_ID, Status
		FROM claims
	`

	claims, err := queryAll(ctx, r, query, nil, func(rows *sql.Rows, c *domain.Claim) error {
		return rows.Scan(&c.ID, &c.ReceiverID, &c.FoodID, &c.Status)
	})
	if err != nil {
		return nil, storeErr("list claims", err)
	}
	return claims, nil
}

// Dashboard reads the headline counts in one statement so they come from a
// single snapshot.
func (r *SQLRepository) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM providers),
			(SELECT COUNT(*) FROM receivers),
			(SELECT COALESCE(SUM(Quantity), 0) FROM food_listings),
			(SELECT COUNT(*) FROM claims)
	`

	var s domain.DashboardSummary
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.TotalProviders, &s.TotalReceivers, &s.TotalFood, &s.TotalClaims,
	)
	if err != nil {
		return nil, storeErr("dashboard", err)
	}
	return &s, nil
}

// Contacts returns the name, contact and city of every provider or receiver.
func (r *SQLRepository) Contacts(ctx context.Context, kind domain.ContactKind) ([]domain.Contact, error) {
	var query string
	switch kind {
	case domain.ContactProviders:
		query = `SELECT Name, Contact, City FROM providers`
	case domain.ContactReceivers:
		query = `SELECT Name, Contact, City FROM receivers`
	default:
		return nil, fmt.Errorf("%w: unknown contact kind %q", domain.ErrInvalidInput, kind)
	}

	contacts, err := queryAll(ctx, r, query, nil, func(rows *sql.Rows, c *domain.Contact) error {
		return rows.Scan(&c.Name, &c.Contact, &c.City)
	})
	if err != nil {
		return nil, storeErr("contacts", err)
	}
	return contacts, nil
}
