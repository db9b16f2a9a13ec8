package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/foodwaste/portal/internal/domain"
)

const foodSearchBase = `SELECT f.Food_ID, f.Food_Name, f.Quantity, f.Expiry_Date, f.Location,
       f.Food_Type, f.Meal_Type, p.Name, p.Contact
FROM food_listings f
JOIN providers p ON f.Provider_ID = p.Provider_ID`

// likeEscaper makes LIKE wildcards in caller text match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildFoodQuery builds the food search statement for f.
//
// Every non-empty criterion adds one case-insensitive substring predicate,
// joined with AND. Empty criteria add nothing, so an empty filter yields no
// WHERE clause. Caller text only ever travels in the returned args. fold names
// the SQL function applied to both sides of each match.
func BuildFoodQuery(f domain.FoodFilter, fold string) (string, []any) {
	criteria := []struct {
		column string
		value  string
	}{
		{"f.Location", f.Location},
		{"p.Name", f.ProviderName},
		{"f.Food_Type", f.FoodType},
	}

	var predicates []string
	var args []any
	for _, c := range criteria {
		if c.value == "" {
			continue
		}
		predicates = append(predicates, fold+"("+c.column+") LIKE "+fold+`(?) ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(c.value)+"%")
	}

	if len(predicates) == 0 {
		return foodSearchBase, nil
	}
	return foodSearchBase + "\nWHERE " + strings.Join(predicates, "\n  AND "), args
}

// SearchFood returns the food listings matching f, joined to their provider.
func (r *SQLRepository) SearchFood(ctx context.Context, f domain.FoodFilter) ([]domain.FoodSearchRow, error) {
	query, args := BuildFoodQuery(f, r.foldFunc())

	rows, err := queryAll(ctx, r, query, args, func(rows *sql.Rows, s *domain.FoodSearchRow) error {
		return rows.Scan(
			&s.FoodID, &s.FoodName, &s.Quantity, &s.ExpiryDate, &s.Location,
			&s.FoodType, &s.MealType, &s.ProviderName, &s.ProviderContact,
		)
	})
	if err != nil {
		return nil, storeErr("search food", err)
	}
	return rows, nil
}
