package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/foodwaste/portal/internal/domain"
)

// reportDef pairs a catalogue query with the scanner for its row type.
type reportDef struct {
	query string
	run   func(ctx context.Context, r *SQLRepository, query string) (any, error)
}

// rowsOf adapts a typed row scanner to a reportDef runner.
func rowsOf[T any](scan func(*sql.Rows, *T) error) func(context.Context, *SQLRepository, string) (any, error) {
	return func(ctx context.Context, r *SQLRepository, query string) (any, error) {
		return queryAll(ctx, r, query, nil, scan)
	}
}

var (
	scanCityCount = rowsOf(func(rows *sql.Rows, v *domain.CityCount) error {
		return rows.Scan(&v.City, &v.Count)
	})
	scanNameCount = rowsOf(func(rows *sql.Rows, v *domain.NameCount) error {
		return rows.Scan(&v.Name, &v.Count)
	})
)

var catalogue = map[domain.Report]reportDef{
	domain.ReportProvidersPerCity: {
		query: `SELECT City, COUNT(*) AS Provider_Count FROM providers GROUP BY City`,
		run:   scanCityCount,
	},
	domain.ReportReceiversPerCity: {
		query: `SELECT City, COUNT(*) AS Receiver_Count FROM receivers GROUP BY City`,
		run:   scanCityCount,
	},
	domain.ReportTopProviderTypes: {
		query: `
			SELECT p.Type, SUM(f.Quantity) AS Total_Quantity
			FROM food_listings f
			JOIN providers p ON f.Provider_ID = p.Provider_ID
			GROUP BY p.Type
			ORDER BY Total_Quantity DESC
			LIMIT 5`,
		run: rowsOf(func(rows *sql.Rows, v *domain.TypeQuantity) error {
			return rows.Scan(&v.Type, &v.TotalQuantity)
		}),
	},
	domain.ReportTopReceivers: {
		query: `
			SELECT r.Name, COUNT(c.Claim_ID) AS Claims_Count
			FROM claims c
			JOIN receivers r ON c.Receiver_ID = r.Receiver_ID
			GROUP BY r.Name
			ORDER BY Claims_Count DESC
			LIMIT 10`,
		run: scanNameCount,
	},
	domain.ReportTotalFoodAvailable: {
		query: `SELECT COALESCE(SUM(Quantity), 0) AS Total_Food FROM food_listings`,
		run: rowsOf(func(rows *sql.Rows, v *domain.TotalFood) error {
			return rows.Scan(&v.TotalFood)
		}),
	},
	domain.ReportCityMostListings: {
		query: `
			SELECT Location AS City, COUNT(*) AS Listings_Count
			FROM food_listings
			GROUP BY Location
			ORDER BY Listings_Count DESC
			LIMIT 1`,
		run: scanCityCount,
	},
	domain.ReportCommonFoodTypes: {
		query: `
			SELECT Food_Type, COUNT(*) AS Type_Count
			FROM food_listings
			GROUP BY Food_Type
			ORDER BY Type_Count DESC
			LIMIT 10`,
		run: rowsOf(func(rows *sql.Rows, v *domain.FoodTypeCount) error {
			return rows.Scan(&v.FoodType, &v.Count)
		}),
	},
	domain.ReportClaimsPerFood: {
		query: `
			SELECT f.Food_Name, COUNT(c.Claim_ID) AS Claims_Count
			FROM claims c
			JOIN food_listings f ON c.Food_ID = f.Food_ID
			GROUP BY f.Food_Name
			ORDER BY Claims_Count DESC`,
		run: rowsOf(func(rows *sql.Rows, v *domain.FoodClaims) error {
			return rows.Scan(&v.FoodName, &v.ClaimsCount)
		}),
	},
	domain.ReportTopSuccessfulProvider: {
		query: `
			SELECT p.Name, COUNT(c.Claim_ID) AS Successful_Claims
			FROM claims c
			JOIN food_listings f ON c.Food_ID = f.Food_ID
			JOIN providers p ON f.Provider_ID = p.Provider_ID
			WHERE c.Status = '` + domain.ClaimStatusCompleted + `'
			GROUP BY p.Name
			ORDER BY Successful_Claims DESC
			LIMIT 1`,
		run: scanNameCount,
	},
	domain.ReportClaimsByStatus: {
		query: `
			SELECT Status, COUNT(*) * 100.0 / (SELECT COUNT(*) FROM claims) AS Percentage
			FROM claims
			GROUP BY Status`,
		run: rowsOf(func(rows *sql.Rows, v *domain.StatusShare) error {
			return rows.Scan(&v.Status, &v.Percentage)
		}),
	},
	domain.ReportAvgClaimedPerReceiver: {
		query: `
			SELECT r.Name, AVG(f.Quantity) AS Avg_Quantity
			FROM claims c
			JOIN receivers r ON c.Receiver_ID = r.Receiver_ID
			JOIN food_listings f ON c.Food_ID = f.Food_ID
			GROUP BY r.Name
			ORDER BY Avg_Quantity DESC`,
		run: rowsOf(func(rows *sql.Rows, v *domain.NameAverage) error {
			return rows.Scan(&v.Name, &v.AvgQuantity)
		}),
	},
	domain.ReportClaimsPerMealType: {
		query: `
			SELECT f.Meal_Type, COUNT(c.Claim_ID) AS Meal_Count
			FROM claims c
			JOIN food_listings f ON c.Food_ID = f.Food_ID
			GROUP BY f.Meal_Type
			ORDER BY Meal_Count DESC`,
		run: rowsOf(func(rows *sql.Rows, v *domain.MealTypeCount) error {
			return rows.Scan(&v.MealType, &v.Count)
		}),
	},
	domain.ReportDonatedPerProvider: {
		query: `
			SELECT p.Name, SUM(f.Quantity) AS Total_Donated
			FROM food_listings f
			JOIN providers p ON f.Provider_ID = p.Provider_ID
			GROUP BY p.Name
			ORDER BY Total_Donated DESC`,
		run: rowsOf(func(rows *sql.Rows, v *domain.NameQuantity) error {
			return rows.Scan(&v.Name, &v.TotalDonated)
		}),
	},
}

// RunReport runs one catalogue query.
func (r *SQLRepository) RunReport(ctx context.Context, report domain.Report) (*domain.ReportResult, error) {
	def, ok := catalogue[report]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReport, report)
	}

	rows, err := def.run(ctx, r, def.query)
	if err != nil {
		return nil, storeErr("report "+string(report), err)
	}

	return &domain.ReportResult{
		Report: report,
		Title:  report.Title(),
		Rows:   rows,
	}, nil
}

// RunAllReports runs the whole catalogue in parallel and returns the results
// in catalogue order. The first failure is returned.
func (r *SQLRepository) RunAllReports(ctx context.Context) ([]*domain.ReportResult, error) {
	reports := domain.Reports()
	results := make([]*domain.ReportResult, len(reports))
	errs := make([]error, len(reports))

	workers := r.maxWorkers
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, report := range reports {
		wg.Add(1)
		go func(idx int, rep domain.Report) {
			defer wg.Done()

			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			results[idx], errs[idx] = r.RunReport(ctx, rep)
		}(i, report)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
