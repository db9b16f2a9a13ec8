package domain

import "fmt"

// Report names one query in the analytics catalogue.
type Report string

// The catalogue. Adding a report means adding a constant here, a row type
// below and a definition in the repository.
const (
	ReportProvidersPerCity      Report = "providers-per-city"
	ReportReceiversPerCity      Report = "receivers-per-city"
	ReportTopProviderTypes      Report = "top-provider-types"
	ReportTopReceivers          Report = "top-receivers"
	ReportTotalFoodAvailable    Report = "total-food-available"
	ReportCityMostListings      Report = "city-most-listings"
	ReportCommonFoodTypes       Report = "common-food-types"
	ReportClaimsPerFood         Report = "claims-per-food"
	ReportTopSuccessfulProvider Report = "top-successful-provider"
	ReportClaimsByStatus        Report = "claims-by-status"
	ReportAvgClaimedPerReceiver Report = "avg-claimed-per-receiver"
	ReportClaimsPerMealType     Report = "claims-per-meal-type"
	ReportDonatedPerProvider    Report = "donated-per-provider"
)

var reportTitles = map[Report]string{
	ReportProvidersPerCity:      "Providers per city",
	ReportReceiversPerCity:      "Receivers per city",
	ReportTopProviderTypes:      "Top provider type contributing food",
	ReportTopReceivers:          "Top receivers by claims",
	ReportTotalFoodAvailable:    "Total food available",
	ReportCityMostListings:      "City with most listings",
	ReportCommonFoodTypes:       "Most common food types",
	ReportClaimsPerFood:         "Claims per food item",
	ReportTopSuccessfulProvider: "Provider with highest successful claims",
	ReportClaimsByStatus:        "Percentage of claims by status",
	ReportAvgClaimedPerReceiver: "Average quantity claimed per receiver",
	ReportClaimsPerMealType:     "Most claimed meal type",
	ReportDonatedPerProvider:    "Total quantity donated by each provider",
}

// Reports returns the catalogue in display order.
func Reports() []Report {
	return []Report{
		ReportProvidersPerCity,
		ReportReceiversPerCity,
		ReportTopProviderTypes,
		ReportTopReceivers,
		ReportTotalFoodAvailable,
		ReportCityMostListings,
		ReportCommonFoodTypes,
		ReportClaimsPerFood,
		ReportTopSuccessfulProvider,
		ReportClaimsByStatus,
		ReportAvgClaimedPerReceiver,
		ReportClaimsPerMealType,
		ReportDonatedPerProvider,
	}
}

// ParseReport maps a caller supplied name onto the catalogue.
func ParseReport(name string) (Report, error) {
	r := Report(name)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
	return r, nil
}

// Valid reports whether r is part of the catalogue.
func (r Report) Valid() bool {
	_, ok := reportTitles[r]
	return ok
}

// Title returns the display title of the report.
func (r Report) Title() string {
	return reportTitles[r]
}

// ReportResult is the output of one catalogue query. Rows holds a slice of
// the row type belonging to the report, e.g. []CityCount for
// ReportProvidersPerCity.
type ReportResult struct {
	Report Report `json:"report"`
	Title  string `json:"title"`
	Rows   any    `json:"rows"`
}

// CityCount is a row of the per-city reports.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// TypeQuantity is a row of ReportTopProviderTypes.
type TypeQuantity struct {
	Type          string `json:"type"`
	TotalQuantity int64  `json:"totalQuantity"`
}

// NameCount is a row of the reports counting claims per named entity.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TotalFood is the single row of ReportTotalFoodAvailable.
type TotalFood struct {
	TotalFood int64 `json:"totalFood"`
}

// FoodTypeCount is a row of ReportCommonFoodTypes.
type FoodTypeCount struct {
	FoodType string `json:"foodType"`
	Count    int64  `json:"count"`
}

// FoodClaims is a row of ReportClaimsPerFood.
type FoodClaims struct {
	FoodName    string `json:"foodName"`
	ClaimsCount int64  `json:"claimsCount"`
}

// StatusShare is a row of ReportClaimsByStatus.
type StatusShare struct {
	Status     string  `json:"status"`
	Percentage float64 `json:"percentage"`
}

// NameAverage is a row of ReportAvgClaimedPerReceiver.
type NameAverage struct {
	Name        string  `json:"name"`
	AvgQuantity float64 `json:"avgQuantity"`
}

// MealTypeCount is a row of ReportClaimsPerMealType.
type MealTypeCount struct {
	MealType string `json:"mealType"`
	Count    int64  `json:"count"`
}

// NameQuantity is a row of ReportDonatedPerProvider.
type NameQuantity struct {
	Name         string `json:"name"`
	TotalDonated int64  `json:"totalDonated"`
}
