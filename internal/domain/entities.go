package domain

// Provider is a food donor: a restaurant, grocery store, supermarket and so on.
type Provider struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

// ProviderInput holds the mutable fields of a provider.
// Empty strings are stored as-is.
type ProviderInput struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

// Receiver is an organisation or individual that claims food.
type Receiver struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

// ReceiverInput holds the mutable fields of a receiver.
type ReceiverInput struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

// FoodListing is a quantity of food offered by a provider.
type FoodListing struct {
	ID         int64  `json:"id"`
	FoodName   string `json:"foodName"`
	Quantity   int64  `json:"quantity"`
	ExpiryDate string `json:"expiryDate"`
	Location   string `json:"location"`
	FoodType   string `json:"foodType"`
	MealType   string `json:"mealType"`
	ProviderID int64  `json:"providerId"`
}

// Claim links a receiver to a food listing.
// Status is an open set driven by data; "Completed" is the only value the
// reports depend on.
type Claim struct {
	ID         int64  `json:"id"`
	ReceiverID int64  `json:"receiverId"`
	FoodID     int64  `json:"foodId"`
	Status     string `json:"status"`
}

// ClaimStatusCompleted marks a successful claim.
const ClaimStatusCompleted = "Completed"

// FoodFilter holds the optional food search criteria.
// An empty field places no constraint on that dimension.
type FoodFilter struct {
	Location     string `json:"location,omitempty"`
	ProviderName string `json:"provider,omitempty"`
	FoodType     string `json:"foodType,omitempty"`
}

// FoodSearchRow is one row of a food search: a listing joined to its provider.
type FoodSearchRow struct {
	FoodID          int64  `json:"foodId"`
	FoodName        string `json:"foodName"`
	Quantity        int64  `json:"quantity"`
	ExpiryDate      string `json:"expiryDate"`
	Location        string `json:"location"`
	FoodType        string `json:"foodType"`
	MealType        string `json:"mealType"`
	ProviderName    string `json:"providerName"`
	ProviderContact string `json:"providerContact"`
}

// ContactKind selects which directory Contacts reads.
type ContactKind string

const (
	ContactProviders ContactKind = "providers"
	ContactReceivers ContactKind = "receivers"
)

// Contact is one directory entry.
type Contact struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	City    string `json:"city"`
}

// DashboardSummary holds the headline metrics.
type DashboardSummary struct {
	TotalProviders int64 `json:"totalProviders"`
	TotalReceivers int64 `json:"totalReceivers"`
	TotalFood      int64 `json:"totalFood"`
	TotalClaims    int64 `json:"totalClaims"`
}
