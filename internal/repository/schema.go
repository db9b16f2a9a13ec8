package repository

import "fmt"

// Schema definitions for the food wastage database.
// The surrogate key column is the only dialect specific part.

const schemaProviders = `
CREATE TABLE IF NOT EXISTS providers (
    Provider_ID %s,
    Name TEXT NOT NULL,
    Type TEXT NOT NULL,
    Address TEXT NOT NULL,
    City TEXT NOT NULL,
    Contact TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_providers_city ON providers(City);
`

const schemaReceivers = `
CREATE TABLE IF NOT EXISTS receivers (
    Receiver_ID %s,
    Name TEXT NOT NULL,
    City TEXT NOT NULL,
    Contact TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_receivers_city ON receivers(City);
`

// Provider_ID is not declared as a foreign key: referential integrity is
// assumed by the portal, not enforced.
const schemaFoodListings = `
CREATE TABLE IF NOT EXISTS food_listings (
    Food_ID %s,
    Food_Name TEXT NOT NULL,
    Quantity INTEGER NOT NULL DEFAULT 0,
    Expiry_Date TEXT NOT NULL,
    Location TEXT NOT NULL,
    Food_Type TEXT NOT NULL,
    Meal_Type TEXT NOT NULL,
    Provider_ID INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_food_listings_provider ON food_listings(Provider_ID);
CREATE INDEX IF NOT EXISTS idx_food_listings_location ON food_listings(Location);
`

const schemaClaims = `
CREATE TABLE IF NOT EXISTS claims (
    Claim_ID %s,
    Receiver_ID INTEGER NOT NULL,
    Food_ID INTEGER NOT NULL,
    Status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_claims_receiver ON claims(Receiver_ID);
CREATE INDEX IF NOT EXISTS idx_claims_food ON claims(Food_ID);
CREATE INDEX IF NOT EXISTS idx_claims_status ON claims(Status);
`

// AllSchemas returns all schema statements in order for the given driver.
func AllSchemas(driver string) []string {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		id = "SERIAL PRIMARY KEY"
	}
	return []string{
		fmt.Sprintf(schemaProviders, id),
		fmt.Sprintf(schemaReceivers, id),
		fmt.Sprintf(schemaFoodListings, id),
		fmt.Sprintf(schemaClaims, id),
	}
}
