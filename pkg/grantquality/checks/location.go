package checks

import (
	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

const locationGuide = "(https://standard.threesixtygiving.org/en/latest/guidance/location-guide/)"

var IncompleteRecipientOrg = &Kind{
	Name:      "IncompleteRecipientOrg",
	Class:     Usefulness,
	Relevance: RecipientOrganisation,
	Category:  CategoryLocation,
	Heading:   "not have recipient organisation location information",
	Verb:      "do",
	Messages: always("Recipient location data in the form of postcodes or geocodes provides a " +
		"consistent way to describe a location. This data can be used to produce maps, " +
		"such as the maps in 360Insights (https://insights.threesixtygiving.org/), " +
		"showing the geographical distribution of funding and allows grants data to be " +
		"looked at alongside official statistics, such as the Indices of multiple deprivation. " +
		"See our guidance on location data " + locationGuide + " for further help."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		failed := false
		for num, org := range entries(grant, recipientOrganization) {
			if org.Kind() != jsonvalue.Object || truthy(org, "postalCode") || hasGeoCode(org) {
				continue
			}
			c.record(orgLocation(prefix, recipientOrganization, num, "id"))
			failed = true
		}
		if failed {
			c.count++
		}
	},
}

// hasGeoCode reports whether any of the organisation's locations carries
// both a geographic code and its type.
func hasGeoCode(org jsonvalue.Value) bool {
	for _, location := range entries(org, "location") {
		if truthy(location, "geoCode") && truthy(location, "geoCodeType") {
			return true
		}
	}
	return false
}

var NoBeneficiaryLocation = &Kind{
	Name:     "NoBeneficiaryLocation",
	Class:    Usefulness,
	Category: CategoryLocation,
	Heading:  "not contain any beneficiary location fields",
	Verb:     "do",
	Messages: always("Beneficiary location data in the form of place names and geocodes allow users " +
		"to understand which places funding is reaching. This data can be more accurate " +
		"in showing where grants are going geographically, especially in cases where the " +
		"recipient location is in a different place from the activity being funded. " +
		"Beneficiary location codes can be used to produce maps, such as the ones in " +
		"360Insights (https://insights.threesixtygiving.org/), " +
		"showing the geographical distribution of funding and allows grants " +
		"data to be looked at alongside official statistics, such as the Indices of " +
		"multiple deprivation. See our guidance on location data " + locationGuide + " for further help."),
	process: missing("beneficiaryLocation"),
}
