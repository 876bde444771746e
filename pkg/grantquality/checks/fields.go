package checks

import (
	"fmt"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

// fieldKind builds a check failing grants on which present reports false.
// The field description is used verbatim in the heading and message.
func fieldKind(name, field string, category Category, relevance Relevance, present func(grant jsonvalue.Value) bool) *Kind {
	return &Kind{
		Name:      name,
		Class:     FieldPresence,
		Relevance: relevance,
		Category:  category,
		Heading:   fmt.Sprintf("not contain %s field", field),
		Verb:      "do",
		Messages:  always(fmt.Sprintf("Providing %s field helps people to understand the grant information.", field)),
		process: func(c *check, grant jsonvalue.Value, prefix string) {
			if !present(grant) {
				c.fail(prefix + "/id")
			}
		},
	}
}

// lookup reports whether path leads to a value, whatever the value is.
func lookup(path ...any) func(jsonvalue.Value) bool {
	return func(grant jsonvalue.Value) bool {
		return tryField(func() error {
			_, err := grant.Lookup(path...)
			return err
		})
	}
}

var ClassificationNotPresent = fieldKind("ClassificationNotPresent",
	"classifications/0/title", CategoryGrants, RecipientAny,
	lookup("classifications", 0, "title"))

var BeneficiaryLocationNameNotPresent = fieldKind("BeneficiaryLocationNameNotPresent",
	"beneficiaryLocation/0/name", CategoryLocation, RecipientAny,
	lookup("beneficiaryLocation", 0, "name"))

var BeneficiaryLocationCountryCodeNotPresent = fieldKind("BeneficiaryLocationCountryCodeNotPresent",
	"beneficiaryLocation/0/countryCode", CategoryLocation, RecipientAny,
	lookup("beneficiaryLocation", 0, "countryCode"))

var BeneficiaryLocationGeoCodeNotPresent = fieldKind("BeneficiaryLocationGeoCodeNotPresent",
	"beneficiaryLocation/0/geoCode", CategoryLocation, RecipientAny,
	lookup("beneficiaryLocation", 0, "geoCode"))

var PlannedDurationNotPresent = fieldKind("PlannedDurationNotPresent",
	"plannedDates/0/duration or (plannedDates/startDate and plannedDates/endDate)", CategoryDates, RecipientAny,
	func(grant jsonvalue.Value) bool {
		var planned jsonvalue.Value
		if !tryField(func() (err error) {
			planned, err = grant.Lookup("plannedDates", 0)
			return err
		}) {
			return false
		}
		return truthy(planned, "duration") || (truthy(planned, "startDate") && truthy(planned, "endDate"))
	})

var GrantProgrammeTitleNotPresent = fieldKind("GrantProgrammeTitleNotPresent",
	"grantProgramme/0/title", CategoryGrants, RecipientAny,
	lookup("grantProgramme", 0, "title"))

// IndividualsCodeListsNotPresent only applies to grants to individuals;
// other grants always pass.
var IndividualsCodeListsNotPresent = fieldKind("IndividualsCodeListsNotPresent",
	"toIndividualsDetails/grantPurpose or toIndividualsDetails/primaryGrantReason", CategoryGrants, RecipientIndividual,
	func(grant jsonvalue.Value) bool {
		if !truthy(grant, "recipientIndividual") {
			return true
		}
		details, ok := grant.Get("toIndividualsDetails")
		if !ok || !details.Truthy() {
			return false
		}
		purpose, _ := details.Get("grantPurpose")
		reason, _ := details.Get("primaryGrantReason")
		return purpose.Len() > 0 || reason.Len() > 0
	})
