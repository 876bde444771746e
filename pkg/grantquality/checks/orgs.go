package checks

import (
	"fmt"
	"strings"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/orgid"
)

const (
	fundingOrganization   = "fundingOrganization"
	recipientOrganization = "recipientOrganization"
)

const unrecognisedPrefixMessage = "In the 360Giving Data Standard, organisation identifiers have two parts: an " +
	"identifier and a prefix which describes the list the identifier is taken from. " +
	"This error notice is caused by the prefix in an organisation identifier not " +
	"being taken from a recognised register from the org-id list locator (https://org-id.guide/). " +
	"See our guidance on organisation identifiers " +
	"(https://standard.threesixtygiving.org/en/latest/technical/identifiers/#organisation-identifier) for further help."

var FundingOrgUnrecognisedPrefix = &Kind{
	Name:     "FundingOrgUnrecognisedPrefix",
	Class:    QualityAccuracy,
	Category: CategoryOrganisations,
	Heading:  "a Funding Org:Identifier that does not draw from a recognised register",
	Messages: always(unrecognisedPrefixMessage),
	process:  unrecognisedPrefix(fundingOrganization),
}

var RecipientOrgUnrecognisedPrefix = &Kind{
	Name:      "RecipientOrgUnrecognisedPrefix",
	Class:     QualityAccuracy,
	Relevance: RecipientOrganisation,
	Category:  CategoryOrganisations,
	Heading:   "a Recipient Org:Identifier that does not draw from a recognised register",
	Messages:  always(unrecognisedPrefixMessage),
	process:   unrecognisedPrefix(recipientOrganization),
}

// unrecognisedPrefix counts a grant once when any of its organisations has
// an identifier outside the prefix registry.
func unrecognisedPrefix(orgType string) func(*check, jsonvalue.Value, string) {
	return func(c *check, grant jsonvalue.Value, prefix string) {
		failed := false
		for num, org := range entries(grant, orgType) {
			id, ok := str(org, "id")
			if !ok || c.env.Registry.Recognised(id) {
				continue
			}
			c.record(orgLocation(prefix, orgType, num, "id"))
			failed = true
		}
		if failed {
			c.count++
		}
	}
}

var RecipientOrgCharityNumber = &Kind{
	Name:      "RecipientOrgCharityNumber",
	Class:     QualityAccuracy,
	Relevance: RecipientOrganisation,
	Category:  CategoryOrganisations,
	Heading:   "a value provided in the Recipient Org:Charity Number column that doesn’t look like a UK charity number",
	Messages: always("Common causes of this error notice are missing or extra digits, typos or " +
		"incorrect values such as text appearing in this field. You can check UK charity " +
		"numbers online at FindthatCharity (https://findthatcharity.uk/). This error may also be triggered by " +
		"correctly formatted non-UK charity numbers, in which case this message can be ignored."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		failed := false
		for num, org := range entries(grant, recipientOrganization) {
			number, ok := org.Get("charityNumber")
			if !ok || orgid.CheckCharityNumber(orgid.StripCharityPrefix(number.Text())) {
				continue
			}
			c.record(orgLocation(prefix, recipientOrganization, num, "charityNumber"))
			failed = true
		}
		if failed {
			c.count++
		}
	},
}

var RecipientOrgCompanyNumber = &Kind{
	Name:      "RecipientOrgCompanyNumber",
	Class:     QualityAccuracy,
	Relevance: RecipientOrganisation,
	Category:  CategoryOrganisations,
	Heading:   "a value provided in the Recipient Org:Company Number column that doesn’t look like a company number",
	Messages: always("Common causes of this error notice are missing or extra digits, typos or " +
		"incorrect values such as text appearing in this field. UK Company numbers are " +
		"typically 8 digits, for example 09876543 or sometimes start with a 2 letter " +
		"prefix, SC123459. You can check company numbers online at Companies House " +
		"(https://find-and-update.company-information.service.gov.uk/). " +
		"This error may also be triggered by correctly formatted non-UK company numbers, " +
		"in which case this message can be ignored."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		failed := false
		for num, org := range entries(grant, recipientOrganization) {
			number, ok := str(org, "companyNumber")
			if !ok || orgid.CheckCompanyNumber(number) {
				continue
			}
			c.record(orgLocation(prefix, recipientOrganization, num, "companyNumber"))
			failed = true
		}
		if failed {
			c.count++
		}
	},
}

const (
	charityIDPrefix = "GB-CHC-"
	companyIDPrefix = "GB-COH-"
)

var OrganizationIdLooksInvalid = &Kind{
	Name:      "OrganizationIdLooksInvalid",
	Class:     QualityAccuracy,
	Relevance: RecipientOrganisation,
	Category:  CategoryOrganisations,
	Heading:   "a Funding or Recipient Organisation identifier that might not be valid",
	Messages: always("The identifiers might not be valid for the recognised register that they refer " +
		"to - for example, an identifier with the prefix 'GB-CHC' that contains an " +
		"invalid charity number. Common causes of this are missing or extra digits, " +
		"typos or incorrect values such as text appearing in this field. See our " +
		"guidance on organisation identifiers " +
		"(https://standard.threesixtygiving.org/en/latest/technical/identifiers/#organisation-identifier) " +
		"for further help."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		for _, orgType := range []string{fundingOrganization, recipientOrganization} {
			for num, org := range entries(grant, orgType) {
				id, ok := str(org, "id")
				if !ok || id == "" {
					continue
				}
				var valid bool
				switch upper := strings.ToUpper(id); {
				case strings.HasPrefix(upper, charityIDPrefix):
					valid = orgid.CheckCharityNumber(afterIDPrefix(id))
				case strings.HasPrefix(upper, companyIDPrefix):
					valid = orgid.CheckCompanyNumber(afterIDPrefix(id))
				default:
					continue
				}
				if !valid {
					c.fail(orgLocation(prefix, orgType, num, "id"))
				}
			}
		}
	},
}

// afterIDPrefix returns the registration number following a seven
// character "GB-XXX-" prefix.
func afterIDPrefix(id string) string {
	r := []rune(id)
	if len(r) <= len(charityIDPrefix) {
		return ""
	}
	return string(r[len(charityIDPrefix):])
}

var MoreThanOneFundingOrg = &Kind{
	Name:     "MoreThanOneFundingOrg",
	Class:    QualityAccuracy,
	Category: CategoryOrganisations,
	Messages: always("If you are only publishing for a single funder then you should review your " +
		"Funding Organisation identifier field to see where multiple IDs have occurred. " +
		"If you are expecting to be publishing data for multiple funders and the number " +
		"of funders is correct, then you can ignore this error notice."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		for num, org := range entries(grant, fundingOrganization) {
			id, ok := org.Get("id")
			if !ok || !id.Truthy() || containsValue(c.seen, id) {
				continue
			}
			c.seen = append(c.seen, id)
			c.locations = append(c.locations, orgLocation(prefix, fundingOrganization, num, "id"))
		}
		if len(c.seen) > 1 {
			c.failed = true
		}
	},
	heading: func(c *check) string {
		return fmt.Sprintf("%d different funding organisation identifiers listed", len(c.seen))
	},
}

func containsValue(values []jsonvalue.Value, v jsonvalue.Value) bool {
	for _, seen := range values {
		if seen.Equal(v) {
			return true
		}
	}
	return false
}

var RecipientOrg360GPrefix = &Kind{
	Name:      "RecipientOrg360GPrefix",
	Class:     Usefulness,
	Relevance: RecipientOrganisation,
	Category:  CategoryOrganisations,
	Heading:   "a Recipient Org:Identifier that starts '360G-'",
	Messages: always("Use an external reference, such as a charity or company number, to identify an " +
		"organisation whenever possible. Doing so makes it possible to see when " +
		"recipients have received grants from multiple funders, and allows grants data " +
		"to be linked or combined with information from official registers. Some " +
		"organisations, such as small unregistered groups, do not have an official " +
		"registration number that can be used. In these cases the organisation " +
		"identifier should start ‘360G-‘ and use an identifier taken from the " +
		"publisher’s internal systems. See our guidance on organisation identifiers " +
		"(https://standard.threesixtygiving.org/en/latest/technical/identifiers/#organisation-identifier) " +
		"for further help."),
	process: publisherPrefix(recipientOrganization),
}

var FundingOrg360GPrefix = &Kind{
	Name:     "FundingOrg360GPrefix",
	Class:    Usefulness,
	Category: CategoryOrganisations,
	Heading:  "a Funding Org:Identifier that starts '360G-'",
	Messages: always("Use an external reference, such as a charity or company number, to identify a " +
		"funding organisation whenever possible. Some funders do not have an official " +
		"registration number that can be used. In these cases the funding organisation " +
		"identifier should reuse the publisher prefix and therefore start with “360G-”. " +
		"See our guidance on organisation identifiers " +
		"(https://standard.threesixtygiving.org/en/latest/technical/identifiers/#organisation-identifier) " +
		"for further help."),
	process: publisherPrefix(fundingOrganization),
}

// publisherPrefix counts every organisation identified with the
// publisher's own 360G prefix rather than an external register.
func publisherPrefix(orgType string) func(*check, jsonvalue.Value, string) {
	return func(c *check, grant jsonvalue.Value, prefix string) {
		for num, org := range entries(grant, orgType) {
			if id, ok := org.Get("id"); ok && id.HasPrefixFold(orgid.PublisherPrefix) {
				c.fail(orgLocation(prefix, orgType, num, "id"))
			}
		}
	}
}

var NoRecipientOrgCompanyCharityNumber = &Kind{
	Name:      "NoRecipientOrgCompanyCharityNumber",
	Class:     Usefulness,
	Relevance: RecipientOrganisation,
	Category:  CategoryOrganisations,
	Heading:   "not have either a Recipient Org:Company Number or a Recipient Org:Charity Number",
	Verb:      "do",
	Messages: always("Company and charity numbers are important for understanding grantmaking in the " +
		"UK and including these separately makes it easier for users to match grants " +
		"data with official sources of information about the recipients. If your grants " +
		"are to organisations that don’t have UK Company or UK Charity numbers, you can " +
		"ignore this notice."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		failed := false
		for num, org := range entries(grant, recipientOrganization) {
			if org.Kind() != jsonvalue.Object || truthy(org, "companyNumber") || truthy(org, "charityNumber") {
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
