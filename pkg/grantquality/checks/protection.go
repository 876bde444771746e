package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

var emailRe = regexp.MustCompile(`[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_.-]+`)

// Roughly postcode shaped, allowing stray spaces around and inside.
var postcodeRe = regexp.MustCompile(`(?i)^\s*[a-z]{1,2}\d[a-z\d]?\s*\d[a-z]{2}\s*$`)

var LooksLikeEmail = &Kind{
	Name:       "LooksLikeEmail",
	Class:      QualityAccuracy,
	Category:   CategoryDataProtection,
	Importance: ImportanceCritical,
	Heading:    "text that looks like an email address",
	Verb:       "contain",
	Messages: always("Your data may contain an email address (or something that looks like " +
		"one), which can constitute personal data if it is the email of an " +
		"individual. The use and distribution of personal data is restricted by " +
		"the Data Protection Act. You should ensure that any personal data is " +
		"removed from your data prior to publishing it, or that it is only " +
		"included with the knowledge and consent of the person to whom it refers."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		for _, leaf := range jsonvalue.Flatten(grant) {
			// Fields meant for email addresses are not flagged.
			if strings.Contains(leaf.Path, "email") {
				continue
			}
			if s, ok := leaf.Value.Str(); ok && emailRe.MatchString(s) {
				c.fail(prefix + leaf.Path)
			}
		}
	},
}

var RecipientIndDEI = &Kind{
	Name:       "RecipientIndDEI",
	Class:      QualityAccuracy,
	Relevance:  RecipientIndividual,
	Category:   CategoryDataProtection,
	Importance: ImportanceCritical,
	Heading:    "Recipient Ind and DEI information",
	Messages: always("Your data contains grants to individuals which also have DEI " +
		"(Diversity, Equity and Inclusion) information. You must not share any " +
		"DEI data about individuals as this can make them personally " +
		"identifiable when combined with other information in the grant."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		if grant.Has("recipientIndividual") && grant.Has("project") {
			c.fail(prefix + "/recipientIndividual/id")
		}
	},
}

// GeoCodePostcode ignores geoCodeType, which is rarely set correctly when a
// postcode has been entered.
var GeoCodePostcode = &Kind{
	Name:       "GeoCodePostcode",
	Class:      QualityAccuracy,
	Relevance:  RecipientIndividual,
	Category:   CategoryDataProtection,
	Importance: ImportanceCritical,
	Heading:    "Geographic Code that looks like a postcode",
	Messages: always("Your data contains a Beneficiary Location:Geographic Code " +
		"that looks like a postcode on grants to individuals. You must not " +
		"share any postcodes for grants to individuals as this can make them " +
		"personally identifiable when combined with other information in the grant."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		if !grant.Has("recipientIndividual") {
			return
		}
		for num, location := range entries(grant, "beneficiaryLocation") {
			if code, ok := str(location, "geoCode"); ok && postcodeRe.MatchString(code) {
				c.fail(fmt.Sprintf("%s/beneficiaryLocation/%d/geoCode", prefix, num))
			}
		}
	},
}
