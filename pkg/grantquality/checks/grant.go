package checks

import (
	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

const maxTitleLength = 140

var ZeroAmountTest = &Kind{
	Name:     "ZeroAmountTest",
	Class:    QualityAccuracy,
	Category: CategoryGrants,
	Heading:  "a value of £0",
	Messages: always("It’s worth taking a look at these grants and deciding if they should be " +
		"included in your data. It’s unusual to have grants of £0, but there may be a " +
		"reasonable explanation. If £0 value grants are to be published in your data " +
		"consider adding an explanation to the description of the grant to help anyone " +
		"using the data to understand how to interpret the information."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		// Only a numeric zero; other falsy amounts are left to the schema.
		amount, ok := grant.Get("amountAwarded")
		if !ok {
			return
		}
		if n, ok := amount.Num(); ok && n.IsZero() {
			c.fail(prefix + "/amountAwarded")
		}
	},
}

var RecipientIndWithoutToIndividualsDetails = &Kind{
	Name:      "RecipientIndWithoutToIndividualsDetails",
	Class:     QualityAccuracy,
	Relevance: RecipientIndividual,
	Category:  CategoryGrants,
	Heading:   "Recipient Ind but no To Individuals Details:Grant Purpose or To Individuals Details:Primary Grant Reason",
	Messages: always("Your data contains grants to individuals, but without the grant " +
		"purpose or grant reason codes. This can make it difficult to use data " +
		"on grants to individuals, as much of the information is anonymised, so " +
		"it is recommended that you share these codes for all grants to individuals."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		if grant.Has("recipientIndividual") && !grant.Has("toIndividualsDetails") {
			c.fail(prefix + "/recipientIndividual/id")
		}
	},
}

var NoGrantProgramme = &Kind{
	Name:     "NoGrantProgramme",
	Class:    Usefulness,
	Category: CategoryGrants,
	Heading:  "not contain any Grant Programme fields",
	Verb:     "do",
	Messages: always("Grant programme names help users to understand a funder’s different types of " +
		"funding and priorities, and see how their grants vary across and within these. " +
		"This information is especially useful when it refers to the communities, " +
		"sectors, issues or places that are the focus of the programme. If your " +
		"organisation does not have grant programmes this notice can be ignored."),
	process: missing("grantProgramme"),
}

var TitleDescriptionSame = &Kind{
	Name:     "TitleDescriptionSame",
	Class:    Usefulness,
	Category: CategoryGrants,
	Heading:  "a title and a description that are the same",
	Messages: always("Users may find that the data is less useful as they are unable to discover more about the grants. " +
		"Consider including a more detailed description if you have one."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		title, okTitle := grant.Get("title")
		description, okDescription := grant.Get("description")
		if okTitle && okDescription && title.Truthy() && description.Truthy() && title.Equal(description) {
			c.fail(prefix + "/description")
		}
	},
}

var TitleLength = &Kind{
	Name:     "TitleLength",
	Class:    Usefulness,
	Category: CategoryGrants,
	Heading:  "a title that is longer than recommended",
	Messages: always("Titles for grant activities should be under 140 characters long so that people " +
		"can quickly understand the purpose of the grant."),
	process: func(c *check, grant jsonvalue.Value, prefix string) {
		if title, ok := grant.Get("title"); ok && title.Len() > maxTitleLength {
			c.fail(prefix + "/title")
		}
	},
}

// missing fails grants whose key is absent or falsy, pointing at the
// grant's id.
func missing(key string) func(*check, jsonvalue.Value, string) {
	return func(c *check, grant jsonvalue.Value, prefix string) {
		if !truthy(grant, key) {
			c.fail(prefix + "/id")
		}
	}
}
