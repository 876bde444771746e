package checks

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/orgid"
)

func TestCatalogueChecks(t *testing.T) {
	tests := []struct {
		name      string
		kind      *Kind
		grants    string
		count     int
		locations []string
	}{
		{
			name: "zero amount",
			kind: ZeroAmountTest,
			grants: `[
				{"amountAwarded": 0},
				{"amountAwarded": 0.0},
				{"amountAwarded": "0"},
				{"amountAwarded": false},
				{"amountAwarded": 10},
				{}
			]`,
			count:     2,
			locations: []string{"grants/0/amountAwarded", "grants/1/amountAwarded"},
		},
		{
			name: "organisation id looks invalid",
			kind: OrganizationIdLooksInvalid,
			grants: `[
				{"recipientOrganization": [{"id": "GB-CHC-1234"}]},
				{"recipientOrganization": [{"id": "GB-CHC-123456"}]},
				{"fundingOrganization": [{"id": "gb-coh-0123456"}], "recipientOrganization": [{"id": "GB-COH-SC123456"}]},
				{"recipientOrganization": [{"id": 5}, {"name": "no id"}, {"id": ""}]}
			]`,
			count:     2,
			locations: []string{"grants/0/recipientOrganization/0/id", "grants/2/fundingOrganization/0/id"},
		},
		{
			name: "charity number",
			kind: RecipientOrgCharityNumber,
			grants: `[
				{"recipientOrganization": [
					{"charityNumber": "SC012345"},
					{"charityNumber": 1234567},
					{"charityNumber": "12345"},
					{"charityNumber": "1234X6"},
					{"name": "none"}
				]},
				{"recipientOrganization": [{"charityNumber": 123456.0}]},
				{"recipientOrganization": [{"charityNumber": "123456"}]}
			]`,
			count: 2,
			locations: []string{
				"grants/0/recipientOrganization/2/charityNumber",
				"grants/0/recipientOrganization/3/charityNumber",
				"grants/1/recipientOrganization/0/charityNumber",
			},
		},
		{
			name: "company number",
			kind: RecipientOrgCompanyNumber,
			grants: `[
				{"recipientOrganization": [{"companyNumber": "09876543"}, {"companyNumber": "SC123459"}]},
				{"recipientOrganization": [{"companyNumber": "1234567"}, {"companyNumber": "123-4567"}]},
				{"recipientOrganization": [{"companyNumber": 12345678}]}
			]`,
			count: 1,
			locations: []string{
				"grants/1/recipientOrganization/0/companyNumber",
				"grants/1/recipientOrganization/1/companyNumber",
			},
		},
		{
			name: "impossible dates",
			kind: ImpossibleDates,
			grants: `[
				{"awardDate": "2024-02-30"},
				{"awardDate": "2024/02/30"},
				{"awardDate": "2023-02-29T10:00:00"},
				{"awardDate": "2024-02-29", "plannedDates": [{"startDate": "2024-13-01"}]},
				{"awardDate": "2024-01-01", "actualDates": [{"startDate": "2024-04-31", "endDate": "2024-04-31"}]}
			]`,
			count: 3,
			locations: []string{
				"grants/0/awardDate",
				"grants/2/awardDate",
				"grants/4/actualDates/0/startDate",
			},
		},
		{
			name: "planned start after end",
			kind: PlannedStartDateBeforeEndDate,
			grants: `[
				{"plannedDates": [{"startDate": "2024-05-01", "endDate": "2024-04-01"}]},
				{"plannedDates": [{"startDate": "2024-04-01", "endDate": "2024-04-01T12:00:00Z"}]},
				{"plannedDates": [{"startDate": "2024-05-01", "endDate": "2024-02-30"}]},
				{"plannedDates": [{"startDate": "2024-05-01"}]}
			]`,
			count:     1,
			locations: []string{"grants/0/plannedDates/0/startDate"},
		},
		{
			name: "actual start after end",
			kind: ActualStartDateBeforeEndDate,
			grants: `[
				{"actualDates": [{"startDate": "2020-01-02", "endDate": "2020-01-01"}]},
				{"plannedDates": [{"startDate": "2020-01-02", "endDate": "2020-01-01"}]}
			]`,
			count:     1,
			locations: []string{"grants/0/actualDates/0/startDate"},
		},
		{
			name: "far future planned dates",
			kind: FarFuturePlannedDates,
			grants: `[
				{"plannedDates": [{"startDate": "2030-01-01", "endDate": "2036-06-02"}]},
				{"plannedDates": [{"startDate": "2030-01-01", "endDate": "2036-06-01"}]},
				{"plannedDates": [{"startDate": "2040-01-01", "endDate": "2041-01-01"}]}
			]`,
			count:     2,
			locations: []string{"grants/0/plannedDates/0/endDate", "grants/2/plannedDates/0/startDate"},
		},
		{
			name: "far future actual dates",
			kind: FarFutureActualDates,
			grants: `[
				{"actualDates": [{"startDate": "2029-06-02"}]},
				{"actualDates": [{"startDate": "2029-06-01"}]}
			]`,
			count:     1,
			locations: []string{"grants/0/actualDates/0/startDate"},
		},
		{
			name: "far past dates",
			kind: FarPastDates,
			grants: `[
				{"awardDate": "1999-06-01"},
				{"awardDate": "1999-06-02"},
				{"awardDate": "2020-01-01", "actualDates": [{"endDate": "1990-01-01"}]}
			]`,
			count:     2,
			locations: []string{"grants/0/awardDate", "grants/2/actualDates/0/endDate"},
		},
		{
			name: "post dated award dates",
			kind: PostDatedAwardDates,
			grants: `[
				{"awardDate": "2024-06-02"},
				{"awardDate": "2024-06-01"},
				{"awardDate": "2025-02-30"}
			]`,
			count:     1,
			locations: []string{"grants/0/awardDate"},
		},
		{
			name: "looks like email",
			kind: LooksLikeEmail,
			grants: `[{
				"id": "360G-1",
				"title": "Contact moo@moo.com for details",
				"contact_email": "a@b.com",
				"recipientOrganization": [{"email": "x@y.org", "name": "see x@y.org"}],
				"tags": ["z@z.io", 4]
			}]`,
			count: 3,
			locations: []string{
				"grants/0/recipientOrganization/0/name",
				"grants/0/tags/0",
				"grants/0/title",
			},
		},
		{
			name: "geo code postcode",
			kind: GeoCodePostcode,
			grants: `[
				{"recipientIndividual": {"id": "i"}, "beneficiaryLocation": [
					{"geoCode": " sw1a 1aa "},
					{"geoCode": "E09000033"},
					{"geoCode": "M1 1AE"}
				]},
				{"beneficiaryLocation": [{"geoCode": "M1 1AE"}]}
			]`,
			count: 2,
			locations: []string{
				"grants/0/beneficiaryLocation/0/geoCode",
				"grants/0/beneficiaryLocation/2/geoCode",
			},
		},
		{
			name: "recipient individual without details",
			kind: RecipientIndWithoutToIndividualsDetails,
			grants: `[
				{"recipientIndividual": {"id": "i1"}},
				{"recipientIndividual": {"id": "i2"}, "toIndividualsDetails": {}}
			]`,
			count:     1,
			locations: []string{"grants/0/recipientIndividual/id"},
		},
		{
			name: "recipient individual with DEI",
			kind: RecipientIndDEI,
			grants: `[
				{"recipientIndividual": {"id": "i1"}, "project": []},
				{"recipientIndividual": {"id": "i2"}}
			]`,
			count:     1,
			locations: []string{"grants/0/recipientIndividual/id"},
		},
		{
			name: "recipient org 360G prefix",
			kind: RecipientOrg360GPrefix,
			grants: `[
				{"recipientOrganization": [{"id": "360G-x"}, {"id": "360g-y"}, {"id": "GB-CHC-1"}]},
				{"recipientOrganization": [{"name": "no id"}, {"id": 360}]}
			]`,
			count: 2,
			locations: []string{
				"grants/0/recipientOrganization/0/id",
				"grants/0/recipientOrganization/1/id",
			},
		},
		{
			name:      "funding org 360G prefix",
			kind:      FundingOrg360GPrefix,
			grants:    `[{"fundingOrganization": [{"id": "GB-COH-1"}, {"id": "360G-f"}]}]`,
			count:     1,
			locations: []string{"grants/0/fundingOrganization/1/id"},
		},
		{
			name: "no company or charity number",
			kind: NoRecipientOrgCompanyCharityNumber,
			grants: `[
				{"recipientOrganization": [{"id": "a", "companyNumber": ""}, {"id": "b", "charityNumber": "123456"}]},
				{"recipientOrganization": [{"id": "c"}, {"id": "d"}]},
				{"recipientIndividual": {"id": "i"}}
			]`,
			count: 2,
			locations: []string{
				"grants/0/recipientOrganization/0/id",
				"grants/1/recipientOrganization/0/id",
				"grants/1/recipientOrganization/1/id",
			},
		},
		{
			name: "incomplete recipient org",
			kind: IncompleteRecipientOrg,
			grants: `[
				{"recipientOrganization": [{"id": "a", "postalCode": "M1 1AE"}]},
				{"recipientOrganization": [{"id": "b", "location": [{"geoCode": "E1"}]}]},
				{"recipientOrganization": [{"id": "c", "location": [{"geoCode": "E1", "geoCodeType": "LAD"}]}]}
			]`,
			count:     1,
			locations: []string{"grants/1/recipientOrganization/0/id"},
		},
		{
			name:      "no grant programme",
			kind:      NoGrantProgramme,
			grants:    `[{"id": "a", "grantProgramme": [{"title": "x"}]}, {"id": "b", "grantProgramme": []}, {"id": "c"}]`,
			count:     2,
			locations: []string{"grants/1/id", "grants/2/id"},
		},
		{
			name:      "no beneficiary location",
			kind:      NoBeneficiaryLocation,
			grants:    `[{"id": "a", "beneficiaryLocation": [{"name": "Leeds"}]}, {"id": "b"}]`,
			count:     1,
			locations: []string{"grants/1/id"},
		},
		{
			name: "title and description the same",
			kind: TitleDescriptionSame,
			grants: `[
				{"title": "Grant", "description": "Grant"},
				{"title": "Grant", "description": "A grant to run a club"},
				{"title": "", "description": ""}
			]`,
			count:     1,
			locations: []string{"grants/0/description"},
		},
		{
			name:      "no last modified",
			kind:      NoLastModified,
			grants:    `[{"dateModified": "2024-01-01T00:00:00Z"}, {"dateModified": null}]`,
			count:     1,
			locations: []string{"grants/1/id"},
		},
		{
			name:      "no data source",
			kind:      NoDataSource,
			grants:    `[{"dataSource": ""}, {"dataSource": "https://example.org/grants.xlsx"}]`,
			count:     1,
			locations: []string{"grants/0/id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, msg := runKind(t, tt.kind, parseGrants(t, tt.grants))
			assert.True(t, c.Failed())
			assert.Equal(t, tt.locations, c.JSONLocations())
			assert.Equal(t, tt.count, msg.Count)
			assert.Equal(t, tt.kind.Name, msg.Type)
			assert.Equal(t, string(tt.kind.Category), msg.Category)
			assert.NotEmpty(t, msg.Message)
		})
	}
}

func TestTitleLength(t *testing.T) {
	long := jsonvalue.NewString(string(make([]rune, 141)))
	exact := jsonvalue.NewString(string(make([]rune, 140)))
	grants := []jsonvalue.Value{
		jsonvalue.NewObject(jsonvalue.Member{Key: "title", Value: long}),
		jsonvalue.NewObject(jsonvalue.Member{Key: "title", Value: exact}),
		jsonvalue.NewObject(),
	}
	c, msg := runKind(t, TitleLength, grants)
	assert.Equal(t, []string{"grants/0/title"}, c.JSONLocations())
	assert.Equal(t, "1 grant has a title that is longer than recommended", msg.Heading)
}

func TestUnrecognisedPrefix(t *testing.T) {
	grants := parseGrants(t, `[
		{"fundingOrganization": [{"id": "gb-chc-1"}, {"id": "XX-1"}, {"id": "YY-2"}]},
		{"fundingOrganization": [{"id": "360G-abc"}]},
		{"fundingOrganization": [{"name": "no id"}]}
	]`)
	env := NewEnv(grants, nil, orgid.NewRegistry([]string{"GB-CHC", "GB-COH"}), fixedNow)

	c := FundingOrgUnrecognisedPrefix.New(env)
	for n, g := range grants {
		c.Process(g, fmt.Sprintf("grants/%d", n))
	}
	msg := c.ProduceMessage()

	assert.Equal(t, []string{"grants/0/fundingOrganization/1/id", "grants/0/fundingOrganization/2/id"}, c.JSONLocations())
	assert.Equal(t, 1, msg.Count)
	assert.Equal(t, "1 grant has a Funding Org:Identifier that does not draw from a recognised register", msg.Heading)
}

func TestMoreThanOneFundingOrg(t *testing.T) {
	grants := parseGrants(t, `[
		{"fundingOrganization": [{"id": "GB-CHC-1"}, {"id": "GB-CHC-1"}]},
		{"fundingOrganization": [{"id": "GB-COH-2"}, {"id": ""}]},
		{"fundingOrganization": [{"id": "GB-CHC-1"}]}
	]`)
	c, msg := runKind(t, MoreThanOneFundingOrg, grants)

	assert.True(t, c.Failed())
	assert.Equal(t, []string{"grants/0/fundingOrganization/0/id", "grants/1/fundingOrganization/0/id"}, c.JSONLocations())
	assert.Equal(t, "2 different funding organisation identifiers listed", msg.Heading)
	assert.Equal(t, 0, msg.Count)
	assert.Zero(t, msg.Percentage)

	single, _ := runKind(t, MoreThanOneFundingOrg, grants[:1])
	assert.False(t, single.Failed())
}

func TestDataProtectionImportance(t *testing.T) {
	for _, k := range QualityChecks {
		if k.Category == CategoryDataProtection {
			assert.Equal(t, ImportanceCritical, k.Importance, k.Name)
		} else {
			assert.Equal(t, ImportanceNone, k.Importance, k.Name)
		}
	}
}

func TestFieldChecks(t *testing.T) {
	tests := []struct {
		kind      *Kind
		grants    string
		locations []string
	}{
		{
			kind:      ClassificationNotPresent,
			grants:    `[{"classifications": [{"title": ""}]}, {"classifications": []}, {"classifications": [{"code": "x"}]}]`,
			locations: []string{"grants/1/id", "grants/2/id"},
		},
		{
			kind:      BeneficiaryLocationNameNotPresent,
			grants:    `[{"beneficiaryLocation": [{"name": "Leeds"}]}, {"beneficiaryLocation": "Leeds"}]`,
			locations: []string{"grants/1/id"},
		},
		{
			kind:      BeneficiaryLocationCountryCodeNotPresent,
			grants:    `[{"beneficiaryLocation": [{"countryCode": "GB"}]}, {}]`,
			locations: []string{"grants/1/id"},
		},
		{
			kind:      BeneficiaryLocationGeoCodeNotPresent,
			grants:    `[{"beneficiaryLocation": [{"name": "Leeds"}]}]`,
			locations: []string{"grants/0/id"},
		},
		{
			kind: PlannedDurationNotPresent,
			grants: `[
				{"plannedDates": [{"duration": 12}]},
				{"plannedDates": [{"startDate": "2024-01-01", "endDate": "2024-12-31"}]},
				{"plannedDates": [{"startDate": "2024-01-01"}]},
				{}
			]`,
			locations: []string{"grants/2/id", "grants/3/id"},
		},
		{
			kind:      GrantProgrammeTitleNotPresent,
			grants:    `[{"grantProgramme": [{"title": "Main"}]}, {"grantProgramme": [{"code": "M"}]}]`,
			locations: []string{"grants/1/id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind.Name, func(t *testing.T) {
			c, msg := runKind(t, tt.kind, parseGrants(t, tt.grants))
			assert.Equal(t, tt.locations, c.JSONLocations())
			assert.Equal(t, FieldPresence, tt.kind.Class)
			assert.Contains(t, msg.Message, "Providing ")
		})
	}
}

func TestIndividualsCodeListsNotPresent(t *testing.T) {
	grants := parseGrants(t, `[
		{"recipientOrganization": [{"id": "x"}]},
		{"recipientIndividual": {"id": "i1"}, "toIndividualsDetails": {"grantPurpose": ["GTIP010"]}},
		{"recipientIndividual": {"id": "i2"}, "toIndividualsDetails": {"primaryGrantReason": ""}},
		{"recipientIndividual": {"id": "i3"}}
	]`)
	c, msg := runKind(t, IndividualsCodeListsNotPresent, grants)

	assert.Equal(t, []string{"grants/2/id", "grants/3/id"}, c.JSONLocations())
	assert.Equal(t, "2 recipient individual grants do not contain "+
		"toIndividualsDetails/grantPurpose or toIndividualsDetails/primaryGrantReason field", msg.Heading)
	assert.InDelta(t, 2.0/3, msg.Percentage, 1e-9)
	assert.Equal(t, "Providing toIndividualsDetails/grantPurpose or toIndividualsDetails/primaryGrantReason "+
		"field helps people to understand the grant information.", msg.Message)
}

func TestKindsFor(t *testing.T) {
	kinds, ok := KindsFor(QualityAccuracy)
	require.True(t, ok)
	assert.Len(t, kinds, 18)
	assert.Equal(t, "ZeroAmountTest", kinds[0].Name)

	kinds, ok = KindsFor(Usefulness)
	require.True(t, ok)
	assert.Len(t, kinds, 10)

	_, ok = KindsFor("nope")
	assert.False(t, ok)

	class, ok := ParseClass(" Usefulness ")
	require.True(t, ok)
	assert.Equal(t, Usefulness, class)

	k, ok := KindByName("PlannedDurationNotPresent")
	require.True(t, ok)
	assert.Equal(t, FieldPresence, k.Class)

	for _, class := range Classes() {
		kinds, _ := KindsFor(class)
		for _, k := range kinds {
			assert.Equal(t, class, k.Class, k.Name)
		}
	}
}

func TestSampleMessages(t *testing.T) {
	messages, ok := SampleMessages(Usefulness)
	require.True(t, ok)
	require.Len(t, messages, len(UsefulnessChecks))

	byType := map[string]string{}
	for _, m := range messages {
		assert.Equal(t, 2, m.Count)
		assert.Equal(t, 0.5, m.Percentage)
		byType[m.Type] = m.Heading
	}
	assert.Equal(t, "1 grant does not contain any Grant Programme fields", byType["NoGrantProgramme"])
	assert.Equal(t, "0 grants have a title that is longer than recommended", byType["TitleLength"])

	quality, ok := SampleMessages(QualityAccuracy)
	require.True(t, ok)
	for _, m := range quality {
		if m.Type == "MoreThanOneFundingOrg" {
			assert.Equal(t, "0 different funding organisation identifiers listed", m.Heading)
		}
	}

	_, ok = SampleMessages("nope")
	assert.False(t, ok)
}
