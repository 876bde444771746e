// Package aggregates computes dataset-wide statistics over a list of
// grants in a single pass. Every check reads these numbers for its
// denominator, and reports show them as the dataset summary.
package aggregates

import (
	"encoding/json"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/orgid"
)

// CurrencyTotals summarises the amounts awarded in one currency.
type CurrencyTotals struct {
	Count          int             `json:"count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	MaxAmount      decimal.Decimal `json:"max_amount"`
	MinAmount      decimal.Decimal `json:"min_amount"`
	CurrencySymbol string          `json:"currency_symbol"`
}

// MarshalJSON writes amounts as JSON numbers rather than strings.
func (c CurrencyTotals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count          int         `json:"count"`
		TotalAmount    json.Number `json:"total_amount"`
		MaxAmount      json.Number `json:"max_amount"`
		MinAmount      json.Number `json:"min_amount"`
		CurrencySymbol string      `json:"currency_symbol"`
	}{
		Count:          c.Count,
		TotalAmount:    json.Number(c.TotalAmount.String()),
		MaxAmount:      json.Number(c.MaxAmount.String()),
		MinAmount:      json.Number(c.MinAmount.String()),
		CurrencySymbol: c.CurrencySymbol,
	})
}

// Aggregates is the read-only snapshot shared by every check in a run.
type Aggregates struct {
	Count                          int                        `json:"count"`
	IDCount                        int                        `json:"id_count"`
	UniqueIDs                      StringSet                  `json:"unique_ids"`
	DuplicateIDs                   StringSet                  `json:"duplicate_ids"`
	MaxAwardDate                   string                     `json:"max_award_date"`
	MinAwardDate                   string                     `json:"min_award_date"`
	AwardYears                     map[string]int             `json:"award_years"`
	DistinctFundingOrgIdentifier   StringSet                  `json:"distinct_funding_org_identifier"`
	DistinctRecipientOrgIdentifier StringSet                  `json:"distinct_recipient_org_identifier"`
	RecipientIndividualsCount      int                        `json:"recipient_individuals_count"`
	Currencies                     map[string]*CurrencyTotals `json:"currencies"`

	RecipientOrgIdentifierPrefixes              map[string]int `json:"recipient_org_identifier_prefixes"`
	RecipientOrgIdentifiersUnrecognisedPrefixes map[string]int `json:"recipient_org_identifiers_unrecognised_prefixes"`
	FundingOrgIdentifierPrefixes                map[string]int `json:"funding_org_identifier_prefixes"`
	FundingOrgIdentifiersUnrecognisedPrefixes   map[string]int `json:"funding_org_identifiers_unrecognised_prefixes"`
}

// Grants returns the "grants" array of a dataset. It reports false when
// the key is missing or is not an array.
func Grants(data jsonvalue.Value) ([]jsonvalue.Value, bool) {
	grants, err := data.LookupArray("grants")
	if err != nil {
		return nil, false
	}
	return grants, true
}

// FromDataset is Compute over the grants of data.
func FromDataset(data jsonvalue.Value, registry *orgid.Registry) *Aggregates {
	grants, _ := Grants(data)
	return Compute(grants, registry)
}

// Compute scans grants once. Malformed fields are skipped for the metric
// they feed; a grant that is not an object is still counted.
func Compute(grants []jsonvalue.Value, registry *orgid.Registry) *Aggregates {
	if registry == nil {
		registry = orgid.DefaultRegistry()
	}
	a := &Aggregates{
		UniqueIDs:                      StringSet{},
		DuplicateIDs:                   StringSet{},
		AwardYears:                     map[string]int{},
		DistinctFundingOrgIdentifier:   StringSet{},
		DistinctRecipientOrgIdentifier: StringSet{},
		Currencies:                     map[string]*CurrencyTotals{},
	}

	var maxAward, minAward string
	for _, grant := range grants {
		a.Count++
		a.addAmount(grant)

		if award, ok := grant.Get("awardDate"); ok && !award.IsNull() {
			if text := award.Text(); text != "" {
				year := text
				if len(year) > 4 {
					year = year[:4]
				}
				a.AwardYears[year]++
				if text > maxAward {
					maxAward = text
				}
				if minAward == "" || text < minAward {
					minAward = text
				}
			}
		}

		if id, ok := grant.Get("id"); ok && id.Truthy() {
			a.IDCount++
			key := id.Text()
			if a.UniqueIDs.Has(key) {
				a.DuplicateIDs.Add(key)
			}
			a.UniqueIDs.Add(key)
		}

		collectOrgIDs(grant, "fundingOrganization", a.DistinctFundingOrgIdentifier)
		collectOrgIDs(grant, "recipientOrganization", a.DistinctRecipientOrgIdentifier)

		if ind, ok := grant.Get("recipientIndividual"); ok && ind.Truthy() {
			a.RecipientIndividualsCount++
		}
	}

	a.MaxAwardDate, _, _ = strings.Cut(maxAward, "T")
	a.MinAwardDate, _, _ = strings.Cut(minAward, "T")

	a.RecipientOrgIdentifierPrefixes, a.RecipientOrgIdentifiersUnrecognisedPrefixes = classify(registry, a.DistinctRecipientOrgIdentifier)
	a.FundingOrgIdentifierPrefixes, a.FundingOrgIdentifiersUnrecognisedPrefixes = classify(registry, a.DistinctFundingOrgIdentifier)
	return a
}

func (a *Aggregates) addAmount(grant jsonvalue.Value) {
	code := ""
	if c, ok := grant.Get("currency"); ok && !c.IsNull() {
		code = c.Text()
	}
	totals, ok := a.Currencies[code]
	if !ok {
		totals = &CurrencyTotals{CurrencySymbol: currencySymbol(code)}
		a.Currencies[code] = totals
	}
	totals.Count++

	amountValue, ok := grant.Get("amountAwarded")
	if !ok || !amountValue.Truthy() {
		return
	}
	amount, ok := amountValue.Num()
	if !ok {
		return
	}
	totals.TotalAmount = totals.TotalAmount.Add(amount)
	totals.MaxAmount = decimal.Max(amount, totals.MaxAmount)
	if totals.MinAmount.IsZero() {
		totals.MinAmount = amount
	}
	totals.MinAmount = decimal.Min(amount, totals.MinAmount)
}

func currencySymbol(code string) string {
	if code == "" {
		return ""
	}
	if c := money.GetCurrency(code); c != nil {
		return c.Grapheme
	}
	return ""
}

func collectOrgIDs(grant jsonvalue.Value, key string, into StringSet) {
	orgs, _ := grant.Get(key)
	for _, org := range orgs.Items() {
		if id, ok := org.Get("id"); ok {
			if s, ok := id.Str(); ok && s != "" {
				into.Add(s)
			}
		}
	}
}

func classify(registry *orgid.Registry, ids StringSet) (recognised, unrecognised map[string]int) {
	recognised = map[string]int{}
	unrecognised = map[string]int{}
	for id := range ids {
		if prefix, ok := registry.Match(id); ok {
			recognised[prefix]++
		} else {
			unrecognised[id]++
		}
	}
	return recognised, unrecognised
}

// CurrencyCountTotal sums the per-currency grant counts. It always equals Count.
func (a *Aggregates) CurrencyCountTotal() int {
	total := 0
	for _, c := range a.Currencies {
		total += c.Count
	}
	return total
}

// Summary is the export form of the aggregates: every set is replaced by
// a "<name>_count" entry, except the funding organisation identifiers,
// which are kept as a sorted list next to their count.
func (a *Aggregates) Summary() map[string]any {
	return map[string]any{
		"count":                                  a.Count,
		"id_count":                               a.IDCount,
		"unique_ids_count":                       len(a.UniqueIDs),
		"duplicate_ids_count":                    len(a.DuplicateIDs),
		"max_award_date":                         a.MaxAwardDate,
		"min_award_date":                         a.MinAwardDate,
		"award_years":                            a.AwardYears,
		"distinct_funding_org_identifier":        a.DistinctFundingOrgIdentifier.Sorted(),
		"distinct_funding_org_identifier_count":  len(a.DistinctFundingOrgIdentifier),
		"distinct_recipient_org_identifier_count": len(a.DistinctRecipientOrgIdentifier),
		"recipient_individuals_count":            a.RecipientIndividualsCount,
		"currencies":                             a.Currencies,
		"recipient_org_identifier_prefixes":      a.RecipientOrgIdentifierPrefixes,
		"recipient_org_identifiers_unrecognised_prefixes": a.RecipientOrgIdentifiersUnrecognisedPrefixes,
		"funding_org_identifier_prefixes":                 a.FundingOrgIdentifierPrefixes,
		"funding_org_identifiers_unrecognised_prefixes":   a.FundingOrgIdentifiersUnrecognisedPrefixes,
	}
}
