// Package checks implements the catalogue of per-grant data quality checks
// and the runner that drives them over a dataset.
//
// Every check is described by a Kind. A run creates one Check per Kind,
// feeds it every grant in dataset order and then asks it for a message.
package checks

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/aggregates"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/dates"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/models"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/orgid"
)

// Class is a named group of checks that is run and reported together.
type Class string

const (
	QualityAccuracy Class = "quality_accuracy"
	Usefulness      Class = "usefulness"
	FieldPresence   Class = "fields"
)

// Relevance selects the grants a check's percentage is measured against.
// Its value doubles as the label in headings.
type Relevance string

const (
	RecipientAny          Relevance = ""
	RecipientOrganisation Relevance = "recipient organisation"
	RecipientIndividual   Relevance = "recipient individual"
)

// Category groups checks for display.
type Category string

const (
	CategoryGrants         Category = "Grants"
	CategoryOrganisations  Category = "Organisations"
	CategoryDataProtection Category = "Data Protection"
	CategoryDates          Category = "Dates"
	CategoryLocation       Category = "Location"
	CategoryMetadata       Category = "Metadata"
)

// Importance ranks findings. Critical findings concern personal data.
type Importance int

const (
	ImportanceNone     Importance = 0
	ImportanceCritical Importance = 100
)

// Env is the read-only context shared by every check of one run.
type Env struct {
	Grants     []jsonvalue.Value
	Aggregates *aggregates.Aggregates
	Registry   *orgid.Registry
	// Dates caches parsed grant dates for the length of the run.
	Dates *dates.Cache
	// Now is the reference time of the date range checks.
	Now time.Time
}

// NewEnv builds an Env. A nil aggregates snapshot is computed from grants,
// a nil registry means orgid.DefaultRegistry and a zero now means the
// current time. Dates are parsed in now's location.
func NewEnv(grants []jsonvalue.Value, aggs *aggregates.Aggregates, registry *orgid.Registry, now time.Time) *Env {
	if registry == nil {
		registry = orgid.DefaultRegistry()
	}
	if aggs == nil {
		aggs = aggregates.Compute(grants, registry)
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &Env{
		Grants:     grants,
		Aggregates: aggs,
		Registry:   registry,
		Dates:      dates.NewCache(now.Location()),
		Now:        now,
	}
}

// Kind describes one check of the catalogue.
type Kind struct {
	// Name is reported as the message type, e.g. "ZeroAmountTest".
	Name       string
	Class      Class
	Relevance  Relevance
	Category   Category
	Importance Importance
	// Heading is the text following the grant count, e.g. "a value of £0".
	Heading string
	// Verb joins the count and the heading. Empty means "have".
	Verb     string
	Messages RangeTable

	process func(c *check, grant jsonvalue.Value, prefix string)
	// heading replaces the counted heading when set.
	heading func(c *check) string
}

// New returns a fresh instance of the check for one run.
func (k *Kind) New(env *Env) Check {
	return &check{kind: k, env: env}
}

func (k *Kind) String() string { return k.Name }

// Check is one running instance of a Kind. Instances are used for a single
// run and are not safe for concurrent use.
type Check interface {
	Kind() *Kind
	// Process inspects one grant. pathPrefix is the grant's pointer, such
	// as "grants/3"; failure locations are appended to it.
	Process(grant jsonvalue.Value, pathPrefix string)
	// Failed reports whether any grant failed the check.
	Failed() bool
	// JSONLocations lists the pointers of the failures found so far.
	JSONLocations() []string
	// ProduceMessage renders the outcome. It must be called once, after
	// every grant has been processed.
	ProduceMessage() models.CheckMessage
}

type check struct {
	kind       *Kind
	env        *Env
	count      int
	percentage float64
	failed     bool
	locations  []string

	// seen holds the distinct values collected by checks that look across
	// grants.
	seen []jsonvalue.Value
}

func (c *check) Kind() *Kind { return c.kind }

func (c *check) Process(grant jsonvalue.Value, pathPrefix string) {
	c.kind.process(c, grant, pathPrefix)
}

func (c *check) Failed() bool { return c.failed }

func (c *check) JSONLocations() []string { return c.locations }

// fail records a failing location and counts it.
func (c *check) fail(location string) {
	c.record(location)
	c.count++
}

// record records a failing location without counting it, for checks that
// count a grant once however many of its entries fail.
func (c *check) record(location string) {
	c.failed = true
	c.locations = append(c.locations, location)
}

func (c *check) ProduceMessage() models.CheckMessage {
	var heading string
	if c.kind.heading != nil {
		heading = c.kind.heading(c)
	} else {
		heading = c.formatHeading()
	}
	return models.CheckMessage{
		Heading:    heading,
		Message:    c.kind.Messages.Lookup(c.percentage),
		Type:       c.kind.Name,
		Count:      c.count,
		Percentage: c.percentage,
		Category:   string(c.kind.Category),
		Importance: int(c.kind.Importance),
	}
}

// denominator returns the number of grants the check is relevant to,
// never less than 1. With no individual recipients in the dataset an
// individual-only check has nothing to report, so its count is reset.
func (c *check) denominator() int {
	a := c.env.Aggregates
	var total int
	switch c.kind.Relevance {
	case RecipientOrganisation:
		total = a.Count - a.RecipientIndividualsCount
	case RecipientIndividual:
		if a.RecipientIndividualsCount == 0 {
			c.count = 0
		}
		total = a.RecipientIndividualsCount
	default:
		total = a.Count
	}
	if total < 1 {
		total = 1
	}
	return total
}

// countText sets the percentage and returns the leading part of the
// heading.
func (c *check) countText() string {
	c.percentage = float64(c.count) / float64(c.denominator())
	label := string(c.kind.Relevance)

	if c.kind.Class == QualityAccuracy {
		return strconv.Itoa(c.count)
	}
	if c.env.Aggregates.Count == 1 && c.count == 1 {
		c.percentage = 1.0
		return strings.TrimSpace("1 " + label)
	}
	if c.count <= 5 {
		return strings.TrimSpace(fmt.Sprintf("%d %s", c.count, label))
	}
	return strings.TrimSpace(fmt.Sprintf("%d%% of %s", int(math.RoundToEven(c.percentage*100)), label))
}

// formatHeading builds "{count} {grant|grants} {verb} {heading}". With
// nothing to report a negative heading is turned around: "do not contain
// any X" becomes "do contain any X" and "have not have X" becomes "do not
// have X".
func (c *check) formatHeading() string {
	countText := c.countText()

	text, verb := c.kind.Heading, c.kind.Verb
	if verb == "" {
		verb = "have"
	}
	if c.count == 0 {
		switch {
		case strings.HasPrefix(text, "not have"):
			verb = "do"
		case strings.HasPrefix(text, "not"):
			text = strings.TrimSpace(strings.TrimPrefix(text, "not"))
		}
	}

	noun := "grants"
	if c.count == 1 {
		noun = "grant"
		switch verb {
		case "have":
			verb = "has"
		case "do":
			verb = "does"
		default:
			verb += "s"
		}
	}
	return fmt.Sprintf("%s %s %s %s", countText, noun, verb, text)
}

// tryField runs a field lookup and reports whether it succeeded. A missing
// or mistyped field gives false; any other error is a bug in the check and
// panics, to be recovered by Run.
func tryField(lookup func() error) bool {
	err := lookup()
	if err == nil {
		return true
	}
	if errors.Is(err, jsonvalue.ErrAbsent) {
		return false
	}
	panic(errors.Wrap(err, "field check"))
}

// entries returns the array under key, or nil when it is missing or not an
// array.
func entries(grant jsonvalue.Value, key string) []jsonvalue.Value {
	var items []jsonvalue.Value
	tryField(func() (err error) {
		items, err = grant.LookupArray(key)
		return err
	})
	return items
}

// str returns the string member key of obj.
func str(obj jsonvalue.Value, key string) (string, bool) {
	var s string
	ok := tryField(func() (err error) {
		s, err = obj.LookupString(key)
		return err
	})
	return s, ok
}

// truthy reports whether obj has a member key with a truthy value.
func truthy(obj jsonvalue.Value, key string) bool {
	v, ok := obj.Get(key)
	return ok && v.Truthy()
}

func orgLocation(prefix, orgType string, num int, field string) string {
	return fmt.Sprintf("%s/%s/%d/%s", prefix, orgType, num, field)
}
