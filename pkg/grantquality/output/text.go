package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ukaji3/grantquality-go/pkg/grantquality"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/aggregates"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/checks"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/models"
)

var classTitles = map[checks.Class]string{
	checks.QualityAccuracy: "Quality & accuracy",
	checks.Usefulness:      "Usefulness",
	checks.FieldPresence:   "Field presence",
}

// Text renders results for a terminal.
type Text struct {
	p *message.Printer

	title    *color.Color
	critical *color.Color
	warning  *color.Color
	ok       *color.Color
	faint    *color.Color
}

// NewText creates a Text renderer. Colors are only written when colored is
// set.
func NewText(colored bool) *Text {
	t := &Text{
		p:        message.NewPrinter(language.English),
		title:    color.New(color.FgCyan, color.Bold),
		critical: color.New(color.FgRed, color.Bold),
		warning:  color.New(color.FgYellow),
		ok:       color.New(color.FgGreen),
		faint:    color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{t.title, t.critical, t.warning, t.ok, t.faint} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// WriteResult writes the summary, the validation error counts and the
// failed checks of every class.
func (t *Text) WriteResult(w io.Writer, r *grantquality.Result) error {
	var b strings.Builder

	t.title.Fprintf(&b, "Grant data quality report\n")
	t.faint.Fprintf(&b, "run %s at %s (%s)\n\n", r.RunID, r.GeneratedAt.UTC().Format("2006-01-02 15:04:05"), r.FileType)

	if r.Aggregates != nil {
		t.writeAggregates(&b, r.Aggregates)
	}

	t.title.Fprintf(&b, "Validation\n")
	if r.ValidationAndClosedCodelistErrorsCount == 0 {
		t.ok.Fprintf(&b, "  no validation errors\n")
	} else {
		b.WriteString(t.p.Sprintf("  %d validation errors, %d closed codelist values\n",
			r.ValidationErrorsCount, r.ValidationAndClosedCodelistErrorsCount-r.ValidationErrorsCount))
		for _, group := range []string{grantquality.GroupRequired, grantquality.GroupFormat, grantquality.GroupOther} {
			if n := len(r.ValidationErrors[group]); n > 0 {
				b.WriteString(t.p.Sprintf("    %-8s %d\n", group, n))
			}
		}
	}
	if n := len(r.AdditionalOpenCodelist); n > 0 {
		b.WriteString(t.p.Sprintf("  %d fields use values outside their open codelist\n", n))
	}
	b.WriteString("\n")

	for _, c := range r.Classes {
		t.writeClass(&b, c)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (t *Text) writeAggregates(b *strings.Builder, a *aggregates.Aggregates) {
	t.title.Fprintf(b, "Grants\n")
	b.WriteString(t.p.Sprintf("  %d grants", a.Count))
	if a.MinAwardDate != "" {
		fmt.Fprintf(b, " awarded %s to %s", a.MinAwardDate, a.MaxAwardDate)
	}
	b.WriteString("\n")
	b.WriteString(t.p.Sprintf("  %d funders, %d recipient organisations, %d individuals\n",
		len(a.DistinctFundingOrgIdentifier), len(a.DistinctRecipientOrgIdentifier), a.RecipientIndividualsCount))

	codes := make([]string, 0, len(a.Currencies))
	for code := range a.Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		c := a.Currencies[code]
		label := code
		if label == "" {
			label = "(none)"
		}
		b.WriteString(t.p.Sprintf("  %-6s %d grants, total %s, largest %s, smallest %s\n",
			label, c.Count, FormatAmount(c.TotalAmount, code), FormatAmount(c.MaxAmount, code), FormatAmount(c.MinAmount, code)))
	}
	b.WriteString("\n")
}

func (t *Text) writeClass(b *strings.Builder, c grantquality.ClassResult) {
	title, ok := classTitles[c.Class]
	if !ok {
		title = string(c.Class)
	}
	t.title.Fprintf(b, "%s\n", title)
	switch {
	case c.Errored:
		t.critical.Fprintf(b, "  could not be checked\n")
	case c.Count() == 0:
		t.ok.Fprintf(b, "  all checks passed\n")
	default:
		for _, r := range c.Checks {
			t.writeCheck(b, r)
		}
	}
	b.WriteString("\n")
}

func (t *Text) writeCheck(b *strings.Builder, r models.CheckResult) {
	m := r.Message
	marker := t.warning
	if m.Importance >= int(checks.ImportanceCritical) {
		marker = t.critical
	}
	marker.Fprintf(b, "  %s ", "●")
	b.WriteString(m.Heading)
	t.faint.Fprint(b, t.p.Sprintf(" [%s, %.1f%%]\n", m.Category, m.Percentage*100))
	if len(r.JSONLocations) > 0 {
		t.faint.Fprint(b, t.p.Sprintf("    first at %s (%d places)\n", r.JSONLocations[0], len(r.JSONLocations)))
	}
}

// WriteMessages lists rendered check messages, for reviewing the wording.
func (t *Text) WriteMessages(w io.Writer, class checks.Class, messages []models.CheckMessage) error {
	var b strings.Builder
	title, ok := classTitles[class]
	if !ok {
		title = string(class)
	}
	t.title.Fprintf(&b, "%s\n", title)
	for _, m := range messages {
		fmt.Fprintf(&b, "  %s\n", m.Type)
		fmt.Fprintf(&b, "    %s\n", m.Heading)
		t.faint.Fprintf(&b, "    %s\n", m.Message)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatAmount writes amount in code's currency, such as "£1,250.50".
// Amounts in an unknown currency keep their decimal form followed by the
// code.
func FormatAmount(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return strings.TrimSpace(amount.String() + " " + code)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
