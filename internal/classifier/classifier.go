// Package classifier assigns support tickets to a category with an ordered table of
// keyword patterns. The first matching rule wins; tickets matching nothing fall back to
// Support & Usage.
package classifier

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

type rule struct {
	category domain.Category
	pattern  *regexp.Regexp
}

// rules is evaluated top to bottom. Order encodes priority for tickets that match
// several categories.
var rules = []rule{
	{
		category: domain.CategoryAccess,
		pattern:  regexp.MustCompile(`(?i)(locked|lock(ed)?|cannot log|can't log|can't login|login failed|too many attempts|locked out|2fa|two[- ]fa|two factor|mfa|authenticat)`),
	},
	{
		category: domain.CategoryBilling,
		pattern:  regexp.MustCompile(`(?i)(payment|billing|invoice|charge|paid|card|subscription|fatura|cobranç|boleto)`),
	},
	{
		category: domain.CategoryPerformance,
		pattern:  regexp.MustCompile(`(?i)(slow|lag|timeout|latency|performance|lento|demora|carregando)`),
	},
	{
		category: domain.CategoryIntegrations,
		pattern:  regexp.MustCompile(`(?i)(api|integration|integrat|webhook|sdk|endpoint|oauth|token|callback)`),
	},
	{
		category: domain.CategoryBugs,
		pattern:  regexp.MustCompile(`(?i)(error|bug|exception|stack trace|crash|falha|não funciona|erro)`),
	},
	{
		category: domain.CategoryFeature,
		pattern:  regexp.MustCompile(`(?i)(feature request|request feature|would be nice|improvement|melhoria|recurso)`),
	},
}

// Fallback is returned when no rule matches.
var Fallback = domain.CategorySupport

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// Summarize joins subject and body into one line: line-break runs become a single
// space and the result is trimmed.
func Summarize(t domain.Ticket) string {
	text := t.Subject + "\n" + t.Body()
	return strings.TrimSpace(lineBreaks.ReplaceAllString(text, " "))
}

// Classify returns the category of the ticket.
func Classify(t domain.Ticket) domain.Category {
	return ClassifyText(Summarize(t))
}

// ClassifyText runs the rule table against already summarized text.
func ClassifyText(text string) domain.Category {
	text = strings.ToLower(text)
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.category
		}
	}
	return Fallback
}

// Rule describes one entry of the table for introspection.
type Rule struct {
	Category domain.Category
	Pattern  string
}

// Rules returns the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, Rule{Category: r.category, Pattern: r.pattern.String()})
	}
	return out
}

// Fingerprint identifies the rule table together with the category catalogue. It
// changes whenever a pattern, the rule order, the fallback or an escalation flag
// changes, so derived data keyed by it goes stale with the rules.
func Fingerprint() string {
	return fingerprint()
}

var fingerprint = sync.OnceValue(func() string {
	return fingerprintOf(Rules(), domain.Categories(), Fallback)
})

func fingerprintOf(table []Rule, catalogue []domain.Category, fallback domain.Category) string {
	var buf bytes.Buffer
	for _, r := range table {
		fmt.Fprintf(&buf, "rule\x00%s\x00%s\n", r.Category.Label, r.Pattern)
	}
	for _, c := range catalogue {
		fmt.Fprintf(&buf, "category\x00%s\x00%t\n", c.Label, c.Escalate)
	}
	fmt.Fprintf(&buf, "fallback\x00%s\n", fallback.Label)
	sum := blake2b.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:8])
}
