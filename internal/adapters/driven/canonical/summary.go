package canonical

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
)

// Summarize reads the counts a JUnit report declares about itself. It
// accepts both a <testsuites> aggregate root and a bare <testsuite> root.
// Missing or malformed count attributes read as zero; the summary reflects
// what the report claims, not a recount of its testcase elements.
func Summarize(doc *etree.Document) (domain.ReportSummary, error) {
	root := doc.Root()
	if root == nil {
		return domain.ReportSummary{}, domain.ParseError("document has no root element", nil)
	}

	suites := root.FindElements(".//testsuite")
	if len(suites) == 0 && root.Tag == "testsuite" {
		suites = []*etree.Element{root}
	}

	var summary domain.ReportSummary
	summary.Suites = len(suites)
	for _, suite := range suites {
		summary.Tests += intAttr(suite, "tests")
		summary.Failures += intAttr(suite, "failures")
		summary.Errors += intAttr(suite, "errors")
		summary.Skipped += intAttr(suite, "skipped")
		summary.Time += floatAttr(suite, "time")
	}
	return summary, nil
}

func intAttr(el *etree.Element, name string) int {
	v, err := strconv.Atoi(el.SelectAttrValue(name, "0"))
	if err != nil {
		return 0
	}
	return v
}

func floatAttr(el *etree.Element, name string) float64 {
	v, err := strconv.ParseFloat(el.SelectAttrValue(name, "0"), 64)
	if err != nil {
		return 0
	}
	return v
}
