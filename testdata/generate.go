//go:build ignore

// This program generates large JUnit report fixtures for performance testing.
// Run with: go run testdata/generate.go -suites 200 -tests 50 -output testdata/large-report.xml
package main

import (
	"flag"
	"fmt"
	"os"
	"text/template"
)

var reportTemplate = template.Must(template.New("report").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<testsuites name="{{.Name}}" tests="{{.Tests}}" failures="{{.Failures}}" errors="{{.Errors}}" skipped="{{.Skipped}}" time="{{.Time}}">
{{range .Suites}}    <testsuite name="{{.Name}}" tests="{{.Tests}}" failures="{{.Failures}}" errors="{{.Errors}}" skipped="{{.Skipped}}" time="{{.Time}}" timestamp="{{.Timestamp}}">
{{range .Cases}}        <testcase name="{{.Name}}" classname="{{.ClassName}}" time="{{.Time}}"{{if .Plain}}/>{{else}}>
{{if .Failure}}            <failure message="{{.Failure}}">{{.Detail}}</failure>
{{end}}{{if .Error}}            <error message="{{.Error}}" type="RuntimeError">{{.Detail}}</error>
{{end}}{{if .Skipped}}            <skipped message="{{.SkipReason}}"/>
{{end}}        </testcase>
{{end}}{{end}}    </testsuite>
{{end}}</testsuites>
`))

type CaseData struct {
	Name       string
	ClassName  string
	Time       string
	Plain      bool
	Failure    string
	Error      string
	Detail     string
	Skipped    bool
	SkipReason string
}

type SuiteData struct {
	Name      string
	Tests     int
	Failures  int
	Errors    int
	Skipped   int
	Time      string
	Timestamp string
	Cases     []CaseData
}

type TemplateData struct {
	Name     string
	Tests    int
	Failures int
	Errors   int
	Skipped  int
	Time     string
	Suites   []SuiteData
}

// Sample package names for variety
var packages = []string{
	"auth", "billing", "cache", "config", "crypto",
	"export", "gateway", "importer", "ledger", "mailer",
}

// Sample operations for variety
var operations = []string{
	"Create", "Update", "Delete", "List", "Validate",
	"Migrate", "Render", "Parse", "Encode", "Retry",
}

func main() {
	suites := flag.Int("suites", 100, "Number of test suites to generate")
	tests := flag.Int("tests", 25, "Number of test cases per suite")
	output := flag.String("output", "", "Output file (stdout if empty)")
	flag.Parse()

	data := TemplateData{
		Name:   "generated-perf-report",
		Suites: make([]SuiteData, *suites),
	}

	caseSeq := 0
	for s := 0; s < *suites; s++ {
		pkg := packages[s%len(packages)]
		suite := SuiteData{
			Name:      fmt.Sprintf("com.example.%s.Suite%04d", pkg, s),
			Tests:     *tests,
			Timestamp: "2025-06-14T09:30:00",
			Cases:     make([]CaseData, *tests),
		}

		suiteMillis := 0
		for c := 0; c < *tests; c++ {
			op := operations[c%len(operations)]
			millis := caseSeq%50 + 1
			suiteMillis += millis

			tc := CaseData{
				Name:      fmt.Sprintf("Test%s%04d", op, caseSeq),
				ClassName: suite.Name,
				Time:      fmt.Sprintf("0.%03d", millis),
				Plain:     true,
			}

			// Deterministic sprinkle of non-passing outcomes.
			switch {
			case caseSeq%23 == 11:
				tc.Plain = false
				tc.Error = "unexpected runtime failure"
				tc.Detail = fmt.Sprintf("panic in %s.%s: index out of range", pkg, op)
				suite.Errors++
			case caseSeq%9 == 4:
				tc.Plain = false
				tc.Failure = "assertion failed"
				tc.Detail = fmt.Sprintf("%s: expected 200, got 500", op)
				suite.Failures++
			case caseSeq%17 == 8:
				tc.Plain = false
				tc.Skipped = true
				tc.SkipReason = "requires external service"
				suite.Skipped++
			}

			suite.Cases[c] = tc
			caseSeq++
		}

		suite.Time = fmt.Sprintf("%d.%03d", suiteMillis/1000, suiteMillis%1000)
		data.Suites[s] = suite
		data.Tests += suite.Tests
		data.Failures += suite.Failures
		data.Errors += suite.Errors
		data.Skipped += suite.Skipped
	}
	data.Time = fmt.Sprintf("%d.000", data.Tests/10)

	var out *os.File
	if *output == "" {
		out = os.Stdout
	} else {
		var err error
		out, err = os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	if err := reportTemplate.Execute(out, data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to execute template: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		fmt.Fprintf(os.Stderr, "Generated %d suites (%d tests) to %s\n", *suites, data.Tests, *output)
	}
}
