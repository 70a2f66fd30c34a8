//go:build unit

package jux

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/canonical"
	configadapter "github.com/jrjsmrtn/go-jux/internal/adapters/driven/config"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/envinfo"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/metrics"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/signature"
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/storage"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// These tests verify that root package re-exports (type aliases and var
// re-exports) behave identically to direct imports from internal packages.
// The re-export layer is a convenience for external consumers; it must not
// introduce behavioral differences.

// TestRootReexport_Differential_TypeAliasEquivalence tests that type aliases in root
// package are equivalent to direct internal types in terms of type identity and reflection.
func TestRootReexport_Differential_TypeAliasEquivalence(t *testing.T) {
	tests := []struct {
		name          string
		rootType      reflect.Type
		internalType  reflect.Type
		rootValue     interface{}
		internalValue interface{}
	}{
		{
			name:          "CanonicalHash type alias",
			rootType:      reflect.TypeOf((*CanonicalHash)(nil)).Elem(),
			internalType:  reflect.TypeOf((*domain.CanonicalHash)(nil)).Elem(),
			rootValue:     CanonicalHash(""),
			internalValue: domain.CanonicalHash(""),
		},
		{
			name:          "ReportMetadata type alias",
			rootType:      reflect.TypeOf((*ReportMetadata)(nil)).Elem(),
			internalType:  reflect.TypeOf((*domain.ReportMetadata)(nil)).Elem(),
			rootValue:     ReportMetadata{},
			internalValue: domain.ReportMetadata{},
		},
		{
			name:          "EnvironmentMetadata type alias",
			rootType:      reflect.TypeOf((*EnvironmentMetadata)(nil)).Elem(),
			internalType:  reflect.TypeOf((*domain.EnvironmentMetadata)(nil)).Elem(),
			rootValue:     EnvironmentMetadata{},
			internalValue: domain.EnvironmentMetadata{},
		},
		{
			name:          "ErrorCode type alias",
			rootType:      reflect.TypeOf((*ErrorCode)(nil)).Elem(),
			internalType:  reflect.TypeOf((*domain.ErrorCode)(nil)).Elem(),
			rootValue:     ErrorCode(""),
			internalValue: domain.ErrorCode(""),
		},
		{
			name:          "Canonicalizer interface alias",
			rootType:      reflect.TypeOf((*Canonicalizer)(nil)).Elem(),
			internalType:  reflect.TypeOf((*ports.Canonicalizer)(nil)).Elem(),
			rootValue:     (*Canonicalizer)(nil),
			internalValue: (*ports.Canonicalizer)(nil),
		},
		{
			name:          "ReportStore interface alias",
			rootType:      reflect.TypeOf((*ReportStore)(nil)).Elem(),
			internalType:  reflect.TypeOf((*ports.ReportStore)(nil)).Elem(),
			rootValue:     (*ReportStore)(nil),
			internalValue: (*ports.ReportStore)(nil),
		},
		{
			name:          "Config type alias",
			rootType:      reflect.TypeOf((*Config)(nil)).Elem(),
			internalType:  reflect.TypeOf((*configadapter.Config)(nil)).Elem(),
			rootValue:     Config{},
			internalValue: configadapter.Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Test 1: Type identity via reflect.Type
			if tt.rootType != tt.internalType {
				t.Errorf("Type identity mismatch: root type %v != internal type %v",
					tt.rootType, tt.internalType)
			}

			// Test 2: Type name comparison
			if tt.rootType.Name() != tt.internalType.Name() {
				t.Errorf("Type name mismatch: root %q != internal %q",
					tt.rootType.Name(), tt.internalType.Name())
			}

			// Test 3: Type string representation
			if tt.rootType.String() != tt.internalType.String() {
				t.Errorf("Type string mismatch: root %q != internal %q",
					tt.rootType.String(), tt.internalType.String())
			}

			// Test 4: Value type reflection
			rootValType := reflect.TypeOf(tt.rootValue)
			internalValType := reflect.TypeOf(tt.internalValue)
			if rootValType != internalValType {
				t.Errorf("Value type mismatch: root %v != internal %v",
					rootValType, internalValType)
			}
		})
	}
}

// TestRootReexport_Differential_VarReexportEquivalence tests that var re-exports
// in root package point to the same functions as direct internal imports.
func TestRootReexport_Differential_VarReexportEquivalence(t *testing.T) {
	tests := []struct {
		name        string
		rootVar     interface{}
		internalVar interface{}
		description string
	}{
		{
			name:        "NewCanonicalHash function",
			rootVar:     NewCanonicalHash,
			internalVar: domain.NewCanonicalHash,
			description: "Function pointer equality",
		},
		{
			name:        "ParseCanonicalHash function",
			rootVar:     ParseCanonicalHash,
			internalVar: domain.ParseCanonicalHash,
			description: "Function pointer equality",
		},
		{
			name:        "DefaultAlgorithmPolicy function",
			rootVar:     DefaultAlgorithmPolicy,
			internalVar: domain.DefaultAlgorithmPolicy,
			description: "Function pointer equality",
		},
		{
			name:        "NoSignatureError function",
			rootVar:     NoSignatureError,
			internalVar: domain.NoSignatureError,
			description: "Function pointer equality",
		},
		{
			name:        "NewXMLDsigVerifier function",
			rootVar:     NewXMLDsigVerifier,
			internalVar: signature.NewXMLDsigVerifier,
			description: "Function pointer equality",
		},
		{
			name:        "NewFileReportStore function",
			rootVar:     NewFileReportStore,
			internalVar: storage.NewFileReportStore,
			description: "Function pointer equality",
		},
		{
			name:        "DefaultRoot function",
			rootVar:     DefaultRoot,
			internalVar: storage.DefaultRoot,
			description: "Function pointer equality",
		},
		{
			name:        "LoadConfig function",
			rootVar:     LoadConfig,
			internalVar: configadapter.Load,
			description: "Function pointer equality",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Test 1: Pointer equality (should be same function)
			rootPtr := reflect.ValueOf(tt.rootVar).Pointer()
			internalPtr := reflect.ValueOf(tt.internalVar).Pointer()
			if rootPtr != internalPtr {
				t.Errorf("Pointer mismatch: root %p != internal %p (%s)",
					tt.rootVar, tt.internalVar, tt.description)
			}

			// Test 2: Type equality
			rootType := reflect.TypeOf(tt.rootVar)
			internalType := reflect.TypeOf(tt.internalVar)
			if rootType != internalType {
				t.Errorf("Type mismatch: root %v != internal %v",
					rootType, internalType)
			}
		})
	}
}

// TestRootReexport_Differential_FunctionBehaviorEquivalence tests that re-exported
// functions produce identical results when called with the same inputs.
func TestRootReexport_Differential_FunctionBehaviorEquivalence(t *testing.T) {
	// Test NewCanonicalHash
	t.Run("NewCanonicalHash", func(t *testing.T) {
		inputs := [][]byte{
			[]byte(""),
			[]byte("<testsuites></testsuites>"),
			[]byte("<testsuites tests=\"3\"></testsuites>"),
		}

		for _, input := range inputs {
			rootHash := NewCanonicalHash(input)
			internalHash := domain.NewCanonicalHash(input)
			if rootHash != internalHash {
				t.Errorf("NewCanonicalHash(%q): root=%q, internal=%q",
					input, rootHash, internalHash)
			}
		}
	})

	// Test ParseCanonicalHash
	t.Run("ParseCanonicalHash", func(t *testing.T) {
		testCases := []string{
			"sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			"sha256:not-hex",
			"md5:abcdef",
			"",
		}

		for _, tc := range testCases {
			rootHash, rootErr := ParseCanonicalHash(tc)
			internalHash, internalErr := domain.ParseCanonicalHash(tc)
			if rootHash != internalHash {
				t.Errorf("ParseCanonicalHash(%q): root=%q, internal=%q",
					tc, rootHash, internalHash)
			}
			if (rootErr != nil) != (internalErr != nil) {
				t.Errorf("ParseCanonicalHash(%q) error mismatch: root=%v, internal=%v",
					tc, rootErr, internalErr)
			}
			if rootErr != nil && internalErr != nil && rootErr.Error() != internalErr.Error() {
				t.Errorf("ParseCanonicalHash(%q) error message mismatch:\nroot:     %q\ninternal: %q",
					tc, rootErr.Error(), internalErr.Error())
			}
		}
	})

	// Test DefaultAlgorithmPolicy
	t.Run("DefaultAlgorithmPolicy", func(t *testing.T) {
		rootPolicy := DefaultAlgorithmPolicy()
		internalPolicy := domain.DefaultAlgorithmPolicy()

		if !reflect.DeepEqual(rootPolicy, internalPolicy) {
			t.Errorf("DefaultAlgorithmPolicy mismatch:\nroot:     %+v\ninternal: %+v",
				rootPolicy, internalPolicy)
		}
	})

	// Test error constructors
	t.Run("Error constructors", func(t *testing.T) {
		rootErr := ConfigError("bad storage mode")
		internalErr := domain.ConfigError("bad storage mode")

		if rootErr.Code != internalErr.Code {
			t.Errorf("Code mismatch: root=%v, internal=%v", rootErr.Code, internalErr.Code)
		}
		if rootErr.Error() != internalErr.Error() {
			t.Errorf("Error() mismatch: root=%q, internal=%q", rootErr.Error(), internalErr.Error())
		}

		rootDetail := NewErrorDetail(rootErr)
		internalDetail := domain.NewErrorDetail(internalErr)
		if rootDetail != internalDetail {
			t.Errorf("ErrorDetail mismatch: root=%+v, internal=%+v", rootDetail, internalDetail)
		}
	})
}

// TestRootReexport_Differential_InterfaceSatisfaction tests that type aliases
// satisfy the same interfaces as their internal counterparts.
func TestRootReexport_Differential_InterfaceSatisfaction(t *testing.T) {
	// Test Canonicalizer interface
	t.Run("Canonicalizer interface", func(t *testing.T) {
		// Create an implementation using the internal package
		canon := canonical.NewExcC14NCanonicalizer()

		// Both root and internal interfaces should accept the same implementation
		var rootCanon Canonicalizer = canon
		var internalCanon ports.Canonicalizer = canon

		if rootCanon == nil || internalCanon == nil {
			t.Error("Interface assignment failed")
		}

		// Verify both call paths produce identical results
		doc := []byte(`<testsuites tests="1"><testsuite name="s" tests="1"><testcase name="c"/></testsuite></testsuites>`)
		rootHash, rootErr := rootCanon.Hash(doc)
		internalHash, internalErr := internalCanon.Hash(doc)

		if (rootErr != nil) != (internalErr != nil) {
			t.Errorf("Error mismatch: root=%v, internal=%v", rootErr, internalErr)
		}
		if rootHash != internalHash {
			t.Errorf("Hash mismatch: root=%q, internal=%q", rootHash, internalHash)
		}
	})

	// Test ReportStore interface
	t.Run("ReportStore interface", func(t *testing.T) {
		store, err := storage.NewFileReportStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileReportStore error: %v", err)
		}

		var rootStore ReportStore = store
		var internalStore ports.ReportStore = store

		if rootStore == nil || internalStore == nil {
			t.Error("Interface assignment failed")
		}

		rootStats, rootErr := rootStore.Stats()
		internalStats, internalErr := internalStore.Stats()

		if (rootErr != nil) != (internalErr != nil) {
			t.Errorf("Error mismatch: root=%v, internal=%v", rootErr, internalErr)
		}
		if rootStats.Count != internalStats.Count {
			t.Errorf("Stats.Count mismatch: root=%d, internal=%d",
				rootStats.Count, internalStats.Count)
		}
	})

	// Test ReportSigner interface
	t.Run("ReportSigner interface", func(t *testing.T) {
		signer := signature.NewNoopSigner()

		var rootSigner ReportSigner = signer
		var internalSigner ports.ReportSigner = signer

		if rootSigner == nil || internalSigner == nil {
			t.Error("Interface assignment failed")
		}
	})

	// Test SignatureVerifier interface
	t.Run("SignatureVerifier interface", func(t *testing.T) {
		verifier := signature.NewNoopVerifier()

		var rootVerifier SignatureVerifier = verifier
		var internalVerifier ports.SignatureVerifier = verifier

		if rootVerifier == nil || internalVerifier == nil {
			t.Error("Interface assignment failed")
		}
	})

	// Test MetricsRecorder interface
	t.Run("MetricsRecorder interface", func(t *testing.T) {
		recorder := metrics.NewNoopMetricsRecorder()

		var rootRecorder MetricsRecorder = recorder
		var internalRecorder ports.MetricsRecorder = recorder

		if rootRecorder == nil || internalRecorder == nil {
			t.Error("Interface assignment failed")
		}
	})

	// Test EnvironmentCapturer interface
	t.Run("EnvironmentCapturer interface", func(t *testing.T) {
		capturer := envinfo.NewCapturer()

		var rootCapturer EnvironmentCapturer = capturer
		var internalCapturer ports.EnvironmentCapturer = capturer

		if rootCapturer == nil || internalCapturer == nil {
			t.Error("Interface assignment failed")
		}

		rootMeta := rootCapturer.Capture(context.Background())
		internalMeta := internalCapturer.Capture(context.Background())

		if rootMeta.Hostname != internalMeta.Hostname {
			t.Errorf("Hostname mismatch: root=%q, internal=%q",
				rootMeta.Hostname, internalMeta.Hostname)
		}
	})
}

// TestRootReexport_Differential_StructTypeAliases tests that struct type aliases
// have identical field access and method sets.
func TestRootReexport_Differential_StructTypeAliases(t *testing.T) {
	// Test ReportMetadata struct
	t.Run("ReportMetadata struct", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		rootMeta := ReportMetadata{
			Hash:     "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			StoredAt: now,
			Signed:   true,
		}
		internalMeta := domain.ReportMetadata{
			Hash:     "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			StoredAt: now,
			Signed:   true,
		}

		// Test field access
		if rootMeta.Hash != internalMeta.Hash {
			t.Errorf("Hash mismatch: root=%q, internal=%q", rootMeta.Hash, internalMeta.Hash)
		}
		if rootMeta.Signed != internalMeta.Signed {
			t.Errorf("Signed mismatch: root=%v, internal=%v", rootMeta.Signed, internalMeta.Signed)
		}

		// Test type conversion (should be no-op for type aliases)
		converted := ReportMetadata(internalMeta)
		if converted.Hash != rootMeta.Hash {
			t.Errorf("Type conversion failed: converted=%q, expected=%q",
				converted.Hash, rootMeta.Hash)
		}
	})

	// Test ReportSummary struct and methods
	t.Run("ReportSummary struct", func(t *testing.T) {
		rootSummary := ReportSummary{Tests: 10, Failures: 0, Errors: 0}
		internalSummary := domain.ReportSummary{Tests: 10, Failures: 0, Errors: 0}

		// Methods must be reachable and agree through both names
		if rootSummary.Passed() != internalSummary.Passed() {
			t.Errorf("Passed() mismatch: root=%v, internal=%v",
				rootSummary.Passed(), internalSummary.Passed())
		}

		rootSummary.Failures = 1
		internalSummary.Failures = 1
		if rootSummary.Passed() != internalSummary.Passed() {
			t.Errorf("Passed() mismatch after mutation: root=%v, internal=%v",
				rootSummary.Passed(), internalSummary.Passed())
		}
	})

	// Test CanonicalHash methods through the alias
	t.Run("CanonicalHash methods", func(t *testing.T) {
		const raw = "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		rootHash := CanonicalHash(raw)
		internalHash := domain.CanonicalHash(raw)

		if rootHash.Hex() != internalHash.Hex() {
			t.Errorf("Hex() mismatch: root=%q, internal=%q", rootHash.Hex(), internalHash.Hex())
		}
		if rootHash.Short() != internalHash.Short() {
			t.Errorf("Short() mismatch: root=%q, internal=%q", rootHash.Short(), internalHash.Short())
		}
		if (rootHash.Validate() == nil) != (internalHash.Validate() == nil) {
			t.Errorf("Validate() mismatch: root=%v, internal=%v",
				rootHash.Validate(), internalHash.Validate())
		}
	})

	// Test Config struct
	t.Run("Config struct", func(t *testing.T) {
		rootConfig := Config{}
		internalConfig := configadapter.Config{}

		// Both should have same zero values
		rootType := reflect.TypeOf(rootConfig)
		internalType := reflect.TypeOf(internalConfig)
		if rootType != internalType {
			t.Errorf("Config type mismatch: root=%v, internal=%v",
				rootType, internalType)
		}
	})
}

// TestRootReexport_PortContract_ErrorHandling verifies that error handling
// through root package re-exports matches direct internal imports.
func TestRootReexport_PortContract_ErrorHandling(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"valid hash", "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", false},
		{"missing prefix", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", true},
		{"wrong algorithm", "sha512:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", true},
		{"short digest", "sha256:e3b0c442", true},
		{"uppercase hex", "sha256:E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Test through root package re-exports
			_, rootErr := ParseCanonicalHash(tc.input)

			// Test through direct internal imports
			_, internalErr := domain.ParseCanonicalHash(tc.input)

			// Verify error presence matches
			if (rootErr != nil) != (internalErr != nil) {
				t.Errorf("Error presence mismatch: root=%v, internal=%v", rootErr != nil, internalErr != nil)
				return
			}

			if tc.expectError {
				if rootErr == nil || internalErr == nil {
					t.Errorf("Expected error but got: root=%v, internal=%v", rootErr, internalErr)
					return
				}
				if rootErr.Error() != internalErr.Error() {
					t.Errorf("Error message mismatch:\nroot:     %q\ninternal: %q", rootErr.Error(), internalErr.Error())
				}
			}
		})
	}
}

// TestRootReexport_PortContract_BehavioralGuarantees verifies that behavioral
// guarantees are maintained through root package re-exports.
func TestRootReexport_PortContract_BehavioralGuarantees(t *testing.T) {
	// Test 1: Canonicalization is deterministic through both paths
	t.Run("Canonicalization determinism", func(t *testing.T) {
		// Attribute order differs; the canonical form must not
		docA := []byte(`<testsuites tests="2" failures="1"><testsuite name="s"/></testsuites>`)
		docB := []byte(`<testsuites failures="1" tests="2"><testsuite name="s"/></testsuites>`)

		rootCanon := NewExcC14NCanonicalizer()
		internalCanon := canonical.NewExcC14NCanonicalizer()

		rootHashA, err := rootCanon.Hash(docA)
		if err != nil {
			t.Fatalf("root Hash(docA) error: %v", err)
		}
		rootHashB, err := rootCanon.Hash(docB)
		if err != nil {
			t.Fatalf("root Hash(docB) error: %v", err)
		}
		internalHashA, err := internalCanon.Hash(docA)
		if err != nil {
			t.Fatalf("internal Hash(docA) error: %v", err)
		}

		if rootHashA != rootHashB {
			t.Errorf("logically equivalent documents must hash equal: %q != %q", rootHashA, rootHashB)
		}
		if rootHashA != internalHashA {
			t.Errorf("root and internal canonicalizers disagree: %q != %q", rootHashA, internalHashA)
		}
	})

	// Test 2: Malformed input fails identically through both paths
	t.Run("Malformed input rejection", func(t *testing.T) {
		malformed := []byte(`<testsuites><unclosed>`)

		rootCanon := NewExcC14NCanonicalizer()
		internalCanon := canonical.NewExcC14NCanonicalizer()

		_, rootErr := rootCanon.Canonicalize(malformed)
		_, internalErr := internalCanon.Canonicalize(malformed)

		if rootErr == nil || internalErr == nil {
			t.Fatalf("expected errors for malformed input: root=%v, internal=%v", rootErr, internalErr)
		}
		if rootErr.Error() != internalErr.Error() {
			t.Errorf("Error message mismatch:\nroot:     %q\ninternal: %q", rootErr.Error(), internalErr.Error())
		}
	})

	// Test 3: Hash validation rules agree through both paths
	t.Run("Hash validation rules", func(t *testing.T) {
		inputs := []string{
			"sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			"sha256:",
			"",
			"sha256:zzzzc44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		}

		for _, input := range inputs {
			rootValid := CanonicalHash(input).Validate() == nil
			internalValid := domain.CanonicalHash(input).Validate() == nil
			if rootValid != internalValid {
				t.Errorf("Validate(%q) mismatch: root=%v, internal=%v", input, rootValid, internalValid)
			}
		}
	})
}

// TestRootReexport_PortContract_TypeConversions verifies that conversions
// between root package types and internal types work correctly.
func TestRootReexport_PortContract_TypeConversions(t *testing.T) {
	// Test 1: ReportMetadata conversion preserves all fields
	t.Run("ReportMetadata conversion", func(t *testing.T) {
		rootMeta := ReportMetadata{
			Hash:   "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			Signed: true,
			Summary: ReportSummary{
				Tests:    5,
				Failures: 1,
			},
		}

		// Convert to the internal type (type alias, should be no-op)
		internalMeta := domain.ReportMetadata(rootMeta)

		if internalMeta.Hash != rootMeta.Hash {
			t.Errorf("Hash mismatch: internal=%q, root=%q", internalMeta.Hash, rootMeta.Hash)
		}
		if internalMeta.Signed != rootMeta.Signed {
			t.Errorf("Signed mismatch: internal=%v, root=%v", internalMeta.Signed, rootMeta.Signed)
		}
		if internalMeta.Summary.Tests != rootMeta.Summary.Tests {
			t.Errorf("Summary.Tests mismatch: internal=%d, root=%d",
				internalMeta.Summary.Tests, rootMeta.Summary.Tests)
		}
	})

	// Test 2: Roundtrip conversion works correctly
	t.Run("Roundtrip conversion", func(t *testing.T) {
		original := EnvironmentMetadata{
			Hostname:    "ci-runner-7",
			Platform:    "linux/amd64",
			ProjectName: "go-jux",
			GitBranch:   "main",
		}

		// Convert to the internal type and back
		internalMeta := domain.EnvironmentMetadata(original)
		backToRoot := EnvironmentMetadata(internalMeta)

		if backToRoot.Hostname != original.Hostname {
			t.Errorf("Hostname mismatch after roundtrip: original=%q, result=%q",
				original.Hostname, backToRoot.Hostname)
		}
		if backToRoot.GitBranch != original.GitBranch {
			t.Errorf("GitBranch mismatch after roundtrip: original=%q, result=%q",
				original.GitBranch, backToRoot.GitBranch)
		}
	})

	// Test 3: Concrete adapter types satisfy both interface names
	t.Run("Verifier interface type assertion", func(t *testing.T) {
		// Create verifier via root package
		verifier := NewXMLDsigVerifier()

		// Verify it satisfies SignatureVerifier (root package type alias)
		var rootVerifier SignatureVerifier = verifier
		if rootVerifier == nil {
			t.Error("SignatureVerifier (root package) type assertion failed")
		}

		// Verify it also satisfies ports.SignatureVerifier (direct internal import)
		var internalVerifier ports.SignatureVerifier = verifier
		if internalVerifier == nil {
			t.Error("ports.SignatureVerifier (internal) type assertion failed")
		}

		// Test that both interfaces work identically
		unsigned := []byte(`<testsuites tests="1"><testsuite name="s" tests="1"/></testsuites>`)

		rootHas, rootErr := rootVerifier.HasSignature(unsigned)
		internalHas, internalErr := internalVerifier.HasSignature(unsigned)

		if (rootErr != nil) != (internalErr != nil) {
			t.Errorf("Error presence mismatch: root=%v, internal=%v", rootErr != nil, internalErr != nil)
			return
		}
		if rootHas != internalHas {
			t.Errorf("HasSignature mismatch: root=%v, internal=%v", rootHas, internalHas)
		}
		if rootHas {
			t.Error("unsigned document should not report a signature")
		}
	})
}
