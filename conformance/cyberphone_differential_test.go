package conformance_test

import (
	"bytes"
	"errors"
	"testing"

	cyberphone "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/lattice-substrate/jsonparse"
	"github.com/lattice-substrate/jsonparse/jsonerr"
	"github.com/lattice-substrate/jsonparse/jsonvalue"
)

// These vectors document inputs the Cyberphone Go canonicalizer accepts and
// rewrites while jsonparse rejects them with a located diagnostic.
func TestCyberphoneGoDifferentialInvalidAcceptance(t *testing.T) {
	type testCase struct {
		name         string
		input        string
		cyberOutput  string
		wantKind     jsonerr.Kind
		wantPosition int
	}

	cases := []testCase{
		{
			name:         "hex_float_literal",
			input:        `{"n":0x1p-2}`,
			cyberOutput:  `{"n":0.25}`,
			wantKind:     jsonerr.ExpectedToken,
			wantPosition: 6,
		},
		{
			name:         "plus_prefixed_number",
			input:        `{"n":+1}`,
			cyberOutput:  `{"n":1}`,
			wantKind:     jsonerr.UnexpectedToken,
			wantPosition: 5,
		},
		{
			name:         "leading_zero_number",
			input:        `{"n":01}`,
			cyberOutput:  `{"n":1}`,
			wantKind:     jsonerr.ExpectedToken,
			wantPosition: 6,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotCyber, err := cyberphone.Transform([]byte(tc.input))
			if err != nil {
				t.Fatalf("cyberphone unexpectedly rejected input: %v", err)
			}
			if string(gotCyber) != tc.cyberOutput {
				t.Fatalf("cyberphone output mismatch got=%q want=%q", gotCyber, tc.cyberOutput)
			}

			_, err = jsonparse.Parse(tc.input)
			var e *jsonerr.Error
			if !errors.As(err, &e) {
				t.Fatalf("jsonparse error = %v, want diagnostic", err)
			}
			if e.Kind() != tc.wantKind || e.Position() != tc.wantPosition {
				t.Fatalf("kind/position = %s/%d, want %s/%d (%v)", e.Kind(), e.Position(), tc.wantKind, tc.wantPosition, e)
			}
		})
	}
}

// The canonicalizer swallows the character following a lone high surrogate;
// jsonparse replaces only the surrogate.
func TestCyberphoneGoDifferentialLoneSurrogate(t *testing.T) {
	in := `{"s":"\uD800\u0041"}`
	gotCyber, err := cyberphone.Transform([]byte(in))
	if err != nil {
		t.Fatalf("cyberphone unexpectedly rejected input: %v", err)
	}
	if want := []byte("{\"s\":\"\uFFFD\"}"); !bytes.Equal(gotCyber, want) {
		t.Fatalf("cyberphone output mismatch got=%q want=%q", gotCyber, want)
	}

	v, err := jsonparse.Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, _ := v.(*jsonvalue.Object).Get("s")
	if s != "\uFFFDA" {
		t.Fatalf("s = %q, want %q", s, "\uFFFDA")
	}
}

// Canonical output of both implementations agrees on ordinary documents once
// jsonparse's output is canonicalized.
func TestCyberphoneGoAgreesAfterRoundTrip(t *testing.T) {
	docs := []string{
		`{"numbers":[333333333.33333329,1E30,4.50,2e-3,0.000000000000000000000000001],"string":"\u20ac$\u000F\u000aA'\u0042\u0022\u005c\\\"\/","literals":[null,true,false]}`,
		"{\n  \"\\u20ac\": \"Euro Sign\",\n  \"\\r\": \"Carriage Return\",\n  \"1\": \"One\",\n  \"\\ud83d\\ude00\": \"Emoji: Grinning Face\"\n}",
	}
	for _, in := range docs {
		v, err := jsonparse.Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		out, err := jsonparse.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		want, err := cyberphone.Transform([]byte(in))
		if err != nil {
			t.Fatalf("cyberphone rejected %q: %v", in, err)
		}
		got, err := cyberphone.Transform(out)
		if err != nil {
			t.Fatalf("cyberphone rejected %q: %v", out, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("canonical forms differ: %q vs %q", got, want)
		}
	}
}
