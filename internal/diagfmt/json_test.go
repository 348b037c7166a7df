package diagfmt

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"jsweave/internal/diag"
)

func sampleDiags() []diag.Diagnostic {
	return []diag.Diagnostic{
		diag.New(diag.SevWarning, diag.LoadCycle, &diag.Location{Path: "y.js", Line: 1, Col: 17}, "circular import of 'x'"),
		diag.NewError(diag.TrnNotExported, &diag.Location{Path: "main.js", Line: 1, Col: 9}, "'zz' is not exported by 'dep'"),
		diag.New(diag.SevInfo, diag.UnknownCode, nil, "note"),
	}
}

func TestBuildDiagnosticsOutput(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleDiags(), JSONOpts{})
	if out.Count != 3 || !out.HadError {
		t.Fatalf("count=%d hadError=%v", out.Count, out.HadError)
	}
	got := out.Diagnostics[1]
	want := DiagnosticJSON{
		Severity: "ERROR",
		Code:     "TRN3002",
		Title:    "Binding is not exported",
		Message:  "'zz' is not exported by 'dep'",
		Location: &LocationJSON{File: "main.js", Line: 1, Col: 9},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if out.Diagnostics[2].Location != nil {
		t.Errorf("diagnostic without location must not get one")
	}
}

func TestBuildDiagnosticsOutput_Max(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleDiags(), JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", out.Count)
	}
	// HadError учитывает и обрезанные диагностики.
	if !out.HadError {
		t.Errorf("HadError must see truncated errors")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleDiags(), JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var decoded DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if !reflect.DeepEqual(decoded, BuildDiagnosticsOutput(sampleDiags(), JSONOpts{})) {
		t.Errorf("decoded output differs:\n%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"had_error": true`)) {
		t.Errorf("missing had_error field:\n%s", buf.String())
	}
}

func TestMsgpack(t *testing.T) {
	var buf bytes.Buffer
	if err := Msgpack(&buf, sampleDiags(), JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeMsgpack(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, BuildDiagnosticsOutput(sampleDiags(), JSONOpts{})) {
		t.Errorf("msgpack output differs: %+v", decoded)
	}
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "jsweave", ToolVersion: "1.0.0", InvocationArgs: []string{"compile", "main.js"}}
	if err := Sarif(&buf, sampleDiags(), meta); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected envelope: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "jsweave" {
		t.Errorf("driver name = %q", run.Tool.Driver.Name)
	}
	var ids []string
	for _, r := range run.Tool.Driver.Rules {
		ids = append(ids, r.ID)
	}
	if want := []string{"E0000", "LDR4003", "TRN3002"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("rules = %v, want %v", ids, want)
	}
	if len(run.Results) != 3 {
		t.Fatalf("results = %d", len(run.Results))
	}
	if lvl := run.Results[0].Level; lvl != "warning" {
		t.Errorf("level = %q", lvl)
	}
	loc := run.Results[1].Locations[0].Physical
	if loc.Artifact.URI != "main.js" || loc.Region.StartLine != 1 || loc.Region.StartColumn != 9 {
		t.Errorf("unexpected location %+v", loc)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocation must report failure: %+v", run.Invocations)
	}
}
