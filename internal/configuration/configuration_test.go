package configuration

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfigKeyMapOrder(t *testing.T) {
	m := NewConfigKeyMap()
	m.Set("b", NumberValue(1))
	m.Set("a", BoolValue(true))
	m.Set("c", StringValue("x"))
	m.Set("b", NumberValue(2))

	if diff := cmp.Diff([]string{"b", "a", "c"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	v, ok := m.Take("b")
	if !ok || v.Number != 2 {
		t.Errorf("Take(b) = %+v, %v; want 2, true", v, ok)
	}
	if _, ok := m.Take("b"); ok {
		t.Error("Take(b) succeeded twice")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestConfigKeyMapClone(t *testing.T) {
	m := NewConfigKeyMap()
	m.Set("lineWidth", NumberValue(80))
	c := m.Clone()
	c.Take("lineWidth")

	if m.Len() != 1 {
		t.Errorf("original Len() = %d after draining clone, want 1", m.Len())
	}
}

func TestNilConfigKeyMap(t *testing.T) {
	var m *ConfigKeyMap
	if _, ok := m.Take("x"); ok {
		t.Error("Take on nil map returned ok")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
	if got := GetUnknownPropertyDiagnostics(m); len(got) != 0 {
		t.Errorf("diagnostics on nil map = %v", got)
	}
}

func TestGetValue(t *testing.T) {
	tests := []struct {
		name      string
		value     *ConfigKeyValue
		want      uint32
		wantDiags int
	}{
		{name: "absent uses default", value: nil, want: 120},
		{name: "number", value: ptr(NumberValue(80)), want: 80},
		{name: "numeric string", value: ptr(StringValue("90")), want: 90},
		{name: "fraction", value: ptr(NumberValue(80.5)), want: 120, wantDiags: 1},
		{name: "zero", value: ptr(NumberValue(0)), want: 120, wantDiags: 1},
		{name: "negative", value: ptr(NumberValue(-4)), want: 120, wantDiags: 1},
		{name: "bool", value: ptr(BoolValue(true)), want: 120, wantDiags: 1},
		{name: "null", value: ptr(NullValue()), want: 120, wantDiags: 1},
		{name: "garbage string", value: ptr(StringValue("wide")), want: 120, wantDiags: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfigKeyMap()
			if tt.value != nil {
				m.Set("lineWidth", *tt.value)
			}
			var diags []Diagnostic
			got := GetValue(m, "lineWidth", uint32(120), Uint32, &diags)
			if got != tt.want {
				t.Errorf("GetValue() = %d, want %d", got, tt.want)
			}
			if len(diags) != tt.wantDiags {
				t.Fatalf("got %d diagnostics, want %d: %v", len(diags), tt.wantDiags, diags)
			}
			if tt.wantDiags > 0 && diags[0].PropertyName != "lineWidth" {
				t.Errorf("diagnostic PropertyName = %q, want lineWidth", diags[0].PropertyName)
			}
			if m.Len() != 0 {
				t.Errorf("key was not consumed, Len() = %d", m.Len())
			}
		})
	}
}

func TestBoolParser(t *testing.T) {
	tests := []struct {
		value   ConfigKeyValue
		want    bool
		wantErr bool
	}{
		{value: BoolValue(true), want: true},
		{value: BoolValue(false), want: false},
		{value: StringValue("true"), want: true},
		{value: StringValue("yes"), wantErr: true},
		{value: NumberValue(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value.Text(), func(t *testing.T) {
			got, err := Bool(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Bool() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Bool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUint8Overflow(t *testing.T) {
	if _, err := Uint8(NumberValue(256)); err == nil {
		t.Error("Uint8(256) should fail")
	}
	if got, err := Uint8(NumberValue(255)); err != nil || got != 255 {
		t.Errorf("Uint8(255) = %d, %v", got, err)
	}
}

func TestUnknownPropertyDiagnostics(t *testing.T) {
	m := NewConfigKeyMap()
	m.Set("zeta", NumberValue(1))
	m.Set("alpha", NumberValue(2))

	got := GetUnknownPropertyDiagnostics(m)
	want := []Diagnostic{
		{PropertyName: "zeta", Message: "Unknown property in configuration: 'zeta'"},
		{PropertyName: "alpha", Message: "Unknown property in configuration: 'alpha'"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if m.Len() != 0 {
		t.Errorf("map not drained, Len() = %d", m.Len())
	}
}

func TestResolveGlobalConfig(t *testing.T) {
	m := NewConfigKeyMap()
	m.Set("lineWidth", NumberValue(100))
	m.Set("useTabs", StringValue("maybe"))
	m.Set("newLineKind", StringValue("crlf"))
	m.Set("includes", StringValue("**/*.lua"))

	g, diags := ResolveGlobalConfig(m)

	if g.LineWidth == nil || *g.LineWidth != 100 {
		t.Errorf("LineWidth = %v, want 100", g.LineWidth)
	}
	if g.UseTabs != nil {
		t.Errorf("UseTabs = %v, want nil for malformed value", *g.UseTabs)
	}
	if g.IndentWidth != nil {
		t.Errorf("IndentWidth = %v, want nil", *g.IndentWidth)
	}
	if g.NewLineKind == nil || *g.NewLineKind != NewLineCarriageReturnLineFeed {
		t.Errorf("NewLineKind = %v, want crlf", g.NewLineKind)
	}
	if len(diags) != 1 || diags[0].PropertyName != "useTabs" {
		t.Errorf("diagnostics = %v, want one for useTabs", diags)
	}
	if diff := cmp.Diff([]string{"includes"}, m.Keys()); diff != "" {
		t.Errorf("leftover keys mismatch (-want +got):\n%s", diff)
	}

	if got := g.LineWidthOr(120); got != 100 {
		t.Errorf("LineWidthOr = %d, want 100", got)
	}
	if got := g.IndentWidthOr(2); got != 2 {
		t.Errorf("IndentWidthOr = %d, want 2", got)
	}
}

func TestResolveNewLineKind(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind NewLineKind
		want string
	}{
		{"auto crlf first", "a\r\nb\nc", NewLineAuto, "\r\n"},
		{"auto lf first", "a\nb\r\nc", NewLineAuto, "\n"},
		{"auto no terminator", "abc", NewLineAuto, "\n"},
		{"auto empty", "", NewLineAuto, "\n"},
		{"system detects", "a\r\n", NewLineSystem, "\r\n"},
		{"explicit lf", "a\r\n", NewLineLineFeed, "\n"},
		{"explicit crlf", "a\n", NewLineCarriageReturnLineFeed, "\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveNewLineKind(tt.text, tt.kind); got != tt.want {
				t.Errorf("ResolveNewLineKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewLineKindText(t *testing.T) {
	for _, name := range []string{"auto", "lf", "CRLF", "system"} {
		var k NewLineKind
		if err := k.UnmarshalText([]byte(name)); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", name, err)
		}
		out, _ := k.MarshalText()
		if !strings.EqualFold(string(out), name) {
			t.Errorf("round trip %q -> %q", name, out)
		}
	}
	if _, err := ParseNewLineKind("cr"); err == nil {
		t.Error("ParseNewLineKind(cr) should fail")
	}
}

func TestFromJSONKeepsOrder(t *testing.T) {
	m, err := FromJSON([]byte(`{"useTabs": "yes", "lineWidth": 80, "verify": true, "extra": [1, 2], "none": null}`))
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}

	if diff := cmp.Diff([]string{"useTabs", "lineWidth", "verify", "extra", "none"}, m.Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
	if v, _ := m.Get("lineWidth"); v.Kind != KindNumber || v.Number != 80 {
		t.Errorf("lineWidth = %+v", v)
	}
	if v, _ := m.Get("extra"); v.Kind != KindString || v.String != "[1, 2]" {
		t.Errorf("extra = %+v, want raw JSON string", v)
	}
	if v, _ := m.Get("none"); v.Kind != KindNull {
		t.Errorf("none = %+v, want null", v)
	}
}

func TestFromJSONErrors(t *testing.T) {
	if _, err := FromJSON([]byte(`{"a":`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := FromJSON([]byte(`[1, 2]`)); err == nil {
		t.Error("expected error for non-object JSON")
	}
	m, err := FromJSON(nil)
	if err != nil || m.Len() != 0 {
		t.Errorf("FromJSON(nil) = %v, %v", m, err)
	}
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		in   any
		want ConfigKeyValue
	}{
		{nil, NullValue()},
		{"x", StringValue("x")},
		{true, BoolValue(true)},
		{42, NumberValue(42)},
		{int64(7), NumberValue(7)},
		{uint8(3), NumberValue(3)},
		{1.5, NumberValue(1.5)},
		{json.Number("12"), NumberValue(12)},
	}
	for _, tt := range tests {
		got, err := FromAny(tt.in)
		if err != nil {
			t.Errorf("FromAny(%v) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FromAny(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if _, err := FromAny([]string{"a"}); err == nil {
		t.Error("FromAny(slice) should fail")
	}
}

func ptr[T any](v T) *T {
	return &v
}
