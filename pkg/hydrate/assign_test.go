package hydrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	late "github.com/goliatone/go-late"
)

type serverSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (s *serverSettings) Validate() error {
	if s.Port <= 0 {
		return fmt.Errorf("port must be positive, got %d", s.Port)
	}
	return nil
}

type tokenSettings struct {
	Token string `json:"token"`
}

func (s tokenSettings) Validate() error {
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("token is required")
	}
	return nil
}

type flexibleSettings struct {
	Extras map[string]any `json:"extras"`
}

func TestAssignJSONFillsSlot(t *testing.T) {
	slot := late.New[serverSettings]()
	ctx := Context{Name: "server", Source: "config/server.json"}

	if err := AssignJSON(ctx, slot, []byte(`{"host":"api.internal","port":8080}`)); err != nil {
		t.Fatalf("assign json: %v", err)
	}

	if !slot.HasValue() {
		t.Fatalf("expected slot occupied after assignment")
	}
	got := slot.Value()
	if got.Host != "api.internal" || got.Port != 8080 {
		t.Fatalf("unexpected hydrated value: %+v", got)
	}
}

func TestAssignYAMLMatchesJSON(t *testing.T) {
	ctx := Context{Name: "server", Source: "config/server.yaml"}
	jsonSlot := late.New[serverSettings]()
	yamlSlot := late.New[serverSettings]()

	if err := AssignJSON(ctx, jsonSlot, []byte(`{"host":"api.internal","port":8080}`)); err != nil {
		t.Fatalf("assign json: %v", err)
	}
	if err := AssignYAML(ctx, yamlSlot, []byte("host: api.internal\nport: 8080\n")); err != nil {
		t.Fatalf("assign yaml: %v", err)
	}

	if !reflect.DeepEqual(jsonSlot.Value(), yamlSlot.Value()) {
		t.Fatalf("expected both formats to hydrate the same value:\njson: %+v\nyaml: %+v", jsonSlot.Value(), yamlSlot.Value())
	}
}

func TestAssignStrictYAMLRejectsUnknownFields(t *testing.T) {
	slot := late.New[serverSettings]()
	ctx := Context{Name: "server", Source: "config/server.yaml"}

	err := AssignYAML(ctx, slot, []byte("host: api.internal\nport: 8080\nbogus: 1\n"),
		WithDisallowUnknownFields[serverSettings]())
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected unknown field rejection, got %v", err)
	}
	if slot.HasValue() {
		t.Fatalf("expected slot to stay empty after rejected payload")
	}
}

func TestAssignLeavesSlotEmptyOnDecodeFailure(t *testing.T) {
	slot := late.New[serverSettings]()
	ctx := Context{Name: "server", Source: "config/server.json"}

	err := AssignJSON(ctx, slot, []byte(`{"host":"api.internal","port":"not-a-number"}`))
	if err == nil {
		t.Fatalf("expected decode failure")
	}
	if slot.HasValue() {
		t.Fatalf("expected slot to stay empty after decode failure")
	}
}

func TestAssignRunsValidationBeforeAssign(t *testing.T) {
	slot := late.New[serverSettings]()
	ctx := Context{Name: "server", Source: "config/server.json"}

	err := AssignJSON(ctx, slot, []byte(`{"host":"api.internal","port":0}`))
	if err == nil || !strings.Contains(err.Error(), "port must be positive") {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "validate") {
		t.Fatalf("expected validation context in error, got %v", err)
	}
	if slot.HasValue() {
		t.Fatalf("expected slot to stay empty after failed validation")
	}

	if err := AssignJSON(ctx, slot, []byte(`{"host":"api.internal","port":8080}`)); err != nil {
		t.Fatalf("expected valid payload to assign, got %v", err)
	}
	if got := slot.Value().Port; got != 8080 {
		t.Fatalf("expected hydrated port 8080, got %d", got)
	}
}

func TestAssignAcceptsValueReceiverValidation(t *testing.T) {
	slot := late.New[tokenSettings]()
	ctx := Context{Name: "auth", Source: "env"}

	err := AssignJSON(ctx, slot, []byte(`{"token":"  "}`))
	if err == nil || !strings.Contains(err.Error(), "token is required") {
		t.Fatalf("expected value receiver validation to run, got %v", err)
	}
	if slot.HasValue() {
		t.Fatalf("expected slot to stay empty")
	}

	if err := AssignJSON(ctx, slot, []byte(`{"token":"secret"}`)); err != nil {
		t.Fatalf("expected valid token to assign, got %v", err)
	}
}

func TestAssignRejectsNilSlot(t *testing.T) {
	ctx := Context{Name: "server"}

	if err := AssignJSON[serverSettings](ctx, nil, []byte(`{}`)); err == nil || !strings.Contains(err.Error(), "slot is required") {
		t.Fatalf("expected nil slot rejection, got %v", err)
	}
	if err := AssignYAML[serverSettings](ctx, nil, []byte("host: x\n")); err == nil || !strings.Contains(err.Error(), "slot is required") {
		t.Fatalf("expected nil slot rejection, got %v", err)
	}
	decoder := NewDecoder[serverSettings]()
	if err := decoder.Assign(ctx, nil, map[string]any{}); err == nil || !strings.Contains(err.Error(), "slot is required") {
		t.Fatalf("expected nil slot rejection, got %v", err)
	}
}

func TestAssignIntoOccupiedSlotPanics(t *testing.T) {
	slot := late.New[serverSettings]()
	slot.Assign(serverSettings{Host: "seed", Port: 1})
	ctx := Context{Name: "server"}

	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatalf("expected panic when assigning into an occupied slot")
		}
		err, ok := recovered.(error)
		if !ok || !errors.Is(err, late.ErrSecondAssignment) {
			t.Fatalf("expected ErrSecondAssignment, got %v", recovered)
		}
	}()

	_ = AssignJSON(ctx, slot, []byte(`{"host":"api.internal","port":8080}`))
}

func TestDecodeClonesCallerPayload(t *testing.T) {
	payload := map[string]any{"host": "api.internal", "port": 8080}
	decoder := NewDecoder[serverSettings](WithPreHook[serverSettings](func(_ Context, p map[string]any) (map[string]any, error) {
		p["host"] = "rewritten"
		return p, nil
	}))

	result, err := decoder.Decode(Context{Name: "server"}, payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Host != "rewritten" {
		t.Fatalf("expected pre-hook mutation visible in result, got %q", result.Host)
	}
	if payload["host"] != "api.internal" {
		t.Fatalf("expected caller payload untouched, got %v", payload["host"])
	}
}

func TestDecodeNilPayloadFails(t *testing.T) {
	decoder := NewDecoder[serverSettings]()
	_, err := decoder.Decode(Context{Name: "server"}, nil)
	if err == nil || !strings.Contains(err.Error(), "payload is nil") {
		t.Fatalf("expected nil payload rejection, got %v", err)
	}
}

func TestDecodeJSONRejectsMalformedPayload(t *testing.T) {
	decoder := NewDecoder[serverSettings]()
	_, err := decoder.DecodeJSON(Context{Name: "server"}, []byte("{not json"))
	if err == nil || !strings.Contains(err.Error(), "parse JSON") {
		t.Fatalf("expected JSON parse failure, got %v", err)
	}
}

func TestDecodeYAMLRejectsMalformedPayload(t *testing.T) {
	decoder := NewDecoder[serverSettings]()
	_, err := decoder.DecodeYAML(Context{Name: "server"}, []byte("\tbad:"))
	if err == nil || !strings.Contains(err.Error(), "parse YAML") {
		t.Fatalf("expected YAML parse failure, got %v", err)
	}
}

func TestUseNumberPreservesRawNumbers(t *testing.T) {
	payload := map[string]any{"extras": map[string]any{"count": 3}}

	withNumbers := NewDecoder[flexibleSettings](WithUseNumber[flexibleSettings]())
	result, err := withNumbers.Decode(Context{Name: "flex"}, payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := result.Extras["count"].(json.Number); !ok {
		t.Fatalf("expected json.Number with UseNumber, got %T", result.Extras["count"])
	}

	plain := NewDecoder[flexibleSettings]()
	result, err = plain.Decode(Context{Name: "flex"}, payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := result.Extras["count"].(float64); !ok {
		t.Fatalf("expected float64 by default, got %T", result.Extras["count"])
	}
}

func TestWithDecoderConfigAppliesDirectly(t *testing.T) {
	decoder := NewDecoder[serverSettings](
		WithDecoderConfig[serverSettings](func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		}),
		WithDecoderConfig[serverSettings](nil),
	)

	_, err := decoder.Decode(Context{Name: "server"}, map[string]any{"host": "x", "bogus": 1})
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected custom decoder configuration to apply, got %v", err)
	}
}
