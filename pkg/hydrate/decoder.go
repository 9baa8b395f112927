// Package hydrate decodes raw configuration payloads into typed values and
// assigns them into late statics in one validated step. Late statics
// overwhelmingly hold parsed configuration, so the decode, validate, assign
// pipeline lives next to the slots it feeds.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	late "github.com/goliatone/go-late"
)

// Context carries identifiers tied to a payload being hydrated. Name labels
// the slot or config domain in error messages; Source records where the
// payload came from (file path, environment, remote service).
type Context struct {
	Name   string
	Source string
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated value after decoding.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the default JSON decoding when provided.
type CustomDecoder[T any] func(Context, map[string]any) (T, error)

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts raw payloads into strongly typed values.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
	custom       CustomDecoder[T]
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithUseNumber enables json.Decoder.UseNumber during decoding.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

// WithDisallowUnknownFields invokes json.Decoder.DisallowUnknownFields.
// Because YAML payloads are funneled through the same decoding stage, the
// strictness applies to both formats.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithDecoderConfig allows callers to configure the json.Decoder directly.
func WithDecoderConfig[T any](configure func(*json.Decoder)) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if configure != nil {
			d.configureDec = append(d.configureDec, configure)
		}
	}
}

// WithCustomDecoder replaces the default JSON decoding path.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

// NewDecoder constructs a decoder from the supplied options.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into the target value applying configured hooks.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for %q", ctx.Name)
	}

	current, err := clonePayload(payload)
	if err != nil {
		return zero, fmt.Errorf("hydrate: clone payload for %q: %w", ctx.Name, err)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for %q failed: %w", ctx.Name, err)
		}
		if next != nil {
			current = next
		}
	}

	var result T
	if d.custom != nil {
		result, err = d.custom(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: custom decoder for %q failed: %w", ctx.Name, err)
		}
	} else {
		buffer, err := json.Marshal(current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: marshal payload for %q: %w", ctx.Name, err)
		}
		decoder := json.NewDecoder(bytes.NewReader(buffer))
		for _, configure := range d.configureDec {
			if configure != nil {
				configure(decoder)
			}
		}
		if err := decoder.Decode(&result); err != nil {
			return zero, fmt.Errorf("hydrate: decode %q: %w", ctx.Name, err)
		}
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for %q failed: %w", ctx.Name, err)
		}
	}

	return result, nil
}

// DecodeJSON parses data as a JSON object and decodes it through the same
// hook pipeline as Decode.
func (d *Decoder[T]) DecodeJSON(ctx Context, data []byte) (T, error) {
	var zero T
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return zero, fmt.Errorf("hydrate: parse JSON for %q: %w", ctx.Name, err)
	}
	return d.Decode(ctx, payload)
}

// DecodeYAML parses data as a YAML mapping and decodes it through the same
// hook pipeline as Decode.
func (d *Decoder[T]) DecodeYAML(ctx Context, data []byte) (T, error) {
	var zero T
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return zero, fmt.Errorf("hydrate: parse YAML for %q: %w", ctx.Name, err)
	}
	return d.Decode(ctx, payload)
}

// Assign decodes payload, validates the result, and assigns it into slot.
// Decode and validation failures return an error and leave the slot empty;
// assigning into an occupied slot panics per Static.Assign, since that is
// slot misuse rather than an environmental failure.
func (d *Decoder[T]) Assign(ctx Context, slot *late.Static[T], payload map[string]any) error {
	if slot == nil {
		return fmt.Errorf("hydrate: slot is required for %q", ctx.Name)
	}
	value, err := d.Decode(ctx, payload)
	if err != nil {
		return err
	}
	return assignValidated(ctx, slot, value)
}

// AssignJSON decodes data as JSON, validates the result, and assigns it into
// slot. See Assign for the failure contract.
func AssignJSON[T any](ctx Context, slot *late.Static[T], data []byte, opts ...DecoderOption[T]) error {
	if slot == nil {
		return fmt.Errorf("hydrate: slot is required for %q", ctx.Name)
	}
	value, err := NewDecoder(opts...).DecodeJSON(ctx, data)
	if err != nil {
		return err
	}
	return assignValidated(ctx, slot, value)
}

// AssignYAML decodes data as YAML, validates the result, and assigns it into
// slot. See Assign for the failure contract.
func AssignYAML[T any](ctx Context, slot *late.Static[T], data []byte, opts ...DecoderOption[T]) error {
	if slot == nil {
		return fmt.Errorf("hydrate: slot is required for %q", ctx.Name)
	}
	value, err := NewDecoder(opts...).DecodeYAML(ctx, data)
	if err != nil {
		return err
	}
	return assignValidated(ctx, slot, value)
}

func assignValidated[T any](ctx Context, slot *late.Static[T], value T) error {
	if err := validateValue(value); err != nil {
		return fmt.Errorf("hydrate: validate %q: %w", ctx.Name, err)
	}
	slot.Assign(value)
	return nil
}

// validateValue invokes the Validate method on the hydrated value when the
// type provides one, through either a value or a pointer receiver.
func validateValue[T any](value T) error {
	if v, ok := any(value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	if v, ok := any(&value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

func clonePayload(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}
