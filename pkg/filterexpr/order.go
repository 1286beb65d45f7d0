package filterexpr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

type orderParams struct {
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

// parseOrderBy accepts up to two "key [asc|desc]" segments against the
// schema whitelist, falling back to the schema defaults.
func parseOrderBy(raw string, schema OrderSchema) (orderParams, error) {
	if schema.DefaultPrimary == "" || schema.FallbackKey == "" {
		return orderParams{}, errors.New("order schema requires default and fallback keys")
	}
	if _, ok := schema.Fields[schema.DefaultPrimary]; !ok {
		return orderParams{}, fmt.Errorf("order key %q missing from schema fields", schema.DefaultPrimary)
	}
	if _, ok := schema.Fields[schema.FallbackKey]; !ok {
		return orderParams{}, fmt.Errorf("fallback order key %q missing from schema fields", schema.FallbackKey)
	}

	ord := orderParams{
		PrimaryKey:    schema.DefaultPrimary,
		PrimaryDesc:   schema.DefaultPrimaryDesc,
		SecondaryKey:  schema.FallbackKey,
		SecondaryDesc: schema.FallbackDesc,
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ord, nil
	}

	idx := 0
	seen := make(map[string]struct{})
	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if _, ok := schema.Fields[key]; !ok {
			return orderParams{}, fmt.Errorf("field %q cannot be used for ordering", key)
		}
		if _, dup := seen[key]; dup {
			return orderParams{}, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = struct{}{}

		var desc bool
		switch {
		case len(parts) == 1:
		case len(parts) == 2 && strings.EqualFold(parts[1], "asc"):
		case len(parts) == 2 && strings.EqualFold(parts[1], "desc"):
			desc = true
		default:
			return orderParams{}, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		switch idx {
		case 0:
			ord.PrimaryKey = key
			ord.PrimaryDesc = desc
		case 1:
			ord.SecondaryKey = key
			ord.SecondaryDesc = desc
		default:
			return orderParams{}, errors.New("order_by supports at most two keys")
		}
		idx++
	}

	// Keep the tiebreaker distinct from the primary key.
	if ord.SecondaryKey == ord.PrimaryKey {
		for key := range schema.Fields {
			if key != ord.PrimaryKey {
				ord.SecondaryKey = key
				ord.SecondaryDesc = false
				break
			}
		}
		if ord.SecondaryKey == ord.PrimaryKey {
			return orderParams{}, errors.New("order schema requires at least two distinct keys")
		}
	}
	return ord, nil
}

func applyOrder(dest reflect.Value, ord orderParams) error {
	set := func(name string, value any) error {
		field := dest.FieldByName(name)
		if !field.IsValid() {
			return fmt.Errorf("params struct %s has no field named %q", dest.Type(), name)
		}
		if !field.CanSet() {
			return fmt.Errorf("cannot set field %q on params struct", name)
		}
		rv := reflect.ValueOf(value)
		if !rv.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("field %q must be %s-compatible", name, rv.Type())
		}
		field.Set(rv.Convert(field.Type()))
		return nil
	}

	if err := set("PrimaryKey", ord.PrimaryKey); err != nil {
		return err
	}
	if err := set("PrimaryDesc", ord.PrimaryDesc); err != nil {
		return err
	}
	if err := set("SecondaryKey", ord.SecondaryKey); err != nil {
		return err
	}
	return set("SecondaryDesc", ord.SecondaryDesc)
}
