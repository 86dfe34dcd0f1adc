// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package api

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ReadOnlyFields are managed by the service and rejected on PUT.
var ReadOnlyFields = []string{"account_id", "svc_id", "update_dt"}

// ErrNotObject is returned when a service configuration is not a JSON object.
var ErrNotObject = errors.New("service configuration is not a JSON object")

const indent = "    "

// EmptyServiceConfig is the starting point for a service that does not exist yet.
func EmptyServiceConfig() []byte {
	return []byte("{\n" + indent + "\"experiments\": [],\n" + indent + "\"goals\": []\n}")
}

// EditableServiceConfig drops ReadOnlyFields from a configuration returned by
// the service and pretty-prints the rest, keeping the original key order.
func EditableServiceConfig(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}

	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(trimmed); err != nil {
		return nil, fmt.Errorf("failed to decode service configuration: %w", err)
	}
	for _, f := range ReadOnlyFields {
		fields.Delete(f)
	}

	var compact bytes.Buffer
	compact.WriteByte('{')
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		if compact.Len() > 1 {
			compact.WriteByte(',')
		}
		key, err := json.MarshalNoEscape(pair.Key)
		if err != nil {
			return nil, err
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(pair.Value)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("failed to format service configuration: %w", err)
	}
	return out.Bytes(), nil
}

// CompactJSON validates an edited document and strips insignificant
// whitespace without reordering anything.
func CompactJSON(doc []byte) ([]byte, error) {
	var probe any
	if err := json.Unmarshal(doc, &probe); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Compact(&out, doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ServiceIDs collects the svc_id of every configuration in a 'list services'
// response. Both a bare array and an object wrapping one are accepted.
func ServiceIDs(body []byte) []string {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil
	}

	var ids []string
	var collect func(v any, depth int)
	collect = func(v any, depth int) {
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				collect(item, depth)
			}
		case map[string]any:
			if id, ok := t["svc_id"].(string); ok {
				ids = append(ids, id)
				return
			}
			if depth == 0 {
				for _, nested := range t {
					collect(nested, depth+1)
				}
			}
		}
	}
	collect(doc, 0)
	slices.Sort(ids)
	return ids
}
