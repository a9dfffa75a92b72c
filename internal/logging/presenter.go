// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// PresentValue formats a function result for user display.
// Strings print bare, everything else as compact JSON, falling back to %v
// for values JSON cannot represent (NaN, infinities).
func PresentValue(context string, v any) string {
	return fmt.Sprintf("%s: %s", context, renderValue(v))
}

func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
