package validator

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultBSSID is stored when a record arrives with an explicitly empty
// BSSID. Absent BSSIDs are not defaulted and fail validation instead.
const DefaultBSSID = "00:00:00:00:00:00"

// RequiredFields are the keys every record must carry to validate.
var RequiredFields = []string{"bssid", "frequency", "rssi", "ssid", "timestamp"}

// numericFields default to 0 when null or absent; all other known fields
// default to an empty string.
var numericFields = map[string]bool{
	"frequency": true,
	"rssi":      true,
	"timestamp": true,
}

var allFields = []string{
	"bssid", "frequency", "rssi", "ssid", "timestamp",
	"channel_bandwidth", "capabilities",
}

// Validate checks a candidate record for structural and semantic validity.
// Checks run in order and stop at the first failure; the returned reason
// names the failed check. Valid records return (true, "").
func Validate(record map[string]any) (bool, string) {
	for _, field := range RequiredFields {
		if _, ok := record[field]; !ok {
			return false, fmt.Sprintf("missing required field: %s", field)
		}
	}

	bssid, ok := record["bssid"].(string)
	if !ok || bssid == "" {
		return false, "bssid must be a non-empty string"
	}

	if _, ok := record["ssid"].(string); !ok {
		return false, "ssid must be a string"
	}

	frequency, ok := asNumber(record["frequency"])
	if !ok || frequency <= 0 {
		return false, "frequency must be a positive number"
	}

	rssi, ok := asInteger(record["rssi"])
	if !ok || rssi > 0 {
		return false, "rssi must be a non-positive integer"
	}

	timestamp, ok := asNumber(record["timestamp"])
	if !ok || timestamp <= 0 {
		return false, "timestamp must be a positive number"
	}

	return true, ""
}

// Normalize fills null and missing fields with type-appropriate defaults.
// The input map is never mutated. Normalization never invents a real BSSID:
// an absent one becomes an empty string, which still fails validation.
func Normalize(candidate map[string]any) map[string]any {
	record := make(map[string]any, len(candidate)+len(allFields))
	for key, value := range candidate {
		record[key] = value
	}

	for key, value := range record {
		switch {
		case value == nil && numericFields[key]:
			record[key] = int64(0)
		case value == nil && isStringField(key):
			record[key] = ""
		case value == "" && key == "bssid":
			record[key] = DefaultBSSID
		}
	}

	for _, field := range allFields {
		if _, ok := record[field]; ok {
			continue
		}
		if numericFields[field] {
			record[field] = int64(0)
		} else {
			record[field] = ""
		}
	}

	return record
}

func isStringField(key string) bool {
	switch key {
	case "ssid", "bssid", "channel_bandwidth", "capabilities":
		return true
	}
	return false
}

// asNumber accepts integer or real values: JSON numbers plus the Go numeric
// types produced by normalization defaults.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// asInteger accepts only integer values. JSON numbers count as integers iff
// their literal parses as one, so "-1.5" and "2.0" are both rejected.
func asInteger(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		i, err := strconv.ParseInt(v.String(), 10, 64)
		return i, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}
