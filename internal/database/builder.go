package database

import (
	"encoding/json"
	"fmt"
)

// BuildNetwork converts a normalized, validated candidate into the canonical
// record. Numeric fields are coerced to int64; real-valued frequencies and
// timestamps are truncated.
func BuildNetwork(fields map[string]any) (*WiFiNetwork, error) {
	frequency, err := toInt64(fields["frequency"])
	if err != nil {
		return nil, fmt.Errorf("invalid frequency: %w", err)
	}
	rssi, err := toInt64(fields["rssi"])
	if err != nil {
		return nil, fmt.Errorf("invalid rssi: %w", err)
	}
	timestamp, err := toInt64(fields["timestamp"])
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	return &WiFiNetwork{
		BSSID:            toString(fields["bssid"]),
		SSID:             toString(fields["ssid"]),
		Frequency:        frequency,
		RSSI:             rssi,
		Timestamp:        timestamp,
		ChannelBandwidth: toString(fields["channel_bandwidth"]),
		Capabilities:     toString(fields["capabilities"]),
	}, nil
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	}
	return 0, fmt.Errorf("unexpected type %T", value)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", value)
}
