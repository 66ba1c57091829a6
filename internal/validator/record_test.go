package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCandidate() map[string]any {
	return map[string]any{
		"bssid":     "AA:BB:CC:DD:EE:FF",
		"ssid":      "OfficeNet",
		"frequency": json.Number("5180"),
		"rssi":      json.Number("-65"),
		"timestamp": json.Number("1698115300"),
	}
}

func TestValidate(t *testing.T) {
	t.Run("ValidRecord", func(t *testing.T) {
		ok, reason := Validate(validCandidate())
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("MissingRequiredFields", func(t *testing.T) {
		for _, field := range RequiredFields {
			candidate := validCandidate()
			delete(candidate, field)

			ok, reason := Validate(candidate)
			assert.False(t, ok, "record without %s must fail", field)
			assert.Contains(t, reason, field)
		}
	})

	t.Run("EmptyBSSID", func(t *testing.T) {
		candidate := validCandidate()
		candidate["bssid"] = ""

		ok, _ := Validate(candidate)
		assert.False(t, ok)
	})

	t.Run("NonStringBSSID", func(t *testing.T) {
		candidate := validCandidate()
		candidate["bssid"] = json.Number("42")

		ok, _ := Validate(candidate)
		assert.False(t, ok)
	})

	t.Run("EmptySSIDAllowed", func(t *testing.T) {
		candidate := validCandidate()
		candidate["ssid"] = ""

		ok, _ := Validate(candidate)
		assert.True(t, ok)
	})

	t.Run("NonStringSSID", func(t *testing.T) {
		candidate := validCandidate()
		candidate["ssid"] = json.Number("7")

		ok, _ := Validate(candidate)
		assert.False(t, ok)
	})

	t.Run("ZeroFrequency", func(t *testing.T) {
		candidate := validCandidate()
		candidate["frequency"] = json.Number("0")

		ok, _ := Validate(candidate)
		assert.False(t, ok)
	})

	t.Run("RealFrequencyAllowed", func(t *testing.T) {
		candidate := validCandidate()
		candidate["frequency"] = json.Number("2412.5")

		ok, _ := Validate(candidate)
		assert.True(t, ok)
	})

	t.Run("PositiveRSSI", func(t *testing.T) {
		candidate := validCandidate()
		candidate["rssi"] = json.Number("1")

		ok, _ := Validate(candidate)
		assert.False(t, ok)
	})

	t.Run("NonIntegerRSSI", func(t *testing.T) {
		for _, literal := range []string{"-1.5", "2.0", "-3e1"} {
			candidate := validCandidate()
			candidate["rssi"] = json.Number(literal)

			ok, _ := Validate(candidate)
			assert.False(t, ok, "rssi %s must be rejected", literal)
		}
	})

	t.Run("ZeroRSSIAllowed", func(t *testing.T) {
		candidate := validCandidate()
		candidate["rssi"] = json.Number("0")

		ok, _ := Validate(candidate)
		assert.True(t, ok)
	})

	t.Run("ZeroTimestamp", func(t *testing.T) {
		candidate := validCandidate()
		candidate["timestamp"] = json.Number("0")

		ok, _ := Validate(candidate)
		assert.False(t, ok)
	})

	t.Run("DefaultedZerosStillFail", func(t *testing.T) {
		// Normalization fills null frequency/timestamp with 0, which must
		// not slip past the positivity checks.
		candidate := Normalize(map[string]any{
			"bssid":     "AA:BB:CC:DD:EE:FF",
			"ssid":      "OfficeNet",
			"frequency": nil,
			"rssi":      nil,
			"timestamp": nil,
		})

		ok, _ := Validate(candidate)
		assert.False(t, ok)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("Defaulting", func(t *testing.T) {
		record := Normalize(map[string]any{
			"bssid":     "",
			"ssid":      nil,
			"frequency": nil,
			"rssi":      nil,
			"timestamp": nil,
		})

		assert.Equal(t, map[string]any{
			"bssid":             DefaultBSSID,
			"ssid":              "",
			"frequency":         int64(0),
			"rssi":              int64(0),
			"timestamp":         int64(0),
			"channel_bandwidth": "",
			"capabilities":      "",
		}, record)
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		candidate := map[string]any{"bssid": "", "ssid": nil}
		Normalize(candidate)

		assert.Equal(t, "", candidate["bssid"])
		assert.Nil(t, candidate["ssid"])
	})

	t.Run("FillsMissingFields", func(t *testing.T) {
		record := Normalize(map[string]any{})

		for _, field := range allFields {
			require.Contains(t, record, field)
		}
		assert.Equal(t, "", record["bssid"])
		assert.Equal(t, int64(0), record["frequency"])
	})

	t.Run("AbsentBSSIDStaysInvalid", func(t *testing.T) {
		record := Normalize(map[string]any{
			"ssid":      "OfficeNet",
			"frequency": json.Number("2412"),
			"rssi":      json.Number("-50"),
			"timestamp": json.Number("1698115200"),
		})

		ok, reason := Validate(record)
		assert.False(t, ok)
		assert.Contains(t, reason, "bssid")
	})

	t.Run("Idempotence", func(t *testing.T) {
		candidates := []map[string]any{
			validCandidate(),
			{"bssid": "", "ssid": nil, "frequency": nil, "rssi": nil, "timestamp": nil},
			{"bssid": "AA:BB:CC:DD:EE:FF", "capabilities": nil, "extra": "kept"},
		}

		for _, candidate := range candidates {
			once := Normalize(candidate)
			twice := Normalize(once)
			assert.Equal(t, once, twice)
		}
	})

	t.Run("KeepsUnknownKeys", func(t *testing.T) {
		record := Normalize(map[string]any{"vendor": "acme", "bssid": "AA:BB:CC:DD:EE:FF"})
		assert.Equal(t, "acme", record["vendor"])
	})
}
