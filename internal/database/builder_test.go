package database

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNetwork(t *testing.T) {
	t.Run("FullRecord", func(t *testing.T) {
		network, err := BuildNetwork(map[string]any{
			"bssid":             "AA:BB:CC:DD:EE:01",
			"ssid":              "OfficeNet",
			"frequency":         json.Number("5180"),
			"rssi":              json.Number("-65"),
			"timestamp":         json.Number("1698115300"),
			"channel_bandwidth": "80",
			"capabilities":      "WPA2-PSK",
		})
		require.NoError(t, err)

		assert.Equal(t, &WiFiNetwork{
			BSSID:            "AA:BB:CC:DD:EE:01",
			SSID:             "OfficeNet",
			Frequency:        5180,
			RSSI:             -65,
			Timestamp:        1698115300,
			ChannelBandwidth: "80",
			Capabilities:     "WPA2-PSK",
		}, network)
	})

	t.Run("RealFrequencyTruncates", func(t *testing.T) {
		network, err := BuildNetwork(map[string]any{
			"bssid":     "AA:BB:CC:DD:EE:01",
			"ssid":      "OfficeNet",
			"frequency": json.Number("2412.75"),
			"rssi":      int64(-65),
			"timestamp": 1698115300,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2412), network.Frequency)
	})

	t.Run("NativeIntTypes", func(t *testing.T) {
		network, err := BuildNetwork(map[string]any{
			"bssid":     "AA:BB:CC:DD:EE:01",
			"ssid":      "OfficeNet",
			"frequency": 5180,
			"rssi":      int64(-65),
			"timestamp": float64(1698115300),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5180), network.Frequency)
		assert.Equal(t, int64(-65), network.RSSI)
		assert.Equal(t, int64(1698115300), network.Timestamp)
	})

	t.Run("OptionalFieldsDefaultEmpty", func(t *testing.T) {
		network, err := BuildNetwork(map[string]any{
			"bssid":     "AA:BB:CC:DD:EE:01",
			"ssid":      "OfficeNet",
			"frequency": int64(5180),
			"rssi":      int64(-65),
			"timestamp": int64(1698115300),
		})
		require.NoError(t, err)
		assert.Empty(t, network.ChannelBandwidth)
		assert.Empty(t, network.Capabilities)
	})

	t.Run("NonNumericFrequency", func(t *testing.T) {
		_, err := BuildNetwork(map[string]any{
			"bssid":     "AA:BB:CC:DD:EE:01",
			"ssid":      "OfficeNet",
			"frequency": "fast",
			"rssi":      int64(-65),
			"timestamp": int64(1698115300),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid frequency")
	})
}
