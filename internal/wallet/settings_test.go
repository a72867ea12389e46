package wallet

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettings(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		settings, err := NewSettings(config.WalletConfig{
			AppName:    "FUDSCAN",
			AppLogoURL: "https://fudscan.ai/logo.png",
			Preference: "smartWalletOnly",
			Chains:     []uint64{8453, 84532},
		})
		require.NoError(t, err)

		assert.Equal(t, PreferenceSmartWalletOnly, settings.Preference)
		assert.Equal(t, []Chain{{ID: 8453, Name: "Base"}, {ID: 84532, Name: "Base Sepolia"}}, settings.Chains)
	})

	tests := []struct {
		name    string
		cfg     config.WalletConfig
		wantErr string
	}{
		{
			name:    "missing app name",
			cfg:     config.WalletConfig{Preference: "all", Chains: []uint64{1}},
			wantErr: "app name",
		},
		{
			name:    "relative logo url",
			cfg:     config.WalletConfig{AppName: "x", AppLogoURL: "/logo.png", Preference: "all", Chains: []uint64{1}},
			wantErr: "logo url",
		},
		{
			name:    "unknown preference",
			cfg:     config.WalletConfig{AppName: "x", Preference: "hardwareOnly", Chains: []uint64{1}},
			wantErr: "connector preference",
		},
		{
			name:    "no chains",
			cfg:     config.WalletConfig{AppName: "x", Preference: "all"},
			wantErr: "at least one chain",
		},
		{
			name:    "unknown chain",
			cfg:     config.WalletConfig{AppName: "x", Preference: "eoaOnly", Chains: []uint64{314}},
			wantErr: "unsupported chain id 314",
		},
		{
			name:    "duplicate chain",
			cfg:     config.WalletConfig{AppName: "x", Preference: "all", Chains: []uint64{8453, 8453}},
			wantErr: "duplicate chain id 8453",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSettings(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestControllerGetConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	settings, err := NewSettings(config.WalletConfig{AppName: "FUDSCAN", Preference: "all", Chains: []uint64{8453}})
	require.NoError(t, err)

	router := gin.New()
	NewController(settings).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/wallet/config", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var got Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *settings, got)
}
