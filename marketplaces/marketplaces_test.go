package marketplaces

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByCountry(t *testing.T) {
	tests := []struct {
		name        string
		countryCode string
		wantID      string
		wantRegion  string
		wantErr     bool
	}{
		{
			name:        "US maps to north america",
			countryCode: "US",
			wantID:      "ATVPDKIKX0DER",
			wantRegion:  "us-east-1",
		},
		{
			name:        "DE maps to europe",
			countryCode: "DE",
			wantID:      "A1PA6795UKMFR9",
			wantRegion:  "eu-west-1",
		},
		{
			name:        "JP maps to far east",
			countryCode: "JP",
			wantID:      "A1VC38T7YXB528",
			wantRegion:  "us-west-2",
		},
		{
			name:        "unknown country",
			countryCode: "ZZ",
			wantErr:     true,
		},
		{
			name:        "lowercase is not accepted",
			countryCode: "us",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp, err := ByCountry(tt.countryCode)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, mp.ID)
			require.Equal(t, tt.wantRegion, mp.Region)
			require.Equal(t, tt.countryCode, mp.CountryCode)
			require.NotEmpty(t, mp.Endpoint)
		})
	}
}

func TestCountryCodes(t *testing.T) {
	codes := CountryCodes()
	require.Len(t, codes, 20)
	require.IsIncreasing(t, codes)

	// Every listed code resolves.
	for _, cc := range codes {
		_, err := ByCountry(cc)
		require.NoError(t, err)
	}
}

func TestEndpointsShareRegionGroups(t *testing.T) {
	us, err := ByCountry("US")
	require.NoError(t, err)
	ca, err := ByCountry("CA")
	require.NoError(t, err)

	require.Equal(t, us.Endpoint, ca.Endpoint)
	require.Equal(t, us.Region, ca.Region)
	require.NotEqual(t, us.ID, ca.ID)
}
