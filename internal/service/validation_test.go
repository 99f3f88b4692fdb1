package service

import (
	"testing"

	"github.com/fsdevblog/garant/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	cases := []struct {
		name    string
		network domain.NetworkType
		address string
		valid   bool
	}{
		{name: "tron", network: domain.NetworkTRC20, address: "TJRabPrwbZy45sbavfcjinPJC18kjpRTv8", valid: true},
		{name: "tron with zero", network: domain.NetworkTRC20, address: "TJRabPrwbZy45sbavfcjinPJC18kjpRTv0"},
		{name: "tron too short", network: domain.NetworkTRC20, address: "TJRabPrwbZy45sbavfcjinPJC18kjpRTv"},
		{name: "tron given eth", network: domain.NetworkTRC20, address: "0x52908400098527886E0F7030069857D2E4169EE7"},
		{name: "erc20", network: domain.NetworkERC20, address: "0x52908400098527886E0F7030069857D2E4169EE7", valid: true},
		{name: "bsc lowercase", network: domain.NetworkBSC, address: "0xde709f2102306220921060314715629080e2fb77", valid: true},
		{name: "bsc without prefix", network: domain.NetworkBSC, address: "de709f2102306220921060314715629080e2fb77"},
		{name: "empty", network: domain.NetworkERC20, address: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAddress(tc.network, tc.address)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidAddress)
		})
	}
}

func TestParseNetwork(t *testing.T) {
	n, err := ParseNetwork(" trc20 ")
	assert.NoError(t, err)
	assert.Equal(t, domain.NetworkTRC20, n)

	_, err = ParseNetwork("SOL")
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "network", valErr.Field)
}
