package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOracleRequestFields(t *testing.T) {
	filter := "$.price"
	r := &OracleRequest{
		GasForResponse:   12345,
		URL:              "https://get.value",
		Filter:           &filter,
		CallbackMethod:   "method",
		UserData:         []byte{1, 2, 3},
	}
	require.Equal(t, "https://get.value", r.URL)
	require.Equal(t, "$.price", *r.Filter)
	require.Equal(t, uint64(12345), r.GasForResponse)
}

func TestOracleRequestNilFilter(t *testing.T) {
	r := &OracleRequest{URL: "https://x"}
	require.Nil(t, r.Filter)
}
