package transaction

import (
	"math/rand"
	"testing"

	"github.com/Tommo-L/neo-modules/pkg/io"
	"github.com/stretchr/testify/require"
)

func encodeDecode(t *testing.T, r *OracleResponse) *OracleResponse {
	bw := io.NewBufBinWriter()
	r.EncodeBinary(bw.BinWriter)
	require.NoError(t, bw.Error())

	out := new(OracleResponse)
	br := io.NewBinReaderFromBuf(bw.Bytes())
	out.DecodeBinary(br)
	return out
}

func TestOracleResponse_EncodeBinary(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := &OracleResponse{
			ID:     rand.Uint64(),
			Code:   Success,
			Result: []byte{1, 2, 3, 4, 5},
		}
		bw := io.NewBufBinWriter()
		r.EncodeBinary(bw.BinWriter)
		out := new(OracleResponse)
		br := io.NewBinReaderFromBuf(bw.Bytes())
		out.DecodeBinary(br)
		require.NoError(t, br.Err)
		require.Equal(t, r, out)
	})
	t.Run("ErrorCodes", func(t *testing.T) {
		codes := []OracleResponseCode{NotFound, Timeout, Forbidden, Error}
		for _, c := range codes {
			r := &OracleResponse{
				ID:     rand.Uint64(),
				Code:   c,
				Result: []byte{},
			}
			bw := io.NewBufBinWriter()
			r.EncodeBinary(bw.BinWriter)
			out := new(OracleResponse)
			br := io.NewBinReaderFromBuf(bw.Bytes())
			out.DecodeBinary(br)
			require.NoError(t, br.Err)
			require.Equal(t, r, out)
		}
	})
	t.Run("Error", func(t *testing.T) {
		t.Run("InvalidCode", func(t *testing.T) {
			r := &OracleResponse{ID: rand.Uint64(), Code: 0x42, Result: []byte{}}
			bw := io.NewBufBinWriter()
			r.EncodeBinary(bw.BinWriter)

			out := new(OracleResponse)
			br := io.NewBinReaderFromBuf(bw.Bytes())
			out.DecodeBinary(br)
			require.ErrorIs(t, br.Err, ErrInvalidResponseCode)
		})
		t.Run("InvalidResult", func(t *testing.T) {
			r := &OracleResponse{ID: rand.Uint64(), Code: Error, Result: []byte{1}}
			bw := io.NewBufBinWriter()
			r.EncodeBinary(bw.BinWriter)

			out := new(OracleResponse)
			br := io.NewBinReaderFromBuf(bw.Bytes())
			out.DecodeBinary(br)
			require.ErrorIs(t, br.Err, ErrInvalidResult)
		})
	})
}

func TestOracleResponse_toJSONMap(t *testing.T) {
	r := &OracleResponse{ID: rand.Uint64(), Code: Success, Result: []byte{1}}
	m := map[string]any{}
	r.toJSONMap(m)
	require.Equal(t, r.ID, m["id"])
	require.Equal(t, "Success", m["code"])
}

func TestOracleResponseCode_IsValid(t *testing.T) {
	require.True(t, Success.IsValid())
	require.True(t, ConsensusUnreachable.IsValid())
	require.False(t, OracleResponseCode(0x42).IsValid())
}
