package io

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteU64LE(t *testing.T) {
	var (
		val     uint64 = 0xbadc0de15a11dead
		bin            = []byte{0xad, 0xde, 0x11, 0x5a, 0xe1, 0x0d, 0xdc, 0xba}
	)
	bw := NewBufBinWriter()
	bw.WriteU64LE(val)
	assert.Nil(t, bw.Error())
	assert.Equal(t, bin, bw.Bytes())

	br := NewBinReaderFromBuf(bin)
	assert.Equal(t, val, br.ReadU64LE())
	assert.Nil(t, br.Err)
}

func TestWriteU32LE(t *testing.T) {
	var val uint32 = 0xdeadbeef
	bw := NewBufBinWriter()
	bw.WriteU32LE(val)
	br := NewBinReaderFromBuf(bw.Bytes())
	assert.Equal(t, val, br.ReadU32LE())
	assert.Nil(t, br.Err)
}

func TestWriteU16BE(t *testing.T) {
	var val uint16 = 0xbabe
	bw := NewBufBinWriter()
	bw.WriteU16BE(val)
	assert.Equal(t, []byte{0xba, 0xbe}, bw.Bytes())
	br := NewBinReaderFromBuf(bw.Bytes())
	assert.Equal(t, val, br.ReadU16BE())
}

func TestWriteBool(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteBool(true)
	bw.WriteBool(false)
	br := NewBinReaderFromBuf(bw.Bytes())
	assert.Equal(t, true, br.ReadBool())
	assert.Equal(t, false, br.ReadBool())
	assert.Nil(t, br.Err)
}

func TestReadLEErrors(t *testing.T) {
	bin := []byte{0x01}
	br := NewBinReaderFromBuf(bin)
	_ = br.ReadU64LE()
	assert.NotNil(t, br.Err)
	assert.Equal(t, uint64(0), br.ReadU64LE())
}

func TestWriteVarUintRoundTrip(t *testing.T) {
	for _, val := range []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 100000, 100000000000} {
		bw := NewBufBinWriter()
		bw.WriteVarUint(val)
		br := NewBinReaderFromBuf(bw.Bytes())
		require.Equal(t, val, br.ReadVarUint())
		require.Nil(t, br.Err)
	}
}

func TestWriteString(t *testing.T) {
	str := "hello oracle"
	bw := NewBufBinWriter()
	bw.WriteString(str)
	br := NewBinReaderFromBuf(bw.Bytes())
	require.Equal(t, str, br.ReadString())
	require.Nil(t, br.Err)
}

func TestBufBinWriterErr(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteU32LE(0)
	assert.Nil(t, bw.Error())

	bw.SetError(errors.New("oopsie"))
	res := bw.Bytes()
	assert.Nil(t, res)
	assert.NotNil(t, bw.Error())
}

func TestBufBinWriterReset(t *testing.T) {
	bw := NewBufBinWriter()
	for i := 0; i < 3; i++ {
		bw.WriteU32LE(uint32(i))
		assert.Nil(t, bw.Error())
		bw.Reset()
		assert.Nil(t, bw.Error())
		assert.Equal(t, 0, bw.Len())
	}
}

func TestBufBinWriter_Len(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteBytes([]byte{1})
	require.Equal(t, 1, bw.Len())
}
