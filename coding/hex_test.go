package coding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tessellated-io/conveyor/coding"
)

func TestDecodeHex(t *testing.T) {
	expected := []byte{0x01, 0x02, 0x03, 0x04, 0xa, 0xb}

	cases := []string{
		"010203040a0b",
		"0x010203040a0b",
		"0X010203040A0B",
		" 0x010203040a0b\n",
	}

	for _, in := range cases {
		decoded, err := coding.DecodeHex(in)
		assert.Nil(t, err, "should not have an error")
		assert.Equal(t, expected, decoded, "unexpected decoded value")
	}
}

func TestNormalizeHex(t *testing.T) {
	input := []byte{0x00, 0x01, 0x10, 0x11}

	normalized := coding.NormalizeBytesToHex(input)

	assert.Equal(t, "0x00011011", normalized)
}

func TestTxHash(t *testing.T) {
	// sha256("")
	assert.Equal(t, "E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855", coding.TxHash([]byte{}))
	assert.Len(t, coding.TxHash([]byte("tx")), 64)
}

func TestPayloadFingerprint(t *testing.T) {
	assert.Equal(t, "[]", coding.PayloadFingerprint(nil))
	assert.Equal(t, "[0102]", coding.PayloadFingerprint([]byte{0x01, 0x02}))
	assert.Equal(t, "[01020304...090a0b0c]", coding.PayloadFingerprint([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}))
}
