package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestPause_ConsumesSingleByte(t *testing.T) {
	in := strings.NewReader("xyz")
	var out bytes.Buffer

	require.NoError(t, Pause(in, &out))
	assert.Equal(t, Message+"\n", out.String())
	assert.Equal(t, 2, in.Len())
}

func TestPause_EOF(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Pause(strings.NewReader(""), &out))
	assert.Contains(t, out.String(), Message)
}

func TestPause_ReadError(t *testing.T) {
	err := Pause(failingReader{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read keypress")
}
