package sysclip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	require.IsType(t, System{}, New(true))
	require.IsType(t, Nop{}, New(false))
	require.NoError(t, New(false).Copy("anything"))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Copy("one"))
	require.NoError(t, r.Copy("two"))
	require.Equal(t, []string{"one", "two"}, r.Copied)

	r.Err = errors.New("boom")
	require.Error(t, r.Copy("three"))
	require.Len(t, r.Copied, 2)
}
