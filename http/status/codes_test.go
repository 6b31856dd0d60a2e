package status

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	t.Run("known codes", func(t *testing.T) {
		require.Equal(t, Status("OK"), Text(OK))
		require.Equal(t, Status("Not Found"), Text(NotFound))
		require.Equal(t, Status("Method Not Allowed"), Text(MethodNotAllowed))
		require.Equal(t, Status("Internal Server Error"), Text(InternalServerError))
	})

	t.Run("unknown code", func(t *testing.T) {
		require.False(t, Known(299))
		require.Equal(t, Status("Unknown Status Code"), Text(299))
	})

	t.Run("every constant has a phrase", func(t *testing.T) {
		for code := range reasons {
			require.True(t, Known(code))
			require.NotEmpty(t, Text(code))
		}
	})
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, BadRequest, CodeOf(ErrMissingPath))
	require.Equal(t, RequestHeaderFieldsTooLarge, CodeOf(fmt.Errorf("read: %w", ErrHeaderFieldsTooLarge)))
	require.Equal(t, InternalServerError, CodeOf(ErrClientClosed))
	require.Equal(t, "404", NotFound.String())
}
