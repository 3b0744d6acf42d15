package tenant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in      string
		want    Key
		wantErr error
	}{
		{"9876543210", Key("9876543210"), nil},
		{"+91 98765 43210", Key("+919876543210"), nil},
		{"(040) 234-5678", Key("0402345678"), nil},
		{"", "", ErrMissing},
		{"   ", "", ErrMissing},
		{"12345", "", ErrInvalid},
		{"not-a-number", "", ErrInvalid},
		{"98765432109876543", "", ErrInvalid},
		{"98+76543210", "", ErrInvalid},
	}
	for _, c := range cases {
		got, err := Normalize(c.in)
		if c.wantErr != nil {
			require.ErrorIs(t, err, c.wantErr, "input %q", c.in)
			continue
		}
		require.NoError(t, err, "input %q", c.in)
		require.Equal(t, c.want, got)
	}
}
