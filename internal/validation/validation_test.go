package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12345", "12345"},
		{"  12345  ", "12345"},
		{"12-345", "12345"},
		{"1 2 3 4 5", "12345"},
		{"No12345", "12345"},
		{"abc", ""},
		{"", ""},
		{"\t777\n", "777"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeCode(tc.in), "input %q", tc.in)
	}
}
