package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveCode 验证各号段的前缀补全规则。
func TestResolveCode(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"600000", "sh.600000"},
		{"688001", "sh.688001"},
		{"900901", "sh.900901"},
		{"000651", "sz.000651"},
		{"300750", "sz.300750"},
		{"200011", "sz.200011"},
		{"430047", "bj.430047"},
		{"830799", "bj.830799"},
		{"870199", "bj.870199"},
	}

	for _, tc := range cases {
		got, err := ResolveCode(tc.input)
		require.NoError(t, err, "input=%s", tc.input)
		assert.Equal(t, tc.want, got)
	}
}

// TestResolveCodeIdempotent 验证已带前缀的代码原样通过。
func TestResolveCodeIdempotent(t *testing.T) {
	got, err := ResolveCode("sz.000651")
	require.NoError(t, err)
	assert.Equal(t, "sz.000651", got)

	// 两次解析结果一致
	again, err := ResolveCode(got)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

// TestResolveCodeUnresolvable 验证无法识别的代码返回错误。
func TestResolveCodeUnresolvable(t *testing.T) {
	for _, input := range []string{"999999", "123456", "abc123", "60000", "6000001", "xx.600000", ""} {
		_, err := ResolveCode(input)
		require.Error(t, err, "input=%q", input)
		assert.ErrorIs(t, err, ErrUnresolvableCode)
	}
}
