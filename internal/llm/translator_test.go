package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSpec(t *testing.T) {
	t.Run("happy: plain JSON object", func(t *testing.T) {
		spec, err := DecodeSpec(`{"metric":"tpv","group_by":["product"],"sort_order":"desc","limit":3,"explanation":"top products"}`)
		require.NoError(t, err)
		assert.Equal(t, "tpv", spec.Metric)
		assert.Equal(t, []string{"product"}, spec.GroupBy)
		require.NotNil(t, spec.Limit)
		assert.Equal(t, 3, *spec.Limit)
	})

	t.Run("happy: markdown fenced response", func(t *testing.T) {
		raw := "```json\n{\"metric\":\"average_ticket\",\"filters\":{\"entity\":\"business\"}}\n```"
		spec, err := DecodeSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, "average_ticket", spec.Metric)
		assert.Equal(t, "business", spec.Filters["entity"])
	})

	t.Run("happy: prose around the object is dropped", func(t *testing.T) {
		raw := "Sure, here is the query:\n{\"metric\":\"merchant_count\"}\nLet me know if you need anything else."
		spec, err := DecodeSpec(raw)
		require.NoError(t, err)
		assert.Equal(t, "merchant_count", spec.Metric)
	})

	t.Run("happy: legacy metric alias is accepted", func(t *testing.T) {
		spec, err := DecodeSpec(`{"metric":"transactions"}`)
		require.NoError(t, err)
		assert.Equal(t, "transactions", spec.Metric)
	})

	t.Run("bad: not JSON at all", func(t *testing.T) {
		_, err := DecodeSpec("I cannot answer that question.")
		assert.Error(t, err)
	})

	t.Run("bad: unrecognized metric", func(t *testing.T) {
		_, err := DecodeSpec(`{"metric":"revenue"}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "revenue")
	})

	t.Run("bad: missing metric", func(t *testing.T) {
		_, err := DecodeSpec(`{"group_by":["product"]}`)
		assert.Error(t, err)
	})
}

func TestCleanModelJSON(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"bare object", `{"metric":"tpv"}`, `{"metric":"tpv"}`},
		{"json fence", "```json\n{\"metric\":\"tpv\"}\n```", `{"metric":"tpv"}`},
		{"anonymous fence", "```\n{\"metric\":\"tpv\"}\n```", `{"metric":"tpv"}`},
		{"leading prose", "Here you go: {\"metric\":\"tpv\"}", `{"metric":"tpv"}`},
		{"trailing prose", "{\"metric\":\"tpv\"} Hope that helps!", `{"metric":"tpv"}`},
		{"whitespace padding", "  \n {\"metric\":\"tpv\"} \n ", `{"metric":"tpv"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanModelJSON(tc.in))
		})
	}
}
