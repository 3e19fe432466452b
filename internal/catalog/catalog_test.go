package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueJSON(t *testing.T) {
	var values []Value
	require.NoError(t, json.Unmarshal([]byte(`["black", 5, 12.5, "5", 0]`), &values))
	require.Len(t, values, 5)

	assert.False(t, values[0].IsNumber())
	assert.Equal(t, "black", values[0].String())
	assert.True(t, values[1].IsNumber())
	assert.Equal(t, "5", values[1].String())
	assert.Equal(t, "12.5", values[2].String())
	assert.False(t, values[3].IsNumber(), "quoted numbers stay strings")
	assert.True(t, values[4].Equal(NumberValue(0)))

	out, err := json.Marshal(values)
	require.NoError(t, err)
	assert.JSONEq(t, `["black", 5, 12.5, "5", 0]`, string(out))

	var bad Value
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestValueNumber(t *testing.T) {
	tests := []struct {
		v      Value
		want   float64
		wantOK bool
	}{
		{NumberValue(3), 3, true},
		{StringValue("42"), 42, true},
		{StringValue(" 1.5 "), 1.5, true},
		{StringValue("-2"), -2, true},
		{StringValue(""), 0, false},
		{StringValue("abc"), 0, false},
		{StringValue("NaN"), 0, false},
		{StringValue("inf"), 0, false},
		{StringValue("-Infinity"), 0, false},
		{StringValue("12abc"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			got, ok := tt.v.Number()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"0", 0, true},
		{" 3.25\t", 3.25, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"   ", 0, false},
		{"nan", 0, false},
		{"inf", 0, false},
		{"+Inf", 0, false},
		{"infinity", 0, false},
		{"-inf", 0, false},
		{"1e999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, StringValue("5").Equal(StringValue("5")))
	assert.False(t, StringValue("5").Equal(NumberValue(5)))
	assert.True(t, NumberValue(5).Equal(NumberValue(5.0)))
}

func TestNewValidation(t *testing.T) {
	props := []Property{
		{ID: 1, Name: "Brand", Type: TypeString},
		{ID: 2, Name: "Price", Type: TypeNumber},
	}
	ops := []Operator{{ID: OpEquals, Text: "Equals"}}

	tests := []struct {
		name     string
		props    []Property
		products []Product
		ops      []Operator
		wantErr  string
	}{
		{name: "valid", props: props, ops: ops, products: []Product{
			{ID: 1, PropertyValues: []PropertyValue{{1, StringValue("Nike")}, {2, NumberValue(10)}}},
			{ID: 2},
		}},
		{name: "unknown type", props: []Property{{ID: 1, Name: "x", Type: "bool"}}, wantErr: "unknown type"},
		{name: "duplicate property", props: []Property{props[0], props[0]}, wantErr: "duplicate property"},
		{name: "duplicate operator", props: props, ops: []Operator{ops[0], ops[0]}, wantErr: "duplicate operator"},
		{name: "empty operator id", props: props, ops: []Operator{{Text: "?"}}, wantErr: "empty id"},
		{name: "duplicate product", props: props, products: []Product{{ID: 1}, {ID: 1}}, wantErr: "duplicate product"},
		{name: "unknown property reference", props: props, products: []Product{
			{ID: 1, PropertyValues: []PropertyValue{{9, StringValue("x")}}},
		}, wantErr: "unknown property 9"},
		{name: "two values for one property", props: props, products: []Product{
			{ID: 1, PropertyValues: []PropertyValue{{1, StringValue("a")}, {1, StringValue("b")}}},
		}, wantErr: "more than one value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.props, tt.products, tt.ops)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCatalog))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, c.Products(), len(tt.products))
		})
	}
}

func TestCatalogAccessorsCopy(t *testing.T) {
	props := []Property{{ID: 3, Name: "Category", Type: TypeEnumerated, Values: []string{"tools", "kitchenware"}}}
	products := []Product{{ID: 1, PropertyValues: []PropertyValue{{3, StringValue("tools")}}}}

	c, err := New(props, products, nil)
	require.NoError(t, err)

	// Mutating the inputs after New does not leak in.
	props[0].Values[0] = "changed"
	products[0].PropertyValues[0].Value = StringValue("changed")

	got := c.Properties()
	assert.Equal(t, "tools", got[0].Values[0])
	got[0].Values[0] = "changed again"

	p, ok := c.Property(3)
	require.True(t, ok)
	assert.Equal(t, []string{"tools", "kitchenware"}, p.Values)

	v, ok := c.Products()[0].ValueFor(3)
	require.True(t, ok)
	assert.Equal(t, "tools", v.String())

	_, ok = c.Property(4)
	assert.False(t, ok)

	byName, ok := c.PropertyByName(" CATEGORY ")
	require.True(t, ok)
	assert.Equal(t, 3, byName.ID)
}

type failingSource struct{ DocumentSource }

func (failingSource) Products(context.Context) ([]Product, error) {
	return nil, errors.New("boom")
}

func TestLoad(t *testing.T) {
	c, err := Load(context.Background(), Embedded())
	require.NoError(t, err)
	assert.Len(t, c.Properties(), 5)
	assert.Len(t, c.Operators(), 7)
	assert.Len(t, c.Products(), 6)

	_, err = Load(context.Background(), failingSource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load products: boom")
}
