package session

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivoronin/prodfilter/internal/catalog"
)

var universe = []catalog.Operator{
	{ID: "equals", Text: "Equals"},
	{ID: "greater_than", Text: "Is greater than"},
	{ID: "less_than", Text: "Is less than"},
	{ID: "any", Text: "Has any value"},
	{ID: "none", Text: "Has no value"},
	{ID: "in", Text: "Is any of"},
	{ID: "contains", Text: "Contains"},
}

func pv(propertyID int, v catalog.Value) catalog.PropertyValue {
	return catalog.PropertyValue{PropertyID: propertyID, Value: v}
}

// newTestSession: Brand (1, closed set), Price (2, number), Category (3, free text).
func newTestSession(t *testing.T) *Session {
	t.Helper()

	props := []catalog.Property{
		{ID: 1, Name: "Brand", Type: catalog.TypeString, Values: []string{"Nike", "Adidas", "Puma"}},
		{ID: 2, Name: "Price", Type: catalog.TypeNumber},
		{ID: 3, Name: "Category", Type: catalog.TypeString},
	}
	products := []catalog.Product{
		{ID: 1, PropertyValues: []catalog.PropertyValue{
			pv(1, catalog.StringValue("Nike")), pv(2, catalog.NumberValue(100)), pv(3, catalog.StringValue("Shoes")),
		}},
		{ID: 2, PropertyValues: []catalog.PropertyValue{
			pv(1, catalog.StringValue("Adidas")), pv(2, catalog.NumberValue(150)), pv(3, catalog.StringValue("Clothing")),
		}},
		{ID: 3, PropertyValues: []catalog.PropertyValue{
			pv(1, catalog.StringValue("Puma")), pv(2, catalog.NumberValue(80)), pv(3, catalog.StringValue("Accessories")),
		}},
	}

	c, err := catalog.New(props, products, universe)
	require.NoError(t, err)

	l := logrus.New()
	l.SetOutput(io.Discard)
	return New(c, WithLogger(l))
}

func productIDs(products []catalog.Product) []int {
	ids := []int{}
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func operatorIDs(ops []catalog.Operator) []string {
	var ids []string
	for _, op := range ops {
		ids = append(ids, op.ID)
	}
	return ids
}

func TestInitialState(t *testing.T) {
	s := newTestSession(t)
	st := s.State()

	assert.True(t, st.Selection.Empty())
	assert.Empty(t, st.Operators)
	assert.Empty(t, st.PropertyValues)
	assert.Equal(t, []int{1, 2, 3}, productIDs(st.Products))
}

func TestSessionDiscreteEquals(t *testing.T) {
	s := newTestSession(t)

	st := s.ChooseProperty("1")
	require.NotNil(t, st.Selection.Property)
	assert.Equal(t, "Brand", st.Selection.Property.Name)
	assert.Equal(t, []string{"equals", "any", "none", "in", "contains"}, operatorIDs(st.Operators))
	assert.Equal(t, []string{"Nike", "Adidas", "Puma"}, st.PropertyValues)

	s.ChooseOperator("equals")
	st = s.ChooseValues([]string{"Nike"})

	assert.Equal(t, []int{1}, productIDs(st.Products))
	assert.Equal(t, []string{"Nike"}, st.Selection.Values)
}

func TestSessionNumericGreaterThan(t *testing.T) {
	s := newTestSession(t)

	s.ChooseProperty("2")
	s.ChooseOperator("greater_than")
	st := s.ChooseScalar("100")

	assert.Equal(t, []int{2}, productIDs(st.Products))
	require.NotNil(t, st.Selection.Scalar)
	assert.True(t, st.Selection.Scalar.IsNumber(), "scalar should be stored as a number")
	assert.True(t, st.Selection.Scalar.Equal(catalog.NumberValue(100)))
}

func TestSessionEmptyScalarRevertsImmediately(t *testing.T) {
	s := newTestSession(t)

	s.ChooseProperty("2")
	s.ChooseOperator("less_than")
	st := s.ChooseScalar("90")
	require.Equal(t, []int{3}, productIDs(st.Products))

	st = s.ChooseScalar("")
	assert.Equal(t, []int{1, 2, 3}, productIDs(st.Products))
	assert.Nil(t, st.Selection.Scalar)
	assert.Equal(t, "less_than", st.Selection.OperatorID, "operator survives an emptied input")
}

func TestSessionEmptyPropertyIsNoop(t *testing.T) {
	s := newTestSession(t)

	before := s.State()
	after := s.ChooseProperty("")
	assert.Equal(t, before, after)
	assert.Nil(t, after.Selection.Property)

	s.ChooseProperty("2")
	s.ChooseOperator("equals")
	before = s.State()
	assert.Equal(t, before, s.ChooseProperty(""))
	assert.Equal(t, before, s.ChooseProperty("  "))
}

func TestUnknownOrMalformedPropertyIsNoop(t *testing.T) {
	s := newTestSession(t)
	s.ChooseProperty("1")
	s.ChooseOperator("equals")
	before := s.ChooseValues([]string{"Puma"})

	assert.Equal(t, before, s.ChooseProperty("42"))
	assert.Equal(t, before, s.ChooseProperty("Brand"))
}

func TestSessionInScalar(t *testing.T) {
	s := newTestSession(t)

	s.ChooseProperty("3")
	s.ChooseOperator("in")
	st := s.ChooseScalar("Shoes, Clothing")

	assert.Equal(t, []int{1, 2}, productIDs(st.Products))
	require.NotNil(t, st.Selection.Scalar)
	assert.False(t, st.Selection.Scalar.IsNumber())
}

func TestSessionContainsIgnoresCase(t *testing.T) {
	s := newTestSession(t)

	s.ChooseProperty("3")
	s.ChooseOperator("contains")
	st := s.ChooseScalar("SHOE")

	assert.Equal(t, []int{1}, productIDs(st.Products))
}

func TestNumberInKeepsText(t *testing.T) {
	s := newTestSession(t)

	s.ChooseProperty("2")
	s.ChooseOperator("in")
	st := s.ChooseScalar("80, 150")

	assert.Equal(t, []int{2, 3}, productIDs(st.Products))
	require.NotNil(t, st.Selection.Scalar)
	assert.Equal(t, "80, 150", st.Selection.Scalar.String())
}

func TestZeroScalarIsHonoured(t *testing.T) {
	s := newTestSession(t)

	s.ChooseProperty("2")
	s.ChooseOperator("greater_than")
	st := s.ChooseScalar("0")

	require.NotNil(t, st.Selection.Scalar, "zero must count as a set scalar")
	assert.Equal(t, []int{1, 2, 3}, productIDs(st.Products))

	s.ChooseOperator("equals")
	st = s.ChooseScalar("0")
	assert.Empty(t, st.Products)
}

func TestUnparseableNumberRevertsToCatalog(t *testing.T) {
	s := newTestSession(t)

	s.ChooseProperty("2")
	s.ChooseOperator("greater_than")
	s.ChooseScalar("120")
	st := s.ChooseScalar("12abc")

	assert.Nil(t, st.Selection.Scalar)
	assert.Equal(t, []int{1, 2, 3}, productIDs(st.Products))
}

func TestInfiniteNumberRevertsToCatalog(t *testing.T) {
	for _, raw := range []string{"inf", "-Inf", "infinity"} {
		t.Run(raw, func(t *testing.T) {
			s := newTestSession(t)

			s.ChooseProperty("2")
			s.ChooseOperator("less_than")
			s.ChooseScalar("120")
			st := s.ChooseScalar(raw)

			assert.Nil(t, st.Selection.Scalar)
			assert.Equal(t, []int{1, 2, 3}, productIDs(st.Products))
		})
	}
}

func TestChangingPropertyClearsSelection(t *testing.T) {
	for _, op := range []string{"equals", "greater_than", "less_than", "any", "none", "in", "contains", ""} {
		t.Run("op="+op, func(t *testing.T) {
			s := newTestSession(t)
			s.ChooseProperty("2")
			s.ChooseOperator(op)
			s.ChooseScalar("100")
			s.ChooseValues([]string{"100"})

			st := s.ChooseProperty("1")
			assert.Empty(t, st.Selection.OperatorID)
			assert.Empty(t, st.Selection.Values)
			assert.Nil(t, st.Selection.Scalar)
			assert.Equal(t, 1, st.Selection.Property.ID)
		})
	}
}

func TestChangingOperatorClearsValues(t *testing.T) {
	s := newTestSession(t)
	s.ChooseProperty("1")
	s.ChooseOperator("in")
	filtered := s.ChooseValues([]string{"Nike", "Puma"})
	require.Equal(t, []int{1, 3}, productIDs(filtered.Products))

	st := s.ChooseOperator("equals")
	assert.Empty(t, st.Selection.Values)
	assert.Nil(t, st.Selection.Scalar)
	assert.Equal(t, "equals", st.Selection.OperatorID)
	assert.Equal(t, []int{1, 3}, productIDs(st.Products), "products stay until the next value change")

	st = s.ChooseOperator("")
	assert.Empty(t, st.Selection.OperatorID)
}

func TestRecomputeNeedsCompleteSelection(t *testing.T) {
	s := newTestSession(t)

	// Values without an operator do not filter.
	s.ChooseProperty("1")
	st := s.ChooseValues([]string{"Nike"})
	assert.Equal(t, []int{1, 2, 3}, productIDs(st.Products))

	// Emptying the values keeps the previous list.
	s.ChooseOperator("equals")
	st = s.ChooseValues([]string{"Adidas"})
	require.Equal(t, []int{2}, productIDs(st.Products))
	st = s.ChooseValues(nil)
	assert.Equal(t, []int{2}, productIDs(st.Products))
}

func TestChooseValuesDropsDuplicates(t *testing.T) {
	s := newTestSession(t)
	s.ChooseProperty("1")
	s.ChooseOperator("in")
	st := s.ChooseValues([]string{"Puma", "Nike", "Puma"})

	assert.Equal(t, []string{"Puma", "Nike"}, st.Selection.Values)
	assert.Equal(t, []int{1, 3}, productIDs(st.Products))
}

func TestClearIsIdempotent(t *testing.T) {
	s := newTestSession(t)
	s.ChooseProperty("1")
	s.ChooseOperator("equals")
	s.ChooseValues([]string{"Nike"})

	once := s.Clear()
	twice := s.Clear()

	assert.Equal(t, once, twice)
	assert.True(t, once.Selection.Empty())
	assert.Empty(t, once.Operators)
	assert.Empty(t, once.PropertyValues)
	assert.Equal(t, []int{1, 2, 3}, productIDs(once.Products))
}

func TestStateIsACopy(t *testing.T) {
	s := newTestSession(t)
	s.ChooseProperty("1")
	s.ChooseOperator("equals")
	st := s.ChooseValues([]string{"Nike"})

	st.Selection.Values[0] = "Puma"
	st.Selection.Property.Name = "changed"
	st.PropertyValues[0] = "changed"
	st.Products[0].ID = 99

	fresh := s.State()
	assert.Equal(t, []string{"Nike"}, fresh.Selection.Values)
	assert.Equal(t, "Brand", fresh.Selection.Property.Name)
	assert.Equal(t, "Nike", fresh.PropertyValues[0])
	assert.Equal(t, []int{1}, productIDs(fresh.Products))
}
