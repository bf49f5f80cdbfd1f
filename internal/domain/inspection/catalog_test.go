package inspection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpecs() []CategorySpec {
	return []CategorySpec{
		{Name: "Pump", Points: []PointSpec{
			{Name: "P", Range: Between(10, 20)},
			{Name: "Q"},
		}},
		{Name: "Fan", Points: []PointSpec{
			{Name: "Speed", Range: Between(0, 3000)},
		}},
	}
}

func TestNewCatalog_Ordering(t *testing.T) {
	c, err := NewCatalog(testSpecs())
	require.NoError(t, err)

	assert.Equal(t, []string{"Pump", "Fan"}, c.Categories())
	assert.Equal(t, []Tag{"Pump - P", "Pump - Q", "Fan - Speed"}, c.Tags())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"TAG", "Pump - P", "Pump - Q", "Fan - Speed"}, c.HeaderColumn())

	pts := c.Points("Pump")
	require.Len(t, pts, 2)
	assert.Equal(t, "Q", pts[1].Name)
	assert.True(t, pts[1].IsBoolean())
	assert.Empty(t, c.Points("missing"))

	idx, err := c.TagIndex("Fan - Speed")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	specs := testSpecs()
	specs[0].Points = append(specs[0].Points, PointSpec{Name: "P", Range: Between(1, 2)})

	_, err := NewCatalog(specs)
	require.ErrorIs(t, err, ErrDuplicatePoint)

	_, err = NewCatalog(append(testSpecs(), CategorySpec{Name: "Pump"}))
	require.ErrorIs(t, err, ErrDuplicatePoint)
}

func TestNewCatalog_RejectsInvalid(t *testing.T) {
	_, err := NewCatalog([]CategorySpec{{Name: " "}})
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewCatalog([]CategorySpec{{Name: "A", Points: []PointSpec{{Name: ""}}}})
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewCatalog([]CategorySpec{{Name: "A", Points: []PointSpec{{Name: "x", Range: Between(5, 1)}}}})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestCatalog_RangeFor(t *testing.T) {
	c := MustCatalog(testSpecs())

	r, err := c.RangeFor("Pump - P")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, Range{Min: 10, Max: 20}, *r)

	r, err = c.RangeFor("Pump - Q")
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = c.RangeFor("Pump - Z")
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := MustCatalog(testSpecs())
	p, err := c.Lookup("Pump", "P")
	require.NoError(t, err)
	p.Range.Max = 999

	r, _ := c.RangeFor("Pump - P")
	assert.Equal(t, 20.0, r.Max)
}

func TestCatalog_RowOrderStableAcrossConstructions(t *testing.T) {
	a := MustCatalog(testSpecs())
	b := MustCatalog(testSpecs())
	for _, tag := range a.Tags() {
		ia, err := a.TagIndex(tag)
		require.NoError(t, err)
		ib, err := b.TagIndex(tag)
		require.NoError(t, err)
		assert.Equal(t, ia, ib, tag)
	}
}

func TestPlantCatalog(t *testing.T) {
	c := PlantCatalog()
	assert.Equal(t, 42, c.Len())
	assert.Len(t, c.Categories(), 6)
	assert.Len(t, c.Points("MAC B 空壓機"), 10)

	r, err := c.RangeFor(MakeTag("MAC A 空壓機", "TI11190 油溫"))
	require.NoError(t, err)
	assert.Equal(t, Range{Min: 50, Max: 65}, *r)

	p, err := c.Lookup("膨脹機 CEB", "LI3430 油液位")
	require.NoError(t, err)
	assert.True(t, p.IsBoolean())
}

func TestParseArea(t *testing.T) {
	a, err := ParseArea(" tn5 ", DefaultAreas)
	require.NoError(t, err)
	assert.Equal(t, Area("TN5"), a)
	assert.Equal(t, "TN5_Data", a.WorksheetTitle())

	_, err = ParseArea("TN9", DefaultAreas)
	assert.ErrorIs(t, err, ErrUnknownArea)
}
