package discoverer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJunitDiscoverer_DefaultPatterns(t *testing.T) {
	jd, err := NewJunitDiscoverer(nil)
	require.NoError(t, err)

	classes := []string{
		"ExampleTest",
		"TestUtils",
		"com.acme.OrderServiceTest",
		"com.acme.OrderServiceTests",
		"com.acme.LegacyTestCase",
		"com.acme.TestFixtures",
		"com.acme.OrderService",
		"com.acme.OrderServiceTest$Nested",
		"com.acme.OrderServiceTest$1",
		"com.acme.Testimonial",
		"com.acme.Contest",
		"com.acme.ExampleTest",
	}

	// matching is case-sensitive, so "Contest" is not a test
	result, err := jd.Discover(context.Background(), classes)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{
		"ExampleTest",
		"TestUtils",
		"com.acme.OrderServiceTest",
		"com.acme.OrderServiceTests",
		"com.acme.LegacyTestCase",
		"com.acme.TestFixtures",
		"com.acme.Testimonial",
		"com.acme.ExampleTest",
	}, result.Classes)
}

func TestJunitDiscoverer_CustomPatterns(t *testing.T) {
	jd, err := NewJunitDiscoverer(&JunitConfig{
		Include: []string{"com/acme/**/*Spec", "**/*IT"},
		Exclude: []string{"**/Abstract*"},
	})
	require.NoError(t, err)

	result, err := jd.Discover(context.Background(), []string{
		"com.acme.billing.InvoiceSpec",
		"com.acme.billing.AbstractSpec",
		"org.other.InvoiceSpec",
		"org.other.DatabaseIT",
		"org.other.Outer$DatabaseIT",
		"com.acme.OrderTest",
	})
	require.NoError(t, err)
	// an explicit exclude list replaces the nested class exclusion
	assert.Equal(t, []string{
		"com.acme.billing.InvoiceSpec",
		"org.other.DatabaseIT",
		"org.other.Outer$DatabaseIT",
	}, result.Classes)
}

func TestJunitDiscoverer_EmptyExcludeKeepsNestedClasses(t *testing.T) {
	jd, err := NewJunitDiscoverer(&JunitConfig{Exclude: []string{}})
	require.NoError(t, err)

	result, err := jd.Discover(context.Background(), []string{"a.Outer$InnerTest", "a.Helper"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.Outer$InnerTest"}, result.Classes)
}

func TestJunitDiscoverer_KeepsDuplicates(t *testing.T) {
	jd, err := NewJunitDiscoverer(nil)
	require.NoError(t, err)

	result, err := jd.Discover(context.Background(), []string{"a.FooTest", "a.FooTest"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.FooTest", "a.FooTest"}, result.Classes)
}

func TestJunitDiscoverer_PatternsAreCopied(t *testing.T) {
	defaults, err := NewJunitDiscoverer(nil)
	require.NoError(t, err)

	cfg := &JunitConfig{Include: []string{"**/*IT"}, Exclude: []string{"**/Skip*"}}
	custom, err := NewJunitDiscoverer(cfg)
	require.NoError(t, err)

	saved := DefaultIncludes[1]
	DefaultIncludes[1] = "**/*Nothing"
	t.Cleanup(func() { DefaultIncludes[1] = saved })
	cfg.Include[0] = "**/*Nothing"
	cfg.Exclude[0] = "**/*IT"

	result, err := defaults.Discover(context.Background(), []string{"a.FooTest"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.FooTest"}, result.Classes)

	result, err = custom.Discover(context.Background(), []string{"a.FooIT", "a.SkipIT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.FooIT"}, result.Classes)
}

func TestJunitDiscoverer_InvalidPattern(t *testing.T) {
	_, err := NewJunitDiscoverer(&JunitConfig{Include: []string{"**/[Test"}})
	assert.Error(t, err)
}

func TestJunitDiscoverer_Name(t *testing.T) {
	jd, err := NewJunitDiscoverer(nil)
	require.NoError(t, err)
	assert.Equal(t, "JunitDiscoverer", jd.Name())
}

func TestJunitConfig_GetDiscovererID(t *testing.T) {
	cfg := &JunitConfig{}
	assert.Equal(t, JunitDiscovererID, cfg.GetDiscovererID())
}
