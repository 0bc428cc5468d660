package pluginject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type circularA struct{}
type circularB struct{}

func newCircularA(b *circularB) *circularA { return &circularA{} }
func newCircularB(a *circularA) *circularB { return &circularB{} }

func TestResolutionErrors(t *testing.T) {
	t.Parallel()

	t.Run("should fail when nothing is registered for the key", func(t *testing.T) {
		t.Parallel()

		c := NewBuilder().Build()

		_, err := Resolve[IService](c)

		var resolutionError *ResolutionError
		require.ErrorAs(t, err, &resolutionError)
		assert.Equal(t, KeyFor[IService](), resolutionError.Key)
		assert.Contains(t, err.Error(), "no binding, discovered implementation or default")
	})

	t.Run("should fail on ambiguous constructors", func(t *testing.T) {
		t.Parallel()

		t.Run("none marked", func(t *testing.T) {
			t.Parallel()

			b := NewBuilder()
			Bind[IService](b, NewService, NewOtherService)
			c := b.Build()

			_, err := Resolve[IService](c)
			require.ErrorContains(t, err, "ambiguous constructors")
		})

		t.Run("more than one marked", func(t *testing.T) {
			t.Parallel()

			b := NewBuilder()
			Bind[IService](b, Inject(NewService), Inject(NewOtherService))
			c := b.Build()

			_, err := Resolve[IService](c)
			require.ErrorContains(t, err, "ambiguous constructors")
		})

		t.Run("exactly one marked resolves", func(t *testing.T) {
			t.Parallel()

			b := NewBuilder()
			Bind[IService](b, NewService, Inject(NewOtherService))
			c := b.Build()

			service, err := Resolve[IService](c)
			require.NoError(t, err)
			assert.IsType(t, &OtherService{}, service)
		})
	})

	t.Run("should chain failures of nested parameter resolutions", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		Bind[Umm](b, NewMyUmm)
		c := b.Build()

		_, err := Resolve[Umm](c)

		var resolutionError *ResolutionError
		require.ErrorAs(t, err, &resolutionError)
		assert.Equal(t, KeyFor[Umm](), resolutionError.Key)

		// The inner failure names the unresolvable Thing.
		var inner *ResolutionError
		require.ErrorAs(t, resolutionError.Cause, &inner)
		assert.Equal(t, KeyFor[Thing](), inner.Key)
		assert.Contains(t, err.Error(), "pluginject.Thing")
	})

	t.Run("should wrap errors returned by constructors", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		Bind[IService](b, NewServiceError)
		c := b.Build()

		_, err := Resolve[IService](c)
		require.ErrorIs(t, err, customError)
	})

	t.Run("should detect circular dependencies", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		Bind[*circularA](b, newCircularA)
		Bind[*circularB](b, newCircularB)
		c := b.Build()

		_, err := Resolve[*circularA](c)
		require.ErrorContains(t, err, "circular dependency detected")
		require.ErrorContains(t, err, "pluginject.circularA -> *pluginject.circularB -> *pluginject.circularA")
	})

	t.Run("should not poison the cache on a failed construction", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		b := NewBuilder()
		Bind[IService](b, func() (IService, error) {
			attempts++
			if attempts == 1 {
				return nil, customError
			}
			return NewService(), nil
		})
		c := b.Build()

		_, err := Resolve[IService](c)
		require.ErrorIs(t, err, customError)

		service, err := Resolve[IService](c)
		require.NoError(t, err)
		require.NotNil(t, service)

		// And the retry result is now the singleton.
		again, err := Resolve[IService](c)
		require.NoError(t, err)
		require.Same(t, service, again)
		assert.Equal(t, 2, attempts)
	})

	t.Run("unrelated resolutions proceed after a failure", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		Bind[IService](b, NewServiceError)
		Bind[Thing](b, NewMyThing)
		c := b.Build()

		_, err := Resolve[IService](c)
		require.Error(t, err)

		thing, err := Resolve[Thing](c)
		require.NoError(t, err)
		require.NotNil(t, thing)
	})
}
