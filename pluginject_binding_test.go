package pluginject

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the correct type", func(t *testing.T) {
		t.Parallel()

		testData := []struct {
			name        string
			constructor any
		}{
			{
				name:        "safe constructor",
				constructor: NewService,
			},
			{
				name:        "unsafe constructor",
				constructor: NewServiceUnsafe,
			},
		}

		for _, tt := range testData {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				b := NewBuilder()
				Bind[IService](b, tt.constructor)
				c := b.Build()

				service, err := Resolve[IService](c)
				require.NoError(t, err)

				assert.IsType(t, &Service{}, service)
				assert.Equal(t, 12, service.GetValue())
			})
		}
	})

	t.Run("should resolve the same instance on every request", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		Bind[IService](b, NewService)
		c := b.Build()

		first, err := Resolve[IService](c)
		require.NoError(t, err)
		second, err := Resolve[IService](c)
		require.NoError(t, err)

		require.Same(t, first, second)
	})

	t.Run("should overwrite a previous binding for the same key", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		Bind[IService](b, NewService)
		Bind[IService](b, NewOtherService)
		c := b.Build()

		service, err := Resolve[IService](c)
		require.NoError(t, err)

		assert.IsType(t, &OtherService{}, service)
	})

	t.Run("should win over discovery and default", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()
		RegisterPlugin[Thing](registry, NewThingFromPluginConfig)

		b := NewBuilder(WithDiscovery(registry))
		Bind[Thing](b, NewMyThing)
		BindDefault[Thing](b, NewMyThing)
		c := b.Build()

		thing, err := Resolve[Thing](c)
		require.NoError(t, err)

		assert.IsType(t, &MyThing{}, thing)
	})

	t.Run("should panic when the constructor is not a function", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		require.Panics(t, func() {
			Bind[IService](b, 42)
		})
	})

	t.Run("should panic when the constructor returns another type", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		require.Panics(t, func() {
			Bind[IService](b, NewMyThing)
		})
	})

	t.Run("should panic when the builder is reused after Build", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		b.Build()

		require.Panics(t, func() {
			Bind[IService](b, NewService)
		})
	})
}

func TestBindInstance(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the exact value", func(t *testing.T) {
		t.Parallel()

		injectedValue := NewService()

		b := NewBuilder()
		BindInstance(b, injectedValue)
		c := b.Build()

		service, err := Resolve[IService](c)
		require.NoError(t, err)

		require.Same(t, injectedValue, service)
	})

	t.Run("should inject the value into dependent constructors", func(t *testing.T) {
		t.Parallel()

		injectedThing := NewMyThing()

		b := NewBuilder()
		BindInstance(b, injectedThing)
		Bind[Umm](b, NewMyUmm)
		c := b.Build()

		umm, err := Resolve[Umm](c)
		require.NoError(t, err)

		require.Same(t, injectedThing, umm.Thing())
	})
}

func TestContainerResolution(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the container itself", func(t *testing.T) {
		t.Parallel()

		c := NewBuilder().Build()

		container, err := Resolve[*Container](c)
		require.NoError(t, err)

		require.Same(t, c, container)
	})

	t.Run("should inject the container into constructors", func(t *testing.T) {
		t.Parallel()

		type serviceWithContainer struct {
			container *Container
		}

		b := NewBuilder()
		Bind[*serviceWithContainer](b, func(container *Container) *serviceWithContainer {
			return &serviceWithContainer{container: container}
		})
		c := b.Build()

		service, err := Resolve[*serviceWithContainer](c)
		require.NoError(t, err)

		require.Same(t, c, service.container)
	})
}

func TestMustResolve(t *testing.T) {
	t.Parallel()

	t.Run("should return the instance", func(t *testing.T) {
		t.Parallel()

		b := NewBuilder()
		Bind[IService](b, NewService)
		c := b.Build()

		service := MustResolve[IService](c)
		assert.IsType(t, &Service{}, service)
	})

	t.Run("should panic on a missing provision", func(t *testing.T) {
		t.Parallel()

		c := NewBuilder().Build()

		require.Panics(t, func() {
			MustResolve[IService](c)
		})
	})
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger := logrus.New()
	logger.Out = &buffer
	logger.SetLevel(logrus.DebugLevel)

	b := NewBuilder(WithLogger(logger))
	Bind[IService](b, NewService)
	c := b.Build()

	_, err := Resolve[IService](c)
	require.NoError(t, err)

	assert.Contains(t, buffer.String(), "resolving pluginject.IService via binding")
}
