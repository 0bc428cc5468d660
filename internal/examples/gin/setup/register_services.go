package setup

import (
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/victormf2/pluginject"
	"github.com/victormf2/pluginject/internal/examples/gin/handlers"
	"github.com/victormf2/pluginject/internal/examples/gin/infra"
	"github.com/victormf2/pluginject/internal/examples/gin/plugins"
	"github.com/victormf2/pluginject/internal/examples/gin/repositories"
)

// NewRegistry builds the plugin registry the application discovers
// implementations from.
func NewRegistry() *pluginject.Registry {
	registry := pluginject.NewRegistry()
	plugins.RegisterMiddlewarePlugins(registry)
	return registry
}

// RegisterServices binds the application services. You can do the bindings
// inline, but it's usually better to separate that logic in a function, so
// you can use it in your tests.
func RegisterServices(b *pluginject.Builder) {

	pluginject.BindInstance(b, infra.DBConfig{
		Path: "./database.db",
	})
	pluginject.BindDefault[*logrus.Entry](b, func() *logrus.Entry {
		return logrus.NewEntry(logrus.StandardLogger())
	})
	pluginject.Bind[*sql.DB](b, infra.NewDB)
	pluginject.Bind[repositories.IUserRepository](b, repositories.NewUserRepository)
	pluginject.Bind[*handlers.GetUserByIDHandler](b, handlers.NewGetUserByIDHandler)
	pluginject.Bind[*handlers.CreateUserHandler](b, handlers.NewCreateUserHandler)
	pluginject.Bind[*handlers.UpdateUserHandler](b, handlers.NewUpdateUserHandler)
	pluginject.Bind[*handlers.DeleteUserHandler](b, handlers.NewDeleteUserHandler)
}
