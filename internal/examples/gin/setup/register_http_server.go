package setup

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victormf2/pluginject"
	"github.com/victormf2/pluginject/internal/examples/gin/handlers"
	"github.com/victormf2/pluginject/internal/examples/gin/plugins"
)

func RegisterHttpServer(b *pluginject.Builder) {
	// The middleware chain is a multi binding: the slice parameter resolves
	// every discovered plugins.Middleware in priority order.
	pluginject.Bind[*gin.Engine](b, func(
		middlewares []plugins.Middleware,
		getUserByID *handlers.GetUserByIDHandler,
		createUser *handlers.CreateUserHandler,
		updateUser *handlers.UpdateUserHandler,
		deleteUser *handlers.DeleteUserHandler,
	) *gin.Engine {
		router := gin.New()
		router.Use(gin.Recovery())

		for _, middleware := range middlewares {
			router.Use(middleware.Handler())
		}

		router.GET("/users/:id", func(c *gin.Context) {
			input := &handlers.GetUserByIDInput{}
			err := c.ShouldBindUri(input)
			if err != nil {
				c.JSON(400, gin.H{"msg": err.Error()})
				return
			}

			output, err := getUserByID.Handle(input)
			if err != nil {
				if errors.Is(err, handlers.ErrUserNotFound) {
					c.JSON(404, gin.H{"msg": err.Error()})
				} else {
					c.JSON(500, gin.H{"msg": err.Error()})
				}
				return
			}

			c.JSON(http.StatusOK, output)
		})

		router.POST("/users", func(c *gin.Context) {
			input := &handlers.CreateUserInput{}
			err := c.ShouldBindJSON(input)
			if err != nil {
				c.JSON(400, gin.H{"msg": err.Error()})
				return
			}

			output, err := createUser.Handle(input)
			if err != nil {
				c.JSON(500, gin.H{"msg": err.Error()})
				return
			}

			c.JSON(http.StatusOK, output)
		})

		router.PUT("/users", func(c *gin.Context) {
			input := &handlers.UpdateUserInput{}
			err := c.ShouldBindJSON(input)
			if err != nil {
				c.JSON(400, gin.H{"msg": err.Error()})
				return
			}

			output, err := updateUser.Handle(input)
			if err != nil {
				c.JSON(500, gin.H{"msg": err.Error()})
				return
			}

			c.JSON(http.StatusOK, output)
		})

		router.DELETE("/users/:id", func(c *gin.Context) {
			input := &handlers.DeleteUserInput{}
			err := c.ShouldBindUri(input)
			if err != nil {
				c.JSON(400, gin.H{"msg": err.Error()})
				return
			}

			output, err := deleteUser.Handle(input)
			if err != nil {
				c.JSON(500, gin.H{"msg": err.Error()})
				return
			}

			c.JSON(http.StatusOK, output)
		})

		return router
	})

	pluginject.Bind[*http.Server](b, func(router *gin.Engine) *http.Server {
		server := &http.Server{
			Addr:    ":8080",
			Handler: router,
		}
		return server
	})
}
