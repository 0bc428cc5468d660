package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/victormf2/pluginject"
	"github.com/victormf2/pluginject/internal/examples/gin/setup"
)

// Some of this code was taken from the GIN graceful shutdown example
// https://github.com/gin-gonic/examples/blob/9fd0db1d6a7cdfd8dd1e0b163146674ea9d4ecfd/graceful-shutdown/graceful-shutdown/notify-with-context/server.go
func main() {
	// First build the plugin registry and the container. Registrations are
	// separated in functions so they can be reused in tests.
	builder := pluginject.NewBuilder(
		pluginject.WithDiscovery(setup.NewRegistry()),
		pluginject.WithLogger(log.StandardLogger()),
	)
	setup.RegisterServices(builder)
	setup.RegisterHttpServer(builder)
	c := builder.Build()

	server := pluginject.MustResolve[*http.Server](c)

	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	// Listen for the interrupt signal.
	<-ctx.Done()

	// Restore default behavior on the interrupt signal and notify user of shutdown.
	stop()
	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
