package runtime

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Addrforge/constants"
	"Addrforge/logger"
)

// SetupGracefulShutdown closes ctx.ShutdownChan and ctx.DoneChan on
// SIGTERM, SIGINT or SIGQUIT. The returned context is cancelled at the
// same moment so blocking work can stop.
func SetupGracefulShutdown(ctx *AppContext) context.Context {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	runCtx, cancel := context.WithCancel(context.Background())

	go func() {
		select {
		case sig := <-sigChan:
			fmt.Print("\r\033[K")
			logger.LogHeaderStatus(ctx.LocalLog, constants.LogWarn,
				"Received signal %v, initiating shutdown...", sig)
			logger.PrintSeparator(constants.LogWarn)
			Shutdown(ctx)
		case <-ctx.ShutdownChan:
		}
		signal.Stop(sigChan)
		cancel()
	}()

	return runCtx
}

// Shutdown closes the shutdown channels once.
func Shutdown(ctx *AppContext) {
	ctx.CloseOnce.Do(func() {
		close(ctx.ShutdownChan)
		close(ctx.DoneChan)
	})
}
